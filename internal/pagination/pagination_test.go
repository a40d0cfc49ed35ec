package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/documents", nil)
	pg := FromRequest(r)
	if pg.Number != 1 {
		t.Errorf("expected page 1, got %d", pg.Number)
	}
	if pg.PerPage != DefaultPerPage {
		t.Errorf("expected per_page %d, got %d", DefaultPerPage, pg.PerPage)
	}
}

func TestFromRequest_CustomPage(t *testing.T) {
	r := httptest.NewRequest("GET", "/documents?page=3&per_page=25", nil)
	pg := FromRequest(r)
	if pg.Number != 3 {
		t.Errorf("expected page 3, got %d", pg.Number)
	}
	if pg.PerPage != 25 {
		t.Errorf("expected per_page 25, got %d", pg.PerPage)
	}
	if pg.Offset() != 50 {
		t.Errorf("expected offset 50, got %d", pg.Offset())
	}
}

func TestFromRequest_InvalidPage(t *testing.T) {
	r := httptest.NewRequest("GET", "/documents?page=-1&per_page=abc", nil)
	pg := FromRequest(r)
	if pg.Number != 1 {
		t.Errorf("expected page 1, got %d", pg.Number)
	}
	if pg.PerPage != DefaultPerPage {
		t.Errorf("expected default per_page, got %d", pg.PerPage)
	}
}

func TestFromRequest_MaxPerPage(t *testing.T) {
	r := httptest.NewRequest("GET", "/documents?per_page=9999", nil)
	pg := FromRequest(r)
	if pg.PerPage != DefaultPerPage {
		t.Errorf("expected default per_page (clamped), got %d", pg.PerPage)
	}
}

func TestMeta(t *testing.T) {
	pg := Page{Number: 2, PerPage: 10, Total: -1}
	meta := pg.Meta(25)
	if meta.Total != 25 {
		t.Errorf("expected total 25, got %d", meta.Total)
	}
	if meta.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", meta.TotalPages)
	}
	if meta.Page != 2 || meta.PerPage != 10 {
		t.Errorf("unexpected meta: %+v", meta)
	}
}

func TestMeta_Empty(t *testing.T) {
	pg := Page{Number: 1, PerPage: 50}
	meta := pg.Meta(0)
	if meta.TotalPages != 1 {
		t.Errorf("expected 1 total page for empty list, got %d", meta.TotalPages)
	}
}
