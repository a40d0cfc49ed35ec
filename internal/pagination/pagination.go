// Package pagination provides shared offset pagination for list endpoints.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 200
)

// Page holds pagination state for a list request.
type Page struct {
	Number  int // current page (1-based)
	PerPage int
	Total   int // total row count (-1 if unknown)
}

// Offset returns the SQL OFFSET for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// TotalPages returns total pages, or -1 if total is unknown.
func (p Page) TotalPages() int {
	if p.Total < 0 {
		return -1
	}
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// FromRequest parses page and per_page from the query string.
func FromRequest(r *http.Request) Page {
	page := 1
	if s := r.URL.Query().Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			page = n
		}
	}

	perPage := DefaultPerPage
	if s := r.URL.Query().Get("per_page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= MaxPerPage {
			perPage = n
		}
	}

	return Page{Number: page, PerPage: perPage, Total: -1}
}

// Meta is the pagination envelope included in list responses.
type Meta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Meta builds the response envelope once Total is known.
func (p Page) Meta(total int) Meta {
	p.Total = total
	return Meta{
		Page:       p.Number,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: p.TotalPages(),
	}
}
