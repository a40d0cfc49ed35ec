package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/exedev/contentd/internal/audit"
	"github.com/exedev/contentd/internal/blocks"
	"github.com/exedev/contentd/internal/pagination"
	"github.com/exedev/contentd/internal/render"
	"github.com/exedev/contentd/internal/store"
)

// titleCap bounds document titles the same way image captions are bounded.
const titleCap = 200

type documentRequest struct {
	Slug     string          `json:"slug"`
	Title    string          `json:"title"`
	Format   string          `json:"format"`
	Content  json.RawMessage `json:"content"`
	Markdown string          `json:"markdown"`
}

type documentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Format    string          `json:"format"`
	Body      json.RawMessage `json:"body,omitempty"`
	PlainText string          `json:"plain_text"`
	Chars     int             `json:"char_count"`
	Words     int             `json:"word_count"`
	HTML      string          `json:"html,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toResponse(d *store.Document, includeBody bool) documentResponse {
	resp := documentResponse{
		ID:        d.ID,
		Slug:      d.Slug,
		Title:     d.Title,
		Format:    string(d.BodyFormat),
		PlainText: d.PlainText,
		Chars:     d.CharCount,
		Words:     d.WordCount,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if includeBody {
		resp.Body = d.Body
		resp.HTML = d.HTML
	}
	return resp
}

// handleDocumentCreate ingests a raw content payload, derives every trusted
// view of it (sanitized body, HTML, plain text, counts), and persists only
// those. The raw payload is discarded once sanitization has run.
func (s *Server) handleDocumentCreate(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Slug == "" {
		respondError(w, http.StatusBadRequest, "slug is required")
		return
	}

	input := store.CreateInput{
		Slug:       req.Slug,
		Title:      blocks.CleanText(req.Title, titleCap),
		BodyFormat: store.BodyFormat(req.Format),
	}

	switch input.BodyFormat {
	case store.FormatMarkdown:
		html, err := render.RenderMarkdown(req.Markdown)
		if err != nil {
			slog.Error("markdown render failed", "error", err)
			respondError(w, http.StatusUnprocessableEntity, "could not render markdown")
			return
		}
		plain := blocks.CleanText(req.Markdown, 0)
		input.BodyMarkdown = req.Markdown
		input.HTML = html
		input.PlainText = plain
		input.CharCount = utf8.RuneCountInString(plain)
		input.WordCount = blocks.Words(plain)

	case store.FormatBlocks, "":
		input.BodyFormat = store.FormatBlocks
		sanitized := blocks.Sanitize(decodeContent(req.Content))
		body, err := json.Marshal(sanitized)
		if err != nil {
			slog.Error("marshal sanitized body failed", "error", err)
			respondError(w, http.StatusInternalServerError, "could not store content")
			return
		}
		html, err := s.renderer.RenderHTML(sanitized)
		if err != nil {
			slog.Error("block render failed", "error", err)
			respondError(w, http.StatusInternalServerError, "could not render content")
			return
		}
		plain := blocks.PlainTextBlocks(sanitized)
		input.Body = body
		input.HTML = html
		input.PlainText = plain
		input.CharCount = utf8.RuneCountInString(plain)
		input.WordCount = blocks.Words(plain)

	default:
		respondError(w, http.StatusBadRequest, "unknown format")
		return
	}

	doc, err := s.docs.Create(r.Context(), input)
	if errors.Is(err, store.ErrSlugConflict) {
		respondError(w, http.StatusConflict, "slug already exists")
		return
	}
	if err != nil {
		slog.Error("create document failed", "error", err, "slug", req.Slug)
		respondError(w, http.StatusInternalServerError, "could not create document")
		return
	}

	// Audit failures never fail the request.
	if err := s.audit.Log(r.Context(), audit.Entry{
		Action:     audit.ActionDocumentCreate,
		DocumentID: &doc.ID,
		IP:         r.RemoteAddr,
		Metadata:   map[string]any{"slug": doc.Slug, "format": string(doc.BodyFormat), "words": doc.WordCount},
	}); err != nil {
		slog.Error("audit log failed", "error", err, "id", doc.ID)
	}

	respondJSON(w, http.StatusCreated, toResponse(doc, true))
}

func (s *Server) handleDocumentList(w http.ResponseWriter, r *http.Request) {
	pg := pagination.FromRequest(r)
	docs, total, err := s.docs.List(r.Context(), pg)
	if err != nil {
		slog.Error("list documents failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not list documents")
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toResponse(&docs[i], false))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"documents":  out,
		"pagination": pg.Meta(total),
	})
}

func (s *Server) handleDocumentGet(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.documentFromPath(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toResponse(doc, true))
}

// handleDocumentHTML re-renders the stored sanitized body on every read.
// The stored HTML column is only a cache; rendering from the sanitized body
// keeps image URLs in line with the current backend configuration.
func (s *Server) handleDocumentHTML(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.documentFromPath(w, r)
	if !ok {
		return
	}

	var html string
	var err error
	switch doc.BodyFormat {
	case store.FormatMarkdown:
		html, err = render.RenderMarkdown(doc.BodyMarkdown)
	default:
		html, err = s.renderer.RenderHTML(blocks.Sanitize(decodeContent(doc.Body)))
	}
	if err != nil {
		slog.Error("re-render failed", "error", err, "id", doc.ID)
		respondError(w, http.StatusInternalServerError, "could not render document")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func (s *Server) handleDocumentDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	err = s.docs.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		slog.Error("delete document failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "could not delete document")
		return
	}

	if err := s.audit.Log(r.Context(), audit.Entry{
		Action:     audit.ActionDocumentDelete,
		DocumentID: &id,
		IP:         r.RemoteAddr,
	}); err != nil {
		slog.Error("audit log failed", "error", err, "id", id)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}

	pg := pagination.FromRequest(r)
	docs, total, err := s.docs.Search(r.Context(), query, pg)
	if err != nil {
		slog.Error("search failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not search documents")
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toResponse(&docs[i], false))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"documents":  out,
		"pagination": pg.Meta(total),
	})
}

func (s *Server) documentFromPath(w http.ResponseWriter, r *http.Request) (*store.Document, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid document id")
		return nil, false
	}

	doc, err := s.docs.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "document not found")
		return nil, false
	}
	if err != nil {
		slog.Error("load document failed", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "could not load document")
		return nil, false
	}
	return doc, true
}
