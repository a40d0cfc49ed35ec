package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/exedev/contentd/internal/blocks"
	"github.com/exedev/contentd/internal/render"
	"github.com/exedev/contentd/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.db.Ping(ctx); err != nil {
		slog.Error("health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type renderRequest struct {
	Content  json.RawMessage `json:"content"`
	Format   string          `json:"format"`
	Markdown string          `json:"markdown"`
}

// handleRender converts a raw content payload to display-ready HTML without
// persisting anything.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if store.BodyFormat(req.Format) == store.FormatMarkdown {
		html, err := render.RenderMarkdown(req.Markdown)
		if err != nil {
			slog.Error("markdown render failed", "error", err)
			respondError(w, http.StatusUnprocessableEntity, "could not render markdown")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"html": html})
		return
	}

	html, err := s.renderer.RenderHTML(blocks.Sanitize(decodeContent(req.Content)))
	if err != nil {
		slog.Error("block render failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not render content")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"html": html})
}

// handleText derives the plain-text search/metadata view of a raw payload.
func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	raw := decodeContent(req.Content)
	text := blocks.PlainText(raw)
	respondJSON(w, http.StatusOK, map[string]any{
		"text":       text,
		"characters": utf8.RuneCountInString(text),
		"words":      blocks.Words(text),
	})
}

// decodeContent decodes the content field for sanitization. Undecodable
// content degrades to nil, which the sanitizer maps to an empty document -
// malformed input is omitted, never an error.
func decodeContent(content json.RawMessage) any {
	if len(content) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(content, &v); err != nil {
		return nil
	}
	return v
}
