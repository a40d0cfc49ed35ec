// Package store persists ingested documents. Only derived, trusted data is
// stored: the sanitized block body, its rendered HTML, and the plain-text
// search fields. Raw backend payloads are sanitized before they get here and
// are never written to the database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/exedev/contentd/internal/pagination"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrSlugConflict = errors.New("slug already exists")
)

type BodyFormat string

const (
	FormatBlocks   BodyFormat = "blocks"
	FormatMarkdown BodyFormat = "markdown"
)

type Document struct {
	ID           uuid.UUID
	Slug         string
	Title        string
	BodyFormat   BodyFormat
	Body         json.RawMessage // sanitized blocks, re-sanitized on every read path
	BodyMarkdown string
	PlainText    string
	CharCount    int
	WordCount    int
	HTML         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

type CreateInput struct {
	Slug         string
	Title        string
	BodyFormat   BodyFormat
	Body         json.RawMessage
	BodyMarkdown string
	PlainText    string
	CharCount    int
	WordCount    int
	HTML         string
}

func (r *Repository) Create(ctx context.Context, input CreateInput) (*Document, error) {
	input.Slug = normalizeSlug(input.Slug)
	if input.BodyFormat == "" {
		input.BodyFormat = FormatBlocks
	}

	var body any
	if len(input.Body) > 0 {
		body = []byte(input.Body)
	}

	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO documents (slug, title, body_format, body, body_markdown, plain_text, char_count, word_count, html)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, input.Slug, input.Title, input.BodyFormat, body, input.BodyMarkdown,
		input.PlainText, input.CharCount, input.WordCount, input.HTML).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "unique") {
			return nil, ErrSlugConflict
		}
		return nil, fmt.Errorf("insert document: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Document, error) {
	return r.get(ctx, `WHERE slug = $1`, normalizeSlug(slug))
}

func (r *Repository) get(ctx context.Context, where string, arg any) (*Document, error) {
	var d Document
	var body []byte

	err := r.db.QueryRow(ctx, `
		SELECT id, slug, title, body_format, body, body_markdown, plain_text, char_count, word_count, html, created_at, updated_at
		FROM documents `+where,
		arg).Scan(
		&d.ID, &d.Slug, &d.Title, &d.BodyFormat, &body, &d.BodyMarkdown,
		&d.PlainText, &d.CharCount, &d.WordCount, &d.HTML, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query document: %w", err)
	}

	d.Body = body
	return &d, nil
}

// List returns a page of documents plus the total count.
func (r *Repository) List(ctx context.Context, pg pagination.Page) ([]Document, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, slug, title, body_format, plain_text, char_count, word_count, created_at, updated_at
		FROM documents
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`, pg.PerPage, pg.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs, err := scanDocuments(rows)
	return docs, total, err
}

// Search matches the query against titles and extracted plain text.
func (r *Repository) Search(ctx context.Context, query string, pg pagination.Page) ([]Document, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM documents
		WHERE title ILIKE '%' || $1 || '%' OR plain_text ILIKE '%' || $1 || '%'
	`, query).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count search results: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, slug, title, body_format, plain_text, char_count, word_count, created_at, updated_at
		FROM documents
		WHERE title ILIKE '%' || $1 || '%' OR plain_text ILIKE '%' || $1 || '%'
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`, query, pg.PerPage, pg.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	docs, err := scanDocuments(rows)
	return docs, total, err
}

func scanDocuments(rows pgx.Rows) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		var d Document
		err := rows.Scan(&d.ID, &d.Slug, &d.Title, &d.BodyFormat,
			&d.PlainText, &d.CharCount, &d.WordCount, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	slug = strings.TrimPrefix(slug, "/")
	slug = strings.TrimSuffix(slug, "/")
	return strings.ToLower(slug)
}
