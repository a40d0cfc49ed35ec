// Package audit records ingestion and deletion events. Rows deliberately
// carry no foreign key to documents so the trail outlives the document.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Logger struct {
	db *pgxpool.Pool
}

func NewLogger(db *pgxpool.Pool) *Logger {
	return &Logger{db: db}
}

type Entry struct {
	Action     string
	DocumentID *uuid.UUID
	IP         string
	Metadata   map[string]any
}

func (l *Logger) Log(ctx context.Context, e Entry) error {
	metadataJSON, err := json.Marshal(e.Metadata)
	if err != nil {
		metadataJSON = []byte("{}")
	}

	_, err = l.db.Exec(ctx, `
		INSERT INTO audit_log (action, document_id, ip, metadata_json)
		VALUES ($1, $2, $3, $4)
	`, e.Action, e.DocumentID, e.IP, metadataJSON)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}

	return nil
}

// Action constants
const (
	ActionDocumentCreate = "document.create"
	ActionDocumentDelete = "document.delete"
)
