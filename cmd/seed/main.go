package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/exedev/contentd/internal/blocks"
	"github.com/exedev/contentd/internal/db"
	"github.com/exedev/contentd/internal/store"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	if err := db.RunMigrations(databaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Check if any documents exist
	var count int
	err = pool.QueryRow(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	if err != nil {
		log.Fatalf("failed to query documents: %v", err)
	}

	if count > 0 {
		fmt.Println("Database already has documents. Skipping seed.")
		return
	}

	// Run the sample content through the same pipeline the API uses so the
	// seeded row only ever holds sanitized, derived data.
	sanitized := blocks.Sanitize(sampleContent())
	body, err := json.Marshal(sanitized)
	if err != nil {
		log.Fatalf("failed to marshal sample content: %v", err)
	}
	plain := blocks.PlainTextBlocks(sanitized)

	docs := store.NewRepository(pool)
	doc, err := docs.Create(ctx, store.CreateInput{
		Slug:       "welcome",
		Title:      "Welcome to contentd",
		BodyFormat: store.FormatBlocks,
		Body:       body,
		PlainText:  plain,
		CharCount:  utf8.RuneCountInString(plain),
		WordCount:  blocks.Words(plain),
	})
	if err != nil {
		log.Fatalf("failed to create sample document: %v", err)
	}

	fmt.Printf("Created document: %s (%s)\n", doc.ID, doc.Slug)
	fmt.Println("Seed complete.")
}

func sampleContent() any {
	return []any{
		map[string]any{
			"_type": "block",
			"style": "h1",
			"children": []any{
				map[string]any{"_type": "span", "text": "Welcome"},
			},
		},
		map[string]any{
			"_type": "block",
			"style": "normal",
			"children": []any{
				map[string]any{"_type": "span", "text": "This document was created by "},
				map[string]any{"_type": "span", "text": "cmd/seed", "marks": []any{"code"}},
				map[string]any{"_type": "span", "text": "."},
			},
		},
	}
}
