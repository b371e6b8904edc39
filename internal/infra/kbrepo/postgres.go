package kbrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/akhilvs/sarvajna/internal/domain/assistant"
	"github.com/akhilvs/sarvajna/internal/domain/kb"
)

// PostgresSource serves entries from the kb_entries table.
//
// Schema:
//
//	CREATE TABLE kb_entries (
//	    id        text PRIMARY KEY,
//	    position  integer NOT NULL,
//	    patterns  json NOT NULL,
//	    tags      json NOT NULL,
//	    facts     json NOT NULL,
//	    embedding vector(1536)
//	);
//
// The facts column is json rather than jsonb so key order survives a
// round trip; the matcher depends on fact insertion order.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource constructs the source.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Entries loads every entry in collection order.
func (s *PostgresSource) Entries(ctx context.Context) ([]kb.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, patterns, tags, facts
		FROM kb_entries
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query kb entries: %w", err)
	}
	defer rows.Close()

	var entries []kb.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Reload is a no-op: every Entries call reads current rows.
func (s *PostgresSource) Reload(_ context.Context) error {
	return nil
}

// NearestEntry returns the closest entry by pattern embedding.
func (s *PostgresSource) NearestEntry(ctx context.Context, embedding []float32) (kb.Entry, float64, bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, patterns, tags, facts, embedding <-> $1 AS distance
		FROM kb_entries
		WHERE embedding IS NOT NULL
		ORDER BY embedding <-> $1
		LIMIT 1
	`, pgvector.NewVector(embedding))
	if err != nil {
		return kb.Entry{}, 0, false, fmt.Errorf("nearest kb entry: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return kb.Entry{}, 0, false, rows.Err()
	}
	var distance float64
	entry, err := scanEntry(rows, &distance)
	if err != nil {
		return kb.Entry{}, 0, false, err
	}
	return entry, distance, true, rows.Err()
}

// UpsertEntry writes the entry, appending new rows at the end of the
// collection order. Embeddings are refreshed out of band.
func (s *PostgresSource) UpsertEntry(ctx context.Context, entry kb.Entry) error {
	patterns, err := json.Marshal(entry.QuestionPatterns)
	if err != nil {
		return fmt.Errorf("encode patterns: %w", err)
	}
	tags, err := json.Marshal(entry.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	facts, err := json.Marshal(entry.AnswerFacts)
	if err != nil {
		return fmt.Errorf("encode facts: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO kb_entries (id, position, patterns, tags, facts)
		VALUES ($1, (SELECT COALESCE(MAX(position), 0) + 1 FROM kb_entries), $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET patterns = EXCLUDED.patterns,
		    tags = EXCLUDED.tags,
		    facts = EXCLUDED.facts
	`, entry.ID, patterns, tags, facts)
	if err != nil {
		return fmt.Errorf("upsert kb entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner, extras ...any) (kb.Entry, error) {
	var (
		entry    kb.Entry
		patterns []byte
		tags     []byte
		facts    []byte
	)
	args := []any{&entry.ID, &patterns, &tags, &facts}
	args = append(args, extras...)
	if err := row.Scan(args...); err != nil {
		return kb.Entry{}, err
	}
	if err := json.Unmarshal(patterns, &entry.QuestionPatterns); err != nil {
		return kb.Entry{}, fmt.Errorf("decode patterns for %s: %w", entry.ID, err)
	}
	if err := json.Unmarshal(tags, &entry.Tags); err != nil {
		return kb.Entry{}, fmt.Errorf("decode tags for %s: %w", entry.ID, err)
	}
	if err := json.Unmarshal(facts, &entry.AnswerFacts); err != nil {
		return kb.Entry{}, fmt.Errorf("decode facts for %s: %w", entry.ID, err)
	}
	return entry, nil
}

var (
	_ assistant.EntrySource    = (*PostgresSource)(nil)
	_ assistant.VectorSearcher = (*PostgresSource)(nil)
	_ assistant.EntryWriter    = (*PostgresSource)(nil)
)
