package assistant

import (
	"context"

	"github.com/akhilvs/sarvajna/internal/domain/kb"
)

// EntrySource provides the knowledge base entries the matcher runs over.
type EntrySource interface {
	Entries(ctx context.Context) ([]kb.Entry, error)
	Reload(ctx context.Context) error
}

// VectorSearcher is implemented by entry sources that index pattern
// embeddings and can resolve the nearest entry for a query vector.
type VectorSearcher interface {
	NearestEntry(ctx context.Context, embedding []float32) (kb.Entry, float64, bool, error)
}

// EntryWriter is implemented by entry sources that accept edits.
type EntryWriter interface {
	UpsertEntry(ctx context.Context, entry kb.Entry) error
}
