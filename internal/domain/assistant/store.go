package assistant

import (
	"context"
	"time"
)

// Store defines the persistence contract for cached answers and trending
// query counters.
type Store interface {
	GetAnswer(ctx context.Context, cacheKey string) (AnswerRecord, bool, error)
	SaveAnswer(ctx context.Context, record AnswerRecord, ttl time.Duration) error
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}
