package ports

import (
	"context"
	"time"

	"MediaMonitor/internal/domain"
)

// SearchQuery carries all parameters of a news search.
type SearchQuery struct {
	Text     string
	Country  string
	Language string
	From     time.Time
	To       time.Time
}

// NewsSource pulls raw articles from an upstream search feed.
type NewsSource interface {
	Search(ctx context.Context, q SearchQuery) ([]domain.RawArticle, error)
}

// SentimentScorer computes a compound polarity score in [-1, 1] for a text
// blob. Bucketing into tonality labels is owned by the pipeline.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// MentionStore persists mentions in a tabular store with a fixed schema.
type MentionStore interface {
	// LoadAll returns every stored mention. It never returns a partial
	// view: an unreachable store is an error, not an empty result.
	LoadAll(ctx context.Context) ([]domain.Mention, error)

	// Append adds rows without touching existing ones, bootstrapping the
	// header row on an empty store.
	Append(ctx context.Context, rows []domain.Mention) error

	// Replace discards all stored rows and writes the given ones.
	// Used only by the date-cleaning pass.
	Replace(ctx context.Context, rows []domain.Mention) error

	// UpdateTonality overwrites the tonality cell of the row at the given
	// zero-based position in LoadAll order.
	UpdateTonality(ctx context.Context, row int, tone domain.Tonality) error
}

// Notifier delivers run reports to an operator channel.
type Notifier interface {
	PublishReport(ctx context.Context, report domain.RunReport) error
}

// Scheduler controls when ingestion runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
