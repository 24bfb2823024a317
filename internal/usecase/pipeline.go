package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"MediaMonitor/internal/domain"
	"MediaMonitor/internal/ports"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Source   ports.NewsSource
	Store    ports.MentionStore
	Scorer   ports.SentimentScorer
	Notifier ports.Notifier
	Logger   *slog.Logger
}

// PipelineOptions carries run policy resolved from configuration.
type PipelineOptions struct {
	Query    ports.SearchQuery
	Cutoff   time.Time // drop mentions published before this date
	Location *time.Location
	// CleanDates re-normalizes the published column of every stored row
	// and rewrites the store before ingesting. Needed when historical
	// rows carry mixed date formats that break lexicographic sorting.
	CleanDates bool
}

// Pipeline implements the single-pass ingestion workflow:
// fetch, extract, normalize, score, dedupe, append.
type Pipeline struct {
	source   ports.NewsSource
	store    ports.MentionStore
	scorer   ports.SentimentScorer
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:   deps.Source,
		store:    deps.Store,
		scorer:   deps.Scorer,
		notifier: deps.Notifier,
		logger:   logger,
	}
}

// Run executes one ingestion batch. Zero fetched articles and zero new
// rows are both success. Errors identify the stage that failed; partial
// progress (a completed cleaning pass) is not rolled back.
func (p *Pipeline) Run(ctx context.Context, opts PipelineOptions) (domain.RunReport, error) {
	report := domain.RunReport{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	logger := p.logger.With("run_id", report.RunID)

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	existing, err := p.store.LoadAll(ctx)
	if err != nil {
		return report, fmt.Errorf("load store: %w", err)
	}
	logger.Info("store loaded", "rows", len(existing))

	if opts.CleanDates {
		existing, err = p.cleanDates(ctx, existing, loc, logger)
		if err != nil {
			return report, fmt.Errorf("clean dates: %w", err)
		}
		report.Cleaned = len(existing)
	}

	index := NewDedupIndex(existing)

	articles, err := p.source.Search(ctx, opts.Query)
	if err != nil {
		return report, fmt.Errorf("fetch: %w", err)
	}
	report.Fetched = len(articles)
	logger.Info("articles fetched", "count", len(articles))

	var fresh []domain.Mention
	for _, raw := range articles {
		mention, err := p.buildMention(ctx, raw, loc)
		if err != nil {
			return report, fmt.Errorf("score: %w", err)
		}

		if index.Seen(mention) {
			report.Duplicates++
			continue
		}
		if beforeCutoff(mention.Published, opts.Cutoff, loc) {
			report.BeforeCutoff++
			continue
		}

		index.Add(mention)
		fresh = append(fresh, mention)
	}

	if len(fresh) == 0 {
		logger.Info("no new mentions",
			"duplicates", report.Duplicates,
			"before_cutoff", report.BeforeCutoff)
		p.notify(ctx, report, logger)
		return report, nil
	}

	if err := p.store.Append(ctx, fresh); err != nil {
		return report, fmt.Errorf("append: %w", err)
	}
	report.Appended = len(fresh)
	logger.Info("mentions appended",
		"appended", report.Appended,
		"duplicates", report.Duplicates,
		"before_cutoff", report.BeforeCutoff)

	p.notify(ctx, report, logger)
	return report, nil
}

// buildMention resolves synonym keys, normalizes the date, and scores
// tonality. No article is dropped here: missing fields flow through as
// empty strings.
func (p *Pipeline) buildMention(ctx context.Context, raw domain.RawArticle, loc *time.Location) (domain.Mention, error) {
	title := domain.ExtractField(raw, domain.TitleKeys...)
	summary := domain.ExtractField(raw, domain.SummaryKeys...)
	link := domain.ExtractField(raw, domain.LinkKeys...)
	publishedRaw := domain.ExtractField(raw, domain.PublishedKeys...)
	source := domain.ExtractField(raw, domain.SourceKeys...)

	text := summary
	if text == "" {
		text = title
	}
	score, err := p.scorer.Score(ctx, text)
	if err != nil {
		return domain.Mention{}, err
	}

	return domain.Mention{
		Title:     title,
		Published: NormalizeDate(publishedRaw, loc),
		Source:    source,
		Summary:   summary,
		Link:      link,
		Tonality:  domain.ToneFromScore(score),
	}, nil
}

// cleanDates rewrites every stored row with a re-normalized published
// date. The row count must survive the replace unchanged.
func (p *Pipeline) cleanDates(ctx context.Context, existing []domain.Mention, loc *time.Location, logger *slog.Logger) ([]domain.Mention, error) {
	cleaned := make([]domain.Mention, len(existing))
	changed := 0
	for i, m := range existing {
		normalized := NormalizeDate(m.Published, loc)
		if normalized == "" {
			// Keep the raw value rather than erasing data the
			// normalizer cannot read.
			normalized = m.Published
		}
		if normalized != m.Published {
			changed++
		}
		m.Published = normalized
		cleaned[i] = m
	}

	if changed == 0 {
		logger.Info("cleaning pass skipped, dates already canonical", "rows", len(existing))
		return existing, nil
	}

	if err := p.store.Replace(ctx, cleaned); err != nil {
		return nil, err
	}
	logger.Info("cleaning pass rewrote store", "rows", len(cleaned), "changed", changed)
	return cleaned, nil
}

func (p *Pipeline) notify(ctx context.Context, report domain.RunReport, logger *slog.Logger) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.PublishReport(ctx, report); err != nil {
		logger.Warn("publish report failed", "error", err)
	}
}

func beforeCutoff(published string, cutoff time.Time, loc *time.Location) bool {
	if cutoff.IsZero() || published == "" {
		return false
	}
	day, ok := ParseDate(published, loc)
	if !ok {
		return false
	}
	return day.Before(cutoff)
}
