package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"MediaMonitor/internal/domain"
	"MediaMonitor/internal/ports"
)

type fakeSource struct {
	articles []domain.RawArticle
	err      error
	calls    int
}

func (f *fakeSource) Search(ctx context.Context, q ports.SearchQuery) ([]domain.RawArticle, error) {
	f.calls++
	return f.articles, f.err
}

type fakeStore struct {
	mentions []domain.Mention
	loadErr  error
	appended [][]domain.Mention
	replaced [][]domain.Mention
}

func (f *fakeStore) LoadAll(ctx context.Context) ([]domain.Mention, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.mentions, nil
}

func (f *fakeStore) Append(ctx context.Context, rows []domain.Mention) error {
	f.appended = append(f.appended, rows)
	f.mentions = append(f.mentions, rows...)
	return nil
}

func (f *fakeStore) Replace(ctx context.Context, rows []domain.Mention) error {
	f.replaced = append(f.replaced, rows)
	f.mentions = rows
	return nil
}

func (f *fakeStore) UpdateTonality(ctx context.Context, row int, tone domain.Tonality) error {
	f.mentions[row].Tonality = tone
	return nil
}

type fakeScorer struct {
	scores map[string]float64
}

func (f *fakeScorer) Score(ctx context.Context, text string) (float64, error) {
	return f.scores[text], nil
}

func newTestPipeline(source *fakeSource, store *fakeStore, scorer *fakeScorer) *Pipeline {
	return NewPipeline(PipelineDeps{
		Source: source,
		Store:  store,
		Scorer: scorer,
	})
}

func rawArticle(title, published, link string) domain.RawArticle {
	return domain.RawArticle{
		"title":          title,
		"published date": published,
		"url":            link,
		"description":    title + " summary",
	}
}

func TestPipelineAppendsOnlyNewMentions(t *testing.T) {
	t.Parallel()

	store := &fakeStore{mentions: []domain.Mention{
		{Title: "e1", Published: "2025-01-02", Link: "https://example.com/1"},
		{Title: "e2", Published: "2025-01-03", Link: "https://example.com/2"},
		{Title: "e3", Published: "2025-01-04", Link: "https://example.com/3"},
	}}
	source := &fakeSource{articles: []domain.RawArticle{
		rawArticle("n1", "2025-02-01", "https://example.com/1"), // link duplicate
		rawArticle("n2", "2025-02-02", "https://example.com/2"), // link duplicate
		rawArticle("n3", "2025-02-03", "https://example.com/4"),
		rawArticle("n4", "2025-02-04", "https://example.com/5"),
		rawArticle("n5", "2025-02-05", "https://example.com/6"),
	}}

	p := newTestPipeline(source, store, &fakeScorer{})
	report, err := p.Run(context.Background(), PipelineOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Fetched != 5 || report.Appended != 3 || report.Duplicates != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(store.appended) != 1 || len(store.appended[0]) != 3 {
		t.Fatalf("expected one append of 3 rows, got %+v", store.appended)
	}
}

func TestPipelineSignatureFallbackDedup(t *testing.T) {
	t.Parallel()

	store := &fakeStore{mentions: []domain.Mention{
		{Title: "HELB portal down", Published: "2025-03-01", Link: "https://example.com/a"},
	}}
	source := &fakeSource{articles: []domain.RawArticle{
		{"title": "HELB portal down", "published date": "2025-03-01"}, // no link
	}}

	p := newTestPipeline(source, store, &fakeScorer{})
	report, err := p.Run(context.Background(), PipelineOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Duplicates != 1 || report.Appended != 0 {
		t.Fatalf("signature duplicate not caught: %+v", report)
	}
}

func TestPipelineCutoffFilter(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	source := &fakeSource{articles: []domain.RawArticle{
		rawArticle("too old", "2024-12-31", "https://example.com/old"),
		rawArticle("recent", "2025-01-02", "https://example.com/new"),
	}}

	p := newTestPipeline(source, store, &fakeScorer{})
	cutoff := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	report, err := p.Run(context.Background(), PipelineOptions{Cutoff: cutoff})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.BeforeCutoff != 1 || report.Appended != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if store.mentions[0].Title != "recent" {
		t.Fatalf("wrong survivor: %+v", store.mentions)
	}
}

func TestPipelineFatalWhenStoreUnreachable(t *testing.T) {
	t.Parallel()

	store := &fakeStore{loadErr: errors.New("store offline")}
	source := &fakeSource{}

	p := newTestPipeline(source, store, &fakeScorer{})
	if _, err := p.Run(context.Background(), PipelineOptions{}); err == nil {
		t.Fatal("expected error for unreachable store")
	}
	if source.calls != 0 {
		t.Fatal("fetch must not happen without a dedup view")
	}
}

func TestPipelineScoresAndBuckets(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	source := &fakeSource{articles: []domain.RawArticle{
		{"title": "good", "description": "great news", "url": "https://example.com/p", "published": "2025-04-01"},
		{"title": "bad", "description": "terrible news", "url": "https://example.com/n", "published": "2025-04-01"},
		{"title": "titled only", "url": "https://example.com/t", "published": "2025-04-01"},
	}}
	scorer := &fakeScorer{scores: map[string]float64{
		"great news":    0.6,
		"terrible news": -0.6,
		"titled only":   0.0, // summary missing: title is scored
	}}

	p := newTestPipeline(source, store, scorer)
	if _, err := p.Run(context.Background(), PipelineOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := map[string]domain.Tonality{
		"good":        domain.TonePositive,
		"bad":         domain.ToneNegative,
		"titled only": domain.ToneNeutral,
	}
	for _, m := range store.mentions {
		if m.Tonality != want[m.Title] {
			t.Errorf("%s: tonality %s, want %s", m.Title, m.Tonality, want[m.Title])
		}
	}
}

func TestPipelineKeepsArticlesWithMissingFields(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	source := &fakeSource{articles: []domain.RawArticle{
		{}, // no title, no link, nothing
	}}

	p := newTestPipeline(source, store, &fakeScorer{})
	report, err := p.Run(context.Background(), PipelineOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Appended != 1 {
		t.Fatalf("empty article dropped: %+v", report)
	}
	if store.mentions[0].Tonality != domain.ToneNeutral {
		t.Fatalf("tonality must never be empty: %+v", store.mentions[0])
	}
}

func TestPipelineCleaningPassPreservesRowCount(t *testing.T) {
	t.Parallel()

	store := &fakeStore{mentions: []domain.Mention{
		{Title: "a", Published: "Fri, 10 Jan 2025 08:00:00 GMT", Link: "https://example.com/a"},
		{Title: "b", Published: "2025-01-11", Link: "https://example.com/b"},
		{Title: "c", Published: "gibberish", Link: "https://example.com/c"},
	}}
	source := &fakeSource{}

	p := newTestPipeline(source, store, &fakeScorer{})
	report, err := p.Run(context.Background(), PipelineOptions{CleanDates: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Cleaned != 3 {
		t.Fatalf("cleaned = %d, want 3", report.Cleaned)
	}
	if len(store.replaced) != 1 || len(store.replaced[0]) != 3 {
		t.Fatalf("replace must preserve row count: %+v", store.replaced)
	}
	if store.mentions[0].Published != "2025-01-10" {
		t.Fatalf("date not normalized: %q", store.mentions[0].Published)
	}
	if store.mentions[2].Published != "gibberish" {
		t.Fatalf("unparsable date must keep its raw value: %q", store.mentions[2].Published)
	}
}

func TestPipelineZeroArticlesIsSuccess(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	source := &fakeSource{}

	p := newTestPipeline(source, store, &fakeScorer{})
	report, err := p.Run(context.Background(), PipelineOptions{})
	if err != nil {
		t.Fatalf("empty fetch must not fail: %v", err)
	}
	if report.Fetched != 0 || report.Appended != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(store.appended) != 0 {
		t.Fatal("nothing should be appended")
	}
}
