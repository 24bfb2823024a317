package sentiment

import (
	"context"

	"github.com/jonreiter/govader"

	"MediaMonitor/internal/ports"
)

// Analyzer scores text locally with the VADER lexicon. The compound score
// keeps the semantics of the model that produced the historical rows, so
// the fixed tonality cut points stay comparable.
type Analyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

var _ ports.SentimentScorer = (*Analyzer)(nil)

// NewAnalyzer builds the lexicon once; the analyzer is safe to reuse
// across a whole run.
func NewAnalyzer() *Analyzer {
	return &Analyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity in [-1, 1]. Deterministic for a
// given text; never fails.
func (a *Analyzer) Score(_ context.Context, text string) (float64, error) {
	return a.sia.PolarityScores(text).Compound, nil
}
