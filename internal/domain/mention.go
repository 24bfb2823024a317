package domain

// Tonality is the three-way sentiment bucket assigned to a mention.
type Tonality string

const (
	TonePositive Tonality = "Positive"
	ToneNeutral  Tonality = "Neutral"
	ToneNegative Tonality = "Negative"
)

// Thresholds on the compound polarity score. Fixed cut points: changing
// them would make new rows incomparable with historical data.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// ToneFromScore buckets a compound polarity score in [-1, 1].
func ToneFromScore(score float64) Tonality {
	switch {
	case score >= positiveThreshold:
		return TonePositive
	case score <= negativeThreshold:
		return ToneNegative
	default:
		return ToneNeutral
	}
}

// Valid reports whether t is one of the three known buckets.
func (t Tonality) Valid() bool {
	return t == TonePositive || t == ToneNeutral || t == ToneNegative
}

// Mention is the canonical unit of stored data: one ingested news article
// with its assigned tonality.
type Mention struct {
	Title     string
	Published string // canonical YYYY-MM-DD, empty when unparsable
	Source    string
	Summary   string
	Link      string
	Tonality  Tonality
}

// Signature is the fallback identity key for mentions without a link.
type Signature struct {
	Title     string
	Published string
}

// Signature returns the (title, published) pair identifying the mention
// when its link is empty.
func (m Mention) Signature() Signature {
	return Signature{Title: m.Title, Published: m.Published}
}

// Header is the fixed column schema of the persistent store.
// Order matters: every row is written and read in this order.
func Header() []string {
	return []string{"title", "published", "source", "summary", "link", "tonality"}
}

// Row flattens the mention into the store's column order.
func (m Mention) Row() []string {
	return []string{m.Title, m.Published, m.Source, m.Summary, m.Link, string(m.Tonality)}
}

// MentionFromRow rebuilds a mention from a stored row, tolerating short rows.
func MentionFromRow(row []string) Mention {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Mention{
		Title:     get(0),
		Published: get(1),
		Source:    get(2),
		Summary:   get(3),
		Link:      get(4),
		Tonality:  Tonality(get(5)),
	}
}
