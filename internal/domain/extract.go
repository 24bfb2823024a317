package domain

import "strings"

// RawArticle is a fetched article before normalization. Upstream feeds do
// not agree on key names, so it stays a loose mapping until ExtractField
// resolves each logical field through its synonym list.
type RawArticle map[string]string

// Synonym lists per logical field, in priority order.
var (
	TitleKeys     = []string{"title"}
	SummaryKeys   = []string{"description", "summary", "snippet"}
	LinkKeys      = []string{"url", "link"}
	PublishedKeys = []string{"published date", "published", "publishedAt"}
	SourceKeys    = []string{"publisher", "source", "site", "domain"}
)

// ExtractField returns the first non-empty value among the candidate keys,
// or an empty string. Missing fields are normal, not an error.
func ExtractField(raw RawArticle, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(raw[k]); v != "" {
			return v
		}
	}
	return ""
}
