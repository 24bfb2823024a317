package gnews

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"MediaMonitor/internal/domain"
	"MediaMonitor/internal/ports"
)

const defaultBaseURL = "https://news.google.com/rss/search"

// Source fetches Google News search results over the RSS feed endpoint.
type Source struct {
	client  *http.Client
	parser  *gofeed.Parser
	baseURL string
}

var _ ports.NewsSource = (*Source)(nil)

// NewSource wires an HTTP client; a nil client gets a sane timeout.
func NewSource(client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Source{
		client:  client,
		parser:  gofeed.NewParser(),
		baseURL: defaultBaseURL,
	}
}

// Search runs one query against the news feed and returns raw articles.
// An empty result is not an error.
func (s *Source) Search(ctx context.Context, q ports.SearchQuery) ([]domain.RawArticle, error) {
	feedURL, err := s.buildFeedURL(q)
	if err != nil {
		return nil, fmt.Errorf("build feed url: %w", err)
	}

	body, err := s.fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := s.parser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]domain.RawArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		articles = append(articles, itemToRaw(item))
	}
	return articles, nil
}

func (s *Source) fetch(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "MediaMonitor/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("news feed returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read feed: %w", err)
	}
	return string(body), nil
}

// buildFeedURL encodes the query plus after:/before: date operators the
// way the news search endpoint expects them.
func (s *Source) buildFeedURL(q ports.SearchQuery) (string, error) {
	parsed, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %s: %w", s.baseURL, err)
	}

	text := q.Text
	if !q.From.IsZero() {
		text += " after:" + q.From.Format("2006-01-02")
	}
	if !q.To.IsZero() {
		text += " before:" + q.To.Format("2006-01-02")
	}

	lang := q.Language
	if lang == "" {
		lang = "en"
	}
	country := q.Country
	if country == "" {
		country = "US"
	}

	values := parsed.Query()
	values.Set("q", text)
	values.Set("hl", fmt.Sprintf("%s-%s", lang, country))
	values.Set("gl", country)
	values.Set("ceid", fmt.Sprintf("%s:%s", country, lang))
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

// itemToRaw flattens a feed item into the loose key set the extractor
// understands. Google News appends " - Publisher" to titles and wraps
// descriptions in HTML; both are undone here.
func itemToRaw(item *gofeed.Item) domain.RawArticle {
	title, publisher := splitTitle(item.Title)

	raw := domain.RawArticle{
		"title":          title,
		"link":           item.Link,
		"published date": item.Published,
		"description":    stripHTML(item.Description),
	}
	if publisher != "" {
		raw["publisher"] = publisher
	}
	if item.PublishedParsed != nil {
		raw["published"] = item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	return raw
}

// splitTitle separates "Headline - Publisher" on the last separator, so
// headlines containing dashes keep their text.
func splitTitle(title string) (string, string) {
	i := strings.LastIndex(title, " - ")
	if i < 0 {
		return strings.TrimSpace(title), ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}

// stripHTML reduces an HTML fragment to its visible text.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
