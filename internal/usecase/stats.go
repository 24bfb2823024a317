package usecase

import (
	"sort"
	"time"

	"MediaMonitor/internal/domain"
)

// Filter narrows a mention list for dashboard queries. Zero values mean
// "no constraint".
type Filter struct {
	From       time.Time
	To         time.Time
	Tonalities []domain.Tonality
	Sources    []string
}

// Summary is the KPI block shown at the top of the dashboard.
type Summary struct {
	Total    int                         `json:"total"`
	Earliest string                      `json:"earliest"`
	Latest   string                      `json:"latest"`
	Split    map[domain.Tonality]float64 `json:"split"`
}

// DayCount is one point of the mentions-over-time series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SourceCount is one bar of the top-publishers chart.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// FilterMentions applies date-range, tonality, and source constraints.
// Mentions with an unparsable published date pass a date constraint only
// when no range is set, matching how the presentation layer drops them.
func FilterMentions(mentions []domain.Mention, f Filter, loc *time.Location) []domain.Mention {
	tones := make(map[domain.Tonality]struct{}, len(f.Tonalities))
	for _, t := range f.Tonalities {
		tones[t] = struct{}{}
	}
	sources := make(map[string]struct{}, len(f.Sources))
	for _, s := range f.Sources {
		sources[s] = struct{}{}
	}

	out := make([]domain.Mention, 0, len(mentions))
	for _, m := range mentions {
		if !f.From.IsZero() || !f.To.IsZero() {
			day, ok := ParseDate(m.Published, loc)
			if !ok {
				continue
			}
			if !f.From.IsZero() && day.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && day.After(f.To) {
				continue
			}
		}
		if len(tones) > 0 {
			if _, ok := tones[m.Tonality]; !ok {
				continue
			}
		}
		if len(sources) > 0 {
			if _, ok := sources[m.Source]; !ok {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

// ApplyRetention drops mentions older than the given number of years
// before now. Mentions whose published date cannot be parsed are dropped
// as well, since they cannot be placed inside the window.
func ApplyRetention(mentions []domain.Mention, years int, now time.Time, loc *time.Location) []domain.Mention {
	if years <= 0 {
		return mentions
	}
	cutoff := now.AddDate(-years, 0, 0)

	out := make([]domain.Mention, 0, len(mentions))
	for _, m := range mentions {
		day, ok := ParseDate(m.Published, loc)
		if !ok || day.Before(cutoff) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Summarize computes the KPI block over a mention list.
func Summarize(mentions []domain.Mention) Summary {
	s := Summary{
		Total: len(mentions),
		Split: map[domain.Tonality]float64{},
	}
	if len(mentions) == 0 {
		return s
	}

	counts := map[domain.Tonality]int{}
	for _, m := range mentions {
		counts[m.Tonality]++
		if m.Published == "" {
			continue
		}
		if s.Earliest == "" || m.Published < s.Earliest {
			s.Earliest = m.Published
		}
		if m.Published > s.Latest {
			s.Latest = m.Published
		}
	}
	for tone, n := range counts {
		s.Split[tone] = 100 * float64(n) / float64(len(mentions))
	}
	return s
}

// Timeline counts mentions per published day, sorted ascending. Rows
// without a parsable date are omitted.
func Timeline(mentions []domain.Mention) []DayCount {
	perDay := map[string]int{}
	for _, m := range mentions {
		if m.Published == "" {
			continue
		}
		perDay[m.Published]++
	}

	out := make([]DayCount, 0, len(perDay))
	for day, n := range perDay {
		out = append(out, DayCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TopSources returns the n most frequent publishers, most mentioned first.
// Ties break alphabetically to keep the output stable.
func TopSources(mentions []domain.Mention, n int) []SourceCount {
	perSource := map[string]int{}
	for _, m := range mentions {
		if m.Source == "" {
			continue
		}
		perSource[m.Source]++
	}

	out := make([]SourceCount, 0, len(perSource))
	for source, count := range perSource {
		out = append(out, SourceCount{Source: source, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
