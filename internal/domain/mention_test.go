package domain

import "testing"

func TestToneFromScoreBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  Tonality
	}{
		{0.05, TonePositive},
		{-0.05, ToneNegative},
		{0.0, ToneNeutral},
		{0.0499, ToneNeutral},
		{-0.0499, ToneNeutral},
		{0.9, TonePositive},
		{-1.0, ToneNegative},
	}

	for _, c := range cases {
		if got := ToneFromScore(c.score); got != c.want {
			t.Errorf("ToneFromScore(%v) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestMentionRowRoundTrip(t *testing.T) {
	t.Parallel()

	m := Mention{
		Title:     "HELB disburses loans",
		Published: "2025-03-14",
		Source:    "Daily Nation",
		Summary:   "The board announced a new round of disbursements.",
		Link:      "https://example.com/helb-loans",
		Tonality:  TonePositive,
	}

	got := MentionFromRow(m.Row())
	if got != m {
		t.Fatalf("round trip mismatch: %+v != %+v", got, m)
	}
}

func TestMentionFromShortRow(t *testing.T) {
	t.Parallel()

	m := MentionFromRow([]string{"title only"})
	if m.Title != "title only" {
		t.Fatalf("unexpected title: %s", m.Title)
	}
	if m.Link != "" || m.Tonality != "" {
		t.Fatalf("expected empty trailing fields, got %+v", m)
	}
}

func TestExtractField(t *testing.T) {
	t.Parallel()

	raw := RawArticle{
		"summary": "  fallback summary ",
		"url":     "https://example.com/a",
	}

	if got := ExtractField(raw, SummaryKeys...); got != "fallback summary" {
		t.Fatalf("unexpected summary: %q", got)
	}
	if got := ExtractField(raw, LinkKeys...); got != "https://example.com/a" {
		t.Fatalf("unexpected link: %q", got)
	}
	if got := ExtractField(raw, PublishedKeys...); got != "" {
		t.Fatalf("expected empty published, got %q", got)
	}
}
