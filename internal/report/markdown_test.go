package report

import (
	"strings"
	"testing"

	"github.com/mhammadzahi/nl-camel/internal/model"
)

// TestMarkdownSummary tests the rendered summary content.
func TestMarkdownSummary(t *testing.T) {
	t.Parallel()

	t.Run("renders counts and top sites", func(t *testing.T) {
		t.Parallel()

		records := []model.SiteRecord{
			{Domain: "high.example", Classified: true, Confidence: 90, Paths: []string{"/"}},
			{Domain: "low.example", Classified: true, Confidence: 35, Paths: []string{"/about"}},
			{Domain: "none.example", Classified: false, Confidence: 10},
		}

		var buf strings.Builder
		if err := NewMarkdownSummary(&buf).Write(records); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()

		for _, want := range []string{
			"# Newsletter Crawl Summary",
			"## Top Sites",
			"`high.example`",
			"`low.example`",
			"90",
			"mermaid",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("summary missing %q", want)
			}
		}
		if strings.Contains(out, "`none.example`") {
			t.Error("unclassified site should not appear in top sites")
		}
	})

	t.Run("top-N bounds the table", func(t *testing.T) {
		t.Parallel()

		records := []model.SiteRecord{
			{Domain: "a.example", Classified: true, Confidence: 80},
			{Domain: "b.example", Classified: true, Confidence: 70},
			{Domain: "c.example", Classified: true, Confidence: 60},
		}

		var buf strings.Builder
		if err := NewMarkdownSummary(&buf, WithTopN(2)).Write(records); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()

		if !strings.Contains(out, "`a.example`") || !strings.Contains(out, "`b.example`") {
			t.Error("expected the two highest-confidence sites")
		}
		if strings.Contains(out, "`c.example`") {
			t.Error("expected the third site to be cut")
		}
	})

	t.Run("empty input renders without a chart", func(t *testing.T) {
		t.Parallel()

		var buf strings.Builder
		if err := NewMarkdownSummary(&buf).Write(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "mermaid") {
			t.Error("expected no chart for empty input")
		}
	})
}
