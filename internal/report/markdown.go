package report

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/mhammadzahi/nl-camel/internal/model"
)

// MarkdownSummary renders a crawl result file as a Markdown report.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation: type-safe tables, code blocks, and mermaid charts without
// string templating.
type MarkdownSummary struct {
	// output receives the rendered markdown.
	output io.Writer

	// topN bounds the per-site table to the highest-confidence sites.
	topN int
}

// SummaryOption configures a MarkdownSummary.
type SummaryOption func(*MarkdownSummary)

// WithTopN sets how many of the highest-confidence sites to list.
func WithTopN(n int) SummaryOption {
	return func(s *MarkdownSummary) {
		if n > 0 {
			s.topN = n
		}
	}
}

// NewMarkdownSummary creates a summary writer targeting output.
func NewMarkdownSummary(output io.Writer, opts ...SummaryOption) *MarkdownSummary {
	s := &MarkdownSummary{
		output: output,
		topN:   25,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write renders the summary for the given records.
func (s *MarkdownSummary) Write(records []model.SiteRecord) error {
	md := markdown.NewMarkdown(s.output)

	positives := 0
	for _, r := range records {
		if r.Classified {
			positives++
		}
	}
	negatives := len(records) - positives

	md.H1("Newsletter Crawl Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Sites recorded", strconv.Itoa(len(records))},
			{"With newsletter", strconv.Itoa(positives)},
			{"Without newsletter", strconv.Itoa(negatives)},
		},
	})
	md.PlainText("")

	if len(records) > 0 {
		s.writePieChart(md, positives, negatives)
	}
	s.writeTopSites(md, records)

	return md.Build()
}

// writePieChart renders the classification split as a mermaid pie chart.
func (s *MarkdownSummary) writePieChart(md *markdown.Markdown, positives, negatives int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Classification Split"),
		piechart.WithShowData(true),
	)

	if positives > 0 {
		chart.LabelAndIntValue("With newsletter", uint64(positives))
	}
	if negatives > 0 {
		chart.LabelAndIntValue("Without newsletter", uint64(negatives))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeTopSites renders the highest-confidence classified sites.
func (s *MarkdownSummary) writeTopSites(md *markdown.Markdown, records []model.SiteRecord) {
	classified := make([]model.SiteRecord, 0)
	for _, r := range records {
		if r.Classified {
			classified = append(classified, r)
		}
	}
	if len(classified) == 0 {
		return
	}

	sort.SliceStable(classified, func(i, j int) bool {
		return classified[i].Confidence > classified[j].Confidence
	})
	if len(classified) > s.topN {
		classified = classified[:s.topN]
	}

	rows := make([][]string, 0, len(classified))
	for _, r := range classified {
		rows = append(rows, []string{
			"`" + r.Domain + "`",
			strconv.Itoa(r.Confidence),
			strings.Join(r.Paths, " "),
		})
	}

	md.H2("Top Sites")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Domain", "Confidence", "Paths"},
		Rows:   rows,
	})
}
