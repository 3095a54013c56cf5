package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mhammadzahi/nl-camel/internal/model"
)

// csvHeader is the detection result store's column set. The names match the
// original result files so existing tooling keeps working.
var csvHeader = []string{
	"timestamp",
	"domain",
	"url",
	"has_newsletter",
	"confidence_score",
	"signals_found",
	"found_newsletter_path",
}

// SiteWriter appends site records to a CSV file.
//
// The file is append-only: the header is written exactly once when the
// writer is opened, and rows land in completion order, not input order. A
// mutex makes each append indivisible so rows from concurrent workers never
// interleave.
type SiteWriter struct {
	mu   sync.Mutex
	file *os.File
	csv  *csv.Writer

	// now is the clock used for row timestamps; tests may replace it.
	now func() time.Time
}

// OpenSiteWriter creates (or truncates) the CSV file at path and writes the
// header row.
func OpenSiteWriter(path string) (*SiteWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create result file: %w", err)
	}

	w := &SiteWriter{
		file: f,
		csv:  csv.NewWriter(f),
		now:  time.Now,
	}

	if err := w.csv.Write(csvHeader); err != nil {
		_ = f.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		_ = f.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	return w, nil
}

// Append writes one site record as a CSV row. Safe for concurrent use.
func (w *SiteWriter) Append(_ context.Context, record *model.SiteRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	row := []string{
		w.now().UTC().Format(time.RFC3339),
		record.Domain,
		record.ResolvedURL,
		strconv.FormatBool(record.Classified),
		strconv.Itoa(record.Confidence),
		strings.Join(record.Signals, ";"),
		strings.Join(record.Paths, ";"),
	}

	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("failed to append record for %s: %w", record.Domain, err)
	}
	w.csv.Flush()
	return w.csv.Error()
}

// Close flushes and closes the underlying file.
func (w *SiteWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		_ = w.file.Close() //nolint:errcheck // Flush error takes precedence
		return err
	}
	return w.file.Close()
}

// ReadRecords reads every persisted site record back from a result file.
func ReadRecords(path string) ([]model.SiteRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	records := make([]model.SiteRecord, 0)
	for i, row := range rows {
		if i == 0 || len(row) < len(csvHeader) {
			// Header row, or a short row from a truncated write.
			continue
		}

		classified, _ := strconv.ParseBool(row[3]) //nolint:errcheck // Unparsable means false
		confidence, _ := strconv.Atoi(row[4])      //nolint:errcheck // Unparsable means zero

		records = append(records, model.SiteRecord{
			Domain:      row[1],
			ResolvedURL: row[2],
			Classified:  classified,
			Confidence:  confidence,
			Signals:     splitList(row[5]),
			Paths:       splitList(row[6]),
		})
	}

	return records, nil
}

// ReadCandidates reads back only the positively-classified sites whose
// confidence reached the classification threshold.
func ReadCandidates(path string) ([]model.CandidateSite, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.CandidateSite, 0)
	for _, r := range records {
		if !r.Classified || r.Confidence < model.ClassifyThreshold {
			continue
		}
		candidates = append(candidates, model.CandidateSite{
			Domain:     r.Domain,
			URL:        r.ResolvedURL,
			Confidence: r.Confidence,
			Paths:      r.Paths,
		})
	}

	return candidates, nil
}

// splitList splits a semicolon-joined list, returning nil for empty input.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ";")
}

// MultiSink fans appends out to several sinks.
//
// Design decision: We implement our own fan-out rather than using
// io.MultiWriter because sinks receive records, not raw bytes.
type MultiSink struct {
	sinks []Sink
}

// Sink is the record-append interface shared by CSV and database sinks.
type Sink interface {
	// Append persists one site record.
	Append(ctx context.Context, record *model.SiteRecord) error
}

// NewMultiSink creates a Sink writing to all provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Append writes the record to every sink, stopping on the first error.
func (m *MultiSink) Append(ctx context.Context, record *model.SiteRecord) error {
	for _, s := range m.sinks {
		if err := s.Append(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
