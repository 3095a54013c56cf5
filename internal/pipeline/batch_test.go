package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mhammadzahi/nl-camel/internal/model"
)

// sliceSource yields a fixed list of domains.
type sliceSource struct {
	domains []string
	idx     int
}

func (s *sliceSource) Next() (string, bool) {
	if s.idx >= len(s.domains) {
		return "", false
	}
	d := s.domains[s.idx]
	s.idx++
	return d, true
}

// funcExplorer adapts a function to the Explorer interface.
type funcExplorer func(ctx context.Context, domain string) (*model.SiteRecord, error)

func (f funcExplorer) Explore(ctx context.Context, domain string) (*model.SiteRecord, error) {
	return f(ctx, domain)
}

// memorySink records appended site records.
type memorySink struct {
	mu      sync.Mutex
	records []*model.SiteRecord
	err     error
}

func (s *memorySink) Append(_ context.Context, record *model.SiteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *memorySink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// classifiedRecord builds a minimal classified site record.
func classifiedRecord(domain string) *model.SiteRecord {
	return &model.SiteRecord{
		Domain:      domain,
		ResolvedURL: "https://" + domain + "/",
		Classified:  true,
		Confidence:  50,
	}
}

// TestBatchProcess tests end-to-end batch processing.
func TestBatchProcess(t *testing.T) {
	t.Parallel()

	t.Run("processes every domain from the source", func(t *testing.T) {
		t.Parallel()

		sink := &memorySink{}
		explorer := funcExplorer(func(_ context.Context, domain string) (*model.SiteRecord, error) {
			return classifiedRecord(domain), nil
		})

		domains := make([]string, 25)
		for i := range domains {
			domains[i] = fmt.Sprintf("site%d.example", i)
		}

		b := NewBatch(explorer, sink, WithWorkers(5))
		snap := b.Process(context.Background(), &sliceSource{domains: domains})

		if snap.Processed != 25 {
			t.Errorf("expected 25 processed, got %d", snap.Processed)
		}
		if snap.Positive != 25 {
			t.Errorf("expected 25 positive, got %d", snap.Positive)
		}
		if sink.len() != 25 {
			t.Errorf("expected 25 sink records, got %d", sink.len())
		}
	})

	t.Run("explorer errors are counted without writing records", func(t *testing.T) {
		t.Parallel()

		sink := &memorySink{}
		explorer := funcExplorer(func(_ context.Context, domain string) (*model.SiteRecord, error) {
			if domain == "down.example" {
				return nil, errors.New("no candidate path returned a successful response")
			}
			return classifiedRecord(domain), nil
		})

		b := NewBatch(explorer, sink, WithWorkers(2))
		snap := b.Process(context.Background(), &sliceSource{
			domains: []string{"up.example", "down.example", "up2.example"},
		})

		if snap.Errors != 1 {
			t.Errorf("expected 1 error, got %d", snap.Errors)
		}
		if snap.Processed != 3 {
			t.Errorf("expected 3 processed, got %d", snap.Processed)
		}
		if sink.len() != 2 {
			t.Errorf("expected 2 sink records, got %d", sink.len())
		}
	})

	t.Run("a panicking task never stops its siblings", func(t *testing.T) {
		t.Parallel()

		sink := &memorySink{}
		explorer := funcExplorer(func(_ context.Context, domain string) (*model.SiteRecord, error) {
			if domain == "evil.example" {
				panic("malformed document blew up the parser")
			}
			return classifiedRecord(domain), nil
		})

		b := NewBatch(explorer, sink, WithWorkers(2))
		snap := b.Process(context.Background(), &sliceSource{
			domains: []string{"a.example", "evil.example", "b.example", "c.example"},
		})

		if snap.Errors != 1 {
			t.Errorf("expected 1 error, got %d", snap.Errors)
		}
		if snap.Positive != 3 {
			t.Errorf("expected 3 positive, got %d", snap.Positive)
		}
		if sink.len() != 3 {
			t.Errorf("expected 3 sink records, got %d", sink.len())
		}
	})

	t.Run("sink failures are counted as errors", func(t *testing.T) {
		t.Parallel()

		sink := &memorySink{err: errors.New("disk full")}
		explorer := funcExplorer(func(_ context.Context, domain string) (*model.SiteRecord, error) {
			return classifiedRecord(domain), nil
		})

		b := NewBatch(explorer, sink, WithWorkers(1))
		snap := b.Process(context.Background(), &sliceSource{domains: []string{"a.example"}})

		if snap.Errors != 1 {
			t.Errorf("expected 1 error, got %d", snap.Errors)
		}
	})

	t.Run("respects the worker limit", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32

		explorer := funcExplorer(func(_ context.Context, domain string) (*model.SiteRecord, error) {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
			return classifiedRecord(domain), nil
		})

		domains := make([]string, 20)
		for i := range domains {
			domains[i] = fmt.Sprintf("site%d.example", i)
		}

		b := NewBatch(explorer, &memorySink{}, WithWorkers(3))
		b.Process(context.Background(), &sliceSource{domains: domains})

		if peak.Load() > 3 {
			t.Errorf("expected at most 3 concurrent tasks, saw %d", peak.Load())
		}
	})

	t.Run("cancelled context stops dispatch but completes in-flight tasks", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())

		started := make(chan struct{})
		var once sync.Once
		explorer := funcExplorer(func(_ context.Context, domain string) (*model.SiteRecord, error) {
			once.Do(func() {
				close(started)
				// Let the dispatcher observe the cancellation.
				time.Sleep(10 * time.Millisecond)
			})
			return classifiedRecord(domain), nil
		})

		go func() {
			<-started
			cancel()
		}()

		domains := make([]string, 100)
		for i := range domains {
			domains[i] = fmt.Sprintf("site%d.example", i)
		}

		b := NewBatch(explorer, &memorySink{}, WithWorkers(1))
		snap := b.Process(ctx, &sliceSource{domains: domains})

		if snap.Processed == 0 {
			t.Error("expected at least the in-flight task to complete")
		}
		if snap.Processed == 100 {
			t.Error("expected dispatch to stop before the whole list")
		}
	})
}

// TestBatchDefaults tests option handling.
func TestBatchDefaults(t *testing.T) {
	t.Parallel()

	b := NewBatch(nil, nil)

	if b.workers != 20 {
		t.Errorf("expected default 20 workers, got %d", b.workers)
	}
	if b.reportEvery != 50 {
		t.Errorf("expected default report interval 50, got %d", b.reportEvery)
	}
	if b.logger == nil {
		t.Error("expected non-nil logger")
	}

	b = NewBatch(nil, nil, WithWorkers(0), WithReportEvery(-1))
	if b.workers != 20 || b.reportEvery != 50 {
		t.Error("expected non-positive option values to be ignored")
	}
}
