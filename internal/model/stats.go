package model

import (
	"fmt"
	"sync/atomic"
)

// Stats holds run-wide aggregate counters. It is the only structure mutated
// concurrently by multiple workers, so every field is an atomic counter and
// each increment is indivisible.
type Stats struct {
	processed atomic.Int64
	positive  atomic.Int64
	negative  atomic.Int64
	errors    atomic.Int64
}

// RecordResult counts one completed domain that produced a classification.
func (s *Stats) RecordResult(classified bool) {
	s.processed.Add(1)
	if classified {
		s.positive.Add(1)
	} else {
		s.negative.Add(1)
	}
}

// RecordError counts one completed domain that produced no classification.
func (s *Stats) RecordError() {
	s.processed.Add(1)
	s.errors.Add(1)
}

// Snapshot returns a consistent-enough point-in-time copy of the counters.
// Individual loads are atomic; the counters only ever increase, so a
// snapshot taken mid-run can lag but never invent completions.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Processed: s.processed.Load(),
		Positive:  s.positive.Load(),
		Negative:  s.negative.Load(),
		Errors:    s.errors.Load(),
	}
}

// StatsSnapshot is an immutable copy of Stats counters.
type StatsSnapshot struct {
	// Processed is the total number of completed domains.
	Processed int64

	// Positive is the number of domains classified as having a newsletter.
	Positive int64

	// Negative is the number of domains classified as not having one.
	Negative int64

	// Errors is the number of domains where every path failed or the task
	// itself failed.
	Errors int64
}

// String renders the snapshot as a one-line progress summary.
func (s StatsSnapshot) String() string {
	rate := 0.0
	if s.Processed > 0 {
		rate = float64(s.Positive) / float64(s.Processed) * 100
	}
	return fmt.Sprintf("%d processed | %d with newsletter (%.1f%%) | %d without | %d errors",
		s.Processed, s.Positive, rate, s.Negative, s.Errors)
}
