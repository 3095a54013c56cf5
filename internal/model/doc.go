// Package model defines the core data structures shared across nl-camel:
// detection signals, per-domain site records, and run-wide statistics.
package model
