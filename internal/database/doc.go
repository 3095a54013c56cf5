// Package database provides SQLite-based persistence of site records for
// cross-run comparison. The CSV file in package report is the primary sink;
// the database is an optional history store.
package database
