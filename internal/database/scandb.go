package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mhammadzahi/nl-camel/internal/model"
)

// ScanDB stores site records across runs.
//
// Design decision: One database file for all runs rather than a file per
// run. Cross-run queries (did this domain change classification?) are the
// reason the store exists, and a single file keeps them trivial.
type ScanDB struct {
	// db is the underlying SQL connection.
	db *sql.DB

	// dbPath is the path of the SQLite file.
	dbPath string
}

// Open opens or creates the ScanDB under dir.
func Open(dir string) (*ScanDB, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	dbPath := filepath.Join(dir, "nlcamel.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{db: db, dbPath: dbPath}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (s *ScanDB) Close() error {
	return s.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (s *ScanDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS site_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain TEXT NOT NULL,
		resolved_url TEXT NOT NULL,
		classified INTEGER NOT NULL,
		confidence INTEGER NOT NULL,
		signals TEXT,
		paths TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_site_records_domain ON site_records(domain);
	CREATE INDEX IF NOT EXISTS idx_site_records_timestamp ON site_records(timestamp);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Append persists one site record. Implements the pipeline sink interface.
func (s *ScanDB) Append(ctx context.Context, record *model.SiteRecord) error {
	query := `
	INSERT INTO site_records (domain, resolved_url, classified, confidence, signals, paths)
	VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		record.Domain,
		record.ResolvedURL,
		record.Classified,
		record.Confidence,
		strings.Join(record.Signals, ";"),
		strings.Join(record.Paths, ";"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert site record for %s: %w", record.Domain, err)
	}
	return nil
}

// History returns the stored records for one domain, newest first.
func (s *ScanDB) History(ctx context.Context, domain string, limit int) ([]model.SiteRecord, error) {
	query := `
	SELECT domain, resolved_url, classified, confidence, signals, paths
	FROM site_records
	WHERE domain = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, domain, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", domain, err)
	}
	defer rows.Close()

	records := make([]model.SiteRecord, 0)
	for rows.Next() {
		var rec model.SiteRecord
		var signals, paths string
		if err := rows.Scan(&rec.Domain, &rec.ResolvedURL, &rec.Classified, &rec.Confidence, &signals, &paths); err != nil {
			return nil, fmt.Errorf("failed to scan site record: %w", err)
		}
		if signals != "" {
			rec.Signals = strings.Split(signals, ";")
		}
		if paths != "" {
			rec.Paths = strings.Split(paths, ";")
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
