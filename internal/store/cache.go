// Package store provides a SQLite-backed cache for parsed revenue tables and
// county boundary data.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/revdash/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed dataset caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked state of one parsed data file.
type FileInfo struct {
	MtimeNs       int64
	SizeBytes     int64
	Rows          int
	FilledState   int
	FilledCounty  int
	FilledProduct int
	ParsedAt      time.Time
}

// Matches reports whether the tracked mtime and size equal the given ones.
func (fi FileInfo) Matches(mtimeNs, sizeBytes int64) bool {
	return fi.MtimeNs == mtimeNs && fi.SizeBytes == sizeBytes
}

// GetTrackedFile returns the tracking entry for path. ok is false when the
// file has never been cached.
func (c *Cache) GetTrackedFile(path string) (fi FileInfo, ok bool, err error) {
	var parsedAt string
	err = c.db.QueryRow(`SELECT mtime_ns, size_bytes, row_count,
		filled_state, filled_county, filled_product, parsed_at
		FROM file_tracker WHERE file_path = ?`, path).
		Scan(&fi.MtimeNs, &fi.SizeBytes, &fi.Rows,
			&fi.FilledState, &fi.FilledCounty, &fi.FilledProduct, &parsedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return FileInfo{}, false, nil
	}
	if err != nil {
		return FileInfo{}, false, err
	}
	fi.ParsedAt, _ = time.Parse(time.RFC3339, parsedAt)
	return fi, true, nil
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query(`SELECT file_path, mtime_ns, size_bytes, row_count,
		filled_state, filled_county, filled_product, parsed_at FROM file_tracker`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path, parsedAt string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes, &fi.Rows,
			&fi.FilledState, &fi.FilledCounty, &fi.FilledProduct, &parsedAt); err != nil {
			return nil, err
		}
		fi.ParsedAt, _ = time.Parse(time.RFC3339, parsedAt)
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveDataset replaces every cached record for path and updates its tracker
// entry in a single transaction.
func (c *Cache) SaveDataset(path string, records []model.Record, fi FileInfo) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM records WHERE file_path = ?", path); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO records
		(file_path, row_idx, fiscal_year, state, county, product,
		 land_class, revenue_type, commodity, revenue, fips)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		_, err = stmt.Exec(path, i, r.FiscalYear, r.State, r.County, r.Product,
			r.LandClass, r.RevenueType, r.Commodity, r.Revenue, r.FIPS)
		if err != nil {
			return fmt.Errorf("caching row %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker
		(file_path, mtime_ns, size_bytes, row_count,
		 filled_state, filled_county, filled_product, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		path, fi.MtimeNs, fi.SizeBytes, len(records),
		fi.FilledState, fi.FilledCounty, fi.FilledProduct, now,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadRecords reads the cached records for path in their original row order.
func (c *Cache) LoadRecords(path string) ([]model.Record, error) {
	rows, err := c.db.Query(`SELECT
		fiscal_year, state, county, product, land_class, revenue_type,
		commodity, revenue, fips
		FROM records WHERE file_path = ? ORDER BY row_idx`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		err := rows.Scan(&r.FiscalYear, &r.State, &r.County, &r.Product,
			&r.LandClass, &r.RevenueType, &r.Commodity, &r.Revenue, &r.FIPS)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteDataset removes the cached records and tracker entry for path.
func (c *Cache) DeleteDataset(path string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM records WHERE file_path = ?", path); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordCount returns the number of cached records across all files.
func (c *Cache) RecordCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}
