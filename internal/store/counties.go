package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/theirongolddev/revdash/internal/model"
)

// SaveCounties replaces the cached boundary centroids fetched from sourceURL.
func (c *Cache) SaveCounties(sourceURL string, counties []model.County) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM counties WHERE source_url = ?", sourceURL); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO counties
		(source_url, fips, name, state_fips, lon, lat) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, ct := range counties {
		if _, err := stmt.Exec(sourceURL, ct.FIPS, ct.Name, ct.StateFIPS, ct.Lon, ct.Lat); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO geo_tracker (source_url, fetched_at, feature_count)
		VALUES (?, ?, ?)`, sourceURL, time.Now().UTC().Format(time.RFC3339), len(counties))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadCounties returns the cached centroids for sourceURL and when they were
// fetched. A zero time means nothing is cached.
func (c *Cache) LoadCounties(sourceURL string) ([]model.County, time.Time, error) {
	var fetched string
	err := c.db.QueryRow("SELECT fetched_at FROM geo_tracker WHERE source_url = ?", sourceURL).Scan(&fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	fetchedAt, _ := time.Parse(time.RFC3339, fetched)

	rows, err := c.db.Query(`SELECT fips, name, state_fips, lon, lat
		FROM counties WHERE source_url = ? ORDER BY fips`, sourceURL)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = rows.Close() }()

	var counties []model.County
	for rows.Next() {
		var ct model.County
		if err := rows.Scan(&ct.FIPS, &ct.Name, &ct.StateFIPS, &ct.Lon, &ct.Lat); err != nil {
			return nil, time.Time{}, err
		}
		counties = append(counties, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	return counties, fetchedAt, nil
}
