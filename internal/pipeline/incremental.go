package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/revdash/internal/source"
	"github.com/theirongolddev/revdash/internal/store"
)

// LoadWithCache loads the table at path, reading records from cache when the
// tracked mtime and size still match the file. Otherwise the file is parsed
// and the cache refreshed. Cache failures never fail the load; they are
// reported through LoadResult.CacheErr.
func LoadWithCache(path string, cache *store.Cache, progressFn ProgressFunc) (*LoadResult, error) {
	df, err := source.Locate(path)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		return parse(df, progressFn)
	}

	mtime := df.ModTime.UnixNano()

	tracked, ok, err := cache.GetTrackedFile(df.Path)
	if err != nil {
		result, perr := parse(df, progressFn)
		if perr != nil {
			return nil, perr
		}
		result.CacheErr = fmt.Errorf("reading cache: %w", err)
		return result, nil
	}

	if ok && tracked.Matches(mtime, df.Size) {
		records, err := cache.LoadRecords(df.Path)
		if err == nil && len(records) == tracked.Rows {
			if progressFn != nil {
				progressFn(len(records), len(records))
			}
			return &LoadResult{
				Snapshot: NewSnapshot(records, df.Path),
				File:     df,
				Filled: source.FillCounts{
					State:   tracked.FilledState,
					County:  tracked.FilledCounty,
					Product: tracked.FilledProduct,
				},
				FromCache: true,
			}, nil
		}
		if err == nil {
			err = errors.New("cached row count does not match tracker")
		}
		// Stale or damaged entry: fall through and reparse.
		result, perr := parse(df, progressFn)
		if perr != nil {
			return nil, perr
		}
		result.CacheErr = fmt.Errorf("loading cached records: %w", err)
		if serr := save(cache, result); serr != nil {
			result.CacheErr = errors.Join(result.CacheErr, serr)
		}
		return result, nil
	}

	result, err := parse(df, progressFn)
	if err != nil {
		return nil, err
	}
	result.CacheErr = save(cache, result)
	return result, nil
}

func save(cache *store.Cache, result *LoadResult) error {
	fi := store.FileInfo{
		MtimeNs:       result.File.ModTime.UnixNano(),
		SizeBytes:     result.File.Size,
		FilledState:   result.Filled.State,
		FilledCounty:  result.Filled.County,
		FilledProduct: result.Filled.Product,
	}
	if err := cache.SaveDataset(result.File.Path, result.Snapshot.All, fi); err != nil {
		return fmt.Errorf("saving cache: %w", err)
	}
	return nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "revdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "revdash")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "metrics.db")
}
