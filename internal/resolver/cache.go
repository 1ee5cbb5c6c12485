package resolver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// cacheFile is the persisted slug map: the serialized map plus the time
// it was fetched from the catalog.
type cacheFile struct {
	Slugs     map[string]string `json:"slugs"`
	FetchedAt time.Time         `json:"fetched_at"`
}

func loadCacheFile(path string) (map[string]string, time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read slug cache: %w", err)
	}

	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, time.Time{}, fmt.Errorf("parse slug cache: %w", err)
	}

	return f.Slugs, f.FetchedAt, nil
}

// saveCacheFile writes the cache through a temp file and rename, so a
// concurrent reader never sees a partially written map.
func saveCacheFile(path string, slugs map[string]string, fetchedAt time.Time) error {
	data, err := json.Marshal(cacheFile{Slugs: slugs, FetchedAt: fetchedAt})
	if err != nil {
		return fmt.Errorf("marshal slug cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".slugcache-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write slug cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slug cache: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace slug cache: %w", err)
	}
	return nil
}
