// Package cache stores downloaded catalog files on disk so repeated runs
// do not hammer the upstream services.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Cache keeps timestamped copies of one named resource under a directory,
// returning the newest copy while it is younger than the TTL.
type Cache struct {
	dir      string
	ttl      time.Duration
	maxFiles int
}

// New creates a Cache rooted at dir. Entries older than ttl are treated
// as stale by LoadFresh; at most maxFiles copies per resource are kept.
func New(dir string, ttl time.Duration, maxFiles int) *Cache {
	if maxFiles <= 0 {
		maxFiles = 3
	}
	return &Cache{
		dir:      dir,
		ttl:      ttl,
		maxFiles: maxFiles,
	}
}

// Write saves data as a new timestamped copy of the named resource and
// prunes copies beyond maxFiles.
func (c *Cache) Write(name string, data []byte, ts time.Time) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%d.dat", name, ts.Unix())
	path := filepath.Join(c.dir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}

	return c.prune(name)
}

// LoadFresh returns the newest copy of the named resource if it is
// younger than the TTL. A stale or missing entry returns an error.
func (c *Cache) LoadFresh(name string, now time.Time) ([]byte, error) {
	data, ts, err := c.LoadLatest(name)
	if err != nil {
		return nil, err
	}
	if now.Sub(ts) > c.ttl {
		return nil, fmt.Errorf("cache entry %q is stale (age %s)", name, now.Sub(ts).Round(time.Minute))
	}
	return data, nil
}

// LoadLatest returns the newest copy of the named resource regardless of
// age, with its timestamp. Useful as a fallback when a download fails.
func (c *Cache) LoadLatest(name string) ([]byte, time.Time, error) {
	files, err := c.listFiles(name)
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(files) == 0 {
		return nil, time.Time{}, fmt.Errorf("no cache entries for %q", name)
	}

	latest := files[len(files)-1]
	data, err := os.ReadFile(filepath.Join(c.dir, latest.name))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading cache file: %w", err)
	}
	return data, latest.ts, nil
}

type cacheFile struct {
	name string
	ts   time.Time
}

func (c *Cache) listFiles(resource string) ([]cacheFile, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing cache dir: %w", err)
	}

	prefix := resource + "_"
	var files []cacheFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".dat") {
			continue
		}
		tsStr := strings.TrimPrefix(name, prefix)
		tsStr = strings.TrimSuffix(tsStr, ".dat")
		unix, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			continue
		}
		files = append(files, cacheFile{name: name, ts: time.Unix(unix, 0)})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ts.Before(files[j].ts)
	})
	return files, nil
}

func (c *Cache) prune(resource string) error {
	files, err := c.listFiles(resource)
	if err != nil {
		return err
	}
	if len(files) <= c.maxFiles {
		return nil
	}

	for _, f := range files[:len(files)-c.maxFiles] {
		if err := os.Remove(filepath.Join(c.dir, f.name)); err != nil {
			return fmt.Errorf("pruning cache file %s: %w", f.name, err)
		}
	}
	return nil
}
