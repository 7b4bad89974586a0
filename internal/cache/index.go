// File: internal/cache/index.go
// Purpose: Reads/writes tool-cache.json, the on-disk record of installed tools
// Problem: Multiple foreman processes may install concurrently; the index must survive a crash mid-write
// Role: Index models the file; Save writes atomically; UpdateIndex runs Load/modify/Save under a global lock
// Usage: err := cache.UpdateIndex(home, func(idx *cache.Index) error { idx.Put(entry); return nil })
// Design choices: write-to-sibling-then-rename for atomicity, gofrs/flock for the cross-process
//                 lock (gravitational-teleport and the cloudposse-atmos/shipyard manifests both
//                 reach for flock-style advisory locks around shared state files)

package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gofrs/flock"

	"github.com/rkinnovate/foreman/internal/paths"
)

// Key identifies one cached install uniquely: spec.md §4.5 guarantees at
// most one entry per (Host, Repo, Version).
type Key struct {
	Host    string `json:"host"`
	Repo    string `json:"repo"`
	Version string `json:"version"`
}

// Entry is one record in tool-cache.json.
type Entry struct {
	Key  Key    `json:"key"`
	Path string `json:"path"`
}

// Index is the in-memory form of tool-cache.json.
type Index struct {
	Entries []Entry `json:"entries"`
}

// Find returns the cached entry for key, if one exists and its path is
// still present and executable on disk.
func (idx *Index) Find(key Key) (Entry, bool) {
	for _, e := range idx.Entries {
		if e.Key == key {
			if isExecutableFile(e.Path) {
				return e, true
			}
			return Entry{}, false
		}
	}
	return Entry{}, false
}

// Put inserts or replaces the entry for its key.
func (idx *Index) Put(e Entry) {
	for i, existing := range idx.Entries {
		if existing.Key == e.Key {
			idx.Entries[i] = e
			return
		}
	}
	idx.Entries = append(idx.Entries, e)
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return false
	}
	return true
}

// Load reads tool-cache.json, returning an empty Index if the file
// doesn't exist yet (first run).
func Load(home paths.Home) (*Index, error) {
	data, err := os.ReadFile(home.ToolCacheIndex())
	if os.IsNotExist(err) {
		return &Index{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tool cache index: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse tool cache index: %w", err)
	}
	return &idx, nil
}

// Save rewrites tool-cache.json atomically: encode to a sibling temp
// file, then rename over the target. A crash mid-write leaves the
// previous file intact.
func Save(home paths.Home, idx *Index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tool cache index: %w", err)
	}

	target := home.ToolCacheIndex()
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tool cache index temp file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("rename tool cache index into place: %w", err)
	}
	return nil
}

// WithIndexLock runs fn while holding the global tool-cache.json.lock,
// guarding the read-modify-write sequence against concurrent writers
// from other foreman processes.
func WithIndexLock(home paths.Home, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(home.ToolCacheLock()), 0o755); err != nil {
		return fmt.Errorf("create home directory: %w", err)
	}

	lock := flock.New(home.ToolCacheLock())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire tool cache lock: %w", err)
	}
	defer lock.Unlock()

	return fn()
}

// UpdateIndex loads the index, passes it to fn for mutation, and saves
// it back, all under the global lock.
func UpdateIndex(home paths.Home, fn func(*Index) error) error {
	return WithIndexLock(home, func() error {
		idx, err := Load(home)
		if err != nil {
			return err
		}
		if err := fn(idx); err != nil {
			return err
		}
		return Save(home, idx)
	})
}
