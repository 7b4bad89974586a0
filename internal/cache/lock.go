// File: internal/cache/lock.go
// Purpose: Per-(host,repo,version) advisory lock so only one process installs a given tool at a time
// Problem: Two foreman invocations racing on the same tool must not both download/extract concurrently
// Role: WithInstallLock(home, key, fn) serializes installs of one key across processes
// Usage: err := cache.WithInstallLock(home, key, func() error { ... download+extract ... })
// Design choices: gofrs/flock, same as the global index lock - one small library for both locks

package cache

import (
	"fmt"

	"github.com/gofrs/flock"

	"github.com/rkinnovate/foreman/internal/paths"
)

// WithInstallLock holds the advisory lock at home.ToolLock(key...) for
// the duration of fn, serializing installs of this (host, repo,
// version) across processes (spec.md §4.5 Concurrency).
func WithInstallLock(home paths.Home, key Key, fn func() error) error {
	lockPath := home.ToolLock(key.Host, key.Repo, key.Version)

	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire install lock for %s/%s@%s: %w", key.Host, key.Repo, key.Version, err)
	}
	defer lock.Unlock()

	return fn()
}
