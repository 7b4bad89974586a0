// File: internal/status/reporter.go
// Purpose: Implements `foreman list` - prints each declared tool's cache status
// Problem: Users need to see, at a glance, which declared aliases are actually installed
// Role: Reporter.ShowStatus prints (host/repo, version, cached path) per alias from the cache index
// Usage: r := status.NewReporter(home, merged, ui); r.ShowStatus()
// Design choices: kept the teacher's Reporter/banner-and-sections presentation style,
//                 rebuilt around cache.Index lookups instead of a YAML state file

package status

import (
	"github.com/rkinnovate/foreman/internal/cache"
	"github.com/rkinnovate/foreman/internal/config"
	"github.com/rkinnovate/foreman/internal/paths"
	"github.com/rkinnovate/foreman/internal/ui"
)

// Reporter displays per-alias tool install status.
type Reporter struct {
	home   paths.Home
	merged *config.MergedConfig
	ui     ui.UI
}

// NewReporter creates a new status reporter.
func NewReporter(home paths.Home, merged *config.MergedConfig, ui ui.UI) *Reporter {
	return &Reporter{home: home, merged: merged, ui: ui}
}

// ShowStatus prints every declared tool alias with its (host/repo,
// version) and whether it's currently cached, per spec.md §6
// ("foreman list - print installed (host/repo, version) from cache index").
func (r *Reporter) ShowStatus() {
	r.ui.Info("")
	r.ui.Info("╔══════════════════════════════════════════════════════╗")
	r.ui.Info("║                  Foreman Tool Status                  ║")
	r.ui.Info("╚══════════════════════════════════════════════════════╝")
	r.ui.Info("")

	idx, err := cache.Load(r.home)
	if err != nil {
		r.ui.Error("Failed to load tool cache index: %v", err)
		return
	}

	installed := 0
	total := len(r.merged.Tools)

	for alias, ref := range r.merged.Tools {
		key := cache.Key{Host: ref.Host, Repo: ref.Repo, Version: ref.Version}
		if entry, ok := idx.Find(key); ok {
			installed++
			r.ui.Success("  %-20s %s/%s @ %s -> %s", alias, ref.Host, ref.Repo, ref.Version, entry.Path)
		} else {
			r.ui.Error("  %-20s %s/%s @ %s (not installed)", alias, ref.Host, ref.Repo, ref.Version)
		}
	}

	r.ui.Info("")
	r.ui.Info("%d/%d tools installed", installed, total)
	if installed < total {
		r.ui.Info("Run 'foreman install' to install missing tools")
	}
}
