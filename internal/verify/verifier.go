// File: internal/verify/verifier.go
// Purpose: Checks the two invariants spec.md §8 states for a completed install
// Problem: A half-finished install can leave a cache entry with no file, or a stale trampoline
// Role: Verifier.VerifyAll checks every cache entry's path and every alias's trampoline
// Usage: v := verify.NewVerifier(home, merged, ui); result, err := v.VerifyAll()
// Design choices: kept the teacher's Verifier/VerifyResult shape and pass/fail reporting style,
//                 rebuilt around cache entries and trampolines instead of shell-command checks

package verify

import (
	"fmt"
	"os"

	"github.com/rkinnovate/foreman/internal/cache"
	"github.com/rkinnovate/foreman/internal/config"
	"github.com/rkinnovate/foreman/internal/paths"
	"github.com/rkinnovate/foreman/internal/ui"
)

// Verifier checks installed-tool invariants for the current home and config.
type Verifier struct {
	home   paths.Home
	merged *config.MergedConfig
	ui     ui.UI
}

// VerifyResult contains verification results.
type VerifyResult struct {
	ToolsOK     int
	ToolsFailed int
	Errors      []string
}

// NewVerifier creates a new verifier.
func NewVerifier(home paths.Home, merged *config.MergedConfig, ui ui.UI) *Verifier {
	return &Verifier{home: home, merged: merged, ui: ui}
}

// VerifyAll checks, for every alias in the merged config: the cache
// entry exists and its path is a regular executable file, and
// bin/<alias>[.exe] exists with bytes identical to the current foreman
// executable (spec.md §8 invariants).
func (v *Verifier) VerifyAll() (*VerifyResult, error) {
	v.ui.Info("Verifying installed tools...")
	v.ui.Info("")

	result := &VerifyResult{}

	idx, err := cache.Load(v.home)
	if err != nil {
		return nil, fmt.Errorf("load tool cache index: %w", err)
	}

	selfPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate current executable: %w", err)
	}
	selfBytes, err := os.ReadFile(selfPath)
	if err != nil {
		return nil, fmt.Errorf("read current executable: %w", err)
	}

	for alias, ref := range v.merged.Tools {
		key := cache.Key{Host: ref.Host, Repo: ref.Repo, Version: ref.Version}

		if ok := v.verifyCacheEntry(idx, key); !ok {
			result.ToolsFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: not installed or cached path missing", alias))
			v.ui.Error("  %s (not installed)", alias)
			continue
		}

		if ok := v.verifyTrampoline(alias, selfBytes); !ok {
			result.ToolsFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: trampoline missing or stale", alias))
			v.ui.Error("  %s (trampoline missing or stale)", alias)
			continue
		}

		result.ToolsOK++
		v.ui.Success("  %s", alias)
	}

	v.ui.Info("")
	total := result.ToolsOK + result.ToolsFailed
	if len(result.Errors) == 0 {
		v.ui.Success("Verification passed (%d/%d tools)", result.ToolsOK, total)
		return result, nil
	}

	v.ui.Error("Verification failed (%d/%d tools)", result.ToolsOK, total)
	v.ui.Info("Run 'foreman install' to fix issues")

	return result, fmt.Errorf("verification failed with %d errors", len(result.Errors))
}

func (v *Verifier) verifyCacheEntry(idx *cache.Index, key cache.Key) bool {
	entry, ok := idx.Find(key)
	if !ok {
		return false
	}
	info, err := os.Stat(entry.Path)
	if err != nil || info.IsDir() {
		return false
	}
	return true
}

func (v *Verifier) verifyTrampoline(alias string, selfBytes []byte) bool {
	path := v.home.Trampoline(alias)
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return string(data) == string(selfBytes)
}
