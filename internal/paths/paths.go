// File: internal/paths/paths.go
// Purpose: Resolves the foreman home directory and its canonical subpaths
// Problem: Every other component needs the same ~/.foreman layout without duplicating lookup logic
// Role: Single source of truth for on-disk locations described in spec.md §3 (Home) and §4.5 (Tool Cache)
// Usage: home, err := paths.Resolve(); home.Bin(), home.Tools(), home.ToolCacheIndex(), home.ConfigFile(), home.AuthFile()
// Design choices: resolved once at startup and threaded as an explicit value, no package-level globals
// Assumptions: FOREMAN_HOME, if set, is used verbatim; otherwise $HOME/.foreman

package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Home is the resolved foreman home directory, with accessors for every
// canonical subpath spec.md §3 and §4.5 name.
type Home struct {
	dir string
}

// Resolve determines the Home directory in priority order: (a) the
// FOREMAN_HOME environment override, (b) the user home directory plus
// ".foreman". It does not create anything on disk; call Ensure for that.
func Resolve() (Home, error) {
	if override := os.Getenv("FOREMAN_HOME"); override != "" {
		return Home{dir: override}, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return Home{}, fmt.Errorf("resolve foreman home: %w", err)
	}

	return Home{dir: filepath.Join(userHome, ".foreman")}, nil
}

// Dir returns the absolute path to the home directory itself.
func (h Home) Dir() string { return h.dir }

// Bin returns the bin/ directory, where trampolines are installed.
func (h Home) Bin() string { return filepath.Join(h.dir, "bin") }

// Tools returns the tools/ directory, where extracted tool archives live.
func (h Home) Tools() string { return filepath.Join(h.dir, "tools") }

// ToolCacheIndex returns the path to tool-cache.json.
func (h Home) ToolCacheIndex() string { return filepath.Join(h.dir, "tool-cache.json") }

// ToolCacheLock returns the path to the global tool-cache.json.lock.
func (h Home) ToolCacheLock() string { return h.ToolCacheIndex() + ".lock" }

// ConfigFile returns the path to the system-level foreman.toml.
func (h Home) ConfigFile() string { return filepath.Join(h.dir, "foreman.toml") }

// AuthFile returns the path to auth.toml.
func (h Home) AuthFile() string { return filepath.Join(h.dir, "auth.toml") }

// ToolDir returns the install directory for a specific (host, owner/repo, version),
// encoding all three into the directory name so distinct hosts never collide
// even for identical repo paths (spec.md §4.5).
func (h Home) ToolDir(host, ownerRepo, version string) string {
	owner, repo := splitOwnerRepo(ownerRepo)
	return filepath.Join(h.Tools(), fmt.Sprintf("%s__%s__%s-%s", host, owner, repo, version))
}

// ToolLock returns the advisory lock path guarding concurrent installs of
// a single (host, repo, version) key.
func (h Home) ToolLock(host, ownerRepo, version string) string {
	owner, repo := splitOwnerRepo(ownerRepo)
	return filepath.Join(h.Tools(), fmt.Sprintf("%s__%s__%s-%s.lock", host, owner, repo, version))
}

// Trampoline returns the path bin/<alias>[.exe] would occupy on the
// current platform.
func (h Home) Trampoline(alias string) string {
	if isWindows() {
		return filepath.Join(h.Bin(), alias+".exe")
	}
	return filepath.Join(h.Bin(), alias)
}

// Ensure creates Home, bin/, and tools/ if they don't already exist. It
// does not touch foreman.toml (read-only, user-authored) but writes a
// commented auth.toml template if one is absent.
func (h Home) Ensure() error {
	for _, dir := range []string{h.dir, h.Bin(), h.Tools()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(h.AuthFile()); os.IsNotExist(err) {
		if err := os.WriteFile(h.AuthFile(), []byte(authTemplate), 0o600); err != nil {
			return fmt.Errorf("write auth.toml template: %w", err)
		}
	}

	return nil
}

func splitOwnerRepo(ownerRepo string) (owner, repo string) {
	for i := len(ownerRepo) - 1; i >= 0; i-- {
		if ownerRepo[i] == '/' {
			return ownerRepo[:i], ownerRepo[i+1:]
		}
	}
	return "", ownerRepo
}

func isWindows() bool { return runtime.GOOS == "windows" }

const authTemplate = `# auth.toml - per-host credentials for foreman providers.
# Uncomment and fill in the tokens you need; this file is chmod 0600.
#
# github = "ghp_..."
# gitlab = "glpat-..."
#
# [hosts]
# my-custom-host = "token-for-that-host"
`
