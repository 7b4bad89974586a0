// File: internal/config/loader.go
// Purpose: Discovers the chain of foreman.toml files from CWD to Home, parses them, and merges
// Problem: Version/host declarations must respect "project overrides user default" precedence
// Role: Discover() walks the ancestor chain; Load() parses; Merge() validates tool entries and folds first-key-wins
// Usage: paths, err := Discover(cwd, homeConfigPath); files, err := LoadAll(paths); merged, err := Merge(files)
// Design choices: BurntSushi/toml for parsing (teacher's TOML dependency); symlink-safe ancestor walk;
//                 atomic, non-deep merge - the first occurrence of a key wins, full stop

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rkinnovate/foreman/internal/hostregistry"
)

// Discover walks from cwd upward to the filesystem root, collecting the
// path of every foreman.toml found (deepest first), then appends
// homeConfigPath if it exists and isn't already present. A symlink loop
// in the ancestor chain cannot cause non-termination: cwd is resolved
// to its real path once up front, and filepath.Dir on an absolute path
// always terminates at the OS root.
func Discover(cwd, homeConfigPath string) ([]string, error) {
	real, err := filepath.EvalSymlinks(cwd)
	if err != nil {
		real = cwd
	}
	real, err = filepath.Abs(real)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	var found []string
	dir := real
	for {
		candidate := filepath.Join(dir, "foreman.toml")
		if _, err := os.Stat(candidate); err == nil {
			found = append(found, candidate)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if homeConfigPath != "" {
		if _, err := os.Stat(homeConfigPath); err == nil && !contains(found, homeConfigPath) {
			found = append(found, homeConfigPath)
		}
	}

	return found, nil
}

func contains(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}
	return false
}

// Load parses a single foreman.toml; tool entries are validated later,
// by Merge. A syntax error names the offending file and carries
// BurntSushi/toml's decode error, whose message gives the line but not
// the column.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var f File
	meta, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	_ = meta

	return &f, nil
}

// LoadAll loads every discovered config file, in the same order.
func LoadAll(paths []string) ([]*File, error) {
	files := make([]*File, 0, len(paths))
	for _, p := range paths {
		f, err := Load(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// MergedConfig is the effective tools + hosts view after folding the
// discovered chain from most-specific to least-specific.
type MergedConfig struct {
	Tools map[string]ToolRef
	Hosts map[string]HostDef
}

// Merge folds files in order (most-specific first, per Discover's
// ordering) into one MergedConfig. For both tools and hosts, the first
// occurrence of a key wins; there is no deep merging, so this fold is
// associative regardless of how the list is split into sub-folds
// (spec.md §8: "Merging is associative and first-wins").
func Merge(files []*File) (*MergedConfig, error) {
	merged := &MergedConfig{
		Tools: map[string]ToolRef{},
		Hosts: map[string]HostDef{},
	}

	for _, f := range files {
		for alias, raw := range f.Tools {
			if _, exists := merged.Tools[alias]; exists {
				continue
			}
			ref, err := toToolRef(alias, raw)
			if err != nil {
				return nil, err
			}
			merged.Tools[alias] = ref
		}
		for name, host := range f.Hosts {
			if _, exists := merged.Hosts[name]; exists {
				continue
			}
			merged.Hosts[name] = host
		}
	}

	return merged, nil
}

// UserHosts converts the merged [hosts] table into the shape
// hostregistry.New expects.
func (m *MergedConfig) UserHosts() []hostregistry.UserHost {
	out := make([]hostregistry.UserHost, 0, len(m.Hosts))
	for name, def := range m.Hosts {
		out = append(out, hostregistry.UserHost{
			Name:     name,
			BaseURL:  def.Source,
			Protocol: hostregistry.Protocol(def.Protocol),
		})
	}
	return out
}

// Resolve is the convenience entry point: discover, load, and merge the
// config chain visible from cwd, given the system-level config path.
func Resolve(cwd, homeConfigPath string) (*MergedConfig, error) {
	paths, err := Discover(cwd, homeConfigPath)
	if err != nil {
		return nil, err
	}

	files, err := LoadAll(paths)
	if err != nil {
		return nil, err
	}

	return Merge(files)
}
