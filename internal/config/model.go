// File: internal/config/model.go
// Purpose: Data models for foreman.toml
// Problem: Need a structured, type-safe representation of the two legacy ToolRef shapes
// Role: Go structs mapping to the TOML file format described in spec.md §6
// Usage: Parsed by Load; consumed by the installer and trampoline dispatcher
// Design choices: raw TOML table is decoded permissively, then validated into ToolRef by hand,
//                 since the legacy "source = ..." vs "<host> = ..." shapes share one field position

package config

import "fmt"

// ToolRef is the single shape both legacy config forms parse into:
// (host, repo, version). spec.md §3.
type ToolRef struct {
	Host    string
	Repo    string
	Version string
}

// HostDef is a user-defined [hosts] table entry.
type HostDef struct {
	Source   string `toml:"source"`
	Protocol string `toml:"protocol"`
}

// File is the raw parsed shape of one foreman.toml, before ToolRef
// validation. Tool table entries are decoded as raw maps because the
// host key name is variable (github/gitlab/source/<custom>).
type File struct {
	Tools map[string]map[string]interface{} `toml:"tools"`
	Hosts map[string]HostDef                `toml:"hosts"`
}

// knownNonHostKeys are the ToolRef fields that are never host names.
var knownNonHostKeys = map[string]bool{"version": true}

// toToolRef converts one raw [tools.<alias>] table into a ToolRef,
// enforcing "exactly one host key must be present" (spec.md §3).
func toToolRef(alias string, raw map[string]interface{}) (ToolRef, error) {
	version, _ := raw["version"].(string)
	if version == "" {
		return ToolRef{}, fmt.Errorf("tool %q: version is required", alias)
	}

	var hostKey, repo string
	count := 0
	for k, v := range raw {
		if knownNonHostKeys[k] {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return ToolRef{}, fmt.Errorf("tool %q: field %q must be a string repo path", alias, k)
		}
		hostKey = k
		repo = s
		count++
	}

	switch count {
	case 0:
		return ToolRef{}, fmt.Errorf("tool %q: exactly one host key required, found none", alias)
	case 1:
		// ok
	default:
		return ToolRef{}, fmt.Errorf("tool %q: exactly one host key required, found %d", alias, count)
	}

	// "source" is the legacy spelling for github (spec.md §3).
	if hostKey == "source" {
		hostKey = "github"
	}

	return ToolRef{Host: hostKey, Repo: repo, Version: version}, nil
}
