// File: internal/auth/store.go
// Purpose: Read/write per-host tokens in auth.toml
// Problem: Provider protocols need credentials without each one reading the file itself
// Role: Typed model + load/save for ~/.foreman/auth.toml (spec.md §3 AuthStore, §6 Auth file)
// Usage: store, err := auth.Load(home.AuthFile()); token, ok := store.Token("github")
// Design choices: loaded on demand, not at startup (spec.md §9 "Auth tokens are loaded on demand");
//                 chmod 0600 on Unix where the OS permits

package auth

import (
	"fmt"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Store is the parsed contents of auth.toml.
type Store struct {
	GitHub string            `toml:"github"`
	GitLab string            `toml:"gitlab"`
	Hosts  map[string]string `toml:"hosts"`
}

// Load reads and parses auth.toml at path. A missing file is not an
// error: it yields an empty Store, since auth.toml is entirely optional.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Store{Hosts: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read auth file %s: %w", path, err)
	}

	var s Store
	if _, err := toml.Decode(string(data), &s); err != nil {
		return nil, fmt.Errorf("parse auth file %s: %w", path, err)
	}
	if s.Hosts == nil {
		s.Hosts = map[string]string{}
	}
	return &s, nil
}

// Token returns the token configured for hostName, checking the
// built-in github/gitlab fields first, then the per-custom-host map.
func (s *Store) Token(hostName string) (string, bool) {
	switch hostName {
	case "github", "source":
		if s.GitHub != "" {
			return s.GitHub, true
		}
	case "gitlab":
		if s.GitLab != "" {
			return s.GitLab, true
		}
	}
	if tok, ok := s.Hosts[hostName]; ok && tok != "" {
		return tok, true
	}
	return "", false
}

// SetToken records a token for hostName, routing github/gitlab to their
// dedicated fields and everything else into the Hosts map.
func (s *Store) SetToken(hostName, token string) {
	switch hostName {
	case "github", "source":
		s.GitHub = token
	case "gitlab":
		s.GitLab = token
	default:
		if s.Hosts == nil {
			s.Hosts = map[string]string{}
		}
		s.Hosts[hostName] = token
	}
}

// Save writes the store to path, chmod'ing it 0600 on platforms where
// that permission model applies.
func Save(path string, s *Store) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open auth file %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("write auth file %s: %w", path, err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(path, 0o600); err != nil {
			return fmt.Errorf("chmod auth file %s: %w", path, err)
		}
	}

	return nil
}
