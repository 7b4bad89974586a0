// Package foreman holds types shared across the whole program: error
// kinds and the exit-code mapping described in the spec's error
// handling design.
package foreman

import (
	"errors"
	"fmt"
)

// Kind categorizes an error so callers can pick an exit code without
// string-sniffing the error message.
type Kind int

const (
	// KindConfiguration covers syntax errors, missing hosts, duplicate
	// host keys, and version strings that fail to parse.
	KindConfiguration Kind = iota
	// KindResolution covers "no release matches constraint" and "all
	// tags failed to parse as SemVer".
	KindResolution
	// KindArtifact covers "no compatible asset for this OS/arch".
	KindArtifact
	// KindTransport covers HTTP 4xx/5xx, DNS, TLS, and truncated bodies.
	KindTransport
	// KindExtraction covers unknown/corrupt archives and path traversal.
	KindExtraction
	// KindCache covers a missing cached binary at trampoline dispatch.
	KindCache
	// KindDispatch covers an unknown tool alias at trampoline entry.
	KindDispatch
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindResolution:
		return "resolution"
	case KindArtifact:
		return "artifact"
	case KindTransport:
		return "transport"
	case KindExtraction:
		return "extraction"
	case KindCache:
		return "cache"
	case KindDispatch:
		return "dispatch"
	default:
		return "unknown"
	}
}

// ExitCode returns the process exit code spec.md §6 assigns to this kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfiguration, KindDispatch:
		return 1
	case KindResolution, KindArtifact:
		return 2
	case KindTransport, KindExtraction, KindCache:
		return 3
	default:
		return 1
	}
}

// Error is a category-tagged error, optionally naming the tool alias
// that triggered it so user-visible messages can be prefixed per
// spec.md §7 ("single-line actionable messages prefixed with the
// offending tool alias where known").
type Error struct {
	Kind  Kind
	Alias string
	Err   error
}

func (e *Error) Error() string {
	if e.Alias != "" {
		return fmt.Sprintf("%s: %v", e.Alias, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with kind and an optional alias.
func Wrap(kind Kind, alias string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Alias: alias, Err: err}
}

// KindOf extracts the Kind from err if it (or something it wraps) is
// a *Error, defaulting to KindConfiguration otherwise.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindConfiguration
}
