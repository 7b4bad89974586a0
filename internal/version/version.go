// File: internal/version/version.go
// Purpose: Parses version constraints and matches them against provider releases
// Problem: "X.Y.Z" means a caret range, "=X.Y.Z" means exact, tags need a leading v stripped
// Role: VersionReq parsing (spec.md §3, §4.2) and MatchRelease release selection
// Usage: req, err := version.ParseReq("7.3.0"); release, err := version.MatchRelease(req, releases, tagOf, logger)
// Design choices: wraps Masterminds/semver/v3, which already implements Cargo-style caret
//                 ranges and the "prerelease only matches an explicit prerelease constraint" rule

package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
)

// Req is a parsed version constraint.
type Req struct {
	raw         string
	constraints *semver.Constraints
}

// String returns the constraint as the user wrote it.
func (r Req) String() string { return r.raw }

// ParseReq parses a version requirement string. A bare "X.Y.Z" is
// interpreted as the Cargo-style caret constraint (>=X.Y.Z, <next-major).
// A leading "=" forces an exact match. Masterminds/semver treats a bare
// version as an exact match, so a bare requirement is given an explicit
// "^" before being handed to it.
func ParseReq(s string) (Req, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Req{}, fmt.Errorf("version requirement must not be empty")
	}

	constraintStr := trimmed
	if !strings.HasPrefix(trimmed, "=") && !startsWithOperator(trimmed) {
		// Bare "X.Y.Z" -> caret constraint. semver.NewConstraint would
		// read a bare version as an exact match, so the caret is explicit.
		constraintStr = "^" + trimmed
	}

	c, err := semver.NewConstraint(constraintStr)
	if err != nil {
		return Req{}, fmt.Errorf("parse version requirement %q: %w", s, err)
	}

	return Req{raw: trimmed, constraints: c}, nil
}

func startsWithOperator(s string) bool {
	for _, op := range []string{"=", ">", "<", "^", "~", "*"} {
		if strings.HasPrefix(s, op) {
			return true
		}
	}
	return false
}

// MatchRelease iterates releases newest-first (the order provider
// adapters return them in), strips a single leading "v" from each tag,
// skips non-SemVer tags with an INFO log, and returns the first release
// whose version satisfies req. spec.md §4.2.
func MatchRelease[T any](req Req, releases []T, tagOf func(T) string, logger zerolog.Logger) (*T, error) {
	for i := range releases {
		tag := tagOf(releases[i])
		stripped := strings.TrimPrefix(tag, "v")

		v, err := semver.NewVersion(stripped)
		if err != nil {
			logger.Info().Str("tag", tag).Msg("skipping release with non-semver tag")
			continue
		}

		if req.constraints.Check(v) {
			return &releases[i], nil
		}
	}

	return nil, fmt.Errorf("no release satisfies constraint %q", req.raw)
}
