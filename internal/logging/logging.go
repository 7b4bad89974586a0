// File: internal/logging/logging.go
// Purpose: Structured, leveled logging for foreman's non-interactive diagnostics
// Problem: ui.ProgressUI renders user-facing progress; something else needs to carry
//          -v/-vv/-vvv verbosity and INFO logs for skipped release tags
// Role: Builds a zerolog.Logger at the verbosity the CLI flags request
// Usage: logger := logging.New(verbosity); logger.Info().Str("tag", tag).Msg("skipping non-semver tag")
// Design choices: writes to stderr (stdout is reserved for trampoline-forwarded child output);
//                 threaded explicitly through constructors, never a package-level global

package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds a zerolog.Logger at the level implied by verbosity:
//
//	0  -> warn and above only
//	1  -> info (-v)
//	2  -> debug (-vv)
//	3+ -> trace (-vvv)
//
// The provider adapters do not receive this logger, so no HTTP
// request/response traffic is logged at any level.
func New(verbosity int) zerolog.Logger {
	level := levelFor(verbosity)
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor()}).
		Level(level).
		With().Timestamp().Logger()
}

func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

func noColor() bool {
	return os.Getenv("NO_COLOR") != ""
}
