// File: internal/trampoline/trampoline.go
// Purpose: Dispatches an argv[0]-as-tool-alias invocation to the cached binary
// Problem: A trampoline is a byte-identical copy of foreman; it must recognize itself by invocation name
// Role: Dispatch(ctx, home, merged, argv) resolves the alias, finds the cached path, spawns it, forwards signals
// Usage: os.Exit(trampoline.Dispatch(context.Background(), home, merged, os.Args))
// Design choices: os/exec with inherited stdio, grounded on cloudposse-atmos's re-exec pattern;
//                 signal forwarding split by build tag since POSIX and Windows differ completely

package trampoline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rkinnovate/foreman/internal/cache"
	"github.com/rkinnovate/foreman/internal/config"
	"github.com/rkinnovate/foreman/internal/foreman"
	"github.com/rkinnovate/foreman/internal/paths"
)

// AliasFromArgv0 strips any directory prefix and executable extension
// from argv[0], returning the candidate tool alias.
func AliasFromArgv0(argv0 string) string {
	base := filepath.Base(argv0)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsForemanItself reports whether alias names the foreman binary
// itself rather than a dispatched tool.
func IsForemanItself(alias string) bool {
	return alias == "foreman"
}

// Dispatch resolves alias from argv[0], finds its cached executable,
// spawns it with argv[1:], forwards termination signals, and returns
// the exit code foreman itself should exit with (spec.md §4.7).
func Dispatch(ctx context.Context, home paths.Home, merged *config.MergedConfig, argv []string) int {
	alias := AliasFromArgv0(argv[0])

	ref, ok := merged.Tools[alias]
	if !ok {
		fmt.Fprintf(os.Stderr, "foreman: unknown tool `%s`; is it listed in foreman.toml?\n", alias)
		return foreman.KindDispatch.ExitCode()
	}

	idx, err := cache.Load(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", alias, err)
		return foreman.KindCache.ExitCode()
	}

	key := cache.Key{Host: ref.Host, Repo: ref.Repo, Version: ref.Version}
	entry, ok := idx.Find(key)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: not installed; run `foreman install`\n", alias)
		return foreman.KindCache.ExitCode()
	}

	return spawnAndForward(ctx, entry.Path, argv[1:])
}

func spawnAndForward(ctx context.Context, path string, args []string) int {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "foreman: failed to spawn %s: %v\n", path, err)
		return 3
	}

	stop := forwardSignals(cmd)
	defer stop()

	err := cmd.Wait()
	return exitCodeFor(cmd, err)
}

func exitCodeFor(cmd *exec.Cmd, waitErr error) int {
	if waitErr == nil {
		return 0
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		if status, ok := signalExitStatus(exitErr); ok {
			return 128 + status
		}
		return exitErr.ExitCode()
	}
	return 1
}
