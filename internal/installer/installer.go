// File: internal/installer/installer.go
// Purpose: Orchestrates the resolve -> cache-check -> list -> match -> download -> extract -> trampoline pipeline
// Problem: One failing tool must not abort installing the rest (spec.md §4.6 "install all before fail")
// Role: Install(ctx, ...) runs the full per-tool pipeline for every ToolAlias in a MergedConfig
// Usage: results := installer.Install(ctx, home, merged, reg, authStore, logger, parallelism, progressUI)
// Design choices: grounded on RKInnovate-dev-setup's ParallelExecutor, rebuilt on
//                 golang.org/x/sync/errgroup (Gizzahub-gzh-cli-gitforge's go.mod dependency)
//                 instead of the teacher's hand-rolled semaphore+WaitGroup

package installer

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rkinnovate/foreman/internal/artifact"
	"github.com/rkinnovate/foreman/internal/auth"
	"github.com/rkinnovate/foreman/internal/cache"
	"github.com/rkinnovate/foreman/internal/config"
	"github.com/rkinnovate/foreman/internal/foreman"
	"github.com/rkinnovate/foreman/internal/hostregistry"
	"github.com/rkinnovate/foreman/internal/paths"
	"github.com/rkinnovate/foreman/internal/provider"
	"github.com/rkinnovate/foreman/internal/ui"
	"github.com/rkinnovate/foreman/internal/version"
)

// DefaultParallelism matches the teacher's NewParallelExecutor(8, ...) default.
const DefaultParallelism = 8

// Result is the outcome of installing one alias.
type Result struct {
	Alias   string
	ToolRef config.ToolRef
	Path    string
	Skipped bool // cache hit, no download performed
	Err     error
}

// tokenAdapter bridges auth.Store's (string, bool) Token to
// provider.TokenSource's single-return shape.
type tokenAdapter struct{ store *auth.Store }

func (t tokenAdapter) Token(hostName string) string {
	tok, _ := t.store.Token(hostName)
	return tok
}

// providerFactory builds a Protocol for a resolved host. Install's
// default is provider.For; tests inject a fake to avoid real network
// calls while still exercising the match/select/download/extract/cache
// pipeline below.
type providerFactory func(hostregistry.Host, provider.TokenSource) (provider.Protocol, error)

// Install runs the pipeline of spec.md §4.6 for every alias in merged,
// up to parallelism at a time. Errors installing one tool never abort
// the others; every Result.Err is non-nil only for its own alias.
// progress may be nil (e.g. non-interactive callers); when set, each
// tool's pipeline announces itself via progress.StartTask before it
// starts real work, mirroring the teacher's tool_installer.go.
func Install(ctx context.Context, home paths.Home, merged *config.MergedConfig, reg *hostregistry.Registry, store *auth.Store, logger zerolog.Logger, parallelism int, progress ui.UI) []Result {
	return install(ctx, home, merged, reg, store, logger, parallelism, provider.For, progress)
}

func install(ctx context.Context, home paths.Home, merged *config.MergedConfig, reg *hostregistry.Registry, store *auth.Store, logger zerolog.Logger, parallelism int, newProtocol providerFactory, progress ui.UI) []Result {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	results := make([]Result, len(merged.Tools))
	aliases := make([]string, 0, len(merged.Tools))
	for alias := range merged.Tools {
		aliases = append(aliases, alias)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, alias := range aliases {
		i, alias := i, alias
		ref := merged.Tools[alias]
		g.Go(func() error {
			results[i] = installOne(gctx, home, alias, ref, reg, store, logger, newProtocol, progress)
			return nil
		})
	}
	// Every installOne call swallows its own error into Result.Err, so
	// g.Wait() never actually returns an error; it only blocks until
	// all goroutines finish.
	_ = g.Wait()

	return results
}

func installOne(ctx context.Context, home paths.Home, alias string, ref config.ToolRef, reg *hostregistry.Registry, store *auth.Store, logger zerolog.Logger, newProtocol providerFactory, progress ui.UI) Result {
	log := logger.With().Str("alias", alias).Logger()

	if progress != nil {
		progress.StartTask(fmt.Sprintf("%s %s/%s @ %s", alias, ref.Host, ref.Repo, ref.Version))
	}

	host, err := reg.Resolve(ref.Host)
	if err != nil {
		return Result{Alias: alias, ToolRef: ref, Err: foreman.Wrap(foreman.KindConfiguration, alias, err)}
	}

	key := cache.Key{Host: ref.Host, Repo: ref.Repo, Version: ref.Version}

	var result Result
	err = cache.WithInstallLock(home, key, func() error {
		idx, err := cache.Load(home)
		if err != nil {
			return err
		}

		if entry, ok := idx.Find(key); ok {
			log.Debug().Str("path", entry.Path).Msg("cache hit, skipping download")
			result = Result{Alias: alias, ToolRef: ref, Path: entry.Path, Skipped: true}
			return ensureTrampoline(home, alias, result.Path, &result)
		}

		proto, err := newProtocol(host, tokenAdapter{store: store})
		if err != nil {
			return foreman.Wrap(foreman.KindConfiguration, alias, err)
		}

		releases, err := proto.ListReleases(ctx, ref.Repo)
		if err != nil {
			return err
		}

		req, err := version.ParseReq(ref.Version)
		if err != nil {
			return foreman.Wrap(foreman.KindConfiguration, alias, err)
		}

		release, err := version.MatchRelease(req, releases, func(r provider.Release) string { return r.Tag }, log)
		if err != nil {
			return foreman.Wrap(foreman.KindResolution, alias, err)
		}

		asset, err := artifact.Select(runtime.GOOS, runtime.GOARCH, release.Assets)
		if err != nil {
			return err
		}

		tmpFile, err := downloadToTemp(ctx, proto, *asset)
		if err != nil {
			return foreman.Wrap(foreman.KindTransport, alias, err)
		}
		defer os.Remove(tmpFile)

		destDir := home.ToolDir(ref.Host, ref.Repo, ref.Version)
		if err := cache.Extract(tmpFile, destDir); err != nil {
			os.RemoveAll(destDir)
			return err
		}

		exePath, err := cache.PrimaryExecutable(destDir, alias, ref.Repo)
		if err != nil {
			os.RemoveAll(destDir)
			return err
		}

		if err := cache.UpdateIndex(home, func(i *cache.Index) error {
			i.Put(cache.Entry{Key: key, Path: exePath})
			return nil
		}); err != nil {
			return err
		}

		result = Result{Alias: alias, ToolRef: ref, Path: exePath}
		return ensureTrampoline(home, alias, exePath, &result)
	})

	if err != nil {
		return Result{Alias: alias, ToolRef: ref, Err: err}
	}
	return result
}

// ensureTrampoline ensures bin/<alias>[.exe] holds a byte-identical
// copy of the current foreman executable (spec.md §4.6 step 7). It is
// a last-writer-wins operation since all writers copy identical bytes.
func ensureTrampoline(home paths.Home, alias, toolPath string, result *Result) error {
	selfPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate current executable: %w", err)
	}

	trampolinePath := home.Trampoline(alias)
	same, err := filesIdentical(selfPath, trampolinePath)
	if err != nil {
		return err
	}
	if same {
		return nil
	}

	return copyExecutableBytes(selfPath, trampolinePath)
}

func filesIdentical(a, b string) (bool, error) {
	bInfo, err := os.Stat(b)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", b, err)
	}

	aInfo, err := os.Stat(a)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", a, err)
	}

	if aInfo.Size() != bInfo.Size() {
		return false, nil
	}

	aData, err := os.ReadFile(a)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", a, err)
	}
	bData, err := os.ReadFile(b)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", b, err)
	}

	return string(aData) == string(bData), nil
}

func copyExecutableBytes(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read current executable: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o755); err != nil {
		return fmt.Errorf("write trampoline %s: %w", dest, err)
	}
	return nil
}
