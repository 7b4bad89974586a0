// File: cmd/foreman/main.go
// Purpose: CLI entry point - dispatches trampoline invocations, otherwise runs the foreman CLI
// Problem: A trampoline copy of this binary and the real "foreman" CLI share one executable
// Role: main() inspects argv[0] first, before cobra ever parses a flag, then falls through to Cobra
// Usage: `foreman install`, `foreman list`, `foreman github-auth <token>`; any other argv[0] dispatches
// Design choices: cobra root + subcommands (teacher's cmd/devsetup/main.go pattern), -v/-vv/-vvv
//                 verbosity flags wired to rs/zerolog, exit codes mapped via internal/foreman.Kind

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rkinnovate/foreman/internal/auth"
	"github.com/rkinnovate/foreman/internal/config"
	"github.com/rkinnovate/foreman/internal/foreman"
	"github.com/rkinnovate/foreman/internal/hostregistry"
	"github.com/rkinnovate/foreman/internal/installer"
	"github.com/rkinnovate/foreman/internal/logging"
	"github.com/rkinnovate/foreman/internal/paths"
	"github.com/rkinnovate/foreman/internal/status"
	"github.com/rkinnovate/foreman/internal/trampoline"
	"github.com/rkinnovate/foreman/internal/ui"
	"github.com/rkinnovate/foreman/internal/verify"
)

// buildVersion is set during build via -ldflags.
var buildVersion = "0.1.0-dev"

var verbosity int

func main() {
	alias := trampoline.AliasFromArgv0(os.Args[0])
	if !trampoline.IsForemanItself(alias) && len(os.Args) > 0 {
		os.Exit(runTrampoline())
	}
	os.Exit(runCLI())
}

func runTrampoline() int {
	home, err := paths.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "foreman: %v\n", err)
		return 1
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "foreman: %v\n", err)
		return 1
	}

	merged, err := config.Resolve(cwd, home.ConfigFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "foreman: %v\n", err)
		return 1
	}

	return trampoline.Dispatch(context.Background(), home, merged, os.Args)
}

func runCLI() int {
	root := &cobra.Command{
		Use:     "foreman",
		Short:   "A multi-tool version manager for developer toolchains",
		Version: buildVersion,
	}
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")

	root.AddCommand(installCmd(), listCmd(), authCmd("github-auth", "github"), authCmd("gitlab-auth", "gitlab"))

	if err := root.Execute(); err != nil {
		return foreman.KindOf(err).ExitCode()
	}
	return 0
}

func installCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install every tool declared in the merged foreman.toml chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(verbosity)

			home, err := paths.Resolve()
			if err != nil {
				return err
			}
			if err := home.Ensure(); err != nil {
				return err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			merged, err := config.Resolve(cwd, home.ConfigFile())
			if err != nil {
				return foreman.Wrap(foreman.KindConfiguration, "", err)
			}

			reg := hostregistry.New(merged.UserHosts())
			store, err := auth.Load(home.AuthFile())
			if err != nil {
				return err
			}

			progressUI := ui.NewProgressUI()
			progressUI.PrintBanner()

			results := installer.Install(cmd.Context(), home, merged, reg, store, logger, installer.DefaultParallelism, progressUI)

			var failed []installer.Result
			for _, r := range results {
				if r.Err != nil {
					failed = append(failed, r)
					progressUI.FailTask(r.Alias, r.Err)
					continue
				}
				if r.Skipped {
					progressUI.Info("%s: already cached at %s", r.Alias, r.Path)
				} else {
					progressUI.CompleteTask(r.Alias)
				}
			}

			if len(failed) > 0 {
				exitKind := foreman.KindOf(failed[0].Err)
				for _, r := range failed[1:] {
					if k := foreman.KindOf(r.Err); k.ExitCode() > exitKind.ExitCode() {
						exitKind = k
					}
				}
				return &cobraExitError{kind: exitKind, msg: fmt.Sprintf("%d of %d tools failed to install", len(failed), len(results))}
			}

			progressUI.Success("All tools installed")
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print installed (host/repo, version) pairs from the cache index",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := paths.Resolve()
			if err != nil {
				return err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			merged, err := config.Resolve(cwd, home.ConfigFile())
			if err != nil {
				return foreman.Wrap(foreman.KindConfiguration, "", err)
			}

			progressUI := ui.NewProgressUI()
			reporter := status.NewReporter(home, merged, progressUI)
			reporter.ShowStatus()

			verifier := verify.NewVerifier(home, merged, progressUI)
			if _, err := verifier.VerifyAll(); err != nil {
				progressUI.Warning("Some cached tools failed verification; run 'foreman install' to repair")
			}
			return nil
		},
	}
}

func authCmd(use, hostName string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [token]",
		Short: fmt.Sprintf("Store a %s credential in auth.toml", hostName),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := paths.Resolve()
			if err != nil {
				return err
			}
			if err := home.Ensure(); err != nil {
				return err
			}

			token := ""
			if len(args) == 1 {
				token = args[0]
			} else {
				fmt.Fprintf(os.Stderr, "Enter %s token: ", hostName)
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read token from stdin: %w", err)
				}
				token = trimNewline(line)
			}

			store, err := auth.Load(home.AuthFile())
			if err != nil {
				return err
			}
			store.SetToken(hostName, token)

			return auth.Save(home.AuthFile(), store)
		},
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// cobraExitError carries a foreman.Kind so main can map it to the
// right process exit code after cobra's Execute returns.
type cobraExitError struct {
	kind foreman.Kind
	msg  string
}

func (e *cobraExitError) Error() string { return e.msg }

func (e *cobraExitError) Unwrap() error { return foreman.Wrap(e.kind, "", errors.New(e.msg)) }
