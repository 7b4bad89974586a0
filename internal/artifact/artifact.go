// File: internal/artifact/artifact.go
// Purpose: Chooses the single best release asset for the current OS/arch
// Problem: Asset naming is free-form; OS and arch tokens must be detected from the filename alone
// Role: Select(os, arch, assets) implements the scoring and tie-break rules of spec.md §4.4
// Usage: best, err := artifact.Select(runtime.GOOS, runtime.GOARCH, release.Assets)
// Design choices: bespoke scoring/tie-break logic unique to this spec's naming conventions;
//                 no pack example implements an equivalent matcher, so this stays stdlib-only

package artifact

import (
	"fmt"
	"strings"

	"github.com/rkinnovate/foreman/internal/foreman"
	"github.com/rkinnovate/foreman/internal/provider"
)

// OS identifies a target operating system.
type OS string

const (
	OSWindows OS = "windows"
	OSMacOS   OS = "macos"
	OSLinux   OS = "linux"
)

// Arch identifies a target CPU architecture.
type Arch string

const (
	ArchX86_64 Arch = "x86_64"
	ArchAArch64 Arch = "aarch64"
	ArchI686   Arch = "i686"
)

// NormalizeOS maps a Go runtime.GOOS value onto the spec's OS vocabulary.
func NormalizeOS(goos string) (OS, error) {
	switch goos {
	case "windows":
		return OSWindows, nil
	case "darwin":
		return OSMacOS, nil
	case "linux":
		return OSLinux, nil
	default:
		return "", fmt.Errorf("unsupported operating system %q", goos)
	}
}

// NormalizeArch maps a Go runtime.GOARCH value onto the spec's arch vocabulary.
func NormalizeArch(goarch string) (Arch, error) {
	switch goarch {
	case "amd64":
		return ArchX86_64, nil
	case "arm64":
		return ArchAArch64, nil
	case "386":
		return ArchI686, nil
	default:
		return "", fmt.Errorf("unsupported architecture %q", goarch)
	}
}

var osTokens = map[OS][]string{
	OSWindows: {"win", "windows"},
	OSMacOS:   {"mac", "darwin", "osx"},
	OSLinux:   {"linux"},
}

var archX86Tokens = []string{"x86_64", "x64", "amd64"}
var archArmTokens = []string{"arm64", "aarch64"}

func containsAny(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}

// score returns an asset's eligibility score: 2 strictly eligible, 1
// tentatively eligible (macOS Intel backward-compat case only), 0 ineligible.
func score(name string, os OS, arch Arch) int {
	lower := strings.ToLower(name)

	if !containsAny(lower, osTokens[os]) {
		return 0
	}

	hasArm := containsAny(lower, archArmTokens)
	hasX86 := containsAny(lower, archX86Tokens)

	switch os {
	case OSMacOS:
		switch arch {
		case ArchAArch64:
			if hasArm {
				return 2
			}
			if hasX86 {
				return 0
			}
			return 0
		case ArchX86_64:
			if hasX86 {
				return 2
			}
			if hasArm {
				return 0
			}
			// Bare "macos" label with no arch token: tentatively eligible,
			// for tools that only ever shipped one Intel build.
			return 1
		default:
			return 0
		}
	case OSWindows, OSLinux:
		// Strict gate: an arch token for the other architecture is always
		// disqualifying, and a missing token is never "tentatively
		// eligible" here, unlike the macOS Intel exception above. This is
		// the rule that prevents shipping an ARM (e.g. HoloLens) binary
		// onto an x86_64 host just because neither token matched.
		if arch == ArchX86_64 && hasArm {
			return 0
		}
		if arch == ArchAArch64 && hasX86 {
			return 0
		}
		if arch == ArchX86_64 && hasX86 {
			return 2
		}
		if arch == ArchAArch64 && hasArm {
			return 2
		}
		return 0
	default:
		return 0
	}
}

// formatRank orders archive formats for tie-breaking: zip, then
// tar.gz, then tgz, then a bare executable (no recognized extension).
func formatRank(name string) int {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return 0
	case strings.HasSuffix(lower, ".tar.gz"):
		return 1
	case strings.HasSuffix(lower, ".tgz"):
		return 2
	default:
		return 3
	}
}

// Select picks the single best asset for (os, arch) per spec.md §4.4:
// highest score first, then zip > tar.gz > tgz > bare executable, then
// lexicographically shortest name, then first-in-listing.
func Select(goos, goarch string, assets []provider.Asset) (*provider.Asset, error) {
	os, err := NormalizeOS(goos)
	if err != nil {
		return nil, foreman.Wrap(foreman.KindArtifact, "", err)
	}
	arch, err := NormalizeArch(goarch)
	if err != nil {
		return nil, foreman.Wrap(foreman.KindArtifact, "", err)
	}

	bestIdx := -1
	bestScore := 0
	for i, a := range assets {
		s := score(a.Name, os, arch)
		if s == 0 {
			continue
		}
		if bestIdx == -1 {
			bestIdx, bestScore = i, s
			continue
		}
		if better(a, s, assets[bestIdx], bestScore) {
			bestIdx, bestScore = i, s
		}
	}

	if bestIdx == -1 {
		names := make([]string, len(assets))
		for i, a := range assets {
			names[i] = a.Name
		}
		return nil, foreman.Wrap(foreman.KindArtifact, "",
			fmt.Errorf("no compatible asset for %s/%s among: %s", os, arch, strings.Join(names, ", ")))
	}

	return &assets[bestIdx], nil
}

// better reports whether candidate (score cs) beats the current best
// (score bs) under the tie-break order: score, then format rank, then
// shortest name. Equal ties keep the earlier (first-in-listing) asset.
func better(candidate provider.Asset, cs int, best provider.Asset, bs int) bool {
	if cs != bs {
		return cs > bs
	}
	cr, br := formatRank(candidate.Name), formatRank(best.Name)
	if cr != br {
		return cr < br
	}
	if len(candidate.Name) != len(best.Name) {
		return len(candidate.Name) < len(best.Name)
	}
	return false
}
