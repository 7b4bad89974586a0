// File: internal/provider/provider.go
// Purpose: Defines the release/asset model and the Protocol interface every host speaks
// Problem: GitHub, GitLab, and Artifactory each expose releases and assets differently
// Role: Protocol abstracts "list releases" + "download asset" behind one interface
// Usage: p, err := provider.For(host, tokens); releases, err := p.ListReleases(ctx, repo)
// Design choices: Release/Asset are protocol-agnostic; each adapter maps its own wire
//                 shape onto them so internal/version and internal/artifact stay provider-blind

package provider

import (
	"context"
	"io"

	"github.com/rkinnovate/foreman/internal/hostregistry"
)

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name        string
	DownloadURL string
	Size        int64
}

// Release is one tagged release of a repo, protocol-agnostic.
type Release struct {
	Tag    string
	Assets []Asset
}

// Protocol lists and downloads releases for one host protocol.
type Protocol interface {
	// ListReleases returns releases newest-first for repo (e.g. "rojo-rbx/rojo").
	ListReleases(ctx context.Context, repo string) ([]Release, error)
	// Download opens a stream for the given asset.
	Download(ctx context.Context, asset Asset) (io.ReadCloser, error)
}

// TokenSource supplies the auth token for a host, if any is configured.
type TokenSource interface {
	Token(hostName string) string
}

// For constructs the Protocol adapter matching host.Protocol.
func For(host hostregistry.Host, tokens TokenSource) (Protocol, error) {
	switch host.Protocol {
	case hostregistry.ProtocolGitHub:
		return newGitHubProtocol(host, tokens.Token(host.Name)), nil
	case hostregistry.ProtocolGitLab:
		return newGitLabProtocol(host, tokens.Token(host.Name)), nil
	case hostregistry.ProtocolArtifactory:
		return newArtifactoryProtocol(host, tokens.Token(host.Name)), nil
	default:
		return nil, unsupportedProtocolError(host.Protocol)
	}
}

func unsupportedProtocolError(p hostregistry.Protocol) error {
	return &unsupportedProtocol{protocol: p}
}

type unsupportedProtocol struct {
	protocol hostregistry.Protocol
}

func (e *unsupportedProtocol) Error() string {
	return "unsupported host protocol: " + string(e.protocol)
}
