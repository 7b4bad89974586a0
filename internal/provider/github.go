// File: internal/provider/github.go
// Purpose: GitHub release listing and asset download
// Problem: go-github paginates releases and returns assets with their own download machinery
// Role: githubProtocol implements Protocol against api.github.com or a GitHub Enterprise base URL
// Usage: p := newGitHubProtocol(host, token); releases, err := p.ListReleases(ctx, "rojo-rbx/rojo")
// Design choices: google/go-github/v66 (Gizzahub-gzh-cli-gitforge's go.mod), oauth2.StaticTokenSource
//                 for auth exactly like a PAT-authenticated git host client

package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/rkinnovate/foreman/internal/hostregistry"
)

type githubProtocol struct {
	client *github.Client
	host   hostregistry.Host
}

func newGitHubProtocol(host hostregistry.Host, token string) *githubProtocol {
	httpClient := http.DefaultClient
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if host.BaseURL != "" && host.BaseURL != "https://api.github.com" {
		if enterprise, err := client.WithEnterpriseURLs(host.BaseURL, host.BaseURL); err == nil {
			client = enterprise
		}
	}

	return &githubProtocol{client: client, host: host}
}

func (p *githubProtocol) ListReleases(ctx context.Context, repo string) ([]Release, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	var out []Release
	err = withRetry(ctx, func() error {
		releases, _, err := p.client.Repositories.ListReleases(ctx, owner, name, &github.ListOptions{PerPage: 100})
		if err != nil {
			if isClientError(err) {
				return err
			}
			return retryable(err)
		}

		out = out[:0]
		for _, r := range releases {
			rel := Release{Tag: r.GetTagName()}
			for _, a := range r.Assets {
				rel.Assets = append(rel.Assets, Asset{
					Name:        a.GetName(),
					DownloadURL: a.GetBrowserDownloadURL(),
					Size:        int64(a.GetSize()),
				})
			}
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list releases for %s: %w", repo, err)
	}

	return out, nil
}

func (p *githubProtocol) Download(ctx context.Context, asset Asset) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.DownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	var body io.ReadCloser
	err = withRetry(ctx, func() error {
		resp, err := p.client.Client().Do(req)
		if err != nil {
			return retryable(err)
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return retryable(fmt.Errorf("download %s: server error %d", asset.Name, resp.StatusCode))
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return fmt.Errorf("download %s: %d", asset.Name, resp.StatusCode)
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repo %q must be in owner/name form", repo)
	}
	return parts[0], parts[1], nil
}

func isClientError(err error) bool {
	if ghErr, ok := err.(*github.ErrorResponse); ok {
		return ghErr.Response != nil && ghErr.Response.StatusCode >= 400 && ghErr.Response.StatusCode < 500
	}
	return false
}
