// File: internal/provider/artifactory.go
// Purpose: Minimal Artifactory generic-repository release listing and download
// Problem: spec.md defers Artifactory's exact search contract; no pack example targets its API
// Role: artifactoryProtocol is the one stdlib-only protocol adapter, kept deliberately thin
// Usage: p := newArtifactoryProtocol(host, apiKey); releases, err := p.ListReleases(ctx, repoPath)
// Design choices: net/http + encoding/json only - no example repo in the retrieval pack exercises
//                 Artifactory's AQL/search surface, so there is no library usage to imitate here

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rkinnovate/foreman/internal/hostregistry"
)

type artifactoryProtocol struct {
	host   hostregistry.Host
	apiKey string
	client *http.Client
}

func newArtifactoryProtocol(host hostregistry.Host, apiKey string) *artifactoryProtocol {
	return &artifactoryProtocol{host: host, apiKey: apiKey, client: http.DefaultClient}
}

// artifactoryFolderInfo is the subset of Artifactory's storage API
// folder-info response this adapter cares about: a folder's children.
type artifactoryFolderInfo struct {
	Children []struct {
		URI    string `json:"uri"`
		Folder bool   `json:"folder"`
	} `json:"children"`
}

// ListReleases treats each child folder of repoPath as a release tag,
// per Artifactory's generic-repository layout convention
// (<repo>/<tag>/<asset>). This is the simplest contract that fits a
// generic repository without assuming a package-specific layout.
func (p *artifactoryProtocol) ListReleases(ctx context.Context, repoPath string) ([]Release, error) {
	url := fmt.Sprintf("%s/api/storage/%s", p.host.BaseURL, repoPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build artifactory request: %w", err)
	}
	p.setAuth(req)

	var info artifactoryFolderInfo
	err = withRetry(ctx, func() error {
		resp, err := p.client.Do(req)
		if err != nil {
			return retryable(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return retryable(fmt.Errorf("artifactory storage query: server error %d", resp.StatusCode))
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("artifactory storage query: %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&info)
	})
	if err != nil {
		return nil, fmt.Errorf("list releases for %s: %w", repoPath, err)
	}

	var out []Release
	for _, child := range info.Children {
		if !child.Folder {
			continue
		}
		tag := child.URI
		if len(tag) > 0 && tag[0] == '/' {
			tag = tag[1:]
		}
		assets, err := p.listFolderAssets(ctx, repoPath+"/"+tag)
		if err != nil {
			return nil, err
		}
		out = append(out, Release{Tag: tag, Assets: assets})
	}

	return out, nil
}

func (p *artifactoryProtocol) listFolderAssets(ctx context.Context, folderPath string) ([]Asset, error) {
	url := fmt.Sprintf("%s/api/storage/%s", p.host.BaseURL, folderPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build artifactory request: %w", err)
	}
	p.setAuth(req)

	var info artifactoryFolderInfo
	err = withRetry(ctx, func() error {
		resp, err := p.client.Do(req)
		if err != nil {
			return retryable(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return retryable(fmt.Errorf("artifactory storage query: server error %d", resp.StatusCode))
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("artifactory storage query: %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&info)
	})
	if err != nil {
		return nil, err
	}

	var out []Asset
	for _, child := range info.Children {
		if child.Folder {
			continue
		}
		name := child.URI
		if len(name) > 0 && name[0] == '/' {
			name = name[1:]
		}
		out = append(out, Asset{
			Name:        name,
			DownloadURL: fmt.Sprintf("%s/%s/%s", p.host.BaseURL, folderPath, name),
		})
	}
	return out, nil
}

func (p *artifactoryProtocol) Download(ctx context.Context, asset Asset) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.DownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	p.setAuth(req)

	var body io.ReadCloser
	err = withRetry(ctx, func() error {
		resp, err := p.client.Do(req)
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

func (p *artifactoryProtocol) setAuth(req *http.Request) {
	if p.apiKey != "" {
		req.Header.Set("X-JFrog-Art-Api", p.apiKey)
	}
}
