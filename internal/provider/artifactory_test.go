package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/rkinnovate/foreman/internal/hostregistry"
)

func TestArtifactoryListReleases_WalksTagFolders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-JFrog-Art-Api"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}

		var resp artifactoryFolderInfo
		switch r.URL.Path {
		case "/api/storage/generic-repo/tool":
			resp.Children = []struct {
				URI    string `json:"uri"`
				Folder bool   `json:"folder"`
			}{
				{URI: "/1.0.0", Folder: true},
				{URI: "/2.0.0", Folder: true},
			}
		case "/api/storage/generic-repo/tool/1.0.0":
			resp.Children = []struct {
				URI    string `json:"uri"`
				Folder bool   `json:"folder"`
			}{
				{URI: "/tool-linux-amd64", Folder: false},
			}
		case "/api/storage/generic-repo/tool/2.0.0":
			resp.Children = []struct {
				URI    string `json:"uri"`
				Folder bool   `json:"folder"`
			}{
				{URI: "/tool-linux-amd64", Folder: false},
			}
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	host := hostregistry.Host{Name: "art", BaseURL: srv.URL, Protocol: hostregistry.ProtocolArtifactory}
	p := newArtifactoryProtocol(host, "test-key")

	releases, err := p.ListReleases(context.Background(), "generic-repo/tool")
	if err != nil {
		t.Fatalf("ListReleases failed: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 releases, got %d", len(releases))
	}

	tags := []string{releases[0].Tag, releases[1].Tag}
	sort.Strings(tags)
	if tags[0] != "1.0.0" || tags[1] != "2.0.0" {
		t.Errorf("unexpected tags: %v", tags)
	}
	for _, r := range releases {
		if len(r.Assets) != 1 || r.Assets[0].Name != "tool-linux-amd64" {
			t.Errorf("unexpected assets for tag %s: %+v", r.Tag, r.Assets)
		}
	}
}

func TestArtifactoryDownload_SetsAuthHeaderAndStreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-JFrog-Art-Api"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		w.Write([]byte("binary-content"))
	}))
	defer srv.Close()

	host := hostregistry.Host{Name: "art", BaseURL: srv.URL, Protocol: hostregistry.ProtocolArtifactory}
	p := newArtifactoryProtocol(host, "test-key")

	body, err := p.Download(context.Background(), Asset{Name: "tool-linux-amd64", DownloadURL: srv.URL + "/generic-repo/tool/1.0.0/tool-linux-amd64"})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != "binary-content" {
		t.Errorf("unexpected body: %s", data)
	}
}

func TestArtifactoryDownload_ServerErrorIsNotRetriedForever(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	host := hostregistry.Host{Name: "art", BaseURL: srv.URL, Protocol: hostregistry.ProtocolArtifactory}
	p := newArtifactoryProtocol(host, "")

	_, err := p.Download(context.Background(), Asset{Name: "tool", DownloadURL: srv.URL + "/x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, calls)
	}
}
