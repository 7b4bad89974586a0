package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDiscover_WalksUpwardAndAppendsHome(t *testing.T) {
	root := t.TempDir()
	projectDir := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	writeFile(t, filepath.Join(root, "a", "foreman.toml"), "[tools]\n")
	writeFile(t, filepath.Join(projectDir, "foreman.toml"), "[tools]\n")

	homeConfig := filepath.Join(root, "home-foreman.toml")
	writeFile(t, homeConfig, "[tools]\n")

	found, err := Discover(projectDir, homeConfig)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if len(found) != 3 {
		t.Fatalf("expected 3 config files, got %d: %v", len(found), found)
	}
	if found[0] != filepath.Join(projectDir, "foreman.toml") {
		t.Errorf("expected deepest config first, got %s", found[0])
	}
	if found[len(found)-1] != homeConfig {
		t.Errorf("expected home config last, got %s", found[len(found)-1])
	}
}

func TestDiscover_SkipsHomeConfigIfAlreadyInChain(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "foreman.toml"), "[tools]\n")

	found, err := Discover(root, filepath.Join(root, "foreman.toml"))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	count := 0
	for _, p := range found {
		if p == filepath.Join(root, "foreman.toml") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected foreman.toml to appear once, appeared %d times", count)
	}
}

func TestMerge_ProjectOverridesUserDefault(t *testing.T) {
	deep := &File{Tools: map[string]map[string]interface{}{
		"rojo": {"github": "rojo-rbx/rojo", "version": "7.3.0"},
	}}
	shallow := &File{Tools: map[string]map[string]interface{}{
		"rojo": {"github": "rojo-rbx/rojo", "version": "6.0.0"},
	}}

	merged, err := Merge([]*File{deep, shallow})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if merged.Tools["rojo"].Version != "7.3.0" {
		t.Errorf("expected deepest config to win, got version %s", merged.Tools["rojo"].Version)
	}
}

func TestMerge_IsAssociativeFirstWins(t *testing.T) {
	a := &File{Tools: map[string]map[string]interface{}{
		"rojo": {"github": "rojo-rbx/rojo", "version": "1.0.0"},
	}}
	b := &File{Tools: map[string]map[string]interface{}{
		"rojo": {"github": "rojo-rbx/rojo", "version": "2.0.0"},
	}}
	c := &File{Tools: map[string]map[string]interface{}{
		"rojo": {"github": "rojo-rbx/rojo", "version": "3.0.0"},
	}}

	full, err := Merge([]*File{a, b, c})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	leftFold, err := Merge([]*File{a, b})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	leftFold, err = Merge([]*File{leftFold.toFile(), c})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if full.Tools["rojo"].Version != leftFold.Tools["rojo"].Version {
		t.Errorf("merge not associative: %s vs %s", full.Tools["rojo"].Version, leftFold.Tools["rojo"].Version)
	}
}

// toFile lets a MergedConfig re-enter Merge as a File for the
// associativity test above, since ToolRef is already validated.
func (m *MergedConfig) toFile() *File {
	f := &File{Tools: map[string]map[string]interface{}{}, Hosts: m.Hosts}
	for alias, ref := range m.Tools {
		f.Tools[alias] = map[string]interface{}{ref.Host: ref.Repo, "version": ref.Version}
	}
	return f
}

func TestToToolRef_LegacySourceFormEqualsGitHub(t *testing.T) {
	ref, err := toToolRef("rojo", map[string]interface{}{"source": "rojo-rbx/rojo", "version": "7.3.0"})
	if err != nil {
		t.Fatalf("toToolRef failed: %v", err)
	}
	if ref.Host != "github" {
		t.Errorf("expected source to resolve to host=github, got %s", ref.Host)
	}
	if ref.Repo != "rojo-rbx/rojo" || ref.Version != "7.3.0" {
		t.Errorf("unexpected ToolRef: %+v", ref)
	}
}

func TestToToolRef_RejectsZeroHostKeys(t *testing.T) {
	if _, err := toToolRef("rojo", map[string]interface{}{"version": "7.3.0"}); err == nil {
		t.Error("expected error for missing host key")
	}
}

func TestToToolRef_RejectsMultipleHostKeys(t *testing.T) {
	raw := map[string]interface{}{
		"github":  "rojo-rbx/rojo",
		"gitlab":  "rojo-rbx/rojo",
		"version": "7.3.0",
	}
	if _, err := toToolRef("rojo", raw); err == nil {
		t.Error("expected error for multiple host keys")
	}
}

func TestLoad_SyntaxErrorIdentifiesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreman.toml")
	writeFile(t, path, "this is not valid toml [[[")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("expected parse error to name %s, got: %v", path, err)
	}
}

func TestResolve_EndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "foreman.toml"), `
[tools]
rojo = { github = "rojo-rbx/rojo", version = "7.3.0" }
darklua = { gitlab = "seaofvoices/darklua", version = "0.8.0" }

[hosts]
custom = { source = "https://git.example.com", protocol = "gitlab" }
`)

	merged, err := Resolve(root, "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if merged.Tools["rojo"].Host != "github" {
		t.Errorf("expected rojo host=github, got %s", merged.Tools["rojo"].Host)
	}
	if merged.Tools["darklua"].Host != "gitlab" {
		t.Errorf("expected darklua host=gitlab, got %s", merged.Tools["darklua"].Host)
	}
	if merged.Hosts["custom"].Protocol != "gitlab" {
		t.Errorf("expected custom host protocol=gitlab, got %s", merged.Hosts["custom"].Protocol)
	}
}
