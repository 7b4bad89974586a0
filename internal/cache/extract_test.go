package cache

import (
	"archive/zip"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}

func TestExtract_Zip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "asset.zip")
	writeTestZip(t, zipPath, map[string]string{"rojo": "fake binary"})

	destDir := filepath.Join(dir, "dest")
	if err := Extract(zipPath, destDir); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(destDir, "rojo"))
	if err != nil {
		t.Fatalf("expected extracted file: %v", err)
	}
	if string(data) != "fake binary" {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestExtract_BareExecutable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "stylua")
	if err := os.WriteFile(src, []byte("#!/bin/sh\necho hi"), 0o644); err != nil {
		t.Fatalf("write bare executable: %v", err)
	}

	destDir := filepath.Join(dir, "dest")
	if err := Extract(src, destDir); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(destDir, "stylua"))
	if err != nil {
		t.Fatalf("expected copied executable: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o100 == 0 {
		t.Error("expected execute bit to be set after extraction")
	}
}

func TestPrimaryExecutable_SingleFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "only-binary"), []byte("x"), 0o755); err != nil {
		t.Fatalf("write: %v", err)
	}

	exe, err := PrimaryExecutable(dir, "rojo", "rojo-rbx/rojo")
	if err != nil {
		t.Fatalf("PrimaryExecutable failed: %v", err)
	}
	if filepath.Base(exe) != "only-binary" {
		t.Errorf("expected only-binary, got %s", exe)
	}
}

func TestPrimaryExecutable_MatchesAliasStem(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"README.md", "rojo", "LICENSE"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	exe, err := PrimaryExecutable(dir, "rojo", "rojo-rbx/rojo")
	if err != nil {
		t.Fatalf("PrimaryExecutable failed: %v", err)
	}
	if filepath.Base(exe) != "rojo" {
		t.Errorf("expected rojo, got %s", exe)
	}
}

func TestPrimaryExecutable_FallsBackToRepoLastSegment(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"README.md", "darklua", "LICENSE"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	exe, err := PrimaryExecutable(dir, "dklua", "seaofvoices/darklua")
	if err != nil {
		t.Fatalf("PrimaryExecutable failed: %v", err)
	}
	if filepath.Base(exe) != "darklua" {
		t.Errorf("expected darklua, got %s", exe)
	}
}

func TestPrimaryExecutable_AmbiguousTreeFails(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"README.md", "LICENSE", "NOTICE"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if _, err := PrimaryExecutable(dir, "rojo", "rojo-rbx/rojo"); err == nil {
		t.Error("expected error when no file matches alias or repo stem")
	}
}
