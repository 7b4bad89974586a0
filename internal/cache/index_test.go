package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rkinnovate/foreman/internal/paths"
)

func testHome(t *testing.T) paths.Home {
	t.Helper()
	t.Setenv("FOREMAN_HOME", t.TempDir())
	home, err := paths.Resolve()
	if err != nil {
		t.Fatalf("paths.Resolve failed: %v", err)
	}
	if err := home.Ensure(); err != nil {
		t.Fatalf("home.Ensure failed: %v", err)
	}
	return home
}

func TestLoad_MissingIndexYieldsEmpty(t *testing.T) {
	home := testHome(t)

	idx, err := Load(home)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(idx.Entries) != 0 {
		t.Errorf("expected empty index, got %d entries", len(idx.Entries))
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	home := testHome(t)

	exePath := filepath.Join(home.Tools(), "exe")
	if err := os.WriteFile(exePath, []byte("binary"), 0o755); err != nil {
		t.Fatalf("write fake exe: %v", err)
	}

	idx := &Index{}
	key := Key{Host: "github", Repo: "rojo-rbx/rojo", Version: "7.3.0"}
	idx.Put(Entry{Key: key, Path: exePath})

	if err := Save(home, idx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(home)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	entry, ok := reloaded.Find(key)
	if !ok {
		t.Fatal("expected to find entry after round trip")
	}
	if entry.Path != exePath {
		t.Errorf("expected path %s, got %s", exePath, entry.Path)
	}
}

func TestFind_MissingPathOnDiskIsCacheMiss(t *testing.T) {
	home := testHome(t)

	idx := &Index{}
	key := Key{Host: "github", Repo: "rojo-rbx/rojo", Version: "7.3.0"}
	idx.Put(Entry{Key: key, Path: filepath.Join(home.Tools(), "does-not-exist")})

	if _, ok := idx.Find(key); ok {
		t.Error("expected cache miss when the referenced path no longer exists")
	}
}

func TestPut_ReplacesExistingEntryForSameKey(t *testing.T) {
	idx := &Index{}
	key := Key{Host: "github", Repo: "rojo-rbx/rojo", Version: "7.3.0"}
	idx.Put(Entry{Key: key, Path: "/old/path"})
	idx.Put(Entry{Key: key, Path: "/new/path"})

	if len(idx.Entries) != 1 {
		t.Fatalf("expected 1 entry after replace, got %d", len(idx.Entries))
	}
	if idx.Entries[0].Path != "/new/path" {
		t.Errorf("expected replaced path, got %s", idx.Entries[0].Path)
	}
}

func TestDistinctHostsNeverCollideInIndex(t *testing.T) {
	idx := &Index{}
	idx.Put(Entry{Key: Key{Host: "github", Repo: "a/b", Version: "1.0.0"}, Path: "/p1"})
	idx.Put(Entry{Key: Key{Host: "gitlab", Repo: "a/b", Version: "1.0.0"}, Path: "/p2"})

	if len(idx.Entries) != 2 {
		t.Fatalf("expected 2 distinct entries, got %d", len(idx.Entries))
	}
}

func TestUpdateIndex_PersistsMutation(t *testing.T) {
	home := testHome(t)

	exePath := filepath.Join(home.Tools(), "exe")
	if err := os.WriteFile(exePath, []byte("binary"), 0o755); err != nil {
		t.Fatalf("write fake exe: %v", err)
	}

	key := Key{Host: "github", Repo: "rojo-rbx/rojo", Version: "7.3.0"}
	err := UpdateIndex(home, func(idx *Index) error {
		idx.Put(Entry{Key: key, Path: exePath})
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateIndex failed: %v", err)
	}

	reloaded, err := Load(home)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := reloaded.Find(key); !ok {
		t.Error("expected mutation to be persisted")
	}
}
