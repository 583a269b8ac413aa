package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoad(t *testing.T) {
	t.Parallel()
	s := NewStore(filepath.Join(t.TempDir(), "metadata"))

	if err := s.Save("workstation.yml", []byte("entries: []\n")); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := s.Load("workstation.yml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(raw) != "entries: []\n" {
		t.Fatalf("unexpected content: %q", raw)
	}
	if !s.Has("workstation.yml") || s.Has("server.yml") {
		t.Fatalf("Has is wrong")
	}
}

func TestHasAll(t *testing.T) {
	t.Parallel()
	s := NewStore(t.TempDir())
	sources := []string{"workstation.yml", "server.yml"}

	if s.HasAll(sources) {
		t.Fatalf("empty store cannot be complete")
	}
	if s.HasAll(nil) {
		t.Fatalf("an empty source list is never complete")
	}

	_ = s.Save("workstation.yml", []byte("a"))
	if s.HasAll(sources) {
		t.Fatalf("partial cache must not count as complete")
	}

	_ = s.Save("server.yml", []byte("b"))
	if !s.HasAll(sources) {
		t.Fatalf("complete cache not detected")
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()
	s := NewStore(t.TempDir())
	_ = s.Save("workstation.yml", []byte("a"))

	if err := s.Remove("workstation.yml"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(s.Path("workstation.yml")); !os.IsNotExist(err) {
		t.Fatalf("file still present")
	}
}
