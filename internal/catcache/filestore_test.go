package catcache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arjunmk/mailspend/internal/logger"
)

func TestFileStore_RoundTrip(t *testing.T) {
	log := logger.NewWithWriter(&bytes.Buffer{})
	path := filepath.Join(t.TempDir(), "cache.json")

	s := NewFileStore(path, log)
	if _, ok := s.Get("swiggy"); ok {
		t.Fatal("fresh store should be empty")
	}

	s.Put("swiggy", "Food & Dining")
	s.Put("uber", "Transportation")
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	// A new instance over the same file must see the entries.
	reopened := NewFileStore(path, log)
	if cat, ok := reopened.Get("swiggy"); !ok || cat != "Food & Dining" {
		t.Errorf("Get(swiggy) = %q, %v; want Food & Dining", cat, ok)
	}
	if cat, ok := reopened.Get("uber"); !ok || cat != "Transportation" {
		t.Errorf("Get(uber) = %q, %v; want Transportation", cat, ok)
	}
}

func TestFileStore_MissingFileStartsEmpty(t *testing.T) {
	log := logger.NewWithWriter(&bytes.Buffer{})
	s := NewFileStore(filepath.Join(t.TempDir(), "nope.json"), log)

	if _, ok := s.Get("anything"); ok {
		t.Error("store over a missing file should be empty")
	}
}

func TestFileStore_MalformedFileStartsEmpty(t *testing.T) {
	log := logger.NewWithWriter(&bytes.Buffer{})
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path, log)
	if _, ok := s.Get("anything"); ok {
		t.Error("store over a malformed file should be empty")
	}

	// The store must still be usable and flushable afterwards.
	s.Put("swiggy", "Food & Dining")
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush after malformed load failed: %v", err)
	}
}

func TestFileStore_PutOverwrites(t *testing.T) {
	log := logger.NewWithWriter(&bytes.Buffer{})
	s := NewFileStore(filepath.Join(t.TempDir(), "cache.json"), log)

	s.Put("store x", "Other")
	s.Put("store x", "Shopping")

	if cat, _ := s.Get("store x"); cat != "Shopping" {
		t.Errorf("Get = %q, want Shopping", cat)
	}
}
