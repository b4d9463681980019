package testsupport

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cratekeeper/internal/config"
	"cratekeeper/internal/history"
	"cratekeeper/internal/identity"
	"cratekeeper/internal/library"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewIndexedFile builds an active IndexedFile with hashes derived from the
// given metadata, ready for insertion.
func NewIndexedFile(path, artist, title string) *library.IndexedFile {
	filename := baseName(path)
	file := &library.IndexedFile{
		Path:         path,
		Filename:     filename,
		Format:       extOf(filename),
		IdentityHash: identity.Hash(artist, title, filename),
		IndexedAt:    time.Now().UTC(),
		Active:       true,
	}
	if artist != "" {
		file.Artist = &artist
	}
	if title != "" {
		file.Title = &title
	}
	return file
}

// MustAdd inserts a file into the library, failing the test on error.
func MustAdd(t testing.TB, store *library.Store, file *library.IndexedFile) int64 {
	t.Helper()

	id, err := store.Add(context.Background(), file)
	if err != nil {
		t.Fatalf("library.Add(%s): %v", file.Path, err)
	}
	return id
}

func baseName(path string) string {
	return filepath.Base(path)
}

func extOf(filename string) string {
	return strings.TrimPrefix(filepath.Ext(filename), ".")
}
