package dedupe

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"cratekeeper/internal/identity"
	"cratekeeper/internal/library"
	"cratekeeper/internal/media"
	"cratekeeper/internal/services"
)

// BuildCandidate derives an IndexedFile-shaped record for a file on disk:
// tags via the reader (with filename fallback), hashes via the identity
// package, size and mtime from the filesystem. The record is not persisted.
func BuildCandidate(reader media.Reader, path string) (*library.IndexedFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "dedupe", "build candidate", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "dedupe", "build candidate", abs, err)
	}

	tags, err := reader.Read(abs, true)
	if err != nil || tags == nil {
		// Unreadable tags degrade to filename-only identity.
		tags = &media.Tags{}
	}

	filename := filepath.Base(abs)
	artist := media.Deref(tags.Artist)
	title := media.Deref(tags.Title)

	contentHash, err := identity.ContentHash(abs)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "dedupe", "build candidate", abs, err)
	}

	mtime := info.ModTime().UTC()
	file := &library.IndexedFile{
		Path:         abs,
		Filename:     filename,
		Artist:       tags.Artist,
		Title:        tags.Title,
		Album:        tags.Album,
		Year:         tags.Year,
		Format:       strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
		SizeBytes:    info.Size(),
		IdentityHash: identity.Hash(artist, title, filename),
		ContentHash:  contentHash,
		IndexedAt:    time.Now().UTC(),
		SourceMtime:  &mtime,
		Active:       true,
	}
	return file, nil
}
