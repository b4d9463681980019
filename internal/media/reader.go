package media

import (
	"path/filepath"
	"strings"
)

// Tags holds the metadata fields a reader can recover from an audio file.
// Absent fields are nil.
type Tags struct {
	Artist *string
	Title  *string
	Album  *string
	Genre  *string
	Year   *int
}

// Reader reads metadata for an audio file. Implementations must tolerate
// unreadable or corrupt files by returning (nil, nil) rather than an error;
// errors are reserved for structural problems the caller cannot work around.
type Reader interface {
	Read(path string, fallbackToFilename bool) (*Tags, error)
}

// FilenameReader derives artist and title from "Artist - Title.ext" style
// filenames. It is the fallback used when no tag-reading collaborator is
// wired in, and the fallback path of readers that are.
type FilenameReader struct{}

// Read parses the base filename. When the name does not split into artist and
// title and fallbackToFilename is set, the whole stem becomes the title.
func (FilenameReader) Read(path string, fallbackToFilename bool) (*Tags, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return nil, nil
	}

	if artist, title, ok := splitArtistTitle(stem); ok {
		return &Tags{Artist: &artist, Title: &title}, nil
	}
	if fallbackToFilename {
		title := stem
		return &Tags{Title: &title}, nil
	}
	return nil, nil
}

func splitArtistTitle(stem string) (artist, title string, ok bool) {
	parts := strings.SplitN(stem, " - ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	artist = strings.TrimSpace(parts[0])
	title = strings.TrimSpace(parts[1])
	if artist == "" || title == "" {
		return "", "", false
	}
	return artist, title, true
}

// StringPtr returns a pointer to s, or nil when s is blank after trimming.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
