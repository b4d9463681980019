package library

import (
	"fmt"
	"strings"
	"time"

	"cratekeeper/internal/services"
)

// MinYear is the earliest year accepted on an indexed file.
const MinYear = 1900

// IndexedFile is one known file in the collection. Path is the natural key;
// IdentityHash and ContentHash drive exact duplicate lookups. Optional
// metadata fields are nil when the source file carried no usable tags.
type IndexedFile struct {
	ID              int64      `json:"id"`
	Path            string     `json:"path"`
	Filename        string     `json:"filename"`
	Artist          *string    `json:"artist,omitempty"`
	Title           *string    `json:"title,omitempty"`
	Album           *string    `json:"album,omitempty"`
	Year            *int       `json:"year,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`
	Format          string     `json:"format"`
	SizeBytes       int64      `json:"size_bytes"`
	IdentityHash    string     `json:"identity_hash"`
	ContentHash     string     `json:"content_hash"`
	IndexedAt       time.Time  `json:"indexed_at"`
	SourceMtime     *time.Time `json:"source_mtime,omitempty"`
	Active          bool       `json:"active"`
}

// Validate checks required fields and value ranges before any I/O happens.
func (f *IndexedFile) Validate() error {
	if f == nil {
		return services.Wrap(services.ErrValidation, "library", "validate", "file is nil", nil)
	}
	if strings.TrimSpace(f.Path) == "" {
		return services.Wrap(services.ErrValidation, "library", "validate", "path is required", nil)
	}
	if strings.TrimSpace(f.Filename) == "" {
		return services.Wrap(services.ErrValidation, "library", "validate", "filename is required", nil)
	}
	if strings.TrimSpace(f.IdentityHash) == "" {
		return services.Wrap(services.ErrValidation, "library", "validate", "identity hash is required", nil)
	}
	if f.SizeBytes < 0 {
		return services.Wrap(services.ErrValidation, "library", "validate", fmt.Sprintf("size must be >= 0, got %d", f.SizeBytes), nil)
	}
	if f.Year != nil {
		maxYear := time.Now().Year() + 1
		if *f.Year < MinYear || *f.Year > maxYear {
			return services.Wrap(services.ErrValidation, "library", "validate",
				fmt.Sprintf("year must be in [%d, %d], got %d", MinYear, maxYear, *f.Year), nil)
		}
	}
	if f.DurationSeconds != nil && *f.DurationSeconds < 0 {
		return services.Wrap(services.ErrValidation, "library", "validate",
			fmt.Sprintf("duration must be >= 0, got %f", *f.DurationSeconds), nil)
	}
	return nil
}

// ArtistValue returns the artist or "".
func (f *IndexedFile) ArtistValue() string {
	if f.Artist == nil {
		return ""
	}
	return *f.Artist
}

// TitleValue returns the title or "".
func (f *IndexedFile) TitleValue() string {
	if f.Title == nil {
		return ""
	}
	return *f.Title
}

// Statistics aggregates the active portion of the index server-side.
type Statistics struct {
	TotalFiles      int            `json:"total_files"`
	TotalBytes      int64          `json:"total_bytes"`
	DistinctArtists int            `json:"distinct_artists"`
	DistinctAlbums  int            `json:"distinct_albums"`
	ByFormat        map[string]int `json:"by_format"`
}

// VettingRun is the persisted audit record of one vetting report.
type VettingRun struct {
	ID             string        `json:"id"`
	Folder         string        `json:"folder"`
	TotalFiles     int           `json:"total_files"`
	Threshold      float64       `json:"threshold"`
	DuplicateCount int           `json:"duplicate_count"`
	NewCount       int           `json:"new_count"`
	UncertainCount int           `json:"uncertain_count"`
	ScanDuration   time.Duration `json:"scan_duration"`
	CreatedAt      time.Time     `json:"created_at"`
}
