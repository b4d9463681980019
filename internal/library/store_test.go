package library_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cratekeeper/internal/library"
	"cratekeeper/internal/services"
	"cratekeeper/internal/testsupport"
)

func TestAddAndGetByPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	year := 2001
	duration := 245.5
	file := testsupport.NewIndexedFile("/music/Daft Punk - One More Time.flac", "Daft Punk", "One More Time")
	album := "Discovery"
	file.Album = &album
	file.Year = &year
	file.DurationSeconds = &duration
	file.SizeBytes = 1024

	id := testsupport.MustAdd(t, store, file)
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	got, err := store.GetByPath(ctx, file.Path)
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.ID != id {
		t.Fatalf("id = %d, want %d", got.ID, id)
	}
	if got.ArtistValue() != "Daft Punk" || got.TitleValue() != "One More Time" {
		t.Fatalf("metadata = %q/%q", got.ArtistValue(), got.TitleValue())
	}
	if got.Album == nil || *got.Album != "Discovery" {
		t.Fatalf("album = %v", got.Album)
	}
	if got.Year == nil || *got.Year != year {
		t.Fatalf("year = %v", got.Year)
	}
	if got.DurationSeconds == nil || *got.DurationSeconds != duration {
		t.Fatalf("duration = %v", got.DurationSeconds)
	}
	if !got.Active {
		t.Fatal("expected active record")
	}
	if got.IndexedAt.IsZero() {
		t.Fatal("expected indexed_at to be set")
	}
}

func TestGetByPathAbsent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)

	got, err := store.GetByPath(context.Background(), "/nowhere.mp3")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestAddRejectsInvalidFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*library.IndexedFile)
	}{
		{"empty path", func(f *library.IndexedFile) { f.Path = "" }},
		{"empty filename", func(f *library.IndexedFile) { f.Filename = "" }},
		{"empty identity hash", func(f *library.IndexedFile) { f.IdentityHash = "" }},
		{"negative size", func(f *library.IndexedFile) { f.SizeBytes = -1 }},
		{"year too old", func(f *library.IndexedFile) { y := 1800; f.Year = &y }},
		{"year in the future", func(f *library.IndexedFile) { y := time.Now().Year() + 5; f.Year = &y }},
		{"negative duration", func(f *library.IndexedFile) { d := -1.0; f.DurationSeconds = &d }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			file := testsupport.NewIndexedFile("/music/x.mp3", "A", "B")
			tc.mutate(file)
			if _, err := store.Add(ctx, file); !services.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAddConflictOnDuplicatePath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	file := testsupport.NewIndexedFile("/music/a.mp3", "Artist", "Title")
	testsupport.MustAdd(t, store, file)

	again := testsupport.NewIndexedFile("/music/a.mp3", "Other", "Song")
	if _, err := store.Add(ctx, again); !services.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpsertUpdatesInPlace(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	file := testsupport.NewIndexedFile("/music/a.mp3", "Artist", "Title")
	id := testsupport.MustAdd(t, store, file)

	updated := testsupport.NewIndexedFile("/music/a.mp3", "Artist", "Retitled")
	updated.SizeBytes = 4096
	upsertedID, err := store.Upsert(ctx, updated)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if upsertedID != id {
		t.Fatalf("upsert id = %d, want original %d", upsertedID, id)
	}

	got, err := store.GetByPath(ctx, "/music/a.mp3")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if got.TitleValue() != "Retitled" || got.SizeBytes != 4096 {
		t.Fatalf("record not updated: %+v", got)
	}

	count, err := store.FileCount(ctx, false)
	if err != nil {
		t.Fatalf("FileCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("file count = %d, want 1", count)
	}
}

func TestFindByIdentityHashScopesToActive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	// Same normalized metadata, two paths, therefore the same identity hash.
	first := testsupport.NewIndexedFile("/music/a.mp3", "Artist", "Title")
	second := testsupport.NewIndexedFile("/music/b.mp3", "artist", "title")
	testsupport.MustAdd(t, store, first)
	testsupport.MustAdd(t, store, second)
	if first.IdentityHash != second.IdentityHash {
		t.Fatalf("identity hashes differ: %s vs %s", first.IdentityHash, second.IdentityHash)
	}

	matches, err := store.FindByIdentityHash(ctx, first.IdentityHash)
	if err != nil {
		t.Fatalf("FindByIdentityHash: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}

	if _, err := store.MarkInactive(ctx, "/music/b.mp3"); err != nil {
		t.Fatalf("MarkInactive: %v", err)
	}
	matches, err = store.FindByIdentityHash(ctx, first.IdentityHash)
	if err != nil {
		t.Fatalf("FindByIdentityHash after soft delete: %v", err)
	}
	if len(matches) != 1 || matches[0].Path != "/music/a.mp3" {
		t.Fatalf("expected only the active record, got %+v", matches)
	}

	top, err := store.GetByIdentityHash(ctx, first.IdentityHash)
	if err != nil {
		t.Fatalf("GetByIdentityHash: %v", err)
	}
	if top == nil || top.Path != "/music/a.mp3" {
		t.Fatalf("GetByIdentityHash = %+v", top)
	}
}

func TestFindByContentHashEmptyNeverMatches(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	file := testsupport.NewIndexedFile("/music/a.mp3", "Artist", "Title")
	testsupport.MustAdd(t, store, file)

	matches, err := store.FindByContentHash(ctx, "")
	if err != nil {
		t.Fatalf("FindByContentHash: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("empty hash matched %d rows", len(matches))
	}
}

func TestMarkInactive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	if _, err := store.MarkInactive(ctx, "  "); !services.IsValidation(err) {
		t.Fatalf("expected validation error for empty path, got %v", err)
	}

	changed, err := store.MarkInactive(ctx, "/music/absent.mp3")
	if err != nil {
		t.Fatalf("MarkInactive absent: %v", err)
	}
	if changed {
		t.Fatal("absent path should be a no-op")
	}

	file := testsupport.NewIndexedFile("/music/a.mp3", "Artist", "Title")
	testsupport.MustAdd(t, store, file)
	changed, err = store.MarkInactive(ctx, "/music/a.mp3")
	if err != nil {
		t.Fatalf("MarkInactive: %v", err)
	}
	if !changed {
		t.Fatal("expected soft delete to report a change")
	}

	got, err := store.GetByPath(ctx, "/music/a.mp3")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if got == nil || got.Active {
		t.Fatalf("expected inactive record to remain fetchable by path, got %+v", got)
	}
}

func TestDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	file := testsupport.NewIndexedFile("/music/a.mp3", "Artist", "Title")
	testsupport.MustAdd(t, store, file)

	deleted, err := store.Delete(ctx, "/music/a.mp3")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report a change")
	}

	deleted, err = store.Delete(ctx, "/music/a.mp3")
	if err != nil {
		t.Fatalf("Delete again: %v", err)
	}
	if deleted {
		t.Fatal("second delete should be a no-op")
	}

	got, err := store.GetByPath(ctx, "/music/a.mp3")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if got != nil {
		t.Fatalf("expected record gone, got %+v", got)
	}
}

func TestStatistics(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	a := testsupport.NewIndexedFile("/music/a.mp3", "Artist A", "One")
	a.SizeBytes = 100
	b := testsupport.NewIndexedFile("/music/b.flac", "Artist B", "Two")
	b.SizeBytes = 200
	c := testsupport.NewIndexedFile("/music/c.mp3", "Artist A", "Three")
	c.SizeBytes = 300
	for _, file := range []*library.IndexedFile{a, b, c} {
		testsupport.MustAdd(t, store, file)
	}
	if _, err := store.MarkInactive(ctx, "/music/c.mp3"); err != nil {
		t.Fatalf("MarkInactive: %v", err)
	}

	stats, err := store.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalFiles != 2 {
		t.Fatalf("total files = %d, want 2", stats.TotalFiles)
	}
	if stats.TotalBytes != 300 {
		t.Fatalf("total bytes = %d, want 300", stats.TotalBytes)
	}
	if stats.DistinctArtists != 2 {
		t.Fatalf("distinct artists = %d, want 2", stats.DistinctArtists)
	}
	if stats.ByFormat["mp3"] != 1 || stats.ByFormat["flac"] != 1 {
		t.Fatalf("format breakdown = %v", stats.ByFormat)
	}

	active, err := store.FileCount(ctx, true)
	if err != nil {
		t.Fatalf("FileCount active: %v", err)
	}
	if active != 2 {
		t.Fatalf("active count = %d, want 2", active)
	}
	all, err := store.FileCount(ctx, false)
	if err != nil {
		t.Fatalf("FileCount all: %v", err)
	}
	if all != 3 {
		t.Fatalf("all count = %d, want 3", all)
	}
}

func TestSaveVettingRunAndList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	if err := store.SaveVettingRun(ctx, nil); !services.IsValidation(err) {
		t.Fatalf("expected validation error for nil run, got %v", err)
	}

	run := &library.VettingRun{
		ID:             "run-1",
		Folder:         "/incoming",
		TotalFiles:     10,
		Threshold:      0.8,
		DuplicateCount: 4,
		NewCount:       5,
		UncertainCount: 1,
		ScanDuration:   1500 * time.Millisecond,
		CreatedAt:      time.Now().UTC(),
	}
	if err := store.SaveVettingRun(ctx, run); err != nil {
		t.Fatalf("SaveVettingRun: %v", err)
	}

	runs, err := store.VettingRuns(ctx, 10)
	if err != nil {
		t.Fatalf("VettingRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != "run-1" || got.TotalFiles != 10 || got.DuplicateCount != 4 {
		t.Fatalf("round-tripped run = %+v", got)
	}
	if got.ScanDuration != 1500*time.Millisecond {
		t.Fatalf("scan duration = %v", got.ScanDuration)
	}
}

func TestIndexedFileJSONRoundTrip(t *testing.T) {
	year := 1999
	mtime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	file := testsupport.NewIndexedFile("/music/a.mp3", "Artist", "Title")
	file.Year = &year
	file.SourceMtime = &mtime
	file.SizeBytes = 42

	data, err := json.Marshal(file)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded library.IndexedFile
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Path != file.Path || decoded.IdentityHash != file.IdentityHash {
		t.Fatalf("round trip lost identity: %+v", decoded)
	}
	if decoded.Year == nil || *decoded.Year != year {
		t.Fatalf("round trip lost year: %+v", decoded.Year)
	}
	if decoded.SourceMtime == nil || !decoded.SourceMtime.Equal(mtime) {
		t.Fatalf("round trip lost mtime: %+v", decoded.SourceMtime)
	}
}
