package dedupe_test

import (
	"context"
	"path/filepath"
	"testing"

	"cratekeeper/internal/dedupe"
	"cratekeeper/internal/services"
	"cratekeeper/internal/testsupport"
)

func TestCheckFilesMixedBatch(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	metadataTwin := testsupport.NewIndexedFile("/library/dp.mp3", "Daft Punk", "One More Time")
	testsupport.MustAdd(t, store, metadataTwin)

	contentTwin := testsupport.NewIndexedFile("/library/blob.mp3", "Whoever", "Whatever")
	contentTwin.ContentHash = contentHashOf(t, 99, 1024)
	testsupport.MustAdd(t, store, contentTwin)

	dir := t.TempDir()
	dupByMetadata := filepath.Join(dir, "Daft Punk - One More Time.flac")
	dupByContent := filepath.Join(dir, "X - Y.mp3")
	brandNew := filepath.Join(dir, "Justice - Genesis.mp3")
	missing := filepath.Join(dir, "not-on-disk.mp3")
	testsupport.WriteAudioFile(t, dupByMetadata, 1, 512)
	testsupport.WriteAudioFile(t, dupByContent, 99, 1024)
	testsupport.WriteAudioFile(t, brandNew, 2, 512)

	paths := []string{dupByMetadata, dupByContent, brandNew, missing}
	result, err := engine.CheckFiles(ctx, paths, 0.8)
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}
	if len(result.Verdicts) != len(paths) {
		t.Fatalf("verdicts = %d, want one per path", len(result.Verdicts))
	}

	if v := result.Verdicts[dupByMetadata]; !v.IsDuplicate || v.MatchType != dedupe.MatchExactMetadata {
		t.Fatalf("metadata twin verdict = %+v", v)
	}
	if v := result.Verdicts[dupByContent]; !v.IsDuplicate || v.MatchType != dedupe.MatchExactContent {
		t.Fatalf("content twin verdict = %+v", v)
	}
	if v := result.Verdicts[brandNew]; v.IsDuplicate || v.MatchType != dedupe.MatchNone {
		t.Fatalf("new file verdict = %+v", v)
	}

	// The unreadable path degrades to no-match without failing the batch.
	if v := result.Verdicts[missing]; v.IsDuplicate || v.MatchType != dedupe.MatchNone {
		t.Fatalf("missing file verdict = %+v", v)
	}
	if _, ok := result.Candidates[missing]; ok {
		t.Fatal("missing file must not produce a candidate record")
	}
	if len(result.Candidates) != 3 {
		t.Fatalf("candidates = %d, want 3", len(result.Candidates))
	}
}

func TestCheckFilesSharedHash(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	indexed := testsupport.NewIndexedFile("/library/dp.mp3", "Daft Punk", "One More Time")
	testsupport.MustAdd(t, store, indexed)

	// Two batch files with the same normalized identity share a hash lookup;
	// both must resolve independently.
	dir := t.TempDir()
	first := filepath.Join(dir, "Daft Punk - One More Time.flac")
	second := filepath.Join(dir, "sub", "DAFT PUNK - one more time.mp3")
	testsupport.WriteAudioFile(t, first, 4, 256)
	testsupport.WriteAudioFile(t, second, 5, 256)

	result, err := engine.CheckFiles(ctx, []string{first, second}, 0.8)
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}
	for _, path := range []string{first, second} {
		v := result.Verdicts[path]
		if !v.IsDuplicate || v.MatchType != dedupe.MatchExactMetadata {
			t.Fatalf("verdict for %s = %+v", path, v)
		}
		if v.BestMatch == nil || v.BestMatch.Path != "/library/dp.mp3" {
			t.Fatalf("best match for %s = %+v", path, v.BestMatch)
		}
	}
}

// SQLite LIKE is only ASCII case-insensitive, so the batch search must carry
// the artist's original spelling. A folded pattern would return an empty
// candidate pool here and misreport the variant as new.
func TestCheckFilesNonASCIIArtist(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	indexed := testsupport.NewIndexedFile("/library/piaf.mp3", "Édith Piaf", "La Vie en Rose")
	testsupport.MustAdd(t, store, indexed)

	dir := t.TempDir()
	variant := filepath.Join(dir, "Édith Piaf - La Vie en Rose (Radio Edit).mp3")
	testsupport.WriteAudioFile(t, variant, 8, 256)

	result, err := engine.CheckFiles(ctx, []string{variant}, 0.8)
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}
	v := result.Verdicts[variant]
	if !v.IsDuplicate || v.MatchType != dedupe.MatchFuzzyMetadata {
		t.Fatalf("batch verdict = %+v, want fuzzy duplicate", v)
	}
	if v.BestMatch == nil || v.BestMatch.Path != "/library/piaf.mp3" {
		t.Fatalf("best match = %+v", v.BestMatch)
	}

	// The single-file path must agree.
	single, err := engine.CheckFile(ctx, variant, 0.8)
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if single.IsDuplicate != v.IsDuplicate || single.MatchType != v.MatchType {
		t.Fatalf("single and batch verdicts diverge: %+v vs %+v", single, v)
	}
}

func TestCheckFilesFuzzyGrouping(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	a := testsupport.NewIndexedFile("/library/a.mp3", "Daft Punk", "One More Time (Remastered 2001)")
	b := testsupport.NewIndexedFile("/library/b.mp3", "Daft Punk", "Aerodynamic (Remastered 2001)")
	testsupport.MustAdd(t, store, a)
	testsupport.MustAdd(t, store, b)

	dir := t.TempDir()
	oneMoreTime := filepath.Join(dir, "Daft Punk - One More Time.mp3")
	aerodynamic := filepath.Join(dir, "Daft Punk - Aerodynamic.mp3")
	testsupport.WriteAudioFile(t, oneMoreTime, 6, 256)
	testsupport.WriteAudioFile(t, aerodynamic, 7, 256)

	result, err := engine.CheckFiles(ctx, []string{oneMoreTime, aerodynamic}, 0.8)
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}

	v := result.Verdicts[oneMoreTime]
	if !v.IsDuplicate || v.MatchType != dedupe.MatchFuzzyMetadata || v.BestMatch.Path != "/library/a.mp3" {
		t.Fatalf("fuzzy verdict = %+v", v)
	}
	v = result.Verdicts[aerodynamic]
	if !v.IsDuplicate || v.MatchType != dedupe.MatchFuzzyMetadata || v.BestMatch.Path != "/library/b.mp3" {
		t.Fatalf("fuzzy verdict = %+v", v)
	}
}

func TestCheckFilesEmpty(t *testing.T) {
	engine, _ := newTestEngine(t)

	result, err := engine.CheckFiles(context.Background(), nil, 0.8)
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}
	if len(result.Verdicts) != 0 || len(result.Candidates) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestCheckFilesRejectsInvalidThreshold(t *testing.T) {
	engine, _ := newTestEngine(t)

	if _, err := engine.CheckFiles(context.Background(), []string{"/x.mp3"}, 2); !services.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
