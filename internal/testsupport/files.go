package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteAudioFile writes a synthetic audio file whose bytes are derived from
// seed, so two files with the same seed are byte-identical and two files with
// different seeds are not.
func WriteAudioFile(t testing.TB, path string, seed byte, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	buf := make([]byte, size)
	for i := range buf {
		buf[i] = seed ^ byte(i%97)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
