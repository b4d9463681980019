package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeTestConfig creates a config file whose directories all live under a
// per-test temp root, so commands never touch the user's real data.
func writeTestConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
database_dir = %q
export_dir = %q
log_dir = %q
`,
		filepath.Join(base, "db"),
		filepath.Join(base, "exports"),
		filepath.Join(base, "logs"))

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}
