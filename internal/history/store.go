package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"cratekeeper/internal/config"
	"cratekeeper/internal/fileutil"
	"cratekeeper/internal/services"
)

// Entry records one previously reviewed filename.
type Entry struct {
	Filename   string    `json:"filename"`
	SourcePath string    `json:"source_path"`
	AddedAt    time.Time `json:"added_at"`
}

// Match pairs a file found during a folder check with its history entry.
type Match struct {
	Path  string `json:"path"`
	Entry Entry  `json:"entry"`
}

// Store persists the filename-keyed review log, independent of the library.
type Store struct {
	db   *sql.DB
	path string
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS history_entries (
    filename TEXT PRIMARY KEY,
    source_path TEXT NOT NULL,
    added_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_added_at ON history_entries(added_at);
`

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DatabaseDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add records a filename as reviewed. Returns true when the filename was new
// and false when it was already recorded; that return value is the caller's
// sole novelty signal.
func (s *Store) Add(ctx context.Context, filename, sourcePath string) (bool, error) {
	if strings.TrimSpace(filename) == "" {
		return false, services.Wrap(services.ErrValidation, "history", "add", "filename is required", nil)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO history_entries (filename, source_path, added_at) VALUES (?, ?, ?)`,
		filename,
		sourcePath,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, services.Wrap(services.ErrStorage, "history", "add", filename, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, services.Wrap(services.ErrStorage, "history", "add", "rows affected", err)
	}
	return affected > 0, nil
}

// Check returns the entry for filename, or nil when it was never reviewed.
func (s *Store) Check(ctx context.Context, filename string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT filename, source_path, added_at FROM history_entries WHERE filename = ?`, filename)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "history", "check", filename, err)
	}
	return entry, nil
}

// AddFolder records every audio file under folder, returning how many
// filenames were new. Already-recorded filenames are skipped silently.
func (s *Store) AddFolder(ctx context.Context, folder string, extensions fileutil.ExtensionSet) (int, error) {
	paths, err := fileutil.ScanAudioFiles(folder, extensions)
	if err != nil {
		return 0, services.Wrap(services.ErrNotFound, "history", "add folder", folder, err)
	}
	return s.AddPaths(ctx, paths)
}

// AddPaths records the given paths by base filename in one transaction,
// returning how many were new.
func (s *Store) AddPaths(ctx context.Context, paths []string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, services.Wrap(services.ErrStorage, "history", "add paths", "begin tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO history_entries (filename, source_path, added_at) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, services.Wrap(services.ErrStorage, "history", "add paths", "prepare", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	added := 0
	for _, path := range paths {
		res, err := stmt.ExecContext(ctx, filepath.Base(path), path, now)
		if err != nil {
			return 0, services.Wrap(services.ErrStorage, "history", "add paths", path, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, services.Wrap(services.ErrStorage, "history", "add paths", "rows affected", err)
		}
		if affected > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, services.Wrap(services.ErrStorage, "history", "add paths", "commit", err)
	}
	return added, nil
}

// CheckFolder scans folder and returns a match for every audio file whose
// bare filename was previously recorded, regardless of where it now lives.
func (s *Store) CheckFolder(ctx context.Context, folder string, extensions fileutil.ExtensionSet) ([]Match, error) {
	paths, err := fileutil.ScanAudioFiles(folder, extensions)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "history", "check folder", folder, err)
	}
	return s.CheckPaths(ctx, paths)
}

// filenameChunkSize keeps each IN list well under SQLite's 32766
// bind-variable cap.
const filenameChunkSize = 10000

// CheckPaths returns a match for every path whose base filename was
// previously recorded. Lookups are grouped into chunked IN queries.
func (s *Store) CheckPaths(ctx context.Context, paths []string) ([]Match, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	byFilename := make(map[string][]string, len(paths))
	filenames := make([]string, 0, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		if _, ok := byFilename[name]; !ok {
			filenames = append(filenames, name)
		}
		byFilename[name] = append(byFilename[name], path)
	}

	var matches []Match
	for start := 0; start < len(filenames); start += filenameChunkSize {
		end := start + filenameChunkSize
		if end > len(filenames) {
			end = len(filenames)
		}
		chunk := filenames[start:end]

		chunkMatches, err := s.checkFilenames(ctx, chunk, byFilename)
		if err != nil {
			return nil, err
		}
		matches = append(matches, chunkMatches...)
	}
	return matches, nil
}

func (s *Store) checkFilenames(ctx context.Context, filenames []string, byFilename map[string][]string) ([]Match, error) {
	args := make([]any, len(filenames))
	for i, name := range filenames {
		args[i] = name
	}
	query := `SELECT filename, source_path, added_at FROM history_entries WHERE filename IN (` +
		makePlaceholders(len(filenames)) + `) ORDER BY filename`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "history", "check paths", "query", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrStorage, "history", "check paths", "scan", err)
		}
		for _, path := range byFilename[entry.Filename] {
			matches = append(matches, Match{Path: path, Entry: *entry})
		}
	}
	return matches, rows.Err()
}

// Count returns the number of recorded filenames.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM history_entries`).Scan(&count); err != nil {
		return 0, services.Wrap(services.ErrStorage, "history", "count", "", err)
	}
	return count, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		entry    Entry
		addedRaw string
	)
	if err := scanner.Scan(&entry.Filename, &entry.SourcePath, &addedRaw); err != nil {
		return nil, err
	}
	if added, err := time.Parse(time.RFC3339Nano, addedRaw); err == nil {
		entry.AddedAt = added
	}
	return &entry, nil
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
