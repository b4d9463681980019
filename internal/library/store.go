package library

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
	"cratekeeper/internal/services"
)

// Store manages the persisted library index backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the library database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DatabaseDir, "library.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if err := applyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Add inserts one record and returns its assigned id. It fails with a
// validation error on bad input and a conflict error when the path is already
// indexed; use Upsert for insert-or-update semantics.
func (s *Store) Add(ctx context.Context, file *IndexedFile) (int64, error) {
	if err := file.Validate(); err != nil {
		return 0, err
	}
	if file.IndexedAt.IsZero() {
		file.IndexedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, insertSQL, insertArgs(file)...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, services.Wrap(services.ErrConflict, "library", "add", file.Path, err)
		}
		return 0, services.Wrap(services.ErrStorage, "library", "add", file.Path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, services.Wrap(services.ErrStorage, "library", "add", "last insert id", err)
	}
	file.ID = id
	return id, nil
}

// Upsert inserts the record or, when the path already exists, updates the
// existing row in place. Returns the row id either way.
func (s *Store) Upsert(ctx context.Context, file *IndexedFile) (int64, error) {
	if err := file.Validate(); err != nil {
		return 0, err
	}
	if file.IndexedAt.IsZero() {
		file.IndexedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, upsertSQL, insertArgs(file)...)
	if err != nil {
		return 0, services.Wrap(services.ErrStorage, "library", "upsert", file.Path, err)
	}

	existing, err := s.GetByPath(ctx, file.Path)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, services.Wrap(services.ErrStorage, "library", "upsert", "row vanished after upsert", nil)
	}
	file.ID = existing.ID
	return existing.ID, nil
}

// GetByPath fetches one record by its natural key regardless of active state.
// Returns nil when absent.
func (s *Store) GetByPath(ctx context.Context, path string) (*IndexedFile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE path = ?`, path)
	file, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "library", "get by path", path, err)
	}
	return file, nil
}

// GetByIdentityHash returns the first active record with the hash, or nil.
func (s *Store) GetByIdentityHash(ctx context.Context, hash string) (*IndexedFile, error) {
	matches, err := s.FindByIdentityHash(ctx, hash)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

// FindByIdentityHash returns all active records with the hash, oldest first.
func (s *Store) FindByIdentityHash(ctx context.Context, hash string) ([]*IndexedFile, error) {
	return s.queryFiles(ctx, `SELECT `+fileColumns+` FROM files WHERE identity_hash = ? AND active = 1 ORDER BY id`, hash)
}

// GetByContentHash returns the first active record with the hash, or nil.
func (s *Store) GetByContentHash(ctx context.Context, hash string) (*IndexedFile, error) {
	matches, err := s.FindByContentHash(ctx, hash)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

// FindByContentHash returns all active records with the hash, oldest first.
// The empty hash never matches; unhashed rows store "".
func (s *Store) FindByContentHash(ctx context.Context, hash string) ([]*IndexedFile, error) {
	if hash == "" {
		return nil, nil
	}
	return s.queryFiles(ctx, `SELECT `+fileColumns+` FROM files WHERE content_hash = ? AND active = 1 ORDER BY id`, hash)
}

// MarkInactive soft-deletes the record at path. Absent paths are a no-op;
// an empty path is a precondition violation.
func (s *Store) MarkInactive(ctx context.Context, path string) (bool, error) {
	if strings.TrimSpace(path) == "" {
		return false, services.Wrap(services.ErrValidation, "library", "mark inactive", "path is required", nil)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE files SET active = 0 WHERE path = ?`, path)
	if err != nil {
		return false, services.Wrap(services.ErrStorage, "library", "mark inactive", path, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, services.Wrap(services.ErrStorage, "library", "mark inactive", "rows affected", err)
	}
	return affected > 0, nil
}

// Delete removes the record at path permanently. Absent paths are a no-op.
func (s *Store) Delete(ctx context.Context, path string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path)
	if err != nil {
		return false, services.Wrap(services.ErrStorage, "library", "delete", path, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, services.Wrap(services.ErrStorage, "library", "delete", "rows affected", err)
	}
	return affected > 0, nil
}

func (s *Store) queryFiles(ctx context.Context, query string, args ...any) ([]*IndexedFile, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "library", "query", "", err)
	}
	defer rows.Close()

	var files []*IndexedFile
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrStorage, "library", "scan row", "", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "library", "iterate rows", "", err)
	}
	return files, nil
}

const fileColumns = "id, path, filename, artist, title, album, year, duration_seconds, format, size_bytes, identity_hash, content_hash, indexed_at, source_mtime, active"

const insertSQL = `INSERT INTO files (
        path, filename, artist, title, album, year, duration_seconds,
        format, size_bytes, identity_hash, content_hash, indexed_at, source_mtime, active
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const upsertSQL = insertSQL + `
    ON CONFLICT(path) DO UPDATE SET
        filename = excluded.filename,
        artist = excluded.artist,
        title = excluded.title,
        album = excluded.album,
        year = excluded.year,
        duration_seconds = excluded.duration_seconds,
        format = excluded.format,
        size_bytes = excluded.size_bytes,
        identity_hash = excluded.identity_hash,
        content_hash = excluded.content_hash,
        indexed_at = excluded.indexed_at,
        source_mtime = excluded.source_mtime,
        active = excluded.active`

func insertArgs(file *IndexedFile) []any {
	return []any{
		file.Path,
		file.Filename,
		nullableStringPtr(file.Artist),
		nullableStringPtr(file.Title),
		nullableStringPtr(file.Album),
		nullableIntPtr(file.Year),
		nullableFloatPtr(file.DurationSeconds),
		file.Format,
		file.SizeBytes,
		file.IdentityHash,
		file.ContentHash,
		file.IndexedAt.UTC().Format(time.RFC3339Nano),
		nullableTime(file.SourceMtime),
		boolToInt(file.Active),
	}
}

func scanFile(scanner interface{ Scan(dest ...any) error }) (*IndexedFile, error) {
	var (
		id           int64
		path         string
		filename     string
		artist       sql.NullString
		title        sql.NullString
		album        sql.NullString
		year         sql.NullInt64
		duration     sql.NullFloat64
		format       string
		sizeBytes    int64
		identityHash string
		contentHash  string
		indexedRaw   string
		mtimeRaw     sql.NullString
		active       int
	)

	if err := scanner.Scan(
		&id,
		&path,
		&filename,
		&artist,
		&title,
		&album,
		&year,
		&duration,
		&format,
		&sizeBytes,
		&identityHash,
		&contentHash,
		&indexedRaw,
		&mtimeRaw,
		&active,
	); err != nil {
		return nil, err
	}

	file := &IndexedFile{
		ID:           id,
		Path:         path,
		Filename:     filename,
		Format:       format,
		SizeBytes:    sizeBytes,
		IdentityHash: identityHash,
		ContentHash:  contentHash,
		Active:       active != 0,
	}
	if artist.Valid {
		v := artist.String
		file.Artist = &v
	}
	if title.Valid {
		v := title.String
		file.Title = &v
	}
	if album.Valid {
		v := album.String
		file.Album = &v
	}
	if year.Valid {
		v := int(year.Int64)
		file.Year = &v
	}
	if duration.Valid {
		v := duration.Float64
		file.DurationSeconds = &v
	}
	if indexed, err := parseTimeString(indexedRaw); err == nil {
		file.IndexedAt = indexed
	}
	if mtimeRaw.Valid {
		if mtime, err := parseTimeString(mtimeRaw.String); err == nil {
			file.SourceMtime = &mtime
		}
	}
	return file, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullableStringPtr(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

func nullableIntPtr(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableFloatPtr(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
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
