package library

import (
	"context"
	"strings"
	"time"

	"cratekeeper/internal/services"
)

// BatchInsert inserts all files inside a single transaction using one
// prepared statement. Any failure rolls back the whole batch; a partial batch
// is never visible to other connections. Returns the number of rows inserted.
func (s *Store) BatchInsert(ctx context.Context, files []*IndexedFile) (int, error) {
	return s.batchExec(ctx, "batch insert", files, insertSQL)
}

// BatchUpdate upserts all files inside a single transaction. Rows whose path
// is already indexed are updated in place.
func (s *Store) BatchUpdate(ctx context.Context, files []*IndexedFile) (int, error) {
	return s.batchExec(ctx, "batch update", files, upsertSQL)
}

func (s *Store) batchExec(ctx context.Context, operation string, files []*IndexedFile, query string) (int, error) {
	if len(files) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	for _, file := range files {
		if err := file.Validate(); err != nil {
			return 0, err
		}
		if file.IndexedAt.IsZero() {
			file.IndexedAt = now
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, services.Wrap(services.ErrStorage, "library", operation, "begin tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, services.Wrap(services.ErrStorage, "library", operation, "prepare", err)
	}
	defer stmt.Close()

	for _, file := range files {
		if _, err := stmt.ExecContext(ctx, insertArgs(file)...); err != nil {
			if isUniqueViolation(err) {
				return 0, services.Wrap(services.ErrConflict, "library", operation, file.Path, err)
			}
			return 0, services.Wrap(services.ErrStorage, "library", operation, file.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, services.Wrap(services.ErrStorage, "library", operation, "commit", err)
	}
	return len(files), nil
}

// hashChunkSize bounds an IN list well below SQLite's 32766 bind-variable
// cap, so a batch of any size still resolves in a handful of queries.
const hashChunkSize = 10000

// BatchGetByIdentityHashes resolves N hashes with chunked IN queries and
// returns a hash to active-records mapping. Hashes with no match are absent
// from the map.
func (s *Store) BatchGetByIdentityHashes(ctx context.Context, hashes []string) (map[string][]*IndexedFile, error) {
	return s.batchGetByHashColumn(ctx, "identity_hash", hashes)
}

// BatchGetByContentHashes resolves N content hashes with chunked IN queries.
func (s *Store) BatchGetByContentHashes(ctx context.Context, hashes []string) (map[string][]*IndexedFile, error) {
	return s.batchGetByHashColumn(ctx, "content_hash", hashes)
}

func (s *Store) batchGetByHashColumn(ctx context.Context, column string, hashes []string) (map[string][]*IndexedFile, error) {
	deduped := make([]string, 0, len(hashes))
	seen := make(map[string]struct{}, len(hashes))
	for _, hash := range hashes {
		if hash == "" {
			continue
		}
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}
		deduped = append(deduped, hash)
	}
	result := make(map[string][]*IndexedFile, len(deduped))
	if len(deduped) == 0 {
		return result, nil
	}

	for start := 0; start < len(deduped); start += hashChunkSize {
		end := start + hashChunkSize
		if end > len(deduped) {
			end = len(deduped)
		}
		chunk := deduped[start:end]

		args := make([]any, len(chunk))
		for i, hash := range chunk {
			args[i] = hash
		}
		query := `SELECT ` + fileColumns + ` FROM files WHERE ` + column + ` IN (` + makePlaceholders(len(chunk)) + `) AND active = 1 ORDER BY id`
		files, err := s.queryFiles(ctx, query, args...)
		if err != nil {
			return nil, err
		}

		for _, file := range files {
			key := file.IdentityHash
			if column == "content_hash" {
				key = file.ContentHash
			}
			result[key] = append(result[key], file)
		}
	}
	return result, nil
}

// SearchByArtistTitle returns active records matching the artist and/or title
// case-insensitively. Either argument may be empty; both empty is a
// validation error since an unbounded scan is never intended. Matching is
// substring on both fields, so one call per distinct artist covers a whole
// batch of candidate files.
func (s *Store) SearchByArtistTitle(ctx context.Context, artist, title string) ([]*IndexedFile, error) {
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if artist == "" && title == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "search", "artist or title is required", nil)
	}

	conditions := []string{"active = 1"}
	var args []any
	if artist != "" {
		conditions = append(conditions, "artist LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(artist)+"%")
	}
	if title != "" {
		conditions = append(conditions, "title LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(title)+"%")
	}

	query := `SELECT ` + fileColumns + ` FROM files WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY id`
	return s.queryFiles(ctx, query, args...)
}

func escapeLike(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "%", `\%`)
	return strings.ReplaceAll(value, "_", `\_`)
}
