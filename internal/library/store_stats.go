package library

import (
	"context"
	"time"

	"cratekeeper/internal/services"
)

// Statistics aggregates counts over the active index in two server-side
// passes; no records are materialized client-side.
func (s *Store) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{ByFormat: make(map[string]int)}

	row := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(SUM(size_bytes), 0),
               COUNT(DISTINCT artist),
               COUNT(DISTINCT album)
        FROM files WHERE active = 1`)
	if err := row.Scan(&stats.TotalFiles, &stats.TotalBytes, &stats.DistinctArtists, &stats.DistinctAlbums); err != nil {
		return nil, services.Wrap(services.ErrStorage, "library", "statistics", "aggregate", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT format, COUNT(1) FROM files WHERE active = 1 GROUP BY format`)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "library", "statistics", "format breakdown", err)
	}
	defer rows.Close()
	for rows.Next() {
		var format string
		var count int
		if err := rows.Scan(&format, &count); err != nil {
			return nil, services.Wrap(services.ErrStorage, "library", "statistics", "scan format", err)
		}
		stats.ByFormat[format] = count
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "library", "statistics", "iterate formats", err)
	}
	return stats, nil
}

// FileCount counts records, scoped to active rows when activeOnly is set.
func (s *Store) FileCount(ctx context.Context, activeOnly bool) (int, error) {
	query := `SELECT COUNT(1) FROM files`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, services.Wrap(services.ErrStorage, "library", "file count", "", err)
	}
	return count, nil
}

// SaveVettingRun records a vetting report summary for auditing.
func (s *Store) SaveVettingRun(ctx context.Context, run *VettingRun) error {
	if run == nil || run.ID == "" {
		return services.Wrap(services.ErrValidation, "library", "save vetting run", "run id is required", nil)
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO vetting_runs (
            id, folder, total_files, threshold, duplicate_count,
            new_count, uncertain_count, scan_duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Folder,
		run.TotalFiles,
		run.Threshold,
		run.DuplicateCount,
		run.NewCount,
		run.UncertainCount,
		run.ScanDuration.Milliseconds(),
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return services.Wrap(services.ErrStorage, "library", "save vetting run", run.ID, err)
	}
	return nil
}

// VettingRuns returns the most recent runs, newest first.
func (s *Store) VettingRuns(ctx context.Context, limit int) ([]*VettingRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, folder, total_files, threshold, duplicate_count,
               new_count, uncertain_count, scan_duration_ms, created_at
        FROM vetting_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "library", "vetting runs", "query", err)
	}
	defer rows.Close()

	var runs []*VettingRun
	for rows.Next() {
		var (
			run        VettingRun
			durationMs int64
			createdRaw string
		)
		if err := rows.Scan(&run.ID, &run.Folder, &run.TotalFiles, &run.Threshold,
			&run.DuplicateCount, &run.NewCount, &run.UncertainCount, &durationMs, &createdRaw); err != nil {
			return nil, services.Wrap(services.ErrStorage, "library", "vetting runs", "scan", err)
		}
		run.ScanDuration = time.Duration(durationMs) * time.Millisecond
		if created, err := parseTimeString(createdRaw); err == nil {
			run.CreatedAt = created
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
