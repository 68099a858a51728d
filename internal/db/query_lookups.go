package db

import (
	"context"

	"codewhisper/internal/models"
)

// IncrementQueryLookup upserts a per-repository request count by outcome.
func (d *DB) IncrementQueryLookup(ctx context.Context, repo, outcome string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO query_lookups (repo, outcome, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (repo, outcome) DO UPDATE
		SET count = query_lookups.count + 1, last_seen_at = NOW()
	`, repo, outcome)
	return err
}

// GetAllQueryLookups returns all query lookup rows for metrics export.
func (d *DB) GetAllQueryLookups(ctx context.Context) ([]models.QueryLookup, error) {
	rows, err := d.Pool.Query(ctx, `SELECT repo, outcome, count, last_seen_at FROM query_lookups`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []models.QueryLookup
	for rows.Next() {
		var l models.QueryLookup
		if err := rows.Scan(&l.Repo, &l.Outcome, &l.Count, &l.LastSeenAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}
