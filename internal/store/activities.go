package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"runcoach/internal/activity"
)

// ReplaceSnapshot swaps the stored activities for acts and records syncedAt,
// all in one transaction
func (db *DB) ReplaceSnapshot(ctx context.Context, acts []activity.Activity, syncedAt time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM activities`); err != nil {
		return fmt.Errorf("clearing activities: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activities (
			id, name, type, start_date, distance, moving_time,
			total_elevation_gain, average_heartrate, max_heartrate, suffer_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range acts {
		_, err := stmt.ExecContext(ctx,
			a.ID, a.Name, a.Type, a.StartDate.UTC().Format(time.RFC3339),
			a.Distance, a.MovingTime, a.TotalElevationGain,
			a.AverageHeartrate, a.MaxHeartrate, a.SufferScore,
		)
		if err != nil {
			return fmt.Errorf("inserting activity %d: %w", a.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sync_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, KeyLastSync, syncedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("recording sync time: %w", err)
	}

	return tx.Commit()
}

// ListActivities returns stored activities ordered by start date descending
func (db *DB) ListActivities(ctx context.Context, limit, offset int) ([]activity.Activity, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, type, start_date, distance, moving_time,
			total_elevation_gain, average_heartrate, max_heartrate, suffer_score
		FROM activities
		ORDER BY start_date DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	acts := []activity.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

// CountActivities returns the number of stored activities
func (db *DB) CountActivities(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&n)
	return n, err
}

func scanActivity(rows *sql.Rows) (activity.Activity, error) {
	var (
		a                activity.Activity
		startDate        string
		avgHR, maxHR, ss sql.NullFloat64
	)
	err := rows.Scan(
		&a.ID, &a.Name, &a.Type, &startDate, &a.Distance, &a.MovingTime,
		&a.TotalElevationGain, &avgHR, &maxHR, &ss,
	)
	if err != nil {
		return a, err
	}

	a.StartDate, err = time.Parse(time.RFC3339, startDate)
	if err != nil {
		return a, fmt.Errorf("parsing start_date of activity %d: %w", a.ID, err)
	}
	a.AverageHeartrate = nullFloat(avgHR)
	a.MaxHeartrate = nullFloat(maxHR)
	a.SufferScore = nullFloat(ss)
	return a, nil
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
