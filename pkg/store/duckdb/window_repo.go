package duckdb

import (
	"context"
	"fmt"

	"github.com/quantbed/lobwin/pkg/model"
)

// WindowRepo handles window record persistence. Feature payloads stay out
// of the database; a window row is metadata plus its label.
type WindowRepo struct {
	client *Client
}

// NewWindowRepo creates a new window repository.
func NewWindowRepo(client *Client) *WindowRepo {
	return &WindowRepo{client: client}
}

// Insert inserts a single window record.
func (r *WindowRepo) Insert(ctx context.Context, w *model.Window) error {
	query := `
		INSERT INTO windows (window_id, split, end_index, window_length, horizon, direction, data_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (window_id) DO NOTHING
	`
	return r.client.Exec(ctx, query,
		w.WindowID, w.Split, w.EndIndex, w.Length, w.Horizon, int(w.Direction), w.DataVersion, w.CreatedAt,
	)
}

// InsertBatch inserts multiple window records in a transaction.
func (r *WindowRepo) InsertBatch(ctx context.Context, windows []*model.Window) error {
	tx, err := r.client.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO windows (window_id, split, end_index, window_length, horizon, direction, data_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (window_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, w := range windows {
		_, err := stmt.Exec(
			w.WindowID, w.Split, w.EndIndex, w.Length, w.Horizon, int(w.Direction), w.DataVersion, w.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert window: %w", err)
		}
	}

	return tx.Commit()
}

// Exists checks if a window record exists.
func (r *WindowRepo) Exists(ctx context.Context, windowID string) (bool, error) {
	var count int
	row := r.client.QueryRow(ctx, "SELECT COUNT(*) FROM windows WHERE window_id = ?", windowID)
	err := row.Scan(&count)
	return count > 0, err
}

// GetByID retrieves a window record. The Features field is empty; the
// matrix is rebuilt from the split files when needed.
func (r *WindowRepo) GetByID(ctx context.Context, windowID string) (*model.Window, error) {
	query := `
		SELECT window_id, split, end_index, window_length, horizon, direction, data_version, created_at
		FROM windows
		WHERE window_id = ?
	`

	row := r.client.QueryRow(ctx, query, windowID)
	var w model.Window
	var direction int
	err := row.Scan(&w.WindowID, &w.Split, &w.EndIndex, &w.Length, &w.Horizon, &direction, &w.DataVersion, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	w.Direction = model.Direction(direction)

	return &w, nil
}

// Count returns the number of windows stored for a split.
func (r *WindowRepo) Count(ctx context.Context, split string) (int64, error) {
	var count int64
	row := r.client.QueryRow(ctx, "SELECT COUNT(*) FROM windows WHERE split = ?", split)
	err := row.Scan(&count)
	return count, err
}

// CountByDirection returns, per movement class, the number of windows
// stored for a split and horizon.
func (r *WindowRepo) CountByDirection(ctx context.Context, split string, horizon int) (map[model.Direction]int64, error) {
	rows, err := r.client.Query(ctx,
		"SELECT direction, COUNT(*) FROM windows WHERE split = ? AND horizon = ? GROUP BY direction",
		split, horizon,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query windows: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Direction]int64)
	for rows.Next() {
		var direction int
		var count int64
		if err := rows.Scan(&direction, &count); err != nil {
			return nil, err
		}
		counts[model.Direction(direction)] = count
	}
	return counts, rows.Err()
}
