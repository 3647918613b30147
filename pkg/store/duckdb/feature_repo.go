package duckdb

import (
	"context"
	"fmt"

	"github.com/quantbed/lobwin/pkg/model"
)

// FeatureRepo handles summary-feature persistence.
type FeatureRepo struct {
	client *Client
}

// NewFeatureRepo creates a new feature repository.
func NewFeatureRepo(client *Client) *FeatureRepo {
	return &FeatureRepo{client: client}
}

const featureUpsert = `
	INSERT INTO window_features (
		window_id, trend_slope, realized_volatility, spread_mean,
		depth_imbalance, trend_bucket, imbalance_bucket, data_version
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (window_id) DO UPDATE SET
		trend_slope = EXCLUDED.trend_slope,
		realized_volatility = EXCLUDED.realized_volatility,
		spread_mean = EXCLUDED.spread_mean,
		depth_imbalance = EXCLUDED.depth_imbalance,
		trend_bucket = EXCLUDED.trend_bucket,
		imbalance_bucket = EXCLUDED.imbalance_bucket,
		data_version = EXCLUDED.data_version
`

// Insert inserts or updates a single feature row.
func (r *FeatureRepo) Insert(ctx context.Context, f *model.FeatureRow) error {
	return r.client.Exec(ctx, featureUpsert,
		f.WindowID, f.TrendSlope, f.RealizedVolatility, f.SpreadMean,
		f.DepthImbalance, f.TrendBucket, f.ImbalanceBucket, f.DataVersion,
	)
}

// InsertBatch inserts multiple feature rows in a transaction.
func (r *FeatureRepo) InsertBatch(ctx context.Context, features []*model.FeatureRow) error {
	tx, err := r.client.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(featureUpsert)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, f := range features {
		_, err := stmt.Exec(
			f.WindowID, f.TrendSlope, f.RealizedVolatility, f.SpreadMean,
			f.DepthImbalance, f.TrendBucket, f.ImbalanceBucket, f.DataVersion,
		)
		if err != nil {
			return fmt.Errorf("failed to insert feature: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a feature row by window ID.
func (r *FeatureRepo) GetByID(ctx context.Context, windowID string) (*model.FeatureRow, error) {
	query := `
		SELECT window_id, trend_slope, realized_volatility, spread_mean,
			   depth_imbalance, trend_bucket, imbalance_bucket, data_version
		FROM window_features
		WHERE window_id = ?
	`

	row := r.client.QueryRow(ctx, query, windowID)
	var f model.FeatureRow
	err := row.Scan(
		&f.WindowID, &f.TrendSlope, &f.RealizedVolatility, &f.SpreadMean,
		&f.DepthImbalance, &f.TrendBucket, &f.ImbalanceBucket, &f.DataVersion,
	)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// GetByBuckets retrieves features matching bucket filters.
func (r *FeatureRepo) GetByBuckets(ctx context.Context, trendBucket, imbalanceBucket, limit int) ([]*model.FeatureRow, error) {
	query := `
		SELECT window_id, trend_slope, realized_volatility, spread_mean,
			   depth_imbalance, trend_bucket, imbalance_bucket, data_version
		FROM window_features
		WHERE trend_bucket = ? AND imbalance_bucket = ?
		LIMIT ?
	`

	rows, err := r.client.Query(ctx, query, trendBucket, imbalanceBucket, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query features: %w", err)
	}
	defer rows.Close()

	var features []*model.FeatureRow
	for rows.Next() {
		var f model.FeatureRow
		err := rows.Scan(
			&f.WindowID, &f.TrendSlope, &f.RealizedVolatility, &f.SpreadMean,
			&f.DepthImbalance, &f.TrendBucket, &f.ImbalanceBucket, &f.DataVersion,
		)
		if err != nil {
			return nil, err
		}
		features = append(features, &f)
	}

	return features, rows.Err()
}
