package duckdb

import (
	"context"
	"fmt"
)

// CreateWindowsTable holds one row per materialized window.
const CreateWindowsTable = `
CREATE TABLE IF NOT EXISTS windows (
    window_id VARCHAR PRIMARY KEY,
    split VARCHAR NOT NULL,
    end_index INTEGER NOT NULL,
    window_length INTEGER NOT NULL,
    horizon INTEGER NOT NULL,
    direction INTEGER NOT NULL,
    data_version INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_windows_split ON windows(split);
CREATE INDEX IF NOT EXISTS idx_windows_end_index ON windows(end_index);
`

// CreateWindowFeaturesTable holds summary features per window.
const CreateWindowFeaturesTable = `
CREATE TABLE IF NOT EXISTS window_features (
    window_id VARCHAR PRIMARY KEY,
    trend_slope DOUBLE,
    realized_volatility DOUBLE,
    spread_mean DOUBLE,
    depth_imbalance DOUBLE,
    trend_bucket INTEGER,
    imbalance_bucket INTEGER,
    data_version INTEGER NOT NULL
);
`

// CreateBuildRunsTable records one row per dataset build for
// reproducibility audits.
const CreateBuildRunsTable = `
CREATE TABLE IF NOT EXISTS build_runs (
    run_id VARCHAR PRIMARY KEY,
    split VARCHAR NOT NULL,
    source_files VARCHAR NOT NULL,
    window_length INTEGER NOT NULL,
    horizon INTEGER NOT NULL,
    data_version INTEGER NOT NULL,
    augment_seed BIGINT,
    window_count INTEGER NOT NULL,
    down_count INTEGER NOT NULL,
    stationary_count INTEGER NOT NULL,
    up_count INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema creates all required tables.
func InitializeSchema(ctx context.Context, c *Client) error {
	schemas := []string{
		CreateWindowsTable,
		CreateWindowFeaturesTable,
		CreateBuildRunsTable,
	}

	for _, schema := range schemas {
		if err := c.Exec(ctx, schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// DropAllTables drops all tables (use with caution).
func DropAllTables(ctx context.Context, c *Client) error {
	tables := []string{"build_runs", "window_features", "windows"}
	for _, table := range tables {
		if err := c.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
