package duckdb

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/quantbed/lobwin/pkg/model"
)

// BuildRun records one dataset build: which files went in, with which
// parameters, and what came out. Rebuilding with identical inputs yields
// the same run ID, so reruns do not duplicate rows.
type BuildRun struct {
	RunID           string
	Split           string
	SourceFiles     []string
	WindowLength    int
	Horizon         int
	DataVersion     int
	AugmentSeed     int64
	WindowCount     int
	DownCount       int
	StationaryCount int
	UpCount         int
	CreatedAt       time.Time
}

// NewBuildRun creates a run record with a deterministic ID.
func NewBuildRun(split string, sourceFiles []string, windowLength, horizon, dataVersion int, augmentSeed int64) *BuildRun {
	key := fmt.Sprintf("%s|%s|%d|%d|%d|%d",
		split, strings.Join(sourceFiles, ","), windowLength, horizon, dataVersion, augmentSeed)
	hash := sha256.Sum256([]byte(key))
	return &BuildRun{
		RunID:        hex.EncodeToString(hash[:16]),
		Split:        split,
		SourceFiles:  sourceFiles,
		WindowLength: windowLength,
		Horizon:      horizon,
		DataVersion:  dataVersion,
		AugmentSeed:  augmentSeed,
		CreatedAt:    time.Now(),
	}
}

// SetCounts fills the output counters from a class distribution.
func (b *BuildRun) SetCounts(total int, counts [model.ClassCount]int) {
	b.WindowCount = total
	b.DownCount = counts[model.Down]
	b.StationaryCount = counts[model.Stationary]
	b.UpCount = counts[model.Up]
}

// RunRepo handles build-run persistence.
type RunRepo struct {
	client *Client
}

// NewRunRepo creates a new run repository.
func NewRunRepo(client *Client) *RunRepo {
	return &RunRepo{client: client}
}

// Insert records a build run.
func (r *RunRepo) Insert(ctx context.Context, run *BuildRun) error {
	query := `
		INSERT INTO build_runs (
			run_id, split, source_files, window_length, horizon, data_version,
			augment_seed, window_count, down_count, stationary_count, up_count, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id) DO UPDATE SET
			window_count = EXCLUDED.window_count,
			down_count = EXCLUDED.down_count,
			stationary_count = EXCLUDED.stationary_count,
			up_count = EXCLUDED.up_count,
			created_at = EXCLUDED.created_at
	`
	return r.client.Exec(ctx, query,
		run.RunID, run.Split, strings.Join(run.SourceFiles, ","), run.WindowLength,
		run.Horizon, run.DataVersion, run.AugmentSeed, run.WindowCount,
		run.DownCount, run.StationaryCount, run.UpCount, run.CreatedAt,
	)
}

// Latest returns the most recent build run for a split.
func (r *RunRepo) Latest(ctx context.Context, split string) (*BuildRun, error) {
	query := `
		SELECT run_id, split, source_files, window_length, horizon, data_version,
			   augment_seed, window_count, down_count, stationary_count, up_count, created_at
		FROM build_runs
		WHERE split = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	row := r.client.QueryRow(ctx, query, split)
	var run BuildRun
	var files string
	err := row.Scan(
		&run.RunID, &run.Split, &files, &run.WindowLength, &run.Horizon,
		&run.DataVersion, &run.AugmentSeed, &run.WindowCount, &run.DownCount,
		&run.StationaryCount, &run.UpCount, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if files != "" {
		run.SourceFiles = strings.Split(files, ",")
	}

	return &run, nil
}
