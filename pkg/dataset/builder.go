// Package dataset turns raw benchmark matrices into supervised
// (window, label) datasets for a sequence model.
package dataset

import (
	"fmt"

	"github.com/quantbed/lobwin/pkg/model"
)

// Pair couples one input window with the movement label observed at its
// final time step. The window rows are sub-slices of the split's feature
// matrix; consumers borrow them and must not mutate them in place.
type Pair struct {
	Window    model.FeatureMatrix // shape (T, D)
	Direction model.Direction
	Label     model.OneHot
}

// Dataset is an ordered sequence of (window, label) pairs for one split
// and one prediction horizon. Order matches the time order of the
// underlying series; the training loop is free to shuffle at batch time.
type Dataset struct {
	WindowLength int
	Horizon      int
	Dim          int
	Pairs        []Pair
}

// Len returns the number of pairs.
func (d *Dataset) Len() int { return len(d.Pairs) }

// ExtractFeatures returns the first 40 rows of a raw split transposed so
// time is the leading axis, shape (N, 40).
func ExtractFeatures(raw *model.RawMatrix) (model.FeatureMatrix, error) {
	if raw.Rows() != model.TotalRows {
		return nil, &model.ShapeError{WantRows: model.TotalRows, GotRows: raw.Rows()}
	}
	n := raw.Cols()
	features := make(model.FeatureMatrix, n)
	for i := 0; i < n; i++ {
		row := make([]float64, model.FeatureRows)
		for r := 0; r < model.FeatureRows; r++ {
			row[r] = raw.At(r, i)
		}
		features[i] = row
	}
	return features, nil
}

// ExtractLabels returns the last 5 rows of a raw split transposed, shape
// (N, 5): one raw integer label per prediction horizon per time step.
func ExtractLabels(raw *model.RawMatrix) (model.LabelMatrix, error) {
	if raw.Rows() != model.TotalRows {
		return nil, &model.ShapeError{WantRows: model.TotalRows, GotRows: raw.Rows()}
	}
	n := raw.Cols()
	labels := make(model.LabelMatrix, n)
	for i := 0; i < n; i++ {
		row := make([]float64, model.LabelRows)
		for r := 0; r < model.LabelRows; r++ {
			row[r] = raw.At(model.FeatureRows+r, i)
		}
		labels[i] = row
	}
	return labels, nil
}

// BuildWindows converts a feature matrix and its label matrix into a
// Dataset for one prediction horizon.
//
// horizonIndex selects which of the 5 label columns is ground truth; note
// that index 4 is the benchmark's 5th and longest horizon. The mapping
// from index to real-world prediction distance is fixed by the benchmark's
// column ordering and is not reinterpreted here.
//
// Every ending position from windowLength-1 to N-1 emits one window of the
// windowLength preceding time steps, labeled with the raw value at the
// window's last step mapped through {1,2,3} -> one-hot over
// {down, stationary, up}. The result holds exactly N - windowLength + 1
// pairs. All parameter and label faults are detected before any pair is
// emitted; on error no partial dataset is returned.
func BuildWindows(features model.FeatureMatrix, labels model.LabelMatrix, horizonIndex, windowLength int) (*Dataset, error) {
	n := len(features)
	if len(labels) != n {
		return nil, fmt.Errorf("features have %d time steps, labels have %d", n, len(labels))
	}
	if horizonIndex < 0 || horizonIndex >= model.HorizonCount {
		return nil, &ConfigError{
			Param:  "horizonIndex",
			Value:  horizonIndex,
			Reason: fmt.Sprintf("must be in [0, %d)", model.HorizonCount),
		}
	}
	if windowLength <= 0 {
		return nil, &ConfigError{Param: "windowLength", Value: windowLength, Reason: "must be positive"}
	}
	if windowLength > n {
		return nil, &ConfigError{
			Param:  "windowLength",
			Value:  windowLength,
			Reason: fmt.Sprintf("exceeds series length %d, no windows can be produced", n),
		}
	}

	// Validate every selected label before emitting anything.
	count := n - windowLength + 1
	dirs := make([]model.Direction, count)
	for j := 0; j < count; j++ {
		i := j + windowLength - 1
		if len(labels[i]) != model.HorizonCount {
			return nil, fmt.Errorf("label row %d has %d horizons, want %d", i, len(labels[i]), model.HorizonCount)
		}
		dir, err := model.DirectionFromRaw(labels[i][horizonIndex], i)
		if err != nil {
			return nil, err
		}
		dirs[j] = dir
	}

	pairs := make([]Pair, count)
	for j := 0; j < count; j++ {
		pairs[j] = Pair{
			Window:    features[j : j+windowLength],
			Direction: dirs[j],
			Label:     dirs[j].OneHot(),
		}
	}

	return &Dataset{
		WindowLength: windowLength,
		Horizon:      horizonIndex,
		Dim:          features.Dim(),
		Pairs:        pairs,
	}, nil
}

// Windows materializes the dataset as window records with deterministic
// IDs for persistence and vector indexing. Pair j ends at time-step index
// j + windowLength - 1 within the split.
func (d *Dataset) Windows(split string, dataVersion int) []*model.Window {
	windows := make([]*model.Window, len(d.Pairs))
	for j, p := range d.Pairs {
		endIndex := j + d.WindowLength - 1
		windows[j] = model.NewWindow(split, endIndex, d.WindowLength, d.Horizon, dataVersion, p.Direction, p.Window)
	}
	return windows
}
