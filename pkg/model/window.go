package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Window is one supervised training instance: a fixed-length run of
// consecutive order-book snapshots paired with the movement label observed
// at its final time step for one prediction horizon.
type Window struct {
	WindowID    string        `json:"window_id"`
	Split       string        `json:"split"` // train, validation, test
	EndIndex    int           `json:"end_index"`
	Length      int           `json:"length"`
	Horizon     int           `json:"horizon"` // horizon index in [0, HorizonCount)
	Direction   Direction     `json:"direction"`
	DataVersion int           `json:"data_version"`
	Features    FeatureMatrix `json:"features"` // shape (Length, D)
	CreatedAt   time.Time     `json:"created_at"`
}

// GenerateWindowID creates a deterministic window ID from the parameters
// that identify a window within a build: hash(split|endIndex|length|horizon|version).
// Rebuilding the same split with the same configuration produces the same
// IDs, so storage writes stay idempotent.
func GenerateWindowID(split string, endIndex, length, horizon, dataVersion int) string {
	data := fmt.Sprintf("%s|%d|%d|%d|%d", split, endIndex, length, horizon, dataVersion)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}

// NewWindow creates a Window with a generated ID. The feature rows are
// shared with the split's feature matrix, not copied.
func NewWindow(split string, endIndex, length, horizon, dataVersion int, dir Direction, features FeatureMatrix) *Window {
	return &Window{
		WindowID:    GenerateWindowID(split, endIndex, length, horizon, dataVersion),
		Split:       split,
		EndIndex:    endIndex,
		Length:      length,
		Horizon:     horizon,
		Direction:   dir,
		DataVersion: dataVersion,
		Features:    features,
		CreatedAt:   time.Now(),
	}
}

// IsComplete returns true if the window holds the expected number of
// snapshots.
func (w *Window) IsComplete() bool {
	return len(w.Features) == w.Length
}

// LastSnapshot returns the window's final time step, the one its label
// refers to.
func (w *Window) LastSnapshot() Snapshot {
	if len(w.Features) == 0 {
		return nil
	}
	return Snapshot(w.Features[len(w.Features)-1])
}

// StartIndex returns the time-step index of the window's first snapshot.
func (w *Window) StartIndex() int {
	return w.EndIndex - w.Length + 1
}
