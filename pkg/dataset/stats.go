package dataset

import (
	"fmt"

	"github.com/quantbed/lobwin/pkg/model"
)

// Distribution summarizes how movement classes are spread over a dataset
// or a label column. It is a data-integrity report for a build, not a
// model metric.
type Distribution struct {
	Total   int
	Counts  [model.ClassCount]int
	Invalid int // raw labels outside {1,2,3}, only possible pre-build
}

// Count returns the number of instances of one class.
func (s Distribution) Count(d model.Direction) int {
	return s.Counts[d]
}

// Fraction returns the share of one class, or 0 for an empty set.
func (s Distribution) Fraction(d model.Direction) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Counts[d]) / float64(s.Total)
}

// String returns a one-line report.
func (s Distribution) String() string {
	return fmt.Sprintf(
		"total=%d down=%d (%.1f%%) stationary=%d (%.1f%%) up=%d (%.1f%%) invalid=%d",
		s.Total,
		s.Counts[model.Down], 100*s.Fraction(model.Down),
		s.Counts[model.Stationary], 100*s.Fraction(model.Stationary),
		s.Counts[model.Up], 100*s.Fraction(model.Up),
		s.Invalid,
	)
}

// ClassDistribution tallies the classes of a built dataset.
func ClassDistribution(d *Dataset) Distribution {
	var dist Distribution
	for _, p := range d.Pairs {
		dist.Counts[p.Direction]++
		dist.Total++
	}
	return dist
}

// LabelDistribution tallies the raw labels of one horizon column before a
// build, counting out-of-range values instead of failing. Useful for
// inspecting a split file whose build was rejected.
func LabelDistribution(labels model.LabelMatrix, horizonIndex int) (Distribution, error) {
	if horizonIndex < 0 || horizonIndex >= model.HorizonCount {
		return Distribution{}, &ConfigError{
			Param:  "horizonIndex",
			Value:  horizonIndex,
			Reason: fmt.Sprintf("must be in [0, %d)", model.HorizonCount),
		}
	}
	var dist Distribution
	for i, row := range labels {
		if horizonIndex >= len(row) {
			dist.Invalid++
			continue
		}
		dir, err := model.DirectionFromRaw(row[horizonIndex], i)
		if err != nil {
			dist.Invalid++
			continue
		}
		dist.Counts[dir]++
		dist.Total++
	}
	return dist, nil
}
