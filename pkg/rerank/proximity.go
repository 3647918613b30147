// Package rerank rescales similarity-search hits with temporal context:
// hits near the query window in event time keep their score, distant ones
// decay, and hits whose labeled movement matches the query's can receive a
// small bonus.
package rerank

import (
	"math"
	"sort"

	"github.com/quantbed/lobwin/pkg/model"
	"github.com/quantbed/lobwin/pkg/store/milvus"
)

// Config holds reranking parameters.
type Config struct {
	Lambda           float64 // decay rate per DecayScale event steps
	DecayScale       float64 // event-step distance unit (e.g. 1000)
	CrossSplitWeight float64 // flat weight for hits from another split
	DirectionBonus   float64 // multiplier bonus for matching labels, 0 disables
}

// DefaultConfig returns a moderate decay configuration.
func DefaultConfig() Config {
	return Config{
		Lambda:           0.1,
		DecayScale:       1000,
		CrossSplitWeight: 0.5,
		DirectionBonus:   0.05,
	}
}

// Query identifies the window the search was issued for.
type Query struct {
	Split     string
	EndIndex  int
	Direction model.Direction
}

// RankedResult extends SearchResult with the reranked score.
type RankedResult struct {
	milvus.SearchResult
	OriginalScore  float32
	TemporalWeight float64
	FinalScore     float64
}

// Reranker reorders search results by decayed score.
type Reranker struct {
	config Config
}

// NewReranker creates a reranker with the given configuration.
func NewReranker(config Config) *Reranker {
	return &Reranker{config: config}
}

// Rerank weights each hit by its event-time distance from the query and
// sorts by the resulting final score, highest first.
func (r *Reranker) Rerank(results []milvus.SearchResult, q Query) []RankedResult {
	ranked := make([]RankedResult, len(results))

	for i, result := range results {
		weight := r.temporalWeight(result, q)
		if r.config.DirectionBonus > 0 && model.Direction(result.Direction) == q.Direction {
			weight *= 1 + r.config.DirectionBonus
		}

		ranked[i] = RankedResult{
			SearchResult:   result,
			OriginalScore:  result.Score,
			TemporalWeight: weight,
			FinalScore:     float64(result.Score) * weight,
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	return ranked
}

// temporalWeight decays with event-step distance inside the query's split.
// Hits from another split do not share a clock with the query, so they get
// a flat cross-split weight instead.
func (r *Reranker) temporalWeight(result milvus.SearchResult, q Query) float64 {
	if result.Split != q.Split {
		return r.config.CrossSplitWeight
	}
	distance := math.Abs(float64(result.EndIndex - int64(q.EndIndex)))
	if r.config.DecayScale > 0 {
		distance /= r.config.DecayScale
	}
	return math.Exp(-r.config.Lambda * distance)
}

// TopN returns the best n results after reranking.
func (r *Reranker) TopN(results []milvus.SearchResult, q Query, n int) []RankedResult {
	ranked := r.Rerank(results, q)
	if len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}

// FilterByMinScore drops results below a final-score floor.
func FilterByMinScore(results []RankedResult, minScore float64) []RankedResult {
	var filtered []RankedResult
	for _, r := range results {
		if r.FinalScore >= minScore {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
