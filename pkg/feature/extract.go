// Package feature derives summary statistics and fixed-length shape
// vectors from order-book windows for filtering and similarity search.
package feature

import (
	"fmt"

	"github.com/quantbed/lobwin/pkg/model"
)

// Extractor extracts a FeatureRow and ShapeVector from windows.
type Extractor struct {
	DataVersion int
	VectorDim   int     // target shape-vector dimension, multiple of 3
	ClipStd     float64 // standard deviations for clipping (default 3.0)
}

// NewExtractor creates a feature extractor.
func NewExtractor(dataVersion, vectorDim int) *Extractor {
	return &Extractor{
		DataVersion: dataVersion,
		VectorDim:   vectorDim,
		ClipStd:     3.0,
	}
}

// Extract computes summary features and the shape vector for one window.
func (e *Extractor) Extract(w *model.Window) (*model.FeatureRow, model.ShapeVector, error) {
	if !w.IsComplete() {
		return nil, nil, fmt.Errorf("window %s has %d snapshots, want %d", w.WindowID, len(w.Features), w.Length)
	}

	mids := midSeries(w.Features)
	spreads := spreadSeries(w.Features)
	imbalances := imbalanceSeries(w.Features)

	trendSlope := trendSlope(mids)
	rv := realizedVolatility(mids)
	spreadMean := mean(spreads)
	imbalanceMean := mean(imbalances)

	row := &model.FeatureRow{
		WindowID:           w.WindowID,
		TrendSlope:         trendSlope,
		RealizedVolatility: rv,
		SpreadMean:         spreadMean,
		DepthImbalance:     imbalanceMean,
		TrendBucket:        model.ClassifyTrendBucket(trendSlope),
		ImbalanceBucket:    model.ClassifyImbalanceBucket(imbalanceMean),
		DataVersion:        e.DataVersion,
	}

	return row, e.buildShapeVector(mids, spreads, imbalances), nil
}

// buildShapeVector concatenates three normalized series into a fixed
// vector: mid-price returns, relative spreads and depth imbalances, each
// downsampled to a third of the target dimension.
func (e *Extractor) buildShapeVector(mids, spreads, imbalances []float64) model.ShapeVector {
	samplesPerBlock := e.VectorDim / 3

	returns := ZScoreClip(returnSeries(mids), e.ClipStd)
	normSpreads := ZScoreClip(spreads, e.ClipStd)
	// Imbalance is already in [0, 1]; recenter around a balanced book.
	normImbalances := make([]float64, len(imbalances))
	for i, v := range imbalances {
		normImbalances[i] = 2*v - 1
	}

	returns = downsample(returns, samplesPerBlock)
	normSpreads = downsample(normSpreads, samplesPerBlock)
	normImbalances = downsample(normImbalances, samplesPerBlock)

	vector := model.NewShapeVector(e.VectorDim)
	idx := 0
	for _, block := range [][]float64{returns, normSpreads, normImbalances} {
		for i := 0; i < samplesPerBlock && idx < e.VectorDim; i++ {
			if i < len(block) {
				vector[idx] = float32(block[i])
			}
			idx++
		}
	}
	return vector
}

// midSeries extracts the mid-price series of a window.
func midSeries(features model.FeatureMatrix) []float64 {
	out := make([]float64, len(features))
	for i, row := range features {
		out[i] = model.Snapshot(row).MidPrice()
	}
	return out
}

// spreadSeries extracts the spread series relative to the mid-price.
func spreadSeries(features model.FeatureMatrix) []float64 {
	out := make([]float64, len(features))
	for i, row := range features {
		s := model.Snapshot(row)
		if mid := s.MidPrice(); mid != 0 {
			out[i] = s.Spread() / mid
		}
	}
	return out
}

// imbalanceSeries extracts the depth-imbalance series.
func imbalanceSeries(features model.FeatureMatrix) []float64 {
	out := make([]float64, len(features))
	for i, row := range features {
		out[i] = model.Snapshot(row).DepthImbalance()
	}
	return out
}

// returnSeries converts a price series into step-over-step returns, one
// value shorter than the input.
func returnSeries(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			out[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}
	return out
}

// trendSlope fits a least-squares line through the mid-price series
// normalized to percentage change from its first value.
func trendSlope(mids []float64) float64 {
	if len(mids) < 2 {
		return 0
	}

	base := mids[0]
	if base == 0 {
		return 0
	}

	n := float64(len(mids))
	var sumX, sumY, sumXY, sumX2 float64
	for i, m := range mids {
		x := float64(i)
		y := (m - base) / base
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}

// realizedVolatility is the standard deviation of mid-price returns.
func realizedVolatility(mids []float64) float64 {
	returns := returnSeries(mids)
	if len(returns) == 0 {
		return 0
	}
	_, std := meanStd(returns)
	return std
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
