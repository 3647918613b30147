package model

// FeatureRow holds summary statistics for one window, used for filtering
// search results and for dataset-integrity reporting.
type FeatureRow struct {
	WindowID           string  `json:"window_id"`
	TrendSlope         float64 `json:"trend_slope"`         // regression slope of mid-price
	RealizedVolatility float64 `json:"realized_volatility"` // std of mid-price returns
	SpreadMean         float64 `json:"spread_mean"`         // mean spread relative to mid
	DepthImbalance     float64 `json:"depth_imbalance"`     // mean bid share of depth
	TrendBucket        int     `json:"trend_bucket"`        // -2 to +2
	ImbalanceBucket    int     `json:"imbalance_bucket"`    // 0-9
	DataVersion        int     `json:"data_version"`
}

// ShapeVector is a fixed-length float32 vector describing a window's shape
// for similarity search.
type ShapeVector []float32

// NewShapeVector creates a zeroed ShapeVector with the given dimension.
func NewShapeVector(dim int) ShapeVector {
	return make(ShapeVector, dim)
}

// Dim returns the dimension of the shape vector.
func (sv ShapeVector) Dim() int {
	return len(sv)
}

// Copy creates a deep copy of the shape vector.
func (sv ShapeVector) Copy() ShapeVector {
	result := make(ShapeVector, len(sv))
	copy(result, sv)
	return result
}

// Trend bucket constants.
const (
	TrendStrongDown = -2
	TrendDown       = -1
	TrendNeutral    = 0
	TrendUp         = 1
	TrendStrongUp   = 2
)

// ClassifyTrendBucket classifies a mid-price trend slope into a bucket.
func ClassifyTrendBucket(slope float64) int {
	switch {
	case slope < -0.02:
		return TrendStrongDown
	case slope < -0.005:
		return TrendDown
	case slope < 0.005:
		return TrendNeutral
	case slope < 0.02:
		return TrendUp
	default:
		return TrendStrongUp
	}
}

// ClassifyImbalanceBucket maps a mean depth imbalance in [0, 1] to a
// bucket 0-9.
func ClassifyImbalanceBucket(imbalance float64) int {
	bucket := int(imbalance * 10)
	if bucket < 0 {
		return 0
	}
	if bucket > 9 {
		return 9
	}
	return bucket
}
