package feature

import "math"

// ZScoreClip z-score normalizes a series, clips at ±clipStd standard
// deviations and rescales into [-1, 1]. A constant series maps to zeros.
func ZScoreClip(values []float64, clipStd float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	mean, std := meanStd(values)
	if std == 0 {
		std = 1
	}

	out := make([]float64, len(values))
	for i, v := range values {
		z := (v - mean) / std
		if z > clipStd {
			z = clipStd
		}
		if z < -clipStd {
			z = -clipStd
		}
		out[i] = z / clipStd
	}
	return out
}

// MinMaxNormalize scales values to [0, 1]. A constant series maps to zeros.
func MinMaxNormalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	rangeVal := max - min
	if rangeVal == 0 {
		rangeVal = 1
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - min) / rangeVal
	}
	return out
}

// downsample reduces a series to targetLen samples by averaging equal
// spans. Series shorter than targetLen pass through unchanged.
func downsample(values []float64, targetLen int) []float64 {
	if len(values) <= targetLen {
		return values
	}

	result := make([]float64, targetLen)
	ratio := float64(len(values)) / float64(targetLen)

	for i := 0; i < targetLen; i++ {
		start := int(float64(i) * ratio)
		end := int(float64(i+1) * ratio)
		if end > len(values) {
			end = len(values)
		}

		sum := 0.0
		count := 0
		for j := start; j < end; j++ {
			sum += values[j]
			count++
		}
		if count > 0 {
			result[i] = sum / float64(count)
		}
	}

	return result
}

// meanStd calculates mean and population standard deviation.
func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	std = math.Sqrt(sumSquares / float64(len(values)))

	return mean, std
}
