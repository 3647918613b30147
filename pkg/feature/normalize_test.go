package feature

import (
	"math"
	"testing"
)

func TestZScoreClip(t *testing.T) {
	out := ZScoreClip([]float64{1, 2, 3, 4, 5}, 3.0)
	if len(out) != 5 {
		t.Fatalf("len=%d", len(out))
	}
	// Symmetric input normalizes symmetrically around zero.
	if math.Abs(out[2]) > 1e-12 {
		t.Fatalf("middle value %v, want 0", out[2])
	}
	if math.Abs(out[0]+out[4]) > 1e-12 {
		t.Fatalf("ends not symmetric: %v, %v", out[0], out[4])
	}
	for _, v := range out {
		if v < -1 || v > 1 {
			t.Fatalf("value %v outside [-1, 1]", v)
		}
	}
}

func TestZScoreClip_Outlier(t *testing.T) {
	out := ZScoreClip([]float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1000}, 2.0)
	if out[len(out)-1] != 1 {
		t.Fatalf("outlier maps to %v, want clip boundary 1", out[len(out)-1])
	}
}

func TestZScoreClip_Constant(t *testing.T) {
	for _, v := range ZScoreClip([]float64{7, 7, 7}, 3.0) {
		if v != 0 {
			t.Fatalf("constant series maps to %v, want 0", v)
		}
	}
}

func TestZScoreClip_Empty(t *testing.T) {
	if out := ZScoreClip(nil, 3.0); out != nil {
		t.Fatalf("empty input gave %v", out)
	}
}

func TestMinMaxNormalize(t *testing.T) {
	out := MinMaxNormalize([]float64{10, 20, 15})
	if out[0] != 0 || out[1] != 1 || out[2] != 0.5 {
		t.Fatalf("got %v", out)
	}
	for _, v := range MinMaxNormalize([]float64{3, 3}) {
		if v != 0 {
			t.Fatalf("constant series maps to %v, want 0", v)
		}
	}
}

func TestDownsample(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	out := downsample(values, 4)
	want := []float64{1.5, 3.5, 5.5, 7.5}
	if len(out) != len(want) {
		t.Fatalf("len=%d", len(out))
	}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("out[%d]=%v, want %v", i, out[i], want[i])
		}
	}
}

func TestDownsample_ShortInput(t *testing.T) {
	values := []float64{1, 2}
	out := downsample(values, 4)
	if len(out) != 2 || out[0] != 1 || out[1] != 2 {
		t.Fatalf("short series should pass through, got %v", out)
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 {
		t.Fatalf("mean=%v, want 5", mean)
	}
	if math.Abs(std-2) > 1e-12 {
		t.Fatalf("std=%v, want 2", std)
	}
}
