package nats

import (
	"testing"

	"github.com/quantbed/lobwin/pkg/model"
)

func TestWindowBatchRoundTrip(t *testing.T) {
	features := model.FeatureMatrix{
		make([]float64, model.FeatureRows),
		make([]float64, model.FeatureRows),
	}
	w := model.NewWindow("train", 9, 2, 4, 1, model.Up, features)
	msg := &WindowBatchMsg{
		Windows: []*model.Window{w},
		Features: []*model.FeatureRow{{
			WindowID:    w.WindowID,
			TrendSlope:  0.012,
			TrendBucket: model.TrendUp,
			DataVersion: 1,
		}},
	}

	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := DecodeWindowBatch(data)
	if err != nil {
		t.Fatalf("DecodeWindowBatch: %v", err)
	}
	if len(decoded.Windows) != 1 || len(decoded.Features) != 1 {
		t.Fatalf("decoded %d windows, %d features", len(decoded.Windows), len(decoded.Features))
	}
	got := decoded.Windows[0]
	if got.WindowID != w.WindowID || got.EndIndex != 9 || got.Direction != model.Up {
		t.Fatalf("window round trip: %+v", got)
	}
	if decoded.Features[0].TrendSlope != 0.012 {
		t.Fatalf("feature round trip: %+v", decoded.Features[0])
	}
}

func TestVectorBatchRoundTrip(t *testing.T) {
	msg := &VectorBatchMsg{Vectors: []VectorMsg{{
		WindowID:  "abc",
		Embedding: []float32{0.1, -0.5, 1},
		Split:     "test",
		EndIndex:  250,
		Horizon:   4,
		Direction: int32(model.Down),
	}}}

	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := DecodeVectorBatch(data)
	if err != nil {
		t.Fatalf("DecodeVectorBatch: %v", err)
	}
	v := decoded.Vectors[0]
	if v.WindowID != "abc" || v.EndIndex != 250 || len(v.Embedding) != 3 || v.Embedding[1] != -0.5 {
		t.Fatalf("vector round trip: %+v", v)
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := DecodeWindowBatch([]byte("{")); err == nil {
		t.Fatal("expected error for truncated payload")
	}
	if _, err := DecodeVectorBatch([]byte("[]")); err == nil {
		t.Fatal("expected error for wrong JSON shape")
	}
}
