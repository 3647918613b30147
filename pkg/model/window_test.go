package model

import "testing"

func TestGenerateWindowID_Deterministic(t *testing.T) {
	a := GenerateWindowID("train", 99, 100, 4, 1)
	b := GenerateWindowID("train", 99, 100, 4, 1)
	if a != b {
		t.Fatalf("same parameters gave different IDs: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Fatalf("ID length %d, want 32 hex chars", len(a))
	}
}

func TestGenerateWindowID_DistinguishesParameters(t *testing.T) {
	base := GenerateWindowID("train", 99, 100, 4, 1)
	variants := []string{
		GenerateWindowID("test", 99, 100, 4, 1),
		GenerateWindowID("train", 100, 100, 4, 1),
		GenerateWindowID("train", 99, 50, 4, 1),
		GenerateWindowID("train", 99, 100, 0, 1),
		GenerateWindowID("train", 99, 100, 4, 2),
	}
	for i, v := range variants {
		if v == base {
			t.Fatalf("variant %d collided with base ID", i)
		}
	}
}

func TestWindow(t *testing.T) {
	features := FeatureMatrix{{1, 2}, {3, 4}, {5, 6}}
	w := NewWindow("train", 9, 3, 4, 1, Up, features)

	if !w.IsComplete() {
		t.Fatal("window should be complete")
	}
	if w.StartIndex() != 7 {
		t.Fatalf("StartIndex()=%d, want 7", w.StartIndex())
	}
	last := w.LastSnapshot()
	if last == nil || last[0] != 5 || last[1] != 6 {
		t.Fatalf("LastSnapshot()=%v, want [5 6]", last)
	}

	w.Features = features[:2]
	if w.IsComplete() {
		t.Fatal("truncated window should not be complete")
	}
}
