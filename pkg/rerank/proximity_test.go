package rerank

import (
	"math"
	"testing"

	"github.com/quantbed/lobwin/pkg/model"
	"github.com/quantbed/lobwin/pkg/store/milvus"
)

func hit(id string, score float32, split string, endIndex int64, dir model.Direction) milvus.SearchResult {
	return milvus.SearchResult{
		WindowID:  id,
		Score:     score,
		Split:     split,
		EndIndex:  endIndex,
		Direction: int32(dir),
	}
}

func TestRerank_NearbyBeatsDistant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DirectionBonus = 0
	r := NewReranker(cfg)
	q := Query{Split: "train", EndIndex: 5000, Direction: model.Up}

	results := []milvus.SearchResult{
		hit("far", 0.95, "train", 50000, model.Down),
		hit("near", 0.90, "train", 5100, model.Down),
	}

	ranked := r.Rerank(results, q)
	if ranked[0].WindowID != "near" {
		t.Fatalf("top hit %s, want near", ranked[0].WindowID)
	}
	if ranked[0].FinalScore <= ranked[1].FinalScore {
		t.Fatal("ranking order does not match scores")
	}
	if ranked[0].OriginalScore != 0.90 {
		t.Fatalf("original score %v not preserved", ranked[0].OriginalScore)
	}
}

func TestRerank_ZeroDistanceKeepsScore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DirectionBonus = 0
	r := NewReranker(cfg)
	q := Query{Split: "train", EndIndex: 777, Direction: model.Up}

	ranked := r.Rerank([]milvus.SearchResult{hit("same", 0.8, "train", 777, model.Down)}, q)
	if math.Abs(ranked[0].TemporalWeight-1) > 1e-12 {
		t.Fatalf("weight at zero distance %v, want 1", ranked[0].TemporalWeight)
	}
	if math.Abs(ranked[0].FinalScore-0.8) > 1e-6 {
		t.Fatalf("final score %v, want 0.8", ranked[0].FinalScore)
	}
}

func TestRerank_CrossSplitGetsFlatWeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DirectionBonus = 0
	r := NewReranker(cfg)
	q := Query{Split: "train", EndIndex: 100, Direction: model.Up}

	ranked := r.Rerank([]milvus.SearchResult{
		hit("other", 1.0, "validation", 100, model.Down),
	}, q)
	if ranked[0].TemporalWeight != cfg.CrossSplitWeight {
		t.Fatalf("cross-split weight %v, want %v", ranked[0].TemporalWeight, cfg.CrossSplitWeight)
	}
}

func TestRerank_DirectionBonus(t *testing.T) {
	r := NewReranker(DefaultConfig())
	q := Query{Split: "train", EndIndex: 100, Direction: model.Up}

	ranked := r.Rerank([]milvus.SearchResult{
		hit("mismatch", 0.9, "train", 100, model.Down),
		hit("match", 0.9, "train", 100, model.Up),
	}, q)
	if ranked[0].WindowID != "match" {
		t.Fatalf("top hit %s, want match", ranked[0].WindowID)
	}
	want := 0.9 * 1.05
	if math.Abs(ranked[0].FinalScore-want) > 1e-6 {
		t.Fatalf("final score %v, want %v", ranked[0].FinalScore, want)
	}
}

func TestTopN(t *testing.T) {
	r := NewReranker(DefaultConfig())
	q := Query{Split: "train", EndIndex: 0, Direction: model.Up}
	results := []milvus.SearchResult{
		hit("a", 0.9, "train", 10, model.Up),
		hit("b", 0.8, "train", 20, model.Up),
		hit("c", 0.7, "train", 30, model.Up),
	}

	top := r.TopN(results, q, 2)
	if len(top) != 2 {
		t.Fatalf("len=%d, want 2", len(top))
	}
	if top[0].WindowID != "a" {
		t.Fatalf("top hit %s", top[0].WindowID)
	}

	all := r.TopN(results, q, 10)
	if len(all) != 3 {
		t.Fatalf("n larger than result set gave %d", len(all))
	}
}

func TestFilterByMinScore(t *testing.T) {
	in := []RankedResult{
		{FinalScore: 0.9},
		{FinalScore: 0.4},
		{FinalScore: 0.6},
	}
	out := FilterByMinScore(in, 0.5)
	if len(out) != 2 {
		t.Fatalf("len=%d, want 2", len(out))
	}
	for _, r := range out {
		if r.FinalScore < 0.5 {
			t.Fatalf("kept score %v below floor", r.FinalScore)
		}
	}
}
