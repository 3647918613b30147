package model

// Snapshot is one time step of the feature matrix. The benchmark stores
// the book as repeating groups of four per depth level, best level first:
// ask price, ask size, bid price, bid size.
type Snapshot []float64

// Levels returns the number of complete depth levels in the snapshot.
func (s Snapshot) Levels() int { return len(s) / 4 }

// AskPrice returns the ask price at depth level l (0 = best).
func (s Snapshot) AskPrice(l int) float64 { return s[4*l] }

// AskSize returns the ask size at depth level l.
func (s Snapshot) AskSize(l int) float64 { return s[4*l+1] }

// BidPrice returns the bid price at depth level l.
func (s Snapshot) BidPrice(l int) float64 { return s[4*l+2] }

// BidSize returns the bid size at depth level l.
func (s Snapshot) BidSize(l int) float64 { return s[4*l+3] }

// MidPrice returns the midpoint of the best bid and ask.
func (s Snapshot) MidPrice() float64 {
	if s.Levels() == 0 {
		return 0
	}
	return (s.AskPrice(0) + s.BidPrice(0)) / 2
}

// Spread returns the best ask minus best bid.
func (s Snapshot) Spread() float64 {
	if s.Levels() == 0 {
		return 0
	}
	return s.AskPrice(0) - s.BidPrice(0)
}

// DepthImbalance returns the bid share of total visible size across all
// levels, in [0, 1]. 0.5 means a balanced book.
func (s Snapshot) DepthImbalance() float64 {
	var bid, total float64
	for l := 0; l < s.Levels(); l++ {
		bid += s.BidSize(l)
		total += s.AskSize(l) + s.BidSize(l)
	}
	if total == 0 {
		return 0.5
	}
	return bid / total
}
