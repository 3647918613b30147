// Package augment perturbs built datasets before training: multiplicative
// Gaussian noise on book values and random depth-level dropout. Labels
// pass through untouched.
package augment

import (
	"math/rand"

	"github.com/quantbed/lobwin/pkg/dataset"
	"github.com/quantbed/lobwin/pkg/model"
)

// Config holds augmentation parameters. The seed is threaded explicitly;
// no process-global random state is consulted, so a fixed seed always
// reproduces the same augmented dataset.
type Config struct {
	Seed         int64   `yaml:"seed"`
	NoiseStd     float64 `yaml:"noise_std"`     // relative std of multiplicative noise
	LevelDropout float64 `yaml:"level_dropout"` // per-snapshot probability of zeroing one depth level
}

// DefaultConfig returns the reference augmentation parameters.
func DefaultConfig() Config {
	return Config{
		Seed:         42,
		NoiseStd:     0.001,
		LevelDropout: 0.05,
	}
}

// Augmentor applies the configured perturbations. Not safe for concurrent
// use; the random stream is sequential.
type Augmentor struct {
	cfg Config
	rng *rand.Rand
}

// New creates an Augmentor seeded from the configuration.
func New(cfg Config) *Augmentor {
	return &Augmentor{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Apply returns a new dataset with perturbed copies of every window. The
// input dataset is left untouched: its windows share backing rows across
// overlapping positions, so perturbation always works on deep copies.
func (a *Augmentor) Apply(d *dataset.Dataset) *dataset.Dataset {
	pairs := make([]dataset.Pair, len(d.Pairs))
	for j, p := range d.Pairs {
		pairs[j] = dataset.Pair{
			Window:    a.perturb(p.Window),
			Direction: p.Direction,
			Label:     p.Label,
		}
	}
	return &dataset.Dataset{
		WindowLength: d.WindowLength,
		Horizon:      d.Horizon,
		Dim:          d.Dim,
		Pairs:        pairs,
	}
}

// perturb copies a window and applies noise and level dropout.
func (a *Augmentor) perturb(w model.FeatureMatrix) model.FeatureMatrix {
	out := make(model.FeatureMatrix, len(w))
	for i, row := range w {
		copied := make([]float64, len(row))
		for k, v := range row {
			copied[k] = v
			if a.cfg.NoiseStd > 0 {
				copied[k] = v * (1 + a.rng.NormFloat64()*a.cfg.NoiseStd)
			}
		}
		if a.cfg.LevelDropout > 0 && a.rng.Float64() < a.cfg.LevelDropout {
			if levels := model.Snapshot(copied).Levels(); levels > 0 {
				l := a.rng.Intn(levels)
				for k := 4 * l; k < 4*l+4; k++ {
					copied[k] = 0
				}
			}
		}
		out[i] = copied
	}
	return out
}
