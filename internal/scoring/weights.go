package scoring

import (
	"fmt"
	"math"
)

// Weights defines the maximum contribution of each scoring component.
// The four component maxima must sum to 100.
type Weights struct {
	Skill          float64 `mapstructure:"skill"`
	Time           float64 `mapstructure:"time"`
	Investment     float64 `mapstructure:"investment"`
	Interest       float64 `mapstructure:"interest"`
	InterestPerHit float64 `mapstructure:"interest_per_hit"`
}

// DefaultWeights returns the 40/20/20/20 distribution with 10 points per interest hit.
func DefaultWeights() Weights {
	return Weights{
		Skill:          40,
		Time:           20,
		Investment:     20,
		Interest:       20,
		InterestPerHit: 10,
	}
}

// Sum returns the total of the component maxima.
func (w Weights) Sum() float64 {
	return w.Skill + w.Time + w.Investment + w.Interest
}

// IsZero reports whether no weight has been set.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

// Validate checks that weights are non-negative and sum to 100.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"skill":            w.Skill,
		"time":             w.Time,
		"investment":       w.Investment,
		"interest":         w.Interest,
		"interest_per_hit": w.InterestPerHit,
	} {
		if v < 0 {
			return fmt.Errorf("negative weight %s: %f", name, v)
		}
	}
	if math.Abs(w.Sum()-100) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 100", w.Sum())
	}
	return nil
}
