// Package engine holds the reward environment shared by all players and the
// per-round collision rule.
package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

var (
	// ErrNoArms is returned when the mean vector is empty.
	ErrNoArms = errors.New("at least one arm is required")
	// ErrBadMean is returned for a mean outside [0, 1] or not finite.
	ErrBadMean = errors.New("arm mean must be in [0, 1]")
)

// Environment is a stochastic bandit with Bernoulli arms.
// The means are permuted once at construction so arm indices carry no
// information about arm quality.
type Environment struct {
	means []float64
	rng   *rand.Rand
}

// NewEnvironment validates and shuffles means using rng.
func NewEnvironment(means []float64, rng *rand.Rand) (*Environment, error) {
	if err := ValidateMeans(means); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("environment: nil random source")
	}

	shuffled := make([]float64, len(means))
	copy(shuffled, means)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return &Environment{means: shuffled, rng: rng}, nil
}

// ValidateMeans checks that means is a usable probability vector.
func ValidateMeans(means []float64) error {
	if len(means) == 0 {
		return ErrNoArms
	}
	for i, mu := range means {
		if math.IsNaN(mu) || mu < 0 || mu > 1 {
			return fmt.Errorf("arm %d has mean %v: %w", i, mu, ErrBadMean)
		}
	}
	return nil
}

// Arms returns the number of arms.
func (e *Environment) Arms() int {
	return len(e.means)
}

// Means returns a copy of the (permuted) arm means.
func (e *Environment) Means() []float64 {
	out := make([]float64, len(e.means))
	copy(out, e.means)
	return out
}

// Sample draws one Bernoulli reward per arm.
func (e *Environment) Sample() []int {
	rews := make([]int, len(e.means))
	for k, mu := range e.means {
		if e.rng.Float64() < mu {
			rews[k] = 1
		}
	}
	return rews
}

// TopMeanSum is the expected per-round reward of the oracle that plays the m
// best arms without collision. m larger than the arm count sums every arm.
func (e *Environment) TopMeanSum(m int) float64 {
	return TopMeanSum(e.means, m)
}

// TopMeanSum returns the sum of the min(m, len(means)) largest means.
func TopMeanSum(means []float64, m int) float64 {
	if m <= 0 {
		return 0
	}
	sorted := make([]float64, len(means))
	copy(sorted, means)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if m > len(sorted) {
		m = len(sorted)
	}
	sum := 0.0
	for _, mu := range sorted[:m] {
		sum += mu
	}
	return sum
}

// Linspace returns n means evenly spaced from hi down to lo, inclusive.
func Linspace(hi, lo float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{hi}
	}
	out := make([]float64, n)
	step := (lo - hi) / float64(n-1)
	for i := range out {
		out[i] = hi + step*float64(i)
	}
	return out
}
