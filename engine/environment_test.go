package engine

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEnvironmentValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := NewEnvironment(nil, rng)
	require.ErrorIs(t, err, ErrNoArms)

	_, err = NewEnvironment([]float64{0.5, 1.2}, rng)
	require.ErrorIs(t, err, ErrBadMean)

	_, err = NewEnvironment([]float64{-0.1}, rng)
	require.ErrorIs(t, err, ErrBadMean)

	_, err = NewEnvironment([]float64{math.NaN()}, rng)
	require.True(t, errors.Is(err, ErrBadMean))

	_, err = NewEnvironment([]float64{0.5}, nil)
	require.Error(t, err)
}

func TestEnvironmentPermutesMeans(t *testing.T) {
	means := []float64{0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2}
	env, err := NewEnvironment(means, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	got := env.Means()
	require.Len(t, got, len(means))

	sorted := append([]float64(nil), got...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	require.Equal(t, means, sorted, "permutation must keep the same multiset")

	// Caller's slice is not touched.
	require.Equal(t, 0.9, means[0])
}

func TestEnvironmentSample(t *testing.T) {
	env, err := NewEnvironment([]float64{0, 1, 0.5}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	means := env.Means()

	ones := make([]int, env.Arms())
	const rounds = 2000
	for i := 0; i < rounds; i++ {
		rews := env.Sample()
		require.Len(t, rews, env.Arms())
		for k, r := range rews {
			require.True(t, r == 0 || r == 1)
			ones[k] += r
		}
	}

	for k, mu := range means {
		freq := float64(ones[k]) / rounds
		switch mu {
		case 0:
			require.Zero(t, ones[k])
		case 1:
			require.Equal(t, rounds, ones[k])
		default:
			require.InDelta(t, mu, freq, 0.05)
		}
	}
}

func TestTopMeanSum(t *testing.T) {
	means := []float64{0.1, 0.9, 0.5}
	require.InDelta(t, 0.9, TopMeanSum(means, 1), 1e-12)
	require.InDelta(t, 1.4, TopMeanSum(means, 2), 1e-12)
	require.InDelta(t, 1.5, TopMeanSum(means, 3), 1e-12)
	require.InDelta(t, 1.5, TopMeanSum(means, 10), 1e-12)
	require.Zero(t, TopMeanSum(means, 0))
}

func TestLinspace(t *testing.T) {
	got := Linspace(0.9, 0.89, 3)
	require.Len(t, got, 3)
	require.InDelta(t, 0.9, got[0], 1e-12)
	require.InDelta(t, 0.895, got[1], 1e-12)
	require.InDelta(t, 0.89, got[2], 1e-12)

	require.Equal(t, []float64{0.7}, Linspace(0.7, 0.1, 1))
	require.Nil(t, Linspace(0.7, 0.1, 0))
}
