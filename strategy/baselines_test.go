package strategy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signalnine/sicmmab/engine"
)

func TestSlidingWindowAlwaysPlaysValidArm(t *testing.T) {
	env, err := engine.NewEnvironment([]float64{0.9, 0.8, 0.2, 0.1}, rand.New(rand.NewSource(8)))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	players := []Player{
		NewSlidingWindow(4, 2, 2000, 0, rand.New(rand.NewSource(rng.Int63()))),
		NewSlidingWindow(4, 2, 2000, 0, rand.New(rand.NewSource(rng.Int63()))),
	}
	playRounds(t, players, env, 2000)

	for _, p := range players {
		sw := p.(*SlidingWindow)
		require.Len(t, sw.Best(), 2)
		require.Equal(t, 2000, sw.Round)
		total := 0
		for _, n := range sw.NPulls {
			total += n
		}
		require.Equal(t, 2000, total)
	}
}

func TestSlidingWindowForgetsOldObservations(t *testing.T) {
	const window = 10
	env, err := engine.NewEnvironment([]float64{0.9, 0.5, 0.1}, rand.New(rand.NewSource(8)))
	require.NoError(t, err)

	p := NewSlidingWindow(3, 1, 500, window, rand.New(rand.NewSource(2)))
	for step := 1; step <= 40; step++ {
		playRounds(t, []Player{p}, env, 1)

		total := 0
		for _, n := range p.NPulls {
			total += n
			require.GreaterOrEqual(t, n, 0)
		}
		want := step
		if want > window {
			want = window
		}
		require.Equal(t, want, total, "step %d", step)
	}
}

func TestSlidingWindowClampsTopM(t *testing.T) {
	p := NewSlidingWindow(3, 10, 100, 0, rand.New(rand.NewSource(1)))
	require.Len(t, p.Best(), 3)

	p = NewSlidingWindow(3, 0, 100, 0, rand.New(rand.NewSource(1)))
	p.Update(0, engine.Observation{Reward: 1})
	require.Len(t, p.Best(), 1)
}

func TestSlidingWindowStaysWhenSure(t *testing.T) {
	p := NewSlidingWindow(2, 2, 100, 0, rand.New(rand.NewSource(1)))
	arm := p.Play()
	p.Update(arm, engine.Observation{Reward: 1})
	// Both arms are in the top-2, no collision: the player keeps its arm.
	for i := 0; i < 20; i++ {
		require.Equal(t, arm, p.Play())
		p.Update(arm, engine.Observation{Reward: 1})
	}
}

func TestChairsLength(t *testing.T) {
	require.Equal(t, 16241, ChairsLength(2, 10, 0.1))
}

func TestEstimatePlayers(t *testing.T) {
	tests := []struct {
		name                    string
		rounds, collisions, arm int
		want                    int
	}{
		{"no collisions", 1000, 0, 4, 1},
		{"three players on four arms", 10000, 4375, 4, 3},
		{"all collided", 100, 100, 4, 4},
		{"single arm", 100, 50, 1, 1},
		{"no rounds", 0, 0, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EstimatePlayers(tt.rounds, tt.collisions, tt.arm))
		})
	}
}

func TestMusicalChairsFixesAfterExploration(t *testing.T) {
	env, err := engine.NewEnvironment([]float64{0.9, 0.5, 0.1}, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	p := NewMusicalChairs(3, 1000, 0.1, rand.New(rand.NewSource(6)))
	p.t0 = 60

	playRounds(t, []Player{p}, env, 59)
	require.Equal(t, PhaseExploration, p.Phase())

	playRounds(t, []Player{p}, env, 1)
	require.Equal(t, PhaseFixation, p.Phase())
	require.Equal(t, 1, p.EstimatedPlayers())

	playRounds(t, []Player{p}, env, 1)
	require.Equal(t, PhaseExploitation, p.Phase())
	require.Equal(t, p.best[0], p.Play())

	fixed := p.Play()
	playRounds(t, []Player{p}, env, 50)
	require.Equal(t, fixed, p.Play())
}

func TestNewFactory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Players = 2

	for _, kind := range []Kind{KindSynchComm, KindSlidingWindow, KindMusicalChairs} {
		f, err := NewFactory(kind, cfg, nil)
		require.NoError(t, err, kind.String())
		p := f(5, rand.New(rand.NewSource(1)))
		arm := p.Play()
		require.True(t, arm >= 0 && arm < 5, "%s played %d", p.Name(), arm)
	}

	_, err := NewFactory(Kind(9), cfg, nil)
	require.ErrorIs(t, err, ErrUnknownKind)

	bad := cfg
	bad.Horizon = 0
	_, err = NewFactory(KindSynchComm, bad, nil)
	require.ErrorIs(t, err, ErrBadConfig)

	bad = cfg
	bad.Delta = 0
	_, err = NewFactory(KindMusicalChairs, bad, nil)
	require.ErrorIs(t, err, ErrBadConfig)

	bad = cfg
	bad.Window = -1
	_, err = NewFactory(KindSlidingWindow, bad, nil)
	require.ErrorIs(t, err, ErrBadConfig)
}

func TestParseKind(t *testing.T) {
	for _, kind := range []Kind{KindSynchComm, KindSlidingWindow, KindMusicalChairs} {
		got, err := ParseKind(kind.String())
		require.NoError(t, err)
		require.Equal(t, kind, got)
	}

	got, err := ParseKind("  SynchComm ")
	require.NoError(t, err)
	require.Equal(t, KindSynchComm, got)

	_, err = ParseKind("ucb")
	require.ErrorIs(t, err, ErrUnknownKind)
	require.Equal(t, "kind(7)", Kind(7).String())
}

func TestStatsObserveAndForget(t *testing.T) {
	s := NewStats(2, 100)
	require.True(t, s.Bound[0] > 1e300)

	s.Observe(0, 1)
	s.Observe(0, 0)
	require.Equal(t, 2, s.NPulls[0])
	require.InDelta(t, 0.5, s.Means[0], 1e-12)
	require.InDelta(t, s.Radius(2), s.Bound[0], 1e-12)

	s.Forget(0, 1)
	require.Equal(t, 1, s.NPulls[0])
	require.InDelta(t, 0, s.Means[0], 1e-12)

	s.Forget(1, 1)
	require.Equal(t, 0, s.NPulls[1])
}
