package simulation

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/signalnine/sicmmab/engine"
	"github.com/signalnine/sicmmab/strategy"
)

// fixedPlayer always pulls the same arm.
type fixedPlayer struct {
	arm     int
	updates int
}

func (p *fixedPlayer) Play() int                            { return p.arm }
func (p *fixedPlayer) Update(arm int, _ engine.Observation) { p.updates++ }
func (p *fixedPlayer) Name() string                         { return "fixed" }

func fixedFactory(arm int) strategy.Factory {
	return func(narms int, rng *rand.Rand) strategy.Player { return &fixedPlayer{arm: arm} }
}

func synchFactory(t testing.TB, horizon int) strategy.Factory {
	t.Helper()
	cfg := strategy.DefaultConfig()
	cfg.Horizon = horizon
	f, err := strategy.NewFactory(strategy.KindSynchComm, cfg, nil)
	require.NoError(t, err)
	return f
}

func TestNewRejectsBadSetups(t *testing.T) {
	f := fixedFactory(0)
	rng := rand.New(rand.NewSource(1))

	_, err := New([]float64{0.5}, 0, f, rng)
	require.ErrorIs(t, err, ErrNoPlayers)

	_, err = New([]float64{0.5}, MaxPlayers+1, f, rng)
	require.ErrorIs(t, err, ErrTooManyPlayers)

	_, err = New(nil, 1, f, rng)
	require.ErrorIs(t, err, engine.ErrNoArms)

	_, err = New([]float64{0.5, 1.5}, 1, f, rng)
	require.ErrorIs(t, err, engine.ErrBadMean)

	sim, err := New([]float64{0.5}, 1, f, rng)
	require.NoError(t, err)
	_, err = sim.Simulate(0)
	require.ErrorIs(t, err, ErrBadHorizon)
}

func TestMorePlayersThanArmsIsAllowed(t *testing.T) {
	sim, err := New([]float64{0.5, 0.4}, 5, synchFactory(t, 100), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	res, err := sim.Simulate(100)
	require.NoError(t, err)
	require.Len(t, res.Regret, 100)
}

func TestSingleRoundSinglePlayer(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		sim, err := New([]float64{0.9, 0.1}, 1, synchFactory(t, 1), rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		res, err := sim.Simulate(1)
		require.NoError(t, err)
		require.Len(t, res.Regret, 1)
		require.Len(t, res.Plays, 1)
		require.Len(t, res.Plays[0], 1)
		require.Equal(t, 0, res.Collisions[0])
		require.Equal(t, 0, res.CollidedArms[0])
		require.InDelta(t, 0.9-res.Rewards[0], res.Regret[0], 1e-12)
	}
}

func TestSingleRoundOverSubscribed(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		sim, err := New([]float64{0.9, 0.1}, 3, synchFactory(t, 1), rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		res, err := sim.Simulate(1)
		require.NoError(t, err)
		require.GreaterOrEqual(t, res.Collisions[0], 2, "three players on two arms always collide")
		require.GreaterOrEqual(t, res.CollidedArms[0], 1)
		require.LessOrEqual(t, res.Rewards[0], 1.0)
		require.InDelta(t, 1.0-res.Rewards[0], res.Regret[0], 1e-12)
	}
}

func TestCollidedPlayersEarnNothing(t *testing.T) {
	sim, err := New([]float64{1, 1}, 3, fixedFactory(1), rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	res, err := sim.Simulate(10)
	require.NoError(t, err)
	for r := 0; r < 10; r++ {
		require.Equal(t, 3, res.Collisions[r])
		require.Equal(t, 1, res.CollidedArms[r], "all players share one arm")
		require.Zero(t, res.Rewards[r])
		require.InDelta(t, 2*float64(r+1), res.Regret[r], 1e-12)
	}
	for _, p := range sim.Players() {
		require.Equal(t, 10, p.(*fixedPlayer).updates)
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	run := func() *Result {
		sim, err := New([]float64{0.9, 0.7, 0.4, 0.2}, 2, synchFactory(t, 2000),
			rand.New(rand.NewSource(77)), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		res, err := sim.Simulate(2000)
		require.NoError(t, err)
		return res
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("same seed, different results (-first +second):\n%s", diff)
	}
}

func TestMeanRegretNonDecreasing(t *testing.T) {
	cfg := BatchConfig{
		Means:    []float64{0.9, 0.5, 0.1},
		Players:  2,
		Kind:     strategy.KindSynchComm,
		Strategy: strategy.DefaultConfig(),
		Horizon:  3000,
		Runs:     200,
	}
	stats, err := RunBatch(cfg, 5)
	require.NoError(t, err)
	require.Zero(t, stats.Errors)

	const tolerance = 5.0
	prev := 0.0
	for t0 := 499; t0 < cfg.Horizon; t0 += 500 {
		require.GreaterOrEqual(t, stats.MeanRegret[t0], prev-tolerance, "round %d", t0)
		prev = stats.MeanRegret[t0]
	}
	require.Greater(t, stats.FinalRegretMean, 0.0)
}

func TestRunBatchValidates(t *testing.T) {
	base := BatchConfig{
		Means:    []float64{0.5, 0.4},
		Players:  1,
		Strategy: strategy.DefaultConfig(),
		Horizon:  10,
		Runs:     2,
	}

	bad := base
	bad.Players = 0
	_, err := RunBatch(bad, 1)
	require.ErrorIs(t, err, ErrNoPlayers)

	bad = base
	bad.Horizon = -1
	_, err = RunBatch(bad, 1)
	require.ErrorIs(t, err, ErrBadHorizon)

	bad = base
	bad.Means = []float64{0.5, -0.1}
	_, err = RunBatch(bad, 1)
	require.ErrorIs(t, err, engine.ErrBadMean)

	bad = base
	bad.Kind = strategy.Kind(42)
	_, err = RunBatch(bad, 1)
	require.ErrorIs(t, err, strategy.ErrUnknownKind)

	bad = base
	bad.Runs = 0
	_, err = RunBatch(bad, 1)
	require.Error(t, err)
}

func TestRunBatchSummaries(t *testing.T) {
	cfg := BatchConfig{
		Means:    []float64{0.8, 0.6, 0.3},
		Players:  2,
		Kind:     strategy.KindSlidingWindow,
		Strategy: strategy.DefaultConfig(),
		Horizon:  300,
		Runs:     6,
	}
	stats, err := RunBatch(cfg, 11)
	require.NoError(t, err)

	require.Equal(t, 6, stats.Runs)
	require.Equal(t, 300, stats.Horizon)
	require.Len(t, stats.MeanRegret, 300)
	require.Len(t, stats.Summaries, 6)

	ids := map[string]bool{}
	for i, s := range stats.Summaries {
		require.NotEmpty(t, s.RunID)
		ids[s.RunID] = true
		require.Equal(t, runID(11, i), s.RunID)
	}
	require.Len(t, ids, 6)
	require.LessOrEqual(t, stats.FinalRegretCI95[0], stats.FinalRegretCI95[1])
}
