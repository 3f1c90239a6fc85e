package simulation

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signalnine/sicmmab/strategy"
)

func TestReportSaveLoad(t *testing.T) {
	cfg := BatchConfig{
		Means:    []float64{0.7, 0.2},
		Players:  1,
		Kind:     strategy.KindMusicalChairs,
		Strategy: strategy.DefaultConfig(),
		Horizon:  50,
		Runs:     3,
	}
	stats, err := RunBatch(cfg, 3)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, SaveReport(path, NewReport(cfg, 3, stats)))

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err), "temp file must be renamed away")

	got, err := LoadReport(path)
	require.NoError(t, err)
	require.Equal(t, ReportVersion, got.Version)
	require.Equal(t, "musicalchairs", got.Strategy)
	require.Equal(t, cfg.Means, got.Means)
	require.Equal(t, uint64(3), got.Seed)
	require.Equal(t, stats.Runs, got.Stats.Runs)
	require.Len(t, got.Stats.Summaries, len(stats.Summaries))
	for i, s := range stats.Summaries {
		require.Equal(t, s.RunID, got.Stats.Summaries[i].RunID)
		require.Equal(t, s.Seed, got.Stats.Summaries[i].Seed)
		require.InDelta(t, s.FinalRegret, got.Stats.Summaries[i].FinalRegret, 1e-9)
	}
	require.InDeltaSlice(t, stats.MeanRegret, got.Stats.MeanRegret, 1e-9)
}

func TestSaveReportRejectsNil(t *testing.T) {
	require.Error(t, SaveReport(filepath.Join(t.TempDir(), "r.json"), nil))
}

func TestLoadReportMissingFile(t *testing.T) {
	_, err := LoadReport(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.InDelta(t, 5, mean, 1e-12)
	require.InDelta(t, 2.138, std, 1e-3)

	mean, std = meanStd([]float64{3})
	require.Equal(t, 3.0, mean)
	require.Zero(t, std)
}

func TestBootstrapCI95(t *testing.T) {
	vals := make([]float64, 100)
	for i := range vals {
		vals[i] = float64(i)
	}
	lo, hi := BootstrapCI95(vals, 2000, rand.New(rand.NewSource(1)))
	require.Less(t, lo, 49.5)
	require.Greater(t, hi, 49.5)
	require.Greater(t, lo, 40.0)
	require.Less(t, hi, 59.0)

	lo, hi = BootstrapCI95(nil, 100, rand.New(rand.NewSource(1)))
	require.Zero(t, lo)
	require.Zero(t, hi)
}

func TestAggregateCountsFailedRuns(t *testing.T) {
	results := []RunResult{
		{RunIndex: 0, RunID: "a", Regret: []float64{1, 2}, Collisions: 4},
		{RunIndex: 1, RunID: "b", Error: "boom"},
		{RunIndex: 2, RunID: "c", Regret: []float64{3, 4}, Collisions: 2},
	}
	stats := aggregateResults(results, 2, 9)

	require.Equal(t, 3, stats.Runs)
	require.Equal(t, 1, stats.Errors)
	require.Equal(t, []float64{2, 3}, stats.MeanRegret)
	require.InDelta(t, 3, stats.FinalRegretMean, 1e-12)
	require.InDelta(t, 3, stats.MeanCollisions, 1e-12)
	require.Equal(t, "boom", stats.Summaries[1].Error)
	require.Equal(t, 4.0, stats.Summaries[2].FinalRegret)
}

func TestSaveResult(t *testing.T) {
	sim, err := New([]float64{0.6, 0.3}, 2, fixedFactory(0), rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	res, err := sim.Simulate(5)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, SaveResult(path, res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"regret"`)
	require.Contains(t, string(data), `"plays"`)
}
