package simulation

import (
	"math"
	"math/rand"
	"sort"
)

// BootstrapResamples is the number of resamples behind FinalRegretCI95.
const BootstrapResamples = 1000

// RunSummary is the per-run line of a batch report.
type RunSummary struct {
	RunID       string  `json:"run_id"`
	Seed        uint64  `json:"seed"`
	FinalRegret float64 `json:"final_regret"`
	Collisions  int     `json:"collisions"`
	DurationNs  uint64  `json:"duration_ns"`
	Error       string  `json:"error,omitempty"`
}

// AggregatedStats summarizes the runs of a batch.
type AggregatedStats struct {
	Runs            int          `json:"runs"`
	Horizon         int          `json:"horizon"`
	MeanRegret      []float64    `json:"mean_regret"`
	FinalRegretMean float64      `json:"final_regret_mean"`
	FinalRegretStd  float64      `json:"final_regret_std"`
	FinalRegretCI95 [2]float64   `json:"final_regret_ci95"`
	MeanCollisions  float64      `json:"mean_collisions"`
	Errors          int          `json:"errors"`
	Summaries       []RunSummary `json:"summaries"`
}

// aggregateResults folds run results (ordered by run index) into batch
// statistics. Failed runs are counted but excluded from the averages.
func aggregateResults(results []RunResult, horizon int, seed uint64) AggregatedStats {
	stats := AggregatedStats{
		Runs:       len(results),
		Horizon:    horizon,
		MeanRegret: make([]float64, horizon),
		Summaries:  make([]RunSummary, len(results)),
	}

	var finals []float64
	collisions := 0
	for i, r := range results {
		sum := RunSummary{
			RunID:      r.RunID,
			Seed:       r.Seed,
			Collisions: r.Collisions,
			DurationNs: r.DurationNs,
			Error:      r.Error,
		}
		if r.Error != "" || len(r.Regret) != horizon {
			stats.Errors++
			stats.Summaries[i] = sum
			continue
		}
		sum.FinalRegret = r.Regret[horizon-1]
		stats.Summaries[i] = sum

		for t, v := range r.Regret {
			stats.MeanRegret[t] += v
		}
		finals = append(finals, sum.FinalRegret)
		collisions += r.Collisions
	}

	n := len(finals)
	if n == 0 {
		return stats
	}
	for t := range stats.MeanRegret {
		stats.MeanRegret[t] /= float64(n)
	}
	stats.FinalRegretMean, stats.FinalRegretStd = meanStd(finals)
	stats.FinalRegretCI95[0], stats.FinalRegretCI95[1] = BootstrapCI95(finals, BootstrapResamples, rand.New(rand.NewSource(int64(seed))))
	stats.MeanCollisions = float64(collisions) / float64(n)
	return stats
}

// meanStd returns the mean and the sample standard deviation.
func meanStd(vals []float64) (mean, std float64) {
	n := float64(len(vals))
	if n == 0 {
		return 0, 0
	}
	for _, v := range vals {
		mean += v
	}
	mean /= n
	if n < 2 {
		return mean, 0
	}
	ss := 0.0
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}

// BootstrapCI95 is the percentile bootstrap interval for the mean of vals.
func BootstrapCI95(vals []float64, resamples int, rng *rand.Rand) (low, hi float64) {
	n := len(vals)
	if n == 0 || resamples <= 1 {
		return 0, 0
	}
	res := make([]float64, resamples)
	for b := 0; b < resamples; b++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += vals[rng.Intn(n)]
		}
		res[b] = sum / float64(n)
	}
	sort.Float64s(res)
	l := int(0.025 * float64(resamples-1))
	h := int(0.975 * float64(resamples-1))
	return res[l], res[h]
}
