package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/signalnine/sicmmab/engine"
	"github.com/signalnine/sicmmab/strategy"
)

// BatchConfig describes a set of independent runs of the same setup.
type BatchConfig struct {
	Means    []float64
	Players  int
	Kind     strategy.Kind
	Strategy strategy.Config // Horizon and Players are taken from the batch
	Horizon  int
	Runs     int
	Logger   *zap.Logger
}

// Validate checks everything a run would reject, before any run starts.
func (c BatchConfig) Validate() error {
	if err := engine.ValidateMeans(c.Means); err != nil {
		return err
	}
	if c.Players <= 0 {
		return fmt.Errorf("%d players: %w", c.Players, ErrNoPlayers)
	}
	if c.Players > MaxPlayers {
		return fmt.Errorf("%d players: %w", c.Players, ErrTooManyPlayers)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon %d: %w", c.Horizon, ErrBadHorizon)
	}
	if c.Runs <= 0 {
		return errors.New("at least one run is required")
	}
	return c.strategyConfig().Validate(c.Kind)
}

func (c BatchConfig) strategyConfig() strategy.Config {
	sc := c.Strategy
	sc.Horizon = c.Horizon
	sc.Players = c.Players
	return sc
}

func (c BatchConfig) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// RunJob is a single run of a batch.
type RunJob struct {
	RunIndex int
	Seed     uint64
}

// RunResult holds the outcome of a single run.
type RunResult struct {
	RunIndex   int
	RunID      string
	Seed       uint64
	Regret     []float64
	Collisions int
	DurationNs uint64
	Error      string
}

// runID names a run deterministically from the batch seed and its index.
func runID(batchSeed uint64, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("sicsim/%d/%d", batchSeed, index))).String()
}

// jobs derives every run seed up front from the batch seed, so serial and
// parallel batches see the same runs.
func jobs(runs int, seed uint64) []RunJob {
	rng := rand.New(rand.NewSource(int64(seed)))
	out := make([]RunJob, runs)
	for i := range out {
		out[i] = RunJob{RunIndex: i, Seed: rng.Uint64()}
	}
	return out
}

// RunBatch executes every run of cfg in order on the calling goroutine.
func RunBatch(cfg BatchConfig, seed uint64) (AggregatedStats, error) {
	if err := cfg.Validate(); err != nil {
		return AggregatedStats{}, err
	}
	factory, err := strategy.NewFactory(cfg.Kind, cfg.strategyConfig(), cfg.logger())
	if err != nil {
		return AggregatedStats{}, err
	}

	results := make([]RunResult, cfg.Runs)
	for _, job := range jobs(cfg.Runs, seed) {
		results[job.RunIndex] = RunSingle(cfg, factory, job, seed)
	}
	return aggregateResults(results, cfg.Horizon, seed), nil
}

// RunSingle plays one complete simulation to the horizon.
func RunSingle(cfg BatchConfig, factory strategy.Factory, job RunJob, batchSeed uint64) RunResult {
	start := time.Now()
	res := RunResult{
		RunIndex: job.RunIndex,
		RunID:    runID(batchSeed, job.RunIndex),
		Seed:     job.Seed,
	}

	log := cfg.logger().With(zap.String("run_id", res.RunID), zap.Int("run", job.RunIndex))
	rng := rand.New(rand.NewSource(int64(job.Seed)))
	sim, err := New(cfg.Means, cfg.Players, factory, rng, WithLogger(log))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	out, err := sim.Simulate(cfg.Horizon)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		res.Error = err.Error()
		return res
	}

	res.Regret = out.Regret
	res.Collisions = out.TotalCollisions()
	res.DurationNs = uint64(time.Since(start).Nanoseconds())
	return res
}
