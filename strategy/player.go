// Package strategy implements the decentralized player policies: the
// synchronized communication protocol and two baselines without
// communication. Every policy only ever sees its own plays and observations.
package strategy

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/signalnine/sicmmab/engine"
)

// Player is one autonomous bandit policy.
type Player interface {
	// Play returns the arm to pull this round.
	Play() int
	// Update feeds back the arm that was played and what was observed.
	Update(arm int, obs engine.Observation)
	// Name identifies the policy.
	Name() string
}

// Factory builds a fresh player for an environment with narms arms.
type Factory func(narms int, rng *rand.Rand) Player

// Kind selects a policy.
type Kind uint8

const (
	KindSynchComm     Kind = 0
	KindSlidingWindow Kind = 1
	KindMusicalChairs Kind = 2
)

var (
	// ErrUnknownKind is returned for an unrecognised policy name or value.
	ErrUnknownKind = errors.New("unknown strategy")
	// ErrBadConfig is returned when a policy configuration is unusable.
	ErrBadConfig = errors.New("invalid strategy config")
)

var kindNames = map[Kind]string{
	KindSynchComm:     "synchcomm",
	KindSlidingWindow: "slidingwindow",
	KindMusicalChairs: "musicalchairs",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind accepts the names printed by Kind.String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == needle {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// Config holds the policy parameters.
type Config struct {
	Horizon int     // Total rounds T, used in confidence radii and phase lengths
	Players int     // Size of the targeted top-M set (SlidingWindow only)
	Delta   float64 // Gap confidence for the Musical Chairs exploration length
	Window  int     // SlidingWindow history length (0 = unbounded)
}

// DefaultConfig returns the standard experiment parameters: T=10000, δ=0.1, no window.
func DefaultConfig() Config {
	return Config{
		Horizon: 10000,
		Players: 1,
		Delta:   0.1,
		Window:  0,
	}
}

// Validate checks cfg for the given policy.
func (c Config) Validate(kind Kind) error {
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon %d: %w", c.Horizon, ErrBadConfig)
	}
	switch kind {
	case KindSynchComm:
	case KindSlidingWindow:
		if c.Players <= 0 {
			return fmt.Errorf("top-M size %d: %w", c.Players, ErrBadConfig)
		}
		if c.Window < 0 {
			return fmt.Errorf("window %d: %w", c.Window, ErrBadConfig)
		}
	case KindMusicalChairs:
		if c.Delta <= 0 || math.IsNaN(c.Delta) {
			return fmt.Errorf("delta %v: %w", c.Delta, ErrBadConfig)
		}
	default:
		return fmt.Errorf("%v: %w", kind, ErrUnknownKind)
	}
	return nil
}

// NewFactory validates cfg and returns a constructor for kind.
func NewFactory(kind Kind, cfg Config, logger *zap.Logger) (Factory, error) {
	if err := cfg.Validate(kind); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch kind {
	case KindSynchComm:
		return func(narms int, rng *rand.Rand) Player {
			return NewSynchComm(narms, cfg.Horizon, rng, logger)
		}, nil
	case KindSlidingWindow:
		return func(narms int, rng *rand.Rand) Player {
			return NewSlidingWindow(narms, cfg.Players, cfg.Horizon, cfg.Window, rng)
		}, nil
	case KindMusicalChairs:
		return func(narms int, rng *rand.Rand) Player {
			return NewMusicalChairs(narms, cfg.Horizon, cfg.Delta, rng)
		}, nil
	}
	return nil, fmt.Errorf("%v: %w", kind, ErrUnknownKind)
}

// Stats is the bookkeeping every policy keeps about its own pulls.
type Stats struct {
	T      int       // Horizon
	Round  int       // Current round t
	K      int       // Number of arms the policy still considers
	Means  []float64 // Empirical means
	Sums   []float64 // Reward sums (Means * NPulls)
	NPulls []int     // Pulls per arm
	Bound  []float64 // Confidence radius per arm, +Inf before the first pull
}

// NewStats returns zeroed bookkeeping for narms arms.
func NewStats(narms, horizon int) Stats {
	bound := make([]float64, narms)
	for i := range bound {
		bound[i] = math.Inf(1)
	}
	return Stats{
		T:      horizon,
		K:      narms,
		Means:  make([]float64, narms),
		Sums:   make([]float64, narms),
		NPulls: make([]int, narms),
		Bound:  bound,
	}
}

// Observe records one reward for arm.
func (s *Stats) Observe(arm int, reward float64) {
	s.Sums[arm] += reward
	s.NPulls[arm]++
	s.refresh(arm)
}

// Forget removes a previously observed reward (sliding windows only).
func (s *Stats) Forget(arm int, reward float64) {
	if s.NPulls[arm] == 0 {
		return
	}
	s.Sums[arm] -= reward
	s.NPulls[arm]--
	s.refresh(arm)
}

// Radius is sqrt(ln T / 2n), +Inf for an unpulled arm.
func (s *Stats) Radius(n int) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(logHorizon(s.T) / (2 * float64(n)))
}

func (s *Stats) refresh(arm int) {
	n := s.NPulls[arm]
	if n == 0 {
		s.Means[arm] = 0
		s.Bound[arm] = math.Inf(1)
		return
	}
	s.Means[arm] = s.Sums[arm] / float64(n)
	s.Bound[arm] = s.Radius(n)
}

func logHorizon(t int) float64 {
	if t <= 1 {
		return 0
	}
	return math.Log(float64(t))
}
