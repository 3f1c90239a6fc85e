// Package simulation runs decentralized players against a shared Bernoulli
// environment and measures their collective regret.
package simulation

import (
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/signalnine/sicmmab/engine"
	"github.com/signalnine/sicmmab/strategy"
)

// MaxPlayers bounds the population of a single simulation.
const MaxPlayers = 4096

var (
	ErrNoPlayers      = errors.New("at least one player is required")
	ErrTooManyPlayers = fmt.Errorf("more than %d players", MaxPlayers)
	ErrBadHorizon     = errors.New("horizon must be positive")
)

// Result holds the per-round record of one simulation.
type Result struct {
	Regret       []float64 `json:"regret"`        // Cumulative regret after each round
	Plays        [][]int   `json:"plays"`         // Arm chosen by every player, per round
	Rewards      []float64 `json:"rewards"`       // Realized reward summed over players, per round
	Collisions   []int     `json:"collisions"`    // Players that collided, per round
	CollidedArms []int     `json:"collided_arms"` // Arms chosen by two or more players, per round
}

// FinalRegret is the cumulative regret at the horizon.
func (r *Result) FinalRegret() float64 {
	if len(r.Regret) == 0 {
		return 0
	}
	return r.Regret[len(r.Regret)-1]
}

// TotalCollisions sums collided players over every round.
func (r *Result) TotalCollisions() int {
	total := 0
	for _, c := range r.Collisions {
		total += c
	}
	return total
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger used for per-run diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// Simulator owns an environment and its players.
type Simulator struct {
	env     *engine.Environment
	players []strategy.Player
	log     *zap.Logger
}

// New validates the setup, permutes the means and builds nplayers players.
// Every player gets its own generator derived from rng.
func New(means []float64, nplayers int, factory strategy.Factory, rng *rand.Rand, opts ...Option) (*Simulator, error) {
	if nplayers <= 0 {
		return nil, fmt.Errorf("%d players: %w", nplayers, ErrNoPlayers)
	}
	if nplayers > MaxPlayers {
		return nil, fmt.Errorf("%d players: %w", nplayers, ErrTooManyPlayers)
	}
	if factory == nil {
		return nil, errors.New("nil player factory")
	}

	env, err := engine.NewEnvironment(means, rng)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		env:     env,
		players: make([]strategy.Player, nplayers),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.players {
		s.players[i] = factory(env.Arms(), rand.New(rand.NewSource(rng.Int63())))
	}
	return s, nil
}

// Environment exposes the (permuted) environment.
func (s *Simulator) Environment() *engine.Environment { return s.env }

// Players returns the simulated players in seat order.
func (s *Simulator) Players() []strategy.Player { return s.players }

// Simulate plays horizon rounds. Players keep their state between calls.
func (s *Simulator) Simulate(horizon int) (*Result, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon %d: %w", horizon, ErrBadHorizon)
	}

	narms := s.env.Arms()
	res := &Result{
		Regret:       make([]float64, horizon),
		Plays:        make([][]int, horizon),
		Rewards:      make([]float64, horizon),
		Collisions:   make([]int, horizon),
		CollidedArms: make([]int, horizon),
	}
	oracle := s.env.TopMeanSum(len(s.players))

	cum := 0.0
	for t := 0; t < horizon; t++ {
		plays := make([]int, len(s.players))
		for i, p := range s.players {
			arm := p.Play()
			if arm < 0 || arm >= narms {
				return nil, fmt.Errorf("round %d: %s player %d played arm %d of %d", t, p.Name(), i, arm, narms)
			}
			plays[i] = arm
		}

		collided := engine.Collisions(plays, narms)
		sample := s.env.Sample()

		reward := 0
		for i, p := range s.players {
			obs := engine.Observation{Reward: sample[plays[i]], Collided: collided[i]}
			p.Update(plays[i], obs)
			reward += obs.Value()
			if obs.Collided {
				res.Collisions[t]++
			}
		}

		cum += float64(reward)
		res.Plays[t] = plays
		res.CollidedArms[t] = engine.CollidedArms(plays, narms)
		res.Rewards[t] = float64(reward)
		res.Regret[t] = float64(t+1)*oracle - cum
	}

	s.log.Debug("simulation finished",
		zap.Int("horizon", horizon),
		zap.Int("players", len(s.players)),
		zap.Int("arms", narms),
		zap.Float64("final_regret", res.FinalRegret()),
		zap.Int("collisions", res.TotalCollisions()))
	return res, nil
}
