package strategy

import (
	"math"
	"math/rand"
	"sort"

	"github.com/signalnine/sicmmab/engine"
)

// MusicalChairs is the two-phase strategy of Rosenski et al.: blind uniform
// exploration that also counts collisions, then random sampling among the
// estimated top-M arms until a free round fixes the player for good.
type MusicalChairs struct {
	Stats

	m     int
	t0    int
	phase Phase
	fixed int
	best  []int
	colls int

	rng *rand.Rand
}

// NewMusicalChairs creates a player whose exploration length is derived from
// the horizon and the gap confidence delta.
func NewMusicalChairs(narms, horizon int, delta float64, rng *rand.Rand) *MusicalChairs {
	return &MusicalChairs{
		Stats: NewStats(narms, horizon),
		m:     1,
		t0:    ChairsLength(narms, horizon, delta),
		phase: PhaseExploration,
		fixed: -1,
		rng:   rng,
	}
}

// ChairsLength is the exploration length
// ceil(max(K ln(2K²T)/2, 16K ln(4K²T)/δ², K² ln(2T)/0.02)).
func ChairsLength(narms, horizon int, delta float64) int {
	k := float64(narms)
	t := float64(horizon)
	a := k * math.Log(2*k*k*t) / 2
	b := 16 * k * math.Log(4*k*k*t) / (delta * delta)
	c := k * k * math.Log(2*t) / 0.02
	return int(math.Ceil(math.Max(a, math.Max(b, c))))
}

// Name implements Player.
func (p *MusicalChairs) Name() string { return "MusicalChairs" }

// Phase returns the current stage.
func (p *MusicalChairs) Phase() Phase { return p.phase }

// EstimatedPlayers is the population estimate made at the end of exploration.
func (p *MusicalChairs) EstimatedPlayers() int { return p.m }

// Play implements Player.
func (p *MusicalChairs) Play() int {
	switch p.phase {
	case PhaseFixation:
		return p.best[p.rng.Intn(len(p.best))]
	case PhaseExploitation:
		return p.fixed
	default:
		return p.rng.Intn(p.K)
	}
}

// Update implements Player.
func (p *MusicalChairs) Update(arm int, obs engine.Observation) {
	p.Round++

	switch p.phase {
	case PhaseExploration:
		if obs.Collided {
			p.colls++
		} else {
			p.Observe(arm, float64(obs.Reward))
		}
		if p.Round >= p.t0 {
			p.m = EstimatePlayers(p.Round, p.colls, p.K)
			p.best = topByMean(p.Means, p.m, p.rng)
			p.phase = PhaseFixation
		}

	case PhaseFixation:
		if !obs.Collided {
			p.phase = PhaseExploitation
			p.fixed = arm
		}

	default:
	}
}

// EstimatePlayers inverts the collision rate of uniform play:
// P(no collision) = (1 - 1/K)^(M-1). The result is clamped to [1, K].
func EstimatePlayers(rounds, collisions, narms int) int {
	if narms <= 1 || rounds <= 0 {
		return 1
	}
	free := float64(rounds-collisions) / float64(rounds)
	if free <= 0 {
		return narms
	}
	m := int(math.Round(math.Log(free)/math.Log(1-1/float64(narms)))) + 1
	if m < 1 {
		m = 1
	}
	if m > narms {
		m = narms
	}
	return m
}

// topByMean returns the m arms with the highest means, ties broken by rng.
func topByMean(means []float64, m int, rng *rand.Rand) []int {
	order := rng.Perm(len(means))
	sort.SliceStable(order, func(i, j int) bool {
		return means[order[i]] > means[order[j]]
	})
	if m > len(order) {
		m = len(order)
	}
	return append([]int(nil), order[:m]...)
}
