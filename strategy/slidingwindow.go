package strategy

import (
	"math/rand"
	"sort"

	"github.com/signalnine/sicmmab/engine"
)

// windowEntry is one remembered observation.
type windowEntry struct {
	arm    int
	reward float64
}

// SlidingWindow is the MCTopM heuristic (Besson & Kaufmann) computed over an
// optional sliding window of the most recent observations.
//
// The player tracks the M arms with the highest upper confidence index. It
// keeps its arm while it is "sure" (no collision since it settled there),
// re-samples inside the top-M set after a collision while unsure, and when
// its arm drops out of the set it moves to a top-M arm whose previous index
// was not above its own arm's previous index.
type SlidingWindow struct {
	Stats

	m        int
	last     int
	collided bool
	sure     bool

	best      []int
	inBest    []bool
	index     []float64 // mean + radius after the last update
	prevIndex []float64 // index before the last update

	window   int
	hist     []windowEntry
	histPos  int
	histSize int

	rng *rand.Rand
}

// NewSlidingWindow creates a player targeting the top m arms. A window of 0
// keeps the full history.
func NewSlidingWindow(narms, m, horizon, window int, rng *rand.Rand) *SlidingWindow {
	if m > narms {
		m = narms
	}
	if m < 1 {
		m = 1
	}
	p := &SlidingWindow{
		Stats:     NewStats(narms, horizon),
		m:         m,
		last:      rng.Intn(narms),
		best:      make([]int, narms),
		inBest:    make([]bool, narms),
		index:     make([]float64, narms),
		prevIndex: make([]float64, narms),
		window:    window,
		rng:       rng,
	}
	if window > 0 {
		p.hist = make([]windowEntry, window)
	}
	// Every arm starts in the candidate set with an infinite index.
	for k := 0; k < narms; k++ {
		p.best[k] = k
		p.inBest[k] = true
	}
	copy(p.index, p.Bound)
	copy(p.prevIndex, p.Bound)
	return p
}

// Name implements Player.
func (p *SlidingWindow) Name() string { return "SlidingWindow" }

// Best returns the current top-M candidate set.
func (p *SlidingWindow) Best() []int {
	out := make([]int, len(p.best))
	copy(out, p.best)
	return out
}

// Play implements Player.
func (p *SlidingWindow) Play() int {
	switch {
	case !p.inBest[p.last]:
		var cand []int
		for _, k := range p.best {
			if p.prevIndex[k] <= p.prevIndex[p.last] {
				cand = append(cand, k)
			}
		}
		if len(cand) == 0 {
			cand = p.best
		}
		return cand[p.rng.Intn(len(cand))]
	case p.collided && !p.sure:
		return p.best[p.rng.Intn(len(p.best))]
	default:
		return p.last
	}
}

// Update implements Player.
func (p *SlidingWindow) Update(arm int, obs engine.Observation) {
	// The branch Play took is a function of the state before this update.
	p.sure = p.inBest[p.last] && !(p.collided && !p.sure)

	p.last = arm
	p.collided = obs.Collided
	p.Round++
	p.record(arm, float64(obs.Value()))

	copy(p.prevIndex, p.index)
	for k := range p.index {
		p.index[k] = p.Means[k] + p.Bound[k]
	}
	p.rank()
}

func (p *SlidingWindow) record(arm int, reward float64) {
	if p.window > 0 {
		if p.histSize == p.window {
			old := p.hist[p.histPos]
			p.Forget(old.arm, old.reward)
			p.histPos = (p.histPos + 1) % p.window
			p.histSize--
		}
		tail := (p.histPos + p.histSize) % p.window
		p.hist[tail] = windowEntry{arm: arm, reward: reward}
		p.histSize++
	}
	p.Observe(arm, reward)
}

// rank recomputes the top-M set; ties are broken by the player's generator.
func (p *SlidingWindow) rank() {
	order := p.rng.Perm(len(p.index))
	sort.SliceStable(order, func(i, j int) bool {
		return p.index[order[i]] > p.index[order[j]]
	})

	p.best = append(p.best[:0], order[:p.m]...)
	for k := range p.inBest {
		p.inBest[k] = false
	}
	for _, k := range p.best {
		p.inBest[k] = true
	}
}
