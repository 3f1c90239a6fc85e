package engine

import (
	"sync"
)

// Observation is what a single player sees after a round.
type Observation struct {
	Reward   int  // Bernoulli sample of the played arm (0 or 1)
	Collided bool // Another player chose the same arm this round
}

// Value returns the usable reward: a collision zeroes it.
func (o Observation) Value() int {
	if o.Collided {
		return 0
	}
	return o.Reward
}

// Round is scratch space for one round of collision detection.
type Round struct {
	Counts []int // Number of players on each arm
}

// RoundPool recycles Round scratch buffers across rounds and runs.
var RoundPool = sync.Pool{
	New: func() interface{} {
		return &Round{
			Counts: make([]int, 0, 16),
		}
	},
}

// GetRound acquires a Round sized for narms arms, all counts zero.
func GetRound(narms int) *Round {
	r := RoundPool.Get().(*Round)
	r.Reset(narms)
	return r
}

// PutRound returns a Round to the pool.
func PutRound(r *Round) {
	if r == nil {
		return
	}
	RoundPool.Put(r)
}

// Reset clears counts for reuse with narms arms.
func (r *Round) Reset(narms int) {
	if cap(r.Counts) < narms {
		r.Counts = make([]int, narms)
		return
	}
	r.Counts = r.Counts[:narms]
	for i := range r.Counts {
		r.Counts[i] = 0
	}
}

// Collisions flags every player whose arm was chosen by two or more players.
// Plays outside [0, narms) are never flagged.
func Collisions(plays []int, narms int) []bool {
	r := GetRound(narms)
	defer PutRound(r)

	for _, arm := range plays {
		if arm >= 0 && arm < narms {
			r.Counts[arm]++
		}
	}

	flags := make([]bool, len(plays))
	for i, arm := range plays {
		if arm >= 0 && arm < narms {
			flags[i] = r.Counts[arm] > 1
		}
	}
	return flags
}

// CollidedArms returns the number of distinct arms chosen by two or more players.
func CollidedArms(plays []int, narms int) int {
	r := GetRound(narms)
	defer PutRound(r)

	n := 0
	for _, arm := range plays {
		if arm < 0 || arm >= narms {
			continue
		}
		r.Counts[arm]++
		if r.Counts[arm] == 2 {
			n++
		}
	}
	return n
}
