package strategy

import (
	"github.com/bits-and-blooms/bitset"
)

// ArmSet is the ordered set of arms still under consideration.
// Arms live in a fixed arena of K0 slots; membership is a bitmask and two
// tables translate between positions in the set and arm ids.
type ArmSet struct {
	member *bitset.BitSet
	order  []int // position -> arm id, ascending
	pos    []int // arm id -> position, -1 once removed
}

// NewArmSet returns the full set {0, ..., n-1}.
func NewArmSet(n int) *ArmSet {
	s := &ArmSet{
		member: bitset.New(uint(n)),
		order:  make([]int, 0, n),
		pos:    make([]int, n),
	}
	for k := 0; k < n; k++ {
		s.member.Set(uint(k))
	}
	s.reindex()
	return s
}

// Len is the number of active arms.
func (s *ArmSet) Len() int {
	return len(s.order)
}

// At returns the arm at position p.
func (s *ArmSet) At(p int) int {
	return s.order[p]
}

// Position returns the position of arm, or false if it is not active.
func (s *ArmSet) Position(arm int) (int, bool) {
	if arm < 0 || arm >= len(s.pos) || s.pos[arm] < 0 {
		return 0, false
	}
	return s.pos[arm], true
}

// Contains reports whether arm is active.
func (s *ArmSet) Contains(arm int) bool {
	return arm >= 0 && arm < len(s.pos) && s.member.Test(uint(arm))
}

// Remove deactivates arms. Unknown or already removed arms are ignored.
func (s *ArmSet) Remove(arms ...int) {
	changed := false
	for _, arm := range arms {
		if s.Contains(arm) {
			s.member.Clear(uint(arm))
			changed = true
		}
	}
	if changed {
		s.reindex()
	}
}

// Arms returns a copy of the active arms in position order.
func (s *ArmSet) Arms() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

func (s *ArmSet) reindex() {
	s.order = s.order[:0]
	for i := range s.pos {
		s.pos[i] = -1
	}
	for i, ok := s.member.NextSet(0); ok; i, ok = s.member.NextSet(i + 1) {
		s.pos[i] = len(s.order)
		s.order = append(s.order, int(i))
	}
}
