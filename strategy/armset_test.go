package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestArmSetRemove(t *testing.T) {
	s := NewArmSet(5)
	require.Equal(t, []int{0, 1, 2, 3, 4}, s.Arms())

	s.Remove(1, 3, 3, 9, -1)
	require.Equal(t, []int{0, 2, 4}, s.Arms())
	require.Equal(t, 3, s.Len())
	require.Equal(t, 4, s.At(2))
	require.False(t, s.Contains(3))

	pos, ok := s.Position(4)
	require.True(t, ok)
	require.Equal(t, 2, pos)

	_, ok = s.Position(1)
	require.False(t, ok)
}

func TestArmSetProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 200).Draw(t, "n")
		removed := rapid.SliceOf(rapid.IntRange(0, n-1)).Draw(t, "removed")

		s := NewArmSet(n)
		gone := map[int]bool{}
		for _, arm := range removed {
			s.Remove(arm)
			gone[arm] = true
		}

		if s.Len() != n-len(gone) {
			t.Fatalf("len %d, want %d", s.Len(), n-len(gone))
		}
		prev := -1
		for p := 0; p < s.Len(); p++ {
			arm := s.At(p)
			if arm <= prev {
				t.Fatalf("arms out of order at position %d", p)
			}
			prev = arm
			if gone[arm] {
				t.Fatalf("removed arm %d still active", arm)
			}
			if got, ok := s.Position(arm); !ok || got != p {
				t.Fatalf("Position(%d) = %d, %v; want %d", arm, got, ok, p)
			}
		}
	})
}
