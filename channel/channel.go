// Package channel schedules the bit exchange that players run over the
// collision channel.
//
// A communication cycle is split into one block per sender (ordered by
// internal rank). Inside a block every round carries a single bit of one
// arm statistic for one recipient: the sender signals 1 by playing the
// recipient's arm (forcing a collision) and 0 by staying on its own arm.
// Players sit on the active arm whose position equals their internal rank,
// so ranks and arm positions are interchangeable here.
package channel

import (
	"fmt"
)

// Schedule describes one communication cycle.
type Schedule struct {
	Players int // Active players M
	Arms    int // Active arms K
	Bits    int // Bits per statistic (exploration round number + 2)
}

// Slot is the meaning of one round of the cycle.
type Slot struct {
	Sender    int // Internal rank of the sending player
	Recipient int // Internal rank of the receiving player
	Arm       int // Position of the arm in the active set
	Bit       int // Bit position of the statistic, least significant first
}

// NewSchedule builds the schedule for exploration round number round.
func NewSchedule(players, arms, round int) Schedule {
	return Schedule{Players: players, Arms: arms, Bits: round + 2}
}

// BlockLen is the number of rounds each sender owns: (M-1)·K·Bits.
func (s Schedule) BlockLen() int {
	if s.Players < 2 || s.Arms < 1 || s.Bits < 1 {
		return 0
	}
	return (s.Players - 1) * s.Arms * s.Bits
}

// Len is the length of the whole cycle: M·(M-1)·K·Bits.
func (s Schedule) Len() int {
	return s.Players * s.BlockLen()
}

// Sending reports whether rank owns round tPhase.
func (s Schedule) Sending(tPhase, rank int) bool {
	bl := s.BlockLen()
	if bl == 0 {
		return false
	}
	return tPhase >= rank*bl && tPhase < (rank+1)*bl
}

// Decode maps a round of the cycle to its slot.
func (s Schedule) Decode(tPhase int) (Slot, bool) {
	bl := s.BlockLen()
	if bl == 0 || tPhase < 0 || tPhase >= s.Len() {
		return Slot{}, false
	}

	sender := tPhase / bl
	t0 := tPhase % bl
	bit := t0 % s.Bits
	arm := (t0 / s.Bits) % s.Arms
	recipient := t0 / (s.Bits * s.Arms)
	if recipient >= sender {
		recipient++ // a sender never addresses itself
	}

	return Slot{Sender: sender, Recipient: recipient, Arm: arm, Bit: bit}, true
}

// Round is the inverse of Decode.
func (s Schedule) Round(sl Slot) (int, error) {
	bl := s.BlockLen()
	switch {
	case bl == 0:
		return 0, fmt.Errorf("channel: empty schedule %+v", s)
	case sl.Sender < 0 || sl.Sender >= s.Players:
		return 0, fmt.Errorf("channel: sender %d out of range", sl.Sender)
	case sl.Recipient < 0 || sl.Recipient >= s.Players || sl.Recipient == sl.Sender:
		return 0, fmt.Errorf("channel: recipient %d invalid for sender %d", sl.Recipient, sl.Sender)
	case sl.Arm < 0 || sl.Arm >= s.Arms:
		return 0, fmt.Errorf("channel: arm slot %d out of range", sl.Arm)
	case sl.Bit < 0 || sl.Bit >= s.Bits:
		return 0, fmt.Errorf("channel: bit %d out of range", sl.Bit)
	}

	recipient := sl.Recipient
	if recipient > sl.Sender {
		recipient--
	}
	return sl.Sender*bl + (recipient*s.Arms+sl.Arm)*s.Bits + sl.Bit, nil
}

// Encode returns the arm position the sender plays to transmit bit.
func Encode(sl Slot, bit bool) int {
	if bit {
		return sl.Recipient
	}
	return sl.Sender
}

// BitOf extracts bit b of a non-negative statistic.
func BitOf(value, b int) bool {
	return (value>>b)&1 == 1
}

// Weight is the amount a recipient adds to its running sum when it observes
// a collision in sl.
func Weight(sl Slot) int {
	return 1 << sl.Bit
}
