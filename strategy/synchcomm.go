package strategy

import (
	"math"
	"math/bits"
	"math/rand"

	"go.uber.org/zap"

	"github.com/signalnine/sicmmab/channel"
	"github.com/signalnine/sicmmab/engine"
)

// Phase is a stage of a player's state machine.
type Phase uint8

const (
	PhaseFixation Phase = iota
	PhaseEstimation
	PhaseExploration
	PhaseCommunication
	PhaseExploitation
)

func (p Phase) String() string {
	switch p {
	case PhaseFixation:
		return "fixation"
	case PhaseEstimation:
		return "estimation"
	case PhaseExploration:
		return "exploration"
	case PhaseCommunication:
		return "communication"
	case PhaseExploitation:
		return "exploitation"
	}
	return "unknown"
}

// SynchComm is the synchronized communication protocol (SIC-MMAB).
//
// Players first acquire distinct arms with Musical Chairs, count each other
// by sequential hopping, then alternate exploration and communication
// phases. Communication phases share exploration statistics bit by bit over
// the collision channel, after which every player runs the same
// elimination test on identical data and the accepted arms are handed out by
// internal rank.
type SynchComm struct {
	Stats

	k0      int // Arm count at construction
	extRank int // Arm acquired during fixation, -1 until fixed
	intRank int // Order among active players
	m       int // Active players
	t0      int // Fixation length
	last    int // Last arm played
	phase   Phase
	tPhase  int // Round inside the current exploration or communication phase
	round   int // Exploration round number p

	active    *ArmSet
	pooled    []int // Reward sums gathered from all players
	lastPhase []int // This player's rewards in the current exploration phase
	accepted  []int // Arms accepted so far, in acceptance order

	rng *rand.Rand
	log *zap.Logger
}

// NewSynchComm creates a protocol player for narms arms and horizon T.
func NewSynchComm(narms, horizon int, rng *rand.Rand, logger *zap.Logger) *SynchComm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SynchComm{
		Stats:     NewStats(narms, horizon),
		k0:        narms,
		extRank:   -1,
		m:         1,
		t0:        FixationLength(narms, horizon),
		last:      rng.Intn(narms),
		phase:     PhaseFixation,
		active:    NewArmSet(narms),
		pooled:    make([]int, narms),
		lastPhase: make([]int, narms),
		rng:       rng,
		log:       logger,
	}
}

// FixationLength is T0 = ceil(K·e·ln T).
func FixationLength(narms, horizon int) int {
	return int(math.Ceil(float64(narms) * math.E * logHorizon(horizon)))
}

// Name implements Player.
func (p *SynchComm) Name() string { return "SynchComm" }

// Phase returns the current stage.
func (p *SynchComm) Phase() Phase { return p.phase }

// ExternalRank is the arm fixed during Musical Chairs, -1 before.
func (p *SynchComm) ExternalRank() int { return p.extRank }

// InternalRank is the player's order among active players.
func (p *SynchComm) InternalRank() int { return p.intRank }

// ActivePlayers is the current estimate of players still exploring.
func (p *SynchComm) ActivePlayers() int { return p.m }

// RoundNumber is the exploration round number p.
func (p *SynchComm) RoundNumber() int { return p.round }

// ActiveArms returns the arms still under consideration.
func (p *SynchComm) ActiveArms() []int { return p.active.Arms() }

// Accepted returns every arm accepted so far.
func (p *SynchComm) Accepted() []int {
	out := make([]int, len(p.accepted))
	copy(out, p.accepted)
	return out
}

// PooledSum returns the reward sum for arm gathered from all players.
func (p *SynchComm) PooledSum(arm int) int { return p.pooled[arm] }

// Play implements Player.
func (p *SynchComm) Play() int {
	switch p.phase {
	case PhaseFixation:
		if p.extRank < 0 {
			return p.rng.Intn(p.k0)
		}
		return p.extRank

	case PhaseEstimation:
		if p.Round <= p.t0+2*p.extRank {
			return p.extRank // waiting for its turn to hop
		}
		return (p.last + 1) % p.k0

	case PhaseExploration:
		pos, ok := p.active.Position(p.last)
		if !ok {
			p.log.Error("last arm left the active set during exploration",
				zap.Int("arm", p.last), zap.Int("round", p.Round))
			pos = p.intRank - 1
		}
		return p.armAt(pos + 1)

	case PhaseCommunication:
		sched := p.schedule()
		if sched.Sending(p.tPhase, p.intRank) {
			sl, _ := sched.Decode(p.tPhase)
			stat := p.lastPhase[p.active.At(sl.Arm)]
			return p.armAt(channel.Encode(sl, channel.BitOf(stat, sl.Bit)))
		}
		return p.armAt(p.intRank) // receive or wait

	case PhaseExploitation:
		return p.last
	}
	return p.last
}

// Update implements Player.
func (p *SynchComm) Update(arm int, obs engine.Observation) {
	p.last = arm

	switch p.phase {
	case PhaseFixation:
		if p.extRank < 0 && !obs.Collided {
			p.extRank = arm
		}
		if p.Round == p.t0 {
			if p.extRank < 0 {
				// Never saw a free round; claim the last arm so the
				// estimation schedule stays defined.
				p.log.Warn("player did not fix during musical chairs",
					zap.Int("arm", arm), zap.Int("t0", p.t0))
				p.extRank = arm
			}
			p.phase = PhaseEstimation
			p.last = p.extRank
		}

	case PhaseEstimation:
		if obs.Collided {
			if p.Round <= p.t0+2*p.extRank {
				p.intRank++
			}
			// At most one active player per distinct external rank.
			if p.m < p.k0 {
				p.m++
			}
		}
		if p.Round == p.t0+2*p.k0 {
			if p.m == p.k0 && p.intRank >= p.m {
				p.log.Warn("more players than arms",
					zap.Int("ext_rank", p.extRank), zap.Int("int_rank", p.intRank), zap.Int("arms", p.k0))
			}
			p.phase = PhaseExploration
			p.tPhase = 0
			p.round = ceilLog2(p.m)
		}

	case PhaseExploration:
		v := obs.Value()
		p.lastPhase[arm] += v
		p.pooled[arm] += v
		p.tPhase++
		if p.tPhase == (2<<p.round)*p.K {
			p.phase = PhaseCommunication
			p.tPhase = 0
		}

	case PhaseCommunication:
		sched := p.schedule()
		if !sched.Sending(p.tPhase, p.intRank) && obs.Collided {
			if sl, ok := sched.Decode(p.tPhase); ok {
				p.pooled[p.active.At(sl.Arm)] += channel.Weight(sl)
			}
		}
		p.tPhase++
		if p.tPhase == sched.Len() || p.m == 1 {
			p.conclude()
		}

	case PhaseExploitation:
	}

	p.Round++
}

func (p *SynchComm) schedule() channel.Schedule {
	return channel.NewSchedule(p.m, p.K, p.round)
}

// armAt maps a position (taken modulo the active set size) to an arm id.
func (p *SynchComm) armAt(pos int) int {
	n := p.active.Len()
	if n == 0 {
		return p.last
	}
	pos %= n
	if pos < 0 {
		pos += n
	}
	return p.active.At(pos)
}

// conclude ends a communication phase: pooled pull counts are updated, the
// elimination test runs and the player either exploits an accepted arm or
// starts the next exploration phase.
func (p *SynchComm) conclude() {
	accept, reject := p.eliminate()

	p.active.Remove(reject...)
	p.active.Remove(accept...)
	p.m -= len(accept)
	p.K = p.active.Len()
	p.accepted = append(p.accepted, accept...)

	if len(accept) > p.intRank {
		p.phase = PhaseExploitation
		p.last = accept[p.intRank]
		p.log.Debug("start exploiting",
			zap.Int("ext_rank", p.extRank), zap.Int("arm", p.last), zap.Int("round_number", p.round))
		return
	}

	p.intRank -= len(accept)
	if p.intRank >= p.active.Len() {
		p.log.Error("no arm left for player",
			zap.Int("ext_rank", p.extRank), zap.Int("int_rank", p.intRank), zap.Int("active", p.active.Len()))
		p.phase = PhaseExploitation
		return
	}

	p.phase = PhaseExploration
	p.last = p.active.At(p.intRank) // start orthogonal to the other players
	p.round++
	for i := range p.lastPhase {
		p.lastPhase[i] = 0
	}
	p.tPhase = 0
}

// eliminate runs the accept/reject test over the active arms. Every player
// holds the same pooled sums at this point, so every player computes the
// same partition.
func (p *SynchComm) eliminate() (accept, reject []int) {
	arms := p.active.Arms()
	for _, k := range arms {
		p.NPulls[k] += (2 << p.round) * p.m
	}

	up := make([]float64, len(arms))
	low := make([]float64, len(arms))
	ready := make([]bool, len(arms))
	logT := logHorizon(p.T)
	for i, k := range arms {
		n := p.NPulls[k]
		if n <= 0 {
			continue
		}
		p.Sums[k] = float64(p.pooled[k])
		p.Means[k] = p.Sums[k] / float64(n)
		p.Bound[k] = math.Sqrt(2 * logT / float64(n))
		up[i] = p.Means[k] + p.Bound[k]
		low[i] = p.Means[k] - p.Bound[k]
		ready[i] = true
	}

	for i, k := range arms {
		if !ready[i] {
			continue
		}
		better, worse := 0, 0
		for j := range arms {
			if j == i || !ready[j] {
				continue
			}
			if low[j] > up[i] {
				better++
			}
			if up[j] < low[i] {
				worse++
			}
		}
		if better >= p.m {
			reject = append(reject, k)
			p.log.Debug("reject arm",
				zap.Int("ext_rank", p.extRank), zap.Int("arm", k), zap.Int("round_number", p.round))
		}
		if worse >= p.K-p.m {
			accept = append(accept, k)
			p.log.Debug("accept arm",
				zap.Int("ext_rank", p.extRank), zap.Int("arm", k), zap.Int("round_number", p.round))
		}
	}
	return accept, reject
}

// ceilLog2 returns ceil(log2 n) for n >= 1.
func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}
