package mc

import "github.com/san-kum/mclab/internal/geom"

// State holds the mutable simulation state: an ordered sequence of
// particle positions (index = particle identity, never reordered), the
// running potential-energy ledger, and the move counters.
type State struct {
	Box             geom.Box
	Positions       []geom.Vec2
	PotentialEnergy float64
	AcceptedMoves   int64
	AttemptedMoves  int64
}

// N returns the particle count.
func (s *State) N() int { return len(s.Positions) }

// Snapshot is one consistent view of the simulation. Positions, energy
// and counters are copied together so a renderer polling from another
// goroutine never pairs positions from one step with the energy of
// another.
type Snapshot struct {
	Positions       []geom.Vec2
	PotentialEnergy float64
	AcceptedMoves   int64
	AttemptedMoves  int64
	MaxDisplacement float64
	Temperature     float64
}

// AcceptanceRatio returns accepted/attempted, or 0 before any move.
func (s Snapshot) AcceptanceRatio() float64 {
	if s.AttemptedMoves == 0 {
		return 0
	}
	return float64(s.AcceptedMoves) / float64(s.AttemptedMoves)
}

// EnergyPerParticle returns the potential energy divided by N.
func (s Snapshot) EnergyPerParticle() float64 {
	if len(s.Positions) == 0 {
		return 0
	}
	return s.PotentialEnergy / float64(len(s.Positions))
}
