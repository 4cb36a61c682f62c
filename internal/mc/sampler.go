package mc

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/mclab/internal/geom"
	"github.com/san-kum/mclab/internal/potential"
)

// Params holds the physical parameters of one simulation instance.
// Temperature and MaxDisplacement remain tunable at runtime; everything
// else is fixed at construction.
type Params struct {
	N               int
	Density         float64
	Epsilon         float64
	Sigma           float64
	Rcut            float64 // absolute cutoff distance
	Boltzmann       float64
	Temperature     float64
	MaxDisplacement float64
}

// DefaultParams returns the canonical liquid-phase setup.
func DefaultParams() Params {
	return Params{
		N:               100,
		Density:         0.8,
		Epsilon:         1.0,
		Sigma:           1.0,
		Rcut:            2.5,
		Boltzmann:       1.0,
		Temperature:     1.0,
		MaxDisplacement: 0.1,
	}
}

func (p Params) validate() error {
	if p.N <= 0 {
		return fmt.Errorf("%w: particles must be positive, got %d", ErrInvalidConfig, p.N)
	}
	if p.Density <= 0 {
		return fmt.Errorf("%w: density must be positive, got %g", ErrInvalidConfig, p.Density)
	}
	if p.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalidConfig, p.Epsilon)
	}
	if p.Sigma <= 0 {
		return fmt.Errorf("%w: sigma must be positive, got %g", ErrInvalidConfig, p.Sigma)
	}
	if p.Rcut <= 0 {
		return fmt.Errorf("%w: cutoff must be positive, got %g", ErrInvalidConfig, p.Rcut)
	}
	if p.Boltzmann <= 0 {
		return fmt.Errorf("%w: boltzmann constant must be positive, got %g", ErrInvalidConfig, p.Boltzmann)
	}
	if p.Temperature <= 0 {
		return fmt.Errorf("%w: temperature must be positive, got %g", ErrInvalidConfig, p.Temperature)
	}
	if p.MaxDisplacement <= 0 {
		return fmt.Errorf("%w: max displacement must be positive, got %g", ErrInvalidConfig, p.MaxDisplacement)
	}
	return nil
}

// Sampler drives a State toward the Boltzmann distribution at the target
// temperature using single-particle Metropolis trial moves.
type Sampler struct {
	state       *State
	lj          potential.LennardJones
	rng         *rand.Rand
	kB          float64
	temperature float64
	maxDisp     float64
	paused      bool
}

// New validates params and returns an initialized sampler. The random
// source is injected rather than taken from the package-global generator
// so that a fixed seed reproduces the exact sequence of trial indices,
// displacements and accept/reject decisions.
func New(p Params, rng *rand.Rand) (*Sampler, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	s := &Sampler{
		state: &State{
			Box:       geom.FromDensity(p.N, p.Density),
			Positions: make([]geom.Vec2, p.N),
		},
		lj:          potential.LennardJones{Epsilon: p.Epsilon, Sigma: p.Sigma, Rcut: p.Rcut},
		rng:         rng,
		kB:          p.Boltzmann,
		temperature: p.Temperature,
		maxDisp:     p.MaxDisplacement,
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset regenerates positions near a square lattice with small random
// jitter, recomputes the energy ledger from scratch (O(N²)) and zeroes
// the move counters. The jitter keeps the start away from pathological
// exact overlaps while staying close to an even spread.
func (s *Sampler) Reset() error {
	st := s.state
	n := len(st.Positions)
	side := int(math.Ceil(math.Sqrt(float64(n))))
	spacing := st.Box.L / float64(side)

	k := 0
	for i := 0; i < side && k < n; i++ {
		for j := 0; j < side && k < n; j++ {
			st.Positions[k] = geom.Vec2{
				X: st.Box.Wrap((float64(i)+0.5)*spacing + (s.rng.Float64()-0.5)*0.1*spacing),
				Y: st.Box.Wrap((float64(j)+0.5)*spacing + (s.rng.Float64()-0.5)*0.1*spacing),
			}
			k++
		}
	}

	total, err := s.lj.Total(st.Box, st.Positions)
	if err != nil {
		return err
	}
	st.PotentialEnergy = total
	st.AcceptedMoves = 0
	st.AttemptedMoves = 0
	return nil
}

// Step performs exactly one trial move: pick a particle uniformly,
// displace it uniformly within ±maxDisplacement per axis, and accept or
// reject by the Metropolis criterion. Rejection is a normal outcome; the
// only error is a coincident-particle state. A rejected move leaves the
// state completely unchanged.
func (s *Sampler) Step() error {
	st := s.state
	i := s.rng.Intn(len(st.Positions))
	trial := st.Box.WrapVec(geom.Vec2{
		X: st.Positions[i].X + s.uniform(-s.maxDisp, s.maxDisp),
		Y: st.Positions[i].Y + s.uniform(-s.maxDisp, s.maxDisp),
	})

	dE, err := s.lj.Delta(st.Box, st.Positions, i, trial)
	if err != nil {
		return err
	}

	st.AttemptedMoves++
	if s.accept(dE) {
		st.Positions[i] = trial
		st.PotentialEnergy += dE
		st.AcceptedMoves++
	}
	return nil
}

// accept applies the Metropolis criterion. Downhill and neutral moves
// are always taken; uphill moves pass with probability exp(-ΔE/kT). For
// very large ΔE the exponential underflows to 0 and the move is simply
// always rejected, which needs no special casing.
func (s *Sampler) accept(dE float64) bool {
	if dE <= 0 {
		return true
	}
	return s.rng.Float64() < math.Exp(-dE/(s.kB*s.temperature))
}

// Run performs n trial moves, checking for context cancellation between
// moves. Run(ctx, 0) is a no-op.
func (s *Sampler) Run(ctx context.Context, n int64) error {
	for k := int64(0); k < n; k++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// SetTemperature changes the target temperature of subsequent moves.
func (s *Sampler) SetTemperature(t float64) error {
	if t <= 0 {
		return fmt.Errorf("%w: temperature must be positive, got %g", ErrInvalidConfig, t)
	}
	s.temperature = t
	return nil
}

// ScaleMaxDisplacement multiplies the trial step size by factor.
func (s *Sampler) ScaleMaxDisplacement(factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("%w: scale factor must be positive, got %g", ErrInvalidConfig, factor)
	}
	s.maxDisp *= factor
	return nil
}

// Pause marks the sampler as paused. Pausing gates the driving loop
// only; Step itself keeps working if called directly.
func (s *Sampler) Pause() { s.paused = true }

// Resume clears the paused mark.
func (s *Sampler) Resume() { s.paused = false }

// Paused reports whether the driving loop should skip stepping.
func (s *Sampler) Paused() bool { return s.paused }

func (s *Sampler) N() int                   { return s.state.N() }
func (s *Sampler) Box() geom.Box            { return s.state.Box }
func (s *Sampler) Temperature() float64     { return s.temperature }
func (s *Sampler) MaxDisplacement() float64 { return s.maxDisp }

// Snapshot returns an atomic deep copy of the observable state.
func (s *Sampler) Snapshot() Snapshot {
	positions := make([]geom.Vec2, len(s.state.Positions))
	copy(positions, s.state.Positions)
	return Snapshot{
		Positions:       positions,
		PotentialEnergy: s.state.PotentialEnergy,
		AcceptedMoves:   s.state.AcceptedMoves,
		AttemptedMoves:  s.state.AttemptedMoves,
		MaxDisplacement: s.maxDisp,
		Temperature:     s.temperature,
	}
}

// RecomputeEnergy rebuilds the total energy from scratch without
// touching the ledger, for consistency checks and diagnostics.
func (s *Sampler) RecomputeEnergy() (float64, error) {
	return s.lj.Total(s.state.Box, s.state.Positions)
}

func (s *Sampler) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}
