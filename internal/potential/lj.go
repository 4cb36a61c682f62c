package potential

import (
	"errors"
	"fmt"

	"github.com/san-kum/mclab/internal/geom"
)

// ErrCoincident indicates two distinct particles at exactly zero
// separation. Accepted Metropolis moves can never produce that, so it
// signals corrupted state; surfacing it keeps Inf/NaN out of the energy
// ledger.
var ErrCoincident = errors.New("potential: coincident particles (zero separation)")

// LennardJones is the truncated pair potential 4ε((σ/r)¹² − (σ/r)⁶),
// cut to zero beyond Rcut. The truncation is not shifted, leaving a
// discontinuity at r = Rcut; this matches the sampled model and is
// documented behavior, not a bug.
type LennardJones struct {
	Epsilon float64
	Sigma   float64
	Rcut    float64
}

// PairEnergy evaluates the potential for a squared separation, avoiding
// the square root. Returns exactly 0 at and beyond the cutoff.
func (lj LennardJones) PairEnergy(r2 float64) float64 {
	if r2 >= lj.Rcut*lj.Rcut {
		return 0
	}
	sr2 := lj.Sigma * lj.Sigma / r2
	sr6 := sr2 * sr2 * sr2
	return 4 * lj.Epsilon * (sr6*sr6 - sr6)
}

// Total sums PairEnergy over every unique pair using minimum-image
// separations. O(N²); intended for reset, never the step loop.
func (lj LennardJones) Total(box geom.Box, positions []geom.Vec2) (float64, error) {
	total := 0.0
	for i := 0; i < len(positions)-1; i++ {
		for j := i + 1; j < len(positions); j++ {
			r2 := box.SeparationSq(positions[i], positions[j])
			if r2 == 0 {
				return 0, fmt.Errorf("pair (%d,%d): %w", i, j, ErrCoincident)
			}
			total += lj.PairEnergy(r2)
		}
	}
	return total, nil
}

// Delta returns the net energy change if particle i alone moves to
// newPos with every other particle held fixed. It reads i's current
// slot, so it must run before the move is applied. O(N).
func (lj LennardJones) Delta(box geom.Box, positions []geom.Vec2, i int, newPos geom.Vec2) (float64, error) {
	old := positions[i]
	dE := 0.0
	for j := range positions {
		if j == i {
			continue
		}
		oldR2 := box.SeparationSq(old, positions[j])
		newR2 := box.SeparationSq(newPos, positions[j])
		if oldR2 == 0 || newR2 == 0 {
			return 0, fmt.Errorf("pair (%d,%d): %w", i, j, ErrCoincident)
		}
		dE += lj.PairEnergy(newR2) - lj.PairEnergy(oldR2)
	}
	return dE, nil
}
