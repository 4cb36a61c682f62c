package potential

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/mclab/internal/geom"
)

func TestPairEnergyCutoff(t *testing.T) {
	lj := LennardJones{Epsilon: 1.0, Sigma: 1.0, Rcut: 2.5}

	tests := []struct {
		name string
		r2   float64
	}{
		{"at cutoff", 2.5 * 2.5},
		{"beyond cutoff", 9.0},
		{"far beyond cutoff", 1e6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if e := lj.PairEnergy(tt.r2); e != 0.0 {
				t.Errorf("PairEnergy(%g) = %g, expected exactly 0", tt.r2, e)
			}
		})
	}

	// Just inside the cutoff the attractive tail is nonzero.
	if e := lj.PairEnergy(2.5*2.5 - 1e-9); e >= 0 {
		t.Errorf("expected negative energy just inside cutoff, got %g", e)
	}
}

func TestPairEnergyMinimum(t *testing.T) {
	lj := LennardJones{Epsilon: 1.0, Sigma: 1.0, Rcut: 2.5}

	// The well bottom sits at r = 2^(1/6) σ with depth -ε.
	rmin := math.Pow(2, 1.0/6.0)
	e := lj.PairEnergy(rmin * rmin)
	if math.Abs(e-(-1.0)) > 1e-12 {
		t.Errorf("expected -epsilon at minimum, got %g", e)
	}
}

func TestPairEnergyRepulsive(t *testing.T) {
	lj := LennardJones{Epsilon: 1.0, Sigma: 1.0, Rcut: 2.5}

	if e := lj.PairEnergy(0.64); e <= 0 {
		t.Errorf("expected repulsion below sigma, got %g", e)
	}
}

func TestTotalTwoParticles(t *testing.T) {
	box := geom.Box{L: 10.0}
	lj := LennardJones{Epsilon: 1.0, Sigma: 1.0, Rcut: 2.5}

	rmin := math.Pow(2, 1.0/6.0)
	positions := []geom.Vec2{{X: 1.0, Y: 1.0}, {X: 1.0 + rmin, Y: 1.0}}

	total, err := lj.Total(box, positions)
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}
	if math.Abs(total-(-1.0)) > 1e-12 {
		t.Errorf("expected total -1.0, got %g", total)
	}
}

func TestTotalCoincident(t *testing.T) {
	box := geom.Box{L: 10.0}
	lj := LennardJones{Epsilon: 1.0, Sigma: 1.0, Rcut: 2.5}

	positions := []geom.Vec2{{X: 1.0, Y: 2.0}, {X: 1.0, Y: 2.0}}
	if _, err := lj.Total(box, positions); !errors.Is(err, ErrCoincident) {
		t.Errorf("expected ErrCoincident, got %v", err)
	}

	// Coincidence through the periodic boundary counts too.
	positions = []geom.Vec2{{X: 0.0, Y: 2.0}, {X: 10.0, Y: 2.0}}
	wrapped := []geom.Vec2{positions[0], box.WrapVec(positions[1])}
	if _, err := lj.Total(box, wrapped); !errors.Is(err, ErrCoincident) {
		t.Errorf("expected ErrCoincident across boundary, got %v", err)
	}
}

func TestDeltaCoincident(t *testing.T) {
	box := geom.Box{L: 10.0}
	lj := LennardJones{Epsilon: 1.0, Sigma: 1.0, Rcut: 2.5}

	positions := []geom.Vec2{{X: 1.0, Y: 1.0}, {X: 3.0, Y: 3.0}}
	if _, err := lj.Delta(box, positions, 0, geom.Vec2{X: 3.0, Y: 3.0}); !errors.Is(err, ErrCoincident) {
		t.Errorf("expected ErrCoincident, got %v", err)
	}
}

func TestDeltaMatchesTotal(t *testing.T) {
	box := geom.Box{L: 6.0}
	lj := LennardJones{Epsilon: 1.0, Sigma: 1.0, Rcut: 2.5}
	rng := rand.New(rand.NewSource(7))

	n := 20
	positions := make([]geom.Vec2, n)
	for i := range positions {
		positions[i] = geom.Vec2{
			X: box.Wrap(float64(i%5)*1.2 + 0.3),
			Y: box.Wrap(float64(i/5)*1.2 + 0.3),
		}
	}

	before, err := lj.Total(box, positions)
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}

	for trial := 0; trial < 50; trial++ {
		i := rng.Intn(n)
		newPos := box.WrapVec(geom.Vec2{
			X: positions[i].X + (rng.Float64()-0.5)*0.4,
			Y: positions[i].Y + (rng.Float64()-0.5)*0.4,
		})

		dE, err := lj.Delta(box, positions, i, newPos)
		if err != nil {
			t.Fatalf("delta failed: %v", err)
		}

		positions[i] = newPos
		after, err := lj.Total(box, positions)
		if err != nil {
			t.Fatalf("total failed: %v", err)
		}

		scale := math.Max(1.0, math.Abs(after))
		if math.Abs((before+dE)-after)/scale > 1e-9 {
			t.Fatalf("trial %d: delta %g inconsistent with totals %g -> %g", trial, dE, before, after)
		}
		before = after
	}
}
