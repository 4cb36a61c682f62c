package mc

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
)

func testParams() Params {
	p := DefaultParams()
	p.N = 36
	p.Density = 0.5
	return p
}

func newTestSampler(t *testing.T, seed int64) *Sampler {
	t.Helper()
	s, err := New(testParams(), rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("new sampler failed: %v", err)
	}
	return s
}

func TestNewInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero particles", func(p *Params) { p.N = 0 }},
		{"negative particles", func(p *Params) { p.N = -5 }},
		{"zero density", func(p *Params) { p.Density = 0 }},
		{"negative density", func(p *Params) { p.Density = -0.8 }},
		{"zero epsilon", func(p *Params) { p.Epsilon = 0 }},
		{"zero sigma", func(p *Params) { p.Sigma = 0 }},
		{"zero cutoff", func(p *Params) { p.Rcut = 0 }},
		{"zero boltzmann", func(p *Params) { p.Boltzmann = 0 }},
		{"zero temperature", func(p *Params) { p.Temperature = 0 }},
		{"negative temperature", func(p *Params) { p.Temperature = -1.0 }},
		{"zero displacement", func(p *Params) { p.MaxDisplacement = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(&p)
			_, err := New(p, rand.New(rand.NewSource(1)))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestResetState(t *testing.T) {
	s := newTestSampler(t, 42)
	snap := s.Snapshot()

	if len(snap.Positions) != 36 {
		t.Fatalf("expected 36 positions, got %d", len(snap.Positions))
	}
	if snap.AcceptedMoves != 0 || snap.AttemptedMoves != 0 {
		t.Error("expected zero counters after reset")
	}

	L := s.Box().L
	for i, p := range snap.Positions {
		if p.X < 0 || p.X >= L || p.Y < 0 || p.Y >= L {
			t.Errorf("particle %d at (%g, %g) outside [0, %g)", i, p.X, p.Y, L)
		}
	}

	total, err := s.RecomputeEnergy()
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if math.Abs(total-snap.PotentialEnergy) > 1e-12 {
		t.Errorf("ledger %g does not match recomputed total %g", snap.PotentialEnergy, total)
	}
}

func TestEnergyLedgerConsistency(t *testing.T) {
	s := newTestSampler(t, 42)

	if err := s.Run(context.Background(), 10000); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	snap := s.Snapshot()
	total, err := s.RecomputeEnergy()
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	scale := math.Max(1.0, math.Abs(total))
	if math.Abs(snap.PotentialEnergy-total)/scale > 1e-9 {
		t.Errorf("ledger %g drifted from recomputed total %g", snap.PotentialEnergy, total)
	}

	if snap.AttemptedMoves != 10000 {
		t.Errorf("expected 10000 attempted moves, got %d", snap.AttemptedMoves)
	}
	if snap.AcceptedMoves > snap.AttemptedMoves {
		t.Errorf("accepted %d exceeds attempted %d", snap.AcceptedMoves, snap.AttemptedMoves)
	}

	// Invariant: every position stays inside the box after any number
	// of wrapped moves.
	L := s.Box().L
	for i, p := range snap.Positions {
		if p.X < 0 || p.X >= L || p.Y < 0 || p.Y >= L {
			t.Errorf("particle %d at (%g, %g) outside [0, %g)", i, p.X, p.Y, L)
		}
	}
}

func TestRunZeroIsNoop(t *testing.T) {
	s := newTestSampler(t, 7)
	before := s.Snapshot()

	if err := s.Run(context.Background(), 0); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	after := s.Snapshot()
	if after.PotentialEnergy != before.PotentialEnergy {
		t.Error("energy changed on zero-step run")
	}
	if after.AttemptedMoves != before.AttemptedMoves || after.AcceptedMoves != before.AcceptedMoves {
		t.Error("counters changed on zero-step run")
	}
	for i := range before.Positions {
		if after.Positions[i] != before.Positions[i] {
			t.Fatalf("particle %d moved on zero-step run", i)
		}
	}
}

func TestRunCanceledContext(t *testing.T) {
	s := newTestSampler(t, 7)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx, 100); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if s.Snapshot().AttemptedMoves != 0 {
		t.Error("expected no moves after immediate cancellation")
	}
}

func TestAcceptCriterion(t *testing.T) {
	s := newTestSampler(t, 3)

	// Downhill and neutral moves pass regardless of the random stream.
	for _, dE := range []float64{0.0, -1e-12, -0.5, -100.0} {
		for trial := 0; trial < 100; trial++ {
			if !s.accept(dE) {
				t.Fatalf("move with dE=%g rejected", dE)
			}
		}
	}

	// A huge uphill move underflows exp to 0 and always fails.
	for trial := 0; trial < 100; trial++ {
		if s.accept(1e9) {
			t.Fatal("move with dE=1e9 accepted")
		}
	}
}

func TestAcceptRejectedLeavesStateUnchanged(t *testing.T) {
	s := newTestSampler(t, 11)

	// Freeze the system: at a vanishing temperature every uphill move
	// is rejected, so only accepted moves may mutate state.
	if err := s.SetTemperature(1e-12); err != nil {
		t.Fatalf("set temperature failed: %v", err)
	}

	for k := 0; k < 2000; k++ {
		before := s.Snapshot()
		if err := s.Step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
		after := s.Snapshot()

		if after.AcceptedMoves == before.AcceptedMoves {
			if after.PotentialEnergy != before.PotentialEnergy {
				t.Fatal("rejected move changed the energy ledger")
			}
			for i := range before.Positions {
				if after.Positions[i] != before.Positions[i] {
					t.Fatalf("rejected move changed particle %d", i)
				}
			}
		}
	}
}

func TestReproducibility(t *testing.T) {
	a := newTestSampler(t, 99)
	b := newTestSampler(t, 99)

	if err := a.Run(context.Background(), 5000); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if err := b.Run(context.Background(), 5000); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	if sa.PotentialEnergy != sb.PotentialEnergy {
		t.Errorf("energy differs across identical seeds: %g vs %g", sa.PotentialEnergy, sb.PotentialEnergy)
	}
	if sa.AcceptedMoves != sb.AcceptedMoves || sa.AttemptedMoves != sb.AttemptedMoves {
		t.Error("counters differ across identical seeds")
	}
	for i := range sa.Positions {
		if sa.Positions[i] != sb.Positions[i] {
			t.Fatalf("particle %d differs across identical seeds", i)
		}
	}
}

func TestRuntimeMutators(t *testing.T) {
	s := newTestSampler(t, 5)

	if err := s.SetTemperature(2.0); err != nil {
		t.Fatalf("set temperature failed: %v", err)
	}
	if s.Temperature() != 2.0 {
		t.Errorf("expected temperature 2.0, got %g", s.Temperature())
	}
	if err := s.SetTemperature(0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero temperature, got %v", err)
	}
	if err := s.SetTemperature(-1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for negative temperature, got %v", err)
	}

	start := s.MaxDisplacement()
	if err := s.ScaleMaxDisplacement(1.2); err != nil {
		t.Fatalf("scale failed: %v", err)
	}
	if math.Abs(s.MaxDisplacement()-start*1.2) > 1e-15 {
		t.Errorf("expected max displacement %g, got %g", start*1.2, s.MaxDisplacement())
	}
	if err := s.ScaleMaxDisplacement(-0.5); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for negative factor, got %v", err)
	}
}

func TestPauseGate(t *testing.T) {
	s := newTestSampler(t, 5)

	if s.Paused() {
		t.Error("new sampler should not be paused")
	}
	s.Pause()
	if !s.Paused() {
		t.Error("expected paused after Pause")
	}

	// Pausing gates the driver, not the engine itself.
	if err := s.Step(); err != nil {
		t.Fatalf("step failed while paused: %v", err)
	}
	if s.Snapshot().AttemptedMoves != 1 {
		t.Error("direct Step should still perform a move")
	}

	s.Resume()
	if s.Paused() {
		t.Error("expected running after Resume")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := newTestSampler(t, 13)
	snap := s.Snapshot()

	snap.Positions[0].X = -1000
	if s.Snapshot().Positions[0].X == -1000 {
		t.Error("snapshot shares position storage with the sampler")
	}
}
