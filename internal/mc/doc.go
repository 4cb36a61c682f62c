// Package mc implements Metropolis Monte Carlo sampling of a 2D
// periodic Lennard-Jones system.
//
// The package defines the core sampling types:
//
//   - [State]: particle positions, energy ledger and move counters
//   - [Params]: construction-time physical and sampling parameters
//   - [Sampler]: performs trial moves under the Metropolis criterion
//   - [Snapshot]: one consistent read-only view of the state
//
// # Example
//
//	rng := rand.New(rand.NewSource(42))
//	s, _ := mc.New(mc.DefaultParams(), rng)
//	_ = s.Run(ctx, 100000)
//	snap := s.Snapshot()
//
// # Thread Safety
//
// Sampler instances are NOT thread-safe. A caller that steps on one
// goroutine and renders on another must hand the renderer a Snapshot
// taken between steps; positions, energy and counters form one logical
// record and are copied together.
package mc
