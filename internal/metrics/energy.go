package metrics

import "github.com/san-kum/mclab/internal/mc"

// MeanEnergy averages the potential energy per particle over snapshots
// taken after the warmup step, so the lattice start does not bias the
// estimate.
type MeanEnergy struct {
	warmup  int64
	sum     float64
	samples int
}

func NewMeanEnergy(warmup int64) *MeanEnergy {
	return &MeanEnergy{warmup: warmup}
}

func (m *MeanEnergy) Name() string { return "energy_per_particle" }

func (m *MeanEnergy) Observe(snap mc.Snapshot, step int64) {
	if step < m.warmup {
		return
	}
	m.sum += snap.EnergyPerParticle()
	m.samples++
}

func (m *MeanEnergy) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanEnergy) Reset() {
	m.sum = 0
	m.samples = 0
}

// HeatCapacity estimates the excess heat capacity per particle from
// potential-energy fluctuations: Cv = Var(U) / (N kB T²).
type HeatCapacity struct {
	warmup      int64
	boltzmann   float64
	temperature float64
	n           int
	sum         float64
	sumSq       float64
	samples     int
}

func NewHeatCapacity(warmup int64, boltzmann, temperature float64) *HeatCapacity {
	return &HeatCapacity{warmup: warmup, boltzmann: boltzmann, temperature: temperature}
}

func (h *HeatCapacity) Name() string { return "heat_capacity" }

func (h *HeatCapacity) Observe(snap mc.Snapshot, step int64) {
	if step < h.warmup {
		return
	}
	h.n = len(snap.Positions)
	h.sum += snap.PotentialEnergy
	h.sumSq += snap.PotentialEnergy * snap.PotentialEnergy
	h.samples++
}

func (h *HeatCapacity) Value() float64 {
	if h.samples == 0 || h.n == 0 {
		return 0
	}
	mean := h.sum / float64(h.samples)
	variance := h.sumSq/float64(h.samples) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return variance / (float64(h.n) * h.boltzmann * h.temperature * h.temperature)
}

func (h *HeatCapacity) Reset() {
	h.sum = 0
	h.sumSq = 0
	h.samples = 0
	h.n = 0
}
