package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	ID          string             `json:"id"`
	Particles   int                `json:"particles"`
	Density     float64            `json:"density"`
	Temperature float64            `json:"temperature"`
	Seed        int64              `json:"seed"`
	Steps       []int64            `json:"steps"`
	Energies    []float64          `json:"energies"`
	Acceptances []float64          `json:"acceptances"`
	Metrics     map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run's metadata and trace as a single JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, samples []Sample) error {
	data := ExportData{
		ID:          meta.ID,
		Particles:   meta.Particles,
		Density:     meta.Density,
		Temperature: meta.Temperature,
		Seed:        meta.Seed,
		Steps:       make([]int64, len(samples)),
		Energies:    make([]float64, len(samples)),
		Acceptances: make([]float64, len(samples)),
		Metrics:     meta.Metrics,
	}

	for i, s := range samples {
		data.Steps[i] = s.Step
		data.Energies[i] = s.Energy
		data.Acceptances[i] = s.Acceptance
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
