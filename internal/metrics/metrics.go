package metrics

import "github.com/san-kum/mclab/internal/mc"

// Metric accumulates a scalar observable over a sequence of snapshots.
type Metric interface {
	Name() string
	Observe(snap mc.Snapshot, step int64)
	Value() float64
	Reset()
}
