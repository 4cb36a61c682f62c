package metrics

import "github.com/san-kum/mclab/internal/mc"

// Acceptance reports the overall acceptance ratio of the run. The
// counters are cumulative on the snapshot, so only the latest
// observation matters.
type Acceptance struct {
	accepted  int64
	attempted int64
}

func NewAcceptance() *Acceptance {
	return &Acceptance{}
}

func (a *Acceptance) Name() string { return "acceptance" }

func (a *Acceptance) Observe(snap mc.Snapshot, step int64) {
	a.accepted = snap.AcceptedMoves
	a.attempted = snap.AttemptedMoves
}

func (a *Acceptance) Value() float64 {
	if a.attempted == 0 {
		return 0
	}
	return float64(a.accepted) / float64(a.attempted)
}

func (a *Acceptance) Reset() {
	a.accepted = 0
	a.attempted = 0
}
