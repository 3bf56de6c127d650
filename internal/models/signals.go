// internal/models/signals.go
package models

import "fitplan-workers/internal/planner"

// Signals is the wire form of the per-request physiological flags.
type Signals struct {
	BiomarkerFlags []string `json:"biomarker_flags"`
	RecoveryFlags  []string `json:"recovery_flags"`
}

// ToPlanner converts to the planner's signal type. Unknown flags are carried
// through: the planner ignores what it does not know.
func (s *Signals) ToPlanner() planner.Signals {
	return planner.NewSignals(s.BiomarkerFlags, s.RecoveryFlags)
}

// SignalSnapshot is one readiness snapshot as written by the health-data
// ingestion pipeline (Redis key signals:<user_id>) or served by its HTTP API.
type SignalSnapshot struct {
	SnapshotID     string   `json:"snapshot_id"`
	UserID         string   `json:"user_id"`
	CapturedAt     string   `json:"captured_at"` // RFC 3339
	BiomarkerFlags []string `json:"biomarker_flags"`
	RecoveryFlags  []string `json:"recovery_flags"`
}

// Signals extracts the flag lists from the snapshot.
func (s *SignalSnapshot) Signals() Signals {
	return Signals{
		BiomarkerFlags: s.BiomarkerFlags,
		RecoveryFlags:  s.RecoveryFlags,
	}
}
