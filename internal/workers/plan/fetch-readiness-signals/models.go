// internal/workers/plan/fetch-readiness-signals/models.go
package fetchreadinesssignals

import "fitplan-workers/internal/models"

type Input struct {
	UserID string `json:"user_id"`
}

type Output struct {
	Signals    models.Signals `json:"signals"`
	SnapshotID string         `json:"snapshot_id"`
	CapturedAt string         `json:"captured_at"`
	FromCache  bool           `json:"from_cache"`
}
