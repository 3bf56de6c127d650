// internal/workers/plan/build-day-plan/models.go
package builddayplan

import "fitplan-workers/internal/models"

type Input struct {
	UserProfile *models.UserProfile `json:"user_profile"`
	TemplateID  string              `json:"template_id"`
	DayKey      string              `json:"day_key"`
	Signals     models.Signals      `json:"signals"`
	TimeCapMin  int                 `json:"time_cap_min"`
}

type Output struct {
	Plan        models.DayPlan `json:"plan"`
	SlotsTotal  int            `json:"slots_total"`
	SlotsFilled int            `json:"slots_filled"`
}
