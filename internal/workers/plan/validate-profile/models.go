// internal/workers/plan/validate-profile/models.go
package validateprofile

import "fitplan-workers/internal/models"

type Input struct {
	UserProfile *models.UserProfile `json:"user_profile"`
}

// ValidationError describes one rejected profile field. Validation findings
// travel as data so the process can route on them instead of retrying.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Output struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}
