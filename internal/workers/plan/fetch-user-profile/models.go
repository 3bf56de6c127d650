// internal/workers/plan/fetch-user-profile/models.go
package fetchuserprofile

import "fitplan-workers/internal/models"

type Input struct {
	UserID string `json:"user_id"`
}

type Output struct {
	Profile   *models.UserProfile `json:"profile"`
	FromCache bool                `json:"from_cache"`
}
