// internal/planner/scorer.go
package planner

// Scoring weights. Each term contributes a signed delta to a base score of 0;
// the relative magnitudes encode how strongly each concern pulls selection.
const (
	weightEquipment  = 10.0
	weightGoal       = 8.0
	weightPreference = 5.0
	beginnerPenalty  = 6.0
)

// Score evaluates one exercise against a profile and the current signals.
// Missing equipment and limitation conflicts hard-exclude the candidate:
// an excluded exercise must never be selected, even when nothing else is
// eligible for the slot. Everything else is a soft weighted term.
func Score(ex Exercise, profile UserProfile, signals Signals) ScoreResult {
	result := ScoreResult{Exercise: ex}

	if !profile.HasEquipment(ex.Modality) {
		result.Excluded = true
		result.Reason = ReasonMissingEquipment
		return result
	}

	if excludedByLimitations(ex, profile) {
		result.Excluded = true
		result.Reason = ReasonLimitationConflict
		return result
	}

	score := weightEquipment
	score += goalAlignment(ex, profile.Goals)
	score += preferenceDelta(ex, profile.Preferences)

	if profile.Experience == ExperienceBeginner && ex.Skill == SkillHigh {
		score -= beginnerPenalty
	}

	result.Score = score
	return result
}

// goalAlignment awards weightGoal once per matching goal heuristic:
//   - strength favors barbell work on compound patterns;
//   - hypertrophy favors exercises with high per-exercise volume capacity
//     (rep-range ceiling of 10+), regardless of modality;
//   - endurance favors bodyweight and band work;
//   - fat_loss favors compound patterns;
//   - general_fitness favors nothing in particular.
func goalAlignment(ex Exercise, goals []Goal) float64 {
	delta := 0.0
	for _, goal := range goals {
		switch goal {
		case GoalStrength:
			if ex.Modality == ModalityBarbell && ex.Pattern.IsCompound() {
				delta += weightGoal
			}
		case GoalHypertrophy:
			if ex.Base.RepHigh >= 10 {
				delta += weightGoal
			}
		case GoalEndurance:
			if ex.Modality == ModalityBodyweight || ex.Modality == ModalityBands {
				delta += weightGoal
			}
		case GoalFatLoss:
			if ex.Pattern.IsCompound() {
				delta += weightGoal
			}
		}
	}
	return delta
}

// preferenceDelta applies likes and dislikes for the exercise id and its
// modality. A like and a dislike on different axes cancel out.
func preferenceDelta(ex Exercise, prefs Preferences) float64 {
	delta := 0.0
	if containsString(prefs.LikedExercises, ex.ID) {
		delta += weightPreference
	}
	if containsString(prefs.DislikedExercises, ex.ID) {
		delta -= weightPreference
	}
	if containsModality(prefs.LikedModalities, ex.Modality) {
		delta += weightPreference
	}
	if containsModality(prefs.DislikedModalities, ex.Modality) {
		delta -= weightPreference
	}
	return delta
}

// rankCandidates scores every candidate and returns the winner. Candidates
// must be in catalog declaration order: the first highest score wins, which
// keeps selection deterministic for identical inputs. The boolean is false
// when every candidate is hard-excluded.
func rankCandidates(candidates []Exercise, profile UserProfile, signals Signals) (ScoreResult, bool) {
	var best ScoreResult
	found := false

	for _, ex := range candidates {
		result := Score(ex, profile, signals)
		if result.Excluded {
			continue
		}
		if !found || result.Score > best.Score {
			best = result
			found = true
		}
	}

	return best, found
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsModality(list []Modality, m Modality) bool {
	for _, v := range list {
		if v == m {
			return true
		}
	}
	return false
}
