// internal/planner/builder.go
package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTemplate is returned when a build references a template id or
	// day key the registry does not hold.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrInvalidProfile is returned when a required profile field is missing
	// or unusable. Required fields are never silently defaulted: a defaulted
	// equipment set or limitation map could produce an unsafe plan.
	ErrInvalidProfile = errors.New("invalid profile")
)

// patternFallbacks maps a slot pattern to the alternate pattern a
// substitutable slot may fall back to when no candidate for its own pattern
// survives the hard exclusions.
var patternFallbacks = map[Pattern]Pattern{
	PatternSquat:           PatternLunge,
	PatternLunge:           PatternSquat,
	PatternHinge:           PatternSquat,
	PatternHorizontalPress: PatternVerticalPress,
	PatternVerticalPress:   PatternHorizontalPress,
	PatternHorizontalPull:  PatternVerticalPull,
	PatternVerticalPull:    PatternHorizontalPull,
	PatternCore:            PatternCarry,
	PatternCarry:           PatternCore,
}

// Builder assembles day plans from the injected reference data. It holds no
// mutable state: a single Builder serves arbitrarily many concurrent builds.
type Builder struct {
	catalog   *Catalog
	templates *TemplateRegistry
}

// NewBuilder wires a builder to its reference data.
func NewBuilder(catalog *Catalog, templates *TemplateRegistry) *Builder {
	return &Builder{catalog: catalog, templates: templates}
}

// BuildDayPlan resolves one day template against the profile and signals and
// returns the assembled plan. Identical inputs always produce identical
// plans. Slots with no eligible candidate are recorded in UnfilledSlots and
// omitted from the exercise list; that is a structural outcome, not an error.
func (b *Builder) BuildDayPlan(req BuildRequest) (DayPlan, error) {
	if err := validateProfile(req.Profile); err != nil {
		return DayPlan{}, err
	}

	capMin := req.TimeCapMin
	if capMin <= 0 {
		capMin = req.Profile.SessionCapMin
	}
	if capMin <= 0 {
		return DayPlan{}, fmt.Errorf("%w: no resolvable time cap", ErrInvalidProfile)
	}

	tpl, ok := b.templates.Get(req.TemplateID, req.DayKey)
	if !ok {
		return DayPlan{}, fmt.Errorf("%w: %s/%s", ErrUnknownTemplate, req.TemplateID, req.DayKey)
	}

	plan := DayPlan{
		TemplateID: req.TemplateID,
		DayKey:     req.DayKey,
		SlotCount:  len(tpl.Slots),
	}
	used := make(map[string]struct{}, len(tpl.Slots))

	for _, slot := range tpl.Slots {
		winner, found := b.resolveSlot(slot, req.Profile, req.Signals, used)
		if !found {
			plan.UnfilledSlots = append(plan.UnfilledSlots, slot)
			continue
		}

		used[winner.Exercise.ID] = struct{}{}

		prescription := winner.Exercise.Base
		prescription = applyClamps(prescription, slot.Priority, req.Signals)
		prescription.Sets = ScaleSets(prescription.Sets, req.Signals.Recovery)

		plan.Exercises = append(plan.Exercises, PlannedExercise{
			ExerciseID:   winner.Exercise.ID,
			Name:         winner.Exercise.Name,
			SlotPattern:  slot.Pattern,
			Pattern:      winner.Exercise.Pattern,
			Modality:     winner.Exercise.Modality,
			SlotPriority: slot.Priority,
			Class:        winner.Exercise.Class,
			Sets:         prescription.Sets,
			RepLow:       prescription.RepLow,
			RepHigh:      prescription.RepHigh,
			RestSec:      prescription.RestSec,
		})
	}

	plan.Exercises, plan.EstimatedTimeMin, plan.OverBudget = trimToBudget(plan.Exercises, capMin)

	return plan, nil
}

// resolveSlot ranks the catalog candidates for the slot's pattern. Exercises
// already placed earlier in the draft are skipped so a fallback never repeats
// a selection. A substitutable slot retries once with its fallback pattern
// before giving up.
func (b *Builder) resolveSlot(slot Slot, profile UserProfile, signals Signals, used map[string]struct{}) (ScoreResult, bool) {
	winner, found := rankCandidates(b.freshCandidates(slot.Pattern, used), profile, signals)
	if found {
		return winner, true
	}

	if slot.Substitutable {
		if alt, ok := patternFallbacks[slot.Pattern]; ok {
			return rankCandidates(b.freshCandidates(alt, used), profile, signals)
		}
	}

	return ScoreResult{}, false
}

// freshCandidates returns the pattern's candidates minus already-placed
// exercises, preserving catalog declaration order.
func (b *Builder) freshCandidates(pattern Pattern, used map[string]struct{}) []Exercise {
	candidates := b.catalog.CandidatesForPattern(pattern)
	if len(used) == 0 {
		return candidates
	}
	fresh := make([]Exercise, 0, len(candidates))
	for _, ex := range candidates {
		if _, taken := used[ex.ID]; taken {
			continue
		}
		fresh = append(fresh, ex)
	}
	return fresh
}

// validateProfile enforces the required-field contract of the build API.
func validateProfile(profile UserProfile) error {
	if len(profile.Equipment) == 0 {
		return fmt.Errorf("%w: equipment list is empty", ErrInvalidProfile)
	}
	for _, m := range profile.Equipment {
		if !m.Valid() {
			return fmt.Errorf("%w: unknown equipment modality %q", ErrInvalidProfile, m)
		}
	}
	if !profile.Experience.Valid() {
		return fmt.Errorf("%w: unknown experience level %q", ErrInvalidProfile, profile.Experience)
	}
	for _, g := range profile.Goals {
		if !g.Valid() {
			return fmt.Errorf("%w: unknown goal %q", ErrInvalidProfile, g)
		}
	}
	for region, tag := range profile.Limitations {
		if !tag.Valid() {
			return fmt.Errorf("%w: unknown limitation tag %q for region %q", ErrInvalidProfile, tag, region)
		}
	}
	return nil
}
