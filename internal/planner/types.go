// Package planner assembles single-day workout sessions from immutable
// reference data (exercise catalog, day templates) and per-request inputs
// (user profile, readiness signals, time cap). Every build is a pure,
// bounded computation: identical inputs always produce identical plans.
package planner

import "fmt"

// Pattern is a movement category used to group interchangeable exercises.
type Pattern string

const (
	PatternSquat           Pattern = "squat"
	PatternHinge           Pattern = "hinge"
	PatternLunge           Pattern = "lunge"
	PatternHorizontalPress Pattern = "horizontal_press"
	PatternVerticalPress   Pattern = "vertical_press"
	PatternHorizontalPull  Pattern = "horizontal_pull"
	PatternVerticalPull    Pattern = "vertical_pull"
	PatternCore            Pattern = "core"
	PatternCarry           Pattern = "carry"
)

var allPatterns = []Pattern{
	PatternSquat,
	PatternHinge,
	PatternLunge,
	PatternHorizontalPress,
	PatternVerticalPress,
	PatternHorizontalPull,
	PatternVerticalPull,
	PatternCore,
	PatternCarry,
}

// Valid reports whether p is one of the known movement patterns.
func (p Pattern) Valid() bool {
	for _, known := range allPatterns {
		if p == known {
			return true
		}
	}
	return false
}

// IsCompound reports whether the pattern is a multi-joint movement.
// Core and carry work is treated as non-compound for goal heuristics.
func (p Pattern) IsCompound() bool {
	switch p {
	case PatternSquat, PatternHinge, PatternLunge,
		PatternHorizontalPress, PatternVerticalPress,
		PatternHorizontalPull, PatternVerticalPull:
		return true
	default:
		return false
	}
}

// ParsePattern converts a raw string into a Pattern.
func ParsePattern(s string) (Pattern, error) {
	p := Pattern(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown movement pattern %q", s)
	}
	return p, nil
}

// Modality is the equipment type an exercise uses.
type Modality string

const (
	ModalityBarbell    Modality = "barbell"
	ModalityDumbbell   Modality = "dumbbell"
	ModalityKettlebell Modality = "kettlebell"
	ModalityCable      Modality = "cable"
	ModalityMachine    Modality = "machine"
	ModalityBodyweight Modality = "bodyweight"
	ModalityBands      Modality = "bands"
)

var allModalities = []Modality{
	ModalityBarbell,
	ModalityDumbbell,
	ModalityKettlebell,
	ModalityCable,
	ModalityMachine,
	ModalityBodyweight,
	ModalityBands,
}

// Valid reports whether m is one of the known modalities.
func (m Modality) Valid() bool {
	for _, known := range allModalities {
		if m == known {
			return true
		}
	}
	return false
}

// ParseModality converts a raw string into a Modality.
func ParseModality(s string) (Modality, error) {
	m := Modality(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown modality %q", s)
	}
	return m, nil
}

// ContraindicationTag labels a movement risk carried by an exercise that must
// be avoided for users with a matching limitation.
type ContraindicationTag string

const (
	TagOverhead        ContraindicationTag = "overhead"
	TagSpinalLoad      ContraindicationTag = "spinal_load"
	TagHighImpact      ContraindicationTag = "high_impact"
	TagDeepKneeFlexion ContraindicationTag = "deep_knee_flexion"
	TagBallistic       ContraindicationTag = "ballistic"
)

var allContraindicationTags = []ContraindicationTag{
	TagOverhead,
	TagSpinalLoad,
	TagHighImpact,
	TagDeepKneeFlexion,
	TagBallistic,
}

// Valid reports whether t is one of the known contraindication tags.
func (t ContraindicationTag) Valid() bool {
	for _, known := range allContraindicationTags {
		if t == known {
			return true
		}
	}
	return false
}

// ParseContraindicationTag converts a raw string into a ContraindicationTag.
func ParseContraindicationTag(s string) (ContraindicationTag, error) {
	t := ContraindicationTag(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown contraindication tag %q", s)
	}
	return t, nil
}

// Goal is a training objective declared on a user profile.
type Goal string

const (
	GoalStrength       Goal = "strength"
	GoalHypertrophy    Goal = "hypertrophy"
	GoalFatLoss        Goal = "fat_loss"
	GoalEndurance      Goal = "endurance"
	GoalGeneralFitness Goal = "general_fitness"
)

var allGoals = []Goal{
	GoalStrength,
	GoalHypertrophy,
	GoalFatLoss,
	GoalEndurance,
	GoalGeneralFitness,
}

// Valid reports whether g is one of the known goals.
func (g Goal) Valid() bool {
	for _, known := range allGoals {
		if g == known {
			return true
		}
	}
	return false
}

// ParseGoal converts a raw string into a Goal.
func ParseGoal(s string) (Goal, error) {
	g := Goal(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown goal %q", s)
	}
	return g, nil
}

// Experience is the user's training experience level.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// Valid reports whether e is one of the known experience levels.
func (e Experience) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	default:
		return false
	}
}

// ParseExperience converts a raw string into an Experience level.
func ParseExperience(s string) (Experience, error) {
	e := Experience(s)
	if !e.Valid() {
		return "", fmt.Errorf("unknown experience level %q", s)
	}
	return e, nil
}

// SkillDemand grades how technically demanding an exercise is to perform.
type SkillDemand string

const (
	SkillLow      SkillDemand = "low"
	SkillModerate SkillDemand = "moderate"
	SkillHigh     SkillDemand = "high"
)

// Valid reports whether s is one of the known skill demands.
func (s SkillDemand) Valid() bool {
	switch s {
	case SkillLow, SkillModerate, SkillHigh:
		return true
	default:
		return false
	}
}

// PriorityClass separates main compound lifts from accessory work. It drives
// the removal order when a plan must be trimmed to a time budget.
type PriorityClass string

const (
	ClassMain      PriorityClass = "main"
	ClassAccessory PriorityClass = "accessory"
)

// Valid reports whether c is a known priority class.
func (c PriorityClass) Valid() bool {
	return c == ClassMain || c == ClassAccessory
}

// BodyRegion keys the limitation map on a user profile.
type BodyRegion string

const (
	RegionShoulder  BodyRegion = "shoulder"
	RegionLowerBack BodyRegion = "lower_back"
	RegionKnee      BodyRegion = "knee"
	RegionHip       BodyRegion = "hip"
	RegionWrist     BodyRegion = "wrist"
)

// BiomarkerFlag is a safety-relevant signal derived from health data.
type BiomarkerFlag string

const (
	FlagElevatedBP  BiomarkerFlag = "elevated_bp"
	FlagElevatedRHR BiomarkerFlag = "elevated_rhr"
)

// RecoveryFlag is a readiness-relevant signal that reduces training volume.
type RecoveryFlag string

const (
	FlagHRVDown3Days        RecoveryFlag = "hrv_down_3d"
	FlagSleepPoor           RecoveryFlag = "sleep_poor"
	FlagHighStrainYesterday RecoveryFlag = "high_strain_yesterday"
	FlagSorenessHigh        RecoveryFlag = "soreness_high"
)

// Prescription is the sets/reps/rest assignment for one exercise.
type Prescription struct {
	Sets    int
	RepLow  int
	RepHigh int
	RestSec int
}

// Exercise is a single catalog entry. Exercises are immutable after catalog
// construction; identity is the ID.
type Exercise struct {
	ID                string
	Name              string
	Pattern           Pattern
	Modality          Modality
	Muscles           []string
	Contraindications []ContraindicationTag
	Base              Prescription
	Class             PriorityClass
	Skill             SkillDemand
}

// Slot is a required position in a day template: a movement pattern plus a
// priority rank (1 = main compound work, protected from trimming). A
// substitutable slot may fall back to a related pattern when no candidate
// for its own pattern survives the hard exclusions.
type Slot struct {
	Pattern       Pattern
	Priority      int
	Substitutable bool
}

// Template is the ordered skeleton of one training day, keyed by template ID
// plus day key (e.g. "ppl_3day"/"push").
type Template struct {
	ID     string
	DayKey string
	Name   string
	Slots  []Slot
}

// Preferences lists liked and disliked exercises or modalities.
type Preferences struct {
	LikedExercises     []string
	DislikedExercises  []string
	LikedModalities    []Modality
	DislikedModalities []Modality
}

// UserProfile carries everything the builder needs to know about the user.
type UserProfile struct {
	Experience    Experience
	Equipment     []Modality
	Preferences   Preferences
	Limitations   map[BodyRegion]ContraindicationTag
	Goals         []Goal
	DaysPerWeek   int
	SessionCapMin int
}

// HasEquipment reports whether the profile's equipment set covers m.
func (p UserProfile) HasEquipment(m Modality) bool {
	for _, have := range p.Equipment {
		if have == m {
			return true
		}
	}
	return false
}

// Signals are the per-request physiological inputs. They are never owned or
// persisted by the planner.
type Signals struct {
	Biomarkers []BiomarkerFlag
	Recovery   []RecoveryFlag
}

// NewSignals builds Signals from raw flag strings. Unknown flags are carried
// through untouched; downstream consumers ignore what they do not know.
func NewSignals(biomarkers, recovery []string) Signals {
	s := Signals{}
	for _, f := range biomarkers {
		s.Biomarkers = append(s.Biomarkers, BiomarkerFlag(f))
	}
	for _, f := range recovery {
		s.Recovery = append(s.Recovery, RecoveryFlag(f))
	}
	return s
}

// HasBiomarker reports whether flag is present in the biomarker set.
func (s Signals) HasBiomarker(flag BiomarkerFlag) bool {
	for _, f := range s.Biomarkers {
		if f == flag {
			return true
		}
	}
	return false
}

// ExclusionReason states why a candidate was removed from consideration.
type ExclusionReason string

const (
	ReasonMissingEquipment   ExclusionReason = "missing_equipment"
	ReasonLimitationConflict ExclusionReason = "limitation_conflict"
)

// ScoreResult is the outcome of scoring one exercise for one slot. It lives
// only within a single slot resolution.
type ScoreResult struct {
	Exercise Exercise
	Score    float64
	Excluded bool
	Reason   ExclusionReason
}

// PlannedExercise is one resolved slot in the final plan.
type PlannedExercise struct {
	ExerciseID   string
	Name         string
	SlotPattern  Pattern
	Pattern      Pattern
	Modality     Modality
	SlotPriority int
	Class        PriorityClass
	Sets         int
	RepLow       int
	RepHigh      int
	RestSec      int
}

// DayPlan is the sole output artifact of a build. The builder keeps no state
// across calls; the caller owns the returned value.
type DayPlan struct {
	TemplateID string
	DayKey     string
	// SlotCount is the template's slot count, fixed before trimming.
	// Exercises can shrink below it under a tight time cap.
	SlotCount        int
	Exercises        []PlannedExercise
	EstimatedTimeMin int
	OverBudget       bool
	UnfilledSlots    []Slot
}

// TotalSets sums the set counts across all planned exercises.
func (p *DayPlan) TotalSets() int {
	total := 0
	for _, ex := range p.Exercises {
		total += ex.Sets
	}
	return total
}

// BuildRequest bundles the inputs of one build call.
type BuildRequest struct {
	Profile    UserProfile
	TemplateID string
	DayKey     string
	Signals    Signals
	TimeCapMin int
}
