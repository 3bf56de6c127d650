// internal/planner/safety.go
package planner

// excludedByLimitations reports whether the exercise carries a contraindication
// tag matching any limitation on the profile. A match removes the candidate
// from consideration for every slot, not just the one being resolved.
func excludedByLimitations(ex Exercise, profile UserProfile) bool {
	if len(profile.Limitations) == 0 {
		return false
	}
	for _, avoid := range profile.Limitations {
		for _, tag := range ex.Contraindications {
			if tag == avoid {
				return true
			}
		}
	}
	return false
}

// clampRule raises prescription floors when its biomarker flag is present.
// Rules only ever raise the rep lower bound and rest floor, never lower them,
// so the evaluation order can never undo an earlier rule. MainOnly restricts
// the rule to priority-1 slots.
type clampRule struct {
	Flag       BiomarkerFlag
	MainOnly   bool
	MinRepLow  int
	MinRestSec int
}

// clampRules is the declarative safety table, evaluated in declaration order.
// Elevated blood pressure forbids heavy low-rep grinding and short rests on
// main lifts; an elevated resting heart rate extends rest everywhere.
var clampRules = []clampRule{
	{Flag: FlagElevatedBP, MainOnly: true, MinRepLow: 6, MinRestSec: 120},
	{Flag: FlagElevatedRHR, MainOnly: false, MinRestSec: 90},
}

// applyClamps rewrites the prescription of a slot winner according to the
// active biomarker flags. slotPriority is the priority rank of the slot the
// exercise occupies; rules marked MainOnly fire only for rank 1.
func applyClamps(p Prescription, slotPriority int, signals Signals) Prescription {
	for _, rule := range clampRules {
		if !signals.HasBiomarker(rule.Flag) {
			continue
		}
		if rule.MainOnly && slotPriority != 1 {
			continue
		}
		if p.RepLow < rule.MinRepLow {
			p.RepLow = rule.MinRepLow
			if p.RepHigh < p.RepLow {
				p.RepHigh = p.RepLow
			}
		}
		if p.RestSec < rule.MinRestSec {
			p.RestSec = rule.MinRestSec
		}
	}
	return p
}
