// internal/planner/volume.go
package planner

// knownRecoveryFlags is the set of readiness signals that count toward
// volume reduction. Flags outside this set are ignored, not errors: the
// ingestion pipeline may ship new flags before the planner learns them.
var knownRecoveryFlags = map[RecoveryFlag]struct{}{
	FlagHRVDown3Days:        {},
	FlagSleepPoor:           {},
	FlagHighStrainYesterday: {},
	FlagSorenessHigh:        {},
}

// ScaleSets adjusts a base set count by recovery severity. Severity is the
// number of distinct known flags present; the step table maps severity to a
// multiplier, the result is floored to whole sets with a hard floor of one.
// More known flags can never produce more sets than fewer flags.
func ScaleSets(baseSets int, recovery []RecoveryFlag) int {
	if baseSets < 1 {
		baseSets = 1
	}

	severity := recoverySeverity(recovery)

	multiplier := 1.0
	switch {
	case severity >= 3:
		multiplier = 0.7
	case severity >= 1:
		multiplier = 0.85
	}

	scaled := int(float64(baseSets) * multiplier)
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

// recoverySeverity counts distinct known recovery flags.
func recoverySeverity(recovery []RecoveryFlag) int {
	seen := make(map[RecoveryFlag]struct{}, len(recovery))
	for _, flag := range recovery {
		if _, known := knownRecoveryFlags[flag]; !known {
			continue
		}
		seen[flag] = struct{}{}
	}
	return len(seen)
}
