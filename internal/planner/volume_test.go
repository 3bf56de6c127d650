// internal/planner/volume_test.go
package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleSets(t *testing.T) {
	tests := []struct {
		name     string
		baseSets int
		recovery []string
		want     int
	}{
		{name: "no flags keeps base", baseSets: 4, recovery: nil, want: 4},
		{name: "one flag scales by 0.85", baseSets: 4, recovery: []string{"sleep_poor"}, want: 3},
		{name: "two flags same step", baseSets: 4, recovery: []string{"sleep_poor", "hrv_down_3d"}, want: 3},
		{
			name:     "three flags scale by 0.7",
			baseSets: 4,
			recovery: []string{"sleep_poor", "hrv_down_3d", "soreness_high"},
			want:     2,
		},
		{name: "result floors to whole sets", baseSets: 3, recovery: []string{"sleep_poor"}, want: 2},
		{
			name:     "hard floor of one set",
			baseSets: 1,
			recovery: []string{"sleep_poor", "hrv_down_3d", "soreness_high", "high_strain_yesterday"},
			want:     1,
		},
		{name: "unknown flags are ignored", baseSets: 4, recovery: []string{"mercury_retrograde"}, want: 4},
		{
			name:     "unknown flags do not add severity",
			baseSets: 4,
			recovery: []string{"sleep_poor", "mercury_retrograde"},
			want:     3,
		},
		{
			name:     "duplicate flags count once",
			baseSets: 4,
			recovery: []string{"sleep_poor", "sleep_poor", "sleep_poor"},
			want:     3,
		},
		{name: "zero base treated as one", baseSets: 0, recovery: nil, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := make([]RecoveryFlag, 0, len(tt.recovery))
			for _, f := range tt.recovery {
				flags = append(flags, RecoveryFlag(f))
			}
			assert.Equal(t, tt.want, ScaleSets(tt.baseSets, flags))
		})
	}
}

func TestScaleSets_Monotonic(t *testing.T) {
	// Adding known flags one at a time never increases the set count.
	all := []RecoveryFlag{
		FlagSleepPoor, FlagHRVDown3Days, FlagSorenessHigh, FlagHighStrainYesterday,
	}

	for base := 1; base <= 6; base++ {
		prev := ScaleSets(base, nil)
		for n := 1; n <= len(all); n++ {
			got := ScaleSets(base, all[:n])
			assert.LessOrEqual(t, got, prev, "base %d flags %d", base, n)
			assert.GreaterOrEqual(t, got, 1)
			prev = got
		}
	}
}
