// internal/planner/safety_test.go
package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyClamps(t *testing.T) {
	base := Prescription{Sets: 4, RepLow: 4, RepHigh: 6, RestSec: 90}

	tests := []struct {
		name         string
		prescription Prescription
		slotPriority int
		signals      Signals
		want         Prescription
	}{
		{
			name:         "no flags leaves prescription untouched",
			prescription: base,
			slotPriority: 1,
			signals:      Signals{},
			want:         base,
		},
		{
			name:         "elevated bp raises floors on main slot",
			prescription: base,
			slotPriority: 1,
			signals:      NewSignals([]string{"elevated_bp"}, nil),
			want:         Prescription{Sets: 4, RepLow: 6, RepHigh: 6, RestSec: 120},
		},
		{
			name:         "elevated bp ignores accessory slot",
			prescription: base,
			slotPriority: 2,
			signals:      NewSignals([]string{"elevated_bp"}, nil),
			want:         base,
		},
		{
			name:         "elevated bp never lowers existing floors",
			prescription: Prescription{Sets: 3, RepLow: 8, RepHigh: 12, RestSec: 180},
			slotPriority: 1,
			signals:      NewSignals([]string{"elevated_bp"}, nil),
			want:         Prescription{Sets: 3, RepLow: 8, RepHigh: 12, RestSec: 180},
		},
		{
			name:         "elevated rhr raises rest on any slot",
			prescription: Prescription{Sets: 3, RepLow: 10, RepHigh: 12, RestSec: 60},
			slotPriority: 3,
			signals:      NewSignals([]string{"elevated_rhr"}, nil),
			want:         Prescription{Sets: 3, RepLow: 10, RepHigh: 12, RestSec: 90},
		},
		{
			name:         "both flags on main slot take the highest floors",
			prescription: base,
			slotPriority: 1,
			signals:      NewSignals([]string{"elevated_bp", "elevated_rhr"}, nil),
			want:         Prescription{Sets: 4, RepLow: 6, RepHigh: 6, RestSec: 120},
		},
		{
			name:         "unknown biomarker flag is ignored",
			prescription: base,
			slotPriority: 1,
			signals:      NewSignals([]string{"low_glucose"}, nil),
			want:         base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyClamps(tt.prescription, tt.slotPriority, tt.signals)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyClamps_RepHighFollowsRaisedFloor(t *testing.T) {
	// A 3-5 range clamped to a floor of 6 collapses to 6-6 rather than
	// producing an inverted range.
	got := applyClamps(Prescription{Sets: 5, RepLow: 3, RepHigh: 5, RestSec: 180}, 1,
		NewSignals([]string{"elevated_bp"}, nil))
	assert.Equal(t, 6, got.RepLow)
	assert.Equal(t, 6, got.RepHigh)
}

func TestExcludedByLimitations(t *testing.T) {
	ex := Exercise{
		ID:                "overhead-press",
		Contraindications: []ContraindicationTag{TagOverhead, TagSpinalLoad},
	}

	tests := []struct {
		name        string
		limitations map[BodyRegion]ContraindicationTag
		want        bool
	}{
		{name: "no limitations", limitations: nil, want: false},
		{
			name:        "matching tag",
			limitations: map[BodyRegion]ContraindicationTag{RegionShoulder: TagOverhead},
			want:        true,
		},
		{
			name:        "second tag matches",
			limitations: map[BodyRegion]ContraindicationTag{RegionLowerBack: TagSpinalLoad},
			want:        true,
		},
		{
			name:        "non-matching tag",
			limitations: map[BodyRegion]ContraindicationTag{RegionKnee: TagDeepKneeFlexion},
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := UserProfile{Limitations: tt.limitations}
			assert.Equal(t, tt.want, excludedByLimitations(ex, profile))
		})
	}
}
