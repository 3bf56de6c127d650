// internal/planner/load/load_test.go
package load

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitplan-workers/internal/planner"
)

const validCatalogJSON = `{
	"version": "1.0",
	"exercises": [
		{
			"id": "back-squat",
			"name": "Barbell Back Squat",
			"pattern": "squat",
			"modality": "barbell",
			"muscles": ["quads", "glutes"],
			"contraindications": ["spinal_load", "deep_knee_flexion"],
			"base": {"sets": 4, "rep_low": 5, "rep_high": 8, "rest_sec": 150},
			"class": "main",
			"skill": "moderate"
		},
		{
			"id": "goblet-squat",
			"name": "Goblet Squat",
			"pattern": "squat",
			"modality": "dumbbell",
			"muscles": ["quads"],
			"contraindications": ["deep_knee_flexion"],
			"base": {"sets": 3, "rep_low": 8, "rep_high": 12, "rest_sec": 90},
			"class": "accessory",
			"skill": "low"
		}
	]
}`

const validTemplatesJSON = `{
	"version": "1.0",
	"templates": [
		{
			"id": "full_body_3day",
			"day_key": "day_a",
			"name": "Full Body A",
			"slots": [
				{"pattern": "squat", "priority": 1},
				{"pattern": "horizontal_pull", "priority": 2, "substitutable": true}
			]
		}
	]
}`

// ==========================
// File Loader
// ==========================

func TestCatalogFromJSON_Valid(t *testing.T) {
	catalog, err := CatalogFromJSON([]byte(validCatalogJSON))
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	ex, ok := catalog.Get("back-squat")
	require.True(t, ok)
	assert.Equal(t, planner.PatternSquat, ex.Pattern)
	assert.Equal(t, planner.ModalityBarbell, ex.Modality)
	assert.Equal(t, planner.ClassMain, ex.Class)
	assert.Equal(t, 4, ex.Base.Sets)
	assert.Equal(t, 150, ex.Base.RestSec)
	assert.Contains(t, ex.Contraindications, planner.TagSpinalLoad)
}

func TestCatalogFromJSON_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{{`},
		{name: "missing exercises", doc: `{"version": "1.0"}`},
		{
			name: "entry missing base",
			doc: `{"exercises": [
				{"id": "x", "name": "X", "pattern": "squat", "modality": "barbell", "class": "main"}
			]}`,
		},
		{
			name: "zero sets",
			doc: `{"exercises": [
				{"id": "x", "name": "X", "pattern": "squat", "modality": "barbell",
				 "base": {"sets": 0, "rep_low": 5, "rep_high": 8, "rest_sec": 90}, "class": "main"}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CatalogFromJSON([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestCatalogFromJSON_UnknownEnumValues(t *testing.T) {
	doc := `{"exercises": [
		{"id": "x", "name": "X", "pattern": "pilates", "modality": "barbell",
		 "base": {"sets": 3, "rep_low": 8, "rep_high": 12, "rest_sec": 60}, "class": "main"}
	]}`

	_, err := CatalogFromJSON([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown movement pattern")
}

func TestTemplatesFromJSON_Valid(t *testing.T) {
	registry, err := TemplatesFromJSON([]byte(validTemplatesJSON))
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())

	tpl, ok := registry.Get("full_body_3day", "day_a")
	require.True(t, ok)
	require.Len(t, tpl.Slots, 2)
	assert.Equal(t, planner.PatternSquat, tpl.Slots[0].Pattern)
	assert.True(t, tpl.Slots[1].Substitutable)
}

func TestTemplatesFromJSON_EmptySlotsRejected(t *testing.T) {
	doc := `{"templates": [{"id": "t", "day_key": "d", "slots": []}]}`
	_, err := TemplatesFromJSON([]byte(doc))
	assert.Error(t, err)
}

// ==========================
// Database Loader
// ==========================

func TestCatalogFromDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "name", "pattern", "modality", "muscles", "contraindications",
		"base_sets", "base_rep_low", "base_rep_high", "base_rest_sec",
		"priority_class", "skill_demand",
	}).AddRow(
		"bench-press", "Barbell Bench Press", "horizontal_press", "barbell",
		[]byte(`["chest","triceps"]`), []byte(`[]`),
		4, 5, 8, 150, "main", "moderate",
	).AddRow(
		"pushup", "Push-Up", "horizontal_press", "bodyweight",
		[]byte(`["chest"]`), []byte(`[]`),
		3, 10, 20, 60, "accessory", "low",
	)

	mock.ExpectQuery("SELECT id, name, pattern").WillReturnRows(rows)

	catalog, err := CatalogFromDB(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	candidates := catalog.CandidatesForPattern(planner.PatternHorizontalPress)
	require.Len(t, candidates, 2)
	assert.Equal(t, "bench-press", candidates[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogFromDB_BadEnumFailsLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "name", "pattern", "modality", "muscles", "contraindications",
		"base_sets", "base_rep_low", "base_rep_high", "base_rest_sec",
		"priority_class", "skill_demand",
	}).AddRow(
		"mystery", "Mystery Move", "interpretive_dance", "barbell",
		[]byte(`[]`), []byte(`[]`), 3, 8, 12, 60, "main", "low",
	)

	mock.ExpectQuery("SELECT id, name, pattern").WillReturnRows(rows)

	_, err = CatalogFromDB(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown movement pattern")
}

func TestCatalogFromDB_CorruptJSONBFailsLoad(t *testing.T) {
	tests := []struct {
		name        string
		muscles     []byte
		tags        []byte
		wantMessage string
	}{
		{
			name:        "corrupt muscles column",
			muscles:     []byte(`{"not": "an array"`),
			tags:        []byte(`[]`),
			wantMessage: "decode muscles",
		},
		{
			name:        "corrupt contraindications column",
			muscles:     []byte(`["chest"]`),
			tags:        []byte(`not json`),
			wantMessage: "decode contraindications",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			rows := sqlmock.NewRows([]string{
				"id", "name", "pattern", "modality", "muscles", "contraindications",
				"base_sets", "base_rep_low", "base_rep_high", "base_rest_sec",
				"priority_class", "skill_demand",
			}).AddRow(
				"bench-press", "Barbell Bench Press", "horizontal_press", "barbell",
				tt.muscles, tt.tags, 4, 5, 8, 150, "main", "moderate",
			)

			mock.ExpectQuery("SELECT id, name, pattern").WillReturnRows(rows)

			_, err = CatalogFromDB(context.Background(), db)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMessage)
			assert.Contains(t, err.Error(), "bench-press")
		})
	}
}

func TestTemplatesFromDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"template_id", "day_key", "name", "slots"}).
		AddRow("ppl_4day", "push", "Push Day",
			[]byte(`[{"pattern":"horizontal_press","priority":1},{"pattern":"core","priority":3,"substitutable":true}]`))

	mock.ExpectQuery("SELECT template_id, day_key").WillReturnRows(rows)

	registry, err := TemplatesFromDB(context.Background(), db)
	require.NoError(t, err)

	tpl, ok := registry.Get("ppl_4day", "push")
	require.True(t, ok)
	require.Len(t, tpl.Slots, 2)
	assert.Equal(t, 1, tpl.Slots[0].Priority)
	assert.True(t, tpl.Slots[1].Substitutable)

	assert.NoError(t, mock.ExpectationsWereMet())
}
