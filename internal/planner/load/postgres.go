// internal/planner/load/postgres.go
package load

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fitplan-workers/internal/planner"
)

// CatalogFromDB loads the exercise catalog from the exercises table.
// Array-valued columns (muscles, contraindications) are stored as JSONB.
func CatalogFromDB(ctx context.Context, db *sql.DB) (*planner.Catalog, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, pattern, modality, muscles, contraindications,
		       base_sets, base_rep_low, base_rep_high, base_rest_sec,
		       priority_class, skill_demand
		FROM exercises
		ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	var exercises []planner.Exercise
	for rows.Next() {
		var raw rawExercise
		var muscles, tags []byte
		err := rows.Scan(
			&raw.ID, &raw.Name, &raw.Pattern, &raw.Modality, &muscles, &tags,
			&raw.Base.Sets, &raw.Base.RepLow, &raw.Base.RepHigh, &raw.Base.RestSec,
			&raw.Class, &raw.Skill,
		)
		if err != nil {
			return nil, fmt.Errorf("scan exercise row: %w", err)
		}

		if err := json.Unmarshal(muscles, &raw.Muscles); err != nil {
			return nil, fmt.Errorf("exercise %q: decode muscles: %w", raw.ID, err)
		}
		if err := json.Unmarshal(tags, &raw.Contraindications); err != nil {
			return nil, fmt.Errorf("exercise %q: decode contraindications: %w", raw.ID, err)
		}

		ex, err := convertExercise(raw)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}

	return planner.NewCatalog(exercises)
}

// TemplatesFromDB loads the day templates from the plan_templates table,
// where each row holds one (template_id, day_key) with its slot list as JSONB.
func TemplatesFromDB(ctx context.Context, db *sql.DB) (*planner.TemplateRegistry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT template_id, day_key, name, slots
		FROM plan_templates
		ORDER BY template_id, day_key`)
	if err != nil {
		return nil, fmt.Errorf("query plan templates: %w", err)
	}
	defer rows.Close()

	var templates []planner.Template
	for rows.Next() {
		var raw rawTemplate
		var slots []byte
		if err := rows.Scan(&raw.ID, &raw.DayKey, &raw.Name, &slots); err != nil {
			return nil, fmt.Errorf("scan template row: %w", err)
		}
		if err := json.Unmarshal(slots, &raw.Slots); err != nil {
			return nil, fmt.Errorf("template %q/%q: decode slots: %w", raw.ID, raw.DayKey, err)
		}

		tpl, err := convertTemplate(raw)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan templates: %w", err)
	}

	return planner.NewTemplateRegistry(templates)
}
