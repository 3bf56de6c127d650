// internal/planner/load/file.go

// Package load populates the planner's read-only registries at process start,
// either from JSON documents shipped under configs/ or from Postgres. Both
// paths feed planner.NewCatalog / planner.NewTemplateRegistry, which enforce
// the construction rules; this package only fetches, validates shape, and
// converts raw values into the closed planner enums.
package load

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"fitplan-workers/internal/planner"
)

// rawExercise mirrors one catalog.json entry.
type rawExercise struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Pattern           string          `json:"pattern"`
	Modality          string          `json:"modality"`
	Muscles           []string        `json:"muscles"`
	Contraindications []string        `json:"contraindications"`
	Base              rawPrescription `json:"base"`
	Class             string          `json:"class"`
	Skill             string          `json:"skill"`
}

type rawPrescription struct {
	Sets    int `json:"sets"`
	RepLow  int `json:"rep_low"`
	RepHigh int `json:"rep_high"`
	RestSec int `json:"rest_sec"`
}

type catalogDocument struct {
	Version   string        `json:"version"`
	Exercises []rawExercise `json:"exercises"`
}

// rawTemplate mirrors one templates.json entry.
type rawTemplate struct {
	ID     string    `json:"id"`
	DayKey string    `json:"day_key"`
	Name   string    `json:"name"`
	Slots  []rawSlot `json:"slots"`
}

type rawSlot struct {
	Pattern       string `json:"pattern"`
	Priority      int    `json:"priority"`
	Substitutable bool   `json:"substitutable"`
}

type templateDocument struct {
	Version   string        `json:"version"`
	Templates []rawTemplate `json:"templates"`
}

// catalogSchema validates the shape of catalog.json before decoding. Enum
// values are checked by the planner parsers afterwards, so the schema only
// pins structure and required fields.
var catalogSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"exercises"},
	"properties": map[string]interface{}{
		"version": map[string]interface{}{"type": "string"},
		"exercises": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"id", "name", "pattern", "modality", "base", "class"},
				"properties": map[string]interface{}{
					"id":       map[string]interface{}{"type": "string", "minLength": 1},
					"name":     map[string]interface{}{"type": "string", "minLength": 1},
					"pattern":  map[string]interface{}{"type": "string"},
					"modality": map[string]interface{}{"type": "string"},
					"muscles": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
					"contraindications": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
					"base": map[string]interface{}{
						"type":     "object",
						"required": []interface{}{"sets", "rep_low", "rep_high", "rest_sec"},
						"properties": map[string]interface{}{
							"sets":     map[string]interface{}{"type": "integer", "minimum": 1},
							"rep_low":  map[string]interface{}{"type": "integer", "minimum": 1},
							"rep_high": map[string]interface{}{"type": "integer", "minimum": 1},
							"rest_sec": map[string]interface{}{"type": "integer", "minimum": 0},
						},
					},
					"class": map[string]interface{}{"type": "string"},
					"skill": map[string]interface{}{"type": "string"},
				},
			},
		},
	},
}

var templateSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"templates"},
	"properties": map[string]interface{}{
		"version": map[string]interface{}{"type": "string"},
		"templates": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"id", "day_key", "slots"},
				"properties": map[string]interface{}{
					"id":      map[string]interface{}{"type": "string", "minLength": 1},
					"day_key": map[string]interface{}{"type": "string", "minLength": 1},
					"name":    map[string]interface{}{"type": "string"},
					"slots": map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items": map[string]interface{}{
							"type":     "object",
							"required": []interface{}{"pattern", "priority"},
							"properties": map[string]interface{}{
								"pattern":       map[string]interface{}{"type": "string"},
								"priority":      map[string]interface{}{"type": "integer", "minimum": 1},
								"substitutable": map[string]interface{}{"type": "boolean"},
							},
						},
					},
				},
			},
		},
	},
}

// CatalogFromFile loads and validates the exercise catalog from a JSON file.
func CatalogFromFile(path string) (*planner.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return CatalogFromJSON(data)
}

// CatalogFromJSON builds a catalog from raw JSON bytes.
func CatalogFromJSON(data []byte) (*planner.Catalog, error) {
	if err := validateDocument(catalogSchema, data, "catalog"); err != nil {
		return nil, err
	}

	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	exercises := make([]planner.Exercise, 0, len(doc.Exercises))
	for _, raw := range doc.Exercises {
		ex, err := convertExercise(raw)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}

	return planner.NewCatalog(exercises)
}

// TemplatesFromFile loads and validates the day templates from a JSON file.
func TemplatesFromFile(path string) (*planner.TemplateRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates file: %w", err)
	}
	return TemplatesFromJSON(data)
}

// TemplatesFromJSON builds a template registry from raw JSON bytes.
func TemplatesFromJSON(data []byte) (*planner.TemplateRegistry, error) {
	if err := validateDocument(templateSchema, data, "templates"); err != nil {
		return nil, err
	}

	var doc templateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}

	templates := make([]planner.Template, 0, len(doc.Templates))
	for _, raw := range doc.Templates {
		tpl, err := convertTemplate(raw)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}

	return planner.NewTemplateRegistry(templates)
}

func validateDocument(schema map[string]interface{}, data []byte, docName string) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate %s document: %w", docName, err)
	}
	if !result.Valid() {
		errs := ""
		for _, desc := range result.Errors() {
			if errs != "" {
				errs += "; "
			}
			errs += desc.String()
		}
		return fmt.Errorf("%s document invalid: %s", docName, errs)
	}
	return nil
}

func convertExercise(raw rawExercise) (planner.Exercise, error) {
	pattern, err := planner.ParsePattern(raw.Pattern)
	if err != nil {
		return planner.Exercise{}, fmt.Errorf("exercise %q: %w", raw.ID, err)
	}
	modality, err := planner.ParseModality(raw.Modality)
	if err != nil {
		return planner.Exercise{}, fmt.Errorf("exercise %q: %w", raw.ID, err)
	}

	tags := make([]planner.ContraindicationTag, 0, len(raw.Contraindications))
	for _, t := range raw.Contraindications {
		tag, err := planner.ParseContraindicationTag(t)
		if err != nil {
			return planner.Exercise{}, fmt.Errorf("exercise %q: %w", raw.ID, err)
		}
		tags = append(tags, tag)
	}

	class := planner.PriorityClass(raw.Class)
	skill := planner.SkillDemand(raw.Skill)
	if raw.Skill == "" {
		skill = planner.SkillLow
	}

	return planner.Exercise{
		ID:                raw.ID,
		Name:              raw.Name,
		Pattern:           pattern,
		Modality:          modality,
		Muscles:           raw.Muscles,
		Contraindications: tags,
		Base: planner.Prescription{
			Sets:    raw.Base.Sets,
			RepLow:  raw.Base.RepLow,
			RepHigh: raw.Base.RepHigh,
			RestSec: raw.Base.RestSec,
		},
		Class: class,
		Skill: skill,
	}, nil
}

func convertTemplate(raw rawTemplate) (planner.Template, error) {
	slots := make([]planner.Slot, 0, len(raw.Slots))
	for i, s := range raw.Slots {
		pattern, err := planner.ParsePattern(s.Pattern)
		if err != nil {
			return planner.Template{}, fmt.Errorf("template %q/%q slot %d: %w", raw.ID, raw.DayKey, i, err)
		}
		slots = append(slots, planner.Slot{
			Pattern:       pattern,
			Priority:      s.Priority,
			Substitutable: s.Substitutable,
		})
	}

	return planner.Template{
		ID:     raw.ID,
		DayKey: raw.DayKey,
		Name:   raw.Name,
		Slots:  slots,
	}, nil
}
