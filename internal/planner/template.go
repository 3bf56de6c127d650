// internal/planner/template.go
package planner

import (
	"fmt"
	"sort"
)

// TemplateRegistry is the read-only library of day templates, keyed by
// (template id, day key). Like the Catalog, it is built once at startup and
// shared across builds without locking.
type TemplateRegistry struct {
	templates map[templateKey]Template
}

type templateKey struct {
	id     string
	dayKey string
}

// NewTemplateRegistry builds a registry from the given templates. It rejects
// duplicate (id, day) pairs, empty slot lists, and slots with unknown patterns
// or non-positive priority ranks. Slots are re-ordered by ascending priority
// rank (declaration order preserved within a rank) so the builder always
// resolves and protects main work first.
func NewTemplateRegistry(templates []Template) (*TemplateRegistry, error) {
	r := &TemplateRegistry{
		templates: make(map[templateKey]Template, len(templates)),
	}

	for _, tpl := range templates {
		if tpl.ID == "" {
			return nil, fmt.Errorf("template %q/%q: missing id", tpl.ID, tpl.DayKey)
		}
		if tpl.DayKey == "" {
			return nil, fmt.Errorf("template %q: missing day key", tpl.ID)
		}
		key := templateKey{id: tpl.ID, dayKey: tpl.DayKey}
		if _, exists := r.templates[key]; exists {
			return nil, fmt.Errorf("template %q/%q: duplicate", tpl.ID, tpl.DayKey)
		}
		if len(tpl.Slots) == 0 {
			return nil, fmt.Errorf("template %q/%q: no slots", tpl.ID, tpl.DayKey)
		}
		for i, slot := range tpl.Slots {
			if !slot.Pattern.Valid() {
				return nil, fmt.Errorf("template %q/%q slot %d: unknown pattern %q", tpl.ID, tpl.DayKey, i, slot.Pattern)
			}
			if slot.Priority < 1 {
				return nil, fmt.Errorf("template %q/%q slot %d: priority rank must be >= 1", tpl.ID, tpl.DayKey, i)
			}
		}

		ordered := make([]Slot, len(tpl.Slots))
		copy(ordered, tpl.Slots)
		sort.SliceStable(ordered, func(a, b int) bool {
			return ordered[a].Priority < ordered[b].Priority
		})
		tpl.Slots = ordered

		r.templates[key] = tpl
	}

	return r, nil
}

// Get returns the template for the given id and day key.
func (r *TemplateRegistry) Get(templateID, dayKey string) (Template, bool) {
	tpl, ok := r.templates[templateKey{id: templateID, dayKey: dayKey}]
	return tpl, ok
}

// Len returns the number of registered templates.
func (r *TemplateRegistry) Len() int {
	return len(r.templates)
}
