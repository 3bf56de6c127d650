// internal/planner/catalog.go
package planner

import "fmt"

// Catalog is the read-only exercise library. It is constructed once at process
// start and injected into the builder; nothing mutates it afterwards, so it is
// safe to share across concurrent builds without locking.
//
// CandidatesForPattern returns exercises in catalog declaration order. Scoring
// ties are broken by that order, so the order is part of the determinism
// contract and must never be re-sorted.
type Catalog struct {
	byID      map[string]Exercise
	byPattern map[Pattern][]Exercise
	ordered   []Exercise
}

// NewCatalog builds a Catalog from the given exercises. It rejects duplicate
// ids and entries carrying unknown enum values: malformed catalog data is a
// configuration error and must surface at startup, never at build time.
func NewCatalog(exercises []Exercise) (*Catalog, error) {
	c := &Catalog{
		byID:      make(map[string]Exercise, len(exercises)),
		byPattern: make(map[Pattern][]Exercise),
	}

	for i, ex := range exercises {
		if ex.ID == "" {
			return nil, fmt.Errorf("catalog entry %d: missing id", i)
		}
		if _, exists := c.byID[ex.ID]; exists {
			return nil, fmt.Errorf("catalog entry %q: duplicate id", ex.ID)
		}
		if !ex.Pattern.Valid() {
			return nil, fmt.Errorf("catalog entry %q: unknown pattern %q", ex.ID, ex.Pattern)
		}
		if !ex.Modality.Valid() {
			return nil, fmt.Errorf("catalog entry %q: unknown modality %q", ex.ID, ex.Modality)
		}
		if !ex.Class.Valid() {
			return nil, fmt.Errorf("catalog entry %q: unknown priority class %q", ex.ID, ex.Class)
		}
		if !ex.Skill.Valid() {
			return nil, fmt.Errorf("catalog entry %q: unknown skill demand %q", ex.ID, ex.Skill)
		}
		for _, tag := range ex.Contraindications {
			if !tag.Valid() {
				return nil, fmt.Errorf("catalog entry %q: unknown contraindication tag %q", ex.ID, tag)
			}
		}
		if ex.Base.Sets < 1 {
			return nil, fmt.Errorf("catalog entry %q: base sets must be >= 1", ex.ID)
		}
		if ex.Base.RepLow < 1 || ex.Base.RepHigh < ex.Base.RepLow {
			return nil, fmt.Errorf("catalog entry %q: invalid rep range %d-%d", ex.ID, ex.Base.RepLow, ex.Base.RepHigh)
		}
		if ex.Base.RestSec < 0 {
			return nil, fmt.Errorf("catalog entry %q: negative rest", ex.ID)
		}

		c.byID[ex.ID] = ex
		c.byPattern[ex.Pattern] = append(c.byPattern[ex.Pattern], ex)
		c.ordered = append(c.ordered, ex)
	}

	return c, nil
}

// Get returns the exercise with the given id.
func (c *Catalog) Get(id string) (Exercise, bool) {
	ex, ok := c.byID[id]
	return ex, ok
}

// CandidatesForPattern returns all exercises for the pattern in declaration
// order. The returned slice is shared; callers must not modify it.
func (c *Catalog) CandidatesForPattern(pattern Pattern) []Exercise {
	return c.byPattern[pattern]
}

// All returns every exercise in declaration order.
func (c *Catalog) All() []Exercise {
	return c.ordered
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.ordered)
}
