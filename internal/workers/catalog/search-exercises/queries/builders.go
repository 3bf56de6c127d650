// internal/workers/catalog/search-exercises/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ExerciseQuery describes one catalog search request.
type ExerciseQuery struct {
	Index      string
	QueryType  string
	Text       string
	Filters    map[string]interface{}
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery turns an ExerciseQuery into an Elasticsearch search request.
func BuildQuery(eq ExerciseQuery) (*esapi.SearchRequest, error) {
	if eq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch eq.QueryType {
	case "pattern_browse":
		queryBody = buildPatternBrowseQuery(eq)
	case "text_search":
		queryBody = buildTextSearchQuery(eq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, eq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{eq.Index},
		Body:  strings.NewReader(string(body)),
		From:  &eq.Pagination.From,
		Size:  &eq.Pagination.Size,
	}

	return &req, nil
}

// buildPatternBrowseQuery filters the catalog on its keyword facets. Results
// keep the catalog's stored order via the position field.
func buildPatternBrowseQuery(eq ExerciseQuery) map[string]interface{} {
	boolQuery := map[string]interface{}{
		"must": []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}},
	}

	filterClauses := buildFilterClauses(eq.Filters)
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if mustNot := buildExclusionClauses(eq.Filters); len(mustNot) > 0 {
		boolQuery["must_not"] = mustNot
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  []map[string]interface{}{{"position": "asc"}},
	}
}

// buildTextSearchQuery is relevance-ranked free text over names and muscle
// groups, with the same facet filters applied on top.
func buildTextSearchQuery(eq ExerciseQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})

	if eq.Text != "" {
		boolQuery["must"] = []interface{}{map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  eq.Text,
				"fields": []string{"name^3", "muscles^2", "pattern"},
				"type":   "best_fields",
			},
		}}
	} else {
		boolQuery["must"] = []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}}
	}

	if filterClauses := buildFilterClauses(eq.Filters); len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if mustNot := buildExclusionClauses(eq.Filters); len(mustNot) > 0 {
		boolQuery["must_not"] = mustNot
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

func buildFilterClauses(filters map[string]interface{}) []interface{} {
	clauses := []interface{}{}

	if pattern, ok := filters["pattern"].(string); ok && pattern != "" {
		clauses = append(clauses, map[string]interface{}{
			"term": map[string]interface{}{"pattern": pattern},
		})
	}

	if class, ok := filters["class"].(string); ok && class != "" {
		clauses = append(clauses, map[string]interface{}{
			"term": map[string]interface{}{"class": class},
		})
	}

	if modalities := stringList(filters["modalities"]); len(modalities) > 0 {
		clauses = append(clauses, map[string]interface{}{
			"terms": map[string]interface{}{"modality": modalities},
		})
	}

	if skill, ok := filters["max_skill"].(string); ok && skill != "" {
		levels := skillsUpTo(skill)
		if len(levels) > 0 {
			clauses = append(clauses, map[string]interface{}{
				"terms": map[string]interface{}{"skill": levels},
			})
		}
	}

	return clauses
}

// buildExclusionClauses drops exercises carrying any of the caller's
// contraindication tags.
func buildExclusionClauses(filters map[string]interface{}) []interface{} {
	tags := stringList(filters["exclude_contraindications"])
	if len(tags) == 0 {
		return nil
	}
	return []interface{}{map[string]interface{}{
		"terms": map[string]interface{}{"contraindications": tags},
	}}
}

func stringList(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func skillsUpTo(max string) []string {
	switch max {
	case "low":
		return []string{"low"}
	case "moderate":
		return []string{"low", "moderate"}
	case "high":
		return []string{"low", "moderate", "high"}
	}
	return nil
}
