// internal/workers/catalog/search-exercises/models.go
package searchexercises

type Input struct {
	IndexName  string                 `json:"index_name"`
	QueryType  string                 `json:"query_type"`
	Text       string                 `json:"text,omitempty"`
	Filters    map[string]interface{} `json:"filters"`
	Pagination Pagination             `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"total_hits"`
	MaxScore  float64                  `json:"max_score"`
	Took      int64                    `json:"took"` // milliseconds
}
