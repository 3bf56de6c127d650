// internal/workers/catalog/search-exercises/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

type QueryResult struct {
	Data      []map[string]interface{}
	TotalHits int64
	MaxScore  float64
	Took      int64
}

// Execute runs the search and flattens the hit sources.
func Execute(ctx context.Context, esClient *elasticsearch.Client, eq ExerciseQuery) (*QueryResult, error) {
	if eq.Pagination.Size < 1 {
		eq.Pagination.Size = 20
	}
	if eq.Pagination.Size > 100 {
		eq.Pagination.Size = 100
	}

	req, err := BuildQuery(eq)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			MaxScore float64 `json:"max_score"`
			Hits     []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	var data []map[string]interface{}
	for _, hit := range r.Hits.Hits {
		data = append(data, hit.Source)
	}

	return &QueryResult{
		Data:      data,
		TotalHits: r.Hits.Total.Value,
		MaxScore:  r.Hits.MaxScore,
		Took:      time.Since(start).Milliseconds(),
	}, nil
}
