// Package search maintains the dossier search index and runs the
// administrator's full-text queries against it. PostgreSQL stays the
// source of truth; the index is rebuilt entry by entry on every
// dossier write and a lost update is repaired by the next one.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"concours-workers/internal/common/database"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/models"
)

var (
	ErrSearchFailed  = errors.New("SEARCH_QUERY_FAILED")
	ErrIndexNotFound = errors.New("INDEX_NOT_FOUND")
)

type Query struct {
	Keywords     string
	PositionCode string
	Status       string
	Degree       string
	From         int
	Size         int
}

type Result struct {
	Data      []map[string]interface{}
	TotalHits int64
	MaxScore  float64
	Took      int64
}

type Index struct {
	es     *database.ElasticsearchClient
	logger logger.Logger
}

func NewIndex(es *database.ElasticsearchClient, log logger.Logger) *Index {
	return &Index{es: es, logger: log}
}

// IndexDossier upserts one applicant document. Credentials never reach
// the index.
func (ix *Index) IndexDossier(ctx context.Context, a *models.Applicant) error {
	doc := map[string]interface{}{
		"id":             a.ID,
		"email":          a.Email,
		"status":         a.Status,
		"targetPosition": a.TargetPositionNumber,
		"fullName":       a.Personal.FullName,
		"cin":            a.Personal.CIN,
		"degree":         a.Education.Degree,
		"specialty":      a.Education.Specialty,
		"bacAverage":     a.Education.BacAverage,
		"gradAverage":    a.Education.GradAverage,
		"updatedAt":      a.UpdatedAt,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode dossier document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      ix.es.Index,
		DocumentID: a.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, ix.es.Client)
	if err != nil {
		return fmt.Errorf("index dossier %s: %w", a.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index dossier %s: %s", a.ID, res.Status())
	}
	return nil
}

// Search runs the administrator search. Keywords match name, email and
// CIN; the remaining fields are exact filters.
func (ix *Index) Search(ctx context.Context, q Query) (*Result, error) {
	if q.Size < 1 {
		q.Size = 20
	}
	if q.Size > 100 {
		q.Size = 100
	}

	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrSearchFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{ix.es.Index},
		Body:  strings.NewReader(string(body)),
		From:  &q.From,
		Size:  &q.Size,
	}

	start := time.Now()
	res, err := req.Do(ctx, ix.es.Client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, ErrIndexNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.Status())
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}

	return decodeHits(r, time.Since(start)), nil
}

func buildSearchBody(q Query) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if q.Keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keywords,
				"fields": []string{"fullName^3", "email^2", "cin"},
				"type":   "best_fields",
			},
		})
	}
	if q.PositionCode != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"targetPosition": q.PositionCode},
		})
	}
	if q.Status != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"status": q.Status},
		})
	}
	if q.Degree != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"degree": q.Degree},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if len(boolQuery) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}
	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

func decodeHits(r map[string]interface{}, elapsed time.Duration) *Result {
	out := &Result{Took: elapsed.Milliseconds()}

	hits, ok := r["hits"].(map[string]interface{})
	if !ok {
		return out
	}
	if total, ok := hits["total"].(map[string]interface{}); ok {
		if v, ok := total["value"].(float64); ok {
			out.TotalHits = int64(v)
		}
	}
	if ms, ok := hits["max_score"].(float64); ok {
		out.MaxScore = ms
	}
	if list, ok := hits["hits"].([]interface{}); ok {
		for _, hit := range list {
			if h, ok := hit.(map[string]interface{}); ok {
				if source, ok := h["_source"].(map[string]interface{}); ok {
					out.Data = append(out.Data, source)
				}
			}
		}
	}
	return out
}
