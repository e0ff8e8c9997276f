package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchBody_MatchAllWhenEmpty(t *testing.T) {
	body := buildSearchBody(Query{})

	query, ok := body["query"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, query, "match_all")
}

func TestBuildSearchBody_KeywordsAndFilters(t *testing.T) {
	body := buildSearchBody(Query{
		Keywords:     "ben salah",
		PositionCode: "P1",
		Status:       "pending",
	})

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})

	must, ok := boolQuery["must"].([]interface{})
	require.True(t, ok)
	require.Len(t, must, 1)
	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "ben salah", multiMatch["query"])

	filter, ok := boolQuery["filter"].([]interface{})
	require.True(t, ok)
	assert.Len(t, filter, 2)
}

func TestDecodeHits(t *testing.T) {
	raw := map[string]interface{}{
		"hits": map[string]interface{}{
			"total":     map[string]interface{}{"value": float64(2)},
			"max_score": 1.7,
			"hits": []interface{}{
				map[string]interface{}{"_source": map[string]interface{}{"id": "app-001"}},
				map[string]interface{}{"_source": map[string]interface{}{"id": "app-002"}},
			},
		},
	}

	result := decodeHits(raw, 12*time.Millisecond)

	assert.Equal(t, int64(2), result.TotalHits)
	assert.Equal(t, 1.7, result.MaxScore)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "app-001", result.Data[0]["id"])
	assert.Equal(t, int64(12), result.Took)
}

func TestDecodeHits_MalformedResponse(t *testing.T) {
	result := decodeHits(map[string]interface{}{}, time.Millisecond)

	assert.Zero(t, result.TotalHits)
	assert.Empty(t, result.Data)
}
