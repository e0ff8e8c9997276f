package searchdossiers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"concours-workers/internal/common/database"
	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/validation"
	"concours-workers/internal/search"
)

func newFakeES(t *testing.T, status int, response map[string]interface{}) *database.ElasticsearchClient {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &database.ElasticsearchClient{Client: client, Index: "dossiers"}
}

func newHandler(t *testing.T, es *database.ElasticsearchClient) *Handler {
	t.Helper()
	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	return NewHandler(LoadConfig(), search.NewIndex(es, log), log)
}

func TestHandler_Execute_ReturnsHits(t *testing.T) {
	es := newFakeES(t, http.StatusOK, map[string]interface{}{
		"hits": map[string]interface{}{
			"total":     map[string]interface{}{"value": 2},
			"max_score": 2.4,
			"hits": []interface{}{
				map[string]interface{}{"_source": map[string]interface{}{"id": "app-001", "fullName": "Sami Ben Salah"}},
				map[string]interface{}{"_source": map[string]interface{}{"id": "app-002", "fullName": "Samira Trabelsi"}},
			},
		},
	})
	handler := newHandler(t, es)

	output, err := handler.Execute(context.Background(), &Input{
		Keywords:   "sam",
		Pagination: Pagination{Size: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), output.TotalHits)
	require.Len(t, output.Data, 2)
	assert.Equal(t, "app-001", output.Data[0]["id"])
}

func TestHandler_Execute_IndexMissing(t *testing.T) {
	es := newFakeES(t, http.StatusNotFound, map[string]interface{}{
		"error": map[string]interface{}{"type": "index_not_found_exception"},
	})
	handler := newHandler(t, es)

	_, err := handler.Execute(context.Background(), &Input{Keywords: "sam"})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeIndexNotFound, stdErr.Code)
}

func TestHandler_Execute_BackendError(t *testing.T) {
	es := newFakeES(t, http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{"type": "search_phase_execution_exception"},
	})
	handler := newHandler(t, es)

	_, err := handler.Execute(context.Background(), &Input{Keywords: "sam"})

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeSearchQueryFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestInputSchema_RejectsOversizedPage(t *testing.T) {
	var input Input
	err := validation.DecodeAndValidate([]byte(`{"pagination":{"size":500}}`), GetInputSchema(), &input)

	require.Error(t, err)
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDossierInvalid, stdErr.Code)
}
