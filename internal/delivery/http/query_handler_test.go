package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	tmhttp "tagmatrix/internal/delivery/http"
	"tagmatrix/internal/delivery/dto"
	"tagmatrix/internal/filter"
	"tagmatrix/internal/model"
	"tagmatrix/internal/registry"
	"tagmatrix/internal/session"
)

func buildTestStore(t *testing.T) *registry.Store {
	t.Helper()
	store := registry.NewStore()
	_, err := store.Publish([]model.Card{
		{ID: "c1", Tags: []string{"red"}},
		{ID: "c2", Tags: []string{"blue"}},
	}, registry.DefaultLimits())
	require.NoError(t, err)
	return store
}

func TestQuery_ReturnsUniverseWhenNoTagsInPlay(t *testing.T) {
	store := buildTestStore(t)
	sessions := session.NewRepository(session.DefaultControls(), session.DefaultLimits())
	handler := tmhttp.NewQueryHandler(store, sessions, filter.NewCache(16), filter.DefaultLimits())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1/query", nil)
	req = mux.SetURLVars(req, map[string]string{"sessionId": "s1"})
	rec := httptest.NewRecorder()

	handler.Query(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, 2, result.Total)
}

func TestQuery_MissingSessionIDIsBadRequest(t *testing.T) {
	store := buildTestStore(t)
	sessions := session.NewRepository(session.DefaultControls(), session.DefaultLimits())
	handler := tmhttp.NewQueryHandler(store, sessions, filter.NewCache(16), filter.DefaultLimits())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions//query", nil)
	rec := httptest.NewRecorder()

	handler.Query(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuery_UnpublishedRegistryIsServiceUnavailable(t *testing.T) {
	store := registry.NewStore()
	sessions := session.NewRepository(session.DefaultControls(), session.DefaultLimits())
	handler := tmhttp.NewQueryHandler(store, sessions, filter.NewCache(16), filter.DefaultLimits())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1/query", nil)
	req = mux.SetURLVars(req, map[string]string{"sessionId": "s1"})
	rec := httptest.NewRecorder()

	handler.Query(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
