package http

import (
	"context"
	"net/http"

	"tagmatrix/internal/delivery/dto"
	"tagmatrix/internal/filter"
	"tagmatrix/internal/partition"
	"tagmatrix/internal/registry"
	"tagmatrix/internal/session"
)

// QueryHandler serves the query result interface: given a session's
// current tagsInPlay, evaluate the Filter Pipeline and Partition Engine
// and return the resulting matrix.
type QueryHandler struct {
	*BaseHandler
	registries *registry.Store
	sessions   *session.Repository
	cache      *filter.Cache
	limits     filter.Limits
}

// NewQueryHandler builds a QueryHandler.
func NewQueryHandler(registries *registry.Store, sessions *session.Repository, cache *filter.Cache, limits filter.Limits) *QueryHandler {
	return &QueryHandler{
		BaseHandler: NewBaseHandler(),
		registries:  registries,
		sessions:    sessions,
		cache:       cache,
		limits:      limits,
	}
}

// Query handles GET /api/v1/sessions/{sessionId}/query.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	h.LogRequest(r, "QueryHandler.Query")

	sessionID := pathParam(r, "sessionId")
	if sessionID == "" {
		h.WriteErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	reg, err := h.registries.Current()
	if err != nil {
		h.WriteErrorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	sess := h.sessions.GetOrCreate(sessionID)
	plan := sess.Tags.PlanOf()

	pipeline := filter.NewPipeline(reg, h.limits, h.cache)
	cacheLenBefore := h.cache.Len()

	result, err := pipeline.Evaluate(context.Background(), plan)
	if err != nil {
		h.WriteErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	cacheHit := h.cache.Len() == cacheLenBefore

	matrix := partition.Build(reg, result, plan.RowAxis, plan.ColAxis)
	h.WriteJSONResponse(w, http.StatusOK, toQueryResult(reg, matrix, cacheHit))
}

func toQueryResult(reg *registry.Registry, m partition.Matrix, cacheHit bool) dto.QueryResult {
	dict := reg.Dictionary()
	rowLabels := labelsFor(dict, m.RowAxis)
	colLabels := labelsFor(dict, m.ColAxis)

	total := 0
	cells := make([][][]string, m.RowCount())
	for i := 0; i < m.RowCount(); i++ {
		cells[i] = make([][]string, m.ColCount())
		for j := 0; j < m.ColCount(); j++ {
			ids := m.CellCardIDs(reg, i, j)
			cells[i][j] = ids
			total += len(ids)
		}
	}

	return dto.QueryResult{
		Axes:     dto.AxesPayload{Row: rowLabels, Col: colLabels},
		Matrix:   cells,
		Total:    total,
		CacheHit: cacheHit,
	}
}

func labelsFor(dict interface{ NameOf(int32) (string, bool) }, ids []int32) []string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := dict.NameOf(id); ok {
			labels = append(labels, name)
		}
	}
	return labels
}
