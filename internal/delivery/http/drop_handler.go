package http

import (
	"net/http"

	"tagmatrix/internal/delivery/dto"
	"tagmatrix/internal/dispatch"
	coreerrors "tagmatrix/internal/errors"
)

// DropHandler serves the drop event interface.
type DropHandler struct {
	*BaseHandler
	dispatcher *dispatch.Dispatcher
}

// NewDropHandler builds a DropHandler.
func NewDropHandler(dispatcher *dispatch.Dispatcher) *DropHandler {
	return &DropHandler{BaseHandler: NewBaseHandler(), dispatcher: dispatcher}
}

// Drop handles POST /api/v1/drops.
func (h *DropHandler) Drop(w http.ResponseWriter, r *http.Request) {
	h.LogRequest(r, "DropHandler.Drop")

	var body dto.DropEventPayload
	if err := h.ParseJSONRequest(r, &body); err != nil {
		h.WriteErrorResponse(w, http.StatusBadRequest, "malformed drop event")
		return
	}

	event := dispatch.DropEvent{
		DragKind:  dispatch.DraggableKind(body.DragKind),
		DragRef:   body.DragRef,
		DropKind:  dispatch.DroppableKind(body.DropKind),
		DropRef:   body.DropRef,
		SessionID: body.SessionID,
	}

	result, err := h.dispatcher.Dispatch(r.Context(), event)
	if err != nil {
		h.WriteErrorResponse(w, statusFor(err), err.Error())
		return
	}

	if !result.Reevaluated {
		h.WriteJSONResponse(w, http.StatusOK, map[string]string{"action": string(result.Action)})
		return
	}

	reg, regErr := h.dispatcher.Registries().Current()
	if regErr != nil {
		h.WriteErrorResponse(w, http.StatusServiceUnavailable, regErr.Error())
		return
	}
	h.WriteJSONResponse(w, http.StatusOK, toQueryResult(reg, *result.Matrix, false))
}

// statusFor maps the core's typed errors to HTTP status codes.
func statusFor(err error) int {
	switch err.(type) {
	case *coreerrors.InvalidDropError, *coreerrors.CapacityExceededError, *coreerrors.CycleDetectedError:
		return http.StatusUnprocessableEntity
	case *coreerrors.UnknownEntityError:
		return http.StatusNotFound
	case *coreerrors.RegistryNotInitializedError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
