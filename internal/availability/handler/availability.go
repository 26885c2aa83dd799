package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotwise/internal/availability/service"
	httputil "slotwise/pkg/http"
	"slotwise/pkg/logger"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Range(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	agentID := ps.ByName("agent_id")
	if agentID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "agent_id parameter is required",
		}); err != nil {
			h.log.Error("failed to write JSON response", "handler", "Range", "error", err)
		}
		return
	}

	query := r.URL.Query()
	from := query.Get("from")
	to := query.Get("to")
	if from == "" || to == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "'from' and 'to' query parameters are required",
		}); err != nil {
			h.log.Error("failed to write JSON response", "handler", "Range", "error", err)
		}
		return
	}

	result, err := h.service.Range(r.Context(), agentID, from, to, query.Get("tz"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Range", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Range", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/agents/:agent_id/availability", h.Range)
}
