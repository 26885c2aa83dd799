package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotwise/internal/exceptions/service"
	httputil "slotwise/pkg/http"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

type ExceptionHandler struct {
	service service.ExceptionService
	log     *logger.Logger
}

func NewExceptionHandler(service service.ExceptionService, log *logger.Logger) *ExceptionHandler {
	return &ExceptionHandler{
		service: service,
		log:     log,
	}
}

func (h *ExceptionHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	agentID := ps.ByName("agent_id")
	if agentID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "agent_id parameter is required",
		}); err != nil {
			h.log.Error("failed to write JSON response", "handler", "List", "error", err)
		}
		return
	}

	exceptions, err := h.service.List(r.Context(), agentID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, exceptions); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *ExceptionHandler) Replace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	agentID := ps.ByName("agent_id")
	if agentID == "" {
		if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "agent_id parameter is required",
		}); err != nil {
			h.log.Error("failed to write JSON response", "handler", "Replace", "error", err)
		}
		return
	}

	var entries []model.ExceptionUpsert
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Replace", "error", writeErr)
		}
		return
	}

	exceptions, err := h.service.Replace(r.Context(), agentID, entries)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Replace", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, exceptions); err != nil {
		h.log.Error("failed to write success response", "handler", "Replace", "error", err)
	}
}

func (h *ExceptionHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/agents/:agent_id/exceptions", h.List)
	router.PUT("/api/v1/agents/:agent_id/exceptions", h.Replace)
}
