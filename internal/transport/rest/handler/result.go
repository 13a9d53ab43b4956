package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"wellscreen/internal/service"
)

// ResultHandler handles computed-result endpoints
type ResultHandler struct {
	resultSvc *service.ResultService
}

// NewResultHandler creates a new result handler
func NewResultHandler(resultSvc *service.ResultService) *ResultHandler {
	return &ResultHandler{
		resultSvc: resultSvc,
	}
}

// Get handles GET /v1/sessions/{id}/result
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := h.resultSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Recalculate handles POST /v1/sessions/{id}/result/recalculate
func (h *ResultHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := h.resultSvc.Recalculate(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
