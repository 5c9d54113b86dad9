// File: internal/server/handlers.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/RatnakarVise/db-rule-3320010-assess-llm/api/schemas"
	"github.com/RatnakarVise/db-rule-3320010-assess-llm/internal/assess"
)

// Handlers manages the HTTP request handling for the assessment service.
type Handlers struct {
	log    *zap.Logger
	engine *assess.Engine
	model  string
}

// NewHandlers creates a new Handlers instance. model is the configured model
// identifier reported by the health endpoint.
func NewHandlers(logger *zap.Logger, engine *assess.Engine, model string) *Handlers {
	return &Handlers{
		log:    logger.Named("handlers"),
		engine: engine,
		model:  model,
	}
}

// RegisterRoutes sets up the routing for the service.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/assess-copa-3320010", h.HandleAssessBatch)
	r.Get("/health", h.HandleHealth)
}

// healthResponse is the liveness payload. Always ok; the model identifier is
// reported regardless of whether its credential is actually valid.
type healthResponse struct {
	OK    bool   `json:"ok"`
	Model string `json:"model"`
}

// HandleHealth reports liveness and the configured model name.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, healthResponse{OK: true, Model: h.model})
}

// HandleAssessBatch accepts a JSON array of code units, runs the per-unit
// pipeline and returns one output record per unit, order preserved. An
// upstream failure in fail-fast mode aborts the whole batch with 502.
func (h *Handlers) HandleAssessBatch(w http.ResponseWriter, r *http.Request) {
	var units []schemas.CodeUnit
	if err := json.NewDecoder(r.Body).Decode(&units); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	h.log.Info("Received assessment batch", zap.Int("units", len(units)))

	records, err := h.engine.Run(r.Context(), units)
	if err != nil {
		if ue, ok := assess.AsUpstreamError(err); ok {
			h.respondWithError(w, http.StatusBadGateway, ue.Error())
			return
		}
		h.log.Error("Batch processing failed", zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Internal error processing batch.")
		return
	}

	h.respondWithJSON(w, http.StatusOK, records)
}

// respondWithError sends the error detail payload. The "detail" field name
// is part of the API contract.
func (h *Handlers) respondWithError(w http.ResponseWriter, statusCode int, message string) {
	h.respondWithJSON(w, statusCode, map[string]string{"detail": message})
}

// respondWithJSON writes a JSON response with the given status code.
func (h *Handlers) respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}
