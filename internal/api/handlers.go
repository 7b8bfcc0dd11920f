// Package api exposes the portal's HTTP surface: account lifecycle, company
// register queries, the cron cleanup hook and health checks.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"regportal/internal/auth"
	"regportal/internal/cleanup"
	"regportal/internal/company"
	"regportal/internal/models"
	"regportal/internal/storage"
	"regportal/internal/version"
)

// Request bodies are small JSON documents; anything past this size is
// rejected before decoding.
const maxBodySize = 64 * 1024

// Handlers contains HTTP handlers for the portal API.
type Handlers struct {
	authService    *auth.Service
	companyService *company.Service
	sweeper        *cleanup.Sweeper
	store          storage.Storage
	config         *models.Config
}

// NewHandlers creates a new handlers instance.
func NewHandlers(authService *auth.Service, companyService *company.Service, sweeper *cleanup.Sweeper, store storage.Storage, config *models.Config) *Handlers {
	return &Handlers{
		authService:    authService,
		companyService: companyService,
		sweeper:        sweeper,
		store:          store,
		config:         config,
	}
}

// HealthCheck handles health check requests.
// GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := models.NewHealthCheckResponse(models.StatusHealthy)
	response.Version = version.GetInfo().Version

	if err := h.store.Ping(r.Context()); err != nil {
		response.Status = models.StatusDegraded
		response.AddComponent("storage", models.StatusUnhealthy, err.Error())
	} else {
		response.AddComponent("storage", models.StatusHealthy, "Storage is operational")
	}
	response.AddComponent("api", models.StatusHealthy, "API is operational")

	status := http.StatusOK
	if response.Status != models.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSONResponse(w, status, response)
}

// decodeJSON reads and decodes a request body into dst, enforcing the body
// size cap and rejecting trailing garbage.
func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON document")
	}
	return nil
}

// writeJSONResponse writes a JSON response.
func (h *Handlers) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing sensible left to send.
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

// writeErrorResponse writes an error response.
func (h *Handlers) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	h.writeJSONResponse(w, statusCode, models.NewErrorResponse(message, errorCode))
}
