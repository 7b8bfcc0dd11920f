package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"regportal/internal/models"
)

// CronCleanup triggers an on-demand cleanup sweep. When a cron secret is
// configured the caller must present it as a bearer token; with no secret
// configured the endpoint is open, which is the intended zero-config
// default for local deployments.
// POST /api/v1/cron/cleanup
func (h *Handlers) CronCleanup(w http.ResponseWriter, r *http.Request) {
	if secret := h.config.Security.CronSecret; secret != "" {
		presented := bearerToken(r)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			h.writeErrorResponse(w, http.StatusUnauthorized, models.ErrorCodeUnauthorized, "Invalid cron secret")
			return
		}
	}

	counts, err := h.sweeper.Run(r.Context())
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Cleanup failed")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.CleanupResponse{
		Success:   true,
		Timestamp: time.Now().UTC(),
		Results:   counts,
	})
}
