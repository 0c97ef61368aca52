package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wavz/internal/services"
)

// SyncHandler handles scheduler-triggered sync sweeps. Its routes sit behind
// the shared-key middleware rather than user JWT auth.
type SyncHandler struct {
	syncService services.SyncServicer
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncService services.SyncServicer) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// SyncAll runs the pipeline for every active connected account
// @Summary     Sync all accounts
// @Description Sweep every active connected account through the scoring pipeline; intended for the external scheduler
// @Tags        sync
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.SyncAllResult "Sweep summary"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Sync not configured"
// @Router      /internal/sync [post]
func (h *SyncHandler) SyncAll(c *gin.Context) {
	result, err := h.syncService.SyncAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
