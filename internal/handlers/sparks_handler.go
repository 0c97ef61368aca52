package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wavz/internal/services"
)

// SparksHandler handles Sparks conversion requests.
type SparksHandler struct {
	sparksService services.SparksServicer
	auditService  services.AuditServicer
}

// NewSparksHandler creates a new SparksHandler.
func NewSparksHandler(sparksService services.SparksServicer, auditService services.AuditServicer) *SparksHandler {
	return &SparksHandler{sparksService: sparksService, auditService: auditService}
}

// GetSparks previews the user's Sparks conversion
// @Summary     Get Sparks
// @Description Compute the authenticated creator's Sparks from their current cPoints history without persisting
// @Tags        sparks
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SparksCalculationResult "Sparks conversion"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sparks [get]
func (h *SparksHandler) GetSparks(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.sparksService.GetSparks(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sparks": result})
}

// RefreshSparks recomputes and persists the user's Sparks total
// @Summary     Refresh Sparks
// @Description Recompute the authenticated creator's Sparks from recent cPoints history and update the profile and level
// @Tags        sparks
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SparksCalculationResult "Updated Sparks conversion"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Concurrent profile update"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sparks/refresh [post]
func (h *SparksHandler) RefreshSparks(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.sparksService.RefreshSparks(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REFRESH_SPARKS", "wavz_profile", userID, c.ClientIP(),
		map[string]interface{}{"total_sparks": result.TotalSparks, "level": result.LevelInfo.Level})

	c.JSON(http.StatusOK, gin.H{"sparks": result})
}
