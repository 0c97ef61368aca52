package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "wavz/internal/errors"
	"wavz/internal/pagination"
	"wavz/internal/services"
)

// ProfileHandler handles Wavz profile and score ledger requests.
type ProfileHandler struct {
	profileService services.ProfileServicer
	auditService   services.AuditServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService services.ProfileServicer, auditService services.AuditServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, auditService: auditService}
}

// GetProfile returns the user's Wavz profile
// @Summary     Get Wavz profile
// @Description Get the authenticated creator's reputation aggregate, creating an empty one on first read
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.WavzProfile "Profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetProfile(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GetLedger returns the user's score ledger
// @Summary     Get score ledger
// @Description Get the append-only history of score changes behind the profile aggregates, newest first
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.ScoreLedgerEntry] "Ledger entries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger [get]
func (h *ProfileHandler) GetLedger(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entries, err := h.profileService.GetLedger(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// RebuildProfile replays the ledger into the profile aggregates
// @Summary     Rebuild profile aggregates
// @Description Recompute the profile projection from the full score ledger; used to recover from projection drift
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.WavzProfile "Rebuilt profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile/rebuild [post]
func (h *ProfileHandler) RebuildProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.RebuildAggregates(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REBUILD_PROFILE", "wavz_profile", userID, c.ClientIP(),
		map[string]interface{}{"c_points": profile.CPoints, "sparks": profile.Sparks, "beats_value": profile.BeatsValue})

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
