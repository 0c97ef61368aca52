package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "wavz/internal/errors"
	"wavz/internal/models"
	"wavz/internal/pagination"
	"wavz/internal/services"
)

// BeatHandler handles Beat attribution and lifecycle requests.
type BeatHandler struct {
	beatService  services.BeatServicer
	auditService services.AuditServicer
}

// NewBeatHandler creates a new BeatHandler.
func NewBeatHandler(beatService services.BeatServicer, auditService services.AuditServicer) *BeatHandler {
	return &BeatHandler{beatService: beatService, auditService: auditService}
}

// EngagementPayload represents engagement counters in a request body.
type EngagementPayload struct {
	Likes          int64   `json:"likes" binding:"gte=0"`
	Dislikes       int64   `json:"dislikes" binding:"gte=0"`
	Comments       int64   `json:"comments" binding:"gte=0"`
	Views          int64   `json:"views" binding:"gte=0"`
	Shares         int64   `json:"shares" binding:"gte=0"`
	Saves          int64   `json:"saves" binding:"gte=0"`
	WatchTimeHours float64 `json:"watch_time_hours" binding:"gte=0"`
	Impressions    int64   `json:"impressions" binding:"gte=0"`
	Reach          int64   `json:"reach" binding:"gte=0"`
}

func (p EngagementPayload) totals() models.EngagementTotals {
	return models.EngagementTotals{
		Likes:          p.Likes,
		Dislikes:       p.Dislikes,
		Comments:       p.Comments,
		Views:          p.Views,
		Shares:         p.Shares,
		Saves:          p.Saves,
		WatchTimeHours: p.WatchTimeHours,
		Impressions:    p.Impressions,
		Reach:          p.Reach,
	}
}

// CreateBeatRequest represents the request payload for creating a Beat.
type CreateBeatRequest struct {
	Platform     string            `json:"platform" binding:"required,min=2,max=32"`
	ContentID    string            `json:"content_id" binding:"required,min=1,max=128"`
	Contribution float64           `json:"contribution" binding:"required,gt=0"`
	ContentType  string            `json:"content_type" binding:"omitempty,content_type"`
	Title        string            `json:"title" binding:"max=255"`
	URL          string            `json:"url" binding:"omitempty,url,max=512"`
	Tags         []string          `json:"tags" binding:"max=16"`
	PostedAt     *time.Time        `json:"posted_at"`
	Engagement   EngagementPayload `json:"engagement"`
}

// AddProofRequest represents the request payload for satisfying an onchain proof.
type AddProofRequest struct {
	ProofType string `json:"proof_type" binding:"required,proof_type"`
}

// CreateBeat attributes content value as a new Beat
// @Summary     Create a Beat
// @Description Attribute a portion of a scoring contribution to one piece of content as an addressable Beat
// @Tags        beats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBeatRequest true "Beat details"
// @Success     201 {object} models.Beat "Beat created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Beat already exists for this content"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /beats [post]
func (h *BeatHandler) CreateBeat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	postedAt := time.Now()
	if req.PostedAt != nil {
		postedAt = *req.PostedAt
	}
	metadata := models.BeatMetadata{
		ContentType: req.ContentType,
		Tags:        req.Tags,
		PostedAt:    postedAt,
		Title:       req.Title,
		URL:         req.URL,
	}

	beat, err := h.beatService.CreateBeat(userID, models.Platform(req.Platform), req.ContentID,
		req.Contribution, metadata, req.Engagement.totals())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BEAT", "beat", beat.BeatID, c.ClientIP(),
		map[string]interface{}{"platform": req.Platform, "content_id": req.ContentID, "contribution": req.Contribution})

	c.JSON(http.StatusCreated, gin.H{"beat": beat})
}

// ListBeatsQuery represents the query parameters for listing Beats.
type ListBeatsQuery struct {
	pagination.PageRequest
	Status string `form:"status" binding:"omitempty,beat_status"`
}

// ListBeats returns the user's Beats
// @Summary     List Beats
// @Description Get a paginated list of the authenticated creator's Beats, newest first
// @Tags        beats
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       status query string false "Lifecycle status filter" Enums(active, archived, disputed, verified)
// @Success     200 {object} pagination.PageResponse[models.Beat] "Beats"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /beats [get]
func (h *BeatHandler) ListBeats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListBeatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	beats, err := h.beatService.GetUserBeats(userID, models.BeatStatus(query.Status), query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, beats)
}

// GetBeat returns one Beat
// @Summary     Get a Beat
// @Description Get one of the authenticated creator's Beats by ID
// @Tags        beats
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Beat ID"
// @Success     200 {object} models.Beat "Beat"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Beat not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /beats/{id} [get]
func (h *BeatHandler) GetBeat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	beat, err := h.beatService.GetBeatByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"beat": beat})
}

// UpdateEngagement resyncs a Beat's engagement and revalues it
// @Summary     Update Beat engagement
// @Description Merge fresh engagement counters into the Beat and recompute its value
// @Tags        beats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Beat ID"
// @Param       request body EngagementPayload true "Fresh engagement counters"
// @Success     200 {object} models.Beat "Updated Beat"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Beat not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /beats/{id}/engagement [post]
func (h *BeatHandler) UpdateEngagement(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EngagementPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	beat, err := h.beatService.UpdateEngagement(userID, c.Param("id"), req.totals())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"beat": beat})
}

// AddProof satisfies an onchain proof on a Beat
// @Summary     Add an onchain proof
// @Description Mark one proof type satisfied on the Beat and apply its value bonus; repeating a proof is a no-op
// @Tags        beats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Beat ID"
// @Param       request body AddProofRequest true "Proof type"
// @Success     200 {object} models.Beat "Updated Beat"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Beat not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /beats/{id}/proofs [post]
func (h *BeatHandler) AddProof(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	beat, err := h.beatService.AddOnChainProof(userID, c.Param("id"), models.ProofType(req.ProofType))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_BEAT_PROOF", "beat", beat.BeatID, c.ClientIP(),
		map[string]interface{}{"proof_type": req.ProofType})

	c.JSON(http.StatusOK, gin.H{"beat": beat})
}

// DeleteBeat removes a Beat
// @Summary     Delete a Beat
// @Description Remove a Beat and reverse its contribution to the profile aggregates
// @Tags        beats
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Beat ID"
// @Success     204 "Beat deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Beat not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /beats/{id} [delete]
func (h *BeatHandler) DeleteBeat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	beatID := c.Param("id")
	if err := h.beatService.DeleteBeat(userID, beatID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BEAT", "beat", beatID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// AnalyzeBeat summarizes a Beat's performance
// @Summary     Analyze Beat performance
// @Description Get value growth, trending state, rank among the creator's Beats, and remaining proof opportunities
// @Tags        beats
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Beat ID"
// @Success     200 {object} services.BeatPerformanceAnalysis "Performance analysis"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Beat not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /beats/{id}/performance [get]
func (h *BeatHandler) AnalyzeBeat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	analysis, err := h.beatService.AnalyzePerformance(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}
