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

// CPointsHandler handles cPoints calculation and history requests.
type CPointsHandler struct {
	cpointsService services.CPointsServicer
	accountService services.AccountServicer
	auditService   services.AuditServicer
}

// NewCPointsHandler creates a new CPointsHandler.
func NewCPointsHandler(cpointsService services.CPointsServicer, accountService services.AccountServicer, auditService services.AuditServicer) *CPointsHandler {
	return &CPointsHandler{cpointsService: cpointsService, accountService: accountService, auditService: auditService}
}

// CalculateRequest represents an explicit cPoints calculation request.
type CalculateRequest struct {
	AccountID    string            `json:"account_id" binding:"required"`
	Period       string            `json:"period" binding:"required,calc_period"`
	PeriodStart  time.Time         `json:"period_start" binding:"required"`
	PeriodEnd    time.Time         `json:"period_end" binding:"required"`
	Engagement   EngagementPayload `json:"engagement"`
	ContentCount int               `json:"content_count" binding:"gte=0"`
}

// Calculate runs an explicit cPoints calculation for a period
// @Summary     Calculate cPoints
// @Description Fold an incremental engagement delta into the cPoints award for one connected account over an explicit period; repeating a period accumulates into it
// @Tags        cpoints
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CalculateRequest true "Calculation window and engagement delta"
// @Success     200 {object} services.CPointsProcessingResult "Calculation result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cpoints/calculate [post]
func (h *CPointsHandler) Calculate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.GetAccountByID(userID, req.AccountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.cpointsService.CalculateForPeriod(account, models.CalcPeriod(req.Period),
		req.PeriodStart, req.PeriodEnd, req.Engagement.totals(), req.ContentCount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CALCULATE_CPOINTS", "c_points_history", result.CPointsHistoryID, c.ClientIP(),
		map[string]interface{}{"account_id": req.AccountID, "period": req.Period, "c_points_awarded": result.CPointsAwarded})

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// historyQuery represents the cPoints history query parameters.
type historyQuery struct {
	pagination.PageRequest
	Platform string `form:"platform" binding:"omitempty,platform"`
}

// GetHistory returns the user's cPoints calculation history
// @Summary     Get cPoints history
// @Description Get the authenticated creator's cPoints calculations, newest period first, optionally filtered by platform
// @Tags        cpoints
// @Produce     json
// @Security    BearerAuth
// @Param       platform query string false "Platform filter"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.CPointsHistory] "Calculation history"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cpoints [get]
func (h *CPointsHandler) GetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query historyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var platform *models.Platform
	if query.Platform != "" {
		p := models.Platform(query.Platform)
		platform = &p
	}

	history, err := h.cpointsService.GetHistory(userID, platform, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
