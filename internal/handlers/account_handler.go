package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "wavz/internal/errors"
	"wavz/internal/models"
	"wavz/internal/pagination"
	"wavz/internal/services"
)

// AccountHandler handles connected platform account requests.
type AccountHandler struct {
	accountService  services.AccountServicer
	snapshotService services.SnapshotServicer
	syncService     services.SyncServicer
	auditService    services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(
	accountService services.AccountServicer,
	snapshotService services.SnapshotServicer,
	syncService services.SyncServicer,
	auditService services.AuditServicer,
) *AccountHandler {
	return &AccountHandler{
		accountService:  accountService,
		snapshotService: snapshotService,
		syncService:     syncService,
		auditService:    auditService,
	}
}

// ConnectAccountRequest represents the request payload for connecting a
// platform account.
type ConnectAccountRequest struct {
	Platform  string `json:"platform" binding:"required,min=2,max=32"`
	AccountID string `json:"account_id" binding:"required,min=1,max=128"`
	Username  string `json:"username" binding:"max=128"`
}

// ConnectAccount links a platform account to the authenticated user
// @Summary     Connect a platform account
// @Description Link a social platform account tracked by InsightIQ to the authenticated creator
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ConnectAccountRequest true "Platform account details"
// @Success     201 {object} models.ConnectedAccount "Account connected"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Account already connected"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) ConnectAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ConnectAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.ConnectAccount(userID, models.Platform(req.Platform), req.AccountID, req.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CONNECT_ACCOUNT", "connected_account", account.ID, c.ClientIP(),
		map[string]interface{}{"platform": req.Platform, "account_id": req.AccountID})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// ListAccounts returns the user's connected accounts
// @Summary     List connected accounts
// @Description Get a paginated list of the authenticated creator's connected platform accounts
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.ConnectedAccount] "Connected accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
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

	accounts, err := h.accountService.GetUserAccounts(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// GetAccount returns one connected account
// @Summary     Get a connected account
// @Description Get one of the authenticated creator's connected accounts by ID
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} models.ConnectedAccount "Connected account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// SyncAccount runs the scoring pipeline for one connected account
// @Summary     Sync a connected account
// @Description Fetch fresh engagement from InsightIQ and run the delta, cPoints, and Sparks stages
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} services.SyncResult "Sync outcome"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     502 {object} ErrorResponse "Engagement provider unavailable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/sync [post]
func (h *AccountHandler) SyncAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID := c.Param("id")
	result, err := h.syncService.SyncAccount(c.Request.Context(), userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SYNC_ACCOUNT", "connected_account", accountID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"sync": result})
}

// ListSnapshots returns the account's engagement snapshot history
// @Summary     List engagement snapshots
// @Description Get the append-only engagement snapshot history for a connected account, newest first
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.EngagementSnapshot] "Snapshots"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/snapshots [get]
func (h *AccountHandler) ListSnapshots(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	snapshots, err := h.snapshotService.GetAccountSnapshots(userID, account.AccountID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshots)
}
