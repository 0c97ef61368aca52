package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wavz/internal/services"
)

// VerificationHandler handles KYC and wallet provisioning requests.
type VerificationHandler struct {
	verificationService services.VerificationServicer
	auditService        services.AuditServicer
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verificationService services.VerificationServicer, auditService services.AuditServicer) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService, auditService: auditService}
}

// StartKYC opens an identity verification session
// @Summary     Start KYC
// @Description Open an identity verification session and return the redirect URL; an open session is reused
// @Tags        verification
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} veriff.Session "Verification session"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Already verified"
// @Failure     502 {object} ErrorResponse "Verification provider unavailable"
// @Router      /verification/sessions [post]
func (h *VerificationHandler) StartKYC(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	session, err := h.verificationService.StartKYC(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "START_KYC", "user", userID, c.ClientIP(),
		map[string]interface{}{"session_id": session.ID})

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// GetKYCStatus returns the current verification state
// @Summary     Get KYC status
// @Description Fetch the verification session state from the provider and return the folded status
// @Tags        verification
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "KYC status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Verification provider unavailable"
// @Router      /verification/sessions [get]
func (h *VerificationHandler) GetKYCStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status, err := h.verificationService.GetKYCStatus(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"kyc_status": status})
}

// CreateWallet provisions a backend wallet
// @Summary     Create wallet
// @Description Provision a backend wallet for the creator; repeated calls return the existing wallet
// @Tags        verification
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} thirdweb.Wallet "Wallet"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Wallet provider unavailable"
// @Router      /wallets [post]
func (h *VerificationHandler) CreateWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallet, err := h.verificationService.CreateWallet(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_WALLET", "user", userID, c.ClientIP(),
		map[string]interface{}{"address": wallet.Address})

	c.JSON(http.StatusCreated, gin.H{"wallet": wallet})
}
