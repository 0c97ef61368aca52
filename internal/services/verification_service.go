package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "wavz/internal/errors"
	"wavz/internal/models"
	"wavz/internal/thirdweb"
	"wavz/internal/veriff"
)

// verificationService handles identity verification and wallet provisioning.
type verificationService struct {
	db       *gorm.DB
	veriff   veriff.Client
	thirdweb thirdweb.Client
	users    UserServicer
}

// NewVerificationService creates a new VerificationServicer.
func NewVerificationService(db *gorm.DB, veriffClient veriff.Client, thirdwebClient thirdweb.Client, users UserServicer) VerificationServicer {
	return &verificationService{db: db, veriff: veriffClient, thirdweb: thirdwebClient, users: users}
}

// StartKYC opens a verification session for the user and persists the session
// reference. A user with a pending session gets the same session back rather
// than a fresh one.
func (s *verificationService) StartKYC(ctx context.Context, userID string) (*veriff.Session, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if user.KYCStatus == models.KYCStatusApproved {
		return nil, apperrors.ErrKYCAlreadyApproved
	}
	if user.KYCSessionID != "" && user.KYCStatus == models.KYCStatusPending {
		session, err := s.veriff.GetSession(ctx, user.KYCSessionID)
		if err == nil {
			return session, nil
		}
		// Stale session on the provider side; fall through and open a new one.
	}

	firstName, lastName := splitDisplayName(user.DisplayName)
	session, err := s.veriff.CreateSession(ctx, user.ID, firstName, lastName)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrVeriffUnavailable, err)
	}

	updates := map[string]interface{}{
		"kyc_session_id": session.ID,
		"kyc_status":     models.KYCStatusPending,
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return session, nil
}

// GetKYCStatus fetches the session state from the provider and folds it into
// the stored status.
func (s *verificationService) GetKYCStatus(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	if user.KYCSessionID == "" {
		return models.KYCStatusNone, nil
	}

	session, err := s.veriff.GetSession(ctx, user.KYCSessionID)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrVeriffUnavailable, err)
	}

	status := mapSessionStatus(session.Status)
	if status != user.KYCStatus {
		if err := s.db.Model(&models.User{}).Where("id = ?", userID).Update("kyc_status", status).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return status, nil
}

// CreateWallet provisions a backend wallet for the user. The address is set
// once; repeated calls return the existing wallet.
func (s *verificationService) CreateWallet(ctx context.Context, userID string) (*thirdweb.Wallet, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if user.WalletAddress != "" {
		return &thirdweb.Wallet{Address: user.WalletAddress, Label: walletLabel(userID)}, nil
	}

	wallet, err := s.thirdweb.CreateWallet(ctx, walletLabel(userID))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrThirdwebUnavailable, err)
	}

	res := s.db.Model(&models.User{}).
		Where("id = ? AND (wallet_address IS NULL OR wallet_address = '')", userID).
		Update("wallet_address", wallet.Address)
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		// Lost a race with a concurrent provisioning call; keep the stored one.
		var fresh models.User
		if err := s.db.Where("id = ?", userID).First(&fresh).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &thirdweb.Wallet{Address: fresh.WalletAddress, Label: walletLabel(userID)}, nil
	}

	return wallet, nil
}

func walletLabel(userID string) string {
	return "wavz-" + userID
}

// splitDisplayName derives a first/last name pair for the verification
// provider from the free-form display name.
func splitDisplayName(displayName string) (string, string) {
	parts := strings.Fields(displayName)
	switch len(parts) {
	case 0:
		return "Creator", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// mapSessionStatus folds provider session states into the stored KYC status.
func mapSessionStatus(status string) string {
	switch strings.ToLower(status) {
	case "approved", "success":
		return models.KYCStatusApproved
	case "declined", "abandoned", "expired":
		return models.KYCStatusRejected
	default:
		return models.KYCStatusPending
	}
}
