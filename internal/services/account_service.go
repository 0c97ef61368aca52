package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "wavz/internal/errors"
	"wavz/internal/logger"
	"wavz/internal/models"
	"wavz/internal/pagination"
)

// accountService handles connected platform accounts.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// ConnectAccount links a platform account to the user. The (user, platform,
// account) tuple is unique; connecting the same account twice is rejected.
func (s *accountService) ConnectAccount(userID string, platform models.Platform, accountID, username string) (*models.ConnectedAccount, error) {
	if accountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account id is required")
	}

	platform = models.Platform(strings.ToLower(string(platform)))
	if !platform.IsSupported() {
		// Unsupported platforms still sync; they just score via the default
		// rate table.
		logger.Get().Warnw("connecting unrecognized platform",
			"platform", platform, "user_id", userID)
	}

	var count int64
	s.db.Model(&models.ConnectedAccount{}).
		Where("user_id = ? AND platform = ? AND account_id = ?", userID, platform, accountID).
		Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateAccount
	}

	account := &models.ConnectedAccount{
		UserID:    userID,
		Platform:  platform,
		AccountID: accountID,
		Username:  username,
		IsActive:  true,
	}

	if err := s.db.Create(account).Error; err != nil {
		// A concurrent connect for the same tuple can slip past the count
		// and land on the unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateAccount
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// GetUserAccounts returns a paginated list of the user's connected accounts.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.ConnectedAccount], error) {
	page.Defaults()

	base := s.db.Model(&models.ConnectedAccount{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.ConnectedAccount
	if err := base.Order("created_at ASC").Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID returns a connected account if it belongs to the user.
func (s *accountService) GetAccountByID(userID, id string) (*models.ConnectedAccount, error) {
	var account models.ConnectedAccount
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}
