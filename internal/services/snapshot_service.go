package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "wavz/internal/errors"
	"wavz/internal/models"
	"wavz/internal/pagination"
)

// snapshotService owns the append-only engagement snapshot log.
type snapshotService struct {
	db *gorm.DB
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(db *gorm.DB) SnapshotServicer {
	return &snapshotService{db: db}
}

// GetLastSnapshot returns the most recent snapshot for an account, or nil on
// first sync. Absence is an expected state, not an error.
func (s *snapshotService) GetLastSnapshot(userID, accountID string) (*models.EngagementSnapshot, error) {
	var snapshot models.EngagementSnapshot
	err := s.db.Where("user_id = ? AND account_id = ?", userID, accountID).
		Order("synced_at DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &snapshot, nil
}

// RecordSnapshot appends a snapshot row. Callers invoke this only after
// delta and score computation succeeded, so a failed calculation never
// persists a stale snapshot. Rows are immutable once written.
func (s *snapshotService) RecordSnapshot(snapshot *models.EngagementSnapshot) error {
	if err := s.db.Create(snapshot).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetAccountSnapshots returns the account's snapshot history, newest first.
func (s *snapshotService) GetAccountSnapshots(userID, accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.EngagementSnapshot], error) {
	page.Defaults()

	base := s.db.Model(&models.EngagementSnapshot{}).
		Where("user_id = ? AND account_id = ?", userID, accountID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var snapshots []models.EngagementSnapshot
	if err := base.Order("synced_at DESC").Scopes(pagination.Paginate(page)).Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.PageSize, totalItems)
	return &result, nil
}
