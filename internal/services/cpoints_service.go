package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "wavz/internal/errors"
	"wavz/internal/logger"
	"wavz/internal/models"
	"wavz/internal/pagination"
	"wavz/internal/scoring"
)

// cpointsService runs the cPoints calculation stage and persists its history.
type cpointsService struct {
	db *gorm.DB
}

// NewCPointsService creates a new CPointsServicer.
func NewCPointsService(db *gorm.DB) CPointsServicer {
	return &cpointsService{db: db}
}

// CalculateForPeriod folds an incremental engagement delta into the cPoints
// award for one account and period. The CPointsHistory row is the period
// accumulator: the incoming delta is summed into its raw engagement and the
// award is recomputed from the accumulated period input, so repeated syncs
// inside one window top the award up instead of replacing it. The profile
// cPoints counter is adjusted by the award difference, per platform creator
// stats grow by the delta, and a cpoints ledger entry records the adjustment,
// all under optimistic concurrency in one transaction. A zero delta leaves
// the profile untouched.
func (s *cpointsService) CalculateForPeriod(
	account *models.ConnectedAccount,
	period models.CalcPeriod,
	periodStart, periodEnd time.Time,
	delta models.EngagementTotals,
	contentCount int,
) (*CPointsProcessingResult, error) {
	if !periodEnd.After(periodStart) {
		return nil, apperrors.ErrInvalidPeriod
	}

	if _, known := scoring.RatesFor(account.Platform); !known {
		logger.Get().Warnw("scoring unrecognized platform with default rates",
			"platform", account.Platform,
			"account_id", account.AccountID,
			"user_id", account.UserID,
		)
	}

	var record models.CPointsHistory
	now := time.Now()

	err := mutateAggregate(s.db, account.UserID, func(tx *gorm.DB, p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
		var existing models.CPointsHistory
		findErr := tx.Where(
			"user_id = ? AND platform = ? AND account_id = ? AND period_start = ? AND period_end = ?",
			account.UserID, account.Platform, account.AccountID, periodStart, periodEnd,
		).First(&existing).Error

		var previousAward float64
		switch {
		case findErr == nil:
			// Accumulate into the existing window and rescore the whole period.
			previousAward = existing.CPointsAwarded
			accumulated := existing.RawEngagement.Add(delta)
			res := scoring.CalculateCPoints(accumulated, account.Platform, contentCount)
			existing.RawEngagement = accumulated
			existing.ProcessedData = res.ProcessedData
			existing.Calculation = res.Calculation
			existing.CPointsAwarded = res.Calculation.FinalCPoints
			existing.Status = models.CPointsStatusProcessed
			existing.ProcessedAt = &now
			existing.ProcessingVersion++
			if err := tx.Save(&existing).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			record = existing
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			res := scoring.CalculateCPoints(delta, account.Platform, contentCount)
			record = models.CPointsHistory{
				UserID:            account.UserID,
				Platform:          account.Platform,
				AccountID:         account.AccountID,
				Period:            period,
				PeriodStart:       periodStart,
				PeriodEnd:         periodEnd,
				RawEngagement:     delta,
				ProcessedData:     res.ProcessedData,
				Calculation:       res.Calculation,
				CPointsAwarded:    res.Calculation.FinalCPoints,
				Status:            models.CPointsStatusProcessed,
				ProcessedAt:       &now,
				ProcessingVersion: 1,
			}
			if err := tx.Create(&record).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		default:
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, findErr)
		}

		awardDelta := record.CPointsAwarded - previousAward
		p.CPoints += awardDelta

		if p.CreatorStats == nil {
			p.CreatorStats = map[models.Platform]models.EngagementTotals{}
		}
		p.CreatorStats[account.Platform] = p.CreatorStats[account.Platform].Add(delta)

		if awardDelta == 0 {
			return nil, nil
		}
		return []models.ScoreLedgerEntry{{
			Stage:       models.LedgerStageCPoints,
			Delta:       awardDelta,
			Reason:      "period calculation",
			ReferenceID: record.ID,
		}}, nil
	})
	if err != nil {
		return nil, err
	}

	quality := (record.ProcessedData.AuthenticityScore + record.ProcessedData.ConsistencyScore) / 2

	return &CPointsProcessingResult{
		CPointsHistoryID:  record.ID,
		CPointsAwarded:    record.CPointsAwarded,
		QualityScore:      quality,
		Insights:          record.ProcessedData.Insights,
		ProcessingDetails: record.Calculation,
	}, nil
}

// GetHistory returns the user's cPoints history, newest period first.
func (s *cpointsService) GetHistory(userID string, platform *models.Platform, page pagination.PageRequest) (*pagination.PageResponse[models.CPointsHistory], error) {
	page.Defaults()

	base := s.db.Model(&models.CPointsHistory{}).Where("user_id = ?", userID)
	if platform != nil {
		base = base.Where("platform = ?", *platform)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var history []models.CPointsHistory
	if err := base.Order("period_start DESC").Scopes(pagination.Paginate(page)).Find(&history).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(history, page.Page, page.PageSize, totalItems)
	return &result, nil
}
