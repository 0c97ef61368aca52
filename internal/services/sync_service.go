package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "wavz/internal/errors"
	"wavz/internal/insightiq"
	"wavz/internal/logger"
	"wavz/internal/models"
	"wavz/internal/scoring"
)

// syncService drives the full pipeline for one connected account: fetch raw
// engagement from InsightIQ, compute the delta against the last snapshot,
// award cPoints for the period, append the snapshot row, and refresh Sparks.
type syncService struct {
	db        *gorm.DB
	insight   insightiq.Client
	accounts  AccountServicer
	snapshots SnapshotServicer
	cpoints   CPointsServicer
	sparks    SparksServicer
}

// NewSyncService creates a new SyncServicer.
func NewSyncService(
	db *gorm.DB,
	insight insightiq.Client,
	accounts AccountServicer,
	snapshots SnapshotServicer,
	cpoints CPointsServicer,
	sparks SparksServicer,
) SyncServicer {
	return &syncService{
		db:        db,
		insight:   insight,
		accounts:  accounts,
		snapshots: snapshots,
		cpoints:   cpoints,
		sparks:    sparks,
	}
}

// SyncAccount runs one sync cycle for the account. An account with no
// accessible content is skipped without writing a snapshot row. The snapshot
// is only recorded after scoring succeeded, so a failed calculation never
// persists a stale baseline for the next delta.
func (s *syncService) SyncAccount(ctx context.Context, userID, accountID string) (*SyncResult, error) {
	start := time.Now()

	account, err := s.accounts.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	items, err := s.insight.GetAccountContent(ctx, account.AccountID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInsightIQUnavailable, err)
	}

	if len(items) == 0 {
		logger.Get().Infow("sync skipped, no accessible content",
			"user_id", userID, "account_id", account.AccountID, "platform", account.Platform)
		return &SyncResult{Skipped: true}, nil
	}

	totals := aggregateContent(items)

	var previous models.EngagementTotals
	last, err := s.snapshots.GetLastSnapshot(userID, account.AccountID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		previous = last.Snapshot
	}
	delta := scoring.ComputeDelta(totals, previous)

	periodStart, periodEnd := dailyWindow(start)
	calc, err := s.cpoints.CalculateForPeriod(account, models.CalcPeriodDaily, periodStart, periodEnd, delta, len(items))
	if err != nil {
		return nil, err
	}

	sparksRes, err := s.sparks.RefreshSparks(userID)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start).Milliseconds()
	snapshot := &models.EngagementSnapshot{
		UserID:          userID,
		AccountID:       account.AccountID,
		Platform:        account.Platform,
		SyncedAt:        start,
		Snapshot:        totals,
		DeltaFromPrev:   delta,
		CPointsAwarded:  calc.CPointsAwarded,
		SparksGenerated: sparksRes.TotalSparks,
		ContentCount:    len(items),
		SyncDurationMS:  duration,
	}
	if err := s.snapshots.RecordSnapshot(snapshot); err != nil {
		return nil, err
	}

	if err := s.touchAccount(ctx, account); err != nil {
		return nil, err
	}

	return &SyncResult{
		SnapshotID:     snapshot.ID,
		Delta:          delta,
		ContentCount:   len(items),
		CPointsAwarded: calc.CPointsAwarded,
		TotalSparks:    sparksRes.TotalSparks,
		LevelInfo:      sparksRes.LevelInfo,
		SyncDurationMS: duration,
	}, nil
}

// SyncAll sweeps every active connected account through the pipeline. A
// failing account is logged and counted but does not stop the sweep.
func (s *syncService) SyncAll(ctx context.Context) (*SyncAllResult, error) {
	var accounts []models.ConnectedAccount
	if err := s.db.Where("is_active = ?", true).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &SyncAllResult{AccountsTotal: len(accounts)}
	for i := range accounts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		account := &accounts[i]
		res, err := s.SyncAccount(ctx, account.UserID, account.ID)
		if err != nil {
			logger.Get().Warnw("account sync failed during sweep",
				"user_id", account.UserID, "account_id", account.AccountID,
				"platform", account.Platform, "error", err)
			result.AccountsFailed++
			continue
		}
		if res.Skipped {
			result.AccountsSkipped++
			continue
		}
		result.AccountsSynced++
	}

	logger.Get().Infow("account sweep completed",
		"total", result.AccountsTotal, "synced", result.AccountsSynced,
		"skipped", result.AccountsSkipped, "failed", result.AccountsFailed)
	return result, nil
}

// touchAccount updates the account's sync bookkeeping and follower count.
func (s *syncService) touchAccount(ctx context.Context, account *models.ConnectedAccount) error {
	updates := map[string]interface{}{
		"last_synced_at": time.Now(),
		"sync_count":     gorm.Expr("sync_count + 1"),
	}

	// Follower refresh is best effort; a profile fetch failure does not fail
	// the sync that already scored.
	if profile, err := s.insight.GetProfile(ctx, account.AccountID); err == nil {
		updates["follower_count"] = profile.FollowerCount
		if profile.Username != "" {
			updates["username"] = profile.Username
		}
	} else {
		logger.Get().Warnw("follower refresh failed",
			"account_id", account.AccountID, "error", err)
	}

	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// aggregateContent sums per-content engagement into account totals.
func aggregateContent(items []insightiq.ContentItem) models.EngagementTotals {
	var totals models.EngagementTotals
	for _, item := range items {
		totals.Likes += item.LikeCount
		totals.Dislikes += item.DislikeCount
		totals.Comments += item.CommentCount
		totals.Views += item.ViewCount
		totals.Shares += item.ShareCount
		totals.Saves += item.SaveCount
		totals.WatchTimeHours += item.WatchTimeInHours
		totals.Impressions += item.ImpressionOrganicCount
		totals.Reach += item.ReachOrganicCount
	}
	totals.Posts = int64(len(items))
	return totals
}

// dailyWindow returns the calendar-day period containing ts.
func dailyWindow(ts time.Time) (time.Time, time.Time) {
	startOfDay := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	return startOfDay, startOfDay.AddDate(0, 0, 1)
}
