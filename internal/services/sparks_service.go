package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "wavz/internal/errors"
	"wavz/internal/models"
	"wavz/internal/scoring"
)

// sparksService runs the cPoints-to-Sparks conversion stage.
type sparksService struct {
	db *gorm.DB
}

// NewSparksService creates a new SparksServicer.
func NewSparksService(db *gorm.DB) SparksServicer {
	return &sparksService{db: db}
}

// RefreshSparks recomputes the user's cumulative Sparks from their recent
// processed cPoints history and overwrites the profile total. The level is
// resolved monotonically: it advances with Sparks but never regresses. The
// ledger records the overwrite as a delta against the previous total.
func (s *sparksService) RefreshSparks(userID string) (*SparksCalculationResult, error) {
	entries, err := s.loadHistory(userID)
	if err != nil {
		return nil, err
	}

	res := scoring.ConvertCPointsToSparks(entries, time.Now())

	var levelInfo scoring.LevelInfo
	err = mutateAggregate(s.db, userID, func(tx *gorm.DB, p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
		previous := p.Sparks
		p.Sparks = res.TotalSparks
		levelInfo = scoring.ResolveLevel(p.Level, res.TotalSparks)
		applyLevel(p, levelInfo)

		delta := res.TotalSparks - previous
		if delta == 0 {
			return nil, nil
		}
		return []models.ScoreLedgerEntry{{
			Stage:  models.LedgerStageSparks,
			Delta:  delta,
			Reason: "sparks refresh",
		}}, nil
	})
	if err != nil {
		return nil, err
	}

	return &SparksCalculationResult{
		TotalSparks:           res.TotalSparks,
		Breakdown:             res.Breakdown,
		ConsistencyMultiplier: res.ConsistencyMultiplier,
		LevelInfo:             levelInfo,
	}, nil
}

// GetSparks returns the conversion for the user's current history without
// mutating the profile. The level honors the same monotonic rule as a
// refresh: decayed sparks never present a tier below the stored one.
func (s *sparksService) GetSparks(userID string) (*SparksCalculationResult, error) {
	entries, err := s.loadHistory(userID)
	if err != nil {
		return nil, err
	}

	res := scoring.ConvertCPointsToSparks(entries, time.Now())

	levelInfo := res.LevelInfo
	var profile models.WavzProfile
	findErr := s.db.Where("user_id = ?", userID).First(&profile).Error
	switch {
	case findErr == nil:
		levelInfo = scoring.ResolveLevel(profile.Level, res.TotalSparks)
	case errors.Is(findErr, gorm.ErrRecordNotFound):
		// No profile yet, nothing stored to clamp against.
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, findErr)
	}

	return &SparksCalculationResult{
		TotalSparks:           res.TotalSparks,
		Breakdown:             res.Breakdown,
		ConsistencyMultiplier: res.ConsistencyMultiplier,
		LevelInfo:             levelInfo,
	}, nil
}

// loadHistory fetches the most recent processed cPoints entries feeding the
// conversion. Zero history is a valid degenerate case.
func (s *sparksService) loadHistory(userID string) ([]scoring.HistoryEntry, error) {
	var rows []models.CPointsHistory
	err := s.db.Where("user_id = ? AND status IN ?", userID,
		[]models.CPointsStatus{models.CPointsStatusProcessed, models.CPointsStatusVerified}).
		Order("processed_at DESC").
		Limit(scoring.MaxSparksHistory).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entries := make([]scoring.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		processedAt := row.CreatedAt
		if row.ProcessedAt != nil {
			processedAt = *row.ProcessedAt
		}
		entries = append(entries, scoring.HistoryEntry{
			CPoints:     row.CPointsAwarded,
			Platform:    row.Platform,
			ProcessedAt: processedAt,
		})
	}
	return entries, nil
}
