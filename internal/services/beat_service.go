package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "wavz/internal/errors"
	"wavz/internal/models"
	"wavz/internal/pagination"
	"wavz/internal/scoring"
)

// beatService handles Beat attribution and lifecycle.
type beatService struct {
	db *gorm.DB
}

// NewBeatService creates a new BeatServicer.
func NewBeatService(db *gorm.DB) BeatServicer {
	return &beatService{db: db}
}

// CreateBeat attributes a portion of a cPoints/Sparks contribution to one
// piece of content. Exactly one Beat may exist per (user, platform, content);
// a duplicate request is a hard reject. The inherited baseline is immutable
// for the Beat's life.
func (s *beatService) CreateBeat(
	userID string,
	platform models.Platform,
	contentID string,
	contribution float64,
	metadata models.BeatMetadata,
	engagement models.EngagementTotals,
) (*models.Beat, error) {
	if contentID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "content id is required")
	}
	if contribution <= 0 {
		return nil, apperrors.ErrInvalidContribution
	}

	now := time.Now()
	inherited := scoring.SparksInherited(contribution)
	initialValue := scoring.BeatValue(inherited, nil, engagement)

	beat := &models.Beat{
		BeatID:          scoring.NewBeatID(platform, userID, now),
		UserID:          userID,
		Platform:        platform,
		ContentID:       contentID,
		SparksInherited: inherited,
		InitialValue:    initialValue,
		FinalValue:      initialValue,
		CurrentValue:    initialValue,
		PeakValue:       initialValue,
		Engagement:      engagement,
		Metadata:        metadata,
		Status:          models.BeatStatusActive,
	}

	err := mutateAggregate(s.db, userID, func(tx *gorm.DB, p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
		var count int64
		tx.Model(&models.Beat{}).
			Where("user_id = ? AND platform = ? AND content_id = ?", userID, platform, contentID).
			Count(&count)
		if count > 0 {
			return nil, apperrors.ErrDuplicateBeat
		}

		if err := tx.Create(beat).Error; err != nil {
			// A concurrent create for the same content can slip past the
			// count and land on the unique index instead.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.ErrDuplicateBeat
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		p.TotalBeats++
		p.BeatsValue += beat.FinalValue
		p.BeatStats.ActiveBeats++
		if beat.PeakValue > p.BeatStats.PeakValue {
			p.BeatStats.PeakValue = beat.PeakValue
		}

		return []models.ScoreLedgerEntry{{
			Stage:       models.LedgerStageBeats,
			Delta:       beat.FinalValue,
			Reason:      "beat created",
			ReferenceID: beat.BeatID,
		}}, nil
	})
	if err != nil {
		return nil, err
	}

	return beat, nil
}

// GetUserBeats returns the user's Beats, newest first, optionally filtered by
// lifecycle status.
func (s *beatService) GetUserBeats(userID string, status models.BeatStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Beat], error) {
	page.Defaults()

	base := s.db.Model(&models.Beat{}).Where("user_id = ?", userID)
	if status != "" {
		base = base.Where("status = ?", status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var beats []models.Beat
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&beats).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(beats, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBeatByID returns a Beat by row ID or public beat ID.
func (s *beatService) GetBeatByID(userID, beatID string) (*models.Beat, error) {
	var beat models.Beat
	err := s.db.Where("user_id = ? AND (id = ? OR beat_id = ?)", userID, beatID, beatID).First(&beat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBeatNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &beat, nil
}

// UpdateEngagement merges resynced engagement counters into the Beat and
// revalues it. Peak value is monotone, trending is sticky once reached, and
// the value delta propagates to the profile Beat aggregates.
func (s *beatService) UpdateEngagement(userID, beatID string, metrics models.EngagementTotals) (*models.Beat, error) {
	var updated *models.Beat
	err := mutateAggregate(s.db, userID, func(tx *gorm.DB, p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
		beat, err := s.getForUpdate(tx, userID, beatID)
		if err != nil {
			return nil, err
		}

		previousValue := beat.FinalValue
		previousEngagement := beat.Engagement
		wasTrending := beat.Trending

		beat.Engagement = scoring.MergeTotals(beat.Engagement, metrics)
		beat.EngagementGrowth = scoring.EngagementGrowth(previousEngagement, beat.Engagement)
		beat.FinalValue = scoring.BeatValue(beat.SparksInherited, beat.Proofs(), beat.Engagement)
		beat.CurrentValue = beat.FinalValue
		if beat.FinalValue > beat.PeakValue {
			beat.PeakValue = beat.FinalValue
		}
		if scoring.IsTrending(beat.FinalValue, beat.InitialValue) {
			beat.Trending = true
		}

		if err := tx.Save(beat).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		valueDelta := beat.FinalValue - previousValue
		p.BeatsValue += valueDelta
		if beat.PeakValue > p.BeatStats.PeakValue {
			p.BeatStats.PeakValue = beat.PeakValue
		}
		if beat.Trending && !wasTrending {
			p.BeatStats.TrendingBeats++
		}

		updated = beat
		if valueDelta == 0 {
			return nil, nil
		}
		return []models.ScoreLedgerEntry{{
			Stage:       models.LedgerStageBeats,
			Delta:       valueDelta,
			Reason:      "engagement resync",
			ReferenceID: beat.BeatID,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddOnChainProof satisfies one proof type on a Beat. Each proof type can be
// earned once; repeating a satisfied proof is a no-op, not an error.
func (s *beatService) AddOnChainProof(userID, beatID string, proofType models.ProofType) (*models.Beat, error) {
	var updated *models.Beat
	err := mutateAggregate(s.db, userID, func(tx *gorm.DB, p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
		beat, err := s.getForUpdate(tx, userID, beatID)
		if err != nil {
			return nil, err
		}

		if beat.HasProof(proofType) {
			updated = beat
			return nil, nil
		}

		previousValue := beat.FinalValue
		beat.SetProof(proofType, time.Now())
		beat.FinalValue = scoring.BeatValue(beat.SparksInherited, beat.Proofs(), beat.Engagement)
		beat.CurrentValue = beat.FinalValue
		if beat.FinalValue > beat.PeakValue {
			beat.PeakValue = beat.FinalValue
		}
		if scoring.IsTrending(beat.FinalValue, beat.InitialValue) {
			beat.Trending = true
		}

		if err := tx.Save(beat).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		valueDelta := beat.FinalValue - previousValue
		p.BeatsValue += valueDelta
		p.BeatStats.TotalProofs++
		if beat.PeakValue > p.BeatStats.PeakValue {
			p.BeatStats.PeakValue = beat.PeakValue
		}
		bumpProofStats(&p.ProofStats, proofType, 1)

		updated = beat
		return []models.ScoreLedgerEntry{{
			Stage:       models.LedgerStageBeats,
			Delta:       valueDelta,
			Reason:      "onchain proof " + string(proofType),
			ReferenceID: beat.BeatID,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteBeat removes a Beat at the user's request and reverses its
// contribution to the profile aggregates.
func (s *beatService) DeleteBeat(userID, beatID string) error {
	return mutateAggregate(s.db, userID, func(tx *gorm.DB, p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
		beat, err := s.getForUpdate(tx, userID, beatID)
		if err != nil {
			return nil, err
		}

		if err := tx.Delete(beat).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		p.TotalBeats--
		p.BeatsValue -= beat.FinalValue
		if beat.Status == models.BeatStatusActive {
			p.BeatStats.ActiveBeats--
		}
		if beat.Trending && p.BeatStats.TrendingBeats > 0 {
			p.BeatStats.TrendingBeats--
		}
		for _, proof := range beat.Proofs() {
			p.BeatStats.TotalProofs--
			bumpProofStats(&p.ProofStats, proof, -1)
		}

		return []models.ScoreLedgerEntry{{
			Stage:       models.LedgerStageBeats,
			Delta:       -beat.FinalValue,
			Reason:      "beat removed",
			ReferenceID: beat.BeatID,
		}}, nil
	})
}

// AnalyzePerformance summarizes a Beat's value trajectory for the caller.
func (s *beatService) AnalyzePerformance(userID, beatID string) (*BeatPerformanceAnalysis, error) {
	beat, err := s.GetBeatByID(userID, beatID)
	if err != nil {
		return nil, err
	}

	var valueGrowth float64
	if beat.InitialValue > 0 {
		valueGrowth = (beat.FinalValue - beat.InitialValue) / beat.InitialValue * 100
	}

	var rank int64
	if err := s.db.Model(&models.Beat{}).
		Where("user_id = ? AND final_value > ?", userID, beat.FinalValue).
		Count(&rank).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var opportunities []OnchainOpportunity
	for _, proof := range models.ProofTypes {
		if !beat.HasProof(proof) {
			opportunities = append(opportunities, OnchainOpportunity{
				ProofType: proof,
				Bonus:     scoring.ProofBonus(proof),
			})
		}
	}

	var actions []string
	if len(opportunities) > 0 {
		actions = append(actions, "Complete remaining onchain proofs to raise the value multiplier")
	}
	if scoring.PerformanceBonus(beat.Engagement) < 0.20 {
		actions = append(actions, "Promote this content; the performance bonus has headroom")
	}
	if !beat.Trending {
		actions = append(actions, "Value has not reached the trending multiple yet")
	}

	return &BeatPerformanceAnalysis{
		CurrentValue:         beat.FinalValue,
		ValueGrowth:          valueGrowth,
		Trending:             beat.Trending,
		PerformanceRank:      int(rank) + 1,
		RecommendedActions:   actions,
		OnchainOpportunities: opportunities,
	}, nil
}

// getForUpdate loads a Beat inside a mutation transaction.
func (s *beatService) getForUpdate(tx *gorm.DB, userID, beatID string) (*models.Beat, error) {
	var beat models.Beat
	err := tx.Where("user_id = ? AND (id = ? OR beat_id = ?)", userID, beatID, beatID).First(&beat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBeatNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &beat, nil
}

// bumpProofStats adjusts the per-proof counter on the profile.
func bumpProofStats(stats *models.ProofStats, proof models.ProofType, by int) {
	switch proof {
	case models.ProofOfPost:
		stats.ProofOfPost += by
	case models.ProofOfHold:
		stats.ProofOfHold += by
	case models.ProofOfUse:
		stats.ProofOfUse += by
	case models.ProofOfSupport:
		stats.ProofOfSupport += by
	}
}
