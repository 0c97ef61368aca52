package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "wavz/internal/errors"
	"wavz/internal/models"
	"wavz/internal/pagination"
	"wavz/internal/scoring"
)

// casRetries bounds how often a profile mutation is retried after losing an
// optimistic-concurrency race before surfacing ErrConcurrencyConflict.
const casRetries = 3

// profileService owns the WavzProfile aggregate and the score ledger.
type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(db *gorm.DB) ProfileServicer {
	return &profileService{db: db}
}

// GetProfile returns the user's profile, creating an empty one on first read.
func (s *profileService) GetProfile(userID string) (*models.WavzProfile, error) {
	return getOrCreateProfile(s.db, userID)
}

// getOrCreateProfile loads the profile row for a user, initializing a level-1
// zero profile when none exists yet.
func getOrCreateProfile(tx *gorm.DB, userID string) (*models.WavzProfile, error) {
	var profile models.WavzProfile
	err := tx.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	tx.Model(&models.User{}).Where("id = ?", userID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	profile = models.WavzProfile{
		UserID:       userID,
		Level:        1,
		LevelName:    "Pulse",
		CreatorStats: map[models.Platform]models.EngagementTotals{},
	}
	if err := tx.Create(&profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// profileColumns are the aggregate fields written by every CAS update. The
// explicit select forces zero values through and keeps the version bump in
// the same statement as the compare.
var profileColumns = []string{
	"sparks", "c_points", "level", "level_name", "level_progress",
	"creator_stats", "proof_stats", "total_beats", "beats_value", "beat_stats",
	"version", "updated_at",
}

// Mutate applies fn to the freshly loaded profile and persists it with a
// compare-and-swap on the version column, appending fn's ledger entries in
// the same transaction. The whole attempt is retried on a lost race so fn
// always sees the latest persisted value, never a cached copy.
func (s *profileService) Mutate(userID string, fn ProfileMutation) error {
	return mutateAggregate(s.db, userID, func(tx *gorm.DB, p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
		return fn(p)
	})
}

// mutateAggregate is the shared read-increment-write path for every pipeline
// stage that touches the WavzProfile. One transaction per attempt: fn may
// perform additional stage writes (history rows, Beat rows) in tx and mutate
// the freshly loaded profile; the profile is then compare-and-swapped on its
// version column and fn's ledger entries are appended. A lost race rolls the
// whole attempt back and retries, so no stage ever commits a partial sum.
func mutateAggregate(db *gorm.DB, userID string, fn func(tx *gorm.DB, p *models.WavzProfile) ([]models.ScoreLedgerEntry, error)) error {
	for attempt := 0; attempt < casRetries; attempt++ {
		swapped, err := tryMutateAggregate(db, userID, fn)
		if err != nil {
			return err
		}
		if swapped {
			return nil
		}
	}
	return apperrors.ErrConcurrencyConflict
}

func tryMutateAggregate(db *gorm.DB, userID string, fn func(tx *gorm.DB, p *models.WavzProfile) ([]models.ScoreLedgerEntry, error)) (bool, error) {
	swapped := false
	err := db.Transaction(func(tx *gorm.DB) error {
		profile, err := getOrCreateProfile(tx, userID)
		if err != nil {
			return err
		}

		expectedVersion := profile.Version
		entries, err := fn(tx, profile)
		if err != nil {
			return err
		}

		profile.Version = expectedVersion + 1
		res := applyProfileUpdate(tx, profile, expectedVersion)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race; roll back and let the caller retry.
			return errStaleProfile
		}

		for i := range entries {
			entries[i].UserID = userID
			if err := tx.Create(&entries[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		swapped = true
		return nil
	})

	if errors.Is(err, errStaleProfile) {
		return false, nil
	}
	return swapped, err
}

// errStaleProfile signals a lost CAS race inside a mutation transaction.
var errStaleProfile = errors.New("profile version is stale")

// applyProfileUpdate writes all aggregate columns guarded by the version
// compare.
func applyProfileUpdate(tx *gorm.DB, profile *models.WavzProfile, expectedVersion int64) *gorm.DB {
	return tx.Model(&models.WavzProfile{}).
		Where("id = ? AND version = ?", profile.ID, expectedVersion).
		Select(profileColumns).
		Updates(profile)
}

// GetLedger returns the user's score ledger, newest first.
func (s *profileService) GetLedger(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.ScoreLedgerEntry], error) {
	page.Defaults()

	base := s.db.Model(&models.ScoreLedgerEntry{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.ScoreLedgerEntry
	if err := base.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RebuildAggregates replays the score ledger into the cPoints, Sparks, and
// Beat-value aggregates. The profile is a projection of the ledger; this is
// the recovery path when the two ever diverge.
func (s *profileService) RebuildAggregates(userID string) (*models.WavzProfile, error) {
	var entries []models.ScoreLedgerEntry
	if err := s.db.Where("user_id = ?", userID).Order("recorded_at ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cPoints, sparks, beatsValue float64
	for _, e := range entries {
		switch e.Stage {
		case models.LedgerStageCPoints:
			cPoints += e.Delta
		case models.LedgerStageSparks:
			sparks += e.Delta
		case models.LedgerStageBeats:
			beatsValue += e.Delta
		}
	}

	var rebuilt *models.WavzProfile
	err := s.Mutate(userID, func(p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
		p.CPoints = cPoints
		p.Sparks = sparks
		p.BeatsValue = beatsValue
		applyLevel(p, scoring.ResolveLevel(p.Level, sparks))
		rebuilt = p
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return rebuilt, nil
}

// applyLevel writes a resolved level onto the profile.
func applyLevel(p *models.WavzProfile, info scoring.LevelInfo) {
	p.Level = info.Level
	p.LevelName = info.Name
	p.LevelProgress = info.Progress
}
