package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"wavz/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("creator%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:       email,
		Password:    string(hash),
		DisplayName: fmt.Sprintf("Creator %d", counter.Load()),
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates a connected account on the given platform.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string, platform models.Platform) *models.ConnectedAccount {
	t.Helper()

	n := nextID()
	account := &models.ConnectedAccount{
		UserID:    userID,
		Platform:  platform,
		AccountID: fmt.Sprintf("acct_%d", n),
		Username:  fmt.Sprintf("creator_%d", n),
		IsActive:  true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestProfile creates a level-1 Wavz profile for the user.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID string) *models.WavzProfile {
	t.Helper()

	profile := &models.WavzProfile{
		UserID:       userID,
		Level:        1,
		LevelName:    "Pulse",
		CreatorStats: map[models.Platform]models.EngagementTotals{},
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestSnapshot appends an engagement snapshot for the account.
func CreateTestSnapshot(t *testing.T, db *gorm.DB, userID, accountID string, platform models.Platform, totals models.EngagementTotals) *models.EngagementSnapshot {
	t.Helper()

	snapshot := &models.EngagementSnapshot{
		UserID:    userID,
		AccountID: accountID,
		Platform:  platform,
		SyncedAt:  time.Now(),
		Snapshot:  totals,
	}
	if err := db.Create(snapshot).Error; err != nil {
		t.Fatalf("failed to create test snapshot: %v", err)
	}
	return snapshot
}

// CreateTestCPointsHistory creates a processed cPoints calculation with the
// given awarded points, dated so that the most recently created row has the
// newest processed_at.
func CreateTestCPointsHistory(t *testing.T, db *gorm.DB, userID string, platform models.Platform, awarded float64) *models.CPointsHistory {
	t.Helper()

	n := nextID()
	processedAt := time.Now().Add(time.Duration(n) * time.Second)
	start := processedAt.Truncate(24 * time.Hour)
	row := &models.CPointsHistory{
		UserID:         userID,
		Platform:       platform,
		AccountID:      fmt.Sprintf("acct_%d", n),
		Period:         models.CalcPeriodDaily,
		PeriodStart:    start,
		PeriodEnd:      start.AddDate(0, 0, 1),
		CPointsAwarded: awarded,
		Status:         models.CPointsStatusProcessed,
		ProcessedAt:    &processedAt,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test cpoints history: %v", err)
	}
	return row
}

// CreateTestBeat creates an active Beat with the given inherited Sparks.
func CreateTestBeat(t *testing.T, db *gorm.DB, userID string, platform models.Platform, inherited float64) *models.Beat {
	t.Helper()

	n := nextID()
	beat := &models.Beat{
		BeatID:          fmt.Sprintf("beat_test_%d", n),
		UserID:          userID,
		Platform:        platform,
		ContentID:       fmt.Sprintf("content_%d", n),
		SparksInherited: inherited,
		InitialValue:    inherited,
		FinalValue:      inherited,
		CurrentValue:    inherited,
		PeakValue:       inherited,
		Status:          models.BeatStatusActive,
		Metadata: models.BeatMetadata{
			ContentType: "video",
			PostedAt:    time.Now(),
		},
	}
	if err := db.Create(beat).Error; err != nil {
		t.Fatalf("failed to create test beat: %v", err)
	}
	return beat
}
