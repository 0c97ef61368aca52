package services

import (
	"testing"

	"wavz/internal/models"
	"wavz/internal/testutil"
)

func TestRefreshSparks(t *testing.T) {
	t.Run("empty_history_yields_zero_at_level_one", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSparksService(db)
		user := testutil.CreateTestUser(t, db)

		result, err := svc.RefreshSparks(user.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertFloatEquals(t, 0, result.TotalSparks, "total sparks")
		if result.LevelInfo.Level != 1 {
			t.Errorf("expected level 1, got %d", result.LevelInfo.Level)
		}
		if len(result.Breakdown) != 0 {
			t.Errorf("expected empty breakdown, got %d entries", len(result.Breakdown))
		}
	})

	t.Run("recent_youtube_history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSparksService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestCPointsHistory(t, db, user.ID, models.PlatformYouTube, 500)

		result, err := svc.RefreshSparks(user.ID)
		testutil.AssertNoError(t, err)

		// 500 cPoints at full recency, youtube sustainability 1.3, neutral
		// cadence for a single entry.
		testutil.AssertFloatEquals(t, 650, result.TotalSparks, "total sparks")
		testutil.AssertFloatEquals(t, 1.0, result.ConsistencyMultiplier, "cadence multiplier")

		var profile models.WavzProfile
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
		testutil.AssertFloatEquals(t, 650, profile.Sparks, "profile sparks")

		var ledger []models.ScoreLedgerEntry
		db.Where("user_id = ? AND stage = ?", user.ID, models.LedgerStageSparks).Find(&ledger)
		if len(ledger) != 1 {
			t.Fatalf("expected 1 sparks ledger entry, got %d", len(ledger))
		}
		testutil.AssertFloatEquals(t, 650, ledger[0].Delta, "ledger delta")
	})

	t.Run("refresh_overwrites_and_ledgers_the_delta", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSparksService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestCPointsHistory(t, db, user.ID, models.PlatformYouTube, 500)
		_, err := svc.RefreshSparks(user.ID)
		testutil.AssertNoError(t, err)

		testutil.CreateTestCPointsHistory(t, db, user.ID, models.PlatformYouTube, 500)
		result, err := svc.RefreshSparks(user.ID)
		testutil.AssertNoError(t, err)

		// Two entries seconds apart read as daily-or-better cadence: the
		// 1.5x multiplier applies to the whole sum.
		testutil.AssertFloatEquals(t, 1.5, result.ConsistencyMultiplier, "cadence multiplier")
		testutil.AssertFloatEquals(t, 1950, result.TotalSparks, "total sparks")

		var profile models.WavzProfile
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
		testutil.AssertFloatEquals(t, 1950, profile.Sparks, "profile sparks")

		// The second refresh ledgers only the difference from the first.
		var ledger []models.ScoreLedgerEntry
		db.Where("user_id = ? AND stage = ?", user.ID, models.LedgerStageSparks).
			Order("recorded_at ASC").Find(&ledger)
		if len(ledger) != 2 {
			t.Fatalf("expected 2 sparks ledger entries, got %d", len(ledger))
		}
		testutil.AssertFloatEquals(t, 1950-650, ledger[1].Delta, "second ledger delta")
	})

	t.Run("level_advances_with_sparks", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSparksService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestCPointsHistory(t, db, user.ID, models.PlatformYouTube, 1000)

		result, err := svc.RefreshSparks(user.ID)
		testutil.AssertNoError(t, err)

		// 1300 Sparks clears the 1000 threshold.
		if result.LevelInfo.Level != 2 {
			t.Errorf("expected level 2, got %d", result.LevelInfo.Level)
		}
		if result.LevelInfo.Name != "Rhythm" {
			t.Errorf("expected level name Rhythm, got %s", result.LevelInfo.Name)
		}

		var profile models.WavzProfile
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
		if profile.Level != 2 {
			t.Errorf("expected profile level 2, got %d", profile.Level)
		}
	})

	t.Run("level_never_regresses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSparksService(db)
		user := testutil.CreateTestUser(t, db)
		profile := testutil.CreateTestProfile(t, db, user.ID)

		// Simulate a tier earned under an earlier history.
		db.Model(profile).Updates(map[string]interface{}{"level": 3, "level_name": "Harmony"})

		testutil.CreateTestCPointsHistory(t, db, user.ID, models.PlatformYouTube, 100)
		result, err := svc.RefreshSparks(user.ID)
		testutil.AssertNoError(t, err)

		if result.LevelInfo.Level != 3 {
			t.Errorf("expected level held at 3, got %d", result.LevelInfo.Level)
		}

		var reloaded models.WavzProfile
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&reloaded).Error)
		if reloaded.Level != 3 {
			t.Errorf("expected profile level held at 3, got %d", reloaded.Level)
		}
	})
}

func TestGetSparks(t *testing.T) {
	t.Run("does_not_mutate_profile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSparksService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestCPointsHistory(t, db, user.ID, models.PlatformYouTube, 500)

		result, err := svc.GetSparks(user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertFloatEquals(t, 650, result.TotalSparks, "total sparks")

		var count int64
		db.Model(&models.WavzProfile{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 0 {
			t.Error("read path should not create a profile")
		}
	})

	t.Run("read_holds_the_stored_tier", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSparksService(db)
		user := testutil.CreateTestUser(t, db)
		profile := testutil.CreateTestProfile(t, db, user.ID)

		// A tier earned under an earlier, richer history.
		db.Model(profile).Updates(map[string]interface{}{"level": 3, "level_name": "Harmony"})

		testutil.CreateTestCPointsHistory(t, db, user.ID, models.PlatformYouTube, 100)
		result, err := svc.GetSparks(user.ID)
		testutil.AssertNoError(t, err)

		// 130 sparks alone would read as level 1; the stored tier wins.
		if result.LevelInfo.Level != 3 {
			t.Errorf("expected level held at 3, got %d", result.LevelInfo.Level)
		}
	})
}
