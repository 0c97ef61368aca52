package services

import (
	"errors"
	"testing"

	"wavz/internal/models"
	"wavz/internal/pagination"
	"wavz/internal/testutil"
)

func TestGetProfile(t *testing.T) {
	t.Run("created_lazily_on_first_read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)

		profile, err := svc.GetProfile(user.ID)
		testutil.AssertNoError(t, err)

		if profile.Level != 1 {
			t.Errorf("expected level 1, got %d", profile.Level)
		}
		if profile.LevelName != "Pulse" {
			t.Errorf("expected level name Pulse, got %s", profile.LevelName)
		}
		testutil.AssertFloatEquals(t, 0, profile.Sparks, "sparks")

		// A second read returns the same row.
		again, err := svc.GetProfile(user.ID)
		testutil.AssertNoError(t, err)
		if again.ID != profile.ID {
			t.Error("expected the same profile row on repeat reads")
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		_, err := svc.GetProfile("00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestMutate(t *testing.T) {
	t.Run("persists_changes_and_bumps_version", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.Mutate(user.ID, func(p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
			p.CPoints += 100
			return []models.ScoreLedgerEntry{{
				Stage: models.LedgerStageCPoints,
				Delta: 100,
			}}, nil
		})
		testutil.AssertNoError(t, err)

		var profile models.WavzProfile
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
		testutil.AssertFloatEquals(t, 100, profile.CPoints, "cPoints")
		if profile.Version != 1 {
			t.Errorf("expected version 1 after first mutation, got %d", profile.Version)
		}

		err = svc.Mutate(user.ID, func(p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
			p.CPoints += 50
			return nil, nil
		})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
		testutil.AssertFloatEquals(t, 150, profile.CPoints, "cPoints after second mutation")
		if profile.Version != 2 {
			t.Errorf("expected version 2, got %d", profile.Version)
		}
	})

	t.Run("mutation_error_rolls_back_everything", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestProfile(t, db, user.ID)

		err := svc.Mutate(user.ID, func(p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
			p.CPoints += 100
			return nil, errors.New("boom")
		})
		if err == nil {
			t.Fatal("expected mutation error to propagate")
		}

		var profile models.WavzProfile
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
		testutil.AssertFloatEquals(t, 0, profile.CPoints, "cPoints unchanged")
		if profile.Version != 0 {
			t.Errorf("expected version unchanged, got %d", profile.Version)
		}
	})

	t.Run("ledger_entries_carry_the_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.Mutate(user.ID, func(p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
			p.Sparks = 42
			return []models.ScoreLedgerEntry{{Stage: models.LedgerStageSparks, Delta: 42}}, nil
		})
		testutil.AssertNoError(t, err)

		var entries []models.ScoreLedgerEntry
		db.Find(&entries)
		if len(entries) != 1 {
			t.Fatalf("expected 1 ledger entry, got %d", len(entries))
		}
		if entries[0].UserID != user.ID {
			t.Errorf("expected user %s on entry, got %s", user.ID, entries[0].UserID)
		}
		if entries[0].RecordedAt.IsZero() {
			t.Error("expected recorded_at to be stamped")
		}
	})
}

func TestGetLedger(t *testing.T) {
	t.Run("newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)

		for _, delta := range []float64{10, 20, 30} {
			d := delta
			err := svc.Mutate(user.ID, func(p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
				p.CPoints += d
				return []models.ScoreLedgerEntry{{Stage: models.LedgerStageCPoints, Delta: d}}, nil
			})
			testutil.AssertNoError(t, err)
		}

		page, err := svc.GetLedger(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Fatalf("expected 3 ledger entries, got %d", page.TotalItems)
		}
		testutil.AssertFloatEquals(t, 30, page.Data[0].Delta, "newest entry first")
	})
}

func TestRebuildAggregates(t *testing.T) {
	t.Run("replays_the_ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		user := testutil.CreateTestUser(t, db)

		deltas := map[models.LedgerStage]float64{
			models.LedgerStageCPoints: 500,
			models.LedgerStageSparks:  1200,
			models.LedgerStageBeats:   300,
		}
		for stage, delta := range deltas {
			st, d := stage, delta
			err := svc.Mutate(user.ID, func(p *models.WavzProfile) ([]models.ScoreLedgerEntry, error) {
				return []models.ScoreLedgerEntry{{Stage: st, Delta: d}}, nil
			})
			testutil.AssertNoError(t, err)
		}

		// Corrupt the projection, then rebuild it from the ledger.
		db.Model(&models.WavzProfile{}).Where("user_id = ?", user.ID).
			Updates(map[string]interface{}{"c_points": 9999, "sparks": 9999, "beats_value": 9999})

		rebuilt, err := svc.RebuildAggregates(user.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertFloatEquals(t, 500, rebuilt.CPoints, "cPoints")
		testutil.AssertFloatEquals(t, 1200, rebuilt.Sparks, "sparks")
		testutil.AssertFloatEquals(t, 300, rebuilt.BeatsValue, "beats value")
		if rebuilt.Level != 2 {
			t.Errorf("expected level 2 at 1200 sparks, got %d", rebuilt.Level)
		}
	})
}
