package services

import (
	"testing"

	"wavz/internal/models"
	"wavz/internal/pagination"
	"wavz/internal/testutil"
)

func TestConnectAccount(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.ConnectAccount(user.ID, models.PlatformYouTube, "yt-123", "creator")
		testutil.AssertNoError(t, err)

		if account.ID == "" {
			t.Fatal("expected non-empty account ID")
		}
		if account.Platform != models.PlatformYouTube {
			t.Errorf("expected youtube, got %s", account.Platform)
		}
		if !account.IsActive {
			t.Error("expected account to be active")
		}
	})

	t.Run("duplicate_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ConnectAccount(user.ID, models.PlatformYouTube, "yt-123", "creator")
		testutil.AssertNoError(t, err)

		_, err = svc.ConnectAccount(user.ID, models.PlatformYouTube, "yt-123", "creator")
		testutil.AssertAppError(t, err, "DUPLICATE_ACCOUNT")
	})

	t.Run("same_account_on_other_platform_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ConnectAccount(user.ID, models.PlatformYouTube, "handle-1", "creator")
		testutil.AssertNoError(t, err)
		_, err = svc.ConnectAccount(user.ID, models.PlatformTikTok, "handle-1", "creator")
		testutil.AssertNoError(t, err)
	})

	t.Run("platform_is_normalized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.ConnectAccount(user.ID, models.Platform("YouTube"), "yt-123", "creator")
		testutil.AssertNoError(t, err)
		if account.Platform != models.PlatformYouTube {
			t.Errorf("expected normalized platform youtube, got %s", account.Platform)
		}
	})

	t.Run("unrecognized_platform_still_connects", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.ConnectAccount(user.ID, models.Platform("threads"), "th-1", "creator")
		testutil.AssertNoError(t, err)
		if account.Platform != models.Platform("threads") {
			t.Errorf("expected threads, got %s", account.Platform)
		}
	})

	t.Run("missing_account_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ConnectAccount(user.ID, models.PlatformYouTube, "", "creator")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetAccountByID(t *testing.T) {
	t.Run("scoped_to_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, owner.ID, models.PlatformYouTube)

		found, err := svc.GetAccountByID(owner.ID, account.ID)
		testutil.AssertNoError(t, err)
		if found.ID != account.ID {
			t.Errorf("expected account %s, got %s", account.ID, found.ID)
		}

		_, err = svc.GetAccountByID(other.ID, account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestGetUserAccounts(t *testing.T) {
	t.Run("paginated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestAccount(t, db, user.ID, models.PlatformYouTube)
		testutil.CreateTestAccount(t, db, user.ID, models.PlatformTikTok)

		page, err := svc.GetUserAccounts(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 accounts, got %d", page.TotalItems)
		}
	})
}
