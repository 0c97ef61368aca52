package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"wavz/internal/insightiq"
	"wavz/internal/models"
	"wavz/internal/testutil"
)

// fakeInsightClient serves canned content for sync tests.
type fakeInsightClient struct {
	content []insightiq.ContentItem
	profile insightiq.Profile
	err     error
}

func (f *fakeInsightClient) GetAccountContent(_ context.Context, _ string) ([]insightiq.ContentItem, error) {
	return f.content, f.err
}

func (f *fakeInsightClient) GetProfile(_ context.Context, _ string) (*insightiq.Profile, error) {
	return &f.profile, nil
}

type syncFixture struct {
	fake    *fakeInsightClient
	svc     SyncServicer
	db      *gorm.DB
	user    *models.User
	account *models.ConnectedAccount
}

func newSyncFixture(t *testing.T) (*syncFixture, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID, models.PlatformYouTube)

	fake := &fakeInsightClient{profile: insightiq.Profile{FollowerCount: 1234, Username: "creator"}}
	svc := NewSyncService(db, fake,
		NewAccountService(db),
		NewSnapshotService(db),
		NewCPointsService(db),
		NewSparksService(db),
	)
	f := &syncFixture{fake: fake, svc: svc, db: db, user: user, account: account}
	return f, func() { testutil.TeardownTestDB(t, db) }
}

func TestSyncAccount(t *testing.T) {
	t.Run("full_pipeline", func(t *testing.T) {
		f, teardown := newSyncFixture(t)
		defer teardown()

		f.fake.content = []insightiq.ContentItem{
			{LikeCount: 60, CommentCount: 10, ViewCount: 3000},
			{LikeCount: 40, CommentCount: 10, ViewCount: 2000},
		}

		result, err := f.svc.SyncAccount(context.Background(), f.user.ID, f.account.ID)
		testutil.AssertNoError(t, err)

		if result.Skipped {
			t.Fatal("expected sync to run with content present")
		}
		if result.ContentCount != 2 {
			t.Errorf("expected 2 content items, got %d", result.ContentCount)
		}
		if result.Delta.Likes != 100 || result.Delta.Views != 5000 {
			t.Errorf("expected first-sync delta equal to totals, got %+v", result.Delta)
		}
		if result.CPointsAwarded <= 0 {
			t.Error("expected cPoints awarded for engaged content")
		}
		if result.TotalSparks <= 0 {
			t.Error("expected Sparks generated")
		}

		// The snapshot row records the pipeline outcome.
		var snapshot models.EngagementSnapshot
		testutil.AssertNoError(t,
			f.db.Where("user_id = ?", f.user.ID).First(&snapshot).Error)
		if snapshot.Snapshot.Likes != 100 {
			t.Errorf("expected 100 total likes on snapshot, got %d", snapshot.Snapshot.Likes)
		}
		if snapshot.ContentCount != 2 {
			t.Errorf("expected content count 2, got %d", snapshot.ContentCount)
		}
		testutil.AssertFloatEquals(t, result.CPointsAwarded, snapshot.CPointsAwarded, "snapshot awarded")

		// Account bookkeeping updated.
		var reloaded models.ConnectedAccount
		testutil.AssertNoError(t,
			f.db.Where("id = ?", f.account.ID).First(&reloaded).Error)
		if reloaded.SyncCount != 1 {
			t.Errorf("expected sync count 1, got %d", reloaded.SyncCount)
		}
		if reloaded.LastSyncedAt == nil {
			t.Error("expected last synced timestamp")
		}
		if reloaded.FollowerCount != 1234 {
			t.Errorf("expected follower count refreshed, got %d", reloaded.FollowerCount)
		}
	})

	t.Run("second_sync_scores_only_the_delta", func(t *testing.T) {
		f, teardown := newSyncFixture(t)
		defer teardown()

		f.fake.content = []insightiq.ContentItem{{LikeCount: 100, ViewCount: 5000}}
		first, err := f.svc.SyncAccount(context.Background(), f.user.ID, f.account.ID)
		testutil.AssertNoError(t, err)
		if first.Delta.Likes != 100 {
			t.Fatalf("expected first delta 100 likes, got %d", first.Delta.Likes)
		}

		f.fake.content = []insightiq.ContentItem{{LikeCount: 130, ViewCount: 6000}}
		second, err := f.svc.SyncAccount(context.Background(), f.user.ID, f.account.ID)
		testutil.AssertNoError(t, err)

		if second.Delta.Likes != 30 || second.Delta.Views != 1000 {
			t.Errorf("expected delta 30 likes / 1000 views, got %d/%d",
				second.Delta.Likes, second.Delta.Views)
		}
	})

	t.Run("api_counter_reset_reads_as_zero_delta", func(t *testing.T) {
		f, teardown := newSyncFixture(t)
		defer teardown()

		f.fake.content = []insightiq.ContentItem{{LikeCount: 100, ViewCount: 5000}}
		_, err := f.svc.SyncAccount(context.Background(), f.user.ID, f.account.ID)
		testutil.AssertNoError(t, err)

		// Provider reports fewer likes than before; the delta clamps at zero
		// instead of going negative.
		f.fake.content = []insightiq.ContentItem{{LikeCount: 80, ViewCount: 5500}}
		result, err := f.svc.SyncAccount(context.Background(), f.user.ID, f.account.ID)
		testutil.AssertNoError(t, err)

		if result.Delta.Likes != 0 {
			t.Errorf("expected clamped zero like delta, got %d", result.Delta.Likes)
		}
		if result.Delta.Views != 500 {
			t.Errorf("expected 500 view delta, got %d", result.Delta.Views)
		}
	})

	t.Run("no_accessible_content_skips", func(t *testing.T) {
		f, teardown := newSyncFixture(t)
		defer teardown()

		f.fake.content = nil
		result, err := f.svc.SyncAccount(context.Background(), f.user.ID, f.account.ID)
		testutil.AssertNoError(t, err)

		if !result.Skipped {
			t.Fatal("expected sync to be skipped with no content")
		}

		var count int64
		f.db.Model(&models.EngagementSnapshot{}).Where("user_id = ?", f.user.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected no snapshot rows, got %d", count)
		}
	})

	t.Run("unknown_account", func(t *testing.T) {
		f, teardown := newSyncFixture(t)
		defer teardown()

		_, err := f.svc.SyncAccount(context.Background(), f.user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}
