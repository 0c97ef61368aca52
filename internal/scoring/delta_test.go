package scoring

import (
	"testing"

	"wavz/internal/models"
)

func TestComputeDelta(t *testing.T) {
	t.Run("monotonic_counters_yield_exact_difference", func(t *testing.T) {
		previous := models.EngagementTotals{Likes: 100, Comments: 10, Views: 5000, WatchTimeHours: 12.5}
		current := models.EngagementTotals{Likes: 180, Comments: 25, Views: 9000, WatchTimeHours: 20}

		delta := ComputeDelta(current, previous)

		if delta.Likes != 80 {
			t.Errorf("expected likes delta 80, got %d", delta.Likes)
		}
		if delta.Comments != 15 {
			t.Errorf("expected comments delta 15, got %d", delta.Comments)
		}
		if delta.Views != 4000 {
			t.Errorf("expected views delta 4000, got %d", delta.Views)
		}
		if delta.WatchTimeHours != 7.5 {
			t.Errorf("expected watch time delta 7.5, got %f", delta.WatchTimeHours)
		}
	})

	t.Run("metric_corrections_clamp_to_zero", func(t *testing.T) {
		previous := models.EngagementTotals{Likes: 100, Comments: 50, Views: 10000, Shares: 5, WatchTimeHours: 30}
		current := models.EngagementTotals{Likes: 80, Comments: 40, Views: 9000, Shares: 2, WatchTimeHours: 25}

		delta := ComputeDelta(current, previous)

		if !delta.IsZero() {
			t.Errorf("expected fully clamped delta, got %+v", delta)
		}
	})

	t.Run("mixed_fields_clamp_independently", func(t *testing.T) {
		previous := models.EngagementTotals{Likes: 100, Views: 10000}
		current := models.EngagementTotals{Likes: 90, Views: 12000}

		delta := ComputeDelta(current, previous)

		if delta.Likes != 0 {
			t.Errorf("expected likes clamped to 0, got %d", delta.Likes)
		}
		if delta.Views != 2000 {
			t.Errorf("expected views delta 2000, got %d", delta.Views)
		}
	})

	t.Run("first_sync_counts_entire_total_as_new", func(t *testing.T) {
		current := models.EngagementTotals{Likes: 50}

		delta := ComputeDelta(current, models.EngagementTotals{})

		if delta.Likes != 50 {
			t.Errorf("expected likes delta 50, got %d", delta.Likes)
		}
	})
}

func TestEngagementRate(t *testing.T) {
	t.Run("zero_views_scores_zero", func(t *testing.T) {
		if rate := EngagementRate(models.EngagementTotals{Likes: 100}); rate != 0 {
			t.Errorf("expected 0, got %f", rate)
		}
	})

	t.Run("interactions_per_hundred_views", func(t *testing.T) {
		rate := EngagementRate(models.EngagementTotals{Likes: 30, Comments: 15, Shares: 5, Views: 1000})
		if rate != 5.0 {
			t.Errorf("expected 5.0, got %f", rate)
		}
	})
}
