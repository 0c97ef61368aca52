// Package scoring implements the Wavz calculation pipeline as pure functions:
// engagement deltas, the cPoints quality formula, the cPoints-to-Sparks
// conversion, the level table, and Beat valuation. Nothing in this package
// touches the database; services load state, call in here, and persist the
// results. Every formula has exactly one implementation in this package.
package scoring

import (
	"math"

	"wavz/internal/models"
)

// ComputeDelta returns the componentwise engagement increase from previous to
// current, clamped at zero. Platform-side metric corrections (content removed,
// bot filtering) can lower a cumulative counter; those decreases must never
// underflow into negative points.
//
// First-sync policy: callers with no prior snapshot pass a zero-value previous,
// which makes the entire current total count as new.
func ComputeDelta(current, previous models.EngagementTotals) models.EngagementTotals {
	return models.EngagementTotals{
		Likes:          clampInt64(current.Likes - previous.Likes),
		Dislikes:       clampInt64(current.Dislikes - previous.Dislikes),
		Comments:       clampInt64(current.Comments - previous.Comments),
		Views:          clampInt64(current.Views - previous.Views),
		Shares:         clampInt64(current.Shares - previous.Shares),
		Saves:          clampInt64(current.Saves - previous.Saves),
		WatchTimeHours: clampFloat(current.WatchTimeHours - previous.WatchTimeHours),
		Impressions:    clampInt64(current.Impressions - previous.Impressions),
		Reach:          clampInt64(current.Reach - previous.Reach),
		Posts:          clampInt64(current.Posts - previous.Posts),
	}
}

// MergeTotals takes the componentwise maximum of two cumulative totals.
// Beats merge resynced engagement this way so a platform-side metric
// correction never shrinks an already observed counter.
func MergeTotals(a, b models.EngagementTotals) models.EngagementTotals {
	return models.EngagementTotals{
		Likes:          maxInt64(a.Likes, b.Likes),
		Dislikes:       maxInt64(a.Dislikes, b.Dislikes),
		Comments:       maxInt64(a.Comments, b.Comments),
		Views:          maxInt64(a.Views, b.Views),
		Shares:         maxInt64(a.Shares, b.Shares),
		Saves:          maxInt64(a.Saves, b.Saves),
		WatchTimeHours: math.Max(a.WatchTimeHours, b.WatchTimeHours),
		Impressions:    maxInt64(a.Impressions, b.Impressions),
		Reach:          maxInt64(a.Reach, b.Reach),
		Posts:          maxInt64(a.Posts, b.Posts),
	}
}

// TotalInteractions sums the active engagement counters (views excluded).
func TotalInteractions(t models.EngagementTotals) int64 {
	return t.Likes + t.Dislikes + t.Comments + t.Shares + t.Saves
}

// EngagementRate returns interactions per hundred views, or 0 with no views.
func EngagementRate(t models.EngagementTotals) float64 {
	if t.Views == 0 {
		return 0
	}
	return float64(TotalInteractions(t)) / float64(t.Views) * 100
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func clampInt64(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func clampFloat(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
