package models

import (
	"time"

	"wavz/internal/uuid"

	"gorm.io/gorm"
)

// EngagementTotals holds cumulative engagement counters for one account.
// The same shape is reused for per-sync deltas.
type EngagementTotals struct {
	Likes          int64   `json:"likes"`
	Dislikes       int64   `json:"dislikes"`
	Comments       int64   `json:"comments"`
	Views          int64   `json:"views"`
	Shares         int64   `json:"shares"`
	Saves          int64   `json:"saves"`
	WatchTimeHours float64 `json:"watch_time_hours"`
	Impressions    int64   `json:"impressions"`
	Reach          int64   `json:"reach"`
	Posts          int64   `json:"posts"`
}

// IsZero reports whether every counter is zero.
func (t EngagementTotals) IsZero() bool {
	return t == EngagementTotals{}
}

// Add returns the componentwise sum of two counter sets.
func (t EngagementTotals) Add(o EngagementTotals) EngagementTotals {
	return EngagementTotals{
		Likes:          t.Likes + o.Likes,
		Dislikes:       t.Dislikes + o.Dislikes,
		Comments:       t.Comments + o.Comments,
		Views:          t.Views + o.Views,
		Shares:         t.Shares + o.Shares,
		Saves:          t.Saves + o.Saves,
		WatchTimeHours: t.WatchTimeHours + o.WatchTimeHours,
		Impressions:    t.Impressions + o.Impressions,
		Reach:          t.Reach + o.Reach,
		Posts:          t.Posts + o.Posts,
	}
}

// EngagementSnapshot records an account's cumulative engagement at one sync
// point, plus the delta since the previous snapshot. Rows are append-only
// time-series data with no Base embed and no soft deletes.
type EngagementSnapshot struct {
	ID              string           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string           `gorm:"type:uuid;not null;index:idx_snapshot_account,priority:1" json:"user_id"`
	AccountID       string           `gorm:"size:128;not null;index:idx_snapshot_account,priority:2" json:"account_id"`
	Platform        Platform         `gorm:"size:32;not null" json:"platform"`
	SyncedAt        time.Time        `gorm:"not null;index:idx_snapshot_account,priority:3" json:"synced_at"`
	Snapshot        EngagementTotals `gorm:"embedded;embeddedPrefix:total_" json:"snapshot"`
	DeltaFromPrev   EngagementTotals `gorm:"embedded;embeddedPrefix:delta_" json:"delta_from_previous"`
	CPointsAwarded  float64          `gorm:"not null;default:0" json:"c_points_awarded"`
	SparksGenerated float64          `gorm:"not null;default:0" json:"sparks_generated"`
	ContentCount    int              `gorm:"not null;default:0" json:"content_count"`
	SyncDurationMS  int64            `gorm:"not null;default:0" json:"sync_duration_ms"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (s *EngagementSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}
