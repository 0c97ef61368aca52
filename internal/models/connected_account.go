package models

import "time"

// ConnectedAccount links a user to one platform account tracked by InsightIQ.
type ConnectedAccount struct {
	Base
	UserID        string     `gorm:"type:uuid;not null;uniqueIndex:idx_user_platform_account,priority:1" json:"user_id"`
	Platform      Platform   `gorm:"size:32;not null;uniqueIndex:idx_user_platform_account,priority:2" json:"platform"`
	AccountID     string     `gorm:"size:128;not null;uniqueIndex:idx_user_platform_account,priority:3" json:"account_id"`
	Username      string     `gorm:"size:128" json:"username"`
	FollowerCount int64      `gorm:"not null;default:0" json:"follower_count"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	LastSyncedAt  *time.Time `json:"last_synced_at,omitempty"`
	SyncCount     int64      `gorm:"not null;default:0" json:"sync_count"`
}
