package models

import (
	"time"

	"wavz/internal/uuid"

	"gorm.io/gorm"
)

// Base carries the ID and timestamp columns shared by the soft-deleted
// tables. Append-only rows (snapshots, ledger entries) define their own ID
// instead of embedding it.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
