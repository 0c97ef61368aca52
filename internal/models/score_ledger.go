package models

import (
	"time"

	"wavz/internal/uuid"

	"gorm.io/gorm"
)

// LedgerStage identifies which pipeline stage produced a score delta.
type LedgerStage string

const (
	LedgerStageCPoints LedgerStage = "cpoints"
	LedgerStageSparks  LedgerStage = "sparks"
	LedgerStageBeats   LedgerStage = "beats"
)

// ScoreLedgerEntry is one append-only score delta. The WavzProfile aggregate
// is a projection of this ledger and can be rebuilt by replaying it.
type ScoreLedgerEntry struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string      `gorm:"type:uuid;not null;index:idx_ledger_user" json:"user_id"`
	Stage       LedgerStage `gorm:"size:16;not null" json:"stage"`
	Delta       float64     `gorm:"not null" json:"delta"`
	Reason      string      `gorm:"size:128" json:"reason"`
	ReferenceID string      `gorm:"size:64" json:"reference_id"`
	RecordedAt  time.Time   `gorm:"not null;index:idx_ledger_user" json:"recorded_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (e *ScoreLedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
	return nil
}
