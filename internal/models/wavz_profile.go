package models

// BeatStats aggregates Beat statistics on the profile.
type BeatStats struct {
	ActiveBeats   int     `json:"active_beats"`
	TrendingBeats int     `json:"trending_beats"`
	TotalProofs   int     `json:"total_proofs"`
	PeakValue     float64 `json:"peak_value"`
}

// ProofStats counts satisfied onchain proofs across all of a user's Beats.
type ProofStats struct {
	ProofOfPost    int `json:"proof_of_post"`
	ProofOfHold    int `json:"proof_of_hold"`
	ProofOfUse     int `json:"proof_of_use"`
	ProofOfSupport int `json:"proof_of_support"`
}

// WavzProfile holds the running reputation aggregates for a creator.
//
// The profile is a materialized projection of the score ledger: every field
// here can be rebuilt by replaying ScoreLedgerEntry rows. Version implements
// optimistic locking; all writers must compare-and-swap on it.
type WavzProfile struct {
	Base
	UserID        string                         `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Sparks        float64                        `gorm:"not null;default:0" json:"sparks"`
	CPoints       float64                        `gorm:"not null;default:0" json:"c_points"`
	Level         int                            `gorm:"not null;default:1" json:"level"`
	LevelName     string                         `gorm:"size:32;default:'Pulse'" json:"level_name"`
	LevelProgress float64                        `gorm:"not null;default:0" json:"level_progress"`
	CreatorStats  map[Platform]EngagementTotals  `gorm:"serializer:json" json:"creator_stats"`
	ProofStats    ProofStats                     `gorm:"serializer:json" json:"proof_stats"`
	TotalBeats    int                            `gorm:"not null;default:0" json:"total_beats"`
	BeatsValue    float64                        `gorm:"not null;default:0" json:"beats_value"`
	BeatStats     BeatStats                      `gorm:"serializer:json" json:"beat_stats"`
	Version       int64                          `gorm:"not null;default:0" json:"-"`
}
