package models

import "time"

// BeatStatus is the lifecycle state of a Beat.
type BeatStatus string

const (
	BeatStatusActive   BeatStatus = "active"
	BeatStatusArchived BeatStatus = "archived"
	BeatStatusDisputed BeatStatus = "disputed"
	BeatStatusVerified BeatStatus = "verified"
)

// ProofType identifies one of the four onchain proof kinds.
type ProofType string

const (
	ProofOfPost    ProofType = "proof_of_post"
	ProofOfHold    ProofType = "proof_of_hold"
	ProofOfUse     ProofType = "proof_of_use"
	ProofOfSupport ProofType = "proof_of_support"
)

// ProofTypes lists all proof kinds in bonus order.
var ProofTypes = []ProofType{ProofOfPost, ProofOfHold, ProofOfUse, ProofOfSupport}

// BeatMetadata describes the content a Beat is attributed to.
type BeatMetadata struct {
	ContentType string    `json:"content_type"`
	Tags        []string  `json:"tags,omitempty"`
	PostedAt    time.Time `json:"posted_at"`
	Title       string    `json:"title,omitempty"`
	URL         string    `json:"url,omitempty"`
}

// Beat is an individually addressable unit of attributed creator value,
// tied to exactly one piece of content. SparksInherited is the immutable
// baseline set at creation; FinalValue never drops below it.
type Beat struct {
	Base
	BeatID          string           `gorm:"size:160;uniqueIndex;not null" json:"beat_id"`
	UserID          string           `gorm:"type:uuid;not null;uniqueIndex:idx_beat_content,priority:1" json:"user_id"`
	Platform        Platform         `gorm:"size:32;not null;uniqueIndex:idx_beat_content,priority:2" json:"platform"`
	ContentID       string           `gorm:"size:128;not null;uniqueIndex:idx_beat_content,priority:3" json:"content_id"`
	SparksInherited float64          `gorm:"not null" json:"sparks_inherited"`
	InitialValue    float64          `gorm:"not null" json:"initial_value"`
	FinalValue      float64          `gorm:"not null" json:"final_value"`
	CurrentValue    float64          `gorm:"not null" json:"current_value"`
	PeakValue       float64          `gorm:"not null" json:"peak_value"`
	EngagementGrowth float64         `gorm:"not null;default:0" json:"engagement_growth"`
	Trending        bool             `gorm:"default:false" json:"trending"`
	Engagement      EngagementTotals `gorm:"embedded;embeddedPrefix:eng_" json:"engagement"`
	Metadata        BeatMetadata     `gorm:"serializer:json" json:"metadata"`
	Status          BeatStatus       `gorm:"size:16;not null;default:'active'" json:"status"`

	HasProofOfPost    bool       `gorm:"default:false" json:"has_proof_of_post"`
	ProofOfPostAt     *time.Time `json:"proof_of_post_at,omitempty"`
	HasProofOfHold    bool       `gorm:"default:false" json:"has_proof_of_hold"`
	ProofOfHoldAt     *time.Time `json:"proof_of_hold_at,omitempty"`
	HasProofOfUse     bool       `gorm:"default:false" json:"has_proof_of_use"`
	ProofOfUseAt      *time.Time `json:"proof_of_use_at,omitempty"`
	HasProofOfSupport bool       `gorm:"default:false" json:"has_proof_of_support"`
	ProofOfSupportAt  *time.Time `json:"proof_of_support_at,omitempty"`
}

// HasProof reports whether the given proof type is already satisfied.
func (b *Beat) HasProof(p ProofType) bool {
	switch p {
	case ProofOfPost:
		return b.HasProofOfPost
	case ProofOfHold:
		return b.HasProofOfHold
	case ProofOfUse:
		return b.HasProofOfUse
	case ProofOfSupport:
		return b.HasProofOfSupport
	}
	return false
}

// SetProof marks the given proof type satisfied at ts.
func (b *Beat) SetProof(p ProofType, ts time.Time) {
	switch p {
	case ProofOfPost:
		b.HasProofOfPost = true
		b.ProofOfPostAt = &ts
	case ProofOfHold:
		b.HasProofOfHold = true
		b.ProofOfHoldAt = &ts
	case ProofOfUse:
		b.HasProofOfUse = true
		b.ProofOfUseAt = &ts
	case ProofOfSupport:
		b.HasProofOfSupport = true
		b.ProofOfSupportAt = &ts
	}
}

// Proofs returns the satisfied proof types in bonus order.
func (b *Beat) Proofs() []ProofType {
	var out []ProofType
	for _, p := range ProofTypes {
		if b.HasProof(p) {
			out = append(out, p)
		}
	}
	return out
}
