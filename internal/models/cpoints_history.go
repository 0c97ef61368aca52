package models

import "time"

// CalcPeriod is the granularity of a cPoints calculation window.
type CalcPeriod string

const (
	CalcPeriodDaily   CalcPeriod = "daily"
	CalcPeriodWeekly  CalcPeriod = "weekly"
	CalcPeriodMonthly CalcPeriod = "monthly"
)

// CPointsStatus is the lifecycle state of a cPoints calculation.
type CPointsStatus string

const (
	CPointsStatusPending   CPointsStatus = "pending"
	CPointsStatusProcessed CPointsStatus = "processed"
	CPointsStatusVerified  CPointsStatus = "verified"
	CPointsStatusDisputed  CPointsStatus = "disputed"
)

// ProcessedData holds the quality analysis derived from raw engagement.
type ProcessedData struct {
	AuthenticityScore float64  `json:"authenticity_score"`
	ConsistencyScore  float64  `json:"consistency_score"`
	EngagementRate    float64  `json:"engagement_rate"`
	GrowthTrend       string   `json:"growth_trend"`
	Insights          []string `json:"insights,omitempty"`
}

// CPointsCalculation is the persisted breakdown of one cPoints computation.
type CPointsCalculation struct {
	BasePoints        float64 `json:"base_points"`
	QualityMultiplier float64 `json:"quality_multiplier"`
	ConsistencyBonus  float64 `json:"consistency_bonus"`
	GrowthBonus       float64 `json:"growth_bonus"`
	PlatformWeight    float64 `json:"platform_weight"`
	FinalCPoints      float64 `json:"final_c_points"`
	Formula           string  `json:"formula"`
}

// CPointsHistory records one (user, platform, account, period) calculation.
// Recomputing an existing period updates the row in place; the composite
// unique index guarantees at most one row per window.
type CPointsHistory struct {
	Base
	UserID            string             `gorm:"type:uuid;not null;uniqueIndex:idx_cpoints_period,priority:1" json:"user_id"`
	Platform          Platform           `gorm:"size:32;not null;uniqueIndex:idx_cpoints_period,priority:2" json:"platform"`
	AccountID         string             `gorm:"size:128;not null;uniqueIndex:idx_cpoints_period,priority:3" json:"account_id"`
	Period            CalcPeriod         `gorm:"size:16;not null" json:"period"`
	PeriodStart       time.Time          `gorm:"not null;uniqueIndex:idx_cpoints_period,priority:4" json:"period_start"`
	PeriodEnd         time.Time          `gorm:"not null;uniqueIndex:idx_cpoints_period,priority:5" json:"period_end"`
	RawEngagement     EngagementTotals   `gorm:"embedded;embeddedPrefix:raw_" json:"raw_engagement"`
	ProcessedData     ProcessedData      `gorm:"serializer:json" json:"processed_data"`
	Calculation       CPointsCalculation `gorm:"serializer:json" json:"calculation"`
	CPointsAwarded    float64            `gorm:"not null;default:0" json:"c_points_awarded"`
	Status            CPointsStatus      `gorm:"size:16;not null;default:'pending'" json:"status"`
	ProcessedAt       *time.Time         `json:"processed_at,omitempty"`
	ProcessingVersion int                `gorm:"not null;default:1" json:"processing_version"`
}
