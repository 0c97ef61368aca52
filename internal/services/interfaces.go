package services

import (
	"context"
	"time"

	"wavz/internal/models"
	"wavz/internal/pagination"
	"wavz/internal/scoring"
	"wavz/internal/thirdweb"
	"wavz/internal/veriff"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, displayName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountServicer defines the contract for connected platform accounts.
type AccountServicer interface {
	ConnectAccount(userID string, platform models.Platform, accountID, username string) (*models.ConnectedAccount, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.ConnectedAccount], error)
	GetAccountByID(userID, id string) (*models.ConnectedAccount, error)
}

// SnapshotServicer defines the contract for the append-only engagement
// snapshot store.
type SnapshotServicer interface {
	// GetLastSnapshot returns the most recent snapshot for the account, or
	// nil when the account has never been synced.
	GetLastSnapshot(userID, accountID string) (*models.EngagementSnapshot, error)
	RecordSnapshot(snapshot *models.EngagementSnapshot) error
	GetAccountSnapshots(userID, accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.EngagementSnapshot], error)
}

// CPointsProcessingResult is the caller-facing outcome of one cPoints
// calculation.
type CPointsProcessingResult struct {
	CPointsHistoryID  string                    `json:"c_points_history_id"`
	CPointsAwarded    float64                   `json:"c_points_awarded"`
	QualityScore      float64                   `json:"quality_score"`
	Insights          []string                  `json:"insights"`
	ProcessingDetails models.CPointsCalculation `json:"processing_details"`
}

// CPointsServicer defines the contract for the cPoints calculation stage.
type CPointsServicer interface {
	CalculateForPeriod(account *models.ConnectedAccount, period models.CalcPeriod, periodStart, periodEnd time.Time, delta models.EngagementTotals, contentCount int) (*CPointsProcessingResult, error)
	GetHistory(userID string, platform *models.Platform, page pagination.PageRequest) (*pagination.PageResponse[models.CPointsHistory], error)
}

// SparksCalculationResult is the caller-facing outcome of a Sparks refresh.
type SparksCalculationResult struct {
	TotalSparks           float64                        `json:"total_sparks"`
	Breakdown             []scoring.SparksBreakdownEntry `json:"breakdown"`
	ConsistencyMultiplier float64                        `json:"consistency_multiplier"`
	LevelInfo             scoring.LevelInfo              `json:"level_info"`
}

// SparksServicer defines the contract for the Sparks conversion stage.
type SparksServicer interface {
	RefreshSparks(userID string) (*SparksCalculationResult, error)
	GetSparks(userID string) (*SparksCalculationResult, error)
}

// OnchainOpportunity describes an unsatisfied proof and its value bonus.
type OnchainOpportunity struct {
	ProofType models.ProofType `json:"proof_type"`
	Bonus     float64          `json:"bonus"`
}

// BeatPerformanceAnalysis is the caller-facing analysis of one Beat.
type BeatPerformanceAnalysis struct {
	CurrentValue         float64              `json:"current_value"`
	ValueGrowth          float64              `json:"value_growth"`
	Trending             bool                 `json:"trending"`
	PerformanceRank      int                  `json:"performance_rank"`
	RecommendedActions   []string             `json:"recommended_actions"`
	OnchainOpportunities []OnchainOpportunity `json:"onchain_opportunities"`
}

// BeatServicer defines the contract for Beat attribution and lifecycle.
type BeatServicer interface {
	CreateBeat(userID string, platform models.Platform, contentID string, contribution float64, metadata models.BeatMetadata, engagement models.EngagementTotals) (*models.Beat, error)
	GetUserBeats(userID string, status models.BeatStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Beat], error)
	GetBeatByID(userID, beatID string) (*models.Beat, error)
	UpdateEngagement(userID, beatID string, metrics models.EngagementTotals) (*models.Beat, error)
	AddOnChainProof(userID, beatID string, proofType models.ProofType) (*models.Beat, error)
	DeleteBeat(userID, beatID string) error
	AnalyzePerformance(userID, beatID string) (*BeatPerformanceAnalysis, error)
}

// ProfileServicer defines the contract for the user reputation aggregate.
type ProfileServicer interface {
	GetProfile(userID string) (*models.WavzProfile, error)
	// Mutate applies fn to the latest persisted profile under optimistic
	// concurrency and appends the returned ledger entries atomically.
	Mutate(userID string, fn ProfileMutation) error
	GetLedger(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.ScoreLedgerEntry], error)
	RebuildAggregates(userID string) (*models.WavzProfile, error)
}

// ProfileMutation transforms the freshly loaded profile in place and returns
// the score ledger entries describing the change.
type ProfileMutation func(p *models.WavzProfile) ([]models.ScoreLedgerEntry, error)

// SyncResult summarizes one account sync through the full pipeline.
type SyncResult struct {
	Skipped         bool                    `json:"skipped"`
	SnapshotID      string                  `json:"snapshot_id,omitempty"`
	Delta           models.EngagementTotals `json:"delta"`
	ContentCount    int                     `json:"content_count"`
	CPointsAwarded  float64                 `json:"c_points_awarded"`
	TotalSparks     float64                 `json:"total_sparks"`
	LevelInfo       scoring.LevelInfo       `json:"level_info"`
	SyncDurationMS  int64                   `json:"sync_duration_ms"`
}

// SyncAllResult summarizes one scheduler-driven sweep over all active
// connected accounts.
type SyncAllResult struct {
	AccountsTotal   int `json:"accounts_total"`
	AccountsSynced  int `json:"accounts_synced"`
	AccountsSkipped int `json:"accounts_skipped"`
	AccountsFailed  int `json:"accounts_failed"`
}

// SyncServicer orchestrates the full pipeline for connected accounts.
type SyncServicer interface {
	SyncAccount(ctx context.Context, userID, accountID string) (*SyncResult, error)
	SyncAll(ctx context.Context) (*SyncAllResult, error)
}

// VerificationServicer defines the contract for identity verification and
// wallet provisioning.
type VerificationServicer interface {
	StartKYC(ctx context.Context, userID string) (*veriff.Session, error)
	GetKYCStatus(ctx context.Context, userID string) (string, error)
	CreateWallet(ctx context.Context, userID string) (*thirdweb.Wallet, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
