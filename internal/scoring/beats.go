package scoring

import (
	"fmt"
	"math"
	"time"

	"wavz/internal/models"
)

// beatInheritanceFraction is the share of a source contribution attributed to
// one specific piece of content rather than the creator's aggregate.
const beatInheritanceFraction = 0.60

// trendingMultiple marks a Beat trending once its value reaches this multiple
// of its initial value.
const trendingMultiple = 1.5

// maxPerformanceBonus caps the engagement-driven value bonus.
const maxPerformanceBonus = 0.20

// proofBonuses are the additive value bonuses per satisfied onchain proof.
var proofBonuses = map[models.ProofType]float64{
	models.ProofOfPost:    0.10,
	models.ProofOfHold:    0.15,
	models.ProofOfUse:     0.20,
	models.ProofOfSupport: 0.25,
}

// ProofBonus returns the value bonus for one proof type.
func ProofBonus(p models.ProofType) float64 {
	return proofBonuses[p]
}

// SparksInherited returns the immutable baseline value a Beat inherits from
// its source contribution.
func SparksInherited(contribution float64) float64 {
	return contribution * beatInheritanceFraction
}

// OnchainBonus sums the bonuses for the satisfied proofs. Each proof type
// counts at most once.
func OnchainBonus(proofs []models.ProofType) float64 {
	seen := make(map[models.ProofType]bool, len(proofs))
	var sum float64
	for _, p := range proofs {
		if seen[p] {
			continue
		}
		seen[p] = true
		sum += proofBonuses[p]
	}
	return sum
}

// BeatEngagementScore scores a Beat's own engagement:
// (likes*2 + shares*3 + comments*4) / views * 100. Zero views scores zero.
func BeatEngagementScore(e models.EngagementTotals) float64 {
	if e.Views == 0 {
		return 0
	}
	weighted := float64(e.Likes)*2 + float64(e.Shares)*3 + float64(e.Comments)*4
	return weighted / float64(e.Views) * 100
}

// PerformanceBonus converts the engagement score into a value bonus,
// normalized by 1000 and capped at maxPerformanceBonus.
func PerformanceBonus(e models.EngagementTotals) float64 {
	normalized := math.Min(BeatEngagementScore(e)/1000, 1)
	return normalized * maxPerformanceBonus
}

// BeatValue computes a Beat's final value. Bonuses are strictly additive, so
// the result never drops below the inherited baseline.
func BeatValue(sparksInherited float64, proofs []models.ProofType, engagement models.EngagementTotals) float64 {
	return sparksInherited * (1 + OnchainBonus(proofs) + PerformanceBonus(engagement))
}

// EngagementGrowth returns the percentage growth in total interactions from
// the previous to the merged engagement. No prior interactions reads as 0.
func EngagementGrowth(previous, current models.EngagementTotals) float64 {
	prev := TotalInteractions(previous)
	if prev == 0 {
		return 0
	}
	return float64(TotalInteractions(current)-prev) / float64(prev) * 100
}

// IsTrending reports whether a Beat's value has reached the trending multiple
// of its initial value.
func IsTrending(finalValue, initialValue float64) bool {
	return initialValue > 0 && finalValue >= initialValue*trendingMultiple
}

// NewBeatID derives a Beat's public identifier from its platform, owner, and
// creation time. Nanosecond resolution keeps back-to-back creations for the
// same user distinct.
func NewBeatID(platform models.Platform, userID string, ts time.Time) string {
	return fmt.Sprintf("beat_%s_%s_%d", platform, userID, ts.UnixNano())
}
