package scoring

import (
	"fmt"
	"math"

	"wavz/internal/models"
)

// Growth trend labels stored on ProcessedData.
const (
	TrendIncreasing = "increasing"
	TrendStable     = "stable"
)

// qualityConfig holds the authenticity/consistency heuristic constants.
// These are provisional defaults; final rates are pending from the business
// side, so they live in one table rather than inline at call sites.
var qualityConfig = struct {
	idealRateMin   float64 // engagement rate below this reads as weak reach
	idealRateMax   float64 // engagement rate above this starts looking inauthentic
	anomalousRate  float64 // rate at which the authenticity score bottoms out
	floorScore     float64 // minimum authenticity score for anomalous rates
	postCeiling    int     // content volume that earns a full consistency score
	growthRateMin  float64 // engagement rate that counts as an increasing trend
}{
	idealRateMin:  1.0,
	idealRateMax:  10.0,
	anomalousRate: 30.0,
	floorScore:    20.0,
	postCeiling:   30,
	growthRateMin: 5.0,
}

// AuthenticityScore maps an engagement rate (interactions per hundred views)
// to a 0-100 score. Moderate rates score highest; anomalously high rates are
// penalized as likely inauthentic activity, very low rates as weak engagement.
func AuthenticityScore(engagementRate float64) float64 {
	c := qualityConfig
	switch {
	case engagementRate <= 0:
		return 40
	case engagementRate < c.idealRateMin:
		return 40 + 60*engagementRate/c.idealRateMin
	case engagementRate <= c.idealRateMax:
		return 100
	case engagementRate >= c.anomalousRate:
		return c.floorScore
	default:
		span := c.anomalousRate - c.idealRateMax
		return 100 - (100-c.floorScore)*(engagementRate-c.idealRateMax)/span
	}
}

// ConsistencyScore maps period content volume against the post ceiling to a
// 0-100 score.
func ConsistencyScore(contentCount int) float64 {
	if contentCount <= 0 {
		return 0
	}
	score := float64(contentCount) / float64(qualityConfig.postCeiling) * 100
	return math.Min(score, 100)
}

// GrowthTrend labels the period as increasing when the engagement rate clears
// the fixed growth threshold.
func GrowthTrend(engagementRate float64) string {
	if engagementRate >= qualityConfig.growthRateMin {
		return TrendIncreasing
	}
	return TrendStable
}

// CPointsResult is the full outcome of one cPoints calculation.
type CPointsResult struct {
	Calculation   models.CPointsCalculation
	ProcessedData models.ProcessedData
	PlatformKnown bool
}

// CalculateCPoints converts an engagement delta into quality-adjusted points.
//
//	final = round(base * quality * platformWeight + consistencyBonus + growthBonus)
//
// where quality is the average of the authenticity and consistency scores
// normalized to 0-1, consistencyBonus is 10% of base scaled by the consistency
// score, and growthBonus is 20% of base for an increasing trend. Unrecognized
// platforms score with the default rate row; PlatformKnown is false so the
// caller can log the fallback.
func CalculateCPoints(delta models.EngagementTotals, platform models.Platform, contentCount int) CPointsResult {
	rates, known := RatesFor(platform)

	base := BasePoints(delta, rates.Rates)
	engagementRate := EngagementRate(delta)
	authenticity := AuthenticityScore(engagementRate)
	consistency := ConsistencyScore(contentCount)
	quality := (authenticity + consistency) / 2 / 100
	trend := GrowthTrend(engagementRate)

	consistencyBonus := base * 0.10 * consistency / 100
	var growthBonus float64
	if trend == TrendIncreasing {
		growthBonus = base * 0.20
	}

	final := math.Round(base*quality*rates.Weight + consistencyBonus + growthBonus)

	calc := models.CPointsCalculation{
		BasePoints:        base,
		QualityMultiplier: quality,
		ConsistencyBonus:  consistencyBonus,
		GrowthBonus:       growthBonus,
		PlatformWeight:    rates.Weight,
		FinalCPoints:      final,
		Formula: fmt.Sprintf("round(%.2f * %.4f * %.2f + %.2f + %.2f) = %.0f",
			base, quality, rates.Weight, consistencyBonus, growthBonus, final),
	}

	processed := models.ProcessedData{
		AuthenticityScore: authenticity,
		ConsistencyScore:  consistency,
		EngagementRate:    engagementRate,
		GrowthTrend:       trend,
		Insights:          insightsFor(engagementRate, consistency, trend),
	}

	return CPointsResult{Calculation: calc, ProcessedData: processed, PlatformKnown: known}
}

// insightsFor produces the actionable-insight strings stored with a calculation.
func insightsFor(engagementRate, consistency float64, trend string) []string {
	var out []string
	if engagementRate > qualityConfig.idealRateMax {
		out = append(out, "Engagement rate is unusually high; verify audience authenticity")
	}
	if engagementRate > 0 && engagementRate < qualityConfig.idealRateMin {
		out = append(out, "Engagement rate is low relative to views; focus on audience interaction")
	}
	if consistency < 50 {
		out = append(out, "Posting volume is below the consistency ceiling; publish more regularly")
	}
	if trend == TrendIncreasing {
		out = append(out, "Engagement is trending up; growth bonus applied")
	}
	return out
}
