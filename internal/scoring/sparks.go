package scoring

import (
	"sort"
	"time"

	"wavz/internal/models"
)

// HistoryEntry is one processed cPoints record feeding the Sparks conversion.
type HistoryEntry struct {
	CPoints     float64
	Platform    models.Platform
	ProcessedAt time.Time
}

// SparksBreakdownEntry explains one history entry's contribution.
type SparksBreakdownEntry struct {
	Platform       models.Platform `json:"platform"`
	CPoints        float64         `json:"c_points"`
	TimeWeight     float64         `json:"time_weight"`
	PlatformWeight float64         `json:"platform_weight"`
	Sparks         float64         `json:"sparks"`
}

// SparksResult is the outcome of a full cPoints-to-Sparks conversion.
type SparksResult struct {
	TotalSparks           float64                `json:"total_sparks"`
	Breakdown             []SparksBreakdownEntry `json:"breakdown"`
	ConsistencyMultiplier float64                `json:"consistency_multiplier"`
	LevelInfo             LevelInfo              `json:"level_info"`
}

// MaxSparksHistory caps how many recent cPoints entries feed the conversion.
const MaxSparksHistory = 10

// timeWeight is the recency step function for a history entry's age.
func timeWeight(age time.Duration) float64 {
	days := age.Hours() / 24
	switch {
	case days <= 7:
		return 1.0
	case days <= 30:
		return 0.8
	case days <= 90:
		return 0.6
	case days <= 180:
		return 0.4
	default:
		return 0.2
	}
}

// SustainabilityWeight returns the platform's Sparks sustainability multiplier.
// Long-form durable platforms (youtube, spotify) weigh above 1; ephemeral
// high-velocity platforms (tiktok, twitter) below.
func SustainabilityWeight(p models.Platform) float64 {
	r, _ := RatesFor(p)
	return r.Sustainability
}

// cadenceMultiplier scales total Sparks by posting cadence: the average gap in
// days between consecutive history entries. Daily cadence is rewarded,
// irregular cadence discounted. Fewer than two entries has no measurable
// cadence and stays neutral.
func cadenceMultiplier(entries []HistoryEntry) float64 {
	if len(entries) < 2 {
		return 1.0
	}

	sorted := make([]HistoryEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProcessedAt.Before(sorted[j].ProcessedAt)
	})

	var totalGap time.Duration
	for i := 1; i < len(sorted); i++ {
		totalGap += sorted[i].ProcessedAt.Sub(sorted[i-1].ProcessedAt)
	}
	avgGapDays := totalGap.Hours() / 24 / float64(len(sorted)-1)

	switch {
	case avgGapDays <= 1.5:
		return 1.5
	case avgGapDays <= 8:
		return 1.2
	case avgGapDays <= 32:
		return 0.8
	default:
		return 0.6
	}
}

// ConvertCPointsToSparks aggregates recent cPoints history into a cumulative
// Sparks total: each entry is decayed by recency and weighted by platform
// sustainability, then the sum is scaled by the cadence multiplier. An empty
// history yields a zero result at level 1, not an error.
func ConvertCPointsToSparks(entries []HistoryEntry, now time.Time) SparksResult {
	if len(entries) == 0 {
		return SparksResult{
			Breakdown:             []SparksBreakdownEntry{},
			ConsistencyMultiplier: 1.0,
			LevelInfo:             LevelForSparks(0),
		}
	}

	if len(entries) > MaxSparksHistory {
		entries = entries[:MaxSparksHistory]
	}

	breakdown := make([]SparksBreakdownEntry, 0, len(entries))
	var sum float64
	for _, e := range entries {
		tw := timeWeight(now.Sub(e.ProcessedAt))
		pw := SustainabilityWeight(e.Platform)
		sparks := e.CPoints * tw * pw
		sum += sparks
		breakdown = append(breakdown, SparksBreakdownEntry{
			Platform:       e.Platform,
			CPoints:        e.CPoints,
			TimeWeight:     tw,
			PlatformWeight: pw,
			Sparks:         sparks,
		})
	}

	mult := cadenceMultiplier(entries)
	total := sum * mult

	return SparksResult{
		TotalSparks:           total,
		Breakdown:             breakdown,
		ConsistencyMultiplier: mult,
		LevelInfo:             LevelForSparks(total),
	}
}
