package scoring

import "wavz/internal/models"

// EngagementRates is the per-action point table for one platform.
type EngagementRates struct {
	Like          float64
	Dislike       float64
	Comment       float64
	View          float64
	Share         float64
	Save          float64
	WatchTimeHour float64
	Impression    float64
	Reach         float64
}

// PlatformRates bundles everything the pipeline knows about a platform:
// per-action rates, the cPoints format-value weight, and the Sparks
// sustainability weight. Adding a platform is a row here, not new code.
type PlatformRates struct {
	Rates          EngagementRates
	Weight         float64
	Sustainability float64
}

var platformRates = map[models.Platform]PlatformRates{
	models.PlatformYouTube: {
		Rates: EngagementRates{
			Like: 2, Dislike: 0, Comment: 5, View: 0.1,
			Share: 3, Save: 2, WatchTimeHour: 10, Impression: 0.005, Reach: 0.01,
		},
		Weight:         1.2,
		Sustainability: 1.3,
	},
	models.PlatformInstagram: {
		Rates: EngagementRates{
			Like: 1, Comment: 3, View: 0.05,
			Share: 2.5, Save: 2, Impression: 0.003, Reach: 0.008,
		},
		Weight:         1.0,
		Sustainability: 1.0,
	},
	models.PlatformTwitter: {
		Rates: EngagementRates{
			Like: 0.5, Comment: 2, View: 0.02,
			Share: 1.5, Save: 1, Impression: 0.002, Reach: 0.005,
		},
		Weight:         0.8,
		Sustainability: 0.6,
	},
	models.PlatformTikTok: {
		Rates: EngagementRates{
			Like: 0.8, Comment: 2.5, View: 0.03,
			Share: 2, Save: 1.5, WatchTimeHour: 8, Impression: 0.002, Reach: 0.005,
		},
		Weight:         0.9,
		Sustainability: 0.7,
	},
	models.PlatformSpotify: {
		Rates: EngagementRates{
			Like: 1.5, View: 0.2, Share: 2.5, Save: 3,
			WatchTimeHour: 12,
		},
		Weight:         1.3,
		Sustainability: 1.4,
	},
}

// defaultRates is the fallback for unrecognized platforms:
// likes*1 + comments*2 + views*0.01 at neutral weight.
var defaultRates = PlatformRates{
	Rates:          EngagementRates{Like: 1, Comment: 2, View: 0.01},
	Weight:         1.0,
	Sustainability: 0.8,
}

// RatesFor returns the rate row for a platform. The second return value is
// false when the platform is unrecognized and the default row is returned;
// scoring still proceeds and callers decide whether to log.
func RatesFor(p models.Platform) (PlatformRates, bool) {
	if r, ok := platformRates[p]; ok {
		return r, true
	}
	return defaultRates, false
}

// BasePoints applies a rate row to an engagement delta.
func BasePoints(delta models.EngagementTotals, r EngagementRates) float64 {
	return float64(delta.Likes)*r.Like +
		float64(delta.Dislikes)*r.Dislike +
		float64(delta.Comments)*r.Comment +
		float64(delta.Views)*r.View +
		float64(delta.Shares)*r.Share +
		float64(delta.Saves)*r.Save +
		delta.WatchTimeHours*r.WatchTimeHour +
		float64(delta.Impressions)*r.Impression +
		float64(delta.Reach)*r.Reach
}
