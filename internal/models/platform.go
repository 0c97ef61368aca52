package models

// Platform identifies a supported social platform.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformTikTok    Platform = "tiktok"
	PlatformSpotify   Platform = "spotify"
)

// SupportedPlatforms lists every platform with a first-class rate table.
// Unknown platforms still score via the default fallback rates.
var SupportedPlatforms = []Platform{
	PlatformYouTube,
	PlatformInstagram,
	PlatformTwitter,
	PlatformTikTok,
	PlatformSpotify,
}

// IsSupported reports whether the platform has a dedicated rate table.
func (p Platform) IsSupported() bool {
	for _, sp := range SupportedPlatforms {
		if p == sp {
			return true
		}
	}
	return false
}
