// Package insightiq wraps the InsightIQ API, the upstream source of raw
// per-content engagement data. The pipeline only consumes aggregated totals;
// this client stays a thin, rate-limited fetch layer.
package insightiq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"wavz/internal/logger"
)

// ContentItem is one piece of content with its engagement counters, as
// reported by InsightIQ.
type ContentItem struct {
	ContentID            string    `json:"content_id"`
	ContentType          string    `json:"content_type"`
	ViewCount            int64     `json:"view_count"`
	LikeCount            int64     `json:"like_count"`
	DislikeCount         int64     `json:"dislike_count"`
	CommentCount         int64     `json:"comment_count"`
	ShareCount           int64     `json:"share_count"`
	SaveCount            int64     `json:"save_count"`
	WatchTimeInHours     float64   `json:"watch_time_in_hours"`
	ImpressionOrganicCount int64   `json:"impression_organic_count"`
	ReachOrganicCount    int64     `json:"reach_organic_count"`
	CreatedAt            time.Time `json:"created_at"`
}

// Profile is the account-level view returned by InsightIQ.
type Profile struct {
	AccountID     string `json:"account_id"`
	Username      string `json:"username"`
	FollowerCount int64  `json:"follower_count"`
}

// Client fetches engagement data for a connected account.
type Client interface {
	GetAccountContent(ctx context.Context, accountID string) ([]ContentItem, error)
	GetProfile(ctx context.Context, accountID string) (*Profile, error)
}

// HTTPClient is the production InsightIQ client. Requests are rate limited
// to stay inside the provider's quota.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient creates a Client against the given InsightIQ deployment.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
	}
}

// GetAccountContent lists the account's content with engagement counters.
func (c *HTTPClient) GetAccountContent(ctx context.Context, accountID string) ([]ContentItem, error) {
	var payload struct {
		Data []ContentItem `json:"data"`
	}
	url := fmt.Sprintf("%s/social/contents?account_id=%s", c.baseURL, accountID)
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// GetProfile fetches the account-level profile.
func (c *HTTPClient) GetProfile(ctx context.Context, accountID string) (*Profile, error) {
	var profile Profile
	url := fmt.Sprintf("%s/profiles/%s", c.baseURL, accountID)
	if err := c.get(ctx, url, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *HTTPClient) get(ctx context.Context, url string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	logger.Get().Debugw("insightiq request",
		"url", url,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("insightiq returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
