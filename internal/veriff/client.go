// Package veriff wraps the Veriff station API for KYC verification sessions.
package veriff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Session is a created verification session.
type Session struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// Client manages verification sessions.
type Client interface {
	CreateSession(ctx context.Context, userID, firstName, lastName string) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
}

// HTTPClient is the production Veriff client.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient creates a Client against the given Veriff deployment.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 5),
	}
}

// CreateSession starts a new verification session for a user.
func (c *HTTPClient) CreateSession(ctx context.Context, userID, firstName, lastName string) (*Session, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]interface{}{
		"verification": map[string]interface{}{
			"vendorData": userID,
			"person": map[string]string{
				"firstName": firstName,
				"lastName":  lastName,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-AUTH-CLIENT", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("veriff returned status %d", resp.StatusCode)
	}

	var payload struct {
		Verification Session `json:"verification"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload.Verification, nil
}

// GetSession fetches the state of an existing session.
func (c *HTTPClient) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sessions/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-AUTH-CLIENT", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("veriff returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}
