// Package thirdweb wraps the ThirdWeb API for backend wallet creation.
package thirdweb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Wallet is a created backend wallet.
type Wallet struct {
	Address string `json:"address"`
	Label   string `json:"label"`
}

// Client manages wallets.
type Client interface {
	CreateWallet(ctx context.Context, label string) (*Wallet, error)
}

// HTTPClient is the production ThirdWeb client.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient creates a Client against the given ThirdWeb deployment.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 5),
	}
}

// CreateWallet provisions a new backend wallet with the given label.
func (c *HTTPClient) CreateWallet(ctx context.Context, label string) (*Wallet, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{"label": label})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/wallets", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-secret-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("thirdweb returned status %d", resp.StatusCode)
	}

	var wallet Wallet
	if err := json.NewDecoder(resp.Body).Decode(&wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}
