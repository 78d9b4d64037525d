// Package mpago is a minimal Mercado Pago REST client covering the three
// operations this service needs: checkout preferences, payment lookups and
// refunds.
package mpago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type ClientConfig struct {
	BaseURL     string `json:"baseUrl" mapstructure:"base_url"`
	AccessToken string `json:"accessToken" mapstructure:"access_token"`
}

type Client struct {
	// baseURL is the gateway API root, swappable for tests.
	baseURL string

	// accessToken authenticates every call.
	accessToken string

	// hc is the http client.
	hc *http.Client
}

// NewClient creates a new gateway client.
func NewClient(c *ClientConfig) *Client {
	// The gateway expects unit_price and refund amounts as JSON numbers,
	// not the quoted strings decimal emits by default.
	decimal.MarshalJSONWithoutQuotes = true

	return &Client{
		baseURL:     c.BaseURL,
		accessToken: c.AccessToken,

		// set http client with timeout.
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do performs one JSON round trip against the gateway. A non-2xx reply is
// reported as an error carrying the gateway's message, never retried.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var bodyReader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("mpago: json.Marshal: %w", err)
		}
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("mpago: http.NewReq: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("mpago: http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("mpago: %s %s: status %d: %s", method, path, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("mpago: %s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mpago: json.Decode: %w", err)
	}
	return nil
}
