package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TokenClient fetches guest credentials from the agent server.
type TokenClient struct {
	baseURL string
	client  *http.Client
}

// NewTokenClient creates a client targeting the given base URL
// (e.g. "http://127.0.0.1:8080").
func NewTokenClient(baseURL string) *TokenClient {
	return &TokenClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenResponse struct {
	Token   string `json:"token"`
	Address string `json:"address"`
	Error   string `json:"error"`
}

// FetchToken requests a fresh credential from /get_token. A response carrying
// an "error" field is a failure regardless of HTTP status.
func (c *TokenClient) FetchToken(ctx context.Context) (Credential, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get_token", nil)
	if err != nil {
		return Credential{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Credential{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Credential{}, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Credential{}, fmt.Errorf("GET /get_token: %d %s", resp.StatusCode, string(body))
	}
	if tr.Error != "" {
		return Credential{}, fmt.Errorf("token endpoint: %s", tr.Error)
	}
	if tr.Token == "" {
		return Credential{}, fmt.Errorf("token endpoint: empty token (status %d)", resp.StatusCode)
	}
	return Credential{Token: tr.Token, Destination: tr.Address}, nil
}
