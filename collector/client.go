// Package collector submits accumulated activity to the remote
// collector. One Send call reports one (language, minutes) pair.
// Delivery is fire and forget per period: the client applies a bounded
// timeout and never retries; retry policy belongs to the caller, which
// currently chooses not to retry.
package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single send, covering connection setup through
// response body read.
const DefaultTimeout = 10 * time.Second

// activityPayload is the collector's wire format. TimeSpent is minutes.
type activityPayload struct {
	PrivateKey   string  `json:"privateKey"`
	LanguageName string  `json:"languageName"`
	TimeSpent    float64 `json:"timeSpent"`
}

// StatusError is returned when the collector answers with a non-success
// status. It carries the status code and response body for the log line.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collector returned %d: %s", e.StatusCode, e.Body)
}

// Client posts activity reports to a single collector endpoint.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a Client for the given endpoint with the default
// send timeout.
func NewClient(apiURL string) *Client {
	return NewClientWithTimeout(apiURL, DefaultTimeout)
}

// NewClientWithTimeout creates a Client with a custom timeout. A zero or
// negative timeout falls back to the default.
func NewClientWithTimeout(apiURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send reports minutes spent in one language. The private key is
// forwarded verbatim as an opaque credential. A non-2xx response yields
// a *StatusError; transport failures are returned wrapped. No retries.
func (c *Client) Send(ctx context.Context, privateKey, languageID string, minutes float64) error {
	body, err := json.Marshal(activityPayload{
		PrivateKey:   privateKey,
		LanguageName: languageID,
		TimeSpent:    minutes,
	})
	if err != nil {
		return fmt.Errorf("failed to encode activity payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build activity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			respBody = []byte("could not read response")
		}
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return nil
}
