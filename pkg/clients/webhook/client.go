// Package webhook posts low-stock digests to a household-configured HTTP
// endpoint (Slack-style incoming webhook or any JSON sink).
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client exposes the outbound notification operation used by the digest job.
type Client interface {
	SendDigest(ctx context.Context, req DigestRequest) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a webhook client for the given endpoint URL.
func NewClient(url string) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(url).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// DigestItem is one stock item sitting at or below its minimum.
type DigestItem struct {
	Name         string  `json:"name"`
	CurrentStock float64 `json:"currentStock"`
	MinimumStock float64 `json:"minimumStock"`
	TargetStock  float64 `json:"targetStock"`
	Unit         string  `json:"unit"`
}

// DigestRequest is the JSON payload posted to the webhook.
type DigestRequest struct {
	HouseholdID string       `json:"householdId"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Items       []DigestItem `json:"items"`
	Text        string       `json:"text"`
}

// SendDigest posts the digest and fails on any non-2xx response.
func (c *APIClient) SendDigest(ctx context.Context, req DigestRequest) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		Post("")
	if err != nil {
		return fmt.Errorf("post low-stock digest: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook error: code=%d, body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
