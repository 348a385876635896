// Package crm pushes portal events to the CRM. Sync is best-effort and
// fire-and-forget: a CRM outage must never fail or roll back the mutation
// that triggered the event.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/jdillon-sports/AcademyBack/internal/models"
	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *retryablehttp.Client
	logger     *zap.Logger
}

// NewClient builds a CRM client. A nil client (or empty baseURL) is valid
// and drops every event.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 2
	httpClient.RetryWaitMin = 200 * time.Millisecond
	httpClient.RetryWaitMax = 2 * time.Second
	httpClient.HTTPClient.Timeout = 5 * time.Second
	httpClient.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

type event struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

func (c *Client) BookingCreated(booking *models.Booking) {
	c.send("booking.created", booking.MemberID, booking)
}

func (c *Client) BookingCancelled(booking *models.Booking) {
	c.send("booking.cancelled", booking.MemberID, booking)
}

func (c *Client) ProgressAdvanced(progress *models.MemberProgress) {
	c.send("progress.advanced", progress.UserID, progress)
}

func (c *Client) send(eventType string, userID int64, payload any) {
	if c == nil || c.baseURL == "" {
		return
	}

	evt := event{
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.post(ctx, evt); err != nil && c.logger != nil {
			c.logger.Warn("crm sync failed",
				zap.String("event", eventType),
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}()
}

func (c *Client) post(ctx context.Context, evt event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/events",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}
