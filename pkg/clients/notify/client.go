// Package notify sends operational alerts through an SMS gateway. The
// capability is optional: when no gateway is configured the application wires
// NoopNotifier, making the may-not-happen contract explicit at the call site.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/config"
)

// Notifier is the outbound alerting capability used on supplier suspension.
type Notifier interface {
	SendAlert(ctx context.Context, to string, message string) error
}

// NoopNotifier silently drops alerts. Used when no gateway is configured.
type NoopNotifier struct{}

// SendAlert implements Notifier as an explicit no-op.
func (NoopNotifier) SendAlert(ctx context.Context, to string, message string) error {
	return nil
}

// APIClient is a resty-backed Notifier talking to an SMS gateway.
type APIClient struct {
	httpClient *resty.Client
	sender     string
}

// NewClient builds a gateway client from the notify configuration.
func NewClient(cfg config.NotifyConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		sender:     cfg.SenderID,
	}
}

// gatewayError mirrors the gateway's error payload.
type gatewayError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendAlert posts a text message to the gateway.
func (c *APIClient) SendAlert(ctx context.Context, to string, message string) error {
	payload := map[string]any{
		"from": c.sender,
		"to":   to,
		"text": message,
	}

	apiErr := new(gatewayError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetError(apiErr).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return fmt.Errorf("send alert rejected: %s", msg)
	}

	return nil
}
