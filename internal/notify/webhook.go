package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"clinic-portal/internal/model"
)

// Webhook posts each delivery as JSON to an external mailer.
type Webhook struct {
	client *resty.Client
	url    string
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Webhook{client: client, url: url}
}

type resetEvent struct {
	Type string              `json:"type"`
	Data model.ResetDelivery `json:"data"`
}

func (w *Webhook) DeliverReset(ctx context.Context, d model.ResetDelivery) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(resetEvent{Type: "password_reset", Data: d}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("post reset webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("reset webhook returned %d", resp.StatusCode())
	}
	return nil
}
