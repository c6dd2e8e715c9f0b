package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers a human-readable message to a customer contact. Delivery
// failure is non-fatal to the triggering operation.
type Notifier interface {
	Notify(ctx context.Context, contact, subject, body string) error
}

// LogNotifier writes notifications to the structured log. Used when no
// delivery endpoint is configured.
type LogNotifier struct {
	logger *zap.Logger
	from   string
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *zap.Logger, from string) *LogNotifier {
	return &LogNotifier{logger: logger, from: from}
}

// Notify logs the message instead of delivering it.
func (n *LogNotifier) Notify(ctx context.Context, contact, subject, body string) error {
	n.logger.Info("notification",
		zap.String("from", n.from),
		zap.String("to", contact),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

// WebhookNotifier POSTs notifications as JSON to a configured endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a webhook-backed notifier.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify posts the message to the webhook endpoint.
func (n *WebhookNotifier) Notify(ctx context.Context, contact, subject, body string) error {
	payload, err := json.Marshal(map[string]string{
		"contact": contact,
		"subject": subject,
		"body":    body,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
