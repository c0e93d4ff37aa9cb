package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-publisher/pkg/interfaces"
)

var (
	// ErrWebhookURLRequired indicates the webhook dispatcher was built without a target.
	ErrWebhookURLRequired = errors.New("notify: webhook url is required")
	// ErrWebhookRejected reports a non-2xx response from the webhook endpoint.
	ErrWebhookRejected = errors.New("notify: webhook rejected event")
)

const defaultWebhookTimeout = 10 * time.Second

// WebhookOption customises the webhook dispatcher.
type WebhookOption func(*webhookNotifier)

// WithHTTPClient overrides the HTTP client used for delivery.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(n *webhookNotifier) {
		if client != nil {
			n.client = client
		}
	}
}

// WithHeader attaches a static header to every delivery request.
func WithHeader(key, value string) WebhookOption {
	return func(n *webhookNotifier) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		n.headers[key] = value
	}
}

type webhookNotifier struct {
	url     string
	client  *http.Client
	headers map[string]string
}

// NewWebhookNotifier returns a dispatcher that POSTs events as JSON to the
// supplied endpoint. Responses outside the 2xx range are reported as
// ErrWebhookRejected.
func NewWebhookNotifier(url string, opts ...WebhookOption) (interfaces.Notifier, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrWebhookURLRequired
	}
	n := &webhookNotifier{
		url:     url,
		client:  &http.Client{Timeout: defaultWebhookTimeout},
		headers: map[string]string{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

type webhookPayload struct {
	Label      string         `json:"label"`
	Subject    string         `json:"subject"`
	ContentID  string         `json:"content_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func (n *webhookNotifier) Notify(ctx context.Context, event interfaces.NotificationEvent) error {
	body, err := json.Marshal(webhookPayload{
		Label:      event.Label,
		Subject:    event.Subject,
		ContentID:  event.ContentID,
		OccurredAt: event.OccurredAt,
		Metadata:   event.Metadata,
	})
	if err != nil {
		return fmt.Errorf("notify: encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range n.headers {
		req.Header.Set(key, value)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: deliver event: %w", err)
	}
	defer func() {
		// Drain the body so the transport can reuse the connection.
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d", ErrWebhookRejected, resp.StatusCode)
	}
	return nil
}
