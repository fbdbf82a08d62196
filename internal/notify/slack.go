package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

const batchHeader = "⚠️ Pricing Alerts"

// Slack limits batch messages to a readable size; overflow is summarized.
const maxBatchLines = 20

// SlackNotifier implements Notifier via a Slack incoming webhook.
// Sends are rate limited so a large batch of per-product alerts cannot
// trip Slack's webhook throttling.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
	limiter    *rate.Limiter
}

// NewSlackNotifier creates a new SlackNotifier.
func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	s := &SlackNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(1), 3),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SlackOption configures a SlackNotifier.
type SlackOption func(*SlackNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) SlackOption {
	return func(s *SlackNotifier) {
		s.client = c
	}
}

// WithRateLimit sets the webhook send rate and burst.
func WithRateLimit(perSecond float64, burst int) SlackOption {
	return func(s *SlackNotifier) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// slackWebhookPayload is the Slack incoming-webhook JSON structure.
type slackWebhookPayload struct {
	Text string `json:"text"`
}

// SendAlert posts a single pricing alert.
func (s *SlackNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	text := batchHeader + "\n" + alert.Line()
	if alert.Reason != "" {
		text += "\n" + alert.Reason
	}
	return s.post(ctx, text)
}

// SendBatchAlert posts all alerts from one pass as a single message.
func (s *SlackNotifier) SendBatchAlert(ctx context.Context, alerts []AlertPayload) error {
	if len(alerts) == 0 {
		return nil
	}

	lines := make([]string, 0, maxBatchLines+2)
	lines = append(lines, batchHeader)

	limit := min(len(alerts), maxBatchLines)
	for i := range limit {
		lines = append(lines, alerts[i].Line())
	}
	if len(alerts) > maxBatchLines {
		lines = append(lines, fmt.Sprintf("... and %d more", len(alerts)-maxBatchLines))
	}

	return s.post(ctx, strings.Join(lines, "\n"))
}

func (s *SlackNotifier) post(ctx context.Context, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for slack rate limit: %w", err)
	}

	body, err := json.Marshal(slackWebhookPayload{Text: text})
	if err != nil {
		return fmt.Errorf("marshaling slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("slack rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("slack returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("slack returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
