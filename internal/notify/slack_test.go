package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAlert(productID string) AlertPayload {
	return AlertPayload{
		ProductID:        productID,
		Name:             "Latte",
		CurrentPrice:     4.50,
		RecommendedPrice: 4.95,
		ProfitDelta:      62.40,
		Reason:           "price move 10.0%",
	}
}

func TestAlertPayload_Line(t *testing.T) {
	t.Parallel()

	a := testAlert("P001")
	assert.Equal(t, "Latte: $4.50 → $4.95 (Δprofit $62.40)", a.Line())

	// Falls back to the product id when no name is set.
	a.Name = ""
	assert.Equal(t, "P001: $4.50 → $4.95 (Δprofit $62.40)", a.Line())
}

func TestSlackNotifier_SendAlert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
		errMsg     string
	}{
		{
			name:       "valid alert posts text",
			statusCode: http.StatusOK,
		},
		{
			name:       "slack returns 429 rate limited",
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "slack returns 400 error",
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "slack returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received slackWebhookPayload

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)

					err := json.NewDecoder(r.Body).Decode(&received)
					assert.NoError(t, err)

					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			s := NewSlackNotifier(srv.URL)
			alert := testAlert("P001")
			err := s.SendAlert(context.Background(), &alert)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, received.Text, batchHeader)
			assert.Contains(t, received.Text, alert.Line())
			assert.Contains(t, received.Text, alert.Reason)
		})
	}
}

func TestSlackNotifier_SendBatchAlert(t *testing.T) {
	t.Parallel()

	var received slackWebhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&received)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	alerts := make([]AlertPayload, 3)
	for i := range alerts {
		alerts[i] = testAlert(fmt.Sprintf("P%03d", i))
	}

	s := NewSlackNotifier(srv.URL, WithRateLimit(100, 10))
	require.NoError(t, s.SendBatchAlert(context.Background(), alerts))

	lines := strings.Split(received.Text, "\n")
	require.Len(t, lines, 4) // header + 3 alerts
	assert.Equal(t, batchHeader, lines[0])
}

func TestSlackNotifier_SendBatchAlert_Overflow(t *testing.T) {
	t.Parallel()

	var received slackWebhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&received)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	alerts := make([]AlertPayload, maxBatchLines+5)
	for i := range alerts {
		alerts[i] = testAlert(fmt.Sprintf("P%03d", i))
	}

	s := NewSlackNotifier(srv.URL, WithRateLimit(100, 10))
	require.NoError(t, s.SendBatchAlert(context.Background(), alerts))

	lines := strings.Split(received.Text, "\n")
	require.Len(t, lines, maxBatchLines+2) // header + capped alerts + summary
	assert.Equal(t, "... and 5 more", lines[len(lines)-1])
}

func TestSlackNotifier_SendBatchAlert_Empty(t *testing.T) {
	t.Parallel()

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSlackNotifier(srv.URL)
	require.NoError(t, s.SendBatchAlert(context.Background(), nil))
	assert.Zero(t, requests)
}

func TestSlackNotifier_NetworkError(t *testing.T) {
	t.Parallel()

	s := NewSlackNotifier("http://127.0.0.1:1") // nothing listening
	alert := testAlert("P001")
	err := s.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending slack webhook")
}

func TestSlackNotifier_InvalidWebhookURL(t *testing.T) {
	t.Parallel()

	s := NewSlackNotifier("://not-a-valid-url")
	alert := testAlert("P001")
	err := s.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating slack request")
}

func TestSlackNotifier_RateLimitWaitHonorsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// Burst 1 at a very slow refill: the second send must wait, and a
	// canceled context aborts the wait.
	s := NewSlackNotifier(srv.URL, WithRateLimit(0.001, 1))
	alert := testAlert("P001")
	require.NoError(t, s.SendAlert(context.Background(), &alert))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.SendAlert(ctx, &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "waiting for slack rate limit")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	s := NewSlackNotifier("https://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, s.client)
}
