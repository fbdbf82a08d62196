// Package main implements a mock Slack incoming-webhook server for local
// development. It accepts webhook posts, prints the alert text, and can
// inject failures and rate limiting to exercise the notifier's error paths
// without a real Slack workspace.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"
)

type webhookPayload struct {
	Text string `json:"text"`
}

func main() {
	port := flag.Int("port", 8090, "port to listen on")
	failRate := flag.Float64("fail-rate", 0, "fraction of requests answered with 500")
	limitEvery := flag.Int("limit-every", 0, "answer every Nth request with 429 (0 disables)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", webhookHandler(logger, *failRate, *limitEvery))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock webhook server", "addr", addr,
		"fail_rate", *failRate, "limit_every", *limitEvery)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func webhookHandler(logger *slog.Logger, failRate float64, limitEvery int) http.HandlerFunc {
	var count atomic.Int64

	return func(w http.ResponseWriter, r *http.Request) {
		n := count.Add(1)

		if limitEvery > 0 && n%int64(limitEvery) == 0 {
			logger.Warn("injecting rate limit", "request", n)
			w.Header().Set("Retry-After", strconv.Itoa(1))
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		if failRate > 0 && rand.Float64() < failRate { //nolint:gosec // non-cryptographic failure injection
			logger.Warn("injecting failure", "request", n)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		var payload webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			logger.Warn("bad payload", "error", err)
			http.Error(w, "invalid_payload", http.StatusBadRequest)
			return
		}

		logger.Info("webhook received", "text", payload.Text)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	}
}
