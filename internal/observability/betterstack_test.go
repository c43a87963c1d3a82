package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/draftday/draftsim/internal/config"
	"github.com/draftday/draftsim/internal/platform/logging"
)

type ingestCapture struct {
	mu       sync.Mutex
	requests int
	lastAuth string
}

func (c *ingestCapture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.requests++
		c.lastAuth = r.Header.Get("Authorization")
		c.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
}

func (c *ingestCapture) snapshot() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests, c.lastAuth
}

func betterStackTestConfig(endpoint, token string) config.Config {
	return config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    token,
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		ServiceName:         "draftsim-api",
		AppEnv:              config.EnvDev,
	}
}

func TestInitBetterStackLogger_SendsErrorLog(t *testing.T) {
	t.Parallel()

	capture := &ingestCapture{}
	server := httptest.NewServer(capture.handler())
	defer server.Close()

	cfg := betterStackTestConfig(server.URL, "secret-token")
	logger, shutdown, err := InitBetterStackLogger(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.ErrorContext(context.Background(), "pick rejected", "component", "httpapi")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	requests, auth := capture.snapshot()
	if requests == 0 {
		t.Fatalf("expected Better Stack endpoint to receive at least 1 request")
	}
	if auth != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", auth)
	}
}

func TestInitBetterStackLogger_RespectsMinLevel(t *testing.T) {
	t.Parallel()

	capture := &ingestCapture{}
	server := httptest.NewServer(capture.handler())
	defer server.Close()

	cfg := betterStackTestConfig(server.URL, "")
	logger, shutdown, err := InitBetterStackLogger(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.InfoContext(context.Background(), "catalog preloaded, below ship threshold")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	if requests, _ := capture.snapshot(); requests != 0 {
		t.Fatalf("expected no request for info log, got %d", requests)
	}
}

func TestInitBetterStackLogger_Disabled(t *testing.T) {
	t.Parallel()

	logger, shutdown, err := InitBetterStackLogger(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("init with disabled config: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected fallback logger")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}
