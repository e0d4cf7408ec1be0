package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gestorecommerce/catalog-backend/pkg/config"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

func healthConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}}
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(healthConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Gestor-Env"); got != "test" {
		t.Fatalf("unexpected env header %q", got)
	}
}

func TestHealthReady(t *testing.T) {
	t.Run("all ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(healthConfig(), testLogger(), stubPinger{}, stubPinger{}, stubPinger{}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("db down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(healthConfig(), testLogger(), stubPinger{err: errors.New("connection refused")}, stubPinger{}, stubPinger{}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		body := decodeEnvelope(t, rec)
		details := body.Error.Details.(map[string]any)
		if details["db"] != "connection refused" {
			t.Fatalf("unexpected checks %v", details)
		}
	})

	t.Run("nil dependencies are skipped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(healthConfig(), testLogger(), nil, nil, nil).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
