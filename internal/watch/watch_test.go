package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ivanmoreno/mirador/internal/api"
)

func TestStartRejectsInvalidSchedule(t *testing.T) {
	w := NewWatcher(api.NewClient("http://127.0.0.1:1"), "not a cron spec")
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
	if w.IsRunning() {
		t.Error("watcher running after failed Start")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte(`{}`))
	}))
	defer srv.Close()

	w := NewWatcher(api.NewClient(srv.URL), "@every 1h")
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if !w.IsRunning() {
		t.Error("watcher not running")
	}
	if w.NextRun().IsZero() {
		t.Error("NextRun is zero while running")
	}
}

func TestRunNowFetchesBothEndpoints(t *testing.T) {
	var metrics, conversations atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/metrics":
			metrics.Add(1)
			rw.Write([]byte(`{"total_conversations_today":5,"auto_resolved_today":4,"auto_resolved_pct":80.0,"avg_response_time_ms":900}`))
		case "/api/conversations":
			conversations.Add(1)
			rw.Write([]byte(`[{"id":"c1","status":"escalated","guest_phone":"+5491155550001","platform":"telegram","message_count":7}]`))
		default:
			http.NotFound(rw, r)
		}
	}))
	defer srv.Close()

	w := NewWatcher(api.NewClient(srv.URL), "@every 1h")
	w.RunNow(context.Background())

	if metrics.Load() != 1 {
		t.Errorf("metrics fetched %d times, want 1", metrics.Load())
	}
	if conversations.Load() != 1 {
		t.Errorf("conversations fetched %d times, want 1", conversations.Load())
	}
}

func TestPollContinuesAfterMetricsFailure(t *testing.T) {
	var conversations atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/metrics":
			http.Error(rw, "boom", http.StatusInternalServerError)
		case "/api/conversations":
			conversations.Add(1)
			rw.Write([]byte(`[]`))
		default:
			http.NotFound(rw, r)
		}
	}))
	defer srv.Close()

	w := NewWatcher(api.NewClient(srv.URL), "@every 1h")
	w.RunNow(context.Background())

	if conversations.Load() != 1 {
		t.Error("conversation fetch skipped after metrics failure")
	}
}

func TestStopWhileNotRunningIsNoop(t *testing.T) {
	w := NewWatcher(api.NewClient("http://127.0.0.1:1"), "@every 1h")
	w.Stop() // must not panic or block
	if w.IsRunning() {
		t.Error("watcher running after Stop")
	}
	if !w.NextRun().IsZero() {
		t.Error("NextRun non-zero while stopped")
	}
}

func TestRunReturnsOnContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, api.NewClient(srv.URL), "@every 1h")
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
