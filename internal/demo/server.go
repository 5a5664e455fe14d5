package demo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ivanmoreno/mirador/internal/logging"
)

// Handler serves the sample backend's JSON API.
type Handler struct {
	store   *Store
	version string
	logger  *slog.Logger
}

// NewHandler creates a handler over the given store.
func NewHandler(store *Store, version string) *Handler {
	return &Handler{
		store:   store,
		version: version,
		logger:  logging.WithComponent("demo"),
	}
}

// RegisterRoutes adds the API routes to the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/metrics", h.handleMetrics)
	mux.HandleFunc("/api/conversations", h.handleConversations)
	mux.HandleFunc("/api/conversations/", h.handleConversation)
	mux.HandleFunc("/health", h.handleHealth)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, h.store.Metrics())
}

func (h *Handler) handleConversations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, h.store.Conversations())
}

func (h *Handler) handleConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/conversations/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	detail := h.store.Conversation(id)
	if detail == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Conversation not found"}`))
		return
	}
	writeJSON(w, detail)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "no-cache")
	_ = json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"detail":"Method Not Allowed"}`))
}

// Run serves the sample backend on addr until the context is cancelled.
func Run(ctx context.Context, addr string, seed int64, version string) error {
	h := NewHandler(NewStore(seed), version)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	srv := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	h.logger.Info("demo backend listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
