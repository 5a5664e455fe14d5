// Package watch runs mirador headless: a cron-scheduled poller that
// fetches the backend's metrics and conversation list and logs a summary
// line per run. Useful on a server where no terminal is attached.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ivanmoreno/mirador/internal/api"
	"github.com/ivanmoreno/mirador/internal/format"
	"github.com/ivanmoreno/mirador/internal/logging"
)

// Watcher polls the backend on a cron schedule.
type Watcher struct {
	client   *api.Client
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
	entryID  cron.EntryID
	logger   *slog.Logger
}

// NewWatcher creates a watcher for the given client and cron schedule.
func NewWatcher(client *api.Client, schedule string) *Watcher {
	return &Watcher{
		client:   client,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logging.WithComponent("watch"),
	}
}

// Start registers the polling job and begins the schedule. The first
// poll runs immediately rather than waiting for the first cron fire.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	entryID, err := w.cron.AddFunc(w.schedule, func() {
		w.poll(ctx)
	})
	if err != nil {
		return err
	}

	w.entryID = entryID
	w.cron.Start()
	w.running = true

	w.logger.Info("watch started",
		"schedule", w.schedule,
		"target", w.client.BaseURL(),
		"next_run", w.cron.Entry(w.entryID).Next,
	)

	go w.poll(ctx)
	return nil
}

// Stop halts the schedule and waits for an in-flight poll to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	ctx := w.cron.Stop()
	<-ctx.Done()
	w.running = false
	w.logger.Info("watch stopped")
}

// NextRun returns the next scheduled poll time.
func (w *Watcher) NextRun() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return time.Time{}
	}
	return w.cron.Entry(w.entryID).Next
}

// IsRunning returns whether the schedule is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// RunNow performs a single poll outside the schedule.
func (w *Watcher) RunNow(ctx context.Context) {
	w.poll(ctx)
}

// poll fetches metrics and the conversation list. The two fetches are
// independent; one failing does not skip the other.
func (w *Watcher) poll(ctx context.Context) {
	if snap, err := w.client.Metrics(ctx); err != nil {
		w.logger.Error("metrics poll failed", "error", err)
	} else {
		w.logMetrics(snap)
	}

	if list, err := w.client.Conversations(ctx); err != nil {
		w.logger.Error("conversation poll failed", "error", err)
	} else {
		w.logConversations(list)
	}
}

func (w *Watcher) logMetrics(snap *api.MetricsSnapshot) {
	attrs := []any{
		"conversations_today", snap.TotalConversationsToday,
		"auto_resolved_today", snap.AutoResolvedToday,
		"auto_resolved_pct", snap.AutoResolvedPct,
		"avg_response_ms", snap.AvgResponseTimeMs,
	}
	if snap.UpsellRevenue > 0 {
		attrs = append(attrs, "upsell_revenue", snap.UpsellRevenue)
	}
	if f := snap.Financial; f != nil {
		attrs = append(attrs, "estimated_savings", f.EstimatedSavings)
	}
	w.logger.Info("metrics", attrs...)
}

func (w *Watcher) logConversations(list []api.ConversationSummary) {
	byStatus := map[string]int{}
	for _, conv := range list {
		byStatus[conv.Status]++
	}
	w.logger.Info("conversations",
		"total", len(list),
		"active", byStatus["active"],
		"resolved", byStatus["resolved"],
		"escalated", byStatus["escalated"],
	)

	for _, conv := range list {
		if conv.Status != "escalated" {
			continue
		}
		w.logger.Warn("escalated conversation",
			"id", format.TruncateID(conv.ID),
			"guest", conv.GuestPhone,
			"platform", conv.Platform,
			"messages", conv.MessageCount,
		)
	}
}

// Run starts the watcher and blocks until the context is cancelled. The
// backend is health-probed once up front so a wrong base URL surfaces
// immediately instead of on the first scheduled poll.
func Run(ctx context.Context, client *api.Client, schedule string) error {
	w := NewWatcher(client, schedule)

	if health, err := client.Health(ctx); err != nil {
		w.logger.Warn("backend health probe failed", "target", client.BaseURL(), "error", err)
	} else {
		w.logger.Info("backend healthy", "status", health.Status, "version", health.Version)
	}

	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	<-ctx.Done()
	return nil
}
