// Package dashboard renders the mirador TUI: an overview of the agent
// backend's metrics, charts, and conversation list, and a per-conversation
// transcript view. All state lives in a single bubbletea model; network
// fetches run as commands and report back through typed messages.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivanmoreno/mirador/internal/api"
	"github.com/ivanmoreno/mirador/internal/config"
	"github.com/ivanmoreno/mirador/internal/format"
	"github.com/ivanmoreno/mirador/internal/logging"
)

// view is the explicit UI state. Exactly one of the two views is visible
// at any time; there is no per-panel visibility flag to drift out of sync.
type view int

const (
	viewOverview view = iota
	viewDetail
)

// DefaultRefreshInterval is the overview poll cadence.
const DefaultRefreshInterval = 10 * time.Second

// tickMsg drives the refresh scheduler.
type tickMsg time.Time

// metricsMsg carries a metrics fetch result. seq is the issue number the
// request was tagged with; stale responses are discarded by Update.
type metricsMsg struct {
	seq      uint64
	snapshot *api.MetricsSnapshot
	err      error
}

// conversationsMsg carries a conversation-list fetch result.
type conversationsMsg struct {
	seq  uint64
	list []api.ConversationSummary
	err  error
}

// detailMsg carries a conversation-detail fetch result.
type detailMsg struct {
	seq    uint64
	id     string
	detail *api.ConversationDetail
	err    error
}

// ConfigReloadMsg is sent from outside the program when the config file
// changes on disk.
type ConfigReloadMsg struct {
	Config *config.Config
}

// keyMap defines the dashboard key bindings.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Close   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Open:    key.NewBinding(key.WithKeys("enter")),
		Close:   key.NewBinding(key.WithKeys("esc")),
		Refresh: key.NewBinding(key.WithKeys("r")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	}
}

// Model is the TUI model.
type Model struct {
	client   *api.Client
	interval time.Duration
	version  string
	logger   *slog.Logger
	keys     keyMap

	view     view
	quitting bool

	metrics       *api.MetricsSnapshot
	conversations []api.ConversationSummary
	selected      int
	charts        *charts

	detail     *api.ConversationDetail
	transcript viewport.Model

	// Per-resource issue counters for the last-request-wins guard. A
	// response whose seq is not the latest issued for its resource is
	// dropped on arrival.
	metricsSeq uint64
	convSeq    uint64
	detailSeq  uint64

	lastMetricsAt time.Time
	lastListAt    time.Time
	opening       bool
}

// NewModel creates the dashboard model.
func NewModel(client *api.Client, interval time.Duration, version string) Model {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	vp := viewport.New(panelInnerWidth, 20)
	return Model{
		client:     client,
		interval:   interval,
		version:    version,
		logger:     logging.WithComponent("dashboard"),
		keys:       defaultKeyMap(),
		charts:     newCharts(),
		transcript: vp,
		// Init's command set is built from a value copy, so the first
		// requests are tagged with the counters' initial values.
		metricsSeq: 1,
		convSeq:    1,
	}
}

// Init starts the scheduler with an immediate refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchMetricsCmd(m.client, m.metricsSeq),
		fetchConversationsCmd(m.client, m.convSeq),
		m.tickCmd(),
		tea.EnterAltScreen,
	)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmds issues the metrics and conversation-list fetches as
// independent commands; either can fail without affecting the other.
func (m *Model) refreshCmds() tea.Cmd {
	m.metricsSeq++
	m.convSeq++
	return tea.Batch(
		fetchMetricsCmd(m.client, m.metricsSeq),
		fetchConversationsCmd(m.client, m.convSeq),
	)
}

func fetchMetricsCmd(client *api.Client, seq uint64) tea.Cmd {
	return func() tea.Msg {
		snap, err := client.Metrics(context.Background())
		return metricsMsg{seq: seq, snapshot: snap, err: err}
	}
}

func fetchConversationsCmd(client *api.Client, seq uint64) tea.Cmd {
	return func() tea.Msg {
		list, err := client.Conversations(context.Background())
		return conversationsMsg{seq: seq, list: list, err: err}
	}
}

func fetchDetailCmd(client *api.Client, id string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		detail, err := client.Conversation(context.Background(), id)
		return detailMsg{seq: seq, id: id, detail: detail, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// Panels are fixed-width; only the transcript viewport tracks the
		// terminal height.
		m.transcript.Width = panelInnerWidth
		m.transcript.Height = transcriptHeight(msg.Height)

	case tickMsg:
		// The scheduler is agnostic to the current view: the overview's
		// backing panels refresh even while the detail view is up.
		// refreshCmds mutates the seq counters, so it must run before m
		// is copied into the return value.
		refresh := m.refreshCmds()
		return m, tea.Batch(refresh, m.tickCmd())

	case metricsMsg:
		if msg.seq != m.metricsSeq {
			return m, nil // stale response, a newer request was issued
		}
		if msg.err != nil {
			m.logger.Warn("metrics refresh failed", slog.Any("error", msg.err))
			return m, nil // keep the last successful render
		}
		m.metrics = msg.snapshot
		m.charts.update(msg.snapshot)
		m.lastMetricsAt = time.Now()

	case conversationsMsg:
		if msg.seq != m.convSeq {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("conversation list refresh failed", slog.Any("error", msg.err))
			return m, nil
		}
		m.conversations = msg.list
		m.lastListAt = time.Now()
		if m.selected >= len(m.conversations) {
			m.selected = max(len(m.conversations)-1, 0)
		}

	case detailMsg:
		if msg.seq != m.detailSeq {
			return m, nil
		}
		m.opening = false
		if msg.err != nil {
			// Stay in the overview; no partial transition.
			m.logger.Warn("open conversation failed",
				slog.String("id", msg.id),
				slog.Any("error", msg.err),
			)
			return m, nil
		}
		m.detail = msg.detail
		m.transcript.SetContent(renderTranscript(msg.detail, m.transcript.Width))
		m.transcript.GotoBottom()
		m.view = viewDetail

	case ConfigReloadMsg:
		return m.applyConfig(msg.Config)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Close):
		if m.view == viewDetail {
			m.closeDetail()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		refresh := m.refreshCmds()
		return m, refresh

	case key.Matches(msg, m.keys.Up):
		if m.view == viewOverview {
			if m.selected > 0 {
				m.selected--
			}
		} else {
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Down):
		if m.view == viewOverview {
			if m.selected < len(m.conversations)-1 {
				m.selected++
			}
		} else {
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Open):
		if m.view == viewOverview {
			return m.openSelected()
		}
	}

	return m, nil
}

// openSelected requests the selected conversation's detail. The view
// switches only when the fetch succeeds.
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	if m.selected < 0 || m.selected >= len(m.conversations) {
		return m, nil
	}
	id := m.conversations[m.selected].ID
	m.detailSeq++
	m.opening = true
	return m, fetchDetailCmd(m.client, id, m.detailSeq)
}

// closeDetail discards the loaded detail and returns to the overview.
// No network call happens here; a late detail response is invalidated by
// bumping the issue counter.
func (m *Model) closeDetail() {
	m.detailSeq++
	m.detail = nil
	m.opening = false
	m.view = viewOverview
}

// applyConfig picks up a hot-reloaded config: poll cadence takes effect
// on the next tick, a base URL change swaps the client.
func (m Model) applyConfig(cfg *config.Config) (tea.Model, tea.Cmd) {
	if cfg == nil {
		return m, nil
	}
	if iv := time.Duration(cfg.Dashboard.RefreshInterval) * time.Second; iv > 0 {
		m.interval = iv
	}
	if base := cfg.API.BaseURL; base != m.client.BaseURL() && base != "" {
		m.client = api.NewClient(base)
		refresh := m.refreshCmds()
		return m, refresh
	}
	return m, nil
}

// View renders the current view.
func (m Model) View() string {
	if m.quitting {
		return "mirador stopped.\n"
	}
	if m.view == viewDetail {
		return m.viewDetailScreen()
	}
	return m.viewOverviewScreen()
}

func (m Model) viewOverviewScreen() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderMetricCards())
	b.WriteString("\n")
	b.WriteString(m.charts.renderOutcomes())
	b.WriteString("\n")
	b.WriteString(m.charts.renderHourly())
	b.WriteString("\n")
	b.WriteString(m.charts.renderIntents())
	b.WriteString("\n")
	b.WriteString(m.charts.renderUpsell())
	b.WriteString("\n")
	b.WriteString(m.renderConversations())
	b.WriteString("\n")

	help := "q: salir  j/k: seleccionar  enter: abrir  r: refrescar"
	if m.opening {
		help += "  (cargando...)"
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(fmt.Sprintf("MIRADOR v%s", m.version))
	target := dimStyle.Render(m.client.BaseURL())
	updated := ""
	if !m.lastMetricsAt.IsZero() {
		updated = dimStyle.Render("  actualizado " + m.lastMetricsAt.Format("15:04:05"))
	}
	return title + "  " + target + updated
}

// renderMetricCards renders the three headline cards.
func (m Model) renderMetricCards() string {
	var (
		total    = format.Placeholder
		resolved = ""
		pct      = ""
		avg      = format.Placeholder
		allTime  = ""
		upsConv  = format.Placeholder
		upsRev   = ""
		savings  = ""
	)

	if s := m.metrics; s != nil {
		total = fmt.Sprintf("%d", s.TotalConversationsToday)
		resolved = fmt.Sprintf("%d auto-resueltas", s.AutoResolvedToday)
		pct = fmt.Sprintf("%.1f%% hoy", s.AutoResolvedPct)
		if s.AvgResponseTimeMs > 0 {
			avg = fmt.Sprintf("%dms", s.AvgResponseTimeMs)
		} else {
			avg = "N/A" // 0 means the backend has no samples
		}
		if s.TotalConversationsAllTime > 0 {
			allTime = fmt.Sprintf("%d históricas", s.TotalConversationsAllTime)
			if s.AutoResolvedAllTimePct > 0 {
				allTime = fmt.Sprintf("%d hist · %.0f%% auto", s.TotalConversationsAllTime, s.AutoResolvedAllTimePct)
			}
		}
		upsConv = fmt.Sprintf("%.1f%%", s.UpsellConversionPct)
		upsRev = fmt.Sprintf("$%.2f ingresos", s.UpsellRevenue)
		if f := s.Financial; f != nil {
			savings = fmt.Sprintf("$%.2f ahorro est.", f.EstimatedSavings)
		}
	}

	cards := []string{
		buildCard("hoy", titleStyle.Render(total), dimStyle.Render(resolved), okStyle.Render(pct)),
		buildCard("respuesta", labelStyle.Render(avg), dimStyle.Render("media últimos msgs"), dimStyle.Render(allTime)),
		buildCard("upsell", okStyle.Render(upsConv), dimStyle.Render(upsRev), dimStyle.Render(savings)),
	}
	return joinCards(cards)
}

// renderConversations renders the conversation table panel.
func (m Model) renderConversations() string {
	var b strings.Builder

	if len(m.conversations) == 0 {
		b.WriteString("  Sin conversaciones todavía")
		return renderPanel("CONVERSACIONES", b.String())
	}

	for i, conv := range m.conversations {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderConversationRow(conv, i == m.selected))
	}
	return renderPanel("CONVERSACIONES", b.String())
}

// renderConversationRow lays out one table row:
// selector(2) id(9) phone(14) platform(9) status(9) outcome(17) msgs(4) time(11)
func (m Model) renderConversationRow(conv api.ConversationSummary, selected bool) string {
	selector := "  "
	if selected {
		selector = "> "
	}

	statusStyle, ok := statusStyles[conv.Status]
	if !ok {
		statusStyle = dimStyle
	}
	outcomeKey := format.OutcomeOrDefault(conv.Outcome)
	oStyle, ok := outcomeStyles[outcomeKey]
	if !ok {
		oStyle = dimStyle
	}

	if selected {
		selector = selectedStyle.Render("> ")
	}

	return selector +
		padToWidth(format.TruncateID(conv.ID), 9) + " " +
		padToWidth(conv.GuestPhone, 13) + " " +
		padToWidth(conv.Platform, 9) + " " +
		statusStyle.Render(padToWidth(format.StatusLabel(conv.Status), 9)) + " " +
		oStyle.Render(padToWidth(format.OutcomeLabel(outcomeKey), 17)) + " " +
		fmt.Sprintf("%3d", conv.MessageCount) + "  " +
		dimStyle.Render(fmt.Sprintf("%11s", format.Timestamp(conv.LastMessageAt)))
}

// joinCards places metric cards side by side.
func joinCards(cards []string) string {
	split := make([][]string, len(cards))
	height := 0
	for i, card := range cards {
		split[i] = strings.Split(card, "\n")
		if len(split[i]) > height {
			height = len(split[i])
		}
	}

	var b strings.Builder
	for line := 0; line < height; line++ {
		if line > 0 {
			b.WriteString("\n")
		}
		for _, lines := range split {
			if line < len(lines) {
				b.WriteString(lines[line])
			}
		}
	}
	return b.String()
}

// Run starts the dashboard TUI and blocks until it exits.
func Run(cfg *config.Config, version string) error {
	client := api.NewClient(cfg.API.BaseURL)
	interval := time.Duration(cfg.Dashboard.RefreshInterval) * time.Second

	p := tea.NewProgram(
		NewModel(client, interval, version),
		tea.WithAltScreen(),
	)

	// Hot-reload the config file the program was started with, which is
	// not necessarily the default location.
	watchPath := cfg.Path()
	if watchPath == "" {
		watchPath = config.DefaultPath()
	}
	watcher := config.NewWatcher(watchPath, func(c *config.Config) {
		p.Send(ConfigReloadMsg{Config: c})
	})
	if err := watcher.Start(); err == nil {
		defer watcher.Stop()
	}

	_, err := p.Run()
	return err
}
