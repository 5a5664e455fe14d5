package api

// Wire types for the agent backend's read-only dashboard API.
// Field names match the backend's JSON verbatim. Optional top-level
// sections are pointers or nil slices so an absent section is
// distinguishable from a present-but-zero one.

// MetricsSnapshot is the response from GET /api/metrics. Each poll fully
// replaces the previous snapshot; snapshots are never merged.
type MetricsSnapshot struct {
	TotalConversationsToday int     `json:"total_conversations_today"`
	AutoResolvedToday       int     `json:"auto_resolved_today"`
	AutoResolvedPct         float64 `json:"auto_resolved_pct"`
	// AvgResponseTimeMs is 0 when the backend has no latency samples yet;
	// renderers show "N/A" in that case, never "0ms".
	AvgResponseTimeMs int `json:"avg_response_time_ms"`

	TopIntents []IntentCount `json:"top_intents"`

	UpsellRevenue       float64 `json:"upsell_revenue"`
	UpsellConversionPct float64 `json:"upsell_conversion_rate"`

	Outcomes      *Outcomes      `json:"outcomes"`
	Financial     *Financial     `json:"financial"`
	Hourly        []HourlyBucket `json:"hourly_distribution"`
	UpsellByOffer []UpsellOffer  `json:"upsell_by_offer"`

	TotalConversationsAllTime int     `json:"total_conversations_all_time"`
	AutoResolvedAllTimePct    float64 `json:"auto_resolved_all_time_pct"`
}

// IntentCount is one entry of top_intents, pre-sorted by the backend.
type IntentCount struct {
	Intent string `json:"intent"`
	Count  int    `json:"count"`
}

// Outcomes maps the seven fixed outcome categories to counts.
type Outcomes struct {
	Venta            int `json:"venta"`
	UpsellExitoso    int `json:"upsell_exitoso"`
	ProblemaResuelto int `json:"problema_resuelto"`
	ConsultaResuelta int `json:"consulta_resuelta"`
	Escalada         int `json:"escalada"`
	Abandonada       int `json:"abandonada"`
	EnCurso          int `json:"en_curso"`
}

// Financial holds revenue and cost aggregates.
type Financial struct {
	BookingRevenue    float64 `json:"booking_revenue"`
	UpsellRevenue     float64 `json:"upsell_revenue"`
	EstimatedSavings  float64 `json:"estimated_savings"`
	TotalAgentRevenue float64 `json:"total_agent_revenue"`
	CostPerEscalation float64 `json:"cost_per_escalation"`
}

// HourlyBucket is one hour-of-day slot of hourly_distribution.
type HourlyBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// UpsellOffer aggregates one offer's offered-vs-accepted funnel.
type UpsellOffer struct {
	OfferName     string  `json:"offer_name"`
	OfferType     string  `json:"offer_type"`
	OfferedCount  int     `json:"offered_count"`
	AcceptedCount int     `json:"accepted_count"`
	Revenue       float64 `json:"revenue"`
}

// ConversationSummary is one row of GET /api/conversations. Order is as
// returned by the backend (most recent activity first); the client does
// not re-sort.
type ConversationSummary struct {
	ID             string `json:"id"`
	GuestPhone     string `json:"guest_phone"`
	Platform       string `json:"platform"`
	Status         string `json:"status"`
	ResolutionType string `json:"resolution_type"`
	StartedAt      string `json:"started_at"`
	LastMessageAt  string `json:"last_message_at"`
	MessageCount   int    `json:"message_count"`
	// Outcome is empty when the backend has not classified the
	// conversation; callers display it as en_curso.
	Outcome string `json:"outcome"`
}

// ConversationDetail is the response from GET /api/conversations/{id}.
type ConversationDetail struct {
	ID             string    `json:"id"`
	GuestPhone     string    `json:"guest_phone"`
	Platform       string    `json:"platform"`
	Status         string    `json:"status"`
	ResolutionType string    `json:"resolution_type"`
	StartedAt      string    `json:"started_at"`
	LastMessageAt  string    `json:"last_message_at"`
	Messages       []Message `json:"messages"`
}

// Message is one transcript entry, ordered oldest first by the backend.
// Content is guest- or model-authored and must be sanitized before it is
// rendered.
type Message struct {
	ID        string           `json:"id"`
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	Intent    string           `json:"intent"`
	Metadata  *MessageMetadata `json:"metadata"`
	CreatedAt string           `json:"created_at"`
}

// MessageMetadata carries per-message diagnostics from the backend.
type MessageMetadata struct {
	LatencyMs float64 `json:"latency_ms"`
}

// Health is the response from GET /health.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
