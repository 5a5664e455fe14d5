// Package demo serves a sample backend with the same JSON API the
// dashboard polls. It lets mirador be tried without the real agent
// backend: `mirador demo` in one terminal, `mirador` in another.
package demo

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ivanmoreno/mirador/internal/api"
)

// Store holds the generated sample conversations and derives metrics
// from them on demand, the way the real backend aggregates its rows.
type Store struct {
	mu            sync.RWMutex
	conversations []conversation
	startedAt     time.Time
}

type conversation struct {
	summary  api.ConversationSummary
	messages []api.Message
	intent   string
}

var samplePhones = []string{
	"+5491155550101", "+5491155550102", "+5491155550103",
	"+5491155550104", "+5491155550105", "+5491155550106",
	"+5491155550107", "+5491155550108",
}

var sampleExchanges = []struct {
	intent  string
	outcome string
	status  string
	turns   []string
}{
	{
		intent: "booking_info", outcome: "consulta_resuelta", status: "resolved",
		turns: []string{
			"Hola! A qué hora es el check-in?",
			"Hola! El check-in es a partir de las 15:00. Si llegás antes podemos guardar tu equipaje.",
			"Perfecto, gracias!",
			"De nada! Cualquier otra consulta estoy a disposición.",
		},
	},
	{
		intent: "amenities_query", outcome: "upsell_exitoso", status: "resolved",
		turns: []string{
			"Tienen spa en el hotel?",
			"Sí! El spa abre de 10 a 20hs. Hoy tenemos 20% de descuento en el circuito de aguas, te reservo un turno?",
			"Dale, para las 17hs si hay lugar",
			"Listo, turno confirmado para las 17:00. El cargo se suma a tu habitación.",
		},
	},
	{
		intent: "service_request", outcome: "problema_resuelto", status: "resolved",
		turns: []string{
			"El aire acondicionado de la 304 no enfría",
			"Lamento el inconveniente. Envío a mantenimiento a la habitación 304 ahora mismo.",
			"Ya vinieron, funciona perfecto",
			"Excelente! Gracias por avisar.",
		},
	},
	{
		intent: "service_request", outcome: "escalada", status: "escalated",
		turns: []string{
			"Me cobraron dos veces la cena de anoche, esto es un desastre",
			"Lamento mucho el error. Derivo tu caso al equipo de recepción para revisar el cargo de inmediato.",
		},
	},
	{
		intent: "faq_general", outcome: "consulta_resuelta", status: "resolved",
		turns: []string{
			"Hasta qué hora sirven el desayuno?",
			"El desayuno se sirve de 7:00 a 10:30 en el restaurante de planta baja.",
		},
	},
	{
		intent: "booking_info", outcome: "venta", status: "resolved",
		turns: []string{
			"Quiero extender mi estadía una noche más",
			"Con gusto! Tenemos disponibilidad. Agrego la noche del sábado a tu reserva por $85.",
			"Sí, confirmame",
			"Hecho! Tu salida queda para el domingo a las 11:00.",
		},
	},
	{
		intent: "amenities_query", outcome: "en_curso", status: "active",
		turns: []string{
			"Qué opciones hay para cenar cerca del hotel?",
			"Tenemos nuestro restaurante en planta baja, y a dos cuadras está la zona gastronómica. Buscás algo en particular?",
			"Algo de pastas",
		},
	},
	{
		intent: "out_of_scope", outcome: "abandonada", status: "resolved",
		turns: []string{
			"Me podés conseguir entradas para el partido de mañana?",
			"Eso escapa a lo que puedo gestionar, pero en recepción pueden orientarte con la compra.",
		},
	},
}

// NewStore generates a fresh sample dataset. The rng seed is fixed by
// the caller so repeated runs can produce the same dashboard.
func NewStore(seed int64) *Store {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now()
	s := &Store{startedAt: now}

	n := 10 + rng.Intn(8)
	for i := 0; i < n; i++ {
		ex := sampleExchanges[rng.Intn(len(sampleExchanges))]
		started := now.Add(-time.Duration(rng.Intn(12*3600)) * time.Second)
		platform := "telegram"
		if rng.Intn(3) == 0 {
			platform = "whatsapp"
		}

		conv := conversation{intent: ex.intent}
		conv.summary = api.ConversationSummary{
			ID:           uuid.NewString(),
			GuestPhone:   samplePhones[rng.Intn(len(samplePhones))],
			Platform:     platform,
			Status:       ex.status,
			StartedAt:    started.UTC().Format(time.RFC3339),
			MessageCount: len(ex.turns),
			Outcome:      ex.outcome,
		}
		if ex.status == "resolved" {
			conv.summary.ResolutionType = "automated"
		} else if ex.status == "escalated" {
			conv.summary.ResolutionType = "human_handoff"
		}

		at := started
		for t, content := range ex.turns {
			role := "user"
			var meta *api.MessageMetadata
			if t%2 == 1 {
				role = "assistant"
				meta = &api.MessageMetadata{LatencyMs: float64(400 + rng.Intn(1800))}
			}
			msg := api.Message{
				ID:        uuid.NewString(),
				Role:      role,
				Content:   content,
				CreatedAt: at.UTC().Format(time.RFC3339),
				Metadata:  meta,
			}
			if t == 0 {
				msg.Intent = ex.intent
			}
			conv.messages = append(conv.messages, msg)
			at = at.Add(time.Duration(20+rng.Intn(90)) * time.Second)
		}
		conv.summary.LastMessageAt = at.UTC().Format(time.RFC3339)

		s.conversations = append(s.conversations, conv)
	}

	// Most recent activity first, matching the real backend's ordering.
	for i := 0; i < len(s.conversations); i++ {
		for j := i + 1; j < len(s.conversations); j++ {
			if s.conversations[j].summary.LastMessageAt > s.conversations[i].summary.LastMessageAt {
				s.conversations[i], s.conversations[j] = s.conversations[j], s.conversations[i]
			}
		}
	}

	return s
}

// Conversations returns the summaries, most recent first.
func (s *Store) Conversations() []api.ConversationSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.ConversationSummary, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, c.summary)
	}
	return out
}

// Conversation returns one conversation with its transcript, or nil.
func (s *Store) Conversation(id string) *api.ConversationDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.conversations {
		if c.summary.ID != id {
			continue
		}
		return &api.ConversationDetail{
			ID:             c.summary.ID,
			GuestPhone:     c.summary.GuestPhone,
			Platform:       c.summary.Platform,
			Status:         c.summary.Status,
			ResolutionType: c.summary.ResolutionType,
			StartedAt:      c.summary.StartedAt,
			LastMessageAt:  c.summary.LastMessageAt,
			Messages:       append([]api.Message(nil), c.messages...),
		}
	}
	return nil
}

// Metrics aggregates the dataset into a snapshot.
func (s *Store) Metrics() *api.MetricsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &api.MetricsSnapshot{
		Outcomes: &api.Outcomes{},
		Hourly:   make([]api.HourlyBucket, 24),
	}
	for h := range snap.Hourly {
		snap.Hourly[h].Hour = h
	}

	intentCounts := map[string]int{}
	var latencySum float64
	var latencyN int
	upsellOffered, upsellAccepted := 0, 0

	for _, c := range s.conversations {
		snap.TotalConversationsToday++
		if c.summary.ResolutionType == "automated" {
			snap.AutoResolvedToday++
		}
		intentCounts[c.intent]++

		switch c.summary.Outcome {
		case "venta":
			snap.Outcomes.Venta++
		case "upsell_exitoso":
			snap.Outcomes.UpsellExitoso++
		case "problema_resuelto":
			snap.Outcomes.ProblemaResuelto++
		case "consulta_resuelta":
			snap.Outcomes.ConsultaResuelta++
		case "escalada":
			snap.Outcomes.Escalada++
		case "abandonada":
			snap.Outcomes.Abandonada++
		case "en_curso":
			snap.Outcomes.EnCurso++
		}

		if c.intent == "amenities_query" {
			upsellOffered++
			if c.summary.Outcome == "upsell_exitoso" {
				upsellAccepted++
				snap.UpsellRevenue += 45.0
			}
		}

		if t, err := time.Parse(time.RFC3339, c.summary.StartedAt); err == nil {
			snap.Hourly[t.UTC().Hour()].Count++
		}
		for _, msg := range c.messages {
			if msg.Metadata != nil && msg.Metadata.LatencyMs > 0 {
				latencySum += msg.Metadata.LatencyMs
				latencyN++
			}
		}
	}

	if snap.TotalConversationsToday > 0 {
		snap.AutoResolvedPct = 100 * float64(snap.AutoResolvedToday) / float64(snap.TotalConversationsToday)
	}
	if latencyN > 0 {
		snap.AvgResponseTimeMs = int(latencySum / float64(latencyN))
	}
	for intent, count := range intentCounts {
		snap.TopIntents = append(snap.TopIntents, api.IntentCount{Intent: intent, Count: count})
	}
	for i := 0; i < len(snap.TopIntents); i++ {
		for j := i + 1; j < len(snap.TopIntents); j++ {
			if snap.TopIntents[j].Count > snap.TopIntents[i].Count {
				snap.TopIntents[i], snap.TopIntents[j] = snap.TopIntents[j], snap.TopIntents[i]
			}
		}
	}

	if upsellOffered > 0 {
		snap.UpsellConversionPct = 100 * float64(upsellAccepted) / float64(upsellOffered)
		snap.UpsellByOffer = []api.UpsellOffer{
			{
				OfferName:     "Circuito de spa",
				OfferType:     "spa_descuento",
				OfferedCount:  upsellOffered,
				AcceptedCount: upsellAccepted,
				Revenue:       snap.UpsellRevenue,
			},
		}
	}

	snap.TotalConversationsAllTime = snap.TotalConversationsToday + 230
	snap.AutoResolvedAllTimePct = 81.3
	snap.Financial = &api.Financial{
		EstimatedSavings: float64(snap.AutoResolvedToday) * 4.5,
		UpsellRevenue:    snap.UpsellRevenue,
	}

	return snap
}
