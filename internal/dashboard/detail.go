package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ivanmoreno/mirador/internal/api"
	"github.com/ivanmoreno/mirador/internal/format"
)

// roleLabels maps message roles to transcript speaker tags.
var roleLabels = map[string]string{
	"user":      "Huésped",
	"assistant": "Agente",
	"system":    "Sistema",
}

func roleLabel(role string) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return role
}

func roleStyle(role string) lipgloss.Style {
	switch role {
	case "user":
		return guestStyle
	case "assistant":
		return agentStyle
	default:
		return dimStyle
	}
}

// transcriptHeight fits the viewport under the detail header and help
// line for the given terminal height.
func transcriptHeight(termHeight int) int {
	h := termHeight - 14
	if h < 5 {
		h = 5
	}
	return h
}

// viewDetailScreen renders the single-conversation view. The overview
// panels stay hidden; their backing state keeps refreshing underneath.
func (m Model) viewDetailScreen() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderDetailHeader())
	b.WriteString("\n")

	b.WriteString(renderPanel("TRANSCRIPCIÓN", m.transcript.View()))
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("esc: volver  j/k: desplazar  q: salir"))

	return b.String()
}

func (m Model) renderDetailHeader() string {
	d := m.detail
	if d == nil {
		return renderPanel("CONVERSACIÓN", "  Sin datos")
	}

	statusStyle, ok := statusStyles[d.Status]
	if !ok {
		statusStyle = dimStyle
	}

	var b strings.Builder
	b.WriteString(dotLeader("Huésped", d.GuestPhone, panelInnerWidth))
	b.WriteString("\n")
	b.WriteString(dotLeader("Plataforma", d.Platform, panelInnerWidth))
	b.WriteString("\n")
	b.WriteString(dotLeaderStyled("Estado", format.StatusLabel(d.Status), statusStyle, panelInnerWidth))
	b.WriteString("\n")
	b.WriteString(dotLeader("Resolución", format.ResolutionLabel(d.ResolutionType), panelInnerWidth))
	b.WriteString("\n")
	b.WriteString(dotLeader("Inicio", format.Timestamp(d.StartedAt), panelInnerWidth))
	b.WriteString("\n")
	b.WriteString(dotLeader("Mensajes", fmt.Sprintf("%d", len(d.Messages)), panelInnerWidth))

	return renderPanel(fmt.Sprintf("CONVERSACIÓN %s", format.TruncateID(d.ID)), b.String())
}

// renderTranscript builds the viewport content: messages in received
// order, role-tagged, with guest/model content sanitized before it can
// reach the terminal.
func renderTranscript(d *api.ConversationDetail, width int) string {
	if d == nil || len(d.Messages) == 0 {
		return "  Sin mensajes"
	}
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for i, msg := range d.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(renderMessage(msg, width))
	}
	return b.String()
}

func renderMessage(msg api.Message, width int) string {
	header := roleStyle(msg.Role).Render("▌ " + roleLabel(msg.Role))
	header += dimStyle.Render("  " + format.Timestamp(msg.CreatedAt))
	if msg.Intent != "" {
		header += dimStyle.Render("  ·  " + format.IntentLabel(msg.Intent))
	}
	if msg.Metadata != nil && msg.Metadata.LatencyMs > 0 {
		header += dimStyle.Render("  ·  " + format.Latency(msg.Metadata.LatencyMs))
	}

	body := wordwrap.String(format.Sanitize(msg.Content), width-4)
	var indented strings.Builder
	for _, line := range strings.Split(body, "\n") {
		indented.WriteString("\n  " + line)
	}

	return header + indented.String()
}
