// Package format maps raw API enum values and timestamps to display
// strings and neutralizes untrusted message content before it reaches the
// terminal. Every function is pure and never panics past its boundary.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Placeholder is rendered for missing values.
const Placeholder = "-"

// intentLabels maps backend intent codes to display labels. Unknown codes
// pass through unchanged so backend-added intents stay renderable.
var intentLabels = map[string]string{
	"booking_info":    "Info de reserva",
	"amenities_query": "Servicios del hotel",
	"service_request": "Pedido de servicio",
	"faq_general":     "Consulta general",
	"greeting":        "Saludo",
	"upsell":          "Upsell",
	"out_of_scope":    "Fuera de alcance",
}

// outcomeLabels covers the seven fixed conversation outcomes.
var outcomeLabels = map[string]string{
	"venta":             "Venta",
	"upsell_exitoso":    "Upsell exitoso",
	"problema_resuelto": "Problema resuelto",
	"consulta_resuelta": "Consulta resuelta",
	"escalada":          "Escalada",
	"abandonada":        "Abandonada",
	"en_curso":          "En curso",
}

var statusLabels = map[string]string{
	"active":    "Activa",
	"resolved":  "Resuelta",
	"escalated": "Escalada",
}

var resolutionLabels = map[string]string{
	"automated":     "Automática",
	"human_handoff": "Derivada a humano",
}

// IntentLabel returns the display label for an intent code. Unknown codes
// are returned verbatim.
func IntentLabel(code string) string {
	if label, ok := intentLabels[code]; ok {
		return label
	}
	return code
}

// OutcomeLabel returns the display label for an outcome code. An empty
// code yields the placeholder, not the raw value.
func OutcomeLabel(code string) string {
	if code == "" {
		return Placeholder
	}
	if label, ok := outcomeLabels[code]; ok {
		return label
	}
	return code
}

// OutcomeOrDefault maps an absent outcome to "en_curso", the key used for
// both the display label and the badge color of unclassified conversations.
func OutcomeOrDefault(code string) string {
	if code == "" {
		return "en_curso"
	}
	return code
}

// StatusLabel returns the display label for a conversation status.
func StatusLabel(code string) string {
	if code == "" {
		return Placeholder
	}
	if label, ok := statusLabels[code]; ok {
		return label
	}
	return code
}

// ResolutionLabel returns the display label for a resolution type.
func ResolutionLabel(code string) string {
	if code == "" {
		return Placeholder
	}
	if label, ok := resolutionLabels[code]; ok {
		return label
	}
	return code
}

// timestampLayouts are tried in order. The backend emits Python
// isoformat, with or without offset or sub-second precision.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Timestamp renders an ISO-8601 string as "day/month hour:minute".
// Nil-ish input yields the placeholder; an unparseable input is returned
// unchanged rather than blanked.
func Timestamp(iso string) string {
	if iso == "" {
		return Placeholder
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("02/01 15:04")
		}
	}
	return iso
}

// TruncateID shows the first 8 characters of an opaque identifier.
func TruncateID(id string) string {
	r := []rune(id)
	if len(r) <= 8 {
		return id
	}
	return string(r[:8]) + "…"
}

// Latency renders a per-message latency suffix.
func Latency(ms float64) string {
	return fmt.Sprintf("%.0fms", ms)
}

// Sanitize neutralizes guest-authored text for terminal rendering: ANSI
// escape sequences (CSI, OSC, and other ESC-introduced sequences) are
// stripped whole, and any remaining control rune other than newline or
// tab is dropped. Printable text, including characters that would be
// markup in other media, passes through literally.
func Sanitize(raw string) string {
	if raw == "" {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == 0x1b { // ESC
			i = skipEscapeSequence(runes, i)
			continue
		}
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// skipEscapeSequence returns the index of the last rune belonging to the
// escape sequence starting at runes[i] (which is ESC).
func skipEscapeSequence(runes []rune, i int) int {
	if i+1 >= len(runes) {
		return i
	}
	switch runes[i+1] {
	case '[': // CSI: parameters then a final byte in @..~
		j := i + 2
		for j < len(runes) && (runes[j] < 0x40 || runes[j] > 0x7e) {
			j++
		}
		return min(j, len(runes)-1)
	case ']': // OSC: terminated by BEL or ST (ESC \)
		j := i + 2
		for j < len(runes) {
			if runes[j] == 0x07 {
				return j
			}
			if runes[j] == 0x1b && j+1 < len(runes) && runes[j+1] == '\\' {
				return j + 1
			}
			j++
		}
		return len(runes) - 1
	default: // two-rune escape (e.g. ESC c)
		return i + 1
	}
}
