package format

import (
	"strings"
	"testing"
)

func TestIntentLabel(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"booking_info", "Info de reserva"},
		{"amenities_query", "Servicios del hotel"},
		{"service_request", "Pedido de servicio"},
		{"faq_general", "Consulta general"},
		{"greeting", "Saludo"},
		{"out_of_scope", "Fuera de alcance"},
		{"brand_new_intent", "brand_new_intent"}, // forward-compatible passthrough
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IntentLabel(tt.code); got != tt.want {
				t.Errorf("IntentLabel(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestOutcomeLabel(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"venta", "Venta"},
		{"upsell_exitoso", "Upsell exitoso"},
		{"problema_resuelto", "Problema resuelto"},
		{"consulta_resuelta", "Consulta resuelta"},
		{"escalada", "Escalada"},
		{"abandonada", "Abandonada"},
		{"en_curso", "En curso"},
		{"", "-"}, // missing maps to placeholder, not raw value
		{"mystery", "mystery"},
	}

	for _, tt := range tests {
		name := tt.code
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			if got := OutcomeLabel(tt.code); got != tt.want {
				t.Errorf("OutcomeLabel(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestOutcomeOrDefault(t *testing.T) {
	if got := OutcomeOrDefault(""); got != "en_curso" {
		t.Errorf("OutcomeOrDefault(\"\") = %q, want en_curso", got)
	}
	if got := OutcomeOrDefault("venta"); got != "venta" {
		t.Errorf("OutcomeOrDefault(venta) = %q", got)
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name string
		iso  string
		want string
	}{
		{"empty yields placeholder", "", "-"},
		{"rfc3339", "2026-03-07T14:05:00Z", "07/03 14:05"},
		{"python isoformat no zone", "2026-03-07T14:05:00.123456", "07/03 14:05"},
		{"unparseable returned verbatim", "not-a-date", "not-a-date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Timestamp(tt.iso); got != tt.want {
				t.Errorf("Timestamp(%q) = %q, want %q", tt.iso, got, tt.want)
			}
		})
	}
}

func TestTruncateID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"6b3f2d1a-9c4e-4f11-9d2b-aaaa00001111", "6b3f2d1a…"},
		{"short", "short"},
		{"exactly8", "exactly8"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := TruncateID(tt.id); got != tt.want {
				t.Errorf("TruncateID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestSanitizePassesPrintableTextLiterally(t *testing.T) {
	in := `<script>alert("x")</script> & friends`
	if got := Sanitize(in); got != in {
		t.Errorf("Sanitize changed printable text: %q", got)
	}
}

func TestSanitizeStripsControlSequences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"csi color", "hola \x1b[31mrojo\x1b[0m", "hola rojo"},
		{"osc title bel", "\x1b]0;owned\x07text", "text"},
		{"osc title st", "\x1b]0;owned\x1b\\text", "text"},
		{"bare escape", "a\x1bc", "a"},
		{"carriage return dropped", "line\roverwrite", "lineoverwrite"},
		{"bell dropped", "ding\x07dong", "dingdong"},
		{"newline and tab kept", "a\n\tb", "a\n\tb"},
		{"c1 dropped", "ab", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if strings.ContainsRune(got, 0x1b) {
				t.Errorf("escape survived: %q", got)
			}
		})
	}
}
