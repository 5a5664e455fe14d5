package dashboard

import (
	"strings"
	"testing"

	"github.com/ivanmoreno/mirador/internal/api"
)

func fullSnapshot() *api.MetricsSnapshot {
	return &api.MetricsSnapshot{
		TotalConversationsToday: 20,
		AutoResolvedToday:       15,
		AutoResolvedPct:         75.0,
		AvgResponseTimeMs:       900,
		TopIntents: []api.IntentCount{
			{Intent: "booking_info", Count: 9},
			{Intent: "greeting", Count: 4},
		},
		Outcomes: &api.Outcomes{
			Venta:            3,
			UpsellExitoso:    1,
			ProblemaResuelto: 5,
			ConsultaResuelta: 6,
			Escalada:         2,
			Abandonada:       1,
			EnCurso:          2,
		},
		Hourly: []api.HourlyBucket{
			{Hour: 0, Count: 1}, {Hour: 1, Count: 0}, {Hour: 2, Count: 4},
		},
		UpsellByOffer: []api.UpsellOffer{
			{OfferName: "Late checkout", OfferedCount: 10, AcceptedCount: 4},
		},
	}
}

func TestChartsUpdateBindsAllWidgets(t *testing.T) {
	c := newCharts()
	c.update(fullSnapshot())

	want := [7]int{3, 1, 5, 6, 2, 1, 2}
	if c.outcomes.counts != want {
		t.Errorf("outcomes = %v, want %v", c.outcomes.counts, want)
	}
	if c.hourly.counts[2] != 4 || c.hourly.counts[23] != 0 {
		t.Errorf("hourly = %v", c.hourly.counts)
	}
	if len(c.intents.labels) != 2 || c.intents.labels[0] != "Info de reserva" {
		t.Errorf("intent labels = %v, want formatted labels in payload order", c.intents.labels)
	}
	if len(c.upsell.labels) != 1 || c.upsell.offered[0] != 10 || c.upsell.accepted[0] != 4 {
		t.Errorf("upsell = %v/%v/%v", c.upsell.labels, c.upsell.offered, c.upsell.accepted)
	}
}

func TestChartsUpdateSkipsAbsentSections(t *testing.T) {
	c := newCharts()
	c.update(fullSnapshot())

	// A snapshot with only the required fields must leave every widget's
	// prior dataset in place.
	c.update(&api.MetricsSnapshot{TotalConversationsToday: 1})

	if c.outcomes.counts[0] != 3 {
		t.Errorf("outcomes were reset: %v", c.outcomes.counts)
	}
	if c.hourly.counts[2] != 4 {
		t.Errorf("hourly was reset: %v", c.hourly.counts)
	}
	if len(c.intents.labels) != 2 {
		t.Errorf("intents were reset: %v", c.intents.labels)
	}
	if len(c.upsell.labels) != 1 {
		t.Errorf("upsell was reset: %v", c.upsell.labels)
	}
}

func TestChartsUpdateSkipsEmptyIntents(t *testing.T) {
	c := newCharts()
	c.update(fullSnapshot())

	snap := fullSnapshot()
	snap.TopIntents = []api.IntentCount{} // present but empty
	c.update(snap)

	if len(c.intents.labels) != 2 {
		t.Errorf("empty top_intents replaced the dataset: %v", c.intents.labels)
	}
}

func TestChartsWidgetsAreNeverRecreated(t *testing.T) {
	c := newCharts()
	outcomes, hourly, intents, upsell := c.outcomes, c.hourly, c.intents, c.upsell

	c.update(fullSnapshot())
	c.update(&api.MetricsSnapshot{})
	c.update(fullSnapshot())

	if c.outcomes != outcomes || c.hourly != hourly || c.intents != intents || c.upsell != upsell {
		t.Error("a widget instance was replaced during update")
	}
}

func TestChartsMissingOutcomeKeysDefaultToZero(t *testing.T) {
	c := newCharts()
	c.update(&api.MetricsSnapshot{Outcomes: &api.Outcomes{Venta: 2}})

	want := [7]int{2, 0, 0, 0, 0, 0, 0}
	if c.outcomes.counts != want {
		t.Errorf("outcomes = %v, want %v", c.outcomes.counts, want)
	}
}

func TestRenderOutcomesShowsAllSevenCategories(t *testing.T) {
	c := newCharts()
	out := c.renderOutcomes()

	for _, label := range []string{"Venta", "Upsell exitoso", "Problema resuelto", "Consulta resuelta", "Escalada", "Abandonada", "En curso"} {
		if !strings.Contains(out, label) {
			t.Errorf("outcomes panel missing %q", label)
		}
	}
}

func TestRenderIntentsEmptyState(t *testing.T) {
	c := newCharts()
	if out := c.renderIntents(); !strings.Contains(out, "Sin datos de intents") {
		t.Error("empty intents panel missing placeholder")
	}
}

func TestNormalizeLevels(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   []int
	}{
		{"all zero stays flat", []int{0, 0, 0}, []int{0, 0, 0}},
		{"max maps to 8", []int{0, 4, 8}, []int{0, 4, 8}},
		{"small non-zero stays visible", []int{1, 100}, []int{1, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeLevels(tt.counts)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("normalizeLevels(%v) = %v, want %v", tt.counts, got, tt.want)
					break
				}
			}
		})
	}
}
