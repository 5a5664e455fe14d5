package dashboard

import (
	"fmt"
	"strings"

	"github.com/ivanmoreno/mirador/internal/api"
	"github.com/ivanmoreno/mirador/internal/format"
)

// The four chart widgets are created once at startup and live for the
// whole session; update mutates their backing arrays in place and a
// widget whose payload section is absent keeps its prior dataset. Nothing
// outside this file touches the widgets directly.

// outcomeOrder is the fixed category order of the outcomes chart.
var outcomeOrder = [7]string{
	"venta",
	"upsell_exitoso",
	"problema_resuelto",
	"consulta_resuelta",
	"escalada",
	"abandonada",
	"en_curso",
}

// sparkBlocks maps normalized levels (0-8) to Unicode block elements.
var sparkBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// outcomesWidget holds the seven fixed-order outcome counts.
type outcomesWidget struct {
	counts [7]int
}

// hourlyWidget holds the 24-point hour-of-day distribution.
type hourlyWidget struct {
	counts [24]int
}

// intentsWidget holds ranked intent bars in payload order.
type intentsWidget struct {
	labels []string
	counts []int
}

// upsellWidget holds paired offered/accepted bars per offer.
type upsellWidget struct {
	labels   []string
	offered  []int
	accepted []int
}

// charts owns the four persistent widgets.
type charts struct {
	outcomes *outcomesWidget
	hourly   *hourlyWidget
	intents  *intentsWidget
	upsell   *upsellWidget
}

func newCharts() *charts {
	return &charts{
		outcomes: &outcomesWidget{},
		hourly:   &hourlyWidget{},
		intents:  &intentsWidget{},
		upsell:   &upsellWidget{},
	}
}

// update rebinds widget datasets from a metrics snapshot. Each branch is
// skipped when its payload section is absent, leaving the prior values.
func (c *charts) update(m *api.MetricsSnapshot) {
	if m == nil {
		return
	}

	if o := m.Outcomes; o != nil {
		c.outcomes.counts = [7]int{
			o.Venta,
			o.UpsellExitoso,
			o.ProblemaResuelto,
			o.ConsultaResuelta,
			o.Escalada,
			o.Abandonada,
			o.EnCurso,
		}
	}

	if m.Hourly != nil {
		for i := range c.hourly.counts {
			c.hourly.counts[i] = 0
		}
		for i, bucket := range m.Hourly {
			if i >= len(c.hourly.counts) {
				break
			}
			c.hourly.counts[i] = bucket.Count
		}
	}

	if len(m.TopIntents) > 0 {
		c.intents.labels = c.intents.labels[:0]
		c.intents.counts = c.intents.counts[:0]
		for _, entry := range m.TopIntents {
			c.intents.labels = append(c.intents.labels, format.IntentLabel(entry.Intent))
			c.intents.counts = append(c.intents.counts, entry.Count)
		}
	}

	if m.UpsellByOffer != nil {
		c.upsell.labels = c.upsell.labels[:0]
		c.upsell.offered = c.upsell.offered[:0]
		c.upsell.accepted = c.upsell.accepted[:0]
		for _, offer := range m.UpsellByOffer {
			c.upsell.labels = append(c.upsell.labels, offer.OfferName)
			c.upsell.offered = append(c.upsell.offered, offer.OfferedCount)
			c.upsell.accepted = append(c.upsell.accepted, offer.AcceptedCount)
		}
	}
}

// --- Rendering ---

const chartLabelWidth = 20
const chartBarWidth = panelInnerWidth - chartLabelWidth - 8

// renderOutcomes renders the seven fixed categories with their fixed
// colors, zero counts included.
func (c *charts) renderOutcomes() string {
	maxCount := 0
	for _, n := range c.outcomes.counts {
		if n > maxCount {
			maxCount = n
		}
	}

	var b strings.Builder
	for i, key := range outcomeOrder {
		if i > 0 {
			b.WriteString("\n")
		}
		n := c.outcomes.counts[i]
		label := padToWidth(format.OutcomeLabel(key), chartLabelWidth)
		bar := barRun(n, maxCount, chartBarWidth, outcomeStyles[key])
		b.WriteString(fmt.Sprintf("  %s %s %3d", label, bar, n))
	}
	return renderPanel("RESULTADOS", b.String())
}

// renderHourly renders the 24-point activity curve as a sparkline with an
// hour axis underneath.
func (c *charts) renderHourly() string {
	levels := normalizeLevels(c.hourly.counts[:])

	var spark strings.Builder
	for _, lv := range levels {
		// two cells per hour keeps the curve readable
		spark.WriteRune(sparkBlocks[lv])
		spark.WriteRune(sparkBlocks[lv])
	}

	total := 0
	peakHour, peakCount := 0, 0
	for hour, n := range c.hourly.counts {
		total += n
		if n > peakCount {
			peakHour, peakCount = hour, n
		}
	}

	var b strings.Builder
	b.WriteString("  " + accentStyle.Render(spark.String()))
	b.WriteString("\n")
	b.WriteString("  " + dimStyle.Render(padToWidth("00h          06h          12h          18h          23h", 48)))
	b.WriteString("\n")
	peak := format.Placeholder
	if peakCount > 0 {
		peak = fmt.Sprintf("%02d:00 (%d)", peakHour, peakCount)
	}
	b.WriteString(dotLeader("Total", fmt.Sprintf("%d", total), panelInnerWidth))
	b.WriteString("\n")
	b.WriteString(dotLeaderStyled("Pico", peak, labelStyle, panelInnerWidth))
	return renderPanel("ACTIVIDAD POR HORA", b.String())
}

// renderIntents renders the ranked intent bars in payload order.
func (c *charts) renderIntents() string {
	if len(c.intents.labels) == 0 {
		return renderPanel("INTENTS", "  Sin datos de intents")
	}

	maxCount := 0
	for _, n := range c.intents.counts {
		if n > maxCount {
			maxCount = n
		}
	}

	var b strings.Builder
	for i, label := range c.intents.labels {
		if i > 0 {
			b.WriteString("\n")
		}
		bar := barRun(c.intents.counts[i], maxCount, chartBarWidth, accentStyle)
		b.WriteString(fmt.Sprintf("  %s %s %3d", padToWidth(label, chartLabelWidth), bar, c.intents.counts[i]))
	}
	return renderPanel("INTENTS", b.String())
}

// renderUpsell renders paired offered/accepted bars per offer.
func (c *charts) renderUpsell() string {
	if len(c.upsell.labels) == 0 {
		return renderPanel("UPSELL", "  Sin ofertas registradas")
	}

	maxCount := 0
	for _, n := range c.upsell.offered {
		if n > maxCount {
			maxCount = n
		}
	}

	// narrower bars leave room for the "ofrecidas"/"aceptadas" suffix
	barWidth := chartBarWidth - 12

	var b strings.Builder
	for i, label := range c.upsell.labels {
		if i > 0 {
			b.WriteString("\n")
		}
		offered := c.upsell.offered[i]
		accepted := c.upsell.accepted[i]
		b.WriteString(fmt.Sprintf("  %s %s %3d ofrecidas\n", padToWidth(label, chartLabelWidth), barRun(offered, maxCount, barWidth, dimStyle), offered))
		b.WriteString(fmt.Sprintf("  %s %s %3d aceptadas", padToWidth("", chartLabelWidth), barRun(accepted, maxCount, barWidth, okStyle), accepted))
	}
	return renderPanel("UPSELL", b.String())
}

// normalizeLevels scales counts to 0-8 sparkline levels. Zero stays at a
// visible baseline of 1 only when some other hour has data.
func normalizeLevels(counts []int) []int {
	levels := make([]int, len(counts))
	maxCount := 0
	for _, n := range counts {
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		return levels
	}
	for i, n := range counts {
		lv := n * 8 / maxCount
		if n > 0 && lv == 0 {
			lv = 1
		}
		levels[i] = lv
	}
	return levels
}
