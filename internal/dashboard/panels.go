package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel geometry (all panels same width).
const (
	panelTotalWidth = 84 // total visual width including borders
	panelInnerWidth = 80 // panelTotalWidth - 4 (2 borders + 2 padding spaces)
)

// Metric card geometry.
const (
	cardWidth      = 28 // 28*3 = 84 = panelTotalWidth
	cardInnerWidth = 22 // cardWidth - 6 (border + 2-char padding each side)
)

// Styles (muted terminal aesthetic).
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7eb8da")) // steel blue

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3d4450")) // slate

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c9d1d9"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e6edf3"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7ec699")) // sage green

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a054")) // amber

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d48a8a")) // dusty rose

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7eb8da")) // steel blue

	guestStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#d4a054")) // amber

	agentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7ec699")) // sage green
)

// statusStyles maps conversation statuses to badge styles.
var statusStyles = map[string]lipgloss.Style{
	"active":    accentStyle,
	"resolved":  okStyle,
	"escalated": failStyle,
}

// outcomeStyles maps the seven fixed outcome categories to their fixed
// colors, same assignment in the badge column and the outcomes chart.
var outcomeStyles = map[string]lipgloss.Style{
	"venta":             okStyle,
	"upsell_exitoso":    lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece8f")),
	"problema_resuelto": accentStyle,
	"consulta_resuelta": lipgloss.NewStyle().Foreground(lipgloss.Color("#a5b4d4")),
	"escalada":          failStyle,
	"abandonada":        warnStyle,
	"en_curso":          dimStyle,
}

// renderPanel builds a bordered panel with a title at exactly
// panelTotalWidth visual columns per line.
func renderPanel(title, content string) string {
	lines := []string{panelTop(title), panelBlank()}
	for _, line := range strings.Split(content, "\n") {
		lines = append(lines, panelLine(line))
	}
	lines = append(lines, panelBlank(), panelBottom())
	return strings.Join(lines, "\n")
}

// panelTop creates: ╭─ TITLE ────╮
func panelTop(title string) string {
	prefix := "╭─ "
	upper := strings.ToUpper(title)
	dashes := panelTotalWidth - lipgloss.Width(prefix+upper+" ") - 1
	if dashes < 0 {
		dashes = 0
	}
	return borderStyle.Render(prefix) +
		labelStyle.Render(upper) +
		borderStyle.Render(" "+strings.Repeat("─", dashes)+"╮")
}

func panelBottom() string {
	return borderStyle.Render("╰" + strings.Repeat("─", panelTotalWidth-2) + "╯")
}

func panelBlank() string {
	border := borderStyle.Render("│")
	return border + strings.Repeat(" ", panelTotalWidth-2) + border
}

// panelLine wraps one content line in borders, padded or truncated to the
// exact inner width.
func panelLine(content string) string {
	border := borderStyle.Render("│")
	return border + " " + padToWidth(content, panelInnerWidth) + " " + border
}

// padToWidth pads or truncates s to exactly target visual columns.
func padToWidth(s string, target int) string {
	w := lipgloss.Width(s)
	if w == target {
		return s
	}
	if w > target {
		return clipToWidth(s, target)
	}
	return s + strings.Repeat(" ", target-w)
}

// clipToWidth truncates s to target visual columns, ending in "..." when
// something was cut.
func clipToWidth(s string, target int) string {
	if lipgloss.Width(s) <= target {
		return s
	}
	if target <= 3 {
		return strings.Repeat(".", target)
	}

	var b strings.Builder
	width := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if width+rw > target-3 {
			break
		}
		b.WriteRune(r)
		width += rw
	}
	for width < target-3 {
		b.WriteByte(' ')
		width++
	}
	return b.String() + "..."
}

// dotLeader creates "  Label .......... Value" at totalWidth columns.
func dotLeader(label, value string, totalWidth int) string {
	prefix := "  " + label + " "
	suffix := " " + value
	dots := totalWidth - lipgloss.Width(prefix) - lipgloss.Width(suffix)
	if dots < 3 {
		dots = 3
	}
	return prefix + strings.Repeat(".", dots) + suffix
}

// dotLeaderStyled is dotLeader with the value styled after width math.
func dotLeaderStyled(label, value string, style lipgloss.Style, totalWidth int) string {
	prefix := "  " + label + " "
	suffix := " " + value
	dots := totalWidth - lipgloss.Width(prefix) - lipgloss.Width(suffix)
	if dots < 3 {
		dots = 3
	}
	return prefix + strings.Repeat(".", dots) + " " + style.Render(value)
}

// barRun renders a filled/empty horizontal bar of exactly width cells.
func barRun(value, maxValue, width int, style lipgloss.Style) string {
	if maxValue <= 0 || width <= 0 {
		return style.Render(strings.Repeat("░", max(width, 0)))
	}
	filled := value * width / maxValue
	if value > 0 && filled == 0 {
		filled = 1 // non-zero values stay visible
	}
	if filled > width {
		filled = width
	}
	return style.Render(strings.Repeat("█", filled)) +
		borderStyle.Render(strings.Repeat("░", width-filled))
}

// --- Metric card builders ---

func cardTop() string {
	return borderStyle.Render("╭" + strings.Repeat("─", cardWidth-2) + "╮")
}

func cardBottom() string {
	return borderStyle.Render("╰" + strings.Repeat("─", cardWidth-2) + "╯")
}

func cardBlank() string {
	border := borderStyle.Render("│")
	return border + strings.Repeat(" ", cardWidth-2) + border
}

func cardLine(content string) string {
	border := borderStyle.Render("│")
	return border + "  " + padToWidth(content, cardInnerWidth) + "  " + border
}

// cardHeader lays out TITLE left-aligned and value right-aligned.
func cardHeader(title, value string) string {
	styled := titleStyle.Render(strings.ToUpper(title))
	gap := cardInnerWidth - lipgloss.Width(styled) - lipgloss.Width(value)
	if gap < 1 {
		gap = 1
	}
	return styled + strings.Repeat(" ", gap) + value
}

// buildCard assembles one bordered metric card.
func buildCard(title, value, detail1, detail2 string) string {
	lines := []string{
		cardTop(),
		cardBlank(),
		cardLine(cardHeader(title, value)),
		cardBlank(),
		cardLine(detail1),
		cardLine(detail2),
		cardBlank(),
		cardBottom(),
	}
	return strings.Join(lines, "\n")
}
