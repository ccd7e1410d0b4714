package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/submarine"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	water   = lipgloss.NewStyle().Foreground(lipgloss.Color("24"))

	panel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

// Screen rows and columns of the gain bar, shared by View and mouse hit
// testing.
const (
	gainRow   = 2
	gainCol   = 2
	gainWidth = 14
	gainGap   = 3
	gainValue = 9

	fieldWidth  = 28
	graphHeight = 6
	hull        = "◖▆▆▆◗"
)

func gainAt(x, y int) control.GainField {
	if y != gainRow {
		return control.GainNone
	}
	for i, f := range control.GainFields {
		x0 := gainCol + i*(gainWidth+gainGap)
		if x >= x0 && x < x0+gainWidth {
			return f
		}
	}
	return control.GainNone
}

func (m model) View() string {
	snap := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(m.viewHeader(snap) + "\n\n")
	b.WriteString(m.viewGains(snap) + "\n")
	b.WriteString(m.viewStatus(snap) + "\n\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panel.Render(m.viewField(snap)),
		" ",
		panel.Render(m.viewInfo(snap)),
	)
	b.WriteString(body + "\n")

	if graph := m.viewGraph(); graph != "" {
		b.WriteString(graph + "\n")
	}
	b.WriteString("  " + m.help.View(m.keys))
	return b.String()
}

func (m model) viewHeader(snap submarine.Snapshot) string {
	state := cyan.Render("running")
	if m.paused {
		state = yellow.Render("paused")
	}
	return "  " + white.Render("s u b s i m") + "  " + state +
		dim.Render(fmt.Sprintf("  %gx  t=%.1fs  %.0f fps", m.speed, snap.Elapsed, m.fps))
}

func (m model) viewGains(snap submarine.Snapshot) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gainCol))
	for i, f := range control.GainFields {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", gainGap))
		}
		val := fmt.Sprintf("%*.3f", gainValue, snap.Gains.Get(f))
		style := dim
		if snap.Active == f {
			val = fmt.Sprintf("%*s", gainValue, tail(snap.Buffer+"▋", gainValue))
			style = magenta
		}
		b.WriteString(white.Render(f.String()+" ") + style.Render("["+val+"]"))
	}
	return b.String()
}

// tail keeps the last n runes of s.
func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func (m model) viewStatus(snap submarine.Snapshot) string {
	switch {
	case snap.Active != control.GainNone:
		return "  " + dim.Render("editing "+snap.Active.String()+": enter apply, esc cancel")
	case m.status != "":
		return "  " + red.Render(m.status)
	}
	return ""
}

func (m model) fieldRows() int {
	rows := m.height - 12 - graphHeight
	if rows < 8 {
		rows = 8
	}
	if rows > 40 {
		rows = 40
	}
	return rows
}

// rowFor maps a playfield position onto one of rows screen rows.
func rowFor(pos, height float64, rows int) int {
	r := int(math.Round(pos / height * float64(rows-1)))
	return max(0, min(rows-1, r))
}

func (m model) viewField(snap submarine.Snapshot) string {
	rows := m.fieldRows()
	h := m.session.Sim.Height()

	subRow := rowFor(m.shown, h, rows)
	targetPos := -snap.TargetDepth
	targetRow := rowFor(targetPos, h, rows)
	hullCol := (fieldWidth - len([]rune(hull))) / 2

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		switch {
		case r == subRow:
			pad := strings.Repeat(" ", hullCol)
			lines[r] = pad + yellow.Render(hull) + strings.Repeat(" ", fieldWidth-hullCol-len([]rune(hull)))
		case r == targetRow:
			marker := "┈"
			if targetPos < 0 {
				marker = "▲"
			} else if targetPos > h {
				marker = "▼"
			}
			lines[r] = cyan.Render(strings.Repeat(marker, fieldWidth))
		case r == 0:
			lines[r] = water.Render(strings.Repeat("≈", fieldWidth))
		default:
			lines[r] = strings.Repeat(" ", fieldWidth)
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) viewInfo(snap submarine.Snapshot) string {
	row := func(label, value string) string {
		return dim.Render(fmt.Sprintf("%-10s", label)) + white.Render(value)
	}
	lines := []string{
		row("depth", fmt.Sprintf("%8.1f", snap.Depth)),
		row("target", fmt.Sprintf("%8.1f", snap.TargetDepth)),
		row("error", fmt.Sprintf("%8.1f", snap.TargetDepth-snap.Depth)),
		row("velocity", fmt.Sprintf("%8.2f", snap.Velocity)),
		"",
		row("air", fmt.Sprintf("%7.1f%%", snap.AirLevel)),
		"          " + airBar(snap.AirLevel, 16),
		row("output", fmt.Sprintf("%8.2f", snap.Output)),
		row("integral", fmt.Sprintf("%8.2f", snap.Integral)),
		row("deriv", fmt.Sprintf("%8.2f", snap.Derivative)),
		"",
		dimmer.Render(fmt.Sprintf("%-10s%7.1f%%", "ideal air", snap.IdealAir)),
		dimmer.Render(fmt.Sprintf("%-10s%7.1f%%", "target air", snap.TargetAir)),
	}
	return strings.Join(lines, "\n")
}

func airBar(air float64, width int) string {
	frac := (air - physics.MinAir) / (physics.MaxAir - physics.MinAir)
	n := int(math.Round(frac * float64(width)))
	n = max(0, min(width, n))
	return cyan.Render(strings.Repeat("█", n)) + dimmer.Render(strings.Repeat("░", width-n))
}

func (m model) viewGraph() string {
	if len(m.depths) < 2 {
		return ""
	}
	w := m.width - 12
	if w < 20 {
		w = 20
	}
	return asciigraph.PlotMany([][]float64{m.depths, m.targets},
		asciigraph.Height(graphHeight),
		asciigraph.Width(w),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
		asciigraph.Caption("depth / target"),
	)
}
