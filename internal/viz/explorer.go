package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/diskrot/internal/diskmodel"
)

const (
	distanceStep = 0.25
	latitudeStep = 1.0
	maxLatitude  = 90.0
)

type ExplorerConfig struct {
	Distance float64
	BDeg     float64
	StepDeg  float64
	Title    string
}

// Explorer is the Bubble Tea model behind `diskrot explore`.
type Explorer struct {
	model    *diskmodel.Model
	cfg      ExplorerConfig
	distance float64
	bDeg     float64
	quantity int
	sweep    *Sweep
	err      error
	width    int
	height   int
}

func NewExplorer(m *diskmodel.Model, cfg ExplorerConfig) *Explorer {
	e := &Explorer{
		model:    m,
		cfg:      cfg,
		distance: cfg.Distance,
		bDeg:     cfg.BDeg,
		width:    80,
		height:   24,
	}
	e.recompute()
	return e
}

func (e *Explorer) recompute() {
	e.sweep, e.err = LongitudeSweep(e.model, e.distance, e.bDeg, e.cfg.StepDeg)
}

func (e *Explorer) Distance() float64 { return e.distance }
func (e *Explorer) Latitude() float64 { return e.bDeg }
func (e *Explorer) Quantity() string  { return SweepQuantities[e.quantity] }
func (e *Explorer) Sweep() *Sweep     { return e.sweep }
func (e *Explorer) Err() error        { return e.err }

func (e *Explorer) Init() tea.Cmd { return nil }

func (e *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return e.handleKey(msg)
	case tea.WindowSizeMsg:
		e.width, e.height = msg.Width, msg.Height
	}
	return e, nil
}

func (e *Explorer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return e, tea.Quit
	case "up", "k":
		e.distance += distanceStep
	case "down", "j":
		e.distance = max(0, e.distance-distanceStep)
	case "right", "l":
		e.bDeg = min(maxLatitude, e.bDeg+latitudeStep)
	case "left", "h":
		e.bDeg = max(-maxLatitude, e.bDeg-latitudeStep)
	case "tab", " ":
		e.quantity = (e.quantity + 1) % len(SweepQuantities)
		return e, nil
	case "r":
		e.distance, e.bDeg, e.quantity = e.cfg.Distance, e.cfg.BDeg, 0
	default:
		return e, nil
	}
	e.recompute()
	return e, nil
}

func (e *Explorer) View() string {
	var b strings.Builder

	title := e.cfg.Title
	if title == "" {
		title = "DISKROT"
	}
	b.WriteString(HeaderStyle.Render(title) + "\n")
	b.WriteString(MetricLabel.Render("distance ") + MetricValue.Render(fmt.Sprintf("%.2f kpc", e.distance)) + "  ")
	b.WriteString(MetricLabel.Render("b ") + MetricValue.Render(fmt.Sprintf("%+.1f deg", e.bDeg)) + "  ")
	b.WriteString(MetricLabel.Render("vcirc_sun ") + MetricValue.Render(fmt.Sprintf("%.2f km/s", e.model.SolarCircularSpeed())) + "\n\n")

	for i, q := range SweepQuantities {
		if i == e.quantity {
			b.WriteString(NeonGlow.Render(" "+q+" ") + " ")
		} else {
			b.WriteString(Subtle.Render(" "+q+" ") + " ")
		}
	}
	b.WriteString("\n\n")

	if e.err != nil {
		b.WriteString(ErrorStyle.Render(e.err.Error()) + "\n")
		b.WriteString(e.keyHints())
		return b.String()
	}

	values, _ := e.sweep.Quantity(e.Quantity())
	chartWidth := max(20, e.width-16)
	chart := Chart(values, ChartOptions{
		Caption: fmt.Sprintf("%s vs l [0, 360) deg", e.Quantity()),
		Height:  max(5, e.height-16),
		Width:   chartWidth,
	})
	b.WriteString(GlassPanel.Render(chart) + "\n")

	if len(values) > 0 {
		b.WriteString(MetricLabel.Render("min ") + MetricValue.Render(fmt.Sprintf("%.3f", floats.Min(values))) + "  ")
		b.WriteString(MetricLabel.Render("max ") + MetricValue.Render(fmt.Sprintf("%.3f", floats.Max(values))) + "\n")
	}
	for _, q := range SweepQuantities {
		vals, _ := e.sweep.Quantity(q)
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-5s", q)) + SparklineChart(vals, min(60, chartWidth)) + "\n")
	}

	b.WriteString(Separator(min(60, chartWidth)) + "\n")
	b.WriteString(e.keyHints())
	return b.String()
}

func (e *Explorer) keyHints() string {
	return KeyHint.Render("j/k distance  h/l latitude  tab quantity  r reset  q quit") + "\n"
}

// RunExplorer starts the explorer on the terminal's alternate screen.
func RunExplorer(m *diskmodel.Model, cfg ExplorerConfig) error {
	_, err := tea.NewProgram(NewExplorer(m, cfg), tea.WithAltScreen()).Run()
	return err
}
