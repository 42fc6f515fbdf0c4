// Package tui renders a running simulation in the terminal.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/gravity"
	"github.com/kossner/accrete/internal/metrics"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// LiveModel steps the simulation between frames and draws the live body
// population as a mass-weighted scatter plot.
type LiveModel struct {
	scenario string
	step     *gravity.Step
	batch    *body.Batch
	dt       float64
	duration float64

	simTime float64
	merges  int
	paused  bool
	done    bool
	speed   float64

	energyHistory []float64
	countHistory  []float64

	width  int
	height int
}

func NewLive(scenario string, step *gravity.Step, batch *body.Batch, dt, duration float64) *LiveModel {
	return &LiveModel{
		scenario:      scenario,
		step:          step,
		batch:         batch,
		dt:            dt,
		duration:      duration,
		speed:         1.0,
		energyHistory: make([]float64, 0, 120),
		countHistory:  make([]float64, 0, 120),
		width:         80,
		height:        24,
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *LiveModel) Init() tea.Cmd { return tick() }

func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "escape":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "+", "=":
			m.speed = math.Min(m.speed*2, 64)
		case "-", "_":
			m.speed = math.Max(m.speed/2, 0.25)
		case "0":
			m.speed = 1.0
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && !m.done {
			steps := int(m.speed)
			if steps < 1 {
				steps = 1
			}
			for i := 0; i < steps && !m.done; i++ {
				m.advance()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) advance() {
	removed := m.step.Tick(m.batch, m.dt)
	m.merges += len(removed)
	m.simTime += m.dt
	if m.simTime >= m.duration {
		m.done = true
	}

	m.energyHistory = append(m.energyHistory, metrics.TotalEnergy(m.batch, m.step.Consts))
	if len(m.energyHistory) > 120 {
		m.energyHistory = m.energyHistory[1:]
	}
	m.countHistory = append(m.countHistory, float64(m.batch.Len()))
	if len(m.countHistory) > 120 {
		m.countHistory = m.countHistory[1:]
	}
}

// glyph buckets bodies by mass relative to the heaviest on screen.
func glyph(mass, maxMass float64) rune {
	if maxMass <= 0 {
		return '·'
	}
	switch ratio := mass / maxMass; {
	case ratio > 0.5:
		return '⬤'
	case ratio > 0.05:
		return '●'
	case ratio > 0.005:
		return '○'
	default:
		return '·'
	}
}

func (m *LiveModel) View() string {
	cw := m.width - 6
	ch := m.height - 10
	if cw < 40 {
		cw = 40
	}
	if ch < 10 {
		ch = 10
	}

	canvas := make([][]rune, ch)
	for i := range canvas {
		canvas[i] = make([]rune, cw)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	live := m.batch.Live(nil)
	dimN := m.batch.Dim

	// square viewport around the population extent
	extent := 1.0
	for _, i := range live {
		for d := 0; d < 2; d++ {
			if v := math.Abs(m.batch.Pos[i*dimN+d]); v > extent {
				extent = v
			}
		}
	}
	extent *= 1.1

	maxMass := 0.0
	hottest := 0.0
	for _, i := range live {
		if m.batch.Mass[i] > maxMass {
			maxMass = m.batch.Mass[i]
		}
		if m.batch.Temp[i] > hottest {
			hottest = m.batch.Temp[i]
		}
	}

	for _, i := range live {
		x := m.batch.Pos[i*dimN]
		y := m.batch.Pos[i*dimN+1]
		cx := int((x/extent + 1) / 2 * float64(cw-1))
		cy := int((1 - (y/extent+1)/2) * float64(ch-1))
		if cx >= 0 && cx < cw && cy >= 0 && cy < ch {
			canvas[cy][cx] = glyph(m.batch.Mass[i], maxMass)
		}
	}

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	if m.done {
		statusIcon = dim.Render("■")
		statusText = dim.Render("finished")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n", statusIcon, cyan.Render(m.scenario), statusText))

	progress := m.simTime / m.duration
	if progress > 1 {
		progress = 1
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	timeStr := fmt.Sprintf("%.0fs/%.0fs", m.simTime, m.duration)
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n", bar, dim.Render(timeStr), dim.Render(fmt.Sprintf("x%.2g", m.speed))))

	for _, row := range canvas {
		b.WriteString("   " + string(row) + "\n")
	}

	b.WriteString(fmt.Sprintf("\n   %s%s  %s%s  %s%s\n",
		dim.Render("bodies="), white.Render(fmt.Sprintf("%d", m.batch.Len())),
		dim.Render("merges="), magenta.Render(fmt.Sprintf("%d", m.merges)),
		dim.Render("hottest="), red.Render(fmt.Sprintf("%.0fK", hottest))))

	if len(m.energyHistory) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("E"), cyan.Render(sparkline(m.energyHistory, 32))))
	}
	if len(m.countHistory) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("N"), green.Render(sparkline(m.countHistory, 32))))
	}

	b.WriteString("\n" + dim.Render("   space pause  ±speed  q quit") + "\n")

	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// RunLive blocks until the user quits the live view.
func RunLive(scenario string, step *gravity.Step, batch *body.Batch, dt, duration float64) error {
	p := tea.NewProgram(NewLive(scenario, step, batch, dt, duration), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
