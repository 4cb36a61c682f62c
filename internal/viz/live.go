package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mclab/internal/mc"
)

const (
	canvasWidth     = 56
	canvasHeight    = 28
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the live terminal view: it steps the sampler on a fixed tick
// and renders snapshots. All physics stays in the mc package; this layer
// only issues commands and reads snapshots.
type Model struct {
	sampler      *mc.Sampler
	canvas       *Canvas
	energyHist   []float64
	stepsPerTick int
	showHelp     bool
	err          error
}

func NewModel(sampler *mc.Sampler, stepsPerTick int) Model {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	return Model{
		sampler:      sampler,
		canvas:       NewCanvas(canvasWidth, canvasHeight),
		energyHist:   make([]float64, 0, historyCapacity),
		stepsPerTick: stepsPerTick,
	}
}

// Err reports the error that stopped the view, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.sampler.Paused() {
				m.sampler.Resume()
			} else {
				m.sampler.Pause()
			}
		case "r":
			if err := m.sampler.Reset(); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.energyHist = m.energyHist[:0]
		case "+", "=":
			m.sampler.ScaleMaxDisplacement(1.2)
		case "-", "_":
			m.sampler.ScaleMaxDisplacement(1.0 / 1.2)
		case "t":
			m.sampler.SetTemperature(m.sampler.Temperature() * 1.05)
		case "T":
			m.sampler.SetTemperature(m.sampler.Temperature() * 0.95)
		case "]":
			m.stepsPerTick *= 2
			if m.stepsPerTick > 4096 {
				m.stepsPerTick = 4096
			}
		case "[":
			m.stepsPerTick /= 2
			if m.stepsPerTick < 1 {
				m.stepsPerTick = 1
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if !m.sampler.Paused() {
			for i := 0; i < m.stepsPerTick; i++ {
				if err := m.sampler.Step(); err != nil {
					m.err = err
					return m, tea.Quit
				}
			}
			m.energyHist = append(m.energyHist, m.sampler.Snapshot().EnergyPerParticle())
			if len(m.energyHist) > historyCapacity {
				m.energyHist = m.energyHist[1:]
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) View() string {
	snap := m.sampler.Snapshot()
	m.drawParticles(snap)

	var s strings.Builder
	s.WriteString(headerStyle.Render("LENNARD-JONES MONTE CARLO") + "\n")
	if m.sampler.Paused() {
		s.WriteString(pausedStyle.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString("RUNNING\n\n")
	}

	if len(m.energyHist) > 1 {
		chart := asciigraph.Plot(m.energyHist,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("U/N"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	box := m.sampler.Box()
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", len(snap.Positions))) + "\n")
	s.WriteString(labelStyle.Render("Box L") + valueStyle.Render(fmt.Sprintf("%.3f", box.L)) + "\n")
	s.WriteString(labelStyle.Render("Temperature") + valueStyle.Render(fmt.Sprintf("%.3f", snap.Temperature)) + "\n")
	s.WriteString(labelStyle.Render("Max disp") + valueStyle.Render(fmt.Sprintf("%.4f", snap.MaxDisplacement)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4f", snap.PotentialEnergy)) + "\n")
	s.WriteString(labelStyle.Render("Energy/N") + valueStyle.Render(fmt.Sprintf("%.4f", snap.EnergyPerParticle())) + "\n")
	s.WriteString(labelStyle.Render("Acceptance") + valueStyle.Render(fmt.Sprintf("%.1f%%", snap.AcceptanceRatio()*100)) + "\n")
	s.WriteString(labelStyle.Render("Moves") + valueStyle.Render(fmt.Sprintf("%d / %d", snap.AcceptedMoves, snap.AttemptedMoves)) + "\n")
	s.WriteString(labelStyle.Render("Moves/tick") + valueStyle.Render(fmt.Sprintf("%d", m.stepsPerTick)) + "\n")

	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit ?:Help\n+/-:Step size t/T:Temp [ ]:Speed"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()),
	)

	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

// drawParticles maps box coordinates onto the braille sub-pixel grid.
func (m Model) drawParticles(snap mc.Snapshot) {
	m.canvas.Clear()
	L := m.sampler.Box().L
	if L <= 0 {
		return
	}
	subW, subH := float64(m.canvas.Width*2), float64(m.canvas.Height*4)
	for _, p := range snap.Positions {
		x := int(p.X / L * subW)
		y := int(p.Y / L * subH)
		m.canvas.Set(x, y)
		m.canvas.Set(x+1, y)
	}
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume sampling    ║
║  R        - Reset configuration      ║
║  + / -    - Scale step size ×1.2     ║
║  t / T    - Temperature +5% / -5%    ║
║  [ / ]    - Fewer/more moves per tick║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
