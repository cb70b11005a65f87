// Package viz renders runs in the terminal, either as a live
// interactive view or as static trajectory charts.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/particle"
)

const (
	canvasWidth     = 64
	canvasHeight    = 22
	historyCapacity = 400
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps a world in wall-clock time and draws its particles
// projected onto the YZ plane, with a height history for the tracked
// particle.
type Model struct {
	world   *engine.World
	cfg     engine.Config
	scene   string
	frame   int
	t       float64
	running bool
	tracked int
	history []float64
	err     error
}

func NewModel(world *engine.World, cfg engine.Config, scene string) Model {
	return Model{
		world:   world,
		cfg:     cfg,
		scene:   scene,
		running: true,
		history: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	interval := time.Duration(float64(time.Second) / m.cfg.FrameRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			if n := len(m.world.Particles()); n > 0 {
				m.tracked = (m.tracked + 1) % n
				m.history = m.history[:0]
			}
		}
		return m, nil

	case TickMsg:
		if m.err != nil {
			return m, tea.Quit
		}
		if !m.running {
			return m, m.tick()
		}

		if err := m.world.Step(1.0/m.cfg.FrameRate, m.cfg.Workers); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.frame++
		m.t += 1.0 / m.cfg.FrameRate

		if ps := m.world.Particles(); m.tracked < len(ps) {
			m.history = append(m.history, ps[m.tracked].Position.Y)
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}

		if m.cfg.Duration > 0 && m.t >= m.cfg.Duration {
			return m, tea.Quit
		}
		return m, m.tick()
	}

	return m, nil
}

func (m Model) View() string {
	canvas := m.renderCanvas()
	stats := m.renderStats()

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(canvas), statsStyle.Render(stats))

	if len(m.history) > 2 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(canvasWidth),
			asciigraph.Caption(fmt.Sprintf("particle %d height", m.tracked)),
		)
		view = lipgloss.JoinVertical(lipgloss.Left, view, graphStyle.Render(graph))
	}

	return lipgloss.JoinVertical(lipgloss.Left, view,
		helpStyle.Render("space pause • tab track next • q quit"))
}

func (m Model) renderCanvas() string {
	grid := make([][]rune, canvasHeight)
	for i := range grid {
		grid[i] = make([]rune, canvasWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	ps := m.world.Particles()
	minZ, maxZ, minY, maxY := bounds(ps)

	for i, p := range ps {
		x := project(p.Position.Z, minZ, maxZ, canvasWidth)
		y := canvasHeight - 1 - project(p.Position.Y, minY, maxY, canvasHeight)
		if x < 0 || x >= canvasWidth || y < 0 || y >= canvasHeight {
			continue
		}
		c := 'o'
		if i == m.tracked {
			c = '@'
		}
		grid[y][x] = c
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderStats() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.scene))
	b.WriteByte('\n')

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteByte('\n')
	}

	row("time", fmt.Sprintf("%.2fs", m.t))
	row("frame", fmt.Sprintf("%d", m.frame))
	row("particles", fmt.Sprintf("%d", len(m.world.Particles())))
	if m.running {
		row("status", "running")
	} else {
		row("status", "paused")
	}

	if ps := m.world.Particles(); m.tracked < len(ps) {
		p := ps[m.tracked]
		row("tracked", fmt.Sprintf("#%d", m.tracked))
		row("position", fmt.Sprintf("(%.1f, %.1f, %.1f)", p.Position.X, p.Position.Y, p.Position.Z))
		row("speed", fmt.Sprintf("%.2f", p.Velocity.Magnitude()))
	}

	return b.String()
}

// bounds finds the YZ extent of the set, padded so a single particle
// still lands inside the canvas.
func bounds(ps []*particle.Particle) (minZ, maxZ, minY, maxY float64) {
	minZ, maxZ, minY, maxY = -1, 1, -1, 1
	for i, p := range ps {
		if i == 0 {
			minZ, maxZ = p.Position.Z, p.Position.Z
			minY, maxY = p.Position.Y, p.Position.Y
			continue
		}
		minZ = math.Min(minZ, p.Position.Z)
		maxZ = math.Max(maxZ, p.Position.Z)
		minY = math.Min(minY, p.Position.Y)
		maxY = math.Max(maxY, p.Position.Y)
	}
	if maxZ-minZ < 2 {
		mid := (maxZ + minZ) / 2
		minZ, maxZ = mid-1, mid+1
	}
	if maxY-minY < 2 {
		mid := (maxY + minY) / 2
		minY, maxY = mid-1, mid+1
	}
	return minZ, maxZ, minY, maxY
}

func project(v, min, max float64, cells int) int {
	if max <= min {
		return cells / 2
	}
	return int((v - min) / (max - min) * float64(cells-1))
}
