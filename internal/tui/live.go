// Package tui hosts the interactive terminal front end: a braille render
// of the fluid on the left, live diagnostics on the right.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/sphlab/droplet/internal/driver"
	"github.com/sphlab/droplet/internal/fluid"
	"github.com/sphlab/droplet/internal/metrics"
)

const (
	frameRate = 30

	// Energy samples kept for the sidebar chart.
	chartCapacity = 240
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Model drives the simulation at a fixed timestep from the render tick
// and draws each frame.
type Model struct {
	newWorld func() *fluid.World

	world  *fluid.World
	solver *fluid.Solver
	acc    *driver.Accumulator
	opts   Options

	scene   sceneRenderer
	energy  *metrics.KineticEnergy
	density *metrics.DensityRatio
	chart   []float64

	name      string
	t         float64
	steps     int
	running   bool
	timeScale float64
	lastTick  time.Time
	stepErr   error
}

// sceneRenderer keeps the render side swappable in tests.
type sceneRenderer interface {
	Render(w *fluid.World) string
}

type Options struct {
	Name        string
	Dt          float64
	WarmupSteps int
	WarmupDt    float64
	Workers     int
}

// NewModel builds the interactive model. newWorld is called once up front
// and again on every reset.
func NewModel(newWorld func() *fluid.World, scene sceneRenderer, opts Options) *Model {
	m := &Model{
		newWorld:  newWorld,
		scene:     scene,
		energy:    metrics.NewKineticEnergy(),
		density:   metrics.NewDensityRatio(),
		name:      opts.Name,
		running:   true,
		timeScale: 1.0,
	}
	// Cap each frame at four frames' worth of catch-up work.
	maxPerFrame := int(4.0 / (opts.Dt * frameRate))
	if maxPerFrame < 1 {
		maxPerFrame = 1
	}
	m.acc = driver.NewAccumulator(opts.Dt, maxPerFrame)
	m.rebuild(opts)
	return m
}

func (m *Model) rebuild(opts Options) {
	m.world = m.newWorld()
	m.solver = fluid.NewSolver(m.world)
	if opts.Workers > 0 {
		m.solver.SetWorkers(opts.Workers)
	}
	m.acc.SetWarmup(opts.WarmupSteps, opts.WarmupDt)
	m.opts = opts
	m.t = 0
	m.steps = 0
	m.chart = m.chart[:0]
	m.stepErr = nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.rebuild(m.opts)
		case "up", "k":
			if m.timeScale < 4.0 {
				m.timeScale *= 2
			}
		case "down", "j":
			if m.timeScale > 0.25 {
				m.timeScale /= 2
			}
		}
	case tickMsg:
		now := time.Time(msg)
		elapsed := 0.0
		if !m.lastTick.IsZero() {
			elapsed = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		if m.running && m.stepErr == nil {
			m.advance(elapsed * m.timeScale)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance(elapsed float64) {
	steps, dt := m.acc.Advance(elapsed)
	warming := dt != m.acc.Dt()
	for i := 0; i < steps; i++ {
		if err := m.solver.Step(m.world, dt); err != nil {
			m.stepErr = err
			m.running = false
			return
		}
		if !warming {
			m.t += dt
			m.steps++
		}
	}

	m.energy.Observe(m.world, m.t)
	m.density.Observe(m.world, m.t)
	m.chart = append(m.chart, m.energy.Value())
	if len(m.chart) > chartCapacity {
		m.chart = m.chart[1:]
	}
}

func (m Model) View() string {
	frame := canvasStyle.Render(m.scene.Render(m.world))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.chart) > 1 {
		chart := asciigraph.Plot(m.chart,
			asciigraph.Height(5), asciigraph.Width(28), asciigraph.Caption("kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.steps)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", m.world.Count())) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4f J", m.energy.Value())) + "\n")
	s.WriteString(labelStyle.Render("Max ρ/ρ₀") + valueStyle.Render(fmt.Sprintf("%.3f", m.density.Value())) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.2fx", m.timeScale)) + "\n")

	if m.stepErr != nil {
		s.WriteString("\n" + errorStyle.Render("solver failed:") + "\n")
		s.WriteString(valueStyle.Render(m.stepErr.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\nSP:pause  R:reset  ↑↓:speed  Q:quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, frame, statsStyle.Render(s.String()))
}

func (m Model) status() string {
	switch {
	case m.stepErr != nil:
		return errorStyle.Render("FAILED")
	case m.acc.Warming():
		return "WARMING UP"
	case !m.running:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

// Run starts the interactive session and blocks until the user quits.
func Run(newWorld func() *fluid.World, scene sceneRenderer, opts Options) error {
	p := tea.NewProgram(NewModel(newWorld, scene, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
