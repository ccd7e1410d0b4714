package tui

import (
	"errors"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/submarine"
)

const (
	historyLen = 240
	maxSpeed   = 8.0
	minSpeed   = 0.25
)

type Options struct {
	FrameRate  int
	MaxFrameDt float64
}

func DefaultOptions() Options {
	return Options{FrameRate: 60, MaxFrameDt: 0.25}
}

type tickMsg time.Time

type model struct {
	session *submarine.Session
	opts    Options
	keys    keyMap
	help    help.Model

	// on-screen row of the hull, eased toward the simulated position
	spring   harmonica.Spring
	shown    float64
	shownVel float64

	depths  []float64
	targets []float64

	paused    bool
	speed     float64
	status    string
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

func NewApp(s *submarine.Session, opts Options) model {
	if opts.FrameRate <= 0 {
		opts.FrameRate = DefaultOptions().FrameRate
	}
	if !(opts.MaxFrameDt > 0) {
		opts.MaxFrameDt = DefaultOptions().MaxFrameDt
	}
	return model{
		session: s,
		opts:    opts,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spring:  harmonica.NewSpring(harmonica.FPS(opts.FrameRate), 6.0, 1.0),
		shown:   s.Sim.State().Position,
		depths:  make([]float64, 0, historyLen),
		targets: make([]float64, 0, historyLen),
		speed:   1.0,
		width:   80,
		height:  30,
	}
}

func (m model) Init() tea.Cmd { return m.tick() }

func (m model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FrameRate), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.frame(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

// frame advances the simulation by the wall time since the previous tick,
// capped at MaxFrameDt and scaled by the speed setting.
func (m *model) frame(now time.Time) {
	dt := 0.0
	if !m.lastFrame.IsZero() {
		dt = now.Sub(m.lastFrame).Seconds()
		if dt > 0 {
			m.fps = 1.0 / dt
		}
	}
	m.lastFrame = now
	dt = math.Max(0, math.Min(dt, m.opts.MaxFrameDt))

	if !m.paused {
		m.advance(dt * m.speed)
	}

	st := m.session.Sim.State()
	m.shown, m.shownVel = m.spring.Update(m.shown, m.shownVel, st.Position)
}

// advance splits a long frame into steps no longer than one nominal frame.
func (m *model) advance(total float64) {
	nominal := 1.0 / float64(m.opts.FrameRate)
	steps := int(math.Ceil(total/nominal - 1e-9))
	if steps < 1 {
		steps = 1
	}
	dt := total / float64(steps)
	for i := 0; i < steps; i++ {
		m.session.Step(dt)
	}
	if total > 0 {
		m.record()
	}
}

func (m *model) record() {
	st := m.session.Sim.State()
	m.depths = append(m.depths, st.Depth)
	m.targets = append(m.targets, st.TargetDepth)
	if len(m.depths) > historyLen {
		m.depths = m.depths[1:]
		m.targets = m.targets[1:]
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.session.Tuner.Editing() {
		switch msg.Type {
		case tea.KeyBackspace:
			m.session.Backspace()
			return m, nil
		case tea.KeyRunes:
			if len(msg.Runes) == 1 && isEditRune(msg.Runes[0]) {
				m.session.AppendChar(msg.Runes[0])
				return m, nil
			}
		}
		switch {
		case key.Matches(msg, m.keys.Commit):
			m.commit()
			return m, nil
		case key.Matches(msg, m.keys.Cancel):
			m.session.Cancel()
			m.status = ""
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Raise):
		m.session.Raise()
	case key.Matches(msg, m.keys.Lower):
		m.session.Lower()
	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.shown, m.shownVel = m.session.Sim.State().Position, 0
		m.depths = m.depths[:0]
		m.targets = m.targets[:0]
	case key.Matches(msg, m.keys.EditKp):
		m.beginEdit(control.GainKp)
	case key.Matches(msg, m.keys.EditKi):
		m.beginEdit(control.GainKi)
	case key.Matches(msg, m.keys.EditKd):
		m.beginEdit(control.GainKd)
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Faster):
		m.speed = math.Min(m.speed*2, maxSpeed)
	case key.Matches(msg, m.keys.Slower):
		m.speed = math.Max(m.speed/2, minSpeed)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func isEditRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == '-'
}

func (m *model) beginEdit(f control.GainField) {
	m.session.BeginEdit(f)
	m.status = ""
}

func (m *model) commit() {
	err := m.session.Commit()
	var perr *control.ParseError
	switch {
	case err == nil:
		m.status = ""
	case errors.As(err, &perr):
		m.status = "rejected " + perr.Field.String() + " value " + quote(perr.Input)
	default:
		m.status = err.Error()
	}
}

func quote(s string) string {
	if s == "" {
		return "(empty)"
	}
	return "\"" + s + "\""
}

// handleMouse starts an edit when a gain box is clicked and cancels a
// pending edit on a click anywhere else.
func (m model) handleMouse(msg tea.MouseMsg) model {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m
	}
	if f := gainAt(msg.X, msg.Y); f != control.GainNone {
		m.beginEdit(f)
		return m
	}
	if m.session.Tuner.Editing() {
		m.session.Cancel()
	}
	return m
}

// Run starts the full-screen driver and blocks until the user quits.
func Run(s *submarine.Session, opts Options) error {
	p := tea.NewProgram(NewApp(s, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
