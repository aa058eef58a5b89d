package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/field"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/spring"
	"github.com/san-kum/springsim/internal/target"
)

const (
	trackWidth      = 61
	trackMin        = -2.0
	trackMax        = 2.0
	trailLength     = 12
	historyCapacity = 240
	targetNudge     = 0.25
	divergenceLimit = 1e9
)

var paramKeys = []string{"omega", "zeta"}

var paramSteps = map[string]float64{
	"omega": 0.5,
	"zeta":  0.05,
}

type TickMsg time.Time

type keyMap struct {
	Quit  key.Binding
	Pause key.Binding
	Step  key.Binding
	Reset key.Binding
	Next  key.Binding
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Zero  key.Binding
	One   key.Binding
	Help  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Pause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Step:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "step when paused")),
		Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next param")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "raise param")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "lower param")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "target left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "target right")),
		Zero:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "target 0")),
		One:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "target 1")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Next, k.Up, k.Down, k.Left, k.Right, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Step, k.Reset, k.Quit},
		{k.Next, k.Up, k.Down},
		{k.Left, k.Right, k.Zero, k.One},
		{k.Help},
	}
}

// Model holds the live simulation. The trail field shares the spring's
// coefficients and is retuned together with it.
type Model struct {
	dyn        *physics.DampedSpring
	integrator dynamo.Integrator
	goal       *target.Manual
	trail      *field.Field[float64]
	state      dynamo.State
	initial    dynamo.State
	t, dt      float64
	fps        int
	running    bool
	diverged   bool
	selected   int
	posHistory []float64
	tgtHistory []float64
	initParams map[string]float64
	initGoal   float64
	keys       keyMap
	help       help.Model
}

func NewModel(dyn *physics.DampedSpring, integ dynamo.Integrator, initState []float64, goal float64, dt float64, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		dyn:        dyn,
		integrator: integ,
		goal:       target.NewManual(goal),
		trail:      field.New(spring.New(dt, dyn.Omega, dyn.Zeta), trailLength),
		state:      dynamo.State(initState).Clone(),
		initial:    dynamo.State(initState).Clone(),
		dt:         dt,
		fps:        fps,
		running:    true,
		posHistory: make([]float64, 0, historyCapacity),
		tgtHistory: make([]float64, 0, historyCapacity),
		initParams: dyn.GetParams(),
		initGoal:   goal,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
	m.resetTrail()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.running = !m.running && !m.diverged
		case key.Matches(msg, m.keys.Reset):
			m.reset()
		case key.Matches(msg, m.keys.Next):
			m.selected = (m.selected + 1) % len(paramKeys)
		case key.Matches(msg, m.keys.Up):
			m.adjustParam(1)
		case key.Matches(msg, m.keys.Down):
			m.adjustParam(-1)
		case key.Matches(msg, m.keys.Left):
			m.goal.Nudge(-targetNudge)
		case key.Matches(msg, m.keys.Right):
			m.goal.Nudge(targetNudge)
		case key.Matches(msg, m.keys.Zero):
			m.goal.Set(0)
		case key.Matches(msg, m.keys.One):
			m.goal.Set(1)
		case key.Matches(msg, m.keys.Step):
			if !m.running && !m.diverged {
				m.step()
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances the spring and its trail by one dt. A step that leaves the
// state non-finite or beyond divergenceLimit is discarded and the model
// stops until reset.
func (m *Model) step() {
	u := m.goal.Compute(m.state, m.t)
	next := m.integrator.Step(m.dyn, m.state, u, m.t, m.dt)
	if !next.IsValid() || next.Norm() > divergenceLimit {
		m.diverged = true
		m.running = false
		return
	}
	m.state = next
	m.t += m.dt

	targets := make([]float64, m.trail.Len())
	targets[0] = m.state[0]
	copy(targets[1:], m.trail.Pos[:m.trail.Len()-1])
	_ = m.trail.StepTargets(targets)

	m.posHistory = appendCapped(m.posHistory, m.state[0])
	m.tgtHistory = appendCapped(m.tgtHistory, u.Target())
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// adjustParam moves the selected parameter by one step. Values may go
// negative; the spring treats them as zero.
func (m *Model) adjustParam(dir float64) {
	key := paramKeys[m.selected]
	val := m.dyn.GetParams()[key] + dir*paramSteps[key]
	_ = m.dyn.SetParam(key, val)
	m.retune()
}

func (m *Model) retune() {
	m.trail.Retune(spring.New(m.dt, m.dyn.Omega, m.dyn.Zeta))
}

func (m *Model) resetTrail() {
	for i := range m.trail.Pos {
		m.trail.Pos[i] = m.state[0]
		m.trail.Vel[i] = 0
	}
}

func (m *Model) reset() {
	m.t = 0
	m.diverged = false
	m.state = m.initial.Clone()
	for k, v := range m.initParams {
		_ = m.dyn.SetParam(k, v)
	}
	m.goal.Set(m.initGoal)
	m.retune()
	m.resetTrail()
	m.posHistory = m.posHistory[:0]
	m.tgtHistory = m.tgtHistory[:0]
}

// finitePairs keeps the samples where both series are finite.
func finitePairs(a, b []float64) ([]float64, []float64) {
	n := min(len(a), len(b))
	outA := make([]float64, 0, n)
	outB := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if isFinite(a[i]) && isFinite(b[i]) {
			outA = append(outA, a[i])
			outB = append(outB, b[i])
		}
	}
	return outA, outB
}

// Diverged reports whether the spring has blown up and stepping stopped.
func (m Model) Diverged() bool { return m.diverged }

// Regime reports the current classification of the tuned spring.
func (m Model) Regime() spring.Regime {
	return spring.Classify(m.dyn.Omega, m.dyn.Zeta)
}

func column(x float64) int {
	frac := (x - trackMin) / (trackMax - trackMin)
	col := int(frac*float64(trackWidth-1) + 0.5)
	return max(0, min(trackWidth-1, col))
}

func (m Model) renderTrack() string {
	cells := make([]string, trackWidth)
	for i := range cells {
		cells[i] = "─"
	}
	for _, p := range m.trail.Pos {
		cells[column(p)] = trailStyle.Render("·")
	}
	cells[column(m.goal.Value)] = targetStyle.Render("┃")
	cells[column(m.state[0])] = springStyle.Render("●")
	return strings.Join(cells, "")
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("DAMPED SPRING · "+strings.ToUpper(m.Regime().String())) + "\n")

	status := statusRunning.Render("RUNNING")
	switch {
	case m.diverged:
		status = statusDiverged.Render("DIVERGED · press r to reset")
	case !m.running:
		status = statusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")
	s.WriteString(m.renderTrack() + "\n")

	if tgt, pos := finitePairs(m.tgtHistory, m.posHistory); len(pos) > 1 {
		chart := asciigraph.PlotMany([][]float64{tgt, pos},
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Cyan),
			asciigraph.Caption("target / position"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Position") + valueStyle.Render(fmt.Sprintf("%+.4f", m.state[0])) + "\n")
	s.WriteString(labelStyle.Render("Velocity") + valueStyle.Render(fmt.Sprintf("%+.4f", m.state[1])) + "\n")
	s.WriteString(labelStyle.Render("Target") + valueStyle.Render(fmt.Sprintf("%+.4f", m.goal.Value)) + "\n")
	s.WriteString(labelStyle.Render("Velocity ~") + valueStyle.Render(Sparkline(m.velocityTrail(), 24)) + "\n")

	s.WriteString("\nPARAMETERS\n")
	params := m.dyn.GetParams()
	for i, k := range paramKeys {
		line := fmt.Sprintf("%-6s %.2f", k, params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, s.String()))
}

func (m Model) velocityTrail() []float64 {
	return m.trail.Vel
}
