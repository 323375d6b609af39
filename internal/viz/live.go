package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	width           = 80
	height          = 30
	historyCapacity = 240
	speedStep       = 1.05
)

type TickMsg time.Time

type Options struct {
	Theme       string
	TrailLength int
	FPS         int
	// Extent is the world radius visible at zoom 1.
	Extent float64
}

func DefaultOptions() Options {
	return Options{Theme: ThemeDeepSpace.Name, TrailLength: 60, FPS: 30, Extent: 1600}
}

// Model is the live view. It owns the engine for the lifetime of the
// program; every engine call happens inside Update.
type Model struct {
	eng    *dynamo.Engine
	opts   Options
	canvas *Canvas
	cam    *Camera
	theme  Theme
	st     styles

	frame   dynamo.Frame
	last    time.Time
	trails  map[body.ID]*Trail
	arcs    map[body.ID][][]dynamo.Vec3
	radii   []float64
	radiiOf body.ID

	paused     bool
	showOrbits bool
	showHelp   bool
	message    string
}

func NewModel(eng *dynamo.Engine, opts Options) Model {
	def := DefaultOptions()
	if opts.TrailLength <= 0 {
		opts.TrailLength = def.TrailLength
	}
	if opts.FPS <= 0 {
		opts.FPS = def.FPS
	}
	if opts.Extent <= 0 {
		opts.Extent = def.Extent
	}
	theme := GetTheme(opts.Theme)
	return Model{
		eng:        eng,
		opts:       opts,
		canvas:     NewCanvas(width, height),
		cam:        NewCamera(opts.Extent),
		theme:      theme,
		st:         newStyles(theme),
		trails:     make(map[body.ID]*Trail),
		arcs:       make(map[body.ID][][]dynamo.Vec3),
		showOrbits: true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		now := time.Time(msg)
		delta := time.Duration(0)
		if !m.last.IsZero() {
			delta = now.Sub(m.last)
		}
		m.last = now
		if !m.paused {
			m.observe(m.eng.Frame(delta))
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "n":
		m.spawn(nil)
	case "1", "2", "3":
		k := body.Kind(msg.String()[0] - '1')
		m.spawn(&k)
	case "d", "backspace":
		if _, ok := m.eng.DeleteOutermost(); !ok {
			m.message = "NOTHING TO DELETE"
		}
	case "tab":
		m.cycleSelection()
	case "s":
		_ = m.eng.Select(body.SunID)
	case "esc":
		m.eng.ClearSelection()
	case "]":
		m.eng.WarpUp()
	case "[":
		m.eng.WarpDown()
	case "up", "k":
		m.scaleSpeed(speedStep)
	case "down", "j":
		m.scaleSpeed(1 / speedStep)
	case "left", "h":
		m.cam.Turn(-0.1)
	case "right", "l":
		m.cam.Turn(0.1)
	case ",":
		m.cam.Tilt(-0.1)
	case ".":
		m.cam.Tilt(0.1)
	case "+", "=":
		m.cam.ZoomIn()
	case "-", "_":
		m.cam.ZoomOut()
	case "o":
		m.showOrbits = !m.showOrbits
	case "t":
		m.theme = nextTheme(m.theme)
		m.st = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) spawn(kind *body.Kind) {
	if _, ok := m.eng.Spawn(kind); !ok {
		m.message = "REGISTRY FULL"
	}
}

// cycleSelection walks the sun and then every body in registry order.
func (m *Model) cycleSelection() {
	ids := append([]body.ID{body.SunID}, m.eng.Registry().IDs()...)
	sel, ok := m.eng.Registry().Selected()
	next := 0
	if ok {
		for i, id := range ids {
			if id == sel {
				next = (i + 1) % len(ids)
				break
			}
		}
	}
	_ = m.eng.Select(ids[next])
}

func (m *Model) scaleSpeed(f float64) {
	sel, ok := m.eng.Registry().Selected()
	if !ok || sel == body.SunID {
		m.message = "SELECT A PLANET FIRST"
		return
	}
	b, ok := m.eng.Registry().Get(sel)
	if !ok {
		return
	}
	if err := m.eng.SetSpeed(sel, b.Speed()*f); err != nil {
		m.message = strings.ToUpper(err.Error())
	}
}

// observe folds a frame into the view state: trails, cached orbit arcs and
// the selected body's radius history.
func (m *Model) observe(f dynamo.Frame) {
	m.frame = f
	for _, rm := range f.Removed {
		delete(m.arcs, rm.ID)
	}
	for id, t := range m.trails {
		if t.Released() {
			delete(m.trails, id)
		}
	}

	for _, b := range f.Bodies {
		t, ok := m.trails[b.ID]
		if !ok {
			t = NewTrail(m.opts.TrailLength)
			if err := m.eng.Attach(b.ID, t); err != nil {
				continue
			}
			m.trails[b.ID] = t
		}
		t.Push(b.Pos)
		if b.Orbit != nil {
			m.arcs[b.ID] = b.Orbit.Arcs
		}
	}

	if f.Selected == nil || f.Selected.ID == body.SunID {
		m.radii = m.radii[:0]
		return
	}
	if f.Selected.ID != m.radiiOf {
		m.radii = m.radii[:0]
		m.radiiOf = f.Selected.ID
	}
	m.radii = append(m.radii, f.Selected.DistanceAU)
	if len(m.radii) > historyCapacity {
		m.radii = m.radii[1:]
	}
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	w, h := c.Dots()
	scale := float64(min(w, h)) / 2 / m.cam.Extent * m.cam.Zoom

	project := func(p dynamo.Vec3) (int, int, bool) { return m.cam.Project(p, w, h) }

	sel, hasSel := m.eng.Registry().Selected()
	if m.showOrbits {
		for id, arcs := range m.arcs {
			ink := string(m.theme.Muted)
			if hasSel && id == sel {
				ink = string(m.theme.Accent)
			}
			for _, arc := range arcs {
				for i := 1; i < len(arc); i++ {
					x0, y0, _ := project(arc[i-1])
					x1, y1, _ := project(arc[i])
					c.Line(x0, y0, x1, y1, ink)
				}
			}
		}
	}

	for _, b := range m.frame.Bodies {
		if t, ok := m.trails[b.ID]; ok {
			for _, p := range t.Points() {
				if x, y, ok := project(p); ok {
					c.Set(x, y, b.Color)
				}
			}
		}
	}

	sx, sy, _ := project(dynamo.Vec3{})
	c.Disc(sx, sy, max(1, int(body.SunSize*scale)), string(m.theme.Sun))

	for _, b := range m.frame.Bodies {
		x, y, ok := project(b.Pos)
		if !ok {
			continue
		}
		c.Disc(x, y, max(1, int(math.Round(b.Radius*scale))), b.Color)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(m.st.header.Render("ORBITSIM") + "\n")
	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	s.WriteString(m.st.status.Render(status) + "\n\n")

	f := m.frame
	cfg := m.eng.Config()
	row := func(label, value string) {
		s.WriteString(m.st.label.Render(label) + m.st.value.Render(value) + "\n")
	}
	row("Warp", strings.TrimPrefix(m.eng.WarpLabel(), "WARP: "))
	row("", Gauge(m.warpIndex(), m.warpLen(), 16))
	row("Bodies", fmt.Sprintf("%d / %d", m.eng.Registry().Len(), cfg.MaxBodies))
	row("Sim time", fmt.Sprintf("%.0fs", f.SimTime))
	row("Frame", fmt.Sprintf("%d", f.Seq))

	if f.Selected != nil {
		s.WriteString("\n" + Separator(30) + "\n")
		for i, line := range f.Selected.Lines() {
			if i == 0 {
				s.WriteString(m.st.active.Render(line) + "\n")
				continue
			}
			s.WriteString(m.st.value.Render(line) + "\n")
		}
		if len(m.radii) > 1 {
			chart := asciigraph.Plot(m.radii, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Distance (AU)"))
			s.WriteString(m.st.graph.Render(chart) + "\n")
		}
	}

	if m.message != "" {
		s.WriteString("\n" + m.st.warn.Render(m.message) + "\n")
	}
	s.WriteString(m.st.hint.Render("SP:Pause N:Spawn D:Delete Q:Quit\nTAB:Select [ ]:Warp ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

func (m Model) warpIndex() int { return m.eng.WarpIndex() }
func (m Model) warpLen() int   { return len(m.eng.Config().Warp.Table) }

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Spawn random planet      ║
║  1 2 3    - Spawn rocky/ocean/gas    ║
║  D        - Delete outermost planet  ║
║  Tab      - Cycle selection          ║
║  S / Esc  - Select sun / deselect    ║
║  Up/Down  - Selected speed +/-5%     ║
║  [ ]      - Warp down/up             ║
║  Arrows   - Turn camera              ║
║  , .      - Tilt camera              ║
║  + -      - Zoom                     ║
║  O        - Toggle orbits            ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the live view on the alternate screen.
func Run(eng *dynamo.Engine, opts Options) error {
	_, err := tea.NewProgram(NewModel(eng, opts), tea.WithAltScreen()).Run()
	return err
}
