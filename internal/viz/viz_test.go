package viz

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0, "")
	c.Set(1, 3, "#ff0000")
	c.Set(-1, 0, "")
	c.Set(4, 0, "")

	if got := c.String(); got != string(rune(0x2800|0x01|0x80))+string(rune(0x2800))+"\n" {
		t.Errorf("unexpected cells %q", got)
	}
	if !c.IsSet(1, 3) || c.IsSet(1, 2) {
		t.Error("expected only the set dots lit")
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("expected clear canvas")
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Line(0, 0, 7, 0, "")
	for x := 0; x < 8; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("expected dot %d lit", x)
		}
	}
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera(100)
	cam.Pitch = 0

	x, y, ok := cam.Project(dynamo.Vec3{}, 100, 100)
	if !ok || x != 50 || y != 50 {
		t.Errorf("expected origin at center, got %d,%d", x, y)
	}
	x, _, ok = cam.Project(dynamo.Vec3{90, 0, 0}, 100, 100)
	if !ok || x != 95 {
		t.Errorf("expected 90 at x=95, got %d (%v)", x, ok)
	}
	if _, _, ok := cam.Project(dynamo.Vec3{1000, 0, 0}, 100, 100); ok {
		t.Error("expected far point off screen")
	}

	cam.Tilt(10)
	if cam.Pitch != 1.5707963267948966 {
		t.Errorf("expected tilt clamped to pi/2, got %f", cam.Pitch)
	}
}

func TestTrail(t *testing.T) {
	tr := NewTrail(3)
	for i := 1; i <= 4; i++ {
		tr.Push(dynamo.Vec3{float64(i)})
	}
	pts := tr.Points()
	if len(pts) != 3 || pts[0][0] != 2 || pts[2][0] != 4 {
		t.Errorf("expected last three points oldest first, got %v", pts)
	}

	tr.Release()
	if !tr.Released() || tr.Len() != 0 {
		t.Error("expected released trail emptied")
	}
}

func TestGauge(t *testing.T) {
	if got := Gauge(0, 5, 4); got != "░░░░" {
		t.Errorf("unexpected empty gauge %q", got)
	}
	if got := Gauge(4, 5, 4); got != "████" {
		t.Errorf("unexpected full gauge %q", got)
	}
}

func TestNextTheme(t *testing.T) {
	last := Themes[len(Themes)-1]
	if nextTheme(last).Name != Themes[0].Name {
		t.Error("expected theme cycle to wrap")
	}
	if GetTheme("nope").Name != ThemeDeepSpace.Name {
		t.Error("expected unknown theme to fall back")
	}
}

func newModel(t *testing.T) (Model, *dynamo.Engine) {
	t.Helper()
	store, err := config.NewStore(nil)
	if err != nil {
		t.Fatal(err)
	}
	eng, err := dynamo.New(store, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(eng, DefaultOptions()), eng
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModelSpawnAndTrails(t *testing.T) {
	m, eng := newModel(t)
	start := time.Now()
	m = send(m, key("n"), key("3"),
		TickMsg(start), TickMsg(start.Add(33*time.Millisecond)))

	if eng.Registry().Len() != 2 {
		t.Fatalf("expected 2 bodies, got %d", eng.Registry().Len())
	}
	if b := eng.Registry().Bodies()[1]; b.Kind != body.Gas {
		t.Errorf("expected key 3 to spawn a gas giant, got %s", b.Kind)
	}
	if len(m.trails) != 2 {
		t.Fatalf("expected a trail per body, got %d", len(m.trails))
	}
	for _, b := range eng.Registry().Bodies() {
		if b.Display == nil {
			t.Errorf("expected trail attached to %d", b.ID)
		}
	}

	// Released trails are pruned on the next frame.
	m = send(m, key("d"), TickMsg(start.Add(66*time.Millisecond)))
	if len(m.trails) != 1 {
		t.Errorf("expected deleted body's trail dropped, got %d", len(m.trails))
	}
}

func TestModelSelectionAndSpeed(t *testing.T) {
	m, eng := newModel(t)
	id, _ := eng.Spawn(nil)
	b, _ := eng.Registry().Get(id)
	v0 := b.Speed()

	m = send(m, key("up"))
	if !strings.Contains(m.message, "SELECT") {
		t.Errorf("expected hint without selection, got %q", m.message)
	}

	// Sun first, then the planet.
	m = send(m, key("tab"), key("tab"), key("up"))
	if sel, _ := eng.Registry().Selected(); sel != id {
		t.Fatalf("expected planet selected, got %d", sel)
	}
	if got := b.Speed(); got < v0*1.049 || got > v0*1.051 {
		t.Errorf("expected speed up 5%%, got %f from %f", got, v0)
	}

	now := time.Now()
	m = send(m, TickMsg(now), TickMsg(now.Add(33*time.Millisecond)))
	if len(m.radii) != 2 {
		t.Errorf("expected radius history for the selection, got %d", len(m.radii))
	}

	view := m.View()
	if !strings.Contains(view, b.Name) || !strings.Contains(view, "ORBITSIM") {
		t.Error("expected readout in view")
	}
}

func TestModelPauseAndWarp(t *testing.T) {
	m, eng := newModel(t)
	eng.Spawn(nil)
	now := time.Now()

	m = send(m, key(" "), TickMsg(now), TickMsg(now.Add(time.Second)))
	if eng.Seq() != 0 {
		t.Errorf("expected no frames while paused, got %d", eng.Seq())
	}

	label := eng.WarpLabel()
	m = send(m, key("]"))
	if eng.WarpLabel() == label {
		t.Error("expected warp stepped up")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected paused status")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
}
