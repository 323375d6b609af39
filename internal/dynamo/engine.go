package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/lifecycle"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/sched"
	"github.com/san-kum/orbitsim/internal/timewarp"
)

// Engine runs the frame loop and applies commands between frames. It is
// single-threaded: every method must be called from the frame goroutine.
// The config store may be updated from anywhere; changes are picked up at
// the start of the next frame.
type Engine struct {
	store *config.Store
	cfg   *config.Config
	next  atomic.Pointer[config.Config]

	reg       *body.Registry
	integ     *integrators.SymplecticEuler
	life      *lifecycle.Manager
	warp      *timewarp.Controller
	sched     *sched.Scheduler
	predictor orbit.Predictor
	sun       body.Sun

	log       *slog.Logger
	telemetry Telemetry
	metrics   []Metric
	observers []Observer

	seq     uint64
	simTime float64
	pending []body.Removal
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithTelemetry(t Telemetry) Option {
	return func(e *Engine) {
		if t != nil {
			e.telemetry = t
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

func WithMetric(m Metric) Option {
	return func(e *Engine) { e.metrics = append(e.metrics, m) }
}

// New builds an engine over store. A nil store uses the defaults.
func New(store *config.Store, rnd body.Rand, opts ...Option) (*Engine, error) {
	if store == nil {
		var err error
		if store, err = config.NewStore(nil); err != nil {
			return nil, err
		}
	}
	cfg := store.Get()
	e := &Engine{
		store:     store,
		cfg:       &cfg,
		reg:       body.NewRegistry(),
		integ:     integrators.NewSymplecticEuler(&cfg),
		life:      lifecycle.NewManager(&cfg, rnd),
		warp:      timewarp.FromConfig(&cfg),
		sched:     sched.New(cfg.Orbit.RefreshBudget),
		predictor: orbit.FromConfig(&cfg),
		sun:       body.NewSun(cfg.CentralMass),
		log:       slog.New(slog.DiscardHandler),
		telemetry: nopTelemetry{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reg.OnRemove(e.telemetry.Removed)
	store.OnChange(func(_, cur config.Config) {
		c := cur
		e.next.Store(&c)
	})
	return e, nil
}

func (e *Engine) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

func (e *Engine) Registry() *body.Registry { return e.reg }
func (e *Engine) Config() config.Config    { return *e.cfg }
func (e *Engine) Store() *config.Store     { return e.store }
func (e *Engine) Sun() body.Sun            { return e.sun }
func (e *Engine) SimTime() float64         { return e.simTime }
func (e *Engine) Seq() uint64              { return e.seq }
func (e *Engine) WarpLabel() string        { return e.warp.Label() }
func (e *Engine) Multiplier() float64      { return e.warp.Multiplier() }
func (e *Engine) WarpIndex() int           { return e.warp.Index() }

// Energy is the current total energy of the orbiting bodies.
func (e *Engine) Energy() float64 {
	return e.integ.Gravity().Energy(e.reg.Bodies())
}

// Frame advances the simulation by one wall-clock delta, refreshes orbit
// geometry for the scheduled bodies and returns the snapshot.
func (e *Engine) Frame(delta time.Duration) Frame {
	start := time.Now()
	if c := e.next.Swap(nil); c != nil {
		e.apply(c)
	}

	step := e.integ.Advance(e.reg, delta, e.warp.Multiplier())
	e.seq++
	e.simTime += step.SimTime

	removed := append(e.pending, step.Removals...)
	e.pending = nil
	for _, rm := range step.Removals {
		e.log.Debug(strings.ToUpper(rm.Reason.String()),
			"body", rm.Name, "id", rm.ID, "distance", rm.Distance, "seq", e.seq)
	}

	sel, hasSel := e.reg.Selected()
	plan := e.sched.Plan(e.reg.IDs(), sel, hasSel)
	for _, id := range plan {
		e.refresh(id)
	}
	e.telemetry.OrbitsRefreshed(len(plan))

	f := Frame{
		Seq:        e.seq,
		SimTime:    e.simTime,
		Step:       step.SimTime,
		Warp:       e.warp.Label(),
		Multiplier: e.warp.Multiplier(),
		Bodies:     make([]BodyView, 0, e.reg.Len()),
		Removed:    removed,
	}
	for _, b := range e.reg.Bodies() {
		v := BodyView{
			ID:     b.ID,
			Name:   b.Name,
			Kind:   b.Kind,
			Pos:    toVec3(b.Pos),
			Speed:  b.Speed(),
			Radius: b.Radius,
			Color:  b.Color.Hex(),
		}
		if b.Orbit != nil && slices.Contains(plan, b.ID) {
			v.Orbit = newOrbitView(b.Orbit)
		}
		f.Bodies = append(f.Bodies, v)
	}
	if hasSel {
		f.Selected, _ = e.summarize(sel)
	}

	if len(e.metrics) > 0 {
		s := Sample{Seq: e.seq, SimTime: e.simTime, Bodies: e.reg.Bodies(), Energy: e.Energy(), Removed: removed}
		for _, m := range e.metrics {
			m.Observe(s)
		}
	}
	for _, o := range e.observers {
		o.OnFrame(&f)
	}
	e.telemetry.FrameDone(time.Since(start), e.reg.Len(), e.simTime, f.Multiplier)
	return f
}

// Run drives Frame with a fixed delta until frames run out, ctx is done or
// fn returns false. A non-positive frames runs until ctx is done.
func (e *Engine) Run(ctx context.Context, frames int, delta time.Duration, fn func(Frame) bool) error {
	for i := 0; frames <= 0 || i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		f := e.Frame(delta)
		if fn != nil && !fn(f) {
			return nil
		}
	}
	return nil
}

// Metrics returns the current value of every registered metric.
func (e *Engine) Metrics() map[string]float64 {
	out := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (e *Engine) refresh(id body.ID) {
	b, ok := e.reg.Get(id)
	if !ok {
		return
	}
	el := e.predictor.Predict(b.Pos, b.Vel)
	b.Orbit = &el
}

func (e *Engine) apply(c *config.Config) {
	prev := e.cfg
	e.cfg = c
	e.integ.SetConfig(c)
	e.life.SetConfig(c)
	e.predictor = orbit.FromConfig(c)
	e.sched.Budget = c.Orbit.RefreshBudget
	name := e.sun.Name
	e.sun = body.NewSun(c.CentralMass)
	e.sun.Name = name

	if !slices.Equal(prev.Warp.Table, c.Warp.Table) {
		idx := e.warp.Index()
		if prev.Warp.Index != c.Warp.Index {
			idx = c.Warp.Index
		}
		e.warp = timewarp.New(c.Warp.Table, idx)
	} else if prev.Warp.Index != c.Warp.Index {
		e.warp.SetIndex(c.Warp.Index)
	}
	if c.Warp.Calibrated {
		e.warp.Recalibrate(c.G, c.CentralMass, c.Warp.AUSize)
	} else {
		e.warp.Direct()
	}
	e.log.Info("config applied", "g", c.G, "central_mass", c.CentralMass, "gravity", c.Gravity, "warp", e.warp.Label())
}

// Spawn adds a body of kind, or a rolled kind when kind is nil. It reports
// false when the registry is at capacity.
func (e *Engine) Spawn(kind *body.Kind) (body.ID, bool) {
	b, ok := e.life.Spawn(e.reg, kind)
	if !ok {
		e.log.Debug("spawn rejected", "bodies", e.reg.Len(), "max", e.cfg.MaxBodies)
		return 0, false
	}
	e.telemetry.Spawned(b.Kind)
	e.log.Info("spawned", "body", b.Name, "id", b.ID, "kind", b.Kind, "distance", b.Distance())
	return b.ID, true
}

// Seed spawns up to n random bodies and returns how many were placed.
func (e *Engine) Seed(n int) int {
	placed := 0
	for i := 0; i < n; i++ {
		if _, ok := e.Spawn(nil); !ok {
			break
		}
		placed++
	}
	return placed
}

func (e *Engine) DeleteOutermost() (body.ID, bool) {
	rm, ok := e.life.DeleteOutermost(e.reg)
	if !ok {
		return 0, false
	}
	e.pending = append(e.pending, rm)
	e.log.Info("deleted", "body", rm.Name, "id", rm.ID, "distance", rm.Distance)
	return rm.ID, true
}

// SetSpeed rescales a body's velocity while keeping its heading and
// refreshes its orbit.
func (e *Engine) SetSpeed(id body.ID, v float64) error {
	if id == body.SunID {
		return &CommandError{Op: "set speed", ID: id, Wrapped: ErrCentralBody}
	}
	if !(v >= 0) {
		return &CommandError{Op: "set speed", ID: id, Wrapped: ErrNegativeSpeed}
	}
	b, ok := e.reg.Get(id)
	if !ok {
		return &CommandError{Op: "set speed", ID: id, Wrapped: ErrUnknownBody}
	}
	b.SetSpeed(v)
	e.refresh(id)
	return nil
}

// Rename upper-cases name and applies it. The central body can be renamed.
func (e *Engine) Rename(id body.ID, name string) error {
	name = strings.ToUpper(strings.TrimSpace(name))
	if id == body.SunID {
		e.sun.Name = name
		return nil
	}
	b, ok := e.reg.Get(id)
	if !ok {
		return &CommandError{Op: "rename", ID: id, Wrapped: ErrUnknownBody}
	}
	b.Name = name
	return nil
}

func (e *Engine) Select(id body.ID) error {
	if !e.reg.Select(id) {
		return &CommandError{Op: "select", ID: id, Wrapped: ErrUnknownBody}
	}
	if id != body.SunID {
		e.refresh(id)
	}
	return nil
}

func (e *Engine) ClearSelection() { e.reg.ClearSelection() }

// Attach hands ownership of a renderer resource to the body. It is released
// when the body is removed.
func (e *Engine) Attach(id body.ID, r body.Resource) error {
	b, ok := e.reg.Get(id)
	if !ok {
		return &CommandError{Op: "attach", ID: id, Wrapped: ErrUnknownBody}
	}
	if b.Display != nil && b.Display != r {
		b.Display.Release()
	}
	b.Display = r
	return nil
}

// Summary is the readout for any live body or SunID.
func (e *Engine) Summary(id body.ID) (Summary, error) {
	s, ok := e.summarize(id)
	if !ok {
		return Summary{}, &CommandError{Op: "summary", ID: id, Wrapped: ErrUnknownBody}
	}
	return *s, nil
}

func (e *Engine) WarpUp() bool {
	ok := e.warp.StepUp()
	if ok {
		e.log.Debug("warp", "label", e.warp.Label())
	}
	return ok
}

func (e *Engine) WarpDown() bool {
	ok := e.warp.StepDown()
	if ok {
		e.log.Debug("warp", "label", e.warp.Label())
	}
	return ok
}

// Orbit predicts from an arbitrary state with the engine's constants.
func (e *Engine) Orbit(b *body.Body) orbit.Elements {
	return e.predictor.Predict(b.Pos, b.Vel)
}

// Reconfigure validates and commits a change through the store, then applies
// it immediately. The current warp index is kept unless fn changes it.
func (e *Engine) Reconfigure(fn func(*config.Config)) error {
	warpIndex := e.warp.Index()
	err := e.store.Update(func(c *config.Config) {
		c.Warp.Index = warpIndex
		fn(c)
	})
	if err != nil {
		return fmt.Errorf("reconfigure: %w", err)
	}
	if c := e.next.Swap(nil); c != nil {
		e.apply(c)
	}
	return nil
}
