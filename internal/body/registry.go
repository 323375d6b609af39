package body

import "math"

// Registry is the single owner of live bodies. Bodies keep their insertion
// order; removal is deferred by Mark and applied by Apply, so scanning code
// never sees indices shift underneath it.
type Registry struct {
	bodies  []*Body
	index   map[ID]int
	nextID  ID
	pending []Removal
	marked  map[ID]struct{}

	selected    ID
	hasSelected bool

	listeners []func(Removal)
}

func NewRegistry() *Registry {
	return &Registry{
		index:  make(map[ID]int),
		marked: make(map[ID]struct{}),
		nextID: SunID + 1,
	}
}

// Add assigns the next ID to b and appends it.
func (r *Registry) Add(b *Body) ID {
	b.ID = r.nextID
	r.nextID++
	r.index[b.ID] = len(r.bodies)
	r.bodies = append(r.bodies, b)
	return b.ID
}

func (r *Registry) Len() int { return len(r.bodies) }

func (r *Registry) Get(id ID) (*Body, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.bodies[i], true
}

// Bodies returns the live bodies in insertion order. The slice is only valid
// until the next Apply.
func (r *Registry) Bodies() []*Body { return r.bodies }

func (r *Registry) IDs() []ID {
	ids := make([]ID, len(r.bodies))
	for i, b := range r.bodies {
		ids[i] = b.ID
	}
	return ids
}

// Mark queues b for removal. Marking twice keeps the first reason.
func (r *Registry) Mark(id ID, reason Reason) bool {
	b, ok := r.Get(id)
	if !ok {
		return false
	}
	if _, dup := r.marked[id]; dup {
		return false
	}
	r.marked[id] = struct{}{}
	r.pending = append(r.pending, Removal{
		ID:       id,
		Name:     b.Name,
		Kind:     b.Kind,
		Reason:   reason,
		Distance: b.Distance(),
	})
	return true
}

func (r *Registry) Marked(id ID) bool {
	_, ok := r.marked[id]
	return ok
}

func (r *Registry) Pending() int { return len(r.pending) }

// Apply removes every marked body, keeping the order of survivors, and
// returns the removals in the order they were marked.
func (r *Registry) Apply() []Removal {
	if len(r.pending) == 0 {
		return nil
	}
	kept := r.bodies[:0]
	for _, b := range r.bodies {
		if _, gone := r.marked[b.ID]; gone {
			r.release(b)
			continue
		}
		kept = append(kept, b)
	}
	for i := len(kept); i < len(r.bodies); i++ {
		r.bodies[i] = nil
	}
	r.bodies = kept

	clear(r.index)
	for i, b := range r.bodies {
		r.index[b.ID] = i
	}

	out := r.pending
	r.pending = nil
	clear(r.marked)
	for _, rm := range out {
		if r.hasSelected && r.selected == rm.ID {
			r.hasSelected = false
		}
		for _, fn := range r.listeners {
			fn(rm)
		}
	}
	return out
}

// Remove marks and applies in one call.
func (r *Registry) Remove(id ID, reason Reason) (Removal, bool) {
	if !r.Mark(id, reason) {
		return Removal{}, false
	}
	out := r.Apply()
	for _, rm := range out {
		if rm.ID == id {
			return rm, true
		}
	}
	return Removal{}, false
}

// Clear removes every body with the same reason.
func (r *Registry) Clear(reason Reason) []Removal {
	for _, b := range r.bodies {
		r.Mark(b.ID, reason)
	}
	return r.Apply()
}

// Outermost returns the live body farthest from the origin. Ties go to the
// earliest body.
func (r *Registry) Outermost() (*Body, bool) {
	var best *Body
	maxDist := math.Inf(-1)
	for _, b := range r.bodies {
		if d := b.Distance(); d > maxDist {
			maxDist = d
			best = b
		}
	}
	return best, best != nil
}

// Select accepts SunID or any live body.
func (r *Registry) Select(id ID) bool {
	if id != SunID {
		if _, ok := r.index[id]; !ok {
			return false
		}
	}
	r.selected = id
	r.hasSelected = true
	return true
}

func (r *Registry) ClearSelection() { r.hasSelected = false }

func (r *Registry) Selected() (ID, bool) { return r.selected, r.hasSelected }

// OnRemove registers fn to run after each applied removal.
func (r *Registry) OnRemove(fn func(Removal)) {
	r.listeners = append(r.listeners, fn)
}

func (r *Registry) release(b *Body) {
	if b.Display != nil {
		b.Display.Release()
		b.Display = nil
	}
	b.Orbit = nil
}
