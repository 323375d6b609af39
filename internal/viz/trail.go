package viz

import "github.com/san-kum/orbitsim/internal/dynamo"

// Trail is a fixed-length ring of recent positions. It is attached to its
// body as a display resource, so the engine releases it on removal.
type Trail struct {
	points   []dynamo.Vec3
	next     int
	full     bool
	released bool
}

func NewTrail(n int) *Trail {
	return &Trail{points: make([]dynamo.Vec3, max(n, 1))}
}

func (t *Trail) Push(p dynamo.Vec3) {
	t.points[t.next] = p
	t.next = (t.next + 1) % len(t.points)
	if t.next == 0 {
		t.full = true
	}
}

// Points returns the positions oldest first.
func (t *Trail) Points() []dynamo.Vec3 {
	if !t.full {
		return append([]dynamo.Vec3(nil), t.points[:t.next]...)
	}
	out := make([]dynamo.Vec3, 0, len(t.points))
	out = append(out, t.points[t.next:]...)
	return append(out, t.points[:t.next]...)
}

func (t *Trail) Len() int {
	if t.full {
		return len(t.points)
	}
	return t.next
}

func (t *Trail) Release() {
	t.released = true
	t.points = t.points[:1]
	t.next, t.full = 0, false
}

func (t *Trail) Released() bool { return t.released }
