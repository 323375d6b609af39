// Package sched decides which bodies get fresh orbit geometry each frame.
package sched

import "github.com/san-kum/orbitsim/internal/body"

// Scheduler refreshes the selected body every frame plus Budget bodies in
// round-robin order. It is not safe for concurrent use.
type Scheduler struct {
	Budget int
	cursor int
}

func New(budget int) *Scheduler {
	return &Scheduler{Budget: budget}
}

// Plan returns the ids to refresh this frame, selected first. The cursor
// advances before each pick, so a Budget of three visits indices 1, 2, 3 on
// the first frame. Picking the selected body spends a slot without adding it
// twice, and a body appears at most once even when Budget exceeds len(ids).
func (s *Scheduler) Plan(ids []body.ID, selected body.ID, hasSelected bool) []body.ID {
	out := make([]body.ID, 0, s.Budget+1)
	seen := make(map[body.ID]struct{}, s.Budget+1)

	if hasSelected {
		for _, id := range ids {
			if id == selected {
				out = append(out, id)
				seen[id] = struct{}{}
				break
			}
		}
	}

	n := len(ids)
	if n == 0 {
		s.cursor = 0
		return out
	}
	s.cursor %= n
	for k := 0; k < s.Budget; k++ {
		s.cursor = (s.cursor + 1) % n
		id := ids[s.cursor]
		if hasSelected && id == selected {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Cursor is the index of the last round-robin pick.
func (s *Scheduler) Cursor() int { return s.cursor }
