package sched

import (
	"testing"

	"github.com/san-kum/orbitsim/internal/body"
)

func ids(n int) []body.ID {
	out := make([]body.ID, n)
	for i := range out {
		out[i] = body.ID(i + 1)
	}
	return out
}

func equal(a, b []body.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPlanRoundRobin(t *testing.T) {
	s := New(3)
	all := ids(5)

	frames := [][]body.ID{
		{2, 3, 4},
		{5, 1, 2},
		{3, 4, 5},
	}
	for i, want := range frames {
		if got := s.Plan(all, 0, false); !equal(got, want) {
			t.Errorf("frame %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestPlanSelectedFirst(t *testing.T) {
	s := New(3)
	got := s.Plan(ids(5), 3, true)
	// 3 leads; the round-robin slot that lands on it is spent.
	want := []body.ID{3, 2, 4}
	if !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPlanSelectedNotLive(t *testing.T) {
	s := New(2)
	got := s.Plan(ids(4), body.SunID, true)
	if !equal(got, []body.ID{2, 3}) {
		t.Errorf("expected sun selection to be ignored, got %v", got)
	}
}

func TestPlanFewerThanBudget(t *testing.T) {
	s := New(3)
	got := s.Plan(ids(2), 0, false)
	if !equal(got, []body.ID{2, 1}) {
		t.Errorf("expected each body once, got %v", got)
	}

	if got := s.Plan(nil, 0, false); len(got) != 0 {
		t.Errorf("expected nothing for empty registry, got %v", got)
	}
}

func TestPlanShrinkingRegistry(t *testing.T) {
	s := New(3)
	s.Plan(ids(10), 0, false)
	s.Plan(ids(10), 0, false)
	if s.Cursor() != 6 {
		t.Fatalf("expected cursor 6, got %d", s.Cursor())
	}

	got := s.Plan(ids(4), 0, false)
	// 6 mod 4 = 2, then advance to 3, 0, 1.
	if !equal(got, []body.ID{4, 1, 2}) {
		t.Errorf("expected [4 1 2], got %v", got)
	}
}

func TestPlanFairness(t *testing.T) {
	s := New(3)
	all := ids(7)
	counts := map[body.ID]int{}
	for f := 0; f < 70; f++ {
		for _, id := range s.Plan(all, 0, false) {
			counts[id]++
		}
	}
	for _, id := range all {
		if counts[id] != 30 {
			t.Errorf("body %d refreshed %d times, expected 30", id, counts[id])
		}
	}
}
