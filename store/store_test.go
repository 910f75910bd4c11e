package store

import (
	"errors"
	"testing"
)

func TestStore_PutGet(t *testing.T) {
	s := New()

	if _, _, ok := s.Get("tasks"); ok {
		t.Fatalf("expected miss on empty store")
	}

	s.Put("tasks", "payload-1")
	payload, state, ok := s.Get("tasks")
	if !ok || payload != "payload-1" || state != Fresh {
		t.Fatalf("unexpected entry: payload=%v state=%v ok=%v", payload, state, ok)
	}
}

func TestStore_InvalidateIdempotent(t *testing.T) {
	s := New()
	s.Put("tasks", "payload")

	s.Invalidate("tasks")
	if _, state, _ := s.Get("tasks"); state != Stale {
		t.Fatalf("expected stale, got %v", state)
	}

	// Invalidating an already-stale key is a no-op.
	s.Invalidate("tasks")
	payload, state, ok := s.Get("tasks")
	if !ok || payload != "payload" || state != Stale {
		t.Fatalf("second invalidate changed the entry: payload=%v state=%v", payload, state)
	}

	// Invalidating a missing key is also a no-op.
	s.Invalidate("missing")
	if _, _, ok := s.Get("missing"); ok {
		t.Fatalf("invalidate created an entry")
	}
}

func TestStore_InvalidatePrefix(t *testing.T) {
	s := New()
	s.Put("tasks", "a")
	s.Put("tasks?status=completed", "b")
	s.Put("conversation/c1", "c")

	s.InvalidatePrefix("tasks")

	for _, key := range []Key{"tasks", "tasks?status=completed"} {
		if _, state, _ := s.Get(key); state != Stale {
			t.Errorf("%s: expected stale, got %v", key, state)
		}
	}
	if _, state, _ := s.Get("conversation/c1"); state != Fresh {
		t.Errorf("conversation entry should be untouched, got %v", state)
	}
}

func TestStore_BeginRejectsSecondMutation(t *testing.T) {
	s := New()
	s.Put("tasks", "payload")

	if _, err := s.Begin("tasks"); err != nil {
		t.Fatalf("first Begin: %v", err)
	}
	if _, err := s.Begin("tasks"); !errors.Is(err, ErrPending) {
		t.Fatalf("second Begin: expected ErrPending, got %v", err)
	}
}

func TestStore_ApplyCommit(t *testing.T) {
	s := New()
	s.Put("tasks", "old")

	snap, err := s.Begin("tasks")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if snap.Payload() != "old" {
		t.Fatalf("snapshot payload = %v", snap.Payload())
	}

	s.Apply("tasks", "speculative")
	payload, state, _ := s.Get("tasks")
	if payload != "speculative" || state != Pending {
		t.Fatalf("after Apply: payload=%v state=%v", payload, state)
	}

	s.Commit("tasks")
	payload, state, _ = s.Get("tasks")
	if payload != "speculative" || state != Stale {
		t.Fatalf("after Commit: payload=%v state=%v", payload, state)
	}
}

func TestStore_RollbackRestoresExactState(t *testing.T) {
	s := New()
	s.Put("tasks", "old")
	s.Invalidate("tasks") // prior state is stale

	snap, err := s.Begin("tasks")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	s.Apply("tasks", "speculative")
	s.Rollback(snap)

	payload, state, ok := s.Get("tasks")
	if !ok || payload != "old" || state != Stale {
		t.Fatalf("rollback left payload=%v state=%v ok=%v, want old/stale", payload, state, ok)
	}
}

func TestStore_RollbackToAbsent(t *testing.T) {
	s := New()

	snap, err := s.Begin("tasks")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	s.Apply("tasks", "speculative")
	s.Rollback(snap)

	if _, _, ok := s.Get("tasks"); ok {
		t.Fatalf("rollback should remove an entry that did not exist before")
	}
}

func TestStore_PutLeavesPendingAlone(t *testing.T) {
	s := New()
	s.Put("tasks", "old")
	if _, err := s.Begin("tasks"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	s.Apply("tasks", "speculative")

	s.Put("tasks", "background-refetch")
	payload, state, _ := s.Get("tasks")
	if payload != "speculative" || state != Pending {
		t.Fatalf("Put overwrote a pending entry: payload=%v state=%v", payload, state)
	}
}

func TestStore_Patch(t *testing.T) {
	s := New()
	s.Put("tasks", "old")
	s.Invalidate("tasks")

	s.Patch("tasks", func(old any) any { return old.(string) + "+folded" })

	payload, state, _ := s.Get("tasks")
	if payload != "old+folded" || state != Stale {
		t.Fatalf("after Patch: payload=%v state=%v", payload, state)
	}

	// Patch never touches missing or pending entries.
	s.Patch("missing", func(any) any { return "x" })
	if _, _, ok := s.Get("missing"); ok {
		t.Fatalf("Patch created an entry")
	}
}

func TestStore_Subscribe(t *testing.T) {
	s := New()
	var seen []Key
	cancel := s.Subscribe(func(k Key) { seen = append(seen, k) })

	s.Put("tasks", "a")
	s.Invalidate("tasks")
	s.Discard("tasks")

	if len(seen) != 3 {
		t.Fatalf("expected 3 notifications, got %d (%v)", len(seen), seen)
	}

	cancel()
	s.Put("tasks", "b")
	if len(seen) != 3 {
		t.Fatalf("notification after cancel: %v", seen)
	}
}

func TestStore_DiscardPrefix(t *testing.T) {
	s := New()
	s.Put("conversation/c1", "a")
	s.Put("conversation/c2", "b")
	s.Put("tasks", "c")

	s.DiscardPrefix("conversation/")

	if _, _, ok := s.Get("conversation/c1"); ok {
		t.Fatalf("conversation/c1 survived DiscardPrefix")
	}
	if _, _, ok := s.Get("tasks"); !ok {
		t.Fatalf("tasks should survive DiscardPrefix")
	}
}
