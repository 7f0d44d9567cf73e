package recency

import "testing"

func TestPushFrontAndPop(t *testing.T) {
	l := New()

	if _, ok := l.Pop(); ok {
		t.Fatalf("expected empty list to report no tail")
	}

	l.PushFront("a")
	l.PushFront("b")
	l.PushFront("c")

	if key, ok := l.Pop(); !ok || key != "a" {
		t.Fatalf("expected tail %q, got %q (ok=%v)", "a", key, ok)
	}
	if key, ok := l.Pop(); !ok || key != "b" {
		t.Fatalf("expected tail %q, got %q (ok=%v)", "b", key, ok)
	}
	if key, ok := l.Pop(); !ok || key != "c" {
		t.Fatalf("expected tail %q, got %q (ok=%v)", "c", key, ok)
	}
	if _, ok := l.Pop(); ok {
		t.Fatalf("expected list to be empty after draining all pushes")
	}
}

func TestPromoteHeadIsNoop(t *testing.T) {
	l := New()
	h := l.PushFront("only")
	l.Promote(h)

	if key, ok := l.Pop(); !ok || key != "only" {
		t.Fatalf("promoting the head must not change list contents")
	}
}

func TestPromoteMovesToFront(t *testing.T) {
	l := New()
	ha := l.PushFront("a")
	l.PushFront("b")
	l.PushFront("c")

	// order is c, b, a (head to tail); promote a to the front.
	l.Promote(ha)
	// order is now a, c, b; tail is b.

	if key, ok := l.Pop(); !ok || key != "b" {
		t.Fatalf("expected tail %q after promotion, got %q", "b", key)
	}
	if key, ok := l.Pop(); !ok || key != "c" {
		t.Fatalf("expected tail %q after promotion, got %q", "c", key)
	}
	if key, ok := l.Pop(); !ok || key != "a" {
		t.Fatalf("expected promoted key %q to be last out, got %q", "a", key)
	}
}

func TestRemoveInterior(t *testing.T) {
	l := New()
	l.PushFront("a")
	hb := l.PushFront("b")
	l.PushFront("c")

	l.Remove(hb)

	if key, ok := l.Pop(); !ok || key != "a" {
		t.Fatalf("expected tail %q, got %q", "a", key)
	}
	if key, ok := l.Pop(); !ok || key != "c" {
		t.Fatalf("expected remaining head %q, got %q", "c", key)
	}
	if _, ok := l.Pop(); ok {
		t.Fatalf("removed interior node should not resurface")
	}
}

func TestRemoveHeadAndTail(t *testing.T) {
	l := New()
	ha := l.PushFront("a")
	l.PushFront("b")
	hc := l.PushFront("c")

	l.Remove(hc) // remove head
	l.Remove(ha) // remove tail

	if key, ok := l.Pop(); !ok || key != "b" {
		t.Fatalf("expected sole survivor %q, got %q (ok=%v)", "b", key, ok)
	}
	if _, ok := l.Pop(); ok {
		t.Fatalf("expected list empty after removing head and tail")
	}
}

func TestArenaSlotReuse(t *testing.T) {
	l := New()
	h1 := l.PushFront("first")
	l.Remove(h1)
	h2 := l.PushFront("second")

	if h1 != h2 {
		t.Fatalf("expected freed slot %d to be reused, got %d", h1, h2)
	}
	if key, ok := l.Pop(); !ok || key != "second" {
		t.Fatalf("expected reused slot to carry the new key, got %q", key)
	}
}
