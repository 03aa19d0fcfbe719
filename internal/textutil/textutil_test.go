package textutil

import "testing"

func TestHash(t *testing.T) {
	t.Parallel()

	if Hash("Hello") == Hash("World") {
		t.Error("distinct strings should not collide")
	}
	if Hash("Hello") != Hash("Hello") {
		t.Error("hash must be stable")
	}
	if len(Hash("x")) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(Hash("x")))
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}
	if got := Truncate("0123456789", 4); got != "0123..." {
		t.Errorf("Truncate = %q, want 0123...", got)
	}
}
