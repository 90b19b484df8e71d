package reil_test

import (
	"testing"

	"github.com/barfgo/reil/reil"
)

func TestNamerSSAMonotonicity(t *testing.T) {
	n := reil.NewNamer("eax")

	if got := n.Init(); got != "eax_0" {
		t.Errorf("Init() = %q, want eax_0", got)
	}
	if got := n.Current(); got != "eax_0" {
		t.Errorf("Current() before any Next() = %q, want eax_0", got)
	}

	prev := n.Version()
	for i := 0; i < 5; i++ {
		next := n.Next()
		if n.Version() <= prev {
			t.Fatalf("version did not increase: %d -> %d", prev, n.Version())
		}
		prev = n.Version()
		if n.Current() != next {
			t.Errorf("Current() = %q after Next() returned %q", n.Current(), next)
		}
		// Current() is idempotent between Next() calls.
		if n.Current() != next {
			t.Errorf("Current() not idempotent: got %q, want %q", n.Current(), next)
		}
	}

	if n.Init() != "eax_0" {
		t.Error("Init() changed after repeated Next() calls")
	}
}
