package arch_test

import (
	"testing"

	"github.com/barfgo/reil/arch"
)

func TestX86_64RegisterSizes(t *testing.T) {
	d := arch.NewX86_64()

	cases := map[string]uint{"rax": 64, "rbx": 64, "r8": 64, "r15": 64}
	for name, want := range cases {
		got, ok := d.RegisterSize(name)
		if !ok {
			t.Fatalf("RegisterSize(%q) not found", name)
		}
		if got != want {
			t.Errorf("RegisterSize(%q) = %d, want %d", name, got, want)
		}
	}

	if _, ok := d.RegisterSize("eax"); ok {
		t.Error("eax is an alias, not a base register; RegisterSize should report not-found")
	}
}

func TestX86_64Access(t *testing.T) {
	d := arch.NewX86_64()

	access, ok := d.Access("ax")
	if !ok {
		t.Fatal("Access(ax) not found")
	}
	if access.Base != "rax" || access.Shift != 0 {
		t.Errorf("Access(ax) = %+v, want base=rax shift=0", access)
	}

	access, ok = d.Access("ah")
	if !ok {
		t.Fatal("Access(ah) not found")
	}
	if access.Base != "rax" || access.Shift != 8 {
		t.Errorf("Access(ah) = %+v, want base=rax shift=8", access)
	}

	if _, ok := d.Access("rax"); ok {
		t.Error("rax is a base register; Access should report no alias mapping")
	}

	if _, ok := d.Access("nonexistent"); ok {
		t.Error("Access should report not-found for unknown names")
	}
}

func TestX86_64AddressSize(t *testing.T) {
	d := arch.NewX86_64()
	if d.AddressSize() != 64 {
		t.Errorf("AddressSize() = %d, want 64", d.AddressSize())
	}
}
