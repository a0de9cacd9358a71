package utility

import (
	"math/rand/v2"
	"regexp"
	"testing"
)

func TestBetween_Bounds(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := Between(r, 0, 4)
		if v < 0 || v > 4 {
			t.Fatalf("Between(0, 4) = %d, out of range", v)
		}
		seen[v] = true
	}
	// Both ends are inclusive
	if !seen[0] || !seen[4] {
		t.Errorf("expected both bounds to occur, saw %v", seen)
	}
}

func TestBetween_EmptyRange(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 1))
	if v := Between(r, 5, 5); v != 5 {
		t.Errorf("Between(5, 5) = %d, want 5", v)
	}
	if v := Between(r, 9, 3); v != 9 {
		t.Errorf("Between(9, 3) = %d, want 9", v)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(0, 0, 3, 4); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := Distance(10, 10, 10, 10); d != 0 {
		t.Errorf("Distance = %v, want 0", d)
	}
}

func TestColorHex(t *testing.T) {
	hexPattern := regexp.MustCompile(`^#[0-9a-f]{6}$`)

	cases := map[uint32]string{
		0xff0000: "#ff0000",
		0x00ff00: "#00ff00",
		0x7744aa: "#7744aa",
		0x000000: "#000000",
	}
	for in, want := range cases {
		got := ColorHex(in)
		if got != want {
			t.Errorf("ColorHex(%#x) = %q, want %q", in, got, want)
		}
		if !hexPattern.MatchString(got) {
			t.Errorf("ColorHex(%#x) = %q, want matching #rrggbb pattern", in, got)
		}
	}
}
