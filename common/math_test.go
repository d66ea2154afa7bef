package common

import (
	"math"
	"testing"
)

func TestSmoothstep(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"below", -1, 0},
		{"zero", 0, 0},
		{"half", 0.5, 0.5},
		{"one", 1, 1},
		{"above", 3, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Smoothstep(c.in); math.Abs(got-c.want) > 1e-12 {
				t.Fatalf("Smoothstep(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestExpDecay(t *testing.T) {
	if got := ExpDecay(2, 0, 1); got != 2 {
		t.Fatalf("zero rate should not decay, got %v", got)
	}
	got := ExpDecay(1, math.Ln2, 1)
	if math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("expected half-life decay to 0.5, got %v", got)
	}
}

func TestSnapZero(t *testing.T) {
	if SnapZero(1e-4, 1e-3) != 0 {
		t.Fatalf("expected small value to snap")
	}
	if SnapZero(-0.5, 1e-3) != -0.5 {
		t.Fatalf("expected large value to survive")
	}
}
