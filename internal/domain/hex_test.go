package domain

import "testing"

func TestHexNeighbors(t *testing.T) {
	center := Hex{0, 0, 0}
	neighbors := center.Neighbors()
	if len(neighbors) != 6 {
		t.Fatalf("expected 6 neighbors, got %d", len(neighbors))
	}

	seen := make(map[Hex]bool)
	for _, n := range neighbors {
		if !n.IsValid() {
			t.Errorf("neighbor %v violates x+y+z=0", n)
		}
		if Distance(center, n) != 1 {
			t.Errorf("neighbor %v not at distance 1", n)
		}
		if seen[n] {
			t.Errorf("duplicate neighbor %v", n)
		}
		seen[n] = true
	}
}

func TestHexDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Hex
		want int32
	}{
		{name: "same hex", a: Hex{0, 0, 0}, b: Hex{0, 0, 0}, want: 0},
		{name: "adjacent", a: Hex{0, 0, 0}, b: Hex{1, -1, 0}, want: 1},
		{name: "two steps", a: Hex{0, 0, 0}, b: Hex{2, -2, 0}, want: 2},
		{name: "diagonal", a: Hex{0, 0, 0}, b: Hex{2, -1, -1}, want: 2},
		{name: "offset pair", a: Hex{1, 0, -1}, b: Hex{-1, 1, 0}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%v,%v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := Distance(tt.b, tt.a); got != tt.want {
				t.Errorf("Distance(%v,%v) = %d, want %d", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestHexAdjacent(t *testing.T) {
	a := Hex{0, 0, 0}
	if !Adjacent(a, Hex{0, 1, -1}) {
		t.Error("expected direct neighbors to be adjacent")
	}
	if Adjacent(a, Hex{2, -2, 0}) {
		t.Error("expected two-step hexes not to be adjacent")
	}
	if Adjacent(a, a) {
		t.Error("a hex is not adjacent to itself")
	}
}

func TestHexTextRoundTrip(t *testing.T) {
	tests := []Hex{
		{0, 0, 0},
		{1, -1, 0},
		{-3, 1, 2},
		{12, -7, -5},
	}
	for _, h := range tests {
		text, err := h.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error: %v", h, err)
		}
		var got Hex
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s) error: %v", text, err)
		}
		if got != h {
			t.Errorf("round trip = %v, want %v", got, h)
		}
	}

	var h Hex
	if err := h.UnmarshalText([]byte("not-a-hex")); err == nil {
		t.Error("expected error for malformed text")
	}
}
