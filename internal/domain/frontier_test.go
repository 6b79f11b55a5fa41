package domain

import "testing"

func TestPlayableFrontierAroundSingleHex(t *testing.T) {
	built := []Hex{TownCenter}
	frontier := PlayableFrontier(built)

	if len(frontier) != 6 {
		t.Fatalf("frontier size = %d, want 6", len(frontier))
	}
	for _, h := range frontier {
		if !Adjacent(h, TownCenter) {
			t.Errorf("frontier hex %v not adjacent to center", h)
		}
		if h == TownCenter {
			t.Error("built hex must not appear in the frontier")
		}
	}
}

func TestPlayableFrontierExcludesBuilt(t *testing.T) {
	neighbor := Hex{1, -1, 0}
	built := []Hex{TownCenter, neighbor}
	frontier := PlayableFrontier(built)

	for _, h := range frontier {
		if h == TownCenter || h == neighbor {
			t.Fatalf("built hex %v leaked into the frontier", h)
		}
	}

	// Two adjacent built hexes share two neighbors; the distinct unbuilt
	// perimeter is 6 + 6 - 2 shared - 2 built = 8.
	if len(frontier) != 8 {
		t.Errorf("frontier size = %d, want 8", len(frontier))
	}
}

func TestPlayableFrontierDeterministicOrder(t *testing.T) {
	built := []Hex{TownCenter, {1, -1, 0}, {1, 0, -1}}
	first := PlayableFrontier(built)
	for i := 0; i < 10; i++ {
		again := PlayableFrontier(built)
		if len(again) != len(first) {
			t.Fatalf("frontier size changed between runs: %d vs %d", len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("frontier order changed at %d: %v vs %v", j, again[j], first[j])
			}
		}
	}
}

func TestIsOnFrontier(t *testing.T) {
	built := []Hex{TownCenter}
	tests := []struct {
		name string
		hex  Hex
		want bool
	}{
		{name: "adjacent unbuilt", hex: Hex{0, 1, -1}, want: true},
		{name: "built hex", hex: TownCenter, want: false},
		{name: "two steps out", hex: Hex{2, -2, 0}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOnFrontier(tt.hex, built); got != tt.want {
				t.Errorf("IsOnFrontier(%v) = %v, want %v", tt.hex, got, tt.want)
			}
			if got := IsValidNomination(tt.hex, built); got != tt.want {
				t.Errorf("IsValidNomination(%v) = %v, want %v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestBuiltHexNeverOnFrontierEvenWhenStillAdjacent(t *testing.T) {
	// A built hex surrounded by other built hexes stays excluded.
	neighbor := Hex{1, -1, 0}
	built := []Hex{TownCenter, neighbor}
	if IsOnFrontier(neighbor, built) {
		t.Error("built hex reported on frontier")
	}
}
