package domain

import "fmt"

// Hex is a cube coordinate on the map. Valid coordinates satisfy
// X+Y+Z == 0. JSON uses the MarshalText "x,y,z" form throughout, map
// keys included.
type Hex struct {
	X int32
	Y int32
	Z int32
}

// TownCenter is the pre-built origin tile.
var TownCenter = Hex{0, 0, 0}

// hexDirections lists the six neighbor offsets in a fixed clockwise order.
// Frontier enumeration depends on this order staying stable.
var hexDirections = [6]Hex{
	{1, -1, 0},
	{1, 0, -1},
	{0, 1, -1},
	{-1, 1, 0},
	{-1, 0, 1},
	{0, -1, 1},
}

// IsValid reports whether the coordinate lies on the cube plane.
func (h Hex) IsValid() bool {
	return h.X+h.Y+h.Z == 0
}

// Neighbors returns the six adjacent hexes in direction order.
func (h Hex) Neighbors() [6]Hex {
	var out [6]Hex
	for i, d := range hexDirections {
		out[i] = Hex{h.X + d.X, h.Y + d.Y, h.Z + d.Z}
	}
	return out
}

// Distance returns the cube distance between two hexes.
func Distance(a, b Hex) int32 {
	dx := abs32(a.X - b.X)
	dy := abs32(a.Y - b.Y)
	dz := abs32(a.Z - b.Z)
	return (dx + dy + dz) / 2
}

// Adjacent reports whether two hexes share an edge.
func Adjacent(a, b Hex) bool {
	return Distance(a, b) == 1
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func (h Hex) String() string {
	return fmt.Sprintf("(%d,%d,%d)", h.X, h.Y, h.Z)
}

// MarshalText encodes the hex as "x,y,z" so it can key JSON maps.
func (h Hex) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d,%d,%d", h.X, h.Y, h.Z)), nil
}

// UnmarshalText parses the "x,y,z" form produced by MarshalText.
func (h *Hex) UnmarshalText(text []byte) error {
	var x, y, z int32
	if _, err := fmt.Sscanf(string(text), "%d,%d,%d", &x, &y, &z); err != nil {
		return fmt.Errorf("malformed hex %q: %w", string(text), err)
	}
	h.X, h.Y, h.Z = x, y, z
	return nil
}
