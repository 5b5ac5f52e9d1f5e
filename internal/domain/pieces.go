package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Cell is a board coordinate, 0-indexed, row increasing downward.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PieceType identifies one of the 21 Blokus polyominoes.
type PieceType string

const (
	// Monomino
	PieceI1 PieceType = "I1"

	// Domino
	PieceI2 PieceType = "I2"

	// Triominoes
	PieceI3 PieceType = "I3"
	PieceL3 PieceType = "L3"

	// Tetrominoes
	PieceI4 PieceType = "I4"
	PieceL4 PieceType = "L4"
	PieceT4 PieceType = "T4"
	PieceO4 PieceType = "O4"
	PieceS4 PieceType = "S4"

	// Pentominoes
	PieceF  PieceType = "F"
	PieceI5 PieceType = "I5"
	PieceL5 PieceType = "L5"
	PieceN  PieceType = "N"
	PieceP  PieceType = "P"
	PieceT5 PieceType = "T5"
	PieceU  PieceType = "U"
	PieceV  PieceType = "V"
	PieceW  PieceType = "W"
	PieceX  PieceType = "X"
	PieceY  PieceType = "Y"
	PieceZ  PieceType = "Z"
)

// AllPieceTypes lists every piece type in catalog order. The catalog is a
// fixed constant of the game; it is never extended at runtime.
var AllPieceTypes = []PieceType{
	PieceI1,
	PieceI2,
	PieceI3, PieceL3,
	PieceI4, PieceL4, PieceT4, PieceO4, PieceS4,
	PieceF, PieceI5, PieceL5, PieceN, PieceP, PieceT5, PieceU, PieceV, PieceW, PieceX, PieceY, PieceZ,
}

// NumPieceTypes is the size of the piece catalog.
const NumPieceTypes = 21

// TotalSquares is the combined square count of a full set of pieces.
const TotalSquares = 89

// baseShapes holds the canonical offsets for each piece, top-left normalized.
var baseShapes = map[PieceType][]Cell{
	PieceI1: {{0, 0}},
	PieceI2: {{0, 0}, {0, 1}},
	PieceI3: {{0, 0}, {0, 1}, {0, 2}},
	PieceL3: {{0, 0}, {0, 1}, {1, 0}},
	PieceI4: {{0, 0}, {0, 1}, {0, 2}, {0, 3}},
	PieceL4: {{0, 0}, {1, 0}, {2, 0}, {2, 1}},
	PieceT4: {{0, 1}, {1, 0}, {1, 1}, {1, 2}},
	PieceO4: {{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	PieceS4: {{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	PieceF:  {{0, 1}, {0, 2}, {1, 0}, {1, 1}, {2, 1}},
	PieceI5: {{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}},
	PieceL5: {{0, 0}, {1, 0}, {2, 0}, {3, 0}, {3, 1}},
	PieceN:  {{0, 0}, {1, 0}, {1, 1}, {2, 1}, {3, 1}},
	PieceP:  {{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}},
	PieceT5: {{0, 0}, {0, 1}, {0, 2}, {1, 1}, {2, 1}},
	PieceU:  {{0, 0}, {0, 2}, {1, 0}, {1, 1}, {1, 2}},
	PieceV:  {{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}},
	PieceW:  {{0, 0}, {1, 0}, {1, 1}, {2, 1}, {2, 2}},
	PieceX:  {{0, 1}, {1, 0}, {1, 1}, {1, 2}, {2, 1}},
	PieceY:  {{0, 1}, {1, 0}, {1, 1}, {2, 1}, {3, 1}},
	PieceZ:  {{0, 0}, {0, 1}, {1, 1}, {2, 1}, {2, 2}},
}

// Orientation is one distinct rotation/reflection of a piece. Offsets are
// normalized (minimum row and column are 0) and sorted lexicographically.
type Orientation struct {
	Piece PieceType
	Index int
	Cells []Cell
}

// Size returns the number of squares covered by the orientation.
func (o Orientation) Size() int {
	return len(o.Cells)
}

// Translate returns the orientation's cells shifted by the given anchor.
func (o Orientation) Translate(row, col int) []Cell {
	out := make([]Cell, len(o.Cells))
	for i, c := range o.Cells {
		out[i] = Cell{Row: c.Row + row, Col: c.Col + col}
	}
	return out
}

// orientations holds every deduplicated orientation per piece type,
// generated once at package init. Indices are stable for a given catalog.
var orientations map[PieceType][]Orientation

func init() {
	orientations = make(map[PieceType][]Orientation, NumPieceTypes)
	for _, pt := range AllPieceTypes {
		orientations[pt] = generateOrientations(pt, baseShapes[pt])
	}
}

// Orientations returns all distinct orientations for a piece type.
// The returned slice is shared; callers must not mutate it.
func Orientations(pt PieceType) []Orientation {
	os, ok := orientations[pt]
	if !ok {
		panic(fmt.Sprintf("unknown piece type %q", pt))
	}
	return os
}

// GetOrientation returns one orientation by index, wrapping like the
// catalog does so any index round-trips. Indices arrive from the wire
// unchecked, so negative values must wrap too rather than blow up.
func GetOrientation(pt PieceType, index int) Orientation {
	os := Orientations(pt)
	i := index % len(os)
	if i < 0 {
		i += len(os)
	}
	return os[i]
}

// OrientationCount returns the number of distinct orientations (1, 2, 4 or 8).
func OrientationCount(pt PieceType) int {
	return len(Orientations(pt))
}

// PieceSize returns the square count of a piece type.
func PieceSize(pt PieceType) int {
	return len(baseShapes[pt])
}

// ValidPieceType reports whether the name is in the 21-member catalog.
func ValidPieceType(pt PieceType) bool {
	_, ok := orientations[pt]
	return ok
}

// generateOrientations applies the 4 rotations of the base shape, then the
// horizontal mirror followed by 4 more rotations, keeping each result only
// if its canonical signature has not been seen. Symmetric pieces collapse
// to fewer orientations (the O4 square and the X pentomino to just one).
func generateOrientations(pt PieceType, base []Cell) []Orientation {
	seen := make(map[string]bool, 8)
	var out []Orientation

	add := func(cells []Cell) {
		sig := signature(cells)
		if seen[sig] {
			return
		}
		seen[sig] = true
		out = append(out, Orientation{Piece: pt, Index: len(out), Cells: cells})
	}

	current := normalize(base)
	for i := 0; i < 4; i++ {
		add(current)
		current = rotate90(current)
	}

	current = mirror(normalize(base))
	for i := 0; i < 4; i++ {
		add(current)
		current = rotate90(current)
	}

	return out
}

// normalize shifts cells so the minimum row and column are both 0 and
// sorts them lexicographically.
func normalize(cells []Cell) []Cell {
	minRow, minCol := cells[0].Row, cells[0].Col
	for _, c := range cells[1:] {
		if c.Row < minRow {
			minRow = c.Row
		}
		if c.Col < minCol {
			minCol = c.Col
		}
	}
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = Cell{Row: c.Row - minRow, Col: c.Col - minCol}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// rotate90 rotates cells 90 degrees clockwise: (r, c) -> (c, -r).
func rotate90(cells []Cell) []Cell {
	rotated := make([]Cell, len(cells))
	for i, c := range cells {
		rotated[i] = Cell{Row: c.Col, Col: -c.Row}
	}
	return normalize(rotated)
}

// mirror reflects cells around the shape's maximum column.
func mirror(cells []Cell) []Cell {
	maxCol := cells[0].Col
	for _, c := range cells[1:] {
		if c.Col > maxCol {
			maxCol = c.Col
		}
	}
	flipped := make([]Cell, len(cells))
	for i, c := range cells {
		flipped[i] = Cell{Row: c.Row, Col: maxCol - c.Col}
	}
	return normalize(flipped)
}

// signature builds the canonical dedup key for a normalized cell list.
func signature(cells []Cell) string {
	var sb strings.Builder
	for _, c := range cells {
		fmt.Fprintf(&sb, "%d,%d;", c.Row, c.Col)
	}
	return sb.String()
}
