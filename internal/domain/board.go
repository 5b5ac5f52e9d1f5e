package domain

import (
	"fmt"
	"strings"
)

// StandardBoardSize is the classic 4-player board dimension.
const StandardBoardSize = 20

// DuoBoardSize is the compact 2-player board dimension.
const DuoBoardSize = 14

// Board holds cell ownership for a size x size grid. Cells hold 0 for
// empty or the owning seat index + 1. Once owned, a cell never changes.
type Board struct {
	size            int
	grid            []int8
	startingCorners []Cell
}

// StartingCornersForSize returns the default starting-cell mapping for a
// board size: the four board corners clockwise from top-left, except the
// 14x14 Duo board which uses the two center-offset cells (4,4) and (9,9).
func StartingCornersForSize(size int) []Cell {
	if size == DuoBoardSize {
		return []Cell{{4, 4}, {9, 9}}
	}
	return []Cell{
		{0, 0},
		{0, size - 1},
		{size - 1, size - 1},
		{size - 1, 0},
	}
}

// NewBoard creates an empty board. Starting corners are a configuration
// input, one per seat; pass nil to use the defaults for the size.
func NewBoard(size int, startingCorners []Cell) *Board {
	if size <= 0 {
		panic(fmt.Sprintf("invalid board size %d", size))
	}
	if startingCorners == nil {
		startingCorners = StartingCornersForSize(size)
	}
	return &Board{
		size:            size,
		grid:            make([]int8, size*size),
		startingCorners: startingCorners,
	}
}

// Size returns the board dimension.
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether the cell lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// IsEmpty reports whether the cell is on the board and unowned.
func (b *Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.grid[row*b.size+col] == 0
}

// Owner returns the seat owning a cell. ok is false for empty or
// out-of-bounds cells.
func (b *Board) Owner(row, col int) (seat int, ok bool) {
	if !b.InBounds(row, col) {
		return 0, false
	}
	v := b.grid[row*b.size+col]
	if v == 0 {
		return 0, false
	}
	return int(v) - 1, true
}

// StartingCorner returns the configured starting cell for a seat.
func (b *Board) StartingCorner(seat int) Cell {
	if seat < 0 || seat >= len(b.startingCorners) {
		panic(fmt.Sprintf("seat %d has no starting corner (board has %d)", seat, len(b.startingCorners)))
	}
	return b.startingCorners[seat]
}

// StartingCorners returns the full seat-to-starting-cell mapping.
func (b *Board) StartingCorners() []Cell {
	out := make([]Cell, len(b.startingCorners))
	copy(out, b.startingCorners)
	return out
}

// PlayerCells returns the set of cells owned by a seat.
func (b *Board) PlayerCells(seat int) map[Cell]bool {
	cells := make(map[Cell]bool)
	target := int8(seat + 1)
	for i, v := range b.grid {
		if v == target {
			cells[Cell{Row: i / b.size, Col: i % b.size}] = true
		}
	}
	return cells
}

// CellCount returns how many cells a seat owns.
func (b *Board) CellCount(seat int) int {
	n := 0
	target := int8(seat + 1)
	for _, v := range b.grid {
		if v == target {
			n++
		}
	}
	return n
}

// OccupiedCount returns the total number of owned cells.
func (b *Board) OccupiedCount() int {
	n := 0
	for _, v := range b.grid {
		if v != 0 {
			n++
		}
	}
	return n
}

var diagonalSteps = []Cell{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
var edgeSteps = []Cell{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// CornerCandidates returns the cells where the seat may legally connect a
// new piece: in-bounds empty diagonal neighbors of owned cells that are
// not edge-adjacent to any cell the seat owns. A seat owning no cells yet
// gets the singleton set holding its starting corner.
func (b *Board) CornerCandidates(seat int) map[Cell]bool {
	owned := b.PlayerCells(seat)
	if len(owned) == 0 {
		return map[Cell]bool{b.StartingCorner(seat): true}
	}

	corners := make(map[Cell]bool)
	for cell := range owned {
		for _, d := range diagonalSteps {
			nr, nc := cell.Row+d.Row, cell.Col+d.Col
			if !b.IsEmpty(nr, nc) {
				continue
			}
			edgeAdjacent := false
			for _, e := range edgeSteps {
				if owned[Cell{Row: nr + e.Row, Col: nc + e.Col}] {
					edgeAdjacent = true
					break
				}
			}
			if !edgeAdjacent {
				corners[Cell{Row: nr, Col: nc}] = true
			}
		}
	}
	return corners
}

// EdgeAdjacent returns all in-bounds cells edge-adjacent to at least one
// cell the seat owns, excluding the seat's own cells.
func (b *Board) EdgeAdjacent(seat int) map[Cell]bool {
	owned := b.PlayerCells(seat)
	edges := make(map[Cell]bool)
	for cell := range owned {
		for _, e := range edgeSteps {
			n := Cell{Row: cell.Row + e.Row, Col: cell.Col + e.Col}
			if b.InBounds(n.Row, n.Col) && !owned[n] {
				edges[n] = true
			}
		}
	}
	return edges
}

// IsValidPlacement checks the placement rules in order, short-circuiting
// on the first failure:
//  1. every translated cell is in-bounds and empty,
//  2. on the seat's first move the translated cells cover its starting
//     corner (rules 3-4 are bypassed),
//  3. no translated cell is edge-adjacent to the seat's own cells,
//  4. at least one translated cell is a corner candidate of the seat.
func (b *Board) IsValidPlacement(o Orientation, row, col, seat int, firstMove bool) bool {
	cells := o.Translate(row, col)

	for _, c := range cells {
		if !b.IsEmpty(c.Row, c.Col) {
			return false
		}
	}

	if firstMove || b.CellCount(seat) == 0 {
		start := b.StartingCorner(seat)
		for _, c := range cells {
			if c == start {
				return true
			}
		}
		return false
	}

	edges := b.EdgeAdjacent(seat)
	for _, c := range cells {
		if edges[c] {
			return false
		}
	}

	corners := b.CornerCandidates(seat)
	for _, c := range cells {
		if corners[c] {
			return true
		}
	}
	return false
}

// Place marks every translated cell as owned by the seat. Callers must
// have validated the placement first; placing onto an occupied or
// out-of-bounds cell is a contract violation and panics.
func (b *Board) Place(o Orientation, row, col, seat int) {
	cells := o.Translate(row, col)
	for _, c := range cells {
		if !b.IsEmpty(c.Row, c.Col) {
			panic(fmt.Sprintf("placing %s orientation %d at (%d,%d) onto non-empty cell (%d,%d)",
				o.Piece, o.Index, row, col, c.Row, c.Col))
		}
	}
	for _, c := range cells {
		b.grid[c.Row*b.size+c.Col] = int8(seat + 1)
	}
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	grid := make([]int8, len(b.grid))
	copy(grid, b.grid)
	corners := make([]Cell, len(b.startingCorners))
	copy(corners, b.startingCorners)
	return &Board{size: b.size, grid: grid, startingCorners: corners}
}

// Grid returns the ownership grid as rows of 0 (empty) or seat index + 1.
func (b *Board) Grid() [][]int8 {
	rows := make([][]int8, b.size)
	for r := 0; r < b.size; r++ {
		rows[r] = append([]int8(nil), b.grid[r*b.size:(r+1)*b.size]...)
	}
	return rows
}

// SetCell writes one cell directly. Used only when rebuilding a board
// from a snapshot; panics on out-of-bounds.
func (b *Board) SetCell(row, col int, value int8) {
	if !b.InBounds(row, col) {
		panic(fmt.Sprintf("cell (%d,%d) out of bounds for size %d", row, col, b.size))
	}
	b.grid[row*b.size+col] = value
}

// String renders the board for debugging, '.' for empty cells and the
// seat digit for owned ones.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if v := b.grid[r*b.size+c]; v == 0 {
				sb.WriteByte('.')
			} else {
				fmt.Fprintf(&sb, "%d", v-1)
			}
			if c < b.size-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
