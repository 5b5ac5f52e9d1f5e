package domain

import (
	"testing"
)

func TestOrientationCounts(t *testing.T) {
	tests := []struct {
		piece PieceType
		want  int
	}{
		{PieceI1, 1},
		{PieceI2, 2},
		{PieceI3, 2},
		{PieceL3, 4},
		{PieceI4, 2},
		{PieceL4, 8},
		{PieceT4, 4},
		{PieceO4, 1},
		{PieceS4, 4},
		{PieceF, 8},
		{PieceI5, 2},
		{PieceL5, 8},
		{PieceN, 8},
		{PieceP, 8},
		{PieceT5, 4},
		{PieceU, 4},
		{PieceV, 4},
		{PieceW, 4},
		{PieceX, 1},
		{PieceY, 8},
		{PieceZ, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.piece), func(t *testing.T) {
			if got := OrientationCount(tt.piece); got != tt.want {
				t.Errorf("OrientationCount(%s) = %d, want %d", tt.piece, got, tt.want)
			}
		})
	}
}

func TestRotationClosure(t *testing.T) {
	for _, pt := range AllPieceTypes {
		base := normalize(baseShapes[pt])

		rotated := base
		for i := 0; i < 4; i++ {
			rotated = rotate90(rotated)
		}
		if signature(rotated) != signature(base) {
			t.Errorf("%s: four rotations did not return to the original shape", pt)
		}

		mirrored := mirror(mirror(base))
		if signature(mirrored) != signature(base) {
			t.Errorf("%s: double mirror did not return to the original shape", pt)
		}
	}
}

func TestOrientationsNormalizedAndSized(t *testing.T) {
	for _, pt := range AllPieceTypes {
		size := PieceSize(pt)
		seen := make(map[string]bool)

		for _, o := range Orientations(pt) {
			if o.Size() != size {
				t.Errorf("%s orientation %d has %d cells, want %d", pt, o.Index, o.Size(), size)
			}

			minRow, minCol := o.Cells[0].Row, o.Cells[0].Col
			unique := make(map[Cell]bool)
			for _, c := range o.Cells {
				if c.Row < minRow {
					minRow = c.Row
				}
				if c.Col < minCol {
					minCol = c.Col
				}
				unique[c] = true
			}
			if minRow != 0 || minCol != 0 {
				t.Errorf("%s orientation %d not normalized: min (%d,%d)", pt, o.Index, minRow, minCol)
			}
			if len(unique) != size {
				t.Errorf("%s orientation %d has duplicate cells", pt, o.Index)
			}

			sig := signature(o.Cells)
			if seen[sig] {
				t.Errorf("%s orientation %d duplicates an earlier orientation", pt, o.Index)
			}
			seen[sig] = true
		}

		count := OrientationCount(pt)
		if count != 1 && count != 2 && count != 4 && count != 8 {
			t.Errorf("%s has %d orientations, want one of 1, 2, 4, 8", pt, count)
		}
	}
}

func TestTranslate(t *testing.T) {
	o := GetOrientation(PieceL3, 0)
	cells := o.Translate(3, 7)
	if len(cells) != 3 {
		t.Fatalf("translated cell count = %d, want 3", len(cells))
	}
	for i, c := range cells {
		if c.Row != o.Cells[i].Row+3 || c.Col != o.Cells[i].Col+7 {
			t.Errorf("cell %d = %v, want offset of %v by (3,7)", i, c, o.Cells[i])
		}
	}
}

func TestTotalSquares(t *testing.T) {
	total := 0
	for _, pt := range AllPieceTypes {
		total += PieceSize(pt)
	}
	if total != TotalSquares {
		t.Fatalf("catalog squares = %d, want %d", total, TotalSquares)
	}
	if len(AllPieceTypes) != NumPieceTypes {
		t.Fatalf("catalog size = %d, want %d", len(AllPieceTypes), NumPieceTypes)
	}
}

func TestGetOrientationWraps(t *testing.T) {
	count := OrientationCount(PieceT4)
	direct := GetOrientation(PieceT4, 1)
	wrapped := GetOrientation(PieceT4, 1+count)
	if signature(direct.Cells) != signature(wrapped.Cells) {
		t.Errorf("orientation index did not wrap modulo %d", count)
	}

	last := GetOrientation(PieceT4, count-1)
	negative := GetOrientation(PieceT4, -1)
	if signature(last.Cells) != signature(negative.Cells) {
		t.Errorf("negative orientation index did not wrap to %d", count-1)
	}
	for _, pt := range AllPieceTypes {
		GetOrientation(pt, -1)
		GetOrientation(pt, -OrientationCount(pt))
	}
}
