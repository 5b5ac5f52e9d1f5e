// Package render produces SVG snapshots of finished boards for storage
// and replay views.
package render

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"blokus/internal/domain"
)

const (
	cellPx   = 24
	marginPx = 16
)

const (
	boardStyle = "fill:#f5f5f4;stroke:#78716c;stroke-width:2"
	gridStyle  = "stroke:#d6d3d1;stroke-width:1"
	startStyle = "fill:none;stroke:#78716c;stroke-width:2;stroke-dasharray:4"
)

// fallbackColors are used for seats beyond the provided palette.
var fallbackColors = []string{"#3b82f6", "#22c55e", "#eab308", "#ef4444"}

// BoardSVG renders the board as a standalone SVG document. colors maps
// seat index to fill color; missing entries fall back to the default
// palette.
func BoardSVG(b *domain.Board, colors []string) []byte {
	n := b.Size()
	side := n*cellPx + 2*marginPx

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(side, side)
	canvas.Rect(marginPx, marginPx, n*cellPx, n*cellPx, boardStyle)
	canvas.Grid(marginPx, marginPx, n*cellPx, n*cellPx, cellPx, gridStyle)

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			seat, ok := b.Owner(row, col)
			if !ok {
				continue
			}
			canvas.Square(marginPx+col*cellPx, marginPx+row*cellPx, cellPx, seatStyle(seat, colors))
		}
	}

	// Outline unclaimed starting corners so an empty board still shows
	// where play begins.
	for _, c := range b.StartingCorners() {
		if b.IsEmpty(c.Row, c.Col) {
			canvas.Square(marginPx+c.Col*cellPx, marginPx+c.Row*cellPx, cellPx, startStyle)
		}
	}

	canvas.End()
	return buf.Bytes()
}

func seatStyle(seat int, colors []string) string {
	color := fallbackColors[seat%len(fallbackColors)]
	if seat < len(colors) && colors[seat] != "" {
		color = colors[seat]
	}
	return fmt.Sprintf("fill:%s;stroke:#44403c;stroke-width:1", color)
}
