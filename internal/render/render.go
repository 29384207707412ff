// Package render draws the visible part of the grid onto a surface.
package render

import (
	"image/color"

	"PixelBoard/internal/state"
	"PixelBoard/internal/viewport"
)

// Surface is anything that can fill axis-aligned rectangles.
type Surface interface {
	Clear()
	FillRect(x, y, w, h float64, c color.Color)
}

// Presenter is implemented by surfaces that need an explicit flip once a
// frame is complete.
type Presenter interface {
	Present()
}

// Redraw clears s and paints every visible cell of buf. An empty buffer
// leaves the surface cleared.
func Redraw(s Surface, buf *state.Buffer, t *viewport.Transform) {
	s.Clear()

	if buf.Loaded() {
		cell := t.CellSize()
		col0, row0, col1, row1 := t.VisibleCells()
		for row := row0; row < row1; row++ {
			for col := col0; col < col1; col++ {
				i, _ := state.IndexOf(col, row)
				x, y := t.CellToScreen(col, row)
				s.FillRect(x, y, cell, cell, buf.At(i).Color())
			}
		}
	}

	if p, ok := s.(Presenter); ok {
		p.Present()
	}
}
