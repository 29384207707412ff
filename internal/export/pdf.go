package export

import (
	"fmt"
	"image/color"
	"time"

	"PixelBoard/internal/render"
	"PixelBoard/internal/state"
	"PixelBoard/internal/viewport"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin = 15.0  // mm
	gridSide   = 180.0 // mm, fits A4 portrait inside the margins
)

// pdfSurface draws cells as filled rectangles on a PDF page, offset by the
// page margin.
type pdfSurface struct {
	pdf *gofpdf.Fpdf
}

func (s pdfSurface) Clear() {}

func (s pdfSurface) FillRect(x, y, w, h float64, c color.Color) {
	r, g, b, _ := c.RGBA()
	s.pdf.SetFillColor(int(r>>8), int(g>>8), int(b>>8))
	s.pdf.Rect(pageMargin+x, pageMargin+y, w, h, "F")
}

// PDF writes snap to path as a single A4 page showing the whole grid.
func PDF(path string, snap state.Snapshot, clientID string) error {
	if len(snap) != state.CellCount {
		return fmt.Errorf("cannot export snapshot of %d cells", len(snap))
	}

	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle("PixelBoard snapshot", true)
	p.SetSubject(fmt.Sprintf("client %s at %s", clientID, time.Now().UTC().Format(time.RFC3339)), true)
	p.AddPage()

	buf := state.NewBuffer()
	buf.Replace(snap)
	render.Redraw(pdfSurface{pdf: p}, buf, viewport.New(gridSide, state.GridSize))

	p.SetDrawColor(0, 0, 0)
	p.SetLineWidth(0.2)
	p.Rect(pageMargin, pageMargin, gridSide, gridSide, "D")

	return p.OutputFileAndClose(path)
}
