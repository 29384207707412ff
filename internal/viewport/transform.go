// Package viewport maps between screen pixels and grid cells under zoom
// and pan, and keeps both inside their bounds.
package viewport

import "math"

const (
	// MinZoom renders the whole grid inside the viewport.
	MinZoom = 1.0
	// MaxZoom is ten times MinZoom.
	MaxZoom = 10.0
)

// State is a read-only copy of the transform parameters.
type State struct {
	Zoom float64
	PanX float64
	PanY float64
}

// Transform owns the viewport state. The zero value is not usable; use New.
type Transform struct {
	size     float64 // viewport side, px
	gridSize int
	baseCell float64 // cell side at MinZoom, px

	zoom       float64
	panX, panY float64
}

// New returns a transform for a square viewport of sizePx pixels showing a
// gridSize x gridSize grid, fully zoomed out.
func New(sizePx float64, gridSize int) *Transform {
	return &Transform{
		size:     sizePx,
		gridSize: gridSize,
		baseCell: sizePx / float64(gridSize),
		zoom:     MinZoom,
	}
}

// InitialSize is the side of the square surface at startup:
// min(available - margin, limit), never smaller than one pixel per cell.
func InitialSize(available, margin, limit float64, gridSize int) float64 {
	size := math.Min(available-margin, limit)
	if size < float64(gridSize) {
		size = float64(gridSize)
	}
	return size
}

func (t *Transform) State() State {
	return State{Zoom: t.zoom, PanX: t.panX, PanY: t.panY}
}

// Size is the viewport side in pixels.
func (t *Transform) Size() float64 { return t.size }

// CellSize is the rendered side of one cell at the current zoom.
func (t *Transform) CellSize() float64 {
	return t.baseCell * t.zoom
}

// ScreenToCell maps a screen point to the cell under it. The result is not
// range-checked.
func (t *Transform) ScreenToCell(x, y float64) (col, row int) {
	cell := t.CellSize()
	col = int(math.Floor((x + t.panX) / cell))
	row = int(math.Floor((y + t.panY) / cell))
	return col, row
}

// CellToScreen returns the top-left screen position of a cell.
func (t *Transform) CellToScreen(col, row int) (x, y float64) {
	cell := t.CellSize()
	return float64(col)*cell - t.panX, float64(row)*cell - t.panY
}

// VisibleCells returns the half-open cell range [col0, col1) x [row0, row1)
// that intersects the viewport, clipped to the grid.
func (t *Transform) VisibleCells() (col0, row0, col1, row1 int) {
	cell := t.CellSize()
	col0 = clampInt(int(math.Floor(t.panX/cell)), 0, t.gridSize)
	row0 = clampInt(int(math.Floor(t.panY/cell)), 0, t.gridSize)
	col1 = clampInt(int(math.Ceil((t.panX+t.size)/cell)), 0, t.gridSize)
	row1 = clampInt(int(math.Ceil((t.panY+t.size)/cell)), 0, t.gridSize)
	return col0, row0, col1, row1
}

// ZoomAt scales the zoom by factor while keeping the grid point under
// (anchorX, anchorY) in place. Zoom is clamped first, then pan. It reports
// whether the state changed. Non-positive or non-finite factors are ignored.
func (t *Transform) ZoomAt(factor, anchorX, anchorY float64) bool {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return false
	}
	before := t.State()

	old := t.zoom
	t.zoom = clamp(t.zoom*factor, MinZoom, MaxZoom)

	ratio := t.zoom / old
	t.panX = (t.panX+anchorX)*ratio - anchorX
	t.panY = (t.panY+anchorY)*ratio - anchorY
	t.clampPan()

	return t.State() != before
}

// PanBy moves the view by a pointer delta: dragging right reveals content
// on the left, so deltas are subtracted. Saturates at the grid edges.
func (t *Transform) PanBy(dx, dy float64) bool {
	before := t.State()
	t.panX -= dx
	t.panY -= dy
	t.clampPan()
	return t.State() != before
}

func (t *Transform) maxPan() float64 {
	return math.Max(0, t.CellSize()*float64(t.gridSize)-t.size)
}

func (t *Transform) clampPan() {
	limit := t.maxPan()
	t.panX = clamp(t.panX, 0, limit)
	t.panY = clamp(t.panY, 0, limit)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
