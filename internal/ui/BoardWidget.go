package ui

import (
	"image"

	"PixelBoard/internal/board"
	"PixelBoard/internal/gesture"
	"PixelBoard/internal/render"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// BoardWidget shows the rendered grid and forwards raw input to the
// session. It holds no grid or viewport state of its own.
type BoardWidget struct {
	widget.BaseWidget

	session  *board.Session
	surface  *render.RasterSurface
	image    *canvas.Image
	size     float32
	touching bool
	pressed  bool
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ mobile.Touchable = (*BoardWidget)(nil)

// NewBoardWidget returns a square board of side size.
func NewBoardWidget(size float32) *BoardWidget {
	b := &BoardWidget{size: size}
	b.surface = render.NewRasterSurface(int(size), b.present)

	b.image = canvas.NewImageFromImage(b.surface.Image())
	b.image.FillMode = canvas.ImageFillStretch
	b.image.ScaleMode = canvas.ImageScalePixels
	b.image.SetMinSize(fyne.NewSize(size, size))

	b.ExtendBaseWidget(b)
	return b
}

// Surface is the render target the session draws into.
func (b *BoardWidget) Surface() render.Surface {
	return b.surface
}

// Bind connects the widget's input to a session.
func (b *BoardWidget) Bind(s *board.Session) {
	b.session = s
}

// present runs on whichever goroutine finished the frame.
func (b *BoardWidget) present(img *image.RGBA) {
	fyne.Do(func() {
		b.image.Image = img
		b.image.Refresh()
	})
}

func (b *BoardWidget) pointer(typ gesture.EventType, src gesture.Source, pos fyne.Position) {
	if b.session == nil {
		return
	}
	ev := gesture.Event{Type: typ, Source: src}
	if typ != gesture.Up || src == gesture.Mouse {
		ev.Points = []gesture.Point{{X: float64(pos.X), Y: float64(pos.Y)}}
	}
	b.session.HandlePointer(ev)
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.pressed = true
	b.pointer(gesture.Down, gesture.Mouse, e.Position)
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !b.pressed {
		return
	}
	b.pressed = false
	b.pointer(gesture.Up, gesture.Mouse, e.Position)
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if b.pressed {
		b.pointer(gesture.Move, gesture.Mouse, e.Position)
	}
}

// MouseOut cancels a press; leaving the board is never a paint.
func (b *BoardWidget) MouseOut() {
	if !b.pressed {
		return
	}
	b.pressed = false
	b.pointer(gesture.Cancel, gesture.Mouse, fyne.Position{})
}

// Dragged can arrive alongside MouseMoved for the same motion. Positions
// are absolute, so a repeated point yields a zero delta.
func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	switch {
	case b.touching:
		b.pointer(gesture.Move, gesture.Touch, e.Position)
	case b.pressed:
		b.pointer(gesture.Move, gesture.Mouse, e.Position)
	}
}

func (b *BoardWidget) DragEnd() {}

func (b *BoardWidget) TouchDown(e *mobile.TouchEvent) {
	b.touching = true
	b.pointer(gesture.Down, gesture.Touch, e.Position)
}

func (b *BoardWidget) TouchUp(e *mobile.TouchEvent) {
	if !b.touching {
		return
	}
	b.touching = false
	b.pointer(gesture.Move, gesture.Touch, e.Position)
	b.pointer(gesture.Up, gesture.Touch, e.Position)
}

func (b *BoardWidget) TouchCancel(*mobile.TouchEvent) {
	b.touching = false
	b.pointer(gesture.Cancel, gesture.Touch, fyne.Position{})
}

// Scrolled zooms at the cursor. Fyne reports wheel-up as positive DY.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if b.session == nil {
		return
	}
	b.session.HandleWheel(-float64(e.Scrolled.DY), float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) MinSize() fyne.Size {
	return fyne.NewSize(b.size, b.size)
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.image)
}
