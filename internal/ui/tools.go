package ui

import (
	"image/color"

	"PixelBoard/internal/board"
	"PixelBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var (
	swatchBorder   = color.Gray{Y: 150}
	swatchSelected = color.NRGBA{R: 0x33, G: 0x99, B: 0xFF, A: 0xFF}
)

// colorSwatch is a tappable palette entry.
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(*colorSwatch)

	border *canvas.Rectangle
}

func newColorSwatch(c color.Color, tapped func(*colorSwatch)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.border = canvas.NewRectangle(color.Transparent)
	s.border.StrokeColor = swatchBorder
	s.border.StrokeWidth = 1
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))
	return widget.NewSimpleRenderer(container.NewStack(rect, s.border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s)
	}
}

func (s *colorSwatch) setSelected(selected bool) {
	if selected {
		s.border.StrokeColor = swatchSelected
		s.border.StrokeWidth = 3
	} else {
		s.border.StrokeColor = swatchBorder
		s.border.StrokeWidth = 1
	}
	s.border.Refresh()
}

// NewToolbar builds the palette row. Tapping a swatch selects its symbol on
// the session; onExport, if set, backs the export button.
func NewToolbar(session *board.Session, onExport func()) fyne.CanvasObject {
	var swatches []*colorSwatch
	onColorTapped := func(tapped *colorSwatch) {
		sym, ok := state.SymbolForColor(tapped.Color)
		if !ok || !session.SelectColor(sym) {
			return
		}
		for _, s := range swatches {
			s.setSelected(s == tapped)
		}
	}

	colorBox := container.NewHBox()
	current := session.SelectedColor()
	for _, sym := range state.Symbols() {
		s := newColorSwatch(sym.Color(), onColorTapped)
		s.setSelected(sym == current)
		swatches = append(swatches, s)
		colorBox.Add(s)
	}

	items := []fyne.CanvasObject{
		widget.NewLabel("Color:"),
		colorBox,
		layout.NewSpacer(),
	}
	if onExport != nil {
		items = append(items, widget.NewButtonWithIcon("Export PDF", theme.DocumentSaveIcon(), onExport))
	}
	return container.NewHBox(items...)
}
