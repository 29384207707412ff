package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Window is the application shell: the board, a status line that doubles as
// the loading indicator, and room for a toolbar.
type Window struct {
	Board *BoardWidget

	app    fyne.App
	window fyne.Window
	status *widget.Label
}

// NewWindow creates the fyne app and a window holding a hidden board of
// side size. The board is revealed by ShowBoard.
func NewWindow(title string, size float32) *Window {
	a := app.New()
	w := &Window{
		app:    a,
		window: a.NewWindow(title),
		Board:  NewBoardWidget(size),
		status: widget.NewLabel("Connecting..."),
	}
	w.status.Alignment = fyne.TextAlignCenter
	w.Board.Hide()
	return w
}

// SetStatus may be called from any goroutine. Empty text hides the line.
func (w *Window) SetStatus(text string) {
	fyne.Do(func() {
		w.status.SetText(text)
		if text == "" {
			w.status.Hide()
		} else {
			w.status.Show()
		}
	})
}

// ShowBoard reveals the canvas once there is something to draw.
func (w *Window) ShowBoard() {
	fyne.Do(func() {
		w.Board.Show()
	})
}

// RunApp lays out the window and blocks until it is closed.
func RunApp(w *Window, toolbar fyne.CanvasObject) {
	content := container.NewBorder(toolbar, nil, nil, nil,
		container.NewVBox(w.status, container.NewCenter(w.Board)))
	w.window.SetContent(content)

	size := w.Board.MinSize()
	w.window.Resize(fyne.NewSize(size.Width+50, size.Height+120))
	w.window.ShowAndRun()
}
