// Package board holds the session object that owns the grid buffer, the
// viewport, the gesture recognizer and the selected color, and routes
// events between them.
package board

import (
	"errors"
	"sync"

	"PixelBoard/internal/gesture"
	"PixelBoard/internal/net"
	"PixelBoard/internal/render"
	"PixelBoard/internal/state"
	"PixelBoard/internal/viewport"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Status texts shown to the user.
const (
	StatusConnecting = "Connecting..."
	StatusLoading    = "Loading canvas..."
	StatusError      = "Error connecting to server. Please try again later."
	StatusClosed     = "Connection closed. Restart to reconnect."
)

// Sender delivers paint intents to the authority.
type Sender interface {
	SendPaintIntent(index int, color state.Symbol) error
}

// Options configures a Session.
type Options struct {
	Size    float64 // viewport side in pixels
	Surface render.Surface
	Clock   clockwork.Clock

	// OnStatus receives user-visible status text. An empty string means
	// there is nothing to show.
	OnStatus func(string)
	// OnLoaded fires once, when the first snapshot arrives.
	OnLoaded func()
}

// Session is the single owner of all client-side state. Every entry point
// takes the session lock, so handlers run to completion one at a time.
type Session struct {
	mu sync.Mutex

	buffer   *state.Buffer
	view     *viewport.Transform
	gestures *gesture.Recognizer
	selected state.Symbol
	conn     net.ConnState
	sender   Sender

	surface  render.Surface
	onStatus func(string)
	onLoaded func()
}

// NewSession builds a session with an empty buffer, a fully zoomed-out
// viewport and the default color selected.
func NewSession(opts Options) *Session {
	s := &Session{
		buffer:   state.NewBuffer(),
		view:     viewport.New(opts.Size, state.GridSize),
		selected: state.DefaultSymbol,
		conn:     net.Connecting,
		surface:  opts.Surface,
		onStatus: opts.OnStatus,
		onLoaded: opts.OnLoaded,
	}
	s.gestures = gesture.New(sessionTarget{s}, opts.Clock)
	return s
}

// SetSender attaches the outbound path. Until then paint intents are dropped.
func (s *Session) SetSender(sender Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
}

// HandlePointer feeds one pointer or touch event to the recognizer.
func (s *Session) HandlePointer(ev gesture.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gestures.Handle(ev)
}

// HandleWheel zooms around the cursor.
func (s *Session) HandleWheel(deltaY, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gestures.Wheel(deltaY, x, y)
}

// SelectColor changes the color used for subsequent paints.
func (s *Session) SelectColor(sym state.Symbol) bool {
	if !sym.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = sym
	return true
}

func (s *Session) SelectedColor() state.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// ApplySnapshot replaces the buffer with an authoritative snapshot and
// redraws. It is the only way cells change locally.
func (s *Session) ApplySnapshot(snap state.Snapshot) {
	s.mu.Lock()
	first := !s.buffer.Loaded()
	s.buffer.Replace(snap)
	s.redraw()
	s.mu.Unlock()

	if first {
		log.Info().Int("cells", len(snap)).Msg("first snapshot received")
		s.status("")
		if s.onLoaded != nil {
			s.onLoaded()
		}
	}
}

// ConnectionChanged records a connection lifecycle change and updates the
// status text.
func (s *Session) ConnectionChanged(cs net.ConnState, err error) {
	s.mu.Lock()
	s.conn = cs
	loaded := s.buffer.Loaded()
	s.mu.Unlock()

	logger := log.With().Str("state", cs.String()).Logger()
	switch cs {
	case net.Connecting:
		s.status(StatusConnecting)
	case net.Open:
		if !loaded {
			s.status(StatusLoading)
		}
	case net.Closed:
		logger.Info().Msg("connection closed")
		s.status(StatusClosed)
	case net.Errored:
		logger.Error().Err(err).Msg("connection failed")
		s.status(StatusError)
	}
}

// ConnState returns the last reported connection state.
func (s *Session) ConnState() net.ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// Snapshot returns a copy of the displayed grid.
func (s *Session) Snapshot() state.Snapshot {
	return s.buffer.Snapshot()
}

// Viewport returns the current zoom and pan.
func (s *Session) Viewport() viewport.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.State()
}

// Redraw repaints the surface from the current state.
func (s *Session) Redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redraw()
}

func (s *Session) redraw() {
	if s.surface == nil {
		return
	}
	render.Redraw(s.surface, s.buffer, s.view)
}

func (s *Session) status(text string) {
	if s.onStatus != nil {
		s.onStatus(text)
	}
}

// paint resolves a screen point to a cell and sends an intent for it.
// Points outside the grid, or before the first snapshot, are dropped.
// Must be called with s.mu held.
func (s *Session) paint(x, y float64) {
	col, row := s.view.ScreenToCell(x, y)
	index, ok := state.IndexOf(col, row)
	if !ok || !s.buffer.Contains(index) {
		log.Debug().Int("col", col).Int("row", row).Msg("paint outside grid dropped")
		return
	}
	if s.sender == nil {
		return
	}
	if err := s.sender.SendPaintIntent(index, s.selected); err != nil {
		switch {
		case errors.Is(err, net.ErrNotConnected):
			log.Debug().Int("index", index).Msg("paint dropped while disconnected")
			return
		case errors.Is(err, net.ErrSendBufferFull):
			return
		}
		log.Warn().Err(err).Int("index", index).Msg("paint intent failed")
	}
}

// sessionTarget adapts the session to the recognizer. The recognizer only
// runs under s.mu, so these methods do not lock.
type sessionTarget struct {
	s *Session
}

func (t sessionTarget) PanBy(dx, dy float64) {
	if t.s.view.PanBy(dx, dy) {
		t.s.redraw()
	}
}

func (t sessionTarget) ZoomAt(factor, x, y float64) {
	if t.s.view.ZoomAt(factor, x, y) {
		t.s.redraw()
	}
}

func (t sessionTarget) Paint(x, y float64) {
	t.s.paint(x, y)
}
