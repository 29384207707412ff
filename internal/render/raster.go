package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
)

// RasterSurface draws into a back image and publishes a finished copy on
// Present, so readers never observe a half-drawn frame.
type RasterSurface struct {
	back *image.RGBA

	mu        sync.Mutex
	front     *image.RGBA
	onPresent func(*image.RGBA)
}

// NewRasterSurface returns a square surface of side size pixels. onPresent,
// if set, receives every published frame.
func NewRasterSurface(size int, onPresent func(*image.RGBA)) *RasterSurface {
	rect := image.Rect(0, 0, size, size)
	return &RasterSurface{
		back:      image.NewRGBA(rect),
		front:     image.NewRGBA(rect),
		onPresent: onPresent,
	}
}

func (r *RasterSurface) Clear() {
	draw.Draw(r.back, r.back.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// FillRect rounds both edges to whole pixels so neighbouring cells tile
// without gaps or overlap.
func (r *RasterSurface) FillRect(x, y, w, h float64, c color.Color) {
	rect := image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)),
	).Intersect(r.back.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(r.back, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

func (r *RasterSurface) Present() {
	frame := image.NewRGBA(r.back.Bounds())
	copy(frame.Pix, r.back.Pix)

	r.mu.Lock()
	r.front = frame
	cb := r.onPresent
	r.mu.Unlock()

	if cb != nil {
		cb(frame)
	}
}

// Image returns the last presented frame. Callers must not modify it.
func (r *RasterSurface) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.front
}
