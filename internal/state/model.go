package state

import (
	"fmt"
	"image/color"
)

// GridSize is the side length of the square grid.
const GridSize = 100

// CellCount is the number of addressable cells in the grid.
const CellCount = GridSize * GridSize

// Symbol is a single-character color code as carried on the wire ('0'..'9').
type Symbol byte

// DefaultSymbol is the color selected at startup (black).
const DefaultSymbol Symbol = '9'

// Palette maps every symbol to its display color, indexed by symbol value.
var Palette = [10]color.NRGBA{
	{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, // white
	{R: 0x74, G: 0xB6, B: 0x3E, A: 0xFF}, // green
	{R: 0xFF, G: 0xCE, B: 0x33, A: 0xFF}, // yellow
	{R: 0xCC, G: 0x42, B: 0x1D, A: 0xFF}, // red
	{R: 0xFF, G: 0x85, B: 0x33, A: 0xFF}, // orange
	{R: 0x87, G: 0x30, B: 0x8C, A: 0xFF}, // purple
	{R: 0x1D, G: 0x70, B: 0xA2, A: 0xFF}, // blue
	{R: 0x07, G: 0x9D, B: 0x9D, A: 0xFF}, // teal
	{R: 0xF0, G: 0x56, B: 0x89, A: 0xFF}, // pink
	{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}, // black
}

// Symbols lists the alphabet in palette order.
func Symbols() []Symbol {
	out := make([]Symbol, 0, len(Palette))
	for i := range Palette {
		out = append(out, Symbol('0'+i))
	}
	return out
}

// Valid reports whether s is part of the alphabet.
func (s Symbol) Valid() bool {
	return s >= '0' && s <= '9'
}

// Color returns the display color for s. Unknown symbols render as the
// background (white) so a bad cell never breaks a redraw.
func (s Symbol) Color() color.NRGBA {
	if !s.Valid() {
		return Palette[0]
	}
	return Palette[s-'0']
}

func (s Symbol) String() string {
	return string(rune(s))
}

// ParseSymbol converts a wire string such as "3" into a Symbol.
func ParseSymbol(v string) (Symbol, error) {
	if len(v) != 1 || !Symbol(v[0]).Valid() {
		return 0, fmt.Errorf("invalid color symbol %q", v)
	}
	return Symbol(v[0]), nil
}

// SymbolForColor resolves a display color back to its symbol.
func SymbolForColor(c color.Color) (Symbol, bool) {
	r, g, b, a := c.RGBA()
	for i, p := range Palette {
		pr, pg, pb, pa := p.RGBA()
		if r == pr && g == pg && b == pb && a == pa {
			return Symbol('0' + i), true
		}
	}
	return 0, false
}

// IndexOf returns the buffer index for a cell. The second result is false
// when either coordinate falls outside the grid, which also rules out
// indices that would wrap onto a neighbouring row.
func IndexOf(col, row int) (int, bool) {
	if col < 0 || col >= GridSize || row < 0 || row >= GridSize {
		return -1, false
	}
	return row*GridSize + col, true
}

// CellOf is the inverse of IndexOf: index i maps to (i mod N, i div N).
func CellOf(index int) (col, row int) {
	return index % GridSize, index / GridSize
}
