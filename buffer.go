package forme

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ErrInvalidDimensions is returned when a buffer is constructed with a
// non-positive width or height.
var ErrInvalidDimensions = fmt.Errorf("forme: width and height must both be positive")

// ScreenBuffer is a W x H row-major grid of cells with bounds-checked
// access, fill/copy/write-string primitives, and region diffing.
type ScreenBuffer struct {
	w, h  int
	cells []Cell
}

// NewScreenBuffer creates a buffer filled with def. Fails if w or h is
// non-positive.
func NewScreenBuffer(w, h int, def Cell) (*ScreenBuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimensions
	}
	b := &ScreenBuffer{w: w, h: h, cells: make([]Cell, w*h)}
	b.Clear(def)
	return b, nil
}

// Width returns the buffer width.
func (b *ScreenBuffer) Width() int { return b.w }

// Height returns the buffer height.
func (b *ScreenBuffer) Height() int { return b.h }

func (b *ScreenBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.w && y >= 0 && y < b.h
}

func (b *ScreenBuffer) index(x, y int) int { return y*b.w + x }

// Get returns the cell at (x,y) and true, or the zero Cell and false if out
// of bounds.
func (b *ScreenBuffer) Get(x, y int) (Cell, bool) {
	if !b.inBounds(x, y) {
		return Cell{}, false
	}
	return b.cells[b.index(x, y)], true
}

// Set writes a cell at (x,y). Returns false (a no-op, never a panic) if out
// of bounds.
func (b *ScreenBuffer) Set(x, y int, c Cell) bool {
	if !b.inBounds(x, y) {
		return false
	}
	b.cells[b.index(x, y)] = c
	return true
}

// SetChar replaces only the rune content of a cell, preserving its current
// colors and attributes. A double-width cluster also writes its zero-width
// placeholder at x+1, carrying the same style. Returns false if out of
// bounds.
func (b *ScreenBuffer) SetChar(x, y int, ch string) bool {
	if !b.inBounds(x, y) {
		return false
	}
	i := b.index(x, y)
	c := b.cells[i]
	c.Ch = ch
	w := runewidth.StringWidth(ch)
	if w <= 0 {
		w = 1
	}
	c.Width = uint8(w)
	b.cells[i] = c
	if w == 2 && x+1 < b.w {
		b.cells[b.index(x+1, y)] = Cell{Ch: "", FG: c.FG, BG: c.BG, Attrs: c.Attrs, Width: 0}
	}
	return true
}

// FillRect fills the intersection of rect and the buffer bounds with c.
// Negative origins and oversized extents are clipped rather than rejected.
func (b *ScreenBuffer) FillRect(rect Rect, c Cell) {
	clipped, ok := rect.clip(b.w, b.h)
	if !ok {
		return
	}
	for y := clipped.Y; y < clipped.Y+clipped.H; y++ {
		base := y * b.w
		for x := clipped.X; x < clipped.X+clipped.W; x++ {
			b.cells[base+x] = c
		}
	}
}

// Clear resets every cell to def.
func (b *ScreenBuffer) Clear(def Cell) {
	for i := range b.cells {
		b.cells[i] = def
	}
}

// WriteString writes s starting at (x,y), stepping by extended grapheme
// cluster, truncating at the buffer's right edge. It returns the number of
// cells written (counting a double-width cluster's placeholder). Writing at
// an out-of-range y writes zero cells.
func (b *ScreenBuffer) WriteString(x, y int, s string, fg, bg Color, attrs Attribute) int {
	if y < 0 || y >= b.h {
		return 0
	}
	written := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cl := gr.Str()
		w := runewidth.StringWidth(cl)
		if w <= 0 {
			w = 1
		}
		if x < 0 {
			x += w
			continue
		}
		if x >= b.w {
			break
		}
		b.cells[b.index(x, y)] = Cell{Ch: cl, FG: fg, BG: bg, Attrs: attrs, Width: uint8(w)}
		written++
		if w == 2 && x+1 < b.w {
			b.cells[b.index(x+1, y)] = Cell{Ch: "", FG: fg, BG: bg, Attrs: attrs, Width: 0}
			written++
		}
		x += w
	}
	return written
}

// Resize returns a new buffer of the requested dimensions, copying the
// overlapping region from b and filling any newly exposed cells with def.
func (b *ScreenBuffer) Resize(newW, newH int, def Cell) (*ScreenBuffer, error) {
	nb, err := NewScreenBuffer(newW, newH, def)
	if err != nil {
		return nil, err
	}
	w := min(b.w, newW)
	h := min(b.h, newH)
	for y := 0; y < h; y++ {
		srcBase := y * b.w
		dstBase := y * nb.w
		copy(nb.cells[dstBase:dstBase+w], b.cells[srcBase:srcBase+w])
	}
	return nb, nil
}

// CellChange is the unit emitted by a diff: a single cell that must be
// (re)written at (X,Y).
type CellChange struct {
	X, Y int
	Cell Cell
}

// Diff compares old and new over their shared bounds (row-major) and
// returns a CellChange for every differing cell, plus every cell in any
// region new occupies beyond old's bounds. old may be nil.
func Diff(old, newBuf *ScreenBuffer) []CellChange {
	var out []CellChange
	w, h := newBuf.w, newBuf.h
	oldW, oldH := 0, 0
	if old != nil {
		oldW, oldH = old.w, old.h
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nc := newBuf.cells[newBuf.index(x, y)]
			if x < oldW && y < oldH {
				oc := old.cells[old.index(x, y)]
				if oc.Equal(nc) {
					continue
				}
			}
			out = append(out, CellChange{X: x, Y: y, Cell: nc})
		}
	}
	return out
}
