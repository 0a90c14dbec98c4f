package forme

import "sort"

// DoubleBuffer is a front/back pair of screen buffers plus a dirty-region
// set and a full_redraw flag. It produces the minimal change list an
// encoder needs to bring the terminal's displayed contents (assumed equal
// to front) in line with back.
type DoubleBuffer struct {
	w, h       int
	front      *ScreenBuffer
	back       *ScreenBuffer
	dirty      []Rect
	fullRedraw bool
}

// NewDoubleBuffer creates a double buffer with both sides filled with def.
// full_redraw starts true: the first frame always paints everything.
func NewDoubleBuffer(w, h int, def Cell) (*DoubleBuffer, error) {
	front, err := NewScreenBuffer(w, h, def)
	if err != nil {
		return nil, err
	}
	back, err := NewScreenBuffer(w, h, def)
	if err != nil {
		return nil, err
	}
	return &DoubleBuffer{w: w, h: h, front: front, back: back, fullRedraw: true}, nil
}

// Back returns the back buffer for mutation by the frame producer.
func (db *DoubleBuffer) Back() *ScreenBuffer { return db.back }

// Front returns the front buffer. Callers should treat it as read-only;
// only Swap designates a new front.
func (db *DoubleBuffer) Front() *ScreenBuffer { return db.front }

// Swap exchanges front and back. Dirty state is untouched by Swap; only
// ClearDirty clears it. The typical frame cycle is: mutate back, mark
// dirty, encode, swap, clear dirty — swap first so the next frame's diff
// runs against what was just displayed.
func (db *DoubleBuffer) Swap() {
	db.front, db.back = db.back, db.front
}

// MarkDirty records that the rect (x,y,w,h) of back may have changed.
// The rect is clipped to buffer bounds; an empty result after clipping is
// dropped.
func (db *DoubleBuffer) MarkDirty(x, y, w, h int) {
	clipped, ok := (Rect{X: x, Y: y, W: w, H: h}).clip(db.w, db.h)
	if !ok {
		return
	}
	db.dirty = append(db.dirty, clipped)
}

// MarkLineDirty marks an entire row dirty.
func (db *DoubleBuffer) MarkLineDirty(y int) {
	db.MarkDirty(0, y, db.w, 1)
}

// MarkFullRedraw forces the next GetMinimalUpdates to emit every cell.
func (db *DoubleBuffer) MarkFullRedraw() { db.fullRedraw = true }

// ClearDirty clears the dirty-rect list and the full-redraw flag.
func (db *DoubleBuffer) ClearDirty() {
	db.dirty = db.dirty[:0]
	db.fullRedraw = false
}

// CoalesceDirty sorts the dirty rects by (y,x) and merges any that overlap
// or lie within one cell of each other on both axes (including diagonal
// adjacency). The result replaces the dirty list; the operation is
// idempotent and its result is independent of input order.
func (db *DoubleBuffer) CoalesceDirty() {
	db.dirty = coalesce(db.dirty)
}

func coalesce(rects []Rect) []Rect {
	if len(rects) < 2 {
		out := make([]Rect, len(rects))
		copy(out, rects)
		return out
	}
	sorted := make([]Rect, len(rects))
	copy(sorted, rects)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	out := make([]Rect, 0, len(sorted))
	cur := sorted[0]
	for _, r := range sorted[1:] {
		if cur.touches(r) {
			cur = cur.union(r)
		} else {
			out = append(out, cur)
			cur = r
		}
	}
	out = append(out, cur)

	// A single coalescing pass over a (y,x)-sorted list can miss merges
	// created by rects that are adjacent in y but arrived out of x-order
	// relative to an already-closed run; repeat until stable.
	for {
		merged := mergeOnce(out)
		if len(merged) == len(out) {
			return merged
		}
		out = merged
	}
}

func mergeOnce(rects []Rect) []Rect {
	used := make([]bool, len(rects))
	out := make([]Rect, 0, len(rects))
	for i := range rects {
		if used[i] {
			continue
		}
		cur := rects[i]
		for j := i + 1; j < len(rects); j++ {
			if used[j] {
				continue
			}
			if cur.touches(rects[j]) {
				cur = cur.union(rects[j])
				used[j] = true
			}
		}
		out = append(out, cur)
	}
	return out
}

// GetMinimalUpdates returns the change list needed to transform what the
// terminal currently displays (front) into back.
//
//   - If full_redraw is set: every cell of back, row-major, cloned.
//   - Else if dirty is empty: nothing.
//   - Else: coalesce dirty, then for each rect emit a CellChange only
//     where front[x,y] != back[x,y].
func (db *DoubleBuffer) GetMinimalUpdates() []CellChange {
	if db.fullRedraw {
		return Diff(nil, db.back)
	}
	if len(db.dirty) == 0 {
		return nil
	}
	db.CoalesceDirty()
	var out []CellChange
	for _, r := range db.dirty {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				nc, _ := db.back.Get(x, y)
				oc, _ := db.front.Get(x, y)
				if oc.Equal(nc) {
					continue
				}
				out = append(out, CellChange{X: x, Y: y, Cell: nc})
			}
		}
	}
	return out
}

// ClearBack resets back to def and forces a full redraw on the next
// GetMinimalUpdates.
func (db *DoubleBuffer) ClearBack(def Cell) {
	db.back.Clear(def)
	db.fullRedraw = true
}

// CopyFrontToBack overwrites back with front's current contents.
func (db *DoubleBuffer) CopyFrontToBack() {
	copy(db.back.cells, db.front.cells)
}

// Resize returns a new DoubleBuffer of the requested dimensions with
// full_redraw set and the back buffer's overlapping region carried over;
// newly exposed cells take fill. The caller discards the old one.
func (db *DoubleBuffer) Resize(newW, newH int, fill Cell) (*DoubleBuffer, error) {
	nb, err := NewDoubleBuffer(newW, newH, fill)
	if err != nil {
		return nil, err
	}
	back, err := db.back.Resize(newW, newH, fill)
	if err != nil {
		return nil, err
	}
	nb.back = back
	return nb, nil
}

// Width returns the buffer width shared by front and back.
func (db *DoubleBuffer) Width() int { return db.w }

// Height returns the buffer height shared by front and back.
func (db *DoubleBuffer) Height() int { return db.h }
