package forme

// Cursor is a read-only snapshot of the terminal cursor's tracked position,
// shape, and visibility. Use TerminalController.Cursor to read it; use the
// individual methods (MoveTo, SetCursorShape, ShowCursor, HideCursor) to
// change it, since those are what actually emit bytes.
type Cursor struct {
	X, Y    int
	Style   CursorShape
	Visible bool
}

// DefaultCursor returns the cursor state a freshly reset OutputState
// assumes: visible, block-shaped, at the origin.
func DefaultCursor() Cursor {
	return Cursor{
		Style:   CursorBlock,
		Visible: true,
	}
}
