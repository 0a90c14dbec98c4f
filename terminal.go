package forme

import (
	"io"
	"strconv"
)

// CursorShape selects the terminal's visual cursor rendering (CSI n SPACE q).
type CursorShape int

const (
	CursorBlock     CursorShape = 2
	CursorUnderline CursorShape = 4
	CursorBar       CursorShape = 6
)

// TerminalController exposes the non-cell side-band operations as methods
// that write bytes to a configured sink and keep OutputState's mode flags
// in sync for correct teardown. It is thin and stateless beyond the
// OutputState it is given.
type TerminalController struct {
	w     io.Writer
	state *OutputState
}

// NewTerminalController wraps a sink and the OutputState its cursor/mode
// operations should keep current.
func NewTerminalController(w io.Writer, state *OutputState) *TerminalController {
	return &TerminalController{w: w, state: state}
}

func (t *TerminalController) write(s string) { io.WriteString(t.w, s) }

// HideCursor emits CSI ?25 l.
func (t *TerminalController) HideCursor() {
	t.write("\x1b[?25l")
	t.state.CursorVisible = false
}

// ShowCursor emits CSI ?25 h.
func (t *TerminalController) ShowCursor() {
	t.write("\x1b[?25h")
	t.state.CursorVisible = true
}

// Cursor reports the cursor's tracked position, shape, and visibility.
// Position clamps unknown (-1) coordinates to the origin, matching where a
// real terminal starts before any move is emitted.
func (t *TerminalController) Cursor() Cursor {
	x, y := t.state.LastX, t.state.LastY
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Cursor{X: x, Y: y, Style: t.state.CursorShape, Visible: t.state.CursorVisible}
}

// EnterAlternateScreen emits CSI ?1049 h and marks the mode on.
func (t *TerminalController) EnterAlternateScreen() {
	t.write("\x1b[?1049h")
	t.state.AlternateScreen = true
}

// LeaveAlternateScreen emits CSI ?1049 l and marks the mode off.
func (t *TerminalController) LeaveAlternateScreen() {
	t.write("\x1b[?1049l")
	t.state.AlternateScreen = false
}

// ClearScreen emits CSI 2 J.
func (t *TerminalController) ClearScreen() { t.write("\x1b[2J") }

// CursorHome emits CSI H and zeroes the tracked cursor position.
func (t *TerminalController) CursorHome() {
	t.write("\x1b[H")
	t.state.LastX, t.state.LastY = 0, 0
}

// ResetAttributes emits CSI 0 m and invalidates the cached fg/bg/attrs.
func (t *TerminalController) ResetAttributes() {
	t.write("\x1b[0m")
	t.state.LastFG, t.state.LastBG, t.state.LastAttrs = -1, -1, -1
}

// Bell emits BEL (0x07).
func (t *TerminalController) Bell() { t.write("\x07") }

// MoveTo emits an absolute cursor move and updates the tracked position.
func (t *TerminalController) MoveTo(x, y int) {
	t.write("\x1b[" + strconv.Itoa(y+1) + ";" + strconv.Itoa(x+1) + "H")
	t.state.LastX, t.state.LastY = x, y
}

// SetWindowTitle emits OSC 2 ; s BEL.
func (t *TerminalController) SetWindowTitle(s string) {
	t.write("\x1b]2;" + s + "\x07")
}

// SetCursorShape emits CSI n SPACE q for the given shape.
func (t *TerminalController) SetCursorShape(shape CursorShape) {
	t.write("\x1b[" + strconv.Itoa(int(shape)) + " q")
	t.state.CursorShape = shape
}

// BeginSyncOutput emits CSI ?2026 h and marks the mode on.
func (t *TerminalController) BeginSyncOutput() {
	t.write("\x1b[?2026h")
	t.state.SyncOutput = true
}

// EndSyncOutput emits CSI ?2026 l and marks the mode off.
func (t *TerminalController) EndSyncOutput() {
	t.write("\x1b[?2026l")
	t.state.SyncOutput = false
}

// SaveCursorPosition emits ESC 7 (DEC).
func (t *TerminalController) SaveCursorPosition() { t.write("\x1b7") }

// RestoreCursorPosition emits ESC 8 (DEC).
func (t *TerminalController) RestoreCursorPosition() { t.write("\x1b8") }

// EnableBracketedPaste emits CSI ?2004 h and marks the mode on.
func (t *TerminalController) EnableBracketedPaste() {
	t.write("\x1b[?2004h")
	t.state.BracketedPaste = true
}

// DisableBracketedPaste emits CSI ?2004 l and marks the mode off.
func (t *TerminalController) DisableBracketedPaste() {
	t.write("\x1b[?2004l")
	t.state.BracketedPaste = false
}

// EnableFocusReporting emits CSI ?1004 h and marks the mode on.
func (t *TerminalController) EnableFocusReporting() {
	t.write("\x1b[?1004h")
	t.state.FocusReporting = true
}

// DisableFocusReporting emits CSI ?1004 l and marks the mode off.
func (t *TerminalController) DisableFocusReporting() {
	t.write("\x1b[?1004l")
	t.state.FocusReporting = false
}

// EnableMouseTracking emits CSI ?1006 h followed by the mode-specific CSI
// (1000/1002/1003 for normal/button/any) and records the mode.
func (t *TerminalController) EnableMouseTracking(mode MouseMode) {
	t.write("\x1b[?1006h")
	switch mode {
	case MouseModeButton:
		t.write("\x1b[?1002h")
	case MouseModeAny:
		t.write("\x1b[?1003h")
	default:
		t.write("\x1b[?1000h")
	}
	t.state.MouseTracking = true
	t.state.MouseMode = mode
}

// DisableMouseTracking emits CSI ?{1000,1002,1003,1006} l and clears the
// tracked mouse fields.
func (t *TerminalController) DisableMouseTracking() {
	t.write("\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l")
	t.state.MouseTracking = false
	t.state.MouseMode = MouseModeNormal
}

// Cleanup emits the disable sequence for every mode flag currently set
// (bracketed paste, focus reporting, mouse, sync output, alternate
// screen), then resets attributes, shows the cursor, and homes it. All
// flags are reset afterward.
func (t *TerminalController) Cleanup() {
	if t.state.BracketedPaste {
		t.DisableBracketedPaste()
	}
	if t.state.FocusReporting {
		t.DisableFocusReporting()
	}
	if t.state.MouseTracking {
		t.DisableMouseTracking()
	}
	if t.state.SyncOutput {
		t.EndSyncOutput()
	}
	if t.state.AlternateScreen {
		t.LeaveAlternateScreen()
	}
	t.ResetAttributes()
	t.ShowCursor()
	t.CursorHome()
}
