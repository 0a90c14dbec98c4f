package forme

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// OutputState is the encoder's persistent model of what the terminal
// currently has on-screen and what its current SGR state is. last_* fields
// of -1 mean "unknown; force next emission". Mode flags drive correct
// cleanup by the terminal controller.
type OutputState struct {
	LastX, LastY   int
	LastFG, LastBG int64 // -1 == unknown; else a Color value
	LastAttrs      int32 // -1 == unknown; else an Attribute bitmask

	AlternateScreen bool
	MouseTracking   bool
	MouseMode       MouseMode
	SyncOutput      bool
	BracketedPaste  bool
	FocusReporting  bool
	CursorVisible   bool
	CursorShape     CursorShape

	// colorCache memoizes the byte sequence for a given color, keyed by
	// (color as u64) with bit 32 set for foreground so fg/bg lookups of
	// the same color value don't collide.
	colorCache map[uint64]string
}

// ClearColorCache discards all memoized color sequences. Safe to call at
// any time; correctness never depends on the cache being warm.
func (s *OutputState) ClearColorCache() {
	s.colorCache = nil
}

// MouseMode selects which mouse-tracking CSI modes are enabled alongside
// SGR extended coordinates (1006).
type MouseMode int

const (
	MouseModeNormal MouseMode = iota // 1000
	MouseModeButton                  // 1002
	MouseModeAny                     // 1003
)

// NewOutputState returns a fresh state with everything marked unknown, as
// if no frame had ever been written.
func NewOutputState() *OutputState {
	def := DefaultCursor()
	return &OutputState{
		LastX: -1, LastY: -1, LastFG: -1, LastBG: -1, LastAttrs: -1,
		CursorVisible: def.Visible, CursorShape: def.Style,
	}
}

// Reset marks every cached field unknown again, forcing full re-emission
// on the next encode.
func (s *OutputState) Reset() {
	s.LastX, s.LastY = -1, -1
	s.LastFG, s.LastBG = -1, -1
	s.LastAttrs = -1
}

func (s *OutputState) colorSeq(c Color, fg bool) string {
	if s.colorCache == nil {
		s.colorCache = make(map[uint64]string)
	}
	key := uint64(c)
	if fg {
		key |= 1 << 32
	}
	if v, ok := s.colorCache[key]; ok {
		return v
	}

	var b strings.Builder
	if c.IsDefault() {
		if fg {
			b.WriteString("\x1b[39m")
		} else {
			b.WriteString("\x1b[49m")
		}
	} else {
		if fg {
			b.WriteString("\x1b[38;2;")
		} else {
			b.WriteString("\x1b[48;2;")
		}
		b.WriteString(strconv.Itoa(int(c.R())))
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(int(c.G())))
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(int(c.B())))
		b.WriteByte('m')
	}
	seq := b.String()
	s.colorCache[key] = seq
	return seq
}

// attrCodes maps each bit to its SGR "set" parameter.
var attrCodes = [...]struct {
	bit  Attribute
	code string
}{
	{AttrBold, "1"}, {AttrDim, "2"}, {AttrItalic, "3"}, {AttrUnderline, "4"},
	{AttrBlink, "5"}, {AttrInverse, "7"}, {AttrHidden, "8"}, {AttrStrikethrough, "9"},
}

// debugEncode enables per-frame encode diagnostics via FORME_DEBUG_ENCODE env var
var debugEncode = os.Getenv("FORME_DEBUG_ENCODE") != ""

// Encode consumes a change list and this OutputState (mutated in place),
// producing the near-minimal byte stream that transforms what the terminal
// currently displays into the cells described by changes.
//
// If skipSort is false, changes are stable-sorted by (y,x) first; callers
// that already guarantee row-major order (a full redraw) may pass true.
func Encode(state *OutputState, changes []CellChange, skipSort bool) string {
	if len(changes) == 0 {
		return ""
	}
	if !skipSort {
		sorted := make([]CellChange, len(changes))
		copy(sorted, changes)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Y != sorted[j].Y {
				return sorted[i].Y < sorted[j].Y
			}
			return sorted[i].X < sorted[j].X
		})
		changes = sorted
	}

	var out strings.Builder
	runs := 0
	i := 0
	for i < len(changes) {
		j := i + 1
		for j < len(changes) {
			p, c := changes[j-1], changes[j]
			if c.Y == p.Y && c.X == p.X+1 &&
				c.Cell.FG == p.Cell.FG && c.Cell.BG == p.Cell.BG && c.Cell.Attrs == p.Cell.Attrs {
				j++
				continue
			}
			break
		}
		run := changes[i:j]
		emitRun(&out, state, run)
		runs++
		i = j
	}
	if debugEncode {
		fmt.Fprintf(os.Stderr, "Encode: %d changes, %d runs, %d bytes\n", len(changes), runs, out.Len())
	}
	return out.String()
}

func emitRun(out *strings.Builder, state *OutputState, run []CellChange) {
	first := run[0]
	emitCursorMove(out, state, first.X, first.Y)
	emitSGRPrelude(out, state, first.Cell)

	for _, cc := range run {
		if cc.Cell.Width == 0 {
			// Placeholder half of a wide cluster: already painted by its
			// owning cell, and carries no glyph of its own.
			continue
		}
		out.WriteString(cc.Cell.Ch)
	}

	last := run[len(run)-1]
	state.LastX = last.X + 1
	state.LastY = last.Y
}

func emitCursorMove(out *strings.Builder, state *OutputState, x, y int) {
	lx, ly := state.LastX, state.LastY
	if lx == x && ly == y {
		return
	}
	if ly == y {
		d := x - lx
		switch {
		case d == 1:
			// implicit advance from the previous emitted character suffices
		case d >= 1 && d <= 4:
			out.WriteString("\x1b[")
			out.WriteString(strconv.Itoa(d))
			out.WriteByte('C')
		default:
			out.WriteString("\x1b[")
			out.WriteString(strconv.Itoa(x + 1))
			out.WriteByte('G')
		}
	} else {
		out.WriteString("\x1b[")
		out.WriteString(strconv.Itoa(y + 1))
		out.WriteByte(';')
		out.WriteString(strconv.Itoa(x + 1))
		out.WriteByte('H')
	}
	state.LastX, state.LastY = x, y
}

func emitSGRPrelude(out *strings.Builder, state *OutputState, c Cell) {
	prevAttrs := state.LastAttrs
	newAttrs := int32(c.Attrs)

	needReset := prevAttrs != -1 && prevAttrs != 0 && newAttrs == 0
	attrsChanged := prevAttrs != int32(newAttrs)

	if needReset {
		out.WriteString("\x1b[0m")
		state.LastFG, state.LastBG, state.LastAttrs = -1, -1, -1
		prevAttrs = -1
	} else if attrsChanged && newAttrs != 0 {
		if prevAttrs != -1 && prevAttrs != 0 {
			out.WriteString("\x1b[0m")
			state.LastFG, state.LastBG = -1, -1
			prevAttrs = -1
		}
		var codes []string
		for _, ac := range attrCodes {
			if c.Attrs&ac.bit != 0 {
				codes = append(codes, ac.code)
			}
		}
		if len(codes) > 0 {
			out.WriteString("\x1b[")
			out.WriteString(strings.Join(codes, ";"))
			out.WriteByte('m')
		}
	}
	state.LastAttrs = newAttrs

	if int64(c.FG) != state.LastFG {
		out.WriteString(state.colorSeq(c.FG, true))
		state.LastFG = int64(c.FG)
	}
	if int64(c.BG) != state.LastBG {
		out.WriteString(state.colorSeq(c.BG, false))
		state.LastBG = int64(c.BG)
	}
}
