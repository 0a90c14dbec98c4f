// Package sgr implements a streaming parser and encoder for the ANSI
// Select Graphic Rendition sub-protocol (CSI ... m): folding embedded
// escape sequences into a structured Attribute, and reconstructing an
// escape sequence from one.
package sgr

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// ColorType tags how a Color's Value should be interpreted.
type ColorType uint8

const (
	ColorDefault ColorType = iota
	ColorBasic             // Value 0-15
	Color256               // Value 0-255
	ColorRGB               // Value packed 0xRRGGBB
)

// Color is the parser's tagged color representation, distinct from the
// cell grid's packed Color — it must remember whether a value arrived via
// a 256-index or an RGB escape to round-trip faithfully.
type Color struct {
	Type  ColorType
	Value uint32
}

// Style is a bitmask of SGR style flags, including two variants
// (double-underline, overline) that only this parser-facing view tracks.
type Style uint16

const (
	StyleBold Style = 1 << iota
	StyleDim
	StyleItalic
	StyleUnderline
	StyleBlink
	StyleRapidBlink
	StyleInverse
	StyleHidden
	StyleStrikethrough
	StyleDoubleUnderline
	StyleOverline
)

// Attribute is the parser's view of terminal drawing state: foreground,
// background, and style bitmask.
type Attribute struct {
	FG, BG Color
	Styles Style
}

// Reset zeroes every field (equivalent to SGR parameter 0).
func (a *Attribute) Reset() {
	*a = Attribute{}
}

// ParseSGR scans s for embedded ESC [ params m sequences and folds each
// into attr in place, in order. Text outside sequences is ignored. Any
// other CSI sequence (a different final byte) is skipped without effect.
func ParseSGR(s string, attr *Attribute) {
	i := 0
	n := len(s)
	for i < n {
		if s[i] != 0x1b || i+1 >= n || s[i+1] != '[' {
			i++
			continue
		}
		j := i + 2
		for j < n && !isFinalByte(s[j]) {
			j++
		}
		if j >= n {
			return // unterminated sequence at end of input
		}
		final := s[j]
		if final == 'm' {
			applySGR(s[i+2:j], attr)
		}
		i = j + 1
	}
}

func isFinalByte(b byte) bool { return b >= 0x40 && b <= 0x7e }

func applySGR(paramStr string, attr *Attribute) {
	params := splitParams(paramStr)
	if len(params) == 0 {
		params = []int{0}
	}
	for idx := 0; idx < len(params); idx++ {
		p := params[idx]
		switch {
		case p == 0:
			attr.Reset()
		case p >= 1 && p <= 9, p == 21, p == 53:
			setStyleBit(attr, p)
		case p == 22:
			attr.Styles &^= StyleBold | StyleDim
		case p == 23:
			attr.Styles &^= StyleItalic
		case p == 24:
			attr.Styles &^= StyleUnderline | StyleDoubleUnderline
		case p == 25:
			attr.Styles &^= StyleBlink | StyleRapidBlink
		case p == 27:
			attr.Styles &^= StyleInverse
		case p == 28:
			attr.Styles &^= StyleHidden
		case p == 29:
			attr.Styles &^= StyleStrikethrough
		case p == 55:
			attr.Styles &^= StyleOverline
		case p >= 30 && p <= 37:
			attr.FG = Color{Type: ColorBasic, Value: uint32(p - 30)}
		case p >= 90 && p <= 97:
			attr.FG = Color{Type: ColorBasic, Value: uint32(p-90) + 8}
		case p == 39:
			attr.FG = Color{}
		case p >= 40 && p <= 47:
			attr.BG = Color{Type: ColorBasic, Value: uint32(p - 40)}
		case p >= 100 && p <= 107:
			attr.BG = Color{Type: ColorBasic, Value: uint32(p-100) + 8}
		case p == 49:
			attr.BG = Color{}
		case p == 38:
			idx = parseExtendedColor(params, idx, &attr.FG)
		case p == 48:
			idx = parseExtendedColor(params, idx, &attr.BG)
		default:
			// unrecognized parameter: advance by one, no effect
		}
	}
}

func setStyleBit(attr *Attribute, p int) {
	switch p {
	case 1:
		attr.Styles |= StyleBold
	case 2:
		attr.Styles |= StyleDim
	case 3:
		attr.Styles |= StyleItalic
	case 4:
		attr.Styles |= StyleUnderline
	case 5:
		attr.Styles |= StyleBlink
	case 6:
		attr.Styles |= StyleRapidBlink
	case 7:
		attr.Styles |= StyleInverse
	case 8:
		attr.Styles |= StyleHidden
	case 9:
		attr.Styles |= StyleStrikethrough
	case 21:
		attr.Styles |= StyleDoubleUnderline
	case 53:
		attr.Styles |= StyleOverline
	}
}

// parseExtendedColor consumes the 38/48 sub-sequence starting at
// params[idx] (which is 38 or 48) and returns the index of the last
// parameter it consumed. Out-of-range components are dropped without
// advancing the attribute beyond already-consumed parameters; unknown
// sub-codes (anything but 5 or 2) advance by one.
func parseExtendedColor(params []int, idx int, dst *Color) int {
	if idx+1 >= len(params) {
		return idx
	}
	switch params[idx+1] {
	case 5:
		if idx+2 >= len(params) {
			return idx + 1
		}
		n := params[idx+2]
		if n >= 0 && n <= 255 {
			*dst = Color{Type: Color256, Value: uint32(n)}
		}
		return idx + 2
	case 2:
		if idx+4 >= len(params) {
			return len(params) - 1
		}
		r, g, b := params[idx+2], params[idx+3], params[idx+4]
		if inByte(r) && inByte(g) && inByte(b) {
			*dst = Color{Type: ColorRGB, Value: uint32(r)<<16 | uint32(g)<<8 | uint32(b)}
		}
		return idx + 4
	default:
		return idx + 1
	}
}

func inByte(v int) bool { return v >= 0 && v <= 255 }

// splitParams parses a ;-separated list of decimal integers. Empty fields
// and malformed (non-digit) fields are treated as 0, per ECMA-48.
func splitParams(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}

// ColorDepth selects how AttrToSGR reduces colors when reconstructing an
// escape sequence.
type ColorDepth int

const (
	DepthTruecolor ColorDepth = iota
	Depth256
	Depth16
	DepthNone
)

// Options configures AttrToSGR's reconstruction.
type Options struct {
	Depth        ColorDepth
	LeadingReset bool
}

// AttrToSGR reconstructs an SGR escape sequence encoding attr.
func AttrToSGR(attr Attribute, opts Options) string {
	var codes []string
	if opts.LeadingReset {
		codes = append(codes, "0")
	}
	for _, sb := range []struct {
		bit  Style
		code string
	}{
		{StyleBold, "1"}, {StyleDim, "2"}, {StyleItalic, "3"}, {StyleUnderline, "4"},
		{StyleBlink, "5"}, {StyleRapidBlink, "6"}, {StyleInverse, "7"}, {StyleHidden, "8"},
		{StyleStrikethrough, "9"}, {StyleDoubleUnderline, "21"}, {StyleOverline, "53"},
	} {
		if attr.Styles&sb.bit != 0 {
			codes = append(codes, sb.code)
		}
	}
	codes = append(codes, colorCodes(attr.FG, true, opts.Depth)...)
	codes = append(codes, colorCodes(attr.BG, false, opts.Depth)...)
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

// colorCodes emits c at the highest fidelity depth allows. Depth is a
// ceiling, never a promotion: a basic color stays a basic code at every
// depth, a 256-index stays 38;5 unless forced down to 16, and an RGB value
// is reduced at Depth256 or Depth16.
func colorCodes(c Color, fg bool, depth ColorDepth) []string {
	base39, base30, base90 := "39", 30, 90
	if !fg {
		base39, base30, base90 = "49", 40, 100
	}
	if c.Type == ColorDefault || depth == DepthNone {
		return []string{base39}
	}

	basic := func(idx int) []string {
		if idx < 8 {
			return []string{strconv.Itoa(base30 + idx)}
		}
		return []string{strconv.Itoa(base90 + idx - 8)}
	}

	switch c.Type {
	case ColorBasic:
		return basic(int(c.Value) & 0xF)
	case Color256:
		if depth == Depth16 {
			return basic(to16(c))
		}
		return []string{sel(fg, "38", "48"), "5", strconv.Itoa(int(c.Value & 0xFF))}
	default: // ColorRGB
		switch depth {
		case Depth16:
			return basic(to16(c))
		case Depth256:
			return []string{sel(fg, "38", "48"), "5", strconv.Itoa(int(to256(c)))}
		default:
			r, g, b := toRGB(c)
			return []string{sel(fg, "38", "48"), "2", strconv.Itoa(int(r)), strconv.Itoa(int(g)), strconv.Itoa(int(b))}
		}
	}
}

func sel(fg bool, a, b string) string {
	if fg {
		return a
	}
	return b
}

// basic16RGB is the xterm default palette for the 16 basic colors.
var basic16RGB = [16]uint32{
	0x000000, 0xCD0000, 0x00CD00, 0xCDCD00, 0x0000EE, 0xCD00CD, 0x00CDCD, 0xE5E5E5,
	0x7F7F7F, 0xFF0000, 0x00FF00, 0xFFFF00, 0x5C5CFF, 0xFF00FF, 0x00FFFF, 0xFFFFFF,
}

// color256RGB expands a 256-palette index to its xterm RGB value: the 16
// basic colors, the 6x6x6 cube, then the 24-step grey ramp.
func color256RGB(n uint32) uint32 {
	n &= 0xFF
	switch {
	case n < 16:
		return basic16RGB[n]
	case n < 232:
		v := n - 16
		step := func(c uint32) uint32 {
			if c == 0 {
				return 0
			}
			return 55 + c*40
		}
		return step(v/36)<<16 | step(v/6%6)<<8 | step(v%6)
	default:
		g := 8 + (n-232)*10
		return g<<16 | g<<8 | g
	}
}

func to16(c Color) int {
	switch c.Type {
	case ColorBasic:
		return int(c.Value) & 0xF
	case Color256:
		if c.Value < 16 {
			return int(c.Value)
		}
	}
	r, g, b := toRGB(c)
	idx := int(r>>7 | (g>>7)<<1 | (b>>7)<<2)
	if r > 0xC0 || g > 0xC0 || b > 0xC0 {
		idx += 8
	}
	return idx
}

func to256(c Color) uint32 {
	switch c.Type {
	case ColorBasic, Color256:
		return c.Value & 0xFF
	}
	r, g, b := toRGB(c)
	return 16 + 36*(r*5/255) + 6*(g*5/255) + (b * 5 / 255)
}

func toRGB(c Color) (r, g, b uint32) {
	var v uint32
	switch c.Type {
	case ColorRGB:
		v = c.Value
	case ColorBasic:
		v = basic16RGB[c.Value&0xF]
	case Color256:
		v = color256RGB(c.Value)
	}
	return (v >> 16) & 0xFF, (v >> 8) & 0xFF, v & 0xFF
}

// StripANSI removes every ESC [ ... letter sequence from s.
func StripANSI(s string) string {
	var b strings.Builder
	i, n := 0, len(s)
	for i < n {
		if s[i] == 0x1b && i+1 < n && s[i+1] == '[' {
			j := i + 2
			for j < n && !isFinalByte(s[j]) {
				j++
			}
			if j >= n {
				return b.String()
			}
			i = j + 1
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// VisibleLength returns the number of extended grapheme clusters in s
// after stripping ANSI sequences — the on-screen column count a naive
// byte or rune count would get wrong for combining marks and multi-rune
// clusters.
func VisibleLength(s string) int {
	stripped := StripANSI(s)
	count := 0
	gr := uniseg.NewGraphemes(stripped)
	for gr.Next() {
		count++
	}
	return count
}
