package sgr

import "testing"

func TestParseSGR(t *testing.T) {
	t.Run("ComplexSequence", func(t *testing.T) {
		var attr Attribute
		ParseSGR("\x1b[1;4;7;38;5;21;48;2;255;255;255m", &attr)

		want := StyleBold | StyleUnderline | StyleInverse
		if attr.Styles != want {
			t.Errorf("styles = %b, want %b", attr.Styles, want)
		}
		if attr.FG != (Color{Type: Color256, Value: 21}) {
			t.Errorf("fg = %+v, want Color256(21)", attr.FG)
		}
		if attr.BG != (Color{Type: ColorRGB, Value: 0xFFFFFF}) {
			t.Errorf("bg = %+v, want RGB(0xFFFFFF)", attr.BG)
		}
	})

	t.Run("ResetClearsEverything", func(t *testing.T) {
		attr := Attribute{FG: Color{Type: ColorBasic, Value: 1}, Styles: StyleBold}
		ParseSGR("\x1b[0m", &attr)
		if attr != (Attribute{}) {
			t.Errorf("expected zero value after reset, got %+v", attr)
		}
	})

	t.Run("SelectiveClearLeavesOtherBitsIntact", func(t *testing.T) {
		attr := Attribute{Styles: StyleBold | StyleUnderline}
		ParseSGR("\x1b[24m", &attr)
		if attr.Styles != StyleBold {
			t.Errorf("expected only bold to survive, got %b", attr.Styles)
		}
	})

	t.Run("DefaultColorCodesResetToDefault", func(t *testing.T) {
		attr := Attribute{FG: Color{Type: ColorBasic, Value: 2}, BG: Color{Type: ColorBasic, Value: 3}}
		ParseSGR("\x1b[39;49m", &attr)
		if attr.FG != (Color{}) || attr.BG != (Color{}) {
			t.Errorf("expected default fg/bg, got %+v / %+v", attr.FG, attr.BG)
		}
	})

	t.Run("BrightBasicColors", func(t *testing.T) {
		var attr Attribute
		ParseSGR("\x1b[91;102m", &attr)
		if attr.FG != (Color{Type: ColorBasic, Value: 9}) {
			t.Errorf("fg = %+v, want basic 9", attr.FG)
		}
		if attr.BG != (Color{Type: ColorBasic, Value: 10}) {
			t.Errorf("bg = %+v, want basic 10", attr.BG)
		}
	})

	t.Run("OutOfRange256IndexDropped", func(t *testing.T) {
		attr := Attribute{FG: Color{Type: ColorBasic, Value: 1}}
		ParseSGR("\x1b[38;5;999m", &attr)
		if attr.FG != (Color{Type: ColorBasic, Value: 1}) {
			t.Errorf("expected fg unchanged by out-of-range index, got %+v", attr.FG)
		}
	})

	t.Run("TruncatedRGBDropsWithoutPanicking", func(t *testing.T) {
		var attr Attribute
		ParseSGR("\x1b[38;2;10;20m", &attr)
		if attr.FG != (Color{}) {
			t.Errorf("expected fg unchanged by truncated RGB sequence, got %+v", attr.FG)
		}
	})

	t.Run("MalformedParamsTreatedAsZero", func(t *testing.T) {
		var attr Attribute
		ParseSGR("\x1b[;1m", &attr)
		if attr.Styles&StyleBold == 0 {
			t.Error("expected bold set after a leading empty param")
		}
		// ";1;" reads as 0;1;0: the trailing empty field resets the bold.
		ParseSGR("\x1b[;1;m", &attr)
		if attr.Styles != 0 {
			t.Errorf("expected trailing empty param to reset styles, got %b", attr.Styles)
		}
	})

	t.Run("NonSGRCSIIsIgnored", func(t *testing.T) {
		var attr Attribute
		ParseSGR("\x1b[2J\x1b[1m", &attr)
		if attr.Styles != StyleBold {
			t.Errorf("expected only the SGR sequence to apply, got %b", attr.Styles)
		}
	})
}

// TestAttrToSGRRoundTrip parses the truecolor reconstruction of an
// attribute back and expects the original. Depth is a ceiling, not a
// promotion, so Basic and Color256 values keep their native codes under
// DepthTruecolor and round-trip exactly too.
func TestAttrToSGRRoundTrip(t *testing.T) {
	cases := []Attribute{
		{},
		{Styles: StyleBold | StyleUnderline},
		{FG: Color{Type: ColorRGB, Value: 0x00FF80}, Styles: StyleItalic},
		{FG: Color{Type: ColorRGB, Value: 0x112233}, BG: Color{Type: ColorRGB, Value: 0xAABBCC}},
		{FG: Color{Type: ColorBasic, Value: 1}, BG: Color{Type: ColorBasic, Value: 12}},
		{FG: Color{Type: Color256, Value: 21}, BG: Color{Type: Color256, Value: 244}},
	}
	for _, attr := range cases {
		seq := AttrToSGR(attr, Options{Depth: DepthTruecolor})
		var got Attribute
		ParseSGR(seq, &got)
		if got != attr {
			t.Errorf("round-trip mismatch for %+v: got %+v", attr, got)
		}
	}
}

// TestAttrToSGRDepth256PreservesIndex checks that requesting Depth256
// output for a Color256 attribute round-trips the palette index exactly,
// as it does under DepthTruecolor.
func TestAttrToSGRDepth256PreservesIndex(t *testing.T) {
	attr := Attribute{FG: Color{Type: Color256, Value: 200}, BG: Color{Type: Color256, Value: 17}}
	seq := AttrToSGR(attr, Options{Depth: Depth256})
	var got Attribute
	ParseSGR(seq, &got)
	if got.FG != attr.FG {
		t.Errorf("fg = %+v, want %+v", got.FG, attr.FG)
	}
	if got.BG != attr.BG {
		t.Errorf("bg = %+v, want %+v", got.BG, attr.BG)
	}
}

func TestStripANSIAndVisibleLength(t *testing.T) {
	s := "\x1b[1mhe\x1b[0mllo\x1b[2J"
	if got := StripANSI(s); got != "hello" {
		t.Errorf("StripANSI = %q, want %q", got, "hello")
	}
	if got := VisibleLength(s); got != 5 {
		t.Errorf("VisibleLength = %d, want 5", got)
	}
}
