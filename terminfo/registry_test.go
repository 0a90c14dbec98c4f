package terminfo

import "testing"

func TestLookup(t *testing.T) {
	t.Run("ExactMatch", func(t *testing.T) {
		r := Lookup("vt100")
		if r.Name != "vt100" {
			t.Fatalf("expected vt100, got %s", r.Name)
		}
	})

	t.Run("SuffixStripping", func(t *testing.T) {
		r := Lookup("xterm-256color-italic")
		if r.Name != "xterm-256color" {
			t.Fatalf("expected suffix-stripped xterm-256color, got %s", r.Name)
		}
	})

	t.Run("StripsToXtermThenFallsBackToRegisteredXterm", func(t *testing.T) {
		r := Lookup("xterm-kitty")
		if r.Name != "xterm" {
			t.Fatalf("expected xterm after stripping -kitty, got %s", r.Name)
		}
	})

	t.Run("UnknownNameFallsBackToXterm256Color", func(t *testing.T) {
		r := Lookup("some-unknown-terminal-nobody-registered")
		if r.Name != fallbackName {
			t.Fatalf("expected fallback %s, got %s", fallbackName, r.Name)
		}
	})

	t.Run("NeverReturnsNil", func(t *testing.T) {
		for _, name := range []string{"", "xterm-256color", "screen.xterm-256color", "gibberish"} {
			if Lookup(name) == nil {
				t.Fatalf("Lookup(%q) returned nil", name)
			}
		}
	})
}

func TestXterm256ColorCapabilities(t *testing.T) {
	r := Lookup("xterm-256color")
	if r.Numbers["colors"] != 256 {
		t.Fatalf("expected 256 colors, got %d", r.Numbers["colors"])
	}
	if r.Strings["cup"] != "\x1b[%i%p1%d;%p2%dH" {
		t.Fatalf("unexpected cup capability: %q", r.Strings["cup"])
	}
	if r.Strings["sgr0"] == "" {
		t.Fatal("expected non-empty sgr0 capability")
	}
}
