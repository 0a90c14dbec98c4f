package tparm

import "testing"

func TestExecuteCursorAddress(t *testing.T) {
	c := Compile("\x1b[%i%p1%d;%p2%dH")

	cases := []struct {
		name       string
		params     []int
		wantOutput string
	}{
		{"origin", []int{0, 0}, "\x1b[1;1H"},
		{"offset", []int{10, 20}, "\x1b[11;21H"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Execute(c, tc.params); got != tc.wantOutput {
				t.Errorf("Execute(%v) = %q, want %q", tc.params, got, tc.wantOutput)
			}
		})
	}
}

func TestExecuteConditional(t *testing.T) {
	// setaf-style 8/16/256 color selector, as found in xterm-256color.
	src := "\x1b[%?%p1%{8}%<%t3%p1%d%e%p1%{16}%<%t9%p1%{8}%-%d%e38;5;%p1%d%;m"
	c := Compile(src)

	cases := []struct {
		name  string
		param int
		want  string
	}{
		{"basic", 3, "\x1b[33m"},
		{"bright", 10, "\x1b[92m"},
		{"256", 200, "\x1b[38;5;200m"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Execute(c, []int{tc.param}); got != tc.want {
				t.Errorf("Execute(%d) = %q, want %q", tc.param, got, tc.want)
			}
		})
	}
}

func TestExecuteArithmeticAndStack(t *testing.T) {
	t.Run("DivByZeroYieldsZero", func(t *testing.T) {
		c := Compile("%{5}%{0}%/%d")
		if got := Execute(c, nil); got != "0" {
			t.Errorf("got %q, want 0", got)
		}
	})

	t.Run("ModByZeroYieldsZero", func(t *testing.T) {
		c := Compile("%{5}%{0}%m%d")
		if got := Execute(c, nil); got != "0" {
			t.Errorf("got %q, want 0", got)
		}
	})

	t.Run("PopFromEmptyStackYieldsZero", func(t *testing.T) {
		c := Compile("%d")
		if got := Execute(c, nil); got != "0" {
			t.Errorf("got %q, want 0", got)
		}
	})

	t.Run("IncrementMutatesFirstTwoParams", func(t *testing.T) {
		c := Compile("%i%p1%d;%p2%d")
		if got := Execute(c, []int{1, 1}); got != "2;2" {
			t.Errorf("got %q, want 2;2", got)
		}
	})
}

func TestExecuteVariablesScopedPerCall(t *testing.T) {
	c := Compile("%{7}%PA%gA%d")
	if got := Execute(c, nil); got != "7" {
		t.Errorf("got %q, want 7", got)
	}
	// A fresh Execute call must not see the previous call's dynamic var.
	c2 := Compile("%gA%d")
	if got := Execute(c2, nil); got != "0" {
		t.Errorf("expected variable not to persist across calls, got %q", got)
	}
}

func TestTparmOneShot(t *testing.T) {
	if got := Tparm("\x1b[%i%p1%d;%p2%dH", 10, 20); got != "\x1b[11;21H" {
		t.Errorf("Tparm = %q, want \\x1b[11;21H", got)
	}
}

func TestWidthFlagsConsumedButNotHonored(t *testing.T) {
	// %2d and %02d must still behave as plain decimal output: the width
	// prefix is recognized and discarded.
	for _, src := range []string{"%p1%2d", "%p1%02d"} {
		c := Compile(src)
		if got := Execute(c, []int{7}); got != "7" {
			t.Errorf("Execute(%q, 7) = %q, want 7", src, got)
		}
	}
}

func TestCompileMemoizes(t *testing.T) {
	ClearCache()
	a := Compile("%p1%d")
	b := Compile("%p1%d")
	if a != b {
		t.Error("expected the same *Compiled pointer for identical source")
	}
}

func TestCompileDoublePercentIsLiteralPercent(t *testing.T) {
	c := Compile("100%%done")
	if got := Execute(c, nil); got != "100%done" {
		t.Errorf("got %q, want 100%%done", got)
	}
}
