// Package terminfo supplies a small, immutable, in-memory registry of
// terminal capability records — the compiled-in subset of the terminfo
// database needed to drive the tparm interpreter for terminal-specific
// sequences. It does not load terminfo files from disk; that is
// explicitly out of scope.
package terminfo

// Record carries a terminal's boolean, numeric, and string capabilities,
// keyed by the standard short names (cup, setaf, setab, smcup, rmcup,
// civis, cnorm, ...).
type Record struct {
	Name        string
	Aliases     []string
	Description string
	Booleans    map[string]bool
	Numbers     map[string]int
	Strings     map[string]string
}

var registry = map[string]*Record{}

func register(r *Record) {
	registry[r.Name] = r
	for _, a := range r.Aliases {
		registry[a] = r
	}
}

func init() {
	register(&Record{
		Name:        "xterm-256color",
		Description: "xterm with 256 colors",
		Booleans: map[string]bool{
			"colorinit": true,
			"ccc":       false,
		},
		Numbers: map[string]int{
			"colors": 256,
			"pairs":  32767,
			"cols":   80,
			"lines":  24,
		},
		Strings: map[string]string{
			"cup":   "\x1b[%i%p1%d;%p2%dH",
			"cuu1":  "\x1b[A",
			"cud1":  "\n",
			"cuf1":  "\x1b[C",
			"cub1":  "\b",
			"setaf": "\x1b[%?%p1%{8}%<%t3%p1%d%e%p1%{16}%<%t9%p1%{8}%-%d%e38;5;%p1%d%;m",
			"setab": "\x1b[%?%p1%{8}%<%t4%p1%d%e%p1%{16}%<%t10%p1%{8}%-%d%e48;5;%p1%d%;m",
			"sgr0":  "\x1b[0m",
			"bold":  "\x1b[1m",
			"smcup": "\x1b[?1049h",
			"rmcup": "\x1b[?1049l",
			"civis": "\x1b[?25l",
			"cnorm": "\x1b[?25h",
			"clear": "\x1b[H\x1b[2J",
			"el":    "\x1b[K",
			"ed":    "\x1b[J",
		},
	})

	register(&Record{
		Name:        "xterm",
		Description: "xterm, 8 colors",
		Numbers: map[string]int{
			"colors": 8,
			"pairs":  64,
			"cols":   80,
			"lines":  24,
		},
		Strings: map[string]string{
			"cup":   "\x1b[%i%p1%d;%p2%dH",
			"cuu1":  "\x1b[A",
			"cud1":  "\n",
			"cuf1":  "\x1b[C",
			"cub1":  "\b",
			"setaf": "\x1b[3%p1%dm",
			"setab": "\x1b[4%p1%dm",
			"sgr0":  "\x1b[0m",
			"bold":  "\x1b[1m",
			"smcup": "\x1b[?1049h",
			"rmcup": "\x1b[?1049l",
			"civis": "\x1b[?25l",
			"cnorm": "\x1b[?25h",
			"clear": "\x1b[H\x1b[2J",
		},
	})

	register(&Record{
		Name:        "screen",
		Description: "GNU Screen",
		Numbers: map[string]int{
			"colors": 8,
			"pairs":  64,
		},
		Strings: map[string]string{
			"cup":   "\x1b[%i%p1%d;%p2%dH",
			"setaf": "\x1b[3%p1%dm",
			"setab": "\x1b[4%p1%dm",
			"sgr0":  "\x1b[0m",
			"smcup": "\x1b[?1049h",
			"rmcup": "\x1b[?1049l",
			"civis": "\x1b[?25l",
			"cnorm": "\x1b[?25h",
		},
	})

	register(&Record{
		Name:        "vt100",
		Description: "DEC VT100",
		Numbers: map[string]int{
			"cols":  80,
			"lines": 24,
		},
		Strings: map[string]string{
			"cup":  "\x1b[%i%p1%d;%p2%dH",
			"sgr0": "\x1b[0m",
			"bold": "\x1b[1m",
		},
	})
}

// fallbackName is the ultimate fallback when no name or suffix-stripped
// prefix of it is registered.
const fallbackName = "xterm-256color"

// Lookup resolves name to a Record: an exact match, else progressively
// stripped hyphen-separated suffixes (xterm-256color-italic ->
// xterm-256color -> xterm), else the ultimate fallback. Lookup never
// fails.
func Lookup(name string) *Record {
	for candidate := name; candidate != ""; candidate = stripSuffix(candidate) {
		if r, ok := registry[candidate]; ok {
			return r
		}
		if !hasSuffix(candidate) {
			break
		}
	}
	return registry[fallbackName]
}

func hasSuffix(name string) bool {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '-' {
			return true
		}
	}
	return false
}

func stripSuffix(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '-' {
			return name[:i]
		}
	}
	return ""
}
