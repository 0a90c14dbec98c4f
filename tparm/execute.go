package tparm

import (
	"strconv"
	"strings"
)

// Tparm compiles source (memoized) and executes it with params in one
// call — the common path for callers holding a capability string from a
// terminfo record rather than a pre-compiled handle.
func Tparm(source string, params ...int) string {
	return Execute(Compile(source), params)
}

// Execute runs a compiled capability with the given parameters, returning
// the resulting byte string. params is copied into a working array (up to
// 9 slots, 1-indexed via %p1..%p9); Increment (%i) mutates params[0] and
// params[1] for 1-based coordinate capabilities.
//
// Static (%P[a-z]/%g[a-z]) and dynamic (%P[A-Z]/%g[A-Z]) variables are both
// scoped to this single call and never persist across invocations — a
// deliberate, documented choice rather than the ncurses convention where
// static variables survive between calls. Division and modulo by zero push
// 0 instead of trapping; popping an empty stack yields 0 instead of
// panicking.
func Execute(c *Compiled, params []int) string {
	vm := &machine{
		params: make([]int, 9),
		static: make([]int, 26),
		dyn:    make([]int, 26),
	}
	copy(vm.params, params)

	instrs := c.Instructions
	pc := 0
	for pc < len(instrs) {
		in := instrs[pc]
		switch in.Op {
		case OpLiteral:
			vm.out.WriteString(in.Str)
		case OpPushParam:
			idx := in.Arg - 1
			if idx >= 0 && idx < len(vm.params) {
				vm.push(vm.params[idx])
			} else {
				vm.push(0)
			}
		case OpPushInt:
			vm.push(in.Arg)
		case OpPushChar:
			vm.push(in.Arg)
		case OpIncrement:
			vm.params[0]++
			vm.params[1]++
		case OpOutputDecimal:
			vm.out.WriteString(strconv.Itoa(vm.pop()))
		case OpOutputOctal:
			vm.out.WriteString(strconv.FormatInt(int64(vm.pop()), 8))
		case OpOutputHex:
			vm.out.WriteString(strconv.FormatInt(int64(vm.pop()), 16))
		case OpOutputHexUpper:
			vm.out.WriteString(strings.ToUpper(strconv.FormatInt(int64(vm.pop()), 16)))
		case OpOutputChar:
			vm.out.WriteByte(byte(vm.pop()))
		case OpOutputString:
			vm.out.WriteString(strconv.Itoa(vm.pop()))
		case OpAdd:
			b, a := vm.pop(), vm.pop()
			vm.push(a + b)
		case OpSub:
			b, a := vm.pop(), vm.pop()
			vm.push(a - b)
		case OpMul:
			b, a := vm.pop(), vm.pop()
			vm.push(a * b)
		case OpDiv:
			b, a := vm.pop(), vm.pop()
			if b == 0 {
				vm.push(0)
			} else {
				vm.push(a / b)
			}
		case OpMod:
			b, a := vm.pop(), vm.pop()
			if b == 0 {
				vm.push(0)
			} else {
				vm.push(a % b)
			}
		case OpBitAnd:
			b, a := vm.pop(), vm.pop()
			vm.push(a & b)
		case OpBitOr:
			b, a := vm.pop(), vm.pop()
			vm.push(a | b)
		case OpBitXor:
			b, a := vm.pop(), vm.pop()
			vm.push(a ^ b)
		case OpBitNot:
			vm.push(^vm.pop())
		case OpLogicalAnd:
			b, a := vm.pop(), vm.pop()
			vm.push(boolInt(a != 0 && b != 0))
		case OpLogicalOr:
			b, a := vm.pop(), vm.pop()
			vm.push(boolInt(a != 0 || b != 0))
		case OpLogicalNot:
			vm.push(boolInt(vm.pop() == 0))
		case OpEquals:
			b, a := vm.pop(), vm.pop()
			vm.push(boolInt(a == b))
		case OpLess:
			b, a := vm.pop(), vm.pop()
			vm.push(boolInt(a < b))
		case OpGreater:
			b, a := vm.pop(), vm.pop()
			vm.push(boolInt(a > b))
		case OpStrLen:
			vm.push(len(strconv.Itoa(vm.pop())))
		case OpSetVar:
			v := vm.pop()
			if in.Kind == VarDynamic {
				vm.dyn[in.Arg] = v
			} else {
				vm.static[in.Arg] = v
			}
		case OpGetVar:
			if in.Kind == VarDynamic {
				vm.push(vm.dyn[in.Arg])
			} else {
				vm.push(vm.static[in.Arg])
			}
		case OpCondStart:
			// structural only
		case OpCondThen:
			if vm.pop() == 0 {
				pc = in.Target
				continue
			}
		case OpCondElse:
			pc = in.Target
			continue
		case OpCondEnd:
			// structural only
		}
		pc++
	}
	return vm.out.String()
}

type machine struct {
	stack  []int
	params []int
	static []int
	dyn    []int
	out    strings.Builder
}

func (m *machine) push(v int) { m.stack = append(m.stack, v) }

func (m *machine) pop() int {
	if len(m.stack) == 0 {
		return 0
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
