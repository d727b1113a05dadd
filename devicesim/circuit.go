package devicesim

import (
	"math"
	"math/cmplx"
	"strconv"
	"strings"
)

// instruction is one parsed line of a submitted program: a gate name plus
// its integer qubit operands and an optional rotation angle.
type instruction struct {
	gate   string
	qubits []int
	angle  float64
}

// parseProgram turns a submitted QASM-like program into a flat
// instruction list. Lines are whitespace-separated "<gate> <qubits...>
// [angle]"; blank lines, "//" comments, and OpenQASM header statements
// ("OPENQASM", "include", "qreg", "creg", "barrier", "measure") are
// skipped, and operands written "q[0]" or "q[0]," are accepted, so simple
// OpenQASM 2.0 gate lines such as "cx q[0], q[1];" parse without a full
// grammar. There is no full grammar: a rotation angle is read only from a
// separate numeric field, so the parenthesised "rx(0.5) q[0];" form keeps
// "rx(0.5)" as its gate name and simulate ignores it.
func parseProgram(src string) []instruction {
	var out []instruction
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSuffix(line, ";")
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		fields := strings.Fields(line)
		gate := strings.ToLower(fields[0])
		switch gate {
		case "openqasm", "include", "qreg", "creg", "barrier", "measure":
			continue
		}

		ins := instruction{gate: gate}
		for _, f := range fields[1:] {
			f = strings.Trim(f, "q[],")
			if n, err := strconv.Atoi(f); err == nil {
				ins.qubits = append(ins.qubits, n)
				continue
			}
			if v, err := strconv.ParseFloat(f, 64); err == nil {
				ins.angle = v
			}
		}
		out = append(out, ins)
	}
	return out
}

// simulate applies instructions to the all-zero state of n qubits and
// returns the resulting amplitude vector, indexed so that bit i of the
// index is qubit i (LSB = qubit 0, matching the shot-bitstring
// convention).
func simulate(n int, instructions []instruction) []complex128 {
	dim := 1 << uint(n)
	state := make([]complex128, dim)
	state[0] = 1

	for _, ins := range instructions {
		if len(ins.qubits) == 0 {
			continue
		}
		switch ins.gate {
		case "h":
			applySingleQubit(state, ins.qubits[0], hadamard)
		case "x":
			applySingleQubit(state, ins.qubits[0], pauliX)
		case "y":
			applySingleQubit(state, ins.qubits[0], pauliY)
		case "z":
			applySingleQubit(state, ins.qubits[0], pauliZ)
		case "rx":
			applySingleQubit(state, ins.qubits[0], rx(ins.angle))
		case "ry":
			applySingleQubit(state, ins.qubits[0], ry(ins.angle))
		case "rz":
			applySingleQubit(state, ins.qubits[0], rz(ins.angle))
		case "cx", "cnot":
			if len(ins.qubits) == 2 {
				applyControlled(state, ins.qubits[0], ins.qubits[1], pauliX)
			}
		case "cz":
			if len(ins.qubits) == 2 {
				applyControlledPhase(state, ins.qubits[0], ins.qubits[1])
			}
		}
	}
	return state
}

// gate2 is a dense 2x2 single-qubit gate matrix [[a,b],[c,d]].
type gate2 struct{ a, b, c, d complex128 }

var hadamard = gate2{
	a: complex(1/math.Sqrt2, 0), b: complex(1/math.Sqrt2, 0),
	c: complex(1/math.Sqrt2, 0), d: complex(-1/math.Sqrt2, 0),
}
var pauliX = gate2{a: 0, b: 1, c: 1, d: 0}
var pauliY = gate2{a: 0, b: complex(0, -1), c: complex(0, 1), d: 0}
var pauliZ = gate2{a: 1, b: 0, c: 0, d: -1}

func rx(theta float64) gate2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return gate2{a: c, b: s, c: s, d: c}
}

func ry(theta float64) gate2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return gate2{a: c, b: -s, c: s, d: c}
}

func rz(theta float64) gate2 {
	return gate2{a: cmplx.Exp(complex(0, -theta/2)), b: 0, c: 0, d: cmplx.Exp(complex(0, theta/2))}
}

// applySingleQubit applies gate g to qubit q of a statevector in place,
// iterating over basis-state pairs that differ only in bit q.
func applySingleQubit(state []complex128, q int, g gate2) {
	mask := 1 << uint(q)
	for i := 0; i < len(state); i++ {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		a0, a1 := state[i], state[j]
		state[i] = g.a*a0 + g.b*a1
		state[j] = g.c*a0 + g.d*a1
	}
}

func applyControlled(state []complex128, control, target int, g gate2) {
	cmask := 1 << uint(control)
	tmask := 1 << uint(target)
	for i := 0; i < len(state); i++ {
		if i&cmask == 0 || i&tmask != 0 {
			continue
		}
		j := i | tmask
		a0, a1 := state[i], state[j]
		state[i] = g.a*a0 + g.b*a1
		state[j] = g.c*a0 + g.d*a1
	}
}

func applyControlledPhase(state []complex128, a, b int) {
	amask := 1 << uint(a)
	bmask := 1 << uint(b)
	for i := range state {
		if i&amask != 0 && i&bmask != 0 {
			state[i] = -state[i]
		}
	}
}

// bitstring renders basis-state index i over n qubits as a '0'/'1'
// string with qubit 0 first, matching the LSB-first shot convention.
func bitstring(i, n int) string {
	b := make([]byte, n)
	for q := 0; q < n; q++ {
		if i&(1<<uint(q)) != 0 {
			b[q] = '1'
		} else {
			b[q] = '0'
		}
	}
	return string(b)
}

// probabilities returns |amplitude|^2 for every basis state.
func probabilities(state []complex128) []float64 {
	p := make([]float64, len(state))
	for i, a := range state {
		re, im := real(a), imag(a)
		p[i] = re*re + im*im
	}
	return p
}
