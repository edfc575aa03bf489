package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// GateKind enumerates the closed set of gate operations the compiler
// understands. The set is fixed: passes and the router pattern-match on it.
type GateKind int

const (
	GateH GateKind = iota
	GateX
	GateY
	GateZ
	GateS
	GateSdg
	GateT
	GateTdg
	GateRx
	GateRy
	GateRz
	GateCNOT
	GateCZ
	GateSWAP
)

func (k GateKind) String() string {
	switch k {
	case GateH:
		return "h"
	case GateX:
		return "x"
	case GateY:
		return "y"
	case GateZ:
		return "z"
	case GateS:
		return "s"
	case GateSdg:
		return "sdg"
	case GateT:
		return "t"
	case GateTdg:
		return "tdg"
	case GateRx:
		return "rx"
	case GateRy:
		return "ry"
	case GateRz:
		return "rz"
	case GateCNOT:
		return "cx"
	case GateCZ:
		return "cz"
	case GateSWAP:
		return "swap"
	default:
		return "unknown"
	}
}

// IsRotation reports whether the kind carries an angle parameter.
func (k GateKind) IsRotation() bool {
	return k == GateRx || k == GateRy || k == GateRz
}

// IsTwoQubit reports whether the kind acts on two qubits.
func (k GateKind) IsTwoQubit() bool {
	return k == GateCNOT || k == GateCZ || k == GateSWAP
}

// IsHermitian reports whether the kind is its own inverse.
func (k GateKind) IsHermitian() bool {
	switch k {
	case GateH, GateX, GateY, GateZ, GateCNOT, GateCZ, GateSWAP:
		return true
	default:
		return false
	}
}

func (k GateKind) arity() int {
	if k.IsTwoQubit() {
		return 2
	}
	return 1
}

// Gate is an immutable description of one operation: a kind, its operand
// qubits and, for rotations, an angle in radians. Gates are small values and
// cheap to copy. For two-qubit kinds operand 0 is the control (where the
// notion applies) and operand 1 the target.
type Gate struct {
	kind   GateKind
	qubits [2]int
	nq     int
	angle  float64
}

// NewGate validates and builds a gate of any kind. Rotations take the angle
// through the pointer; all other kinds reject one.
func NewGate(kind GateKind, qubits []int, angle *float64) (Gate, error) {
	if len(qubits) != kind.arity() {
		return Gate{}, fmt.Errorf("gate %s takes %d qubit(s), got %d", kind, kind.arity(), len(qubits))
	}
	for _, q := range qubits {
		if q < 0 {
			return Gate{}, fmt.Errorf("gate %s has a negative qubit index %d", kind, q)
		}
	}
	if len(qubits) == 2 && qubits[0] == qubits[1] {
		return Gate{}, fmt.Errorf("gate %s needs two distinct qubits, got q[%d] twice", kind, qubits[0])
	}
	if kind.IsRotation() && angle == nil {
		return Gate{}, fmt.Errorf("rotation gate %s needs an angle", kind)
	}
	if !kind.IsRotation() && angle != nil {
		return Gate{}, fmt.Errorf("gate %s does not take an angle", kind)
	}
	g := Gate{kind: kind, nq: len(qubits)}
	copy(g.qubits[:], qubits)
	if angle != nil {
		g.angle = *angle
	}
	return g, nil
}

func oneQubit(kind GateKind, q int) (Gate, error) {
	return NewGate(kind, []int{q}, nil)
}

func twoQubit(kind GateKind, a, b int) (Gate, error) {
	return NewGate(kind, []int{a, b}, nil)
}

func rotation(kind GateKind, q int, angle float64) (Gate, error) {
	return NewGate(kind, []int{q}, &angle)
}

func H(q int) (Gate, error)   { return oneQubit(GateH, q) }
func X(q int) (Gate, error)   { return oneQubit(GateX, q) }
func Y(q int) (Gate, error)   { return oneQubit(GateY, q) }
func Z(q int) (Gate, error)   { return oneQubit(GateZ, q) }
func S(q int) (Gate, error)   { return oneQubit(GateS, q) }
func Sdg(q int) (Gate, error) { return oneQubit(GateSdg, q) }
func T(q int) (Gate, error)   { return oneQubit(GateT, q) }
func Tdg(q int) (Gate, error) { return oneQubit(GateTdg, q) }

func Rx(q int, angle float64) (Gate, error) { return rotation(GateRx, q, angle) }
func Ry(q int, angle float64) (Gate, error) { return rotation(GateRy, q, angle) }
func Rz(q int, angle float64) (Gate, error) { return rotation(GateRz, q, angle) }

func CNOT(control, target int) (Gate, error) { return twoQubit(GateCNOT, control, target) }
func CZ(control, target int) (Gate, error)   { return twoQubit(GateCZ, control, target) }
func SWAP(a, b int) (Gate, error)            { return twoQubit(GateSWAP, a, b) }

// Kind returns the gate kind.
func (g Gate) Kind() GateKind { return g.kind }

// NumQubits returns the arity of the gate.
func (g Gate) NumQubits() int { return g.nq }

// Qubits returns the operand qubits in order. The returned slice is a copy.
func (g Gate) Qubits() []int {
	qs := make([]int, g.nq)
	copy(qs, g.qubits[:g.nq])
	return qs
}

// Qubit returns the i-th operand qubit.
func (g Gate) Qubit(i int) int { return g.qubits[i] }

// Angle returns the rotation angle in radians. Only meaningful when
// Kind().IsRotation() holds; zero otherwise.
func (g Gate) Angle() float64 { return g.angle }

// Touches reports whether the gate operates on qubit q.
func (g Gate) Touches(q int) bool {
	for i := 0; i < g.nq; i++ {
		if g.qubits[i] == q {
			return true
		}
	}
	return false
}

// SameQubits reports whether both gates have the same ordered operand list.
func (g Gate) SameQubits(o Gate) bool {
	return g.nq == o.nq && g.qubits == o.qubits
}

// Overlaps reports whether the two gates share at least one qubit.
func (g Gate) Overlaps(o Gate) bool {
	for i := 0; i < g.nq; i++ {
		if o.Touches(g.qubits[i]) {
			return true
		}
	}
	return false
}

// Equal is structural equality over (kind, qubits, angle). Angle comparison
// is bitwise; tolerance-aware comparison is left to the passes that need it.
func (g Gate) Equal(o Gate) bool {
	return g.kind == o.kind && g.nq == o.nq && g.qubits == o.qubits && g.angle == o.angle
}

// WithQubits rebuilds the gate on a different operand list, keeping kind and
// angle. Used by the router to move a logical gate onto physical qubits.
func (g Gate) WithQubits(qubits ...int) (Gate, error) {
	if g.kind.IsRotation() {
		a := g.angle
		return NewGate(g.kind, qubits, &a)
	}
	return NewGate(g.kind, qubits, nil)
}

// String renders the gate in OpenQASM-like notation, e.g. "rz(0.7853981634) q[0]"
// or "cx q[0], q[1]".
func (g Gate) String() string {
	var b strings.Builder
	b.WriteString(g.kind.String())
	if g.kind.IsRotation() {
		b.WriteString("(")
		b.WriteString(strconv.FormatFloat(g.angle, 'g', 10, 64))
		b.WriteString(")")
	}
	b.WriteString(" ")
	for i := 0; i < g.nq; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "q[%d]", g.qubits[i])
	}
	return b.String()
}
