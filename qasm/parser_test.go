//go:build unit
// +build unit

package qasm

import (
	"math"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"

	"github.com/oqtopus-team/qopt/ir"
)

func TestParseBellPair(t *testing.T) {
	result, err := ParseQASM(heredoc.Doc(`
		OPENQASM 3.0;
		include "stdgates.inc";
		qubit[2] q;
		bit[2] c;
		h q[0];
		cx q[0], q[1];
		c[0] = measure q[0];
		c[1] = measure q[1];
	`))
	assert.Nil(t, err)
	assert.Equal(t, result.Circuit.NumQubits, 2)
	assert.Equal(t, result.Circuit.Len(), 2)
	assert.Equal(t, result.Circuit.Gates[0].Kind(), ir.GateH)
	assert.Equal(t, result.Circuit.Gates[1].Kind(), ir.GateCNOT)
	assert.Equal(t, result.Circuit.Gates[1].Qubits(), []int{0, 1})
	assert.Equal(t, len(result.Warnings), 0)
	assert.Equal(t, len(result.Measurements), 2)
	assert.Equal(t, result.Measurements[0], Measurement{
		Bit:   Operand{Register: "c", Index: 0},
		Qubit: Operand{Register: "q", Index: 0},
	})
}

func TestParseRotationExpressions(t *testing.T) {
	result, err := ParseQASM(heredoc.Doc(`
		OPENQASM 3.0;
		qubit[1] q;
		rz(pi/4) q[0];
		rx(-pi/2) q[0];
		ry(2*pi) q[0];
		rz(1.5) q[0];
		rz((pi+pi)/4) q[0];
	`))
	assert.Nil(t, err)
	assert.Equal(t, result.Circuit.Len(), 5)
	assert.InDelta(t, result.Circuit.Gates[0].Angle(), math.Pi/4, 1e-12)
	assert.InDelta(t, result.Circuit.Gates[1].Angle(), -math.Pi/2, 1e-12)
	assert.InDelta(t, result.Circuit.Gates[2].Angle(), 2*math.Pi, 1e-12)
	assert.InDelta(t, result.Circuit.Gates[3].Angle(), 1.5, 1e-12)
	assert.InDelta(t, result.Circuit.Gates[4].Angle(), math.Pi/2, 1e-12)
}

func TestParseMultipleRegistersContiguous(t *testing.T) {
	result, err := ParseQASM(heredoc.Doc(`
		OPENQASM 3.0;
		qubit[2] a;
		qubit[3] b;
		h a[1];
		x b[0];
		cx a[0], b[2];
	`))
	assert.Nil(t, err)
	assert.Equal(t, result.Circuit.NumQubits, 5)
	assert.Equal(t, result.Circuit.Gates[0].Qubit(0), 1)
	assert.Equal(t, result.Circuit.Gates[1].Qubit(0), 2)
	assert.Equal(t, result.Circuit.Gates[2].Qubits(), []int{0, 4})
}

func TestParseUnsizedRegisters(t *testing.T) {
	result, err := ParseQASM(heredoc.Doc(`
		OPENQASM 3.0;
		qubit q;
		h q;
	`))
	assert.Nil(t, err)
	assert.Equal(t, result.Circuit.NumQubits, 1)
	assert.Equal(t, result.Circuit.Len(), 1)
}

func TestParseWarnings(t *testing.T) {
	result, err := ParseQASM(heredoc.Doc(`
		OPENQASM 2.0;
		include "qelib1.inc";
		qubit[1] q;
		measure q[0];
	`))
	assert.Nil(t, err)
	assert.Equal(t, len(result.Warnings), 3)
	assert.Contains(t, result.Warnings[0].Message, "OpenQASM 3.x")
	assert.Contains(t, result.Warnings[1].Message, "include file ignored")
	assert.Contains(t, result.Warnings[2].Message, "standalone measure discards result")
}

func TestParseNoQubitsWarnsAndDefaults(t *testing.T) {
	result, err := ParseQASM("OPENQASM 3.0;")
	assert.Nil(t, err)
	assert.Equal(t, result.Circuit.NumQubits, 1)
	assert.Equal(t, len(result.Warnings), 1)
}

func TestParseEmptySource(t *testing.T) {
	_, err := ParseQASM("")
	assert.NotNil(t, err)
}

func TestParseSyntaxErrors(t *testing.T) {
	// missing semicolon
	_, err := ParseQASM("OPENQASM 3.0;\nqubit[1] q;\nh q[0]")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "';'")
	assert.Contains(t, err.Error(), "line 3")

	// missing version declaration
	_, err = ParseQASM("qubit[1] q;")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "OPENQASM")

	// garbage statement
	_, err = ParseQASM("OPENQASM 3.0;\nfoo bar;")
	assert.NotNil(t, err)
}

func TestParseSemanticErrors(t *testing.T) {
	// undeclared register
	_, err := ParseQASM("OPENQASM 3.0;\nqubit[1] q;\nh r[0];")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "not declared")

	// index out of range
	_, err = ParseQASM("OPENQASM 3.0;\nqubit[2] q;\nh q[5];")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "out of range")

	// duplicate register
	_, err = ParseQASM("OPENQASM 3.0;\nqubit[1] q;\nqubit[2] q;")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "already declared")

	// two-qubit gate on one qubit twice
	_, err = ParseQASM("OPENQASM 3.0;\nqubit[2] q;\ncx q[0], q[0];")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "distinct")
}

func TestParseDivisionByZero(t *testing.T) {
	_, err := ParseQASM("OPENQASM 3.0;\nqubit[1] q;\nrz(pi/0) q[0];")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "division by zero")
}

func TestParseReportsMultipleErrors(t *testing.T) {
	_, err := ParseQASM(heredoc.Doc(`
		OPENQASM 3.0;
		qubit[1] q;
		h r[0];
		x s[0];
	`))
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), `"r"`)
	assert.Contains(t, err.Error(), `"s"`)
}

func TestParseAllGateKinds(t *testing.T) {
	result, err := ParseQASM(heredoc.Doc(`
		OPENQASM 3.0;
		qubit[2] q;
		h q[0];
		x q[0];
		y q[0];
		z q[0];
		s q[0];
		sdg q[0];
		t q[0];
		tdg q[0];
		rx(0.1) q[0];
		ry(0.2) q[0];
		rz(0.3) q[0];
		cx q[0], q[1];
		cz q[0], q[1];
		swap q[0], q[1];
	`))
	assert.Nil(t, err)
	assert.Equal(t, result.Circuit.Len(), 14)
	kinds := []ir.GateKind{
		ir.GateH, ir.GateX, ir.GateY, ir.GateZ,
		ir.GateS, ir.GateSdg, ir.GateT, ir.GateTdg,
		ir.GateRx, ir.GateRy, ir.GateRz,
		ir.GateCNOT, ir.GateCZ, ir.GateSWAP,
	}
	for i, k := range kinds {
		assert.Equal(t, result.Circuit.Gates[i].Kind(), k)
	}
}
