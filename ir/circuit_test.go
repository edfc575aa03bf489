//go:build unit
// +build unit

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustGate(t *testing.T, g Gate, err error) Gate {
	t.Helper()
	assert.Nil(t, err)
	return g
}

func TestCircuitBasics(t *testing.T) {
	c, err := NewCircuit(2)
	assert.Nil(t, err)
	assert.Equal(t, c.NumQubits, 2)
	assert.True(t, c.Empty())

	assert.Nil(t, c.Add(mustGate(t, H(0))))
	assert.Nil(t, c.Add(mustGate(t, CNOT(0, 1))))
	assert.Equal(t, c.Len(), 2)

	g, err := c.Gate(0)
	assert.Nil(t, err)
	assert.Equal(t, g.Kind(), GateH)

	_, err = c.Gate(2)
	assert.NotNil(t, err)
	_, err = c.Gate(-1)
	assert.NotNil(t, err)
}

func TestCircuitValidation(t *testing.T) {
	_, err := NewCircuit(0)
	assert.NotNil(t, err)

	c, _ := NewCircuit(2)
	err = c.Add(mustGate(t, H(5)))
	assert.NotNil(t, err)
	assert.Equal(t, c.Len(), 0)
}

func TestCircuitDepth(t *testing.T) {
	c, _ := NewCircuit(3)
	assert.Equal(t, c.Depth(), 0)

	// parallel single-qubit gates share one step
	c.Add(mustGate(t, H(0)))
	c.Add(mustGate(t, H(1)))
	assert.Equal(t, c.Depth(), 1)

	// a CNOT serializes against both wires
	c.Add(mustGate(t, CNOT(0, 1)))
	assert.Equal(t, c.Depth(), 2)

	c.Add(mustGate(t, X(2)))
	assert.Equal(t, c.Depth(), 2)

	c.Add(mustGate(t, CNOT(1, 2)))
	assert.Equal(t, c.Depth(), 3)
}

func TestCircuitCounts(t *testing.T) {
	c, _ := NewCircuit(2)
	c.Add(mustGate(t, H(0)))
	c.Add(mustGate(t, H(1)))
	c.Add(mustGate(t, CNOT(0, 1)))
	assert.Equal(t, c.CountKind(GateH), 2)
	assert.Equal(t, c.CountKind(GateCNOT), 1)
	assert.Equal(t, c.CountKind(GateZ), 0)

	counts := c.GateCounts()
	assert.Equal(t, counts[GateH], 2)
	assert.Equal(t, counts[GateCNOT], 1)
}

func TestCircuitClone(t *testing.T) {
	c, _ := NewCircuit(2)
	c.Add(mustGate(t, H(0)))

	clone := c.Clone()
	assert.Equal(t, clone.NumQubits, c.NumQubits)
	assert.Equal(t, clone.Len(), c.Len())

	clone.Add(mustGate(t, X(1)))
	assert.Equal(t, c.Len(), 1)
	assert.Equal(t, clone.Len(), 2)
}

func TestCircuitQASM(t *testing.T) {
	c, _ := NewCircuit(2)
	c.Add(mustGate(t, H(0)))
	c.Add(mustGate(t, CNOT(0, 1)))
	out := c.QASM()
	assert.Contains(t, out, "OPENQASM 3.0;")
	assert.Contains(t, out, "qubit[2] q;")
	assert.Contains(t, out, "h q[0];")
	assert.Contains(t, out, "cx q[0], q[1];")
}
