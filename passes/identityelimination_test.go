//go:build unit
// +build unit

package passes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oqtopus-team/qopt/ir"
)

func TestIdentityEliminationZeroAngle(t *testing.T) {
	d := dagOf(t, 1,
		mustGate(t, ir.Rz(0, 0)),
		mustGate(t, ir.H(0)))

	p := NewIdentityEliminationPass(0)
	assert.Nil(t, p.Run(d))
	assert.Equal(t, p.GatesRemoved(), 1)
	assert.Equal(t, d.NumNodes(), 1)
}

func TestIdentityEliminationMultiplesOfTwoPi(t *testing.T) {
	d := dagOf(t, 1,
		mustGate(t, ir.Rz(0, 2*math.Pi)),
		mustGate(t, ir.Rx(0, -4*math.Pi)),
		mustGate(t, ir.Ry(0, 1e-12)))
	p := NewIdentityEliminationPass(0)
	assert.Nil(t, p.Run(d))
	assert.True(t, d.Empty())
}

func TestIdentityEliminationKeepsRealRotations(t *testing.T) {
	d := dagOf(t, 1,
		mustGate(t, ir.Rz(0, 0.5)),
		mustGate(t, ir.Rz(0, math.Pi)))
	p := NewIdentityEliminationPass(0)
	assert.Nil(t, p.Run(d))
	assert.Equal(t, d.NumNodes(), 2)
	assert.Equal(t, p.GatesRemoved(), 0)
}

func TestIdentityEliminationIgnoresNonRotations(t *testing.T) {
	d := dagOf(t, 2,
		mustGate(t, ir.H(0)),
		mustGate(t, ir.CNOT(0, 1)))
	p := NewIdentityEliminationPass(0)
	assert.Nil(t, p.Run(d))
	assert.Equal(t, d.NumNodes(), 2)
}

func TestIdentityEliminationTolerance(t *testing.T) {
	d := dagOf(t, 1, mustGate(t, ir.Rz(0, 1e-3)))

	strict := NewIdentityEliminationPass(1e-6)
	assert.Nil(t, strict.Run(d))
	assert.Equal(t, d.NumNodes(), 1)

	loose := NewIdentityEliminationPass(1e-2)
	assert.Nil(t, loose.Run(d))
	assert.True(t, d.Empty())
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, normalizeAngle(0), 0, 1e-15)
	assert.InDelta(t, normalizeAngle(math.Pi/2), math.Pi/2, 1e-15)
	assert.InDelta(t, normalizeAngle(3*math.Pi), math.Pi, 1e-12)
	assert.InDelta(t, normalizeAngle(-math.Pi), math.Pi, 1e-12)
	assert.InDelta(t, normalizeAngle(5*math.Pi/2), math.Pi/2, 1e-12)
	assert.True(t, normalizeAngle(-3*math.Pi/2) > 0)
}
