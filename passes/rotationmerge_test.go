//go:build unit
// +build unit

package passes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oqtopus-team/qopt/ir"
)

func singleGate(t *testing.T, d *ir.DAG) ir.Gate {
	t.Helper()
	c, err := d.ToCircuit()
	assert.Nil(t, err)
	assert.Equal(t, c.Len(), 1)
	return c.Gates[0]
}

func TestRotationMergeAdjacentPair(t *testing.T) {
	d := dagOf(t, 1,
		mustGate(t, ir.Rx(0, math.Pi/4)),
		mustGate(t, ir.Rx(0, math.Pi/4)))

	p := NewRotationMergePass()
	assert.Nil(t, p.Run(d))
	assert.Equal(t, p.GatesRemoved(), 1)
	assert.Equal(t, d.NumNodes(), 1)

	g := singleGate(t, d)
	assert.Equal(t, g.Kind(), ir.GateRx)
	assert.InDelta(t, g.Angle(), math.Pi/2, 1e-12)
}

func TestRotationMergeChainCollapses(t *testing.T) {
	d := dagOf(t, 1,
		mustGate(t, ir.Rz(0, 0.3)),
		mustGate(t, ir.Rz(0, 0.3)),
		mustGate(t, ir.Rz(0, 0.4)))

	p := NewRotationMergePass()
	assert.Nil(t, p.Run(d))
	assert.Equal(t, p.GatesRemoved(), 2)

	g := singleGate(t, d)
	assert.InDelta(t, g.Angle(), 1.0, 1e-12)
}

func TestRotationMergeNormalizesIntoHalfOpenInterval(t *testing.T) {
	// 3pi/2 + pi = 5pi/2, reduced to pi/2
	d := dagOf(t, 1,
		mustGate(t, ir.Rz(0, 3*math.Pi/2)),
		mustGate(t, ir.Rz(0, math.Pi)))
	p := NewRotationMergePass()
	assert.Nil(t, p.Run(d))
	assert.InDelta(t, singleGate(t, d).Angle(), math.Pi/2, 1e-12)

	// -pi lands on +pi: the interval is (-pi, pi]
	d = dagOf(t, 1,
		mustGate(t, ir.Ry(0, -math.Pi/2)),
		mustGate(t, ir.Ry(0, -math.Pi/2)))
	p = NewRotationMergePass()
	assert.Nil(t, p.Run(d))
	assert.InDelta(t, singleGate(t, d).Angle(), math.Pi, 1e-12)
}

func TestRotationMergeDifferentAxesUntouched(t *testing.T) {
	d := dagOf(t, 1,
		mustGate(t, ir.Rx(0, 0.5)),
		mustGate(t, ir.Rz(0, 0.5)))
	p := NewRotationMergePass()
	assert.Nil(t, p.Run(d))
	assert.Equal(t, d.NumNodes(), 2)
}

func TestRotationMergeDifferentQubitsUntouched(t *testing.T) {
	d := dagOf(t, 2,
		mustGate(t, ir.Rz(0, 0.5)),
		mustGate(t, ir.Rz(1, 0.5)))
	p := NewRotationMergePass()
	assert.Nil(t, p.Run(d))
	assert.Equal(t, d.NumNodes(), 2)
}

func TestRotationMergeBlockedByInterveningGate(t *testing.T) {
	d := dagOf(t, 1,
		mustGate(t, ir.Rz(0, 0.5)),
		mustGate(t, ir.H(0)),
		mustGate(t, ir.Rz(0, 0.5)))
	p := NewRotationMergePass()
	assert.Nil(t, p.Run(d))
	assert.Equal(t, d.NumNodes(), 3)
}

func TestRotationMergeThenIdentityElimination(t *testing.T) {
	// Rz(pi/4) Rz(-pi/4) merges to Rz(0), which identity elimination drops
	d := dagOf(t, 1,
		mustGate(t, ir.Rz(0, math.Pi/4)),
		mustGate(t, ir.Rz(0, -math.Pi/4)))

	merge := NewRotationMergePass()
	assert.Nil(t, merge.Run(d))
	assert.Equal(t, d.NumNodes(), 1)

	elim := NewIdentityEliminationPass(0)
	assert.Nil(t, elim.Run(d))
	assert.True(t, d.Empty())
	assert.Equal(t, elim.GatesRemoved(), 1)
}
