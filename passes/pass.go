package passes

import (
	"fmt"

	"github.com/oqtopus-team/qopt/ir"
)

// Pass is one rewrite over a circuit DAG. A pass may mutate the DAG in any
// way that preserves circuit equivalence, and reports how many gates the last
// Run removed and added.
type Pass interface {
	Name() string
	Run(d *ir.DAG) error
	GatesRemoved() int
	GatesAdded() int
}

// Pass names accepted in pipeline configuration. The set is closed.
const (
	CancellationName        = "cancellation"
	RotationMergeName       = "rotation_merge"
	IdentityEliminationName = "identity_elimination"
	CommutationName         = "commutation"
)

// NewPass builds a pass by its configuration name. identityTol is only used
// by identity elimination.
func NewPass(name string, identityTol float64) (Pass, error) {
	switch name {
	case CancellationName:
		return NewCancellationPass(), nil
	case RotationMergeName:
		return NewRotationMergePass(), nil
	case IdentityEliminationName:
		return NewIdentityEliminationPass(identityTol), nil
	case CommutationName:
		return NewCommutationPass(), nil
	default:
		return nil, fmt.Errorf("unknown pass name %q", name)
	}
}

// counters is the removed/added bookkeeping shared by all passes.
type counters struct {
	removed int
	added   int
}

func (c *counters) GatesRemoved() int { return c.removed }
func (c *counters) GatesAdded() int   { return c.added }

func (c *counters) reset() {
	c.removed = 0
	c.added = 0
}
