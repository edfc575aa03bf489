package passes

import (
	"github.com/oqtopus-team/qopt/ir"
)

// IdentityEliminationPass drops rotation gates whose angle is an integer
// multiple of 2pi within the configured tolerance. Other kinds are never
// touched.
type IdentityEliminationPass struct {
	counters
	Tolerance float64
}

func NewIdentityEliminationPass(tolerance float64) *IdentityEliminationPass {
	if tolerance <= 0 {
		tolerance = DefaultIdentityTolerance
	}
	return &IdentityEliminationPass{Tolerance: tolerance}
}

func (p *IdentityEliminationPass) Name() string { return IdentityEliminationName }

func (p *IdentityEliminationPass) Run(d *ir.DAG) error {
	p.reset()

	order, err := d.TopologicalOrder()
	if err != nil {
		return err
	}
	var toRemove []ir.NodeID
	for _, id := range order {
		node, err := d.Node(id)
		if err != nil {
			return err
		}
		g := node.Gate()
		if g.Kind().IsRotation() && isEffectivelyZero(g.Angle(), p.Tolerance) {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		if err := d.Remove(id); err != nil {
			return err
		}
		p.removed++
	}
	return nil
}
