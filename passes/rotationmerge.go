package passes

import (
	"github.com/oqtopus-team/qopt/ir"
)

// RotationMergePass combines wire-adjacent rotations of the same axis on the
// same qubit: Rz(a) Rz(b) -> Rz(a+b), likewise for Rx and Ry. Merged angles
// are normalized into (-pi, pi]. The pass sweeps until a sweep changes
// nothing, so chains of any length collapse to one gate.
type RotationMergePass struct {
	counters
}

func NewRotationMergePass() *RotationMergePass {
	return &RotationMergePass{}
}

func (p *RotationMergePass) Name() string { return RotationMergeName }

func (p *RotationMergePass) Run(d *ir.DAG) error {
	p.reset()

	for {
		changed := false
		order, err := d.TopologicalOrder()
		if err != nil {
			return err
		}
		marked := make(map[ir.NodeID]bool)

		for _, id := range order {
			if marked[id] || !d.HasNode(id) {
				continue
			}
			node, err := d.Node(id)
			if err != nil {
				return err
			}
			g := node.Gate()
			if !g.Kind().IsRotation() {
				continue
			}
			for _, succ := range node.Successors() {
				if marked[succ] || !d.HasNode(succ) {
					continue
				}
				succNode, err := d.Node(succ)
				if err != nil {
					return err
				}
				sg := succNode.Gate()
				if sg.Kind() != g.Kind() || !g.SameQubits(sg) {
					continue
				}
				merged, err := ir.NewGate(g.Kind(), g.Qubits(), angleOf(normalizeAngle(g.Angle()+sg.Angle())))
				if err != nil {
					return err
				}
				if err := d.ReplaceGate(id, merged); err != nil {
					return err
				}
				marked[succ] = true
				p.removed++
				changed = true
				break
			}
		}

		for id := range marked {
			if d.HasNode(id) {
				if err := d.Remove(id); err != nil {
					return err
				}
			}
		}
		if !changed {
			return nil
		}
	}
}

func angleOf(a float64) *float64 { return &a }
