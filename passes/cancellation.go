package passes

import (
	"github.com/oqtopus-team/qopt/ir"
)

// CancellationPass removes adjacent gate pairs that compose to the identity:
// Hermitian kinds against themselves (H, X, Y, Z, CNOT, CZ, SWAP) and the
// adjoint pairs S/Sdg and T/Tdg. Rotations are left to the rotation-merge and
// identity-elimination passes, which subsume Rx(a)Rx(-a).
type CancellationPass struct {
	counters
}

func NewCancellationPass() *CancellationPass {
	return &CancellationPass{}
}

func (p *CancellationPass) Name() string { return CancellationName }

func (p *CancellationPass) Run(d *ir.DAG) error {
	p.reset()

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
		// First qualifying successor in successor-list order wins; each node
		// cancels at most once per sweep.
		for _, succ := range node.Successors() {
			if marked[succ] || !d.HasNode(succ) {
				continue
			}
			succNode, err := d.Node(succ)
			if err != nil {
				return err
			}
			sg := succNode.Gate()
			if g.SameQubits(sg) && cancels(g, sg) {
				marked[id] = true
				marked[succ] = true
				p.removed += 2
				break
			}
		}
	}

	// Remove in reverse topological order so reconnection never touches an
	// already-removed neighbor.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		if marked[id] && d.HasNode(id) {
			if err := d.Remove(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// cancels reports whether g followed directly by h composes to the identity.
func cancels(g, h ir.Gate) bool {
	if g.Kind().IsHermitian() {
		return g.Kind() == h.Kind()
	}
	switch g.Kind() {
	case ir.GateS:
		return h.Kind() == ir.GateSdg
	case ir.GateSdg:
		return h.Kind() == ir.GateS
	case ir.GateT:
		return h.Kind() == ir.GateTdg
	case ir.GateTdg:
		return h.Kind() == ir.GateT
	default:
		return false
	}
}
