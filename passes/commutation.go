package passes

import (
	"github.com/oqtopus-team/qopt/ir"
)

// CommutationPass reorders commuting gate pairs to set up cancellation and
// merge opportunities for the other passes. It never adds or removes gates;
// Reorders() reports how many exchanges the last Run performed.
//
// An exchange moves a node u in front of its sole predecessor p when the two
// commute and doing so lands u next to an earlier gate it could cancel or
// merge with. The DAG is rewritten by re-materializing every wire for the
// permuted execution order, which keeps all per-qubit chains intact.
// Restricting exchanges to sole-predecessor pairs guarantees that no third
// gate sits between p and u on any wire of u, so exchanging exactly the pair
// is sound.
type CommutationPass struct {
	counters
	reorders int
}

func NewCommutationPass() *CommutationPass {
	return &CommutationPass{}
}

func (p *CommutationPass) Name() string { return CommutationName }

// Reorders returns how many pair exchanges the last Run performed. These are
// not counted as removed or added gates.
func (p *CommutationPass) Reorders() int { return p.reorders }

func (p *CommutationPass) Run(d *ir.DAG) error {
	p.reset()
	p.reorders = 0

	// The benefit test makes most exchanges terminal (the pair it sets up is
	// consumed by a later pass), but cap the sweeps anyway.
	maxSweeps := d.NumNodes() + 1
	for sweep := 0; sweep < maxSweeps; sweep++ {
		changed, err := p.sweep(d)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
	return nil
}

func (p *CommutationPass) sweep(d *ir.DAG) (bool, error) {
	order, err := d.TopologicalOrder()
	if err != nil {
		return false, err
	}
	pos := make(map[ir.NodeID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}

	for _, uID := range order {
		u, err := d.Node(uID)
		if err != nil {
			return false, err
		}
		preds := u.Predecessors()
		if len(preds) != 1 {
			continue
		}
		pID := preds[0]
		pn, err := d.Node(pID)
		if err != nil {
			return false, err
		}
		pg, ug := pn.Gate(), u.Gate()
		if !commute(pg, ug) {
			continue
		}
		// If the pair itself already cancels or merges, reordering it is
		// pointless and would just undo itself.
		if couldCancel(pg, ug) || couldMerge(pg, ug) {
			continue
		}
		if !p.beneficial(d, pn, ug) {
			continue
		}
		if err := p.exchange(d, order, pos[pID], pos[uID]); err != nil {
			return false, err
		}
		p.reorders++
		return true, nil
	}
	return false, nil
}

// beneficial reports whether moving u before p would land u next to a
// predecessor of p it could cancel or merge with.
func (p *CommutationPass) beneficial(d *ir.DAG, pn *ir.DAGNode, ug ir.Gate) bool {
	for _, wID := range pn.Predecessors() {
		w, err := d.Node(wID)
		if err != nil {
			continue
		}
		wg := w.Gate()
		if couldCancel(wg, ug) || couldMerge(wg, ug) {
			return true
		}
	}
	return false
}

// exchange moves the node at position j immediately before the node at
// position i (i < j) and rebuilds the DAG's wires for the new order.
func (p *CommutationPass) exchange(d *ir.DAG, order []ir.NodeID, i, j int) error {
	seq := make([]ir.NodeID, 0, len(order))
	seq = append(seq, order[:i]...)
	seq = append(seq, order[j])
	seq = append(seq, order[i:j]...)
	seq = append(seq, order[j+1:]...)
	return d.Reorder(seq)
}

// commute implements the closed commutation rule set. No commutation beyond
// these rules is assumed.
func commute(g, h ir.Gate) bool {
	if !g.Overlaps(h) {
		return true
	}
	if g.Kind() == h.Kind() && g.SameQubits(h) {
		return true
	}
	if isDiagonal(g.Kind()) && isDiagonal(h.Kind()) {
		return true
	}
	// A Z-like gate on the control wire passes through a CNOT.
	if isZLike(g.Kind()) && h.Kind() == ir.GateCNOT && g.Qubit(0) == h.Qubit(0) {
		return true
	}
	if isZLike(h.Kind()) && g.Kind() == ir.GateCNOT && h.Qubit(0) == g.Qubit(0) {
		return true
	}
	// X on the target wire passes through a CNOT.
	if g.Kind() == ir.GateX && h.Kind() == ir.GateCNOT && g.Qubit(0) == h.Qubit(1) {
		return true
	}
	if h.Kind() == ir.GateX && g.Kind() == ir.GateCNOT && h.Qubit(0) == g.Qubit(1) {
		return true
	}
	return false
}

// isDiagonal reports kinds diagonal in the computational basis.
func isDiagonal(k ir.GateKind) bool {
	switch k {
	case ir.GateZ, ir.GateS, ir.GateSdg, ir.GateT, ir.GateTdg, ir.GateRz, ir.GateCZ:
		return true
	default:
		return false
	}
}

// isZLike reports diagonal single-qubit kinds.
func isZLike(k ir.GateKind) bool {
	switch k {
	case ir.GateZ, ir.GateS, ir.GateSdg, ir.GateT, ir.GateTdg, ir.GateRz:
		return true
	default:
		return false
	}
}

func couldCancel(g, h ir.Gate) bool {
	return g.SameQubits(h) && cancels(g, h)
}

func couldMerge(g, h ir.Gate) bool {
	return g.Kind() == h.Kind() && g.Kind().IsRotation() && g.SameQubits(h)
}
