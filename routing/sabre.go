package routing

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oqtopus-team/qopt/ir"
)

const (
	// DefaultLookahead bounds the extended set used in SWAP scoring.
	DefaultLookahead = 20
	// DefaultExtendedWeight scales the extended-set term of the score.
	DefaultExtendedWeight = 0.5
	// DefaultDecay is applied uniformly to extended-set contributions.
	DefaultDecay = 0.5
)

// SabreRouter implements SABRE-style heuristic routing (Li, Ding, and Xie,
// "Tackling the Qubit Mapping Problem for NISQ-Era Quantum Devices",
// ASPLOS 2019): dispatch the front layer, and when nothing can execute,
// score candidate SWAPs over the active qubits and apply the best one.
// The router is deterministic for a given input and parameter set.
type SabreRouter struct {
	Lookahead      int
	ExtendedWeight float64
	Decay          float64
}

// NewSabreRouter returns a router with the default parameters.
func NewSabreRouter() *SabreRouter {
	return &SabreRouter{
		Lookahead:      DefaultLookahead,
		ExtendedWeight: DefaultExtendedWeight,
		Decay:          DefaultDecay,
	}
}

func (r *SabreRouter) Name() string { return "sabre" }

// Route maps the logical circuit onto the topology, inserting SWAPs so every
// two-qubit gate lands on adjacent physical qubits.
func (r *SabreRouter) Route(c *ir.Circuit, t *Topology) (*Result, error) {
	if err := validateRouteInputs(c, t); err != nil {
		return nil, err
	}
	if c.Empty() {
		routed, err := ir.NewCircuit(t.NumQubits())
		if err != nil {
			return nil, err
		}
		mapping := identityMapping(c.NumQubits)
		return &Result{
			Circuit:        routed,
			InitialMapping: mapping,
			FinalMapping:   append([]int(nil), mapping...),
		}, nil
	}

	originalDepth := c.Depth()
	mapping := identityMapping(c.NumQubits)
	reverse := make([]int, t.NumQubits())
	for i := range reverse {
		reverse[i] = -1
	}
	for logical, physical := range mapping {
		reverse[physical] = logical
	}

	dag, err := ir.FromCircuit(c)
	if err != nil {
		return nil, err
	}
	remaining := make(map[ir.NodeID]int, dag.NumNodes())
	for _, id := range dag.NodeIDs() {
		n, err := dag.Node(id)
		if err != nil {
			return nil, err
		}
		remaining[id] = n.InDegree()
	}
	executed := make(map[ir.NodeID]bool, dag.NumNodes())

	routed, err := ir.NewCircuit(t.NumQubits())
	if err != nil {
		return nil, err
	}
	swaps := 0
	front := dag.Sources()

	for len(front) > 0 {
		var executedNow []ir.NodeID
		var blocked []ir.NodeID
		for _, id := range front {
			n, err := dag.Node(id)
			if err != nil {
				return nil, err
			}
			g := n.Gate()
			if g.NumQubits() == 1 {
				mapped, err := g.WithQubits(mapping[g.Qubit(0)])
				if err != nil {
					return nil, err
				}
				if err := routed.Add(mapped); err != nil {
					return nil, err
				}
				executedNow = append(executedNow, id)
				continue
			}
			p0 := mapping[g.Qubit(0)]
			p1 := mapping[g.Qubit(1)]
			if t.Connected(p0, p1) {
				mapped, err := g.WithQubits(p0, p1)
				if err != nil {
					return nil, err
				}
				if err := routed.Add(mapped); err != nil {
					return nil, err
				}
				executedNow = append(executedNow, id)
			} else {
				blocked = append(blocked, id)
			}
		}

		if len(executedNow) > 0 {
			for _, id := range executedNow {
				executed[id] = true
				n, err := dag.Node(id)
				if err != nil {
					return nil, err
				}
				for _, succ := range n.Successors() {
					remaining[succ]--
					if remaining[succ] == 0 {
						blocked = append(blocked, succ)
					}
				}
			}
			front = blocked
			continue
		}

		// Nothing executable: pick a SWAP.
		a, b, err := r.selectSwap(dag, t, mapping, front, executed)
		if err != nil {
			return nil, err
		}
		if err := applySwap(a, b, mapping, reverse, routed); err != nil {
			return nil, err
		}
		swaps++
	}

	zap.L().Debug(fmt.Sprintf("sabre inserted %d swaps over %d gates", swaps, c.Len()))
	return &Result{
		Circuit:        routed,
		InitialMapping: identityMapping(c.NumQubits),
		FinalMapping:   mapping,
		SwapsInserted:  swaps,
		OriginalDepth:  originalDepth,
		FinalDepth:     routed.Depth(),
	}, nil
}

// selectSwap scores every topology edge touching an active physical qubit and
// returns the best candidate, falling back to the first hop of a shortest
// path when no candidate strictly improves on the current mapping.
func (r *SabreRouter) selectSwap(
	dag *ir.DAG,
	t *Topology,
	mapping []int,
	front []ir.NodeID,
	executed map[ir.NodeID]bool,
) (int, int, error) {
	active := make(map[int]bool)
	for _, id := range front {
		n, err := dag.Node(id)
		if err != nil {
			return 0, 0, err
		}
		g := n.Gate()
		if g.NumQubits() == 2 {
			active[mapping[g.Qubit(0)]] = true
			active[mapping[g.Qubit(1)]] = true
		}
	}

	ext, err := r.extendedSet(dag, front, executed)
	if err != nil {
		return 0, 0, err
	}

	current, err := r.score(dag, t, mapping, front, ext)
	if err != nil {
		return 0, 0, err
	}

	bestA, bestB := -1, -1
	bestScore := 0.0
	found := false
	for _, e := range t.Edges() {
		a, b := e[0], e[1]
		if !active[a] && !active[b] {
			continue
		}
		trial := append([]int(nil), mapping...)
		swapOccupants(trial, a, b)
		s, err := r.score(dag, t, trial, front, ext)
		if err != nil {
			return 0, 0, err
		}
		better := !found || s < bestScore ||
			(s == bestScore && (a < bestA || (a == bestA && b < bestB)))
		if better {
			found = true
			bestScore = s
			bestA, bestB = a, b
		}
	}

	if found && bestScore < current {
		return bestA, bestB, nil
	}

	// Pathological case: force progress along a shortest path for the first
	// blocked two-qubit gate.
	for _, id := range front {
		n, err := dag.Node(id)
		if err != nil {
			return 0, 0, err
		}
		g := n.Gate()
		if g.NumQubits() != 2 {
			continue
		}
		path, err := t.ShortestPath(mapping[g.Qubit(0)], mapping[g.Qubit(1)])
		if err != nil {
			return 0, 0, fmt.Errorf("cannot route gate %s: %w", g, err)
		}
		if len(path) >= 2 {
			return path[0], path[1], nil
		}
	}
	return 0, 0, fmt.Errorf("no two-qubit gate in a blocked front layer (this is a bug)")
}

// extendedSet collects up to Lookahead not-yet-executed successors of the
// front layer, in deterministic front order.
func (r *SabreRouter) extendedSet(
	dag *ir.DAG,
	front []ir.NodeID,
	executed map[ir.NodeID]bool,
) ([]ir.NodeID, error) {
	var ext []ir.NodeID
	seen := make(map[ir.NodeID]bool)
	for _, id := range front {
		n, err := dag.Node(id)
		if err != nil {
			return nil, err
		}
		for _, succ := range n.Successors() {
			if len(ext) >= r.Lookahead {
				return ext, nil
			}
			if executed[succ] || seen[succ] {
				continue
			}
			seen[succ] = true
			ext = append(ext, succ)
		}
	}
	return ext, nil
}

// score sums the physical distances of the front-layer two-qubit gates under
// the given mapping, plus the decayed, weighted distances of the extended set.
func (r *SabreRouter) score(
	dag *ir.DAG,
	t *Topology,
	mapping []int,
	front []ir.NodeID,
	ext []ir.NodeID,
) (float64, error) {
	total := 0.0
	for _, id := range front {
		n, err := dag.Node(id)
		if err != nil {
			return 0, err
		}
		g := n.Gate()
		if g.NumQubits() != 2 {
			continue
		}
		d, err := t.Distance(mapping[g.Qubit(0)], mapping[g.Qubit(1)])
		if err != nil {
			return 0, err
		}
		total += float64(d)
	}
	for _, id := range ext {
		n, err := dag.Node(id)
		if err != nil {
			return 0, err
		}
		g := n.Gate()
		if g.NumQubits() != 2 {
			continue
		}
		d, err := t.Distance(mapping[g.Qubit(0)], mapping[g.Qubit(1)])
		if err != nil {
			return 0, err
		}
		total += r.Decay * r.ExtendedWeight * float64(d)
	}
	return total, nil
}

// swapOccupants exchanges the logical occupants of physical qubits a and b in
// a logical->physical mapping.
func swapOccupants(mapping []int, a, b int) {
	for logical, physical := range mapping {
		switch physical {
		case a:
			mapping[logical] = b
		case b:
			mapping[logical] = a
		}
	}
}

// applySwap emits a SWAP on the two physical qubits and updates both mapping
// directions atomically.
func applySwap(a, b int, mapping, reverse []int, routed *ir.Circuit) error {
	g, err := ir.SWAP(a, b)
	if err != nil {
		return err
	}
	if err := routed.Add(g); err != nil {
		return err
	}
	la, lb := reverse[a], reverse[b]
	if la != -1 {
		mapping[la] = b
	}
	if lb != -1 {
		mapping[lb] = a
	}
	reverse[a], reverse[b] = lb, la
	return nil
}
