package ir

import (
	"errors"
	"fmt"
	"sort"
)

// NodeID identifies a node within one DAG. IDs are dense at construction and
// stable for the DAG's lifetime; removal leaves gaps rather than renumbering.
type NodeID int

// InvalidNode marks "no node", used in the per-qubit last-gate table.
const InvalidNode NodeID = -1

// ErrNodeNotFound is wrapped by every lookup failure on a node id.
var ErrNodeNotFound = errors.New("node not found")

// ErrCycle signals a cycle during traversal. The construction rules make
// cycles unreachable, so seeing this means a bug in the DAG itself.
var ErrCycle = errors.New("dependency graph contains a cycle")

// DAGNode wraps one gate together with its dependency edges. Predecessors
// must execute before the node, successors depend on it. Nodes are owned by
// their DAG; the edge lists are managed there.
type DAGNode struct {
	gate  Gate
	preds []NodeID
	succs []NodeID
}

func (n *DAGNode) Gate() Gate { return n.gate }

// Predecessors returns the direct predecessor ids. The returned slice is a copy.
func (n *DAGNode) Predecessors() []NodeID {
	return append([]NodeID(nil), n.preds...)
}

// Successors returns the direct successor ids. The returned slice is a copy.
func (n *DAGNode) Successors() []NodeID {
	return append([]NodeID(nil), n.succs...)
}

func (n *DAGNode) InDegree() int  { return len(n.preds) }
func (n *DAGNode) OutDegree() int { return len(n.succs) }
func (n *DAGNode) IsSource() bool { return len(n.preds) == 0 }
func (n *DAGNode) IsSink() bool   { return len(n.succs) == 0 }

// DAG is the dependency-graph form of a circuit. Nodes are gates; an edge
// u -> v means v must not execute before u. Two gates that share a qubit are
// always ordered by a path. As built by Add (or Reorder) the graph is exactly
// the union of the per-qubit wire chains; Remove links every predecessor of
// the removed node to every successor, which can add edges between gates on
// disjoint qubits.
type DAG struct {
	numQubits   int
	nodes       map[NodeID]*DAGNode
	lastOnQubit []NodeID
	nextID      NodeID
}

// NewDAG builds an empty DAG over the given register size.
func NewDAG(numQubits int) (*DAG, error) {
	if numQubits <= 0 {
		return nil, fmt.Errorf("dag needs at least 1 qubit, got %d", numQubits)
	}
	last := make([]NodeID, numQubits)
	for i := range last {
		last[i] = InvalidNode
	}
	return &DAG{
		numQubits:   numQubits,
		nodes:       make(map[NodeID]*DAGNode),
		lastOnQubit: last,
	}, nil
}

// FromCircuit converts a circuit to its dependency DAG by adding each gate in
// program order.
func FromCircuit(c *Circuit) (*DAG, error) {
	d, err := NewDAG(c.NumQubits)
	if err != nil {
		return nil, err
	}
	for _, g := range c.Gates {
		if _, err := d.Add(g); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *DAG) NumQubits() int { return d.numQubits }
func (d *DAG) NumNodes() int  { return len(d.nodes) }
func (d *DAG) Empty() bool    { return len(d.nodes) == 0 }

// Add inserts a gate, wiring an edge from the latest gate on each of its
// qubits (once per distinct predecessor). Returns the fresh node id.
func (d *DAG) Add(g Gate) (NodeID, error) {
	for _, q := range g.Qubits() {
		if q >= d.numQubits {
			return InvalidNode, fmt.Errorf("gate %s references qubit %d but the dag only has %d qubits",
				g.Kind(), q, d.numQubits)
		}
	}
	id := d.nextID
	d.nextID++
	node := &DAGNode{gate: g}
	d.nodes[id] = node
	for _, q := range g.Qubits() {
		pred := d.lastOnQubit[q]
		if pred != InvalidNode && !containsID(node.preds, pred) {
			node.preds = append(node.preds, pred)
			d.nodes[pred].succs = append(d.nodes[pred].succs, id)
		}
		d.lastOnQubit[q] = id
	}
	return id, nil
}

// Node returns the node for the given id.
func (d *DAG) Node(id NodeID) (*DAGNode, error) {
	n, ok := d.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	return n, nil
}

// HasNode reports whether the id names a present node.
func (d *DAG) HasNode(id NodeID) bool {
	_, ok := d.nodes[id]
	return ok
}

// Remove deletes a node, reconnecting every predecessor to every successor so
// the remaining dependencies are preserved, and repairs the per-qubit
// last-gate table.
func (d *DAG) Remove(id NodeID) error {
	target, ok := d.nodes[id]
	if !ok {
		return fmt.Errorf("cannot remove node %d: %w", id, ErrNodeNotFound)
	}
	for _, pred := range target.preds {
		p := d.nodes[pred]
		p.succs = removeID(p.succs, id)
		for _, succ := range target.succs {
			if !containsID(p.succs, succ) {
				p.succs = append(p.succs, succ)
			}
		}
	}
	for _, succ := range target.succs {
		s := d.nodes[succ]
		s.preds = removeID(s.preds, id)
		for _, pred := range target.preds {
			if !containsID(s.preds, pred) {
				s.preds = append(s.preds, pred)
			}
		}
	}
	for _, q := range target.gate.Qubits() {
		if d.lastOnQubit[q] != id {
			continue
		}
		// The latest still-present predecessor touching q takes over.
		newLast := InvalidNode
		for _, pred := range target.preds {
			if d.nodes[pred].gate.Touches(q) && pred > newLast {
				newLast = pred
			}
		}
		d.lastOnQubit[q] = newLast
	}
	delete(d.nodes, id)
	return nil
}

// ReplaceGate swaps the gate held by a node for another gate on the same
// operand list. Used by passes that rewrite in place (e.g. rotation merging);
// keeping the qubit list fixed keeps every wire chain intact.
func (d *DAG) ReplaceGate(id NodeID, g Gate) error {
	n, ok := d.nodes[id]
	if !ok {
		return fmt.Errorf("cannot replace gate of node %d: %w", id, ErrNodeNotFound)
	}
	if !n.gate.SameQubits(g) {
		return fmt.Errorf("replacement gate %s does not act on the same qubits as %s", g, n.gate)
	}
	n.gate = g
	return nil
}

// NodeIDs returns the present node ids in ascending order.
func (d *DAG) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(d.nodes))
	for id := range d.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Sources returns the ids of nodes with no predecessors, ascending.
func (d *DAG) Sources() []NodeID {
	var out []NodeID
	for _, id := range d.NodeIDs() {
		if d.nodes[id].IsSource() {
			out = append(out, id)
		}
	}
	return out
}

// Sinks returns the ids of nodes with no successors, ascending.
func (d *DAG) Sinks() []NodeID {
	var out []NodeID
	for _, id := range d.NodeIDs() {
		if d.nodes[id].IsSink() {
			out = append(out, id)
		}
	}
	return out
}

// HasEdge reports whether a direct edge from -> to exists.
func (d *DAG) HasEdge(from, to NodeID) bool {
	n, ok := d.nodes[from]
	if !ok || !d.HasNode(to) {
		return false
	}
	return containsID(n.succs, to)
}

// Edges returns every (from, to) pair, ordered by from then insertion order.
func (d *DAG) Edges() [][2]NodeID {
	var out [][2]NodeID
	for _, id := range d.NodeIDs() {
		for _, succ := range d.nodes[id].succs {
			out = append(out, [2]NodeID{id, succ})
		}
	}
	return out
}

// TopologicalOrder returns the node ids in an order respecting every edge
// (Kahn's algorithm with a FIFO queue seeded with the sources in ascending id
// order; newly ready nodes join the queue in successor-list order, so the
// order is deterministic).
func (d *DAG) TopologicalOrder() ([]NodeID, error) {
	if len(d.nodes) == 0 {
		return nil, nil
	}
	inDeg := make(map[NodeID]int, len(d.nodes))
	for id, n := range d.nodes {
		inDeg[id] = n.InDegree()
	}
	ready := make([]NodeID, 0)
	for _, id := range d.NodeIDs() {
		if inDeg[id] == 0 {
			ready = append(ready, id)
		}
	}
	out := make([]NodeID, 0, len(d.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		out = append(out, id)
		for _, succ := range d.nodes[id].succs {
			inDeg[succ]--
			if inDeg[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}
	if len(out) != len(d.nodes) {
		return nil, fmt.Errorf("topological sort visited %d of %d nodes: %w (this is a bug)",
			len(out), len(d.nodes), ErrCycle)
	}
	return out, nil
}

// Layers partitions the nodes into parallel execution levels: layer k holds
// the nodes whose predecessors all sit in earlier layers.
func (d *DAG) Layers() ([][]NodeID, error) {
	if len(d.nodes) == 0 {
		return nil, nil
	}
	inDeg := make(map[NodeID]int, len(d.nodes))
	for id, n := range d.nodes {
		inDeg[id] = n.InDegree()
	}
	remaining := len(d.nodes)
	var out [][]NodeID
	for remaining > 0 {
		var layer []NodeID
		for _, id := range d.NodeIDs() {
			if deg, ok := inDeg[id]; ok && deg == 0 {
				layer = append(layer, id)
			}
		}
		if len(layer) == 0 {
			return nil, fmt.Errorf("no ready nodes among %d remaining: %w (this is a bug)",
				remaining, ErrCycle)
		}
		for _, id := range layer {
			delete(inDeg, id)
			remaining--
			for _, succ := range d.nodes[id].succs {
				if _, ok := inDeg[succ]; ok {
					inDeg[succ]--
				}
			}
		}
		out = append(out, layer)
	}
	return out, nil
}

// Depth is the number of layers.
func (d *DAG) Depth() (int, error) {
	layers, err := d.Layers()
	if err != nil {
		return 0, err
	}
	return len(layers), nil
}

// ToCircuit lowers the DAG back to a circuit by emitting gates in
// topological order.
func (d *DAG) ToCircuit() (*Circuit, error) {
	order, err := d.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	c, err := NewCircuit(d.numQubits)
	if err != nil {
		return nil, err
	}
	for _, id := range order {
		if err := c.Add(d.nodes[id].gate); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Reorder rebuilds every dependency edge as if the gates executed in the
// given sequence, keeping node ids and gates untouched. The sequence must be
// a permutation of the present node ids. Callers (the commutation pass) are
// responsible for only requesting orders that are equivalent under gate
// commutation; the per-qubit chain invariant holds for any permutation by
// construction.
func (d *DAG) Reorder(seq []NodeID) error {
	if len(seq) != len(d.nodes) {
		return fmt.Errorf("reorder sequence has %d ids, dag has %d nodes", len(seq), len(d.nodes))
	}
	seen := make(map[NodeID]bool, len(seq))
	for _, id := range seq {
		if !d.HasNode(id) {
			return fmt.Errorf("reorder sequence: node %d: %w", id, ErrNodeNotFound)
		}
		if seen[id] {
			return fmt.Errorf("reorder sequence mentions node %d twice", id)
		}
		seen[id] = true
	}
	for _, n := range d.nodes {
		n.preds = nil
		n.succs = nil
	}
	for i := range d.lastOnQubit {
		d.lastOnQubit[i] = InvalidNode
	}
	for _, id := range seq {
		node := d.nodes[id]
		for _, q := range node.gate.Qubits() {
			pred := d.lastOnQubit[q]
			if pred != InvalidNode && !containsID(node.preds, pred) {
				node.preds = append(node.preds, pred)
				d.nodes[pred].succs = append(d.nodes[pred].succs, id)
			}
			d.lastOnQubit[q] = id
		}
	}
	return nil
}

// LastOnQubit returns the id of the latest present gate touching q, or
// InvalidNode when no present gate does.
func (d *DAG) LastOnQubit(q int) (NodeID, error) {
	if q < 0 || q >= d.numQubits {
		return InvalidNode, fmt.Errorf("qubit index %d out of range [0, %d)", q, d.numQubits)
	}
	return d.lastOnQubit[q], nil
}

func (d *DAG) String() string {
	order, err := d.TopologicalOrder()
	if err != nil {
		return fmt.Sprintf("DAG(%d qubits, %d nodes, invalid: %s)", d.numQubits, len(d.nodes), err)
	}
	out := fmt.Sprintf("DAG(%d qubits, %d nodes):\n", d.numQubits, len(d.nodes))
	for _, id := range order {
		n := d.nodes[id]
		out += fmt.Sprintf("  [%d] %s", id, n.gate)
		if len(n.preds) > 0 {
			out += fmt.Sprintf(" <- %v", n.preds)
		}
		out += "\n"
	}
	return out
}

func containsID(ids []NodeID, id NodeID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
