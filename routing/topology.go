package routing

import (
	"fmt"
	"math"
)

// Infinite is the distance reported for disconnected qubit pairs. It is the
// same value BFS uses for "never reached".
const Infinite = math.MaxInt

// Topology models the physical qubit connectivity of a device as an
// undirected graph: nodes are physical qubits, edges are the pairs that can
// execute a two-qubit gate directly. All-pairs distances are computed by BFS
// on first use and cached until the edge set changes.
type Topology struct {
	numQubits int
	adjacency [][]int
	edges     [][2]int

	distCache    [][]int
	distComputed bool
}

// NewTopology builds an edgeless topology over the given qubit count.
func NewTopology(numQubits int) (*Topology, error) {
	if numQubits <= 0 {
		return nil, fmt.Errorf("topology needs at least 1 qubit, got %d", numQubits)
	}
	return &Topology{
		numQubits: numQubits,
		adjacency: make([][]int, numQubits),
	}, nil
}

func (t *Topology) NumQubits() int { return t.numQubits }
func (t *Topology) NumEdges() int  { return len(t.edges) }

// Edges returns every edge as a (min, max) pair in insertion order. The
// returned slice is a copy.
func (t *Topology) Edges() [][2]int {
	return append([][2]int(nil), t.edges...)
}

func (t *Topology) validateQubit(q int) error {
	if q < 0 || q >= t.numQubits {
		return fmt.Errorf("qubit index %d out of range [0, %d)", q, t.numQubits)
	}
	return nil
}

// AddEdge adds an undirected edge between two distinct qubits. Duplicate
// adds are idempotent. Any change invalidates the distance cache.
func (t *Topology) AddEdge(p, q int) error {
	if err := t.validateQubit(p); err != nil {
		return err
	}
	if err := t.validateQubit(q); err != nil {
		return err
	}
	if p == q {
		return fmt.Errorf("cannot add a self-loop on qubit %d", p)
	}
	if t.Connected(p, q) {
		return nil
	}
	t.adjacency[p] = append(t.adjacency[p], q)
	t.adjacency[q] = append(t.adjacency[q], p)
	if p < q {
		t.edges = append(t.edges, [2]int{p, q})
	} else {
		t.edges = append(t.edges, [2]int{q, p})
	}
	t.distComputed = false
	return nil
}

// Connected reports whether p and q are directly adjacent. A qubit counts as
// connected to itself; out-of-range indices are simply not connected.
func (t *Topology) Connected(p, q int) bool {
	if p < 0 || p >= t.numQubits || q < 0 || q >= t.numQubits {
		return false
	}
	if p == q {
		return true
	}
	for _, n := range t.adjacency[p] {
		if n == q {
			return true
		}
	}
	return false
}

// Neighbors returns the qubits directly adjacent to q, in edge insertion
// order. The returned slice is a copy.
func (t *Topology) Neighbors(q int) ([]int, error) {
	if err := t.validateQubit(q); err != nil {
		return nil, err
	}
	return append([]int(nil), t.adjacency[q]...), nil
}

// Distance returns the number of hops on the shortest path between p and q,
// or Infinite when they are disconnected.
func (t *Topology) Distance(p, q int) (int, error) {
	if err := t.validateQubit(p); err != nil {
		return 0, err
	}
	if err := t.validateQubit(q); err != nil {
		return 0, err
	}
	if p == q {
		return 0, nil
	}
	t.ensureDistances()
	return t.distCache[p][q], nil
}

// ShortestPath returns the qubits on a shortest path from p to q, both
// endpoints included. The path is chosen by BFS parent pointers, so it is
// deterministic for a given edge insertion order.
func (t *Topology) ShortestPath(p, q int) ([]int, error) {
	if err := t.validateQubit(p); err != nil {
		return nil, err
	}
	if err := t.validateQubit(q); err != nil {
		return nil, err
	}
	if p == q {
		return []int{p}, nil
	}
	parent := make([]int, t.numQubits)
	for i := range parent {
		parent[i] = -1
	}
	parent[p] = p
	queue := []int{p}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == q {
			break
		}
		for _, n := range t.adjacency[cur] {
			if parent[n] == -1 {
				parent[n] = cur
				queue = append(queue, n)
			}
		}
	}
	if parent[q] == -1 {
		return nil, fmt.Errorf("no path between qubits %d and %d", p, q)
	}
	var path []int
	for cur := q; cur != p; cur = parent[cur] {
		path = append(path, cur)
	}
	path = append(path, p)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// IsConnected reports whether every qubit can reach every other qubit.
func (t *Topology) IsConnected() bool {
	if t.numQubits <= 1 {
		return true
	}
	visited := make([]bool, t.numQubits)
	visited[0] = true
	queue := []int{0}
	count := 1
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range t.adjacency[cur] {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
				count++
			}
		}
	}
	return count == t.numQubits
}

func (t *Topology) ensureDistances() {
	if t.distComputed {
		return
	}
	t.distCache = make([][]int, t.numQubits)
	for start := 0; start < t.numQubits; start++ {
		dist := make([]int, t.numQubits)
		for i := range dist {
			dist[i] = Infinite
		}
		dist[start] = 0
		queue := []int{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range t.adjacency[cur] {
				if dist[n] == Infinite {
					dist[n] = dist[cur] + 1
					queue = append(queue, n)
				}
			}
		}
		t.distCache[start] = dist
	}
	t.distComputed = true
}

func (t *Topology) String() string {
	out := fmt.Sprintf("Topology(%d qubits, %d edges):", t.numQubits, len(t.edges))
	for i, e := range t.edges {
		if i == 0 {
			out += " "
		} else {
			out += ", "
		}
		out += fmt.Sprintf("(%d-%d)", e[0], e[1])
	}
	return out
}

// Linear builds a chain 0-1-...-n-1.
func Linear(n int) (*Topology, error) {
	t, err := NewTopology(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i+1 < n; i++ {
		if err := t.AddEdge(i, i+1); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Ring builds a chain closed back to qubit 0. Needs at least 2 qubits.
func Ring(n int) (*Topology, error) {
	if n < 2 {
		return nil, fmt.Errorf("ring topology needs at least 2 qubits, got %d", n)
	}
	t, err := Linear(n)
	if err != nil {
		return nil, err
	}
	if err := t.AddEdge(0, n-1); err != nil {
		return nil, err
	}
	return t, nil
}

// Grid builds a rows x cols nearest-neighbor lattice, numbered row-major.
func Grid(rows, cols int) (*Topology, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", rows, cols)
	}
	t, err := NewTopology(rows * cols)
	if err != nil {
		return nil, err
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			q := r*cols + c
			if c+1 < cols {
				if err := t.AddEdge(q, q+1); err != nil {
					return nil, err
				}
			}
			if r+1 < rows {
				if err := t.AddEdge(q, q+cols); err != nil {
					return nil, err
				}
			}
		}
	}
	return t, nil
}

// HeavyHex builds a heavy-hex style lattice parameterized by distance d.
// d = 1 is the 7-qubit unit cell: a 6-cycle with a hub connected to every
// ring qubit. For d >= 2 this builds a simplified (2d+1)x(2d+1) lattice of
// horizontal chains with vertical rungs where row and column parity agree,
// not the literal IBM heavy-hex graph.
func HeavyHex(d int) (*Topology, error) {
	if d <= 0 {
		return nil, fmt.Errorf("heavy-hex distance must be positive, got %d", d)
	}
	if d == 1 {
		t, err := NewTopology(7)
		if err != nil {
			return nil, err
		}
		ring := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}}
		for _, e := range ring {
			if err := t.AddEdge(e[0], e[1]); err != nil {
				return nil, err
			}
		}
		for q := 0; q < 6; q++ {
			if err := t.AddEdge(6, q); err != nil {
				return nil, err
			}
		}
		return t, nil
	}
	rows := 2*d + 1
	cols := 2*d + 1
	t, err := NewTopology(rows * cols)
	if err != nil {
		return nil, err
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			q := r*cols + c
			if c+1 < cols {
				if err := t.AddEdge(q, q+1); err != nil {
					return nil, err
				}
			}
			if r+1 < rows && c%2 == r%2 {
				if err := t.AddEdge(q, q+cols); err != nil {
					return nil, err
				}
			}
		}
	}
	return t, nil
}

// FromEdges builds a topology from a raw unordered edge list.
func FromEdges(numQubits int, edges [][2]int) (*Topology, error) {
	t, err := NewTopology(numQubits)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err := t.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return t, nil
}
