package routing

import (
	"fmt"

	"github.com/oqtopus-team/qopt/ir"
)

// Result carries the routed circuit together with the qubit mappings and the
// overhead counters a consumer needs to interpret it.
type Result struct {
	Circuit        *ir.Circuit `json:"-"`
	InitialMapping []int       `json:"initial_mapping"`
	FinalMapping   []int       `json:"final_mapping"`
	SwapsInserted  int         `json:"swaps_inserted"`
	OriginalDepth  int         `json:"original_depth"`
	FinalDepth     int         `json:"final_depth"`
}

// DepthOverhead is the depth added by routing (never negative).
func (r *Result) DepthOverhead() int {
	if r.FinalDepth > r.OriginalDepth {
		return r.FinalDepth - r.OriginalDepth
	}
	return 0
}

// GateOverhead counts the extra gates after decomposing each SWAP into 3 CNOTs.
func (r *Result) GateOverhead() int {
	return 3 * r.SwapsInserted
}

// Router adapts a logical circuit to a device topology: it maps logical to
// physical qubits and inserts SWAPs so that every two-qubit gate lands on an
// adjacent physical pair.
type Router interface {
	Name() string
	Route(c *ir.Circuit, t *Topology) (*Result, error)
}

func validateRouteInputs(c *ir.Circuit, t *Topology) error {
	if c.NumQubits > t.NumQubits() {
		return fmt.Errorf("circuit has %d qubits but the topology only has %d",
			c.NumQubits, t.NumQubits())
	}
	return nil
}

func identityMapping(n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = i
	}
	return m
}

// TrivialRouter performs no routing at all: identity mapping, zero SWAPs.
// Useful as a baseline and for circuits that already fit the topology.
type TrivialRouter struct{}

func (r *TrivialRouter) Name() string { return "trivial" }

func (r *TrivialRouter) Route(c *ir.Circuit, t *Topology) (*Result, error) {
	if err := validateRouteInputs(c, t); err != nil {
		return nil, err
	}
	mapping := identityMapping(c.NumQubits)
	routed := c.Clone()
	return &Result{
		Circuit:        routed,
		InitialMapping: mapping,
		FinalMapping:   append([]int(nil), mapping...),
		SwapsInserted:  0,
		OriginalDepth:  c.Depth(),
		FinalDepth:     routed.Depth(),
	}, nil
}
