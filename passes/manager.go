package passes

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oqtopus-team/qopt/ir"
)

// DefaultMaxIterations bounds the outer fixed-point loop of a Manager run.
const DefaultMaxIterations = 10

// PassEntry records what one pass did during one pipeline sweep.
type PassEntry struct {
	Name    string `json:"name"`
	Removed int    `json:"removed"`
	Added   int    `json:"added"`
}

// Statistics aggregates what a pipeline run did to the circuit.
type Statistics struct {
	InitialGateCount int         `json:"initial_gate_count"`
	FinalGateCount   int         `json:"final_gate_count"`
	TotalRemoved     int         `json:"total_removed"`
	TotalAdded       int         `json:"total_added"`
	PerPass          []PassEntry `json:"per_pass"`
}

// NetChange is added minus removed; negative means the circuit shrank.
func (s Statistics) NetChange() int {
	return s.TotalAdded - s.TotalRemoved
}

// ReductionPercent is the relative gate-count reduction, 0 for an empty input.
func (s Statistics) ReductionPercent() float64 {
	if s.InitialGateCount == 0 {
		return 0
	}
	return 100 * float64(s.InitialGateCount-s.FinalGateCount) / float64(s.InitialGateCount)
}

// Manager runs a pipeline of passes over a DAG, repeating the whole pipeline
// until a sweep changes nothing or MaxIterations is reached. Statistics are
// accumulated across sweeps and can be read back after Run.
type Manager struct {
	passes        []Pass
	MaxIterations int
	stats         Statistics
}

func NewManager() *Manager {
	return &Manager{MaxIterations: DefaultMaxIterations}
}

// AddPass appends a pass; passes run in the order added.
func (m *Manager) AddPass(p Pass) {
	m.passes = append(m.passes, p)
}

func (m *Manager) NumPasses() int { return len(m.passes) }
func (m *Manager) Empty() bool    { return len(m.passes) == 0 }

// Statistics returns the counters of the most recent Run.
func (m *Manager) Statistics() Statistics { return m.stats }

// Run executes the pipeline on the DAG in place.
func (m *Manager) Run(d *ir.DAG) error {
	m.stats = Statistics{InitialGateCount: d.NumNodes()}
	iterations := m.MaxIterations
	if iterations <= 0 {
		iterations = DefaultMaxIterations
	}
	for i := 0; i < iterations; i++ {
		changed := false
		for _, p := range m.passes {
			before := d.NumNodes()
			if err := p.Run(d); err != nil {
				return fmt.Errorf("pass %s failed: %w", p.Name(), err)
			}
			m.stats.TotalRemoved += p.GatesRemoved()
			m.stats.TotalAdded += p.GatesAdded()
			m.stats.PerPass = append(m.stats.PerPass, PassEntry{
				Name:    p.Name(),
				Removed: p.GatesRemoved(),
				Added:   p.GatesAdded(),
			})
			if p.GatesRemoved() > 0 || p.GatesAdded() > 0 || d.NumNodes() != before {
				changed = true
			}
			// Reordering passes change the DAG without touching counts.
			if r, ok := p.(interface{ Reorders() int }); ok && r.Reorders() > 0 {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	m.stats.FinalGateCount = d.NumNodes()
	zap.L().Debug(fmt.Sprintf("pass pipeline: %d -> %d gates (-%d/+%d)",
		m.stats.InitialGateCount, m.stats.FinalGateCount,
		m.stats.TotalRemoved, m.stats.TotalAdded))
	return nil
}

// RunCircuit lowers the circuit to a DAG, runs the pipeline, and lowers back.
func (m *Manager) RunCircuit(c *ir.Circuit) (*ir.Circuit, error) {
	d, err := ir.FromCircuit(c)
	if err != nil {
		return nil, err
	}
	if err := m.Run(d); err != nil {
		return nil, err
	}
	return d.ToCircuit()
}
