package transpiler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/oqtopus-team/qopt/core"
	"github.com/oqtopus-team/qopt/ir"
	"github.com/oqtopus-team/qopt/passes"
	"github.com/oqtopus-team/qopt/qasm"
	"github.com/oqtopus-team/qopt/routing"
)

// CompileJob carries one program through the pipeline. The Report is filled
// in by Compile.
type CompileJob struct {
	ID   string `json:"id"`
	QASM string `json:"-"`

	Circuit *ir.Circuit `json:"-"` // parsed logical circuit
	Routed  *ir.Circuit `json:"-"` // final physical circuit

	Report *Report `json:"report"`
}

func NewCompileJob(qasmSource string) *CompileJob {
	return &CompileJob{
		ID:   uuid.NewString(),
		QASM: qasmSource,
	}
}

// Clone deep-copies the job. Circuits clone through their own method; the
// report is plain data.
func (j *CompileJob) Clone() *CompileJob {
	c := &CompileJob{ID: j.ID, QASM: j.QASM}
	if j.Report != nil {
		c.Report = deepcopy.Copy(j.Report).(*Report)
	}
	if j.Circuit != nil {
		c.Circuit = j.Circuit.Clone()
	}
	if j.Routed != nil {
		c.Routed = j.Routed.Clone()
	}
	return c
}

// Report is what the downstream consumer sees: counters, mappings, pass
// statistics, and the parser's warnings passed through untouched.
type Report struct {
	JobID             string             `json:"job_id"`
	Warnings          []string           `json:"warnings,omitempty"`
	Measurements      int                `json:"measurements,omitempty"`
	OriginalGateCount int                `json:"original_gate_count"`
	OriginalDepth     int                `json:"original_depth"`
	FinalGateCount    int                `json:"final_gate_count"`
	FinalDepth        int                `json:"final_depth"`
	Optimization      *passes.Statistics `json:"optimization,omitempty"`
	Routing           *routing.Result    `json:"routing,omitempty"`
}

// JSON renders the report as prettified JSON for logs and CLI output.
func (r *Report) JSON() string {
	raw, err := json.Marshal(r)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to marshal report/reason:%s", err))
		return ""
	}
	return string(pretty.Pretty(raw))
}

// Transpiler drives parse -> optimize -> route. Setup reads the component
// settings and the topology from the conf; Compile runs one job through.
type Transpiler struct {
	router   routing.Router
	manager  *passes.Manager
	topology *routing.Topology

	skipOptimization bool
	skipRouting      bool
}

func NewTranspiler(router routing.Router) *Transpiler {
	return &Transpiler{router: router}
}

// Setup configures the pipeline from the component settings and builds the
// target topology.
func (t *Transpiler) Setup(conf *core.Conf) error {
	ps := NewPassesSetting()
	if v, ok := core.GetComponentSetting(PassesSettingKey); ok {
		ps = toPassesSetting(v)
	}
	zap.L().Debug(fmt.Sprintf("passes setting:%v", ps))
	manager, err := newManager(ps)
	if err != nil {
		return err
	}
	t.manager = manager

	ss := NewSabreSetting()
	if v, ok := core.GetComponentSetting(SabreSettingKey); ok {
		ss = toSabreSetting(v)
	}
	zap.L().Debug(fmt.Sprintf("sabre setting:%v", ss))
	if sabre, ok := t.router.(*routing.SabreRouter); ok {
		sabre.Lookahead = ss.Lookahead
		sabre.ExtendedWeight = ss.ExtendedWeight
		sabre.Decay = ss.Decay
	}

	topology, err := buildTopology(conf)
	if err != nil {
		return err
	}
	t.topology = topology
	t.skipOptimization = conf.SkipOptimization
	t.skipRouting = conf.SkipRouting
	return nil
}

// Topology returns the target connectivity Setup built.
func (t *Transpiler) Topology() *routing.Topology {
	return t.topology
}

// Compile runs the job through the pipeline and fills in its report.
func (t *Transpiler) Compile(j *CompileJob) error {
	parsed, err := qasm.ParseQASM(j.QASM)
	if err != nil {
		return err
	}
	j.Circuit = parsed.Circuit

	report := &Report{
		JobID:             j.ID,
		Measurements:      len(parsed.Measurements),
		OriginalGateCount: parsed.Circuit.Len(),
		OriginalDepth:     parsed.Circuit.Depth(),
	}
	for _, w := range parsed.Warnings {
		report.Warnings = append(report.Warnings, w.String())
	}

	if !t.skipRouting && parsed.Circuit.NumQubits > t.topology.NumQubits() {
		return fmt.Errorf("circuit has %d qubits but the target topology only has %d",
			parsed.Circuit.NumQubits, t.topology.NumQubits())
	}

	current := parsed.Circuit
	if !t.skipOptimization {
		optimized, err := t.manager.RunCircuit(current)
		if err != nil {
			return err
		}
		stats := t.manager.Statistics()
		report.Optimization = &stats
		current = optimized
	}

	if t.skipRouting {
		j.Routed = current
	} else {
		result, err := t.router.Route(current, t.topology)
		if err != nil {
			return err
		}
		report.Routing = result
		j.Routed = result.Circuit
	}

	report.FinalGateCount = j.Routed.Len()
	report.FinalDepth = j.Routed.Depth()
	j.Report = report
	zap.L().Info(fmt.Sprintf("compiled job %s: %d -> %d gates, depth %d -> %d",
		j.ID, report.OriginalGateCount, report.FinalGateCount,
		report.OriginalDepth, report.FinalDepth))
	return nil
}

// buildTopology constructs the target connectivity the conf names.
func buildTopology(conf *core.Conf) (*routing.Topology, error) {
	switch conf.Topology {
	case "linear":
		return routing.Linear(conf.TopologyQubits)
	case "ring":
		return routing.Ring(conf.TopologyQubits)
	case "grid":
		return routing.Grid(conf.TopologyRows, conf.TopologyCols)
	case "heavy_hex":
		return routing.HeavyHex(conf.TopologyDistance)
	case "device":
		ds, err := routing.LoadDeviceSetting(conf.DeviceSettingPath)
		if err != nil {
			return nil, err
		}
		return ds.Topology()
	default:
		return nil, fmt.Errorf("%s is an unknown topology", conf.Topology)
	}
}
