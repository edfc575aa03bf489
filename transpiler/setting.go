package transpiler

import (
	"fmt"

	"github.com/oqtopus-team/qopt/passes"
	"github.com/oqtopus-team/qopt/routing"
)

// PassesSettingKey names the pass pipeline section in the setting file.
const PassesSettingKey = "passes"

// SabreSettingKey names the router section in the setting file.
const SabreSettingKey = "sabre"

type PassesSetting struct {
	Pipeline      []string `toml:"pipeline"`
	MaxIterations int      `toml:"max_iterations"`
	IdentityTol   float64  `toml:"identity_tol"`
}

func NewPassesSetting() PassesSetting {
	return PassesSetting{
		Pipeline: []string{
			passes.CancellationName,
			passes.RotationMergeName,
			passes.IdentityEliminationName,
			passes.CommutationName,
		},
		MaxIterations: passes.DefaultMaxIterations,
		IdentityTol:   passes.DefaultIdentityTolerance,
	}
}

type SabreSetting struct {
	Lookahead      int     `toml:"lookahead"`
	ExtendedWeight float64 `toml:"extended_weight"`
	Decay          float64 `toml:"decay"`
}

func NewSabreSetting() SabreSetting {
	return SabreSetting{
		Lookahead:      routing.DefaultLookahead,
		ExtendedWeight: routing.DefaultExtendedWeight,
		Decay:          routing.DefaultDecay,
	}
}

// The setting registry hands back either the registered typed default or the
// map the toml decoder produced. The converters below accept both.

func toPassesSetting(v interface{}) PassesSetting {
	if s, ok := v.(PassesSetting); ok {
		return s
	}
	s := NewPassesSetting()
	mapped, ok := v.(map[string]interface{})
	if !ok {
		return s
	}
	if pipeline, ok := toStringSlice(mapped["pipeline"]); ok {
		s.Pipeline = pipeline
	}
	if n, ok := toInt(mapped["max_iterations"]); ok {
		s.MaxIterations = n
	}
	if f, ok := toFloat(mapped["identity_tol"]); ok {
		s.IdentityTol = f
	}
	return s
}

func toSabreSetting(v interface{}) SabreSetting {
	if s, ok := v.(SabreSetting); ok {
		return s
	}
	s := NewSabreSetting()
	mapped, ok := v.(map[string]interface{})
	if !ok {
		return s
	}
	if n, ok := toInt(mapped["lookahead"]); ok {
		s.Lookahead = n
	}
	if f, ok := toFloat(mapped["extended_weight"]); ok {
		s.ExtendedWeight = f
	}
	if f, ok := toFloat(mapped["decay"]); ok {
		s.Decay = f
	}
	return s
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case int64:
		return float64(f), true
	case int:
		return float64(f), true
	default:
		return 0, false
	}
}

func toStringSlice(v interface{}) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// newManager builds the pass pipeline the setting asks for.
func newManager(s PassesSetting) (*passes.Manager, error) {
	m := passes.NewManager()
	m.MaxIterations = s.MaxIterations
	for _, name := range s.Pipeline {
		p, err := passes.NewPass(name, s.IdentityTol)
		if err != nil {
			return nil, fmt.Errorf("invalid pass pipeline: %w", err)
		}
		m.AddPass(p)
	}
	return m, nil
}
