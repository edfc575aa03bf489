package routing

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/oqtopus-team/qopt/common"
)

// DeviceSetting describes a physical device's connectivity in a toml file:
//
//	device_name = "example-7q"
//	qubits = 7
//	edges = [[0, 1], [1, 2], [2, 3]]
type DeviceSetting struct {
	DeviceName string  `toml:"device_name"`
	Qubits     int     `toml:"qubits"`
	Edges      [][]int `toml:"edges"`
}

func LoadDeviceSetting(path string) (*DeviceSetting, error) {
	blob, readErr := common.ReadFile(path)
	if readErr != nil {
		zap.L().Info(fmt.Sprintf("Failed to read file:%s Reason:%s", path, readErr))
		return nil, readErr
	}
	ds := &DeviceSetting{}
	if _, err := toml.Decode(blob, ds); err != nil {
		zap.L().Error(fmt.Sprintf("failed to decode blob:%s", blob))
		return nil, err
	}
	return ds, nil
}

// Topology builds the connectivity graph the setting describes.
func (ds *DeviceSetting) Topology() (*Topology, error) {
	edges := make([][2]int, 0, len(ds.Edges))
	for i, e := range ds.Edges {
		if len(e) != 2 {
			return nil, fmt.Errorf("edge %d of device %q has %d endpoints, want 2",
				i, ds.DeviceName, len(e))
		}
		edges = append(edges, [2]int{e[0], e[1]})
	}
	return FromEdges(ds.Qubits, edges)
}
