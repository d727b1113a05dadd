package devicesim

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mqss-project/qdmi-go/device"
)

// Calibration is the static description of one simulated backend: its
// name, qubit count, ring coupling map, native gate set, and per-site /
// per-pair calibration numbers. A real vendor plugin would ship this
// alongside its binary and reload it on Initialize, matching the yaml
// manifest kraftkit's plugins.PluginManager reads for each installed
// plugin (plugins/manager.go's PluginManifest).
type Calibration struct {
	Name           string             `yaml:"name"`
	DeviceVersion  string             `yaml:"device_version"`
	LibraryVersion string             `yaml:"library_version"`
	NumQubits      int                `yaml:"num_qubits"`
	GateSet        []string           `yaml:"gate_set"`
	T1             []float64          `yaml:"t1_us"`
	T2             []float64          `yaml:"t2_us"`
	PairFidelity   map[string]float64 `yaml:"pair_fidelity"`
}

// ParseCalibration parses a calibration fixture from its YAML source.
func ParseCalibration(src []byte) (*Calibration, error) {
	var c Calibration
	if err := yaml.Unmarshal(src, &c); err != nil {
		return nil, fmt.Errorf("could not parse device calibration: %w", err)
	}
	return &c, nil
}

// ringCouplingMap builds the flattened ring coupling map for n sites,
// each undirected edge listed once: (0,1),(1,2),...,(n-1,0).
func ringCouplingMap(n int) []device.SiteHandle {
	pairs := make([]device.SiteHandle, 0, 2*n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, device.SiteHandle(i), device.SiteHandle((i+1)%n))
	}
	return pairs
}

// pairKey canonicalizes a site pair for PairFidelity lookups: order does
// not matter for an undirected coupling.
func pairKey(a, b device.SiteHandle) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}

// defaultFiveQubitRing is the default calibration fixture: a 5-qubit ring
// device with CZ fidelity 0.99 at (0,1), 0.98 at (1,2), and no entry for
// (0,2) (not a coupled pair).
var defaultFiveQubitRing = &Calibration{
	Name:           "Device with 5 qubits",
	DeviceVersion:  "1.0.0",
	LibraryVersion: "0.1.0",
	NumQubits:      5,
	GateSet:        []string{"rx", "ry", "rz", "cz"},
	T1:             []float64{100, 102, 98, 101, 99},
	T2:             []float64{80, 79, 82, 81, 78},
	PairFidelity: map[string]float64{
		pairKey(0, 1): 0.99,
		pairKey(1, 2): 0.98,
		pairKey(2, 3): 0.97,
		pairKey(3, 4): 0.97,
		pairKey(4, 0): 0.96,
	},
}
