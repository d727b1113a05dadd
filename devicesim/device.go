// Package devicesim is a reference device plugin: a classical simulator of
// a ring-coupled superconducting-style qubit device. It implements
// device.Device directly (for static registration and for tests) and is
// also built as a Go plugin by devicesim/plugin/main.go, exporting the
// "_dev"-suffixed ABI symbols the driver's loader resolves.
//
// Organized the way a hypervisor backend might split across many small
// files (one file per machine concern): here device.go holds construction
// and lifecycle, sites.go site queries, properties.go device/operation
// queries, jobs.go the job state machine, and results.go the
// size-probe/fill result extraction.
package devicesim

import (
	"context"
	"sync"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/internal/qlog"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// Device is the simulator's device.Device implementation.
type Device struct {
	cal *Calibration

	mu         sync.Mutex
	status     qdmi.DeviceStatus
	sites      []device.SiteHandle
	operations []operationDef
	jobs       map[device.JobHandle]*job
	nextJobID  uint32
}

// operationDef binds a gate name from the calibration fixture to the
// opaque OperationHandle the device hands out for it.
type operationDef struct {
	handle device.OperationHandle
	name   string
	arity  int
}

var _ device.Device = (*Device)(nil)

// New constructs a simulator device from a calibration fixture. Passing
// nil uses the built-in 5-qubit ring fixture.
func New(cal *Calibration) *Device {
	if cal == nil {
		cal = defaultFiveQubitRing
	}

	sites := make([]device.SiteHandle, cal.NumQubits)
	for i := range sites {
		sites[i] = device.SiteHandle(i)
	}

	ops := make([]operationDef, len(cal.GateSet))
	for i, name := range cal.GateSet {
		arity := 1
		if name == "cz" || name == "cx" || name == "CZ" || name == "CX" {
			arity = 2
		}
		ops[i] = operationDef{handle: device.OperationHandle(i), name: name, arity: arity}
	}

	return &Device{
		cal:        cal,
		status:     qdmi.DeviceOffline,
		sites:      sites,
		operations: ops,
		jobs:       make(map[device.JobHandle]*job),
	}
}

// Initialize brings the simulated device online. Called exactly once by
// the driver before any client call is dispatched to this device.
func (d *Device) Initialize(ctx context.Context) qdmi.StatusCode {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.status = qdmi.DeviceIdle
	qlog.FromContext(ctx).Debugf("devicesim: %q initialized with %d qubits", d.cal.Name, d.cal.NumQubits)
	return qdmi.StatusSuccess
}

// Finalize takes the simulated device offline. All jobs must already have
// been freed by the time this is called.
func (d *Device) Finalize(ctx context.Context) qdmi.StatusCode {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.jobs) != 0 {
		qlog.FromContext(ctx).Warnf("devicesim: %q finalized with %d jobs still outstanding", d.cal.Name, len(d.jobs))
	}
	d.status = qdmi.DeviceOffline
	return qdmi.StatusSuccess
}

func (d *Device) findOperation(h device.OperationHandle) (operationDef, bool) {
	for _, op := range d.operations {
		if op.handle == h {
			return op, true
		}
	}
	return operationDef{}, false
}

func (d *Device) validSite(s device.SiteHandle) bool {
	return int(s) >= 0 && int(s) < len(d.sites)
}
