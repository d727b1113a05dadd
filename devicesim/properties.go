package devicesim

import (
	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// QueryOperations reports the device's operation handles, one per native
// gate in its calibration's gate set.
func (d *Device) QueryOperations(dst []device.OperationHandle) (int, qdmi.StatusCode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	handles := make([]device.OperationHandle, len(d.operations))
	for i, op := range d.operations {
		handles[i] = op.handle
	}
	return device.FillHandles(dst, handles)
}

// QueryDeviceProperty answers a device-level property from the
// calibration fixture the device was constructed with.
func (d *Device) QueryDeviceProperty(key qdmi.DeviceProperty, buf []byte) (int, qdmi.StatusCode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch key {
	case qdmi.PropName:
		return device.Fill(buf, device.EncodeString(d.cal.Name))
	case qdmi.PropDeviceVersion:
		return device.Fill(buf, device.EncodeString(d.cal.DeviceVersion))
	case qdmi.PropLibraryVersion:
		return device.Fill(buf, device.EncodeString(d.cal.LibraryVersion))
	case qdmi.PropNumQubits:
		return device.Fill(buf, device.EncodeInt64(int64(d.cal.NumQubits)))
	case qdmi.PropDeviceStatus:
		return device.Fill(buf, device.EncodeInt64(int64(d.status)))
	case qdmi.PropCouplingMap:
		return device.Fill(buf, device.EncodeSiteList(ringCouplingMap(d.cal.NumQubits)))
	case qdmi.PropGateSet:
		return device.Fill(buf, device.EncodeStringList(d.cal.GateSet))
	default:
		return 0, qdmi.StatusNotSupported
	}
}

// QueryOperationProperty answers a per-operation property, optionally at a
// specific site placement. Fidelity is only meaningful for a placement on
// the coupling map; an unconnected pair is a malformed query.
func (d *Device) QueryOperationProperty(op device.OperationHandle, sites []device.SiteHandle, key qdmi.OperationProperty, buf []byte) (int, qdmi.StatusCode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	def, ok := d.findOperation(op)
	if !ok {
		return 0, qdmi.StatusOutOfRange
	}

	switch key {
	case qdmi.PropOperationName:
		return device.Fill(buf, device.EncodeString(def.name))
	case qdmi.PropOperationQubitsNum:
		return device.Fill(buf, device.EncodeInt64(int64(def.arity)))
	case qdmi.PropOperationDuration:
		return device.Fill(buf, device.EncodeFloat64(operationDuration(def)))
	case qdmi.PropOperationFidelity:
		return d.queryFidelity(def, sites, buf)
	default:
		return 0, qdmi.StatusNotSupported
	}
}

// operationDuration is a fixed per-gate-family duration in nanoseconds,
// standing in for what a real backend would measure per pulse schedule.
func operationDuration(def operationDef) float64 {
	if def.arity == 2 {
		return 240 // ns, typical two-qubit entangling gate
	}
	return 35 // ns, single-qubit rotation
}

func (d *Device) queryFidelity(def operationDef, sites []device.SiteHandle, buf []byte) (int, qdmi.StatusCode) {
	if def.arity != 2 {
		// Single-qubit gate fidelity is not modeled per-site in this
		// fixture; report a flat, optimistic figure.
		return device.Fill(buf, device.EncodeFloat64(0.999))
	}
	if sites == nil {
		// No placement given: report the average fidelity across every
		// coupled pair this gate can be placed on. The size probe (buf ==
		// nil) still succeeds, since the size of a float64 does not depend
		// on which pair it came from; only the fill carries the degraded,
		// not-this-specific-pair warning.
		enc := device.EncodeFloat64(d.averagePairFidelity())
		n, status := device.Fill(buf, enc)
		if buf != nil && status == qdmi.StatusSuccess {
			status = qdmi.StatusWarnGeneral
		}
		return n, status
	}
	if len(sites) != 2 {
		return 0, qdmi.StatusInvalidArgument
	}
	if !d.validSite(sites[0]) || !d.validSite(sites[1]) {
		return 0, qdmi.StatusOutOfRange
	}
	f, ok := d.cal.PairFidelity[pairKey(sites[0], sites[1])]
	if !ok {
		// Querying fidelity for a site pair the coupling map does not
		// connect is a malformed query, not a merely-unsupported one.
		return 0, qdmi.StatusInvalidArgument
	}
	return device.Fill(buf, device.EncodeFloat64(f))
}

// averagePairFidelity is the mean of every entry in the calibration's
// per-pair fidelity table, used when a two-qubit gate's fidelity is
// queried without a specific site placement.
func (d *Device) averagePairFidelity() float64 {
	if len(d.cal.PairFidelity) == 0 {
		return 0
	}
	var sum float64
	for _, f := range d.cal.PairFidelity {
		sum += f
	}
	return sum / float64(len(d.cal.PairFidelity))
}
