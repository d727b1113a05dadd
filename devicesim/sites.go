package devicesim

import (
	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// QuerySites reports the device's site handles: one per simulated qubit,
// indices 0..NumQubits-1.
func (d *Device) QuerySites(dst []device.SiteHandle) (int, qdmi.StatusCode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return device.FillHandles(dst, d.sites)
}

// QuerySiteProperty answers a per-site property for one simulated qubit.
func (d *Device) QuerySiteProperty(site device.SiteHandle, key qdmi.SiteProperty, buf []byte) (int, qdmi.StatusCode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.validSite(site) {
		return 0, qdmi.StatusOutOfRange
	}

	switch key {
	case qdmi.PropT1Time:
		return device.Fill(buf, device.EncodeFloat64(d.cal.T1[site]))
	case qdmi.PropT2Time:
		return device.Fill(buf, device.EncodeFloat64(d.cal.T2[site]))
	case qdmi.PropSiteIndex:
		return device.Fill(buf, device.EncodeInt64(int64(site)))
	default:
		return 0, qdmi.StatusNotSupported
	}
}
