package driver

import (
	"context"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// Every method below locates the vtable entry for a device handle and
// invokes it, enforcing the mode guard on mutating calls. Query calls are
// always allowed; control calls on a read-only device fail with
// StatusPermissionDenied without reaching the device. The driver never
// transforms a device-returned code; whatever the device returns is passed
// through unchanged.

// QuerySites dispatches to the device's QuerySites.
func (r *Registry) QuerySites(h qdmi.DeviceHandle, dst []device.SiteHandle) (int, qdmi.StatusCode) {
	e, ok := r.entry(h)
	if !ok {
		return 0, qdmi.StatusInvalidArgument
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.QuerySites(dst)
}

// QueryOperations dispatches to the device's QueryOperations.
func (r *Registry) QueryOperations(h qdmi.DeviceHandle, dst []device.OperationHandle) (int, qdmi.StatusCode) {
	e, ok := r.entry(h)
	if !ok {
		return 0, qdmi.StatusInvalidArgument
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.QueryOperations(dst)
}

// QueryDeviceProperty dispatches to the device's QueryDeviceProperty.
func (r *Registry) QueryDeviceProperty(h qdmi.DeviceHandle, key qdmi.DeviceProperty, buf []byte) (int, qdmi.StatusCode) {
	e, ok := r.entry(h)
	if !ok {
		return 0, qdmi.StatusInvalidArgument
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.QueryDeviceProperty(key, buf)
}

// QuerySiteProperty dispatches to the device's QuerySiteProperty.
func (r *Registry) QuerySiteProperty(h qdmi.DeviceHandle, site device.SiteHandle, key qdmi.SiteProperty, buf []byte) (int, qdmi.StatusCode) {
	e, ok := r.entry(h)
	if !ok {
		return 0, qdmi.StatusInvalidArgument
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.QuerySiteProperty(site, key, buf)
}

// QueryOperationProperty dispatches to the device's QueryOperationProperty.
func (r *Registry) QueryOperationProperty(h qdmi.DeviceHandle, op device.OperationHandle, sites []device.SiteHandle, key qdmi.OperationProperty, buf []byte) (int, qdmi.StatusCode) {
	e, ok := r.entry(h)
	if !ok {
		return 0, qdmi.StatusInvalidArgument
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.QueryOperationProperty(op, sites, key, buf)
}

// CreateJob dispatches to the device's CreateJob, enforcing the mode
// guard.
func (r *Registry) CreateJob(h qdmi.DeviceHandle, format qdmi.ProgramFormat, program []byte) (device.JobHandle, qdmi.StatusCode) {
	e, ok := r.entry(h)
	if !ok {
		return 0, qdmi.StatusInvalidArgument
	}
	if e.mode == qdmi.ModeReadOnly {
		return 0, qdmi.StatusPermissionDenied
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.CreateJob(format, program)
}

// SetParameter dispatches to the device's SetParameter, enforcing the
// mode guard.
func (r *Registry) SetParameter(h qdmi.DeviceHandle, job device.JobHandle, key string, value []byte) qdmi.StatusCode {
	e, ok := r.entry(h)
	if !ok {
		return qdmi.StatusInvalidArgument
	}
	if e.mode == qdmi.ModeReadOnly {
		return qdmi.StatusPermissionDenied
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.SetParameter(job, key, value)
}

// SubmitJob dispatches to the device's SubmitJob, enforcing the mode
// guard.
func (r *Registry) SubmitJob(ctx context.Context, h qdmi.DeviceHandle, job device.JobHandle) qdmi.StatusCode {
	e, ok := r.entry(h)
	if !ok {
		return qdmi.StatusInvalidArgument
	}
	if e.mode == qdmi.ModeReadOnly {
		return qdmi.StatusPermissionDenied
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.SubmitJob(ctx, job)
}

// CancelJob dispatches to the device's CancelJob, enforcing the mode
// guard.
func (r *Registry) CancelJob(h qdmi.DeviceHandle, job device.JobHandle) qdmi.StatusCode {
	e, ok := r.entry(h)
	if !ok {
		return qdmi.StatusInvalidArgument
	}
	if e.mode == qdmi.ModeReadOnly {
		return qdmi.StatusPermissionDenied
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.CancelJob(job)
}

// CheckJob dispatches to the device's CheckJob. Checking status is a
// query, not a mutation, so it is always allowed regardless of mode.
func (r *Registry) CheckJob(h qdmi.DeviceHandle, job device.JobHandle) (qdmi.JobStatus, qdmi.StatusCode) {
	e, ok := r.entry(h)
	if !ok {
		return 0, qdmi.StatusInvalidArgument
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.CheckJob(job)
}

// WaitJob dispatches to the device's WaitJob. Like CheckJob, waiting does
// not mutate the device and is always allowed; it blocks the calling
// goroutine but does not hold the device's dispatch lock while the device
// itself blocks, so other devices remain dispatchable. The per-job
// serialization while waiting is the device implementation's
// responsibility.
func (r *Registry) WaitJob(ctx context.Context, h qdmi.DeviceHandle, job device.JobHandle) qdmi.StatusCode {
	e, ok := r.entry(h)
	if !ok {
		return qdmi.StatusInvalidArgument
	}
	return e.dev.WaitJob(ctx, job)
}

// GetData dispatches to the device's GetData.
func (r *Registry) GetData(h qdmi.DeviceHandle, job device.JobHandle, kind qdmi.ResultKind, buf []byte) (int, qdmi.StatusCode) {
	e, ok := r.entry(h)
	if !ok {
		return 0, qdmi.StatusInvalidArgument
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.GetData(job, kind, buf)
}

// FreeJob dispatches to the device's FreeJob, enforcing the mode guard
// (freeing releases device-owned resources and is a control call).
func (r *Registry) FreeJob(h qdmi.DeviceHandle, job device.JobHandle) qdmi.StatusCode {
	e, ok := r.entry(h)
	if !ok {
		return qdmi.StatusInvalidArgument
	}
	if e.mode == qdmi.ModeReadOnly {
		return qdmi.StatusPermissionDenied
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.FreeJob(job)
}
