package driver

import (
	"context"
	"strconv"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/driver/jobstore"
	"github.com/mqss-project/qdmi-go/internal/qlog"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// Driver ties together the registry, the session manager, and the
// optional job ledger into the single object a process instantiates once,
// rather than relying on any package-level global state. Callers are free
// to construct several independent Drivers (e.g. in tests).
type Driver struct {
	Registry *Registry
	Sessions *SessionManager
	Jobs     *jobstore.Store // nil unless WithJobStore(dir) was used.
}

// Option configures New.
type Option func(*options)

type options struct {
	jobStoreDir string
}

// WithJobStore enables the persistent job ledger at dir.
func WithJobStore(dir string) Option {
	return func(o *options) { o.jobStoreDir = dir }
}

// New creates a Driver, reading and loading the configured device plugins
// from path. This is the Go analog of QDMI_Driver_init: it must be called
// before any session is allocated.
func New(ctx context.Context, path string, opts ...Option) (*Driver, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	registry, err := Init(ctx, path)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		Registry: registry,
		Sessions: NewSessionManager(registry),
	}

	if o.jobStoreDir != "" {
		store, err := jobstore.Open(o.jobStoreDir)
		if err != nil {
			return nil, err
		}
		d.Jobs = store
	}

	return d, nil
}

// Shutdown clears the device list (invoking each device's Finalize hook
// and unloading its plugin) and closes the job ledger if one was opened.
// This is the Go analog of QDMI_Driver_shutdown. Shutdown after sessions
// have been freed is expected but not enforced; a late session free after
// Shutdown is safe, since it touches only the session table and never a
// device (see SessionManager.Free).
func (d *Driver) Shutdown(ctx context.Context) error {
	if d.Jobs != nil {
		if err := d.Jobs.Close(); err != nil {
			return err
		}
	}
	return d.Registry.Shutdown(ctx)
}

// StatusCode re-exported for callers that only need the taxonomy and
// don't want to import qdmi directly for a single type reference.
type StatusCode = qdmi.StatusCode

// LoadErrors returns every configured device plugin that failed to load
// during New, so a caller can distinguish "configured but lib_not_found"
// from "never configured" — see Registry.LoadErrors.
func (d *Driver) LoadErrors() []LoadError {
	return d.Registry.LoadErrors()
}

// CreateJob dispatches to the registry and, if a job ledger is open,
// records the new job at its initial status so it survives a restart
// before it is ever submitted.
func (d *Driver) CreateJob(h qdmi.DeviceHandle, format qdmi.ProgramFormat, program []byte) (device.JobHandle, qdmi.StatusCode) {
	job, status := d.Registry.CreateJob(h, format, program)
	if status.IsError() {
		return job, status
	}
	d.saveJobRecord(h, job, format, qdmi.JobCreated)
	return job, status
}

// SetParameter dispatches to the registry and, for the shot-count
// parameter the reference device recognizes, refreshes the ledger entry
// so a restart-time reattach sees the shot count the job was actually
// configured with.
func (d *Driver) SetParameter(h qdmi.DeviceHandle, job device.JobHandle, key string, value []byte) qdmi.StatusCode {
	status := d.Registry.SetParameter(h, job, key, value)
	if status.IsError() {
		return status
	}
	if key == "shots" || key == "num_shots" {
		if n, err := strconv.ParseUint(string(value), 10, 64); err == nil {
			d.refreshJobRecord(h, job, func(rec *jobstore.Record) { rec.NumShots = n })
		}
	}
	return status
}

// SubmitJob dispatches to the registry and refreshes the ledger entry's
// status, so a ledger reader sees a submitted job's progress rather than
// only its creation.
func (d *Driver) SubmitJob(ctx context.Context, h qdmi.DeviceHandle, job device.JobHandle) qdmi.StatusCode {
	status := d.Registry.SubmitJob(ctx, h, job)
	if !status.IsError() {
		d.refreshJobStatus(h, job)
	}
	return status
}

// CancelJob dispatches to the registry and refreshes the ledger entry's
// status.
func (d *Driver) CancelJob(h qdmi.DeviceHandle, job device.JobHandle) qdmi.StatusCode {
	status := d.Registry.CancelJob(h, job)
	if !status.IsError() {
		d.refreshJobStatus(h, job)
	}
	return status
}

// FreeJob dispatches to the registry and purges the job's ledger entry:
// once freed, the device has released the job and the ledger would
// otherwise report an identifier the device no longer recognizes.
func (d *Driver) FreeJob(h qdmi.DeviceHandle, job device.JobHandle) qdmi.StatusCode {
	status := d.Registry.FreeJob(h, job)
	if !status.IsError() && d.Jobs != nil {
		if err := d.Jobs.Delete(h, job); err != nil {
			qlog.L.WithError(err).Warnf("could not delete job ledger entry for device %d job %d", h.Index(), job)
		}
	}
	return status
}

func (d *Driver) saveJobRecord(h qdmi.DeviceHandle, job device.JobHandle, format qdmi.ProgramFormat, status qdmi.JobStatus) {
	if d.Jobs == nil {
		return
	}
	rec := jobstore.Record{Device: h, Job: job, Format: format, Status: status}
	if err := d.Jobs.Save(rec); err != nil {
		qlog.L.WithError(err).Warnf("could not save job ledger entry for device %d job %d", h.Index(), job)
	}
}

func (d *Driver) refreshJobStatus(h qdmi.DeviceHandle, job device.JobHandle) {
	st, status := d.Registry.CheckJob(h, job)
	if status.IsError() {
		return
	}
	d.refreshJobRecord(h, job, func(rec *jobstore.Record) { rec.Status = st })
}

func (d *Driver) refreshJobRecord(h qdmi.DeviceHandle, job device.JobHandle, mutate func(*jobstore.Record)) {
	if d.Jobs == nil {
		return
	}
	rec, err := d.Jobs.Lookup(h, job)
	if err != nil {
		// No entry to refresh — e.g. the job ledger was opened after this
		// job was created. Leave it unrecorded rather than fabricating a
		// partial entry.
		return
	}
	mutate(&rec)
	if err := d.Jobs.Save(rec); err != nil {
		qlog.L.WithError(err).Warnf("could not refresh job ledger entry for device %d job %d", h.Index(), job)
	}
}
