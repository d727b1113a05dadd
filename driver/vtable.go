package driver

import (
	"context"
	goplugin "plugin"

	"github.com/juju/errors"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// The device ABI: every backend plugin exports exactly these symbols,
// named with a "_dev" suffix convention (the device-side name for a
// client-visible X is X_dev). The driver resolves each of them at load
// time via Go's plugin.Lookup and assembles them into a vtable — the
// dynamic-linker analog of a per-device function-pointer table.
const (
	symInitialize            = "initialize_dev"
	symFinalize              = "finalize_dev"
	symQueryGetSites         = "query_get_sites_dev"
	symQueryGetOperations    = "query_get_operations_dev"
	symQueryDeviceProperty   = "query_device_property_dev"
	symQuerySiteProperty     = "query_site_property_dev"
	symQueryOperationPropery = "query_operation_property_dev"
	symControlCreateJob      = "control_create_job_dev"
	symControlSetParameter   = "control_set_parameter_dev"
	symControlSubmitJob      = "control_submit_job_dev"
	symControlCancel         = "control_cancel_dev"
	symControlCheck          = "control_check_dev"
	symControlWait           = "control_wait_dev"
	symControlGetData        = "control_get_data_dev"
	symControlFreeJob        = "control_free_job_dev"
)

// requiredSymbols is the fixed set of exported symbols resolved for every
// configured plugin. Any failure to resolve one of these is fatal for that
// configuration entry.
var requiredSymbols = []string{
	symInitialize, symFinalize,
	symQueryGetSites, symQueryGetOperations,
	symQueryDeviceProperty, symQuerySiteProperty, symQueryOperationPropery,
	symControlCreateJob, symControlSetParameter, symControlSubmitJob,
	symControlCancel, symControlCheck, symControlWait,
	symControlGetData, symControlFreeJob,
}

// vtable holds one device plugin's resolved entry points. It is populated
// fully before any client call is dispatched to it.
type vtable struct {
	initialize            func(ctx context.Context) qdmi.StatusCode
	finalize              func(ctx context.Context) qdmi.StatusCode
	queryGetSites         func(dst []device.SiteHandle) (int, qdmi.StatusCode)
	queryGetOperations    func(dst []device.OperationHandle) (int, qdmi.StatusCode)
	queryDeviceProperty   func(key qdmi.DeviceProperty, buf []byte) (int, qdmi.StatusCode)
	querySiteProperty     func(site device.SiteHandle, key qdmi.SiteProperty, buf []byte) (int, qdmi.StatusCode)
	queryOperationPropery func(op device.OperationHandle, sites []device.SiteHandle, key qdmi.OperationProperty, buf []byte) (int, qdmi.StatusCode)
	controlCreateJob      func(format qdmi.ProgramFormat, program []byte) (device.JobHandle, qdmi.StatusCode)
	controlSetParameter   func(job device.JobHandle, key string, value []byte) qdmi.StatusCode
	controlSubmitJob      func(ctx context.Context, job device.JobHandle) qdmi.StatusCode
	controlCancel         func(job device.JobHandle) qdmi.StatusCode
	controlCheck          func(job device.JobHandle) (qdmi.JobStatus, qdmi.StatusCode)
	controlWait           func(ctx context.Context, job device.JobHandle) qdmi.StatusCode
	controlGetData        func(job device.JobHandle, kind qdmi.ResultKind, buf []byte) (int, qdmi.StatusCode)
	controlFreeJob        func(job device.JobHandle) qdmi.StatusCode
}

// libOpenError marks a failure to open the plugin file itself, as opposed
// to a failure to resolve a symbol inside a plugin that did open. The
// loader classifies the former as qdmi.StatusLibNotFound and the latter
// as qdmi.StatusFatal (a malformed plugin), per spec.md §7's taxonomy.
type libOpenError struct{ err error }

func (e *libOpenError) Error() string { return e.err.Error() }
func (e *libOpenError) Unwrap() error { return e.err }

// resolveVtable opens the shared object at path and resolves every
// required symbol. It returns an annotated error naming the first missing
// or mistyped symbol, so the caller can report a precise lib_not_found /
// fatal failure.
func resolveVtable(path string) (*vtable, func() error, error) {
	p, err := goplugin.Open(path)
	if err != nil {
		return nil, nil, &libOpenError{errors.Annotatef(err, "could not open device plugin %q", path)}
	}

	vt := &vtable{}
	for _, name := range requiredSymbols {
		sym, err := p.Lookup(name)
		if err != nil {
			return nil, nil, errors.Annotatef(err, "device plugin %q missing required symbol %q", path, name)
		}

		if err := bindSymbol(vt, name, sym); err != nil {
			return nil, nil, errors.Annotatef(err, "device plugin %q symbol %q has the wrong signature", path, name)
		}
	}

	// plugin.Plugin has no Close/unload; the process keeps the .so mapped
	// until exit. The returned closer is a placeholder for future
	// platforms that do support unloading, and keeps Registry.Shutdown's
	// teardown uniform across devices.
	closer := func() error { return nil }

	return vt, closer, nil
}

func bindSymbol(vt *vtable, name string, sym goplugin.Symbol) error {
	var ok bool
	switch name {
	case symInitialize:
		vt.initialize, ok = sym.(func(context.Context) qdmi.StatusCode)
	case symFinalize:
		vt.finalize, ok = sym.(func(context.Context) qdmi.StatusCode)
	case symQueryGetSites:
		vt.queryGetSites, ok = sym.(func([]device.SiteHandle) (int, qdmi.StatusCode))
	case symQueryGetOperations:
		vt.queryGetOperations, ok = sym.(func([]device.OperationHandle) (int, qdmi.StatusCode))
	case symQueryDeviceProperty:
		vt.queryDeviceProperty, ok = sym.(func(qdmi.DeviceProperty, []byte) (int, qdmi.StatusCode))
	case symQuerySiteProperty:
		vt.querySiteProperty, ok = sym.(func(device.SiteHandle, qdmi.SiteProperty, []byte) (int, qdmi.StatusCode))
	case symQueryOperationPropery:
		vt.queryOperationPropery, ok = sym.(func(device.OperationHandle, []device.SiteHandle, qdmi.OperationProperty, []byte) (int, qdmi.StatusCode))
	case symControlCreateJob:
		vt.controlCreateJob, ok = sym.(func(qdmi.ProgramFormat, []byte) (device.JobHandle, qdmi.StatusCode))
	case symControlSetParameter:
		vt.controlSetParameter, ok = sym.(func(device.JobHandle, string, []byte) qdmi.StatusCode)
	case symControlSubmitJob:
		vt.controlSubmitJob, ok = sym.(func(context.Context, device.JobHandle) qdmi.StatusCode)
	case symControlCancel:
		vt.controlCancel, ok = sym.(func(device.JobHandle) qdmi.StatusCode)
	case symControlCheck:
		vt.controlCheck, ok = sym.(func(device.JobHandle) (qdmi.JobStatus, qdmi.StatusCode))
	case symControlWait:
		vt.controlWait, ok = sym.(func(context.Context, device.JobHandle) qdmi.StatusCode)
	case symControlGetData:
		vt.controlGetData, ok = sym.(func(device.JobHandle, qdmi.ResultKind, []byte) (int, qdmi.StatusCode))
	case symControlFreeJob:
		vt.controlFreeJob, ok = sym.(func(device.JobHandle) qdmi.StatusCode)
	default:
		return errors.Errorf("unknown symbol %q", name)
	}

	if !ok {
		return errors.Errorf("symbol %q has an unexpected type", name)
	}
	return nil
}

// vtableDevice adapts a resolved vtable to the device.Device interface, so
// the rest of the driver dispatches to dynamically-loaded plugins exactly
// the way it dispatches to statically-registered devices.
type vtableDevice struct {
	vt *vtable
}

var _ device.Device = (*vtableDevice)(nil)

func (d *vtableDevice) Initialize(ctx context.Context) qdmi.StatusCode { return d.vt.initialize(ctx) }
func (d *vtableDevice) Finalize(ctx context.Context) qdmi.StatusCode   { return d.vt.finalize(ctx) }

func (d *vtableDevice) QuerySites(dst []device.SiteHandle) (int, qdmi.StatusCode) {
	return d.vt.queryGetSites(dst)
}

func (d *vtableDevice) QueryOperations(dst []device.OperationHandle) (int, qdmi.StatusCode) {
	return d.vt.queryGetOperations(dst)
}

func (d *vtableDevice) QueryDeviceProperty(key qdmi.DeviceProperty, buf []byte) (int, qdmi.StatusCode) {
	return d.vt.queryDeviceProperty(key, buf)
}

func (d *vtableDevice) QuerySiteProperty(site device.SiteHandle, key qdmi.SiteProperty, buf []byte) (int, qdmi.StatusCode) {
	return d.vt.querySiteProperty(site, key, buf)
}

func (d *vtableDevice) QueryOperationProperty(op device.OperationHandle, sites []device.SiteHandle, key qdmi.OperationProperty, buf []byte) (int, qdmi.StatusCode) {
	return d.vt.queryOperationPropery(op, sites, key, buf)
}

func (d *vtableDevice) CreateJob(format qdmi.ProgramFormat, program []byte) (device.JobHandle, qdmi.StatusCode) {
	return d.vt.controlCreateJob(format, program)
}

func (d *vtableDevice) SetParameter(job device.JobHandle, key string, value []byte) qdmi.StatusCode {
	return d.vt.controlSetParameter(job, key, value)
}

func (d *vtableDevice) SubmitJob(ctx context.Context, job device.JobHandle) qdmi.StatusCode {
	return d.vt.controlSubmitJob(ctx, job)
}

func (d *vtableDevice) CancelJob(job device.JobHandle) qdmi.StatusCode {
	return d.vt.controlCancel(job)
}

func (d *vtableDevice) CheckJob(job device.JobHandle) (qdmi.JobStatus, qdmi.StatusCode) {
	return d.vt.controlCheck(job)
}

func (d *vtableDevice) WaitJob(ctx context.Context, job device.JobHandle) qdmi.StatusCode {
	return d.vt.controlWait(ctx, job)
}

func (d *vtableDevice) GetData(job device.JobHandle, kind qdmi.ResultKind, buf []byte) (int, qdmi.StatusCode) {
	return d.vt.controlGetData(job, kind, buf)
}

func (d *vtableDevice) FreeJob(job device.JobHandle) qdmi.StatusCode {
	return d.vt.controlFreeJob(job)
}
