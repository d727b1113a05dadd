// Command-less package main is the Go plugin entry point for devicesim,
// built with `go build -buildmode=plugin` and loaded by the driver via a
// QDMI_CONF line pointing at the resulting .so. Go's plugin loader resolves
// symbols by their plain package-level identifier (plugin.Lookup), so the
// "_dev"-suffixed function names below are themselves the ABI driver/vtable.go
// resolves — no export directive is needed or meaningful here.
//
// A Go plugin cannot export a struct method directly as a package-level
// symbol, so each export below is a free function closing over dev.
package main

import (
	"context"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/devicesim"
	"github.com/mqss-project/qdmi-go/qdmi"
)

var dev = devicesim.New(nil)

func initialize_dev(ctx context.Context) qdmi.StatusCode { return dev.Initialize(ctx) }

func finalize_dev(ctx context.Context) qdmi.StatusCode { return dev.Finalize(ctx) }

func query_get_sites_dev(dst []device.SiteHandle) (int, qdmi.StatusCode) {
	return dev.QuerySites(dst)
}

func query_get_operations_dev(dst []device.OperationHandle) (int, qdmi.StatusCode) {
	return dev.QueryOperations(dst)
}

func query_device_property_dev(key qdmi.DeviceProperty, buf []byte) (int, qdmi.StatusCode) {
	return dev.QueryDeviceProperty(key, buf)
}

func query_site_property_dev(site device.SiteHandle, key qdmi.SiteProperty, buf []byte) (int, qdmi.StatusCode) {
	return dev.QuerySiteProperty(site, key, buf)
}

func query_operation_property_dev(op device.OperationHandle, sites []device.SiteHandle, key qdmi.OperationProperty, buf []byte) (int, qdmi.StatusCode) {
	return dev.QueryOperationProperty(op, sites, key, buf)
}

func control_create_job_dev(format qdmi.ProgramFormat, program []byte) (device.JobHandle, qdmi.StatusCode) {
	return dev.CreateJob(format, program)
}

func control_set_parameter_dev(job device.JobHandle, key string, value []byte) qdmi.StatusCode {
	return dev.SetParameter(job, key, value)
}

func control_submit_job_dev(ctx context.Context, job device.JobHandle) qdmi.StatusCode {
	return dev.SubmitJob(ctx, job)
}

func control_cancel_dev(job device.JobHandle) qdmi.StatusCode { return dev.CancelJob(job) }

func control_check_dev(job device.JobHandle) (qdmi.JobStatus, qdmi.StatusCode) {
	return dev.CheckJob(job)
}

func control_wait_dev(ctx context.Context, job device.JobHandle) qdmi.StatusCode {
	return dev.WaitJob(ctx, job)
}

func control_get_data_dev(job device.JobHandle, kind qdmi.ResultKind, buf []byte) (int, qdmi.StatusCode) {
	return dev.GetData(job, kind, buf)
}

func control_free_job_dev(job device.JobHandle) qdmi.StatusCode { return dev.FreeJob(job) }

func main() {}
