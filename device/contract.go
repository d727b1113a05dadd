package device

import (
	"context"

	"github.com/mqss-project/qdmi-go/qdmi"
)

// Device is the interface every backend plugin implements. The driver's
// registry resolves a concrete Device from each loaded plugin and dispatches
// every client call to it. A Device owns every site, operation, and job
// handle it hands out; it must never expose its internal representation
// beyond these opaque types.
//
// Initialize and Finalize are one-shot lifecycle hooks, called exactly once
// each per device by the driver during load and shutdown respectively.
// Every other method may be called any number of times, but never
// concurrently with another call on the same Device — a Device's contract
// is not re-entrant. WaitJob is the exception: the driver calls it without
// holding the device lock, so it may overlap other calls on the same
// Device and must serialize its own access to job state.
type Device interface {
	// Initialize performs any setup the device needs before it can answer
	// queries or accept jobs.
	Initialize(ctx context.Context) qdmi.StatusCode

	// Finalize releases any resources acquired by Initialize. Called
	// during driver shutdown after all jobs on this device have been
	// freed.
	Finalize(ctx context.Context) qdmi.StatusCode

	// QuerySites returns the device's site handles via the size-probe/fill
	// protocol: dst == nil reports only the count.
	QuerySites(dst []SiteHandle) (int, qdmi.StatusCode)

	// QueryOperations returns the device's operation handles via the
	// size-probe/fill protocol.
	QueryOperations(dst []OperationHandle) (int, qdmi.StatusCode)

	// QueryDeviceProperty reads one device-level property into buf via the
	// size-probe/fill protocol. buf == nil reports the exact byte size
	// needed.
	QueryDeviceProperty(key qdmi.DeviceProperty, buf []byte) (int, qdmi.StatusCode)

	// QuerySiteProperty reads one per-site property.
	QuerySiteProperty(site SiteHandle, key qdmi.SiteProperty, buf []byte) (int, qdmi.StatusCode)

	// QueryOperationProperty reads one per-operation property, optionally
	// at a specific tuple of sites. sites == nil means "averaged/global".
	QueryOperationProperty(op OperationHandle, sites []SiteHandle, key qdmi.OperationProperty, buf []byte) (int, qdmi.StatusCode)

	// CreateJob creates a job from a program buffer in the given format.
	// The job's initial status is qdmi.JobCreated.
	CreateJob(format qdmi.ProgramFormat, program []byte) (JobHandle, qdmi.StatusCode)

	// SetParameter sets a job parameter (e.g. shot count). Only valid while
	// the job is in qdmi.JobCreated.
	SetParameter(job JobHandle, key string, value []byte) qdmi.StatusCode

	// SubmitJob moves a job from CREATED to SUBMITTED/RUNNING. May return
	// before the job reaches a terminal state.
	SubmitJob(ctx context.Context, job JobHandle) qdmi.StatusCode

	// CancelJob moves a job to CANCELLED if it is not already DONE.
	// Cancelling an already-CANCELLED job is a no-op that returns success;
	// cancelling a DONE job returns StatusInvalidArgument.
	CancelJob(job JobHandle) qdmi.StatusCode

	// CheckJob performs a non-blocking read of a job's current status.
	CheckJob(job JobHandle) (qdmi.JobStatus, qdmi.StatusCode)

	// WaitJob blocks until the job reaches a terminal state (DONE or
	// CANCELLED), or ctx is cancelled.
	WaitJob(ctx context.Context, job JobHandle) qdmi.StatusCode

	// GetData retrieves one result artifact of a DONE job via the
	// size-probe/fill protocol.
	GetData(job JobHandle, kind qdmi.ResultKind, buf []byte) (int, qdmi.StatusCode)

	// FreeJob releases all job-owned resources. Double-free is undefined
	// behavior and is not required to be detected.
	FreeJob(job JobHandle) qdmi.StatusCode
}
