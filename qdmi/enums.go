package qdmi

// DeviceStatus is the current operational status of a device, reported via
// the DeviceStatus property.
type DeviceStatus int

const (
	DeviceOffline     DeviceStatus = iota // The device is offline.
	DeviceIdle                            // The device is idle.
	DeviceBusy                            // The device is busy.
	DeviceError                           // The device is in an error state.
	DeviceMaintenance                     // The device is in maintenance.
	DeviceCalibration                     // The device is undergoing calibration.
)

func (s DeviceStatus) String() string {
	switch s {
	case DeviceOffline:
		return "OFFLINE"
	case DeviceIdle:
		return "IDLE"
	case DeviceBusy:
		return "BUSY"
	case DeviceError:
		return "ERROR"
	case DeviceMaintenance:
		return "MAINTENANCE"
	case DeviceCalibration:
		return "CALIBRATION"
	default:
		return "UNKNOWN"
	}
}

// JobStatus is a position in the job lifecycle state machine. Transitions
// are monotonic except that Cancel may interrupt any non-terminal state.
type JobStatus int

const (
	JobCreated JobStatus = iota
	JobSubmitted
	JobRunning
	JobDone
	JobCancelled
)

func (s JobStatus) String() string {
	switch s {
	case JobCreated:
		return "CREATED"
	case JobSubmitted:
		return "SUBMITTED"
	case JobRunning:
		return "RUNNING"
	case JobDone:
		return "DONE"
	case JobCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the job status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == JobDone || s == JobCancelled
}

// DeviceProperty enumerates the mandatory and optional device-level
// properties a plugin may answer.
type DeviceProperty int

const (
	PropName DeviceProperty = iota
	PropDeviceVersion
	PropLibraryVersion
	PropNumQubits
	PropDeviceStatus
	PropCouplingMap
	PropGateSet
)

// SiteProperty enumerates per-site properties.
type SiteProperty int

const (
	PropT1Time SiteProperty = iota
	PropT2Time
	PropSiteIndex
)

// OperationProperty enumerates per-operation properties. Fidelity and
// duration may be queried either averaged (sites == nil) or for a specific
// placement.
type OperationProperty int

const (
	PropOperationName OperationProperty = iota
	PropOperationQubitsNum
	PropOperationDuration
	PropOperationFidelity
)

// ProgramFormat is the format a submitted program is encoded in.
type ProgramFormat int

const (
	ProgramQASM ProgramFormat = iota
	ProgramQIRText
	ProgramQIRModule
)

func (f ProgramFormat) String() string {
	switch f {
	case ProgramQASM:
		return "QASM"
	case ProgramQIRText:
		return "QIR_TEXT"
	case ProgramQIRModule:
		return "QIR_MODULE"
	default:
		return "UNKNOWN"
	}
}

// ResultKind is a retrievable artifact of a completed job.
type ResultKind int

const (
	ResultShots ResultKind = iota
	ResultHistKeys
	ResultHistValues
	ResultStatevectorDense
	ResultStatevectorSparseKeys
	ResultStatevectorSparseValues
	ResultProbabilitiesDense
	ResultProbabilitiesSparseKeys
	ResultProbabilitiesSparseValues
)

// AccessMode is the mode a device plugin was configured with in QDMI_CONF.
type AccessMode int

const (
	ModeReadOnly AccessMode = iota
	ModeReadWrite
)

func (m AccessMode) String() string {
	if m == ModeReadWrite {
		return "read_write"
	}
	return "read_only"
}
