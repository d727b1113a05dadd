// Package qdmi defines the shared type, enum, and error surface used by
// every layer of the device management interface: status codes, property
// keys, device status, job status, program formats, and result kinds.
//
// Everything here is a pure value type. The driver, the device contract,
// and the client façade all import this package so that a status code or
// property key means exactly the same thing on every side of the API.
package qdmi

import "fmt"

// StatusCode is the single signed-integer domain returned by every public
// QDMI function. Zero is success, positive values are warnings, negative
// values are errors.
type StatusCode int

const (
	// StatusSuccess indicates the operation completed.
	StatusSuccess StatusCode = 0

	// StatusWarnGeneral indicates a non-fatal anomaly; the output is valid
	// but degraded.
	StatusWarnGeneral StatusCode = 1

	// StatusInvalidArgument indicates the caller passed a nonsensical
	// argument (null where required, out-of-range enum, undersized buffer).
	StatusInvalidArgument StatusCode = -1

	// StatusOutOfRange indicates a numeric index beyond valid bounds.
	StatusOutOfRange StatusCode = -2

	// StatusNotFound indicates the requested entity does not exist.
	StatusNotFound StatusCode = -3

	// StatusNotImplemented indicates the function is not implemented by
	// this device.
	StatusNotImplemented StatusCode = -4

	// StatusNotSupported indicates a known function that cannot answer the
	// specific query (unknown property, unsupported program format).
	StatusNotSupported StatusCode = -5

	// StatusPermissionDenied indicates an attempted mutation on a
	// read-only device.
	StatusPermissionDenied StatusCode = -6

	// StatusOutOfMemory indicates an allocation failed.
	StatusOutOfMemory StatusCode = -7

	// StatusLibNotFound indicates a configured plugin library could not be
	// opened.
	StatusLibNotFound StatusCode = -8

	// StatusFatal indicates an unrecoverable error: malformed plugin,
	// internal invariant violated, or transport I/O error.
	StatusFatal StatusCode = -9
)

var statusNames = map[StatusCode]string{
	StatusSuccess:          "success",
	StatusWarnGeneral:      "warn_general",
	StatusInvalidArgument:  "invalid_argument",
	StatusOutOfRange:       "out_of_range",
	StatusNotFound:         "not_found",
	StatusNotImplemented:   "not_implemented",
	StatusNotSupported:     "not_supported",
	StatusPermissionDenied: "permission_denied",
	StatusOutOfMemory:      "out_of_memory",
	StatusLibNotFound:      "lib_not_found",
	StatusFatal:            "fatal",
}

// String renders the status code using the taxonomy's canonical name.
func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// IsSuccess reports whether s is exactly StatusSuccess.
func (s StatusCode) IsSuccess() bool { return s == StatusSuccess }

// IsWarning reports whether s is a non-fatal, degraded-output result.
func (s StatusCode) IsWarning() bool { return s > StatusSuccess }

// IsError reports whether s is any negative status.
func (s StatusCode) IsError() bool { return s < StatusSuccess }

// Error implements the error interface so a StatusCode can be returned and
// compared directly with errors.Is, while still carrying the wire-stable
// integer encoding required at the FFI surface between driver and device
// plugins.
func (s StatusCode) Error() string {
	return s.String()
}
