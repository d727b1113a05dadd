package qdmi

import "fmt"

// SessionHandle is a client-scoped handle returned by session allocation.
// It is a generational index into the driver's session table: the
// generation changes every time a slot is reused, so a freed handle can
// never silently alias a later session — "a freed session handle is never
// dereferenced again" is enforced by this, not merely documented.
type SessionHandle struct {
	index      uint32
	generation uint32
}

func (h SessionHandle) String() string {
	return fmt.Sprintf("session#%d.%d", h.index, h.generation)
}

// IsZero reports whether h is the zero value (never issued by a session
// manager).
func (h SessionHandle) IsZero() bool { return h.index == 0 && h.generation == 0 }

// NewSessionHandle constructs a handle from its raw components. Exported
// for use by the driver package, which owns the session table.
func NewSessionHandle(index, generation uint32) SessionHandle {
	return SessionHandle{index: index, generation: generation}
}

// Index returns the raw slot index, for the owning table's internal use.
func (h SessionHandle) Index() uint32 { return h.index }

// Generation returns the raw generation counter, for the owning table's
// internal use.
func (h SessionHandle) Generation() uint32 { return h.generation }

// DeviceHandle identifies one loaded device plugin within the driver's
// process-wide registry. Devices are never reused within a process
// lifetime (they persist until driver shutdown), so a DeviceHandle is a
// plain index rather than a generational one.
type DeviceHandle struct {
	index uint32
}

func (h DeviceHandle) String() string {
	return fmt.Sprintf("device#%d", h.index)
}

// NewDeviceHandle constructs a handle from its raw index. Exported for use
// by the driver's registry.
func NewDeviceHandle(index uint32) DeviceHandle {
	return DeviceHandle{index: index}
}

// Index returns the raw registry index.
func (h DeviceHandle) Index() uint32 { return h.index }
