// Package device defines the contract every backend plugin implements: the
// Device interface, the opaque handle types it hands out for sites,
// operations, and jobs, and the wire encoding helpers used by the
// size-probe/fill protocol.
package device

import "fmt"

// SiteHandle is an opaque handle representing a physical location that can
// hold a qubit. It is device-private and stable for the device's lifetime;
// sites are compared only by identity, never introspected.
type SiteHandle uint32

func (h SiteHandle) String() string { return fmt.Sprintf("site#%d", uint32(h)) }

// OperationHandle is an opaque handle representing a gate or primitive the
// device can execute.
type OperationHandle uint32

func (h OperationHandle) String() string { return fmt.Sprintf("op#%d", uint32(h)) }

// JobHandle is an opaque handle representing a submitted program and its
// future results, owned by the device until the client calls FreeJob.
type JobHandle uint32

func (h JobHandle) String() string { return fmt.Sprintf("job#%d", uint32(h)) }
