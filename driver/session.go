package driver

import (
	"sync"

	"github.com/mqss-project/qdmi-go/qdmi"
)

// sessionSlot holds a session's device list snapshot plus the generation
// counter that invalidates any handle pointing at a freed slot.
type sessionSlot struct {
	generation uint32
	live       bool
	devices    []qdmi.DeviceHandle
}

// SessionManager allocates and frees session handles, each snapshotting
// the registry's current device list at allocation time. A session never
// observes devices registered after its own allocation, and sessions are
// not synchronized against one another.
//
// Session handles are generational indices: freeing a session bumps its
// slot's generation, so a stale handle from before the free can never be
// mistaken for a subsequently allocated session in the same slot.
type SessionManager struct {
	registry *Registry

	mu    sync.Mutex
	slots []sessionSlot
	free  []uint32
}

// NewSessionManager constructs a session manager backed by registry.
func NewSessionManager(registry *Registry) *SessionManager {
	return &SessionManager{registry: registry}
}

// Alloc allocates a new session handle whose device list is the
// registry's current device list.
func (sm *SessionManager) Alloc() (qdmi.SessionHandle, qdmi.StatusCode) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	devices := sm.registry.Handles()

	if len(sm.free) > 0 {
		idx := sm.free[len(sm.free)-1]
		sm.free = sm.free[:len(sm.free)-1]

		slot := &sm.slots[idx]
		slot.live = true
		slot.devices = devices
		return qdmi.NewSessionHandle(idx, slot.generation), qdmi.StatusSuccess
	}

	idx := uint32(len(sm.slots))
	sm.slots = append(sm.slots, sessionSlot{generation: 1, live: true, devices: devices})
	return qdmi.NewSessionHandle(idx, 1), qdmi.StatusSuccess
}

// Devices implements the size-probe/fill enumeration for a session's
// device list: dst == nil reports only the count.
func (sm *SessionManager) Devices(h qdmi.SessionHandle, dst []qdmi.DeviceHandle) (int, qdmi.StatusCode) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	slot, ok := sm.lookup(h)
	if !ok {
		return 0, qdmi.StatusInvalidArgument
	}

	if dst == nil {
		return len(slot.devices), qdmi.StatusSuccess
	}
	return copy(dst, slot.devices), qdmi.StatusSuccess
}

// Free releases a session's envelope. Devices persist until driver
// shutdown; only the session's bookkeeping is released. Freeing an
// already-freed or unknown handle is a no-op, matching "a freed session
// handle is never dereferenced again" — there is nothing left for a
// second Free call to observe.
func (sm *SessionManager) Free(h qdmi.SessionHandle) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	slot, ok := sm.lookup(h)
	if !ok {
		return
	}

	slot.live = false
	slot.devices = nil
	slot.generation++
	sm.free = append(sm.free, h.Index())
}

func (sm *SessionManager) lookup(h qdmi.SessionHandle) (*sessionSlot, bool) {
	idx := h.Index()
	if idx >= uint32(len(sm.slots)) {
		return nil, false
	}
	slot := &sm.slots[idx]
	if !slot.live || slot.generation != h.Generation() {
		return nil, false
	}
	return slot, true
}
