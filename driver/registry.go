// Package driver implements the plugin registry, loader, and dispatcher:
// it discovers device plugins from a configuration file, loads them,
// resolves their vtables, and forwards every client call to the correct
// implementation while enforcing each device's access mode.
package driver

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/juju/errors"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/internal/qlog"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// entry is one loaded device: its resolved implementation, access mode,
// and the per-device lock that serializes every call into it except
// WaitJob (see Registry.WaitJob), since the device contract is not
// re-entrant per device.
type entry struct {
	name   string
	mode   qdmi.AccessMode
	dev    device.Device
	closer func() error
	mu     sync.Mutex
}

// Registry is the driver's process-wide, shared device list. It is
// created by Init and torn down by Shutdown; sessions hold only
// non-owning references into it.
type Registry struct {
	mu       sync.RWMutex
	devices  []*entry
	loadErrs []LoadError
}

// LoadError records one configured device plugin that failed to load
// during Init, classified by the StatusCode a client would see for this
// failure class: qdmi.StatusLibNotFound when the configured library could
// not be opened at all, qdmi.StatusFatal for a malformed plugin (missing
// or mistyped symbol) or a failed Initialize hook.
//
// Init's policy (see its doc comment) is to skip and log a failed entry
// rather than abort the rest of initialization, so this status never
// becomes Init's own return value; spec.md §7 names init as one of the
// few functions that might surface lib_not_found to a client, and
// LoadErrors is that channel.
type LoadError struct {
	LibPath string
	Status  qdmi.StatusCode
	Err     error
}

// NewRegistry constructs an empty registry. Most callers should use Init,
// which also loads the configured devices.
func NewRegistry() *Registry {
	return &Registry{}
}

// Init reads the configuration file at path, loads every configured
// device plugin, resolves its vtable, and invokes its Initialize hook.
//
// Policy: a failure to open a library or resolve a required symbol aborts
// the remaining load of that entry, but (unlike a stricter
// abort-on-first-failure policy) does not abort the rest of
// initialization — the entry is logged and skipped, and loading continues
// with the next configured device. A device whose Initialize hook itself
// fails is unloaded and does not appear in the registry.
func Init(ctx context.Context, path string) (*Registry, error) {
	entries, err := ParseConfigFile(path)
	if err != nil {
		return nil, err
	}

	r := NewRegistry()
	for _, cfg := range entries {
		if status, err := r.loadOne(ctx, cfg); err != nil {
			qlog.L.WithError(err).Warnf("skipping device plugin %q", cfg.LibPath)
			r.mu.Lock()
			r.loadErrs = append(r.loadErrs, LoadError{LibPath: cfg.LibPath, Status: status, Err: err})
			r.mu.Unlock()
			continue
		}
	}

	return r, nil
}

// loadOne loads and initializes a single configured device plugin. Its
// error return is also classified into the qdmi.StatusCode a client would
// see for this failure, via LoadErrors.
func (r *Registry) loadOne(ctx context.Context, cfg ConfigEntry) (qdmi.StatusCode, error) {
	vt, closer, err := resolveVtable(cfg.LibPath)
	if err != nil {
		var openErr *libOpenError
		if stderrors.As(err, &openErr) {
			return qdmi.StatusLibNotFound, errors.Annotate(err, "lib_not_found")
		}
		return qdmi.StatusFatal, errors.Annotate(err, "malformed device plugin")
	}

	e := &entry{
		name:   cfg.LibPath,
		mode:   cfg.Mode,
		dev:    &vtableDevice{vt: vt},
		closer: closer,
	}

	if status := e.dev.Initialize(ctx); status.IsError() {
		return qdmi.StatusFatal, errors.Errorf("device initialize hook failed: %s", status)
	}

	r.mu.Lock()
	r.devices = append(r.devices, e)
	r.mu.Unlock()

	return qdmi.StatusSuccess, nil
}

// LoadErrors returns every configured device plugin that failed to load
// during Init, in configuration order. It is the client-visible channel
// for Init's skip-and-log policy: a caller that cares whether a specific
// configured library actually loaded (as opposed to merely not appearing
// in the registry) inspects this instead of Handles.
func (r *Registry) LoadErrors() []LoadError {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]LoadError, len(r.loadErrs))
	copy(out, r.loadErrs)
	return out
}

// RegisterStatic adds a compiled-in device implementation directly,
// without going through a shared-library load. This is the path used by
// the devicesim package and by tests, which would otherwise need to build
// and open a real .so to exercise the driver at all.
func (r *Registry) RegisterStatic(ctx context.Context, name string, dev device.Device, mode qdmi.AccessMode) (qdmi.DeviceHandle, qdmi.StatusCode) {
	if status := dev.Initialize(ctx); status.IsError() {
		return qdmi.DeviceHandle{}, status
	}

	e := &entry{name: name, mode: mode, dev: dev, closer: func() error { return nil }}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices = append(r.devices, e)
	return qdmi.NewDeviceHandle(uint32(len(r.devices) - 1)), qdmi.StatusSuccess
}

// Handles returns the handle of every currently loaded device, in load
// order. Device handles are stable for the registry's lifetime.
func (r *Registry) Handles() []qdmi.DeviceHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := make([]qdmi.DeviceHandle, len(r.devices))
	for i := range r.devices {
		handles[i] = qdmi.NewDeviceHandle(uint32(i))
	}
	return handles
}

// Name returns the configured library path (or static registration name)
// of the device behind h.
func (r *Registry) Name(h qdmi.DeviceHandle) (string, bool) {
	e, ok := r.entry(h)
	if !ok {
		return "", false
	}
	return e.name, true
}

// Mode returns the access mode of the device behind h.
func (r *Registry) Mode(h qdmi.DeviceHandle) (qdmi.AccessMode, bool) {
	e, ok := r.entry(h)
	if !ok {
		return 0, false
	}
	return e.mode, true
}

func (r *Registry) entry(h qdmi.DeviceHandle) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := int(h.Index())
	if idx < 0 || idx >= len(r.devices) {
		return nil, false
	}
	return r.devices[idx], true
}

// Shutdown clears the device list: each device's Finalize hook is invoked
// and its backing plugin unloaded. A late session free after Shutdown is
// safe, since SessionManager.Free never dereferences a device; Shutdown
// does not itself validate that all sessions were already freed.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	devices := r.devices
	r.devices = nil
	r.mu.Unlock()

	var firstErr error
	for _, e := range devices {
		if status := e.dev.Finalize(ctx); status.IsError() && firstErr == nil {
			firstErr = errors.Errorf("device %q finalize failed: %s", e.name, status)
		}
		if err := e.closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
