// Package client is a thin façade: stable wrappers over the driver's
// dispatcher, so consumers link against a fixed symbol set regardless of
// which devices happen to be loaded. There is no logic here beyond null
// checks — the mode guard and all real dispatch live in the driver
// package.
package client

import (
	"context"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/driver"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// Client wraps a *driver.Driver with the null-checked, client-facing
// call surface.
type Client struct {
	d *driver.Driver
}

// New wraps d. d must not be nil.
func New(d *driver.Driver) (*Client, qdmi.StatusCode) {
	if d == nil {
		return nil, qdmi.StatusInvalidArgument
	}
	return &Client{d: d}, qdmi.StatusSuccess
}

// AllocSession allocates a new session over the client's driver.
func (c *Client) AllocSession() (qdmi.SessionHandle, qdmi.StatusCode) {
	return c.d.Sessions.Alloc()
}

// SessionDevices enumerates the devices visible to session h via the
// size-probe/fill protocol.
func (c *Client) SessionDevices(h qdmi.SessionHandle, dst []qdmi.DeviceHandle) (int, qdmi.StatusCode) {
	return c.d.Sessions.Devices(h, dst)
}

// FreeSession releases a session's envelope.
func (c *Client) FreeSession(h qdmi.SessionHandle) {
	c.d.Sessions.Free(h)
}

// DeviceName returns the configured library path (or static registration
// name) of a device.
func (c *Client) DeviceName(h qdmi.DeviceHandle) (string, bool) {
	return c.d.Registry.Name(h)
}

// QuerySites forwards to the driver.
func (c *Client) QuerySites(h qdmi.DeviceHandle, dst []device.SiteHandle) (int, qdmi.StatusCode) {
	return c.d.Registry.QuerySites(h, dst)
}

// QueryOperations forwards to the driver.
func (c *Client) QueryOperations(h qdmi.DeviceHandle, dst []device.OperationHandle) (int, qdmi.StatusCode) {
	return c.d.Registry.QueryOperations(h, dst)
}

// QueryDeviceProperty forwards to the driver.
func (c *Client) QueryDeviceProperty(h qdmi.DeviceHandle, key qdmi.DeviceProperty, buf []byte) (int, qdmi.StatusCode) {
	return c.d.Registry.QueryDeviceProperty(h, key, buf)
}

// QuerySiteProperty forwards to the driver.
func (c *Client) QuerySiteProperty(h qdmi.DeviceHandle, site device.SiteHandle, key qdmi.SiteProperty, buf []byte) (int, qdmi.StatusCode) {
	return c.d.Registry.QuerySiteProperty(h, site, key, buf)
}

// QueryOperationProperty forwards to the driver.
func (c *Client) QueryOperationProperty(h qdmi.DeviceHandle, op device.OperationHandle, sites []device.SiteHandle, key qdmi.OperationProperty, buf []byte) (int, qdmi.StatusCode) {
	return c.d.Registry.QueryOperationProperty(h, op, sites, key, buf)
}

// CreateJob forwards to the driver, which also records the job in its
// ledger if one is open.
func (c *Client) CreateJob(h qdmi.DeviceHandle, format qdmi.ProgramFormat, program []byte) (device.JobHandle, qdmi.StatusCode) {
	return c.d.CreateJob(h, format, program)
}

// SetParameter forwards to the driver.
func (c *Client) SetParameter(h qdmi.DeviceHandle, job device.JobHandle, key string, value []byte) qdmi.StatusCode {
	return c.d.SetParameter(h, job, key, value)
}

// SubmitJob forwards to the driver.
func (c *Client) SubmitJob(ctx context.Context, h qdmi.DeviceHandle, job device.JobHandle) qdmi.StatusCode {
	return c.d.SubmitJob(ctx, h, job)
}

// CancelJob forwards to the driver.
func (c *Client) CancelJob(h qdmi.DeviceHandle, job device.JobHandle) qdmi.StatusCode {
	return c.d.CancelJob(h, job)
}

// CheckJob forwards to the driver.
func (c *Client) CheckJob(h qdmi.DeviceHandle, job device.JobHandle) (qdmi.JobStatus, qdmi.StatusCode) {
	return c.d.Registry.CheckJob(h, job)
}

// WaitJob forwards to the driver.
func (c *Client) WaitJob(ctx context.Context, h qdmi.DeviceHandle, job device.JobHandle) qdmi.StatusCode {
	return c.d.Registry.WaitJob(ctx, h, job)
}

// GetData forwards to the driver.
func (c *Client) GetData(h qdmi.DeviceHandle, job device.JobHandle, kind qdmi.ResultKind, buf []byte) (int, qdmi.StatusCode) {
	return c.d.Registry.GetData(h, job, kind, buf)
}

// FreeJob forwards to the driver, which also purges the job's ledger
// entry if one is open.
func (c *Client) FreeJob(h qdmi.DeviceHandle, job device.JobHandle) qdmi.StatusCode {
	return c.d.FreeJob(h, job)
}
