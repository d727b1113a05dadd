package driver

import (
	"context"
	"sync"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// fakeDevice is a minimal device.Device used to unit-test the registry,
// session manager, and dispatcher in isolation from devicesim's heavier
// simulation logic.
type fakeDevice struct {
	mu           sync.Mutex
	initialized  bool
	finalized    bool
	sites        []device.SiteHandle
	jobStatus    qdmi.JobStatus
	nextJobID    uint32
	createCalled int
}

var _ device.Device = (*fakeDevice)(nil)

func newFakeDevice(numSites int) *fakeDevice {
	sites := make([]device.SiteHandle, numSites)
	for i := range sites {
		sites[i] = device.SiteHandle(i)
	}
	return &fakeDevice{sites: sites}
}

func (f *fakeDevice) Initialize(ctx context.Context) qdmi.StatusCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initialized = true
	return qdmi.StatusSuccess
}

func (f *fakeDevice) Finalize(ctx context.Context) qdmi.StatusCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalized = true
	return qdmi.StatusSuccess
}

func (f *fakeDevice) QuerySites(dst []device.SiteHandle) (int, qdmi.StatusCode) {
	return device.FillHandles(dst, f.sites)
}

func (f *fakeDevice) QueryOperations(dst []device.OperationHandle) (int, qdmi.StatusCode) {
	return device.FillHandles(dst, nil)
}

func (f *fakeDevice) QueryDeviceProperty(key qdmi.DeviceProperty, buf []byte) (int, qdmi.StatusCode) {
	if key == qdmi.PropName {
		return device.Fill(buf, device.EncodeString("fake"))
	}
	return 0, qdmi.StatusNotSupported
}

func (f *fakeDevice) QuerySiteProperty(site device.SiteHandle, key qdmi.SiteProperty, buf []byte) (int, qdmi.StatusCode) {
	return 0, qdmi.StatusNotSupported
}

func (f *fakeDevice) QueryOperationProperty(op device.OperationHandle, sites []device.SiteHandle, key qdmi.OperationProperty, buf []byte) (int, qdmi.StatusCode) {
	return 0, qdmi.StatusNotSupported
}

func (f *fakeDevice) CreateJob(format qdmi.ProgramFormat, program []byte) (device.JobHandle, qdmi.StatusCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalled++
	id := device.JobHandle(f.nextJobID)
	f.nextJobID++
	f.jobStatus = qdmi.JobCreated
	return id, qdmi.StatusSuccess
}

func (f *fakeDevice) SetParameter(job device.JobHandle, key string, value []byte) qdmi.StatusCode {
	return qdmi.StatusSuccess
}

func (f *fakeDevice) SubmitJob(ctx context.Context, job device.JobHandle) qdmi.StatusCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobStatus = qdmi.JobDone
	return qdmi.StatusSuccess
}

func (f *fakeDevice) CancelJob(job device.JobHandle) qdmi.StatusCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.jobStatus == qdmi.JobDone {
		return qdmi.StatusInvalidArgument
	}
	if f.jobStatus == qdmi.JobCancelled {
		return qdmi.StatusSuccess
	}
	f.jobStatus = qdmi.JobCancelled
	return qdmi.StatusSuccess
}

func (f *fakeDevice) CheckJob(job device.JobHandle) (qdmi.JobStatus, qdmi.StatusCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobStatus, qdmi.StatusSuccess
}

func (f *fakeDevice) WaitJob(ctx context.Context, job device.JobHandle) qdmi.StatusCode {
	return qdmi.StatusSuccess
}

func (f *fakeDevice) GetData(job device.JobHandle, kind qdmi.ResultKind, buf []byte) (int, qdmi.StatusCode) {
	return 0, qdmi.StatusNotSupported
}

func (f *fakeDevice) FreeJob(job device.JobHandle) qdmi.StatusCode {
	return qdmi.StatusSuccess
}
