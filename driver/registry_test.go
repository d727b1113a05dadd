package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

func TestRegisterStaticAndQuerySites(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	dev := newFakeDevice(5)
	h, status := r.RegisterStatic(ctx, "fake-1", dev, qdmi.ModeReadWrite)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.True(t, dev.initialized)

	n, status := r.QuerySites(h, nil)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.Equal(t, 5, n)

	dst := make([]device.SiteHandle, n)
	_, status = r.QuerySites(h, dst)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.Equal(t, []device.SiteHandle{0, 1, 2, 3, 4}, dst)
}

func TestUnknownDeviceHandleIsInvalidArgument(t *testing.T) {
	r := NewRegistry()
	_, status := r.QuerySites(qdmi.NewDeviceHandle(99), nil)
	assert.Equal(t, qdmi.StatusInvalidArgument, status)
}

func TestShutdownFinalizesEveryDevice(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	dev1 := newFakeDevice(1)
	dev2 := newFakeDevice(2)
	_, _ = r.RegisterStatic(ctx, "fake-1", dev1, qdmi.ModeReadOnly)
	_, _ = r.RegisterStatic(ctx, "fake-2", dev2, qdmi.ModeReadWrite)

	require.NoError(t, r.Shutdown(ctx))
	assert.True(t, dev1.finalized)
	assert.True(t, dev2.finalized)
	assert.Empty(t, r.Handles())
}

func TestModeGuardBlocksMutationOnReadOnlyDevice(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	dev := newFakeDevice(1)
	h, _ := r.RegisterStatic(ctx, "fake-ro", dev, qdmi.ModeReadOnly)

	_, status := r.CreateJob(h, qdmi.ProgramQASM, nil)
	assert.Equal(t, qdmi.StatusPermissionDenied, status)
	assert.Equal(t, 0, dev.createCalled, "a permission-denied mutation must never reach the device")

	// Queries remain allowed on a read-only device.
	_, status = r.QuerySites(h, nil)
	assert.Equal(t, qdmi.StatusSuccess, status)
}

func TestModeGuardAllowsMutationOnReadWriteDevice(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	dev := newFakeDevice(1)
	h, _ := r.RegisterStatic(ctx, "fake-rw", dev, qdmi.ModeReadWrite)

	_, status := r.CreateJob(h, qdmi.ProgramQASM, nil)
	assert.Equal(t, qdmi.StatusSuccess, status)
	assert.Equal(t, 1, dev.createCalled)
}

func TestCancelJobDoubleCancelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	dev := newFakeDevice(1)
	h, _ := r.RegisterStatic(ctx, "fake", dev, qdmi.ModeReadWrite)

	job, _ := r.CreateJob(h, qdmi.ProgramQASM, nil)

	assert.Equal(t, qdmi.StatusSuccess, r.CancelJob(h, job))
	assert.Equal(t, qdmi.StatusSuccess, r.CancelJob(h, job), "cancelling an already-CANCELLED job is a no-op success")
}

func TestCancelJobOnDoneJobIsError(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	dev := newFakeDevice(1)
	h, _ := r.RegisterStatic(ctx, "fake", dev, qdmi.ModeReadWrite)

	job, _ := r.CreateJob(h, qdmi.ProgramQASM, nil)
	require.Equal(t, qdmi.StatusSuccess, r.SubmitJob(ctx, h, job))

	status, _ := r.CheckJob(h, job)
	require.Equal(t, qdmi.JobDone, status)

	assert.Equal(t, qdmi.StatusInvalidArgument, r.CancelJob(h, job))
}

func TestInitRecordsLibNotFoundForMissingLibrary(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist.so")

	confPath := filepath.Join(dir, "qdmi.conf")
	require.NoError(t, os.WriteFile(confPath, []byte(missing+" read_only\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	r, err := Init(context.Background(), confPath)
	require.NoError(t, err, "a configured-but-missing library skips that entry, it does not abort Init")
	assert.Empty(t, r.Handles())

	loadErrs := r.LoadErrors()
	require.Len(t, loadErrs, 1)
	assert.Equal(t, missing, loadErrs[0].LibPath)
	assert.Equal(t, qdmi.StatusLibNotFound, loadErrs[0].Status)
	assert.Error(t, loadErrs[0].Err)
}
