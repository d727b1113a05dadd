package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// Opening a real .so requires -buildmode=plugin, which this test binary
// is not built as; bindSymbol is exercised directly instead, against
// correctly- and incorrectly-typed symbol values standing in for what
// plugin.Lookup would return from a real device plugin.

func fakeInitialize(ctx context.Context) qdmi.StatusCode { return qdmi.StatusSuccess }

func TestBindSymbolResolvesEveryRequiredSymbol(t *testing.T) {
	vt := &vtable{}

	require.NoError(t, bindSymbol(vt, symInitialize, fakeInitialize))
	assert.NotNil(t, vt.initialize)
	assert.Equal(t, qdmi.StatusSuccess, vt.initialize(context.Background()))

	require.NoError(t, bindSymbol(vt, symQueryGetSites,
		func(dst []device.SiteHandle) (int, qdmi.StatusCode) { return device.FillHandles(dst, nil) }))
	assert.NotNil(t, vt.queryGetSites)
}

func TestBindSymbolRejectsWrongSignature(t *testing.T) {
	vt := &vtable{}

	err := bindSymbol(vt, symInitialize, func() {})
	assert.Error(t, err)
	assert.Nil(t, vt.initialize)
}

func TestBindSymbolRejectsUnknownName(t *testing.T) {
	vt := &vtable{}
	err := bindSymbol(vt, "not_a_real_dev_symbol", fakeInitialize)
	assert.Error(t, err)
}

func TestRequiredSymbolsCoverEveryVtableEntry(t *testing.T) {
	// Every symbol the driver resolves at load time must round-trip
	// through bindSymbol without error when given a plausibly-typed stub,
	// so a real device plugin exporting the whole ABI would load cleanly.
	vt := &vtable{}
	stubs := map[string]any{
		symInitialize:            func(context.Context) qdmi.StatusCode { return qdmi.StatusSuccess },
		symFinalize:              func(context.Context) qdmi.StatusCode { return qdmi.StatusSuccess },
		symQueryGetSites:         func([]device.SiteHandle) (int, qdmi.StatusCode) { return 0, qdmi.StatusSuccess },
		symQueryGetOperations:    func([]device.OperationHandle) (int, qdmi.StatusCode) { return 0, qdmi.StatusSuccess },
		symQueryDeviceProperty:   func(qdmi.DeviceProperty, []byte) (int, qdmi.StatusCode) { return 0, qdmi.StatusSuccess },
		symQuerySiteProperty:     func(device.SiteHandle, qdmi.SiteProperty, []byte) (int, qdmi.StatusCode) { return 0, qdmi.StatusSuccess },
		symQueryOperationPropery: func(device.OperationHandle, []device.SiteHandle, qdmi.OperationProperty, []byte) (int, qdmi.StatusCode) { return 0, qdmi.StatusSuccess },
		symControlCreateJob:      func(qdmi.ProgramFormat, []byte) (device.JobHandle, qdmi.StatusCode) { return 0, qdmi.StatusSuccess },
		symControlSetParameter:   func(device.JobHandle, string, []byte) qdmi.StatusCode { return qdmi.StatusSuccess },
		symControlSubmitJob:      func(context.Context, device.JobHandle) qdmi.StatusCode { return qdmi.StatusSuccess },
		symControlCancel:         func(device.JobHandle) qdmi.StatusCode { return qdmi.StatusSuccess },
		symControlCheck:          func(device.JobHandle) (qdmi.JobStatus, qdmi.StatusCode) { return qdmi.JobDone, qdmi.StatusSuccess },
		symControlWait:           func(context.Context, device.JobHandle) qdmi.StatusCode { return qdmi.StatusSuccess },
		symControlGetData:        func(device.JobHandle, qdmi.ResultKind, []byte) (int, qdmi.StatusCode) { return 0, qdmi.StatusSuccess },
		symControlFreeJob:        func(device.JobHandle) qdmi.StatusCode { return qdmi.StatusSuccess },
	}

	for _, name := range requiredSymbols {
		stub, ok := stubs[name]
		require.True(t, ok, "no stub registered for required symbol %q", name)
		assert.NoError(t, bindSymbol(vt, name, stub), "symbol %q", name)
	}
}
