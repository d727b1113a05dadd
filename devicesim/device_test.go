package devicesim

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

func newInitialized(t *testing.T) (*Device, context.Context) {
	t.Helper()
	ctx := context.Background()
	d := New(nil)
	require.Equal(t, qdmi.StatusSuccess, d.Initialize(ctx))
	t.Cleanup(func() { d.Finalize(ctx) })
	return d, ctx
}

// Seed scenario 1: enumerate and introspect the 5-qubit ring device.
func TestEnumerateAndIntrospectFiveQubitDevice(t *testing.T) {
	d, _ := newInitialized(t)

	n, status := d.QuerySites(nil)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.Equal(t, 5, n)

	nameLen, status := d.QueryDeviceProperty(qdmi.PropName, nil)
	require.Equal(t, qdmi.StatusSuccess, status)
	nameBuf := make([]byte, nameLen)
	_, status = d.QueryDeviceProperty(qdmi.PropName, nameBuf)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.Equal(t, "Device with 5 qubits", string(nameBuf))

	numQubitsBuf := make([]byte, 8)
	_, status = d.QueryDeviceProperty(qdmi.PropNumQubits, numQubitsBuf)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.EqualValues(t, 5, device.DecodeInt64(numQubitsBuf))

	cmLen, _ := d.QueryDeviceProperty(qdmi.PropCouplingMap, nil)
	cmBuf := make([]byte, cmLen)
	_, status = d.QueryDeviceProperty(qdmi.PropCouplingMap, cmBuf)
	require.Equal(t, qdmi.StatusSuccess, status)
	pairs := device.DecodeSiteList(cmBuf)
	assert.Equal(t, []device.SiteHandle{0, 1, 1, 2, 2, 3, 3, 4, 4, 0}, pairs)

	gsLen, _ := d.QueryDeviceProperty(qdmi.PropGateSet, nil)
	gsBuf := make([]byte, gsLen)
	_, status = d.QueryDeviceProperty(qdmi.PropGateSet, gsBuf)
	require.Equal(t, qdmi.StatusSuccess, status)
	gateSet := device.DecodeStringList(gsBuf)
	for _, want := range []string{"rx", "ry", "rz", "cz"} {
		assert.Contains(t, gateSet, want)
	}
}

// Seed scenario 2: CZ fidelity lookup.
func TestFidelityLookup(t *testing.T) {
	d, _ := newInitialized(t)

	czHandle := findGate(t, d, "cz")

	fidelity := func(a, b device.SiteHandle) (float64, qdmi.StatusCode) {
		n, status := d.QueryOperationProperty(czHandle, []device.SiteHandle{a, b}, qdmi.PropOperationFidelity, nil)
		if status.IsError() {
			return 0, status
		}
		buf := make([]byte, n)
		_, status = d.QueryOperationProperty(czHandle, []device.SiteHandle{a, b}, qdmi.PropOperationFidelity, buf)
		return device.DecodeFloat64(buf), status
	}

	f01, status := fidelity(0, 1)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.InDelta(t, 0.99, f01, 1e-9)

	f12, status := fidelity(1, 2)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.InDelta(t, 0.98, f12, 1e-9)

	_, status = fidelity(0, 2)
	assert.Equal(t, qdmi.StatusInvalidArgument, status)
}

func TestFidelityAveragedFallbackWarnsOnFill(t *testing.T) {
	d, _ := newInitialized(t)
	czHandle := findGate(t, d, "cz")

	// The size probe (buf == nil) reports a plain success: its output is
	// just a byte count, not the degraded value itself.
	n, status := d.QueryOperationProperty(czHandle, nil, qdmi.PropOperationFidelity, nil)
	require.Equal(t, qdmi.StatusSuccess, status)

	// The fill, with no site placement given, reports the averaged figure
	// and flags it as degraded rather than a specific-pair measurement.
	buf := make([]byte, n)
	_, status = d.QueryOperationProperty(czHandle, nil, qdmi.PropOperationFidelity, buf)
	assert.Equal(t, qdmi.StatusWarnGeneral, status)
	assert.True(t, status.IsWarning())
	assert.InDelta(t, 0.974, device.DecodeFloat64(buf), 1e-9)
}

func findGate(t *testing.T, d *Device, name string) device.OperationHandle {
	t.Helper()
	n, status := d.QueryOperations(nil)
	require.Equal(t, qdmi.StatusSuccess, status)
	ops := make([]device.OperationHandle, n)
	_, status = d.QueryOperations(ops)
	require.Equal(t, qdmi.StatusSuccess, status)

	for _, op := range ops {
		nameLen, _ := d.QueryOperationProperty(op, nil, qdmi.PropOperationName, nil)
		buf := make([]byte, nameLen)
		d.QueryOperationProperty(op, nil, qdmi.PropOperationName, buf)
		if strings.EqualFold(string(buf), name) {
			return op
		}
	}
	t.Fatalf("gate %q not found in device's operation list", name)
	return 0
}

// Seed scenario 3: end-to-end shots from a two-line bell-pair circuit.
func TestEndToEndBellPairShots(t *testing.T) {
	d, ctx := newInitialized(t)

	program := "h 0\ncx 0 1\n"
	job, status := d.CreateJob(qdmi.ProgramQASM, []byte(program))
	require.Equal(t, qdmi.StatusSuccess, status)
	defer d.FreeJob(job)

	require.Equal(t, qdmi.StatusSuccess, d.SetParameter(job, "shots", []byte("10")))
	require.Equal(t, qdmi.StatusSuccess, d.SubmitJob(ctx, job))
	require.Equal(t, qdmi.StatusSuccess, d.WaitJob(ctx, job))

	jobStatus, status := d.CheckJob(job)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.Equal(t, qdmi.JobDone, jobStatus)

	shotsLen, status := d.GetData(job, qdmi.ResultShots, nil)
	require.Equal(t, qdmi.StatusSuccess, status)
	shotsBuf := make([]byte, shotsLen)
	_, status = d.GetData(job, qdmi.ResultShots, shotsBuf)
	require.Equal(t, qdmi.StatusSuccess, status)
	shots := device.DecodeStringList(shotsBuf)
	require.Len(t, shots, 10)
	for _, s := range shots {
		assert.Len(t, s, 5)
	}

	keysLen, _ := d.GetData(job, qdmi.ResultHistKeys, nil)
	keysBuf := make([]byte, keysLen)
	d.GetData(job, qdmi.ResultHistKeys, keysBuf)
	keys := device.DecodeStringList(keysBuf)

	valuesLen, _ := d.GetData(job, qdmi.ResultHistValues, nil)
	valuesBuf := make([]byte, valuesLen)
	d.GetData(job, qdmi.ResultHistValues, valuesBuf)

	require.Equal(t, len(keys)*8, len(valuesBuf))
	var sum int64
	for i := range keys {
		sum += device.DecodeInt64(valuesBuf[8*i : 8*i+8])
		assert.Len(t, keys[i], 5)
	}
	assert.EqualValues(t, 10, sum)
}

// Seed scenario 4: cancellation.
func TestCancellation(t *testing.T) {
	d, ctx := newInitialized(t)

	job, status := d.CreateJob(qdmi.ProgramQASM, []byte("rx 0 0.1\n"))
	require.Equal(t, qdmi.StatusSuccess, status)
	defer d.FreeJob(job)

	require.Equal(t, qdmi.StatusSuccess, d.SubmitJob(ctx, job))
	require.Equal(t, qdmi.StatusSuccess, d.CancelJob(job))

	jobStatus, status := d.CheckJob(job)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.Equal(t, qdmi.JobCancelled, jobStatus)

	assert.Equal(t, qdmi.StatusSuccess, d.CancelJob(job), "cancelling an already-CANCELLED job is a no-op success")
}

// Boundary behavior: querying a site property with site index = qubit
// count must return out_of_range.
func TestSitePropertyOutOfRange(t *testing.T) {
	d, _ := newInitialized(t)
	_, status := d.QuerySiteProperty(device.SiteHandle(d.cal.NumQubits), qdmi.PropT1Time, nil)
	assert.Equal(t, qdmi.StatusOutOfRange, status)
}

// Boundary behavior: submitting an unsupported program format.
func TestCreateJobUnsupportedFormat(t *testing.T) {
	d, _ := newInitialized(t)
	_, status := d.CreateJob(qdmi.ProgramQIRModule, []byte("whatever"))
	assert.Equal(t, qdmi.StatusNotSupported, status)
}

// Boundary behavior: cancelling a DONE job is an error.
func TestCancelDoneJobIsError(t *testing.T) {
	d, ctx := newInitialized(t)
	job, _ := d.CreateJob(qdmi.ProgramQASM, []byte(""))
	defer d.FreeJob(job)

	require.Equal(t, qdmi.StatusSuccess, d.SubmitJob(ctx, job))
	require.Equal(t, qdmi.StatusSuccess, d.WaitJob(ctx, job))

	assert.Equal(t, qdmi.StatusInvalidArgument, d.CancelJob(job))
}

// Seed scenario 6: probe-then-fill stability for the coupling map.
func TestProbeThenFillStableSize(t *testing.T) {
	d, _ := newInitialized(t)

	n1, status := d.QueryDeviceProperty(qdmi.PropCouplingMap, nil)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.Equal(t, 4*2*5, n1, "5 ring edges x 2 sites x 4-byte little-endian handle")

	buf := make([]byte, n1)
	n2, status := d.QueryDeviceProperty(qdmi.PropCouplingMap, buf)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.Equal(t, n1, n2)
}

// State-vector norm and probabilities = |amplitude|^2 invariants.
func TestStatevectorNormAndProbabilities(t *testing.T) {
	d, ctx := newInitialized(t)

	job, _ := d.CreateJob(qdmi.ProgramQASM, []byte("h 0\ncx 0 1\n"))
	defer d.FreeJob(job)
	require.Equal(t, qdmi.StatusSuccess, d.SetParameter(job, "shots", []byte("1")))
	require.Equal(t, qdmi.StatusSuccess, d.SubmitJob(ctx, job))
	require.Equal(t, qdmi.StatusSuccess, d.WaitJob(ctx, job))

	denseLen, _ := d.GetData(job, qdmi.ResultStatevectorDense, nil)
	dense := make([]byte, denseLen)
	d.GetData(job, qdmi.ResultStatevectorDense, dense)
	amps := device.DecodeFloat64List(dense)

	var norm float64
	for i := 0; i < len(amps); i += 2 {
		norm += amps[i]*amps[i] + amps[i+1]*amps[i+1]
	}
	assert.InDelta(t, 1.0, norm, 1e-9)

	probLen, _ := d.GetData(job, qdmi.ResultProbabilitiesDense, nil)
	probBuf := make([]byte, probLen)
	d.GetData(job, qdmi.ResultProbabilitiesDense, probBuf)
	probs := device.DecodeFloat64List(probBuf)

	for i := 0; i < len(probs); i++ {
		want := amps[2*i]*amps[2*i] + amps[2*i+1]*amps[2*i+1]
		assert.InDelta(t, want, probs[i], 1e-9)
	}
}
