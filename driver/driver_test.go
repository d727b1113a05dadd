package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqss-project/qdmi-go/driver/jobstore"
	"github.com/mqss-project/qdmi-go/qdmi"
)

func TestJobLedgerTracksLifecycle(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry()
	dev := newFakeDevice(1)
	h, status := registry.RegisterStatic(ctx, "fake", dev, qdmi.ModeReadWrite)
	require.Equal(t, qdmi.StatusSuccess, status)

	store, err := jobstore.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	d := &Driver{Registry: registry, Sessions: NewSessionManager(registry), Jobs: store}

	job, status := d.CreateJob(h, qdmi.ProgramQASM, nil)
	require.Equal(t, qdmi.StatusSuccess, status)

	rec, err := d.Jobs.Lookup(h, job)
	require.NoError(t, err, "CreateJob must save an initial ledger entry")
	assert.Equal(t, qdmi.ProgramQASM, rec.Format)
	assert.Equal(t, qdmi.JobCreated, rec.Status)

	require.Equal(t, qdmi.StatusSuccess, d.SetParameter(h, job, "shots", []byte("256")))
	rec, err = d.Jobs.Lookup(h, job)
	require.NoError(t, err)
	assert.Equal(t, uint64(256), rec.NumShots, "SetParameter(\"shots\") must refresh the ledger entry")

	require.Equal(t, qdmi.StatusSuccess, d.SubmitJob(ctx, h, job))
	rec, err = d.Jobs.Lookup(h, job)
	require.NoError(t, err)
	assert.Equal(t, qdmi.JobDone, rec.Status, "SubmitJob must refresh the ledger entry's status")

	require.Equal(t, qdmi.StatusSuccess, d.FreeJob(h, job))
	_, err = d.Jobs.Lookup(h, job)
	assert.Error(t, err, "FreeJob must purge the ledger entry")
}

func TestJobLedgerUntouchedWhenNoneOpen(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry()
	dev := newFakeDevice(1)
	h, _ := registry.RegisterStatic(ctx, "fake", dev, qdmi.ModeReadWrite)

	d := &Driver{Registry: registry, Sessions: NewSessionManager(registry)}

	job, status := d.CreateJob(h, qdmi.ProgramQASM, nil)
	require.Equal(t, qdmi.StatusSuccess, status)
	assert.Equal(t, qdmi.StatusSuccess, d.SubmitJob(ctx, h, job))
	assert.Equal(t, qdmi.StatusSuccess, d.FreeJob(h, job))
}
