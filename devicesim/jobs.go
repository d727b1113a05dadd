package devicesim

import (
	"context"
	"math/rand"
	"strconv"
	"sync"

	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

const defaultShots = 1024

// job is the device's private job record. Exported only through the
// opaque device.JobHandle the device hands back from CreateJob.
type job struct {
	mu        sync.Mutex
	format    qdmi.ProgramFormat
	program   string
	shotCount int
	status    qdmi.JobStatus

	done   chan struct{} // closed once the run reaches a terminal state
	cancel chan struct{} // closed to request cancellation

	state        []complex128 // populated once status == JobDone
	sampledShots []string     // sampled lazily by GetData, cached thereafter
	rng          *rand.Rand
}

// CreateJob accepts a program in QASM form; the simulator declines every
// other format with StatusNotSupported since it has no QIR front end
// — declining is a distinct result code, not a failure.
func (d *Device) CreateJob(format qdmi.ProgramFormat, program []byte) (device.JobHandle, qdmi.StatusCode) {
	if format != qdmi.ProgramQASM {
		return 0, qdmi.StatusNotSupported
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	id := device.JobHandle(d.nextJobID)
	d.nextJobID++

	d.jobs[id] = &job{
		format:    format,
		program:   string(program),
		shotCount: defaultShots,
		status:    qdmi.JobCreated,
		done:      make(chan struct{}),
		cancel:    make(chan struct{}),
		rng:       rand.New(rand.NewSource(int64(id) + 1)),
	}
	return id, qdmi.StatusSuccess
}

// SetParameter recognizes the "shots" key (decimal shot count). Unknown
// keys are not an error; the simulator simply has nothing to do with
// them, matching a plugin free to ignore parameters it does not
// recognize.
func (d *Device) SetParameter(jh device.JobHandle, key string, value []byte) qdmi.StatusCode {
	d.mu.Lock()
	j, ok := d.jobs[jh]
	d.mu.Unlock()
	if !ok {
		return qdmi.StatusNotFound
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != qdmi.JobCreated {
		return qdmi.StatusInvalidArgument
	}

	switch key {
	case "shots", "num_shots":
		n, err := strconv.Atoi(string(value))
		if err != nil || n <= 0 {
			return qdmi.StatusInvalidArgument
		}
		j.shotCount = n
	}
	return qdmi.StatusSuccess
}

// SubmitJob runs the parsed program to a final statevector in a
// background goroutine, moving the job through SUBMITTED -> RUNNING ->
// DONE (or CANCELLED if cancel fires first). Shots are sampled from that
// statevector later, on the first GetData call that needs them. The
// reference device does not gate submission on device status: parallel
// submissions across jobs are allowed (see SPEC_FULL's job-lifecycle
// open-question resolution).
func (d *Device) SubmitJob(ctx context.Context, jh device.JobHandle) qdmi.StatusCode {
	d.mu.Lock()
	j, ok := d.jobs[jh]
	d.mu.Unlock()
	if !ok {
		return qdmi.StatusNotFound
	}

	j.mu.Lock()
	if j.status != qdmi.JobCreated {
		j.mu.Unlock()
		return qdmi.StatusInvalidArgument
	}
	j.status = qdmi.JobSubmitted
	instructions := parseProgram(j.program)
	n := d.cal.NumQubits
	j.mu.Unlock()

	go func() {
		j.mu.Lock()
		j.status = qdmi.JobRunning
		j.mu.Unlock()

		select {
		case <-j.cancel:
			j.mu.Lock()
			j.status = qdmi.JobCancelled
			j.mu.Unlock()
			close(j.done)
			return
		default:
		}

		state := simulate(n, instructions)

		j.mu.Lock()
		select {
		case <-j.cancel:
			j.status = qdmi.JobCancelled
		default:
			j.state = state
			j.status = qdmi.JobDone
		}
		j.mu.Unlock()
		close(j.done)
	}()

	return qdmi.StatusSuccess
}

// CancelJob moves a job to CANCELLED. For a SUBMITTED or RUNNING job it
// signals the background run and waits for it to stop; if the run had
// already completed, the job is DONE and the call fails like any other
// cancel of a DONE job. Cancelling a DONE job is an error; cancelling an
// already-CANCELLED job is an idempotent no-op returning success (the
// resolved choice for the device's one open cancellation question).
func (d *Device) CancelJob(jh device.JobHandle) qdmi.StatusCode {
	d.mu.Lock()
	j, ok := d.jobs[jh]
	d.mu.Unlock()
	if !ok {
		return qdmi.StatusNotFound
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	switch j.status {
	case qdmi.JobDone:
		return qdmi.StatusInvalidArgument
	case qdmi.JobCancelled:
		return qdmi.StatusSuccess
	case qdmi.JobCreated:
		j.status = qdmi.JobCancelled
		close(j.done)
		return qdmi.StatusSuccess
	default: // SUBMITTED or RUNNING
		select {
		case <-j.cancel:
		default:
			close(j.cancel)
		}
		// Let the background run observe the request, so the status read
		// by the next CheckJob is already terminal.
		done := j.done
		j.mu.Unlock()
		<-done
		j.mu.Lock()
		if j.status == qdmi.JobDone {
			return qdmi.StatusInvalidArgument
		}
		return qdmi.StatusSuccess
	}
}

// CheckJob performs a non-blocking read of a job's status.
func (d *Device) CheckJob(jh device.JobHandle) (qdmi.JobStatus, qdmi.StatusCode) {
	d.mu.Lock()
	j, ok := d.jobs[jh]
	d.mu.Unlock()
	if !ok {
		return 0, qdmi.StatusNotFound
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status, qdmi.StatusSuccess
}

// WaitJob blocks until jh reaches a terminal state or ctx is cancelled.
func (d *Device) WaitJob(ctx context.Context, jh device.JobHandle) qdmi.StatusCode {
	d.mu.Lock()
	j, ok := d.jobs[jh]
	d.mu.Unlock()
	if !ok {
		return qdmi.StatusNotFound
	}

	j.mu.Lock()
	terminal := j.status.Terminal()
	done := j.done
	j.mu.Unlock()
	if terminal {
		return qdmi.StatusSuccess
	}

	select {
	case <-done:
		return qdmi.StatusSuccess
	case <-ctx.Done():
		return qdmi.StatusFatal
	}
}

// FreeJob releases the job's record. Double-free is undefined behavior
// per the contract and is not detected here.
func (d *Device) FreeJob(jh device.JobHandle) qdmi.StatusCode {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.jobs, jh)
	return qdmi.StatusSuccess
}
