package devicesim

import (
	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// GetData retrieves one result artifact of a DONE job via the
// size-probe/fill protocol. All derived forms (histograms, sparse
// listings, probabilities) are computed on demand from the job's final
// state vector; a device is allowed to compute these lazily.
func (d *Device) GetData(jh device.JobHandle, kind qdmi.ResultKind, buf []byte) (int, qdmi.StatusCode) {
	d.mu.Lock()
	j, ok := d.jobs[jh]
	numQubits := d.cal.NumQubits
	d.mu.Unlock()
	if !ok {
		return 0, qdmi.StatusNotFound
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != qdmi.JobDone {
		return 0, qdmi.StatusInvalidArgument
	}

	switch kind {
	case qdmi.ResultShots:
		return device.Fill(buf, device.EncodeStringList(j.shots(numQubits)))
	case qdmi.ResultHistKeys:
		keys, _ := j.histogram(numQubits)
		return device.Fill(buf, device.EncodeStringList(keys))
	case qdmi.ResultHistValues:
		_, counts := j.histogram(numQubits)
		values := make([]int64, len(counts))
		for i, c := range counts {
			values[i] = int64(c)
		}
		return device.Fill(buf, encodeInt64List(values))
	case qdmi.ResultStatevectorDense:
		return device.Fill(buf, encodeComplexDense(j.state))
	case qdmi.ResultStatevectorSparseKeys:
		idx, _ := sparseAmplitudes(j.state)
		return device.Fill(buf, encodeInt64List(idx))
	case qdmi.ResultStatevectorSparseValues:
		_, amps := sparseAmplitudes(j.state)
		return device.Fill(buf, encodeComplexDense(amps))
	case qdmi.ResultProbabilitiesDense:
		return device.Fill(buf, device.EncodeFloat64List(probabilities(j.state)))
	case qdmi.ResultProbabilitiesSparseKeys:
		idx, _ := sparseProbabilities(j.state)
		return device.Fill(buf, encodeInt64List(idx))
	case qdmi.ResultProbabilitiesSparseValues:
		_, ps := sparseProbabilities(j.state)
		return device.Fill(buf, device.EncodeFloat64List(ps))
	default:
		return 0, qdmi.StatusNotSupported
	}
}

// shots lazily samples j.shotCount outcomes from the final state
// vector's Born-rule distribution, caching the result so repeated
// GetData calls against the same job report identical data (a query must
// be idempotent and side-effect-free once the job is DONE).
func (j *job) shots(numQubits int) []string {
	if j.sampledShots != nil {
		return j.sampledShots
	}

	probs := probabilities(j.state)
	out := make([]string, j.shotCount)
	for s := 0; s < j.shotCount; s++ {
		out[s] = bitstring(sampleIndex(j.rng.Float64(), probs), numQubits)
	}
	j.sampledShots = out
	return out
}

// sampleIndex picks the basis-state index whose cumulative probability
// range contains r (r drawn uniformly from [0,1)).
func sampleIndex(r float64, probs []float64) int {
	var cum float64
	for i, p := range probs {
		cum += p
		if r < cum {
			return i
		}
	}
	return len(probs) - 1
}

// histogram counts distinct shot outcomes, in first-seen order, so that
// HIST_KEYS and HIST_VALUES stay parallel.
func (j *job) histogram(numQubits int) ([]string, []int) {
	outcomes := j.shots(numQubits)
	var keys []string
	counts := make(map[string]int)
	for _, o := range outcomes {
		if _, seen := counts[o]; !seen {
			keys = append(keys, o)
		}
		counts[o]++
	}
	values := make([]int, len(keys))
	for i, k := range keys {
		values[i] = counts[k]
	}
	return keys, values
}

// sparseAmplitudes returns the non-zero indices and amplitudes of a dense
// state vector, in ascending index order.
func sparseAmplitudes(state []complex128) ([]int64, []complex128) {
	var idx []int64
	var amps []complex128
	for i, a := range state {
		if a != 0 {
			idx = append(idx, int64(i))
			amps = append(amps, a)
		}
	}
	return idx, amps
}

// sparseProbabilities returns the non-zero indices and probabilities of
// a dense state vector, in ascending index order — by construction the
// same index set sparseAmplitudes reports, since probability is zero iff
// amplitude is zero.
func sparseProbabilities(state []complex128) ([]int64, []float64) {
	var idx []int64
	var ps []float64
	for i, a := range state {
		re, im := real(a), imag(a)
		p := re*re + im*im
		if p != 0 {
			idx = append(idx, int64(i))
			ps = append(ps, p)
		}
	}
	return idx, ps
}

// encodeComplexDense renders a complex amplitude vector as interleaved
// little-endian real,imag doubles, the STATEVECTOR_DENSE wire form.
func encodeComplexDense(amps []complex128) []byte {
	flat := make([]float64, 2*len(amps))
	for i, a := range amps {
		flat[2*i] = real(a)
		flat[2*i+1] = imag(a)
	}
	return device.EncodeFloat64List(flat)
}

func encodeInt64List(vs []int64) []byte {
	b := make([]byte, 0, 8*len(vs))
	for _, v := range vs {
		b = append(b, device.EncodeInt64(v)...)
	}
	return b
}
