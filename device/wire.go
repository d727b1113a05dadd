package device

import (
	"encoding/binary"
	"math"

	"github.com/mqss-project/qdmi-go/qdmi"
)

// Fill implements the size-probe/fill protocol for a single
// already-serialized value: a nil buf reports the exact size needed and
// succeeds; a buf shorter than data fails with StatusInvalidArgument; a buf
// long enough is written and the number of bytes written is returned.
func Fill(buf []byte, data []byte) (int, qdmi.StatusCode) {
	if buf == nil {
		return len(data), qdmi.StatusSuccess
	}
	if len(buf) < len(data) {
		return 0, qdmi.StatusInvalidArgument
	}
	return copy(buf, data), qdmi.StatusSuccess
}

// FillHandles implements the probe/fill protocol for element-counted
// outputs (site and operation enumeration): a nil dst reports the count of
// available elements without writing any; a non-nil dst is filled up to
// its length and the int return is the number of entries written (a dst
// shorter than the source therefore reports its own length, not the
// available count; a dst at least as long as the source reports the
// actual count and populates exactly that many entries).
func FillHandles[T any](dst []T, src []T) (int, qdmi.StatusCode) {
	if dst == nil {
		return len(src), qdmi.StatusSuccess
	}
	n := copy(dst, src)
	return n, qdmi.StatusSuccess
}

// EncodeString renders a string property value as its raw UTF-8 bytes.
func EncodeString(s string) []byte {
	return []byte(s)
}

// EncodeInt64 renders an integer property value as a little-endian 8-byte
// word.
func EncodeInt64(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

// DecodeInt64 is the inverse of EncodeInt64.
func DecodeInt64(b []byte) int64 {
	return int64(binary.LittleEndian.Uint64(b))
}

// EncodeFloat64 renders a floating-point property value as its IEEE-754
// bit pattern, little-endian.
func EncodeFloat64(v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return b
}

// DecodeFloat64 is the inverse of EncodeFloat64.
func DecodeFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// EncodeSiteList flattens a homogeneous list of sites into the wire form
// used for the coupling map: pairs (u0,v0),(u1,v1),... become the flat
// sequence u0,v0,u1,v1,... of little-endian uint32 words. EncodeSiteList
// is also used for plain site lists where no pairing is implied.
func EncodeSiteList(sites []SiteHandle) []byte {
	b := make([]byte, 4*len(sites))
	for i, s := range sites {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(s))
	}
	return b
}

// DecodeSiteList is the inverse of EncodeSiteList.
func DecodeSiteList(b []byte) []SiteHandle {
	sites := make([]SiteHandle, len(b)/4)
	for i := range sites {
		sites[i] = SiteHandle(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return sites
}

// EncodeStringList renders a homogeneous list of strings as a sequence of
// NUL-terminated entries, the same convention used for bitstring blobs.
func EncodeStringList(strs []string) []byte {
	var b []byte
	for _, s := range strs {
		b = append(b, s...)
		b = append(b, 0)
	}
	return b
}

// DecodeStringList is the inverse of EncodeStringList.
func DecodeStringList(b []byte) []string {
	var strs []string
	start := 0
	for i, c := range b {
		if c == 0 {
			strs = append(strs, string(b[start:i]))
			start = i + 1
		}
	}
	return strs
}

// EncodeFloat64List renders a homogeneous list of floats (e.g. sparse
// statevector amplitudes flattened as real,imag,real,imag,...) as
// little-endian IEEE-754 words.
func EncodeFloat64List(vs []float64) []byte {
	b := make([]byte, 8*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
	}
	return b
}

// DecodeFloat64List is the inverse of EncodeFloat64List.
func DecodeFloat64List(b []byte) []float64 {
	vs := make([]float64, len(b)/8)
	for i := range vs {
		vs[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return vs
}
