package vtf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// CMA holds the "Cubemap Multiply Ambient" resource: one float per cubemap
// group, matching rBSP v48 CUBEMAPS_AMBIENT_RCP. The bit pattern of each
// value doubles as a stable identification tag in exported filenames.
type CMA struct {
	Values []float32
}

// parseCMA reads the CMA payload. A single-entry CMA is stored inline in
// the resource's offset field; otherwise the offset points at a uint32
// byte length followed by one float per cubemap group.
func parseCMA(raw []byte, res Resource, frames int) (*CMA, error) {
	if res.Inline() {
		return &CMA{Values: []float32{math.Float32frombits(res.Offset)}}, nil
	}
	need := 4 + frames*4
	if int(res.Offset)+need > len(raw) {
		return nil, fmt.Errorf("%w: CMA data past end of file", ErrFormat)
	}
	le := binary.LittleEndian
	size := le.Uint32(raw[res.Offset:])
	if size != uint32(frames*4) {
		return nil, fmt.Errorf("%w: CMA size %d, want %d for %d cubemaps",
			ErrFormat, size, frames*4, frames)
	}
	cma := &CMA{Values: make([]float32, frames)}
	for i := range cma.Values {
		cma.Values[i] = math.Float32frombits(le.Uint32(raw[int(res.Offset)+4+i*4:]))
	}
	return cma, nil
}

// encode returns the out-of-line CMA payload. Single-entry CMAs are stored
// inline and have no payload.
func (c *CMA) encode() []byte {
	if len(c.Values) == 1 {
		return nil
	}
	out := make([]byte, 4+len(c.Values)*4)
	le := binary.LittleEndian
	le.PutUint32(out, uint32(len(c.Values)*4))
	for i, v := range c.Values {
		le.PutUint32(out[4+i*4:], math.Float32bits(v))
	}
	return out
}

// Tag formats the CMA value of one cubemap group as a filename tag.
func (c *CMA) Tag(cubemap int) (string, bool) {
	if c == nil || cubemap < 0 || cubemap >= len(c.Values) {
		return "", false
	}
	return fmt.Sprintf("%08x", math.Float32bits(c.Values[cubemap])), true
}
