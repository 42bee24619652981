// Package bc6h decompresses BC6H UF16 (unsigned half-float) texture blocks,
// the format Titanfall 2 and Apex Legends store their HDR cubemaps in.
package bc6h

import (
	"encoding/binary"
	"fmt"
)

// BlockSize is the byte size of one compressed 4x4 pixel block.
const BlockSize = 16

// Decode decompresses BC6H UF16 data into linear RGB float32 triples,
// row-major, length width*height*3.
func Decode(data []byte, width, height int) ([]float32, error) {
	bw := (width + 3) / 4
	bh := (height + 3) / 4
	need := bw * bh * BlockSize
	if len(data) < need {
		return nil, fmt.Errorf("bc6h: %d bytes for %dx%d, want %d", len(data), width, height, need)
	}

	out := make([]float32, width*height*3)
	var halves [48]uint16
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			block := data[(by*bw+bx)*BlockSize:]
			if err := decodeBlock(block, &halves); err != nil {
				return nil, fmt.Errorf("%w at block (%d,%d)", err, bx, by)
			}
			for py := 0; py < 4; py++ {
				y := by*4 + py
				if y >= height {
					break
				}
				for px := 0; px < 4; px++ {
					x := bx*4 + px
					if x >= width {
						break
					}
					src := (py*4 + px) * 3
					dst := (y*width + x) * 3
					out[dst+0] = ToFloat32(halves[src+0])
					out[dst+1] = ToFloat32(halves[src+1])
					out[dst+2] = ToFloat32(halves[src+2])
				}
			}
		}
	}
	return out, nil
}

// bitReader consumes a 128-bit block LSB-first.
type bitReader struct {
	lo, hi uint64
}

func newBitReader(block []byte) bitReader {
	return bitReader{
		lo: binary.LittleEndian.Uint64(block[0:8]),
		hi: binary.LittleEndian.Uint64(block[8:16]),
	}
}

func (bs *bitReader) read(n uint) uint32 {
	v := uint32(bs.lo & (1<<n - 1))
	bs.lo = bs.lo>>n | bs.hi<<(64-n)
	bs.hi >>= n
	return v
}

// readRev reads n bits stored most-significant-first.
func (bs *bitReader) readRev(n uint) uint32 {
	v := bs.read(n)
	var out uint32
	for i := uint(0); i < n; i++ {
		if v&(1<<i) != 0 {
			out |= 1 << (n - 1 - i)
		}
	}
	return out
}

// partitions2 is the standard two-subset partition table; BC6H uses the
// first 32 entries.
var partitions2 = [32][16]uint8{
	{0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1},
	{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1},
	{0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1},
	{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 1, 1},
	{0, 0, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 1, 0, 0, 1, 1, 0, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1},
	{0, 0, 1, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 1, 1},
	{0, 0, 0, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1},
	{0, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 0, 1, 1, 1, 1},
	{0, 1, 1, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 0},
	{0, 1, 1, 1, 0, 0, 1, 1, 0, 0, 0, 1, 0, 0, 0, 0},
	{0, 0, 1, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 0, 0, 1, 1, 0, 0, 1, 1, 1, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 1, 0, 0},
	{0, 1, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 0, 1},
	{0, 0, 1, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 0, 0},
	{0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0},
	{0, 0, 1, 1, 0, 1, 1, 0, 0, 1, 1, 0, 1, 1, 0, 0},
	{0, 0, 0, 1, 0, 1, 1, 1, 1, 1, 1, 0, 1, 0, 0, 0},
	{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0},
	{0, 1, 1, 1, 0, 0, 0, 1, 1, 0, 0, 0, 1, 1, 1, 0},
	{0, 0, 1, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 1, 0, 0},
}

// anchors2 is the fix-up index of the second subset per partition; the
// first subset's anchor is always pixel 0.
var anchors2 = [32]uint8{
	15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15,
	15, 2, 8, 2, 2, 8, 8, 15,
	2, 8, 2, 2, 8, 8, 2, 2,
}

var weights3 = [8]uint32{0, 9, 18, 27, 37, 46, 55, 64}
var weights4 = [16]uint32{0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64}

func signExtend(v uint32, bits uint) uint32 {
	if v&(1<<(bits-1)) != 0 {
		v |= ^uint32(0) << bits
	}
	return v
}

// unquantize expands an unsigned endpoint component to 17-bit working
// precision per the D3D functional spec.
func unquantize(v uint32, prec uint) uint32 {
	if prec >= 15 {
		return v
	}
	if v == 0 {
		return 0
	}
	if v == 1<<prec-1 {
		return 0xFFFF
	}
	return (v<<16 + 0x8000) >> prec
}

// decodeBlock decompresses one block into 16 RGB half-float triples.
// The bit layouts per mode are the reverse-engineered constants from the
// D3D11 functional spec; reserved mode codes are a decode error.
func decodeBlock(block []byte, out *[48]uint16) error {
	bs := newBitReader(block)
	mode := bs.read(2)
	if mode > 1 {
		mode |= bs.read(3) << 2
	}

	var r, g, b [4]uint32
	var epBits uint
	var deltaBits [3]uint
	transformed := true
	twoRegion := true

	switch mode {
	case 0: // 10.555
		g[2] |= bs.read(1) << 4
		b[2] |= bs.read(1) << 4
		b[3] |= bs.read(1) << 4
		r[0] = bs.read(10)
		g[0] = bs.read(10)
		b[0] = bs.read(10)
		r[1] = bs.read(5)
		g[3] |= bs.read(1) << 4
		g[2] |= bs.read(4)
		g[1] = bs.read(5)
		b[3] |= bs.read(1)
		g[3] |= bs.read(4)
		b[1] = bs.read(5)
		b[3] |= bs.read(1) << 1
		b[2] |= bs.read(4)
		r[2] = bs.read(5)
		b[3] |= bs.read(1) << 2
		r[3] = bs.read(5)
		b[3] |= bs.read(1) << 3
		epBits = 10
		deltaBits = [3]uint{5, 5, 5}
	case 1: // 7.666
		g[2] |= bs.read(1) << 5
		g[3] |= bs.read(1) << 4
		g[3] |= bs.read(1) << 5
		r[0] = bs.read(7)
		b[3] |= bs.read(1)
		b[3] |= bs.read(1) << 1
		b[2] |= bs.read(1) << 4
		g[0] = bs.read(7)
		b[2] |= bs.read(1) << 5
		b[3] |= bs.read(1) << 2
		g[2] |= bs.read(1) << 4
		b[0] = bs.read(7)
		b[3] |= bs.read(1) << 3
		b[3] |= bs.read(1) << 5
		b[3] |= bs.read(1) << 4
		r[1] = bs.read(6)
		g[2] |= bs.read(4)
		g[1] = bs.read(6)
		g[3] |= bs.read(4)
		b[1] = bs.read(6)
		b[2] |= bs.read(4)
		r[2] = bs.read(6)
		r[3] = bs.read(6)
		epBits = 7
		deltaBits = [3]uint{6, 6, 6}
	case 2: // 11.5.4.4
		r[0] = bs.read(10)
		g[0] = bs.read(10)
		b[0] = bs.read(10)
		r[1] = bs.read(5)
		r[0] |= bs.read(1) << 10
		g[2] |= bs.read(4)
		g[1] = bs.read(4)
		g[0] |= bs.read(1) << 10
		b[3] |= bs.read(1)
		g[3] |= bs.read(4)
		b[1] = bs.read(4)
		b[0] |= bs.read(1) << 10
		b[3] |= bs.read(1) << 1
		b[2] |= bs.read(4)
		r[2] = bs.read(5)
		b[3] |= bs.read(1) << 2
		r[3] = bs.read(5)
		b[3] |= bs.read(1) << 3
		epBits = 11
		deltaBits = [3]uint{5, 4, 4}
	case 6: // 11.4.5.4
		r[0] = bs.read(10)
		g[0] = bs.read(10)
		b[0] = bs.read(10)
		r[1] = bs.read(4)
		r[0] |= bs.read(1) << 10
		g[3] |= bs.read(1) << 4
		g[2] |= bs.read(4)
		g[1] = bs.read(5)
		g[0] |= bs.read(1) << 10
		g[3] |= bs.read(4)
		b[1] = bs.read(4)
		b[0] |= bs.read(1) << 10
		b[3] |= bs.read(1) << 1
		b[2] |= bs.read(4)
		r[2] = bs.read(4)
		b[3] |= bs.read(1)
		b[3] |= bs.read(1) << 2
		r[3] = bs.read(4)
		g[2] |= bs.read(1) << 4
		b[3] |= bs.read(1) << 3
		epBits = 11
		deltaBits = [3]uint{4, 5, 4}
	case 10: // 11.4.4.5
		r[0] = bs.read(10)
		g[0] = bs.read(10)
		b[0] = bs.read(10)
		r[1] = bs.read(4)
		r[0] |= bs.read(1) << 10
		b[2] |= bs.read(1) << 4
		g[2] |= bs.read(4)
		g[1] = bs.read(4)
		g[0] |= bs.read(1) << 10
		b[3] |= bs.read(1)
		g[3] |= bs.read(4)
		b[1] = bs.read(5)
		b[0] |= bs.read(1) << 10
		b[2] |= bs.read(4)
		r[2] = bs.read(4)
		b[3] |= bs.read(1) << 1
		b[3] |= bs.read(1) << 2
		r[3] = bs.read(4)
		b[3] |= bs.read(1) << 4
		b[3] |= bs.read(1) << 3
		epBits = 11
		deltaBits = [3]uint{4, 4, 5}
	case 14: // 9.555
		r[0] = bs.read(9)
		b[2] |= bs.read(1) << 4
		g[0] = bs.read(9)
		g[2] |= bs.read(1) << 4
		b[0] = bs.read(9)
		b[3] |= bs.read(1) << 4
		r[1] = bs.read(5)
		g[3] |= bs.read(1) << 4
		g[2] |= bs.read(4)
		g[1] = bs.read(5)
		b[3] |= bs.read(1)
		g[3] |= bs.read(4)
		b[1] = bs.read(5)
		b[3] |= bs.read(1) << 1
		b[2] |= bs.read(4)
		r[2] = bs.read(5)
		b[3] |= bs.read(1) << 2
		r[3] = bs.read(5)
		b[3] |= bs.read(1) << 3
		epBits = 9
		deltaBits = [3]uint{5, 5, 5}
	case 18: // 8.655
		r[0] = bs.read(8)
		g[3] |= bs.read(1) << 4
		b[2] |= bs.read(1) << 4
		g[0] = bs.read(8)
		b[3] |= bs.read(1) << 2
		g[2] |= bs.read(1) << 4
		b[0] = bs.read(8)
		b[3] |= bs.read(1) << 3
		b[3] |= bs.read(1) << 4
		r[1] = bs.read(6)
		g[2] |= bs.read(4)
		g[1] = bs.read(5)
		b[3] |= bs.read(1)
		g[3] |= bs.read(4)
		b[1] = bs.read(5)
		b[3] |= bs.read(1) << 1
		b[2] |= bs.read(4)
		r[2] = bs.read(6)
		r[3] = bs.read(6)
		epBits = 8
		deltaBits = [3]uint{6, 5, 5}
	case 22: // 8.565
		r[0] = bs.read(8)
		b[3] |= bs.read(1)
		b[2] |= bs.read(1) << 4
		g[0] = bs.read(8)
		g[2] |= bs.read(1) << 5
		g[2] |= bs.read(1) << 4
		b[0] = bs.read(8)
		g[3] |= bs.read(1) << 5
		b[3] |= bs.read(1) << 4
		r[1] = bs.read(5)
		g[3] |= bs.read(1) << 4
		g[2] |= bs.read(4)
		g[1] = bs.read(6)
		g[3] |= bs.read(4)
		b[1] = bs.read(5)
		b[3] |= bs.read(1) << 1
		b[2] |= bs.read(4)
		r[2] = bs.read(5)
		b[3] |= bs.read(1) << 2
		r[3] = bs.read(5)
		b[3] |= bs.read(1) << 3
		epBits = 8
		deltaBits = [3]uint{5, 6, 5}
	case 26: // 8.556
		r[0] = bs.read(8)
		b[3] |= bs.read(1) << 1
		b[2] |= bs.read(1) << 4
		g[0] = bs.read(8)
		b[2] |= bs.read(1) << 5
		g[2] |= bs.read(1) << 4
		b[0] = bs.read(8)
		b[3] |= bs.read(1) << 5
		b[3] |= bs.read(1) << 4
		r[1] = bs.read(5)
		g[3] |= bs.read(1) << 4
		g[2] |= bs.read(4)
		g[1] = bs.read(5)
		b[3] |= bs.read(1)
		g[3] |= bs.read(4)
		b[1] = bs.read(6)
		b[2] |= bs.read(4)
		r[2] = bs.read(5)
		b[3] |= bs.read(1) << 2
		r[3] = bs.read(5)
		b[3] |= bs.read(1) << 3
		epBits = 8
		deltaBits = [3]uint{5, 5, 6}
	case 30: // 6.666, endpoints stored directly
		r[0] = bs.read(6)
		g[3] |= bs.read(1) << 4
		b[3] |= bs.read(1)
		b[3] |= bs.read(1) << 1
		b[2] |= bs.read(1) << 4
		g[0] = bs.read(6)
		g[2] |= bs.read(1) << 5
		b[2] |= bs.read(1) << 5
		b[3] |= bs.read(1) << 2
		g[2] |= bs.read(1) << 4
		b[0] = bs.read(6)
		g[3] |= bs.read(1) << 5
		b[3] |= bs.read(1) << 3
		b[3] |= bs.read(1) << 5
		b[3] |= bs.read(1) << 4
		r[1] = bs.read(6)
		g[2] |= bs.read(4)
		g[1] = bs.read(6)
		g[3] |= bs.read(4)
		b[1] = bs.read(6)
		b[2] |= bs.read(4)
		r[2] = bs.read(6)
		r[3] = bs.read(6)
		epBits = 6
		transformed = false
	case 3: // 10.10, one region, endpoints stored directly
		r[0] = bs.read(10)
		g[0] = bs.read(10)
		b[0] = bs.read(10)
		r[1] = bs.read(10)
		g[1] = bs.read(10)
		b[1] = bs.read(10)
		epBits = 10
		transformed = false
		twoRegion = false
	case 7: // 11.9, one region
		r[0] = bs.read(10)
		g[0] = bs.read(10)
		b[0] = bs.read(10)
		r[1] = bs.read(9)
		r[0] |= bs.read(1) << 10
		g[1] = bs.read(9)
		g[0] |= bs.read(1) << 10
		b[1] = bs.read(9)
		b[0] |= bs.read(1) << 10
		epBits = 11
		deltaBits = [3]uint{9, 9, 9}
		twoRegion = false
	case 11: // 12.8, one region
		r[0] = bs.read(10)
		g[0] = bs.read(10)
		b[0] = bs.read(10)
		r[1] = bs.read(8)
		r[0] |= bs.readRev(2) << 10
		g[1] = bs.read(8)
		g[0] |= bs.readRev(2) << 10
		b[1] = bs.read(8)
		b[0] |= bs.readRev(2) << 10
		epBits = 12
		deltaBits = [3]uint{8, 8, 8}
		twoRegion = false
	case 15: // 16.4, one region
		r[0] = bs.read(10)
		g[0] = bs.read(10)
		b[0] = bs.read(10)
		r[1] = bs.read(4)
		r[0] |= bs.readRev(6) << 10
		g[1] = bs.read(4)
		g[0] |= bs.readRev(6) << 10
		b[1] = bs.read(4)
		b[0] |= bs.readRev(6) << 10
		epBits = 16
		deltaBits = [3]uint{4, 4, 4}
		twoRegion = false
	default: // 19, 23, 27, 31
		return fmt.Errorf("bc6h: reserved mode 0x%02x", mode)
	}

	var partition uint32
	if twoRegion {
		partition = bs.read(5)
	}

	endpoints := 2
	if twoRegion {
		endpoints = 4
	}
	if transformed {
		mask := uint32(1)<<epBits - 1
		for i := 1; i < endpoints; i++ {
			r[i] = (r[0] + signExtend(r[i], deltaBits[0])) & mask
			g[i] = (g[0] + signExtend(g[i], deltaBits[1])) & mask
			b[i] = (b[0] + signExtend(b[i], deltaBits[2])) & mask
		}
	}
	for i := 0; i < endpoints; i++ {
		r[i] = unquantize(r[i], epBits)
		g[i] = unquantize(g[i], epBits)
		b[i] = unquantize(b[i], epBits)
	}

	indexBits := uint(4)
	if twoRegion {
		indexBits = 3
	}
	for i := 0; i < 16; i++ {
		n := indexBits
		if i == 0 || (twoRegion && i == int(anchors2[partition])) {
			n-- // anchor indices drop their implicit-zero high bit
		}
		idx := bs.read(n)

		subset := 0
		if twoRegion {
			subset = int(partitions2[partition][i])
		}
		var w uint32
		if twoRegion {
			w = weights3[idx]
		} else {
			w = weights4[idx]
		}

		lo, hi := 2*subset, 2*subset+1
		out[i*3+0] = finish(r[lo], r[hi], w)
		out[i*3+1] = finish(g[lo], g[hi], w)
		out[i*3+2] = finish(b[lo], b[hi], w)
	}
	return nil
}

// finish interpolates two unquantized endpoints and rescales the result
// into half-float bits (unsigned variant: scale by 31/64).
func finish(a, b, w uint32) uint16 {
	v := (a*(64-w) + b*w + 32) >> 6
	return uint16(v * 31 >> 6)
}
