package bc6h

import (
	"strings"
	"testing"
)

func TestToFloat32(t *testing.T) {
	cases := []struct {
		name string
		h    uint16
		want float32
	}{
		{"Zero", 0x0000, 0},
		{"One", 0x3C00, 1},
		{"Half", 0x3800, 0.5},
		{"Two", 0x4000, 2},
		{"MaxFinite", 0x7BFF, 65504},
		{"SmallestSubnormal", 0x0001, 5.960464477539063e-08},
		{"NegativeOne", 0xBC00, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToFloat32(tc.h); got != tc.want {
				t.Errorf("ToFloat32(%#04x) = %v, want %v", tc.h, got, tc.want)
			}
		})
	}
}

func TestDecodeZeroBlock(t *testing.T) {
	// All-zero bits select mode 0 with zero endpoints and zero indices:
	// every pixel decodes to black.
	block := make([]byte, BlockSize)
	pix, err := Decode(block, 4, 4)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(pix) != 4*4*3 {
		t.Fatalf("got %d floats, want 48", len(pix))
	}
	for i, v := range pix {
		if v != 0 {
			t.Fatalf("pix[%d] = %v, want 0", i, v)
		}
	}
}

func TestDecodeOneRegionMax(t *testing.T) {
	// Mode code 3 (one region, 10-bit endpoints stored directly), both
	// endpoints saturated. Bit stream: 5 mode bits 11000, then 60 ones for
	// the six endpoint components, then zero index bits.
	block := []byte{
		0xE3, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	pix, err := Decode(block, 4, 4)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// unquantize(0x3FF, 10) = 0xFFFF, rescaled by 31/64 = half 0x7BFF
	want := ToFloat32(0x7BFF)
	for i, v := range pix {
		if v != want {
			t.Fatalf("pix[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestDecodeReservedMode(t *testing.T) {
	// Mode code 19 is reserved; hardware returns zero but a file carrying
	// it is broken, so the decoder refuses it.
	block := make([]byte, BlockSize)
	block[0] = 0x13
	_, err := Decode(block, 4, 4)
	if err == nil {
		t.Fatal("expected error for reserved mode")
	}
	if !strings.Contains(err.Error(), "reserved mode") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecodeShortData(t *testing.T) {
	if _, err := Decode(make([]byte, BlockSize), 8, 8); err == nil {
		t.Fatal("expected error for short data")
	}
}

func TestDecodePartialBlock(t *testing.T) {
	// A 2x2 face still occupies one full block; only the covered pixels
	// are written.
	pix, err := Decode(make([]byte, BlockSize), 2, 2)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(pix) != 2*2*3 {
		t.Fatalf("got %d floats, want 12", len(pix))
	}
}
