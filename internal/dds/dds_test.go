package dds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	src := NewBC6H(256, 256, 9, 1)
	for level, mip := range src.Mips[0] {
		for i := range mip {
			mip[i] = byte(level*31 + i)
		}
	}

	var buf bytes.Buffer
	if err := src.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	// 4 magic + 124 header + 20 DX10 extension
	if got := buf.Len() - payloadSize(src); got != 148 {
		t.Errorf("header is %d bytes, want 148", got)
	}

	out, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Width != 256 || out.Height != 256 || out.MipCount != 9 {
		t.Errorf("got %dx%d %d mips", out.Width, out.Height, out.MipCount)
	}
	if out.Format != DXGIBC6HUF16 || out.ResourceDimension != 3 || out.ArraySize != 1 {
		t.Errorf("got format 0x%02X dim %d array %d", out.Format, out.ResourceDimension, out.ArraySize)
	}
	for level, mip := range out.Mips[0] {
		if !bytes.Equal(mip, src.Mips[0][level]) {
			t.Errorf("mip %d changed", level)
		}
	}
}

func TestRoundTripArray(t *testing.T) {
	src := NewBC6H(16, 16, 3, 12) // two cubemaps worth of faces
	for e := range src.Mips {
		for _, mip := range src.Mips[e] {
			for i := range mip {
				mip[i] = byte(e)
			}
		}
	}

	var buf bytes.Buffer
	if err := src.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.ArraySize != 12 {
		t.Fatalf("array size %d", out.ArraySize)
	}
	for e := range out.Mips {
		if out.Mips[e][0][0] != byte(e) {
			t.Errorf("element %d starts with %d", e, out.Mips[e][0][0])
		}
	}
}

func TestMipDataSize(t *testing.T) {
	cases := []struct {
		w, h  uint32
		level int
		want  int
	}{
		{256, 256, 0, 64 * 64 * 16},
		{256, 256, 1, 32 * 32 * 16},
		{256, 256, 8, 16},  // 1x1 still one block
		{256, 256, 12, 16}, // shifted past 1x1 clamps
	}
	for _, tc := range cases {
		if got := mipDataSize(tc.w, tc.h, tc.level); got != tc.want {
			t.Errorf("mipDataSize(%d, %d, %d) = %d, want %d", tc.w, tc.h, tc.level, got, tc.want)
		}
	}
}

func TestReadErrors(t *testing.T) {
	t.Run("BadMagic", func(t *testing.T) {
		if _, err := Read(bytes.NewReader([]byte("JUNKJUNKJUNK"))); !errors.Is(err, ErrFormat) {
			t.Errorf("got %v, want ErrFormat", err)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewBC6H(16, 16, 1, 1).Write(&buf); err != nil {
			t.Fatalf("write: %v", err)
		}
		raw := buf.Bytes()
		if _, err := Read(bytes.NewReader(raw[:len(raw)-1])); !errors.Is(err, ErrFormat) {
			t.Errorf("got %v, want ErrFormat", err)
		}
	})

	// Header fields size the mip allocations, so absurd values must be an
	// ErrFormat, not a runtime panic or a giant allocation.
	t.Run("MalformedFields", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewBC6H(16, 16, 1, 1).Write(&buf); err != nil {
			t.Fatalf("write: %v", err)
		}
		valid := buf.Bytes()

		// byte offsets after the 4-byte magic: Height 12, Width 16,
		// MipMapCount 28; ArraySize sits in the DX10 extension at 140.
		cases := []struct {
			name   string
			offset int
			value  uint32
		}{
			{"HugeWidth", 16, 0xFFFFFFF0},
			{"HugeHeight", 12, 0xFFFFFFF0},
			{"ZeroWidth", 16, 0},
			{"ZeroMips", 28, 0},
			{"HugeMips", 28, 200},
			{"HugeArray", 140, 0xFFFFFFFF},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				raw := make([]byte, len(valid))
				copy(raw, valid)
				binary.LittleEndian.PutUint32(raw[tc.offset:], tc.value)
				if _, err := Read(bytes.NewReader(raw)); !errors.Is(err, ErrFormat) {
					t.Errorf("got %v, want ErrFormat", err)
				}
			})
		}
	})
}

func TestSaveAsReadFile(t *testing.T) {
	src := NewBC6H(16, 16, 2, 1)
	src.Mips[0][0][0] = 0xAB

	path := filepath.Join(t.TempDir(), "out", "face.dds")
	if err := src.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	out, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if out.Mips[0][0][0] != 0xAB {
		t.Error("payload changed on disk")
	}
}

func payloadSize(t *Texture) int {
	total := 0
	for _, element := range t.Mips {
		for _, mip := range element {
			total += len(mip)
		}
	}
	return total
}
