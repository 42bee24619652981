package vtf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

// buildCubemap assembles a small RGBA8888 cubemap texture: each face of
// each cubemap group filled with a distinct byte pattern.
func buildCubemap(t *testing.T, cubemaps int) *Texture {
	t.Helper()
	tex, err := NewCubemap(4, 4, FormatRGBA8888, 1, cubemaps)
	if err != nil {
		t.Fatalf("NewCubemap: %v", err)
	}
	for c := 0; c < cubemaps; c++ {
		for s := 0; s < 6; s++ {
			face := make([]byte, 4*4*4)
			for i := range face {
				face[i] = byte(c*6 + s)
			}
			if err := tex.SetFaceData(0, c, s, face); err != nil {
				t.Fatalf("SetFaceData(%d, %d): %v", c, s, err)
			}
		}
	}
	return tex
}

func TestParse(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		src := buildCubemap(t, 2)
		raw, err := src.Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		tex, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if tex.Major != 7 || tex.Minor != 5 {
			t.Errorf("version: got v%d.%d, want v7.5", tex.Major, tex.Minor)
		}
		if tex.Width != 4 || tex.Height != 4 {
			t.Errorf("size: got %dx%d, want 4x4", tex.Width, tex.Height)
		}
		if tex.Format != FormatRGBA8888 {
			t.Errorf("format: got %v", tex.Format)
		}
		if tex.Flags&FlagEnvmap == 0 {
			t.Error("ENVMAP flag lost")
		}

		count, err := tex.CubemapCount()
		if err != nil {
			t.Fatalf("CubemapCount: %v", err)
		}
		if count != 2 {
			t.Errorf("cubemaps: got %d, want 2", count)
		}

		for c := 0; c < 2; c++ {
			for s := 0; s < 6; s++ {
				face, err := tex.FaceData(0, c, s)
				if err != nil {
					t.Fatalf("FaceData(%d, %d): %v", c, s, err)
				}
				if len(face) != 4*4*4 {
					t.Fatalf("FaceData(%d, %d): %d bytes", c, s, len(face))
				}
				for _, b := range face {
					if b != byte(c*6+s) {
						t.Fatalf("FaceData(%d, %d): byte %d, want %d", c, s, b, c*6+s)
					}
				}
			}
		}
	})

	t.Run("EncodeStable", func(t *testing.T) {
		src := buildCubemap(t, 1)
		first, err := src.Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		tex, err := Parse(first)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		second, err := tex.Encode()
		if err != nil {
			t.Fatalf("re-encode: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Error("encode → parse → encode changed bytes")
		}
	})

	t.Run("BadMagic", func(t *testing.T) {
		raw, _ := buildCubemap(t, 1).Encode()
		raw[0] = 'X'
		if _, err := Parse(raw); !errors.Is(err, ErrFormat) {
			t.Errorf("got %v, want ErrFormat", err)
		}
	})

	t.Run("UnsupportedVersion", func(t *testing.T) {
		raw, _ := buildCubemap(t, 1).Encode()
		raw[8] = 4 // minor 5 -> 4
		if _, err := Parse(raw); !errors.Is(err, ErrUnsupportedVersion) {
			t.Errorf("got %v, want ErrUnsupportedVersion", err)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		raw, _ := buildCubemap(t, 1).Encode()
		for _, n := range []int{0, 4, 40, baseHeaderSize - 1} {
			if _, err := Parse(raw[:n]); !errors.Is(err, ErrFormat) {
				t.Errorf("Parse(%d bytes): got %v, want ErrFormat", n, err)
			}
		}
	})

	t.Run("ResourceCountOverflow", func(t *testing.T) {
		// 0x20000000 entries * 8 bytes wraps to 0 in 32-bit math, so a
		// header size of 80 would pass a 32-bit consistency check and the
		// directory loop would slice past the buffer.
		raw, _ := buildCubemap(t, 1).Encode()
		raw = raw[:baseHeaderSize]
		binary.LittleEndian.PutUint32(raw[12:], baseHeaderSize)
		binary.LittleEndian.PutUint32(raw[68:], 0x20000000)
		if _, err := Parse(raw); !errors.Is(err, ErrFormat) {
			t.Errorf("got %v, want ErrFormat", err)
		}
	})

	t.Run("ResourceCountPastEnd", func(t *testing.T) {
		raw, _ := buildCubemap(t, 1).Encode()
		raw = raw[:baseHeaderSize]
		binary.LittleEndian.PutUint32(raw[12:], baseHeaderSize+1000*resourceEntrySize)
		binary.LittleEndian.PutUint32(raw[68:], 1000)
		if _, err := Parse(raw); !errors.Is(err, ErrFormat) {
			t.Errorf("got %v, want ErrFormat", err)
		}
	})

	t.Run("TruncatedImageData", func(t *testing.T) {
		raw, _ := buildCubemap(t, 1).Encode()
		if _, err := Parse(raw[:len(raw)-10]); !errors.Is(err, ErrFormat) {
			t.Errorf("got %v, want ErrFormat", err)
		}
	})
}

func TestFaceDataOutOfRange(t *testing.T) {
	tex := buildCubemap(t, 1)

	cases := []struct {
		name                 string
		level, cubemap, side int
	}{
		{"Cubemap99", 0, 99, 0},
		{"NegativeCubemap", 0, -1, 0},
		{"Side6", 0, 0, 6},
		{"NegativeSide", 0, 0, -1},
		{"Mip9", 9, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tex.FaceData(tc.level, tc.cubemap, tc.side); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("got %v, want ErrOutOfRange", err)
			}
		})
	}
}

func TestNotCubemap(t *testing.T) {
	t.Run("NoEnvmapFlag", func(t *testing.T) {
		tex := buildCubemap(t, 1)
		tex.Flags &^= FlagEnvmap
		if _, err := tex.CubemapCount(); !errors.Is(err, ErrNotCubemap) {
			t.Errorf("got %v, want ErrNotCubemap", err)
		}
	})

	t.Run("UnknownFormatSize", func(t *testing.T) {
		// An envmap whose format has no known storage size parses, but
		// the count error must name the format, not claim the image data
		// resource is missing.
		raw, _ := buildCubemap(t, 1).Encode()
		binary.LittleEndian.PutUint32(raw[52:], uint32(0xFFFFFFFF)) // NONE
		tex, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		_, err = tex.CubemapCount()
		if !errors.Is(err, ErrNotCubemap) {
			t.Fatalf("got %v, want ErrNotCubemap", err)
		}
		if !strings.Contains(err.Error(), "storage size") {
			t.Errorf("error %q does not name the format problem", err)
		}
	})
}

func TestCMA(t *testing.T) {
	t.Run("InlineSingleEntry", func(t *testing.T) {
		src := buildCubemap(t, 1)
		if err := src.SetCMA([]float32{0.5}); err != nil {
			t.Fatalf("SetCMA: %v", err)
		}
		raw, err := src.Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		tex, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if tex.CMA == nil || len(tex.CMA.Values) != 1 || tex.CMA.Values[0] != 0.5 {
			t.Fatalf("CMA: got %+v", tex.CMA)
		}
		res, ok := tex.Resource(TagCMA)
		if !ok || !res.Inline() {
			t.Errorf("single-entry CMA should be inline, got %v", res)
		}
		// 0.5 = 0x3F000000
		if tag, _ := tex.CMA.Tag(0); tag != "3f000000" {
			t.Errorf("tag: got %q, want 3f000000", tag)
		}
	})

	t.Run("OutOfLine", func(t *testing.T) {
		src := buildCubemap(t, 3)
		values := []float32{0.25, 0.5, 1.0}
		if err := src.SetCMA(values); err != nil {
			t.Fatalf("SetCMA: %v", err)
		}
		raw, err := src.Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		tex, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if tex.CMA == nil || len(tex.CMA.Values) != 3 {
			t.Fatalf("CMA: got %+v", tex.CMA)
		}
		for i, want := range values {
			if tex.CMA.Values[i] != want {
				t.Errorf("CMA[%d]: got %v, want %v", i, tex.CMA.Values[i], want)
			}
		}
	})

	t.Run("WrongValueCount", func(t *testing.T) {
		src := buildCubemap(t, 2)
		if err := src.SetCMA([]float32{1.0}); err == nil {
			t.Error("expected error for 1 CMA value on 2 cubemaps")
		}
	})
}

func TestDataSize(t *testing.T) {
	cases := []struct {
		format TextureFormat
		w, h   int
		want   int
	}{
		{FormatRGBA8888, 64, 64, 64 * 64 * 4},
		{FormatBC6HUF16, 256, 256, 64 * 64 * 16},
		{FormatBC6HUF16, 4, 4, 16},
		{FormatBC6HUF16, 1, 1, 16}, // partial block still occupies a full block
		{FormatDXT1, 4, 4, 8},
	}
	for _, tc := range cases {
		got, err := tc.format.DataSize(tc.w, tc.h)
		if err != nil {
			t.Errorf("%v %dx%d: %v", tc.format, tc.w, tc.h, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%v %dx%d: got %d, want %d", tc.format, tc.w, tc.h, got, tc.want)
		}
	}
}

func TestMipLayout(t *testing.T) {
	// 9 mips of a 256x256 BC6H cubemap: the full-resolution face of the
	// second cubemap group must start after every smaller mip of both
	// groups plus the first group's six big faces.
	tex, err := NewCubemap(256, 256, FormatBC6HUF16, 9, 2)
	if err != nil {
		t.Fatalf("NewCubemap: %v", err)
	}
	smaller := 0
	for level := 1; level < 9; level++ {
		w, h := tex.MipSize(level)
		s, err := FormatBC6HUF16.DataSize(w, h)
		if err != nil {
			t.Fatalf("DataSize: %v", err)
		}
		smaller += s * 2 * 6
	}
	big, _ := FormatBC6HUF16.DataSize(256, 256)
	wantOffset := smaller + 1*6*big

	offset, size, err := tex.faceRange(0, 1, 0)
	if err != nil {
		t.Fatalf("faceRange: %v", err)
	}
	if size != big {
		t.Errorf("size: got %d, want %d", size, big)
	}
	if offset != wantOffset {
		t.Errorf("offset: got %d, want %d", offset, wantOffset)
	}
}
