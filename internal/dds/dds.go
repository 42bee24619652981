// Package dds reads and writes the DX10-extended DDS container used for
// exported cubemap faces, matching the exact header a BC6H cubemap face
// carries (148 bytes of header before pixel data).
package dds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var magic = [4]byte{'D', 'D', 'S', ' '}
var fourCCDX10 = [4]byte{'D', 'X', '1', '0'}

// DXGI pixel format codes (the subset this tool emits).
const (
	DXGIBC6HUF16 uint32 = 0x5F
)

// Fixed header field values for the BC6H cubemap face layout.
const (
	headerSize        = 0x7C
	headerFlags       = 0x000A1007
	headerPitch       = 0x00010000
	headerDepth       = 0x01
	pixelFormatSize   = 0x20
	pixelFormatFourCC = 0x04
	headerCaps        = 0x00401008
)

var ErrFormat = errors.New("dds: invalid file")

// Sanity bounds for parsed headers; allocation sizes derive from these
// fields, so anything past the limits is treated as a corrupt file.
const (
	maxDim       = 1 << 15
	maxMipCount  = 16 // log2(maxDim) + 1
	maxArraySize = 1 << 12
)

// header is the classic 124-byte DDS header (after the magic).
type header struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       pixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

type pixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      [4]byte
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

type headerDX10 struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// Texture is a parsed or assembled DDS file. Mips are kept largest-first
// per array element, the order they appear on disk.
type Texture struct {
	Width             uint32
	Height            uint32
	MipCount          uint32
	Format            uint32 // DXGI format code
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32

	// Mips[element][level], level 0 = largest.
	Mips [][][]byte
}

// NewBC6H assembles an empty BC6H UF16 texture with preallocated mip
// buffers for one array element per face.
func NewBC6H(width, height, mipCount, arraySize uint32) *Texture {
	t := &Texture{
		Width:             width,
		Height:            height,
		MipCount:          mipCount,
		Format:            DXGIBC6HUF16,
		ResourceDimension: 3,
		ArraySize:         arraySize,
		Mips:              make([][][]byte, arraySize),
	}
	for e := range t.Mips {
		t.Mips[e] = make([][]byte, mipCount)
		for level := range t.Mips[e] {
			t.Mips[e][level] = make([]byte, mipDataSize(width, height, level))
		}
	}
	return t
}

// mipDataSize is the BC6H byte size of one mip level.
func mipDataSize(width, height uint32, level int) int {
	w := int(width) >> level
	h := int(height) >> level
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return (w + 3) / 4 * ((h + 3) / 4) * 16
}

// Read parses a DDS byte stream. Only the DX10 BC6H layout is supported;
// the fixed header fields are validated against the expected values.
func Read(r io.Reader) (*Texture, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if m != magic {
		return nil, fmt.Errorf("%w: bad signature % 02x", ErrFormat, m[:])
	}

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrFormat, err)
	}
	if h.Size != headerSize {
		return nil, fmt.Errorf("%w: header size %d", ErrFormat, h.Size)
	}
	if h.PixelFormat.FourCC != fourCCDX10 {
		return nil, fmt.Errorf("dds: unsupported fourCC %q", h.PixelFormat.FourCC)
	}
	if h.Width == 0 || h.Height == 0 || h.Width > maxDim || h.Height > maxDim {
		return nil, fmt.Errorf("%w: %dx%d texture", ErrFormat, h.Width, h.Height)
	}
	if h.MipMapCount == 0 || h.MipMapCount > maxMipCount {
		return nil, fmt.Errorf("%w: %d mipmaps", ErrFormat, h.MipMapCount)
	}

	var dx10 headerDX10
	if err := binary.Read(r, binary.LittleEndian, &dx10); err != nil {
		return nil, fmt.Errorf("%w: DX10 header: %v", ErrFormat, err)
	}
	if dx10.DXGIFormat != DXGIBC6HUF16 {
		return nil, fmt.Errorf("dds: unsupported DXGI format 0x%02X", dx10.DXGIFormat)
	}
	if dx10.ArraySize == 0 || dx10.ArraySize > maxArraySize {
		return nil, fmt.Errorf("%w: array size %d", ErrFormat, dx10.ArraySize)
	}

	t := &Texture{
		Width:             h.Width,
		Height:            h.Height,
		MipCount:          h.MipMapCount,
		Format:            dx10.DXGIFormat,
		ResourceDimension: dx10.ResourceDimension,
		MiscFlag:          dx10.MiscFlag,
		ArraySize:         dx10.ArraySize,
		Mips:              make([][][]byte, dx10.ArraySize),
	}
	for e := range t.Mips {
		t.Mips[e] = make([][]byte, t.MipCount)
		for level := 0; level < int(t.MipCount); level++ {
			buf := make([]byte, mipDataSize(t.Width, t.Height, level))
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("%w: element %d mip %d: %v", ErrFormat, e, level, err)
			}
			t.Mips[e][level] = buf
		}
	}
	return t, nil
}

// ReadFile parses a DDS file from disk.
func ReadFile(path string) (*Texture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dds: read %s: %w", path, err)
	}
	t, err := Read(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write serializes the texture with the fixed BC6H cubemap face header.
func (t *Texture) Write(w io.Writer) error {
	h := header{
		Size:              headerSize,
		Flags:             headerFlags,
		Height:            t.Height,
		Width:             t.Width,
		PitchOrLinearSize: headerPitch,
		Depth:             headerDepth,
		MipMapCount:       t.MipCount,
		PixelFormat: pixelFormat{
			Size:   pixelFormatSize,
			Flags:  pixelFormatFourCC,
			FourCC: fourCCDX10,
		},
		Caps: headerCaps,
	}
	dx10 := headerDX10{
		DXGIFormat:        t.Format,
		ResourceDimension: t.ResourceDimension,
		MiscFlag:          t.MiscFlag,
		ArraySize:         t.ArraySize,
	}

	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, &dx10); err != nil {
		return err
	}
	for _, element := range t.Mips {
		for _, mip := range element {
			if _, err := w.Write(mip); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveAs writes the texture to path, creating parent directories.
func (t *Texture) SaveAs(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("dds: create %s: %w", dir, err)
		}
	}
	var buf bytes.Buffer
	if err := t.Write(&buf); err != nil {
		return fmt.Errorf("dds: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("dds: write %s: %w", path, err)
	}
	return nil
}
