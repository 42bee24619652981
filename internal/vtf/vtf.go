package vtf

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// magic is the VTF file signature.
var magic = [4]byte{'V', 'T', 'F', 0}

// baseHeaderSize is the fixed part of a v7.3+ header, before the
// resource directory.
const baseHeaderSize = 80

// resourceEntrySize is the on-disk size of one resource directory entry.
const resourceEntrySize = 8

// Texture is a parsed VTF file, restricted to the v7.5 layout the Respawn
// engines ship. For an ENVMAP texture the frame count is the number of
// six-face cubemap groups.
type Texture struct {
	Name         string // base name used for derived output files
	Major, Minor uint32
	Width        uint16
	Height       uint16
	Flags        TextureFlags
	FrameCount   uint16
	FirstFrame   uint16
	Reflectivity [3]float32
	BumpmapScale float32
	Format       TextureFormat
	MipCount     uint8
	LowResFormat TextureFormat
	LowResWidth  uint8
	LowResHeight uint8
	Depth        uint16
	Resources    []Resource
	CMA          *CMA

	// image holds the full mip payload: mips smallest-first, each mip
	// holding FrameCount*6 faces (or FrameCount*Depth images for
	// non-cubemap textures, which this package does not slice).
	image []byte
}

// ParseFile reads and parses a VTF file from disk.
func ParseFile(path string) (*Texture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vtf: read %s: %w", path, err)
	}
	tex, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tex.Name = filepath.Base(path)
	return tex, nil
}

// Parse decodes a VTF byte stream. Only v7.5 is supported; the resource
// directory and image payload bounds are validated before returning.
func Parse(raw []byte) (*Texture, error) {
	if len(raw) < baseHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is too short for a header", ErrFormat, len(raw))
	}
	if [4]byte(raw[0:4]) != magic {
		return nil, fmt.Errorf("%w: bad signature % 02x", ErrFormat, raw[0:4])
	}

	le := binary.LittleEndian
	tex := &Texture{
		Name:  "untitled.vtf",
		Major: le.Uint32(raw[4:]),
		Minor: le.Uint32(raw[8:]),
	}
	if tex.Major != 7 || tex.Minor != 5 {
		return nil, fmt.Errorf("%w: v%d.%d", ErrUnsupportedVersion, tex.Major, tex.Minor)
	}

	headerSize := le.Uint32(raw[12:])
	tex.Width = le.Uint16(raw[16:])
	tex.Height = le.Uint16(raw[18:])
	tex.Flags = TextureFlags(le.Uint32(raw[20:]))
	tex.FrameCount = le.Uint16(raw[24:])
	tex.FirstFrame = le.Uint16(raw[26:])
	tex.Reflectivity[0] = math.Float32frombits(le.Uint32(raw[32:]))
	tex.Reflectivity[1] = math.Float32frombits(le.Uint32(raw[36:]))
	tex.Reflectivity[2] = math.Float32frombits(le.Uint32(raw[40:]))
	tex.BumpmapScale = math.Float32frombits(le.Uint32(raw[48:]))
	tex.Format = TextureFormat(int32(le.Uint32(raw[52:])))
	tex.MipCount = raw[56]
	tex.LowResFormat = TextureFormat(int32(le.Uint32(raw[57:])))
	tex.LowResWidth = raw[61]
	tex.LowResHeight = raw[62]
	tex.Depth = le.Uint16(raw[63:])

	if tex.Width == 0 || tex.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d texture", ErrFormat, tex.Width, tex.Height)
	}
	if tex.MipCount == 0 {
		return nil, fmt.Errorf("%w: zero mipmaps", ErrFormat)
	}

	// 64-bit math: a crafted resource count must not wrap the directory
	// size back into the valid range.
	numResources := le.Uint32(raw[68:])
	dirSize := int64(baseHeaderSize) + int64(numResources)*resourceEntrySize
	if int64(headerSize) != dirSize {
		return nil, fmt.Errorf("%w: header size %d does not match %d resources",
			ErrFormat, headerSize, numResources)
	}
	if int64(len(raw)) < dirSize {
		return nil, fmt.Errorf("%w: truncated resource directory", ErrFormat)
	}

	tex.Resources = make([]Resource, numResources)
	for i := range tex.Resources {
		entry := raw[baseHeaderSize+i*resourceEntrySize:]
		res := Resource{
			Tag:    ResourceTag(entry[0:3]),
			Flags:  entry[3],
			Offset: le.Uint32(entry[4:]),
		}
		if res.Tag == TagCRC && !res.Inline() {
			return nil, fmt.Errorf("%w: CRC resource must hold an inline checksum", ErrFormat)
		}
		if !res.Inline() && res.Offset > uint32(len(raw)) {
			return nil, fmt.Errorf("%w: resource %v offset %d past end of file",
				ErrFormat, res.Tag, res.Offset)
		}
		tex.Resources[i] = res
	}

	if cmaRes, ok := tex.Resource(TagCMA); ok {
		cma, err := parseCMA(raw, cmaRes, int(tex.FrameCount))
		if err != nil {
			return nil, err
		}
		tex.CMA = cma
	}

	// Only cubemap payloads are sliced; other textures parse but report
	// ErrNotCubemap from the extraction operations.
	if imgRes, ok := tex.Resource(TagImageData); ok && tex.Flags&FlagEnvmap != 0 {
		total, err := tex.payloadSize()
		if err == nil {
			end := int64(imgRes.Offset) + int64(total)
			if end > int64(len(raw)) {
				return nil, fmt.Errorf("%w: image data needs %d bytes, file has %d",
					ErrFormat, end, len(raw))
			}
			tex.image = raw[imgRes.Offset:end]
		}
		// Formats with unknown storage size keep a nil payload; cubemap
		// operations report ErrNotCubemap / unsupported format instead.
	}

	return tex, nil
}

// Resource returns the directory entry with the given tag.
func (t *Texture) Resource(tag ResourceTag) (Resource, bool) {
	for _, r := range t.Resources {
		if r.Tag == tag {
			return r, true
		}
	}
	return Resource{}, false
}

// CubemapCount returns how many full six-face cubemap groups the texture
// holds, or ErrNotCubemap when the texture is not an environment map with
// image data.
func (t *Texture) CubemapCount() (int, error) {
	if t.Flags&FlagEnvmap == 0 {
		return 0, fmt.Errorf("%w: ENVMAP flag not set", ErrNotCubemap)
	}
	if t.image == nil {
		if _, ok := t.Resource(TagImageData); ok {
			return 0, fmt.Errorf("%w: no storage size for format %v", ErrNotCubemap, t.Format)
		}
		return 0, fmt.Errorf("%w: missing image data resource", ErrNotCubemap)
	}
	return int(t.FrameCount), nil
}

// MipSize returns the dimensions of mip level 0 (full resolution) through
// MipCount-1 (smallest).
func (t *Texture) MipSize(level int) (width, height int) {
	width = int(t.Width) >> level
	height = int(t.Height) >> level
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// FaceData returns the raw bytes of one cubemap face at the given mip
// level. Level 0 is full resolution. The returned slice aliases the
// parsed file; callers must not modify it.
func (t *Texture) FaceData(level, cubemap, side int) ([]byte, error) {
	count, err := t.CubemapCount()
	if err != nil {
		return nil, err
	}
	if level < 0 || level >= int(t.MipCount) {
		return nil, fmt.Errorf("%w: mip level %d of %d", ErrOutOfRange, level, t.MipCount)
	}
	if cubemap < 0 || cubemap >= count {
		return nil, fmt.Errorf("%w: cubemap %d of %d", ErrOutOfRange, cubemap, count)
	}
	if side < 0 || side > 5 {
		return nil, fmt.Errorf("%w: side %d", ErrOutOfRange, side)
	}

	offset, size, err := t.faceRange(level, cubemap, side)
	if err != nil {
		return nil, err
	}
	return t.image[offset : offset+size], nil
}

// faceRange computes the byte range of one face inside the image payload.
// On disk mips are stored smallest-first, ordered mip, cubemap, side.
func (t *Texture) faceRange(level, cubemap, side int) (offset, size int, err error) {
	fileMip := int(t.MipCount) - 1 - level
	for m := 0; m < fileMip; m++ {
		w, h := t.MipSize(int(t.MipCount) - 1 - m)
		s, err := t.Format.DataSize(w, h)
		if err != nil {
			return 0, 0, err
		}
		offset += s * int(t.FrameCount) * 6
	}
	w, h := t.MipSize(level)
	size, err = t.Format.DataSize(w, h)
	if err != nil {
		return 0, 0, err
	}
	offset += (cubemap*6 + side) * size
	return offset, size, nil
}

// payloadSize is the byte size of the full mip chain for every face.
func (t *Texture) payloadSize() (int, error) {
	total := 0
	for level := 0; level < int(t.MipCount); level++ {
		w, h := t.MipSize(level)
		s, err := t.Format.DataSize(w, h)
		if err != nil {
			return 0, err
		}
		total += s
	}
	return total * int(t.FrameCount) * 6, nil
}

func (t *Texture) String() string {
	return fmt.Sprintf("<VTF v%d.%d %q %dx%d %v flags=%v>",
		t.Major, t.Minor, t.Name, t.Width, t.Height, t.Format, t.Flags)
}
