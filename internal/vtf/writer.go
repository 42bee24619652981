package vtf

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// NewCubemap builds an in-memory v7.5 cubemap texture ready for
// SetFaceData and Encode, with the header defaults Respawn's own
// cubemaps.hdr.vtf files carry.
func NewCubemap(width, height uint16, format TextureFormat, mipCount uint8, cubemaps int) (*Texture, error) {
	tex := &Texture{
		Name:         "untitled.vtf",
		Major:        7,
		Minor:        5,
		Width:        width,
		Height:       height,
		Flags:        FlagClampS | FlagClampT | FlagNoLOD | FlagEnvmap,
		FrameCount:   uint16(cubemaps),
		Reflectivity: [3]float32{0.2, 0.2, 0.2},
		BumpmapScale: 1.0,
		Format:       format,
		MipCount:     mipCount,
		LowResFormat: FormatNone,
		Depth:        1,
	}
	total, err := tex.payloadSize()
	if err != nil {
		return nil, err
	}
	tex.image = make([]byte, total)
	return tex, nil
}

// SetCMA attaches a "Cubemap Multiply Ambient" value per cubemap group.
func (t *Texture) SetCMA(values []float32) error {
	if len(values) != int(t.FrameCount) {
		return fmt.Errorf("vtf: %d CMA values for %d cubemaps", len(values), t.FrameCount)
	}
	t.CMA = &CMA{Values: values}
	return nil
}

// SetFaceData stores the raw bytes of one face at one mip level.
// The data length must match the format's storage size for that level.
func (t *Texture) SetFaceData(level, cubemap, side int, data []byte) error {
	count, err := t.CubemapCount()
	if err != nil {
		return err
	}
	if level < 0 || level >= int(t.MipCount) {
		return fmt.Errorf("%w: mip level %d of %d", ErrOutOfRange, level, t.MipCount)
	}
	if cubemap < 0 || cubemap >= count {
		return fmt.Errorf("%w: cubemap %d of %d", ErrOutOfRange, cubemap, count)
	}
	if side < 0 || side > 5 {
		return fmt.Errorf("%w: side %d", ErrOutOfRange, side)
	}
	offset, size, err := t.faceRange(level, cubemap, side)
	if err != nil {
		return err
	}
	if len(data) != size {
		w, h := t.MipSize(level)
		return fmt.Errorf("vtf: %d bytes for %dx%d %v face, want %d",
			len(data), w, h, t.Format, size)
	}
	copy(t.image[offset:], data)
	return nil
}

// Encode serializes the texture back to VTF bytes. The image data resource
// is always written last, after any out-of-line CMA payload.
func (t *Texture) Encode() ([]byte, error) {
	if t.Major != 7 || t.Minor != 5 {
		return nil, fmt.Errorf("%w: v%d.%d", ErrUnsupportedVersion, t.Major, t.Minor)
	}
	if t.image == nil {
		return nil, fmt.Errorf("%w: nothing to encode", ErrNotCubemap)
	}

	var cmaPayload []byte
	resources := []Resource{}
	if t.CMA != nil {
		cmaPayload = t.CMA.encode()
		resources = append(resources, Resource{Tag: TagCMA})
	}
	resources = append(resources, Resource{Tag: TagImageData})

	headerSize := baseHeaderSize + len(resources)*resourceEntrySize
	offset := uint32(headerSize)
	for i := range resources {
		switch resources[i].Tag {
		case TagCMA:
			if len(cmaPayload) == 0 {
				resources[i].Flags = resourceNoData
				resources[i].Offset = math.Float32bits(t.CMA.Values[0])
			} else {
				resources[i].Offset = offset
				offset += uint32(len(cmaPayload))
			}
		case TagImageData:
			resources[i].Offset = offset
		}
	}
	t.Resources = resources

	out := make([]byte, headerSize, headerSize+len(cmaPayload)+len(t.image))
	le := binary.LittleEndian
	copy(out, magic[:])
	le.PutUint32(out[4:], t.Major)
	le.PutUint32(out[8:], t.Minor)
	le.PutUint32(out[12:], uint32(headerSize))
	le.PutUint16(out[16:], t.Width)
	le.PutUint16(out[18:], t.Height)
	le.PutUint32(out[20:], uint32(t.Flags))
	le.PutUint16(out[24:], t.FrameCount)
	le.PutUint16(out[26:], t.FirstFrame)
	le.PutUint32(out[32:], math.Float32bits(t.Reflectivity[0]))
	le.PutUint32(out[36:], math.Float32bits(t.Reflectivity[1]))
	le.PutUint32(out[40:], math.Float32bits(t.Reflectivity[2]))
	le.PutUint32(out[48:], math.Float32bits(t.BumpmapScale))
	le.PutUint32(out[52:], uint32(int32(t.Format)))
	out[56] = t.MipCount
	le.PutUint32(out[57:], uint32(int32(t.LowResFormat)))
	out[61] = t.LowResWidth
	out[62] = t.LowResHeight
	le.PutUint16(out[63:], t.Depth)
	le.PutUint32(out[68:], uint32(len(resources)))
	for i, r := range resources {
		entry := out[baseHeaderSize+i*resourceEntrySize:]
		copy(entry, r.Tag[:])
		entry[3] = r.Flags
		le.PutUint32(entry[4:], r.Offset)
	}

	out = append(out, cmaPayload...)
	out = append(out, t.image...)
	return out, nil
}

// SaveAs encodes the texture and writes it to path, creating parent
// directories as needed.
func (t *Texture) SaveAs(path string) error {
	raw, err := t.Encode()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("vtf: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("vtf: write %s: %w", path, err)
	}
	return nil
}
