package cubemap

import (
	"fmt"
	"hash/fnv"

	"github.com/snake-biscuits/respawn-cubemap-tool/internal/bc6h"
	"github.com/snake-biscuits/respawn-cubemap-tool/internal/vtf"
)

// Face is one decoded cubemap face at full resolution: a read-only value
// handed to the exporter and discarded.
type Face struct {
	Cubemap int
	Side    Side
	Width   int
	Height  int
	Format  vtf.TextureFormat
	HDR     bool

	// Blocks is the face's raw bytes as stored in the VTF, engine-native
	// orientation. Pix is the decoded linear RGB buffer, len Width*Height*3.
	Blocks []byte
	Pix    []float32

	// Tag identifies the cubemap group in output filenames: the CMA value
	// when the texture has one, otherwise a digest of the decoded pixels.
	Tag string
}

// Decode extracts and decompresses the full-resolution face (cubemap,
// side) from a parsed texture. Lower mip levels are ignored; the engine
// only uses them for distant specular.
func Decode(t *vtf.Texture, cubemap int, side Side) (*Face, error) {
	raw, err := t.FaceData(0, cubemap, int(side))
	if err != nil {
		return nil, err
	}
	w, h := t.MipSize(0)
	face := &Face{
		Cubemap: cubemap,
		Side:    side,
		Width:   w,
		Height:  h,
		Format:  t.Format,
		Blocks:  raw,
	}

	switch t.Format {
	case vtf.FormatBC6HUF16:
		pix, err := bc6h.Decode(raw, w, h)
		if err != nil {
			return nil, fmt.Errorf("%w: cubemap %d side %v: %v", vtf.ErrDecode, cubemap, side, err)
		}
		face.Pix = pix
		face.HDR = true
	case vtf.FormatRGBA8888:
		pix := make([]float32, w*h*3)
		for i := 0; i < w*h; i++ {
			pix[i*3+0] = float32(raw[i*4+0]) / 255
			pix[i*3+1] = float32(raw[i*4+1]) / 255
			pix[i*3+2] = float32(raw[i*4+2]) / 255
		}
		face.Pix = pix
	default:
		return nil, fmt.Errorf("%w: cannot decode format %v", vtf.ErrDecode, t.Format)
	}

	face.Tag = faceTag(t, face)
	return face, nil
}

// faceTag prefers the texture's CMA value, the same identification tag the
// reference tool puts in filenames; textures without a CMA resource get an
// FNV-1a digest of the raw face bytes instead.
func faceTag(t *vtf.Texture, f *Face) string {
	if tag, ok := t.CMA.Tag(f.Cubemap); ok {
		return tag
	}
	d := fnv.New32a()
	d.Write(f.Blocks)
	return fmt.Sprintf("%08x", d.Sum32())
}
