package cubemap

import (
	"image"

	"github.com/chewxy/math32"
)

// DefaultExposure is the linear scale applied to HDR faces before tone
// mapping. 1.0 keeps midtones roughly where the engine renders them.
const DefaultExposure = 1.0

const invGamma = 1.0 / 2.2

// ToneMap converts a decoded face to an 8-bit NRGBA image. HDR faces go
// through exposure scaling, Reinhard compression and gamma encoding;
// faces that were already 8-bit are copied through untouched.
func ToneMap(f *Face, exposure float32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	if exposure <= 0 {
		exposure = DefaultExposure
	}
	for i := 0; i < f.Width*f.Height; i++ {
		var r, g, b float32
		if f.HDR {
			r = encode(f.Pix[i*3+0] * exposure)
			g = encode(f.Pix[i*3+1] * exposure)
			b = encode(f.Pix[i*3+2] * exposure)
		} else {
			r = f.Pix[i*3+0]
			g = f.Pix[i*3+1]
			b = f.Pix[i*3+2]
		}
		img.Pix[i*4+0] = quantize(r)
		img.Pix[i*4+1] = quantize(g)
		img.Pix[i*4+2] = quantize(b)
		img.Pix[i*4+3] = 255
	}
	return img
}

// encode compresses one linear HDR channel into [0,1]: Reinhard then
// gamma 2.2.
func encode(v float32) float32 {
	v = math32.Max(v, 0)
	v = v / (1 + v)
	return math32.Pow(v, invGamma)
}

func quantize(v float32) uint8 {
	v = math32.Min(math32.Max(v, 0), 1)
	return uint8(v*255 + 0.5)
}
