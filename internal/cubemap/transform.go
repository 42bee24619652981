package cubemap

// Transform reorients one face from the engine's capture orientation.
// Rotation is counter-clockwise in degrees and runs before the flips.
type Transform struct {
	Rotate int // 0, 90, 180 or 270
	FlipH  bool
	FlipV  bool
}

// Identity reports whether the transform leaves pixels untouched.
func (t Transform) Identity() bool {
	return t.Rotate == 0 && !t.FlipH && !t.FlipV
}

// transforms is the per-side correction table. The engine captures each
// face under its own orientation; these constants were matched against
// in-game reflections and are not derivable from the face axes. Keep
// them exactly as they are.
var transforms = [SideCount]Transform{
	Right: {Rotate: 270},
	Left:  {Rotate: 90},
	Back:  {},
	Front: {Rotate: 180},
	Up:    {Rotate: 90, FlipH: true},
	Down:  {Rotate: 270, FlipH: true},
}

// SideTransform returns the fixed correction for one side.
func SideTransform(s Side) Transform {
	return transforms[s]
}

// Reorient returns a new face with the side's correction applied to the
// decoded pixels. Raw block data does not survive reorientation and is
// dropped from the result.
func Reorient(f *Face) *Face {
	t := SideTransform(f.Side)
	out := &Face{
		Cubemap: f.Cubemap,
		Side:    f.Side,
		Width:   f.Width,
		Height:  f.Height,
		Format:  f.Format,
		HDR:     f.HDR,
		Tag:     f.Tag,
		Pix:     f.Pix,
	}
	if t.Identity() {
		out.Blocks = f.Blocks
		return out
	}
	out.Pix = rotatePix(out.Pix, out.Width, out.Height, t.Rotate)
	if t.Rotate == 90 || t.Rotate == 270 {
		out.Width, out.Height = out.Height, out.Width
	}
	if t.FlipH {
		out.Pix = flipHPix(out.Pix, out.Width, out.Height)
	}
	if t.FlipV {
		out.Pix = flipVPix(out.Pix, out.Width, out.Height)
	}
	return out
}

// rotatePix rotates an RGB float buffer counter-clockwise.
func rotatePix(pix []float32, w, h, degrees int) []float32 {
	if degrees == 0 {
		return pix
	}
	out := make([]float32, len(pix))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch degrees {
			case 90: // (x, y) -> (y, w-1-x)
				dx, dy = y, w-1-x
			case 180:
				dx, dy = w-1-x, h-1-y
			case 270: // (x, y) -> (h-1-y, x)
				dx, dy = h-1-y, x
			}
			dw := w
			if degrees == 90 || degrees == 270 {
				dw = h
			}
			copy(out[(dy*dw+dx)*3:], pix[(y*w+x)*3:(y*w+x)*3+3])
		}
	}
	return out
}

func flipHPix(pix []float32, w, h int) []float32 {
	out := make([]float32, len(pix))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copy(out[(y*w+w-1-x)*3:], pix[(y*w+x)*3:(y*w+x)*3+3])
		}
	}
	return out
}

func flipVPix(pix []float32, w, h int) []float32 {
	out := make([]float32, len(pix))
	for y := 0; y < h; y++ {
		copy(out[(h-1-y)*w*3:], pix[y*w*3:(y+1)*w*3])
	}
	return out
}
