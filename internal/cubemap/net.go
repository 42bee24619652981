package cubemap

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/snake-biscuits/respawn-cubemap-tool/internal/vtf"
)

// netCells places each side in a 4x3 horizontal cross:
//
//	        [up]
//	[left] [front] [right] [back]
//	       [down]
//
// Cell coordinates are (column, row) in face-sized units.
var netCells = [SideCount][2]int{
	Right: {2, 1},
	Left:  {0, 1},
	Back:  {3, 1},
	Front: {1, 1},
	Up:    {1, 0},
	Down:  {1, 2},
}

// NetCell returns the (column, row) cell a side occupies in the net.
func NetCell(s Side) (col, row int) {
	c := netCells[s]
	return c[0], c[1]
}

// Net decodes, reorients and tone maps all six faces of one cubemap group
// and composes them into an unfolded-cube image. Empty cells stay
// transparent. A face that fails to decode fails the whole net; partial
// nets are not useful for eyeballing seams.
func Net(t *vtf.Texture, cubemap int, exposure float32) (*image.NRGBA, error) {
	w, h := t.MipSize(0)
	out := image.NewNRGBA(image.Rect(0, 0, w*4, h*3))
	for _, s := range Sides() {
		face, err := Decode(t, cubemap, s)
		if err != nil {
			return nil, err
		}
		face = Reorient(face)
		img := ToneMap(face, exposure)
		col, row := NetCell(s)
		draw.Copy(out, image.Pt(col*w, row*h), img, img.Bounds(), draw.Src, nil)
	}
	return out, nil
}

// ScaleNet downsamples a composed net for preview output. maxWidth <= 0
// or a net already small enough returns the input unchanged.
func ScaleNet(img *image.NRGBA, maxWidth int) *image.NRGBA {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	scale := float64(maxWidth) / float64(b.Dx())
	dst := image.NewNRGBA(image.Rect(0, 0, maxWidth, int(float64(b.Dy())*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// NetName builds the output filename for a composed net image.
func NetName(inputName string, cubemap int) string {
	return fmt.Sprintf("%s.%d.net.png", inputName, cubemap)
}
