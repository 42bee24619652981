package cubemap

import (
	"testing"
)

func TestNetCells(t *testing.T) {
	// Horizontal cross: up above front, down below, left-front-right-back
	// across the middle row.
	want := map[Side][2]int{
		Up:    {1, 0},
		Left:  {0, 1},
		Front: {1, 1},
		Right: {2, 1},
		Back:  {3, 1},
		Down:  {1, 2},
	}
	seen := map[[2]int]Side{}
	for _, s := range Sides() {
		col, row := NetCell(s)
		if w := want[s]; col != w[0] || row != w[1] {
			t.Errorf("%v: cell (%d,%d), want (%d,%d)", s, col, row, w[0], w[1])
		}
		cell := [2]int{col, row}
		if prev, dup := seen[cell]; dup {
			t.Errorf("%v and %v share cell (%d,%d)", prev, s, col, row)
		}
		seen[cell] = s
	}
}

func TestNet(t *testing.T) {
	tex := solidTexture(t, 1)
	img, err := Net(tex, 0, 1)
	if err != nil {
		t.Fatalf("Net: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 12 {
		t.Fatalf("net size %v, want 16x12", img.Bounds())
	}

	// Faces are solid, so reorientation cannot move their color: the
	// center of each occupied cell carries that side's red value.
	for _, s := range Sides() {
		col, row := NetCell(s)
		r, _, _, a := img.At(col*4+2, row*4+2).RGBA()
		if uint8(a>>8) != 255 {
			t.Errorf("%v: alpha %d", s, a>>8)
		}
		if uint8(r>>8) != uint8(10*int(s)) {
			t.Errorf("%v: red %d, want %d", s, r>>8, 10*int(s))
		}
	}

	// Unoccupied corner cells stay transparent.
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner cell alpha %d, want 0", a)
	}
	if _, _, _, a := img.At(15, 11).RGBA(); a != 0 {
		t.Errorf("corner cell alpha %d, want 0", a)
	}
}

func TestNetOutOfRange(t *testing.T) {
	tex := solidTexture(t, 1)
	if _, err := Net(tex, 5, 1); err == nil {
		t.Fatal("expected error for out-of-range cubemap index")
	}
}

func TestScaleNet(t *testing.T) {
	tex := solidTexture(t, 1)
	img, err := Net(tex, 0, 1)
	if err != nil {
		t.Fatalf("Net: %v", err)
	}

	if got := ScaleNet(img, 0); got != img {
		t.Error("maxWidth 0 should return the input unchanged")
	}
	if got := ScaleNet(img, 100); got != img {
		t.Error("already-small net should return unchanged")
	}

	small := ScaleNet(img, 8)
	if small.Bounds().Dx() != 8 || small.Bounds().Dy() != 6 {
		t.Errorf("scaled to %v, want 8x6", small.Bounds())
	}
}

func TestNetName(t *testing.T) {
	if got := NetName("cubemaps.hdr.vtf", 3); got != "cubemaps.hdr.vtf.3.net.png" {
		t.Errorf("NetName = %q", got)
	}
}
