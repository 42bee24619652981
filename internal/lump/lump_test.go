package lump

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeArchive builds a zip file with the given entries.
func writeArchive(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	path := filepath.Join(t.TempDir(), "pakfile.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

func TestFindCubemap(t *testing.T) {
	payload := []byte("VTF\x00 payload stand-in")
	path := writeArchive(t, map[string][]byte{
		"materials/maps/mp_forwardbase_kodai/cubemaps.hdr.vtf": payload,
		"materials/maps/mp_forwardbase_kodai/grass.vtf":        []byte("not a cubemap"),
		"scripts/vscripts/something.nut":                       []byte("code"),
	})

	name, data, err := FindCubemap(path)
	if err != nil {
		t.Fatalf("FindCubemap: %v", err)
	}
	if name != "cubemaps.hdr.vtf" {
		t.Errorf("name = %q", name)
	}
	if !bytes.Equal(data, payload) {
		t.Error("entry bytes changed")
	}
}

func TestFindCubemapNone(t *testing.T) {
	path := writeArchive(t, map[string][]byte{
		"materials/maps/mp_test/grass.vtf": []byte("x"),
		"materials/models/weapon.vtf":      []byte("x"),
	})
	if _, _, err := FindCubemap(path); !errors.Is(err, ErrNoCubemap) {
		t.Errorf("got %v, want ErrNoCubemap", err)
	}
}

func TestCubemapsList(t *testing.T) {
	path := writeArchive(t, map[string][]byte{
		"materials/maps/mp_a/cubemaps.hdr.vtf": []byte("a"),
		"materials/maps/mp_a/cubemaps.vtf":     []byte("b"),
		"materials/maps/mp_a/c128_-64_32.hdr.vtf": []byte("c"),
		"materials/maps/mp_a/concrete_wall.vtf":   []byte("d"),
		"materials/maps/mp_a/readme.txt":          []byte("e"),
	})

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	got := a.Cubemaps()
	if len(got) != 3 {
		t.Fatalf("got %d entries: %v", len(got), got)
	}
}

func TestIsCubemapEntry(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"materials/maps/mp_x/cubemaps.hdr.vtf", true},
		{"materials/maps/mp_x/cubemaps.vtf", true},
		{"Materials/Maps/MP_X/CUBEMAPS.HDR.VTF", true},
		{"materials/maps/mp_x/c0_0_0.hdr.vtf", true},
		{"materials/maps/mp_x/c128_-64_32.hdr.vtf", true},
		{"materials/maps/mp_x/concrete.vtf", false},
		{"materials/maps/mp_x/rock_cliff.hdr.vtf", false},
		{"materials/models/cubemaps.hdr.vtf", false},
		{"cubemaps.hdr.vtf", false},
	}
	for _, tc := range cases {
		if got := isCubemapEntry(tc.name); got != tc.want {
			t.Errorf("isCubemapEntry(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
