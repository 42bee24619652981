// Package lump reads the ZIP-compatible per-map asset archives ("pakfile
// lumps") the engine embeds cubemap textures in. It only locates and
// returns the cubemap VTF byte streams; general asset extraction is out
// of scope.
package lump

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNoCubemap means the archive has no materials/maps/<map>/ cubemap VTF.
var ErrNoCubemap = errors.New("lump: no cubemap texture in archive")

// Archive is an open pakfile lump.
type Archive struct {
	rc *zip.ReadCloser
}

// Open opens a pakfile lump from disk.
func Open(filename string) (*Archive, error) {
	rc, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("lump: open %s: %w", filename, err)
	}
	return &Archive{rc: rc}, nil
}

func (a *Archive) Close() error {
	return a.rc.Close()
}

// Cubemaps lists the archive entries holding cubemap textures, the
// materials/maps/<mapname>/*.vtf paths with cubemap names.
func (a *Archive) Cubemaps() []string {
	var out []string
	for _, f := range a.rc.File {
		if isCubemapEntry(f.Name) {
			out = append(out, f.Name)
		}
	}
	return out
}

// ReadFile returns the uncompressed bytes of one archive entry.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	for _, f := range a.rc.File {
		if f.Name != name {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("lump: open entry %s: %w", name, err)
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("lump: read entry %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("lump: no entry %s", name)
}

// FindCubemap opens a lump and returns the first cubemap VTF it holds.
// The returned name is the entry's base name, for deriving output files.
func FindCubemap(filename string) (name string, data []byte, err error) {
	a, err := Open(filename)
	if err != nil {
		return "", nil, err
	}
	defer a.Close()

	entries := a.Cubemaps()
	if len(entries) == 0 {
		return "", nil, fmt.Errorf("%w: %s", ErrNoCubemap, filename)
	}
	data, err = a.ReadFile(entries[0])
	if err != nil {
		return "", nil, err
	}
	return path.Base(entries[0]), data, nil
}

// isCubemapEntry matches materials/maps/<mapname>/cubemaps*.vtf and the
// per-origin c<x>_<y>_<z>.hdr.vtf names older maps use.
func isCubemapEntry(name string) bool {
	name = strings.ToLower(name)
	if !strings.HasPrefix(name, "materials/maps/") || !strings.HasSuffix(name, ".vtf") {
		return false
	}
	base := path.Base(name)
	if strings.HasPrefix(base, "cubemaps") {
		return true
	}
	return strings.HasPrefix(base, "c") && strings.Contains(base, "_") &&
		strings.HasSuffix(base, ".hdr.vtf")
}
