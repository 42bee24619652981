package cubemap

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"github.com/snake-biscuits/respawn-cubemap-tool/internal/dds"
	"github.com/snake-biscuits/respawn-cubemap-tool/internal/vtf"
)

// ErrOutputExists means a target file is already present and overwriting
// was not requested. Nothing is written when this happens.
var ErrOutputExists = errors.New("cubemap: output file already exists")

// DefaultExt is the export container written when none is chosen.
const DefaultExt = "dds"

// ValidExt reports whether ext names a supported export container.
func ValidExt(ext string) bool {
	switch ext {
	case "dds", "png", "webp", "tga":
		return true
	}
	return false
}

// Exporter writes one image file per (cubemap, side) pair of a texture.
//
// DDS output carries the raw BC6H mip chain byte-for-byte, engine-native
// orientation, exactly like the reference workflow. The raster formats
// (png, webp, tga) get decoded, reoriented and tone mapped pixels.
type Exporter struct {
	OutDir    string
	Ext       string
	Overwrite bool
	Workers   int
	Exposure  float32
}

// Result is the outcome for one face.
type Result struct {
	Path    string
	Cubemap int
	Side    Side
	Err     error
}

// ExportAll decodes, reorients and writes every face of the texture.
// Output names follow <input name>.<cubemap>.<tag>.<side>.<ext>.
//
// Per-face decode failures are isolated in the results so a partially
// corrupt texture still yields its good faces. A filename collision
// without Overwrite aborts the whole call before any file is written.
func (e *Exporter) ExportAll(t *vtf.Texture) ([]Result, error) {
	count, err := t.CubemapCount()
	if err != nil {
		return nil, err
	}
	ext := e.Ext
	if ext == "" {
		ext = DefaultExt
	}
	if !ValidExt(ext) {
		return nil, fmt.Errorf("cubemap: unknown output format %q", ext)
	}

	type job struct {
		cubemap int
		side    Side
	}
	jobs := make([]job, 0, count*SideCount)
	for c := 0; c < count; c++ {
		for _, s := range Sides() {
			jobs = append(jobs, job{c, s})
		}
	}

	// Decode in parallel; each face reads a disjoint byte range.
	faces := make([]*Face, len(jobs))
	results := make([]Result, len(jobs))
	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	jobChan := make(chan int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobChan {
				j := jobs[i]
				results[i] = Result{Cubemap: j.cubemap, Side: j.side}
				face, err := Decode(t, j.cubemap, j.side)
				if err != nil {
					results[i].Err = err
					continue
				}
				faces[i] = Reorient(face)
			}
		}()
	}
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)
	wg.Wait()

	// Collision check runs serialized and before any write, so a rerun
	// without -overwrite leaves the output directory untouched.
	seen := make(map[string]bool, len(jobs))
	for i, face := range faces {
		if face == nil {
			continue
		}
		name := fmt.Sprintf("%s.%d.%s.%d.%s", t.Name, face.Cubemap, face.Tag, int(face.Side), ext)
		path := filepath.Join(e.OutDir, name)
		if seen[path] {
			return nil, fmt.Errorf("%w: %s produced twice", ErrOutputExists, path)
		}
		seen[path] = true
		if !e.Overwrite {
			if _, err := os.Stat(path); err == nil {
				return nil, fmt.Errorf("%w: %s", ErrOutputExists, path)
			}
		}
		results[i].Path = path
	}

	if err := os.MkdirAll(e.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("cubemap: create %s: %w", e.OutDir, err)
	}
	for i, face := range faces {
		if face == nil {
			continue
		}
		if err := e.writeFace(t, face, results[i].Path, ext); err != nil {
			results[i].Err = err
			results[i].Path = ""
		}
	}
	return results, nil
}

func (e *Exporter) writeFace(t *vtf.Texture, face *Face, path, ext string) error {
	if ext == "dds" {
		return e.writeDDS(t, face, path)
	}

	img := ToneMap(face, e.Exposure)
	f, err := e.create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext {
	case "png":
		err = png.Encode(f, img)
	case "webp":
		err = nativewebp.Encode(f, img, nil)
	case "tga":
		err = tga.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("cubemap: encode %s: %w", path, err)
	}
	return nil
}

// writeDDS emits the face's full mip chain as one BC6H DDS file.
func (e *Exporter) writeDDS(t *vtf.Texture, face *Face, path string) error {
	if t.Format != vtf.FormatBC6HUF16 {
		return fmt.Errorf("cubemap: dds export needs BC6H_UF16, texture is %v", t.Format)
	}
	out := dds.NewBC6H(uint32(t.Width), uint32(t.Height), uint32(t.MipCount), 1)
	for level := 0; level < int(t.MipCount); level++ {
		mip, err := t.FaceData(level, face.Cubemap, int(face.Side))
		if err != nil {
			return err
		}
		copy(out.Mips[0][level], mip)
	}

	f, err := e.create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := out.Write(f); err != nil {
		return fmt.Errorf("cubemap: write %s: %w", path, err)
	}
	return nil
}

// create opens the target exclusively unless overwriting, catching files
// that appeared between the collision check and the write.
func (e *Exporter) create(path string) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if e.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return nil, fmt.Errorf("cubemap: create %s: %w", path, err)
	}
	return f, nil
}
