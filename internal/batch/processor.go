package batch

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/snake-biscuits/respawn-cubemap-tool/internal/cubemap"
	"github.com/snake-biscuits/respawn-cubemap-tool/internal/lump"
	"github.com/snake-biscuits/respawn-cubemap-tool/internal/vtf"
)

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir string
	Ext       string
	Overwrite bool
	Exposure  float64
	Net       bool // also write an unfolded-cube preview per cubemap
	NetWidth  int
	Workers   int
}

// Result holds the outcome of processing one input file.
type Result struct {
	Input   string   `json:"input"`
	Faces   int      `json:"faces"`
	Files   []string `json:"files,omitempty"`
	Skipped bool     `json:"skipped,omitempty"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
}

// Run processes all inputs using a worker pool. Each input is handled by
// one worker; faces within an input are already disjoint writes.
func Run(cfg Config, inputs []string) []Result {
	total := len(inputs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	inputChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range inputChan {
				results[idx] = processInput(cfg, inputs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range inputs {
		inputChan <- i
	}
	close(inputChan)

	wg.Wait()
	close(done)

	return results
}

func processInput(cfg Config, input string) Result {
	tex, err := loadTexture(input)
	if err != nil {
		res := Result{Input: input, Error: err.Error()}
		// A valid VTF without cubemap data is a skip, not a failure: map
		// asset trees mix cubemaps with ordinary textures.
		if isSkippable(err) {
			res.Skipped = true
			res.Success = true
		}
		return res
	}

	exporter := &cubemap.Exporter{
		OutDir:    cfg.OutputDir,
		Ext:       cfg.Ext,
		Overwrite: cfg.Overwrite,
		Workers:   1,
		Exposure:  float32(cfg.Exposure),
	}
	results, err := exporter.ExportAll(tex)
	if err != nil {
		res := Result{Input: input, Error: err.Error()}
		if isSkippable(err) {
			res.Skipped = true
			res.Success = true
		}
		return res
	}

	out := Result{Input: input, Success: true}
	var faceErrs []string
	for _, r := range results {
		if r.Err != nil {
			faceErrs = append(faceErrs, fmt.Sprintf("cubemap %d side %v: %v", r.Cubemap, r.Side, r.Err))
			continue
		}
		out.Files = append(out.Files, r.Path)
		out.Faces++
	}
	if len(faceErrs) > 0 {
		// Good faces are kept on disk, but any face failure marks the
		// input failed so the run exits non-zero.
		out.Error = strings.Join(faceErrs, "; ")
		out.Success = false
	}

	if cfg.Net && out.Faces > 0 {
		if err := writeNets(cfg, tex, &out); err != nil && out.Error == "" {
			out.Error = err.Error()
		}
	}
	return out
}

// writeNets composes one unfolded-cube preview image per cubemap group.
func writeNets(cfg Config, tex *vtf.Texture, out *Result) error {
	count, err := tex.CubemapCount()
	if err != nil {
		return err
	}
	for c := 0; c < count; c++ {
		img, err := cubemap.Net(tex, c, float32(cfg.Exposure))
		if err != nil {
			return err
		}
		img = cubemap.ScaleNet(img, cfg.NetWidth)
		path := filepath.Join(cfg.OutputDir, cubemap.NetName(tex.Name, c))
		flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
		if cfg.Overwrite {
			flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		}
		f, err := os.OpenFile(path, flags, 0644)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				return fmt.Errorf("%w: %s", cubemap.ErrOutputExists, path)
			}
			return fmt.Errorf("batch: create %s: %w", path, err)
		}
		err = png.Encode(f, img)
		f.Close()
		if err != nil {
			return fmt.Errorf("batch: encode %s: %w", path, err)
		}
		out.Files = append(out.Files, path)
	}
	return nil
}

func isSkippable(err error) bool {
	return errors.Is(err, vtf.ErrNotCubemap) || errors.Is(err, lump.ErrNoCubemap)
}

// loadTexture reads a VTF from a plain file or from inside a pakfile lump.
func loadTexture(input string) (*vtf.Texture, error) {
	raw, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", input, err)
	}
	if bytes.HasPrefix(raw, []byte("VTF\x00")) {
		return vtf.ParseFile(input)
	}
	// Not a VTF: try it as a lump archive.
	name, data, err := lump.FindCubemap(input)
	if err != nil {
		return nil, err
	}
	tex, err := vtf.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	tex.Name = name
	return tex, nil
}
