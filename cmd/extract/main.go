package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/snake-biscuits/respawn-cubemap-tool/internal/batch"
	"github.com/snake-biscuits/respawn-cubemap-tool/internal/config"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	outputDir := flag.String("output", "", "Output directory (default: cubemaps)")
	ext := flag.String("ext", "", "Output format: dds, png, webp or tga (default: dds)")
	overwrite := flag.Bool("overwrite", false, "Replace existing output files")
	exposure := flag.Float64("exposure", 0, "HDR tone map exposure for raster output (default: 1.0)")
	net := flag.Bool("net", false, "Also write an unfolded-cube preview per cubemap")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")

	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: extract [flags] <cubemaps.hdr.vtf | pakfile.zip | directory>...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	err := cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Ext:       *ext,
		Overwrite: *overwrite,
		Exposure:  *exposure,
		Workers:   *workers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	inputs, err := collectInputs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Println("No cubemap textures to extract.")
		os.Exit(0)
	}

	fmt.Printf("Respawn cubemap extractor → %s\n", cfg.Ext)
	fmt.Printf("Inputs: %d, Workers: %d\n", len(inputs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir: cfg.OutputDir,
		Ext:       cfg.Ext,
		Overwrite: cfg.Overwrite,
		Exposure:  cfg.Exposure,
		Net:       *net,
		NetWidth:  cfg.NetWidth,
		Workers:   cfg.Workers,
	}, inputs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	faces, failed, skipped := 0, 0, 0
	var failures []batch.Result
	for _, r := range results {
		faces += r.Faces
		if r.Skipped {
			skipped++
			continue
		}
		if !r.Success {
			failed++
			failures = append(failures, r)
		}
	}

	fmt.Printf("Faces written: %d (from %d inputs, %d skipped)\n", faces, len(inputs), skipped)

	if len(failures) > 0 {
		fmt.Printf("\nProblems (%d):\n", len(failures))
		limit := 20
		if len(failures) < limit {
			limit = len(failures)
		}
		for _, r := range failures[:limit] {
			fmt.Printf("  %s: %s\n", r.Input, r.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// collectInputs expands directories into the VTF files and pakfile lumps
// they hold; plain file arguments pass through untouched.
func collectInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".vtf", ".zip":
				inputs = append(inputs, path)
			default:
				if strings.HasSuffix(strings.ToLower(path), ".bsp_lump") {
					inputs = append(inputs, path)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return inputs, nil
}
