package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/snake-biscuits/respawn-cubemap-tool/internal/cubemap"
)

// Config holds all configurable paths and export settings.
type Config struct {
	// Paths
	OutputDir string `json:"output_dir"`

	// Export settings
	Ext       string  `json:"ext"` // dds, png, webp or tga
	Overwrite bool    `json:"overwrite"`
	Exposure  float64 `json:"exposure"` // HDR tone map exposure
	NetWidth  int     `json:"net_width"`
	Workers   int     `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Ext       string
	Overwrite bool
	Exposure  float64
	Workers   int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Ext != "" {
		c.Ext = flags.Ext
	}
	if flags.Overwrite {
		c.Overwrite = true
	}
	if flags.Exposure > 0 {
		c.Exposure = flags.Exposure
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.OutputDir == "" {
		c.OutputDir = "cubemaps"
	}
	if c.Ext == "" {
		c.Ext = cubemap.DefaultExt
	}
	if !cubemap.ValidExt(c.Ext) {
		return fmt.Errorf("config: unknown output format %q", c.Ext)
	}
	if c.Exposure <= 0 {
		c.Exposure = cubemap.DefaultExposure
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}
