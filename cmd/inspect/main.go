package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/snake-biscuits/respawn-cubemap-tool/internal/vtf"
)

// report mirrors the texture header in a shape fit for eyeballing.
type report struct {
	Name         string     `json:"name"`
	Version      string     `json:"version"`
	Size         [2]int     `json:"size"`
	Flags        string     `json:"flags"`
	FrameCount   int        `json:"frame_count"`
	FirstFrame   int        `json:"first_frame"`
	Reflectivity [3]float32 `json:"reflectivity"`
	BumpmapScale float32    `json:"bumpmap_scale"`
	Format       string     `json:"format"`
	MipCount     int        `json:"mip_count"`
	LowResFormat string     `json:"low_res_format"`
	LowResSize   [2]int     `json:"low_res_size"`
	Depth        int        `json:"depth"`
	Resources    []string   `json:"resources"`
	CMA          []string   `json:"cma,omitempty"`
	Cubemaps     int        `json:"cubemaps"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: inspect <file.vtf>...")
		os.Exit(1)
	}

	failed := 0
	for _, arg := range os.Args[1:] {
		tex, err := vtf.ParseFile(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			failed++
			continue
		}

		r := report{
			Name:         tex.Name,
			Version:      fmt.Sprintf("v%d.%d", tex.Major, tex.Minor),
			Size:         [2]int{int(tex.Width), int(tex.Height)},
			Flags:        tex.Flags.String(),
			FrameCount:   int(tex.FrameCount),
			FirstFrame:   int(tex.FirstFrame),
			Reflectivity: tex.Reflectivity,
			BumpmapScale: tex.BumpmapScale,
			Format:       tex.Format.String(),
			MipCount:     int(tex.MipCount),
			LowResFormat: tex.LowResFormat.String(),
			LowResSize:   [2]int{int(tex.LowResWidth), int(tex.LowResHeight)},
			Depth:        int(tex.Depth),
		}
		for _, res := range tex.Resources {
			r.Resources = append(r.Resources, res.String())
		}
		if tex.CMA != nil {
			for _, v := range tex.CMA.Values {
				r.CMA = append(r.CMA, fmt.Sprintf("0x%08X", math.Float32bits(v)))
			}
		}
		if count, err := tex.CubemapCount(); err == nil {
			r.Cubemaps = count
		}

		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Encode error %s: %v\n", arg, err)
			failed++
			continue
		}
		fmt.Println(string(out))
	}

	if failed > 0 {
		os.Exit(1)
	}
}
