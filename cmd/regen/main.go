// regen rebuilds a cubemaps.hdr.vtf from a BC6H cubemap-array DDS, the
// reverse of extraction: repacked output mounts at
// materials/maps/<mapname>/cubemaps.hdr.vtf inside the map's pakfile.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/snake-biscuits/respawn-cubemap-tool/internal/dds"
	"github.com/snake-biscuits/respawn-cubemap-tool/internal/vtf"
)

func main() {
	output := flag.String("o", "cubemaps.hdr.vtf", "Output VTF path")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: regen [-o cubemaps.hdr.vtf] <cubemaps_hdr.dds>")
		os.Exit(1)
	}
	input := flag.Arg(0)

	src, err := dds.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if src.ArraySize%6 != 0 {
		fmt.Fprintf(os.Stderr, "Error: %s: array size %d is not a whole number of cubemaps\n",
			input, src.ArraySize)
		os.Exit(1)
	}

	cubemaps := int(src.ArraySize / 6)
	tex, err := vtf.NewCubemap(uint16(src.Width), uint16(src.Height),
		vtf.FormatBC6HUF16, uint8(src.MipCount), cubemaps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for element := 0; element < int(src.ArraySize); element++ {
		cubemap := element / 6
		side := element % 6
		for level := 0; level < int(src.MipCount); level++ {
			if err := tex.SetFaceData(level, cubemap, side, src.Mips[element][level]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: cubemap %d side %d mip %d: %v\n",
					cubemap, side, level, err)
				os.Exit(1)
			}
		}
	}

	if err := tex.SaveAs(*output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK  %s -> %s  (%d cubemaps, %d mips, %dx%d)\n",
		input, *output, cubemaps, src.MipCount, src.Width, src.Height)
}
