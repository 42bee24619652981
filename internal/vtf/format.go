package vtf

import "fmt"

// TextureFormat identifies the pixel format of VTF image data.
// Values match the VTFLib IMAGE_FORMAT enum.
type TextureFormat int32

const (
	FormatNone             TextureFormat = -1
	FormatRGBA8888         TextureFormat = 0
	FormatABGR8888         TextureFormat = 1
	FormatRGB888           TextureFormat = 2
	FormatBGR888           TextureFormat = 3
	FormatRGB565           TextureFormat = 4
	FormatI8               TextureFormat = 5
	FormatIA88             TextureFormat = 6
	FormatP8               TextureFormat = 7
	FormatA8               TextureFormat = 8
	FormatRGB888Bluescreen TextureFormat = 9
	FormatBGR888Bluescreen TextureFormat = 10
	FormatARGB8888         TextureFormat = 11
	FormatBGRA8888         TextureFormat = 12
	FormatDXT1             TextureFormat = 13
	FormatDXT3             TextureFormat = 14
	FormatDXT5             TextureFormat = 15
	FormatBGRX8888         TextureFormat = 16
	FormatBGR565           TextureFormat = 17
	FormatBGRX5551         TextureFormat = 18
	FormatBGRA4444         TextureFormat = 19
	FormatDXT1OneBitAlpha  TextureFormat = 20
	FormatBGRA5551         TextureFormat = 21
	FormatUV88             TextureFormat = 22
	FormatUVWQ8888         TextureFormat = 23
	FormatRGBA16161616F    TextureFormat = 24
	FormatRGBA16161616     TextureFormat = 25
	FormatUVLX8888         TextureFormat = 26

	// BC6HUF16 only appears in Titanfall 2 / Apex Legends cubemaps.hdr.vtf.
	FormatBC6HUF16 TextureFormat = 66
)

var formatNames = map[TextureFormat]string{
	FormatNone:             "NONE",
	FormatRGBA8888:         "RGBA8888",
	FormatABGR8888:         "ABGR8888",
	FormatRGB888:           "RGB888",
	FormatBGR888:           "BGR888",
	FormatRGB565:           "RGB565",
	FormatI8:               "I8",
	FormatIA88:             "IA88",
	FormatP8:               "P8",
	FormatA8:               "A8",
	FormatRGB888Bluescreen: "RGB888_BLUESCREEN",
	FormatBGR888Bluescreen: "BGR888_BLUESCREEN",
	FormatARGB8888:         "ARGB8888",
	FormatBGRA8888:         "BGRA8888",
	FormatDXT1:             "DXT1",
	FormatDXT3:             "DXT3",
	FormatDXT5:             "DXT5",
	FormatBGRX8888:         "BGRX8888",
	FormatBGR565:           "BGR565",
	FormatBGRX5551:         "BGRX5551",
	FormatBGRA4444:         "BGRA4444",
	FormatDXT1OneBitAlpha:  "DXT1_ONE_BIT_ALPHA",
	FormatBGRA5551:         "BGRA5551",
	FormatUV88:             "UV88",
	FormatUVWQ8888:         "UVWQ8888",
	FormatRGBA16161616F:    "RGBA16161616F",
	FormatRGBA16161616:     "RGBA16161616",
	FormatUVLX8888:         "UVLX8888",
	FormatBC6HUF16:         "BC6H_UF16",
}

func (f TextureFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("TextureFormat(%d)", int32(f))
}

// BlockCompressed reports whether the format stores 4x4 pixel blocks.
func (f TextureFormat) BlockCompressed() bool {
	switch f {
	case FormatDXT1, FormatDXT1OneBitAlpha, FormatDXT3, FormatDXT5, FormatBC6HUF16:
		return true
	}
	return false
}

// DataSize returns the byte size of one image of the given dimensions,
// or an error when the format's storage size is unknown.
func (f TextureFormat) DataSize(width, height int) (int, error) {
	if width < 1 || height < 1 {
		return 0, fmt.Errorf("%w: %dx%d image", ErrFormat, width, height)
	}
	switch f {
	case FormatRGBA8888, FormatABGR8888, FormatARGB8888, FormatBGRA8888,
		FormatBGRX8888, FormatUVWQ8888, FormatUVLX8888:
		return width * height * 4, nil
	case FormatRGB888, FormatBGR888, FormatRGB888Bluescreen, FormatBGR888Bluescreen:
		return width * height * 3, nil
	case FormatRGB565, FormatBGR565, FormatBGRX5551, FormatBGRA4444,
		FormatBGRA5551, FormatIA88, FormatUV88:
		return width * height * 2, nil
	case FormatI8, FormatP8, FormatA8:
		return width * height, nil
	case FormatRGBA16161616F, FormatRGBA16161616:
		return width * height * 8, nil
	case FormatDXT1, FormatDXT1OneBitAlpha:
		return blocks(width) * blocks(height) * 8, nil
	case FormatDXT3, FormatDXT5, FormatBC6HUF16:
		return blocks(width) * blocks(height) * 16, nil
	}
	return 0, fmt.Errorf("vtf: no storage size for format %v", f)
}

func blocks(n int) int {
	return (n + 3) / 4
}

// TextureFlags is the VTF header flags bitfield.
type TextureFlags uint32

const (
	FlagPointSample       TextureFlags = 0x00000001
	FlagTrilinear         TextureFlags = 0x00000002
	FlagClampS            TextureFlags = 0x00000004
	FlagClampT            TextureFlags = 0x00000008
	FlagAnisotropic       TextureFlags = 0x00000010
	FlagHintDXT5          TextureFlags = 0x00000020
	FlagPWLCorrected      TextureFlags = 0x00000040
	FlagNormal            TextureFlags = 0x00000080
	FlagNoMip             TextureFlags = 0x00000100
	FlagNoLOD             TextureFlags = 0x00000200
	FlagAllMips           TextureFlags = 0x00000400
	FlagProcedural        TextureFlags = 0x00000800
	FlagOneBitAlpha       TextureFlags = 0x00001000
	FlagEightBitAlpha     TextureFlags = 0x00002000
	FlagEnvmap            TextureFlags = 0x00004000
	FlagRenderTarget      TextureFlags = 0x00008000
	FlagDepthRenderTarget TextureFlags = 0x00010000
	FlagNoDebugOverride   TextureFlags = 0x00020000
	FlagSingleCopy        TextureFlags = 0x00040000
	FlagPreSRGB           TextureFlags = 0x00080000
	FlagNoDepthBuffer     TextureFlags = 0x00800000
	FlagClampU            TextureFlags = 0x02000000
	FlagVertexTexture     TextureFlags = 0x04000000
	FlagSSBump            TextureFlags = 0x08000000
	FlagBorder            TextureFlags = 0x20000000
)

var flagNames = []struct {
	bit  TextureFlags
	name string
}{
	{FlagPointSample, "POINT_SAMPLE"},
	{FlagTrilinear, "TRILINEAR"},
	{FlagClampS, "CLAMP_S"},
	{FlagClampT, "CLAMP_T"},
	{FlagAnisotropic, "ANISOTROPIC"},
	{FlagHintDXT5, "HINT_DXT5"},
	{FlagPWLCorrected, "PWL_CORRECTED"},
	{FlagNormal, "NORMAL"},
	{FlagNoMip, "NO_MIP"},
	{FlagNoLOD, "NO_LOD"},
	{FlagAllMips, "ALL_MIPS"},
	{FlagProcedural, "PROCEDURAL"},
	{FlagOneBitAlpha, "ONE_BIT_ALPHA"},
	{FlagEightBitAlpha, "EIGHT_BIT_ALPHA"},
	{FlagEnvmap, "ENVMAP"},
	{FlagRenderTarget, "RENDER_TARGET"},
	{FlagDepthRenderTarget, "DEPTH_RENDER_TARGET"},
	{FlagNoDebugOverride, "NO_DEBUG_OVERRIDE"},
	{FlagSingleCopy, "SINGLE_COPY"},
	{FlagPreSRGB, "PRE_SRGB"},
	{FlagNoDepthBuffer, "NO_DEPTH_BUFFER"},
	{FlagClampU, "CLAMP_U"},
	{FlagVertexTexture, "VERTEX_TEXTURE"},
	{FlagSSBump, "SSBUMP"},
	{FlagBorder, "BORDER"},
}

func (f TextureFlags) String() string {
	if f == 0 {
		return ""
	}
	out := ""
	for _, fn := range flagNames {
		if f&fn.bit == 0 {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += fn.name
	}
	return out
}
