package vtf

import "errors"

var (
	// ErrFormat means the bytes are not a VTF file or the header/resource
	// directory is corrupt. Nothing can be recovered from the file.
	ErrFormat = errors.New("vtf: invalid file")

	// ErrUnsupportedVersion means the file is a VTF, but not a version this
	// package parses.
	ErrUnsupportedVersion = errors.New("vtf: unsupported version")

	// ErrNotCubemap means the texture parsed fine but has no HDR cubemap
	// image data, so cubemap extraction cannot proceed. Callers running a
	// batch should skip the file and continue.
	ErrNotCubemap = errors.New("vtf: texture has no cubemap image data")

	// ErrOutOfRange means a cubemap, side or mip index outside the ranges
	// described by the header was requested.
	ErrOutOfRange = errors.New("vtf: index out of range")

	// ErrDecode means compressed image data could not be decompressed.
	// Other faces of the same texture may still decode.
	ErrDecode = errors.New("vtf: corrupt image data")
)
