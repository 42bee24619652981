package vtf

import "fmt"

// ResourceTag is the 3-byte type code of a header resource entry.
type ResourceTag [3]byte

var (
	TagThumbnail   = ResourceTag{0x01, 0x00, 0x00}
	TagSpriteSheet = ResourceTag{0x10, 0x00, 0x00}
	TagImageData   = ResourceTag{0x30, 0x00, 0x00}
	TagCRC         = ResourceTag{'C', 'R', 'C'}
	TagCMA         = ResourceTag{'C', 'M', 'A'}
	TagLOD         = ResourceTag{'L', 'O', 'D'}
	TagTSO         = ResourceTag{'T', 'S', 'O'}
	TagKVD         = ResourceTag{'K', 'V', 'D'}
)

var tagNames = map[ResourceTag]string{
	TagThumbnail:   "Thumbnail",
	TagSpriteSheet: "Sprite Sheet",
	TagImageData:   "Image Data",
	TagCRC:         "Cyclic Redundancy Check",
	TagCMA:         "Cubemap Multiply Ambient",
	TagLOD:         "Level of Detail Information",
	TagTSO:         "Extended Flags",
	TagKVD:         "Key Values Data",
}

func (t ResourceTag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ResourceTag(% 02x)", t[:])
}

// resourceNoData marks a resource whose Offset field holds inline data
// instead of a file offset.
const resourceNoData = 0x02

// Resource is one entry of the header's resource directory.
// Offset is a file offset, or 4 bytes of inline data when
// Flags&resourceNoData is set (CRC checksum, single-entry CMA).
type Resource struct {
	Tag    ResourceTag
	Flags  uint8
	Offset uint32
}

// Inline reports whether Offset holds data instead of a file position.
func (r Resource) Inline() bool {
	return r.Flags&resourceNoData != 0
}

func (r Resource) String() string {
	if r.Inline() {
		return fmt.Sprintf("<%s data=0x%08X>", r.Tag, r.Offset)
	}
	return fmt.Sprintf("<%s flags=0x%02X offset=%d>", r.Tag, r.Flags, r.Offset)
}
