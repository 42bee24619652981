// Package cubemap turns parsed VTF cubemap textures into standard image
// files: one file per face, reoriented from the engine's capture
// convention into a readable unfolded-cube layout.
package cubemap

import "fmt"

// Side is one face of a cubemap, in the order the engine stores them.
type Side int

const (
	Right Side = iota // +X
	Left              // -X
	Back              // +Y
	Front             // -Y
	Up                // +Z
	Down              // -Z

	SideCount = 6
)

var sideNames = [SideCount]string{"right", "left", "back", "front", "up", "down"}
var sideAxes = [SideCount]string{"+x", "-x", "+y", "-y", "+z", "-z"}

func (s Side) String() string {
	if s < 0 || s >= SideCount {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// Axis returns the world axis the face looks along.
func (s Side) Axis() string {
	if s < 0 || s >= SideCount {
		return "?"
	}
	return sideAxes[s]
}

// Sides lists all six faces in storage order.
func Sides() [SideCount]Side {
	return [SideCount]Side{Right, Left, Back, Front, Up, Down}
}
