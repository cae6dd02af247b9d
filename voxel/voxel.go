// Package voxel holds the block world: chunk storage, neighbor windows,
// face-culling meshing and the chunk arena that draws them.
package voxel

// ChunkSize is the edge length of a chunk in voxels.
const ChunkSize = 16

// ChunkVolume is the number of voxels stored by one chunk.
const ChunkVolume = ChunkSize * ChunkSize * ChunkSize

// Block ids. Air is the only id that is never drawn or collided with.
const (
	Air uint16 = iota
	Grass
	Dirt
	Stone
	Sand
	Wood
)

// Voxel is a single block cell. Geometry and texture both derive from ID.
type Voxel struct {
	ID uint16
}

func (v Voxel) Empty() bool { return v.ID == Air }

// Coord is an integer triple used for chunk grid positions and world sizes.
type Coord struct {
	X, Y, Z int
}

func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Volume is X*Y*Z, or 0 when any component is not positive.
func (c Coord) Volume() int {
	if c.X <= 0 || c.Y <= 0 || c.Z <= 0 {
		return 0
	}
	return c.X * c.Y * c.Z
}

// floorDiv rounds toward negative infinity, unlike Go's / operator.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod is the non-negative remainder matching floorDiv.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// split converts a world voxel coordinate into chunk and local parts.
func split(w int) (chunk, local int) {
	return floorDiv(w, ChunkSize), mod(w, ChunkSize)
}
