package voxel

// Chunk is a fixed 16x16x16 block of voxels stored X fastest, then Y, then Z.
// A chunk never points at its neighbors; adjacency is handed in through a
// Neighborhood when meshing.
type Chunk struct {
	pos    Coord
	voxels [ChunkVolume]Voxel
}

// NewChunk returns an empty chunk at grid position pos.
func NewChunk(pos Coord) *Chunk {
	return &Chunk{pos: pos}
}

// Pos is the chunk's grid coordinate inside its world.
func (c *Chunk) Pos() Coord { return c.pos }

func inChunk(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < ChunkSize && y < ChunkSize && z < ChunkSize
}

func index(x, y, z int) int {
	return x + ChunkSize*(y+ChunkSize*z)
}

// ID returns the block id at local (x, y, z), or Air outside the chunk.
func (c *Chunk) ID(x, y, z int) uint16 {
	if !inChunk(x, y, z) {
		return Air
	}
	return c.voxels[index(x, y, z)].ID
}

// SetID writes id at local (x, y, z). It reports false and leaves the chunk
// untouched when the coordinate is outside the chunk.
func (c *Chunk) SetID(x, y, z int, id uint16) bool {
	if !inChunk(x, y, z) {
		return false
	}
	c.voxels[index(x, y, z)].ID = id
	return true
}

func (c *Chunk) Voxel(x, y, z int) Voxel {
	return Voxel{ID: c.ID(x, y, z)}
}

// Count returns the number of non-air voxels.
func (c *Chunk) Count() int {
	n := 0
	for _, v := range c.voxels {
		if !v.Empty() {
			n++
		}
	}
	return n
}

// Fill clears the chunk and lets g populate it.
func (c *Chunk) Fill(g Generator) {
	c.voxels = [ChunkVolume]Voxel{}
	if g != nil {
		g.Fill(c)
	}
}
