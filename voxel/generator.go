package voxel

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Generator populates a freshly cleared chunk. Implementations are called
// concurrently for different chunks and must not mutate shared state.
type Generator interface {
	Fill(c *Chunk)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(c *Chunk)

func (f GeneratorFunc) Fill(c *Chunk) { f(c) }

// SolidGenerator fills every voxel with ID.
type SolidGenerator struct {
	ID uint16
}

func (g SolidGenerator) Fill(c *Chunk) {
	for i := range c.voxels {
		c.voxels[i].ID = g.ID
	}
}

// SphereGenerator fills the ball inscribed in each chunk.
type SphereGenerator struct {
	ID uint16
}

func (g SphereGenerator) Fill(c *Chunk) {
	const half = ChunkSize / 2
	for z := 0; z < ChunkSize; z++ {
		for y := 0; y < ChunkSize; y++ {
			for x := 0; x < ChunkSize; x++ {
				dx, dy, dz := x-half, y-half, z-half
				if dx*dx+dy*dy+dz*dz < half*half {
					c.SetID(x, y, z, g.ID)
				}
			}
		}
	}
}

// Heightmap terrain shared by the noise generators. Columns are filled up to
// the sampled height with grass on top, three dirt layers and stone below.
type heightmap func(wx, wz int) int

func fillColumns(c *Chunk, height heightmap, carve func(wx, wy, wz int) bool) {
	origin := Coord{c.pos.X * ChunkSize, c.pos.Y * ChunkSize, c.pos.Z * ChunkSize}
	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			wx, wz := origin.X+x, origin.Z+z
			top := height(wx, wz)
			for y := 0; y < ChunkSize; y++ {
				wy := origin.Y + y
				if wy > top {
					break
				}
				if carve != nil && carve(wx, wy, wz) {
					continue
				}
				id := Stone
				switch {
				case wy == top:
					id = Grass
				case wy >= top-3:
					id = Dirt
				}
				c.SetID(x, y, z, id)
			}
		}
	}
}

// TerrainGenerator is fractal simplex terrain with simplex caves.
type TerrainGenerator struct {
	noise       opensimplex.Noise32
	BaseHeight  int
	Amplitude   float32
	Octaves     int
	Lacunarity  float32
	Persistence float32
	Scale       float32
	CaveScale   float32
	CaveCutoff  float32
}

func NewTerrainGenerator(seed int64) *TerrainGenerator {
	return &TerrainGenerator{
		noise:       opensimplex.New32(seed),
		BaseHeight:  20,
		Amplitude:   12,
		Octaves:     4,
		Lacunarity:  2,
		Persistence: 0.5,
		Scale:       96,
		CaveScale:   24,
		CaveCutoff:  0.55,
	}
}

func (g *TerrainGenerator) Height(wx, wz int) int {
	return g.BaseHeight + int(g.fractalNoise(wx, wz))
}

func (g *TerrainGenerator) fractalNoise(wx, wz int) float32 {
	var val float32
	x, z := float32(wx), float32(wz)
	amplitude := g.Amplitude
	for i := 0; i < g.Octaves; i++ {
		val += g.noise.Eval2(x/g.Scale, z/g.Scale) * amplitude
		x *= g.Lacunarity
		z *= g.Lacunarity
		amplitude *= g.Persistence
	}
	return val
}

func (g *TerrainGenerator) cave(wx, wy, wz int) bool {
	if wy <= 1 {
		return false
	}
	return g.noise.Eval3(float32(wx)/g.CaveScale, float32(wy)/g.CaveScale, float32(wz)/g.CaveScale) > g.CaveCutoff
}

func (g *TerrainGenerator) Fill(c *Chunk) {
	fillColumns(c, g.Height, g.cave)
}

// HillsGenerator is smooth perlin terrain without caves.
type HillsGenerator struct {
	noise      *perlin.Perlin
	BaseHeight int
	Amplitude  float64
	Scale      float64
}

func NewHillsGenerator(seed int64) *HillsGenerator {
	return &HillsGenerator{
		noise:      perlin.NewPerlin(2, 2, 3, seed),
		BaseHeight: 16,
		Amplitude:  10,
		Scale:      48,
	}
}

func (g *HillsGenerator) Height(wx, wz int) int {
	n := g.noise.Noise2D(float64(wx)/g.Scale, float64(wz)/g.Scale)
	return g.BaseHeight + int(math.Round(n*g.Amplitude))
}

func (g *HillsGenerator) Fill(c *Chunk) {
	fillColumns(c, g.Height, nil)
}

// Generator names accepted by NewGenerator.
const (
	GenSolid   = "solid"
	GenSphere  = "sphere"
	GenTerrain = "terrain"
	GenHills   = "hills"
)

// NewGenerator returns the generator registered under name. id is used by
// the solid and sphere generators.
func NewGenerator(name string, seed int64, id uint16) (Generator, error) {
	switch name {
	case GenSolid, "":
		return SolidGenerator{ID: id}, nil
	case GenSphere:
		return SphereGenerator{ID: id}, nil
	case GenTerrain:
		return NewTerrainGenerator(seed), nil
	case GenHills:
		return NewHillsGenerator(seed), nil
	}
	return nil, fmt.Errorf("voxel: unknown generator %q", name)
}
