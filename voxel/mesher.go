package voxel

// Atlas layout: 16x16 square tiles, one per block id, row 0 at the top.
const (
	atlasTiles = 16
	tileSize   = float32(1) / atlasTiles
)

// Face identifies one side of a voxel.
type Face uint8

const (
	FaceTop    Face = iota // +Y
	FaceBottom             // -Y
	FaceEast               // +X
	FaceWest               // -X
	FaceSouth              // +Z
	FaceNorth              // -Z
)

var faceNormals = [6][3]int{
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
	FaceEast:   {1, 0, 0},
	FaceWest:   {-1, 0, 0},
	FaceSouth:  {0, 0, 1},
	FaceNorth:  {0, 0, -1},
}

// Constant per-face shading baked into the light attribute.
var faceLight = [6]float32{
	FaceTop:    1.0,
	FaceBottom: 0.75,
	FaceEast:   0.95,
	FaceWest:   0.85,
	FaceSouth:  0.9,
	FaceNorth:  0.8,
}

type corner struct {
	pos [3]float32 // offset from the voxel center
	uv  [2]float32 // in tiles, added to the tile origin
}

// Corners are wound counter-clockwise when viewed from outside the face.
var faceCorners = [6][4]corner{
	FaceTop: {
		{[3]float32{-.5, .5, -.5}, [2]float32{1, 0}},
		{[3]float32{-.5, .5, .5}, [2]float32{1, 1}},
		{[3]float32{.5, .5, .5}, [2]float32{0, 1}},
		{[3]float32{.5, .5, -.5}, [2]float32{0, 0}},
	},
	FaceBottom: {
		{[3]float32{-.5, -.5, -.5}, [2]float32{0, 0}},
		{[3]float32{.5, -.5, -.5}, [2]float32{1, 0}},
		{[3]float32{.5, -.5, .5}, [2]float32{1, 1}},
		{[3]float32{-.5, -.5, .5}, [2]float32{0, 1}},
	},
	FaceEast: {
		{[3]float32{.5, -.5, -.5}, [2]float32{1, 0}},
		{[3]float32{.5, .5, -.5}, [2]float32{1, 1}},
		{[3]float32{.5, .5, .5}, [2]float32{0, 1}},
		{[3]float32{.5, -.5, .5}, [2]float32{0, 0}},
	},
	FaceWest: {
		{[3]float32{-.5, -.5, -.5}, [2]float32{0, 0}},
		{[3]float32{-.5, -.5, .5}, [2]float32{1, 0}},
		{[3]float32{-.5, .5, .5}, [2]float32{1, 1}},
		{[3]float32{-.5, .5, -.5}, [2]float32{0, 1}},
	},
	FaceSouth: {
		{[3]float32{-.5, -.5, .5}, [2]float32{0, 0}},
		{[3]float32{.5, -.5, .5}, [2]float32{1, 0}},
		{[3]float32{.5, .5, .5}, [2]float32{1, 1}},
		{[3]float32{-.5, .5, .5}, [2]float32{0, 1}},
	},
	FaceNorth: {
		{[3]float32{.5, -.5, -.5}, [2]float32{0, 0}},
		{[3]float32{-.5, -.5, -.5}, [2]float32{1, 0}},
		{[3]float32{-.5, .5, -.5}, [2]float32{1, 1}},
		{[3]float32{.5, .5, -.5}, [2]float32{0, 1}},
	},
}

// Two triangles per quad, relative to the quad's first vertex.
var quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// Vertex is one mesh vertex: position, atlas uv and face light.
type Vertex struct {
	Position [3]float32
	UV       [2]float32
	Light    float32
}

// VertexFloats is the number of float32 values per interleaved Vertex.
const VertexFloats = 6

// MeshData is an indexed triangle list ready for upload.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m MeshData) Empty() bool { return len(m.Indices) == 0 }

// Faces returns the number of quads in the mesh.
func (m MeshData) Faces() int { return len(m.Indices) / len(quadIndices) }

// Floats interleaves the vertices as x, y, z, u, v, light.
func (m MeshData) Floats() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexFloats)
	for _, v := range m.Vertices {
		out = append(out, v.Position[0], v.Position[1], v.Position[2], v.UV[0], v.UV[1], v.Light)
	}
	return out
}

// TileUV returns the lower-left atlas coordinate of the tile for id.
func TileUV(id uint16) (u, v float32) {
	u = float32(id%atlasTiles) * tileSize
	v = 1 - float32(1+id/atlasTiles)*tileSize
	return u, v
}

func (m *MeshData) addFace(f Face, x, y, z int, u, v float32) {
	base := uint32(len(m.Vertices))
	light := faceLight[f]
	for _, c := range faceCorners[f] {
		m.Vertices = append(m.Vertices, Vertex{
			Position: [3]float32{float32(x) + c.pos[0], float32(y) + c.pos[1], float32(z) + c.pos[2]},
			UV:       [2]float32{u + c.uv[0]*tileSize, v + c.uv[1]*tileSize},
			Light:    light,
		})
	}
	for _, i := range quadIndices {
		m.Indices = append(m.Indices, base+i)
	}
}

// BuildMesh emits every visible face of the center chunk of n. A face is
// visible when the voxel across it is air or lives in an absent chunk, so
// world edges are closed off. Positions are chunk-local.
func BuildMesh(n Neighborhood) MeshData {
	var mesh MeshData
	c := n.Center()
	if c == nil {
		return mesh
	}
	for y := 0; y < ChunkSize; y++ {
		for z := 0; z < ChunkSize; z++ {
			for x := 0; x < ChunkSize; x++ {
				id := c.voxels[index(x, y, z)].ID
				if id == Air {
					continue
				}
				u, v := TileUV(id)
				for f, d := range faceNormals {
					adj, ok := n.lookup(x+d[0], y+d[1], z+d[2])
					if ok && adj != Air {
						continue
					}
					mesh.addFace(Face(f), x, y, z, u, v)
				}
			}
		}
	}
	return mesh
}
