package voxel

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMesh struct {
	faces   int
	draws   []Primitive
	deleted bool
}

func (m *fakeMesh) Draw(p Primitive) { m.draws = append(m.draws, p) }
func (m *fakeMesh) Delete()          { m.deleted = true }

type fakeUploader struct {
	meshes []*fakeMesh
	failAt int
}

func (u *fakeUploader) Upload(m MeshData) (Drawable, error) {
	if u.failAt > 0 && len(u.meshes)+1 == u.failAt {
		return nil, errors.New("out of buffers")
	}
	fm := &fakeMesh{faces: m.Faces()}
	u.meshes = append(u.meshes, fm)
	return fm, nil
}

type fakeShader struct {
	bound  int
	models []mgl32.Mat4
	mats   map[string]mgl32.Mat4
}

func (s *fakeShader) Bind() { s.bound++ }
func (s *fakeShader) SetMat4(name string, m mgl32.Mat4) {
	if s.mats == nil {
		s.mats = map[string]mgl32.Mat4{}
	}
	s.mats[name] = m
	if name == "model" {
		s.models = append(s.models, m)
	}
}

type fakeTextures struct {
	bound []string
}

func (f *fakeTextures) BindTexture(name string) error {
	if name != "atlas" {
		return errors.New("missing texture " + name)
	}
	f.bound = append(f.bound, name)
	return nil
}

type fixedCamera struct{ view, proj mgl32.Mat4 }

func (c fixedCamera) ViewMatrix() mgl32.Mat4       { return c.view }
func (c fixedCamera) ProjectionMatrix() mgl32.Mat4 { return c.proj }

func newSolidWorld(t *testing.T, size Coord, up Uploader) *World {
	t.Helper()
	w, err := NewWorld(size, WorldOptions{
		AtlasName: "atlas",
		Generator: SolidGenerator{ID: Stone},
		Uploader:  up,
		Textures:  &fakeTextures{},
	})
	require.NoError(t, err)
	return w
}

func TestNewWorldInvalidSize(t *testing.T) {
	for _, size := range []Coord{{0, 1, 1}, {1, -1, 1}, {1, 1, 0}} {
		_, err := NewWorld(size, WorldOptions{})
		assert.ErrorIs(t, err, ErrInvalidWorldSize)
	}
}

func TestWorldSingleChunk(t *testing.T) {
	up := &fakeUploader{}
	w := newSolidWorld(t, Coord{1, 1, 1}, up)
	assert.Equal(t, 1, w.Len())
	assert.Equal(t, 6*256, w.Faces())
	require.Len(t, up.meshes, 1)
	assert.Equal(t, 6*256, up.meshes[0].faces)
}

func TestWorldTwoChunksShareNoFaces(t *testing.T) {
	w := newSolidWorld(t, Coord{2, 1, 1}, nil)
	assert.Equal(t, 2*5*256, w.Faces())
	assert.Equal(t, Stats{Chunks: 2, Voxels: 2 * ChunkVolume, Faces: 2 * 5 * 256}, w.Stats())
}

func TestWorldParallelBuildMatchesSerial(t *testing.T) {
	size := Coord{3, 2, 2}
	serial, err := NewWorld(size, WorldOptions{Generator: NewTerrainGenerator(3), Workers: 1})
	require.NoError(t, err)
	parallel, err := NewWorld(size, WorldOptions{Generator: NewTerrainGenerator(3), Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, serial.faces, parallel.faces)
	assert.Equal(t, serial.Stats(), parallel.Stats())
}

func TestWorldChunkBounds(t *testing.T) {
	w := newSolidWorld(t, Coord{2, 3, 4}, nil)
	for z := 0; z < 4; z++ {
		for y := 0; y < 3; y++ {
			for x := 0; x < 2; x++ {
				c := w.Chunk(x, y, z)
				require.NotNil(t, c)
				assert.Equal(t, Coord{x, y, z}, c.Pos())
			}
		}
	}
	for _, p := range [][3]int{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}, {2, 0, 0}, {0, 3, 0}, {0, 0, 4}} {
		assert.Nil(t, w.Chunk(p[0], p[1], p[2]), "%v", p)
	}
}

func TestWorldNeighborhood(t *testing.T) {
	w := newSolidWorld(t, Coord{3, 3, 3}, nil)
	mid := w.Neighborhood(1, 1, 1)
	assert.Equal(t, 27, mid.Present())
	assert.Same(t, w.Chunk(1, 1, 1), mid.Center())
	assert.Same(t, w.Chunk(2, 1, 1), mid.At(1, 0, 0))
	assert.Same(t, w.Chunk(1, 0, 2), mid.At(0, -1, 1))

	corner := w.Neighborhood(0, 0, 0)
	assert.Equal(t, 8, corner.Present())
	assert.Nil(t, corner.At(-1, 0, 0))

	assert.Nil(t, w.Neighborhood(5, 0, 0).Center())
}

func TestWorldDrawOrderAndMatrices(t *testing.T) {
	up := &fakeUploader{}
	tex := &fakeTextures{}
	w, err := NewWorld(Coord{2, 2, 1}, WorldOptions{
		AtlasName: "atlas",
		Generator: SolidGenerator{ID: Stone},
		Uploader:  up,
		Textures:  tex,
	})
	require.NoError(t, err)

	cam := fixedCamera{view: mgl32.Translate3D(0, 0, -5), proj: mgl32.Perspective(1, 1, 0.1, 100)}
	shader := &fakeShader{}
	require.NoError(t, w.Draw(shader, cam, RenderConfig{}))

	assert.Equal(t, 1, shader.bound)
	assert.Equal(t, []string{"atlas"}, tex.bound)
	assert.True(t, cam.proj.Mul4(cam.view).ApproxEqual(shader.mats["projview"]))
	assert.Equal(t, []mgl32.Mat4{
		mgl32.Translate3D(0, 0, 0),
		mgl32.Translate3D(16, 0, 0),
		mgl32.Translate3D(0, 16, 0),
		mgl32.Translate3D(16, 16, 0),
	}, shader.models)
	for _, m := range up.meshes {
		assert.Equal(t, []Primitive{Triangles}, m.draws)
	}

	require.NoError(t, w.Draw(&fakeShader{}, cam, RenderConfig{Wireframe: true}))
	for _, m := range up.meshes {
		assert.Equal(t, []Primitive{Triangles, Lines}, m.draws)
	}
}

func TestWorldDrawMissingAtlas(t *testing.T) {
	w, err := NewWorld(Coord{1, 1, 1}, WorldOptions{AtlasName: "nope", Textures: &fakeTextures{}})
	require.NoError(t, err)
	err = w.Draw(&fakeShader{}, fixedCamera{}, RenderConfig{})
	assert.Error(t, err)
}

func TestWorldSkipsEmptyMeshes(t *testing.T) {
	up := &fakeUploader{}
	w, err := NewWorld(Coord{2, 1, 1}, WorldOptions{Uploader: up})
	require.NoError(t, err)
	assert.Empty(t, up.meshes)
	assert.Zero(t, w.Faces())
	require.NoError(t, w.Draw(&fakeShader{}, fixedCamera{}, RenderConfig{}))
}

func TestWorldUploadFailureReleasesMeshes(t *testing.T) {
	up := &fakeUploader{failAt: 3}
	_, err := NewWorld(Coord{4, 1, 1}, WorldOptions{Generator: SolidGenerator{ID: Stone}, Uploader: up})
	require.Error(t, err)
	require.Len(t, up.meshes, 2)
	for _, m := range up.meshes {
		assert.True(t, m.deleted)
	}
}

func TestWorldRemeshRetriesFailedUpload(t *testing.T) {
	up := &fakeUploader{}
	w := newSolidWorld(t, Coord{1, 1, 1}, up)
	require.Len(t, up.meshes, 1)
	old := up.meshes[0]

	require.True(t, w.SetVoxel(8, 8, 8, Air))
	require.Equal(t, 1, w.Dirty())

	up.failAt = 2
	n, err := w.Remesh(4)
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, w.Dirty(), "chunk stays queued")
	assert.Equal(t, 6*256, w.Faces(), "face count follows the mesh on the GPU")
	assert.False(t, old.deleted)

	up.failAt = 0
	n, err = w.Remesh(4)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, w.Dirty())
	assert.Equal(t, 6*256+6, w.Faces())
	assert.True(t, old.deleted)
}

func TestWorldParallelBuildReportsPanics(t *testing.T) {
	gen := GeneratorFunc(func(c *Chunk) {
		if c.Pos().X == 1 {
			panic("bad chunk")
		}
		c.SetID(0, 0, 0, Stone)
	})
	up := &fakeUploader{}
	_, err := NewWorld(Coord{2, 1, 1}, WorldOptions{Generator: gen, Uploader: up, Workers: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fill chunks")
	assert.Empty(t, up.meshes)
}

func TestWorldVoxelAccess(t *testing.T) {
	w := newSolidWorld(t, Coord{2, 1, 1}, nil)
	assert.Equal(t, Stone, w.Voxel(20, 3, 3))
	assert.Equal(t, Air, w.Voxel(-1, 0, 0))
	assert.Equal(t, Air, w.Voxel(32, 0, 0))
	assert.True(t, w.Solid(0, 0, 0))
	assert.False(t, w.SetVoxel(0, 16, 0, Dirt))
	assert.Zero(t, w.Dirty())
}

func TestWorldSetVoxelRemesh(t *testing.T) {
	up := &fakeUploader{}
	w := newSolidWorld(t, Coord{2, 1, 1}, up)
	before := up.meshes[0]

	// Carving the voxel on the shared boundary opens faces in both chunks.
	require.True(t, w.SetVoxel(15, 8, 8, Air))
	assert.Equal(t, Air, w.Chunk(0, 0, 0).ID(15, 8, 8))
	assert.Equal(t, 2, w.Dirty())

	require.True(t, w.SetVoxel(15, 8, 8, Air))
	assert.Equal(t, 2, w.Dirty(), "unchanged voxel queues nothing")

	n, err := w.Remesh(1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, w.Dirty())
	assert.True(t, before.deleted)

	n, err = w.Remesh(8)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, w.Dirty())

	// The pit exposes five walls in chunk 0 and one -X face in chunk 1.
	assert.Equal(t, 2*5*256+5+1, w.Faces())
}

func TestWorldSetVoxelInteriorQueuesOneChunk(t *testing.T) {
	w := newSolidWorld(t, Coord{3, 3, 3}, nil)
	require.True(t, w.SetVoxel(24, 24, 24, Air))
	assert.Equal(t, 1, w.Dirty())

	w.MarkDirty(1, 1, 1)
	w.MarkDirty(9, 9, 9)
	assert.Equal(t, 1, w.Dirty())

	require.True(t, w.SetVoxel(16, 16, 16, Air))
	assert.Equal(t, 4, w.Dirty())
}

func TestWorldClose(t *testing.T) {
	up := &fakeUploader{}
	w := newSolidWorld(t, Coord{2, 1, 1}, up)
	w.MarkDirty(0, 0, 0)
	w.Close()
	for _, m := range up.meshes {
		assert.True(t, m.deleted)
	}
	assert.Zero(t, w.Dirty())
}
