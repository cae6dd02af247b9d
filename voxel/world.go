package voxel

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidWorldSize is returned for a world with a non-positive dimension.
var ErrInvalidWorldSize = errors.New("voxel: world size must be positive on every axis")

// Primitive selects how a mesh's index buffer is rasterized.
type Primitive uint8

const (
	Triangles Primitive = iota
	Lines
)

// Drawable is an uploaded chunk mesh.
type Drawable interface {
	Draw(p Primitive)
	Delete()
}

// Uploader turns mesh data into a Drawable. It is only called from the
// goroutine that owns the graphics context.
type Uploader interface {
	Upload(m MeshData) (Drawable, error)
}

type Shader interface {
	Bind()
	SetMat4(name string, m mgl32.Mat4)
}

type TextureBinder interface {
	BindTexture(name string) error
}

type Camera interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
}

// RenderConfig is the per-frame draw state.
type RenderConfig struct {
	Wireframe bool
}

func (c RenderConfig) Primitive() Primitive {
	if c.Wireframe {
		return Lines
	}
	return Triangles
}

type WorldOptions struct {
	// AtlasName is the texture bound before drawing chunks.
	AtlasName string
	// Generator populates each chunk. Nil leaves chunks empty.
	Generator Generator
	// Uploader receives every non-empty mesh. Nil keeps the world CPU only.
	Uploader Uploader
	Textures TextureBinder
	// Workers above one generates and meshes chunks on a worker pool.
	Workers int
	Logger  *slog.Logger
}

// Stats summarizes the current world contents.
type Stats struct {
	Chunks int
	Voxels int
	Faces  int
	Dirty  int
}

// World is a fixed box of chunks stored densely at x + sx*(y + sy*z), with
// one mesh slot per chunk.
type World struct {
	size     Coord
	atlas    string
	chunks   []Chunk
	meshes   []Drawable
	faces    []int
	dirty    []int
	queued   []bool
	uploader Uploader
	textures TextureBinder
	log      *slog.Logger
}

// NewWorld allocates, populates and meshes a world of size chunks.
func NewWorld(size Coord, opts WorldOptions) (*World, error) {
	n := size.Volume()
	if n == 0 {
		return nil, fmt.Errorf("%w: got %dx%dx%d", ErrInvalidWorldSize, size.X, size.Y, size.Z)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	w := &World{
		size:     size,
		atlas:    opts.AtlasName,
		chunks:   make([]Chunk, n),
		meshes:   make([]Drawable, n),
		faces:    make([]int, n),
		queued:   make([]bool, n),
		uploader: opts.Uploader,
		textures: opts.Textures,
		log:      log,
	}

	start := time.Now()
	for i := range w.chunks {
		w.chunks[i].pos = w.coord(i)
	}
	data, err := w.build(opts.Generator, opts.Workers)
	if err != nil {
		return nil, err
	}
	for i, m := range data {
		if err := w.upload(i, m); err != nil {
			w.Close()
			return nil, fmt.Errorf("upload chunk %v: %w", w.chunks[i].pos, err)
		}
	}

	st := w.Stats()
	w.log.Info("world built",
		"size", fmt.Sprintf("%dx%dx%d", size.X, size.Y, size.Z),
		"chunks", st.Chunks,
		"faces", st.Faces,
		"workers", opts.Workers,
		"elapsed", time.Since(start))
	return w, nil
}

// build fills and meshes every chunk. Meshing starts only after every chunk
// is filled because each mesh reads its neighbors.
func (w *World) build(gen Generator, workers int) ([]MeshData, error) {
	data := make([]MeshData, len(w.chunks))
	if workers <= 1 {
		for i := range w.chunks {
			w.chunks[i].Fill(gen)
		}
		for i := range w.chunks {
			data[i] = BuildMesh(w.neighborhood(i))
		}
		return data, nil
	}

	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	fill := pool.NewGroup()
	for i := range w.chunks {
		i := i
		fill.Submit(func() { w.chunks[i].Fill(gen) })
	}
	if err := fill.Wait(); err != nil {
		return nil, fmt.Errorf("fill chunks: %w", err)
	}

	mesh := pool.NewGroup()
	for i := range w.chunks {
		i := i
		mesh.Submit(func() { data[i] = BuildMesh(w.neighborhood(i)) })
	}
	if err := mesh.Wait(); err != nil {
		return nil, fmt.Errorf("mesh chunks: %w", err)
	}
	return data, nil
}

// upload replaces the drawable of chunk i. On failure the previous drawable
// and face count are left in place.
func (w *World) upload(i int, m MeshData) error {
	if w.uploader == nil {
		w.faces[i] = m.Faces()
		return nil
	}
	var d Drawable
	if !m.Empty() {
		var err error
		if d, err = w.uploader.Upload(m); err != nil {
			return err
		}
	}
	if old := w.meshes[i]; old != nil {
		old.Delete()
	}
	w.meshes[i] = d
	w.faces[i] = m.Faces()
	return nil
}

func (w *World) Size() Coord { return w.size }

// Len is the number of chunks.
func (w *World) Len() int { return len(w.chunks) }

func (w *World) coord(i int) Coord {
	return Coord{
		X: i % w.size.X,
		Y: (i / w.size.X) % w.size.Y,
		Z: i / (w.size.X * w.size.Y),
	}
}

func (w *World) index(x, y, z int) (int, bool) {
	if x < 0 || y < 0 || z < 0 || x >= w.size.X || y >= w.size.Y || z >= w.size.Z {
		return 0, false
	}
	return x + w.size.X*(y+w.size.Y*z), true
}

// Chunk returns the chunk at grid (x, y, z), or nil outside the world.
func (w *World) Chunk(x, y, z int) *Chunk {
	i, ok := w.index(x, y, z)
	if !ok {
		return nil
	}
	return &w.chunks[i]
}

// Neighborhood returns the window around grid (x, y, z). The zero
// Neighborhood is returned outside the world.
func (w *World) Neighborhood(x, y, z int) Neighborhood {
	i, ok := w.index(x, y, z)
	if !ok {
		return Neighborhood{}
	}
	return w.neighborhood(i)
}

func (w *World) neighborhood(i int) Neighborhood {
	p := w.chunks[i].pos
	n := NewNeighborhood(&w.chunks[i])
	for dy := -1; dy <= 1; dy++ {
		for dz := -1; dz <= 1; dz++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				n.Set(dx, dy, dz, w.Chunk(p.X+dx, p.Y+dy, p.Z+dz))
			}
		}
	}
	return n
}

// Draw renders every uploaded chunk with shader. Chunks are visited y, then
// z, then x, each translated by its grid position times ChunkSize.
func (w *World) Draw(shader Shader, cam Camera, cfg RenderConfig) error {
	shader.Bind()
	shader.SetMat4("projview", cam.ProjectionMatrix().Mul4(cam.ViewMatrix()))
	if w.textures != nil && w.atlas != "" {
		if err := w.textures.BindTexture(w.atlas); err != nil {
			return fmt.Errorf("bind atlas: %w", err)
		}
	}
	prim := cfg.Primitive()
	for y := 0; y < w.size.Y; y++ {
		for z := 0; z < w.size.Z; z++ {
			for x := 0; x < w.size.X; x++ {
				i, _ := w.index(x, y, z)
				mesh := w.meshes[i]
				if mesh == nil {
					continue
				}
				shader.SetMat4("model", ChunkModel(w.chunks[i].pos))
				mesh.Draw(prim)
			}
		}
	}
	return nil
}

// ChunkModel is the model matrix placing a chunk at grid position p.
func ChunkModel(p Coord) mgl32.Mat4 {
	return mgl32.Translate3D(float32(p.X*ChunkSize), float32(p.Y*ChunkSize), float32(p.Z*ChunkSize))
}

// Voxel returns the block id at world voxel coordinate (x, y, z), Air outside
// the world.
func (w *World) Voxel(x, y, z int) uint16 {
	cx, lx := split(x)
	cy, ly := split(y)
	cz, lz := split(z)
	c := w.Chunk(cx, cy, cz)
	if c == nil {
		return Air
	}
	return c.ID(lx, ly, lz)
}

// Solid reports whether the world voxel at (x, y, z) is not air.
func (w *World) Solid(x, y, z int) bool {
	return w.Voxel(x, y, z) != Air
}

// SetVoxel writes id at world voxel coordinate (x, y, z) and queues the owning
// chunk, plus any neighbor sharing the touched face, for remeshing. It
// reports false outside the world.
func (w *World) SetVoxel(x, y, z int, id uint16) bool {
	cx, lx := split(x)
	cy, ly := split(y)
	cz, lz := split(z)
	i, ok := w.index(cx, cy, cz)
	if !ok {
		return false
	}
	c := &w.chunks[i]
	if c.ID(lx, ly, lz) == id {
		return true
	}
	c.SetID(lx, ly, lz, id)
	w.markDirty(i)

	edge := func(l int) int {
		switch l {
		case 0:
			return -1
		case ChunkSize - 1:
			return 1
		}
		return 0
	}
	if d := edge(lx); d != 0 {
		w.markDirtyAt(cx+d, cy, cz)
	}
	if d := edge(ly); d != 0 {
		w.markDirtyAt(cx, cy+d, cz)
	}
	if d := edge(lz); d != 0 {
		w.markDirtyAt(cx, cy, cz+d)
	}
	return true
}

func (w *World) markDirtyAt(x, y, z int) {
	if i, ok := w.index(x, y, z); ok {
		w.markDirty(i)
	}
}

func (w *World) markDirty(i int) {
	if w.queued[i] {
		return
	}
	w.queued[i] = true
	w.dirty = append(w.dirty, i)
}

// MarkDirty queues the chunk at grid (x, y, z) for remeshing.
func (w *World) MarkDirty(x, y, z int) {
	w.markDirtyAt(x, y, z)
}

// Dirty is the number of chunks waiting to be remeshed.
func (w *World) Dirty() int { return len(w.dirty) }

// Remesh rebuilds at most budget queued chunks in the order they were
// queued and returns how many were rebuilt. A chunk whose upload fails stays
// at the head of the queue.
func (w *World) Remesh(budget int) (int, error) {
	n := 0
	for n < budget && len(w.dirty) > 0 {
		i := w.dirty[0]
		if err := w.upload(i, BuildMesh(w.neighborhood(i))); err != nil {
			return n, fmt.Errorf("remesh chunk %v: %w", w.chunks[i].pos, err)
		}
		w.dirty = w.dirty[1:]
		w.queued[i] = false
		n++
	}
	if n > 0 {
		w.log.Debug("remeshed chunks", "count", n, "pending", len(w.dirty))
	}
	return n, nil
}

// Faces is the number of visible quads across all chunks.
func (w *World) Faces() int {
	total := 0
	for _, f := range w.faces {
		total += f
	}
	return total
}

func (w *World) Stats() Stats {
	st := Stats{Chunks: len(w.chunks), Faces: w.Faces(), Dirty: len(w.dirty)}
	for i := range w.chunks {
		st.Voxels += w.chunks[i].Count()
	}
	return st
}

// Close releases every uploaded mesh. The world must not be drawn afterwards.
func (w *World) Close() {
	for i, m := range w.meshes {
		if m != nil {
			m.Delete()
			w.meshes[i] = nil
		}
	}
	w.dirty = nil
	for i := range w.queued {
		w.queued[i] = false
	}
}
