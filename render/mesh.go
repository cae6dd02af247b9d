package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"voxelgo/voxel"
)

func glPrimitive(p voxel.Primitive) uint32 {
	if p == voxel.Lines {
		return gl.LINES
	}
	return gl.TRIANGLES
}

// Mesh is an indexed vertex array ready to draw.
type Mesh struct {
	va *VertexArray
}

func NewMesh(vertices []float32, indices []uint32, layout BufferLayout) (*Mesh, error) {
	vb, err := NewVertexBuffer(vertices, layout, StaticDraw)
	if err != nil {
		return nil, fmt.Errorf("vertex buffer: %w", err)
	}
	ib, err := NewIndexBuffer(indices, StaticDraw)
	if err != nil {
		vb.Delete()
		return nil, fmt.Errorf("index buffer: %w", err)
	}
	return &Mesh{va: NewVertexArray(vb, ib)}, nil
}

func (m *Mesh) Draw(p voxel.Primitive) {
	m.va.Bind()
	gl.DrawElements(glPrimitive(p), m.va.indices.Count(), gl.UNSIGNED_INT, nil)
	m.va.Unbind()
}

func (m *Mesh) Delete() { m.va.Delete() }

// MeshUploader uploads chunk meshes with ChunkLayout.
type MeshUploader struct{}

func (MeshUploader) Upload(m voxel.MeshData) (voxel.Drawable, error) {
	mesh, err := NewMesh(m.Floats(), m.Indices, ChunkLayout)
	if err != nil {
		return nil, err
	}
	return mesh, nil
}
