package render

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type BufferUsage uint32

const (
	StaticDraw  BufferUsage = gl.STATIC_DRAW
	DynamicDraw BufferUsage = gl.DYNAMIC_DRAW
	StreamDraw  BufferUsage = gl.STREAM_DRAW
)

var errEmptyBuffer = errors.New("render: empty buffer")

type VertexBuffer struct {
	id     uint32
	layout BufferLayout
}

func NewVertexBuffer(data []float32, layout BufferLayout, usage BufferUsage) (*VertexBuffer, error) {
	if len(data) == 0 {
		return nil, errEmptyBuffer
	}
	vb := &VertexBuffer{layout: layout}
	gl.GenBuffers(1, &vb.id)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), uint32(usage))
	return vb, nil
}

func (vb *VertexBuffer) Bind()   { gl.BindBuffer(gl.ARRAY_BUFFER, vb.id) }
func (vb *VertexBuffer) Unbind() { gl.BindBuffer(gl.ARRAY_BUFFER, 0) }

func (vb *VertexBuffer) Delete() {
	if vb.id != 0 {
		gl.DeleteBuffers(1, &vb.id)
		vb.id = 0
	}
}

type IndexBuffer struct {
	id    uint32
	count int32
}

func NewIndexBuffer(indices []uint32, usage BufferUsage) (*IndexBuffer, error) {
	if len(indices) == 0 {
		return nil, errEmptyBuffer
	}
	ib := &IndexBuffer{count: int32(len(indices))}
	gl.GenBuffers(1, &ib.id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), uint32(usage))
	return ib, nil
}

func (ib *IndexBuffer) Count() int32 { return ib.count }

func (ib *IndexBuffer) Delete() {
	if ib.id != 0 {
		gl.DeleteBuffers(1, &ib.id)
		ib.id = 0
	}
}

// VertexArray binds one vertex buffer's layout and an index buffer.
type VertexArray struct {
	id      uint32
	vertex  *VertexBuffer
	indices *IndexBuffer
}

func NewVertexArray(vb *VertexBuffer, ib *IndexBuffer) *VertexArray {
	va := &VertexArray{vertex: vb, indices: ib}
	gl.GenVertexArrays(1, &va.id)
	gl.BindVertexArray(va.id)

	vb.Bind()
	stride := vb.layout.Stride()
	for i, e := range vb.layout.Elements() {
		loc := uint32(i)
		gl.EnableVertexAttribArray(loc)
		if e.Type == Int {
			gl.VertexAttribIPointer(loc, e.Type.Components(), e.Type.glType(), stride, gl.PtrOffset(int(e.Offset)))
			continue
		}
		gl.VertexAttribPointerWithOffset(loc, e.Type.Components(), e.Type.glType(), e.Normalized, stride, uintptr(e.Offset))
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)

	gl.BindVertexArray(0)
	return va
}

func (va *VertexArray) Bind()   { gl.BindVertexArray(va.id) }
func (va *VertexArray) Unbind() { gl.BindVertexArray(0) }

// Delete releases the array together with its buffers.
func (va *VertexArray) Delete() {
	if va.id != 0 {
		gl.DeleteVertexArrays(1, &va.id)
		va.id = 0
	}
	va.vertex.Delete()
	va.indices.Delete()
}
