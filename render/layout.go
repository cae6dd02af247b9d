package render

import "github.com/go-gl/gl/v4.1-core/gl"

// ShaderDataType is the type of one vertex attribute.
type ShaderDataType uint8

const (
	Float ShaderDataType = iota + 1
	Float2
	Float3
	Float4
	Int
	Mat4
)

// Components is the number of scalar values in t.
func (t ShaderDataType) Components() int32 {
	switch t {
	case Float, Int:
		return 1
	case Float2:
		return 2
	case Float3:
		return 3
	case Float4:
		return 4
	case Mat4:
		return 16
	}
	return 0
}

// Size is the byte size of t.
func (t ShaderDataType) Size() int32 {
	return t.Components() * 4
}

func (t ShaderDataType) glType() uint32 {
	if t == Int {
		return gl.INT
	}
	return gl.FLOAT
}

type BufferElement struct {
	Name       string
	Type       ShaderDataType
	Normalized bool
	Offset     int32
}

// BufferLayout describes interleaved vertex attributes in location order.
type BufferLayout struct {
	elements []BufferElement
	stride   int32
}

func NewBufferLayout(elements ...BufferElement) BufferLayout {
	l := BufferLayout{elements: make([]BufferElement, len(elements))}
	for i, e := range elements {
		e.Offset = l.stride
		l.stride += e.Type.Size()
		l.elements[i] = e
	}
	return l
}

func (l BufferLayout) Elements() []BufferElement { return l.elements }

// Stride is the byte distance between consecutive vertices.
func (l BufferLayout) Stride() int32 { return l.stride }

// ChunkLayout matches voxel.Vertex: position, uv, light.
var ChunkLayout = NewBufferLayout(
	BufferElement{Name: "a_position", Type: Float3},
	BufferElement{Name: "a_uv", Type: Float2},
	BufferElement{Name: "a_light", Type: Float},
)
