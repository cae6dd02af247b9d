package render

import (
	"errors"
	"image"
	"image/color"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelgo/voxel"
)

func TestBufferLayout(t *testing.T) {
	l := NewBufferLayout(
		BufferElement{Name: "pos", Type: Float3},
		BufferElement{Name: "color", Type: Float4},
		BufferElement{Name: "id", Type: Int},
		BufferElement{Name: "uv", Type: Float2},
	)
	assert.Equal(t, int32(12+16+4+8), l.Stride())
	offsets := []int32{}
	for _, e := range l.Elements() {
		offsets = append(offsets, e.Offset)
	}
	assert.Equal(t, []int32{0, 12, 28, 32}, offsets)
	assert.Equal(t, int32(64), Mat4.Size())
}

func TestChunkLayoutMatchesVertex(t *testing.T) {
	assert.Equal(t, int32(voxel.VertexFloats*4), ChunkLayout.Stride())
	require.Len(t, ChunkLayout.Elements(), 3)
	assert.Equal(t, int32(20), ChunkLayout.Elements()[2].Offset)
}

func TestFlipVertical(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.SetRGBA(1, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(0, 2, color.RGBA{B: 255, A: 255})

	out := FlipVertical(img)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(1, 2))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(1, 0))
}

func TestGenerateAtlas(t *testing.T) {
	atlas := GenerateAtlas(8)
	assert.Equal(t, image.Rect(0, 0, 128, 128), atlas.Bounds())

	stone := tileColor(int(voxel.Stone))
	assert.Equal(t, stone, atlas.RGBAAt(3*8+4, 4))
	assert.Equal(t, color.RGBA{R: stone.R / 2, G: stone.G / 2, B: stone.B / 2, A: 255}, atlas.RGBAAt(3*8, 4))

	// Row 1 of the atlas holds ids 16..31.
	assert.Equal(t, tileColor(17), atlas.RGBAAt(8+4, 8+4))
}

func TestBuiltinAtlasMatchesGenerated(t *testing.T) {
	data, err := fs.ReadFile(Assets(), "textures/atlas.png")
	require.NoError(t, err)
	img, err := DecodeImage(data)
	require.NoError(t, err)

	want := GenerateAtlas(16)
	require.Equal(t, want.Bounds().Size(), img.Bounds().Size())
	for y := 0; y < 256; y += 5 {
		for x := 0; x < 256; x += 3 {
			require.Equal(t, want.RGBAAt(x, y), img.RGBAAt(img.Rect.Min.X+x, img.Rect.Min.Y+y), "pixel %d,%d", x, y)
		}
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	_, err := DecodeImage([]byte("not an image"))
	assert.Error(t, err)
}

func TestBuiltinShadersPresent(t *testing.T) {
	r := NewResources(Assets(), nil)
	for _, name := range []string{"chunk", "sky", "text"} {
		for _, ext := range []string{".vert", ".frag"} {
			src, err := r.FileText("shaders/" + name + ext)
			require.NoError(t, err)
			assert.Contains(t, src, "#version 410 core")
		}
	}
}

func TestResourcesNotFound(t *testing.T) {
	r := NewResources(fstest.MapFS{}, nil)

	_, err := r.FileText("shaders/missing.vert")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "file", nf.Kind)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = r.Shader("chunk")
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "shader", nf.Kind)
	assert.Equal(t, "chunk", nf.Name)

	_, err = r.Texture("atlas")
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "texture", nf.Kind)

	assert.Error(t, r.BindTexture("atlas"))

	_, err = r.LoadShader("chunk", "a.vert", "a.frag")
	assert.True(t, errors.As(err, &nf))

	_, err = r.LoadTexture("atlas", "atlas.png", TextureOptions{})
	assert.True(t, errors.As(err, &nf))
}

func TestLayered(t *testing.T) {
	top := fstest.MapFS{"shaders/chunk.frag": {Data: []byte("custom")}}
	r := NewResources(Layered{top, Assets()}, nil)

	src, err := r.FileText("shaders/chunk.frag")
	require.NoError(t, err)
	assert.Equal(t, "custom", src)

	src, err = r.FileText("shaders/chunk.vert")
	require.NoError(t, err)
	assert.Contains(t, src, "projview")

	_, err = r.FileText("nope.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
