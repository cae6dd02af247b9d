package main

import (
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"voxelgo/render"
	"voxelgo/voxel"
)

const (
	canvasSize = 512
	fontSize   = 16
	lineHeight = 22
	textMargin = 8
)

var (
	textVertices = []float32{
		0.0, 1.0, 0.0, 0.0, 1.0, // Top-left
		0.0, 0.0, 0.0, 0.0, 0.0, // Bottom-left
		1.0, 0.0, 0.0, 1.0, 0.0, // Bottom-right
		1.0, 1.0, 0.0, 1.0, 1.0,
	}
	textIndices = []uint32{0, 1, 2, 0, 2, 3}
)

// textCanvas rasterizes lines of text into an RGBA image.
type textCanvas struct {
	ctx *freetype.Context
	dst *image.RGBA
}

// Sets up freetype context and canvas with the built-in Go font
func newTextCanvas(size int) (*textCanvas, error) {
	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	ctx := freetype.NewContext()
	ctx.SetFont(f)
	ctx.SetFontSize(fontSize)
	ctx.SetDst(dst)
	ctx.SetClip(dst.Bounds())
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull) // For sharp text
	return &textCanvas{ctx: ctx, dst: dst}, nil
}

func (c *textCanvas) drawLines(lines []string) error {
	draw.Draw(c.dst, c.dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	for i, line := range lines {
		pt := fixed.P(textMargin, textMargin+fontSize+i*lineHeight)
		if _, err := c.ctx.DrawString(line, pt); err != nil {
			return err
		}
	}
	return nil
}

// overlay is the debug text drawn in screen space over the world.
type overlay struct {
	shader  *render.Shader
	quad    *render.Mesh
	texture *render.Texture2D
	canvas  *textCanvas
	width   int
	height  int
}

func newOverlay(res *render.Resources, width, height int) (*overlay, error) {
	shader, err := res.LoadShader("text", "shaders/text.vert", "shaders/text.frag")
	if err != nil {
		return nil, err
	}
	canvas, err := newTextCanvas(canvasSize)
	if err != nil {
		return nil, err
	}
	quad, err := render.NewMesh(textVertices, textIndices, render.NewBufferLayout(
		render.BufferElement{Name: "a_position", Type: render.Float3},
		render.BufferElement{Name: "a_uv", Type: render.Float2},
	))
	if err != nil {
		return nil, err
	}
	o := &overlay{
		shader:  shader,
		quad:    quad,
		texture: render.NewTexture2D(canvas.dst, render.TextureOptions{Clamp: true}),
		canvas:  canvas,
		width:   width,
		height:  height,
	}
	shader.Bind()
	shader.SetInt("glyphs", 0)
	return o, nil
}

func (o *overlay) resize(width, height int) {
	o.width, o.height = width, height
}

// setLines redraws the canvas and uploads it.
func (o *overlay) setLines(lines []string) error {
	if err := o.canvas.drawLines(lines); err != nil {
		return err
	}
	o.texture.Update(o.canvas.dst)
	return nil
}

func (o *overlay) draw() {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	o.shader.Bind()
	o.shader.SetMat4("projection", mgl32.Ortho(0, float32(o.width), float32(o.height), 0, -1, 1))
	o.shader.SetMat4("model", mgl32.Scale3D(canvasSize, canvasSize, 1))
	o.texture.Bind()
	o.quad.Draw(voxel.Triangles)

	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
}

func (o *overlay) delete() {
	o.quad.Delete()
	o.texture.Delete()
}

// fpsCounter averages frames over short windows.
type fpsCounter struct {
	start  time.Time
	frames int
	fps    float64
}

// tick counts a frame and reports whether the average was refreshed.
func (f *fpsCounter) tick(now time.Time) bool {
	if f.start.IsZero() {
		f.start = now
	}
	f.frames++
	elapsed := now.Sub(f.start)
	if elapsed < 100*time.Millisecond {
		return false
	}
	f.fps = float64(f.frames) / elapsed.Seconds()
	f.frames = 0
	f.start = now
	return true
}

func (f *fpsCounter) String() string {
	return "FPS: " + strconv.FormatFloat(mgl64.Round(f.fps, 1), 'f', -1, 32)
}
