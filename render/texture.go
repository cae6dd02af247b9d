package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"
	"neilpa.me/go-stbi"
)

type TextureOptions struct {
	// Pixelated selects nearest filtering with mipmaps, as used by the
	// block atlas. Otherwise linear filtering without mipmaps.
	Pixelated bool
	Clamp     bool
}

// Texture2D is an RGBA texture on unit 0.
type Texture2D struct {
	id            uint32
	width, height int
}

// NewTexture2D uploads img. Row 0 of img becomes the bottom of the texture,
// so callers holding top-down images should FlipVertical first.
func NewTexture2D(img *image.RGBA, opts TextureOptions) *Texture2D {
	t := &Texture2D{width: img.Rect.Dx(), height: img.Rect.Dy()}
	gl.GenTextures(1, &t.id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(t.width), int32(t.height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	wrap := int32(gl.REPEAT)
	if opts.Clamp {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	if opts.Pixelated {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

		var maxAnisotropy float32
		gl.GetFloatv(gl.MAX_TEXTURE_MAX_ANISOTROPY, &maxAnisotropy)
		gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, maxAnisotropy)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

func (t *Texture2D) Bind() {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// Update replaces the texture contents with img, which must match its size.
func (t *Texture2D) Update(img *image.RGBA) {
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(t.width), int32(t.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
}

func (t *Texture2D) Size() (int, int) { return t.width, t.height }

func (t *Texture2D) Delete() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// DecodeImage decodes PNG, JPEG, TGA, BMP and the other formats stb_image
// understands.
func DecodeImage(data []byte) (*image.RGBA, error) {
	img, err := stbi.LoadMemory(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// FlipVertical returns a copy of img with its rows reversed.
func FlipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		dst := out.Pix[(b.Dy()-1-y)*out.Stride:]
		copy(dst[:rowLen], src)
	}
	return out
}

// AtlasTiles is the number of tiles along each edge of the block atlas.
const AtlasTiles = 16

var tileColors = map[int]color.RGBA{
	1: {R: 96, G: 160, B: 64, A: 255},  // grass
	2: {R: 134, G: 96, B: 67, A: 255},  // dirt
	3: {R: 125, G: 125, B: 125, A: 255}, // stone
	4: {R: 219, G: 207, B: 163, A: 255}, // sand
	5: {R: 102, G: 81, B: 51, A: 255},  // wood
}

func tileColor(id int) color.RGBA {
	if c, ok := tileColors[id]; ok {
		return c
	}
	h := uint32(id)*2654435761 + 0x9e3779b9
	return color.RGBA{R: uint8(h >> 24), G: uint8(h >> 16), B: uint8(h >> 8), A: 255}
}

// GenerateAtlas builds a flat-colored block atlas with tilePx pixels per
// tile. Tile id sits at column id%16, row id/16 counted from the top, and
// every tile gets a darker one pixel outline.
func GenerateAtlas(tilePx int) *image.RGBA {
	palette := image.NewRGBA(image.Rect(0, 0, AtlasTiles, AtlasTiles))
	for id := 0; id < AtlasTiles*AtlasTiles; id++ {
		palette.SetRGBA(id%AtlasTiles, id/AtlasTiles, tileColor(id))
	}

	size := AtlasTiles * tilePx
	atlas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(atlas, atlas.Bounds(), palette, palette.Bounds(), draw.Src, nil)

	if tilePx < 3 {
		return atlas
	}
	for id := 0; id < AtlasTiles*AtlasTiles; id++ {
		c := tileColor(id)
		edge := color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 255}
		x0, y0 := (id%AtlasTiles)*tilePx, (id/AtlasTiles)*tilePx
		for i := 0; i < tilePx; i++ {
			atlas.SetRGBA(x0+i, y0, edge)
			atlas.SetRGBA(x0+i, y0+tilePx-1, edge)
			atlas.SetRGBA(x0, y0+i, edge)
			atlas.SetRGBA(x0+tilePx-1, y0+i, edge)
		}
	}
	return atlas
}
