// Package camera is a free-flying first person camera producing the view and
// projection matrices used by the renderer.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type ProjectionMode uint8

const (
	Perspective ProjectionMode = iota
	Orthographic
)

func (m ProjectionMode) String() string {
	if m == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// Pitch is kept short of straight up or down so the view basis never
// collapses onto the world up axis.
const maxPitch = 89

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera holds a position and a pitch/yaw/roll rotation in degrees. Yaw 0
// looks down -Z; positive yaw turns right.
type Camera struct {
	position mgl32.Vec3
	rotation mgl32.Vec3 // pitch, yaw, roll
	mode     ProjectionMode

	fov        float32
	aspect     float32
	near, far  float32
	orthoScale float32

	front, right, up mgl32.Vec3
	view, projection mgl32.Mat4
}

type Options struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Mode     ProjectionMode
	// FOV is the vertical field of view in degrees.
	FOV       float32
	Aspect    float32
	Near, Far float32
	// OrthoScale is half the visible height in world units when
	// orthographic.
	OrthoScale float32
}

func New(opts Options) *Camera {
	c := &Camera{
		position:   opts.Position,
		rotation:   opts.Rotation,
		mode:       opts.Mode,
		fov:        opts.FOV,
		aspect:     opts.Aspect,
		near:       opts.Near,
		far:        opts.Far,
		orthoScale: opts.OrthoScale,
	}
	if c.fov <= 0 {
		c.fov = 70
	}
	if c.aspect <= 0 {
		c.aspect = 16.0 / 9.0
	}
	if c.near <= 0 {
		c.near = 0.1
	}
	if c.far <= c.near {
		c.far = 1000
	}
	if c.orthoScale <= 0 {
		c.orthoScale = 32
	}
	c.rotation[0] = clampPitch(c.rotation[0])
	c.updateView()
	c.updateProjection()
	return c
}

func clampPitch(p float32) float32 {
	return mgl32.Clamp(p, -maxPitch, maxPitch)
}

func (c *Camera) updateView() {
	pitch := float64(mgl32.DegToRad(c.rotation[0]))
	yaw := float64(mgl32.DegToRad(c.rotation[1] - 90))
	c.front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
	c.right = c.front.Cross(worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
	if roll := c.rotation[2]; roll != 0 {
		q := mgl32.QuatRotate(mgl32.DegToRad(roll), c.front)
		c.right = q.Rotate(c.right)
		c.up = q.Rotate(c.up)
	}
	c.view = mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

func (c *Camera) updateProjection() {
	if c.mode == Orthographic {
		h := c.orthoScale
		w := h * c.aspect
		c.projection = mgl32.Ortho(-w, w, -h, h, c.near, c.far)
		return
	}
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
}

func (c *Camera) ViewMatrix() mgl32.Mat4       { return c.view }
func (c *Camera) ProjectionMatrix() mgl32.Mat4 { return c.projection }

func (c *Camera) Position() mgl32.Vec3 { return c.position }
func (c *Camera) Rotation() mgl32.Vec3 { return c.rotation }
func (c *Camera) Front() mgl32.Vec3    { return c.front }
func (c *Camera) Right() mgl32.Vec3    { return c.right }
func (c *Camera) Up() mgl32.Vec3       { return c.up }
func (c *Camera) Mode() ProjectionMode { return c.mode }
func (c *Camera) FOV() float32         { return c.fov }

func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.updateView()
}

func (c *Camera) SetRotation(r mgl32.Vec3) {
	r[0] = clampPitch(r[0])
	c.rotation = r
	c.updateView()
}

func (c *Camera) SetProjectionMode(m ProjectionMode) {
	if c.mode == m {
		return
	}
	c.mode = m
	c.updateProjection()
}

// SetAspect is called when the framebuffer is resized.
func (c *Camera) SetAspect(aspect float32) {
	if aspect <= 0 || aspect == c.aspect {
		return
	}
	c.aspect = aspect
	c.updateProjection()
}

func (c *Camera) SetFOV(deg float32) {
	if deg <= 0 || deg >= 180 || deg == c.fov {
		return
	}
	c.fov = deg
	c.updateProjection()
}

func (c *Camera) MoveForward(delta, dt float32) {
	c.SetPosition(c.position.Add(c.front.Mul(delta * dt)))
}

func (c *Camera) MoveRight(delta, dt float32) {
	c.SetPosition(c.position.Add(c.right.Mul(delta * dt)))
}

func (c *Camera) MoveUp(delta, dt float32) {
	c.SetPosition(c.position.Add(c.up.Mul(delta * dt)))
}

// RotateDelta turns the camera by a mouse delta in pixels. Moving the mouse
// right turns right and moving it down looks down.
func (c *Camera) RotateDelta(dx, dy, dt float32, sensitivity [2]float32) {
	r := c.rotation
	r[1] += dx * sensitivity[0] * dt
	r[0] -= dy * sensitivity[1] * dt
	c.SetRotation(r)
}
