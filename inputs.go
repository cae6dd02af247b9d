package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"voxelgo/config"
	"voxelgo/voxel"
)

const maxWorldAxis = 16

// panel is the mutable debug state driven by the keyboard. The render loop
// only ever sees a frameConfig snapshot of it.
type panel struct {
	clearColor  mgl32.Vec4
	wireframe   bool
	perspective bool
	overlay     bool
	fov         float32
	worldSize   voxel.Coord
	rebuild     bool
}

// frameConfig is the immutable per-frame view of the panel.
type frameConfig struct {
	clearColor  mgl32.Vec4
	render      voxel.RenderConfig
	perspective bool
	overlay     bool
	fov         float32
	worldSize   voxel.Coord
}

func newPanel(cfg *config.Config) *panel {
	return &panel{
		clearColor:  mgl32.Vec4(cfg.Render.ClearColor),
		wireframe:   cfg.Render.Wireframe,
		perspective: cfg.Camera.Perspective,
		overlay:     cfg.Render.Overlay,
		fov:         cfg.Camera.FOV,
		worldSize:   voxel.Coord{X: cfg.World.Size[0], Y: cfg.World.Size[1], Z: cfg.World.Size[2]},
	}
}

func (p *panel) snapshot() frameConfig {
	return frameConfig{
		clearColor:  p.clearColor,
		render:      voxel.RenderConfig{Wireframe: p.wireframe},
		perspective: p.perspective,
		overlay:     p.overlay,
		fov:         p.fov,
		worldSize:   p.worldSize,
	}
}

// takeRebuild reports and clears a pending world rebuild.
func (p *panel) takeRebuild() bool {
	r := p.rebuild
	p.rebuild = false
	return r
}

func (p *panel) resize(dx, dy, dz int) {
	next := voxel.Coord{
		X: min(max(p.worldSize.X+dx, 1), maxWorldAxis),
		Y: min(max(p.worldSize.Y+dy, 1), maxWorldAxis),
		Z: min(max(p.worldSize.Z+dz, 1), maxWorldAxis),
	}
	if next != p.worldSize {
		p.worldSize = next
		p.rebuild = true
	}
}

// handleKey applies a key press. It reports whether the key was a panel key.
func (p *panel) handleKey(key glfw.Key) bool {
	switch key {
	case glfw.KeyF1:
		p.wireframe = !p.wireframe
	case glfw.KeyF2:
		p.perspective = !p.perspective
	case glfw.KeyF3:
		p.overlay = !p.overlay
	case glfw.KeyLeftBracket:
		p.resize(-1, 0, -1)
	case glfw.KeyRightBracket:
		p.resize(1, 0, 1)
	case glfw.KeyMinus:
		p.resize(0, -1, 0)
	case glfw.KeyEqual:
		p.resize(0, 1, 0)
	case glfw.KeyR:
		p.rebuild = true
	case glfw.KeyPageUp:
		p.fov = min(p.fov+5, 150)
	case glfw.KeyPageDown:
		p.fov = max(p.fov-5, 30)
	default:
		return false
	}
	return true
}

// mouse accumulates cursor movement between frames.
type mouse struct {
	lastX, lastY float64
	dx, dy       float64
	first        bool
	captured     bool
}

func (m *mouse) move(xPos, yPos float64) {
	if m.first {
		m.lastX, m.lastY = xPos, yPos
		m.first = false
	}
	m.dx += xPos - m.lastX
	m.dy += yPos - m.lastY
	m.lastX, m.lastY = xPos, yPos
}

// take returns and clears the accumulated delta.
func (m *mouse) take() (float32, float32) {
	dx, dy := m.dx, m.dy
	m.dx, m.dy = 0, 0
	if !m.captured {
		return 0, 0
	}
	return float32(dx), float32(dy)
}

func (v *viewer) keyCallback(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if v.panel.handleKey(key) {
		return
	}
	switch key {
	case glfw.KeyEscape:
		if v.mouse.captured {
			v.setCaptured(window, false)
			return
		}
		window.SetShouldClose(true)
	case glfw.KeyB:
		v.spawnBody()
	}
}

func (v *viewer) cursorCallback(window *glfw.Window, xPos, yPos float64) {
	v.mouse.move(xPos, yPos)
}

func (v *viewer) mouseButtonCallback(window *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if !v.mouse.captured {
		v.setCaptured(window, true)
		return
	}
	switch button {
	case glfw.MouseButtonLeft:
		v.breakBlock()
	case glfw.MouseButtonRight:
		v.placeBlock(voxel.Dirt)
	}
}

func (v *viewer) setCaptured(window *glfw.Window, captured bool) {
	v.mouse.captured = captured
	v.mouse.first = true
	if captured {
		window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// movement flies the camera, checked every frame for fast responses.
func (v *viewer) movement(window *glfw.Window, dt float32) {
	speed := v.cfg.Camera.Speed
	if window.GetKey(glfw.KeyLeftShift) == glfw.Press {
		speed *= 2
	}
	if window.GetKey(glfw.KeyW) == glfw.Press {
		v.cam.MoveForward(speed, dt)
	}
	if window.GetKey(glfw.KeyS) == glfw.Press {
		v.cam.MoveForward(-speed, dt)
	}
	if window.GetKey(glfw.KeyD) == glfw.Press {
		v.cam.MoveRight(speed, dt)
	}
	if window.GetKey(glfw.KeyA) == glfw.Press {
		v.cam.MoveRight(-speed, dt)
	}
	if window.GetKey(glfw.KeySpace) == glfw.Press {
		v.cam.MoveUp(speed, dt)
	}
	if window.GetKey(glfw.KeyLeftControl) == glfw.Press {
		v.cam.MoveUp(-speed, dt)
	}

	dx, dy := v.mouse.take()
	if dx != 0 || dy != 0 {
		v.cam.RotateDelta(dx, dy, 1, v.cfg.Camera.Sensitivity)
	}
}
