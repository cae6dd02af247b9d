// Package physics is a small box rigid-body simulation over voxel terrain.
// Dynamic bodies fall under gravity and collide with solid voxels and with
// static bodies using swept boxes.
package physics

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type MotionType uint8

const (
	Static MotionType = iota
	Dynamic
)

type BodyID uint32

type BodySettings struct {
	Position mgl32.Vec3
	Size     mgl32.Vec3
	Motion   MotionType
	Velocity mgl32.Vec3
	// Spin is the angular velocity about +Y in degrees per second.
	Spin float32
}

// Pose is a body's placement in world space.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Size     mgl32.Vec3
}

// PoseProvider is what the renderer needs from the simulation.
type PoseProvider interface {
	Pose(id BodyID) (Pose, bool)
}

// Terrain reports solid voxels by integer coordinate.
type Terrain interface {
	Solid(x, y, z int) bool
}

// TerrainFunc adapts a function to Terrain.
type TerrainFunc func(x, y, z int) bool

func (f TerrainFunc) Solid(x, y, z int) bool { return f(x, y, z) }

const (
	resolveIterations = 3
	contactEpsilon    = 0.001
	groundSpinDamping = 0.9
	maxSubSteps       = 8
)

type Options struct {
	Gravity float32
	// TickRate is the number of fixed simulation steps per second.
	TickRate int
	Logger   *slog.Logger
}

type body struct {
	id       BodyID
	motion   MotionType
	pos      mgl32.Vec3
	size     mgl32.Vec3
	vel      mgl32.Vec3
	yaw      float32
	spin     float32
	grounded bool
}

func (b *body) box() AABB { return Box(b.pos, b.size) }

type Engine struct {
	terrain Terrain
	gravity float32
	tick    float32
	acc     float32
	next    BodyID
	bodies  []*body
	log     *slog.Logger
}

func NewEngine(terrain Terrain, opts Options) *Engine {
	rate := opts.TickRate
	if rate <= 0 {
		rate = 60
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		terrain: terrain,
		gravity: opts.Gravity,
		tick:    1 / float32(rate),
		log:     log,
	}
}

// SetTerrain swaps the collision world, for example after a rebuild.
func (e *Engine) SetTerrain(t Terrain) { e.terrain = t }

func (e *Engine) AddBody(s BodySettings) BodyID {
	e.next++
	size := s.Size
	if size == (mgl32.Vec3{}) {
		size = mgl32.Vec3{1, 1, 1}
	}
	e.bodies = append(e.bodies, &body{
		id:     e.next,
		motion: s.Motion,
		pos:    s.Position,
		size:   size,
		vel:    s.Velocity,
		spin:   s.Spin,
	})
	return e.next
}

func (e *Engine) RemoveBody(id BodyID) bool {
	for i, b := range e.bodies {
		if b.id == id {
			e.bodies = append(e.bodies[:i], e.bodies[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Engine) find(id BodyID) *body {
	for _, b := range e.bodies {
		if b.id == id {
			return b
		}
	}
	return nil
}

// Bodies returns every body id in insertion order.
func (e *Engine) Bodies() []BodyID {
	ids := make([]BodyID, len(e.bodies))
	for i, b := range e.bodies {
		ids[i] = b.id
	}
	return ids
}

func (e *Engine) Pose(id BodyID) (Pose, bool) {
	b := e.find(id)
	if b == nil {
		return Pose{}, false
	}
	return Pose{
		Position: b.pos,
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(b.yaw), mgl32.Vec3{0, 1, 0}),
		Size:     b.size,
	}, true
}

func (e *Engine) Grounded(id BodyID) bool {
	b := e.find(id)
	return b != nil && b.grounded
}

func (e *Engine) SetVelocity(id BodyID, v mgl32.Vec3) bool {
	b := e.find(id)
	if b == nil || b.motion != Dynamic {
		return false
	}
	b.vel = v
	return true
}

// Step advances the simulation by dt seconds in fixed ticks. Time beyond
// maxSubSteps ticks is dropped so a long frame cannot stall the caller.
func (e *Engine) Step(dt float32) {
	e.acc += dt
	steps := 0
	for e.acc >= e.tick {
		if steps == maxSubSteps {
			e.log.Debug("physics falling behind", "dropped", e.acc)
			e.acc = 0
			break
		}
		for _, b := range e.bodies {
			if b.motion == Dynamic {
				e.integrate(b)
			}
		}
		e.acc -= e.tick
		steps++
	}
}

func (e *Engine) integrate(b *body) {
	h := e.tick
	b.vel[1] += e.gravity * h
	d := b.vel.Mul(h)
	b.grounded = false

	for iter := 0; iter < resolveIterations; iter++ {
		t, normal, hit := e.earliestContact(b, d)
		if !hit {
			break
		}
		t -= contactEpsilon
		for i := 0; i < 3; i++ {
			if normal[i] == 0 {
				continue
			}
			b.pos[i] += d[i] * t
			d[i] = 0
			b.vel[i] = 0
			if i == 1 && normal[i] > 0 {
				b.grounded = true
			}
		}
	}
	b.pos = b.pos.Add(d)

	b.yaw = float32(math.Mod(float64(b.yaw+b.spin*h), 360))
	if b.grounded {
		b.spin *= groundSpinDamping
	}
}

func (e *Engine) earliestContact(b *body, d mgl32.Vec3) (float32, []int, bool) {
	box := b.box()
	best := float32(math.Inf(1))
	var bestNormal []int

	consider := func(fixed AABB) {
		t, normal := collide(box, fixed, d)
		if normal != nil && t < best {
			best, bestNormal = t, normal
		}
	}

	if e.terrain != nil {
		sweep := box.Expand(d)
		lo := [3]int{}
		hi := [3]int{}
		for i := 0; i < 3; i++ {
			lo[i] = int(math.Floor(float64(sweep.Min[i]+0.5))) - 1
			hi[i] = int(math.Floor(float64(sweep.Max[i]+0.5))) + 1
		}
		for x := lo[0]; x <= hi[0]; x++ {
			for y := lo[1]; y <= hi[1]; y++ {
				for z := lo[2]; z <= hi[2]; z++ {
					if e.terrain.Solid(x, y, z) {
						consider(Cell(x, y, z))
					}
				}
			}
		}
	}
	for _, o := range e.bodies {
		if o.motion == Static && o != b {
			consider(o.box())
		}
	}
	return best, bestNormal, bestNormal != nil
}
