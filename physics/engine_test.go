package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var floor = TerrainFunc(func(x, y, z int) bool { return y == 0 })

func run(e *Engine, seconds float32) {
	const dt = float32(1) / 60
	for t := float32(0); t < seconds; t += dt {
		e.Step(dt)
	}
}

func TestCollideHit(t *testing.T) {
	moving := Box(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	entry, normal := collide(moving, Cell(2, 0, 0), mgl32.Vec3{2, 0, 0})
	require.NotNil(t, normal)
	assert.InDelta(t, 0.5, entry, 1e-6)
	assert.Equal(t, []int{-1, 0, 0}, normal)
}

func TestCollideMiss(t *testing.T) {
	moving := Box(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})

	_, normal := collide(moving, Cell(2, 0, 0), mgl32.Vec3{-2, 0, 0})
	assert.Nil(t, normal, "moving away")

	_, normal = collide(moving, Cell(2, 3, 0), mgl32.Vec3{2, 0, 0})
	assert.Nil(t, normal, "passing below")

	_, normal = collide(moving, Cell(5, 0, 0), mgl32.Vec3{2, 0, 0})
	assert.Nil(t, normal, "out of reach")
}

func TestAABB(t *testing.T) {
	a := Box(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 2})
	assert.True(t, a.Intersects(Cell(1, 1, 1)))
	assert.False(t, a.Intersects(Cell(3, 0, 0)))

	e := a.Expand(mgl32.Vec3{2, -1, 0})
	assert.Equal(t, mgl32.Vec3{-1, -2, -1}, e.Min)
	assert.Equal(t, mgl32.Vec3{3, 1, 1}, e.Max)
}

func TestBodyRestsOnTerrain(t *testing.T) {
	e := NewEngine(floor, Options{Gravity: -9.81})
	id := e.AddBody(BodySettings{Position: mgl32.Vec3{8, 5, 8}, Motion: Dynamic})
	run(e, 3)

	pose, ok := e.Pose(id)
	require.True(t, ok)
	assert.InDelta(t, 1.0, pose.Position.Y(), 0.01)
	assert.InDelta(t, 8, pose.Position.X(), 1e-4)
	assert.True(t, e.Grounded(id))
}

func TestBodyRestsOnStaticBody(t *testing.T) {
	e := NewEngine(nil, Options{Gravity: -9.81})
	e.AddBody(BodySettings{Position: mgl32.Vec3{0, -0.5, 0}, Size: mgl32.Vec3{100, 1, 100}, Motion: Static})
	id := e.AddBody(BodySettings{Position: mgl32.Vec3{0, 3, 0}, Motion: Dynamic})
	run(e, 3)

	pose, _ := e.Pose(id)
	assert.InDelta(t, 0.5, pose.Position.Y(), 0.01)
}

func TestStaticBodiesDoNotMove(t *testing.T) {
	e := NewEngine(nil, Options{Gravity: -9.81})
	id := e.AddBody(BodySettings{Position: mgl32.Vec3{1, 2, 3}, Motion: Static})
	run(e, 1)
	pose, _ := e.Pose(id)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, pose.Position)
	assert.False(t, e.SetVelocity(id, mgl32.Vec3{1, 0, 0}))
}

func TestWallStopsSlide(t *testing.T) {
	wall := TerrainFunc(func(x, y, z int) bool { return x == 5 })
	e := NewEngine(wall, Options{})
	id := e.AddBody(BodySettings{Motion: Dynamic, Velocity: mgl32.Vec3{10, 0, 0}})
	run(e, 2)

	pose, _ := e.Pose(id)
	assert.InDelta(t, 4.0, pose.Position.X(), 0.01)
	assert.False(t, e.Grounded(id))
}

func TestSpin(t *testing.T) {
	e := NewEngine(nil, Options{})
	id := e.AddBody(BodySettings{Motion: Dynamic, Spin: 90})
	for i := 0; i < 60; i++ {
		e.Step(float32(1) / 60)
	}
	pose, _ := e.Pose(id)
	got := pose.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	assert.True(t, got.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-2), "got %v", got)
}

func TestStepDropsBacklog(t *testing.T) {
	e := NewEngine(nil, Options{TickRate: 60})
	id := e.AddBody(BodySettings{Motion: Dynamic, Velocity: mgl32.Vec3{1, 0, 0}})
	e.Step(1)
	pose, _ := e.Pose(id)
	assert.InDelta(t, float32(maxSubSteps)/60, pose.Position.X(), 1e-4)
}

func TestRemoveBody(t *testing.T) {
	e := NewEngine(nil, Options{})
	a := e.AddBody(BodySettings{})
	b := e.AddBody(BodySettings{Size: mgl32.Vec3{2, 2, 2}})
	assert.Equal(t, []BodyID{a, b}, e.Bodies())

	assert.True(t, e.RemoveBody(a))
	assert.False(t, e.RemoveBody(a))
	_, ok := e.Pose(a)
	assert.False(t, ok)

	pose, ok := e.Pose(b)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, pose.Size)
}

func TestEngineIsPoseProvider(t *testing.T) {
	var p PoseProvider = NewEngine(nil, Options{})
	_, ok := p.Pose(42)
	assert.False(t, ok)
}
