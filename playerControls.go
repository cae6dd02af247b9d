package main

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelgo/physics"
	"voxelgo/voxel"
)

// reach is how far away, in blocks, the camera can break or place.
const reach = 6

// eyeBox is the space around the camera that placed blocks may not fill.
var eyeBox = mgl32.Vec3{0.5, 0.5, 0.5}

var placeInset = mgl32.Vec3{0.01, 0.01, 0.01}

func (v *viewer) breakBlock() {
	hit, ok := v.world.Raycast(v.cam.Position(), v.cam.Front(), reach)
	if !ok {
		return
	}
	v.world.SetVoxel(hit.Voxel.X, hit.Voxel.Y, hit.Voxel.Z, voxel.Air)
}

func (v *viewer) placeBlock(id uint16) {
	hit, ok := v.world.Raycast(v.cam.Position(), v.cam.Front(), reach)
	if !ok {
		return
	}
	p := hit.Previous
	if !canPlace(p, v.cam.Position(), v.physics) {
		return
	}
	v.world.SetVoxel(p.X, p.Y, p.Z, id)
}

// bodySource lists simulated bodies and their poses.
type bodySource interface {
	physics.PoseProvider
	Bodies() []physics.BodyID
}

// canPlace reports whether cell p is clear of the camera and of every body.
func canPlace(p voxel.Coord, eye mgl32.Vec3, bodies bodySource) bool {
	// Inset so a body resting against the cell does not block it.
	cell := physics.Cell(p.X, p.Y, p.Z)
	cell.Min = cell.Min.Add(placeInset)
	cell.Max = cell.Max.Sub(placeInset)
	if cell.Intersects(physics.Box(eye, eyeBox)) {
		return false
	}
	for _, id := range bodies.Bodies() {
		pose, ok := bodies.Pose(id)
		if ok && cell.Intersects(physics.Box(pose.Position, pose.Size)) {
			return false
		}
	}
	return true
}

// spawnBody throws a dynamic block out from the camera.
func (v *viewer) spawnBody() {
	front := v.cam.Front()
	id := v.physics.AddBody(physics.BodySettings{
		Position: v.cam.Position().Add(front.Mul(3)),
		Size:     mgl32.Vec3{1, 1, 1},
		Motion:   physics.Dynamic,
		Velocity: front.Mul(8),
		Spin:     180,
	})
	v.log.Debug("body spawned", "id", id)
}
