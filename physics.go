package main

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelgo/physics"
	"voxelgo/voxel"
)

// Block draws simulated bodies as a single textured voxel.
type Block struct {
	mesh voxel.Drawable
}

// blockMesh is the six-face mesh of one voxel of the given id.
func blockMesh(id uint16) voxel.MeshData {
	c := voxel.NewChunk(voxel.Coord{})
	c.SetID(0, 0, 0, id)
	return voxel.BuildMesh(voxel.NewNeighborhood(c))
}

func newBlock(up voxel.Uploader, id uint16) (*Block, error) {
	mesh, err := up.Upload(blockMesh(id))
	if err != nil {
		return nil, err
	}
	return &Block{mesh: mesh}, nil
}

// bodyModel places the unit voxel mesh at a pose: translate, rotate, then
// scale to the body size.
func bodyModel(p physics.Pose) mgl32.Mat4 {
	t := mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z())
	s := mgl32.Scale3D(p.Size.X(), p.Size.Y(), p.Size.Z())
	return t.Mul4(p.Rotation.Mat4()).Mul4(s)
}

// tintShader is the chunk shader as markers need it.
type tintShader interface {
	voxel.Shader
	SetVec3(name string, v mgl32.Vec3)
}

var white = mgl32.Vec3{1, 1, 1}

const lightSize = 0.5

// LightSource is a colored marker cube at a fixed position.
type LightSource struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

func (l LightSource) pose() physics.Pose {
	return physics.Pose{
		Position: l.Position,
		Rotation: mgl32.QuatIdent(),
		Size:     mgl32.Vec3{lightSize, lightSize, lightSize},
	}
}

// drawLight draws l with the block tinted by its color, then restores the
// neutral tint used for chunks and bodies.
func (b *Block) drawLight(shader tintShader, l LightSource, cfg voxel.RenderConfig) {
	shader.SetVec3("tint", l.Color)
	b.draw(shader, l.pose(), cfg)
	shader.SetVec3("tint", white)
}

// draw expects the chunk shader to be bound with projview and the atlas set,
// as World.Draw leaves it.
func (b *Block) draw(shader voxel.Shader, pose physics.Pose, cfg voxel.RenderConfig) {
	shader.SetMat4("model", bodyModel(pose))
	b.mesh.Draw(cfg.Primitive())
}

func (b *Block) delete() {
	b.mesh.Delete()
}
