package main

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"voxelgo/camera"
	"voxelgo/render"
	"voxelgo/voxel"
)

// Unit cube drawn around the camera. Culling is off while drawing, so the
// winding does not matter.
var (
	skyVertices = []float32{
		-1, -1, -1,
		1, -1, -1,
		1, 1, -1,
		-1, 1, -1,
		-1, -1, 1,
		1, -1, 1,
		1, 1, 1,
		-1, 1, 1,
	}
	skyIndices = []uint32{
		1, 2, 6, 1, 6, 5, // +X
		0, 4, 7, 0, 7, 3, // -X
		3, 7, 6, 3, 6, 2, // +Y
		0, 1, 5, 0, 5, 4, // -Y
		4, 5, 6, 4, 6, 7, // +Z
		0, 3, 2, 0, 2, 1, // -Z
	}
)

// Sky is a vertical gradient from the clear color up to a deeper zenith.
type Sky struct {
	shader *render.Shader
	mesh   *render.Mesh
}

func newSky(res *render.Resources) (*Sky, error) {
	shader, err := res.LoadShader("sky", "shaders/sky.vert", "shaders/sky.frag")
	if err != nil {
		return nil, err
	}
	mesh, err := render.NewMesh(skyVertices, skyIndices, render.NewBufferLayout(
		render.BufferElement{Name: "a_position", Type: render.Float3},
	))
	if err != nil {
		return nil, err
	}
	return &Sky{shader: shader, mesh: mesh}, nil
}

// zenithColor darkens the horizon color towards blue.
func zenithColor(horizon mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		horizon[0] * 0.5,
		horizon[1] * 0.65,
		min(horizon[2]*1.3, 1),
	}
}

// draw renders the sky behind everything without writing depth. Call it
// after clearing and before the world.
func (s *Sky) draw(cam *camera.Camera, horizon mgl32.Vec3) {
	gl.DepthMask(false)
	gl.DepthFunc(gl.LEQUAL)
	gl.Disable(gl.CULL_FACE)

	s.shader.Bind()
	s.shader.SetMat4("projection", cam.ProjectionMatrix())
	s.shader.SetMat4("view", cam.ViewMatrix())
	s.shader.SetVec3("horizon", horizon)
	s.shader.SetVec3("zenith", zenithColor(horizon))
	s.mesh.Draw(voxel.Triangles)

	// Restore state expected by the rest of the pipeline
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
}

func (s *Sky) delete() {
	s.mesh.Delete()
}
