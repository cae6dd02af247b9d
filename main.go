package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"voxelgo/camera"
	"voxelgo/config"
	"voxelgo/physics"
	"voxelgo/render"
	"voxelgo/voxel"
)

const atlasName = "atlas"

type viewer struct {
	cfg *config.Config
	log *slog.Logger

	res         *render.Resources
	chunkShader *render.Shader
	gen         voxel.Generator
	world       *voxel.World
	cam         *camera.Camera
	physics     *physics.Engine
	block       *Block
	lamp        *Block
	lights      []LightSource
	sky         *Sky
	overlay     *overlay

	panel *panel
	mouse mouse
	fps   fpsCounter
}

func initOpenGL() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init opengl: %w", err)
	}
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return nil
}

func setupWindow(cfg config.WindowConfig) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	if cfg.Vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

func assetFS(dir string) fs.FS {
	if dir == "" {
		return render.Assets()
	}
	return render.Layered{os.DirFS(dir), render.Assets()}
}

func newViewer(cfg *config.Config, log *slog.Logger, window *glfw.Window) (*viewer, error) {
	v := &viewer{
		cfg:   cfg,
		log:   log,
		res:   render.NewResources(assetFS(cfg.Render.AssetsDir), log),
		panel: newPanel(cfg),
		mouse: mouse{first: true},
	}

	var err error
	if v.chunkShader, err = v.res.LoadShader("chunk", "shaders/chunk.vert", "shaders/chunk.frag"); err != nil {
		return nil, err
	}
	v.chunkShader.Bind()
	v.chunkShader.SetInt("atlas", 0)
	v.chunkShader.SetVec3("tint", white)

	_, err = v.res.LoadTexture(atlasName, cfg.Render.Atlas, render.TextureOptions{Pixelated: true, Clamp: true})
	var nf *render.NotFoundError
	switch {
	case errors.As(err, &nf):
		log.Warn("atlas missing, using generated tiles", "path", cfg.Render.Atlas)
		img := render.FlipVertical(render.GenerateAtlas(16))
		v.res.AddTexture(atlasName, render.NewTexture2D(img, render.TextureOptions{Pixelated: true, Clamp: true}))
	case err != nil:
		return nil, err
	}

	if v.sky, err = newSky(v.res); err != nil {
		return nil, err
	}
	fbw, fbh := window.GetFramebufferSize()
	if v.overlay, err = newOverlay(v.res, fbw, fbh); err != nil {
		return nil, err
	}
	if v.block, err = newBlock(render.MeshUploader{}, voxel.Wood); err != nil {
		return nil, err
	}
	if v.lamp, err = newBlock(render.MeshUploader{}, voxel.Sand); err != nil {
		return nil, err
	}
	v.lights = lightSources(cfg.Render.Lights)

	mode := camera.Orthographic
	if cfg.Camera.Perspective {
		mode = camera.Perspective
	}
	v.cam = camera.New(camera.Options{
		Position: mgl32.Vec3(cfg.Camera.Position),
		Rotation: mgl32.Vec3(cfg.Camera.Rotation),
		Mode:     mode,
		FOV:      cfg.Camera.FOV,
		Aspect:   float32(fbw) / float32(max(fbh, 1)),
		Near:     cfg.Camera.Near,
		Far:      cfg.Camera.Far,
	})

	if v.gen, err = voxel.NewGenerator(cfg.World.Generator, cfg.World.Seed, cfg.World.BlockID); err != nil {
		return nil, err
	}
	if v.world, err = v.buildWorld(v.panel.worldSize); err != nil {
		return nil, err
	}

	v.physics = physics.NewEngine(v.world, physics.Options{Gravity: cfg.Physics.Gravity, Logger: log})
	for _, b := range cfg.Physics.Bodies {
		motion := physics.Static
		if b.Dynamic {
			motion = physics.Dynamic
		}
		v.physics.AddBody(physics.BodySettings{
			Position: mgl32.Vec3(b.Position),
			Size:     mgl32.Vec3(b.Size),
			Motion:   motion,
		})
	}

	window.SetKeyCallback(v.keyCallback)
	window.SetCursorPosCallback(v.cursorCallback)
	window.SetMouseButtonCallback(v.mouseButtonCallback)
	window.SetFramebufferSizeCallback(v.onResize)
	return v, nil
}

func lightSources(cfg []config.LightConfig) []LightSource {
	lights := make([]LightSource, len(cfg))
	for i, l := range cfg {
		lights[i] = LightSource{Position: mgl32.Vec3(l.Position), Color: mgl32.Vec3(l.Color)}
	}
	return lights
}

func (v *viewer) buildWorld(size voxel.Coord) (*voxel.World, error) {
	return voxel.NewWorld(size, voxel.WorldOptions{
		AtlasName: atlasName,
		Generator: v.gen,
		Uploader:  render.MeshUploader{},
		Textures:  v.res,
		Workers:   v.cfg.World.Workers,
		Logger:    v.log,
	})
}

// rebuildWorld swaps in a freshly built world. The old world stays in place
// when the build fails.
func (v *viewer) rebuildWorld(size voxel.Coord) error {
	w, err := v.buildWorld(size)
	if err != nil {
		return err
	}
	v.world.Close()
	v.world = w
	v.physics.SetTerrain(w)
	return nil
}

func (v *viewer) onResize(window *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	if height > 0 {
		v.cam.SetAspect(float32(width) / float32(height))
	}
	v.overlay.resize(width, height)
}

func (v *viewer) applyFrame(frame frameConfig) {
	if frame.perspective {
		v.cam.SetProjectionMode(camera.Perspective)
	} else {
		v.cam.SetProjectionMode(camera.Orthographic)
	}
	v.cam.SetFOV(frame.fov)
}

func (v *viewer) draw(frame frameConfig) error {
	c := frame.clearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	v.sky.draw(v.cam, c.Vec3())

	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
	if err := v.world.Draw(v.chunkShader, v.cam, frame.render); err != nil {
		return err
	}
	for _, id := range v.physics.Bodies() {
		if pose, ok := v.physics.Pose(id); ok {
			v.block.draw(v.chunkShader, pose, frame.render)
		}
	}
	for _, l := range v.lights {
		v.lamp.drawLight(v.chunkShader, l, frame.render)
	}

	if frame.overlay {
		v.overlay.draw()
	}
	return nil
}

func (v *viewer) debugLines(frame frameConfig) []string {
	st := v.world.Stats()
	pos := v.cam.Position()
	rot := v.cam.Rotation()
	round := func(f float32) string {
		return strconv.FormatFloat(mgl64.Round(float64(f), 1), 'f', -1, 32)
	}
	return []string{
		v.fps.String(),
		"Position: " + round(pos[0]) + ", " + round(pos[1]) + ", " + round(pos[2]),
		"Rotation: " + round(rot[0]) + ", " + round(rot[1]),
		fmt.Sprintf("World: %dx%dx%d chunks, %d faces", frame.worldSize.X, frame.worldSize.Y, frame.worldSize.Z, st.Faces),
		fmt.Sprintf("Dirty: %d  Bodies: %d", st.Dirty, len(v.physics.Bodies())),
		fmt.Sprintf("Wireframe: %v  Projection: %s  FOV: %v", frame.render.Wireframe, v.cam.Mode(), frame.fov),
	}
}

func (v *viewer) loop(window *glfw.Window) error {
	previous := time.Now()
	for !window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(previous).Seconds())
		previous = now

		glfw.PollEvents()
		frame := v.panel.snapshot()
		if v.panel.takeRebuild() {
			if err := v.rebuildWorld(frame.worldSize); err != nil {
				v.log.Error("world rebuild failed", "error", err)
			}
		}

		v.movement(window, dt)
		v.applyFrame(frame)
		v.physics.Step(dt)
		if _, err := v.world.Remesh(v.cfg.World.RemeshBudget); err != nil {
			return err
		}

		if v.fps.tick(now) && frame.overlay {
			if err := v.overlay.setLines(v.debugLines(frame)); err != nil {
				v.log.Warn("overlay text", "error", err)
			}
		}
		if err := v.draw(frame); err != nil {
			return err
		}
		window.SwapBuffers()
	}
	return nil
}

func (v *viewer) close() {
	if v.world != nil {
		v.world.Close()
	}
	if v.block != nil {
		v.block.delete()
	}
	if v.lamp != nil {
		v.lamp.delete()
	}
	if v.sky != nil {
		v.sky.delete()
	}
	if v.overlay != nil {
		v.overlay.delete()
	}
	v.res.Close()
}

func run(cfg *config.Config, log *slog.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()
	if err := initOpenGL(); err != nil {
		return err
	}
	log.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	v, err := newViewer(cfg, log, window)
	if v != nil {
		defer v.close()
	}
	if err != nil {
		return err
	}
	return v.loop(window)
}

func loadConfig(args []string) (*config.Config, error) {
	fset := flag.NewFlagSet("voxelgo", flag.ContinueOnError)
	flags, err := parseFlags(fset, args)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if err := flags.apply(fset, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func main() {
	runtime.LockOSThread()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	leveled, err := newLogger(os.Stdout, cfg.Log)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log = leveled

	if err := run(cfg, log); err != nil {
		log.Error("viewer stopped", "error", err)
		os.Exit(1)
	}
}
