// Package config holds the viewer settings. Defaults are compiled in and can
// be overridden from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPath names the variable consulted when Load is given no path.
const EnvPath = "VOXELGO_CONFIG"

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Window  WindowConfig  `yaml:"window"`
	World   WorldConfig   `yaml:"world"`
	Camera  CameraConfig  `yaml:"camera"`
	Render  RenderConfig  `yaml:"render"`
	Physics PhysicsConfig `yaml:"physics"`
	Log     LogConfig     `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	Vsync  bool   `yaml:"vsync"`
}

type WorldConfig struct {
	// Size is the world extent in chunks, x y z.
	Size      [3]int `yaml:"size"`
	Generator string `yaml:"generator"`
	Seed      int64  `yaml:"seed"`
	BlockID   uint16 `yaml:"block_id"`
	Workers   int    `yaml:"workers"`
	// RemeshBudget caps how many edited chunks are rebuilt per frame.
	RemeshBudget int `yaml:"remesh_budget"`
}

type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Rotation    [3]float32 `yaml:"rotation"`
	FOV         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Speed       float32    `yaml:"speed"`
	// Sensitivity is degrees turned per pixel of mouse movement, x then y.
	Sensitivity [2]float32 `yaml:"sensitivity"`
	Perspective bool       `yaml:"perspective"`
}

type RenderConfig struct {
	ClearColor [4]float32 `yaml:"clear_color"`
	Wireframe  bool       `yaml:"wireframe"`
	// AssetsDir is searched for shaders, the atlas and fonts. Empty uses
	// the built-in assets.
	AssetsDir string `yaml:"assets_dir"`
	Atlas     string `yaml:"atlas"`
	Overlay   bool   `yaml:"overlay"`
	// Lights are colored marker cubes placed in the world.
	Lights []LightConfig `yaml:"lights"`
}

type LightConfig struct {
	Position [3]float32 `yaml:"position"`
	Color    [3]float32 `yaml:"color"`
}

type PhysicsConfig struct {
	Gravity float32      `yaml:"gravity"`
	Bodies  []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Position [3]float32 `yaml:"position"`
	Size     [3]float32 `yaml:"size"`
	Dynamic  bool       `yaml:"dynamic"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the settings the viewer starts with when nothing is
// configured.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1600,
			Height: 900,
			Title:  "voxelgo",
			Vsync:  true,
		},
		World: WorldConfig{
			Size:         [3]int{1, 1, 3},
			Generator:    "solid",
			Seed:         1,
			BlockID:      1,
			Workers:      1,
			RemeshBudget: 4,
		},
		Camera: CameraConfig{
			Position:    [3]float32{8, 24, 64},
			FOV:         120,
			Near:        0.1,
			Far:         1000,
			Speed:       20,
			Sensitivity: [2]float32{0.15, 0.15},
			Perspective: true,
		},
		Render: RenderConfig{
			ClearColor: [4]float32{0.45, 0.55, 0.60, 1.00},
			Atlas:      "textures/atlas.png",
			Overlay:    true,
			Lights: []LightConfig{
				{Position: [3]float32{8, 20, 8}, Color: [3]float32{1, 0.9, 0.6}},
			},
		},
		Physics: PhysicsConfig{
			Gravity: -9.81,
			Bodies: []BodyConfig{
				{Position: [3]float32{8, 40, 8}, Size: [3]float32{1, 1, 1}, Dynamic: true},
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path falls back to the
// VOXELGO_CONFIG environment variable, and to plain defaults when that is
// unset too.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var generators = map[string]bool{"solid": true, "sphere": true, "terrain": true, "hills": true}

func (c *Config) Validate() error {
	var problems []string
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window size %dx%d", c.Window.Width, c.Window.Height))
	}
	for i, n := range c.World.Size {
		if n <= 0 {
			problems = append(problems, fmt.Sprintf("world size[%d] = %d", i, n))
		}
	}
	if !generators[c.World.Generator] {
		problems = append(problems, fmt.Sprintf("unknown generator %q", c.World.Generator))
	}
	if c.World.RemeshBudget < 1 {
		problems = append(problems, "remesh_budget must be at least 1")
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		problems = append(problems, fmt.Sprintf("clip range %v..%v", c.Camera.Near, c.Camera.Far))
	}
	for i, l := range c.Render.Lights {
		for _, ch := range l.Color {
			if ch < 0 || ch > 1 {
				problems = append(problems, fmt.Sprintf("light %d color %v outside 0..1", i, l.Color))
				break
			}
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q", name)
	}
	return lvl, nil
}
