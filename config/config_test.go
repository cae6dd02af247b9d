package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voxelgo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, [3]int{1, 1, 3}, cfg.World.Size)
	assert.Equal(t, float32(120), cfg.Camera.FOV)
	assert.Equal(t, [4]float32{0.45, 0.55, 0.60, 1.00}, cfg.Render.ClearColor)
	assert.False(t, cfg.Render.Wireframe)
	assert.True(t, cfg.Camera.Perspective)
}

func TestLoadNoPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
world:
  size: [4, 2, 4]
  generator: terrain
  seed: 99
render:
  wireframe: true
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, [3]int{4, 2, 4}, cfg.World.Size)
	assert.Equal(t, "terrain", cfg.World.Generator)
	assert.Equal(t, int64(99), cfg.World.Seed)
	assert.True(t, cfg.Render.Wireframe)
	assert.Equal(t, 1600, cfg.Window.Width, "untouched sections keep defaults")
	assert.Equal(t, 4, cfg.World.RemeshBudget)
}

func TestLoadLights(t *testing.T) {
	path := writeConfig(t, `
render:
  lights:
    - position: [1, 2, 3]
      color: [1, 0, 0]
    - position: [4, 5, 6]
      color: [0, 0, 1]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Render.Lights, 2)
	assert.Equal(t, [3]float32{4, 5, 6}, cfg.Render.Lights[1].Position)
	assert.Equal(t, [3]float32{1, 0, 0}, cfg.Render.Lights[0].Color)
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "window:\n  title: from-env\n")
	t.Setenv(EnvPath, path)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Window.Title)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "world: [not, a, map"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "world:\n  size: [0, 1, 1]\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"window", func(c *Config) { c.Window.Width = 0 }},
		{"world size", func(c *Config) { c.World.Size[2] = -3 }},
		{"generator", func(c *Config) { c.World.Generator = "caves" }},
		{"budget", func(c *Config) { c.World.RemeshBudget = 0 }},
		{"clip", func(c *Config) { c.Camera.Far = c.Camera.Near }},
		{"level", func(c *Config) { c.Log.Level = "loud" }},
		{"light color", func(c *Config) { c.Render.Lights[0].Color[1] = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}
