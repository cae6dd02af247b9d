package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"voxelgo/config"
)

type cliFlags struct {
	configPath string
	world      string
	generator  string
	seed       int64
	workers    int
	wireframe  bool
	assets     string
	logLevel   string
}

func parseFlags(fs *flag.FlagSet, args []string) (cliFlags, error) {
	var f cliFlags
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&f.world, "world", "", "world size in chunks as x,y,z")
	fs.StringVar(&f.generator, "generator", "", "chunk generator: solid, sphere, terrain or hills")
	fs.Int64Var(&f.seed, "seed", 0, "noise seed")
	fs.IntVar(&f.workers, "workers", 0, "mesh build workers")
	fs.BoolVar(&f.wireframe, "wireframe", false, "start in wireframe mode")
	fs.StringVar(&f.assets, "assets", "", "directory overriding the built-in assets")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	return f, nil
}

// apply copies the flags that were set on the command line over cfg.
func (f cliFlags) apply(fs *flag.FlagSet, cfg *config.Config) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "world":
			cfg.World.Size, err = parseSize(f.world)
		case "generator":
			cfg.World.Generator = f.generator
		case "seed":
			cfg.World.Seed = f.seed
		case "workers":
			cfg.World.Workers = f.workers
		case "wireframe":
			cfg.Render.Wireframe = f.wireframe
		case "assets":
			cfg.Render.AssetsDir = f.assets
		case "log-level":
			cfg.Log.Level = f.logLevel
		}
	})
	if err != nil {
		return err
	}
	return cfg.Validate()
}

func parseSize(s string) ([3]int, error) {
	var size [3]int
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return size, fmt.Errorf("world size %q: want x,y,z", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return size, fmt.Errorf("world size %q: %w", s, err)
		}
		size[i] = n
	}
	return size, nil
}
