// Package driverconfig parses the TOML configuration file the bvh-driver
// CLI reads defaults from, following the package-level parsed-struct plus
// Load(path) pattern of janelia-flyem-dvid/server/config.go.
package driverconfig

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// CloudConfig describes the default point clouds the driver generates when
// the caller doesn't override them with flags. NX/NY/NZ size the structured
// grid the hierarchy is always built over; N independently sizes the random
// batch of query points run against that hierarchy (spec.md §6's --N,
// default 100) — it has no bearing on how the hierarchy itself is built.
type CloudConfig struct {
	NX int `toml:"nx"`
	NY int `toml:"ny"`
	NZ int `toml:"nz"`
	N  int `toml:"n"`
}

// QueryConfig describes the default query the driver runs. Radius and K are
// fixed per-run overrides; zero or negative falls back to drawing a fresh
// random value for every query the way original_source/examples/bvh_driver/
// bvh_driver.cpp's default behavior does.
type QueryConfig struct {
	Mode   string  `toml:"mode"`
	Radius float64 `toml:"radius"`
	K      int     `toml:"k"`
}

// Config is the parsed shape of a bvhdriver.toml file.
type Config struct {
	Cloud   CloudConfig `toml:"cloud"`
	Query   QueryConfig `toml:"query"`
	Backend string      `toml:"backend"`
}

// Default returns the configuration the driver uses when no config file is
// supplied, so it runs with zero configuration.
func Default() Config {
	return Config{
		Cloud:   CloudConfig{NX: 11, NY: 11, NZ: 11, N: 100},
		Query:   QueryConfig{Mode: "radius", Radius: 0, K: 0},
		Backend: "serial",
	}
}

// Load reads and parses a TOML configuration file, starting from Default()
// so a file only needs to override the settings it cares about.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("driverconfig: %w", err)
	}
	return cfg, nil
}
