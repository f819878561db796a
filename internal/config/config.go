// Package config loads optional TOML-based configuration for lumex.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// ShapeDefaults holds the default size/parameter TOML lets an operator
// override for one of the AddRect/AddFDTD/AddSphere/AddPlane placeholder
// shapes. Zero value means "use the action catalogue's built-in default".
// A [dft_monitor] table is decoded but has no effect: AddDFTMonitor emits
// its constructor with no size argument.
type ShapeDefaults struct {
	SizeX  float64 `toml:"size_x"`
	SizeY  float64 `toml:"size_y"`
	SizeZ  float64 `toml:"size_z"`
	Radius float64 `toml:"radius"` // only meaningful for the Sphere placeholder
}

// Config is the root of a lumex TOML config file. Every field has a
// built-in value (see Default), so an absent config file is equivalent
// to Default(), not an error.
type Config struct {
	// MeepAlias is the name the emitted `import meep as X` binds meep
	// to. Defaults to "mp".
	MeepAlias string `toml:"meep_alias"`

	// WriteRuntime controls whether internal/runtime's Source() is
	// written out as runtime.py alongside the translated script.
	// Defaults to true.
	WriteRuntime bool `toml:"write_runtime"`

	Rect        ShapeDefaults `toml:"rect"`
	FDTD        ShapeDefaults `toml:"fdtd"`
	Sphere      ShapeDefaults `toml:"sphere"`
	Plane       ShapeDefaults `toml:"plane"`
	DFTMonitor  ShapeDefaults `toml:"dft_monitor"`
}

// Default returns the built-in configuration used when no config file is
// present or an operator opts not to supply one.
func Default() Config {
	return Config{
		MeepAlias:    "mp",
		WriteRuntime: true,
	}
}

// Load reads and parses the TOML config file at path, starting from
// Default() so that any field the file omits keeps its built-in value.
// A missing file is not an error; callers that want to distinguish
// "no file" from "load it" should os.Stat before calling Load.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
