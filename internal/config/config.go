// Package config handles mc64 tool configuration loading and management.
package config

import (
	"fmt"
	"runtime"

	"github.com/Faultbox/mc64/pkg/mesh"
)

// Output formats.
const (
	FormatBinary = "binary"
	FormatSource = "source"
)

// Config holds all converter settings.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Packer  PackerConfig  `yaml:"packer"`
	Import  ImportConfig  `yaml:"import"`
	Texture TextureConfig `yaml:"texture"`
	Workers int           `yaml:"workers"` // Meshes converted in parallel; 0 = one per CPU
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls where and how converted meshes are written.
type OutputConfig struct {
	Format         string `yaml:"format"`           // binary (.mc64) or source (C header)
	AppendMeshName bool   `yaml:"append_mesh_name"` // Output path is a prefix completed by the mesh name
}

// PackerConfig controls batch packing.
type PackerConfig struct {
	Fit string `yaml:"fit"` // exact or legacy
}

// ImportConfig controls model import.
type ImportConfig struct {
	FlipV bool `yaml:"flip_v"`
}

// TextureConfig controls texture conversion.
type TextureConfig struct {
	// Width and Height resize the image before conversion when both are set.
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Preview string `yaml:"preview"` // WebP preview path
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:         FormatBinary,
			AppendMeshName: false,
		},
		Packer: PackerConfig{
			Fit: mesh.FitExact.String(),
		},
		Workers: 0,
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatBinary, FormatSource:
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	if _, ok := mesh.ParseFit(c.Packer.Fit); !ok {
		return fmt.Errorf("packer.fit: unknown fit %q", c.Packer.Fit)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers: must not be negative, got %d", c.Workers)
	}
	if (c.Texture.Width > 0) != (c.Texture.Height > 0) {
		return fmt.Errorf("texture: width and height must be set together")
	}
	return nil
}

// Fit returns the packer fit mode. Call Validate first.
func (c *Config) Fit() mesh.Fit {
	fit, _ := mesh.ParseFit(c.Packer.Fit)
	return fit
}

// WorkerCount resolves Workers to a positive count.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
