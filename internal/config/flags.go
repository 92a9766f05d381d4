package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config
// untouched.
type Flags struct {
	Config    string
	Debug     bool
	LogFile   string
	Source    bool
	MeshName  bool
	LegacyFit bool
	FlipV     bool
	Workers   int
	Preview   string
	TexWidth  int
	TexHeight int
}

// RegisterMeshFlags binds the mesh conversion flags to fs.
func RegisterMeshFlags(fs *flag.FlagSet) *Flags {
	f := registerCommon(fs)
	fs.BoolVar(&f.Source, "c", false, "Output a C header instead of binary")
	fs.BoolVar(&f.MeshName, "m", false, "Append mesh name to output file name")
	fs.BoolVar(&f.LegacyFit, "legacy-fit", false, "Pack exactly like the original mconv64")
	fs.BoolVar(&f.FlipV, "flip-v", false, "Flip texture coordinates vertically")
	fs.IntVar(&f.Workers, "workers", 0, "Meshes converted in parallel (0 = config or CPU count)")
	return f
}

// RegisterTextureFlags binds the texture conversion flags to fs.
func RegisterTextureFlags(fs *flag.FlagSet) *Flags {
	f := registerCommon(fs)
	fs.StringVar(&f.Preview, "preview", "", "Also write a WebP preview to this path")
	fs.IntVar(&f.TexWidth, "width", 0, "Resize to this width")
	fs.IntVar(&f.TexHeight, "height", 0, "Resize to this height")
	return f
}

func registerCommon(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log", "", "Also log to this file")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Source {
		cfg.Output.Format = FormatSource
	}
	if f.MeshName {
		cfg.Output.AppendMeshName = true
	}
	if f.LegacyFit {
		cfg.Packer.Fit = "legacy"
	}
	if f.FlipV {
		cfg.Import.FlipV = true
	}
	if f.Workers > 0 {
		cfg.Workers = f.Workers
	}
	if f.Preview != "" {
		cfg.Texture.Preview = f.Preview
	}
	if f.TexWidth > 0 {
		cfg.Texture.Width = f.TexWidth
	}
	if f.TexHeight > 0 {
		cfg.Texture.Height = f.TexHeight
	}
}
