// mc64tool converts meshes and textures into formats the N64 ugfx
// microcode consumes directly.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/mc64/internal/config"
	"github.com/Faultbox/mc64/internal/convert"
	"github.com/Faultbox/mc64/internal/logger"
	"github.com/Faultbox/mc64/pkg/mc64"
	"github.com/Faultbox/mc64/pkg/mesh"
	"github.com/Faultbox/mc64/pkg/texture"
	"github.com/Faultbox/mc64/pkg/ugfx"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "mesh", "m":
		cmdMesh(args)
	case "texture", "tex", "t":
		cmdTexture(args)
	case "info":
		cmdInfo(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mc64tool - N64 ugfx mesh and texture converter

Usage:
  mc64tool <command> [options]

Commands:
  mesh <model> -o <output>           Convert a glTF/GLB/OBJ model to MC64 or a C header
  texture <image> -o <output>        Convert an image to raw RGBA32 pixels
  info <file.mc64>                   Show MC64 file statistics

Mesh options:
  -c              Output a C header instead of binary
  -m              Append mesh name to output file name
  -legacy-fit     Pack exactly like the original mconv64
  -flip-v         Flip texture coordinates vertically
  -workers N      Meshes converted in parallel

Common options:
  -config PATH    Config file (default ./mc64.yaml or user config dir)
  -debug          Enable debug logging
  -log PATH       Also log to a rotating file

Examples:
  mc64tool mesh ship.glb -o ship.mc64
  mc64tool mesh level.obj -c -m -o include/
  mc64tool texture wood.png -o wood.rgba -width 32 -height 32 -preview wood.webp
  mc64tool info ship.mc64 -v`)
}

func cmdMesh(args []string) {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	output := fs.String("o", "", "Output file name")
	flags := config.RegisterMeshFlags(fs)
	inputs := parseArgs(fs, args)

	if len(inputs) != 1 || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: mc64tool mesh [options] <model> -o <output>")
		os.Exit(1)
	}

	cfg := setup(flags)
	defer logger.Sync()

	results, err := convert.Run(cfg, inputs[0], *output)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "  %-20s FAILED: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Printf("  %-20s %6d vertices %6d triangles %4d batches -> %s\n",
			r.Name, r.Vertices, r.Triangles, r.Batches, r.Path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func cmdTexture(args []string) {
	fs := flag.NewFlagSet("texture", flag.ExitOnError)
	output := fs.String("o", "", "Output file name")
	flags := config.RegisterTextureFlags(fs)
	inputs := parseArgs(fs, args)

	if len(inputs) != 1 || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: mc64tool texture [options] <image> -o <output>")
		os.Exit(1)
	}

	cfg := setup(flags)
	defer logger.Sync()

	log := logger.Named("texture").With(zap.String("input", inputs[0]))

	img, err := texture.Load(inputs[0])
	if err != nil {
		fatal(err)
	}
	b := img.Bounds()
	log.Debug("decoded", zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))

	if cfg.Texture.Width > 0 {
		img = texture.Resize(img, cfg.Texture.Width, cfg.Texture.Height)
		log.Info("resized", zap.Int("width", cfg.Texture.Width), zap.Int("height", cfg.Texture.Height))
	}

	if err := texture.Save(img, *output); err != nil {
		fatal(err)
	}
	b = img.Bounds()
	fmt.Printf("%s: %dx%d, %d bytes\n", *output, b.Dx(), b.Dy(), b.Dx()*b.Dy()*texture.BytesPerPixel)

	if cfg.Texture.Preview != "" {
		if err := texture.SavePreview(img, cfg.Texture.Preview); err != nil {
			fatal(err)
		}
		log.Info("preview written", zap.String("path", cfg.Texture.Preview))
	}
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Dump vertices and commands")
	inputs := parseArgs(fs, args)

	if len(inputs) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: mc64tool info [-v] <file.mc64>")
		os.Exit(1)
	}

	f, err := mc64.ParseFile(inputs[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stats := ugfx.Analyze(f.Commands)

	fmt.Printf("File:      %s\n", inputs[0])
	fmt.Printf("Version:   %d\n", f.Version)
	fmt.Printf("Vertices:  %d (%d bytes)\n", len(f.Vertices), len(f.Vertices)*mesh.VertexSize)
	fmt.Printf("Commands:  %d\n", len(f.Commands))
	fmt.Println()
	fmt.Printf("Batches:   %d\n", stats.Batches)
	fmt.Printf("Loads:     %d (%d vertices)\n", stats.Loads, stats.VerticesLoaded)
	fmt.Printf("Triangles: %d\n", stats.Draws)
	if stats.Draws > 0 {
		fmt.Printf("Loaded per triangle: %.2f\n", float64(stats.VerticesLoaded)/float64(stats.Draws))
	}
	if stats.Finalizes != 1 {
		fmt.Printf("Warning: %d finalize commands\n", stats.Finalizes)
	}
	if stats.Unknown > 0 {
		fmt.Printf("Warning: %d unknown commands\n", stats.Unknown)
	}

	if !*verbose {
		return
	}

	fmt.Println()
	fmt.Println("Vertices:")
	for i, v := range f.Vertices {
		fmt.Printf("  %5d  pos(%6d, %6d, %6d)  tex(%6d, %6d)  attr %02x %02x %02x %02x\n",
			i, v.X, v.Y, v.Z, v.S, v.T, v.Attr[0], v.Attr[1], v.Attr[2], v.Attr[3])
	}
	fmt.Println()
	fmt.Println("Commands:")
	for i, c := range f.Commands {
		fmt.Printf("  %5d  %016X  %s\n", i, uint64(c), c)
	}
}

// setup loads the config and initializes logging, exiting on failure.
func setup(flags *config.Flags) *config.Config {
	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing logger: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// parseArgs parses fs and returns the positional arguments, allowing flags
// before and after them.
func parseArgs(fs *flag.FlagSet, args []string) []string {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			os.Exit(1)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func fatal(err error) {
	logger.Error("texture conversion failed", zap.Error(err))
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	logger.Sync()
	os.Exit(1)
}
