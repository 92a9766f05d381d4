// Package convert runs the mesh conversion pipeline: import, pack, encode
// and serialize every mesh of one input file.
package convert

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/mc64/internal/config"
	"github.com/Faultbox/mc64/internal/importer"
	"github.com/Faultbox/mc64/internal/logger"
	"github.com/Faultbox/mc64/pkg/mc64"
	"github.com/Faultbox/mc64/pkg/mesh"
)

// ErrConversionFailed is returned by Run when at least one mesh failed.
var ErrConversionFailed = errors.New("conversion failed")

// Result holds the outcome of converting one mesh.
type Result struct {
	Name      string
	Path      string
	Vertices  int
	Triangles int
	Batches   int
	Commands  int
	Err       error
}

// Run converts every mesh in input and writes it to output. When
// cfg.Output.AppendMeshName is set, output is a prefix completed by each
// mesh name. Results are returned in import order; the error is non-nil if
// the import failed or any mesh failed.
func Run(cfg *config.Config, input, output string) ([]Result, error) {
	log := logger.Named("convert").With(
		zap.String("run", newRunID()),
		zap.String("input", input),
	)
	start := time.Now()

	sources, err := importer.Load(input, importer.Options{FlipV: cfg.Import.FlipV})
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", input, err)
	}
	log.Info("imported", zap.Int("meshes", len(sources)))

	for _, g := range outputGroups(sources, output, cfg.Output.AppendMeshName) {
		if len(g) > 1 {
			log.Warn("several meshes share one output path; the last one wins",
				zap.String("output", OutputPath(output, mesh.Name(sources[g[0]].Name), cfg.Output.AppendMeshName)),
				zap.Int("meshes", len(g)))
		}
	}

	results := Meshes(sources, cfg, output, cfg.WorkerCount())

	failed := 0
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			failed++
			log.Error("mesh failed", zap.String("mesh", r.Name), zap.Error(r.Err))
			continue
		}
		log.Debug("mesh written",
			zap.String("mesh", r.Name),
			zap.String("path", r.Path),
			zap.Int("vertices", r.Vertices),
			zap.Int("triangles", r.Triangles),
			zap.Int("batches", r.Batches),
			zap.Int("commands", r.Commands),
		)
	}

	log.Info("done",
		zap.Int("meshes", len(results)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
	)

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d meshes", ErrConversionFailed, failed, len(results))
	}
	return results, nil
}

// Meshes converts sources on a pool of workers and returns one Result per
// source, in the same order. Meshes written to the same path are handled
// by one worker in source order, so the last of them wins.
func Meshes(sources []*mesh.Source, cfg *config.Config, output string, workers int) []Result {
	results := make([]Result, len(sources))
	if len(sources) == 0 {
		return results
	}

	groups := outputGroups(sources, output, cfg.Output.AppendMeshName)
	if workers < 1 {
		workers = 1
	}
	if workers > len(groups) {
		workers = len(groups)
	}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range jobs {
				for _, idx := range groups[g] {
					results[idx] = convertMesh(sources[idx], cfg, output)
				}
			}
		}()
	}

	for g := range groups {
		jobs <- g
	}
	close(jobs)

	wg.Wait()
	return results
}

func convertMesh(src *mesh.Source, cfg *config.Config, output string) Result {
	m, err := mesh.Build(src, mesh.Options{Fit: cfg.Fit()})
	if err != nil {
		return Result{Name: src.Name, Err: fmt.Errorf("building mesh %q: %w", src.Name, err)}
	}

	path := OutputPath(output, m.Name, cfg.Output.AppendMeshName)
	res := Result{
		Name:      m.Name,
		Path:      path,
		Vertices:  len(m.Vertices),
		Triangles: m.TriangleCount(),
		Batches:   len(m.Batches),
		Commands:  m.BlockCount() + m.TriangleCount() + 1, // loads, draws, finalize
	}

	switch cfg.Output.Format {
	case config.FormatSource:
		err = mc64.SaveSource(m, path)
	default:
		err = mc64.SaveBinary(m, path)
	}
	if err != nil {
		res.Err = err
	}
	return res
}

// outputGroups partitions source indices by output path. Groups are
// ordered by first appearance and hold indices in source order.
func outputGroups(sources []*mesh.Source, output string, appendName bool) [][]int {
	var groups [][]int
	byPath := make(map[string]int)
	for i, src := range sources {
		path := OutputPath(output, mesh.Name(src.Name), appendName)
		g, ok := byPath[path]
		if !ok {
			g = len(groups)
			byPath[path] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// OutputPath returns the file a mesh is written to.
func OutputPath(output, meshName string, appendName bool) string {
	if appendName {
		return output + meshName
	}
	return output
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
