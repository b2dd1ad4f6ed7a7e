// Package pipeline schedules lazily-fused vector operations. Stages
// added to a pipeline share one domain; execution partitions that domain
// into cache-sized tiles, runs every stage over a tile while it is hot,
// and only then merges all tiles back into the shared coordinate index
// with a single prefix-sum commit. Intermediate results are never
// materialized across the whole domain.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/hupe1980/sparsego"
	"github.com/hupe1980/sparsego/coords"
	"github.com/hupe1980/sparsego/internal/parallel"
	"github.com/hupe1980/sparsego/sizing"
)

// ErrIncomplete is returned when not every tile of the domain executed,
// for example because the context was canceled mid-stage.
var ErrIncomplete = errors.New("pipeline: not all tiles executed")

// Stage is one fused operation. It receives a tile view whose presence
// bits alias the shared index and whose positions are local to
// [lower, upper); mutating the view records insertions for the tile
// without touching the shared stack. Stages run concurrently on disjoint
// tiles and must confine themselves to their tile's range.
type Stage func(ctx context.Context, view *coords.Coordinates, lower, upper int) error

// Pipeline accumulates stages over one shared domain.
type Pipeline struct {
	coords       *coords.Coordinates
	elementBytes int
	stages       []Stage
	opts         options

	progress rate.Sometimes
}

// New creates a pipeline over the given coordinate index. elementBytes
// is the per-position working set of one fused pass, the sizing input
// that keeps a tile cache-resident.
func New(c *coords.Coordinates, elementBytes int, optFns ...Option) *Pipeline {
	opts := options{
		logger:     sparsego.NoopLogger(),
		maxWorkers: 0, // sizing picks GOMAXPROCS
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Pipeline{
		coords:       c,
		elementBytes: elementBytes,
		opts:         opts,
		progress:     rate.Sometimes{First: 3, Interval: time.Second},
	}
}

// Add appends a stage and returns the pipeline for chaining.
func (p *Pipeline) Add(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// Len returns the number of accumulated stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// Execute runs all accumulated stages tile by tile and commits the
// result. Tiles are dispatched to a bounded pool of workers; the commit
// runs only after every tile has closed (the merge barrier). The stage
// list is kept, so a pipeline may be executed again on new data.
func (p *Pipeline) Execute(ctx context.Context) error {
	n := p.coords.Size()
	if n == 0 || len(p.stages) == 0 {
		return nil
	}

	m := sizing.New(p.elementBytes, n, p.opts.maxWorkers)
	if err := p.coords.InitTiles(m); err != nil {
		p.opts.logger.LogExecute(ctx, len(p.stages), m.NumTiles(), err)
		return fmt.Errorf("pipeline: %w", err)
	}
	numTiles := m.NumTiles()

	var (
		mu    sync.Mutex
		done  = bitset.New(uint(numTiles))
		tiles = make([]*coords.Tile, numTiles)
	)

	sem := semaphore.NewWeighted(int64(m.NumThreads()))
	g, gctx := errgroup.WithContext(ctx)
	for id := range numTiles {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			lower := id * m.TileSize()
			upper := min(lower+m.TileSize(), n)

			t := p.coords.OpenTile(lower, upper)
			view := t.View()
			for _, stage := range p.stages {
				if err := stage(gctx, view, lower, upper); err != nil {
					return fmt.Errorf("pipeline: tile [%d,%d): %w", lower, upper, err)
				}
			}
			t.Close(view)

			mu.Lock()
			tiles[id] = t
			done.Set(uint(id))
			mu.Unlock()

			p.progress.Do(func() {
				p.opts.logger.DebugContext(gctx, "tile executed",
					"tile", id,
					"nonzeroes", view.Nonzeroes(),
				)
			})
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	p.opts.logger.LogExecute(ctx, len(p.stages), numTiles, err)
	if err != nil {
		return err
	}
	if !done.All() {
		return ErrIncomplete
	}

	if !p.coords.HasNewNonzeroes() {
		return nil
	}
	p.coords.ComputeGlobalOffsets()
	parallel.Range(numTiles, m.NumThreads(), func(_, lower, upper int) {
		for id := lower; id < upper; id++ {
			tiles[id].Commit()
		}
	})
	p.opts.logger.LogCommit(ctx, numTiles, p.coords.Nonzeroes())
	return nil
}
