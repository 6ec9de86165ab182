package renderer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   Tile
	TaskID int // Position in submission order
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Tile   Tile
	Stats  RenderStats
}

// workerPool renders tiles in parallel. Workers share one tileRenderer; each
// tile covers disjoint pixels so no locking is needed around the sink.
type workerPool struct {
	renderer   *tileRenderer
	numWorkers int
}

// newWorkerPool creates a pool with numWorkers goroutines (minimum 1)
func newWorkerPool(renderer *tileRenderer, numWorkers int) *workerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &workerPool{renderer: renderer, numWorkers: numWorkers}
}

// NumWorkers returns the number of workers in the pool
func (wp *workerPool) NumWorkers() int {
	return wp.numWorkers
}

// run renders every tile and calls onResult once per finished tile. onResult
// is invoked from a single goroutine, in completion order. Run returns
// ctx.Err() if the context is canceled before all tiles finish.
func (wp *workerPool) run(ctx context.Context, tiles []Tile, onResult func(TileResult)) error {
	g, gctx := errgroup.WithContext(ctx)

	taskQueue := make(chan TileTask)
	resultQueue := make(chan TileResult, wp.numWorkers)

	// Producer
	g.Go(func() error {
		defer close(taskQueue)
		for i, tile := range tiles {
			select {
			case taskQueue <- TileTask{Tile: tile, TaskID: i}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// Workers
	workers, _ := errgroup.WithContext(gctx)
	for i := 0; i < wp.numWorkers; i++ {
		workers.Go(func() error {
			for task := range taskQueue {
				if err := gctx.Err(); err != nil {
					return err
				}
				result := TileResult{
					TaskID: task.TaskID,
					Tile:   task.Tile,
					Stats:  wp.renderer.renderTile(task.Tile),
				}
				select {
				case resultQueue <- result:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(resultQueue)
		return workers.Wait()
	})

	// Results are dispatched on the calling goroutine
	for result := range resultQueue {
		if onResult != nil {
			onResult(result)
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
