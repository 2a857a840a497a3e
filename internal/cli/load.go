package cli

import (
	"context"
	"fmt"

	"github.com/matzehuels/antroute/pkg/cache"
	"github.com/matzehuels/antroute/pkg/graph"
	"github.com/matzehuels/antroute/pkg/task"
)

// loadTask reads and validates the task file at path.
func loadTask(ctx context.Context, path string) (*task.Task, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	t, err := task.Load(path)
	if err != nil {
		return nil, err
	}
	prog.done("task loaded", "path", path, "nodes", len(t.Nodes), "walls", len(t.Walls), "circles", len(t.Circles))
	return t, nil
}

// graphKey identifies the visibility graph of t. Only the geometry takes
// part, so tasks differing in name or parameters share an entry.
func graphKey(t *task.Task) string {
	return cache.Key("graph", t.Nodes, t.Walls, t.Circles, t.MaxDist)
}

// buildGraph returns the graph of t with every edge at pheromone level phi.
// Graphs joined by visibility are looked up in c first and stored there
// after being built; tasks listing their edges are always built directly.
// The second result reports a cache hit.
func buildGraph(ctx context.Context, t *task.Task, phi float64, c cache.Cache) (*graph.Graph, bool, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if len(t.Edges) > 0 {
		g, err := t.Build(phi)
		if err != nil {
			return nil, false, err
		}
		prog.done("graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())
		return g, false, nil
	}

	key := graphKey(t)
	snap, hit, err := cache.GetJSON[graph.Snapshot](ctx, c, key)
	if err != nil {
		logger.Warn("graph cache read failed", "err", err)
	}
	if hit {
		snap.Phi = phi
		g, err := graph.FromSnapshot(snap)
		if err == nil {
			prog.done("graph loaded from cache", "nodes", g.NodeCount(), "edges", g.EdgeCount())
			return g, true, nil
		}
		logger.Warn("discarding cached graph", "err", err)
	}

	g, err := t.Build(phi)
	if err != nil {
		return nil, false, err
	}
	prog.done("visibility graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	if err := storeGraph(ctx, c, key, g); err != nil {
		logger.Warn("graph cache write failed", "err", err)
	}
	return g, false, nil
}

// storeGraph caches the structure of g without its pheromone levels.
func storeGraph(ctx context.Context, c cache.Cache, key string, g *graph.Graph) error {
	snap := g.Snapshot()
	for i := range snap.Edges {
		snap.Edges[i].Pheromone = 0
	}
	if err := cache.SetJSON(ctx, c, key, snap, graphCacheTTL); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}
