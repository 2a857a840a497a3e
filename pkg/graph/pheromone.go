package graph

// MinPheromone is the floor applied by [Graph.Evaporate]. Levels never reach
// zero, so every edge keeps a non-zero selection probability.
const MinPheromone = 1e-12

// Pheromone returns the level on the edge u–v, or 0 if there is none.
func (g *Graph) Pheromone(u, v string) float64 {
	if e, ok := g.edges[key(u, v)]; ok {
		return e.Pheromone
	}
	return 0
}

// Deposit adds amount to the edge u–v. It returns ErrNoEdge if the nodes
// are not adjacent.
func (g *Graph) Deposit(u, v string, amount float64) error {
	e, ok := g.edges[key(u, v)]
	if !ok {
		return ErrNoEdge
	}
	e.Pheromone += amount
	return nil
}

// DepositPath adds amount to every edge along path.
func (g *Graph) DepositPath(path []string, amount float64) error {
	for i := 1; i < len(path); i++ {
		if err := g.Deposit(path[i-1], path[i], amount); err != nil {
			return err
		}
	}
	return nil
}

// Evaporate multiplies every pheromone level by (1 − rate), flooring at
// [MinPheromone].
func (g *Graph) Evaporate(rate float64) {
	keep := 1 - rate
	for _, e := range g.edges {
		e.Pheromone *= keep
		if e.Pheromone < MinPheromone {
			e.Pheromone = MinPheromone
		}
	}
}

// PheromoneRange returns the lowest and highest level over all edges.
// Both are zero for a graph without edges.
func (g *Graph) PheromoneRange() (lo, hi float64) {
	first := true
	for _, e := range g.edges {
		if first || e.Pheromone < lo {
			lo = e.Pheromone
		}
		if first || e.Pheromone > hi {
			hi = e.Pheromone
		}
		first = false
	}
	return lo, hi
}
