// Package ant implements the path-building ant walked by an [aco.Colony]
// over a [graph.Graph].
//
// # Edge Selection
//
// At each step the ant considers the neighbours of its current node it has
// not visited yet, falling back to all neighbours when every one of them was
// visited. Each candidate edge gets the attractiveness
//
//	τ^α · (1/w)^β · η^γ
//
// where τ is the edge's pheromone level, w its weight and
// η = (1 + cos θ)/2 + 1e-6 rewards edges heading towards the destination,
// θ being the angle between the edge and the straight line to the
// destination. One candidate is then drawn by roulette selection.
//
// # Randomness
//
// Every ant owns a PCG generator. [Ant.Clone] gives each clone its own
// stream derived from its parent's stream and the parent's clone count.
// Clones share no state with each other, so a colony built from one
// prototype with a fixed seed is reproducible while no two ants draw the
// same numbers.
//
// # Elitism
//
// [Elitist] is a daemon strategy that remembers the best path seen so far and
// reinforces it once per cycle through [aco.WithDaemon].
package ant
