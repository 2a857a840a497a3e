// Package aco drives a colony of ants through the generate, evaluate and
// update cycle of Ant Colony Optimization.
//
// The package owns no graph representation and no edge-selection policy.
// Both are collaborators reached through the narrow [Graph] and [Ant]
// interfaces: a [Colony] clones a prototype ant into a pool, asks each ant to
// walk until it reaches its destination, evaporates pheromone once per cycle
// and then lets every ant deposit along its finished path.
//
// # Lifecycle
//
//	c, err := aco.New(g, 0.05)
//	c.SetProto(proto)
//	if err := c.MakeAnts(20); err != nil { ... }
//	for i := 0; i < iters; i++ {
//	    stats, err := c.GenerateSolutions()
//	    ...
//	    c.UpdatePheromone()
//	    c.DaemonActions()
//	}
//
// The caller owns the iteration count; the colony has no convergence
// criterion of its own.
//
// # Stalled ants
//
// By default an ant walks until it arrives, however long that takes. With
// [WithMaxSteps] each ant gets a step budget; an ant that exceeds it, or whose
// PickEdge reports an error, is returned as a [StallError] in
// [Stats.Stalled] and left out of the length statistics.
//
// Colonies are not safe for concurrent use. Ants are processed strictly in
// sequence.
package aco
