// Package graph provides the planar pheromone graph ants walk on.
//
// A [Graph] is an undirected graph whose nodes sit at plane coordinates and
// whose edges carry two quantities: a fixed traversal weight (the Euclidean
// length unless given explicitly) and a mutable pheromone level.
//
// # Pheromone
//
// Every edge starts at the base level phi passed to [New]. [Graph.Deposit]
// adds to one edge; [Graph.Evaporate] multiplies all levels by (1 − rate)
// and never lets a level fall below [MinPheromone], so no edge ever becomes
// unselectable.
//
// # Visibility graphs
//
// Tasks that list only node positions and obstacles get their edges from
// [Graph.ConnectVisible]: two nodes are joined when the straight segment
// between them crosses no wall and cuts no circular obstacle.
//
//	g := graph.New(0.1)
//	_ = g.AddNode(graph.Node{ID: "s", X: 0, Y: 0})
//	_ = g.AddNode(graph.Node{ID: "t", X: 4, Y: 0})
//	n := g.ConnectVisible(graph.Obstacles{
//	    Circles: []geom.Circle{{X: 2, Y: 0, R2: 1}},
//	}, 0)
//	// n == 0: the circle blocks the only candidate edge.
//
// # Serialization
//
// [Graph.Snapshot] and [FromSnapshot] convert to and from a JSON-friendly
// node-link form, used for caching and for exporting final pheromone levels.
//
// The zero value is not usable; create graphs with [New]. A Graph is not safe
// for concurrent use.
package graph
