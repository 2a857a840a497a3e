// Package geom answers exact questions about lines, circles and segments in
// the plane under a single floating-point tolerance.
//
// Every equality test in this package goes through [Close], which compares
// with the absolute tolerance [Epsilon]. Degenerate cases (coincident points,
// parallel lines, tangent circles) are therefore classified consistently by
// all predicates.
//
// # Representations
//
//   - [Line] stores homogeneous coefficients (A, B, C) of A·x + B·y + C = 0.
//   - [Circle] stores the centre and the squared radius.
//   - [Segment] stores two endpoints in no particular order.
//
// # Segment intersection policy
//
// [SegmentsIntersect] accepts segments whose projections touch within
// [Epsilon] but requires the orientation tests to have strictly opposite
// signs. Segments that merely touch at an endpoint, or overlap while
// collinear, are reported as not intersecting.
//
// # Example
//
//	l, err := geom.LineFromSegment(0, 0, 2, 2)
//	if err != nil {
//	    return err
//	}
//	pts := geom.IntersectLineCircle(l, geom.Circle{X: 1, Y: 1, R2: 1})
//	// pts holds the two points where the diagonal leaves the unit circle.
package geom
