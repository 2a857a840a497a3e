package geom

import (
	"math"

	"github.com/matzehuels/antroute/pkg/errors"
)

// Epsilon is the absolute tolerance used for every equality comparison in
// this package.
const Epsilon = 1e-9

// Close reports whether a and b are equal within [Epsilon].
func Close(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// =============================================================================
// Primitives
// =============================================================================

// Point is a position (or vector) in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line is the set of points satisfying A·x + B·y + C = 0.
type Line struct {
	A, B, C float64
}

// Contains reports whether p satisfies the line equation within [Epsilon].
func (l Line) Contains(p Point) bool {
	return Close(l.A*p.X+l.B*p.Y+l.C, 0)
}

// Circle is given by its centre and squared radius. R2 must be non-negative.
type Circle struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	R2 float64 `json:"r2"`
}

// Radius returns sqrt(R2).
func (c Circle) Radius() float64 { return math.Sqrt(c.R2) }

// Center returns the circle centre as a point.
func (c Circle) Center() Point { return Point{X: c.X, Y: c.Y} }

// Segment is the straight piece between two endpoints.
type Segment struct {
	P Point `json:"p"`
	Q Point `json:"q"`
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 { return Dist(s.P, s.Q) }

// Line returns the line through both endpoints.
// See [LineFromSegment] for the failure mode.
func (s Segment) Line() (Line, error) {
	return LineFromSegment(s.P.X, s.P.Y, s.Q.X, s.Q.Y)
}

// Dist returns the Euclidean distance between p and q.
func Dist(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// =============================================================================
// Lines
// =============================================================================

// LineFromPointAngle returns the line through (x, y) that makes angle phi
// (radians) with the X axis.
func LineFromPointAngle(x, y, phi float64) Line {
	s, c := math.Sincos(phi)
	return Line{A: -s, B: c, C: s*x - c*y}
}

// LineFromSegment returns the line through (x1, y1) and (x2, y2).
//
// It fails with an ErrCodeDegenerateInput error when both points coincide
// within [Epsilon] on both axes, since no unique line exists.
func LineFromSegment(x1, y1, x2, y2 float64) (Line, error) {
	dx := x2 - x1
	dy := y2 - y1
	if Close(dx, 0) && Close(dy, 0) {
		return Line{}, errors.New(errors.ErrCodeDegenerateInput,
			"cannot build a line through coincident points (%g, %g) and (%g, %g)", x1, y1, x2, y2)
	}
	return Line{A: -dy, B: dx, C: dy*x1 - dx*y1}, nil
}

// Solution classifies the solution set of a 2×2 linear system.
type Solution int

const (
	// NoSolution means the lines are parallel and distinct.
	NoSolution Solution = iota
	// InfiniteSolutions means the lines coincide.
	InfiniteSolutions
	// UniqueSolution means the lines cross at exactly one point.
	UniqueSolution
)

func (s Solution) String() string {
	switch s {
	case NoSolution:
		return "none"
	case InfiniteSolutions:
		return "infinite"
	case UniqueSolution:
		return "unique"
	}
	return "unknown"
}

// SolveLinear intersects two lines.
//
// Degeneracy is decided before any division by comparing cross-multiplied
// coefficients with [Close]. The returned point is meaningful only when the
// classification is [UniqueSolution]; it is computed with Cramer's rule.
func SolveLinear(e1, e2 Line) (Point, Solution) {
	if Close(e1.A*e2.B, e1.B*e2.A) {
		if Close(e1.A*e2.C, e1.C*e2.A) && Close(e1.B*e2.C, e1.C*e2.B) {
			return Point{}, InfiniteSolutions
		}
		return Point{}, NoSolution
	}
	det := e1.A*e2.B - e2.A*e1.B
	return Point{
		X: (e2.C*e1.B - e1.C*e2.B) / det,
		Y: (e2.A*e1.C - e1.A*e2.C) / det,
	}, UniqueSolution
}

// =============================================================================
// Quadratics and circles
// =============================================================================

// SolveQuadratic returns the real roots of a·x² + b·x + c = 0. The caller
// guarantees a != 0.
//
// A discriminant within [Epsilon] of zero yields the single repeated root.
// A positive discriminant yields (−b+√d)/2a followed by (−b−√d)/2a, which is
// the larger root first for a > 0. Otherwise the result is empty.
func SolveQuadratic(a, b, c float64) []float64 {
	d := b*b - 4*a*c
	switch {
	case Close(d, 0):
		return []float64{-b / (2 * a)}
	case d > 0:
		sd := math.Sqrt(d)
		return []float64{(-b + sd) / (2 * a), (-b - sd) / (2 * a)}
	default:
		return nil
	}
}

// IntersectLineCircle returns the points where l meets the boundary of c:
// none, one (tangent) or two. Points come out in the order produced by
// [SolveQuadratic].
//
// The quadratic is set up in coordinates centred on c so its rounding error
// does not grow with the distance from the origin. Lines parallel to an axis
// are solved by direct substitution to avoid dividing by a vanishing
// coefficient.
func IntersectLineCircle(l Line, c Circle) []Point {
	// l in centred coordinates: A·x' + B·y' + cc = 0.
	cc := l.A*c.X + l.B*c.Y + l.C

	switch {
	case Close(l.B, 0): // parallel to Y
		dx := -cc / l.A
		roots := SolveQuadratic(1, 0, dx*dx-c.R2)
		pts := make([]Point, len(roots))
		for i, y := range roots {
			pts[i] = Point{X: dx + c.X, Y: y + c.Y}
		}
		return pts

	case Close(l.A, 0): // parallel to X
		dy := -cc / l.B
		roots := SolveQuadratic(1, 0, dy*dy-c.R2)
		pts := make([]Point, len(roots))
		for i, x := range roots {
			pts[i] = Point{X: x + c.X, Y: dy + c.Y}
		}
		return pts
	}

	// x' = k·y' + m, substituted into x'² + y'² = r².
	k := -l.B / l.A
	m := -cc / l.A
	roots := SolveQuadratic(1+k*k, 2*k*m, m*m-c.R2)
	pts := make([]Point, len(roots))
	for i, y := range roots {
		pts[i] = Point{X: k*y + m + c.X, Y: y + c.Y}
	}
	return pts
}

// SegmentCrossesCircle reports whether the chord cut from c by the line of s
// overlaps the interior of s. Tangent lines never count, and neither does a
// chord that only touches an endpoint. A degenerate segment is tested as a
// point strictly inside the circle.
func SegmentCrossesCircle(s Segment, c Circle) bool {
	l, err := s.Line()
	if err != nil {
		dx, dy := s.P.X-c.X, s.P.Y-c.Y
		return dx*dx+dy*dy < c.R2-Epsilon
	}
	pts := IntersectLineCircle(l, c)
	if len(pts) < 2 {
		return false
	}
	t0, t1 := param(s, pts[0]), param(s, pts[1])
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	lo := math.Max(t0, 0)
	hi := math.Min(t1, 1)
	return hi-lo > Epsilon
}

// param projects p onto s and returns its position, 0 at s.P and 1 at s.Q.
func param(s Segment, p Point) float64 {
	dx, dy := s.Q.X-s.P.X, s.Q.Y-s.P.Y
	return ((p.X-s.P.X)*dx + (p.Y-s.P.Y)*dy) / (dx*dx + dy*dy)
}

// =============================================================================
// Orientation and segments
// =============================================================================

// SignedTriangleArea returns twice the signed area of the triangle p1 p2 p3.
// It is positive for counter-clockwise winding and negative for clockwise.
func SignedTriangleArea(p1, p2, p3 Point) float64 {
	return (p2.X-p1.X)*(p3.Y-p1.Y) - (p2.Y-p1.Y)*(p3.X-p1.X)
}

// SegmentsIntersect reports whether s1 and s2 properly cross.
//
// Both conditions must hold:
//   - the projections of the segments on X and on Y overlap, where touching
//     within [Epsilon] counts as overlap;
//   - the endpoints of each segment lie strictly on opposite sides of the
//     other segment's line. No tolerance applies here, so touching and
//     collinear segments are not intersecting.
func SegmentsIntersect(s1, s2 Segment) bool {
	if !overlaps(s1.P.X, s1.Q.X, s2.P.X, s2.Q.X) || !overlaps(s1.P.Y, s1.Q.Y, s2.P.Y, s2.Q.Y) {
		return false
	}
	ab := sign(SignedTriangleArea(s1.P, s1.Q, s2.P)) * sign(SignedTriangleArea(s1.P, s1.Q, s2.Q))
	cd := sign(SignedTriangleArea(s2.P, s2.Q, s1.P)) * sign(SignedTriangleArea(s2.P, s2.Q, s1.Q))
	return ab < 0 && cd < 0
}

// overlaps sorts the intervals [a1, a2] and [b1, b2] and reports whether they
// share a point within Epsilon.
func overlaps(a1, a2, b1, b2 float64) bool {
	if a1 > a2 {
		a1, a2 = a2, a1
	}
	if b1 > b2 {
		b1, b2 = b2, b1
	}
	lo := math.Max(a1, b1)
	hi := math.Min(a2, b2)
	return Close(lo, hi) || lo < hi
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// =============================================================================
// Angles
// =============================================================================

// Heading returns the angle of the vector from p to q, in (−π, π].
func Heading(p, q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// Deviation returns the absolute difference between two angles folded into
// [0, π].
func Deviation(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
