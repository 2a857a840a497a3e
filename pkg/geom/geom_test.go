package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/antroute/pkg/errors"
)

func TestClose(t *testing.T) {
	assert.True(t, Close(1, 1+Epsilon/2))
	assert.True(t, Close(0, -Epsilon))
	assert.False(t, Close(0, 2*Epsilon))
}

func TestLineFromPointAngle(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		phi    float64
		onLine Point
	}{
		{"horizontal", 1, 2, 0, Point{X: 5, Y: 2}},
		{"vertical", 3, -1, math.Pi / 2, Point{X: 3, Y: 10}},
		{"diagonal", 0, 0, math.Pi / 4, Point{X: 7, Y: 7}},
		{"steep", -2, 1, 1.2, Point{X: -2 + math.Cos(1.2), Y: 1 + math.Sin(1.2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := LineFromPointAngle(tt.x, tt.y, tt.phi)
			assert.True(t, l.Contains(Point{X: tt.x, Y: tt.y}), "base point")
			assert.True(t, l.Contains(tt.onLine), "second point")
		})
	}

	l := LineFromPointAngle(2, 3, 0.7)
	assert.InDelta(t, -math.Sin(0.7), l.A, Epsilon)
	assert.InDelta(t, math.Cos(0.7), l.B, Epsilon)
	assert.InDelta(t, math.Sin(0.7)*2-math.Cos(0.7)*3, l.C, Epsilon)
}

func TestLineFromSegment(t *testing.T) {
	pairs := [][2]Point{
		{{0, 0}, {1, 0}},
		{{0, 0}, {0, 1}},
		{{-3, 2}, {4, 9}},
		{{1.5, -2.25}, {1.5 + 1e-6, 8}},
		{{100, 100}, {-250, 37}},
	}

	for _, p := range pairs {
		l, err := LineFromSegment(p[0].X, p[0].Y, p[1].X, p[1].Y)
		require.NoError(t, err)
		assert.True(t, l.Contains(p[0]), "%v on %v", p[0], l)
		assert.True(t, l.Contains(p[1]), "%v on %v", p[1], l)
		assert.False(t, l.A == 0 && l.B == 0)
	}

	l, err := LineFromSegment(1, 2, 4, 6)
	require.NoError(t, err)
	assert.Equal(t, Line{A: -4, B: 3, C: 4*1 - 3*2}, l)
}

func TestLineFromSegmentDegenerate(t *testing.T) {
	_, err := LineFromSegment(1, 1, 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDegenerateInput))

	_, err = LineFromSegment(1, 1, 1+Epsilon/10, 1-Epsilon/10)
	assert.True(t, errors.Is(err, errors.ErrCodeDegenerateInput))

	_, err = Segment{P: Point{2, 2}, Q: Point{2, 2}}.Line()
	assert.True(t, errors.Is(err, errors.ErrCodeDegenerateInput))
}

func TestSolveLinear(t *testing.T) {
	mustLine := func(x1, y1, x2, y2 float64) Line {
		l, err := LineFromSegment(x1, y1, x2, y2)
		require.NoError(t, err)
		return l
	}

	tests := []struct {
		name  string
		e1    Line
		e2    Line
		kind  Solution
		point Point
	}{
		{
			name:  "crossing diagonals",
			e1:    mustLine(0, 0, 2, 2),
			e2:    mustLine(0, 2, 2, 0),
			kind:  UniqueSolution,
			point: Point{X: 1, Y: 1},
		},
		{
			name:  "axes",
			e1:    Line{A: 1, B: 0, C: -3},
			e2:    Line{A: 0, B: 1, C: 4},
			kind:  UniqueSolution,
			point: Point{X: 3, Y: -4},
		},
		{
			name: "parallel",
			e1:   mustLine(0, 0, 1, 1),
			e2:   mustLine(0, 1, 1, 2),
			kind: NoSolution,
		},
		{
			name: "coincident scaled",
			e1:   Line{A: 1, B: -1, C: 2},
			e2:   Line{A: -3, B: 3, C: -6},
			kind: InfiniteSolutions,
		},
		{
			name: "same segment reversed",
			e1:   mustLine(0, 0, 5, 1),
			e2:   mustLine(5, 1, 0, 0),
			kind: InfiniteSolutions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, kind := SolveLinear(tt.e1, tt.e2)
			require.Equal(t, tt.kind, kind)

			q, swapped := SolveLinear(tt.e2, tt.e1)
			require.Equal(t, kind, swapped, "classification must be symmetric")

			if kind == UniqueSolution {
				assert.InDelta(t, tt.point.X, p.X, Epsilon)
				assert.InDelta(t, tt.point.Y, p.Y, Epsilon)
				assert.InDelta(t, p.X, q.X, Epsilon)
				assert.InDelta(t, p.Y, q.Y, Epsilon)
				assert.True(t, tt.e1.Contains(p))
				assert.True(t, tt.e2.Contains(p))
			}
		})
	}
}

func TestSolveQuadratic(t *testing.T) {
	assert.Equal(t, []float64{2.0, -2.0}, SolveQuadratic(1, 0, -4))
	assert.Equal(t, []float64{1.0}, SolveQuadratic(1, -2, 1))
	assert.Empty(t, SolveQuadratic(1, 0, 4))

	roots := SolveQuadratic(2, -3, -5) // 2x² − 3x − 5 = (2x − 5)(x + 1)
	require.Len(t, roots, 2)
	assert.InDelta(t, 2.5, roots[0], Epsilon)
	assert.InDelta(t, -1.0, roots[1], Epsilon)
	assert.Greater(t, roots[0], roots[1])
}

func TestIntersectLineCircle(t *testing.T) {
	unit := Circle{X: 0, Y: 0, R2: 1}

	t.Run("vertical secant", func(t *testing.T) {
		pts := IntersectLineCircle(Line{A: 1, B: 0, C: 0}, unit)
		require.Len(t, pts, 2)
		assert.InDelta(t, 0, pts[0].X, Epsilon)
		assert.InDelta(t, 1, pts[0].Y, Epsilon)
		assert.InDelta(t, -1, pts[1].Y, Epsilon)
	})

	t.Run("horizontal secant", func(t *testing.T) {
		pts := IntersectLineCircle(Line{A: 0, B: 1, C: -0.5}, Circle{X: 2, Y: 0, R2: 1})
		require.Len(t, pts, 2)
		half := math.Sqrt(0.75)
		assert.InDelta(t, 2+half, pts[0].X, Epsilon)
		assert.InDelta(t, 2-half, pts[1].X, Epsilon)
		assert.InDelta(t, 0.5, pts[0].Y, Epsilon)
	})

	t.Run("general secant", func(t *testing.T) {
		l, err := LineFromSegment(-2, -2, 2, 2)
		require.NoError(t, err)
		pts := IntersectLineCircle(l, unit)
		require.Len(t, pts, 2)
		for _, p := range pts {
			assert.InDelta(t, 1, p.X*p.X+p.Y*p.Y, 1e-9)
			assert.True(t, l.Contains(p))
		}
		assert.InDelta(t, math.Sqrt2/2, math.Abs(pts[0].X), 1e-9)
	})

	t.Run("offset general secant", func(t *testing.T) {
		c := Circle{X: 3, Y: -1, R2: 4}
		l, err := LineFromSegment(0, -4, 6, 2)
		require.NoError(t, err)
		pts := IntersectLineCircle(l, c)
		require.Len(t, pts, 2)
		for _, p := range pts {
			dx, dy := p.X-c.X, p.Y-c.Y
			assert.InDelta(t, c.R2, dx*dx+dy*dy, 1e-9)
			assert.True(t, l.Contains(p))
		}
	})

	t.Run("tangent", func(t *testing.T) {
		pts := IntersectLineCircle(Line{A: 0, B: 1, C: -1}, unit)
		require.Len(t, pts, 1)
		assert.InDelta(t, 0, pts[0].X, Epsilon)
		assert.InDelta(t, 1, pts[0].Y, Epsilon)
	})

	t.Run("miss", func(t *testing.T) {
		assert.Empty(t, IntersectLineCircle(Line{A: 1, B: 0, C: -5}, unit))
		l, err := LineFromSegment(3, 0, 0, 3)
		require.NoError(t, err)
		assert.Empty(t, IntersectLineCircle(l, unit))
	})
}

func TestIntersectLineCircleZeroRadius(t *testing.T) {
	tests := []struct {
		name string
		line Line
		at   Point
	}{
		{"diagonal", LineFromPointAngle(1, 2, math.Pi/4), Point{X: 1, Y: 2}},
		{"shallow", LineFromPointAngle(-3, 0.5, 0.3), Point{X: -3, Y: 0.5}},
		{"vertical", Line{A: -5, B: 0, C: 5}, Point{X: 1, Y: 2}},
		{"horizontal", Line{A: 0, B: 2, C: -8}, Point{X: -7, Y: 4}},
		{"far from origin", LineFromPointAngle(100, 200, 0.3), Point{X: 100, Y: 200}},
		{"far vertical", LineFromPointAngle(-480.25, 333.5, math.Pi/2), Point{X: -480.25, Y: 333.5}},
		{"far steep", LineFromPointAngle(417.3, -250.9, 1.2), Point{X: 417.3, Y: -250.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.line.Contains(tt.at))
			pts := IntersectLineCircle(tt.line, Circle{X: tt.at.X, Y: tt.at.Y, R2: 0})
			require.Len(t, pts, 1)
			assert.InDelta(t, tt.at.X, pts[0].X, 1e-6)
			assert.InDelta(t, tt.at.Y, pts[0].Y, 1e-6)
		})
	}
}

func TestIntersectLineCircleZeroRadiusSweep(t *testing.T) {
	for _, phi := range []float64{0.3, math.Pi / 4, 1.2, 2.5} {
		for x := -500.0; x <= 500; x += 7.3 {
			y := 0.37*x - 12.5
			l := LineFromPointAngle(x, y, phi)
			pts := IntersectLineCircle(l, Circle{X: x, Y: y, R2: 0})
			if !assert.Len(t, pts, 1, "phi=%v at (%v, %v)", phi, x, y) {
				continue
			}
			assert.InDelta(t, x, pts[0].X, 1e-6)
			assert.InDelta(t, y, pts[0].Y, 1e-6)
		}
	}
}

func TestSegmentCrossesCircleTangentFarFromOrigin(t *testing.T) {
	c := Circle{X: 350, Y: -220, R2: 25}
	tangent := Segment{P: Point{X: 340, Y: -215}, Q: Point{X: 360, Y: -215}}
	assert.False(t, SegmentCrossesCircle(tangent, c))

	secant := Segment{P: Point{X: 340, Y: -218}, Q: Point{X: 360, Y: -218}}
	assert.True(t, SegmentCrossesCircle(secant, c))
}

func TestSignedTriangleArea(t *testing.T) {
	a, b, c := Point{0, 0}, Point{1, 0}, Point{0, 1}
	assert.Equal(t, 1.0, SignedTriangleArea(a, b, c))
	assert.Equal(t, -1.0, SignedTriangleArea(a, c, b))
	assert.Equal(t, 0.0, SignedTriangleArea(a, b, Point{5, 0}))
}

func TestSegmentsIntersect(t *testing.T) {
	seg := func(x1, y1, x2, y2 float64) Segment {
		return Segment{P: Point{x1, y1}, Q: Point{x2, y2}}
	}

	tests := []struct {
		name string
		s1   Segment
		s2   Segment
		want bool
	}{
		{"crossing X", seg(0, 0, 2, 2), seg(0, 2, 2, 0), true},
		{"disjoint collinear", seg(0, 0, 1, 0), seg(2, 0, 3, 0), false},
		{"overlapping collinear", seg(0, 0, 2, 0), seg(1, 0, 3, 0), false},
		{"touching at endpoint", seg(0, 0, 1, 1), seg(1, 1, 2, 0), false},
		{"T junction", seg(0, 0, 2, 0), seg(1, 0, 1, 2), false},
		{"parallel", seg(0, 0, 2, 0), seg(0, 1, 2, 1), false},
		{"lines cross outside segments", seg(0, 0, 1, 1), seg(3, 0, 2, 1), false},
		{"plus sign", seg(-1, 0, 1, 0), seg(0, -1, 0, 1), true},
		{"far apart", seg(0, 0, 1, 1), seg(10, 10, 11, 9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentsIntersect(tt.s1, tt.s2))
			assert.Equal(t, tt.want, SegmentsIntersect(tt.s2, tt.s1), "argument order")
			rev := Segment{P: tt.s1.Q, Q: tt.s1.P}
			assert.Equal(t, tt.want, SegmentsIntersect(rev, tt.s2), "endpoint order")
		})
	}
}

func TestSegmentCrossesCircle(t *testing.T) {
	c := Circle{X: 0, Y: 0, R2: 1}
	seg := func(x1, y1, x2, y2 float64) Segment {
		return Segment{P: Point{x1, y1}, Q: Point{x2, y2}}
	}

	tests := []struct {
		name string
		s    Segment
		want bool
	}{
		{"through centre", seg(-2, 0, 2, 0), true},
		{"diagonal through", seg(-2, -2, 2, 2), true},
		{"starts inside", seg(0, 0, 3, 0), true},
		{"fully inside", seg(-0.1, 0.2, 0.1, 0.3), true},
		{"tangent", seg(-2, 1, 2, 1), false},
		{"stops short", seg(-3, 0, -1.5, 0), false},
		{"ends on boundary", seg(-3, 0, -1, 0), false},
		{"misses", seg(-2, 3, 2, 3), false},
		{"vertical through", seg(0.5, -5, 0.5, 5), true},
		{"point inside", seg(0.2, 0.2, 0.2, 0.2), true},
		{"point outside", seg(2, 2, 2, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentCrossesCircle(tt.s, c))
		})
	}
}

func TestHeadingAndDeviation(t *testing.T) {
	assert.InDelta(t, 0, Heading(Point{0, 0}, Point{1, 0}), Epsilon)
	assert.InDelta(t, math.Pi/2, Heading(Point{0, 0}, Point{0, 3}), Epsilon)

	assert.InDelta(t, 0, Deviation(0.5, 0.5), Epsilon)
	assert.InDelta(t, math.Pi, Deviation(0, math.Pi), Epsilon)
	assert.InDelta(t, 0.2, Deviation(math.Pi-0.1, -math.Pi+0.1), 1e-12)
	assert.InDelta(t, math.Pi/2, Deviation(-math.Pi/4, math.Pi/4), Epsilon)
}

func TestCircleRadius(t *testing.T) {
	assert.Equal(t, 2.0, Circle{R2: 4}.Radius())
	assert.Equal(t, Point{X: 1, Y: -2}, Circle{X: 1, Y: -2}.Center())
	assert.Equal(t, 5.0, Segment{P: Point{0, 0}, Q: Point{3, 4}}.Length())
}
