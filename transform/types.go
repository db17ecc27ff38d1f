// Package transform implements a piecewise-affine coordinate mapper between
// two overlapping 2-D maps. Given a sparse set of hand-picked correspondence
// points, it builds a Delaunay triangulation over their midpoints and
// evaluates forward/inverse point queries through the resulting mesh,
// falling back to a single global affine transform outside the triangulated
// region.
package transform

import "fmt"

// Point is a 2-D coordinate in map pixels. Components are not required to
// be integral.
type Point struct {
	X, Y float64
}

// Equal reports whether p and q are exactly equal, component by component
// (float64 ==, with no tolerance). The
// correspondence-point shortcut (see Config.ToRef/ToRobot) relies on exact
// equality, not a tolerance.
func (p Point) Equal(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// Add returns the elementwise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns the elementwise difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p with both components multiplied by k.
func (p Point) Scale(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Midpoint returns the elementwise mean of a and b.
func Midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Size is a map's pixel dimensions.
type Size struct {
	W, H float64
}

// Positive reports whether both dimensions are strictly greater than zero.
func (s Size) Positive() bool {
	return s.W > 0 && s.H > 0
}

// Rect is an axis-aligned rectangle described by its top-left and
// bottom-right corners.
type Rect struct {
	Min, Max Point
}

// AffineMatrix is a 2x3 affine transform:
//
//	x' = A00*x + A01*y + A02
//	y' = A10*x + A11*y + A12
type AffineMatrix struct {
	A00, A01, A02 float64
	A10, A11, A12 float64
}

// IdentityAffine returns the affine matrix that maps every point to itself.
func IdentityAffine() AffineMatrix {
	return AffineMatrix{A00: 1, A11: 1}
}

// GlobalAffine is the robot-map-only rigid-plus-scale transform relating
// the robot frame to the reference frame outside (or absent) the
// triangulated mesh. The zero value has scale (0,0), which Load rejects;
// IdentityGlobalAffine returns the identity transform.
type GlobalAffine struct {
	ScaleX, ScaleY float64
	Rotation       float64 // radians
	TransX, TransY float64
}

// IdentityGlobalAffine returns the default global affine: unit scale, no
// rotation, no translation.
func IdentityGlobalAffine() GlobalAffine {
	return GlobalAffine{ScaleX: 1, ScaleY: 1}
}

// Triangle is an unordered triple of distinct indices into the
// correspondence arrays, describing one cell of the Delaunay mesh built
// over the midpoint set.
type Triangle struct {
	A, B, C int
}

// triangleAffines holds the two precomputed directional affine maps for one
// mesh triangle.
type triangleAffines struct {
	tri    Triangle
	toRef  AffineMatrix
	toBot  AffineMatrix
}

// MapDescriptor is the immutable metadata for one of the two maps: a name,
// an optional image file path used only for a dimension cross-check at
// load time, and its declared pixel size.
type MapDescriptor struct {
	Name      string
	ImageFile string
	Size      Size
}
