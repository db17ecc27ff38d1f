package transform

import (
	"fmt"
	"math"
)

// degenerateEpsilon bounds how close to zero a triangle's signed area may
// be before affineFromTriangles refuses to solve it.
const degenerateEpsilon = 1e-9

// edgeEpsilon is the slack applied to the point-in-triangle sign test so
// that a query that lands on an edge up to floating-point noise is still
// classified as on the edge (and therefore inside), rather than outside.
const edgeEpsilon = 1e-9

// cross2 returns twice the signed area of triangle (o, a, b).
func cross2(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// insideTriangle reports whether p lies inside triangle (a, b, c), treating
// a point that lies exactly (within edgeEpsilon) on an edge as inside. The
// triangle's vertex winding is not assumed.
func insideTriangle(p, a, b, c Point) bool {
	d1 := cross2(p, a, b)
	d2 := cross2(p, b, c)
	d3 := cross2(p, c, a)

	hasNeg := d1 < -edgeEpsilon || d2 < -edgeEpsilon || d3 < -edgeEpsilon
	hasPos := d1 > edgeEpsilon || d2 > edgeEpsilon || d3 > edgeEpsilon

	return !(hasNeg && hasPos)
}

// det3 computes the determinant of the 3x3 matrix with rows m[0], m[1], m[2].
func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// affineFromTriangles solves the unique affine map A such that A*src[i] =
// dst[i] for i in 0,1,2, via Cramer's rule on the 3x3 coefficient matrix
// built from the source vertices. The two rows of A (x-row and y-row) share
// the same coefficient matrix and determinant, so it is only computed once.
//
// This is the "10-line affine-solve" spec note 9 asks for in place of a
// dependency on a larger linear-algebra or imaging library: the system is
// exactly determined (3 points, 6 unknowns split into two independent 3x3
// solves) and never needs least squares.
func affineFromTriangles(src, dst [3]Point) (AffineMatrix, error) {
	x0, y0 := src[0].X, src[0].Y
	x1, y1 := src[1].X, src[1].Y
	x2, y2 := src[2].X, src[2].Y

	coeff := [3][3]float64{
		{x0, y0, 1},
		{x1, y1, 1},
		{x2, y2, 1},
	}
	det := det3(coeff)
	if math.Abs(det) < degenerateEpsilon {
		return AffineMatrix{}, fmt.Errorf("transform: degenerate triangle (zero area) in affine solve")
	}

	a00, a01, a02 := solveAffineRow(coeff, det, dst[0].X, dst[1].X, dst[2].X)
	a10, a11, a12 := solveAffineRow(coeff, det, dst[0].Y, dst[1].Y, dst[2].Y)

	return AffineMatrix{
		A00: a00, A01: a01, A02: a02,
		A10: a10, A11: a11, A12: a12,
	}, nil
}

// solveAffineRow solves [a b c] from coeff*[a b c]^T = [d0 d1 d2]^T by
// Cramer's rule, reusing the precomputed coefficient-matrix determinant.
func solveAffineRow(coeff [3][3]float64, det, d0, d1, d2 float64) (a, b, c float64) {
	ma := coeff
	ma[0][0], ma[1][0], ma[2][0] = d0, d1, d2
	mb := coeff
	mb[0][1], mb[1][1], mb[2][1] = d0, d1, d2
	mc := coeff
	mc[0][2], mc[1][2], mc[2][2] = d0, d1, d2

	return det3(ma) / det, det3(mb) / det, det3(mc) / det
}

// Apply evaluates the affine map m at point p.
func Apply(m AffineMatrix, p Point) Point {
	return Point{
		X: m.A00*p.X + m.A01*p.Y + m.A02,
		Y: m.A10*p.X + m.A11*p.Y + m.A12,
	}
}

// applyGlobalForward computes the robot-to-reference global prediction
// R(theta) . diag(sx,sy) . p + t: scale first, then rotate, then
// translate.
func applyGlobalForward(g GlobalAffine, p Point) Point {
	scaled := Point{X: p.X * g.ScaleX, Y: p.Y * g.ScaleY}
	c, s := math.Cos(g.Rotation), math.Sin(g.Rotation)
	rotated := Point{
		X: c*scaled.X - s*scaled.Y,
		Y: s*scaled.X + c*scaled.Y,
	}
	return Point{X: rotated.X + g.TransX, Y: rotated.Y + g.TransY}
}

// applyGlobalInverse computes the true algebraic inverse of
// applyGlobalForward: diag(1/sx,1/sy) . R(-theta) . (p - t). The reference
// implementation instead subtracted the translation after the
// rotation/scale step, which is only exact when theta is zero; this
// reimplementation uses the algebraic inverse per the documented design
// correction (see doc comment on Config.ToRobot).
func applyGlobalInverse(g GlobalAffine, p Point) Point {
	shifted := Point{X: p.X - g.TransX, Y: p.Y - g.TransY}
	c, s := math.Cos(-g.Rotation), math.Sin(-g.Rotation)
	rotated := Point{
		X: c*shifted.X - s*shifted.Y,
		Y: s*shifted.X + c*shifted.Y,
	}
	return Point{X: rotated.X / g.ScaleX, Y: rotated.Y / g.ScaleY}
}
