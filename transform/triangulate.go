package transform

import "math"

// Synthetic corner indices used to seed the Bowyer-Watson construction.
// They never appear in the final triangle list: any triangle still
// touching one of them after all midpoints have been inserted is an
// artifact of the seed rectangle, not a real mesh cell, and is discarded.
const (
	cornerTL = -1
	cornerTR = -2
	cornerBR = -3
	cornerBL = -4
)

// bwTriangle is a triangle in the in-progress Bowyer-Watson construction:
// three vertex indices (real midpoint indices, or one of the negative
// corner constants) plus its precomputed circumcircle.
type bwTriangle struct {
	a, b, c int
	cx, cy  float64
	r2      float64
}

// seedRect is the bounding rectangle the triangulator subdivides, per
// spec step 2: always anchored at the origin, regardless of how far
// negative the global translation pushes the robot map. This differs from
// the public BoundingBox getter (see boundingBox), whose top-left corner
// can be negative; the seed rectangle is purely an internal scaffold for
// the triangulation, which pads it before placing its seed corners (see
// triangulateMidpoints). Results are undefined (per design note 9) for a
// midpoint outside that padded rectangle.
func seedRect(ref, robot Size, tx, ty float64) Rect {
	return Rect{
		Min: Point{X: 0, Y: 0},
		Max: Point{
			X: math.Max(ref.W, robot.W+tx),
			Y: math.Max(ref.H, robot.H+ty),
		},
	}
}

// boundingBox is the public bounding-box query (spec 4.5): the pixel
// rectangle that holds both maps when rendered in the reference frame,
// which may have a negative top-left corner when the translation is
// negative.
func boundingBox(ref, robot Size, tx, ty float64) Rect {
	return Rect{
		Min: Point{X: math.Min(0, tx), Y: math.Min(0, ty)},
		Max: Point{
			X: math.Max(ref.W, robot.W+tx),
			Y: math.Max(ref.H, robot.H+ty),
		},
	}
}

// cornerPoint resolves one of the four synthetic seed indices, or a real
// midpoint index, to its coordinate.
func cornerPoint(rect Rect, idx int) Point {
	switch idx {
	case cornerTL:
		return rect.Min
	case cornerTR:
		return Point{X: rect.Max.X, Y: rect.Min.Y}
	case cornerBR:
		return rect.Max
	case cornerBL:
		return Point{X: rect.Min.X, Y: rect.Max.Y}
	default:
		panic("transform: unknown seed corner index")
	}
}

// makePointLookup returns a function resolving any index used during
// triangulation (real midpoint index, or a synthetic negative corner
// index) to its coordinate.
func makePointLookup(mid []Point, rect Rect) func(int) Point {
	return func(idx int) Point {
		if idx >= 0 {
			return mid[idx]
		}
		return cornerPoint(rect, idx)
	}
}

// newBWTriangle builds a triangle and its circumcircle from three vertex
// indices, resolved via at.
func newBWTriangle(at func(int) Point, a, b, c int) bwTriangle {
	pa, pb, pc := at(a), at(b), at(c)

	d := 2 * (pa.X*(pb.Y-pc.Y) + pb.X*(pc.Y-pa.Y) + pc.X*(pa.Y-pb.Y))
	if math.Abs(d) < degenerateEpsilon {
		// Collinear triple; should not occur for a valid cavity polygon.
		// Mark with an unbounded circumcircle so it gets swept up (and
		// replaced) by the next insertion rather than lingering.
		return bwTriangle{a: a, b: b, c: c, r2: math.Inf(1)}
	}

	aSq := pa.X*pa.X + pa.Y*pa.Y
	bSq := pb.X*pb.X + pb.Y*pb.Y
	cSq := pc.X*pc.X + pc.Y*pc.Y

	cx := (aSq*(pb.Y-pc.Y) + bSq*(pc.Y-pa.Y) + cSq*(pa.Y-pb.Y)) / d
	cy := (aSq*(pc.X-pb.X) + bSq*(pa.X-pc.X) + cSq*(pb.X-pa.X)) / d

	dx, dy := pa.X-cx, pa.Y-cy
	return bwTriangle{a: a, b: b, c: c, cx: cx, cy: cy, r2: dx*dx + dy*dy}
}

func (t bwTriangle) contains(at func(int) Point, idx int) bool {
	p := at(idx)
	dx, dy := p.X-t.cx, p.Y-t.cy
	return dx*dx+dy*dy < t.r2
}

// dirEdge is a directed triangle edge used while rebuilding the Bowyer-
// Watson cavity boundary.
type dirEdge struct{ u, v int }

// cavityBoundary returns the boundary edges of the cavity formed by the
// given bad triangles (those whose circumcircle contains the new point):
// every directed edge that does not have a matching reverse edge among the
// other bad triangles.
func cavityBoundary(bad []bwTriangle) []dirEdge {
	var all []dirEdge
	for _, t := range bad {
		all = append(all,
			dirEdge{t.a, t.b},
			dirEdge{t.b, t.c},
			dirEdge{t.c, t.a},
		)
	}

	var boundary []dirEdge
	for _, e := range all {
		rev := dirEdge{e.v, e.u}
		shared := false
		for _, o := range all {
			if o == rev {
				shared = true
				break
			}
		}
		if !shared {
			boundary = append(boundary, e)
		}
	}
	return boundary
}

// triangulateMidpoints builds a Delaunay triangulation over mid by
// incremental (Bowyer-Watson) insertion, seeded with two triangles
// spanning rect padded on every side by ten times its larger dimension.
// The padding keeps midpoints that lie on rect's boundary from being
// collinear with two seed corners. This mirrors the reference
// implementation's use of a rectangle-seeded planar subdivision (see design
// notes) while working directly in float64 midpoint coordinates rather than
// through an external image-processing library's subdivision type.
//
// Triangles that still reference one of the synthetic seed corners after all
// midpoints have been inserted are discarded (step 4). The returned slice
// preserves the order triangles were finalized in, which is stable for a
// given input (step 5) even though it carries no semantic meaning.
func triangulateMidpoints(mid []Point, rect Rect) []Triangle {
	w, h := rect.Max.X-rect.Min.X, rect.Max.Y-rect.Min.Y
	pad := 10 * math.Max(w, h)
	rect = Rect{
		Min: Point{X: rect.Min.X - pad, Y: rect.Min.Y - pad},
		Max: Point{X: rect.Max.X + pad, Y: rect.Max.Y + pad},
	}
	at := makePointLookup(mid, rect)

	tris := []bwTriangle{
		newBWTriangle(at, cornerTL, cornerTR, cornerBR),
		newBWTriangle(at, cornerTL, cornerBR, cornerBL),
	}

	for i := range mid {
		var bad, rest []bwTriangle
		for _, t := range tris {
			if t.contains(at, i) {
				bad = append(bad, t)
			} else {
				rest = append(rest, t)
			}
		}

		for _, e := range cavityBoundary(bad) {
			rest = append(rest, newBWTriangle(at, e.u, e.v, i))
		}
		tris = rest
	}

	result := make([]Triangle, 0, len(tris))
	for _, t := range tris {
		if t.a < 0 || t.b < 0 || t.c < 0 {
			continue
		}
		result = append(result, Triangle{A: t.a, B: t.b, C: t.c})
	}
	return result
}

// precomputeTriangleAffines asks C1 to solve both directional affines for
// every triangle in raw (spec 4.4, final paragraph). A triangle whose
// robot-frame or reference-frame shape turns out to be degenerate (zero
// area — possible if two correspondence pairs are identical or nearly so,
// design note 9b) is silently dropped rather than failing the whole load:
// the source tolerates duplicate correspondence pairs, and a single
// unusable cell should not abort an otherwise valid mesh. The returned
// triangle list and affine list stay index-aligned, in the same relative
// order raw was supplied in.
func precomputeTriangleAffines(raw []Triangle, refPts, robotPts []Point) ([]Triangle, []triangleAffines) {
	triangles := make([]Triangle, 0, len(raw))
	affines := make([]triangleAffines, 0, len(raw))

	for _, t := range raw {
		robotTri := [3]Point{robotPts[t.A], robotPts[t.B], robotPts[t.C]}
		refTri := [3]Point{refPts[t.A], refPts[t.B], refPts[t.C]}

		toRef, err := affineFromTriangles(robotTri, refTri)
		if err != nil {
			continue
		}
		toBot, err := affineFromTriangles(refTri, robotTri)
		if err != nil {
			continue
		}

		triangles = append(triangles, t)
		affines = append(affines, triangleAffines{tri: t, toRef: toRef, toBot: toBot})
	}

	return triangles, affines
}
