package transform

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// GeometryType mirrors the small set of GeoJSON geometry types MeshGeoJSON
// emits.
type GeometryType string

const (
	GeometryPoint   GeometryType = "Point"
	GeometryPolygon GeometryType = "Polygon"
)

// Geometry is a GeoJSON geometry object.
type Geometry struct {
	Type        GeometryType    `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Feature is a GeoJSON feature: a geometry plus free-form properties.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   *Geometry              `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// FeatureCollection is a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// NewFeatureCollection returns an empty FeatureCollection.
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{Type: "FeatureCollection", Features: make([]*Feature, 0)}
}

// AddFeature appends f to fc.
func (fc *FeatureCollection) AddFeature(f *Feature) {
	fc.Features = append(fc.Features, f)
}

func newFeature(geom *Geometry, props map[string]interface{}) *Feature {
	if props == nil {
		props = make(map[string]interface{})
	}
	return &Feature{Type: "Feature", Geometry: geom, Properties: props}
}

func pointGeometry(p orb.Point) *Geometry {
	coords, _ := json.Marshal([2]float64{p[0], p[1]})
	return &Geometry{Type: GeometryPoint, Coordinates: coords}
}

// triangleRing converts a mesh triangle, given its three corners in some
// frame, to a closed orb.Ring (first point repeated at the end) and then
// to a GeoJSON Polygon geometry — the same Geometry/orb round trip
// mesh/geojson_merge.go uses for its polygon features.
func triangleRing(a, b, c Point) *Geometry {
	ring := orb.Ring{
		orb.Point{a.X, a.Y},
		orb.Point{b.X, b.Y},
		orb.Point{c.X, c.Y},
		orb.Point{a.X, a.Y},
	}
	poly := orb.Polygon{ring}

	rings := make([][][2]float64, len(poly))
	for i, r := range poly {
		coords := make([][2]float64, len(r))
		for j, p := range r {
			coords[j] = [2]float64{p[0], p[1]}
		}
		rings[i] = coords
	}
	coordsJSON, _ := json.Marshal(rings)
	return &Geometry{Type: GeometryPolygon, Coordinates: coordsJSON}
}

// MeshGeoJSON exports a loaded Config's midpoint set, correspondence
// points, and Delaunay triangles as a GeoJSON FeatureCollection, for
// visualisation and debugging (spec 4.4/6 explicitly invite this; it is
// not the interactive point-picking viewer those sections name as out of
// scope, since it only ever reads a loaded Config). frame selects which
// pair of arrays ("ref" or "robot") the triangle polygons and
// correspondence points are drawn from; the midpoint set is frame-
// independent.
func MeshGeoJSON(c *Config, frame string) (*FeatureCollection, error) {
	if err := c.requireLoaded("MeshGeoJSON"); err != nil {
		return nil, err
	}

	pts := c.refPoints
	if frame == "robot" {
		pts = c.robotPoints
	}

	fc := NewFeatureCollection()

	for i, m := range c.midpoints {
		fc.AddFeature(newFeature(
			pointGeometry(orb.Point{m.X, m.Y}),
			map[string]interface{}{"kind": "midpoint", "index": i},
		))
	}

	for i, p := range pts {
		fc.AddFeature(newFeature(
			pointGeometry(orb.Point{p.X, p.Y}),
			map[string]interface{}{"kind": "correspondence", "index": i, "frame": frame},
		))
	}

	for i, t := range c.triangles {
		fc.AddFeature(newFeature(
			triangleRing(pts[t.A], pts[t.B], pts[t.C]),
			map[string]interface{}{"kind": "triangle", "index": i, "frame": frame},
		))
	}

	return fc, nil
}

// NearestCorrespondence returns the index of the correspondence point in
// frame ("ref" or "robot") closest to p, measured with
// orb/planar.Distance, and its distance. It is a debugging helper, not
// part of the transform queries themselves; the preview renderer does not
// call it.
func NearestCorrespondence(c *Config, frame string, p Point) (int, float64, error) {
	if err := c.requireLoaded("NearestCorrespondence"); err != nil {
		return -1, 0, err
	}

	pts := c.refPoints
	if frame == "robot" {
		pts = c.robotPoints
	}
	if len(pts) == 0 {
		return -1, 0, nil
	}

	best := 0
	bestDist := planar.Distance(orb.Point{pts[0].X, pts[0].Y}, orb.Point{p.X, p.Y})
	for i := 1; i < len(pts); i++ {
		d := planar.Distance(orb.Point{pts[i].X, pts[i].Y}, orb.Point{p.X, p.Y})
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist, nil
}
