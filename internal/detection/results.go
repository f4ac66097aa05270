package detection

// ShapePoint is one vertex of a reported shape.
type ShapePoint struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Role Role    `json:"role,omitempty"`
}

// Shape is a reported polyline, polygon or quadrilateral.
type Shape struct {
	// Points are the vertices in walking order. Closed shapes do not repeat
	// their first vertex.
	Points []ShapePoint `json:"points"`

	// Closed is true for polygons, and for polylines whose ends meet.
	Closed bool `json:"closed"`

	// VertexCount is len(Points).
	VertexCount int `json:"vertex_count"`

	// Length is the path length, including the closing edge when Closed.
	Length float64 `json:"length"`
}

// ShapesResult contains the shapes found by one Detect* call.
type ShapesResult struct {
	// Kind is "polylines", "polygons" or "quadrilaterals".
	Kind   string  `json:"kind"`
	Shapes []Shape `json:"shapes"`
	Count  int     `json:"count"`
	Params Params  `json:"params"`
}

// DetectPolylines runs FindPolylines on m. Polylines whose two ends meet are
// reported with Closed set; they keep their repeated closing point.
func DetectPolylines(m Mask, opts Options) (*ShapesResult, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	polylines := FindPolylines(m, opts.Params)
	return newShapesResult("polylines", polylines, false, opts), nil
}

// DetectPolygons runs FindPolygons on m.
func DetectPolygons(m Mask, opts Options) (*ShapesResult, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	polygons := FindPolygons(m, opts.Params)
	return newShapesResult("polygons", polygons, true, opts), nil
}

// DetectQuadrilaterals runs FindQuadrilaterals on m.
func DetectQuadrilaterals(m Mask, opts Options) (*ShapesResult, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	quads := FindQuadrilaterals(m, opts.Params)
	return newShapesResult("quadrilaterals", quads, true, opts), nil
}

func newShapesResult(kind string, polys []Polyline, closed bool, opts Options) *ShapesResult {
	shapes := make([]Shape, 0, len(polys))
	for _, poly := range polys {
		isClosed := closed || endsMeet(poly)

		points := make([]ShapePoint, len(poly))
		for i, v := range poly {
			c := toCoord(v.Pos, opts.Offset)
			points[i] = ShapePoint{X: c.X, Y: c.Y, Role: v.Role}
		}

		shapes = append(shapes, Shape{
			Points:      points,
			Closed:      isClosed,
			VertexCount: len(points),
			Length:      round1(poly.Length(closed)),
		})
	}

	return &ShapesResult{
		Kind:   kind,
		Shapes: shapes,
		Count:  len(shapes),
		Params: opts.Params,
	}
}

// endsMeet reports whether an open polyline returns to its start.
func endsMeet(poly Polyline) bool {
	if len(poly) <= 3 {
		return false
	}
	d := poly[0].Pos.Sub(poly[len(poly)-1].Pos)
	return d.X*d.X+d.Y*d.Y < closeTolerance
}
