package detection

import "fmt"

// closeTolerance is the squared distance under which a polyline's first and
// last points are considered the same point.
const closeTolerance = 1.5

// Params holds the tunables shared by every stage of the pipeline.
type Params struct {
	// MinPoints is the minimum cluster size for a segment to be accepted.
	MinPoints int `json:"min_points"`

	// MaxDeviation is the vote tolerance, in projected pixels, used while
	// clustering.
	MaxDeviation int `json:"max_deviation"`

	// MaxJointDistance is the largest distance between two segment endpoints
	// that may still be joined. It is squared internally; 0 disables joining.
	MaxJointDistance int `json:"max_joint_distance"`
}

// DefaultParams returns parameters suited to clean, one to three pixel wide
// strokes.
func DefaultParams() Params {
	return Params{
		MinPoints:        20,
		MaxDeviation:     4,
		MaxJointDistance: 10,
	}
}

// Validate reports parameters the pipeline cannot work with.
func (p Params) Validate() error {
	if p.MinPoints < 2 {
		return fmt.Errorf("min_points must be at least 2, got %d", p.MinPoints)
	}
	if p.MaxDeviation < 1 {
		return fmt.Errorf("max_deviation must be at least 1, got %d", p.MaxDeviation)
	}
	if p.MaxJointDistance < 0 {
		return fmt.Errorf("max_joint_distance must not be negative, got %d", p.MaxJointDistance)
	}
	return nil
}

// FindPolylines extracts segments from m and joins them into polylines.
func FindPolylines(m Mask, p Params) []Polyline {
	lines := FindLines(m, p.MinPoints, p.MaxDeviation)
	return AssemblePolylines(lines, p.MaxJointDistance)
}

// FindPolygons returns the closed polylines of m as polygons.
func FindPolygons(m Mask, p Params) []Polyline {
	return ClosePolygons(FindPolylines(m, p))
}

// FindQuadrilaterals returns the four-sided polygons of m with every vertex
// tagged RoleRectCorner.
func FindQuadrilaterals(m Mask, p Params) []Polyline {
	return FilterQuadrilaterals(FindPolygons(m, p))
}

// ClosePolygons keeps the polylines that have more than three points and
// whose first and last points lie within closeTolerance (squared) of each
// other. The repeated closing point is dropped. Order is preserved.
func ClosePolygons(polylines []Polyline) []Polyline {
	var polygons []Polyline
	for _, poly := range polylines {
		if len(poly) <= 3 {
			continue
		}

		d := poly[0].Pos.Sub(poly[len(poly)-1].Pos)
		if d.X*d.X+d.Y*d.Y >= closeTolerance {
			continue
		}

		closed := make(Polyline, len(poly)-1)
		copy(closed, poly[:len(poly)-1])
		polygons = append(polygons, closed)
	}
	return polygons
}

// FilterQuadrilaterals keeps the polygons with exactly four vertices and tags
// each vertex as a rectangle corner. The input is not modified.
func FilterQuadrilaterals(polygons []Polyline) []Polyline {
	var quads []Polyline
	for _, poly := range polygons {
		if len(poly) != 4 {
			continue
		}

		quad := make(Polyline, 4)
		for i, v := range poly {
			quad[i] = Vertex{Pos: v.Pos, Role: RoleRectCorner}
		}
		quads = append(quads, quad)
	}
	return quads
}
