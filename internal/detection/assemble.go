package detection

import "seehuhn.de/go/geom/vec"

// Role tags the part a vertex plays in a recognised shape.
type Role string

const (
	// RoleNone marks a plain polyline vertex.
	RoleNone Role = ""

	// RoleRectCorner marks a corner of a quadrilateral.
	RoleRectCorner Role = "rect_corner"
)

// Vertex is one point of a polyline.
type Vertex struct {
	Pos  vec.Vec2
	Role Role
}

// Polyline is an ordered sequence of vertices. Polygons are stored without
// repeating the first vertex at the end.
type Polyline []Vertex

// Points returns the vertex positions.
func (p Polyline) Points() []vec.Vec2 {
	pts := make([]vec.Vec2, len(p))
	for i, v := range p {
		pts[i] = v.Pos
	}
	return pts
}

// Length returns the summed length of the polyline's edges. When closed is
// set the edge from the last vertex back to the first is included.
func (p Polyline) Length(closed bool) float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i].Pos.Sub(p[i-1].Pos).Length()
	}
	if closed && len(p) > 1 {
		total += p[0].Pos.Sub(p[len(p)-1].Pos).Length()
	}
	return total
}

// AssemblePolylines joins segments whose endpoints meet near a common
// intersection into polylines.
//
// Joins are chosen by matchJoins using maxJointDistance. Each polyline starts
// from the highest-indexed segment not yet used, walks forward through the
// joins at segment ends and then backward from its start. Joined endpoints
// are replaced by the intersection point; free endpoints are kept. A chain
// that returns to its first segment repeats its first point at the end, which
// is what ClosePolygons looks for.
func AssemblePolylines(lines []Segment, maxJointDistance int) []Polyline {
	if len(lines) == 0 {
		return nil
	}
	return matchJoins(lines, maxJointDistance).polylines()
}

// polylines walks the join graph until every segment has been used once.
func (g *joinGraph) polylines() []Polyline {
	var result []Polyline
	for {
		index := -1
		for l := len(g.details) - 1; l >= 0; l-- {
			if !g.details[l].done {
				index = l
				break
			}
		}
		if index < 0 {
			break
		}

		forward := g.walk(index, atEnd)
		g.details[index].done = false
		backward := g.walk(index, atStart)

		poly := make(Polyline, 0, len(backward)+len(forward))
		for i := len(backward) - 1; i >= 0; i-- {
			poly = append(poly, Vertex{Pos: backward[i]})
		}
		for _, p := range forward {
			poly = append(poly, Vertex{Pos: p})
		}
		result = append(result, poly)
	}
	return result
}

// walk follows joins starting at segment start, leaving it through exit. It
// marks each segment it passes as done and stops at a free endpoint or at a
// segment that is already done. Points are returned in walking order.
func (g *joinGraph) walk(start int, exit end) []vec.Vec2 {
	var points []vec.Vec2
	idx := start
	for {
		d := &g.details[idx]
		if d.done {
			break
		}
		d.done = true

		join := d.join[exit]
		if join < 0 {
			points = append(points, g.lines[idx].endpoint(exit))
			break
		}

		it := &g.intersections[join]
		points = append(points, it.point)

		next, arrived := it.other(idx)
		idx = next
		exit = arrived.opposite()
	}
	return points
}
