package detection

import (
	"container/heap"

	"seehuhn.de/go/geom/vec"
)

// end names one of the two endpoints of a segment.
type end int

const (
	atStart end = 0
	atEnd   end = 1
)

// opposite returns the other endpoint.
func (e end) opposite() end {
	return 1 - e
}

// endPairs lists the endpoint combinations tried for every intersecting pair
// of segments, in the order candidates are registered.
var endPairs = [4][2]end{
	{atStart, atEnd},
	{atStart, atStart},
	{atEnd, atStart},
	{atEnd, atEnd},
}

// intersection is a candidate join between an endpoint of one segment and an
// endpoint of another. Lower scores are better.
type intersection struct {
	id    int
	score float64
	lines [2]int
	ends  [2]end
	point vec.Vec2
}

// other returns the segment on the far side of the join from line, and the
// endpoint of that segment the join is attached to.
func (it *intersection) other(line int) (int, end) {
	if it.lines[0] == line {
		return it.lines[1], it.ends[1]
	}
	return it.lines[0], it.ends[0]
}

// lineDetails is the per-segment record used while matching and walking.
// Candidate and join entries are indexes into joinGraph.intersections.
type lineDetails struct {
	extA, extB vec.Vec2
	candidates [2][]int
	join       [2]int
	done       bool
}

// joinGraph holds segments, their candidate intersections and the chosen
// joins as flat slices cross-referenced by index.
type joinGraph struct {
	lines         []Segment
	details       []lineDetails
	intersections []intersection
}

// extendSegment returns the endpoints of s lengthened to three times its
// length about its own endpoints.
func extendSegment(s Segment) (vec.Vec2, vec.Vec2) {
	v := s.A.Sub(s.B)
	return s.A.Add(v), s.B.Sub(v)
}

// segmentIntersection returns the point where segments a1-a2 and b1-b2 cross.
// Parallel, coincident and degenerate segments produce non-finite or
// out-of-range parameters and report no intersection.
func segmentIntersection(a1, a2, b1, b2 vec.Vec2) (vec.Vec2, bool) {
	s1 := a2.Sub(a1)
	s2 := b2.Sub(b1)

	den := -s2.X*s1.Y + s1.X*s2.Y
	s := (-s1.Y*(a1.X-b1.X) + s1.X*(a1.Y-b1.Y)) / den
	t := (s2.X*(a1.Y-b1.Y) - s2.Y*(a1.X-b1.X)) / den

	// NaN fails every comparison, infinities fail the range check.
	if !(s >= 0 && s <= 1 && t >= 0 && t <= 1) {
		return vec.Vec2{}, false
	}
	return a1.Add(s1.Mul(t)), true
}

// matchJoins finds candidate joins between the segments' endpoints and
// greedily accepts at most one per endpoint.
//
// Two segments are candidates only if their extended versions intersect.
// Each endpoint combination whose squared distance is below
// maxJointDistance² becomes a candidate scored by that squared distance. The
// best remaining candidate is accepted repeatedly; accepting it retires all
// other candidates on the two endpoints it uses.
func matchJoins(lines []Segment, maxJointDistance int) *joinGraph {
	threshold := float64(maxJointDistance) * float64(maxJointDistance)

	g := &joinGraph{
		lines:   lines,
		details: make([]lineDetails, len(lines)),
	}
	for i, l := range lines {
		d := &g.details[i]
		d.extA, d.extB = extendSegment(l)
		d.join = [2]int{-1, -1}
	}

	for l := range lines {
		for o := l + 1; o < len(lines); o++ {
			dl, do := &g.details[l], &g.details[o]
			point, ok := segmentIntersection(dl.extA, dl.extB, do.extA, do.extB)
			if !ok {
				continue
			}

			for _, pair := range endPairs {
				d := lines[l].endpoint(pair[0]).Sub(lines[o].endpoint(pair[1]))
				sq := d.X*d.X + d.Y*d.Y
				if !(sq < threshold) {
					continue
				}

				id := len(g.intersections)
				g.intersections = append(g.intersections, intersection{
					id:    id,
					score: sq,
					lines: [2]int{l, o},
					ends:  pair,
					point: point,
				})
				dl.candidates[pair[0]] = append(dl.candidates[pair[0]], id)
				do.candidates[pair[1]] = append(do.candidates[pair[1]], id)
			}
		}
	}

	g.resolve()
	return g
}

// resolve performs the greedy matching. Ties in score go to the candidate
// discovered first.
func (g *joinGraph) resolve() {
	available := make([]bool, len(g.intersections))
	q := make(candidateQueue, len(g.intersections))
	for i := range g.intersections {
		available[i] = true
		q[i] = &g.intersections[i]
	}
	heap.Init(&q)

	for q.Len() > 0 {
		it := heap.Pop(&q).(*intersection)
		if !available[it.id] {
			continue
		}

		for k := 0; k < 2; k++ {
			d := &g.details[it.lines[k]]
			e := it.ends[k]
			d.join[e] = it.id
			for _, id := range d.candidates[e] {
				available[id] = false
			}
		}
	}
}

// candidateQueue is a min-heap of intersections ordered by (score, id).
type candidateQueue []*intersection

func (q candidateQueue) Len() int { return len(q) }

func (q candidateQueue) Less(i, j int) bool {
	if q[i].score != q[j].score {
		return q[i].score < q[j].score
	}
	return q[i].id < q[j].id
}

func (q candidateQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *candidateQueue) Push(x any) {
	*q = append(*q, x.(*intersection))
}

func (q *candidateQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}
