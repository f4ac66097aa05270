package detection

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
	"seehuhn.de/go/geom/vec"
)

const (
	// directionSteps is the number of slope steps per projection family.
	directionSteps = 50

	// directionCount is the size of the direction bank: four families of
	// directionSteps slopes each.
	directionCount = 4 * directionSteps

	// maxHistogramBins bounds the histogram built for each direction.
	maxHistogramBins = 10000
)

// Segment is a straight line fitted to a cluster of foreground points.
//
// A and B are the endpoints. Support is the number of points in the cluster
// and Spread the standard deviation of their perpendicular distances to the
// fitted line. A Segment may be degenerate (A == B).
type Segment struct {
	A       vec.Vec2
	B       vec.Vec2
	Support int
	Spread  float64
}

// Length returns the distance between the endpoints.
func (s Segment) Length() float64 {
	return s.B.Sub(s.A).Length()
}

// AngleDegrees returns the direction from A to B in degrees, in (-180, 180].
// Y grows downward, so positive angles turn clockwise on screen.
func (s Segment) AngleDegrees() float64 {
	d := s.B.Sub(s.A)
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}

// endpoint returns A for atStart and B for atEnd.
func (s Segment) endpoint(e end) vec.Vec2 {
	if e == atStart {
		return s.A
	}
	return s.B
}

// projection is one entry of the direction bank. It maps a point to a signed
// offset along one axis: slope*y - x when alongY is set, slope*x - y
// otherwise. Points sharing an offset lie on a common line with that slope.
type projection struct {
	slope  float64
	alongY bool
}

// project returns the floored, signed offset of p.
func (d projection) project(p Point) int {
	if d.alongY {
		return int(math.Floor(d.slope*float64(p.Y) - float64(p.X)))
	}
	return int(math.Floor(d.slope*float64(p.X) - float64(p.Y)))
}

// directions holds the 200 projections, ordered as four rows per slope step.
// Together they cover directions from 0 to 180 degrees.
var directions = buildDirections()

func buildDirections() [directionCount]projection {
	var bank [directionCount]projection
	for c := 0; c < directionSteps; c++ {
		lo := float64(c) / directionSteps
		hi := float64(c+1) / directionSteps
		bank[4*c+0] = projection{slope: -hi, alongY: true}
		bank[4*c+1] = projection{slope: -lo, alongY: false}
		bank[4*c+2] = projection{slope: hi, alongY: false}
		bank[4*c+3] = projection{slope: lo, alongY: true}
	}
	return bank
}

// rowScore is the best histogram bin found for one direction.
type rowScore struct {
	count int
	value float64
}

// clusterer holds the working set of a FindLines call.
type clusterer struct {
	points       []Point
	taken        []bool
	offsets      [directionCount][]int
	maxDeviation int
}

func newClusterer(points []Point, maxDeviation int) *clusterer {
	c := &clusterer{
		points:       points,
		taken:        make([]bool, len(points)),
		maxDeviation: maxDeviation,
	}
	for r, d := range directions {
		row := make([]int, len(points))
		for i, p := range points {
			row[i] = d.project(p)
		}
		c.offsets[r] = row
	}
	return c
}

// scoreRow builds the histogram of the untaken offsets in row r and returns
// its fullest bin.
func (c *clusterer) scoreRow(r int) rowScore {
	row := c.offsets[r]

	lo, hi := math.MaxInt, math.MinInt
	remaining := 0
	for i, v := range row {
		if c.taken[i] {
			continue
		}
		remaining++
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if remaining == 0 {
		return rowScore{}
	}

	h := NewHistogram(lo, hi, c.maxDeviation/2, maxHistogramBins)
	for i, v := range row {
		if !c.taken[i] {
			h.Add(v)
		}
	}

	bin := h.MaxHits()
	return rowScore{count: h.Count(bin), value: h.Value(bin)}
}

// bestRow scores every direction and returns the one with the largest
// cluster. Rows are scored concurrently but reduced in row order, so the
// first row with the strictly greatest count wins.
func (c *clusterer) bestRow() (int, rowScore) {
	var scores [directionCount]rowScore

	workers := runtime.GOMAXPROCS(0)
	if workers > directionCount {
		workers = directionCount
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(first int) {
			defer wg.Done()
			for r := first; r < directionCount; r += workers {
				scores[r] = c.scoreRow(r)
			}
		}(w)
	}
	wg.Wait()

	best := 0
	var bestScore rowScore
	for r, s := range scores {
		if s.count > bestScore.count {
			best = r
			bestScore = s
		}
	}
	return best, bestScore
}

// take marks every untaken point of row r whose offset lies within
// maxDeviation of value and returns them.
func (c *clusterer) take(r int, value float64) []Point {
	row := c.offsets[r]
	cluster := make([]Point, 0)
	for i, v := range row {
		if c.taken[i] {
			continue
		}
		if math.Abs(value-float64(v)) < float64(c.maxDeviation) {
			c.taken[i] = true
			cluster = append(cluster, c.points[i])
		}
	}
	return cluster
}

// FindLines extracts straight segments from the foreground of m.
//
// Parameters:
//   - m: Source mask. Pixels above ForegroundThreshold are foreground; at
//     most MaxPoints of them are used.
//   - minPoints: Minimum cluster size for a segment to be emitted.
//   - maxDeviation: Width of the band, in projected pixels, that a point may
//     be from a cluster's centre and still belong to it.
//
// Returns the segments in extraction order, largest cluster first. A mask
// with fewer than minPoints foreground pixels yields no segments.
//
// # Algorithm
//
// Every point is projected onto a bank of 200 directions spread over 0-180
// degrees. Each round:
//
//  1. For every direction, the untaken offsets are voted into a Histogram
//     with deviation maxDeviation/2 and the fullest bin is found.
//  2. The direction with the globally largest bin wins. If that bin holds
//     fewer than minPoints votes, extraction stops.
//  3. Untaken points whose offset is within maxDeviation of the bin value
//     form the cluster and are marked taken. A cluster smaller than
//     minPoints also stops extraction.
//  4. A segment is fitted to the cluster (see fitSegment).
//
// This is a coarse multi-angle Hough transform costing O(200·n) per round.
func FindLines(m Mask, minPoints, maxDeviation int) []Segment {
	points := ExtractPoints(m)
	if len(points) == 0 || len(points) < minPoints {
		return nil
	}

	c := newClusterer(points, maxDeviation)

	var segments []Segment
	for {
		row, score := c.bestRow()
		if score.count == 0 || score.count < minPoints {
			break
		}

		cluster := c.take(row, score.value)
		if len(cluster) == 0 || len(cluster) < minPoints {
			break
		}

		segments = append(segments, fitSegment(cluster))
	}
	return segments
}

// fitSegment fits a segment through a cluster of points.
//
// The points are centred on their centroid and the point farthest from it
// fixes the axis: every offset on the far side of the perpendicular through
// the centroid is mirrored so that all offsets point the same way. Their sum
// gives the direction, which is scaled to the farthest point's distance and
// applied on both sides of the centroid.
func fitSegment(cluster []Point) Segment {
	n := len(cluster)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range cluster {
		xs[i] = float64(p.X)
		ys[i] = float64(p.Y)
	}
	centre := vec.Vec2{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}

	offsets := make([]vec.Vec2, n)
	var far vec.Vec2
	farSq := 0.0
	for i := range cluster {
		o := vec.Vec2{X: xs[i] - centre.X, Y: ys[i] - centre.Y}
		offsets[i] = o
		if sq := o.X*o.X + o.Y*o.Y; sq > farSq {
			farSq = sq
			far = o
		}
	}

	// Perpendicular to the far offset; its cross product sign splits the
	// points into the two half planes.
	perp := vec.Vec2{X: -far.Y, Y: far.X}

	var sum vec.Vec2
	for _, o := range offsets {
		if perp.X*o.Y-perp.Y*o.X > 0 {
			o = o.Mul(-1)
		}
		sum = sum.Add(o)
	}

	length := sum.Length()
	if farSq == 0 || length == 0 || math.IsNaN(length) {
		return Segment{A: centre, B: centre, Support: n}
	}

	dir := sum.Mul(math.Sqrt(farSq) / length)
	return Segment{
		A:       centre.Sub(dir),
		B:       centre.Add(dir),
		Support: n,
		Spread:  spread(offsets, dir),
	}
}

// spread returns the standard deviation of the offsets' signed distances to
// the axis through the origin along dir.
func spread(offsets []vec.Vec2, dir vec.Vec2) float64 {
	if len(offsets) < 2 {
		return 0
	}
	l := dir.Length()
	nx, ny := -dir.Y/l, dir.X/l

	dists := make([]float64, len(offsets))
	for i, o := range offsets {
		dists[i] = o.X*nx + o.Y*ny
	}
	return stat.StdDev(dists, nil)
}
