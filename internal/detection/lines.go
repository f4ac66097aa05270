package detection

import (
	"image"
	"math"

	"seehuhn.de/go/geom/vec"
)

// Coord is a floating point pixel coordinate.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line represents a detected line segment.
type Line struct {
	Start           Coord   `json:"start"`
	End             Coord   `json:"end"`
	Length          float64 `json:"length"`
	AngleDegrees    float64 `json:"angle_degrees"`
	Support         int     `json:"support"`
	Spread          float64 `json:"spread"`
	ThicknessApprox int     `json:"thickness_approx"`
	HasArrowStart   bool    `json:"has_arrow_start"`
	HasArrowEnd     bool    `json:"has_arrow_end"`
}

// LinesResult contains detected lines
type LinesResult struct {
	Lines  []Line `json:"lines"`
	Count  int    `json:"count"`
	Params Params `json:"params"`
}

// Options controls the Detect* functions.
type Options struct {
	Params

	// Offset is added to every output coordinate. Use it to report results
	// in the coordinates of a larger image the mask was cut from.
	Offset image.Point

	// DetectArrows enables arrow head detection at line ends.
	DetectArrows bool
}

// DetectLines runs FindLines on m and describes each segment.
//
// Thickness is estimated by sampling the mask across the middle of the
// segment. With opts.DetectArrows set, each end is also checked for two
// wings at about 45 degrees to the segment.
//
// Returns an error only for invalid parameters.
func DetectLines(m Mask, opts Options) (*LinesResult, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}

	segments := FindLines(m, opts.MinPoints, opts.MaxDeviation)

	lines := make([]Line, 0, len(segments))
	for _, s := range segments {
		line := Line{
			Start:           toCoord(s.A, opts.Offset),
			End:             toCoord(s.B, opts.Offset),
			Length:          round1(s.Length()),
			AngleDegrees:    round1(s.AngleDegrees()),
			Support:         s.Support,
			Spread:          round2(s.Spread),
			ThicknessApprox: estimateLineThickness(m, s.A, s.B),
		}
		if opts.DetectArrows {
			line.HasArrowStart = detectArrowHead(m, s.A, s.B)
			line.HasArrowEnd = detectArrowHead(m, s.B, s.A)
		}
		lines = append(lines, line)
	}

	return &LinesResult{
		Lines:  lines,
		Count:  len(lines),
		Params: opts.Params,
	}, nil
}

// foreground reports whether (x, y) is a foreground pixel of m.
func foreground(m Mask, x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width() || y >= m.Height() {
		return false
	}
	return m.At(x, y) > ForegroundThreshold
}

// estimateLineThickness estimates line thickness by sampling perpendicular to line
func estimateLineThickness(m Mask, a, b vec.Vec2) int {
	d := b.Sub(a)
	length := d.Length()
	if length == 0 {
		return 1
	}

	perpX := -d.Y / length
	perpY := d.X / length
	mid := a.Add(d.Mul(0.5))

	thickness := 0
	for s := -10; s <= 10; s++ {
		px := int(math.Round(mid.X + float64(s)*perpX))
		py := int(math.Round(mid.Y + float64(s)*perpY))
		if foreground(m, px, py) {
			thickness++
		}
	}

	if thickness < 1 {
		thickness = 1
	}
	return thickness
}

// detectArrowHead checks for arrow wings at tip, the end of the segment that
// runs from other to tip.
func detectArrowHead(m Mask, tip, other vec.Vec2) bool {
	d := tip.Sub(other)
	length := d.Length()
	if length == 0 {
		return false
	}
	dx := d.X / length
	dy := d.Y / length

	const checkDist = 10
	cos45 := math.Cos(math.Pi / 4)
	sin45 := math.Sin(math.Pi / 4)

	leftX := dx*cos45 - dy*sin45
	leftY := dx*sin45 + dy*cos45
	rightX := dx*cos45 + dy*sin45
	rightY := -dx*sin45 + dy*cos45

	leftCount := 0
	rightCount := 0
	for s := 1; s <= checkDist; s++ {
		if foreground(m, int(math.Round(tip.X-float64(s)*leftX)), int(math.Round(tip.Y-float64(s)*leftY))) {
			leftCount++
		}
		if foreground(m, int(math.Round(tip.X-float64(s)*rightX)), int(math.Round(tip.Y-float64(s)*rightY))) {
			rightCount++
		}
	}

	return leftCount >= 3 && rightCount >= 3
}

func toCoord(v vec.Vec2, offset image.Point) Coord {
	return Coord{
		X: round2(v.X + float64(offset.X)),
		Y: round2(v.Y + float64(offset.Y)),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
