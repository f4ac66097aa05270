package detection

const (
	// ForegroundThreshold is the mid-scale cut: values strictly above it are
	// foreground.
	ForegroundThreshold = 128

	// MaxPoints caps the number of foreground points taken from a mask. It
	// bounds the cost of every later stage, which is linear or worse in the
	// point count.
	MaxPoints = 10000
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ExtractPoints scans m in row-major order and returns its foreground pixels.
// Scanning stops as soon as MaxPoints points have been collected.
func ExtractPoints(m Mask) []Point {
	width := m.Width()
	height := m.Height()

	points := make([]Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if m.At(x, y) <= ForegroundThreshold {
				continue
			}
			points = append(points, Point{X: x, Y: y})
			if len(points) >= MaxPoints {
				return points
			}
		}
	}
	return points
}
