package detection

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/vec"
)

func TestDirections_Layout(t *testing.T) {
	if len(directions) != 200 {
		t.Fatalf("Expected 200 directions, got %d", len(directions))
	}

	tests := []struct {
		row  int
		want projection
	}{
		{0, projection{slope: -0.02, alongY: true}},
		{1, projection{slope: 0, alongY: false}},
		{2, projection{slope: 0.02, alongY: false}},
		{3, projection{slope: 0, alongY: true}},
		{196, projection{slope: -1, alongY: true}},
		{198, projection{slope: 1, alongY: false}},
		{199, projection{slope: 0.98, alongY: true}},
	}
	for _, tt := range tests {
		got := directions[tt.row]
		if got.alongY != tt.want.alongY || math.Abs(got.slope-tt.want.slope) > 1e-12 {
			t.Errorf("directions[%d]: got %+v, want %+v", tt.row, got, tt.want)
		}
	}
}

func TestProjection_Signed(t *testing.T) {
	p := Point{X: 3, Y: 5}
	want := []int{-4, -5, -5, -3}
	for row, w := range want {
		if got := directions[row].project(p); got != w {
			t.Errorf("row %d: project(%v) = %d, want %d", row, p, got, w)
		}
	}

	// -0.04*20 - 10 = -10.8 floors away from zero
	if got := directions[4].project(Point{X: 10, Y: 20}); got != -11 {
		t.Errorf("row 4: got %d, want -11", got)
	}
}

func TestFindLines_Empty(t *testing.T) {
	if segments := FindLines(createMask(100, 100), 20, 4); segments != nil {
		t.Errorf("Expected no segments for empty mask, got %v", segments)
	}
}

func TestFindLines_BelowMinPoints(t *testing.T) {
	m := createMask(100, 100)
	drawLine(m, 10, 10, 19, 10)

	if segments := FindLines(m, 20, 4); segments != nil {
		t.Errorf("Expected no segments for 10 points with min 20, got %v", segments)
	}
}

func TestFindLines_Horizontal(t *testing.T) {
	m := createMask(100, 100)
	drawLine(m, 10, 50, 89, 50)

	segments := FindLines(m, 20, 4)
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}

	want := Segment{A: vec.Vec2{X: 89, Y: 50}, B: vec.Vec2{X: 10, Y: 50}, Support: 80}
	if diff := cmp.Diff(want, segments[0], cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("segment mismatch (-want +got):\n%s", diff)
	}
}

func TestFindLines_Vertical(t *testing.T) {
	m := createMask(100, 100)
	drawLine(m, 50, 10, 50, 89)

	segments := FindLines(m, 20, 4)
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}

	s := segments[0]
	if s.Support != 80 {
		t.Errorf("Support: got %d, want 80", s.Support)
	}
	if math.Abs(s.A.X-50) > 1e-9 || math.Abs(s.B.X-50) > 1e-9 {
		t.Errorf("Expected x=50 at both ends, got %v and %v", s.A, s.B)
	}
	if math.Abs(s.Length()-79) > 1e-9 {
		t.Errorf("Length: got %g, want 79", s.Length())
	}
}

func TestFindLines_Diagonal(t *testing.T) {
	m := createMask(100, 100)
	drawLine(m, 10, 10, 89, 89)

	segments := FindLines(m, 20, 4)
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}

	s := segments[0]
	if s.Support != 80 {
		t.Errorf("Support: got %d, want 80", s.Support)
	}

	angle := math.Mod(s.AngleDegrees()+360, 180)
	if math.Abs(angle-45) > 0.5 {
		t.Errorf("Expected 45 degree orientation, got %g", s.AngleDegrees())
	}
	if s.Spread > 1e-9 {
		t.Errorf("Expected zero spread for an exact diagonal, got %g", s.Spread)
	}
}

func TestFindLines_ParallelLines(t *testing.T) {
	m := createMask(100, 100)
	drawLine(m, 10, 20, 89, 20)
	drawLine(m, 10, 60, 89, 60)

	segments := FindLines(m, 20, 4)
	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segments))
	}

	ys := []float64{segments[0].A.Y, segments[1].A.Y}
	for i, s := range segments {
		if s.Support != 80 {
			t.Errorf("segment %d: Support got %d, want 80", i, s.Support)
		}
		if math.Abs(s.A.Y-s.B.Y) > 1e-9 {
			t.Errorf("segment %d: expected horizontal, got %v to %v", i, s.A, s.B)
		}
	}
	if ys[0] == ys[1] {
		t.Errorf("Expected distinct lines, both at y=%g", ys[0])
	}
}

func TestFindLines_SinglePointCluster(t *testing.T) {
	m := createMask(10, 10)
	m.Set(4, 4, 255)

	segments := FindLines(m, 1, 4)
	if len(segments) != 1 {
		t.Fatalf("Expected 1 degenerate segment, got %d", len(segments))
	}
	if segments[0].A != segments[0].B {
		t.Errorf("Expected A == B, got %v and %v", segments[0].A, segments[0].B)
	}
	if segments[0].A != (vec.Vec2{X: 4, Y: 4}) {
		t.Errorf("Expected segment at (4,4), got %v", segments[0].A)
	}
}

func TestFindLines_Deterministic(t *testing.T) {
	m := createRectangleMask(120, 120, 20, 20, 90, 70)
	drawLine(m, 10, 100, 110, 85)

	first := FindLines(m, 20, 4)
	second := FindLines(m, 20, 4)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("FindLines not deterministic (-first +second):\n%s", diff)
	}
}

func TestFindLines_SupportWithinPointCount(t *testing.T) {
	m := createRectangleMask(100, 100, 10, 10, 90, 90)
	drawLine(m, 10, 10, 90, 90)

	total := len(ExtractPoints(m))
	sum := 0
	for _, s := range FindLines(m, 20, 4) {
		if s.Support < 20 {
			t.Errorf("segment with support %d below minimum", s.Support)
		}
		sum += s.Support
	}
	if sum > total {
		t.Errorf("segments claim %d points, mask has %d", sum, total)
	}
}

func TestFitSegment_Collinear(t *testing.T) {
	cluster := []Point{{X: 0, Y: 0}, {X: 2, Y: 1}, {X: 4, Y: 2}, {X: 6, Y: 3}}
	s := fitSegment(cluster)

	if s.Support != 4 {
		t.Errorf("Support: got %d, want 4", s.Support)
	}
	want := math.Hypot(6, 3)
	if math.Abs(s.Length()-want) > 1e-9 {
		t.Errorf("Length: got %g, want %g", s.Length(), want)
	}
	if s.Spread > 1e-9 {
		t.Errorf("Spread: got %g, want 0", s.Spread)
	}
}
