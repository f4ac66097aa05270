package detection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/vec"
)

func seg(ax, ay, bx, by float64) Segment {
	return Segment{A: vec.Vec2{X: ax, Y: ay}, B: vec.Vec2{X: bx, Y: by}}
}

func polyline(points ...vec.Vec2) Polyline {
	p := make(Polyline, len(points))
	for i, pt := range points {
		p[i] = Vertex{Pos: pt}
	}
	return p
}

func v2(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestExtendSegment(t *testing.T) {
	a, b := extendSegment(seg(0, 0, 10, 0))
	if a != v2(-10, 0) || b != v2(20, 0) {
		t.Errorf("got %v %v, want (-10,0) (20,0)", a, b)
	}
}

func TestSegmentIntersection(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 vec.Vec2
		want           vec.Vec2
		ok             bool
	}{
		{"crossing", v2(0, 0), v2(10, 10), v2(0, 10), v2(10, 0), v2(5, 5), true},
		{"touching end", v2(0, 0), v2(10, 0), v2(10, -5), v2(10, 5), v2(10, 0), true},
		{"parallel", v2(0, 0), v2(10, 0), v2(0, 5), v2(10, 5), vec.Vec2{}, false},
		{"collinear", v2(0, 0), v2(10, 0), v2(5, 0), v2(15, 0), vec.Vec2{}, false},
		{"degenerate", v2(3, 3), v2(3, 3), v2(0, 0), v2(10, 10), vec.Vec2{}, false},
		{"apart", v2(0, 0), v2(10, 0), v2(20, -5), v2(20, 5), vec.Vec2{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := segmentIntersection(tt.a1, tt.a2, tt.b1, tt.b2)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got, approx); ok && diff != "" {
				t.Errorf("point mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatchJoins_GreedyExclusive(t *testing.T) {
	lines := []Segment{
		seg(0, 50, 48, 50),
		seg(50, 52, 50, 100),
		seg(51, 49, 100, 0),
	}
	g := matchJoins(lines, 10)

	if len(g.intersections) != 3 {
		t.Fatalf("Expected 3 candidates, got %d", len(g.intersections))
	}
	if g.details[0].join[atEnd] != 0 {
		t.Errorf("line 0 end: got join %d, want 0", g.details[0].join[atEnd])
	}
	if g.details[1].join[atStart] != 0 {
		t.Errorf("line 1 start: got join %d, want 0", g.details[1].join[atStart])
	}
	if g.details[2].join != [2]int{-1, -1} {
		t.Errorf("line 2: expected no joins, got %v", g.details[2].join)
	}
}

func TestMatchJoins_TieGoesToFirstDiscovered(t *testing.T) {
	lines := []Segment{
		seg(0, 50, 48, 50),
		seg(50, 52, 50, 100),
		seg(50, 48, 50, 0),
	}
	g := matchJoins(lines, 10)

	if len(g.intersections) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(g.intersections))
	}
	if g.intersections[0].score != g.intersections[1].score {
		t.Fatalf("Expected tied scores, got %g and %g", g.intersections[0].score, g.intersections[1].score)
	}
	if g.details[1].join[atStart] != 0 {
		t.Errorf("line 1 should win the tie, got join %d", g.details[1].join[atStart])
	}
	if g.details[2].join[atStart] != -1 {
		t.Errorf("line 2 should stay free, got join %d", g.details[2].join[atStart])
	}
}

func TestMatchJoins_TooFar(t *testing.T) {
	lines := []Segment{
		seg(0, 50, 30, 50),
		seg(50, 60, 50, 100),
	}
	g := matchJoins(lines, 10)

	if len(g.intersections) != 0 {
		t.Errorf("Expected no candidates, got %d", len(g.intersections))
	}
}

func TestMatchJoins_ZeroDistance(t *testing.T) {
	lines := []Segment{
		seg(0, 0, 10, 0),
		seg(10, 0, 10, 10),
	}
	g := matchJoins(lines, 0)

	if len(g.intersections) != 0 {
		t.Errorf("Expected no candidates with zero joint distance, got %d", len(g.intersections))
	}
}

func TestAssemblePolylines_Empty(t *testing.T) {
	if got := AssemblePolylines(nil, 10); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
}

func TestAssemblePolylines_Single(t *testing.T) {
	got := AssemblePolylines([]Segment{seg(1, 2, 30, 40)}, 10)
	want := []Polyline{polyline(v2(1, 2), v2(30, 40))}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("polyline mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemblePolylines_Disjoint(t *testing.T) {
	lines := []Segment{
		seg(0, 0, 50, 0),
		seg(0, 30, 50, 30),
	}
	got := AssemblePolylines(lines, 10)
	want := []Polyline{
		polyline(v2(0, 30), v2(50, 30)),
		polyline(v2(0, 0), v2(50, 0)),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("polylines mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemblePolylines_Corner(t *testing.T) {
	lines := []Segment{
		seg(15, 20, 80, 20),
		seg(20, 25, 20, 80),
	}
	got := AssemblePolylines(lines, 10)
	want := []Polyline{polyline(v2(80, 20), v2(20, 20), v2(20, 80))}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("polyline mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemblePolylines_Loop(t *testing.T) {
	lines := []Segment{
		seg(12, 10, 88, 10), // top
		seg(90, 12, 90, 88), // right
		seg(88, 90, 12, 90), // bottom
		seg(10, 88, 10, 12), // left
	}
	got := AssemblePolylines(lines, 10)
	want := []Polyline{polyline(v2(10, 90), v2(10, 10), v2(90, 10), v2(90, 90), v2(10, 90))}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("polyline mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemblePolylines_UsesEverySegmentOnce(t *testing.T) {
	lines := []Segment{
		seg(12, 10, 88, 10),
		seg(90, 12, 90, 88),
		seg(88, 90, 12, 90),
		seg(10, 88, 10, 12),
		seg(200, 200, 260, 200),
		seg(300, 0, 300, 60),
	}
	got := AssemblePolylines(lines, 10)
	if len(got) != 3 {
		t.Fatalf("Expected 3 polylines, got %d", len(got))
	}

	// The loop repeats its first point; the free segments give two points each.
	total := 0
	for _, p := range got {
		total += len(p)
	}
	if total != 5+2+2 {
		t.Errorf("Expected 9 points in total, got %d", total)
	}
}

func TestAssemblePolylines_Degenerate(t *testing.T) {
	lines := []Segment{
		seg(5, 5, 5, 5),
		seg(0, 0, 40, 0),
	}
	got := AssemblePolylines(lines, 10)
	if len(got) != 2 {
		t.Fatalf("Expected 2 polylines, got %d", len(got))
	}
	if diff := cmp.Diff(polyline(v2(5, 5), v2(5, 5)), got[1]); diff != "" {
		t.Errorf("degenerate polyline mismatch (-want +got):\n%s", diff)
	}
}
