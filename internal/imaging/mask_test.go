package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createFilledSquareImage creates a white image with a solid black square
func createFilledSquareImage(width, height, x1, y1, x2, y2 int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.Color(color.White)
			if x >= x1 && x < x2 && y >= y1 && y < y2 {
				c = color.Black
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPrepareMask_Default(t *testing.T) {
	img := createDrawingImage(100, 100)

	mask, offset, err := PrepareMask(img, DefaultMaskOptions())
	if err != nil {
		t.Fatalf("PrepareMask failed: %v", err)
	}
	if offset != (image.Point{}) {
		t.Errorf("offset: got %v, want (0,0)", offset)
	}
	if mask.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Errorf("bounds: got %v", mask.Bounds())
	}

	if mask.GrayAt(50, 50).Y != 255 {
		t.Errorf("line pixel: got %d, want 255", mask.GrayAt(50, 50).Y)
	}
	if mask.GrayAt(50, 10).Y != 0 {
		t.Errorf("background pixel: got %d, want 0", mask.GrayAt(50, 10).Y)
	}

	// 80 line pixels out of 10,000
	if got := MaskCoverage(mask); got < 0.0079 || got > 0.0081 {
		t.Errorf("coverage: got %g, want 0.008", got)
	}
}

func TestPrepareMask_NoInvert(t *testing.T) {
	img := createDrawingImage(100, 100)
	opts := DefaultMaskOptions()
	opts.Invert = false

	mask, _, err := PrepareMask(img, opts)
	if err != nil {
		t.Fatalf("PrepareMask failed: %v", err)
	}
	if mask.GrayAt(50, 50).Y != 0 {
		t.Errorf("line pixel: got %d, want 0", mask.GrayAt(50, 50).Y)
	}
	if mask.GrayAt(50, 10).Y != 255 {
		t.Errorf("background pixel: got %d, want 255", mask.GrayAt(50, 10).Y)
	}
}

func TestPrepareMask_Region(t *testing.T) {
	img := createDrawingImage(100, 100)
	opts := DefaultMaskOptions()
	opts.Region = &Region{X1: 10, Y1: 40, X2: 60, Y2: 70}

	mask, offset, err := PrepareMask(img, opts)
	if err != nil {
		t.Fatalf("PrepareMask failed: %v", err)
	}
	if offset != image.Pt(10, 40) {
		t.Errorf("offset: got %v, want (10,40)", offset)
	}
	if mask.Bounds() != image.Rect(0, 0, 50, 30) {
		t.Errorf("bounds: got %v, want 50x30 at origin", mask.Bounds())
	}
	if mask.GrayAt(20, 10).Y != 255 {
		t.Errorf("line pixel (30,50) in region: got %d, want 255", mask.GrayAt(20, 10).Y)
	}
}

func TestPrepareMask_InvalidOptions(t *testing.T) {
	img := createDrawingImage(100, 100)

	tests := []struct {
		name string
		opts MaskOptions
	}{
		{"unknown mode", MaskOptions{Threshold: 128, Mode: "blur"}},
		{"negative dilation", MaskOptions{Threshold: 128, DilateRadius: -1}},
		{"region outside", MaskOptions{Threshold: 128, Region: &Region{X1: 50, Y1: 50, X2: 150, Y2: 90}}},
		{"negative region", MaskOptions{Threshold: 128, Region: &Region{X1: -5, Y1: 0, X2: 10, Y2: 10}}},
		{"inverted region", MaskOptions{Threshold: 128, Region: &Region{X1: 60, Y1: 10, X2: 20, Y2: 50}}},
		{"empty region", MaskOptions{Threshold: 128, Region: &Region{X1: 20, Y1: 10, X2: 20, Y2: 50}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := PrepareMask(img, tt.opts); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestPrepareMask_Dilate(t *testing.T) {
	img := createDrawingImage(100, 100)

	plain, _, err := PrepareMask(img, DefaultMaskOptions())
	if err != nil {
		t.Fatalf("PrepareMask failed: %v", err)
	}

	opts := DefaultMaskOptions()
	opts.DilateRadius = 2
	dilated, _, err := PrepareMask(img, opts)
	if err != nil {
		t.Fatalf("PrepareMask with dilation failed: %v", err)
	}

	if dilated.GrayAt(50, 50).Y != 255 {
		t.Errorf("line pixel after dilation: got %d, want 255", dilated.GrayAt(50, 50).Y)
	}
	if MaskCoverage(dilated) <= MaskCoverage(plain) {
		t.Errorf("dilation did not grow the foreground: %g <= %g", MaskCoverage(dilated), MaskCoverage(plain))
	}
	if b := dilated.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("dilated size: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}
	for i, v := range dilated.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("dilated mask is not binary: pixel %d is %d", i, v)
		}
	}
}

func TestPrepareMask_Edges(t *testing.T) {
	img := createFilledSquareImage(100, 100, 30, 30, 70, 70)
	opts := DefaultMaskOptions()
	opts.Mode = MaskModeEdges

	mask, _, err := PrepareMask(img, opts)
	if err != nil {
		t.Fatalf("PrepareMask failed: %v", err)
	}

	if mask.GrayAt(50, 50).Y != 0 {
		t.Errorf("inside of filled square: got %d, want 0", mask.GrayAt(50, 50).Y)
	}
	coverage := MaskCoverage(mask)
	if coverage == 0 || coverage > 0.2 {
		t.Errorf("edge coverage: got %g, want a thin outline", coverage)
	}

	// The same square in threshold mode is solid
	solid, _, err := PrepareMask(img, DefaultMaskOptions())
	if err != nil {
		t.Fatalf("PrepareMask failed: %v", err)
	}
	if solid.GrayAt(50, 50).Y != 255 {
		t.Errorf("inside of filled square in threshold mode: got %d, want 255", solid.GrayAt(50, 50).Y)
	}
}

func TestPrepareMask_Transparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for x := 5; x < 35; x++ {
		img.Set(x, 20, color.NRGBA{0, 0, 0, 255})
	}

	mask, _, err := PrepareMask(img, DefaultMaskOptions())
	if err != nil {
		t.Fatalf("PrepareMask failed: %v", err)
	}
	if mask.GrayAt(20, 20).Y != 255 {
		t.Errorf("line pixel: got %d, want 255", mask.GrayAt(20, 20).Y)
	}
	if mask.GrayAt(20, 5).Y != 0 {
		t.Errorf("transparent pixel: got %d, want 0", mask.GrayAt(20, 5).Y)
	}
}

func TestMaskCoverage_Empty(t *testing.T) {
	if got := MaskCoverage(image.NewGray(image.Rect(0, 0, 0, 0))); got != 0 {
		t.Errorf("got %g, want 0", got)
	}
}
