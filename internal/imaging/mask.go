package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// Mask preparation modes.
const (
	// MaskModeThreshold classifies pixels by brightness. Combined with Invert it
	// selects dark strokes on a light background.
	MaskModeThreshold = "threshold"

	// MaskModeEdges runs edge detection first, so filled shapes contribute
	// their outlines instead of their whole area.
	MaskModeEdges = "edges"
)

// Region is a rectangle in image coordinates. (X1,Y1) is inclusive and
// (X2,Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// MaskOptions controls how a decoded image is turned into a binary mask.
type MaskOptions struct {
	// Threshold is the brightness at or above which a pixel becomes
	// foreground, after the optional inversion.
	Threshold uint8 `json:"threshold"`

	// Invert flips brightness before thresholding. Ignored in edges mode.
	Invert bool `json:"invert"`

	// Mode is MaskModeThreshold or MaskModeEdges. Empty means threshold.
	Mode string `json:"mode"`

	// DilateRadius grows the foreground by this many pixels. Zero disables
	// dilation.
	DilateRadius float64 `json:"dilate"`

	// Region restricts the mask to part of the image. Nil means the whole
	// image.
	Region *Region `json:"region,omitempty"`
}

// DefaultMaskOptions returns options for dark line art on a light
// background.
func DefaultMaskOptions() MaskOptions {
	return MaskOptions{
		Threshold: 128,
		Invert:    true,
		Mode:      MaskModeThreshold,
	}
}

// key returns a string identifying the options, used for caching.
func (o MaskOptions) key() string {
	region := "full"
	if o.Region != nil {
		region = fmt.Sprintf("%d,%d,%d,%d", o.Region.X1, o.Region.Y1, o.Region.X2, o.Region.Y2)
	}
	return fmt.Sprintf("%d|%t|%s|%g|%s", o.Threshold, o.Invert, o.Mode, o.DilateRadius, region)
}

// PrepareMask converts img into a binary mask with foreground pixels at 255
// and background at 0.
//
// Parameters:
//   - img: Decoded source image.
//   - opts: Threshold, inversion, mode, dilation and region settings.
//
// Returns:
//   - *image.Gray: The mask, with its origin at (0,0).
//   - image.Point: Position of the mask's origin in img. Add it to mask
//     coordinates to get image coordinates.
//   - error: Non-nil for an unknown mode or a region outside the image.
//
// # Pipeline
//
//  1. Crop to the region and flatten transparency onto white
//  2. Threshold mode: invert if requested. Edges mode: edge detection
//  3. Threshold at opts.Threshold
//  4. Dilate when opts.DilateRadius > 0
func PrepareMask(img image.Image, opts MaskOptions) (*image.Gray, image.Point, error) {
	mode := opts.Mode
	if mode == "" {
		mode = MaskModeThreshold
	}
	if mode != MaskModeThreshold && mode != MaskModeEdges {
		return nil, image.Point{}, fmt.Errorf("unknown mask mode: %s", opts.Mode)
	}
	if opts.DilateRadius < 0 {
		return nil, image.Point{}, fmt.Errorf("dilate radius must not be negative, got %g", opts.DilateRadius)
	}

	rect := img.Bounds()
	if opts.Region != nil {
		r := opts.Region.Rect()
		if r.Min.X < rect.Min.X || r.Min.Y < rect.Min.Y || r.Max.X > rect.Max.X || r.Max.Y > rect.Max.Y {
			return nil, image.Point{}, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y)
		}
		if opts.Region.X1 >= opts.Region.X2 || opts.Region.Y1 >= opts.Region.Y2 {
			return nil, image.Point{}, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
		}
		rect = r
	}
	if rect.Empty() {
		return nil, image.Point{}, fmt.Errorf("image is empty")
	}

	cropped := imaging.Crop(img, rect)
	background := imaging.New(cropped.Bounds().Dx(), cropped.Bounds().Dy(), color.White)
	flat := imaging.Overlay(background, cropped, image.Pt(0, 0), 1.0)

	var prepared image.Image = flat
	switch mode {
	case MaskModeEdges:
		prepared = effect.EdgeDetection(flat, 1.0)
	case MaskModeThreshold:
		if opts.Invert {
			prepared = effect.Invert(flat)
		}
	}

	mask := segment.Threshold(prepared, opts.Threshold)
	if opts.DilateRadius > 0 {
		mask = segment.Threshold(effect.Dilate(mask, opts.DilateRadius), 128)
	}

	return mask, rect.Min, nil
}

// MaskCoverage returns the fraction of foreground pixels in mask.
func MaskCoverage(mask *image.Gray) float64 {
	b := mask.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}

	count := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 128 {
				count++
			}
		}
	}
	return float64(count) / float64(total)
}
