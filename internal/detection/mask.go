package detection

import "image"

// Mask is a read-only single-channel raster read in row-major order.
//
// Pixels whose value is above ForegroundThreshold are foreground; every other
// pixel is background. Coordinates are 0-based with the origin at top-left.
type Mask interface {
	Width() int
	Height() int
	At(x, y int) uint8
}

// ByteMap is a Mask backed by a row-major byte slice.
type ByteMap struct {
	width  int
	height int
	pix    []uint8
}

// NewByteMap returns a zero-filled width×height map. Negative dimensions are
// treated as zero.
func NewByteMap(width, height int) *ByteMap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &ByteMap{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height),
	}
}

func (b *ByteMap) Width() int  { return b.width }
func (b *ByteMap) Height() int { return b.height }

// At returns the value at (x, y), or 0 outside the map.
func (b *ByteMap) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0
	}
	return b.pix[y*b.width+x]
}

// Set writes v at (x, y). Writes outside the map are ignored.
func (b *ByteMap) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.pix[y*b.width+x] = v
}

// Fill sets every pixel to v.
func (b *ByteMap) Fill(v uint8) {
	for i := range b.pix {
		b.pix[i] = v
	}
}

// grayMask exposes an *image.Gray as a Mask with its bounds shifted to the
// origin.
type grayMask struct {
	img *image.Gray
}

// MaskFromGray adapts a grayscale image to the Mask interface. The image's
// Bounds().Min becomes mask coordinate (0, 0).
func MaskFromGray(img *image.Gray) Mask {
	return grayMask{img: img}
}

func (g grayMask) Width() int  { return g.img.Bounds().Dx() }
func (g grayMask) Height() int { return g.img.Bounds().Dy() }

func (g grayMask) At(x, y int) uint8 {
	min := g.img.Bounds().Min
	return g.img.GrayAt(x+min.X, y+min.Y).Y
}
