package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"
)

// goldenAngle spaces successive overlay hues so neighbours stay distinct.
const goldenAngle = 137.50776405003785

// PointF is a floating point image coordinate.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// OverlayShape is a path to draw on the overlay.
type OverlayShape struct {
	Points []PointF
	Closed bool
}

// OverlayResult contains the rendered overlay image.
type OverlayResult struct {
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	ImageBase64 string   `json:"image_base64"`
	MimeType    string   `json:"mime_type"`
	Colors      []string `json:"colors"`
}

// RenderOverlay draws shapes on a copy of img and returns it as a base64 PNG.
//
// Each shape gets its own colour; Colors[i] is the hex colour used for
// shapes[i]. Every vertex is marked with a filled square so joins are easy
// to see. Shape coordinates are in img's coordinate system.
func RenderOverlay(img image.Image, shapes []OverlayShape, strokeWidth float64) (*OverlayResult, error) {
	if strokeWidth <= 0 {
		return nil, fmt.Errorf("stroke width must be positive, got %g", strokeWidth)
	}

	dst := imaging.Clone(img)
	origin := img.Bounds().Min
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()

	colors := make([]string, len(shapes))
	for i, s := range shapes {
		c := colorful.Hsv(math.Mod(float64(i)*goldenAngle, 360), 0.85, 0.9)
		colors[i] = c.Hex()

		z := vector.NewRasterizer(w, h)
		pts := make([]PointF, len(s.Points))
		for j, p := range s.Points {
			pts[j] = PointF{X: p.X - float64(origin.X), Y: p.Y - float64(origin.Y)}
		}

		for j := 1; j < len(pts); j++ {
			strokeSegment(z, pts[j-1], pts[j], strokeWidth/2)
		}
		if s.Closed && len(pts) > 2 {
			strokeSegment(z, pts[len(pts)-1], pts[0], strokeWidth/2)
		}
		for _, p := range pts {
			markVertex(z, p, strokeWidth+1)
		}

		z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}

	return &OverlayResult{
		Width:       w,
		Height:      h,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Colors:      colors,
	}, nil
}

// strokeSegment adds the rectangle covering a-b widened by half on each side,
// wound the same way as the vertex markers.
func strokeSegment(z *vector.Rasterizer, a, b PointF, half float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := dy/l*half, -dx/l*half

	z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	z.LineTo(float32(b.X-nx), float32(b.Y-ny))
	z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	z.ClosePath()
}

// markVertex adds a square of the given half size centred on p.
func markVertex(z *vector.Rasterizer, p PointF, half float64) {
	z.MoveTo(float32(p.X-half), float32(p.Y-half))
	z.LineTo(float32(p.X+half), float32(p.Y-half))
	z.LineTo(float32(p.X+half), float32(p.Y+half))
	z.LineTo(float32(p.X-half), float32(p.Y+half))
	z.ClosePath()
}
