// Package imaging loads images and converts them to and from the binary masks
// the shape detector works on.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward. Regions are half-open: (x1,y1) is
// inclusive and (x2,y2) exclusive.
//
// # Masks
//
// PrepareMask turns a decoded image into a *image.Gray holding only 0 and
// 255. Region cropping, alpha flattening and cloning use
// github.com/disintegration/imaging; inversion, edge detection, thresholding
// and dilation use github.com/anthonynsimon/bild. A mask cut from a region
// comes with the region's offset, which callers add back to report results in
// image coordinates.
//
// # Overlays
//
// RenderOverlay strokes detected shapes onto a copy of the source image with
// golang.org/x/image/vector, one go-colorful hue per shape, and returns the
// result as a base64 PNG.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions are stateless.
package imaging
