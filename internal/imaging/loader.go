package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"
)

// cachedImage is a decoded image and the name of the decoder that read it.
type cachedImage struct {
	img    image.Image
	format string
}

// cachedMask is a prepared mask and its offset in the source image.
type cachedMask struct {
	gray   *image.Gray
	offset image.Point
}

// ImageCache caches decoded images and the masks prepared from them, keyed by
// file path.
//
// Masks are keyed by path and MaskOptions, so repeated detection calls with the
// same settings skip both decoding and mask preparation. Evict and Clear drop
// an image together with every mask derived from it.
//
// ImageCache is safe for concurrent use.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	mask, offset, err := cache.LoadMask("/path/to/diagram.png", imaging.DefaultMaskOptions())
//	if err != nil {
//	    return err
//	}
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
	masks  map[string]map[string]cachedMask
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
		masks:  make(map[string]map[string]cachedMask),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
//
// The path string is the cache key; different spellings of the same file are
// cached separately. PNG, JPEG and GIF are supported.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (c *ImageCache) load(path string) (cachedImage, error) {
	c.mu.RLock()
	if entry, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to decode image: %w", err)
	}

	entry := cachedImage{img: img, format: format}
	c.mu.Lock()
	c.images[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// LoadMask returns the mask prepared from the image at path with opts, and
// the mask's offset in the image. The image is loaded if needed.
func (c *ImageCache) LoadMask(path string, opts MaskOptions) (*image.Gray, image.Point, error) {
	key := opts.key()

	c.mu.RLock()
	if m, ok := c.masks[path][key]; ok {
		c.mu.RUnlock()
		return m.gray, m.offset, nil
	}
	c.mu.RUnlock()

	img, err := c.Load(path)
	if err != nil {
		return nil, image.Point{}, err
	}

	gray, offset, err := PrepareMask(img, opts)
	if err != nil {
		return nil, image.Point{}, err
	}

	c.mu.Lock()
	if c.masks[path] == nil {
		c.masks[path] = make(map[string]cachedMask)
	}
	c.masks[path][key] = cachedMask{gray: gray, offset: offset}
	c.mu.Unlock()

	return gray, offset, nil
}

// Clear removes every image and mask from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.masks = make(map[string]map[string]cachedMask)
	c.mu.Unlock()
}

// Evict removes the image at path and its masks. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	delete(c.masks, path)
	c.mu.Unlock()
}

// Len returns the number of cached images and cached masks.
func (c *ImageCache) Len() (images, masks int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.masks {
		masks += len(m)
	}
	return len(c.images), masks
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the name of the decoder that read the file: "png", "jpeg" or
	// "gif".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through cache and describes it.
//
// The format comes from the file contents, not the extension. Color depth
// and alpha are derived from the decoded Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64 -> alpha
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch entry.img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := entry.img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        entry.format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the size of the image at path, loading it through
// cache.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
