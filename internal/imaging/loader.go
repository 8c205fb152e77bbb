package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"sync"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ImageCache caches decoded images by file path so repeated pipeline stages
// (detection, edge mapping, region recognition) do not re-read the disk.
//
// Cached images stay resident until Evict or Clear; long-running servers
// handling many diagrams should clear between batches. Safe for concurrent
// use.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache returns an empty, ready-to-use cache.
func NewImageCache() *ImageCache {
	return &ImageCache{images: make(map[string]image.Image)}
}

// Load returns the image at path, decoding it on first use. The cache keys
// on the exact path string, so relative and absolute paths to the same file
// occupy separate entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes one cached image. Unknown paths are a no-op.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Info describes a loaded image.
type Info struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// LoadInfo loads an image (through the cache) and reports its dimensions.
func LoadInfo(cache *ImageCache, path string) (*Info, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &Info{Width: b.Dx(), Height: b.Dy()}, nil
}
