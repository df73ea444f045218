package resource

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"
)

// ErrInvalidSize is returned when a texture is resized to a zero dimension.
var ErrInvalidSize = errors.New("resource: invalid texture size")

// Texture is the capability a renderer backend exposes for a sampled image.
type Texture interface {
	// Bind makes the texture current on the given sampler slot.
	Bind(slot uint32)
	// IsValid reports whether the backend object is still alive.
	IsValid() bool
	// TextureID returns the backend handle.
	TextureID() uintptr
	// Resize reallocates storage, discarding contents.
	Resize(width, height uint32) error
}

var nextTextureID atomic.Uintptr

// Image is a Texture kept in main memory.
type Image struct {
	mu    sync.RWMutex
	id    uintptr
	rgba  *image.RGBA
	bound atomic.Int64
}

// NewImage allocates a transparent width x height image.
func NewImage(width, height uint32) (*Image, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}
	img := &Image{
		id:   nextTextureID.Add(1),
		rgba: image.NewRGBA(image.Rect(0, 0, int(width), int(height))),
	}
	img.bound.Store(-1)
	return img, nil
}

// FromImage copies src into a new Image.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	img, err := NewImage(uint32(b.Dx()), uint32(b.Dy()))
	if err != nil {
		return nil, err
	}
	draw.Draw(img.rgba, img.rgba.Bounds(), src, b.Min, draw.Src)
	return img, nil
}

func (i *Image) Bind(slot uint32) {
	i.bound.Store(int64(slot))
}

// BoundSlot returns the slot of the last Bind, or -1.
func (i *Image) BoundSlot() int64 {
	return i.bound.Load()
}

func (i *Image) IsValid() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.rgba != nil
}

func (i *Image) TextureID() uintptr {
	return i.id
}

func (i *Image) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.rgba = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	return nil
}

// Size returns the current dimensions, zero after Destroy.
func (i *Image) Size() (width, height uint32) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.rgba == nil {
		return 0, 0
	}
	b := i.rgba.Bounds()
	return uint32(b.Dx()), uint32(b.Dy())
}

// At returns the pixel at (x, y).
func (i *Image) At(x, y int) color.RGBA {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.rgba == nil {
		return color.RGBA{}
	}
	return i.rgba.RGBAAt(x, y)
}

// Destroy frees the pixel storage. The image is invalid afterwards.
func (i *Image) Destroy() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.rgba = nil
	return nil
}

var (
	placeholderOnce sync.Once
	placeholder     *Image
)

// Placeholder returns the shared magenta and black checkerboard drawn in place of
// textures that failed to load. It is never owned by a cache and must not be destroyed.
func Placeholder() Texture {
	placeholderOnce.Do(func() {
		placeholder, _ = NewImage(2, 2)
		magenta := color.RGBA{R: 0xff, B: 0xff, A: 0xff}
		black := color.RGBA{A: 0xff}
		placeholder.rgba.SetRGBA(0, 0, magenta)
		placeholder.rgba.SetRGBA(1, 1, magenta)
		placeholder.rgba.SetRGBA(1, 0, black)
		placeholder.rgba.SetRGBA(0, 1, black)
	})
	return placeholder
}
