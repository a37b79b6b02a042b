package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"

	"raycaster/internal/logger"

	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
)

var (
	// ErrMissingTexture is returned when no texture directory holds <name>.png
	// and procedural fallbacks are disabled.
	ErrMissingTexture = errors.New("missing texture")
	// ErrBadTexture is returned when a texture file exists but cannot be decoded.
	ErrBadTexture = errors.New("undecodable texture")
)

// TextureID indexes a texture in an Atlas. IDs are stable for the atlas lifetime.
type TextureID int

// NoTexture is returned for names the atlas does not hold.
const NoTexture TextureID = -1

// Texture is a square read-only image. Textures are never modified after load.
type Texture struct {
	Name       string
	Image      *image.RGBA
	Size       int
	Procedural bool
}

// Atlas owns every texture used by a level, addressed by TextureID.
type Atlas struct {
	textures []*Texture
	byName   map[string]TextureID
	size     int
	dirs     []string
	log      *logrus.Entry

	procedural bool
}

// NewAtlas creates an atlas of size×size textures searched for in dirs as <name>.png.
func NewAtlas(size int, dirs ...string) *Atlas {
	if size <= 0 {
		size = 64
	}
	return &Atlas{
		byName: make(map[string]TextureID),
		size:   size,
		dirs:   dirs,
		log:    logger.Component("atlas"),
	}
}

// TextureSize returns the edge length of every texture in the atlas.
func (a *Atlas) TextureSize() int {
	return a.size
}

// SetProceduralFallback makes Load generate a texture for names that have no
// file instead of failing with ErrMissingTexture.
func (a *Atlas) SetProceduralFallback(enabled bool) {
	a.procedural = enabled
}

// Load returns the id for name, loading it on first use. An empty name maps
// to NoTexture. Undecodable files always fail; missing files fail unless the
// procedural fallback is enabled.
func (a *Atlas) Load(name string) (TextureID, error) {
	if name == "" {
		return NoTexture, nil
	}
	if id, ok := a.byName[name]; ok {
		return id, nil
	}

	tex, err := a.loadFile(name)
	switch {
	case errors.Is(err, ErrMissingTexture) && a.procedural:
		a.log.WithField("texture", name).Debug("using procedural texture")
		tex = &Texture{Name: name, Image: Procedural(name, a.size), Size: a.size, Procedural: true}
	case err != nil:
		return NoTexture, err
	}

	id := TextureID(len(a.textures))
	a.textures = append(a.textures, tex)
	a.byName[name] = id
	return id, nil
}

// LoadAll loads every name, skipping duplicates, and stops at the first error.
func (a *Atlas) LoadAll(names ...string) error {
	for _, name := range names {
		if _, err := a.Load(name); err != nil {
			return err
		}
	}
	return nil
}

func (a *Atlas) loadFile(name string) (*Texture, error) {
	for _, dir := range a.dirs {
		path := filepath.Join(dir, name+".png")
		file, err := os.Open(path)
		if err != nil {
			continue
		}
		src, _, err := image.Decode(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadTexture, path, err)
		}
		return &Texture{Name: name, Image: normalize(src, a.size), Size: a.size}, nil
	}
	return nil, fmt.Errorf("%w: %q not found in %v", ErrMissingTexture, name, a.dirs)
}

// normalize scales src to a size×size RGBA image.
func normalize(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// ID returns the id of a loaded texture.
func (a *Atlas) ID(name string) (TextureID, bool) {
	id, ok := a.byName[name]
	return id, ok
}

// Get returns the texture for id, or nil when out of range.
func (a *Atlas) Get(id TextureID) *Texture {
	if id < 0 || int(id) >= len(a.textures) {
		return nil
	}
	return a.textures[id]
}

// ByName returns a loaded texture by name, or nil.
func (a *Atlas) ByName(name string) *Texture {
	id, ok := a.byName[name]
	if !ok {
		return nil
	}
	return a.textures[id]
}

// Len returns the number of textures.
func (a *Atlas) Len() int {
	return len(a.textures)
}

// Each calls fn for every texture in id order.
func (a *Atlas) Each(fn func(id TextureID, tex *Texture)) {
	for i, tex := range a.textures {
		fn(TextureID(i), tex)
	}
}

// Texel returns the nearest texel for texture coordinates u, v in [0,1).
func (t *Texture) Texel(u, v float64) color.RGBA {
	x := texelIndex(u, t.Size)
	y := texelIndex(v, t.Size)
	i := t.Image.PixOffset(x, y)
	p := t.Image.Pix[i : i+4 : i+4]
	return color.RGBA{p[0], p[1], p[2], p[3]}
}

// Column returns the texel column for u.
func (t *Texture) Column(u float64) int {
	return texelIndex(u, t.Size)
}

func texelIndex(u float64, size int) int {
	i := int(u * float64(size))
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
