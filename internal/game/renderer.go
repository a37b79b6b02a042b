package game

import (
	"errors"
	"image"
	"image/color"

	"raycaster/internal/config"
	"raycaster/internal/graphics"
	"raycaster/internal/raycast"

	"github.com/hajimehoshi/ebiten/v2"
)

var errNoTarget = errors.New("renderer: no target image")

// Renderer composes raycast frames onto an ebiten image. It implements
// raycast.FrameSink.
type Renderer struct {
	atlas  *graphics.Atlas
	config *config.Config
	target *ebiten.Image

	images map[graphics.TextureID]*ebiten.Image

	// Reused between frames for the floor and ceiling pass
	floorImage  *ebiten.Image
	floorPixels []byte

	spriteColumns []raycast.SpriteColumn
	background    color.RGBA
}

// NewRenderer creates a frame composer drawing textures from atlas
func NewRenderer(cfg *config.Config, atlas *graphics.Atlas) *Renderer {
	bg := cfg.Render.Background
	return &Renderer{
		atlas:      atlas,
		config:     cfg,
		images:     make(map[graphics.TextureID]*ebiten.Image),
		background: color.RGBA{uint8(bg[0]), uint8(bg[1]), uint8(bg[2]), 255},
	}
}

// SetTarget sets the image the next Present draws onto.
func (r *Renderer) SetTarget(screen *ebiten.Image) {
	r.target = screen
}

// Present draws floor and ceiling, then walls, then sprites far to near.
func (r *Renderer) Present(frame *raycast.Frame) error {
	if r.target == nil {
		return errNoTarget
	}
	r.drawFloorCeiling(frame)
	r.drawWalls(frame)
	r.drawSprites(frame)
	return nil
}

// texture returns the ebiten image and texel data for an atlas id, uploading
// the image on first use. The atlas itself is only read.
func (r *Renderer) texture(id graphics.TextureID) (*ebiten.Image, *graphics.Texture) {
	tex := r.atlas.Get(id)
	if tex == nil {
		return nil, nil
	}
	img, ok := r.images[id]
	if !ok {
		img = ebiten.NewImageFromImage(tex.Image)
		r.images[id] = img
	}
	return img, tex
}

// drawFloorCeiling writes floor and ceiling samples into one persistent
// pixel buffer and uploads it with a single WritePixels.
func (r *Renderer) drawFloorCeiling(frame *raycast.Frame) {
	w, h := frame.Width, frame.Height
	if r.floorImage == nil || r.floorImage.Bounds().Dx() != w || r.floorImage.Bounds().Dy() != h {
		if r.floorImage != nil {
			r.floorImage.Deallocate()
		}
		r.floorImage = ebiten.NewImage(w, h)
		r.floorPixels = make([]byte, w*h*4)
	}

	pixels := r.floorPixels
	bg := r.background
	for i := 0; i < len(pixels); i += 4 {
		pixels[i] = bg.R
		pixels[i+1] = bg.G
		pixels[i+2] = bg.B
		pixels[i+3] = 255
	}

	_, floorTex := r.texture(frame.FloorTexture)
	_, ceilTex := r.texture(frame.CeilingTexture)
	writeSamples(pixels, w, frame.Floor, floorTex)
	writeSamples(pixels, w, frame.Ceiling, ceilTex)

	r.floorImage.WritePixels(pixels)
	r.target.DrawImage(r.floorImage, nil)
}

func writeSamples(pixels []byte, width int, samples []raycast.Sample, tex *graphics.Texture) {
	if tex == nil {
		return
	}
	for _, s := range samples {
		c := tex.Texel(s.U, s.V)
		idx := (s.Y*width + s.X) * 4
		pixels[idx] = c.R
		pixels[idx+1] = c.G
		pixels[idx+2] = c.B
		pixels[idx+3] = 255
	}
}

// drawWalls draws each wall strip as a one-texel-wide slice of its texture
// stretched to the strip height.
func (r *Renderer) drawWalls(frame *raycast.Frame) {
	shade := float32(r.config.Render.SideShade)
	for _, cmd := range frame.Walls {
		img, tex := r.texture(cmd.Texture)
		if img == nil {
			continue
		}
		col := tex.Column(cmd.U)
		strip := img.SubImage(image.Rect(col, 0, col+1, tex.Size)).(*ebiten.Image)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(1, cmd.Height/float64(tex.Size))
		op.GeoM.Translate(float64(cmd.Column), cmd.Top)
		if cmd.Side == raycast.SideColumn {
			op.ColorScale.Scale(shade, shade, shade, 1)
		}
		r.target.DrawImage(strip, op)
	}
}

// drawSprites draws placements far to near, one screen column at a time, so
// each column can be tested against the wall z-buffer.
func (r *Renderer) drawSprites(frame *raycast.Frame) {
	for _, pl := range frame.Sprites {
		img, tex := r.texture(pl.Texture)
		if img == nil {
			continue
		}
		r.spriteColumns = pl.Columns(frame.Width, frame.ZBuffer, r.spriteColumns)
		scaleY := pl.Size / float64(tex.Size)
		for _, c := range r.spriteColumns {
			col := tex.Column(c.U)
			strip := img.SubImage(image.Rect(col, 0, col+1, tex.Size)).(*ebiten.Image)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(1, scaleY)
			op.GeoM.Translate(float64(c.X), pl.Top)
			r.target.DrawImage(strip, op)
		}
	}
}
