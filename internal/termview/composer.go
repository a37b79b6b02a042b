// Package termview composes rendered frames into a terminal screen.
// One terminal cell stands in for one frame pixel.
package termview

import (
	"errors"
	"unicode"

	"raycaster/internal/config"
	"raycaster/internal/graphics"
	"raycaster/internal/raycast"
	"raycaster/internal/world"

	"github.com/gdamore/tcell/v2"
)

var errNoScreen = errors.New("termview: no screen")

// shades from nearest to farthest
var shades = []rune{'█', '▓', '▒', '░'}

// shadeStep is the distance covered by one entry of shades.
const shadeStep = 2.5

// Composer draws frames with block glyphs and truecolor styles.
type Composer struct {
	screen tcell.Screen
	cfg    *config.Config
	tiles  *world.TileManager
	atlas  *graphics.Atlas

	background tcell.Style
	columns    []raycast.SpriteColumn
}

// NewComposer creates a composer for screen. tiles and atlas may be nil.
func NewComposer(screen tcell.Screen, cfg *config.Config, tiles *world.TileManager, atlas *graphics.Atlas) *Composer {
	if tiles == nil {
		tiles = world.NewTileManager()
	}
	bg := cfg.Render.Background
	return &Composer{
		screen: screen,
		cfg:    cfg,
		tiles:  tiles,
		atlas:  atlas,
		background: tcell.StyleDefault.
			Background(tcell.NewRGBColor(int32(bg[0]), int32(bg[1]), int32(bg[2]))).
			Foreground(tcell.ColorWhite),
	}
}

// Present implements raycast.FrameSink.
func (c *Composer) Present(frame *raycast.Frame) error {
	if c.screen == nil {
		return errNoScreen
	}
	c.screen.SetStyle(c.background)
	c.screen.Clear()

	c.drawSurface(frame.Ceiling, frame.CeilingTexture, ' ')
	c.drawSurface(frame.Floor, frame.FloorTexture, '.')
	c.drawWalls(frame)
	c.drawSprites(frame)

	c.screen.Show()
	return nil
}

func (c *Composer) drawSurface(samples []raycast.Sample, id graphics.TextureID, glyph rune) {
	tex := c.texture(id)
	for _, s := range samples {
		style := c.background
		if tex != nil {
			texel := tex.Texel(s.U, s.V)
			style = style.Background(tcell.NewRGBColor(int32(texel.R), int32(texel.G), int32(texel.B))).
				Foreground(tcell.NewRGBColor(int32(texel.R)/2, int32(texel.G)/2, int32(texel.B)/2))
		}
		c.screen.SetContent(s.X, s.Y, glyph, nil, style)
	}
}

func (c *Composer) drawWalls(frame *raycast.Frame) {
	for _, w := range frame.Walls {
		rgb := c.tiles.WallColor(w.Wall)
		if w.Side == raycast.SideColumn {
			shade := c.cfg.Render.SideShade
			for i := range rgb {
				rgb[i] = int(float64(rgb[i]) * shade)
			}
		}
		style := c.background.
			Foreground(tcell.NewRGBColor(int32(rgb[0]), int32(rgb[1]), int32(rgb[2])))
		glyph := Shade(w.Depth)
		for y := w.DrawTop; y <= w.DrawBottom; y++ {
			c.screen.SetContent(w.Column, y, glyph, nil, style)
		}
	}
}

func (c *Composer) drawSprites(frame *raycast.Frame) {
	style := c.background.Foreground(tcell.ColorYellow).Bold(true)
	for _, p := range frame.Sprites {
		glyph := SpriteGlyph(p.Billboard.Visual())
		top := int(p.Top)
		bottom := int(p.Top + p.Size)
		if top < 0 {
			top = 0
		}
		if bottom > frame.Height-1 {
			bottom = frame.Height - 1
		}
		c.columns = p.Columns(frame.Width, frame.ZBuffer, c.columns[:0])
		for _, col := range c.columns {
			for y := top; y <= bottom; y++ {
				c.screen.SetContent(col.X, y, glyph, nil, style)
			}
		}
	}
}

func (c *Composer) texture(id graphics.TextureID) *graphics.Texture {
	if c.atlas == nil {
		return nil
	}
	return c.atlas.Get(id)
}

// Shade picks a block glyph for a wall at distance d.
func Shade(d float64) rune {
	i := int(d / shadeStep)
	if i < 0 {
		i = 0
	}
	if i >= len(shades) {
		i = len(shades) - 1
	}
	return shades[i]
}

// SpriteGlyph returns the upper-cased first letter of a sprite name, or '*'.
func SpriteGlyph(name string) rune {
	for _, r := range name {
		return unicode.ToUpper(r)
	}
	return '*'
}
