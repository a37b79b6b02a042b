package graphics

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
)

// Procedural generates a stand-in texture for name. Known wall and surface
// names get a pattern, anything else a tinted round sprite on a transparent
// background.
func Procedural(name string, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	switch name {
	case "brick":
		bricks(img, color.RGBA{178, 34, 34, 255}, color.RGBA{200, 190, 180, 255})
	case "stone":
		bricks(img, color.RGBA{120, 120, 128, 255}, color.RGBA{70, 70, 70, 255})
	case "floor":
		checker(img, color.RGBA{90, 90, 90, 255}, color.RGBA{70, 70, 70, 255}, size/4)
	case "ceiling":
		checker(img, color.RGBA{40, 40, 70, 255}, color.RGBA{30, 30, 55, 255}, size/2)
	case "fallback":
		checker(img, color.RGBA{255, 0, 255, 255}, color.RGBA{0, 0, 0, 255}, size/8)
	default:
		blob(img, tint(name))
	}
	return img
}

func checker(img *image.RGBA, a, b color.RGBA, cell int) {
	if cell <= 0 {
		cell = 1
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, a)
			} else {
				img.SetRGBA(x, y, b)
			}
		}
	}
}

// bricks draws rows of offset bricks separated by mortar lines.
func bricks(img *image.RGBA, brick, mortar color.RGBA) {
	draw.Draw(img, img.Bounds(), &image.Uniform{C: brick}, image.Point{}, draw.Src)
	size := img.Bounds().Dx()
	rowH := size / 4
	brickW := size / 2
	if rowH == 0 || brickW == 0 {
		return
	}
	for y := 0; y < size; y++ {
		row := y / rowH
		offset := 0
		if row%2 == 1 {
			offset = brickW / 2
		}
		for x := 0; x < size; x++ {
			if y%rowH == 0 || (x+offset)%brickW == 0 {
				img.SetRGBA(x, y, mortar)
			}
		}
	}
}

func blob(img *image.RGBA, c color.RGBA) {
	size := img.Bounds().Dx()
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r*0.81 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// tint derives a stable colour from a name.
func tint(name string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(name))
	sum := h.Sum32()
	return color.RGBA{
		R: 96 + uint8(sum&0x7f),
		G: 96 + uint8((sum>>8)&0x7f),
		B: 96 + uint8((sum>>16)&0x7f),
		A: 255,
	}
}
