package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

// ImageCanvas rasterizes lines into an RGBA image.
type ImageCanvas struct {
	img       *image.RGBA
	z         *vector.Rasterizer
	LineWidth float32
}

// NewImageCanvas creates a w by h canvas drawing one pixel wide lines.
func NewImageCanvas(w, h int) *ImageCanvas {
	return &ImageCanvas{
		img:       image.NewRGBA(image.Rect(0, 0, w, h)),
		z:         vector.NewRasterizer(w, h),
		LineWidth: 1,
	}
}

func (c *ImageCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *ImageCanvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// Line draws the segment as a thin quad, clipped to the canvas.
func (c *ImageCanvas) Line(x1, y1, x2, y2 float32, col color.Color) {
	w, h := c.Size()
	a, b, ok := clip(mgl32.Vec2{x1, y1}, mgl32.Vec2{x2, y2}, float32(w), float32(h))
	if !ok {
		return
	}

	dir := b.Sub(a)
	if dir.Len() == 0 {
		dir = mgl32.Vec2{1, 0}
	}
	n := mgl32.Vec2{-dir.Y(), dir.X()}.Normalize().Mul(c.LineWidth / 2)

	c.z.Reset(w, h)
	c.z.MoveTo(a.X()+n.X(), a.Y()+n.Y())
	c.z.LineTo(b.X()+n.X(), b.Y()+n.Y())
	c.z.LineTo(b.X()-n.X(), b.Y()-n.Y())
	c.z.LineTo(a.X()-n.X(), a.Y()-n.Y())
	c.z.ClosePath()
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

// Image returns the backing image.
func (c *ImageCanvas) Image() *image.RGBA {
	return c.img
}

// WritePNG encodes the canvas as PNG.
func (c *ImageCanvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

// clip trims segment ab to the rectangle [0,w]x[0,h] (Liang-Barsky).
func clip(a, b mgl32.Vec2, w, h float32) (mgl32.Vec2, mgl32.Vec2, bool) {
	d := b.Sub(a)
	t0, t1 := float32(0), float32(1)
	edges := [4][2]float32{
		{-d.X(), a.X()},
		{d.X(), w - a.X()},
		{-d.Y(), a.Y()},
		{d.Y(), h - a.Y()},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return a.Add(d.Mul(t0)), a.Add(d.Mul(t1)), true
}
