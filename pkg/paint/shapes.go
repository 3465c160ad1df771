package paint

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/dayrise/dayrise.go/pkg/display"
)

// Shapes implements display.ShapeRenderer.
type Shapes struct{}

// DrawCircle draws a circle centered at (cx, cy). An outline is one
// pixel wide.
func (Shapes) DrawCircle(buf draw.Image, cx, cy, r int, c color.Color, fill display.FillMode) {
	bounds := buf.Bounds()
	inner := (r - 1) * (r - 1)
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			d := x*x + y*y
			if d > r*r || (fill != display.FillFull && d < inner) {
				continue
			}
			if p := image.Pt(cx+x, cy+y); p.In(bounds) {
				buf.Set(p.X, p.Y, c)
			}
		}
	}
}
