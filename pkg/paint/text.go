// Package paint draws text and shapes into display buffers.
package paint

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/dayrise/dayrise.go/pkg/display"
)

// Font sizes in pixels.
const (
	SmallSize = 13
	LargeSize = 72
)

// Text implements display.TextRenderer with x/image font faces.
type Text struct {
	Small font.Face
	Large font.Face
}

// NewText loads Go Regular for the small font and Go Bold for the large one.
func NewText() (*Text, error) {
	small, err := loadFace(goregular.TTF, SmallSize)
	if err != nil {
		return nil, fmt.Errorf("load small font: %w", err)
	}
	large, err := loadFace(gobold.TTF, LargeSize)
	if err != nil {
		return nil, fmt.Errorf("load large font: %w", err)
	}
	return &Text{Small: small, Large: large}, nil
}

// NewBasicText uses the built-in 7x13 bitmap face for both fonts.
func NewBasicText() *Text {
	return &Text{Small: basicfont.Face7x13, Large: basicfont.Face7x13}
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (t *Text) face(f display.Font) font.Face {
	if f == display.FontLarge {
		return t.Large
	}
	return t.Small
}

// Measure implements display.TextRenderer.
func (t *Text) Measure(f display.Font, text string) int {
	return font.MeasureString(t.face(f), text).Ceil()
}

// Draw implements display.TextRenderer. The glyph box, from ascent to
// descent, is filled with bg before the text is drawn.
func (t *Text) Draw(buf draw.Image, x, y int, f display.Font, text string, fg, bg color.Color) {
	face := t.face(f)
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	box := image.Rect(x, y, x+font.MeasureString(face, text).Ceil(), y+ascent+metrics.Descent.Ceil())
	draw.Draw(buf, box, image.NewUniform(bg), image.Point{}, draw.Src)
	d := font.Drawer{
		Dst:  buf,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y+ascent),
	}
	d.DrawString(text)
}
