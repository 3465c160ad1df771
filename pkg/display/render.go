package display

import (
	"image/color"
	"image/draw"
)

// Font selects one of the fonts available to a TextRenderer.
type Font int

// Fonts.
const (
	FontSmall Font = iota
	FontLarge
)

// FillMode tells whether a shape is filled or outlined.
type FillMode int

// Fill modes.
const (
	FillEmpty FillMode = iota
	FillFull
)

// TextRenderer measures and draws text.
type TextRenderer interface {
	// Measure returns the advance width of text in pixels.
	Measure(font Font, text string) int
	// Draw draws text with its glyph box top-left corner at (x, y).
	Draw(buf draw.Image, x, y int, font Font, text string, fg, bg color.Color)
}

// ShapeRenderer draws shapes.
type ShapeRenderer interface {
	DrawCircle(buf draw.Image, x, y, radius int, c color.Color, fill FillMode)
}

// Layout places the elements on screen, in logical coordinates.
type Layout struct {
	IndicatorX      int
	IndicatorY      int
	IndicatorRadius int
	LabelX          int
	LabelY          int
	TitleX          int
	TitleY          int
	ValueY          int
	SplashY         int

	NoAlarmText  string
	SetAlarmText string
	SplashText   string
}

// DefaultLayout fits a 360x240 landscape screen.
var DefaultLayout = Layout{
	IndicatorX:      35,
	IndicatorY:      22,
	IndicatorRadius: 4,
	LabelX:          48,
	LabelY:          14,
	TitleX:          35,
	TitleY:          22,
	ValueY:          80,
	SplashY:         80,

	NoAlarmText:  "no alarm",
	SetAlarmText: "Set alarm",
	SplashText:   "dayrise",
}

// Fit moves the centered values up so a value of valueHeight pixels
// fits in a screen of the given logical height. The values never move
// above the indicator row.
func (l Layout) Fit(height, valueHeight int) Layout {
	top := height - valueHeight
	if min := l.IndicatorY + l.IndicatorRadius + 1; top < min {
		top = min
	}
	if l.ValueY > top {
		l.ValueY = top
	}
	if l.SplashY > top {
		l.SplashY = top
	}
	return l
}

// CenterX returns the x offset centering textWidth in panelWidth.
// Integer division may leave the text one pixel left of center.
func CenterX(panelWidth, textWidth int) int {
	return panelWidth/2 - textWidth/2
}

// Renderer draws a Model into a FrameBuffer.
type Renderer struct {
	Text       TextRenderer
	Shapes     ShapeRenderer
	Layout     Layout
	Foreground color.Color
	Background color.Color
}

// NewRenderer creates a Renderer with DefaultLayout, black on white.
func NewRenderer(text TextRenderer, shapes ShapeRenderer) *Renderer {
	return &Renderer{
		Text:       text,
		Shapes:     shapes,
		Layout:     DefaultLayout,
		Foreground: color.Black,
		Background: color.White,
	}
}

// Render clears buf and draws the model.
func (r *Renderer) Render(m Model, buf *FrameBuffer) error {
	if buf == nil {
		return ErrBufferUnavailable
	}
	buf.Clear(r.Background)
	l := &r.Layout
	switch m.Mode {
	case ModeShowTime:
		fill, label := FillEmpty, l.NoAlarmText
		if m.AlarmActive {
			fill, label = FillFull, m.AlarmTime
		}
		r.Shapes.DrawCircle(buf, l.IndicatorX, l.IndicatorY, l.IndicatorRadius, r.Foreground, fill)
		r.Text.Draw(buf, l.LabelX, l.LabelY, FontSmall, label, r.Foreground, r.Background)
		r.drawCentered(buf, l.ValueY, FontLarge, m.CurrentTime)
	case ModeShowAlarmSet:
		r.Text.Draw(buf, l.TitleX, l.TitleY, FontSmall, l.SetAlarmText, r.Foreground, r.Background)
		r.drawCentered(buf, l.ValueY, FontLarge, m.AlarmTime)
	}
	return nil
}

// RenderSplash clears buf and draws the splash screen.
func (r *Renderer) RenderSplash(buf *FrameBuffer) error {
	if buf == nil {
		return ErrBufferUnavailable
	}
	buf.Clear(r.Background)
	r.drawCentered(buf, r.Layout.SplashY, FontLarge, r.Layout.SplashText)
	return nil
}

func (r *Renderer) drawCentered(buf *FrameBuffer, y int, font Font, text string) {
	x := CenterX(buf.Width(), r.Text.Measure(font, text))
	r.Text.Draw(buf, x, y, font, text, r.Foreground, r.Background)
}
