package display

import (
	"fmt"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// fakeText measures every glyph as 10px wide and records draw calls.
type fakeText struct {
	calls []string
}

func (f *fakeText) Measure(font Font, text string) int {
	return 10 * len(text)
}

func (f *fakeText) Draw(buf draw.Image, x, y int, font Font, text string, fg, bg color.Color) {
	f.calls = append(f.calls, fmt.Sprintf("text %d,%d font=%d %q", x, y, font, text))
	buf.Set(x, y, fg)
}

type fakeShapes struct {
	calls []string
}

func (f *fakeShapes) DrawCircle(buf draw.Image, x, y, radius int, c color.Color, fill FillMode) {
	f.calls = append(f.calls, fmt.Sprintf("circle %d,%d r=%d fill=%d", x, y, radius, fill))
}

func newTestRenderer() (*Renderer, *fakeText, *fakeShapes) {
	text, shapes := &fakeText{}, &fakeShapes{}
	return NewRenderer(text, shapes), text, shapes
}

func TestCenterX(t *testing.T) {
	require.Equal(t, 130, CenterX(360, 100))
	require.Equal(t, 130, CenterX(360, 101))
	require.Equal(t, 130, CenterX(361, 101))
	require.Equal(t, 180, CenterX(360, 0))
}

func TestRenderShowTime(t *testing.T) {
	fb, err := NewFrameBuffer(240, 360, Rotate270)
	require.NoError(t, err)

	r, text, shapes := newTestRenderer()
	require.NoError(t, r.Render(Model{Mode: ModeShowTime, CurrentTime: "14:07", AlarmTime: "16:30", AlarmActive: true}, fb))
	require.Equal(t, []string{"circle 35,22 r=4 fill=1"}, shapes.calls)
	require.Equal(t, []string{
		`text 48,14 font=0 "16:30"`,
		`text 155,80 font=1 "14:07"`,
	}, text.calls)

	r, text, shapes = newTestRenderer()
	require.NoError(t, r.Render(Model{Mode: ModeShowTime, CurrentTime: "9:05", AlarmTime: "16:30"}, fb))
	require.Equal(t, []string{"circle 35,22 r=4 fill=0"}, shapes.calls)
	require.Equal(t, []string{
		`text 48,14 font=0 "no alarm"`,
		`text 160,80 font=1 "9:05"`,
	}, text.calls)
}

func TestRenderShowAlarmSet(t *testing.T) {
	fb, err := NewFrameBuffer(240, 360, Rotate270)
	require.NoError(t, err)
	r, text, shapes := newTestRenderer()
	require.NoError(t, r.Render(Model{Mode: ModeShowAlarmSet, AlarmTime: "07:00"}, fb))
	require.Empty(t, shapes.calls)
	require.Equal(t, []string{
		`text 35,22 font=0 "Set alarm"`,
		`text 155,80 font=1 "07:00"`,
	}, text.calls)
}

func TestRenderClearsBuffer(t *testing.T) {
	fb, err := NewFrameBuffer(240, 360, Rotate270)
	require.NoError(t, err)
	fb.Clear(color.Black)
	r, text, shapes := newTestRenderer()
	require.NoError(t, r.Render(Model{}, fb))
	require.Empty(t, text.calls)
	require.Empty(t, shapes.calls)
	for _, b := range fb.Physical().Pix {
		require.Equal(t, byte(0xff), b)
	}

	// the same model renders the same frame every cycle.
	m := Model{Mode: ModeShowTime, CurrentTime: "14:07"}
	require.NoError(t, r.Render(m, fb))
	first := append([]byte(nil), fb.Physical().Pix...)
	require.Equal(t, image1bit.Off, fb.At(155, 80))
	require.NoError(t, r.Render(m, fb))
	require.Equal(t, first, fb.Physical().Pix)
}

func TestRenderSplash(t *testing.T) {
	fb, err := NewFrameBuffer(240, 360, Rotate270)
	require.NoError(t, err)
	r, text, _ := newTestRenderer()
	require.NoError(t, r.RenderSplash(fb))
	require.Equal(t, []string{`text 145,80 font=1 "dayrise"`}, text.calls)
}

func TestRenderWithoutBuffer(t *testing.T) {
	r, text, _ := newTestRenderer()
	require.Equal(t, ErrBufferUnavailable, r.Render(Model{Mode: ModeShowTime}, nil))
	require.Equal(t, ErrBufferUnavailable, r.RenderSplash(nil))
	require.Empty(t, text.calls)
}

func TestLayoutFit(t *testing.T) {
	l := DefaultLayout.Fit(240, 72)
	require.Equal(t, DefaultLayout, l)

	l = DefaultLayout.Fit(122, 72)
	require.Equal(t, 50, l.ValueY)
	require.Equal(t, 50, l.SplashY)
	require.Equal(t, DefaultLayout.LabelY, l.LabelY)

	// never above the indicator row.
	l = DefaultLayout.Fit(60, 72)
	require.Equal(t, 27, l.ValueY)
	require.Equal(t, 27, l.SplashY)
}
