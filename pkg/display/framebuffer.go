package display

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Rotation is the clockwise rotation of the logical image on the panel.
type Rotation int

// Supported rotations.
const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Valid reports whether r is a supported rotation.
func (r Rotation) Valid() bool {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

// FrameBuffer is a monochrome bitmap in panel layout, drawn to in
// logical (rotated) coordinates. It implements draw.Image.
type FrameBuffer struct {
	phys     *image1bit.VerticalLSB
	rotation Rotation
	width    int
	height   int
}

// NewFrameBuffer allocates a buffer for a width x height panel.
func NewFrameBuffer(width, height int, rotation Rotation) (*FrameBuffer, error) {
	if width <= 0 || height <= 0 || !rotation.Valid() {
		return nil, fmt.Errorf("%w: %dx%d rotation %d", ErrInvalidGeometry, width, height, rotation)
	}
	fb := &FrameBuffer{
		phys:     image1bit.NewVerticalLSB(image.Rect(0, 0, width, height)),
		rotation: rotation,
		width:    width,
		height:   height,
	}
	if rotation == Rotate90 || rotation == Rotate270 {
		fb.width, fb.height = height, width
	}
	return fb, nil
}

// Rotation returns the rotation.
func (fb *FrameBuffer) Rotation() Rotation {
	return fb.rotation
}

// Width returns the logical width.
func (fb *FrameBuffer) Width() int {
	return fb.width
}

// Height returns the logical height.
func (fb *FrameBuffer) Height() int {
	return fb.height
}

// ColorModel implements image.Image.
func (fb *FrameBuffer) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image in logical coordinates.
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// At implements image.Image.
func (fb *FrameBuffer) At(x, y int) color.Color {
	px, py, ok := fb.physical(x, y)
	if !ok {
		return image1bit.Off
	}
	return fb.phys.BitAt(px, py)
}

// Set implements draw.Image. Points outside the buffer are ignored.
func (fb *FrameBuffer) Set(x, y int, c color.Color) {
	if px, py, ok := fb.physical(x, y); ok {
		fb.phys.SetBit(px, py, image1bit.BitModel.Convert(c).(image1bit.Bit))
	}
}

// Clear fills the whole buffer with c.
func (fb *FrameBuffer) Clear(c color.Color) {
	fill := byte(0)
	if image1bit.BitModel.Convert(c).(image1bit.Bit) {
		fill = 0xff
	}
	for i := range fb.phys.Pix {
		fb.phys.Pix[i] = fill
	}
}

// Physical returns the buffer in panel layout for transfer to a driver.
func (fb *FrameBuffer) Physical() *image1bit.VerticalLSB {
	return fb.phys
}

func (fb *FrameBuffer) physical(x, y int) (px, py int, ok bool) {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return 0, 0, false
	}
	pw, ph := fb.phys.Rect.Dx(), fb.phys.Rect.Dy()
	switch fb.rotation {
	case Rotate90:
		px, py = pw-1-y, x
	case Rotate180:
		px, py = pw-1-x, ph-1-y
	case Rotate270:
		px, py = y, ph-1-x
	default:
		px, py = x, y
	}
	return px, py, true
}
