// Package waveshare drives a Waveshare 2.13" v2 e-paper HAT through periph.io.
package waveshare

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v2"
	"periph.io/x/host/v3"

	"github.com/dayrise/dayrise.go/pkg/epd"
)

// ErrNoFrame is returned when refreshing before any frame was transferred.
var ErrNoFrame = errors.New("no frame transferred")

var (
	_ epd.Driver  = (*Driver)(nil)
	_ epd.Bounder = (*Driver)(nil)
)

// Driver implements epd.Driver on the HAT.
type Driver struct {
	dev   *waveshare2in13v2.Dev
	port  spi.PortCloser
	frame *image1bit.VerticalLSB
	mode  waveshare2in13v2.PartialUpdate
	// modeSet is false until the first SetUpdateMode.
	modeSet bool
}

// Open initializes the host and opens the HAT on the named SPI port,
// "" for the first one.
func Open(spiPort string) (*Driver, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	port, err := spireg.Open(spiPort)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", spiPort, err)
	}
	opts := waveshare2in13v2.EPD2in13v2
	dev, err := waveshare2in13v2.NewHat(port, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("open hat: %w", err)
	}
	glog.Infof("epd: waveshare 2in13v2 on spi %q, bounds %v", spiPort, dev.Bounds())
	return &Driver{dev: dev, port: port}, nil
}

// Bounds returns the panel size.
func (d *Driver) Bounds() image.Rectangle {
	return d.dev.Bounds()
}

// Init implements epd.Driver.
func (d *Driver) Init() error {
	d.modeSet = false
	return d.dev.Init()
}

// Transfer implements epd.Driver. The image is clipped to the panel.
func (d *Driver) Transfer(img image.Image) error {
	if d.frame == nil {
		d.frame = image1bit.NewVerticalLSB(d.dev.Bounds())
	}
	draw.Draw(d.frame, d.frame.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(d.frame, d.frame.Bounds(), img, img.Bounds().Min, draw.Src)
	return nil
}

// FullRefresh implements epd.Driver.
func (d *Driver) FullRefresh() error {
	return d.refresh(waveshare2in13v2.Full)
}

// QuickRefresh implements epd.Driver.
func (d *Driver) QuickRefresh() error {
	return d.refresh(waveshare2in13v2.Partial)
}

// Clear implements epd.Driver.
func (d *Driver) Clear() error {
	if err := d.setMode(waveshare2in13v2.Full); err != nil {
		return err
	}
	return d.dev.Clear(color.White)
}

// Sleep implements epd.Driver. Init wakes the panel up.
func (d *Driver) Sleep() error {
	return d.dev.Sleep()
}

// Close halts the panel and releases the SPI port.
func (d *Driver) Close() error {
	err := d.dev.Halt()
	if cerr := d.port.Close(); err == nil {
		err = cerr
	}
	return err
}

func (d *Driver) refresh(mode waveshare2in13v2.PartialUpdate) error {
	if d.frame == nil {
		return ErrNoFrame
	}
	if err := d.setMode(mode); err != nil {
		return err
	}
	return d.dev.Draw(d.dev.Bounds(), d.frame, image.Point{})
}

func (d *Driver) setMode(mode waveshare2in13v2.PartialUpdate) error {
	if d.modeSet && d.mode == mode {
		return nil
	}
	if err := d.dev.SetUpdateMode(mode); err != nil {
		return err
	}
	d.mode, d.modeSet = mode, true
	return nil
}
