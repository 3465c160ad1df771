// Package virtual is a software e-paper panel for running without hardware.
package virtual

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/glog"
)

// ErrNoFrame is returned when refreshing before any frame was transferred.
var ErrNoFrame = errors.New("no frame transferred")

// FrameFile is the file name of the last refreshed frame.
const FrameFile = "frame.png"

// Stats counts driver calls.
type Stats struct {
	Inits, Transfers, Full, Quick, Clears, Sleeps int
}

// Panel implements epd.Driver in memory and optionally mirrors every
// refreshed frame to Dir/frame.png.
type Panel struct {
	Dir string

	lock      sync.Mutex
	stats     Stats
	loaded    *image.Gray
	displayed *image.Gray
	asleep    bool
}

// New creates a Panel. An empty dir disables writing files.
func New(dir string) *Panel {
	return &Panel{Dir: dir}
}

// Init implements epd.Driver.
func (p *Panel) Init() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.stats.Inits++
	p.asleep = false
	return nil
}

// Transfer implements epd.Driver.
func (p *Panel) Transfer(img image.Image) error {
	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
	p.lock.Lock()
	defer p.lock.Unlock()
	p.stats.Transfers++
	p.loaded = gray
	return nil
}

// FullRefresh implements epd.Driver.
func (p *Panel) FullRefresh() error {
	return p.refresh(func(s *Stats) { s.Full++ })
}

// QuickRefresh implements epd.Driver.
func (p *Panel) QuickRefresh() error {
	return p.refresh(func(s *Stats) { s.Quick++ })
}

// Clear implements epd.Driver.
func (p *Panel) Clear() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.stats.Clears++
	if p.displayed != nil {
		draw.Draw(p.displayed, p.displayed.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		return p.save(p.displayed)
	}
	return nil
}

// Sleep implements epd.Driver.
func (p *Panel) Sleep() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.stats.Sleeps++
	p.asleep = true
	return nil
}

// Stats returns the call counters.
func (p *Panel) Stats() Stats {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.stats
}

// Asleep reports whether Sleep was called after the last Init.
func (p *Panel) Asleep() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.asleep
}

// Displayed returns a copy of the frame shown on the panel, nil if none.
func (p *Panel) Displayed() *image.Gray {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.displayed == nil {
		return nil
	}
	img := image.NewGray(p.displayed.Rect)
	copy(img.Pix, p.displayed.Pix)
	return img
}

func (p *Panel) refresh(count func(*Stats)) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.loaded == nil {
		return ErrNoFrame
	}
	count(&p.stats)
	if p.displayed == nil || p.displayed.Rect != p.loaded.Rect {
		p.displayed = image.NewGray(p.loaded.Rect)
	}
	copy(p.displayed.Pix, p.loaded.Pix)
	return p.save(p.displayed)
}

func (p *Panel) save(img image.Image) error {
	if p.Dir == "" {
		return nil
	}
	fn := filepath.Join(p.Dir, FrameFile)
	tmp := fn + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err = png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	glog.V(4).Infof("virtual panel: wrote %s", fn)
	return os.Rename(tmp, fn)
}
