// Package slave runs the display cycle: read a record, apply it to the
// model, render and refresh the panel.
package slave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/dayrise/dayrise.go/pkg/display"
	"github.com/dayrise/dayrise.go/pkg/epd"
	"github.com/dayrise/dayrise.go/pkg/framework"
	"github.com/dayrise/dayrise.go/pkg/link"
	"github.com/dayrise/dayrise.go/pkg/wire"
)

// Reporter receives what happens in the cycle, e.g. for telemetry.
type Reporter interface {
	// ReportState is called after a refresh when the model changed.
	ReportState(m display.Model, d epd.Decision, cycle uint64)
	// ReportError is called for error reports and rejected records.
	ReportError(cmd wire.Command)
}

// Node is the display node. The model, buffer and phase are only
// touched by the loop goroutine.
type Node struct {
	Source     link.Source
	Driver     epd.Driver
	Scheduler  *epd.Scheduler
	Renderer   *display.Renderer
	Reporter   Reporter
	Width      int
	Height     int
	Rotation   display.Rotation
	Interval   time.Duration
	SplashHold time.Duration

	adders  []framework.LoopAdder
	closers []io.Closer

	model   display.Model
	buffer  *display.FrameBuffer
	phase   epd.Phase
	changed bool
}

// NewNode creates a Node for a 240x360 panel rotated by 270 degrees.
func NewNode(source link.Source, driver epd.Driver, renderer *display.Renderer) *Node {
	return &Node{
		Source:    source,
		Driver:    driver,
		Scheduler: epd.NewScheduler(driver),
		Renderer:  renderer,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Rotation:  DefaultRotation,
		Interval:  framework.DefaultInterval,
	}
}

// Model returns the current display model.
func (n *Node) Model() display.Model {
	return n.model
}

// Phase returns the refresh phase of the next cycle.
func (n *Node) Phase() epd.Phase {
	return n.phase
}

// Buffer returns the frame buffer, nil before Setup.
func (n *Node) Buffer() *display.FrameBuffer {
	return n.buffer
}

// Setup wakes the panel, allocates the frame buffer and shows the
// splash screen. The next cycle uses a full refresh.
func (n *Node) Setup(ctx context.Context) error {
	if err := n.Driver.Init(); err != nil {
		return fmt.Errorf("init panel: %w", err)
	}
	buf, err := display.NewFrameBuffer(n.Width, n.Height, n.Rotation)
	if err != nil {
		glog.Errorf("allocate frame buffer: %v", err)
		return fmt.Errorf("%w: %v", display.ErrBufferUnavailable, err)
	}
	n.buffer = buf
	buf.Clear(n.Renderer.Background)
	if err := n.Scheduler.FullRefresh(buf.Physical()); err != nil {
		return fmt.Errorf("baseline refresh: %w", err)
	}
	return n.ShowSplash(ctx)
}

// ShowSplash shows the splash screen for SplashHold and resets the model.
func (n *Node) ShowSplash(ctx context.Context) error {
	n.model.Reset()
	if err := n.Renderer.RenderSplash(n.buffer); err != nil {
		return err
	}
	if err := n.Scheduler.FullRefresh(n.buffer.Physical()); err != nil {
		return fmt.Errorf("splash refresh: %w", err)
	}
	glog.Infof("splash shown, holding %s", n.SplashHold)
	if n.SplashHold > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.SplashHold):
		}
	}
	n.phase = epd.PhaseBaseline
	return nil
}

// AddToLoop implements framework.LoopAdder.
func (n *Node) AddToLoop(l *framework.Loop) {
	l.AddController(framework.PrLvSense, framework.ControlFunc(n.sense))
	l.AddController(framework.PrLvControl, framework.ControlFunc(n.control))
	l.AddController(framework.PrLvActuate, framework.ControlFunc(n.actuate))
	if adder, ok := n.Source.(framework.LoopAdder); ok {
		l.Add(adder)
	} else if r, ok := n.Source.(framework.Runnable); ok {
		l.AddRunnable(r)
	}
	l.Add(n.adders...)
}

// Run sets up the panel and runs the cycle until ctx is done or the
// cycle halts. The panel is cleared and put to sleep before returning.
func (n *Node) Run(ctx context.Context) error {
	defer n.close()
	if err := n.Setup(ctx); err != nil {
		return err
	}
	loop := framework.NewLoop()
	loop.Interval = n.Interval
	n.AddToLoop(loop)
	glog.Infof("display cycle started, every %s", loop.Interval)
	err := loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	var errs framework.AggregatedError
	errs.Add(err)
	glog.Info("shutting down panel")
	if serr := epd.Shutdown(n.Driver); serr != nil {
		errs.Add(fmt.Errorf("shutdown: %w", serr))
	}
	return errs.Aggregate()
}

func (n *Node) close() {
	for _, c := range n.closers {
		if err := c.Close(); err != nil {
			glog.Warningf("close: %v", err)
		}
	}
}

// sense reads at most one record per cycle.
func (n *Node) sense(cc framework.ControlContext) error {
	rec, ok := n.Source.TryReadRecord()
	if !ok {
		return nil
	}
	cmd := wire.Parse(rec)
	glog.V(2).Infof("record %q: %s", string(rec), cmd.Code())
	cc.Messages().AddMessages(cmd)
	return nil
}

func (n *Node) control(cc framework.ControlContext) error {
	cc.Messages().ProcessMessages(framework.ProcessMessageFunc(func(mc framework.MessageProcessingContext) {
		cmd, ok := mc.CurrentMessage().(wire.Command)
		if !ok {
			return
		}
		mc.MessageTaken()
		switch c := cmd.(type) {
		case *wire.ErrorReport:
			glog.Warningf("master reported error: %v", c.Payload())
			n.reportError(c)
		case *wire.Unknown:
			glog.Warningf("rejected record: %v", c)
			n.reportError(c)
		default:
			if n.model.Apply(cmd) {
				n.changed = true
			}
		}
	}))
	return nil
}

func (n *Node) actuate(cc framework.ControlContext) error {
	if n.buffer == nil {
		return framework.Halt(display.ErrBufferUnavailable)
	}
	if err := n.Renderer.Render(n.model, n.buffer); err != nil {
		return framework.Halt(err)
	}
	d, err := n.Scheduler.DecideAndApply(cc.Context(), n.buffer.Physical(), n.phase)
	// the baseline is attempted once, failed or not.
	n.phase = epd.PhaseMain
	if err != nil {
		return nil
	}
	if n.changed || d == epd.Full {
		n.changed = false
		if n.Reporter != nil {
			n.Reporter.ReportState(n.model, d, cc.Iteration())
		}
	}
	return nil
}

func (n *Node) reportError(cmd wire.Command) {
	if n.Reporter != nil {
		n.Reporter.ReportError(cmd)
	}
}
