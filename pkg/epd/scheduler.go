package epd

import (
	"context"
	"image"

	"github.com/golang/glog"
)

// Phase tells whether the panel needs a clean baseline image.
type Phase int

// Phases.
const (
	// PhaseBaseline is the first cycle after power-on or the splash screen.
	PhaseBaseline Phase = iota
	// PhaseMain is every following cycle.
	PhaseMain
)

func (p Phase) String() string {
	if p == PhaseBaseline {
		return "baseline"
	}
	return "main"
}

// Decision is the kind of refresh applied to a frame.
type Decision int

// Decisions.
const (
	Full Decision = iota
	Quick
)

func (d Decision) String() string {
	if d == Full {
		return "full"
	}
	return "quick"
}

// Decide returns Full for the baseline phase and Quick otherwise.
func Decide(phase Phase) Decision {
	if phase == PhaseBaseline {
		return Full
	}
	return Quick
}

// Scheduler pushes frames to a Driver. It keeps no state besides the driver.
type Scheduler struct {
	Driver Driver
}

// NewScheduler creates a Scheduler.
func NewScheduler(driver Driver) *Scheduler {
	return &Scheduler{Driver: driver}
}

// DecideAndApply transfers buf and refreshes the panel as decided for phase.
// A full refresh is issued twice in a row to settle residual charge.
// Failures are logged and returned, never retried.
func (s *Scheduler) DecideAndApply(ctx context.Context, buf image.Image, phase Phase) (Decision, error) {
	d := Decide(phase)
	if err := ctx.Err(); err != nil {
		return d, err
	}
	err := s.apply(buf, d)
	if err != nil {
		glog.Errorf("refresh %s: %v", d, err)
	} else {
		glog.V(3).Infof("refresh %s", d)
	}
	return d, err
}

// FullRefresh transfers buf and applies a full refresh regardless of phase.
func (s *Scheduler) FullRefresh(buf image.Image) error {
	return s.apply(buf, Full)
}

func (s *Scheduler) apply(buf image.Image, d Decision) error {
	if err := wrapErr("transfer", s.Driver.Transfer(buf)); err != nil {
		return err
	}
	if d == Quick {
		return wrapErr("quick refresh", s.Driver.QuickRefresh())
	}
	for i := 0; i < 2; i++ {
		if err := wrapErr("full refresh", s.Driver.FullRefresh()); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown blanks the panel and puts it to sleep.
func Shutdown(driver Driver) error {
	if err := wrapErr("clear", driver.Clear()); err != nil {
		return err
	}
	return wrapErr("sleep", driver.Sleep())
}
