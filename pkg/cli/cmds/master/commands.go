// Package master provides shell commands sending records to a display node.
package master

import (
	"fmt"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/dayrise/dayrise.go/pkg/cli/sh"
	"github.com/dayrise/dayrise.go/pkg/wire"
)

// ClockFormat is the time format on the wire.
const ClockFormat = "15:04"

var (
	// TimeCmd sends a time update.
	TimeCmd = ishell.Cmd{
		Name:    "time",
		Aliases: []string{"t"},
		Help:    "HH:MM [ALARM(HH:MM)|-]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("HH:MM required"))
				return
			}
			cur, err := ParseClock(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			alarm := wire.AlarmNone
			if len(c.Args) > 1 && c.Args[1] != wire.AlarmNone {
				if alarm, err = ParseClock(c.Args[1]); err != nil {
					c.Err(err)
					return
				}
			}
			sh.Send(c, wire.NewTimeUpdate(cur, alarm))
		}),
	}

	// NowCmd sends the local time.
	NowCmd = ishell.Cmd{
		Name: "now",
		Help: "[ALARM(HH:MM)|-]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			var alarm string
			if len(c.Args) > 0 {
				alarm = c.Args[0]
			}
			sh.Send(c, NowUpdate(time.Now(), alarm))
		}),
	}

	// AlarmCmd sends a set alarm command.
	AlarmCmd = ishell.Cmd{
		Name:    "alarm",
		Aliases: []string{"a"},
		Help:    "HH:MM",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("HH:MM required"))
				return
			}
			alarm, err := ParseClock(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Send(c, &wire.SetAlarm{AlarmTime: alarm})
		}),
	}

	// ErrorCmd sends an error report.
	ErrorCmd = ishell.Cmd{
		Name:    "error",
		Aliases: []string{"e"},
		Help:    "FIELD...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.Send(c, wire.NewErrorReport(c.Args...))
		}),
	}

	// RawCmd sends a record as is, which may not be valid.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "RECORD",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("RECORD required"))
				return
			}
			sh.Send(c, wire.Parse(wire.Record(strings.Join(c.Args, " "))))
		}),
	}
)

// ParseClock validates a HH:MM time and normalizes it.
func ParseClock(s string) (string, error) {
	t, err := time.Parse(ClockFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid time %q, HH:MM expected", s)
	}
	return t.Format(ClockFormat), nil
}

// NowUpdate creates a time update for now.
func NowUpdate(now time.Time, alarm string) *wire.TimeUpdate {
	return wire.NewTimeUpdate(now.Format(ClockFormat), alarm)
}

func init() {
	sh.AddCmds(&TimeCmd, &NowCmd, &AlarmCmd, &ErrorCmd, &RawCmd)
}
