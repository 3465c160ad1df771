package display

import (
	"github.com/dayrise/dayrise.go/pkg/wire"
)

// Mode selects what the display shows.
type Mode int

// Modes.
const (
	ModeIdle Mode = iota
	ModeShowTime
	ModeShowAlarmSet
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeShowTime:
		return "show-time"
	case ModeShowAlarmSet:
		return "show-alarm-set"
	}
	return "unknown"
}

// Model is the state rendered on each cycle.
// Only Apply and Reset change it.
type Model struct {
	Mode        Mode
	CurrentTime string
	AlarmTime   string
	AlarmActive bool
}

// Apply applies a command and reports whether the model changed.
// ErrorReport and Unknown commands leave the model untouched.
func (m *Model) Apply(cmd wire.Command) bool {
	prev := *m
	switch c := cmd.(type) {
	case *wire.TimeUpdate:
		m.Mode = ModeShowTime
		m.CurrentTime = c.CurrentTime
		if c.HasAlarm() {
			m.AlarmActive = true
			m.AlarmTime = c.AlarmTime
		} else {
			m.AlarmActive = false
		}
	case *wire.SetAlarm:
		m.Mode = ModeShowAlarmSet
		m.AlarmTime = c.AlarmTime
	}
	return *m != prev
}

// Reset returns the model to its initial state.
func (m *Model) Reset() {
	*m = Model{}
}
