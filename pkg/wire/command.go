package wire

import (
	"fmt"
	"io"
)

// ControlCode selects the kind of a command.
type ControlCode int

// Control codes.
const (
	CodeUnknown ControlCode = iota
	CodeTimeUpdate
	CodeSetAlarm
	CodeErrorReport
)

// AlarmNone is sent in place of the alarm time when no alarm is set.
const AlarmNone = "-"

var codeFields = map[string]ControlCode{
	"0": CodeTimeUpdate,
	"1": CodeSetAlarm,
	"2": CodeErrorReport,
}

// minFields is the minimum number of fields, control code included.
var minFields = map[ControlCode]int{
	CodeTimeUpdate:  3,
	CodeSetAlarm:    2,
	CodeErrorReport: 1,
}

// ParseControlCode maps a control code field to ControlCode.
func ParseControlCode(s string) ControlCode {
	if code, ok := codeFields[s]; ok {
		return code
	}
	return CodeUnknown
}

// Field returns the wire representation of the code.
func (c ControlCode) Field() string {
	switch c {
	case CodeTimeUpdate:
		return "0"
	case CodeSetAlarm:
		return "1"
	case CodeErrorReport:
		return "2"
	}
	return ""
}

// String implements fmt.Stringer.
func (c ControlCode) String() string {
	switch c {
	case CodeTimeUpdate:
		return "TimeUpdate"
	case CodeSetAlarm:
		return "SetAlarm"
	case CodeErrorReport:
		return "ErrorReport"
	}
	return "Unknown"
}

// Command is a validated command received from the master.
type Command interface {
	// Code returns the control code of the command.
	Code() ControlCode
	// Record encodes the command back into a record.
	Record() Record
}

// TimeUpdate carries the current time and the alarm time.
type TimeUpdate struct {
	CurrentTime string
	// AlarmTime is AlarmNone if no alarm is set.
	AlarmTime string
}

// NewTimeUpdate creates a TimeUpdate, an empty alarm means no alarm.
func NewTimeUpdate(current, alarm string) *TimeUpdate {
	if alarm == "" {
		alarm = AlarmNone
	}
	return &TimeUpdate{CurrentTime: current, AlarmTime: alarm}
}

// Code implements Command.
func (c *TimeUpdate) Code() ControlCode { return CodeTimeUpdate }

// Record implements Command.
func (c *TimeUpdate) Record() Record {
	return Fields{CodeTimeUpdate.Field(), c.CurrentTime, c.AlarmTime}.Join()
}

// HasAlarm indicates an alarm is set.
func (c *TimeUpdate) HasAlarm() bool {
	return c.AlarmTime != AlarmNone
}

// SetAlarm carries the alarm time while the alarm is being configured.
type SetAlarm struct {
	AlarmTime string
}

// Code implements Command.
func (c *SetAlarm) Code() ControlCode { return CodeSetAlarm }

// Record implements Command.
func (c *SetAlarm) Record() Record {
	return Fields{CodeSetAlarm.Field(), c.AlarmTime}.Join()
}

// ErrorReport is an error reported by the master. Raw is the whole record.
type ErrorReport struct {
	Raw Record
}

// NewErrorReport creates an ErrorReport with the payload fields.
func NewErrorReport(payload ...string) *ErrorReport {
	return &ErrorReport{Raw: append(Fields{CodeErrorReport.Field()}, payload...).Join()}
}

// Code implements Command.
func (c *ErrorReport) Code() ControlCode { return CodeErrorReport }

// Record implements Command.
func (c *ErrorReport) Record() Record { return c.Raw }

// Payload returns the fields after the control code.
func (c *ErrorReport) Payload() Fields {
	return SplitFields(c.Raw)[1:]
}

// Unknown is anything that can't be interpreted.
type Unknown struct {
	Raw    Record
	Reason error
}

// Code implements Command.
func (c *Unknown) Code() ControlCode { return CodeUnknown }

// Record implements Command.
func (c *Unknown) Record() Record { return c.Raw }

// Error implements error.
func (c *Unknown) Error() string {
	return fmt.Sprintf("%v: %q", c.Reason, string(c.Raw))
}

// Interpret maps fields to a command.
// It never fails: unrecognized codes and missing fields degrade to Unknown.
func Interpret(fields Fields) Command {
	code := ParseControlCode(fields.Code())
	if code == CodeUnknown {
		return &Unknown{Raw: fields.Join(), Reason: ErrUnknownControlCode}
	}
	if len(fields) < minFields[code] {
		return &Unknown{Raw: fields.Join(), Reason: ErrMalformedArity}
	}
	switch code {
	case CodeTimeUpdate:
		return &TimeUpdate{CurrentTime: fields[1], AlarmTime: fields[2]}
	case CodeSetAlarm:
		return &SetAlarm{AlarmTime: fields[1]}
	default:
		return &ErrorReport{Raw: fields.Join()}
	}
}

// Parse splits and interprets a record.
func Parse(r Record) Command {
	return Interpret(SplitFields(r))
}

// Encode returns the bytes to send for a command.
func Encode(cmd Command) []byte {
	return cmd.Record().Bytes()
}

// WriteCommand writes an encoded command.
func WriteCommand(w io.Writer, cmd Command) error {
	_, err := w.Write(Encode(cmd))
	return err
}
