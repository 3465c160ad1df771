package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterpret(t *testing.T) {
	testCases := []struct {
		name   string
		in     Record
		expect Command
	}{
		{"time update", "0|14:07|16:30", &TimeUpdate{CurrentTime: "14:07", AlarmTime: "16:30"}},
		{"time update no alarm", "0|14:07|-", &TimeUpdate{CurrentTime: "14:07", AlarmTime: "-"}},
		{"time update extra fields", "0|14:07|-|x", &TimeUpdate{CurrentTime: "14:07", AlarmTime: "-"}},
		{"set alarm", "1|07:00", &SetAlarm{AlarmTime: "07:00"}},
		{"set alarm extra fields", "1|07:00|0||1", &SetAlarm{AlarmTime: "07:00"}},
		{"error report", "2|12:00|0||1", &ErrorReport{Raw: "2|12:00|0||1"}},
		{"error report code only", "2", &ErrorReport{Raw: "2"}},
		{"unknown code", "3|12:00", &Unknown{Raw: "3|12:00", Reason: ErrUnknownControlCode}},
		{"empty record", "", &Unknown{Raw: "", Reason: ErrUnknownControlCode}},
		{"missing code", "|12:00|-", &Unknown{Raw: "|12:00|-", Reason: ErrUnknownControlCode}},
		{"code with spaces", " 0|12:00|-", &Unknown{Raw: " 0|12:00|-", Reason: ErrUnknownControlCode}},
		{"time update too short", "0|14:07", &Unknown{Raw: "0|14:07", Reason: ErrMalformedArity}},
		{"set alarm too short", "1", &Unknown{Raw: "1", Reason: ErrMalformedArity}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Parse(tc.in))
		})
	}
}

func TestUnknownReason(t *testing.T) {
	cmd, ok := Parse("0|12:00").(*Unknown)
	require.True(t, ok)
	require.True(t, errors.Is(cmd.Reason, ErrMalformedArity))
	require.Contains(t, cmd.Error(), "too few fields")
	require.Equal(t, CodeUnknown, cmd.Code())
}

func TestControlCode(t *testing.T) {
	for _, code := range []ControlCode{CodeTimeUpdate, CodeSetAlarm, CodeErrorReport} {
		require.Equal(t, code, ParseControlCode(code.Field()))
	}
	require.Equal(t, CodeUnknown, ParseControlCode("3"))
	require.Equal(t, CodeUnknown, ParseControlCode(""))
	require.Equal(t, "", CodeUnknown.Field())
	require.Equal(t, "SetAlarm", CodeSetAlarm.String())
}

func TestEncode(t *testing.T) {
	testCases := []struct {
		name   string
		cmd    Command
		expect string
	}{
		{"time update", NewTimeUpdate("14:07", "16:30"), "0|14:07|16:30\n"},
		{"time update no alarm", NewTimeUpdate("14:07", ""), "0|14:07|-\n"},
		{"set alarm", &SetAlarm{AlarmTime: "07:00"}, "1|07:00\n"},
		{"error report", NewErrorReport("ntp", "timeout"), "2|ntp|timeout\n"},
		{"unknown", &Unknown{Raw: "9|x"}, "9|x\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, string(Encode(tc.cmd)))
			var buf bytes.Buffer
			require.NoError(t, WriteCommand(&buf, tc.cmd))
			require.Equal(t, tc.expect, buf.String())
		})
	}
}

func TestErrorReportPayload(t *testing.T) {
	require.Equal(t, Fields{"ntp", "", "timeout"}, NewErrorReport("ntp", "", "timeout").Payload())
	require.Equal(t, Fields{}, (&ErrorReport{Raw: "2"}).Payload())
}

func TestTimeUpdateHasAlarm(t *testing.T) {
	require.False(t, NewTimeUpdate("12:00", AlarmNone).HasAlarm())
	require.True(t, NewTimeUpdate("12:00", "06:30").HasAlarm())
}
