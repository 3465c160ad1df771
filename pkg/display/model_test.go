package display

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dayrise/dayrise.go/pkg/wire"
)

func TestModelApply(t *testing.T) {
	tests := []struct {
		name    string
		initial Model
		record  wire.Record
		want    Model
		changed bool
	}{
		{
			name:    "time with alarm",
			record:  "0|14:07|16:30",
			want:    Model{Mode: ModeShowTime, CurrentTime: "14:07", AlarmTime: "16:30", AlarmActive: true},
			changed: true,
		},
		{
			name:    "time without alarm keeps alarm time",
			initial: Model{Mode: ModeShowTime, CurrentTime: "14:07", AlarmTime: "16:30", AlarmActive: true},
			record:  "0|14:08|-",
			want:    Model{Mode: ModeShowTime, CurrentTime: "14:08", AlarmTime: "16:30"},
			changed: true,
		},
		{
			name:    "set alarm ignores extra fields",
			record:  "1|07:00|0||1",
			want:    Model{Mode: ModeShowAlarmSet, AlarmTime: "07:00"},
			changed: true,
		},
		{
			name:    "same time",
			initial: Model{Mode: ModeShowTime, CurrentTime: "14:07", AlarmTime: "16:30", AlarmActive: true},
			record:  "0|14:07|16:30",
			want:    Model{Mode: ModeShowTime, CurrentTime: "14:07", AlarmTime: "16:30", AlarmActive: true},
		},
		{
			name:    "error report",
			initial: Model{Mode: ModeShowTime, CurrentTime: "14:07"},
			record:  "2|sensor failure",
			want:    Model{Mode: ModeShowTime, CurrentTime: "14:07"},
		},
		{
			name:    "unknown code",
			initial: Model{Mode: ModeShowAlarmSet, AlarmTime: "07:00"},
			record:  "9|x|y",
			want:    Model{Mode: ModeShowAlarmSet, AlarmTime: "07:00"},
		},
		{
			name:    "malformed",
			initial: Model{Mode: ModeShowAlarmSet, AlarmTime: "07:00"},
			record:  "0|12:00",
			want:    Model{Mode: ModeShowAlarmSet, AlarmTime: "07:00"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.initial
			require.Equal(t, tc.changed, m.Apply(wire.Parse(tc.record)))
			require.Equal(t, tc.want, m)
		})
	}
}

func TestModelReset(t *testing.T) {
	m := Model{Mode: ModeShowTime, CurrentTime: "14:07", AlarmActive: true}
	m.Reset()
	require.Equal(t, Model{}, m)
	require.Equal(t, ModeIdle, m.Mode)
	require.Equal(t, "idle", m.Mode.String())
}
