package sh

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dayrise/dayrise.go/pkg/telemetry"
	"github.com/dayrise/dayrise.go/pkg/wire"
)

func TestWriterTarget(t *testing.T) {
	var buf bytes.Buffer
	target := NewWriterTarget("buf", &buf)
	require.Equal(t, "buf", target.Name())
	require.NoError(t, target.Send(wire.NewTimeUpdate("07:15", "")))
	require.NoError(t, target.Send(&wire.SetAlarm{AlarmTime: "06:30"}))
	require.NoError(t, target.Close())
	require.Equal(t, "0|07:15|-\n1|06:30\n", buf.String())
}

func TestOpenTarget(t *testing.T) {
	conf := &Config{}
	target, err := conf.OpenTarget()
	require.NoError(t, err)
	require.Equal(t, "stdout", target.Name())

	_, err = openTarget(conf, nil)
	require.Error(t, err)
	_, err = openTarget(conf, []string{"serial"})
	require.Error(t, err)
	_, err = openTarget(conf, []string{"serial", "/dev/null", "fast"})
	require.Error(t, err)
	_, err = openTarget(conf, []string{"pigeon"})
	require.Error(t, err)
	target, err = openTarget(conf, []string{"stdout"})
	require.NoError(t, err)
	require.NoError(t, target.Close())
}

func TestFormatMeta(t *testing.T) {
	require.Equal(t, "clock: virtual 240x360@270 [uart:/dev/ttyS0]", FormatMeta(telemetry.NodeMeta{
		Device: "clock", Driver: "virtual", Width: 240, Height: 360, Rotation: 270,
		Links: []string{"uart:/dev/ttyS0"},
	}))
}
