package telemetry

import (
	"encoding/json"
	"sync"
	"testing"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/dayrise/dayrise.go/pkg/display"
	"github.com/dayrise/dayrise.go/pkg/epd"
	"github.com/dayrise/dayrise.go/pkg/wire"
)

type published struct {
	topic   string
	payload []byte
	qos     byte
	retain  bool
}

type fakeClient struct {
	lock sync.Mutex
	msgs []published
}

func (c *fakeClient) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.msgs = append(c.msgs, published{topic, payload, qos, retain})
	return &paho.DummyToken{}
}

func (c *fakeClient) last() published {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.msgs[len(c.msgs)-1]
}

func newTestPublisher() (*Publisher, *fakeClient) {
	client := &fakeClient{}
	return &Publisher{Client: client, Meta: NodeMeta{Device: "clock", Driver: "virtual", Width: 240, Height: 360, Rotation: 270}}, client
}

func TestPublishMeta(t *testing.T) {
	p, client := newTestPublisher()
	p.PublishMeta()
	msg := client.last()
	require.Equal(t, "clock/meta", msg.topic)
	require.True(t, msg.retain)
	var meta NodeMeta
	require.NoError(t, json.Unmarshal(msg.payload, &meta))
	require.Equal(t, p.Meta, meta)
}

func TestReportState(t *testing.T) {
	p, client := newTestPublisher()
	p.ReportState(display.Model{Mode: display.ModeShowTime, CurrentTime: "14:07", AlarmTime: "16:30", AlarmActive: true}, epd.Quick, 42)
	msg := client.last()
	require.Equal(t, "clock/state", msg.topic)
	require.False(t, msg.retain)
	state, err := DecodeState(msg.payload)
	require.NoError(t, err)
	require.Equal(t, "clock", state.Device)
	require.Equal(t, "show-time", state.Mode)
	require.Equal(t, "14:07", state.CurrentTime)
	require.Equal(t, "16:30", state.AlarmTime)
	require.True(t, state.AlarmActive)
	require.Equal(t, "quick", state.Refresh)
	require.Equal(t, uint64(42), state.Cycle)
}

func TestReportError(t *testing.T) {
	p, client := newTestPublisher()
	p.ReportError(wire.Parse("2|sensor|E42"))
	ev, err := DecodeError(client.last().payload)
	require.NoError(t, err)
	require.Equal(t, "clock/error", client.last().topic)
	require.Equal(t, KindReport, ev.Kind)
	require.Equal(t, "2|sensor|E42", ev.Record)
	require.Equal(t, []string{"sensor", "E42"}, ev.Payload)

	p.ReportError(wire.Parse("7|x"))
	ev, err = DecodeError(client.last().payload)
	require.NoError(t, err)
	require.Equal(t, KindRejected, ev.Kind)
	require.Equal(t, "7|x", ev.Record)
	require.Equal(t, wire.ErrUnknownControlCode.Error(), ev.Reason)

	n := len(client.msgs)
	p.ReportError(wire.Parse("1|06:30"))
	require.Len(t, client.msgs, n)
}

func TestClearMeta(t *testing.T) {
	p, client := newTestPublisher()
	p.ClearMeta()
	msg := client.last()
	require.Equal(t, "clock/meta", msg.topic)
	require.Empty(t, msg.payload)
	require.True(t, msg.retain)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := DecodeState([]byte{0xff, 0xff})
	require.Error(t, err)
}
