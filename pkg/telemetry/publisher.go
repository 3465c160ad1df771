// Package telemetry publishes the display state over MQTT.
package telemetry

import (
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/dayrise/dayrise.go/pkg/display"
	"github.com/dayrise/dayrise.go/pkg/epd"
	mq "github.com/dayrise/dayrise.go/pkg/mqtt"
	"github.com/dayrise/dayrise.go/pkg/wire"
)

// PublishTimeout bounds waiting for a publish to complete.
const PublishTimeout = 5 * time.Second

// MetaTopic returns the retained meta topic of a device.
func MetaTopic(device string) string { return device + "/meta" }

// StateTopic returns the display state topic of a device.
func StateTopic(device string) string { return device + "/state" }

// ErrorTopic returns the error event topic of a device.
func ErrorTopic(device string) string { return device + "/error" }

// Client publishes MQTT messages, usually a *mqtt.Queue.
type Client interface {
	PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token
}

// SetWill clears the retained meta when the node disconnects unexpectedly.
func SetWill(opts *paho.ClientOptions, topicPrefix, device string) {
	opts.SetBinaryWill(topicPrefix+MetaTopic(device), nil, 1, true)
}

// Publisher publishes node meta, display states and error events.
// Publish failures are logged and never returned to the caller.
type Publisher struct {
	Client Client
	Meta   NodeMeta

	metaJSON []byte
}

// NewPublisher creates a Publisher which republishes the meta on every
// connection of q and clears it before q is closed.
func NewPublisher(q *mq.Queue, meta NodeMeta) *Publisher {
	p := &Publisher{Client: q, Meta: meta}
	q.OnConnect(func(*mq.Queue) { p.PublishMeta() })
	q.BeforeClose(func(*mq.Queue) { p.ClearMeta() })
	return p
}

// PublishMeta publishes the retained meta.
func (p *Publisher) PublishMeta() {
	if p.metaJSON == nil {
		data, err := json.Marshal(&p.Meta)
		if err != nil {
			panic(err)
		}
		p.metaJSON = data
	}
	p.publish(MetaTopic(p.Meta.Device), p.metaJSON, 1, true)
}

// ReportState publishes the model with the refresh applied in the cycle.
func (p *Publisher) ReportState(m display.Model, d epd.Decision, cycle uint64) {
	p.publishMsg(StateTopic(p.Meta.Device), &DisplayState{
		Device:      p.Meta.Device,
		Mode:        m.Mode.String(),
		CurrentTime: m.CurrentTime,
		AlarmTime:   m.AlarmTime,
		AlarmActive: m.AlarmActive,
		Refresh:     d.String(),
		Cycle:       cycle,
	})
}

// ReportError publishes an ErrorReport or a rejected record.
// Other commands are ignored.
func (p *Publisher) ReportError(cmd wire.Command) {
	ev := &ErrorEvent{Device: p.Meta.Device, Record: string(cmd.Record())}
	switch c := cmd.(type) {
	case *wire.ErrorReport:
		ev.Kind, ev.Payload = KindReport, c.Payload()
	case *wire.Unknown:
		ev.Kind = KindRejected
		if c.Reason != nil {
			ev.Reason = c.Reason.Error()
		}
	default:
		return
	}
	p.publishMsg(ErrorTopic(p.Meta.Device), ev)
}

// ClearMeta removes the retained meta and waits briefly for the broker.
func (p *Publisher) ClearMeta() {
	token := p.Client.PubWith(MetaTopic(p.Meta.Device), nil, 1, true)
	if err := mq.Await(token, time.Second); err != nil {
		glog.Warningf("telemetry: clear meta: %v", err)
	}
}

func (p *Publisher) publishMsg(topic string, msg proto.Message) {
	data, err := proto.Marshal(msg)
	if err != nil {
		glog.Errorf("telemetry: encode %s: %v", topic, err)
		return
	}
	p.publish(topic, data, 0, false)
}

func (p *Publisher) publish(topic string, payload []byte, qos byte, retain bool) {
	token := p.Client.PubWith(topic, payload, qos, retain)
	go func() {
		if err := mq.Await(token, PublishTimeout); err != nil {
			glog.Warningf("telemetry: publish %s: %v", topic, err)
		}
	}()
}
