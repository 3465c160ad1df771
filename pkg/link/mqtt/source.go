// Package mqtt receives wire records published to an MQTT topic.
package mqtt

import (
	"context"

	"github.com/golang/glog"

	"github.com/dayrise/dayrise.go/pkg/link"
	mq "github.com/dayrise/dayrise.go/pkg/mqtt"
)

// CommandTopic returns the topic a device receives records on.
func CommandTopic(device string) string {
	return device + "/cmd"
}

// Source is a record source fed by MQTT messages. Each payload is framed
// like bytes from a serial port, so it may carry several records.
type Source struct {
	*link.Inbox
	Queue *mq.Queue
	Topic string
}

// NewSource creates a Source subscribing CommandTopic(device).
func NewSource(q *mq.Queue, device string) *Source {
	return &Source{
		Inbox: link.NewInbox(link.DefaultInboxSize),
		Queue: q,
		Topic: CommandTopic(device),
	}
}

// Run implements framework.Runnable. The subscription lives until ctx is done.
func (s *Source) Run(ctx context.Context) error {
	sub := s.Queue.Sub(s.Topic, s.handle)
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}

func (s *Source) handle(topic string, payload []byte) {
	if !s.Offer(payload) {
		glog.Warningf("link[mqtt]: inbox full, dropped %d bytes from %s", len(payload), topic)
	}
}
