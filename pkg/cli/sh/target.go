package sh

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/net/websocket"

	linkmqtt "github.com/dayrise/dayrise.go/pkg/link/mqtt"
	"github.com/dayrise/dayrise.go/pkg/link/uart"
	mq "github.com/dayrise/dayrise.go/pkg/mqtt"
	"github.com/dayrise/dayrise.go/pkg/wire"
)

// SendTimeout bounds waiting for the broker to accept a record.
const SendTimeout = 5 * time.Second

// Target receives commands sent by the shell.
type Target interface {
	Name() string
	Send(cmd wire.Command) error
	Close() error
}

// WriterTarget writes encoded records to a stream.
type WriterTarget struct {
	W    io.Writer
	name string
}

// NewWriterTarget creates a WriterTarget.
func NewWriterTarget(name string, w io.Writer) *WriterTarget {
	return &WriterTarget{W: w, name: name}
}

// Name implements Target.
func (t *WriterTarget) Name() string { return t.name }

// Send implements Target.
func (t *WriterTarget) Send(cmd wire.Command) error {
	return wire.WriteCommand(t.W, cmd)
}

// Close implements Target.
func (t *WriterTarget) Close() error {
	if t.W == os.Stdout {
		return nil
	}
	if c, ok := t.W.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Stdout writes records to the standard output.
func Stdout() Target {
	return NewWriterTarget("stdout", os.Stdout)
}

// OpenSerial opens a serial port as a Target.
func OpenSerial(port string, baud int) (Target, error) {
	p, err := uart.Open(port, baud)
	if err != nil {
		return nil, err
	}
	return NewWriterTarget("uart:"+port, p), nil
}

// OpenWebsocket dials the websocket link of a node. Every record is
// sent as one websocket message.
func OpenWebsocket(url string) (Target, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewWriterTarget("ws:"+url, conn), nil
}

// MQTTTarget publishes records to the command topic of a device.
type MQTTTarget struct {
	Queue  *mq.Queue
	Device string
}

// OpenMQTT connects to the broker.
func OpenMQTT(brokerURL, device string) (Target, error) {
	q, err := mq.NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if err := mq.Await(q.Connect(), SendTimeout); err != nil {
		return nil, fmt.Errorf("connect %s: %w", brokerURL, err)
	}
	return &MQTTTarget{Queue: q, Device: device}, nil
}

// Name implements Target.
func (t *MQTTTarget) Name() string { return "mqtt:" + t.Device }

// Send implements Target.
func (t *MQTTTarget) Send(cmd wire.Command) error {
	return mq.Await(t.Queue.PubWith(linkmqtt.CommandTopic(t.Device), wire.Encode(cmd), 1, false), SendTimeout)
}

// Close implements Target.
func (t *MQTTTarget) Close() error {
	return t.Queue.Close()
}
