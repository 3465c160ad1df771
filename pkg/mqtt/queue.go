package mqtt

import (
	"context"
	"errors"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// ErrTimeout is returned when a token is not completed in time.
var ErrTimeout = errors.New("mqtt: timeout")

// Handler is the callback when a message is received.
// The topic has the queue prefix removed.
type Handler func(topic string, payload []byte)

// ConnectHandler handles connect or disconnect events.
type ConnectHandler func(*Queue)

// Queue wraps a paho client with topic prefixing and
// multiple handlers per subscription filter.
type Queue struct {
	Client      paho.Client
	TopicPrefix string

	lock         sync.RWMutex
	subs         map[string][]*Subscription
	nextID       uint64
	onConnect    []ConnectHandler
	onDisconnect []ConnectHandler
	beforeClose  []ConnectHandler
}

// Subscription is a handler registered on a filter.
type Subscription struct {
	// Token is the subscribe token if the filter was new.
	Token paho.Token

	queue   *Queue
	id      uint64
	filter  string
	handler Handler
}

// NewQueue creates Queue.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix, subs: make(map[string][]*Subscription)}
	options.SetOnConnectHandler(q.connected)
	options.SetConnectionLostHandler(q.connectionLost)
	q.Client = paho.NewClient(options)
	return q
}

// NewQueueFromURL creates Queue from a broker URL, see ClientOptionsFromURL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, topicPrefix), nil
}

// OnConnect registers a handler called after each (re)connection.
func (q *Queue) OnConnect(h ConnectHandler) *Queue {
	q.lock.Lock()
	q.onConnect = append(q.onConnect, h)
	q.lock.Unlock()
	return q
}

// OnDisconnect registers a handler called when the connection is lost.
func (q *Queue) OnDisconnect(h ConnectHandler) *Queue {
	q.lock.Lock()
	q.onDisconnect = append(q.onDisconnect, h)
	q.lock.Unlock()
	return q
}

// BeforeClose registers a handler called by Run before disconnecting,
// while the connection is still usable.
func (q *Queue) BeforeClose(h ConnectHandler) *Queue {
	q.lock.Lock()
	q.beforeClose = append(q.beforeClose, h)
	q.lock.Unlock()
	return q
}

// Connect connects the client.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(250)
	return nil
}

// Run implements framework.Runnable: connects, waits until ctx is done,
// then disconnects. A failed initial connection is retried by paho when
// auto reconnect is set, so it is only logged.
func (q *Queue) Run(ctx context.Context) error {
	token := q.Connect()
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			glog.Errorf("mqtt: connect: %v", err)
		}
	}()
	<-ctx.Done()
	q.lock.RLock()
	handlers := append([]ConnectHandler(nil), q.beforeClose...)
	q.lock.RUnlock()
	for _, h := range handlers {
		h(q)
	}
	q.Close()
	return ctx.Err()
}

// Sub subscribes a filter.
func (q *Queue) Sub(filter string, handler Handler) *Subscription {
	q.lock.Lock()
	q.nextID++
	sub := &Subscription{queue: q, id: q.nextID, filter: filter, handler: handler}
	newFilter := len(q.subs[filter]) == 0
	q.subs[filter] = append(q.subs[filter], sub)
	q.lock.Unlock()

	if newFilter {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+filter)
		sub.Token = q.Client.Subscribe(q.TopicPrefix+filter, 0, q.dispatch)
	}
	return sub
}

// Pub publishes to a topic.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.PubWith(topic, payload, 0, false)
}

// PubWith publishes with QoS and retain settings.
func (q *Queue) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	glog.V(2).Infof("PUB %q (%d bytes)", q.TopicPrefix+topic, len(payload))
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

// Resubscribe subscribes all existing filters, used after reconnection.
func (q *Queue) Resubscribe() paho.Token {
	filters := make(map[string]byte)
	q.lock.RLock()
	for filter := range q.subs {
		filters[q.TopicPrefix+filter] = 0
	}
	q.lock.RUnlock()
	if len(filters) == 0 {
		return &paho.DummyToken{}
	}
	for filter := range filters {
		glog.V(2).Infof("SUB %q", filter)
	}
	return q.Client.SubscribeMultiple(filters, q.dispatch)
}

// Await waits for the token up to timeout.
func Await(token paho.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return ErrTimeout
	}
	return token.Error()
}

func (q *Queue) connected(paho.Client) {
	glog.Info("mqtt: connected")
	q.Resubscribe()
	q.lock.RLock()
	handlers := append([]ConnectHandler(nil), q.onConnect...)
	q.lock.RUnlock()
	for _, h := range handlers {
		h(q)
	}
}

func (q *Queue) connectionLost(_ paho.Client, err error) {
	glog.Warningf("mqtt: connection lost: %v", err)
	q.lock.RLock()
	handlers := append([]ConnectHandler(nil), q.onDisconnect...)
	q.lock.RUnlock()
	for _, h := range handlers {
		h(q)
	}
}

func (q *Queue) dispatch(_ paho.Client, msg paho.Message) {
	q.deliver(msg.Topic(), msg.Payload())
}

// handlersFor collects handlers for a topic with the prefix removed.
func (q *Queue) handlersFor(topic string) []Handler {
	var handlers []Handler
	q.lock.RLock()
	defer q.lock.RUnlock()
	for filter, subs := range q.subs {
		if filter != topic && !(IsWildcard(filter) && MatchTopic(topic, filter)) {
			continue
		}
		for _, sub := range subs {
			handlers = append(handlers, sub.handler)
		}
	}
	return handlers
}

func (q *Queue) deliver(topic string, payload []byte) {
	if len(topic) < len(q.TopicPrefix) || topic[:len(q.TopicPrefix)] != q.TopicPrefix {
		return
	}
	topic = topic[len(q.TopicPrefix):]
	glog.V(2).Infof("RCV %q", topic)
	for _, h := range q.handlersFor(topic) {
		h(topic, payload)
	}
}

// Close removes the handler and unsubscribes the filter
// if it was the last one.
func (s *Subscription) Close() error {
	q := s.queue
	q.lock.Lock()
	subs := q.subs[s.filter]
	for i, sub := range subs {
		if sub.id == s.id {
			subs = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	unsub := len(subs) == 0
	if unsub {
		delete(q.subs, s.filter)
	} else {
		q.subs[s.filter] = subs
	}
	q.lock.Unlock()

	if !unsub {
		return nil
	}
	glog.V(2).Infof("UNSUB %q", q.TopicPrefix+s.filter)
	return Await(q.Client.Unsubscribe(q.TopicPrefix+s.filter), 5*time.Second)
}
