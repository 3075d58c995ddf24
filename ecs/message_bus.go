package ecs

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Topic names a message channel.
type Topic string

// Message is what a handler receives.
type Message struct {
	Topic   Topic
	Payload any
}

// Handler is a subscriber callback. A returned error or a panic is a fault: it is
// logged and reported, and the remaining handlers still run.
type Handler func(msg Message) error

// Fault describes a failed handler invocation.
type Fault struct {
	Topic          Topic
	SubscriptionID string
	Err            error
}

// Subscription is the capability to stop receiving a topic.
type Subscription struct {
	id      uuid.UUID
	topic   Topic
	handler Handler
	bus     *MessageBus
	active  bool
}

// ID returns the subscription's unique id.
func (s *Subscription) ID() string { return s.id.String() }

// Topic returns the subscribed topic.
func (s *Subscription) Topic() Topic { return s.topic }

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool { return s.active }

// Cancel unsubscribes. Calling it more than once is harmless. A publish already in
// progress still reaches this subscriber.
func (s *Subscription) Cancel() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	s.bus.remove(s)
}

type topicEntry struct {
	subs      []*Subscription // replaced on every change, never mutated in place
	published uint64
	delivered uint64
	faults    uint64
}

// MessageBus is a synchronous, same-thread publish/subscribe channel keyed by topic.
//
// Subscriber lists are copy-on-write: a publish ranges over the list that was current
// when it started, so subscribing or cancelling from inside a handler affects the next
// publish of that topic, not the one in progress.
type MessageBus struct {
	log     *zap.Logger
	topics  map[Topic]*topicEntry
	onFault func(Fault)
}

// NewMessageBus returns an empty bus. A nil logger disables fault logging.
func NewMessageBus(log *zap.Logger) *MessageBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessageBus{
		log:    log,
		topics: make(map[Topic]*topicEntry),
	}
}

// SetFaultHandler installs fn to be called for every handler fault.
func (b *MessageBus) SetFaultHandler(fn func(Fault)) {
	b.onFault = fn
}

// Subscribe registers handler for topic. Handlers run in registration order.
func (b *MessageBus) Subscribe(topic Topic, handler Handler) *Subscription {
	if handler == nil {
		b.log.Warn("ignoring nil handler", zap.String("topic", string(topic)))
		return &Subscription{topic: topic, bus: b}
	}
	t := b.topics[topic]
	if t == nil {
		t = &topicEntry{}
		b.topics[topic] = t
	}

	s := &Subscription{
		id:      uuid.New(),
		topic:   topic,
		handler: handler,
		bus:     b,
		active:  true,
	}
	subs := make([]*Subscription, len(t.subs), len(t.subs)+1)
	copy(subs, t.subs)
	t.subs = append(subs, s)
	return s
}

// Unsubscribe cancels s.
func (b *MessageBus) Unsubscribe(s *Subscription) {
	s.Cancel()
}

// Publish delivers payload to every handler subscribed to topic when the call starts,
// in registration order, and returns the number of handlers invoked.
func (b *MessageBus) Publish(topic Topic, payload any) int {
	if topic == "" {
		b.log.Warn("ignoring publish without topic")
		return 0
	}
	t := b.topics[topic]
	if t == nil {
		return 0
	}
	if ce := b.log.Check(zap.DebugLevel, "publish"); ce != nil {
		ce.Write(zap.String("topic", string(topic)), zap.Int("subscribers", len(t.subs)))
	}
	return b.deliver(t, Message{Topic: topic, Payload: payload})
}

// FastPublish is Publish without validation or tracing, for the frame driver's
// per-frame topics. It does not allocate.
func (b *MessageBus) FastPublish(topic Topic, payload any) {
	if t := b.topics[topic]; t != nil {
		b.deliver(t, Message{Topic: topic, Payload: payload})
	}
}

func (b *MessageBus) deliver(t *topicEntry, msg Message) int {
	subs := t.subs
	t.published++
	for _, s := range subs {
		b.invoke(t, s, msg)
	}
	return len(subs)
}

func (b *MessageBus) invoke(t *topicEntry, s *Subscription, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			b.fault(t, s, msg.Topic, fmt.Errorf("handler panic: %v", r))
		}
	}()
	t.delivered++
	if err := s.handler(msg); err != nil {
		b.fault(t, s, msg.Topic, err)
	}
}

func (b *MessageBus) fault(t *topicEntry, s *Subscription, topic Topic, err error) {
	t.faults++
	id := s.id.String()
	b.log.Error("message handler failed",
		zap.String("topic", string(topic)),
		zap.String("subscription", id),
		zap.Error(err))
	if b.onFault != nil {
		b.onFault(Fault{Topic: topic, SubscriptionID: id, Err: err})
	}
}

func (b *MessageBus) remove(s *Subscription) {
	t := b.topics[s.topic]
	if t == nil {
		return
	}
	subs := make([]*Subscription, 0, len(t.subs))
	for _, other := range t.subs {
		if other != s {
			subs = append(subs, other)
		}
	}
	t.subs = subs
}

// SubscriberCount returns the number of handlers registered for topic.
func (b *MessageBus) SubscriberCount(topic Topic) int {
	if t := b.topics[topic]; t != nil {
		return len(t.subs)
	}
	return 0
}

// TopicStats is a per-topic diagnostic snapshot.
type TopicStats struct {
	Topic       Topic
	Subscribers int
	Published   uint64
	Delivered   uint64
	Faults      uint64
}

// Stats returns per-topic counters sorted by topic name.
func (b *MessageBus) Stats() []TopicStats {
	out := make([]TopicStats, 0, len(b.topics))
	for name, t := range b.topics {
		out = append(out, TopicStats{
			Topic:       name,
			Subscribers: len(t.subs),
			Published:   t.published,
			Delivered:   t.delivered,
			Faults:      t.faults,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out
}
