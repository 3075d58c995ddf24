package ecs

import "fmt"

// TypedTopic pairs a topic name with its payload type so producers and consumers
// agree at compile time.
type TypedTopic[T any] struct {
	name Topic
}

// NewTopic declares a typed topic.
func NewTopic[T any](name string) TypedTopic[T] {
	return TypedTopic[T]{name: Topic(name)}
}

// Name returns the underlying topic name.
func (t TypedTopic[T]) Name() Topic { return t.name }

// SubscribeTyped registers fn for topic. A payload of another type published on the
// same name through the untyped API is reported as a fault wrapping ErrPayloadType.
func SubscribeTyped[T any](b *MessageBus, topic TypedTopic[T], fn func(payload T) error) *Subscription {
	return b.Subscribe(topic.name, func(msg Message) error {
		payload, ok := msg.Payload.(T)
		if !ok {
			return fmt.Errorf("%w: topic %s got %T", ErrPayloadType, topic.name, msg.Payload)
		}
		return fn(payload)
	})
}

// PublishTyped publishes payload on topic.
func PublishTyped[T any](b *MessageBus, topic TypedTopic[T], payload T) int {
	return b.Publish(topic.name, payload)
}

// Frame boundary topics, published by World.Update with the shared *FrameInfo.
// Only the frame driver publishes these.
var (
	TopicPreUpdate  = NewTopic[*FrameInfo]("frame.pre_update")
	TopicPostUpdate = NewTopic[*FrameInfo]("frame.post_update")
)

// HealthEvent is the payload of the health topics.
type HealthEvent struct {
	Entity  *Entity
	Source  *Entity
	Amount  float64
	Current float64
	Max     float64
}

// Health topics, consumed by UI and audio layers.
var (
	TopicDamaged         = NewTopic[HealthEvent]("health.damaged")
	TopicDied            = NewTopic[HealthEvent]("health.died")
	TopicHealed          = NewTopic[HealthEvent]("health.healed")
	TopicShieldRecharged = NewTopic[HealthEvent]("health.shield_recharged")
)

// CreatedTopic returns the "<kind>.created" wiring topic. Spawners publish the new
// entity on it so systems can find canonical entities, such as the player, without
// referencing the spawner.
func CreatedTopic(kind string) TypedTopic[*Entity] {
	return NewTopic[*Entity](kind + ".created")
}
