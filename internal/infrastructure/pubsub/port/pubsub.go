package port

import "context"

// Message is one delivery from a subscribed channel.
type Message struct {
	Channel string
	Payload []byte
}

// Subscription is a live stream of messages. Close releases the underlying
// transport resources; Messages is closed afterwards.
type Subscription interface {
	Messages() <-chan Message
	Close() error
}

// PubSub is the broadcast transport contract. Delivery is at-most-once with
// no ordering guarantee across publishers; subscribers that need stronger
// semantics must layer them on top.
type PubSub interface {
	// Publish sends payload on the named channel. It does not wait for
	// subscriber acknowledgement.
	Publish(ctx context.Context, channel string, payload []byte) error

	// Subscribe opens a stream for the exact channel names given.
	Subscribe(ctx context.Context, channels ...string) (Subscription, error)

	// PSubscribe opens a stream for glob-style channel patterns
	// (e.g. "meeting:*").
	PSubscribe(ctx context.Context, patterns ...string) (Subscription, error)

	Close() error
}
