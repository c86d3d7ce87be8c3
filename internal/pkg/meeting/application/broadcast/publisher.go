package broadcast

import (
	"context"
	"encoding/json"
	"log"

	psport "go-huddle/internal/infrastructure/pubsub/port"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
)

// Publisher is the publish side of the broadcast fan-out. Publishing happens
// after the primary state mutation has been persisted and is fire-and-forget:
// transport failures are logged here and never surface to the caller.
type Publisher struct {
	ps psport.PubSub
}

func NewPublisher(ps psport.PubSub) *Publisher {
	return &Publisher{ps: ps}
}

// Publish wraps payload in the event envelope and sends it on the meeting's
// topic channel.
func (p *Publisher) Publish(ctx context.Context, meetingID string, topic meeting.Topic, name string, payload any) {
	evt, err := meeting.NewEvent(name, payload)
	if err != nil {
		log.Printf("broadcast: %v", err)
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		log.Printf("broadcast: marshal envelope for %s: %v", name, err)
		return
	}
	channel := meeting.ChannelName(meetingID, topic)
	if err := p.ps.Publish(ctx, channel, b); err != nil {
		log.Printf("broadcast: publish %s on %s: %v", name, channel, err)
	}
}
