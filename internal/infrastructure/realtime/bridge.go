package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	psport "go-huddle/internal/infrastructure/pubsub/port"
)

// Bridge forwards broadcast events from the pub/sub transport into websocket
// rooms. One bridge per process subscribes to the meeting channel pattern and
// fans each event out to every socket joined to that meeting, regardless of
// which process published it.
type Bridge struct {
	ps     psport.PubSub
	router *Router
}

func NewBridge(ps psport.PubSub, router *Router) *Bridge {
	return &Bridge{ps: ps, router: router}
}

// eventFrame is what websocket clients receive for each broadcast event.
type eventFrame struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel"`
	Event   json.RawMessage `json:"event"`
}

// Run blocks until ctx is canceled or the subscription closes.
func (b *Bridge) Run(ctx context.Context) error {
	sub, err := b.ps.PSubscribe(ctx, "meeting:*")
	if err != nil {
		return fmt.Errorf("bridge: psubscribe: %w", err)
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-sub.Messages():
			if !ok {
				return nil
			}
			b.forward(msg)
		}
	}
}

func (b *Bridge) forward(msg psport.Message) {
	meetingID := meetingIDFromChannel(msg.Channel)
	if meetingID == "" {
		return
	}
	frame := eventFrame{Type: "event", Channel: msg.Channel, Event: msg.Payload}
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("bridge: encode frame for %s: %v", msg.Channel, err)
		return
	}
	b.router.Broadcast(meetingID, payload, "")
}

// meetingIDFromChannel extracts the meeting id from "meeting:{id}:{topic}".
func meetingIDFromChannel(channel string) string {
	parts := strings.Split(channel, ":")
	if len(parts) != 3 || parts[0] != "meeting" {
		return ""
	}
	return parts[1]
}
