package chathub

import (
	"context"
	"encoding/json"

	"matchday/backend/internal/models"
	"matchday/backend/internal/storage"

	"github.com/redis/go-redis/v9"
)

// Listen consumes the room Pub/Sub subscription and feeds events into
// the Run loop. Every hub instance listens to every room channel; the
// Run loop only delivers to sessions subscribed locally.
func (m *Manager) Listen(ctx context.Context, pubsub *redis.PubSub) {
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var evt models.RoomEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				m.log.Error("unmarshal pubsub payload",
					"channel", msg.Channel, "error", err)
				continue
			}
			// The channel a message arrived on is the routing key; a
			// payload naming a different room never misroutes.
			evt.RoomName = storage.RoomNameFromChannel(msg.Channel)
			select {
			case m.PubSubCh <- evt:
			case <-ctx.Done():
				return
			}
		}
	}
}
