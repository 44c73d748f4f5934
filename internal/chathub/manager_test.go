package chathub_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"matchday/backend/internal/chathub"
	"matchday/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startHub(t *testing.T) *chathub.Manager {
	t.Helper()
	hub := chathub.NewManager(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestManager_RegisterUnregister(t *testing.T) {
	hub := startHub(t)
	client := newMockClient("sess_a", 1)

	hub.Register(client)
	assert.True(t, hub.IsUserOnline(1))

	hub.Unregister(client)
	assert.False(t, hub.IsUserOnline(1))
}

func TestManager_PresenceAcrossSessions(t *testing.T) {
	hub := startHub(t)
	phone := newMockClient("sess_phone", 7)
	tablet := newMockClient("sess_tablet", 7)

	hub.Register(phone)
	hub.Register(tablet)
	assert.True(t, hub.IsUserOnline(7))

	hub.Unregister(phone)
	assert.True(t, hub.IsUserOnline(7), "user still has a live session")

	hub.Unregister(tablet)
	assert.False(t, hub.IsUserOnline(7))
}

func TestManager_DeliverSkipsOrigin(t *testing.T) {
	hub := startHub(t)
	sender := newMockClient("sess_sender", 1)
	receiver := newMockClient("sess_receiver", 2)

	hub.Register(sender)
	hub.Register(receiver)
	hub.Subscribe(sender, "1_2")
	hub.Subscribe(receiver, "1_2")

	hub.PubSubCh <- models.RoomEvent{
		RoomName: "1_2",
		Origin:   "sess_sender",
		Event:    models.ChatEvent{Nickname: "kim", Payload: "hello", CreatedAt: 1},
	}
	time.Sleep(100 * time.Millisecond)

	select {
	case frame := <-receiver.Recv:
		assert.Equal(t, "send", frame.Event)
		evt := frame.Data.(models.ChatEvent)
		assert.Equal(t, "hello", evt.Payload)
		assert.Equal(t, "kim", evt.Nickname)
	default:
		t.Error("receiver did not get the event")
	}

	select {
	case <-sender.Recv:
		t.Error("origin session must not receive its own event")
	default:
	}
}

func TestManager_DeliverIgnoresOtherRooms(t *testing.T) {
	hub := startHub(t)
	bystander := newMockClient("sess_bystander", 3)

	hub.Register(bystander)
	hub.Subscribe(bystander, "3_4")

	hub.PubSubCh <- models.RoomEvent{
		RoomName: "1_2",
		Origin:   "sess_elsewhere",
		Event:    models.ChatEvent{Payload: "hello"},
	}
	time.Sleep(100 * time.Millisecond)

	select {
	case <-bystander.Recv:
		t.Error("session subscribed to a different room received the event")
	default:
	}
}

func TestManager_SubscribeUserCoversAllSessions(t *testing.T) {
	hub := startHub(t)
	phone := newMockClient("sess_phone", 5)
	tablet := newMockClient("sess_tablet", 5)

	hub.Register(phone)
	hub.Register(tablet)
	hub.SubscribeUser(5, "4_5")

	hub.PubSubCh <- models.RoomEvent{
		RoomName: "4_5",
		Origin:   "sess_host",
		Event:    models.ChatEvent{Payload: "welcome"},
	}
	time.Sleep(100 * time.Millisecond)

	for _, c := range []*mockClient{phone, tablet} {
		select {
		case frame := <-c.Recv:
			assert.Equal(t, "welcome", frame.Data.(models.ChatEvent).Payload)
		default:
			t.Errorf("session %s did not get the event", c.GetSessionID())
		}
	}
}

func TestManager_SlowConsumerIsReleased(t *testing.T) {
	hub := startHub(t)
	stalled := &mockClient{sessionID: "sess_stalled", userID: 6, Recv: make(chan models.ServerFrame)}

	hub.Register(stalled)
	hub.Subscribe(stalled, "5_6")

	// Nobody drains the unbuffered channel, so delivery cannot complete
	// and the hub must drop the session instead of stalling.
	hub.PubSubCh <- models.RoomEvent{
		RoomName: "5_6",
		Origin:   "sess_other",
		Event:    models.ChatEvent{Payload: "hello"},
	}
	time.Sleep(100 * time.Millisecond)

	assert.False(t, hub.IsUserOnline(6), "stalled session must be released")
}

func TestManager_UnregisterDropsSubscriptions(t *testing.T) {
	hub := startHub(t)
	client := newMockClient("sess_gone", 9)

	hub.Register(client)
	hub.Subscribe(client, "8_9")
	hub.Unregister(client)

	hub.PubSubCh <- models.RoomEvent{
		RoomName: "8_9",
		Origin:   "sess_other",
		Event:    models.ChatEvent{Payload: "late"},
	}
	time.Sleep(100 * time.Millisecond)

	select {
	case <-client.Recv:
		t.Error("released session received an event")
	default:
	}
}
