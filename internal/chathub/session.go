package chathub

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"matchday/backend/internal/apperr"
	"matchday/backend/internal/models"
	"matchday/backend/internal/storage"

	"github.com/go-playground/validator/v10"
)

type joinAllRoomsPayload struct {
	UserID int64 `json:"userId" validate:"required"`
}

type makeRoomPayload struct {
	HostID    int64 `json:"hostId" validate:"required"`
	GuestID   int64 `json:"guestId" validate:"required"`
	PostingID int64 `json:"postingId" validate:"required"`
}

type enterRoomPayload struct {
	RoomName string `json:"roomName" validate:"required"`
}

type sendPayload struct {
	Nickname string `json:"nickname" validate:"required"`
	UserID   int64  `json:"userId" validate:"required"`
	Payload  string `json:"payload" validate:"required"`
	RoomName string `json:"roomName" validate:"required"`
}

// SessionController handles the inbound events of one or more sessions.
// Events of a single session arrive serially from its read pump; the
// controller itself keeps no per-session state, so it is shared.
//
// Every event is answered: a handler failure becomes a typed error
// acknowledgment instead of a silently dropped reply.
type SessionController struct {
	log      *slog.Logger
	hub      *Manager
	storage  storage.Storage
	validate *validator.Validate
}

// NewSessionController wires the controller to the hub and the gateway.
func NewSessionController(log *slog.Logger, hub *Manager, s storage.Storage) *SessionController {
	return &SessionController{
		log:      log.With("component", "session"),
		hub:      hub,
		storage:  s,
		validate: validator.New(),
	}
}

// HandleFrame decodes one inbound frame and dispatches it. The
// acknowledgment goes back through the client's send channel.
func (sc *SessionController) HandleFrame(c Client, raw []byte) {
	var req models.EventRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		// Without an envelope there is no ack id to answer to.
		sc.log.Warn("discarding malformed frame",
			"session_id", c.GetSessionID(), "error", err)
		return
	}

	ack := sc.dispatch(c, req)
	ack.ID = req.ID
	// Same policy as the hub: a session whose buffer is full gets its
	// frame dropped, it never stalls or crashes the server. The hub may
	// already have released the session as a slow consumer, in which
	// case nothing drains the channel anymore.
	select {
	case c.GetSendChannel() <- models.ServerFrame{Ack: &ack}:
	default:
		sc.log.Warn("dropping ack, session not draining",
			"session_id", c.GetSessionID(), "event", req.Event)
	}
}

func (sc *SessionController) dispatch(c Client, req models.EventRequest) models.Ack {
	var (
		data any
		err  error
	)
	switch req.Event {
	case "joinAllRooms":
		data, err = sc.joinAllRooms(c, req.Data)
	case "makeRoom":
		data, err = sc.makeRoom(c, req.Data)
	case "enterRoom":
		data, err = sc.enterRoom(c, req.Data)
	case "send":
		err = sc.send(c, req.Data)
	default:
		err = apperr.BadRequest("unknown event " + req.Event)
	}
	if err != nil {
		sc.log.Warn("event failed",
			"event", req.Event,
			"session_id", c.GetSessionID(),
			"code", apperr.Code(err),
			"error", err)
		return models.Ack{
			OK:    false,
			Error: &models.AckError{Code: apperr.Code(err), Message: err.Error()},
		}
	}
	return models.Ack{OK: true, Data: data}
}

func (sc *SessionController) decode(raw json.RawMessage, into any) error {
	if err := json.Unmarshal(raw, into); err != nil {
		return apperr.BadRequest("invalid event data")
	}
	if err := sc.validate.Struct(into); err != nil {
		return apperr.BadRequest(err.Error())
	}
	return nil
}

// joinAllRooms subscribes the session to every room its user
// participates in and returns one summary per room. A room whose
// counterpart no longer exists is logged and skipped, never fatal for
// the batch.
func (sc *SessionController) joinAllRooms(c Client, raw json.RawMessage) ([]models.RoomSummary, error) {
	var p joinAllRoomsPayload
	if err := sc.decode(raw, &p); err != nil {
		return nil, err
	}
	if p.UserID != c.GetUserID() {
		return nil, apperr.Unauthorized("userId does not match the session identity")
	}

	rooms, err := sc.storage.FindRoomsForUser(p.UserID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		oppID, err := models.CounterpartID(p.UserID, room.RoomName)
		if err != nil {
			sc.log.Warn("skipping room with malformed name",
				"room", room.RoomName, "error", err)
			continue
		}
		opponent, err := sc.storage.GetUserByID(oppID)
		if errors.Is(err, apperr.ErrNotFound) {
			sc.log.Warn("skipping room, counterpart no longer exists",
				"room", room.RoomName, "counterpart_id", oppID)
			continue
		}
		if err != nil {
			return nil, err
		}
		last, err := sc.storage.GetLastMessage(room.RoomID)
		if err != nil {
			return nil, err
		}
		unread, err := sc.storage.CountUnreadMessages(room.RoomID)
		if err != nil {
			return nil, err
		}

		sc.hub.Subscribe(c, room.RoomName)

		summary := models.RoomSummary{
			Nickname:            opponent.Name,
			Image:               opponent.Image,
			UnreadMessageAmount: unread,
			RoomName:            room.RoomName,
		}
		if last != nil {
			summary.LastChatMessage = last.Msg
			summary.LastChatTime = last.ChatTime.UTC().Format(time.RFC3339)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// makeRoom creates or finds the room for a pair, subscribes the
// invoking session, and subscribes every live session of the guest.
func (sc *SessionController) makeRoom(c Client, raw json.RawMessage) (any, error) {
	var p makeRoomPayload
	if err := sc.decode(raw, &p); err != nil {
		return nil, err
	}

	room, created, err := sc.storage.CreateRoomIfAbsent(p.HostID, p.GuestID, p.PostingID)
	if err != nil {
		return nil, err
	}
	if created {
		sc.log.Info("room created",
			"room", room.RoomName, "posting_id", p.PostingID)
	}

	sc.hub.Subscribe(c, room.RoomName)
	sc.hub.SubscribeUser(p.GuestID, room.RoomName)

	return struct {
		RoomName string `json:"roomName"`
	}{room.RoomName}, nil
}

// enterRoom returns the full ordered history of a room and marks the
// counterpart's messages as read.
func (sc *SessionController) enterRoom(c Client, raw json.RawMessage) ([]models.Message, error) {
	var p enterRoomPayload
	if err := sc.decode(raw, &p); err != nil {
		return nil, err
	}

	room, err := sc.storage.GetRoomByName(p.RoomName)
	if err != nil {
		return nil, err
	}
	history, err := sc.storage.GetChatHistory(room.RoomID)
	if err != nil {
		return nil, err
	}
	if err := sc.storage.MarkMessagesRead(room.RoomID, c.GetUserID()); err != nil {
		return nil, err
	}
	if history == nil {
		history = []models.Message{}
	}
	return history, nil
}

// send persists the message first and only then publishes it to the
// room channel, so a delivered message is always recorded. When the
// counterpart has no live session a push notification is queued.
func (sc *SessionController) send(c Client, raw json.RawMessage) error {
	var p sendPayload
	if err := sc.decode(raw, &p); err != nil {
		return err
	}

	room, err := sc.storage.GetRoomByName(p.RoomName)
	if err != nil {
		return err
	}

	msg := &models.Message{
		RoomID: room.RoomID,
		UserID: p.UserID,
		Msg:    p.Payload,
	}
	if err := sc.storage.SaveMessage(msg); err != nil {
		return err
	}

	evt := models.RoomEvent{
		RoomName: room.RoomName,
		Origin:   c.GetSessionID(),
		Event: models.ChatEvent{
			Nickname:  p.Nickname,
			Payload:   p.Payload,
			CreatedAt: time.Now().UnixMilli(),
		},
	}
	if err := sc.storage.PublishRoomEvent(evt); err != nil {
		return err
	}

	oppID, err := models.CounterpartID(p.UserID, room.RoomName)
	if err != nil {
		sc.log.Warn("cannot derive counterpart",
			"room", room.RoomName, "error", err)
		return nil
	}
	if !sc.hub.IsUserOnline(oppID) {
		push := models.PushRequest{
			UserID:  oppID,
			Title:   p.Nickname,
			Body:    p.Payload,
			TypeTag: "chatMessage",
		}
		// Fire-and-forget: chat correctness never depends on the queue.
		if err := sc.storage.EnqueuePush(push); err != nil {
			sc.log.Warn("enqueue push failed",
				"user_id", oppID, "error", err)
		}
	}
	return nil
}
