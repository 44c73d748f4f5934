package models

import "encoding/json"

// EventRequest is the inbound websocket envelope. ID correlates the
// acknowledgment; Data is decoded per event by the session controller.
type EventRequest struct {
	Event string          `json:"event"`
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data"`
}

// Ack is the acknowledgment for one EventRequest. A handler failure is
// always answered with OK=false and a typed error, never dropped.
type Ack struct {
	ID    string    `json:"id"`
	OK    bool      `json:"ok"`
	Data  any       `json:"data,omitempty"`
	Error *AckError `json:"error,omitempty"`
}

// AckError carries the wire error code and a human-readable message.
type AckError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServerFrame is one outbound websocket frame: either the
// acknowledgment of an inbound event or a broadcast.
type ServerFrame struct {
	Event string `json:"event,omitempty"`
	Ack   *Ack   `json:"ack,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// ChatEvent is the outbound "send" broadcast delivered to the other
// subscribers of a room. CreatedAt is unix milliseconds.
type ChatEvent struct {
	Nickname  string `json:"nickname"`
	Payload   string `json:"payload"`
	CreatedAt int64  `json:"createdAt"`
}

// RoomEvent wraps a ChatEvent with routing info for Redis Pub/Sub.
// Origin is the session id that produced the event so the hub can skip
// delivering a message back to its sender.
type RoomEvent struct {
	RoomName string    `json:"room_name"`
	Origin   string    `json:"origin"`
	Event    ChatEvent `json:"event"`
}

// RoomSummary is one joinAllRooms result entry.
type RoomSummary struct {
	Nickname            string `json:"nickname"`
	Image               string `json:"image"`
	LastChatMessage     string `json:"lastChatMessage,omitempty"`
	LastChatTime        string `json:"lastChatTime,omitempty"`
	UnreadMessageAmount int64  `json:"unreadMessageAmount"`
	RoomName            string `json:"roomName"`
}

// PushRequest is one queued notification awaiting dispatch.
type PushRequest struct {
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	TypeTag string `json:"type"`
}
