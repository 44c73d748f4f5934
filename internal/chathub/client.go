package chathub

import "matchday/backend/internal/models"

// Client is one live session between a user and the chat core. It
// abstracts the underlying transport so the hub and the session
// controller never touch a websocket directly.
type Client interface {
	// GetSessionID returns the unique handle of this connection.
	GetSessionID() string
	// GetUserID returns the user identity bound at connection time.
	GetUserID() int64

	// GetSendChannel returns the channel the hub and the session
	// controller write outbound frames to. It is send-only.
	GetSendChannel() chan<- models.ServerFrame

	// Run starts the client's read and write pumps.
	Run()
	// Close signals the client to shut down; the hub calls it during
	// unregistration. Implementations must not close the send channel:
	// the session controller may still write an acknowledgment to it.
	Close()
}
