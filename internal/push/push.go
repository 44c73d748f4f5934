// Package push delivers queued notifications to the user's devices.
// Each Sender covers one channel; the alarm dispatcher fans a request
// out to every configured sender.
package push

import (
	"context"

	"matchday/backend/internal/models"
)

// Sender delivers one notification over one channel. The boolean
// reports whether the channel applied to this user at all, so the
// dispatcher can tell "skipped" from "delivered".
type Sender interface {
	Name() string
	Send(ctx context.Context, user *models.User, req models.PushRequest) (bool, error)
}
