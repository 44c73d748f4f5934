package alarm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"matchday/backend/internal/models"
	"matchday/backend/internal/push"
)

// Queue is the slice of the gateway the dispatcher consumes.
type Queue interface {
	DequeuePush(ctx context.Context) (*models.PushRequest, error)
	GetUserByID(userID int64) (*models.User, error)
}

// Dispatcher drains the push queue and fans each request out to every
// configured sender. Delivery failures are logged, never retried into
// the queue; a notification is best-effort.
type Dispatcher struct {
	log     *slog.Logger
	queue   Queue
	senders []push.Sender
}

func NewDispatcher(log *slog.Logger, queue Queue, senders []push.Sender) *Dispatcher {
	return &Dispatcher{
		log:     log.With("component", "dispatcher"),
		queue:   queue,
		senders: senders,
	}
}

// Run blocks on the queue until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		req, err := d.queue.DequeuePush(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				d.log.Info("dispatcher stopping")
				return
			}
			d.log.Error("dequeue push", "error", err)
			time.Sleep(time.Second)
			continue
		}
		d.dispatch(ctx, req)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, req *models.PushRequest) {
	user, err := d.queue.GetUserByID(req.UserID)
	if err != nil {
		d.log.Warn("dropping push, user lookup failed", "user_id", req.UserID, "error", err)
		return
	}

	delivered := 0
	for _, sender := range d.senders {
		applied, err := sender.Send(ctx, user, *req)
		if err != nil {
			d.log.Error("push delivery failed", "channel", sender.Name(), "user_id", req.UserID, "error", err)
			continue
		}
		if applied {
			delivered++
		}
	}
	if delivered == 0 {
		d.log.Debug("push had no reachable channel", "user_id", req.UserID, "type", req.TypeTag)
	}
}
