package chathub

import (
	"context"
	"log/slog"

	"matchday/backend/internal/models"
)

// Subscription asks the hub to add one session to a room's broadcast
// group.
type Subscription struct {
	Client   Client
	RoomName string
}

// UserSubscription asks the hub to add every live session of a user to
// a room's broadcast group. Because presence is a direct map this is
// exact, not a best-effort probe.
type UserSubscription struct {
	UserID   int64
	RoomName string
}

// PresenceQuery answers "is this user connected right now".
type PresenceQuery struct {
	UserID int64
	Reply  chan bool
}

// Manager is the hub: it owns presence (user -> live sessions) and the
// room broadcast groups, and it delivers Pub/Sub events to local
// subscribers. All state is confined to the Run goroutine; every other
// goroutine talks to it through channels.
type Manager struct {
	log *slog.Logger

	sessions map[string]Client            // session id -> client
	users    map[int64]map[string]Client  // user id -> live sessions
	rooms    map[string]map[string]Client // room name -> subscribed sessions

	RegisterCh      chan Client
	UnregisterCh    chan Client
	SubscribeCh     chan Subscription
	SubscribeUserCh chan UserSubscription
	PresenceCh      chan PresenceQuery
	PubSubCh        chan models.RoomEvent
}

// NewManager constructs an idle hub; call Run to start it.
func NewManager(log *slog.Logger) *Manager {
	return &Manager{
		log:             log.With("component", "chathub"),
		sessions:        make(map[string]Client),
		users:           make(map[int64]map[string]Client),
		rooms:           make(map[string]map[string]Client),
		RegisterCh:      make(chan Client),
		UnregisterCh:    make(chan Client),
		SubscribeCh:     make(chan Subscription),
		SubscribeUserCh: make(chan UserSubscription),
		PresenceCh:      make(chan PresenceQuery),
		PubSubCh:        make(chan models.RoomEvent),
	}
}

// Run is the hub dispatch loop.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-m.RegisterCh:
			m.register(c)
		case c := <-m.UnregisterCh:
			m.unregister(c)
		case sub := <-m.SubscribeCh:
			m.subscribe(sub.Client, sub.RoomName)
		case sub := <-m.SubscribeUserCh:
			for _, c := range m.users[sub.UserID] {
				m.subscribe(c, sub.RoomName)
			}
		case q := <-m.PresenceCh:
			q.Reply <- len(m.users[q.UserID]) > 0
		case evt := <-m.PubSubCh:
			m.deliver(evt)
		}
	}
}

func (m *Manager) register(c Client) {
	m.sessions[c.GetSessionID()] = c
	userSessions, ok := m.users[c.GetUserID()]
	if !ok {
		userSessions = make(map[string]Client)
		m.users[c.GetUserID()] = userSessions
	}
	userSessions[c.GetSessionID()] = c
	m.log.Info("session registered",
		"session_id", c.GetSessionID(), "user_id", c.GetUserID())
}

func (m *Manager) unregister(c Client) {
	sid := c.GetSessionID()
	if _, ok := m.sessions[sid]; !ok {
		return // already gone, e.g. dropped as a slow consumer
	}
	delete(m.sessions, sid)
	if userSessions, ok := m.users[c.GetUserID()]; ok {
		delete(userSessions, sid)
		if len(userSessions) == 0 {
			delete(m.users, c.GetUserID())
		}
	}
	for roomName, subscribers := range m.rooms {
		delete(subscribers, sid)
		if len(subscribers) == 0 {
			delete(m.rooms, roomName)
		}
	}
	c.Close()
	m.log.Info("session released",
		"session_id", sid, "user_id", c.GetUserID())
}

func (m *Manager) subscribe(c Client, roomName string) {
	subscribers, ok := m.rooms[roomName]
	if !ok {
		subscribers = make(map[string]Client)
		m.rooms[roomName] = subscribers
	}
	subscribers[c.GetSessionID()] = c
}

// deliver fans a room event out to the local subscribers, skipping the
// session that produced it. A subscriber whose send buffer is full is
// dropped rather than allowed to stall the hub.
func (m *Manager) deliver(evt models.RoomEvent) {
	frame := models.ServerFrame{Event: "send", Data: evt.Event}
	for sid, c := range m.rooms[evt.RoomName] {
		if sid == evt.Origin {
			continue
		}
		select {
		case c.GetSendChannel() <- frame:
		default:
			m.log.Warn("dropping slow session",
				"session_id", sid, "room", evt.RoomName)
			m.unregister(c)
		}
	}
}

// Register adds a session to the hub.
func (m *Manager) Register(c Client) { m.RegisterCh <- c }

// Unregister releases a session and everything it subscribed to.
func (m *Manager) Unregister(c Client) { m.UnregisterCh <- c }

// Subscribe adds one session to a room's broadcast group.
func (m *Manager) Subscribe(c Client, roomName string) {
	m.SubscribeCh <- Subscription{Client: c, RoomName: roomName}
}

// SubscribeUser adds every live session of a user to a room's group.
func (m *Manager) SubscribeUser(userID int64, roomName string) {
	m.SubscribeUserCh <- UserSubscription{UserID: userID, RoomName: roomName}
}

// IsUserOnline reports whether the user has at least one live session.
func (m *Manager) IsUserOnline(userID int64) bool {
	reply := make(chan bool, 1)
	m.PresenceCh <- PresenceQuery{UserID: userID, Reply: reply}
	return <-reply
}
