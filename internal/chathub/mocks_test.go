package chathub_test

import (
	"context"

	"matchday/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the full storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetUserByID(userID int64) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) CreateRoomIfAbsent(hostID, guestID, postingID int64) (*models.ChatRoom, bool, error) {
	args := m.Called(hostID, guestID, postingID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.ChatRoom), args.Bool(1), args.Error(2)
}

func (m *MockStorage) GetRoomByName(roomName string) (*models.ChatRoom, error) {
	args := m.Called(roomName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) FindRoomsForUser(userID int64) ([]models.ChatRoom, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatRoom), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetChatHistory(roomID int64) ([]models.Message, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) GetLastMessage(roomID int64) (*models.Message, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) CountUnreadMessages(roomID int64) (int64, error) {
	args := m.Called(roomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MarkMessagesRead(roomID, readerID int64) error {
	args := m.Called(roomID, readerID)
	return args.Error(0)
}

func (m *MockStorage) PublishRoomEvent(evt models.RoomEvent) error {
	args := m.Called(evt)
	return args.Error(0)
}

func (m *MockStorage) GetPostingByID(postingID int64) (*models.Posting, error) {
	args := m.Called(postingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Posting), args.Error(1)
}

func (m *MockStorage) SaveMatchAlarm(alarm *models.MatchAlarm) error {
	args := m.Called(alarm)
	return args.Error(0)
}

func (m *MockStorage) GetMatchAlarmByID(alarmID int64) (*models.MatchAlarm, error) {
	args := m.Called(alarmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchAlarm), args.Error(1)
}

func (m *MockStorage) FindMatchAlarmsForUser(userID int64) ([]models.MatchAlarm, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchAlarm), args.Error(1)
}

func (m *MockStorage) HasMatchAlarm(postingID, hostID, guestID int64) (bool, error) {
	args := m.Called(postingID, hostID, guestID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetMatchAlarmApply(alarmID int64, apply bool) error {
	args := m.Called(alarmID, apply)
	return args.Error(0)
}

func (m *MockStorage) SaveReview(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockStorage) EnqueuePush(req models.PushRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockStorage) DequeuePush(ctx context.Context) (*models.PushRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PushRequest), args.Error(1)
}

// mockClient is an in-memory chathub.Client with a buffered outbound
// channel the tests read frames from.
type mockClient struct {
	sessionID string
	userID    int64
	Recv      chan models.ServerFrame
}

func newMockClient(sessionID string, userID int64) *mockClient {
	return &mockClient{
		sessionID: sessionID,
		userID:    userID,
		Recv:      make(chan models.ServerFrame, 16),
	}
}

func (c *mockClient) GetSessionID() string { return c.sessionID }

func (c *mockClient) GetUserID() int64 { return c.userID }

func (c *mockClient) GetSendChannel() chan<- models.ServerFrame { return c.Recv }

func (c *mockClient) Run() {}

func (c *mockClient) Close() {}
