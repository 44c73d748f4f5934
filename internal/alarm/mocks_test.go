package alarm_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"matchday/backend/internal/localization"
	"matchday/backend/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a testify mock of the alarm Store and Queue surfaces.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetUserByID(userID int64) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetPostingByID(postingID int64) (*models.Posting, error) {
	args := m.Called(postingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Posting), args.Error(1)
}

func (m *MockStore) SaveMatchAlarm(alarm *models.MatchAlarm) error {
	args := m.Called(alarm)
	return args.Error(0)
}

func (m *MockStore) GetMatchAlarmByID(alarmID int64) (*models.MatchAlarm, error) {
	args := m.Called(alarmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchAlarm), args.Error(1)
}

func (m *MockStore) FindMatchAlarmsForUser(userID int64) ([]models.MatchAlarm, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchAlarm), args.Error(1)
}

func (m *MockStore) HasMatchAlarm(postingID, hostID, guestID int64) (bool, error) {
	args := m.Called(postingID, hostID, guestID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) SetMatchAlarmApply(alarmID int64, apply bool) error {
	args := m.Called(alarmID, apply)
	return args.Error(0)
}

func (m *MockStore) GetRoomByName(roomName string) (*models.ChatRoom, error) {
	args := m.Called(roomName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStore) EnqueuePush(req models.PushRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockStore) DequeuePush(ctx context.Context) (*models.PushRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PushRequest), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLocalizer(t *testing.T) *localization.Localizer {
	t.Helper()
	dir := t.TempDir()
	en := `{
	  "match_participate_title": "Match request",
	  "match_participate_body": "%s asked to join your match.",
	  "match_approved_title": "Match approved",
	  "match_approved_body": "%s approved your request. Say hello in the chat!"
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(en), 0o644))
	loc, err := localization.NewLocalizer(dir)
	require.NoError(t, err)
	return loc
}
