package alarm_test

import (
	"testing"
	"time"

	"matchday/backend/internal/alarm"
	"matchday/backend/internal/apperr"
	"matchday/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*alarm.Service, *MockStore) {
	t.Helper()
	store := new(MockStore)
	return alarm.NewService(testLogger(), store, testLocalizer(t), "en"), store
}

func TestSignUpMatch(t *testing.T) {
	svc, store := newService(t)

	store.On("HasMatchAlarm", int64(10), int64(1), int64(2)).Return(false, nil)
	store.On("GetPostingByID", int64(10)).Return(&models.Posting{PostingID: 10, UserID: 1, Title: "Sunday futsal"}, nil)
	store.On("GetUserByID", int64(2)).Return(&models.User{UserID: 2, Name: "Kim"}, nil)
	store.On("SaveMatchAlarm", mock.AnythingOfType("*models.MatchAlarm")).Return(nil)
	store.On("EnqueuePush", models.PushRequest{
		UserID:  1,
		Title:   "Sunday futsal",
		Body:    "Kim asked to join your match.",
		TypeTag: "matchParticipate",
	}).Return(nil)

	a, err := svc.SignUpMatch(10, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(10), a.PostingID)
	assert.Equal(t, int64(1), a.UserID)
	assert.Equal(t, int64(2), a.OpponentID)
	assert.Nil(t, a.IsApply)
	store.AssertExpectations(t)
}

func TestSignUpMatch_Duplicate(t *testing.T) {
	svc, store := newService(t)

	store.On("HasMatchAlarm", int64(10), int64(1), int64(2)).Return(true, nil)

	_, err := svc.SignUpMatch(10, 1, 2)
	assert.Equal(t, "already_exists", apperr.Code(err))
	store.AssertNotCalled(t, "SaveMatchAlarm", mock.Anything)
	store.AssertNotCalled(t, "EnqueuePush", mock.Anything)
}

func TestSignUpMatch_QueueFailureDoesNotFail(t *testing.T) {
	svc, store := newService(t)

	store.On("HasMatchAlarm", int64(10), int64(1), int64(2)).Return(false, nil)
	store.On("GetPostingByID", int64(10)).Return(&models.Posting{PostingID: 10, Title: "Sunday futsal"}, nil)
	store.On("GetUserByID", int64(2)).Return(&models.User{UserID: 2, Name: "Kim"}, nil)
	store.On("SaveMatchAlarm", mock.Anything).Return(nil)
	store.On("EnqueuePush", mock.Anything).Return(assert.AnError)

	_, err := svc.SignUpMatch(10, 1, 2)
	assert.NoError(t, err, "the alarm is recorded even when the push queue is down")
}

func TestAlarmsForUser_SkipsDanglingEntries(t *testing.T) {
	svc, store := newService(t)

	created := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	alarms := []models.MatchAlarm{
		{ID: 1, PostingID: 10, UserID: 1, OpponentID: 2, CreatedAt: created},
		{ID: 2, PostingID: 11, UserID: 1, OpponentID: 55},
		{ID: 3, PostingID: 99, UserID: 1, OpponentID: 2},
	}
	store.On("FindMatchAlarmsForUser", int64(1)).Return(alarms, nil)
	store.On("GetUserByID", int64(2)).Return(&models.User{UserID: 2, Name: "Kim", Image: "kim.png"}, nil)
	store.On("GetUserByID", int64(55)).Return(nil, apperr.NotFound("user 55"))
	store.On("GetPostingByID", int64(10)).Return(&models.Posting{PostingID: 10, Title: "Sunday futsal"}, nil)
	store.On("GetPostingByID", int64(99)).Return(nil, apperr.NotFound("posting 99"))

	entries, err := svc.AlarmsForUser(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Kim", entries[0].Nickname)
	assert.Equal(t, "kim.png", entries[0].Image)
	assert.Equal(t, int64(2), entries[0].GuestID)
	assert.Equal(t, "Sunday futsal", entries[0].PostingTitle)
	assert.Equal(t, created, entries[0].CreatedAt)
}

func TestGuestSignedUp(t *testing.T) {
	svc, store := newService(t)

	room := &models.ChatRoom{
		RoomID: 11, RoomName: "1_2", PostingID: 10,
		Members: []models.RoomMember{
			{RoomID: 11, UserID: 1, IsHost: true},
			{RoomID: 11, UserID: 2},
		},
	}
	store.On("GetRoomByName", "1_2").Return(room, nil)
	store.On("HasMatchAlarm", int64(10), int64(1), int64(2)).Return(true, nil)

	signedUp, err := svc.GuestSignedUp("1_2")
	require.NoError(t, err)
	assert.True(t, signedUp)
}

func TestPendingApply(t *testing.T) {
	svc, store := newService(t)

	yes := true
	alarms := []models.MatchAlarm{
		{ID: 1, IsApply: nil},
		{ID: 2, IsApply: &yes},
		{ID: 3, IsApply: nil},
	}
	store.On("FindMatchAlarmsForUser", int64(1)).Return(alarms, nil)

	pending, err := svc.PendingApply(1)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(1), pending[0].ID)
	assert.Equal(t, int64(3), pending[1].ID)
}

func TestAnswerAlarm_ApproveNotifiesGuest(t *testing.T) {
	svc, store := newService(t)

	store.On("GetMatchAlarmByID", int64(5)).Return(&models.MatchAlarm{ID: 5, PostingID: 10, UserID: 1, OpponentID: 2}, nil)
	store.On("SetMatchAlarmApply", int64(5), true).Return(nil)
	store.On("GetUserByID", int64(1)).Return(&models.User{UserID: 1, Name: "Park"}, nil)
	store.On("EnqueuePush", models.PushRequest{
		UserID:  2,
		Title:   "Match approved",
		Body:    "Park approved your request. Say hello in the chat!",
		TypeTag: "matchApproved",
	}).Return(nil)

	require.NoError(t, svc.AnswerAlarm(5, true))
	store.AssertExpectations(t)
}

func TestAnswerAlarm_RejectIsSilent(t *testing.T) {
	svc, store := newService(t)

	store.On("GetMatchAlarmByID", int64(5)).Return(&models.MatchAlarm{ID: 5, UserID: 1, OpponentID: 2}, nil)
	store.On("SetMatchAlarmApply", int64(5), false).Return(nil)

	require.NoError(t, svc.AnswerAlarm(5, false))
	store.AssertNotCalled(t, "EnqueuePush", mock.Anything)
}

func TestAnswerAlarm_NotFound(t *testing.T) {
	svc, store := newService(t)

	store.On("GetMatchAlarmByID", int64(404)).Return(nil, apperr.NotFound("alarm 404"))

	err := svc.AnswerAlarm(404, true)
	assert.Equal(t, "not_found", apperr.Code(err))
}
