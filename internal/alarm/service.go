// Package alarm implements the match participation flow: a guest asks
// to join a posting, the host gets an inbox entry plus a notification,
// and the host's answer flows back as another notification.
package alarm

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"matchday/backend/internal/apperr"
	"matchday/backend/internal/localization"
	"matchday/backend/internal/models"
)

// Store is the persistence slice this service needs.
type Store interface {
	GetUserByID(userID int64) (*models.User, error)
	GetPostingByID(postingID int64) (*models.Posting, error)
	SaveMatchAlarm(alarm *models.MatchAlarm) error
	GetMatchAlarmByID(alarmID int64) (*models.MatchAlarm, error)
	FindMatchAlarmsForUser(userID int64) ([]models.MatchAlarm, error)
	HasMatchAlarm(postingID, hostID, guestID int64) (bool, error)
	SetMatchAlarmApply(alarmID int64, apply bool) error
	GetRoomByName(roomName string) (*models.ChatRoom, error)
	EnqueuePush(req models.PushRequest) error
}

type Service struct {
	log   *slog.Logger
	store Store
	loc   *localization.Localizer
	lang  string
}

func NewService(log *slog.Logger, store Store, loc *localization.Localizer, lang string) *Service {
	return &Service{
		log:   log.With("component", "alarm"),
		store: store,
		loc:   loc,
		lang:  lang,
	}
}

// SignUpMatch records a guest's request to join a posting and notifies
// the host. A repeated request for the same triple is rejected so the
// host is not spammed.
func (s *Service) SignUpMatch(postingID, hostID, guestID int64) (*models.MatchAlarm, error) {
	exists, err := s.store.HasMatchAlarm(postingID, hostID, guestID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.AlreadyExists(fmt.Sprintf("alarm for posting %d from user %d", postingID, guestID))
	}

	posting, err := s.store.GetPostingByID(postingID)
	if err != nil {
		return nil, err
	}
	guest, err := s.store.GetUserByID(guestID)
	if err != nil {
		return nil, err
	}

	alarm := &models.MatchAlarm{
		PostingID:  postingID,
		UserID:     hostID,
		OpponentID: guestID,
	}
	if err := s.store.SaveMatchAlarm(alarm); err != nil {
		return nil, err
	}

	s.notify(hostID, posting.Title,
		s.loc.Format(s.lang, "match_participate_body", guest.Name), "matchParticipate")
	return alarm, nil
}

// AlarmsForUser renders the user's alarm inbox, newest first. Entries
// whose opponent or posting has since been deleted are dropped rather
// than failing the whole inbox.
func (s *Service) AlarmsForUser(userID int64) ([]models.AlarmEntry, error) {
	alarms, err := s.store.FindMatchAlarmsForUser(userID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.AlarmEntry, 0, len(alarms))
	for _, a := range alarms {
		opponent, err := s.store.GetUserByID(a.OpponentID)
		if err != nil {
			s.log.Warn("skipping alarm, missing opponent", "alarm_id", a.ID, "opponent_id", a.OpponentID)
			continue
		}
		posting, err := s.store.GetPostingByID(a.PostingID)
		if err != nil {
			s.log.Warn("skipping alarm, missing posting", "alarm_id", a.ID, "posting_id", a.PostingID)
			continue
		}
		entries = append(entries, models.AlarmEntry{
			Image:        opponent.Image,
			Nickname:     opponent.Name,
			GuestID:      a.OpponentID,
			PostingID:    a.PostingID,
			PostingTitle: posting.Title,
			IsApply:      a.IsApply,
			CreatedAt:    a.CreatedAt,
		})
	}
	return entries, nil
}

// GuestSignedUp reports whether the guest side of a room has asked to
// join the room's posting.
func (s *Service) GuestSignedUp(roomName string) (bool, error) {
	room, err := s.store.GetRoomByName(roomName)
	if err != nil {
		return false, err
	}
	host, hostOK := lo.Find(room.Members, func(m models.RoomMember) bool { return m.IsHost })
	guest, guestOK := lo.Find(room.Members, func(m models.RoomMember) bool { return !m.IsHost })
	if !hostOK || !guestOK {
		return false, fmt.Errorf("room %s has no host/guest pair", roomName)
	}
	return s.store.HasMatchAlarm(room.PostingID, host.UserID, guest.UserID)
}

// PendingApply returns the user's alarms still awaiting an answer.
func (s *Service) PendingApply(userID int64) ([]models.MatchAlarm, error) {
	alarms, err := s.store.FindMatchAlarmsForUser(userID)
	if err != nil {
		return nil, err
	}
	return lo.Filter(alarms, func(a models.MatchAlarm, _ int) bool {
		return a.IsApply == nil
	}), nil
}

// AnswerAlarm records the host's decision. An approval notifies the
// guest; a rejection is silent.
func (s *Service) AnswerAlarm(alarmID int64, apply bool) error {
	alarm, err := s.store.GetMatchAlarmByID(alarmID)
	if err != nil {
		return err
	}
	if err := s.store.SetMatchAlarmApply(alarmID, apply); err != nil {
		return err
	}
	if !apply {
		return nil
	}

	host, err := s.store.GetUserByID(alarm.UserID)
	if err != nil {
		s.log.Warn("approved alarm but host lookup failed", "alarm_id", alarmID, "error", err)
		return nil
	}
	s.notify(alarm.OpponentID,
		s.loc.GetString(s.lang, "match_approved_title"),
		s.loc.Format(s.lang, "match_approved_body", host.Name), "matchApproved")
	return nil
}

// notify enqueues a push without letting a queue failure surface to
// the caller.
func (s *Service) notify(userID int64, title, body, typeTag string) {
	err := s.store.EnqueuePush(models.PushRequest{
		UserID:  userID,
		Title:   title,
		Body:    body,
		TypeTag: typeTag,
	})
	if err != nil {
		s.log.Warn("enqueue push failed", "user_id", userID, "error", err)
	}
}
