// Package review records post-match peer feedback. Scores are stored
// raw; rating aggregation happens in the profile service.
package review

import (
	"log/slog"

	"matchday/backend/internal/apperr"
	"matchday/backend/internal/models"
)

// Store is the persistence slice this service needs.
type Store interface {
	SaveReview(review *models.Review) error
	GetUserByID(userID int64) (*models.User, error)
}

// CreateReview is one submitted review item. The field names mirror
// what the mobile client sends.
type CreateReview struct {
	PlayerID   int64  `json:"Player_id" validate:"required"`
	IsPositive bool   `json:"isPositive"`
	IsJoin     bool   `json:"isJoin"`
	Comment    string `json:"comment"`
}

type Service struct {
	log   *slog.Logger
	store Store
}

func NewService(log *slog.Logger, store Store) *Service {
	return &Service{
		log:   log.With("component", "review"),
		store: store,
	}
}

// SubmitReviews persists a batch of reviews from one reviewer. The
// batch is all-or-nothing up to the first failure; a review about a
// deleted user is rejected rather than dangling.
func (s *Service) SubmitReviews(reviewerID int64, items []CreateReview) error {
	for _, item := range items {
		if item.PlayerID == reviewerID {
			return apperr.BadRequest("cannot review yourself")
		}
		if _, err := s.store.GetUserByID(item.PlayerID); err != nil {
			return err
		}
		review := &models.Review{
			ReviewerID: reviewerID,
			TargetID:   item.PlayerID,
			IsPositive: item.IsPositive,
			IsJoin:     item.IsJoin,
			Comment:    item.Comment,
		}
		if err := s.store.SaveReview(review); err != nil {
			return err
		}
	}
	return nil
}
