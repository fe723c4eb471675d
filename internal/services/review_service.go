package services

import (
	"errors"
	"strings"

	"aolua/internal/domain"
	"aolua/internal/repos"
	"aolua/internal/validate"

	"github.com/google/uuid"
)

var (
	ErrNotPurchased  = errors.New("product not purchased by user")
	ErrInvalidRating = errors.New("rating must be 1-5")
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
}

func NewReviewService(reviews *repos.ReviewRepo) *ReviewService {
	return &ReviewService{Reviews: reviews}
}

// Submit records a review pending moderation. Only buyers of the product
// may review it, once each (the unique index catches repeats).
func (s *ReviewService) Submit(userID, productID string, rating int, comment string) (domain.Review, error) {
	if !validate.Rating(rating) {
		return domain.Review{}, ErrInvalidRating
	}
	bought, err := s.Reviews.HasPurchased(userID, productID)
	if err != nil {
		return domain.Review{}, err
	}
	if !bought {
		return domain.Review{}, ErrNotPurchased
	}
	rv := domain.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.Reviews.Create(&rv); err != nil {
		return domain.Review{}, err
	}
	return rv, nil
}

func (s *ReviewService) Moderate(id string, approved bool, response string) error {
	return s.Reviews.Moderate(id, approved, strings.TrimSpace(response))
}

func (s *ReviewService) Pending() ([]repos.ApprovedRow, error) {
	return s.Reviews.ListPending()
}
