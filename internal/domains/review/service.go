package review

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	// CreateReview creates the caller's review of the book identified by its
	// external id, importing the book from the provider when it is not yet
	// known locally.
	CreateReview(ctx context.Context, userID uuid.UUID, req *CreateReviewRequest) (*ReviewDetail, error)
	UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, req *UpdateReviewRequest) (*ReviewDetail, error)
	// DeleteReview removes a review. Only the author or a caller holding the
	// admin or moderator role may delete.
	DeleteReview(ctx context.Context, reviewID, userID uuid.UUID, roles []string) error
	GetReview(ctx context.Context, reviewID, currentUser uuid.UUID) (*ReviewDetail, error)

	ListBookReviews(ctx context.Context, externalID string, currentUser uuid.UUID, q *ListQuery) ([]ReviewDetail, int, error)
	ListUserReviews(ctx context.Context, userID, currentUser uuid.UUID, page, limit int) ([]ReviewDetail, int, error)
	ListReviews(ctx context.Context, currentUser uuid.UUID, q *ListQuery) ([]ReviewDetail, int, error)

	LikeReview(ctx context.Context, reviewID, userID uuid.UUID) (*LikeState, error)
	UnlikeReview(ctx context.Context, reviewID, userID uuid.UUID) (*LikeState, error)
	ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (*LikeState, error)
}
