package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book"
	"bookreview-backend/internal/domains/review"
	"bookreview-backend/internal/infrastructure/provider"
	"bookreview-backend/pkg/logger"
)

// Roles allowed to delete reviews they do not own.
var moderationRoles = []string{"admin", "moderator"}

type ReviewService struct {
	repo   review.Repository
	books  book.Repository
	source provider.BookSource
}

func NewReviewService(repo review.Repository, books book.Repository, source provider.BookSource) review.Service {
	return &ReviewService{
		repo:   repo,
		books:  books,
		source: source,
	}
}

func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *review.CreateReviewRequest) (*review.ReviewDetail, error) {
	var newBook *book.Book

	existing, err := s.books.FindByExternalID(ctx, req.BookID)
	switch {
	case err == nil:
		// book already known locally
	case errors.Is(err, book.ErrBookNotFound):
		normalized := s.source.FetchByID(ctx, req.BookID)
		if normalized == nil {
			return nil, review.ErrBookNotFound
		}
		newBook = book.FromNormalized(normalized)
	default:
		return nil, err
	}

	now := time.Now()
	rev := &review.Review{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   req.Content,
		Rating:    req.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		rev.BookID = existing.ID
	} else {
		rev.BookID = newBook.ID
	}

	if err := s.repo.CreateWithBook(ctx, rev, newBook); err != nil {
		return nil, err
	}

	logger.Info("review created", map[string]interface{}{
		"review_id": rev.ID.String(),
		"book_id":   rev.BookID.String(),
	})

	return s.repo.GetDetail(ctx, rev.ID, userID)
}

func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, req *review.UpdateReviewRequest) (*review.ReviewDetail, error) {
	rev, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rev.UserID != userID {
		return nil, review.ErrNotReviewOwner
	}

	if req.Rating != nil {
		rev.Rating = *req.Rating
	}
	if req.Content != nil {
		rev.Content = *req.Content
	}
	rev.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, rev); err != nil {
		return nil, err
	}

	return s.repo.GetDetail(ctx, reviewID, userID)
}

func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID, roles []string) error {
	rev, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if rev.UserID != userID && !hasAnyRole(roles, moderationRoles) {
		return review.ErrDeleteForbidden
	}

	return s.repo.Delete(ctx, reviewID)
}

func (s *ReviewService) GetReview(ctx context.Context, reviewID, currentUser uuid.UUID) (*review.ReviewDetail, error) {
	return s.repo.GetDetail(ctx, reviewID, currentUser)
}

func (s *ReviewService) ListBookReviews(ctx context.Context, externalID string, currentUser uuid.UUID, q *review.ListQuery) ([]review.ReviewDetail, int, error) {
	b, err := s.books.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			return nil, 0, review.ErrBookNotFound
		}
		return nil, 0, err
	}

	return s.repo.ListByBook(ctx, b.ID, currentUser, q)
}

func (s *ReviewService) ListUserReviews(ctx context.Context, userID, currentUser uuid.UUID, page, limit int) ([]review.ReviewDetail, int, error) {
	return s.repo.ListByUser(ctx, userID, currentUser, (page-1)*limit, limit)
}

func (s *ReviewService) ListReviews(ctx context.Context, currentUser uuid.UUID, q *review.ListQuery) ([]review.ReviewDetail, int, error) {
	return s.repo.ListAll(ctx, currentUser, q)
}

func (s *ReviewService) LikeReview(ctx context.Context, reviewID, userID uuid.UUID) (*review.LikeState, error) {
	return s.repo.Like(ctx, reviewID, userID)
}

func (s *ReviewService) UnlikeReview(ctx context.Context, reviewID, userID uuid.UUID) (*review.LikeState, error) {
	return s.repo.Unlike(ctx, reviewID, userID)
}

func (s *ReviewService) ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (*review.LikeState, error) {
	return s.repo.ToggleLike(ctx, reviewID, userID)
}

func hasAnyRole(roles []string, wanted []string) bool {
	for _, role := range roles {
		for _, w := range wanted {
			if role == w {
				return true
			}
		}
	}
	return false
}
