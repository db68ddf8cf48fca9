package review

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book"
)

// Repository persists reviews and review likes. Every mutation keeps the
// owning book's review_count and average_rating in step within the same
// transaction.
type Repository interface {
	// CreateWithBook inserts the review. When newBook is non-nil the book is
	// inserted first in the same transaction, tolerating a concurrent import
	// of the same external ID.
	CreateWithBook(ctx context.Context, r *Review, newBook *book.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetDetail(ctx context.Context, id, currentUser uuid.UUID) (*ReviewDetail, error)
	ListByBook(ctx context.Context, bookID, currentUser uuid.UUID, q *ListQuery) ([]ReviewDetail, int, error)
	ListByUser(ctx context.Context, userID, currentUser uuid.UUID, offset, limit int) ([]ReviewDetail, int, error)
	ListAll(ctx context.Context, currentUser uuid.UUID, q *ListQuery) ([]ReviewDetail, int, error)

	Like(ctx context.Context, reviewID, userID uuid.UUID) (*LikeState, error)
	Unlike(ctx context.Context, reviewID, userID uuid.UUID) (*LikeState, error)
	ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (*LikeState, error)
}
