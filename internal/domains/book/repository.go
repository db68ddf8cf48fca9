package book

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the book data-access contract. The unique constraint on
// external_id is the source of truth for catalog dedup; Create surfaces
// its violation as ErrBookAlreadyExists.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*Book, error)
	FindByExternalID(ctx context.Context, externalID string) (*Book, error)
	SearchByTitle(ctx context.Context, query string, offset, limit int) ([]Book, error)
	List(ctx context.Context, offset, limit int, sort, direction string) ([]Book, int, error)
	HasUserReviewed(ctx context.Context, bookID, userID uuid.UUID) (bool, error)
}
