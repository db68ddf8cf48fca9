package user

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns users matching the optional search term on name or email.
	List(ctx context.Context, search string, offset, limit int) ([]User, int, error)
	SetRoles(ctx context.Context, id uuid.UUID, roles []string) error
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error

	ProfileCounts(ctx context.Context, id uuid.UUID) (*ProfileCounts, error)

	// AddToReadingList inserts the pair. newBook, when non-nil, is inserted
	// first in the same transaction.
	AddToReadingList(ctx context.Context, userID, bookID uuid.UUID, newBook *book.Book) error
	RemoveFromReadingList(ctx context.Context, userID, bookID uuid.UUID) error
	ListReadingList(ctx context.Context, userID uuid.UUID, offset, limit int) ([]book.Book, int, error)
}
