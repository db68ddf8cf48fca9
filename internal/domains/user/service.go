package user

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book"
)

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*User, *AuthTokens, error)
	// Login rejects banned accounts even when the credentials are valid.
	Login(ctx context.Context, req *LoginRequest) (*User, *AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)

	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetPublicProfile(ctx context.Context, id, currentUser uuid.UUID) (*PublicProfile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*User, error)

	// AddToReadingList stores the book identified by its external id on the
	// user's reading list, importing it from the provider when absent.
	AddToReadingList(ctx context.Context, userID uuid.UUID, externalID string) error
	RemoveFromReadingList(ctx context.Context, userID uuid.UUID, externalID string) error
	ListReadingList(ctx context.Context, userID uuid.UUID, page, limit int) ([]book.Book, int, error)

	ListUsers(ctx context.Context, search string, page, limit int) ([]User, int, error)
	PromoteToAdmin(ctx context.Context, id uuid.UUID) (*User, error)
	DemoteFromAdmin(ctx context.Context, id uuid.UUID) (*User, error)
	BanUser(ctx context.Context, id uuid.UUID) (*User, error)
	UnbanUser(ctx context.Context, id uuid.UUID) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
