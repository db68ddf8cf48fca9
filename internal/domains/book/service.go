package book

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/infrastructure/provider"
)

// Service is the catalog business-logic contract.
type Service interface {
	// SearchBooks merges the local page with the provider page for the
	// same query, local-first, dropping provider items whose external id
	// is already present among the local results.
	SearchBooks(ctx context.Context, query string, page, limit int) ([]SearchItem, error)

	// ImportFromProvider creates a local Book from the Open Library
	// payload for key. Fails with ErrBookAlreadyExists / ErrProviderNotFound.
	ImportFromProvider(ctx context.Context, key string) (*Book, error)

	GetBook(ctx context.Context, externalID string, currentUser uuid.UUID) (*BookDetail, error)
	ListBooks(ctx context.Context, page, limit int, sort, direction string) ([]Book, int, error)
	AuthorDetails(ctx context.Context, name string) (*provider.AuthorDetails, error)
}
