package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book"
	"bookreview-backend/internal/infrastructure/provider"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/logger"
)

const authorCacheTTL = 24 * time.Hour

type BookService struct {
	repo        book.Repository
	source      provider.BookSource
	openLibrary *provider.OpenLibrary
	cache       cache.Cache
}

func NewService(
	repo book.Repository,
	source provider.BookSource,
	openLibrary *provider.OpenLibrary,
	cache cache.Cache,
) book.Service {
	return &BookService{
		repo:        repo,
		source:      source,
		openLibrary: openLibrary,
		cache:       cache,
	}
}

// SearchBooks merges one local page with one provider page for the same
// query. Both pages are fetched independently and never re-balanced, so
// the merged length is the authoritative count for this response: it can
// exceed pageSize (both pages full) or fall short (provider items dropped
// as local duplicates).
func (s *BookService) SearchBooks(ctx context.Context, query string, page, limit int) ([]book.SearchItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, book.ErrMissingQuery
	}

	offset := (page - 1) * limit
	localBooks, err := s.repo.SearchByTitle(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("local search: %w", err)
	}

	// Provider soft-fails internally, so a broken upstream still yields
	// the local page.
	external := s.source.Search(ctx, query, page, limit)

	localIDs := make(map[string]bool, len(localBooks))
	merged := make([]book.SearchItem, 0, len(localBooks)+len(external.Items))

	for _, b := range localBooks {
		localIDs[b.ExternalID] = true
		merged = append(merged, book.SearchItemFromBook(b))
	}

	// Local books take precedence: a reviewed, locally annotated copy
	// must not be shadowed by its provider duplicate.
	for _, item := range external.Items {
		if localIDs[item.ExternalID] {
			continue
		}
		merged = append(merged, book.SearchItemFromProvider(item))
	}

	return merged, nil
}

func (s *BookService) ImportFromProvider(ctx context.Context, key string) (*book.Book, error) {
	existing, err := s.repo.FindByExternalID(ctx, key)
	if err != nil && err != book.ErrBookNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, book.ErrBookAlreadyExists
	}

	payload := s.openLibrary.FetchBookByKey(ctx, key)
	if payload == nil {
		return nil, book.ErrProviderNotFound
	}

	b := book.FromNormalized(payload)
	if err := s.repo.Create(ctx, b); err != nil {
		// A concurrent import may have won the race; the unique
		// constraint reports it the same way as the pre-check.
		return nil, err
	}

	return b, nil
}

func (s *BookService) GetBook(ctx context.Context, externalID string, currentUser uuid.UUID) (*book.BookDetail, error) {
	b, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	detail := &book.BookDetail{Book: *b}
	if currentUser != uuid.Nil {
		reviewed, err := s.repo.HasUserReviewed(ctx, b.ID, currentUser)
		if err != nil {
			return nil, err
		}
		detail.ReviewedByCurrentUser = reviewed
	}

	return detail, nil
}

func (s *BookService) ListBooks(ctx context.Context, page, limit int, sort, direction string) ([]book.Book, int, error) {
	offset := (page - 1) * limit
	return s.repo.List(ctx, offset, limit, sort, direction)
}

// AuthorDetails resolves an author via Open Library, cached for a day:
// author lookups fan out into a dozen upstream requests, and the data is
// effectively static.
func (s *BookService) AuthorDetails(ctx context.Context, name string) (*provider.AuthorDetails, error) {
	cacheKey := "author:" + strings.ToLower(strings.TrimSpace(name))

	var cached provider.AuthorDetails
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		return &cached, nil
	}

	details := s.openLibrary.SearchAuthor(ctx, name)
	if details == nil {
		return nil, book.ErrAuthorNotFound
	}

	if err := s.cache.Set(ctx, cacheKey, details, authorCacheTTL); err != nil {
		logger.Warn("author cache write failed", err)
	}

	return details, nil
}
