package book

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"bookreview-backend/internal/infrastructure/provider"
)

// Book is a locally catalogued book. ExternalID is the provider key and
// is unique across the local store; it is the dedup key against provider
// search results. ReviewCount and AverageRating are derived from the
// book's reviews and only ever written by the rating recomputation path.
type Book struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	ExternalID    string         `json:"externalId" db:"external_id"`
	Title         string         `json:"title" db:"title"`
	Authors       pq.StringArray `json:"authors" db:"authors"`
	Thumbnail     *string        `json:"thumbnail" db:"thumbnail"`
	Description   *string        `json:"description" db:"description"`
	PageCount     *int           `json:"pageCount" db:"page_count"`
	Categories    pq.StringArray `json:"categories" db:"categories"`
	AverageRating *float64       `json:"averageRating" db:"average_rating"`
	ReviewCount   int            `json:"reviewCount" db:"review_count"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// FromNormalized builds a new local Book from a provider payload.
func FromNormalized(n *provider.NormalizedBook) *Book {
	now := time.Now()
	return &Book{
		ID:            uuid.New(),
		ExternalID:    n.ExternalID,
		Title:         n.Title,
		Authors:       pq.StringArray(n.Authors),
		Thumbnail:     n.Thumbnail,
		Description:   n.Description,
		PageCount:     n.PageCount,
		Categories:    pq.StringArray(n.Categories),
		AverageRating: nil, // derived from local reviews only
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SearchItem is one entry of a merged catalog search page. Local books
// carry their internal id and aggregates; provider results carry neither.
type SearchItem struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	ExternalID    string     `json:"externalId"`
	Title         string     `json:"title"`
	Authors       []string   `json:"authors"`
	Thumbnail     *string    `json:"thumbnail"`
	Description   *string    `json:"description"`
	PageCount     *int       `json:"pageCount"`
	Categories    []string   `json:"categories"`
	AverageRating *float64   `json:"averageRating"`
	ReviewCount   *int       `json:"reviewCount,omitempty"`
}

func SearchItemFromBook(b Book) SearchItem {
	id := b.ID
	count := b.ReviewCount
	return SearchItem{
		ID:            &id,
		ExternalID:    b.ExternalID,
		Title:         b.Title,
		Authors:       []string(b.Authors),
		Thumbnail:     b.Thumbnail,
		Description:   b.Description,
		PageCount:     b.PageCount,
		Categories:    []string(b.Categories),
		AverageRating: b.AverageRating,
		ReviewCount:   &count,
	}
}

func SearchItemFromProvider(n provider.NormalizedBook) SearchItem {
	return SearchItem{
		ExternalID:    n.ExternalID,
		Title:         n.Title,
		Authors:       n.Authors,
		Thumbnail:     n.Thumbnail,
		Description:   n.Description,
		PageCount:     n.PageCount,
		Categories:    n.Categories,
		AverageRating: n.AverageRating,
	}
}

// BookDetail is the single-book payload, personalised for the caller.
type BookDetail struct {
	Book
	ReviewedByCurrentUser bool `json:"reviewedByCurrentUser"`
}
