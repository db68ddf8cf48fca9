package provider

import "context"

// NormalizedBook is the canonical shape every external source is mapped into.
// Absent values stay nil so callers can distinguish "missing" from zero.
type NormalizedBook struct {
	ExternalID    string   `json:"externalId"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Thumbnail     *string  `json:"thumbnail"`
	Description   *string  `json:"description"`
	PageCount     *int     `json:"pageCount"`
	Categories    []string `json:"categories"`
	AverageRating *float64 `json:"averageRating"`
}

// SearchResult is one page of provider search output.
type SearchResult struct {
	Items      []NormalizedBook
	TotalItems int
}

// BookSource is the lookup capability the catalog consumes.
// Implementations must soft-fail: transport or decode errors yield an
// empty result (Search) or nil (FetchByID), never a hard error.
type BookSource interface {
	Search(ctx context.Context, query string, page, limit int) SearchResult
	FetchByID(ctx context.Context, externalID string) *NormalizedBook
}

// AuthorDetails is the normalized Open Library author payload.
type AuthorDetails struct {
	Name           string       `json:"name"`
	Key            string       `json:"key"`
	BirthDate      *string      `json:"birthDate"`
	DeathDate      *string      `json:"deathDate"`
	Bio            *string      `json:"bio"`
	Photo          *string      `json:"photo"`
	Works          []AuthorWork `json:"works"`
	TopSubjects    []string     `json:"topSubjects"`
	WorkCount      int          `json:"workCount"`
	RatingsAverage *float64     `json:"ratingsAverage"`
	RatingsCount   int          `json:"ratingsCount"`
}

type AuthorWork struct {
	Title          string   `json:"title"`
	Key            *string  `json:"key"`
	FirstPublished *string  `json:"firstPublished"`
	Subjects       []string `json:"subjects"`
	Description    *string  `json:"description"`
	CoverID        *int     `json:"coverId"`
	CoverURL       *string  `json:"coverUrl"`
}
