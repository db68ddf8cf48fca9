package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/domains/book"
	"bookreview-backend/internal/infrastructure/provider"
)

type fakeRepo struct {
	byExternalID map[string]*book.Book
	searchResult []book.Book
	created      []*book.Book
	reviewed     bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byExternalID: map[string]*book.Book{}}
}

func (f *fakeRepo) Create(ctx context.Context, b *book.Book) error {
	if _, ok := f.byExternalID[b.ExternalID]; ok {
		return book.ErrBookAlreadyExists
	}
	f.byExternalID[b.ExternalID] = b
	f.created = append(f.created, b)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	for _, b := range f.byExternalID {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (f *fakeRepo) FindByExternalID(ctx context.Context, externalID string) (*book.Book, error) {
	if b, ok := f.byExternalID[externalID]; ok {
		return b, nil
	}
	return nil, book.ErrBookNotFound
}

func (f *fakeRepo) SearchByTitle(ctx context.Context, query string, offset, limit int) ([]book.Book, error) {
	return f.searchResult, nil
}

func (f *fakeRepo) List(ctx context.Context, offset, limit int, sort, direction string) ([]book.Book, int, error) {
	return f.searchResult, len(f.searchResult), nil
}

func (f *fakeRepo) HasUserReviewed(ctx context.Context, bookID, userID uuid.UUID) (bool, error) {
	return f.reviewed, nil
}

type fakeSource struct {
	result  provider.SearchResult
	fetched *provider.NormalizedBook
}

func (f *fakeSource) Search(ctx context.Context, query string, page, limit int) provider.SearchResult {
	return f.result
}

func (f *fakeSource) FetchByID(ctx context.Context, externalID string) *provider.NormalizedBook {
	return f.fetched
}

type fakeCache struct {
	store map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, ok := f.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = data
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}

func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (f *fakeCache) Ping(ctx context.Context) error { return nil }

func localBook(externalID, title string) book.Book {
	return book.Book{
		ID:          uuid.New(),
		ExternalID:  externalID,
		Title:       title,
		ReviewCount: 2,
	}
}

func TestSearchBooksRequiresQuery(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeSource{}, nil, newFakeCache())

	_, err := svc.SearchBooks(context.Background(), "   ", 1, 10)
	assert.ErrorIs(t, err, book.ErrMissingQuery)
}

func TestSearchBooksMergesLocalFirst(t *testing.T) {
	repo := newFakeRepo()
	repo.searchResult = []book.Book{
		localBook("shared-id", "Local Copy"),
		localBook("local-only", "Local Only"),
	}

	source := &fakeSource{result: provider.SearchResult{
		Items: []provider.NormalizedBook{
			{ExternalID: "shared-id", Title: "Provider Copy"},
			{ExternalID: "provider-only", Title: "Provider Only"},
		},
		TotalItems: 2,
	}}

	svc := NewService(repo, source, nil, newFakeCache())

	items, err := svc.SearchBooks(context.Background(), "query", 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Local entries first, provider duplicate of shared-id dropped.
	assert.Equal(t, "Local Copy", items[0].Title)
	assert.Equal(t, "Local Only", items[1].Title)
	assert.Equal(t, "Provider Only", items[2].Title)

	// Local entries expose internal id and review count, provider ones do not.
	assert.NotNil(t, items[0].ID)
	assert.NotNil(t, items[0].ReviewCount)
	assert.Nil(t, items[2].ID)
	assert.Nil(t, items[2].ReviewCount)
}

func TestSearchBooksSurvivesEmptyProviderPage(t *testing.T) {
	repo := newFakeRepo()
	repo.searchResult = []book.Book{localBook("b1", "Only Local")}

	source := &fakeSource{result: provider.SearchResult{Items: []provider.NormalizedBook{}}}
	svc := NewService(repo, source, nil, newFakeCache())

	items, err := svc.SearchBooks(context.Background(), "query", 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Only Local", items[0].Title)
}

func TestGetBookMarksReviewedForAuthenticatedUser(t *testing.T) {
	repo := newFakeRepo()
	b := localBook("b1", "A Book")
	repo.byExternalID["b1"] = &b
	repo.reviewed = true

	svc := NewService(repo, &fakeSource{}, nil, newFakeCache())

	detail, err := svc.GetBook(context.Background(), "b1", uuid.New())
	require.NoError(t, err)
	assert.True(t, detail.ReviewedByCurrentUser)

	detail, err = svc.GetBook(context.Background(), "b1", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, detail.ReviewedByCurrentUser)
}

func TestImportFromProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"OLID:OL1M": {"title": "Imported Book"}}`))
	}))
	defer srv.Close()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeSource{}, provider.NewOpenLibrary(srv.URL), newFakeCache())

	b, err := svc.ImportFromProvider(context.Background(), "OL1M")
	require.NoError(t, err)
	assert.Equal(t, "Imported Book", b.Title)
	assert.Equal(t, "OL1M", b.ExternalID)
	assert.Nil(t, b.AverageRating)
	require.Len(t, repo.created, 1)

	// A second import of the same key conflicts.
	_, err = svc.ImportFromProvider(context.Background(), "OL1M")
	assert.ErrorIs(t, err, book.ErrBookAlreadyExists)
}

func TestImportFromProviderUnknownKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc := NewService(newFakeRepo(), &fakeSource{}, provider.NewOpenLibrary(srv.URL), newFakeCache())

	_, err := svc.ImportFromProvider(context.Background(), "OL404M")
	assert.ErrorIs(t, err, book.ErrProviderNotFound)
}

func TestAuthorDetailsUsesCache(t *testing.T) {
	cache := newFakeCache()
	name := "Cached Author"
	require.NoError(t, cache.Set(context.Background(), "author:cached author",
		&provider.AuthorDetails{Name: name}, time.Hour))

	// nil Open Library client: a cache hit must not reach upstream.
	svc := NewService(newFakeRepo(), &fakeSource{}, nil, cache)

	details, err := svc.AuthorDetails(context.Background(), "Cached Author")
	require.NoError(t, err)
	assert.Equal(t, name, details.Name)
}

func TestAuthorDetailsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"docs": []}`))
	}))
	defer srv.Close()

	svc := NewService(newFakeRepo(), &fakeSource{}, provider.NewOpenLibrary(srv.URL), newFakeCache())

	_, err := svc.AuthorDetails(context.Background(), "Nobody")
	assert.ErrorIs(t, err, book.ErrAuthorNotFound)
}
