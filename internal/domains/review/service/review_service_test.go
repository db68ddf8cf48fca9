package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/domains/book"
	"bookreview-backend/internal/domains/review"
	"bookreview-backend/internal/infrastructure/provider"
)

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*review.Review
	likes   map[uuid.UUID]map[uuid.UUID]bool

	createdBooks []*book.Book
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews: map[uuid.UUID]*review.Review{},
		likes:   map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeReviewRepo) CreateWithBook(ctx context.Context, r *review.Review, newBook *book.Book) error {
	for _, existing := range f.reviews {
		if existing.UserID == r.UserID && existing.BookID == r.BookID {
			return review.ErrAlreadyReviewed
		}
	}
	if newBook != nil {
		f.createdBooks = append(f.createdBooks, newBook)
	}
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, review.ErrReviewNotFound
	}
	return r, nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, r *review.Review) error {
	if _, ok := f.reviews[r.ID]; !ok {
		return review.ErrReviewNotFound
	}
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.reviews[id]; !ok {
		return review.ErrReviewNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) GetDetail(ctx context.Context, id, currentUser uuid.UUID) (*review.ReviewDetail, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, review.ErrReviewNotFound
	}
	return &review.ReviewDetail{
		Review:             *r,
		LikesCount:         len(f.likes[id]),
		LikedByCurrentUser: f.likes[id][currentUser],
	}, nil
}

func (f *fakeReviewRepo) ListByBook(ctx context.Context, bookID, currentUser uuid.UUID, q *review.ListQuery) ([]review.ReviewDetail, int, error) {
	return nil, 0, nil
}

func (f *fakeReviewRepo) ListByUser(ctx context.Context, userID, currentUser uuid.UUID, offset, limit int) ([]review.ReviewDetail, int, error) {
	return nil, 0, nil
}

func (f *fakeReviewRepo) ListAll(ctx context.Context, currentUser uuid.UUID, q *review.ListQuery) ([]review.ReviewDetail, int, error) {
	return nil, 0, nil
}

func (f *fakeReviewRepo) Like(ctx context.Context, reviewID, userID uuid.UUID) (*review.LikeState, error) {
	if f.likes[reviewID] == nil {
		f.likes[reviewID] = map[uuid.UUID]bool{}
	}
	if f.likes[reviewID][userID] {
		return nil, review.ErrAlreadyLiked
	}
	f.likes[reviewID][userID] = true
	return &review.LikeState{Liked: true, TotalLikes: len(f.likes[reviewID])}, nil
}

func (f *fakeReviewRepo) Unlike(ctx context.Context, reviewID, userID uuid.UUID) (*review.LikeState, error) {
	if !f.likes[reviewID][userID] {
		return nil, review.ErrNotLiked
	}
	delete(f.likes[reviewID], userID)
	return &review.LikeState{Liked: false, TotalLikes: len(f.likes[reviewID])}, nil
}

func (f *fakeReviewRepo) ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (*review.LikeState, error) {
	if f.likes[reviewID][userID] {
		return f.Unlike(ctx, reviewID, userID)
	}
	return f.Like(ctx, reviewID, userID)
}

type fakeBookRepo struct {
	byExternalID map[string]*book.Book
}

func (f *fakeBookRepo) Create(ctx context.Context, b *book.Book) error { return nil }

func (f *fakeBookRepo) FindByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	return nil, book.ErrBookNotFound
}

func (f *fakeBookRepo) FindByExternalID(ctx context.Context, externalID string) (*book.Book, error) {
	if b, ok := f.byExternalID[externalID]; ok {
		return b, nil
	}
	return nil, book.ErrBookNotFound
}

func (f *fakeBookRepo) SearchByTitle(ctx context.Context, query string, offset, limit int) ([]book.Book, error) {
	return nil, nil
}

func (f *fakeBookRepo) List(ctx context.Context, offset, limit int, sort, direction string) ([]book.Book, int, error) {
	return nil, 0, nil
}

func (f *fakeBookRepo) HasUserReviewed(ctx context.Context, bookID, userID uuid.UUID) (bool, error) {
	return false, nil
}

type fakeSource struct {
	fetched *provider.NormalizedBook
}

func (f *fakeSource) Search(ctx context.Context, query string, page, limit int) provider.SearchResult {
	return provider.SearchResult{}
}

func (f *fakeSource) FetchByID(ctx context.Context, externalID string) *provider.NormalizedBook {
	return f.fetched
}

func newTestService(repo *fakeReviewRepo, books *fakeBookRepo, source *fakeSource) review.Service {
	if books == nil {
		books = &fakeBookRepo{byExternalID: map[string]*book.Book{}}
	}
	if source == nil {
		source = &fakeSource{}
	}
	return NewReviewService(repo, books, source)
}

func TestCreateReviewUsesLocalBook(t *testing.T) {
	repo := newFakeReviewRepo()
	b := &book.Book{ID: uuid.New(), ExternalID: "known"}
	books := &fakeBookRepo{byExternalID: map[string]*book.Book{"known": b}}
	svc := newTestService(repo, books, nil)

	userID := uuid.New()
	detail, err := svc.CreateReview(context.Background(), userID, &review.CreateReviewRequest{
		BookID:  "known",
		Rating:  5,
		Content: "definitely long enough",
	})

	require.NoError(t, err)
	assert.Equal(t, b.ID, detail.BookID)
	assert.Equal(t, userID, detail.UserID)
	assert.Empty(t, repo.createdBooks)
}

func TestCreateReviewImportsUnknownBook(t *testing.T) {
	repo := newFakeReviewRepo()
	source := &fakeSource{fetched: &provider.NormalizedBook{ExternalID: "new-book", Title: "Fresh Import"}}
	svc := newTestService(repo, nil, source)

	detail, err := svc.CreateReview(context.Background(), uuid.New(), &review.CreateReviewRequest{
		BookID:  "new-book",
		Rating:  4,
		Content: "imported alongside the review",
	})

	require.NoError(t, err)
	require.Len(t, repo.createdBooks, 1)
	assert.Equal(t, "Fresh Import", repo.createdBooks[0].Title)
	assert.Equal(t, repo.createdBooks[0].ID, detail.BookID)
}

func TestCreateReviewUnknownEverywhere(t *testing.T) {
	svc := newTestService(newFakeReviewRepo(), nil, &fakeSource{fetched: nil})

	_, err := svc.CreateReview(context.Background(), uuid.New(), &review.CreateReviewRequest{
		BookID:  "ghost",
		Rating:  3,
		Content: "this book does not exist",
	})

	assert.ErrorIs(t, err, review.ErrBookNotFound)
}

func TestCreateReviewSecondReviewConflicts(t *testing.T) {
	repo := newFakeReviewRepo()
	b := &book.Book{ID: uuid.New(), ExternalID: "known"}
	books := &fakeBookRepo{byExternalID: map[string]*book.Book{"known": b}}
	svc := newTestService(repo, books, nil)

	userID := uuid.New()
	req := &review.CreateReviewRequest{BookID: "known", Rating: 5, Content: "the first one goes through"}

	_, err := svc.CreateReview(context.Background(), userID, req)
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), userID, req)
	assert.ErrorIs(t, err, review.ErrAlreadyReviewed)
}

func TestUpdateReviewOnlyByOwner(t *testing.T) {
	repo := newFakeReviewRepo()
	owner := uuid.New()
	rev := &review.Review{ID: uuid.New(), UserID: owner, BookID: uuid.New(), Rating: 3, Content: "original content here"}
	repo.reviews[rev.ID] = rev

	svc := newTestService(repo, nil, nil)

	newRating := 5
	_, err := svc.UpdateReview(context.Background(), rev.ID, uuid.New(), &review.UpdateReviewRequest{Rating: &newRating})
	assert.ErrorIs(t, err, review.ErrNotReviewOwner)

	detail, err := svc.UpdateReview(context.Background(), rev.ID, owner, &review.UpdateReviewRequest{Rating: &newRating})
	require.NoError(t, err)
	assert.Equal(t, 5, detail.Rating)
	assert.Equal(t, "original content here", detail.Content)
}

func TestDeleteReviewAuthorization(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	moderator := uuid.New()

	cases := []struct {
		name    string
		caller  uuid.UUID
		roles   []string
		wantErr error
	}{
		{name: "owner", caller: owner, roles: []string{"user"}},
		{name: "stranger", caller: stranger, roles: []string{"user"}, wantErr: review.ErrDeleteForbidden},
		{name: "moderator", caller: moderator, roles: []string{"user", "moderator"}},
		{name: "admin", caller: stranger, roles: []string{"user", "admin"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeReviewRepo()
			rev := &review.Review{ID: uuid.New(), UserID: owner, BookID: uuid.New()}
			repo.reviews[rev.ID] = rev
			svc := newTestService(repo, nil, nil)

			err := svc.DeleteReview(context.Background(), rev.ID, tc.caller, tc.roles)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Contains(t, repo.reviews, rev.ID)
			} else {
				require.NoError(t, err)
				assert.NotContains(t, repo.reviews, rev.ID)
			}
		})
	}
}

func TestToggleLikeFlips(t *testing.T) {
	repo := newFakeReviewRepo()
	rev := &review.Review{ID: uuid.New(), UserID: uuid.New(), BookID: uuid.New()}
	repo.reviews[rev.ID] = rev
	svc := newTestService(repo, nil, nil)

	userID := uuid.New()

	state, err := svc.ToggleLike(context.Background(), rev.ID, userID)
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.Equal(t, 1, state.TotalLikes)

	state, err = svc.ToggleLike(context.Background(), rev.ID, userID)
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Zero(t, state.TotalLikes)
}

func TestLikeTwiceConflicts(t *testing.T) {
	repo := newFakeReviewRepo()
	rev := &review.Review{ID: uuid.New(), UserID: uuid.New(), BookID: uuid.New()}
	repo.reviews[rev.ID] = rev
	svc := newTestService(repo, nil, nil)

	userID := uuid.New()

	_, err := svc.LikeReview(context.Background(), rev.ID, userID)
	require.NoError(t, err)

	_, err = svc.LikeReview(context.Background(), rev.ID, userID)
	assert.ErrorIs(t, err, review.ErrAlreadyLiked)

	_, err = svc.UnlikeReview(context.Background(), rev.ID, userID)
	require.NoError(t, err)

	_, err = svc.UnlikeReview(context.Background(), rev.ID, userID)
	assert.ErrorIs(t, err, review.ErrNotLiked)
}
