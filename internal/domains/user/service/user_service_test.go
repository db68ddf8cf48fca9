package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/domains/book"
	"bookreview-backend/internal/domains/social"
	"bookreview-backend/internal/domains/user"
	"bookreview-backend/internal/infrastructure/provider"
	"bookreview-backend/pkg/jwt"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]*user.User
	byEmail map[string]*user.User

	readingList map[uuid.UUID]map[uuid.UUID]bool
	listedBooks []*book.Book
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:        map[uuid.UUID]*user.User{},
		byEmail:     map[string]*user.User{},
		readingList: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return user.ErrEmailAlreadyExists
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	u, ok := f.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	delete(f.byEmail, u.Email)
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, search string, offset, limit int) ([]user.User, int, error) {
	users := []user.User{}
	for _, u := range f.byID {
		users = append(users, *u)
	}
	return users, len(users), nil
}

func (f *fakeUserRepo) SetRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	u, ok := f.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Roles = roles
	return nil
}

func (f *fakeUserRepo) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	u, ok := f.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.IsBanned = banned
	return nil
}

func (f *fakeUserRepo) ProfileCounts(ctx context.Context, id uuid.UUID) (*user.ProfileCounts, error) {
	return &user.ProfileCounts{Reviews: 3, ReadingList: 4, Followers: 2, Following: 1}, nil
}

func (f *fakeUserRepo) AddToReadingList(ctx context.Context, userID, bookID uuid.UUID, newBook *book.Book) error {
	if newBook != nil {
		f.listedBooks = append(f.listedBooks, newBook)
		bookID = newBook.ID
	}
	if f.readingList[userID] == nil {
		f.readingList[userID] = map[uuid.UUID]bool{}
	}
	if f.readingList[userID][bookID] {
		return user.ErrBookAlreadyInList
	}
	f.readingList[userID][bookID] = true
	return nil
}

func (f *fakeUserRepo) RemoveFromReadingList(ctx context.Context, userID, bookID uuid.UUID) error {
	if !f.readingList[userID][bookID] {
		return user.ErrBookNotInList
	}
	delete(f.readingList[userID], bookID)
	return nil
}

func (f *fakeUserRepo) ListReadingList(ctx context.Context, userID uuid.UUID, offset, limit int) ([]book.Book, int, error) {
	return nil, len(f.readingList[userID]), nil
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

type fakeFollowRepo struct {
	following bool
}

func (f *fakeFollowRepo) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return nil
}

func (f *fakeFollowRepo) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return nil
}

func (f *fakeFollowRepo) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return f.following, nil
}

func (f *fakeFollowRepo) ListFollowers(ctx context.Context, userID uuid.UUID, offset, limit int) ([]social.FollowUser, int, error) {
	return nil, 0, nil
}

func (f *fakeFollowRepo) ListFollowing(ctx context.Context, userID uuid.UUID, offset, limit int) ([]social.FollowUser, int, error) {
	return nil, 0, nil
}

func (f *fakeFollowRepo) FindTarget(ctx context.Context, userID uuid.UUID) (*social.FollowTarget, error) {
	return &social.FollowTarget{ID: userID}, nil
}

func newTestService(repo *fakeUserRepo, books *fakeBookRepo, source *fakeSource) user.Service {
	if books == nil {
		books = &fakeBookRepo{byExternalID: map[string]*book.Book{}}
	}
	if source == nil {
		source = &fakeSource{}
	}
	return NewUserService(repo, books, source, &fakeFollowRepo{following: true}, jwt.NewManager("test-secret", time.Hour, 24*time.Hour))
}

func register(t *testing.T, svc user.Service, email string) *user.User {
	t.Helper()
	u, tokens, err := svc.Register(context.Background(), &user.RegisterRequest{
		Email:    email,
		Password: "correct horse battery",
		Name:     "Some Reader",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	return u
}

func TestRegisterAssignsImplicitRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)

	u := register(t, svc, "reader@example.com")

	assert.Equal(t, []string{"user"}, []string(u.Roles))
	assert.NotEqual(t, "correct horse battery", u.Password) // stored hashed
	assert.False(t, u.IsBanned)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)

	register(t, svc, "reader@example.com")

	_, _, err := svc.Register(context.Background(), &user.RegisterRequest{
		Email:    "reader@example.com",
		Password: "another password",
		Name:     "Copycat",
	})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)
	register(t, svc, "reader@example.com")

	u, tokens, err := svc.Login(context.Background(), &user.LoginRequest{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", u.Email)
	assert.NotEmpty(t, tokens.AccessToken)

	_, _, err = svc.Login(context.Background(), &user.LoginRequest{
		Email:    "reader@example.com",
		Password: "wrong password",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	// Unknown email reports the same error as a wrong password.
	_, _, err = svc.Login(context.Background(), &user.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLoginRejectsBannedUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)
	u := register(t, svc, "banned@example.com")

	_, err := svc.BanUser(context.Background(), u.ID)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), &user.LoginRequest{
		Email:    "banned@example.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, user.ErrUserBanned)
}

func TestRefresh(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)
	register(t, svc, "reader@example.com")

	_, tokens, err := svc.Login(context.Background(), &user.LoginRequest{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// An access token is not accepted as a refresh token.
	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, user.ErrInvalidRefreshToken)

	_, err = svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, user.ErrInvalidRefreshToken)
}

func TestPromoteDemoteAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)
	u := register(t, svc, "reader@example.com")

	promoted, err := svc.PromoteToAdmin(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user", "admin"}, []string(promoted.Roles))

	_, err = svc.PromoteToAdmin(context.Background(), u.ID)
	assert.ErrorIs(t, err, user.ErrAlreadyAdmin)

	demoted, err := svc.DemoteFromAdmin(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, []string(demoted.Roles))

	_, err = svc.DemoteFromAdmin(context.Background(), u.ID)
	assert.ErrorIs(t, err, user.ErrNotAdmin)
}

func TestBanUnban(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)
	u := register(t, svc, "reader@example.com")

	banned, err := svc.BanUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, banned.IsBanned)

	_, err = svc.BanUser(context.Background(), u.ID)
	assert.ErrorIs(t, err, user.ErrAlreadyBanned)

	unbanned, err := svc.UnbanUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, unbanned.IsBanned)

	_, err = svc.UnbanUser(context.Background(), u.ID)
	assert.ErrorIs(t, err, user.ErrNotBanned)
}

func TestGetPublicProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)
	u := register(t, svc, "reader@example.com")

	profile, err := svc.GetPublicProfile(context.Background(), u.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 3, profile.ReviewCount)
	assert.Equal(t, 4, profile.ReadingListCount)
	assert.Equal(t, 2, profile.FollowersCount)
	assert.Equal(t, 1, profile.FollowingCount)
	assert.True(t, profile.IsFollowing)

	// Own profile never reports a self-follow.
	profile, err = svc.GetPublicProfile(context.Background(), u.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsFollowing)
}

func TestReadingListImportsUnknownBook(t *testing.T) {
	repo := newFakeUserRepo()
	source := &fakeSource{fetched: &provider.NormalizedBook{ExternalID: "new-book", Title: "To Read"}}
	svc := newTestService(repo, nil, source)
	u := register(t, svc, "reader@example.com")

	require.NoError(t, svc.AddToReadingList(context.Background(), u.ID, "new-book"))
	require.Len(t, repo.listedBooks, 1)
	assert.Equal(t, "To Read", repo.listedBooks[0].Title)

	_, total, err := svc.ListReadingList(context.Background(), u.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestReadingListUnknownEverywhere(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, &fakeSource{fetched: nil})
	u := register(t, svc, "reader@example.com")

	err := svc.AddToReadingList(context.Background(), u.ID, "ghost")
	assert.ErrorIs(t, err, user.ErrBookNotFound)
}

func TestReadingListRemove(t *testing.T) {
	repo := newFakeUserRepo()
	b := &book.Book{ID: uuid.New(), ExternalID: "known"}
	books := &fakeBookRepo{byExternalID: map[string]*book.Book{"known": b}}
	svc := newTestService(repo, books, nil)
	u := register(t, svc, "reader@example.com")

	require.NoError(t, svc.AddToReadingList(context.Background(), u.ID, "known"))

	err := svc.AddToReadingList(context.Background(), u.ID, "known")
	assert.ErrorIs(t, err, user.ErrBookAlreadyInList)

	require.NoError(t, svc.RemoveFromReadingList(context.Background(), u.ID, "known"))

	err = svc.RemoveFromReadingList(context.Background(), u.ID, "known")
	assert.ErrorIs(t, err, user.ErrBookNotInList)
}
