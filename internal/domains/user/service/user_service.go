package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bookreview-backend/internal/domains/book"
	"bookreview-backend/internal/domains/social"
	"bookreview-backend/internal/domains/user"
	"bookreview-backend/internal/infrastructure/provider"
	"bookreview-backend/pkg/jwt"
	"bookreview-backend/pkg/logger"
)

type UserService struct {
	repo   user.Repository
	books  book.Repository
	source provider.BookSource
	social social.Repository
	tokens *jwt.Manager
}

func NewUserService(
	repo user.Repository,
	books book.Repository,
	source provider.BookSource,
	socialRepo social.Repository,
	tokens *jwt.Manager,
) user.Service {
	return &UserService{
		repo:   repo,
		books:  books,
		source: source,
		social: socialRepo,
		tokens: tokens,
	}
}

func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, *user.AuthTokens, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Password:  string(hash),
		Name:      req.Name,
		Roles:     user.NormalizeRoles(nil),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, nil, err
	}

	logger.Info("user registered", map[string]interface{}{
		"user_id": u.ID.String(),
	})

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}

	return u, tokens, nil
}

func (s *UserService) Login(ctx context.Context, req *user.LoginRequest) (*user.User, *user.AuthTokens, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, user.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return nil, nil, user.ErrInvalidCredentials
	}

	if u.IsBanned {
		return nil, nil, user.ErrUserBanned
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}

	return u, tokens, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*user.AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, user.ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, user.ErrInvalidRefreshToken
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidRefreshToken
		}
		return nil, err
	}
	if u.IsBanned {
		return nil, user.ErrUserBanned
	}

	return s.issueTokens(u)
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetPublicProfile(ctx context.Context, id, currentUser uuid.UUID) (*user.PublicProfile, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.ProfileCounts(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &user.PublicProfile{
		ID:               u.ID,
		Name:             u.Name,
		ProfilePicture:   u.ProfilePicture,
		CreatedAt:        u.CreatedAt,
		ReviewCount:      counts.Reviews,
		ReadingListCount: counts.ReadingList,
		FollowersCount:   counts.Followers,
		FollowingCount:   counts.Following,
	}

	if currentUser != uuid.Nil && currentUser != id {
		following, err := s.social.IsFollowing(ctx, currentUser, id)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = following
	}

	return profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.ProfilePicture != nil {
		u.ProfilePicture = req.ProfilePicture
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *UserService) AddToReadingList(ctx context.Context, userID uuid.UUID, externalID string) error {
	var newBook *book.Book
	var bookID uuid.UUID

	existing, err := s.books.FindByExternalID(ctx, externalID)
	switch {
	case err == nil:
		bookID = existing.ID
	case errors.Is(err, book.ErrBookNotFound):
		normalized := s.source.FetchByID(ctx, externalID)
		if normalized == nil {
			return user.ErrBookNotFound
		}
		newBook = book.FromNormalized(normalized)
		bookID = newBook.ID
	default:
		return err
	}

	return s.repo.AddToReadingList(ctx, userID, bookID, newBook)
}

func (s *UserService) RemoveFromReadingList(ctx context.Context, userID uuid.UUID, externalID string) error {
	b, err := s.books.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			return user.ErrBookNotFound
		}
		return err
	}

	return s.repo.RemoveFromReadingList(ctx, userID, b.ID)
}

func (s *UserService) ListReadingList(ctx context.Context, userID uuid.UUID, page, limit int) ([]book.Book, int, error) {
	return s.repo.ListReadingList(ctx, userID, (page-1)*limit, limit)
}

func (s *UserService) ListUsers(ctx context.Context, search string, page, limit int) ([]user.User, int, error) {
	return s.repo.List(ctx, search, (page-1)*limit, limit)
}

func (s *UserService) PromoteToAdmin(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.HasRole(user.RoleAdmin) {
		return nil, user.ErrAlreadyAdmin
	}

	u.Roles = user.NormalizeRoles(append(u.Roles, user.RoleAdmin))
	if err := s.repo.SetRoles(ctx, id, u.Roles); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *UserService) DemoteFromAdmin(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.HasRole(user.RoleAdmin) {
		return nil, user.ErrNotAdmin
	}

	u.Roles = user.RemoveRole(u.Roles, user.RoleAdmin)
	if err := s.repo.SetRoles(ctx, id, u.Roles); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *UserService) BanUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsBanned {
		return nil, user.ErrAlreadyBanned
	}

	if err := s.repo.SetBanned(ctx, id, true); err != nil {
		return nil, err
	}

	u.IsBanned = true
	logger.Info("user banned", map[string]interface{}{
		"user_id": id.String(),
	})

	return u, nil
}

func (s *UserService) UnbanUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsBanned {
		return nil, user.ErrNotBanned
	}

	if err := s.repo.SetBanned(ctx, id, false); err != nil {
		return nil, err
	}

	u.IsBanned = false
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *UserService) issueTokens(u *user.User) (*user.AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Email, u.Roles)
	if err != nil {
		return nil, err
	}

	refresh, err := s.tokens.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, err
	}

	return &user.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}
