package service

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/social"
	"bookreview-backend/pkg/logger"
)

type SocialService struct {
	repo social.Repository
}

func NewSocialService(repo social.Repository) social.Service {
	return &SocialService{repo: repo}
}

func (s *SocialService) Follow(ctx context.Context, followerID, targetID uuid.UUID) error {
	if followerID == targetID {
		return social.ErrCannotFollowSelf
	}

	target, err := s.repo.FindTarget(ctx, targetID)
	if err != nil {
		return err
	}
	if target.IsBanned {
		return social.ErrUserBanned
	}

	if err := s.repo.Follow(ctx, followerID, targetID); err != nil {
		return err
	}

	logger.Info("follow edge added", map[string]interface{}{
		"follower_id":  followerID.String(),
		"following_id": targetID.String(),
	})

	return nil
}

func (s *SocialService) Unfollow(ctx context.Context, followerID, targetID uuid.UUID) error {
	if _, err := s.repo.FindTarget(ctx, targetID); err != nil {
		return err
	}

	return s.repo.Unfollow(ctx, followerID, targetID)
}

func (s *SocialService) IsFollowing(ctx context.Context, followerID, targetID uuid.UUID) (bool, error) {
	return s.repo.IsFollowing(ctx, followerID, targetID)
}

func (s *SocialService) ListFollowers(ctx context.Context, userID uuid.UUID, page, limit int) ([]social.FollowUser, int, error) {
	if _, err := s.repo.FindTarget(ctx, userID); err != nil {
		return nil, 0, err
	}

	return s.repo.ListFollowers(ctx, userID, (page-1)*limit, limit)
}

func (s *SocialService) ListFollowing(ctx context.Context, userID uuid.UUID, page, limit int) ([]social.FollowUser, int, error) {
	if _, err := s.repo.FindTarget(ctx, userID); err != nil {
		return nil, 0, err
	}

	return s.repo.ListFollowing(ctx, userID, (page-1)*limit, limit)
}
