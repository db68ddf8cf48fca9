package social

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	// Follow makes follower follow target. Self-follows and banned targets
	// are rejected; following someone already followed is a no-op.
	Follow(ctx context.Context, followerID, targetID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, targetID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, targetID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, page, limit int) ([]FollowUser, int, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, page, limit int) ([]FollowUser, int, error)
}
