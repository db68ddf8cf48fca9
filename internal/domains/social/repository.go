package social

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists the follow graph. Each relationship is a single
// edge row keyed on (follower_id, following_id); both listing directions
// are derived from the same rows, so neither side can drift from the
// other.
type Repository interface {
	// Follow adds the edge. Adding an edge that already exists is a no-op.
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	// Unfollow removes the edge. Removing an absent edge is a no-op.
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, offset, limit int) ([]FollowUser, int, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, offset, limit int) ([]FollowUser, int, error)
	FindTarget(ctx context.Context, userID uuid.UUID) (*FollowTarget, error)
}
