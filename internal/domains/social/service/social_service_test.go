package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/domains/social"
)

type edge struct {
	follower, following uuid.UUID
}

type fakeSocialRepo struct {
	users map[uuid.UUID]*social.FollowTarget
	edges map[edge]bool
}

func newFakeSocialRepo() *fakeSocialRepo {
	return &fakeSocialRepo{
		users: map[uuid.UUID]*social.FollowTarget{},
		edges: map[edge]bool{},
	}
}

func (f *fakeSocialRepo) addUser(banned bool) uuid.UUID {
	id := uuid.New()
	f.users[id] = &social.FollowTarget{ID: id, IsBanned: banned}
	return id
}

func (f *fakeSocialRepo) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	f.edges[edge{followerID, followingID}] = true
	return nil
}

func (f *fakeSocialRepo) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	delete(f.edges, edge{followerID, followingID})
	return nil
}

func (f *fakeSocialRepo) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return f.edges[edge{followerID, followingID}], nil
}

func (f *fakeSocialRepo) ListFollowers(ctx context.Context, userID uuid.UUID, offset, limit int) ([]social.FollowUser, int, error) {
	followers := []social.FollowUser{}
	for e := range f.edges {
		if e.following == userID {
			followers = append(followers, social.FollowUser{ID: e.follower})
		}
	}
	return followers, len(followers), nil
}

func (f *fakeSocialRepo) ListFollowing(ctx context.Context, userID uuid.UUID, offset, limit int) ([]social.FollowUser, int, error) {
	following := []social.FollowUser{}
	for e := range f.edges {
		if e.follower == userID {
			following = append(following, social.FollowUser{ID: e.following})
		}
	}
	return following, len(following), nil
}

func (f *fakeSocialRepo) FindTarget(ctx context.Context, userID uuid.UUID) (*social.FollowTarget, error) {
	target, ok := f.users[userID]
	if !ok {
		return nil, social.ErrUserNotFound
	}
	return target, nil
}

func TestFollowRejectsSelf(t *testing.T) {
	repo := newFakeSocialRepo()
	id := repo.addUser(false)
	svc := NewSocialService(repo)

	err := svc.Follow(context.Background(), id, id)
	assert.ErrorIs(t, err, social.ErrCannotFollowSelf)
}

func TestFollowRejectsUnknownTarget(t *testing.T) {
	repo := newFakeSocialRepo()
	follower := repo.addUser(false)
	svc := NewSocialService(repo)

	err := svc.Follow(context.Background(), follower, uuid.New())
	assert.ErrorIs(t, err, social.ErrUserNotFound)
}

func TestFollowRejectsBannedTarget(t *testing.T) {
	repo := newFakeSocialRepo()
	follower := repo.addUser(false)
	banned := repo.addUser(true)
	svc := NewSocialService(repo)

	err := svc.Follow(context.Background(), follower, banned)
	assert.ErrorIs(t, err, social.ErrUserBanned)
}

func TestFollowIsIdempotent(t *testing.T) {
	repo := newFakeSocialRepo()
	follower := repo.addUser(false)
	target := repo.addUser(false)
	svc := NewSocialService(repo)

	require.NoError(t, svc.Follow(context.Background(), follower, target))
	require.NoError(t, svc.Follow(context.Background(), follower, target))

	following, err := svc.IsFollowing(context.Background(), follower, target)
	require.NoError(t, err)
	assert.True(t, following)

	// One edge serves both directions.
	followers, total, err := svc.ListFollowers(context.Background(), target, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, followers, 1)
	assert.Equal(t, follower, followers[0].ID)

	followed, total, err := svc.ListFollowing(context.Background(), follower, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, followed, 1)
	assert.Equal(t, target, followed[0].ID)
}

func TestUnfollowAbsentEdgeIsNoop(t *testing.T) {
	repo := newFakeSocialRepo()
	follower := repo.addUser(false)
	target := repo.addUser(false)
	svc := NewSocialService(repo)

	require.NoError(t, svc.Unfollow(context.Background(), follower, target))

	require.NoError(t, svc.Follow(context.Background(), follower, target))
	require.NoError(t, svc.Unfollow(context.Background(), follower, target))

	following, err := svc.IsFollowing(context.Background(), follower, target)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestUnfollowUnknownTarget(t *testing.T) {
	repo := newFakeSocialRepo()
	follower := repo.addUser(false)
	svc := NewSocialService(repo)

	err := svc.Unfollow(context.Background(), follower, uuid.New())
	assert.ErrorIs(t, err, social.ErrUserNotFound)
}
