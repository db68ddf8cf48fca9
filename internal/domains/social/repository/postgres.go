package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview-backend/internal/domains/social"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) social.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	query := `
		INSERT INTO user_follows (follower_id, following_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, followerID, followingID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return social.ErrUserNotFound
			case "23514":
				return social.ErrCannotFollowSelf
			}
		}
		return fmt.Errorf("follow user: %w", err)
	}

	return nil
}

func (r *postgresRepository) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID,
	)
	if err != nil {
		return fmt.Errorf("unfollow user: %w", err)
	}

	return nil
}

func (r *postgresRepository) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var following bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_follows WHERE follower_id = $1 AND following_id = $2)`,
		followerID, followingID,
	).Scan(&following)
	if err != nil {
		return false, fmt.Errorf("check following: %w", err)
	}

	return following, nil
}

func (r *postgresRepository) ListFollowers(ctx context.Context, userID uuid.UUID, offset, limit int) ([]social.FollowUser, int, error) {
	query := `
		SELECT u.id, u.name, u.profile_picture, f.created_at
		FROM user_follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`

	users, err := r.queryFollowUsers(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list followers: %w", err)
	}

	var total int
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_follows WHERE following_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count followers: %w", err)
	}

	return users, total, nil
}

func (r *postgresRepository) ListFollowing(ctx context.Context, userID uuid.UUID, offset, limit int) ([]social.FollowUser, int, error) {
	query := `
		SELECT u.id, u.name, u.profile_picture, f.created_at
		FROM user_follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`

	users, err := r.queryFollowUsers(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list following: %w", err)
	}

	var total int
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_follows WHERE follower_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count following: %w", err)
	}

	return users, total, nil
}

func (r *postgresRepository) FindTarget(ctx context.Context, userID uuid.UUID) (*social.FollowTarget, error) {
	var target social.FollowTarget
	err := r.pool.QueryRow(ctx,
		`SELECT id, is_banned FROM users WHERE id = $1`, userID,
	).Scan(&target.ID, &target.IsBanned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, social.ErrUserNotFound
		}
		return nil, fmt.Errorf("find follow target: %w", err)
	}

	return &target, nil
}

func (r *postgresRepository) queryFollowUsers(ctx context.Context, query string, args ...any) ([]social.FollowUser, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []social.FollowUser{}
	for rows.Next() {
		var u social.FollowUser
		if err := rows.Scan(&u.ID, &u.Name, &u.ProfilePicture, &u.FollowedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
