package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview-backend/internal/domains/book"
	"bookreview-backend/internal/domains/user"
	"bookreview-backend/pkg/database"
)

const userColumns = `
	id, email, password, name, profile_picture, roles, is_banned,
	created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, password, name, profile_picture, roles, is_banned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Email,
		u.Password,
		u.Name,
		u.ProfilePicture,
		u.Roles,
		u.IsBanned,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *postgresRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, profile_picture = $3, updated_at = $4
		WHERE id = $5
	`

	tag, err := r.pool.Exec(ctx, query, u.Name, u.Email, u.ProfilePicture, u.UpdatedAt, u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Capture reviewed books before the cascade removes the reviews,
		// so their stored aggregates can be refreshed afterwards.
		rows, err := tx.Query(ctx, `SELECT DISTINCT book_id FROM reviews WHERE user_id = $1`, id)
		if err != nil {
			return fmt.Errorf("list reviewed books: %w", err)
		}
		var bookIDs []uuid.UUID
		for rows.Next() {
			var bookID uuid.UUID
			if err := rows.Scan(&bookID); err != nil {
				rows.Close()
				return fmt.Errorf("scan book id: %w", err)
			}
			bookIDs = append(bookIDs, bookID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("list reviewed books: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return user.ErrUserNotFound
		}

		if len(bookIDs) == 0 {
			return nil
		}

		_, err = tx.Exec(ctx, `
			UPDATE books SET
				review_count   = stats.cnt,
				average_rating = stats.avg,
				updated_at     = NOW()
			FROM (
				SELECT b.id, COUNT(r.id) AS cnt, ROUND(AVG(r.rating)::numeric, 2)::float8 AS avg
				FROM books b
				LEFT JOIN reviews r ON r.book_id = b.id
				WHERE b.id = ANY($1)
				GROUP BY b.id
			) stats
			WHERE books.id = stats.id
		`, bookIDs)
		if err != nil {
			return fmt.Errorf("refresh book ratings: %w", err)
		}

		return nil
	})
}

func (r *postgresRepository) List(ctx context.Context, search string, offset, limit int) ([]user.User, int, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		var u user.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	countQuery := `
		SELECT COUNT(*) FROM users
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
	`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

func (r *postgresRepository) SetRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET roles = $1, updated_at = NOW() WHERE id = $2`,
		roles, id,
	)
	if err != nil {
		return fmt.Errorf("set roles: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *postgresRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_banned = $1, updated_at = NOW() WHERE id = $2`,
		banned, id,
	)
	if err != nil {
		return fmt.Errorf("set banned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *postgresRepository) ProfileCounts(ctx context.Context, id uuid.UUID) (*user.ProfileCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM reviews WHERE user_id = $1),
			(SELECT COUNT(*) FROM reading_list WHERE user_id = $1),
			(SELECT COUNT(*) FROM user_follows WHERE following_id = $1),
			(SELECT COUNT(*) FROM user_follows WHERE follower_id = $1)
	`

	var counts user.ProfileCounts
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&counts.Reviews, &counts.ReadingList, &counts.Followers, &counts.Following)
	if err != nil {
		return nil, fmt.Errorf("profile counts: %w", err)
	}

	return &counts, nil
}

func (r *postgresRepository) AddToReadingList(ctx context.Context, userID, bookID uuid.UUID, newBook *book.Book) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if newBook != nil {
			insertBook := `
				INSERT INTO books (
					id, external_id, title, authors, thumbnail, description,
					page_count, categories, average_rating, review_count,
					created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				ON CONFLICT (external_id) DO NOTHING
			`
			_, err := tx.Exec(ctx, insertBook,
				newBook.ID,
				newBook.ExternalID,
				newBook.Title,
				newBook.Authors,
				newBook.Thumbnail,
				newBook.Description,
				newBook.PageCount,
				newBook.Categories,
				newBook.AverageRating,
				newBook.ReviewCount,
				newBook.CreatedAt,
				newBook.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert book: %w", err)
			}

			err = tx.QueryRow(ctx, `SELECT id FROM books WHERE external_id = $1`, newBook.ExternalID).
				Scan(&bookID)
			if err != nil {
				return fmt.Errorf("resolve book id: %w", err)
			}
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO reading_list (user_id, book_id, created_at) VALUES ($1, $2, NOW())`,
			userID, bookID,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case "23505":
					return user.ErrBookAlreadyInList
				case "23503":
					return user.ErrBookNotFound
				}
			}
			return fmt.Errorf("add to reading list: %w", err)
		}

		return nil
	})
}

func (r *postgresRepository) RemoveFromReadingList(ctx context.Context, userID, bookID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM reading_list WHERE user_id = $1 AND book_id = $2`,
		userID, bookID,
	)
	if err != nil {
		return fmt.Errorf("remove from reading list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrBookNotInList
	}

	return nil
}

func (r *postgresRepository) ListReadingList(ctx context.Context, userID uuid.UUID, offset, limit int) ([]book.Book, int, error) {
	query := `
		SELECT b.id, b.external_id, b.title, b.authors, b.thumbnail, b.description,
		       b.page_count, b.categories, b.average_rating, b.review_count,
		       b.created_at, b.updated_at
		FROM reading_list rl
		JOIN books b ON b.id = rl.book_id
		WHERE rl.user_id = $1
		ORDER BY rl.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reading list: %w", err)
	}
	defer rows.Close()

	books := []book.Book{}
	for rows.Next() {
		var b book.Book
		err := rows.Scan(
			&b.ID,
			&b.ExternalID,
			&b.Title,
			&b.Authors,
			&b.Thumbnail,
			&b.Description,
			&b.PageCount,
			&b.Categories,
			&b.AverageRating,
			&b.ReviewCount,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reading list book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reading list: %w", err)
	}

	var total int
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reading_list WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count reading list: %w", err)
	}

	return books, total, nil
}

func (r *postgresRepository) scanOne(row pgx.Row) (*user.User, error) {
	var u user.User
	if err := scanUser(row, &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func scanUser(row pgx.Row, u *user.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.Password,
		&u.Name,
		&u.ProfilePicture,
		&u.Roles,
		&u.IsBanned,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}
