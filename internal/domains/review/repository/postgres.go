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
	"bookreview-backend/internal/domains/review"
	"bookreview-backend/internal/shared/utils"
	"bookreview-backend/pkg/database"
)

const reviewDetailColumns = `
	r.id, r.book_id, r.user_id, r.content, r.rating, r.created_at, r.updated_at,
	u.id, u.name, u.profile_picture,
	b.id, b.external_id, b.title, b.thumbnail,
	(SELECT COUNT(*) FROM review_likes rl WHERE rl.review_id = r.id),
	EXISTS (SELECT 1 FROM review_likes rl WHERE rl.review_id = r.id AND rl.user_id = $1)`

const reviewDetailJoins = `
	FROM reviews r
	JOIN users u ON u.id = r.user_id
	JOIN books b ON b.id = r.book_id`

var sortColumns = map[string]string{
	"createdAt": "r.created_at",
	"rating":    "r.rating",
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) review.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) CreateWithBook(ctx context.Context, rev *review.Review, newBook *book.Book) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if newBook != nil {
			// ON CONFLICT tolerates a concurrent import of the same external
			// id; the reselect below picks up whichever row won.
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
				Scan(&rev.BookID)
			if err != nil {
				return fmt.Errorf("resolve book id: %w", err)
			}
		}

		insertReview := `
			INSERT INTO reviews (id, book_id, user_id, content, rating, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.Exec(ctx, insertReview,
			rev.ID,
			rev.BookID,
			rev.UserID,
			rev.Content,
			rev.Rating,
			rev.CreatedAt,
			rev.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return review.ErrAlreadyReviewed
			}
			return fmt.Errorf("insert review: %w", err)
		}

		return recomputeRating(ctx, tx, rev.BookID)
	})
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	query := `
		SELECT id, book_id, user_id, content, rating, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	var rev review.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rev.ID,
		&rev.BookID,
		&rev.UserID,
		&rev.Content,
		&rev.Rating,
		&rev.CreatedAt,
		&rev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, review.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}

	return &rev, nil
}

func (r *postgresRepository) Update(ctx context.Context, rev *review.Review) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE reviews
			SET content = $1, rating = $2, updated_at = $3
			WHERE id = $4
		`

		tag, err := tx.Exec(ctx, query, rev.Content, rev.Rating, rev.UpdatedAt, rev.ID)
		if err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return review.ErrReviewNotFound
		}

		return recomputeRating(ctx, tx, rev.BookID)
	})
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var bookID uuid.UUID
		err := tx.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING book_id`, id).
			Scan(&bookID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return review.ErrReviewNotFound
			}
			return fmt.Errorf("delete review: %w", err)
		}

		return recomputeRating(ctx, tx, bookID)
	})
}

func (r *postgresRepository) GetDetail(ctx context.Context, id, currentUser uuid.UUID) (*review.ReviewDetail, error) {
	query := `SELECT` + reviewDetailColumns + reviewDetailJoins + ` WHERE r.id = $2`

	rows, err := r.pool.Query(ctx, query, currentUser, id)
	if err != nil {
		return nil, fmt.Errorf("get review detail: %w", err)
	}

	details, err := scanDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, review.ErrReviewNotFound
	}

	return &details[0], nil
}

func (r *postgresRepository) ListByBook(ctx context.Context, bookID, currentUser uuid.UUID, q *review.ListQuery) ([]review.ReviewDetail, int, error) {
	orderBy := sortColumns[utils.AllowSort(q.Sort, "createdAt", "rating")]
	query := fmt.Sprintf(
		`SELECT %s %s WHERE r.book_id = $2 ORDER BY %s %s LIMIT $3 OFFSET $4`,
		reviewDetailColumns, reviewDetailJoins, orderBy, utils.SortDirection(q.Direction),
	)

	rows, err := r.pool.Query(ctx, query, currentUser, bookID, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list book reviews: %w", err)
	}

	details, err := scanDetails(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE book_id = $1`, bookID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count book reviews: %w", err)
	}

	return details, total, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID, currentUser uuid.UUID, offset, limit int) ([]review.ReviewDetail, int, error) {
	query := `SELECT` + reviewDetailColumns + reviewDetailJoins + `
		WHERE r.user_id = $2
		ORDER BY r.created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, currentUser, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list user reviews: %w", err)
	}

	details, err := scanDetails(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count user reviews: %w", err)
	}

	return details, total, nil
}

func (r *postgresRepository) ListAll(ctx context.Context, currentUser uuid.UUID, q *review.ListQuery) ([]review.ReviewDetail, int, error) {
	orderBy := sortColumns[utils.AllowSort(q.Sort, "createdAt", "rating")]
	filter := ` WHERE ($2 = '' OR b.title ILIKE '%' || $2 || '%' OR r.content ILIKE '%' || $2 || '%')`

	query := fmt.Sprintf(
		`SELECT %s %s %s ORDER BY %s %s LIMIT $3 OFFSET $4`,
		reviewDetailColumns, reviewDetailJoins, filter, orderBy, utils.SortDirection(q.Direction),
	)

	rows, err := r.pool.Query(ctx, query, currentUser, q.Search, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	details, err := scanDetails(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `
		SELECT COUNT(*)
		FROM reviews r
		JOIN books b ON b.id = r.book_id
		WHERE ($1 = '' OR b.title ILIKE '%' || $1 || '%' OR r.content ILIKE '%' || $1 || '%')
	`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, q.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	return details, total, nil
}

func (r *postgresRepository) Like(ctx context.Context, reviewID, userID uuid.UUID) (*review.LikeState, error) {
	query := `
		INSERT INTO review_likes (review_id, user_id, created_at)
		VALUES ($1, $2, NOW())
	`

	_, err := r.pool.Exec(ctx, query, reviewID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, review.ErrAlreadyLiked
			case "23503":
				return nil, review.ErrReviewNotFound
			}
		}
		return nil, fmt.Errorf("like review: %w", err)
	}

	total, err := likeCount(ctx, r.pool, reviewID)
	if err != nil {
		return nil, err
	}

	return &review.LikeState{Liked: true, TotalLikes: total}, nil
}

func (r *postgresRepository) Unlike(ctx context.Context, reviewID, userID uuid.UUID) (*review.LikeState, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM review_likes WHERE review_id = $1 AND user_id = $2`,
		reviewID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("unlike review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, review.ErrNotLiked
	}

	total, err := likeCount(ctx, r.pool, reviewID)
	if err != nil {
		return nil, err
	}

	return &review.LikeState{Liked: false, TotalLikes: total}, nil
}

func (r *postgresRepository) ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (*review.LikeState, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*review.LikeState, error) {
		return toggleLike(ctx, tx, reviewID, userID)
	})
}

func toggleLike(ctx context.Context, tx txQuerier, reviewID, userID uuid.UUID) (*review.LikeState, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1)`, reviewID).
		Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if !exists {
		return nil, review.ErrReviewNotFound
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM review_likes WHERE review_id = $1 AND user_id = $2`,
		reviewID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}

	liked := tag.RowsAffected() == 0
	if liked {
		// A concurrent toggle may insert the row between our delete and
		// insert; either way the like exists afterwards, so the conflict
		// is not an error here.
		_, err = tx.Exec(ctx,
			`INSERT INTO review_likes (review_id, user_id, created_at) VALUES ($1, $2, NOW())
			 ON CONFLICT (review_id, user_id) DO NOTHING`,
			reviewID, userID,
		)
		if err != nil {
			return nil, fmt.Errorf("toggle like: %w", err)
		}
	}

	total, err := likeCount(ctx, tx, reviewID)
	if err != nil {
		return nil, err
	}

	return &review.LikeState{Liked: liked, TotalLikes: total}, nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txQuerier is the subset of pgx.Tx the like and rating helpers use.
type txQuerier interface {
	rowQuerier
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func likeCount(ctx context.Context, q rowQuerier, reviewID uuid.UUID) (int, error) {
	var total int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM review_likes WHERE review_id = $1`, reviewID).
		Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return total, nil
}

// recomputeRating rereads the book's ratings and rewrites its review_count
// and average_rating with the aggregate. average_rating is NULL when the
// book has no reviews.
func recomputeRating(ctx context.Context, tx txQuerier, bookID uuid.UUID) error {
	rows, err := tx.Query(ctx, `SELECT rating FROM reviews WHERE book_id = $1`, bookID)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}

	ratings, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}

	count, average := review.AggregateRating(ratings)

	_, err = tx.Exec(ctx,
		`UPDATE books SET review_count = $1, average_rating = $2, updated_at = NOW() WHERE id = $3`,
		count, average, bookID,
	)
	if err != nil {
		return fmt.Errorf("recompute rating: %w", err)
	}

	return nil
}

func scanDetails(rows pgx.Rows) ([]review.ReviewDetail, error) {
	defer rows.Close()

	details := []review.ReviewDetail{}
	for rows.Next() {
		var d review.ReviewDetail
		var b review.BookSummary

		err := rows.Scan(
			&d.ID,
			&d.BookID,
			&d.UserID,
			&d.Content,
			&d.Rating,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.User.ID,
			&d.User.Name,
			&d.User.ProfilePicture,
			&b.ID,
			&b.ExternalID,
			&b.Title,
			&b.Thumbnail,
			&d.LikesCount,
			&d.LikedByCurrentUser,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}

		d.Book = &b
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return details, nil
}
