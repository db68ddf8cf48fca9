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
	"bookreview-backend/internal/shared/utils"
)

const bookColumns = `
	id, external_id, title, authors, thumbnail, description,
	page_count, categories, average_rating, review_count,
	created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) book.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, b *book.Book) error {
	query := `
		INSERT INTO books (
			id, external_id, title, authors, thumbnail, description,
			page_count, categories, average_rating, review_count,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		b.ID,
		b.ExternalID,
		b.Title,
		b.Authors,
		b.Thumbnail,
		b.Description,
		b.PageCount,
		b.Categories,
		b.AverageRating,
		b.ReviewCount,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		// 23505 = unique_violation on external_id; the constraint, not the
		// caller's pre-check, is the source of truth for dedup.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return book.ErrBookAlreadyExists
		}
		return fmt.Errorf("insert book: %w", err)
	}

	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) FindByExternalID(ctx context.Context, externalID string) (*book.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE external_id = $1`, bookColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, externalID))
}

func (r *postgresRepository) SearchByTitle(ctx context.Context, q string, offset, limit int) ([]book.Book, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM books
		WHERE title ILIKE '%%' || $1 || '%%'
		ORDER BY title ASC
		OFFSET $2 LIMIT $3
	`, bookColumns)

	rows, err := r.pool.Query(ctx, query, q, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer rows.Close()

	return scanBooks(rows)
}

func (r *postgresRepository) List(ctx context.Context, offset, limit int, sort, direction string) ([]book.Book, int, error) {
	sort = utils.AllowSort(sort, "title", "created_at", "average_rating")
	direction = utils.SortDirection(direction)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM books
		ORDER BY %s %s
		OFFSET $1 LIMIT $2
	`, bookColumns, sort, direction)

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *postgresRepository) HasUserReviewed(ctx context.Context, bookID, userID uuid.UUID) (bool, error) {
	var reviewed bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE book_id = $1 AND user_id = $2)`,
		bookID, userID,
	).Scan(&reviewed)
	if err != nil {
		return false, fmt.Errorf("check user review: %w", err)
	}
	return reviewed, nil
}

func (r *postgresRepository) scanOne(row pgx.Row) (*book.Book, error) {
	var b book.Book
	err := row.Scan(
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
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, book.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan book: %w", err)
	}
	return &b, nil
}

func scanBooks(rows pgx.Rows) ([]book.Book, error) {
	books := make([]book.Book, 0)
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
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("book rows: %w", err)
	}
	return books, nil
}
