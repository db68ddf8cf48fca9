package review

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const minContentLength = 10

// CreateReviewRequest creates a review for a book by its external id.
// The book is imported from the provider when absent locally.
type CreateReviewRequest struct {
	BookID  string `json:"bookId"`
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID,
			validation.Required.Error("book ID is required"),
		),
		validation.Field(&r.Rating,
			validation.Required.Error("rating is required"),
			validation.Min(1).Error("rating must be between 1 and 5"),
			validation.Max(5).Error("rating must be between 1 and 5"),
		),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
			validation.Length(minContentLength, 0).Error("review must be at least 10 characters"),
		),
	)
}

// UpdateReviewRequest is a partial update; nil fields are untouched.
// Book reassignment is never permitted.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Content *string `json:"content"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating,
			validation.Min(1).Error("rating must be between 1 and 5"),
			validation.Max(5).Error("rating must be between 1 and 5"),
		),
		validation.Field(&r.Content,
			validation.Length(minContentLength, 0).Error("review must be at least 10 characters"),
		),
	)
}

// ListQuery captures the shared listing parameters. Sort is restricted
// to the allow-list {created_at, rating}; anything else falls back to
// created_at.
type ListQuery struct {
	Search    string
	Sort      string
	Direction string
	Page      int
	Limit     int
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
