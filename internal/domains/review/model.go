package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is one user's review of one book. The (UserID, BookID) pair is
// unique: a user holds at most one review per book. Book and user are
// immutable after creation; only content and rating may change.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BookID    uuid.UUID `json:"-" db:"book_id"`
	UserID    uuid.UUID `json:"-" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ReviewDetail is the listing shape: the review plus its joined book and
// author summaries and live like information.
type ReviewDetail struct {
	Review
	User               UserSummary  `json:"user"`
	Book               *BookSummary `json:"book,omitempty"`
	LikesCount         int          `json:"likesCount"`
	LikedByCurrentUser bool         `json:"likedByCurrentUser"`
}

type UserSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ProfilePicture *string   `json:"profilePicture"`
}

type BookSummary struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"externalId"`
	Title      string    `json:"title"`
	Thumbnail  *string   `json:"thumbnail"`
}

// LikeState is the outcome of a like-ledger operation: the resulting
// liked flag and the review's live like count.
type LikeState struct {
	Liked      bool `json:"liked"`
	TotalLikes int  `json:"totalLikes"`
}
