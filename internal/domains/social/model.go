package social

import (
	"time"

	"github.com/google/uuid"
)

// FollowUser is one entry in a followers or following listing.
type FollowUser struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ProfilePicture *string   `json:"profilePicture"`
	FollowedAt     time.Time `json:"followedAt"`
}

// FollowTarget is the slice of a user row the follow rules need.
type FollowTarget struct {
	ID       uuid.UUID
	IsBanned bool
}
