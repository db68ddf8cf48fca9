package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User is an account. Roles behave as a tag set: every account implicitly
// holds the "user" role, and the slice carries no duplicates.
type User struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	Email          string         `json:"email" db:"email"`
	Password       string         `json:"-" db:"password"`
	Name           string         `json:"name" db:"name"`
	ProfilePicture *string        `json:"profilePicture" db:"profile_picture"`
	Roles          pq.StringArray `json:"roles" db:"roles"`
	IsBanned       bool           `json:"isBanned" db:"is_banned"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
}

// HasRole reports whether the user holds the role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// NormalizeRoles deduplicates the role set and guarantees the implicit
// "user" role is present. Input order is preserved after "user".
func NormalizeRoles(roles []string) []string {
	out := []string{RoleUser}
	seen := map[string]bool{RoleUser: true}

	for _, r := range roles {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}

	return out
}

// RemoveRole returns the role set without the given role, normalized.
func RemoveRole(roles []string, role string) []string {
	kept := make([]string, 0, len(roles))
	for _, r := range roles {
		if r != role {
			kept = append(kept, r)
		}
	}
	return NormalizeRoles(kept)
}

// PublicProfile is the shape other users see.
type PublicProfile struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	ProfilePicture   *string   `json:"profilePicture"`
	CreatedAt        time.Time `json:"createdAt"`
	ReviewCount      int       `json:"reviewCount"`
	ReadingListCount int       `json:"readingListCount"`
	FollowersCount   int       `json:"followersCount"`
	FollowingCount   int       `json:"followingCount"`
	IsFollowing      bool      `json:"isFollowing"`
}

// ProfileCounts are the aggregate numbers shown on a profile.
type ProfileCounts struct {
	Reviews     int
	ReadingList int
	Followers   int
	Following   int
}

// AuthTokens is the issued token pair.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
