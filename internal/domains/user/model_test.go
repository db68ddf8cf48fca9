package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoles(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil input gets implicit user", in: nil, want: []string{"user"}},
		{name: "user not duplicated", in: []string{"user"}, want: []string{"user"}},
		{name: "dedup preserves order", in: []string{"admin", "admin", "moderator"}, want: []string{"user", "admin", "moderator"}},
		{name: "empty strings dropped", in: []string{"", "admin", ""}, want: []string{"user", "admin"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeRoles(tc.in))
		})
	}
}

func TestRemoveRole(t *testing.T) {
	assert.Equal(t, []string{"user"}, RemoveRole([]string{"user", "admin"}, RoleAdmin))
	assert.Equal(t, []string{"user", "moderator"}, RemoveRole([]string{"user", "admin", "moderator"}, RoleAdmin))

	// The implicit role cannot be removed.
	assert.Equal(t, []string{"user"}, RemoveRole([]string{"user"}, RoleUser))
}

func TestHasRole(t *testing.T) {
	u := &User{Roles: []string{"user", "admin"}}
	assert.True(t, u.HasRole(RoleAdmin))
	assert.True(t, u.HasRole(RoleUser))
	assert.False(t, u.HasRole(RoleModerator))
}
