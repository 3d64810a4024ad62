package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/claves/redmine-messenger/internal/types"
)

type fakeDirectory map[string]types.User

func (d fakeDirectory) FindByLogin(login string) (types.User, bool) {
	u, ok := d[login]
	return u, ok
}

func TestResolve(t *testing.T) {
	dir := fakeDirectory{
		"jdoe": {Login: "jdoe", PlatformID: "U123"},
	}
	r := NewResolver(dir)

	tests := []struct {
		name     string
		user     types.User
		expected string
	}{
		{
			name:     "platform id on snapshot",
			user:     types.User{Login: "asmith", PlatformID: "U999"},
			expected: "<@U999>",
		},
		{
			name:     "platform id via directory",
			user:     types.User{Login: "jdoe"},
			expected: "<@U123>",
		},
		{
			name:     "no mapping falls back to login",
			user:     types.User{Login: "ghost"},
			expected: "@ghost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Resolve(tt.user))
		})
	}
}

func TestResolveByName(t *testing.T) {
	dir := fakeDirectory{
		"jdoe":   {Login: "jdoe", PlatformID: "U123"},
		"asmith": {Login: "asmith"},
	}
	r := NewResolver(dir)

	token, ok := r.ResolveByName("jdoe")
	assert.True(t, ok)
	assert.Equal(t, "<@U123>", token)

	// Known user without a platform mapping still resolves to @login.
	token, ok = r.ResolveByName("asmith")
	assert.True(t, ok)
	assert.Equal(t, "@asmith", token)

	_, ok = r.ResolveByName("ghost")
	assert.False(t, ok)

	_, ok = r.ResolveByName("")
	assert.False(t, ok)
}

func TestResolveNilDirectory(t *testing.T) {
	r := NewResolver(nil)
	assert.Equal(t, "@jdoe", r.Resolve(types.User{Login: "jdoe"}))
	_, ok := r.ResolveByName("jdoe")
	assert.False(t, ok)
}
