// Package mention maps tracker accounts to chat-platform mention tokens.
package mention

import "github.com/claves/redmine-messenger/internal/types"

// Directory is the user lookup the resolver depends on. Lookups are
// read-only and never error: an unknown login simply reports false.
type Directory interface {
	FindByLogin(login string) (types.User, bool)
}

// Resolver turns users into platform mention tokens.
type Resolver struct {
	dir Directory
}

func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve returns "<@ID>" when the user has a platform mapping, otherwise
// the "@login" fallback. The event snapshot may carry the mapping already;
// the directory is consulted when it does not.
func (r *Resolver) Resolve(u types.User) string {
	if u.PlatformID != "" {
		return "<@" + u.PlatformID + ">"
	}
	if r.dir != nil {
		if du, ok := r.dir.FindByLogin(u.Login); ok && du.PlatformID != "" {
			return "<@" + du.PlatformID + ">"
		}
	}
	return "@" + u.Login
}

// ResolveByName resolves a bare login. Reports false when the directory
// has no such user.
func (r *Resolver) ResolveByName(login string) (string, bool) {
	if r.dir == nil || login == "" {
		return "", false
	}
	u, ok := r.dir.FindByLogin(login)
	if !ok {
		return "", false
	}
	return r.Resolve(u), true
}
