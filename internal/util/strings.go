package util

import "github.com/claves/redmine-messenger/internal/types"

// UniqueStrings returns a deduplicated copy of the slice preserving insertion order.
// Returns nil for empty or nil input.
func UniqueStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(s))
	result := make([]string, 0, len(s))
	for _, v := range s {
		if _, exists := seen[v]; !exists {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}

// UniqueUsers deduplicates users by login, preserving first-seen order.
// Users with an empty login are dropped.
func UniqueUsers(users []types.User) []types.User {
	if len(users) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(users))
	result := make([]types.User, 0, len(users))
	for _, u := range users {
		if u.Login == "" {
			continue
		}
		if _, exists := seen[u.Login]; !exists {
			seen[u.Login] = struct{}{}
			result = append(result, u)
		}
	}
	return result
}
