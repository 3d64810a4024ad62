// Package directory holds the user accounts known to the dispatcher and
// their chat-platform mappings. It backs the mention resolver.
package directory

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/claves/redmine-messenger/internal/types"
)

// Directory is an in-memory, read-mostly user registry seeded from the
// projects file. Replace swaps the whole account set on config reload.
type Directory struct {
	mu     sync.RWMutex
	byUser map[string]types.User
	logger *zap.Logger
}

func New(logger *zap.Logger, users []types.User) *Directory {
	d := &Directory{
		byUser: make(map[string]types.User, len(users)),
		logger: logger.Named("directory"),
	}
	d.Replace(users)
	return d
}

// FindByLogin implements mention.Directory. Logins are matched
// case-insensitively; tracker logins are lowercase by convention but
// event payloads are not trusted to be.
func (d *Directory) FindByLogin(login string) (types.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.byUser[strings.ToLower(login)]
	return u, ok
}

// Replace swaps the account set. Duplicate logins keep the last entry.
func (d *Directory) Replace(users []types.User) {
	byUser := make(map[string]types.User, len(users))
	for _, u := range users {
		if u.Login == "" {
			d.logger.Warn("Dropping directory entry without login",
				zap.String("display_name", u.DisplayName))
			continue
		}
		byUser[strings.ToLower(u.Login)] = u
	}

	d.mu.Lock()
	d.byUser = byUser
	d.mu.Unlock()

	d.logger.Info("Directory loaded", zap.Int("users", len(byUser)))
}

// Len returns the number of known accounts.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byUser)
}
