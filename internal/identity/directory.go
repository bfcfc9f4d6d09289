// Package identity is a small in-process user directory standing in for the
// account service. The auction service only asks it whether a user may bid.
package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
	"auction-engine/utils"
)

// Verifier reports whether a user passed account verification
type Verifier interface {
	IsVerified(ctx context.Context, userID string) (bool, error)
}

// Accounts is the user store the auction service depends on
type Accounts interface {
	Verifier
	Register(user models.User) (models.User, error)
	Lookup(userID string) (models.User, error)
}

// Directory is a concurrency-safe in-memory user store
type Directory struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// New creates a directory with each of verified registered as a verified user
func New(verified ...string) *Directory {
	d := &Directory{users: make(map[string]models.User)}
	for _, id := range verified {
		d.users[id] = models.User{UserID: id, Username: id, Verified: true}
	}
	return d
}

// Register adds or replaces a user
func (d *Directory) Register(user models.User) (models.User, error) {
	user.UserID = strings.TrimSpace(user.UserID)
	if user.UserID == "" {
		return models.User{}, fmt.Errorf("identity: %w - user id is required", auctionerrors.ErrInvalidConfig)
	}
	if user.Username = strings.TrimSpace(user.Username); user.Username == "" {
		user.Username = user.UserID
	}

	d.mu.Lock()
	d.users[user.UserID] = user
	d.mu.Unlock()

	utils.Info("identity: user registered", map[string]any{
		"user_id":  user.UserID,
		"verified": user.Verified,
	})
	return user, nil
}

// Lookup returns the user with userID
func (d *Directory) Lookup(userID string) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("identity: %w - user %s", auctionerrors.ErrNotFound, userID)
	}
	return u, nil
}

// IsVerified is false for unknown users
func (d *Directory) IsVerified(ctx context.Context, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.users[userID].Verified, nil
}
