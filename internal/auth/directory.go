package auth

import (
	"strings"
	"sync"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/pkg/util"
)

// Account pairs an actor with its stored credential hash.
type Account struct {
	Actor        domain.Actor
	PasswordHash string
}

// Directory is an in-memory account registry. Accounts live upstream in
// the real deployment; the directory seeds a usable set for development
// and tests and answers login checks.
type Directory struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

// NewDirectory builds an empty directory.
func NewDirectory() *Directory {
	return &Directory{accounts: make(map[string]Account)}
}

// Register adds or replaces an account keyed by username.
func (d *Directory) Register(username, password string, cost int, actor domain.Actor) error {
	hash, err := HashPassword(password, cost)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts[normalize(username)] = Account{Actor: actor, PasswordHash: hash}
	return nil
}

// Authenticate verifies credentials and returns the actor.
func (d *Directory) Authenticate(username, password string) (*domain.Actor, error) {
	d.mu.RLock()
	account, ok := d.accounts[normalize(username)]
	d.mu.RUnlock()
	if !ok {
		return nil, util.NewUnauthorized("unknown account")
	}
	if err := ComparePassword(account.PasswordHash, password); err != nil {
		return nil, util.NewUnauthorized("invalid credentials")
	}
	actor := account.Actor
	return &actor, nil
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
