// Package identity provides an in-process account registry implementing the
// core's IdentityProvider port. Accounts are registered at startup (or through
// the admin surface); lookups are lock-protected and never hit the network.
package identity

import (
	"context"
	"sync"

	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/kernel"
)

// Registry maps account ids to roles. Unknown accounts resolve to
// account.Invalid with a nil error, per the port contract.
type Registry struct {
	mu    sync.RWMutex
	roles map[kernel.UUID]account.Role
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		roles: make(map[kernel.UUID]account.Role),
	}
}

// Register binds an account id to a role, replacing any previous binding.
// Registering account.Invalid removes the account.
func (r *Registry) Register(accountID kernel.UUID, role account.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if role == account.Invalid {
		delete(r.roles, accountID)
		return
	}
	r.roles[accountID] = role
}

// RoleOf resolves the role behind an account id.
func (r *Registry) RoleOf(_ context.Context, accountID kernel.UUID) (account.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.roles[accountID], nil
}
