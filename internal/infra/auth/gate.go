package auth

import (
	"context"
	"fmt"

	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"
)

// AccessLevel orders the gates an account must pass before reaching an
// endpoint. Activation is admin-controlled while email verification is
// redeemed by the user, so an account can hold either flag without the other.
type AccessLevel int

const (
	// Authenticated only requires a valid token.
	Authenticated AccessLevel = iota
	// Active additionally requires the admin-controlled active flag.
	Active
	// Verified requires active plus a redeemed email verification link.
	Verified
)

// Principal identifies the caller resolved from a token.
type Principal struct {
	ID   string
	Role string
}

// Gate resolves token claims to live account/admin rows, so deactivation
// takes effect immediately instead of at token expiry.
type Gate struct {
	accounts repository.AccountRepository
	admins   repository.AdminRepository
}

func NewGate(accounts repository.AccountRepository, admins repository.AdminRepository) *Gate {
	return &Gate{accounts: accounts, admins: admins}
}

// RequireUser loads the account behind the claims and enforces the access
// level. Inactive accounts fail at Active, ones without a confirmed email at
// Verified. A token whose subject no longer exists yields ErrNotFound.
func (g *Gate) RequireUser(ctx context.Context, claims *Claims, level AccessLevel) (*model.Account, error) {
	if claims == nil {
		return nil, domain.ErrUnauthorized
	}
	if claims.Role != RoleUser {
		return nil, domain.ErrForbidden
	}
	acct, err := g.accounts.FindByID(ctx, repository.NoTX, claims.Subject)
	if err != nil {
		return nil, err
	}
	if level >= Active && !acct.Active {
		return nil, fmt.Errorf("account pending activation: %w", domain.ErrForbidden)
	}
	if level >= Verified && !acct.EmailVerified {
		return nil, fmt.Errorf("account email not verified: %w", domain.ErrForbidden)
	}
	return acct, nil
}

// RequireAdmin loads the admin behind the claims. Deactivated admins are
// rejected even with a valid token.
func (g *Gate) RequireAdmin(ctx context.Context, claims *Claims) (*model.Admin, error) {
	if claims == nil {
		return nil, domain.ErrUnauthorized
	}
	if claims.Role != RoleAdmin {
		return nil, domain.ErrForbidden
	}
	admin, err := g.admins.FindByID(ctx, repository.NoTX, claims.Subject)
	if err != nil {
		return nil, err
	}
	if !admin.Active {
		return nil, domain.ErrForbidden
	}
	return admin, nil
}
