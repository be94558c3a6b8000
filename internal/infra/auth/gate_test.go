package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"
)

type stubAccountRepo struct {
	repository.AccountRepository
	acct *model.Account
}

func (s *stubAccountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	if s.acct == nil || s.acct.ID != id {
		return nil, domain.ErrNotFound
	}
	cp := *s.acct
	return &cp, nil
}

type stubAdminRepo struct {
	repository.AdminRepository
	admin *model.Admin
}

func (s *stubAdminRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Admin, error) {
	if s.admin == nil || s.admin.ID != id {
		return nil, domain.ErrNotFound
	}
	cp := *s.admin
	return &cp, nil
}

func TestTokenManager_MintParse(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	tok, err := tm.Mint("acct-1", RoleUser)
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	claims, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "acct-1" || claims.Role != RoleUser {
		t.Errorf("claims mismatch, got subject %q role %q", claims.Subject, claims.Role)
	}

	if _, err := tm.Parse(tok + "x"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("tampered token: expected ErrUnauthorized, got %v", err)
	}

	other := NewTokenManager("other-secret", time.Hour)
	if _, err := other.Parse(tok); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("wrong secret: expected ErrUnauthorized, got %v", err)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)
	tok, err := tm.Mint("acct-1", RoleUser)
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	if _, err := tm.Parse(tok); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expired token: expected ErrUnauthorized, got %v", err)
	}
}

func TestFromAuthorizationHeader(t *testing.T) {
	tok, err := FromAuthorizationHeader("Bearer abc.def.ghi")
	if err != nil || tok != "abc.def.ghi" {
		t.Errorf("got %q, %v", tok, err)
	}
	if _, err := FromAuthorizationHeader(""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("missing header: expected ErrUnauthorized, got %v", err)
	}
	if _, err := FromAuthorizationHeader("Basic dXNlcg=="); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("non-bearer scheme: expected ErrUnauthorized, got %v", err)
	}
}

func TestGate_RequireUser(t *testing.T) {
	ctx := context.Background()
	acct := &model.Account{ID: "acct-1", Active: true, EmailVerified: true}
	gate := NewGate(&stubAccountRepo{acct: acct}, &stubAdminRepo{})

	claims := &Claims{Role: RoleUser}
	claims.Subject = "acct-1"

	t.Run("email-verified account passes every level", func(t *testing.T) {
		for _, level := range []AccessLevel{Authenticated, Active, Verified} {
			if _, err := gate.RequireUser(ctx, claims, level); err != nil {
				t.Errorf("level %d: unexpected error %v", level, err)
			}
		}
	})

	t.Run("admin verify flag alone does not satisfy Verified", func(t *testing.T) {
		acct.EmailVerified = false
		acct.Verified = true
		defer func() {
			acct.EmailVerified = true
			acct.Verified = false
		}()

		if _, err := gate.RequireUser(ctx, claims, Verified); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Verified: expected ErrForbidden, got %v", err)
		}
	})

	t.Run("email verification suffices without admin verify", func(t *testing.T) {
		if acct.Verified {
			t.Fatal("fixture must not carry the admin verify flag")
		}
		if _, err := gate.RequireUser(ctx, claims, Verified); err != nil {
			t.Errorf("Verified: unexpected error %v", err)
		}
	})

	t.Run("inactive account stops at Active", func(t *testing.T) {
		acct.Active = false
		defer func() { acct.Active = true }()

		if _, err := gate.RequireUser(ctx, claims, Authenticated); err != nil {
			t.Errorf("Authenticated: unexpected error %v", err)
		}
		if _, err := gate.RequireUser(ctx, claims, Active); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Active: expected ErrForbidden, got %v", err)
		}
	})

	t.Run("unverified email stops at Verified", func(t *testing.T) {
		acct.EmailVerified = false
		defer func() { acct.EmailVerified = true }()

		if _, err := gate.RequireUser(ctx, claims, Active); err != nil {
			t.Errorf("Active: unexpected error %v", err)
		}
		if _, err := gate.RequireUser(ctx, claims, Verified); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Verified: expected ErrForbidden, got %v", err)
		}
	})

	t.Run("admin token is not a user", func(t *testing.T) {
		adminClaims := &Claims{Role: RoleAdmin}
		adminClaims.Subject = "acct-1"
		if _, err := gate.RequireUser(ctx, adminClaims, Authenticated); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("deleted account is not found", func(t *testing.T) {
		gone := &Claims{Role: RoleUser}
		gone.Subject = "missing"
		if _, err := gate.RequireUser(ctx, gone, Authenticated); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestGate_RequireAdmin(t *testing.T) {
	ctx := context.Background()
	admin := &model.Admin{ID: "adm-1", Active: true}
	gate := NewGate(&stubAccountRepo{}, &stubAdminRepo{admin: admin})

	claims := &Claims{Role: RoleAdmin}
	claims.Subject = "adm-1"

	if _, err := gate.RequireAdmin(ctx, claims); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	admin.Active = false
	if _, err := gate.RequireAdmin(ctx, claims); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("deactivated admin: expected ErrForbidden, got %v", err)
	}

	userClaims := &Claims{Role: RoleUser}
	userClaims.Subject = "adm-1"
	if _, err := gate.RequireAdmin(ctx, userClaims); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("user token: expected ErrForbidden, got %v", err)
	}
}
