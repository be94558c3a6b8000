package repository

import (
	"context"

	"servihub/internal/domain/model"
)

// -----------------------------
// Accounts
// -----------------------------

type AccountRepository interface {
	Save(ctx context.Context, tx Tx, a *model.Account) error
	// FindByID locks the row (FOR UPDATE) when called inside a transaction.
	FindByID(ctx context.Context, tx Tx, id string) (*model.Account, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Account, error)
	FindByVerificationToken(ctx context.Context, tx Tx, token string) (*model.Account, error)
	// UpdateBalance sets the balance to an absolute value, in poisha.
	UpdateBalance(ctx context.Context, tx Tx, id string, balance int64) error
	// CreditBalance adds amount to the stored balance in a single statement.
	CreditBalance(ctx context.Context, tx Tx, id string, amount int64) error
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Account, error)
	Count(ctx context.Context, tx Tx) (int, error)
}

// -----------------------------
// Admins
// -----------------------------

type AdminRepository interface {
	Save(ctx context.Context, tx Tx, a *model.Admin) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Admin, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Admin, error)
}
