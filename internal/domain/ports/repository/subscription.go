package repository

import (
	"context"

	"servihub/internal/domain/model"
)

// SubscriptionPeriodRepository is the port for purchased subscription
// periods (the entitlement instances, not the plans).
type SubscriptionPeriodRepository interface {
	Save(ctx context.Context, tx Tx, s *model.SubscriptionPeriod) error
	// FindActiveByAccount returns the account's period with active=true, or
	// ErrNotFound. Expiry is NOT filtered here: callers evaluate coverage
	// against their own `now`.
	FindActiveByAccount(ctx context.Context, tx Tx, accountID string) (*model.SubscriptionPeriod, error)
	// DeactivateByAccount clears active=true on every period of the account.
	DeactivateByAccount(ctx context.Context, tx Tx, accountID string) error
	ListByAccount(ctx context.Context, tx Tx, accountID string) ([]*model.SubscriptionPeriod, error)
}
