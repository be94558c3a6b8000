package model

import (
	"time"

	"servihub/internal/domain"

	"github.com/google/uuid"
)

// SubscriptionPeriod is one purchased instance of a plan. At most one period
// per account has Active=true; buying a new plan deactivates the old period
// in the same transaction.
type SubscriptionPeriod struct {
	ID        string
	AccountID string
	PlanID    string
	StartAt   time.Time
	EndAt     time.Time
	Active    bool
}

// NewSubscriptionPeriod starts a period now and runs it for the plan's
// duration.
func NewSubscriptionPeriod(id, accountID string, plan *SubscriptionPlan) (*SubscriptionPeriod, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if accountID == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &SubscriptionPeriod{
		ID:        id,
		AccountID: accountID,
		PlanID:    plan.ID,
		StartAt:   now,
		EndAt:     now.Add(time.Duration(plan.DurationDays) * 24 * time.Hour),
		Active:    true,
	}, nil
}

// CoversAt reports whether the period entitles the account at t. The stored
// Active flag alone is not enough: expiry is evaluated live, never swept.
func (s *SubscriptionPeriod) CoversAt(t time.Time) bool {
	return s != nil && s.Active && !s.EndAt.Before(t)
}
