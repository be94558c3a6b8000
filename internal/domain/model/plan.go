package model

import (
	"time"

	"servihub/internal/domain"

	"github.com/google/uuid"
)

// SubscriptionPlan is a purchasable plan with a fixed duration and a price
// in poisha. Inactive plans stay in the catalog but cannot be bought.
type SubscriptionPlan struct {
	ID           string
	Name         string
	DurationDays int
	Price        int64
	Active       bool
	CreatedAt    time.Time
}

func (p *SubscriptionPlan) IsZero() bool { return p == nil || p.ID == "" }

// NewSubscriptionPlan validates and constructs a plan.
func NewSubscriptionPlan(id, name string, durationDays int, price int64) (*SubscriptionPlan, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" || durationDays <= 0 || price < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &SubscriptionPlan{
		ID:           id,
		Name:         name,
		DurationDays: durationDays,
		Price:        price,
		Active:       true,
		CreatedAt:    time.Now(),
	}, nil
}
