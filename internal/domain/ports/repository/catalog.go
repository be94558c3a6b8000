package repository

import (
	"context"

	"servihub/internal/domain/model"
)

// ServiceRepository is the port for the consumable-service catalog.
type ServiceRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Service) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Service, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Service, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.Service, error)
}

// UsageRepository stores the immutable service-usage facts.
type UsageRepository interface {
	Save(ctx context.Context, tx Tx, u *model.ServiceUsage) error
	ListByAccount(ctx context.Context, tx Tx, accountID string) ([]*model.ServiceUsage, error)
}

// SubscriptionPlanRepository is the port for purchasable plans.
type SubscriptionPlanRepository interface {
	Save(ctx context.Context, tx Tx, p *model.SubscriptionPlan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.SubscriptionPlan, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.SubscriptionPlan, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.SubscriptionPlan, error)
}

// PaymentChannelRepository is the port for external transfer channels.
type PaymentChannelRepository interface {
	Save(ctx context.Context, tx Tx, c *model.PaymentChannel) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PaymentChannel, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.PaymentChannel, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.PaymentChannel, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
