package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"
)

// Compile-time check
var _ CatalogUseCase = (*catalogUC)(nil)

// CatalogUseCase is the admin-side management of services, plans and payment
// channels. Name uniqueness is enforced by the store; repositories surface
// violations as ErrConflict.
type CatalogUseCase interface {
	CreateService(ctx context.Context, name string) (*model.Service, error)
	ToggleService(ctx context.Context, id string) (*model.Service, error)
	ListServices(ctx context.Context, activeOnly bool) ([]*model.Service, error)

	CreatePlan(ctx context.Context, name string, durationDays int, price int64) (*model.SubscriptionPlan, error)
	TogglePlan(ctx context.Context, id string) (*model.SubscriptionPlan, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]*model.SubscriptionPlan, error)

	CreateChannel(ctx context.Context, name string) (*model.PaymentChannel, error)
	UpdateChannel(ctx context.Context, id string, name *string, active *bool) (*model.PaymentChannel, error)
	DeleteChannel(ctx context.Context, id string) error
	ListChannels(ctx context.Context, activeOnly bool) ([]*model.PaymentChannel, error)
}

type catalogUC struct {
	services repository.ServiceRepository
	plans    repository.SubscriptionPlanRepository
	channels repository.PaymentChannelRepository
	payments repository.PaymentRepository
	log      *zerolog.Logger
}

func NewCatalogUseCase(
	services repository.ServiceRepository,
	plans repository.SubscriptionPlanRepository,
	channels repository.PaymentChannelRepository,
	payments repository.PaymentRepository,
	logger *zerolog.Logger,
) *catalogUC {
	return &catalogUC{
		services: services,
		plans:    plans,
		channels: channels,
		payments: payments,
		log:      logger,
	}
}

func (u *catalogUC) CreateService(ctx context.Context, name string) (*model.Service, error) {
	svc, err := model.NewService("", name)
	if err != nil {
		return nil, err
	}
	if err := u.services.Save(ctx, repository.NoTX, svc); err != nil {
		return nil, err
	}
	u.log.Info().Str("service_id", svc.ID).Str("name", name).Msg("service created")
	return svc, nil
}

func (u *catalogUC) ToggleService(ctx context.Context, id string) (*model.Service, error) {
	svc, err := u.services.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	svc.Active = !svc.Active
	if err := u.services.Save(ctx, repository.NoTX, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (u *catalogUC) ListServices(ctx context.Context, activeOnly bool) ([]*model.Service, error) {
	if activeOnly {
		return u.services.ListActive(ctx, repository.NoTX)
	}
	return u.services.ListAll(ctx, repository.NoTX)
}

func (u *catalogUC) CreatePlan(ctx context.Context, name string, durationDays int, price int64) (*model.SubscriptionPlan, error) {
	plan, err := model.NewSubscriptionPlan("", name, durationDays, price)
	if err != nil {
		return nil, err
	}
	if err := u.plans.Save(ctx, repository.NoTX, plan); err != nil {
		return nil, err
	}
	u.log.Info().Str("plan_id", plan.ID).Str("name", name).Int64("price", price).Msg("plan created")
	return plan, nil
}

func (u *catalogUC) TogglePlan(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	plan, err := u.plans.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	plan.Active = !plan.Active
	if err := u.plans.Save(ctx, repository.NoTX, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (u *catalogUC) ListPlans(ctx context.Context, activeOnly bool) ([]*model.SubscriptionPlan, error) {
	if activeOnly {
		return u.plans.ListActive(ctx, repository.NoTX)
	}
	return u.plans.ListAll(ctx, repository.NoTX)
}

func (u *catalogUC) CreateChannel(ctx context.Context, name string) (*model.PaymentChannel, error) {
	ch, err := model.NewPaymentChannel("", name)
	if err != nil {
		return nil, err
	}
	if err := u.channels.Save(ctx, repository.NoTX, ch); err != nil {
		return nil, err
	}
	u.log.Info().Str("channel_id", ch.ID).Str("name", name).Msg("payment channel created")
	return ch, nil
}

func (u *catalogUC) UpdateChannel(ctx context.Context, id string, name *string, active *bool) (*model.PaymentChannel, error) {
	ch, err := u.channels.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		if *name == "" {
			return nil, domain.ErrInvalidArgument
		}
		ch.Name = *name
	}
	if active != nil {
		ch.Active = *active
	}
	if err := u.channels.Save(ctx, repository.NoTX, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (u *catalogUC) DeleteChannel(ctx context.Context, id string) error {
	if _, err := u.channels.FindByID(ctx, repository.NoTX, id); err != nil {
		return err
	}
	// Historical payments keep their channel reference forever.
	n, err := u.payments.CountByChannel(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	if err := u.channels.Delete(ctx, repository.NoTX, id); err != nil {
		return err
	}
	u.log.Info().Str("channel_id", id).Msg("payment channel deleted")
	return nil
}

func (u *catalogUC) ListChannels(ctx context.Context, activeOnly bool) ([]*model.PaymentChannel, error) {
	if activeOnly {
		return u.channels.ListActive(ctx, repository.NoTX)
	}
	return u.channels.ListAll(ctx, repository.NoTX)
}
