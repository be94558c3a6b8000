package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"
	"servihub/internal/infra/logging"
	"servihub/internal/infra/metrics"
)

// Compile-time check
var _ LedgerUseCase = (*ledgerUC)(nil)

// LedgerUseCase is the account-balance and entitlement core. It decides
// whether a paid action is permitted, debits the balance and records the
// resulting usage or subscription-period fact.
type LedgerUseCase interface {
	// Consume charges the account for one use of a service, or charges
	// nothing when an active subscription covers it.
	Consume(ctx context.Context, accountID, serviceID string) (*model.ServiceUsage, error)
	// PurchaseSubscription debits the plan price and opens a new period,
	// deactivating any prior active period of the account.
	PurchaseSubscription(ctx context.Context, accountID, planID string) (*model.SubscriptionPeriod, error)
	UsageHistory(ctx context.Context, accountID string) ([]*model.ServiceUsage, error)
	SubscriptionHistory(ctx context.Context, accountID string) ([]*model.SubscriptionPeriod, error)
}

type ledgerUC struct {
	accounts repository.AccountRepository
	services repository.ServiceRepository
	usages   repository.UsageRepository
	plans    repository.SubscriptionPlanRepository
	periods  repository.SubscriptionPeriodRepository
	tm       repository.TransactionManager
	tariff   int64 // flat per-use charge, poisha
	log      *zerolog.Logger
}

func NewLedgerUseCase(
	accounts repository.AccountRepository,
	services repository.ServiceRepository,
	usages repository.UsageRepository,
	plans repository.SubscriptionPlanRepository,
	periods repository.SubscriptionPeriodRepository,
	tm repository.TransactionManager,
	tariff int64,
	logger *zerolog.Logger,
) *ledgerUC {
	return &ledgerUC{
		accounts: accounts,
		services: services,
		usages:   usages,
		plans:    plans,
		periods:  periods,
		tm:       tm,
		tariff:   tariff,
		log:      logger,
	}
}

func (u *ledgerUC) Consume(ctx context.Context, accountID, serviceID string) (*model.ServiceUsage, error) {
	defer logging.TraceDuration(u.log, "LedgerUC.Consume")()

	svc, err := u.services.FindByID(ctx, repository.NoTX, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, domain.ErrNotFound
	}

	var usage *model.ServiceUsage
	var covered bool
	// The balance check-and-debit and the usage insert are one atomic unit:
	// the account row is locked FOR UPDATE for the duration, so a concurrent
	// Consume for the same account cannot observe a stale balance.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err = u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		acc, err := u.accounts.FindByID(ctx, tx, accountID)
		if err != nil {
			return err
		}

		period, err := u.periods.FindActiveByAccount(ctx, tx, accountID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		cost := u.tariff
		covered = period.CoversAt(time.Now())
		if covered {
			cost = 0
		} else {
			if acc.Balance < cost {
				return &domain.InsufficientFundsError{Required: cost, Available: acc.Balance}
			}
			if err := u.accounts.UpdateBalance(ctx, tx, acc.ID, acc.Balance-cost); err != nil {
				return err
			}
		}

		usage = &model.ServiceUsage{
			ID:        newID(),
			AccountID: acc.ID,
			ServiceID: svc.ID,
			Cost:      cost,
			UsedAt:    time.Now(),
		}
		return u.usages.Save(ctx, tx, usage)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			metrics.IncInsufficientFunds()
			u.log.Debug().Str("account_id", accountID).Str("service_id", serviceID).Msg("consume blocked: low balance")
		}
		return nil, err
	}

	metrics.IncUsage(covered, usage.Cost)
	u.log.Info().
		Str("account_id", accountID).
		Str("service_id", serviceID).
		Int64("cost", usage.Cost).
		Bool("covered", covered).
		Msg("service consumed")
	return usage, nil
}

func (u *ledgerUC) PurchaseSubscription(ctx context.Context, accountID, planID string) (*model.SubscriptionPeriod, error) {
	defer logging.TraceDuration(u.log, "LedgerUC.PurchaseSubscription")()

	plan, err := u.plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, domain.ErrNotFound
	}

	var period *model.SubscriptionPeriod
	// Deactivate-old, debit and insert-new commit together; a failure in any
	// step rolls back all three.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err = u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		acc, err := u.accounts.FindByID(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if acc.Balance < plan.Price {
			return &domain.InsufficientFundsError{Required: plan.Price, Available: acc.Balance}
		}

		if err := u.periods.DeactivateByAccount(ctx, tx, acc.ID); err != nil {
			return err
		}
		if err := u.accounts.UpdateBalance(ctx, tx, acc.ID, acc.Balance-plan.Price); err != nil {
			return err
		}

		p, err := model.NewSubscriptionPeriod("", acc.ID, plan)
		if err != nil {
			return err
		}
		if err := u.periods.Save(ctx, tx, p); err != nil {
			return err
		}
		period = p
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			metrics.IncInsufficientFunds()
		}
		return nil, err
	}

	metrics.IncSubscriptionPurchase(plan.Name)
	u.log.Info().
		Str("account_id", accountID).
		Str("plan_id", planID).
		Int64("price", plan.Price).
		Time("end_at", period.EndAt).
		Msg("subscription purchased")
	return period, nil
}

func (u *ledgerUC) UsageHistory(ctx context.Context, accountID string) ([]*model.ServiceUsage, error) {
	return u.usages.ListByAccount(ctx, repository.NoTX, accountID)
}

func (u *ledgerUC) SubscriptionHistory(ctx context.Context, accountID string) ([]*model.SubscriptionPeriod, error) {
	return u.periods.ListByAccount(ctx, repository.NoTX, accountID)
}
