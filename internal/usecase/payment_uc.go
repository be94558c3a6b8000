package usecase

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"
	"servihub/internal/infra/logging"
	"servihub/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentUseCase handles externally-paid top-up claims and their
// admin-mediated approval or rejection.
type PaymentUseCase interface {
	// Submit records a pending top-up claim. No balance effect until approval.
	Submit(ctx context.Context, accountID, channelID, transactionID string, amount int64) (*model.Payment, error)
	// Approve credits the owning account by the payment amount, exactly once.
	Approve(ctx context.Context, paymentID string) error
	// Reject records the reason; no balance effect.
	Reject(ctx context.Context, paymentID, reason string) error
	ListByAccount(ctx context.Context, accountID string) ([]*model.Payment, error)
	ListAll(ctx context.Context) ([]*model.Payment, error)
}

type paymentUC struct {
	payments repository.PaymentRepository
	channels repository.PaymentChannelRepository
	accounts repository.AccountRepository
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	channels repository.PaymentChannelRepository,
	accounts repository.AccountRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{
		payments: payments,
		channels: channels,
		accounts: accounts,
		tm:       tm,
		log:      logger,
	}
}

func (u *paymentUC) Submit(ctx context.Context, accountID, channelID, transactionID string, amount int64) (*model.Payment, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.Submit")()

	ch, err := u.channels.FindByID(ctx, repository.NoTX, channelID)
	if err != nil {
		return nil, err
	}
	if !ch.Active {
		return nil, domain.ErrNotFound
	}

	// The same external transfer must never be credited twice, regardless of
	// which account claims it. The unique constraint on transaction_id is the
	// backstop for races between this check and Save.
	existing, err := u.payments.FindByTransactionID(ctx, repository.NoTX, transactionID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	if amount <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	p, err := model.NewPayment("", accountID, channelID, transactionID, amount)
	if err != nil {
		return nil, err
	}
	if err := u.payments.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}

	metrics.IncPayment(string(model.PaymentStatusPending))
	u.log.Info().
		Str("account_id", accountID).
		Str("channel", ch.Name).
		Str("transaction_id", transactionID).
		Int64("amount", amount).
		Msg("payment submitted")
	return p, nil
}

func (u *paymentUC) Approve(ctx context.Context, paymentID string) error {
	defer logging.TraceDuration(u.log, "PaymentUC.Approve")()

	var credited int64
	// Status guard and credit are serialized behind the payment row lock:
	// two concurrent approvals cannot both see "pending".
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if p.Status != model.PaymentStatusPending {
			return domain.ErrInvalidState
		}
		if err := u.payments.UpdateStatus(ctx, tx, p.ID, model.PaymentStatusApproved, nil); err != nil {
			return err
		}
		if err := u.accounts.CreditBalance(ctx, tx, p.AccountID, p.Amount); err != nil {
			return err
		}
		credited = p.Amount
		return nil
	})
	if err != nil {
		return err
	}

	metrics.IncPayment(string(model.PaymentStatusApproved))
	metrics.AddApprovedAmount(credited)
	u.log.Info().Str("payment_id", paymentID).Int64("amount", credited).Msg("payment approved")
	return nil
}

func (u *paymentUC) Reject(ctx context.Context, paymentID, reason string) error {
	defer logging.TraceDuration(u.log, "PaymentUC.Reject")()

	if reason == "" {
		return domain.ErrInvalidArgument
	}

	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if p.Status != model.PaymentStatusPending {
			return domain.ErrInvalidState
		}
		return u.payments.UpdateStatus(ctx, tx, p.ID, model.PaymentStatusRejected, &reason)
	})
	if err != nil {
		return err
	}

	metrics.IncPayment(string(model.PaymentStatusRejected))
	u.log.Info().Str("payment_id", paymentID).Str("reason", reason).Msg("payment rejected")
	return nil
}

func (u *paymentUC) ListByAccount(ctx context.Context, accountID string) ([]*model.Payment, error) {
	return u.payments.ListByAccount(ctx, repository.NoTX, accountID)
}

func (u *paymentUC) ListAll(ctx context.Context) ([]*model.Payment, error) {
	return u.payments.ListAll(ctx, repository.NoTX)
}
