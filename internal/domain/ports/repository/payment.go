package repository

import (
	"context"

	"servihub/internal/domain/model"
)

// -----------------------------
// Payments
// -----------------------------

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	// FindByID locks the row (FOR UPDATE) when called inside a transaction,
	// serializing concurrent approve/reject against the same payment.
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	FindByTransactionID(ctx context.Context, tx Tx, transactionID string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.PaymentStatus, rejectReason *string) error
	ListByAccount(ctx context.Context, tx Tx, accountID string) ([]*model.Payment, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Payment, error)
	// CountByChannel guards channel deletion.
	CountByChannel(ctx context.Context, tx Tx, channelID string) (int, error)
}
