package model

import (
	"time"

	"servihub/internal/domain"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"  // awaiting admin review
	PaymentStatusApproved PaymentStatus = "approved" // credited to the account; terminal
	PaymentStatusRejected PaymentStatus = "rejected" // reason recorded, no balance effect; terminal
)

// PaymentChannel is an external transfer medium (bKash, Nagad, ...). A
// channel cannot be deleted while payments reference it.
type PaymentChannel struct {
	ID     string
	Name   string
	Active bool
}

func NewPaymentChannel(id, name string) (*PaymentChannel, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &PaymentChannel{ID: id, Name: name, Active: true}, nil
}

// Payment records a top-up claim for money transferred outside the system.
// TransactionID is the externally-sourced reference and is unique across all
// accounts. Amount is in poisha.
type Payment struct {
	ID            string
	AccountID     string
	ChannelID     string
	TransactionID string
	Amount        int64
	Status        PaymentStatus
	RejectReason  *string
	CreatedAt     time.Time
}

// NewPayment constructs a pending payment. Payments are only ever created
// pending; approval and rejection are the sole transitions out.
func NewPayment(id, accountID, channelID, transactionID string, amount int64) (*Payment, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if accountID == "" || channelID == "" || transactionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if amount <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Payment{
		ID:            id,
		AccountID:     accountID,
		ChannelID:     channelID,
		TransactionID: transactionID,
		Amount:        amount,
		Status:        PaymentStatusPending,
		CreatedAt:     time.Now(),
	}, nil
}
