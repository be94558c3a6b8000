package model

import (
	"strings"
	"time"

	"servihub/internal/domain"

	"github.com/google/uuid"
)

// Account is a registered platform user. Balance is stored in poisha
// (integer BDT minor units) to avoid float errors.
//
// A freshly registered account is unverified, inactive and holds zero
// balance; only an admin flips Active/Verified, and only the ledger and
// payment approval mutate Balance.
type Account struct {
	ID             string
	Name           string
	Email          string
	PhoneNumber    string
	PasswordHash   string
	CurrentAddress string
	Balance        int64

	// VerificationToken is single-use; cleared when the email link is redeemed.
	VerificationToken *string

	Verified      bool
	Active        bool
	EmailVerified bool
	PhoneVerified bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount validates and constructs an account in its registration state.
func NewAccount(id, name, email, phone, passwordHash string) (*Account, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" || email == "" || phone == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Account{
		ID:           id,
		Name:         name,
		Email:        strings.ToLower(email),
		PhoneNumber:  phone,
		PasswordHash: passwordHash,
		Balance:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (a *Account) IsZero() bool { return a == nil || a.ID == "" }

func (a *Account) Touch() { a.UpdatedAt = time.Now() }
