package model

import (
	"strings"
	"time"

	"servihub/internal/domain"

	"github.com/google/uuid"
)

// Admin is a back-office operator. Admins approve payments and manage
// the catalog; they carry no balance.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

func NewAdmin(id, email, passwordHash string) (*Admin, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if email == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Admin{
		ID:           id,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now(),
	}, nil
}

func (a *Admin) IsZero() bool { return a == nil || a.ID == "" }
