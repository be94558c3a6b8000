package model

import (
	"time"

	"servihub/internal/domain"

	"github.com/google/uuid"
)

// Service is a catalog entry users can consume. Services are toggled, never
// deleted, because historical usage records reference them.
type Service struct {
	ID     string
	Name   string
	Active bool
}

func NewService(id, name string) (*Service, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Service{ID: id, Name: name, Active: true}, nil
}

// ServiceUsage is the immutable fact that an account consumed a service.
// Cost is the tariff charged at the time of use, in poisha; zero when the
// use was covered by an active subscription.
type ServiceUsage struct {
	ID        string
	AccountID string
	ServiceID string
	Cost      int64
	UsedAt    time.Time
}
