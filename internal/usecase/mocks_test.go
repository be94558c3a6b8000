package usecase

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mockTxManager runs the callback directly. The mutex serializes callers the
// way row locks would in Postgres, which the concurrency tests rely on.
type mockTxManager struct{ mu sync.Mutex }

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

// mockMailer records outgoing verification mails.
type mockMailer struct {
	mu      sync.Mutex
	sent    []string // tokens
	sendErr error
}

func (m *mockMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, token)
	return nil
}

// memAccountRepo is a small in-memory implementation used by unit tests.
type memAccountRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Account // by ID
	saveErr error
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{store: make(map[string]*model.Account)}
}

func (m *memAccountRepo) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *memAccountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.store {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAccountRepo) FindByVerificationToken(ctx context.Context, tx repository.Tx, token string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.store {
		if a.VerificationToken != nil && *a.VerificationToken == token {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAccountRepo) UpdateBalance(ctx context.Context, tx repository.Tx, id string, balance int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Balance = balance
	return nil
}

func (m *memAccountRepo) CreditBalance(ctx context.Context, tx repository.Tx, id string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Balance += amount
	return nil
}

func (m *memAccountRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Account
	for _, a := range m.store {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memAccountRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

type memAdminRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Admin
}

func newMemAdminRepo() *memAdminRepo { return &memAdminRepo{store: make(map[string]*model.Admin)} }

func (m *memAdminRepo) Save(ctx context.Context, tx repository.Tx, a *model.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *memAdminRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAdminRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.store {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memServiceRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Service
}

func newMemServiceRepo() *memServiceRepo {
	return &memServiceRepo{store: make(map[string]*model.Service)}
}

func (m *memServiceRepo) Save(ctx context.Context, tx repository.Tx, s *model.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.store {
		if other.Name == s.Name && other.ID != s.ID {
			return domain.ErrConflict
		}
	}
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *memServiceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memServiceRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Service
	for _, s := range m.store {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memServiceRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Service, error) {
	all, _ := m.ListAll(ctx, tx)
	var out []*model.Service
	for _, s := range all {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

type memUsageRepo struct {
	mu    sync.RWMutex
	store []*model.ServiceUsage
}

func newMemUsageRepo() *memUsageRepo { return &memUsageRepo{} }

func (m *memUsageRepo) Save(ctx context.Context, tx repository.Tx, u *model.ServiceUsage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store = append(m.store, &cp)
	return nil
}

func (m *memUsageRepo) ListByAccount(ctx context.Context, tx repository.Tx, accountID string) ([]*model.ServiceUsage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ServiceUsage
	for _, u := range m.store {
		if u.AccountID == accountID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memPlanRepo struct {
	mu    sync.RWMutex
	store map[string]*model.SubscriptionPlan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{store: make(map[string]*model.SubscriptionPlan)}
}

func (m *memPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.store {
		if other.Name == p.Name && other.ID != p.ID {
			return domain.ErrConflict
		}
	}
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.SubscriptionPlan
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPlanRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	all, _ := m.ListAll(ctx, tx)
	var out []*model.SubscriptionPlan
	for _, p := range all {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

type memPeriodRepo struct {
	mu    sync.RWMutex
	store map[string]*model.SubscriptionPeriod
}

func newMemPeriodRepo() *memPeriodRepo {
	return &memPeriodRepo{store: make(map[string]*model.SubscriptionPeriod)}
}

func (m *memPeriodRepo) Save(ctx context.Context, tx repository.Tx, s *model.SubscriptionPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *memPeriodRepo) FindActiveByAccount(ctx context.Context, tx repository.Tx, accountID string) (*model.SubscriptionPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.store {
		if s.AccountID == accountID && s.Active {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPeriodRepo) DeactivateByAccount(ctx context.Context, tx repository.Tx, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.store {
		if s.AccountID == accountID {
			s.Active = false
		}
	}
	return nil
}

func (m *memPeriodRepo) ListByAccount(ctx context.Context, tx repository.Tx, accountID string) ([]*model.SubscriptionPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.SubscriptionPeriod
	for _, s := range m.store {
		if s.AccountID == accountID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memChannelRepo struct {
	mu    sync.RWMutex
	store map[string]*model.PaymentChannel
}

func newMemChannelRepo() *memChannelRepo {
	return &memChannelRepo{store: make(map[string]*model.PaymentChannel)}
}

func (m *memChannelRepo) Save(ctx context.Context, tx repository.Tx, c *model.PaymentChannel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.store {
		if other.Name == c.Name && other.ID != c.ID {
			return domain.ErrConflict
		}
	}
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memChannelRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentChannel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memChannelRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PaymentChannel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.PaymentChannel
	for _, c := range m.store {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memChannelRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.PaymentChannel, error) {
	all, _ := m.ListAll(ctx, tx)
	var out []*model.PaymentChannel
	for _, c := range all {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memChannelRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

type memPaymentRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{store: make(map[string]*model.Payment)}
}

func (m *memPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.store {
		if other.TransactionID == p.TransactionID && other.ID != p.ID {
			return domain.ErrConflict
		}
	}
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) FindByTransactionID(ctx context.Context, tx repository.Tx, transactionID string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.TransactionID == transactionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPaymentRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, rejectReason *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	if rejectReason != nil {
		r := *rejectReason
		p.RejectReason = &r
	}
	return nil
}

func (m *memPaymentRepo) ListByAccount(ctx context.Context, tx repository.Tx, accountID string) ([]*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.AccountID == accountID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPaymentRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Payment
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPaymentRepo) CountByChannel(ctx context.Context, tx repository.Tx, channelID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, p := range m.store {
		if p.ChannelID == channelID {
			n++
		}
	}
	return n, nil
}
