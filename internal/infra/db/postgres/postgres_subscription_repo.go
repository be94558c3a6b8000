package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"
)

var _ repository.SubscriptionPeriodRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.SubscriptionPeriod) error {
	const q = `
INSERT INTO subscription_periods (id, account_id, plan_id, start_at, end_at, active)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET start_at=$4, end_at=$5, active=$6;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.AccountID, s.PlanID, s.StartAt, s.EndAt, s.Active)
	return err
}

func (r *subscriptionRepo) FindActiveByAccount(ctx context.Context, tx repository.Tx, accountID string) (*model.SubscriptionPeriod, error) {
	q := `
SELECT id, account_id, plan_id, start_at, end_at, active
FROM subscription_periods WHERE account_id=$1 AND active ORDER BY start_at DESC LIMIT 1`
	if inTx(tx) {
		q += " FOR UPDATE"
	}

	row, err := pickRow(ctx, r.pool, tx, q, accountID)
	if err != nil {
		return nil, err
	}
	var s model.SubscriptionPeriod
	if err := row.Scan(&s.ID, &s.AccountID, &s.PlanID, &s.StartAt, &s.EndAt, &s.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *subscriptionRepo) DeactivateByAccount(ctx context.Context, tx repository.Tx, accountID string) error {
	const q = `UPDATE subscription_periods SET active=FALSE WHERE account_id=$1 AND active;`
	_, err := execSQL(ctx, r.pool, tx, q, accountID)
	return err
}

func (r *subscriptionRepo) ListByAccount(ctx context.Context, tx repository.Tx, accountID string) ([]*model.SubscriptionPeriod, error) {
	const q = `
SELECT id, account_id, plan_id, start_at, end_at, active
FROM subscription_periods WHERE account_id=$1 ORDER BY start_at DESC;`

	rows, err := queryRows(ctx, r.pool, tx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SubscriptionPeriod
	for rows.Next() {
		var s model.SubscriptionPeriod
		if err := rows.Scan(&s.ID, &s.AccountID, &s.PlanID, &s.StartAt, &s.EndAt, &s.Active); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
