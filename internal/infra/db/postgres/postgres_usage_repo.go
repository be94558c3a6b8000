package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"
)

var _ repository.UsageRepository = (*usageRepo)(nil)

type usageRepo struct {
	pool *pgxpool.Pool
}

func NewUsageRepo(pool *pgxpool.Pool) *usageRepo {
	return &usageRepo{pool: pool}
}

func (r *usageRepo) Save(ctx context.Context, tx repository.Tx, u *model.ServiceUsage) error {
	const q = `
INSERT INTO service_usages (id, account_id, service_id, cost, used_at)
VALUES ($1,$2,$3,$4,$5);`

	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.AccountID, u.ServiceID, u.Cost, u.UsedAt)
	return err
}

func (r *usageRepo) ListByAccount(ctx context.Context, tx repository.Tx, accountID string) ([]*model.ServiceUsage, error) {
	const q = `
SELECT id, account_id, service_id, cost, used_at
FROM service_usages WHERE account_id=$1 ORDER BY used_at DESC;`

	rows, err := queryRows(ctx, r.pool, tx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ServiceUsage
	for rows.Next() {
		var u model.ServiceUsage
		if err := rows.Scan(&u.ID, &u.AccountID, &u.ServiceID, &u.Cost, &u.UsedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}
