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

var _ repository.ServiceRepository = (*serviceRepo)(nil)

type serviceRepo struct {
	pool *pgxpool.Pool
}

func NewServiceRepo(pool *pgxpool.Pool) *serviceRepo {
	return &serviceRepo{pool: pool}
}

func (r *serviceRepo) Save(ctx context.Context, tx repository.Tx, s *model.Service) error {
	const q = `
INSERT INTO services (id, name, active)
VALUES ($1,$2,$3)
ON CONFLICT (id) DO UPDATE SET name=$2, active=$3;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.Name, s.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *serviceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Service, error) {
	const q = `SELECT id, name, active FROM services WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var s model.Service
	if err := row.Scan(&s.ID, &s.Name, &s.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Service, error) {
	return r.list(ctx, tx, `SELECT id, name, active FROM services ORDER BY name;`)
}

func (r *serviceRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Service, error) {
	return r.list(ctx, tx, `SELECT id, name, active FROM services WHERE active ORDER BY name;`)
}

func (r *serviceRepo) list(ctx context.Context, tx repository.Tx, q string) ([]*model.Service, error) {
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Active); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
