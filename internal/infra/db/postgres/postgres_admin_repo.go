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

var _ repository.AdminRepository = (*adminRepo)(nil)

type adminRepo struct {
	pool *pgxpool.Pool
}

func NewAdminRepo(pool *pgxpool.Pool) *adminRepo {
	return &adminRepo{pool: pool}
}

func (r *adminRepo) Save(ctx context.Context, tx repository.Tx, a *model.Admin) error {
	const q = `
INSERT INTO admins (id, email, password_hash, active, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET email=$2, password_hash=$3, active=$4;`

	_, err := execSQL(ctx, r.pool, tx, q, a.ID, a.Email, a.PasswordHash, a.Active, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *adminRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Admin, error) {
	const q = `SELECT id, email, password_hash, active, created_at FROM admins WHERE id=$1;`
	return r.queryOne(ctx, tx, q, id)
}

func (r *adminRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Admin, error) {
	const q = `SELECT id, email, password_hash, active, created_at FROM admins WHERE email=$1;`
	return r.queryOne(ctx, tx, q, email)
}

func (r *adminRepo) queryOne(ctx context.Context, tx repository.Tx, q string, args ...interface{}) (*model.Admin, error) {
	row, err := pickRow(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	var a model.Admin
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Active, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
