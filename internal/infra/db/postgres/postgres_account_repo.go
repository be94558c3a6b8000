package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"servihub/internal/domain"
	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"
)

var _ repository.AccountRepository = (*accountRepo)(nil)

type accountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *accountRepo {
	return &accountRepo{pool: pool}
}

const accountColumns = `id, name, email, phone_number, password_hash, current_address,
       balance, verification_token, verified, active, email_verified, phone_verified,
       created_at, updated_at`

func (r *accountRepo) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	const q = `
INSERT INTO accounts (
  id, name, email, phone_number, password_hash, current_address,
  balance, verification_token, verified, active, email_verified, phone_verified,
  created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id) DO UPDATE SET
  name=$2, email=$3, phone_number=$4, password_hash=$5, current_address=$6,
  balance=$7, verification_token=$8, verified=$9, active=$10,
  email_verified=$11, phone_verified=$12, updated_at=$14;`

	_, err := execSQL(ctx, r.pool, tx, q,
		a.ID, a.Name, a.Email, a.PhoneNumber, a.PasswordHash, a.CurrentAddress,
		a.Balance, a.VerificationToken, a.Verified, a.Active, a.EmailVerified, a.PhoneVerified,
		a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *accountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1`
	if inTx(tx) {
		q += " FOR UPDATE"
	}
	return r.queryOne(ctx, tx, q, id)
}

func (r *accountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE email=$1;`
	return r.queryOne(ctx, tx, q, email)
}

func (r *accountRepo) FindByVerificationToken(ctx context.Context, tx repository.Tx, token string) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE verification_token=$1;`
	return r.queryOne(ctx, tx, q, token)
}

func (r *accountRepo) UpdateBalance(ctx context.Context, tx repository.Tx, id string, balance int64) error {
	const q = `UPDATE accounts SET balance=$2, updated_at=NOW() WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, balance)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepo) CreditBalance(ctx context.Context, tx repository.Tx, id string, amount int64) error {
	const q = `UPDATE accounts SET balance = balance + $2, updated_at=NOW() WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC OFFSET $1 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM accounts;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func (r *accountRepo) queryOne(ctx context.Context, tx repository.Tx, q string, args ...interface{}) (*model.Account, error) {
	row, err := pickRow(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.PhoneNumber, &a.PasswordHash, &a.CurrentAddress,
		&a.Balance, &a.VerificationToken, &a.Verified, &a.Active, &a.EmailVerified, &a.PhoneVerified,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
