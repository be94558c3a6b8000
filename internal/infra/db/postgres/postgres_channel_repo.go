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

var _ repository.PaymentChannelRepository = (*channelRepo)(nil)

type channelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *channelRepo {
	return &channelRepo{pool: pool}
}

func (r *channelRepo) Save(ctx context.Context, tx repository.Tx, c *model.PaymentChannel) error {
	const q = `
INSERT INTO payment_channels (id, name, active)
VALUES ($1,$2,$3)
ON CONFLICT (id) DO UPDATE SET name=$2, active=$3;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Name, c.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *channelRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentChannel, error) {
	const q = `SELECT id, name, active FROM payment_channels WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var c model.PaymentChannel
	if err := row.Scan(&c.ID, &c.Name, &c.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *channelRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PaymentChannel, error) {
	return r.list(ctx, tx, `SELECT id, name, active FROM payment_channels ORDER BY name;`)
}

func (r *channelRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.PaymentChannel, error) {
	return r.list(ctx, tx, `SELECT id, name, active FROM payment_channels WHERE active ORDER BY name;`)
}

func (r *channelRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM payment_channels WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *channelRepo) list(ctx context.Context, tx repository.Tx, q string) ([]*model.PaymentChannel, error) {
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.PaymentChannel
	for rows.Next() {
		var c model.PaymentChannel
		if err := rows.Scan(&c.ID, &c.Name, &c.Active); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
