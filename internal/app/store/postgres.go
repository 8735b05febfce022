package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"relaybot/internal/app/db"
	"relaybot/internal/app/faq"
	"relaybot/internal/app/user"
)

const (
	findAdminsSQL = `SELECT id FROM users WHERE type = $1 ORDER BY id`
	findFAQsSQL   = `SELECT category, title, message FROM faqs ORDER BY category, title`
)

// PostgresDirectory reads the directory from PostgreSQL.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, migrates and returns a PostgresDirectory.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresDirectory, error) {
	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &PostgresDirectory{pool: pool}, nil
}

func (d *PostgresDirectory) FindAdmins(ctx context.Context) ([]user.ID, error) {
	rows, err := d.pool.Query(ctx, findAdminsSQL, adminType)
	if err != nil {
		return nil, fmt.Errorf("query admins: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan admins: %w", err)
	}

	out := make([]user.ID, len(ids))
	for i, id := range ids {
		out[i] = user.ID(id)
	}
	return out, nil
}

func (d *PostgresDirectory) FindFAQs(ctx context.Context) ([]faq.Entry, error) {
	rows, err := d.pool.Query(ctx, findFAQsSQL)
	if err != nil {
		return nil, fmt.Errorf("query faqs: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (faq.Entry, error) {
		var (
			category string
			e        faq.Entry
		)
		err := row.Scan(&category, &e.Title, &e.Body)
		e.Category = faq.Category(category)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan faqs: %w", err)
	}
	return entries, nil
}

func (d *PostgresDirectory) Close(context.Context) error {
	d.pool.Close()
	return nil
}
