package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/hazard-notifier/internal/domain"
)

const (
	respondersQuery = `
select id, push_token, latitude, longitude
from responders`

	usersQuery = `
select id, push_token, latitude, longitude
from users`
)

// recipientRow is one row of either recipient table. Every column but id is nullable.
type recipientRow struct {
	ID        string   `db:"id"`
	PushToken *string  `db:"push_token"`
	Latitude  *float64 `db:"latitude"`
	Longitude *float64 `db:"longitude"`
}

// Connect opens and pings a Postgres connection pool.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// Directory enumerates recipients from the responders and users tables.
type Directory struct {
	db *sqlx.DB
}

func NewDirectory(db *sqlx.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) ListResponders(ctx context.Context) ([]domain.Recipient, error) {
	return d.list(ctx, "responders", respondersQuery)
}

func (d *Directory) ListUsers(ctx context.Context) ([]domain.Recipient, error) {
	return d.list(ctx, "users", usersQuery)
}

func (d *Directory) list(ctx context.Context, table, query string) ([]domain.Recipient, error) {
	var rows []recipientRow
	if err := d.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	out := make([]domain.Recipient, len(rows))
	for i, row := range rows {
		out[i] = row.toRecipient()
	}
	return out, nil
}

func (row recipientRow) toRecipient() domain.Recipient {
	r := domain.Recipient{ID: row.ID}
	if row.PushToken != nil {
		r.PushToken = *row.PushToken
	}
	if row.Latitude != nil && row.Longitude != nil {
		r.Location = &domain.GeoPoint{Latitude: *row.Latitude, Longitude: *row.Longitude}
	}
	return r
}
