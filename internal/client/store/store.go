package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/shankh/internal/client"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `client_id, name, business_name, phone_number, shop_address, email, created_at, updated_at`

func scanClient(s scanner) (*client.Client, error) {
	var (
		c                               client.Client
		business, phone, address, email sql.NullString
	)

	if err := s.Scan(&c.ID, &c.Name, &business, &phone, &address, &email, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	c.BusinessName = business.String
	c.PhoneNumber = phone.String
	c.ShopAddress = address.String
	c.Email = email.String

	return &c, nil
}

func (s *Store) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO client (name, business_name, phone_number, shop_address, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING client_id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		nullString(c.BusinessName),
		nullString(c.PhoneNumber),
		nullString(c.ShopAddress),
		nullString(c.Email),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*client.Client, error) {
	c, err := scanClient(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM client WHERE client_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, client.ErrNotFound
		}

		return nil, fmt.Errorf("getting client: %w", err)
	}

	return c, nil
}

func (s *Store) List(ctx context.Context, filter client.ListFilter) ([]*client.Client, error) {
	query := `SELECT ` + selectColumns + ` FROM client`

	var args []any

	if filter.Search != "" {
		query += ` WHERE name ILIKE $1 OR business_name ILIKE $1 OR phone_number ILIKE $1 OR email ILIKE $1`

		args = append(args, "%"+filter.Search+"%")
	}

	query += ` ORDER BY client_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*client.Client

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}

		clients = append(clients, c)
	}

	return clients, rows.Err()
}

func (s *Store) Update(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE client
		SET name = $1, business_name = $2, phone_number = $3, shop_address = $4, email = $5, updated_at = NOW()
		WHERE client_id = $6
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		nullString(c.BusinessName),
		nullString(c.PhoneNumber),
		nullString(c.ShopAddress),
		nullString(c.Email),
		c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return client.ErrNotFound
		}

		return fmt.Errorf("updating client: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM client WHERE client_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return client.ErrNotFound
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
