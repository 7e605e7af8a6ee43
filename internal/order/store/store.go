package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/shankh/internal/order"
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

const selectColumns = `
	order_id, client_id, design_description, num_units, deadline, color, material_type,
	order_status, total_estimated_cost, created_at, updated_at
`

func scanOrder(s scanner) (*order.Order, error) {
	var (
		o                       order.Order
		design, color, material sql.NullString
		status                  string
	)

	if err := s.Scan(
		&o.ID, &o.ClientID, &design, &o.NumUnits, &o.Deadline, &color, &material,
		&status, &o.TotalEstimatedCost, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	o.DesignDescription = design.String
	o.Color = color.String
	o.MaterialType = material.String
	o.Status = order.Status(status)

	return &o, nil
}

func (s *Store) Create(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO client_orders (client_id, design_description, num_units, deadline, color, material_type, order_status, total_estimated_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING order_id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		o.ClientID,
		o.DesignDescription,
		o.NumUnits,
		o.Deadline,
		o.Color,
		o.MaterialType,
		o.Status,
		o.TotalEstimatedCost,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating order: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*order.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM client_orders WHERE order_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting order: %w", err)
	}

	return o, nil
}

func (s *Store) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	query := `SELECT ` + selectColumns + ` FROM client_orders WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argIdx)

		args = append(args, *filter.ClientID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND order_status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (design_description ILIKE $%[1]d OR color ILIKE $%[1]d OR material_type ILIKE $%[1]d)", argIdx)

		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY deadline ASC, order_id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (s *Store) Update(ctx context.Context, o *order.Order) error {
	query := `
		UPDATE client_orders
		SET client_id = $1, design_description = $2, num_units = $3, deadline = $4, color = $5,
		    material_type = $6, order_status = $7, total_estimated_cost = $8, updated_at = NOW()
		WHERE order_id = $9
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		o.ClientID,
		o.DesignDescription,
		o.NumUnits,
		o.Deadline,
		o.Color,
		o.MaterialType,
		o.Status,
		o.TotalEstimatedCost,
		o.ID,
	).Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return order.ErrNotFound
		}

		return fmt.Errorf("updating order: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM client_orders WHERE order_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return order.ErrNotFound
	}

	return nil
}
