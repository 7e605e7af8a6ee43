package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/shankh/internal/worker"
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

const selectColumns = `worker_id, name, rate_per_hour, skill_type, created_at, updated_at`

func scanWorker(s scanner) (*worker.Worker, error) {
	var (
		w     worker.Worker
		skill sql.NullString
	)

	if err := s.Scan(&w.ID, &w.Name, &w.RatePerHour, &skill, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}

	w.SkillType = skill.String

	return &w, nil
}

func (s *Store) Create(ctx context.Context, w *worker.Worker) error {
	query := `
		INSERT INTO worker (name, rate_per_hour, skill_type)
		VALUES ($1, $2, $3)
		RETURNING worker_id, created_at, updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, w.Name, w.RatePerHour, w.SkillType).
		Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return fmt.Errorf("creating worker: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*worker.Worker, error) {
	w, err := scanWorker(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM worker WHERE worker_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, worker.ErrNotFound
		}

		return nil, fmt.Errorf("getting worker: %w", err)
	}

	return w, nil
}

func (s *Store) List(ctx context.Context, filter worker.ListFilter) ([]*worker.Worker, error) {
	query := `SELECT ` + selectColumns + ` FROM worker WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.SkillType != "" {
		query += fmt.Sprintf(" AND skill_type = $%d", argIdx)

		args = append(args, filter.SkillType)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%[1]d OR skill_type ILIKE $%[1]d)", argIdx)

		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing workers: %w", err)
	}
	defer rows.Close()

	var workers []*worker.Worker

	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning worker: %w", err)
		}

		workers = append(workers, w)
	}

	return workers, rows.Err()
}

func (s *Store) Update(ctx context.Context, w *worker.Worker) error {
	query := `
		UPDATE worker
		SET name = $1, rate_per_hour = $2, skill_type = $3, updated_at = NOW()
		WHERE worker_id = $4
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, w.Name, w.RatePerHour, w.SkillType, w.ID).Scan(&w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worker.ErrNotFound
		}

		return fmt.Errorf("updating worker: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM worker WHERE worker_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting worker: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return worker.ErrNotFound
	}

	return nil
}
