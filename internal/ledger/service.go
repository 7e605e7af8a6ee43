package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	Get(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context, filter ListFilter) ([]*Payment, error)
	Begin(ctx context.Context) (Tx, error)
}

type Tx interface {
	Get(ctx context.Context, id int64) (*Payment, error)
	InvoiceExists(ctx context.Context, invoice string) (bool, error)
	Create(ctx context.Context, p *Payment) error
	Update(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id int64) error
	Queries() recompute.Queries
	Commit() error
	Rollback() error
}

type Recomputer interface {
	Apply(ctx context.Context, q recompute.Queries, c recompute.Change) error
}

type Option func(*Service)

// WithClock sets the clock used for the invoice year.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	repo   Repository
	engine Recomputer
	locker lock.Locker
	now    func() time.Time
}

func NewService(repo Repository, engine Recomputer, locker lock.Locker, opts ...Option) *Service {
	s := &Service{repo: repo, engine: engine, locker: locker, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type ListFilter struct {
	LotID    *int64
	ClientID *int64
	Status   *Status
	Search   string
}

type CreateParams struct {
	LotID         int64
	ClientID      int64
	PaymentDate   time.Time
	AmountPaid    decimal.Decimal
	PaymentMethod string
	Notes         string
	// TotalDue overrides the lot cost as the amount owed. Leave unset to take the lot's current cost.
	TotalDue decimal.NullDecimal
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Payment, error) {
	p := &Payment{
		LotID:         params.LotID,
		ClientID:      params.ClientID,
		PaymentDate:   params.PaymentDate,
		AmountPaid:    params.AmountPaid,
		PaymentMethod: params.PaymentMethod,
		Notes:         params.Notes,
		TotalDue:      params.TotalDue,
		Status:        StatusPending,
	}

	release, err := s.locker.Acquire(ctx, lock.LotKey(p.LotID))
	if err != nil {
		return nil, fmt.Errorf("locking lot: %w", err)
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin payment create: %w", err)
	}
	defer tx.Rollback()

	p.InvoiceNumber, err = s.invoiceNumber(ctx, tx, p.LotID)
	if err != nil {
		return nil, err
	}

	if err := tx.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.reconcile(ctx, tx, p, recompute.OpCreate); err != nil {
		return nil, err
	}

	return p, nil
}

// invoiceNumber returns INV-{lot}-{year}, with a short random suffix when that number is already taken.
func (s *Service) invoiceNumber(ctx context.Context, tx Tx, lotID int64) (string, error) {
	invoice := fmt.Sprintf("INV-%d-%d", lotID, s.now().Year())

	exists, err := tx.InvoiceExists(ctx, invoice)
	if err != nil {
		return "", fmt.Errorf("checking invoice number: %w", err)
	}

	if !exists {
		return invoice, nil
	}

	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	return invoice + "-" + suffix, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Payment, error) {
	return s.repo.List(ctx, filter)
}

// Update stores p and reconciles it. An explicit TotalDue on p is kept; other payments of the lot keep
// their stored balances until they are saved again.
func (s *Service) Update(ctx context.Context, p *Payment) error {
	release, err := s.locker.Acquire(ctx, lock.LotKey(p.LotID))
	if err != nil {
		return fmt.Errorf("locking lot: %w", err)
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin payment update: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Update(ctx, p); err != nil {
		return err
	}

	return s.reconcile(ctx, tx, p, recompute.OpUpdate)
}

// Delete removes the payment without reconciling the lot's remaining payments.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	release, err := s.locker.Acquire(ctx, lock.LotKey(existing.LotID))
	if err != nil {
		return fmt.Errorf("locking lot: %w", err)
	}
	defer release()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin payment delete: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Delete(ctx, id); err != nil {
		return err
	}

	change := recompute.Change{Entity: recompute.EntityPayment, Op: recompute.OpDelete, ID: id, LotID: existing.LotID}
	if err := s.engine.Apply(ctx, tx.Queries(), change); err != nil {
		return fmt.Errorf("recompute after payment delete: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment delete: %w", err)
	}

	return nil
}

func (s *Service) reconcile(ctx context.Context, tx Tx, p *Payment, op recompute.Op) error {
	change := recompute.Change{Entity: recompute.EntityPayment, Op: op, ID: p.ID, LotID: p.LotID}
	if err := s.engine.Apply(ctx, tx.Queries(), change); err != nil {
		return fmt.Errorf("reconcile payment %d: %w", p.ID, err)
	}

	fresh, err := tx.Get(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("reload payment: %w", err)
	}

	*p = *fresh

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment %s: %w", op, err)
	}

	return nil
}
