package ledger_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shankh/internal/ledger"
	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

var fixedNow = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }

func TestService_Create(t *testing.T) {
	type testCase struct {
		name        string
		taken       bool
		wantInvoice *regexp.Regexp
	}

	tests := []testCase{
		{name: "FreshInvoiceNumber", wantInvoice: regexp.MustCompile(`^INV-4-2024$`)},
		{name: "CollisionGetsSuffix", taken: true, wantInvoice: regexp.MustCompile(`^INV-4-2024-[0-9A-F]{8}$`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := ledger.NewMockRepository(ctrl)
			tx := ledger.NewMockTx(ctrl)
			engine := ledger.NewMockRecomputer(ctrl)

			var stored *ledger.Payment

			repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
			tx.EXPECT().Rollback().Return(nil).AnyTimes()
			tx.EXPECT().Queries().Return(nil).AnyTimes()
			tx.EXPECT().InvoiceExists(gomock.Any(), "INV-4-2024").Return(tt.taken, nil)
			tx.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, p *ledger.Payment) error {
					assert.Regexp(t, tt.wantInvoice, p.InvoiceNumber)
					assert.False(t, p.TotalDue.Valid)
					p.ID = 21
					stored = p
					return nil
				})
			engine.EXPECT().
				Apply(gomock.Any(), gomock.Any(), recompute.Change{Entity: recompute.EntityPayment, Op: recompute.OpCreate, ID: 21, LotID: 4}).
				Return(nil)
			tx.EXPECT().Get(gomock.Any(), int64(21)).DoAndReturn(func(context.Context, int64) (*ledger.Payment, error) {
				fresh := *stored
				fresh.TotalDue = decimal.NewNullDecimal(decimal.NewFromInt(500))
				fresh.BalanceRemaining = decimal.NewNullDecimal(decimal.NewFromInt(300))
				fresh.Status = ledger.StatusPartial

				return &fresh, nil
			})
			tx.EXPECT().Commit().Return(nil)

			svc := ledger.NewService(repo, engine, lock.NewLocal(nil), ledger.WithClock(fixedNow))

			got, err := svc.Create(context.Background(), ledger.CreateParams{
				LotID:       4,
				ClientID:    2,
				PaymentDate: fixedNow(),
				AmountPaid:  decimal.NewFromInt(200),
			})
			require.NoError(t, err)

			assert.Equal(t, ledger.StatusPartial, got.Status)
			assert.Equal(t, "300", got.BalanceRemaining.Decimal.String())
			assert.Regexp(t, tt.wantInvoice, got.InvoiceNumber)
		})
	}
}

func TestService_Update_KeepsExplicitTotalDue(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)
	engine := ledger.NewMockRecomputer(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback().Return(nil).AnyTimes()
	tx.EXPECT().Queries().Return(nil).AnyTimes()
	tx.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *ledger.Payment) error {
			assert.Equal(t, "750", p.TotalDue.Decimal.String())
			return nil
		})
	engine.EXPECT().
		Apply(gomock.Any(), gomock.Any(), recompute.Change{Entity: recompute.EntityPayment, Op: recompute.OpUpdate, ID: 21, LotID: 4}).
		Return(nil)
	tx.EXPECT().Get(gomock.Any(), int64(21)).Return(&ledger.Payment{ID: 21, LotID: 4, Status: ledger.StatusPaid}, nil)
	tx.EXPECT().Commit().Return(nil)

	p := &ledger.Payment{ID: 21, LotID: 4, TotalDue: decimal.NewNullDecimal(decimal.NewFromInt(750))}

	svc := ledger.NewService(repo, engine, lock.NewLocal(nil))
	require.NoError(t, svc.Update(context.Background(), p))
	assert.Equal(t, ledger.StatusPaid, p.Status)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)
	engine := ledger.NewMockRecomputer(ctrl)

	repo.EXPECT().Get(gomock.Any(), int64(21)).Return(&ledger.Payment{ID: 21, LotID: 4}, nil)
	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback().Return(nil).AnyTimes()
	tx.EXPECT().Queries().Return(nil).AnyTimes()
	tx.EXPECT().Delete(gomock.Any(), int64(21)).Return(nil)
	engine.EXPECT().
		Apply(gomock.Any(), gomock.Any(), recompute.Change{Entity: recompute.EntityPayment, Op: recompute.OpDelete, ID: 21, LotID: 4}).
		Return(nil)
	tx.EXPECT().Commit().Return(nil)

	svc := ledger.NewService(repo, engine, lock.NewLocal(nil))
	require.NoError(t, svc.Delete(context.Background(), 21))
}
