package expense_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shankh/internal/expense"
	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

func setup(t *testing.T) (*expense.Service, *expense.MockRepository, *expense.MockTx, *expense.MockRecomputer) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := expense.NewMockRepository(ctrl)
	tx := expense.NewMockTx(ctrl)
	engine := expense.NewMockRecomputer(ctrl)

	tx.EXPECT().Rollback().Return(nil).AnyTimes()
	tx.EXPECT().Queries().Return(nil).AnyTimes()

	return expense.NewService(repo, engine, lock.NewLocal(nil)), repo, tx, engine
}

func TestService_Create(t *testing.T) {
	svc, repo, tx, engine := setup(t)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *expense.Expense) error {
			e.ID = 3
			return nil
		})
	engine.EXPECT().
		Apply(gomock.Any(), gomock.Any(), recompute.Change{Entity: recompute.EntityExpense, Op: recompute.OpCreate, ID: 3, LotID: 9}).
		Return(nil)
	tx.EXPECT().Commit().Return(nil)

	got, err := svc.Create(context.Background(), expense.CreateParams{
		LotID:       9,
		ExpenseType: "Transport",
		Amount:      decimal.NewFromInt(20),
		ExpenseDate: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
}

func TestService_Update_SameLot(t *testing.T) {
	svc, repo, tx, engine := setup(t)

	repo.EXPECT().Get(gomock.Any(), int64(3)).Return(&expense.Expense{ID: 3, LotID: 9}, nil)
	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	engine.EXPECT().
		Apply(gomock.Any(), gomock.Any(), recompute.Change{
			Entity: recompute.EntityExpense, Op: recompute.OpUpdate, ID: 3, LotID: 9, PrevLotID: 9,
		}).
		Return(nil)
	tx.EXPECT().Commit().Return(nil)

	require.NoError(t, svc.Update(context.Background(), &expense.Expense{ID: 3, LotID: 9, Amount: decimal.NewFromInt(25)}))
}

func TestService_Delete_CommitError(t *testing.T) {
	svc, repo, tx, engine := setup(t)

	repo.EXPECT().Get(gomock.Any(), int64(3)).Return(&expense.Expense{ID: 3, LotID: 9}, nil)
	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil)
	engine.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(assert.AnError)

	err := svc.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, assert.AnError)
}
