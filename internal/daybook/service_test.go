package daybook_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shankh/internal/daybook"
	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

type fixture struct {
	svc    *daybook.Service
	repo   *daybook.MockRepository
	tx     *daybook.MockTx
	engine *daybook.MockRecomputer
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		repo:   daybook.NewMockRepository(ctrl),
		tx:     daybook.NewMockTx(ctrl),
		engine: daybook.NewMockRecomputer(ctrl),
	}

	f.tx.EXPECT().Rollback().Return(nil).AnyTimes()
	f.tx.EXPECT().Queries().Return(nil).AnyTimes()
	f.svc = daybook.NewService(f.repo, f.engine, lock.NewLocal(nil))

	return f
}

func TestService_CreateBatch_ChainsInOrder(t *testing.T) {
	f := newFixture(t)

	balances := map[int64]string{1: "100", 2: "70", 3: "120"}
	nextID := int64(0)

	f.repo.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	f.tx.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *daybook.Entry) error {
			nextID++
			e.ID = nextID
			return nil
		}).
		Times(3)

	gomock.InOrder(
		f.engine.EXPECT().Apply(gomock.Any(), gomock.Any(), recompute.Change{Entity: recompute.EntityDaybook, Op: recompute.OpCreate, ID: 1}).Return(nil),
		f.engine.EXPECT().Apply(gomock.Any(), gomock.Any(), recompute.Change{Entity: recompute.EntityDaybook, Op: recompute.OpCreate, ID: 2}).Return(nil),
		f.engine.EXPECT().Apply(gomock.Any(), gomock.Any(), recompute.Change{Entity: recompute.EntityDaybook, Op: recompute.OpCreate, ID: 3}).Return(nil),
	)

	f.tx.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64) (*daybook.Entry, error) {
			return &daybook.Entry{ID: id, BalanceAfter: decimal.NewNullDecimal(decimal.RequireFromString(balances[id]))}, nil
		}).
		Times(3)
	f.tx.EXPECT().Commit().Return(nil)

	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	got, err := f.svc.CreateBatch(context.Background(), []daybook.CreateParams{
		{Date: day, Type: daybook.TypeCredit, Amount: decimal.NewFromInt(100)},
		{Date: day, Type: daybook.TypeDebit, Amount: decimal.NewFromInt(30)},
		{Date: day, Type: daybook.TypeCredit, Amount: decimal.NewFromInt(50)},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	for _, e := range got {
		assert.Equal(t, balances[e.ID], e.BalanceAfter.Decimal.String())
	}
}

func TestService_CreateBatch_FailureCommitsNothing(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	f.tx.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.engine.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("deadlock detected"))

	_, err := f.svc.CreateBatch(context.Background(), []daybook.CreateParams{
		{Type: daybook.TypeCredit, Amount: decimal.NewFromInt(1)},
		{Type: daybook.TypeCredit, Amount: decimal.NewFromInt(2)},
	})
	assert.ErrorContains(t, err, "deadlock detected")
}

func TestService_CreateBatch_Empty(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_Update_OnlyTouchesOwnRow(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	f.tx.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	f.engine.EXPECT().
		Apply(gomock.Any(), gomock.Any(), recompute.Change{Entity: recompute.EntityDaybook, Op: recompute.OpUpdate, ID: 1}).
		Return(nil)
	f.tx.EXPECT().Get(gomock.Any(), int64(1)).Return(&daybook.Entry{ID: 1}, nil)
	f.tx.EXPECT().Commit().Return(nil)

	require.NoError(t, f.svc.Update(context.Background(), &daybook.Entry{ID: 1, Type: daybook.TypeCredit, Amount: decimal.NewFromInt(200)}))
}

func TestService_Rechain(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	f.engine.EXPECT().RechainDaybook(gomock.Any(), gomock.Any(), int64(2)).Return(2, nil)
	f.tx.EXPECT().Commit().Return(nil)

	n, err := f.svc.Rechain(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestService_Delete_NotFound(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	f.tx.EXPECT().Delete(gomock.Any(), int64(9)).Return(daybook.ErrNotFound)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), 9), daybook.ErrNotFound)
}
