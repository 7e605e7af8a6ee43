package lot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/lot"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

type mocks struct {
	repo   *lot.MockRepository
	tx     *lot.MockTx
	engine *lot.MockRecomputer
}

func newService(t *testing.T) (*lot.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:   lot.NewMockRepository(ctrl),
		tx:     lot.NewMockTx(ctrl),
		engine: lot.NewMockRecomputer(ctrl),
	}

	m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
	m.tx.EXPECT().Queries().Return(nil).AnyTimes()

	return lot.NewService(m.repo, m.engine, lock.NewLocal(nil)), m
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m mocks)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m mocks) {
				m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, l *lot.Lot) error {
						assert.Equal(t, lot.StatusPending, l.Status)
						l.ID = 12
						return nil
					})
				m.engine.EXPECT().
					Apply(gomock.Any(), gomock.Any(), recompute.Change{
						Entity: recompute.EntityLot, Op: recompute.OpCreate, ID: 12, LotID: 12,
					}).
					Return(nil)
				m.tx.EXPECT().Get(gomock.Any(), int64(12)).Return(&lot.Lot{
					ID:              12,
					OrderID:         3,
					Status:          lot.StatusPending,
					TotalCost:       decimal.NewNullDecimal(decimal.Zero),
					ProgressPercent: 0,
				}, nil)
				m.tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name: "BeginError",
			setupMock: func(m mocks) {
				m.repo.EXPECT().Begin(gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name: "RecomputeErrorRollsBack",
			setupMock: func(m mocks) {
				m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				m.engine.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("write failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.Create(context.Background(), lot.CreateParams{
				OrderID:   3,
				StartDate: new(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
			})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(12), got.ID)
			assert.True(t, got.TotalCost.Valid)
		})
	}
}

func TestService_Update_ReplacesDerivedFields(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	m.engine.EXPECT().
		Apply(gomock.Any(), gomock.Any(), recompute.Change{Entity: recompute.EntityLot, Op: recompute.OpUpdate, ID: 5, LotID: 5}).
		Return(nil)
	m.tx.EXPECT().Get(gomock.Any(), int64(5)).Return(&lot.Lot{
		ID:              5,
		CurrentStage:    "Stitching",
		TotalCost:       decimal.NewNullDecimal(decimal.RequireFromString("270")),
		ProgressPercent: 40,
	}, nil)
	m.tx.EXPECT().Commit().Return(nil)

	l := &lot.Lot{
		ID:              5,
		CurrentStage:    "Stitching",
		TotalCost:       decimal.NewNullDecimal(decimal.RequireFromString("1")),
		ProgressPercent: 99,
	}

	require.NoError(t, svc.Update(context.Background(), l))
	assert.Equal(t, "270", l.TotalCost.Decimal.String())
	assert.Equal(t, 40, l.ProgressPercent)
}

func TestService_Update_NotFound(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Update(gomock.Any(), gomock.Any()).Return(lot.ErrNotFound)

	err := svc.Update(context.Background(), &lot.Lot{ID: 404})
	assert.ErrorIs(t, err, lot.ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Delete(gomock.Any(), int64(8)).Return(nil)
	m.engine.EXPECT().
		Apply(gomock.Any(), gomock.Any(), recompute.Change{Entity: recompute.EntityLot, Op: recompute.OpDelete, ID: 8}).
		Return(nil)
	m.tx.EXPECT().Commit().Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 8))
}

func TestService_List(t *testing.T) {
	svc, m := newService(t)

	orderID := int64(3)
	filter := lot.ListFilter{OrderID: &orderID}

	m.repo.EXPECT().List(gomock.Any(), filter).Return([]*lot.Lot{{ID: 1}, {ID: 2}}, nil)

	got, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
