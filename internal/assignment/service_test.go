package assignment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shankh/internal/assignment"
	"github.com/MrJamesThe3rd/shankh/internal/lock"
	"github.com/MrJamesThe3rd/shankh/internal/recompute"
)

type mocks struct {
	repo   *assignment.MockRepository
	tx     *assignment.MockTx
	engine *assignment.MockRecomputer
}

func newService(t *testing.T) (*assignment.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:   assignment.NewMockRepository(ctrl),
		tx:     assignment.NewMockTx(ctrl),
		engine: assignment.NewMockRecomputer(ctrl),
	}

	m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
	m.tx.EXPECT().Queries().Return(nil).AnyTimes()

	return assignment.NewService(m.repo, m.engine, lock.NewLocal(nil)), m
}

func snapshotRate(rate string) func(context.Context, recompute.Queries, int64, recompute.RateAssignable) (bool, error) {
	return func(_ context.Context, _ recompute.Queries, _ int64, a recompute.RateAssignable) (bool, error) {
		a.SetRatePerHour(decimal.RequireFromString(rate))
		return true, nil
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m mocks)
		wantRate  string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "SnapshotsWorkerRate",
			setupMock: func(m mocks) {
				m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.engine.EXPECT().ApplyWorkerRate(gomock.Any(), gomock.Any(), int64(7), gomock.Any()).DoAndReturn(snapshotRate("250"))
				m.tx.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *assignment.Assignment) error {
						assert.Equal(t, "250", a.RatePerHour.Decimal.String())
						a.ID = 31
						return nil
					})
				m.engine.EXPECT().
					Apply(gomock.Any(), gomock.Any(), recompute.Change{
						Entity: recompute.EntityAssignment, Op: recompute.OpCreate, ID: 31, LotID: 2,
					}).
					Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
			},
			wantRate: "250",
		},
		{
			name: "UnknownWorkerKeepsSuppliedRate",
			setupMock: func(m mocks) {
				m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.engine.EXPECT().ApplyWorkerRate(gomock.Any(), gomock.Any(), int64(7), gomock.Any()).Return(false, nil)
				m.tx.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				m.engine.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
			},
			wantRate: "40",
		},
		{
			name: "StoreFailure",
			setupMock: func(m mocks) {
				m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.engine.EXPECT().ApplyWorkerRate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				m.tx.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("fk violation"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.Create(context.Background(), assignment.CreateParams{
				LotID:         2,
				WorkerID:      7,
				UnitsProduced: 10,
				HoursWorked:   decimal.NewFromInt(4),
				RatePerHour:   decimal.NewNullDecimal(decimal.NewFromInt(40)),
			})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRate, got.RatePerHour.Decimal.String())
		})
	}
}

func TestService_Update_MovedToAnotherLot(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().Get(gomock.Any(), int64(31)).Return(&assignment.Assignment{ID: 31, LotID: 2, WorkerID: 7}, nil)
	m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.engine.EXPECT().ApplyWorkerRate(gomock.Any(), gomock.Any(), int64(7), gomock.Any()).DoAndReturn(snapshotRate("300"))
	m.tx.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	m.engine.EXPECT().
		Apply(gomock.Any(), gomock.Any(), recompute.Change{
			Entity: recompute.EntityAssignment, Op: recompute.OpUpdate, ID: 31, LotID: 5, PrevLotID: 2,
		}).
		Return(nil)
	m.tx.EXPECT().Commit().Return(nil)

	a := &assignment.Assignment{
		ID:          31,
		LotID:       5,
		WorkerID:    7,
		HoursWorked: decimal.NewFromInt(4),
		RatePerHour: decimal.NewNullDecimal(decimal.NewFromInt(250)),
	}

	require.NoError(t, svc.Update(context.Background(), a))
	assert.Equal(t, "300", a.RatePerHour.Decimal.String())
	assert.Equal(t, "1200", a.LaborCost().String())
}

func TestService_Update_NotFound(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().Get(gomock.Any(), int64(99)).Return(nil, assignment.ErrNotFound)

	err := svc.Update(context.Background(), &assignment.Assignment{ID: 99})
	assert.ErrorIs(t, err, assignment.ErrNotFound)
}

func TestService_Delete_RecomputesFormerLot(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().Get(gomock.Any(), int64(31)).Return(&assignment.Assignment{ID: 31, LotID: 2}, nil)
	m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Delete(gomock.Any(), int64(31)).Return(nil)
	m.engine.EXPECT().
		Apply(gomock.Any(), gomock.Any(), recompute.Change{
			Entity: recompute.EntityAssignment, Op: recompute.OpDelete, ID: 31, LotID: 2,
		}).
		Return(nil)
	m.tx.EXPECT().Commit().Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 31))
}
