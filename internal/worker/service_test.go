package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shankh/internal/worker"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params worker.CreateParams
	}

	tests := []struct {
		name      string
		args      args
		setupMock func(m *worker.MockRepository)
		want      *worker.Worker
		wantErr   bool
	}{
		{
			name: "stores the worker",
			args: args{params: worker.CreateParams{Name: "Meena", RatePerHour: decimal.NewFromInt(25), SkillType: "stitching"}},
			setupMock: func(m *worker.MockRepository) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, w *worker.Worker) error {
						w.ID = 3
						return nil
					})
			},
			want: &worker.Worker{ID: 3, Name: "Meena", RatePerHour: decimal.NewFromInt(25), SkillType: "stitching"},
		},
		{
			name: "store failure",
			args: args{params: worker.CreateParams{Name: "Meena"}},
			setupMock: func(m *worker.MockRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := worker.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := worker.NewService(repo).Create(context.Background(), tt.args.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Update_OnlyTouchesWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := worker.NewMockRepository(ctrl)

	w := &worker.Worker{ID: 3, Name: "Meena", RatePerHour: decimal.NewFromInt(30)}
	repo.EXPECT().Update(gomock.Any(), w).Return(nil)

	assert.NoError(t, worker.NewService(repo).Update(context.Background(), w))
}
