package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shankh/internal/client"
)

func TestService_Create(t *testing.T) {
	tests := []struct {
		name      string
		params    client.CreateParams
		setupMock func(m *client.MockRepository)
		want      *client.Client
		wantErr   bool
	}{
		{
			name:   "stores the client",
			params: client.CreateParams{Name: "Asha", BusinessName: "Asha Textiles", PhoneNumber: "98450 11223"},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *client.Client) error {
						c.ID = 5
						return nil
					})
			},
			want: &client.Client{ID: 5, Name: "Asha", BusinessName: "Asha Textiles", PhoneNumber: "98450 11223"},
		},
		{
			name:   "store failure",
			params: client.CreateParams{Name: "Asha"},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := client.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := client.NewService(repo).Create(context.Background(), tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := client.NewMockRepository(ctrl)
	repo.EXPECT().Delete(gomock.Any(), int64(5)).Return(client.ErrNotFound)

	err := client.NewService(repo).Delete(context.Background(), 5)
	assert.ErrorIs(t, err, client.ErrNotFound)
}
