package client

import (
	"context"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, id int64) (*Client, error)
	List(ctx context.Context, filter ListFilter) ([]*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	// Search matches name, business name, phone number or email, case-insensitively.
	Search string
}

type CreateParams struct {
	Name         string
	BusinessName string
	PhoneNumber  string
	ShopAddress  string
	Email        string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Client, error) {
	c := &Client{
		Name:         params.Name,
		BusinessName: params.BusinessName,
		PhoneNumber:  params.PhoneNumber,
		ShopAddress:  params.ShopAddress,
		Email:        params.Email,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Client, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, c *Client) error {
	return s.repo.Update(ctx, c)
}

// Delete removes the client together with its orders, lots and payments.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
