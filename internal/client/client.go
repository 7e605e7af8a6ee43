package client

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("client not found")

// Client is a customer of the workshop.
type Client struct {
	ID           int64
	Name         string
	BusinessName string
	PhoneNumber  string
	ShopAddress  string
	Email        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
