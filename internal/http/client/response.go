package client

import (
	"time"

	"github.com/MrJamesThe3rd/shankh/internal/client"
)

type clientResponse struct {
	ID           int64     `json:"client_id"`
	Name         string    `json:"name"`
	BusinessName string    `json:"business_name,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	ShopAddress  string    `json:"shop_address,omitempty"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toResponse(c *client.Client) clientResponse {
	return clientResponse{
		ID:           c.ID,
		Name:         c.Name,
		BusinessName: c.BusinessName,
		PhoneNumber:  c.PhoneNumber,
		ShopAddress:  c.ShopAddress,
		Email:        c.Email,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toResponseList(clients []*client.Client) []clientResponse {
	resp := make([]clientResponse, len(clients))
	for i, c := range clients {
		resp[i] = toResponse(c)
	}

	return resp
}
