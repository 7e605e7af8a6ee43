package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
	"github.com/MrJamesThe3rd/shankh/internal/order"
)

type orderResponse struct {
	ID                 int64               `json:"order_id"`
	ClientID           int64               `json:"client_id"`
	DesignDescription  string              `json:"design_description,omitempty"`
	NumUnits           int                 `json:"num_units"`
	Deadline           httpx.Date          `json:"deadline"`
	Color              string              `json:"color,omitempty"`
	MaterialType       string              `json:"material_type,omitempty"`
	Status             order.Status        `json:"order_status"`
	TotalEstimatedCost decimal.NullDecimal `json:"total_estimated_cost"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

func toResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:                 o.ID,
		ClientID:           o.ClientID,
		DesignDescription:  o.DesignDescription,
		NumUnits:           o.NumUnits,
		Deadline:           httpx.NewDate(o.Deadline),
		Color:              o.Color,
		MaterialType:       o.MaterialType,
		Status:             o.Status,
		TotalEstimatedCost: o.TotalEstimatedCost,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func toResponseList(orders []*order.Order) []orderResponse {
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toResponse(o)
	}

	return resp
}
