package models

import (
	"time"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/google/uuid"
)

type CreateOrderParams struct {
	SellerID int64  `json:"seller_id" binding:"required"`
	BuyerID  int64  `json:"buyer_id" binding:"required"`
	Total    string `json:"total" binding:"required"`
}

type OrderResponse struct {
	ID        uuid.UUID `json:"id"`
	SellerID  int64     `json:"seller_id"`
	BuyerID   int64     `json:"buyer_id"`
	Total     string    `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToOrderResponse leaves the delivery code out; it travels to the buyer
// out of band and must never be readable by the seller.
func ToOrderResponse(order *db.Order) OrderResponse {
	return OrderResponse{
		ID:        order.ID,
		SellerID:  order.SellerID,
		BuyerID:   order.BuyerID,
		Total:     order.Total,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}
}

// CreatedOrderResponse is returned only to the creating system and carries
// the delivery code for hand-off to the buyer.
type CreatedOrderResponse struct {
	OrderResponse
	DeliveryCode string `json:"delivery_code"`
}

func ToCreatedOrderResponse(order *db.Order) CreatedOrderResponse {
	return CreatedOrderResponse{
		OrderResponse: ToOrderResponse(order),
		DeliveryCode:  order.DeliveryCode,
	}
}
