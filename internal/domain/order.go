package domain

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID        int64     `json:"id"`
	BuyerID   uuid.UUID `json:"comprador_id"`
	VendorID  uuid.UUID `json:"vendedor_id"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"criado_em"`
}

type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"pedido_id"`
	Product   string  `json:"produto"`
	Quantity  int     `json:"quantidade"`
	UnitPrice float64 `json:"preco_unitario"`
}

type OrderDetail struct {
	Order
	Items []OrderItem `json:"itens"`
}

const (
	OrderStatusPending   = "pendente"
	OrderStatusPaid      = "pago"
	OrderStatusShipped   = "enviado"
	OrderStatusDelivered = "entregue"
	OrderStatusCanceled  = "cancelado"
)

func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}
