package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	"github.com/angelmondragon/markethub-backend/pkg/enums"
	"github.com/angelmondragon/markethub-backend/pkg/types"
)

// OrderItemDTO is a checkout-time price/quantity snapshot line.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderDTO is the transport shape for one store-scoped order.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	OrderGroupID    uuid.UUID         `json:"order_group_id"`
	UserID          uuid.UUID         `json:"user_id"`
	StoreID         uuid.UUID         `json:"store_id"`
	OrderNumber     string            `json:"order_number"`
	Status          enums.OrderStatus `json:"status"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	Tax             decimal.Decimal   `json:"tax"`
	Discount        decimal.Decimal   `json:"discount"`
	ShippingCost    decimal.Decimal   `json:"shipping_cost"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	ShippingAddress types.JSONObject  `json:"shipping_address"`
	Items           []OrderItemDTO    `json:"items,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// OrderGroupDTO aggregates the orders created by one checkout call.
type OrderGroupDTO struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	GroupNumber   string              `json:"group_number"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Orders        []OrderDTO          `json:"orders,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ItemFromModel converts an order item to the external DTO.
func ItemFromModel(item *models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Subtotal:  item.Subtotal,
	}
}

// OrderFromModel converts an order (with any loaded items) to the DTO.
func OrderFromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:              order.ID,
		OrderGroupID:    order.OrderGroupID,
		UserID:          order.UserID,
		StoreID:         order.StoreID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		Discount:        order.Discount,
		ShippingCost:    order.ShippingCost,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		CreatedAt:       order.CreatedAt,
	}
	for i := range order.Items {
		dto.Items = append(dto.Items, ItemFromModel(&order.Items[i]))
	}
	return dto
}

// GroupFromModel converts an order group (with any loaded orders) to the DTO.
func GroupFromModel(group *models.OrderGroup) *OrderGroupDTO {
	if group == nil {
		return nil
	}
	dto := &OrderGroupDTO{
		ID:            group.ID,
		UserID:        group.UserID,
		GroupNumber:   group.GroupNumber,
		TotalAmount:   group.TotalAmount,
		PaymentStatus: group.PaymentStatus,
		CreatedAt:     group.CreatedAt,
	}
	for i := range group.Orders {
		dto.Orders = append(dto.Orders, *OrderFromModel(&group.Orders[i]))
	}
	return dto
}
