package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/markethub-backend/pkg/enums"
	"github.com/angelmondragon/markethub-backend/pkg/types"
)

// Order is scoped to exactly one store within a group. Totals satisfy
// TotalAmount = Subtotal + Tax + ShippingCost - Discount; contents are
// immutable once created, only status transitions happen afterwards.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderGroupID    uuid.UUID         `gorm:"column:order_group_id;type:uuid;not null;index"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	StoreID         uuid.UUID         `gorm:"column:store_id;type:uuid;not null;index"`
	OrderNumber     string            `gorm:"column:order_number;not null;uniqueIndex"`
	Status          enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax             decimal.Decimal   `gorm:"column:tax;type:numeric(12,2);not null"`
	Discount        decimal.Decimal   `gorm:"column:discount;type:numeric(12,2);not null"`
	ShippingCost    decimal.Decimal   `gorm:"column:shipping_cost;type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	ShippingAddress types.JSONObject  `gorm:"column:shipping_address;type:jsonb;not null"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
