package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
)

// CartItemDTO is the transport shape for a raw cart row.
type CartItemDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine is a cart row joined with its live product and store. Prices here
// are the current listing prices; checkout snapshots them into order items.
type CartLine struct {
	CartItemID  uuid.UUID       `json:"cart_item_id" gorm:"column:cart_item_id"`
	ProductID   uuid.UUID       `json:"product_id" gorm:"column:product_id"`
	StoreID     uuid.UUID       `json:"store_id" gorm:"column:store_id"`
	StoreName   string          `json:"store_name" gorm:"column:store_name"`
	ProductName string          `json:"product_name" gorm:"column:product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"column:unit_price"`
	Quantity    int             `json:"quantity" gorm:"column:quantity"`
}

// FromModel converts a model to the external DTO.
func FromModel(item *models.CartItem) *CartItemDTO {
	if item == nil {
		return nil
	}
	return &CartItemDTO{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		AddedAt:   item.AddedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
