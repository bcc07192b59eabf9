package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/pkg/db/models"
)

// Repository exposes order persistence operations. The Create methods are
// meant to run on a tx-bound copy obtained via WithTx; checkout owns the
// transaction boundary.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateGroup persists the checkout aggregate row.
func (r *Repository) CreateGroup(ctx context.Context, group *models.OrderGroup) error {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Orders").Create(group).Error
}

// CreateOrder persists one store-scoped order.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Items").Create(order).Error
}

// CreateItems persists the snapshot lines for one order.
func (r *Repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindGroupByID loads a group with its orders and their items.
func (r *Repository) FindGroupByID(ctx context.Context, id, userID uuid.UUID) (*models.OrderGroup, error) {
	var group models.OrderGroup
	err := r.db.WithContext(ctx).
		Preload("Orders.Items").
		Preload("Orders").
		Where("id = ? AND user_id = ?", id, userID).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ListOrdersForUser pages a buyer's orders, newest first.
func (r *Repository) ListOrdersForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOrdersForStore pages a store's incoming orders, newest first.
func (r *Repository) ListOrdersForStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
