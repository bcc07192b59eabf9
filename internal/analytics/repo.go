package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository runs read-only aggregate queries over committed orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// StoreSummary aggregates order count, revenue, average order value, and
// distinct buyers since the cutoff.
func (r *Repository) StoreSummary(ctx context.Context, storeID uuid.UUID, since time.Time) (*Summary, error) {
	var summary Summary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_orders,
			COALESCE(SUM(total_amount), 0) AS total_revenue,
			COALESCE(AVG(total_amount), 0) AS average_order_value,
			COUNT(DISTINCT user_id) AS unique_customers
		FROM orders
		WHERE store_id = ? AND created_at >= ?`,
		storeID, since,
	).Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// StoreSalesTrend buckets orders per day since the cutoff. Postgres only:
// DATE_TRUNC has no sqlite equivalent.
func (r *Repository) StoreSalesTrend(ctx context.Context, storeID uuid.UUID, since time.Time) ([]SalesPoint, error) {
	var points []SalesPoint
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE_TRUNC('day', created_at) AS bucket,
			COUNT(*) AS order_count,
			COALESCE(SUM(total_amount), 0) AS total_revenue
		FROM orders
		WHERE store_id = ? AND created_at >= ?
		GROUP BY bucket
		ORDER BY bucket ASC`,
		storeID, since,
	).Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

// StoreTopProducts ranks products by units sold since the cutoff.
func (r *Repository) StoreTopProducts(ctx context.Context, storeID uuid.UUID, since time.Time, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			oi.product_id,
			p.name AS product_name,
			SUM(oi.quantity) AS units_sold,
			COALESCE(SUM(oi.subtotal), 0) AS revenue
		FROM order_items oi
		INNER JOIN orders o ON oi.order_id = o.id
		INNER JOIN products p ON oi.product_id = p.id
		WHERE o.store_id = ? AND o.created_at >= ?
		GROUP BY oi.product_id, p.name
		ORDER BY units_sold DESC
		LIMIT ?`,
		storeID, since, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
