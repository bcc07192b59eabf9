package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary aggregates a store's order activity over the timeframe.
type Summary struct {
	TotalOrders       int64           `json:"total_orders" gorm:"column:total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue" gorm:"column:total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value" gorm:"column:average_order_value"`
	UniqueCustomers   int64           `json:"unique_customers" gorm:"column:unique_customers"`
	TimeframeDays     int             `json:"timeframe_days" gorm:"-"`
}

// SalesPoint is one day of the sales trend.
type SalesPoint struct {
	Date         time.Time       `json:"date" gorm:"column:bucket"`
	OrderCount   int64           `json:"order_count" gorm:"column:order_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue" gorm:"column:total_revenue"`
}

// TopProduct ranks a product by units sold over the timeframe.
type TopProduct struct {
	ProductID   uuid.UUID       `json:"product_id" gorm:"column:product_id"`
	ProductName string          `json:"product_name" gorm:"column:product_name"`
	UnitsSold   int64           `json:"units_sold" gorm:"column:units_sold"`
	Revenue     decimal.Decimal `json:"revenue" gorm:"column:revenue"`
}

// StoreAnalytics is the full analytics payload for one store.
type StoreAnalytics struct {
	Summary     Summary      `json:"summary"`
	SalesTrend  []SalesPoint `json:"sales_trend"`
	TopProducts []TopProduct `json:"top_products"`
}
